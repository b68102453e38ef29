package errors

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTransportErrorRetryable(t *testing.T) {
	cases := []struct {
		name      string
		err       *TransportError
		retryable bool
	}{
		{"rate limited", NewTransportError("userFills", 429, 1, ErrRateLimited), true},
		{"server error", NewTransportError("userFills", 500, 1, ErrServerError), true},
		{"bad gateway", NewTransportError("userFills", 502, 1, ErrServerError), true},
		{"timeout without status", NewTransportError("userFills", 0, 1, ErrTimeout), true},
		{"bad request", NewTransportError("userFills", 400, 1, assert.AnError), false},
		{"unprocessable", NewTransportError("userFills", 422, 1, assert.AnError), false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.retryable, tc.err.Retryable())
		})
	}
}

func TestTransportErrorUnwrapsSentinel(t *testing.T) {
	err := NewTransportError("userFunding", 429, 3, ErrRateLimited)
	assert.True(t, Is(err, ErrRateLimited))

	var te *TransportError
	assert.True(t, As(err, &te))
	assert.Equal(t, 3, te.Attempts)
	assert.Contains(t, err.Error(), "userFunding")
	assert.Contains(t, err.Error(), "429")
}

func TestReconciliationGapString(t *testing.T) {
	gap := ReconciliationGap{
		FillID:    "900001",
		Asset:     "ETH",
		Direction: "short",
		Reason:    "close with no open exposure in synced history",
	}
	s := gap.String()
	assert.Contains(t, s, "900001")
	assert.Contains(t, s, "ETH")
	assert.Contains(t, s, "short")
}

func TestWrapNilIsNil(t *testing.T) {
	assert.NoError(t, Wrap(nil, "context"))
	assert.NoError(t, Wrapf(nil, "context %d", 1))
}

func TestWrapPreservesChain(t *testing.T) {
	err := Wrap(ErrNotFound, "lookup fill")
	assert.True(t, Is(err, ErrNotFound))
	assert.Contains(t, err.Error(), "lookup fill")
}
