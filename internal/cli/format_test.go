package cli

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestFormatUSD(t *testing.T) {
	assert.Equal(t, "$12.34", FormatUSD(12.34))
	assert.Equal(t, "-$12.34", FormatUSD(-12.34))
	assert.Equal(t, "$0.00", FormatUSD(0))
}

func TestFormatSignedUSD(t *testing.T) {
	assert.Equal(t, "+$12.34", FormatSignedUSD(12.34))
	assert.Equal(t, "-$12.34", FormatSignedUSD(-12.34))
	assert.Equal(t, "$0.00", FormatSignedUSD(0))
}

func TestFormatPricePrecisionByMagnitude(t *testing.T) {
	assert.Equal(t, "60123.46", FormatPrice(60123.456))
	assert.Equal(t, "3.1416", FormatPrice(3.14159))
	assert.Equal(t, "0.000123", FormatPrice(0.000123))
}

func TestFormatDuration(t *testing.T) {
	assert.Equal(t, "45s", FormatDuration(45*time.Second))
	assert.Equal(t, "5m", FormatDuration(5*time.Minute+20*time.Second))
	assert.Equal(t, "2.5h", FormatDuration(2*time.Hour+30*time.Minute))
	assert.Equal(t, "3.0d", FormatDuration(72*time.Hour))
}

func TestFormatTime(t *testing.T) {
	assert.Equal(t, "-", FormatTime(0))
	assert.NotEqual(t, "-", FormatTime(1700000000000))
}
