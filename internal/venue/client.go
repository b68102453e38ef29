// Package venue provides the Hyperliquid API client and record normalizers.
package venue

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	apperrors "hyperliquid-journal/internal/errors"
	"hyperliquid-journal/pkg/utils"
)

const (
	// DefaultAPIURL is the production info endpoint.
	DefaultAPIURL = "https://api.hyperliquid.xyz/info"

	defaultTimeout = 15 * time.Second
	defaultRate    = 10 // requests per second
)

// Client is the Hyperliquid info-API client with rate limiting, bounded
// retries and a fixed request timeout. All reads go through a single POST
// endpoint with a typed request body.
type Client struct {
	http    *http.Client
	apiURL  string
	limiter *rate.Limiter
	retry   utils.RetryConfig
	logger  zerolog.Logger

	// Spot metadata is fetched once and cached for the client lifetime.
	metaMu    sync.Mutex
	spotNames map[string]string
}

// ClientConfig holds client construction options.
type ClientConfig struct {
	APIURL         string
	RequestTimeout time.Duration
	RatePerSecond  int
}

// NewClient creates a Client. Zero-valued config fields fall back to the
// production defaults.
func NewClient(cfg ClientConfig, logger zerolog.Logger) *Client {
	if cfg.APIURL == "" {
		cfg.APIURL = DefaultAPIURL
	}
	if cfg.RequestTimeout <= 0 {
		cfg.RequestTimeout = defaultTimeout
	}
	if cfg.RatePerSecond <= 0 {
		cfg.RatePerSecond = defaultRate
	}

	retryCfg := utils.DefaultRetryConfig()
	retryCfg.ShouldRetry = func(err error) bool {
		var te *apperrors.TransportError
		return apperrors.As(err, &te) && te.Retryable()
	}

	return &Client{
		http:    &http.Client{Timeout: cfg.RequestTimeout},
		apiURL:  cfg.APIURL,
		limiter: rate.NewLimiter(rate.Limit(cfg.RatePerSecond), cfg.RatePerSecond),
		retry:   retryCfg,
		logger:  logger.With().Str("component", "venue").Logger(),
	}
}

// post sends one info request and decodes the response into out, applying
// the retry policy: up to three attempts with exponential backoff, retried
// only on rate limits, server errors and timeouts.
func (c *Client) post(ctx context.Context, req infoRequest, out any) error {
	attempts := 0
	err := utils.Retry(ctx, c.retry, func() error {
		attempts++
		if err := c.limiter.Wait(ctx); err != nil {
			return apperrors.NewTransportError(req.Type, 0, attempts, err)
		}
		err := c.doOnce(ctx, req, out)
		if err != nil {
			var te *apperrors.TransportError
			if apperrors.As(err, &te) {
				te.Attempts = attempts
				if te.Retryable() {
					c.logger.Warn().
						Str("request", req.Type).
						Int("attempt", attempts).
						Err(err).
						Msg("retryable venue request failure")
				}
			}
		}
		return err
	})
	if err != nil {
		return err
	}
	return nil
}

// doOnce performs a single request attempt.
func (c *Client) doOnce(ctx context.Context, req infoRequest, out any) error {
	body, err := json.Marshal(req)
	if err != nil {
		return fmt.Errorf("marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.apiURL, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(httpReq)
	if err != nil {
		if isTimeout(err) {
			return apperrors.NewTransportError(req.Type, 0, 1, apperrors.ErrTimeout)
		}
		return apperrors.NewTransportError(req.Type, 0, 1, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusTooManyRequests:
		io.Copy(io.Discard, resp.Body)
		return apperrors.NewTransportError(req.Type, resp.StatusCode, 1, apperrors.ErrRateLimited)
	case resp.StatusCode >= 500:
		io.Copy(io.Discard, resp.Body)
		return apperrors.NewTransportError(req.Type, resp.StatusCode, 1, apperrors.ErrServerError)
	case resp.StatusCode >= 400:
		// Other 4xx means a malformed request, not a transient failure.
		msg, _ := io.ReadAll(resp.Body)
		return apperrors.NewTransportError(req.Type, resp.StatusCode, 1,
			fmt.Errorf("client error: %s", string(msg)))
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s response: %w", req.Type, err)
	}
	return nil
}

// isTimeout reports whether err is a client or network timeout.
func isTimeout(err error) bool {
	type timeouter interface{ Timeout() bool }
	var t timeouter
	if apperrors.As(err, &t) {
		return t.Timeout()
	}
	return apperrors.Is(err, context.DeadlineExceeded)
}

// FetchRawFills fetches the raw fill history for a wallet, partial fills
// aggregated by time.
func (c *Client) FetchRawFills(ctx context.Context, wallet string) ([]RawFill, error) {
	var fills []RawFill
	err := c.post(ctx, infoRequest{Type: reqUserFills, User: wallet, AggregateByTime: true}, &fills)
	if err != nil {
		return nil, err
	}
	return fills, nil
}

// FetchRawFunding fetches the full funding ledger for a wallet.
func (c *Client) FetchRawFunding(ctx context.Context, wallet string) ([]RawFunding, error) {
	var funding []RawFunding
	err := c.post(ctx, infoRequest{Type: reqUserFunding, User: wallet}, &funding)
	if err != nil {
		return nil, err
	}
	return funding, nil
}

// fetchClearinghouseState fetches the account margin snapshot.
func (c *Client) fetchClearinghouseState(ctx context.Context, wallet string) (*RawClearinghouseState, error) {
	var state RawClearinghouseState
	err := c.post(ctx, infoRequest{Type: reqClearinghouseState, User: wallet}, &state)
	if err != nil {
		return nil, err
	}
	return &state, nil
}

// fetchAllMids fetches current mid prices for all assets.
func (c *Client) fetchAllMids(ctx context.Context) (map[string]string, error) {
	mids := make(map[string]string)
	if err := c.post(ctx, infoRequest{Type: reqAllMids}, &mids); err != nil {
		return nil, err
	}
	return mids, nil
}

// fetchOpenOrders fetches open orders, including position TP/SL triggers.
func (c *Client) fetchOpenOrders(ctx context.Context, wallet string) ([]RawOpenOrder, error) {
	var orders []RawOpenOrder
	err := c.post(ctx, infoRequest{Type: reqOpenOrders, User: wallet}, &orders)
	if err != nil {
		return nil, err
	}
	return orders, nil
}
