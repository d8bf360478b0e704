package httpx

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/cenkalti/backoff/v4"

	apperrors "speech-insight/internal/app/errors"
)

// JSONClient posts JSON documents to a model service and retries transient failures
type JSONClient struct {
	HTTPClient     *http.Client
	Token          string
	MaxElapsedTime time.Duration
}

// NewJSONClient creates a client with the given request timeout and retry budget
func NewJSONClient(token string, timeout, maxElapsed time.Duration) *JSONClient {
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	return &JSONClient{
		HTTPClient:     &http.Client{Timeout: timeout},
		Token:          token,
		MaxElapsedTime: maxElapsed,
	}
}

// StatusError is returned for non-2xx responses
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("unexpected status %d: %s", e.StatusCode, e.Body)
}

// Retryable reports whether the request may succeed on a later attempt
func (e *StatusError) Retryable() bool {
	return e.StatusCode >= 500 || e.StatusCode == http.StatusTooManyRequests
}

// PostJSON sends payload to url and decodes the response into target.
// 5xx and 429 responses are retried with exponential backoff, other 4xx fail at once.
func (c *JSONClient) PostJSON(ctx context.Context, url string, payload, target interface{}) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal request: %w", err)
	}

	bo := backoff.NewExponentialBackOff()
	bo.MaxElapsedTime = c.MaxElapsedTime
	if bo.MaxElapsedTime <= 0 {
		bo.MaxElapsedTime = 20 * time.Second
	}

	var lastErr error
	op := func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(data))
		if err != nil {
			lastErr = err
			return backoff.Permanent(err)
		}
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("Accept", "application/json")
		if c.Token != "" {
			req.Header.Set("Authorization", "Bearer "+c.Token)
		}

		resp, err := c.HTTPClient.Do(req)
		if err != nil {
			lastErr = apperrors.ErrRequestFailed.With(err)
			return lastErr
		}
		defer resp.Body.Close()

		body, err := io.ReadAll(resp.Body)
		if err != nil {
			lastErr = fmt.Errorf("failed to read response: %w", err)
			return lastErr
		}

		if resp.StatusCode < 200 || resp.StatusCode >= 300 {
			statusErr := &StatusError{StatusCode: resp.StatusCode, Body: string(body)}
			lastErr = apperrors.ErrRequestFailed.With(statusErr)
			if !statusErr.Retryable() {
				return backoff.Permanent(lastErr)
			}
			return lastErr
		}

		if err := json.Unmarshal(body, target); err != nil {
			lastErr = apperrors.ErrResponseInvalid.With(fmt.Errorf("json decode error: %v body=%s", err, string(body)))
			return backoff.Permanent(lastErr)
		}
		lastErr = nil
		return nil
	}

	if err := backoff.Retry(op, backoff.WithContext(bo, ctx)); err != nil {
		if lastErr != nil {
			return lastErr
		}
		return err
	}
	return nil
}
