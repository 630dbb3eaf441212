// Package syncer pushes pending local writes to the remote API and records
// the outcome per row. It is best-effort: one row's failure never blocks its
// siblings, and nothing here merges data — a server-side version mismatch
// only marks the row conflicted for manual resolution.
package syncer

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/avast/retry-go/v4"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// ErrConflict means the server rejected the push with a version mismatch.
var ErrConflict = errors.New("server reported conflict")

// ErrTokenExpired means the stored credential has lapsed; a new login is
// needed before syncing.
var ErrTokenExpired = errors.New("auth token expired")

const (
	pushAttempts = 3
	pushBackoff  = 500 * time.Millisecond
)

// Pusher is the remote side of a sync pass.
type Pusher interface {
	Push(ctx context.Context, collection string, id int, record any) error
}

// Client talks to the remote asset API. Every request carries the bearer
// token and a stable client instance ID so the server can attribute writes
// to this installation.
type Client struct {
	baseURL  string
	token    string
	clientID string
	http     *http.Client
}

func NewClient(baseURL, token string) *Client {
	return &Client{
		baseURL:  baseURL,
		token:    token,
		clientID: uuid.NewString(),
		http:     &http.Client{Timeout: 15 * time.Second},
	}
}

// CheckToken rejects a sync pass early when the stored JWT has expired. The
// signature is the server's to verify; only the expiry claim is read here.
func (c *Client) CheckToken() error {
	if c.token == "" {
		return errors.New("no auth token; login first")
	}
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(c.token, claims); err != nil {
		return fmt.Errorf("parse auth token: %w", err)
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return nil // no expiry claim; let the server decide
	}
	if time.Now().After(exp.Time) {
		return ErrTokenExpired
	}
	return nil
}

// Ping probes the remote API. Used by the network monitor to detect the
// offline-to-online transition.
func (c *Client) Ping(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/health", nil)
	if err != nil {
		return err
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("health check returned %d", resp.StatusCode)
	}
	return nil
}

// Push uploads one record. Transient failures (network errors, 5xx) are
// retried with exponential backoff up to pushAttempts; a 409 maps to
// ErrConflict and other 4xx responses fail immediately.
func (c *Client) Push(ctx context.Context, collection string, id int, record any) error {
	body, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("encode record: %w", err)
	}
	url := fmt.Sprintf("%s/api/v1/sync/%s/%d", c.baseURL, collection, id)

	return retry.Do(
		func() error {
			req, err := http.NewRequestWithContext(ctx, http.MethodPut, url, bytes.NewReader(body))
			if err != nil {
				return retry.Unrecoverable(err)
			}
			req.Header.Set("Content-Type", "application/json")
			req.Header.Set("Authorization", "Bearer "+c.token)
			req.Header.Set("X-Client-ID", c.clientID)

			resp, err := c.http.Do(req)
			if err != nil {
				return err
			}
			defer resp.Body.Close()
			io.Copy(io.Discard, resp.Body)

			switch {
			case resp.StatusCode >= 200 && resp.StatusCode < 300:
				return nil
			case resp.StatusCode == http.StatusConflict:
				return retry.Unrecoverable(ErrConflict)
			case resp.StatusCode >= 500:
				return fmt.Errorf("server returned %d", resp.StatusCode)
			default:
				return retry.Unrecoverable(fmt.Errorf("server rejected record: %d", resp.StatusCode))
			}
		},
		retry.Context(ctx),
		retry.Attempts(pushAttempts),
		retry.Delay(pushBackoff),
		retry.DelayType(retry.BackOffDelay),
		retry.LastErrorOnly(true),
	)
}
