// Package gateway is the booking client's view of the seat gateway: fetch
// the seat statuses, book a set of seats, reset everything.
package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// ErrGatewayFailure wraps every transport error and non-2xx response.
var ErrGatewayFailure = errors.New("gateway failure")

// SeatState is one seat as reported by the gateway.  SeatNumber is 1-based.
type SeatState struct {
	SeatNumber int    `json:"seat_number"`
	Status     string `json:"status"`
}

// Gateway is the remote persistence the booking session talks to.
type Gateway interface {
	FetchSeats(ctx context.Context) ([]SeatState, error)
	BookSeats(ctx context.Context, numbers []int) error
	ResetSeats(ctx context.Context) error
}

// Client implements Gateway over HTTP.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient returns a Client for baseURL.  timeout bounds every request;
// zero means 10s.
func NewClient(baseURL string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
	}
}

// FetchSeats returns every seat in seat-number order.
func (c *Client) FetchSeats(ctx context.Context) ([]SeatState, error) {
	var out struct {
		Items []SeatState `json:"items"`
	}
	if err := c.do(ctx, http.MethodGet, "/v1/seats", nil, &out); err != nil {
		return nil, fmt.Errorf("fetch seats: %w", err)
	}
	return out.Items, nil
}

// BookSeats books the given 1-based seat numbers.
func (c *Client) BookSeats(ctx context.Context, numbers []int) error {
	body := struct {
		Seats []int `json:"seats"`
	}{Seats: numbers}
	if err := c.do(ctx, http.MethodPost, "/v1/seats/book", body, nil); err != nil {
		return fmt.Errorf("book seats: %w", err)
	}
	return nil
}

// ResetSeats marks every seat available.
func (c *Client) ResetSeats(ctx context.Context) error {
	if err := c.do(ctx, http.MethodPost, "/v1/seats/reset", struct{}{}, nil); err != nil {
		return fmt.Errorf("reset seats: %w", err)
	}
	return nil
}

func (c *Client) do(ctx context.Context, method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		buf, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		body = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("%w: create request: %v", ErrGatewayFailure, err)
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrGatewayFailure, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("%w (status %d): %s", ErrGatewayFailure, resp.StatusCode, errorMessage(raw))
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%w: decode response: %v", ErrGatewayFailure, err)
	}
	return nil
}

// errorMessage pulls "error" out of a JSON error body, falling back to the
// raw text.
func errorMessage(raw []byte) string {
	var e struct {
		Error string `json:"error"`
	}
	if json.Unmarshal(raw, &e) == nil && e.Error != "" {
		return e.Error
	}
	return strings.TrimSpace(string(raw))
}
