// Package gateway is the typed client for the external feedback backend.
// Every failure resolves to a tagged result or an error from pkg/errors.
package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"go.uber.org/zap"

	apperrors "github.com/jadamsuryateja/feedback-console/pkg/errors"
)

const genericServerMessage = "Server error"

// Client talks to the upstream REST API under baseURL.
type Client struct {
	baseURL string
	http    *http.Client
	logger  *zap.Logger
}

// New builds a Client. A nil httpClient uses http.DefaultClient; timeouts
// belong to the caller's client.
func New(baseURL string, httpClient *http.Client, logger *zap.Logger) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    httpClient,
		logger:  logger.Named("gateway"),
	}
}

// request describes one upstream call.
type request struct {
	op     string
	method string
	path   string
	query  url.Values
	token  string
	body   interface{}
}

// errorPayload is the upstream's structured error body.
type errorPayload struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// upstreamError carries the parsed non-2xx response before it is mapped.
type upstreamError struct {
	status  int
	message string
	parsed  bool
}

func (c *Client) newRequest(ctx context.Context, r request) (*http.Request, error) {
	u := c.baseURL + r.path
	if len(r.query) > 0 {
		u += "?" + r.query.Encode()
	}

	var body io.Reader
	if r.body != nil {
		b, err := json.Marshal(r.body)
		if err != nil {
			return nil, fmt.Errorf("%s: encode body: %w", r.op, err)
		}
		body = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, r.method, u, body)
	if err != nil {
		return nil, fmt.Errorf("%s: build request: %w", r.op, err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if r.token != "" {
		req.Header.Set("Authorization", "Bearer "+r.token)
	}
	return req, nil
}

// send performs r and returns the raw 2xx body, or an *upstreamError for
// any other status.
func (c *Client) send(ctx context.Context, r request) ([]byte, error) {
	req, err := c.newRequest(ctx, r)
	if err != nil {
		return nil, err
	}

	resp, err := c.http.Do(req)
	if err != nil {
		c.logger.Error("upstream unreachable", zap.String("op", r.op), zap.Error(err))
		return nil, &apperrors.TransportError{Op: r.op, Err: err}
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		c.logger.Error("read upstream response", zap.String("op", r.op), zap.Error(err))
		return nil, &apperrors.TransportError{Op: r.op, Err: err}
	}

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return data, nil
	}

	ue := &upstreamError{status: resp.StatusCode, message: genericServerMessage}
	var p errorPayload
	if json.Unmarshal(data, &p) == nil {
		switch {
		case p.Error != "":
			ue.message, ue.parsed = p.Error, true
		case p.Message != "":
			ue.message, ue.parsed = p.Message, true
		}
	}
	c.logger.Warn("upstream request failed",
		zap.String("op", r.op),
		zap.Int("status", resp.StatusCode),
		zap.String("message", ue.message),
	)
	return nil, ue
}

func (e *upstreamError) Error() string {
	return fmt.Sprintf("upstream %d: %s", e.status, e.message)
}

// mapError turns an upstreamError into the public taxonomy. Other errors
// pass through unchanged.
func mapError(err error) error {
	var ue *upstreamError
	if !errors.As(err, &ue) {
		return err
	}
	switch ue.status {
	case http.StatusUnauthorized, http.StatusForbidden:
		return fmt.Errorf("%w: %s", apperrors.ErrAuthentication, ue.message)
	case http.StatusNotFound:
		return fmt.Errorf("%w: %s", apperrors.ErrNotFound, ue.message)
	}
	msg := genericServerMessage
	if ue.parsed {
		msg = ue.message
	}
	return &apperrors.ServerError{Status: ue.status, Message: msg}
}

// do sends r and decodes a 2xx JSON body into out (if non-nil). An empty or
// malformed success body is a ServerError, never a silent success.
func (c *Client) do(ctx context.Context, r request, out interface{}) error {
	data, err := c.send(ctx, r)
	if err != nil {
		return mapError(err)
	}
	if out == nil {
		return nil
	}
	if err := decode(data, out); err != nil {
		c.logger.Warn("malformed upstream payload", zap.String("op", r.op), zap.Error(err))
		return &apperrors.ServerError{Status: http.StatusBadGateway, Message: genericServerMessage}
	}
	return nil
}

func decode(data []byte, out interface{}) error {
	if len(bytes.TrimSpace(data)) == 0 {
		return errors.New("empty body")
	}
	return json.Unmarshal(data, out)
}

func requireToken(token string) error {
	if strings.TrimSpace(token) == "" {
		return apperrors.ErrAuthentication
	}
	return nil
}
