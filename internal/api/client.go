// Package api implements the HTTP access layer for the ALONU backend:
// consistent headers, opportunistic bearer-token injection, normalized
// response bodies and a composite error shape shared by every domain
// module.
package api

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

	"github.com/alonu/alonu-client/internal/config"
	"github.com/rs/zerolog/log"
)

// Client performs every outbound API call. A single instance is
// constructed at application start and passed to the domain modules.
type Client struct {
	baseURL    string
	httpClient *http.Client
	tokens     *TokenSource
	timeout    time.Duration
}

type ClientOption func(*Client)

// WithHTTPClient replaces the underlying HTTP client, primarily so tests
// and telemetry wiring can supply their own transport.
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *Client) {
		c.httpClient = hc
	}
}

func NewClient(cfg config.APIConfig, tokens *TokenSource, opts ...ClientOption) *Client {
	c := &Client{
		baseURL:    strings.TrimSuffix(cfg.BaseURL, "/"),
		httpClient: http.DefaultClient,
		tokens:     tokens,
		timeout:    time.Duration(cfg.RequestTimeoutSeconds) * time.Second,
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// Tokens exposes the client's token source for session integration
// (adopting a user token after sign-in, clearing on logout).
func (c *Client) Tokens() *TokenSource {
	return c.tokens
}

// Response is the normalized envelope for a transport-level success. Data
// is decoded from JSON bodies; Raw carries the normalized body bytes
// (JSON, plain text, or "{}" for empty bodies).
type Response[T any] struct {
	Data    T
	Raw     []byte
	Status  int
	Success bool
}

type requestOptions struct {
	token    string
	hasToken bool
}

type RequestOption func(*requestOptions)

// WithToken attaches an explicit bearer token, bypassing automatic
// acquisition. An empty token sends the request unauthenticated.
func WithToken(token string) RequestOption {
	return func(o *requestOptions) {
		o.token = token
		o.hasToken = true
	}
}

func Get[T any](ctx context.Context, c *Client, endpoint string, opts ...RequestOption) (Response[T], error) {
	return Do[T](ctx, c, http.MethodGet, endpoint, nil, opts...)
}

func Post[T any](ctx context.Context, c *Client, endpoint string, body any, opts ...RequestOption) (Response[T], error) {
	return Do[T](ctx, c, http.MethodPost, endpoint, body, opts...)
}

func Put[T any](ctx context.Context, c *Client, endpoint string, body any, opts ...RequestOption) (Response[T], error) {
	return Do[T](ctx, c, http.MethodPut, endpoint, body, opts...)
}

func Delete[T any](ctx context.Context, c *Client, endpoint string, opts ...RequestOption) (Response[T], error) {
	return Do[T](ctx, c, http.MethodDelete, endpoint, nil, opts...)
}

// Do performs a request and decodes a JSON body into T. A body that is
// empty, non-JSON or malformed after a 2xx leaves Data at its zero value
// rather than failing: public listing pages must keep rendering whatever
// the backend returns.
func Do[T any](ctx context.Context, c *Client, method, endpoint string, body any, opts ...RequestOption) (Response[T], error) {
	options := requestOptions{}
	for _, opt := range opts {
		opt(&options)
	}

	raw, isJSON, status, err := c.request(ctx, method, endpoint, body, options)
	if err != nil {
		return Response[T]{Status: status}, err
	}

	resp := Response[T]{Raw: raw, Status: status, Success: true}
	if isJSON && len(raw) > 0 {
		if derr := json.Unmarshal(raw, &resp.Data); derr != nil {
			log.Debug().Err(derr).Str("endpoint", endpoint).
				Msg("response decode failed, returning zero value")
		}
	}

	return resp, nil
}

// RequiresToken classifies an endpoint path. Auth-namespace endpoints are
// public by default except the protected subcategory listing; uniqueness
// probes always need a token; everything else is treated as protected.
func RequiresToken(endpoint string) bool {
	switch {
	case strings.Contains(endpoint, "/check_"):
		return true
	case strings.Contains(endpoint, "/auth/sous_categorie"):
		return true
	case strings.Contains(endpoint, "/auth/"):
		return false
	default:
		return true
	}
}

func isAuthEndpoint(endpoint string) bool {
	return strings.Contains(endpoint, "/auth/")
}

// request sends the call, applying the default deadline, token policy and
// the single 401 retry-without-token fallback. It returns the normalized
// body, whether it is JSON, and the response status.
func (c *Client) request(ctx context.Context, method, endpoint string, body any, options requestOptions) ([]byte, bool, int, error) {
	if c.timeout > 0 {
		if _, ok := ctx.Deadline(); !ok {
			var cancel context.CancelFunc
			ctx, cancel = context.WithTimeout(ctx, c.timeout)
			defer cancel()
		}
	}

	var payload []byte
	if body != nil {
		var err error
		payload, err = json.Marshal(body)
		if err != nil {
			return nil, false, 0, fmt.Errorf("request body encoding failed: %w", err)
		}
	}

	token := ""
	if options.hasToken {
		token = options.token
	} else if RequiresToken(endpoint) {
		// Acquisition failure is non-fatal: public endpoints keep working
		// without a token.
		token = c.tokens.Acquire(ctx)
	}

	resp, err := c.send(ctx, method, endpoint, payload, token)
	if err != nil {
		return nil, false, 0, err
	}

	// A 401 with a token attached may simply mean the endpoint is public
	// and the (bootstrap) token is not honored there: retry once bare.
	if resp.StatusCode == http.StatusUnauthorized && token != "" && !isAuthEndpoint(endpoint) {
		_, _ = io.Copy(io.Discard, resp.Body)
		resp.Body.Close()

		log.Debug().Str("endpoint", endpoint).
			Msg("401 with token attached, retrying without authorization")

		resp, err = c.send(ctx, method, endpoint, payload, "")
		if err != nil {
			return nil, false, 0, err
		}
	}

	defer resp.Body.Close()
	text, readErr := io.ReadAll(resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, false, resp.StatusCode, &Error{
			Status:  resp.StatusCode,
			Message: extractMessage(resp.StatusCode, text),
		}
	}

	raw, isJSON := normalizeBody(resp, text, readErr)
	return raw, isJSON, resp.StatusCode, nil
}

func (c *Client) send(ctx context.Context, method, endpoint string, payload []byte, token string) (*http.Response, error) {
	var reader io.Reader
	if payload != nil {
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+endpoint, reader)
	if err != nil {
		return nil, fmt.Errorf("request creation failed: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return nil, fmt.Errorf("request deadline exceeded for %s: %w", endpoint, context.DeadlineExceeded)
		}

		// The transport error is logged in full; the returned message stays
		// generic so internals do not leak into user-facing toasts.
		log.Debug().Err(err).Str("endpoint", endpoint).Msg("transport failure")
		return nil, fmt.Errorf("api request failed for %s: %w", endpoint, errTransport)
	}

	return resp, nil
}

var errTransport = errors.New("network error")

// normalizeBody maps the wire body to the envelope shape: empty bodies
// and malformed JSON become "{}"; non-JSON bodies pass through as text.
func normalizeBody(resp *http.Response, text []byte, readErr error) ([]byte, bool) {
	empty := []byte("{}")

	if resp.StatusCode == http.StatusNoContent || resp.Header.Get("Content-Length") == "0" {
		return empty, true
	}
	if readErr != nil || len(text) == 0 {
		return empty, true
	}

	contentType := resp.Header.Get("Content-Type")
	if strings.Contains(contentType, "application/json") {
		if !json.Valid(text) {
			return empty, true
		}
		return text, true
	}

	return text, false
}
