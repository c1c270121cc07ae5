package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/alonu/alonu-client/internal/config"
	"github.com/alonu/alonu-client/internal/storage"
	"github.com/golang-jwt/jwt/v4"
	"github.com/rs/zerolog/log"
)

// TokenSource acquires and caches the bootstrap bearer token used to read
// protected endpoints on behalf of anonymous visitors. Acquisition order:
// in-memory token, durable token cache (purged past its TTL), a persisted
// end-user session token, the configured public token, and finally a
// guarded sign-in with the bootstrap service account.
//
// Acquisition never returns an error: every failure degrades to "no
// token". A single sign-in is in flight at a time; callers arriving while
// one is in progress get no token immediately rather than queueing. After
// MaxSigninAttempts consecutive failures no further sign-ins are attempted
// for the lifetime of the process.
type TokenSource struct {
	cfg        config.AuthConfig
	signinURL  string
	httpClient *http.Client
	store      *storage.Store
	tokenTTL   time.Duration

	mu                sync.Mutex
	token             string
	inProgress        bool
	failures          int
	permanentlyFailed bool
}

type TokenSourceOption func(*TokenSource)

// WithTokenHTTPClient replaces the HTTP client used for the sign-in call.
func WithTokenHTTPClient(hc *http.Client) TokenSourceOption {
	return func(t *TokenSource) {
		t.httpClient = hc
	}
}

func NewTokenSource(cfg config.AuthConfig, baseURL string, store *storage.Store, opts ...TokenSourceOption) *TokenSource {
	t := &TokenSource{
		cfg:        cfg,
		signinURL:  baseURL + "/auth/signin",
		httpClient: http.DefaultClient,
		store:      store,
		tokenTTL:   time.Duration(cfg.TokenTTLMinutes) * time.Minute,
	}

	for _, opt := range opts {
		opt(t)
	}

	return t
}

// SetToken adopts a token obtained elsewhere (an end-user sign-in) and
// resets the failure state: a fresh credential means acquisition is worth
// retrying later.
func (t *TokenSource) SetToken(token string) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.token = token
	t.failures = 0
	t.permanentlyFailed = false
}

// Clear drops the in-memory token and the durable bootstrap cache.
func (t *TokenSource) Clear() {
	t.mu.Lock()
	t.token = ""
	t.mu.Unlock()

	t.store.Delete(storage.KeyAuthToken, storage.KeyAuthTimestamp)
}

// Acquire returns a bearer token, or "" when none can be obtained.
func (t *TokenSource) Acquire(ctx context.Context) string {
	t.mu.Lock()

	if t.token != "" {
		token := t.token
		t.mu.Unlock()
		return token
	}

	if token := t.adoptStored(); token != "" {
		t.token = token
		t.mu.Unlock()
		return token
	}

	if t.inProgress || t.permanentlyFailed {
		t.mu.Unlock()
		return ""
	}

	t.inProgress = true
	t.mu.Unlock()

	token, err := t.signin(ctx)

	t.mu.Lock()
	defer t.mu.Unlock()
	t.inProgress = false

	if err != nil {
		t.failures++
		log.Debug().Err(err).Int("failures", t.failures).Msg("bootstrap sign-in failed")

		if t.failures >= t.cfg.MaxSigninAttempts {
			t.permanentlyFailed = true
			log.Warn().Int("attempts", t.failures).
				Msg("bootstrap sign-in disabled until restart")
		}
		return ""
	}

	t.token = token
	t.failures = 0
	t.store.SetAll(map[string]string{
		storage.KeyAuthToken:     token,
		storage.KeyAuthTimestamp: strconv.FormatInt(time.Now().UnixMilli(), 10),
	})

	return token
}

// adoptStored checks the persisted fallbacks, in order: the durable
// bootstrap cache (purged when stale), a session token saved by a prior
// end-user sign-in, and the configured public token. Callers hold the
// mutex.
func (t *TokenSource) adoptStored() string {
	cached, okToken := t.store.Get(storage.KeyAuthToken)
	stamp, okStamp := t.store.Get(storage.KeyAuthTimestamp)
	if okToken && okStamp && cached != "" {
		millis, err := strconv.ParseInt(stamp, 10, 64)
		if err == nil && time.Since(time.UnixMilli(millis)) < t.tokenTTL {
			log.Debug().Msg("bootstrap token adopted from durable cache")
			return cached
		}

		t.store.Delete(storage.KeyAuthToken, storage.KeyAuthTimestamp)
	}

	if session, ok := t.store.Get(storage.KeyAccessToken); ok && session != "" && !expired(session) {
		log.Debug().Msg("session token adopted for protected reads")
		return session
	}

	if t.cfg.PublicBearerToken != "" {
		return t.cfg.PublicBearerToken
	}

	return ""
}

// expired reports whether a JWT carries an exp claim in the past. Values
// that do not parse as JWTs, or carry no exp claim, are adopted as-is.
func expired(token string) bool {
	claims := jwt.MapClaims{}
	_, _, err := jwt.NewParser().ParseUnverified(token, claims)
	if err != nil {
		return false
	}

	return !claims.VerifyExpiresAt(time.Now().Unix(), false)
}

type signinResponse struct {
	AccessToken string `json:"accessToken"`
}

func (t *TokenSource) signin(ctx context.Context) (string, error) {
	payload, err := json.Marshal(map[string]string{
		"username": t.cfg.ServiceUsername,
		"password": t.cfg.ServicePassword,
	})
	if err != nil {
		return "", fmt.Errorf("sign-in payload encoding failed: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, t.signinURL, bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("sign-in request creation failed: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := t.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("sign-in request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", fmt.Errorf("sign-in rejected with status %d", resp.StatusCode)
	}

	var body signinResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return "", fmt.Errorf("sign-in response decoding failed: %w", err)
	}
	if body.AccessToken == "" {
		return "", fmt.Errorf("sign-in response contained no access token")
	}

	return body.AccessToken, nil
}
