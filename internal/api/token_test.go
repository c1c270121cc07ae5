package api_test

import (
	"context"
	"net/http"
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/alonu/alonu-client/internal/api"
	"github.com/alonu/alonu-client/internal/config"
	"github.com/alonu/alonu-client/internal/storage"
	"github.com/alonu/alonu-client/internal/testhelpers"
	"github.com/golang-jwt/jwt/v4"
	"github.com/stretchr/testify/require"
)

func newTokenSource(t *testing.T, backend *testhelpers.MockBackend, store *storage.Store, mutate func(*config.AuthConfig)) *api.TokenSource {
	t.Helper()

	cfg := config.AuthConfig{
		ServiceUsername:   "svc",
		ServicePassword:   "pw",
		TokenTTLMinutes:   60,
		MaxSigninAttempts: 3,
	}
	if mutate != nil {
		mutate(&cfg)
	}

	return api.NewTokenSource(cfg, backend.URL(), store)
}

func TestAcquireSignsInOnceAndReuses(t *testing.T) {
	backend := testhelpers.NewMockBackend(t)
	backend.HandleSignin("bootstrap-token", 0)

	store := storage.NewMemory()
	tokens := newTokenSource(t, backend, store, nil)

	require.Equal(t, "bootstrap-token", tokens.Acquire(context.Background()))
	require.Equal(t, "bootstrap-token", tokens.Acquire(context.Background()))
	require.Equal(t, 1, backend.Count("/auth/signin"))

	// success is cached durably alongside its acquisition time
	cached, ok := store.Get(storage.KeyAuthToken)
	require.True(t, ok)
	require.Equal(t, "bootstrap-token", cached)
	_, ok = store.Get(storage.KeyAuthTimestamp)
	require.True(t, ok)
}

func TestAcquireConcurrentCallersShareOneSignin(t *testing.T) {
	backend := testhelpers.NewMockBackend(t)
	backend.Handle("POST /auth/signin", func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(100 * time.Millisecond)
		testhelpers.WriteJSON(w, map[string]string{"accessToken": "bootstrap-token"})
	})

	tokens := newTokenSource(t, backend, storage.NewMemory(), nil)

	var wg sync.WaitGroup
	for range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			// callers arriving mid-flight get "" rather than queueing
			_ = tokens.Acquire(context.Background())
		}()
	}
	wg.Wait()

	require.Equal(t, 1, backend.Count("/auth/signin"))
	require.Equal(t, "bootstrap-token", tokens.Acquire(context.Background()))
}

func TestAcquireStopsAfterMaxFailures(t *testing.T) {
	backend := testhelpers.NewMockBackend(t)
	backend.HandleSignin("", http.StatusInternalServerError)

	tokens := newTokenSource(t, backend, storage.NewMemory(), nil)

	for range 4 {
		require.Empty(t, tokens.Acquire(context.Background()))
	}

	require.Equal(t, 3, backend.Count("/auth/signin"))
}

func TestSetTokenResetsFailureState(t *testing.T) {
	backend := testhelpers.NewMockBackend(t)
	backend.HandleSignin("", http.StatusInternalServerError)

	tokens := newTokenSource(t, backend, storage.NewMemory(), nil)

	for range 3 {
		tokens.Acquire(context.Background())
	}
	require.Equal(t, 3, backend.Count("/auth/signin"))

	tokens.SetToken("user-session")
	require.Equal(t, "user-session", tokens.Acquire(context.Background()))

	// a fresh credential makes sign-in worth retrying after it is cleared
	tokens.Clear()
	tokens.Acquire(context.Background())
	require.Equal(t, 4, backend.Count("/auth/signin"))
}

func TestAcquireAdoptsDurableCache(t *testing.T) {
	backend := testhelpers.NewMockBackend(t)
	backend.HandleSignin("fresh-token", 0)

	store := storage.NewMemory()
	store.SetAll(map[string]string{
		storage.KeyAuthToken:     "cached-token",
		storage.KeyAuthTimestamp: strconv.FormatInt(time.Now().UnixMilli(), 10),
	})

	tokens := newTokenSource(t, backend, store, nil)

	require.Equal(t, "cached-token", tokens.Acquire(context.Background()))
	require.Zero(t, backend.Count("/auth/signin"))
}

func TestAcquirePurgesStaleDurableCache(t *testing.T) {
	backend := testhelpers.NewMockBackend(t)
	backend.HandleSignin("fresh-token", 0)

	store := storage.NewMemory()
	store.SetAll(map[string]string{
		storage.KeyAuthToken:     "stale-token",
		storage.KeyAuthTimestamp: strconv.FormatInt(time.Now().Add(-2*time.Hour).UnixMilli(), 10),
	})

	tokens := newTokenSource(t, backend, store, nil)

	require.Equal(t, "fresh-token", tokens.Acquire(context.Background()))
	require.Equal(t, 1, backend.Count("/auth/signin"))
}

func TestAcquireAdoptsSessionToken(t *testing.T) {
	backend := testhelpers.NewMockBackend(t)
	backend.HandleSignin("fresh-token", 0)

	store := storage.NewMemory()
	store.Set(storage.KeyAccessToken, "opaque-session")

	tokens := newTokenSource(t, backend, store, nil)

	require.Equal(t, "opaque-session", tokens.Acquire(context.Background()))
	require.Zero(t, backend.Count("/auth/signin"))
}

func TestAcquireAdoptsUnexpiredJWTSessionToken(t *testing.T) {
	backend := testhelpers.NewMockBackend(t)
	backend.HandleSignin("fresh-token", 0)

	liveJWT, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"exp": time.Now().Add(time.Hour).Unix(),
	}).SignedString([]byte("test-key"))
	require.NoError(t, err)

	store := storage.NewMemory()
	store.Set(storage.KeyAccessToken, liveJWT)

	tokens := newTokenSource(t, backend, store, nil)

	require.Equal(t, liveJWT, tokens.Acquire(context.Background()))
	require.Zero(t, backend.Count("/auth/signin"))
}

func TestAcquireSkipsExpiredSessionToken(t *testing.T) {
	backend := testhelpers.NewMockBackend(t)
	backend.HandleSignin("fresh-token", 0)

	expiredJWT, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"exp": time.Now().Add(-time.Hour).Unix(),
	}).SignedString([]byte("test-key"))
	require.NoError(t, err)

	store := storage.NewMemory()
	store.Set(storage.KeyAccessToken, expiredJWT)

	tokens := newTokenSource(t, backend, store, nil)

	require.Equal(t, "fresh-token", tokens.Acquire(context.Background()))
	require.Equal(t, 1, backend.Count("/auth/signin"))
}

func TestAcquireFallsBackToPublicToken(t *testing.T) {
	backend := testhelpers.NewMockBackend(t)
	backend.HandleSignin("fresh-token", 0)

	tokens := newTokenSource(t, backend, storage.NewMemory(), func(cfg *config.AuthConfig) {
		cfg.PublicBearerToken = "public-token"
	})

	require.Equal(t, "public-token", tokens.Acquire(context.Background()))
	require.Zero(t, backend.Count("/auth/signin"))
}

func TestClearDropsMemoryAndDurableCache(t *testing.T) {
	backend := testhelpers.NewMockBackend(t)
	backend.HandleSignin("bootstrap-token", 0)

	store := storage.NewMemory()
	tokens := newTokenSource(t, backend, store, nil)

	tokens.Acquire(context.Background())
	tokens.Clear()

	_, ok := store.Get(storage.KeyAuthToken)
	require.False(t, ok)

	tokens.Acquire(context.Background())
	require.Equal(t, 2, backend.Count("/auth/signin"))
}
