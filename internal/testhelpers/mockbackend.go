// Package testhelpers provides a configurable mock ALONU backend for
// package tests: per-path request counting, captured Authorization
// headers and canned JSON responses.
package testhelpers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
)

// MockBackend is an httptest server standing in for the remote API.
type MockBackend struct {
	Server *httptest.Server

	mux *http.ServeMux

	mu          sync.Mutex
	counts      map[string]int
	authHeaders map[string]string
}

func NewMockBackend(t *testing.T) *MockBackend {
	t.Helper()

	m := &MockBackend{
		mux:         http.NewServeMux(),
		counts:      map[string]int{},
		authHeaders: map[string]string{},
	}

	m.Server = httptest.NewServer(m.mux)
	t.Cleanup(m.Server.Close)

	return m
}

func (m *MockBackend) URL() string {
	return m.Server.URL
}

// Handle registers a handler; every request through it is counted by URL
// path and its Authorization header captured.
func (m *MockBackend) Handle(pattern string, handler http.HandlerFunc) {
	m.mux.HandleFunc(pattern, func(w http.ResponseWriter, r *http.Request) {
		m.record(r)
		handler(w, r)
	})
}

// HandleJSON registers a handler returning a fixed status and JSON
// payload.
func (m *MockBackend) HandleJSON(pattern string, status int, payload any) {
	m.Handle(pattern, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		WriteJSON(w, payload)
	})
}

// HandleSignin registers the bootstrap sign-in endpoint, returning the
// given token (or failing with failStatus when non-zero).
func (m *MockBackend) HandleSignin(token string, failStatus int) {
	m.Handle("POST /auth/signin", func(w http.ResponseWriter, r *http.Request) {
		if failStatus != 0 {
			w.WriteHeader(failStatus)
			return
		}
		WriteJSON(w, map[string]string{"accessToken": token})
	})
}

// Count returns the number of requests seen for a URL path.
func (m *MockBackend) Count(path string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.counts[path]
}

// AuthHeader returns the Authorization header captured on the most recent
// request for a URL path.
func (m *MockBackend) AuthHeader(path string) string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.authHeaders[path]
}

func (m *MockBackend) record(r *http.Request) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.counts[r.URL.Path]++
	m.authHeaders[r.URL.Path] = r.Header.Get("Authorization")
}

// WriteJSON marshals the payload onto the response.
func WriteJSON(w http.ResponseWriter, payload any) {
	if w.Header().Get("Content-Type") == "" {
		w.Header().Set("Content-Type", "application/json")
	}
	data, err := json.Marshal(payload)
	if err != nil {
		http.Error(w, fmt.Sprintf("failed to marshal JSON: %v", err), http.StatusInternalServerError)
		return
	}
	_, _ = w.Write(data)
}
