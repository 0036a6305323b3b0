package testutils

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/nfrund/vrcadmin/internal/backend"
	"github.com/stretchr/testify/require"
)

// Call is one request the fake backend received.
type Call struct {
	Method string
	Path   string
	Body   []byte
}

// FakeBackend is an httptest server standing in for the volunteer API.
type FakeBackend struct {
	*httptest.Server
	mux *http.ServeMux

	mu    sync.Mutex
	calls []Call
}

// NewFakeBackend starts a fake backend that is closed with the test.
func NewFakeBackend(t *testing.T) *FakeBackend {
	t.Helper()
	f := &FakeBackend{mux: http.NewServeMux()}
	f.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		f.mu.Lock()
		f.calls = append(f.calls, Call{Method: r.Method, Path: r.URL.Path, Body: body})
		f.mu.Unlock()
		r.Body = io.NopCloser(bytes.NewReader(body))
		f.mux.ServeHTTP(w, r)
	}))
	t.Cleanup(f.Close)
	return f
}

// Handle registers a handler using ServeMux pattern syntax,
// e.g. "GET /service".
func (f *FakeBackend) Handle(pattern string, h http.HandlerFunc) {
	f.mux.HandleFunc(pattern, h)
}

// JSON registers a canned JSON reply.
func (f *FakeBackend) JSON(pattern string, status int, body any) {
	f.Handle(pattern, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		if body != nil {
			_ = json.NewEncoder(w).Encode(body)
		}
	})
}

// Count returns how many requests matched method and path.
func (f *FakeBackend) Count(method, path string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, c := range f.calls {
		if c.Method == method && c.Path == path {
			n++
		}
	}
	return n
}

// Last returns the most recent request to method and path.
func (f *FakeBackend) Last(method, path string) (Call, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := len(f.calls) - 1; i >= 0; i-- {
		if c := f.calls[i]; c.Method == method && c.Path == path {
			return c, true
		}
	}
	return Call{}, false
}

// Client returns a backend client pointed at the fake.
func (f *FakeBackend) Client(t *testing.T) *backend.Client {
	t.Helper()
	c, err := backend.New(f.URL)
	require.NoError(t, err)
	return c
}
