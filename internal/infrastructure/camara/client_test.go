package camara

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"lupa/internal/bootstrap/config"
)

// fakeClock drives the client's now/sleep hooks so interval enforcement is
// observable without real waiting.
type fakeClock struct {
	current time.Time
	slept   []time.Duration
}

func (f *fakeClock) now() time.Time { return f.current }

func (f *fakeClock) sleep(_ context.Context, d time.Duration) error {
	f.slept = append(f.slept, d)
	f.current = f.current.Add(d)
	return nil
}

func newTestClient(t *testing.T, handler http.Handler, minInterval time.Duration, maxRetries int) (*Client, *fakeClock) {
	t.Helper()

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	clock := &fakeClock{current: time.Unix(1_700_000_000, 0)}
	c := NewClient(config.CamaraConfig{
		BaseURL:        srv.URL,
		MinIntervalMS:  int(minInterval / time.Millisecond),
		TimeoutSeconds: 5,
		MaxRetries:     maxRetries,
	})
	c.now = clock.now
	c.sleep = clock.sleep
	return c, clock
}

func TestClientGet(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Accept"); got != "application/json" {
			t.Errorf("Accept = %q", got)
		}
		_, _ = w.Write([]byte(`{"dados":[]}`))
	})
	c, _ := newTestClient(t, handler, 500*time.Millisecond, 3)

	body, err := c.Get(context.Background(), "/deputados", nil)
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if string(body) != `{"dados":[]}` {
		t.Fatalf("body = %q", body)
	}
}

func TestClientEnforcesMinInterval(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{}`))
	})
	c, clock := newTestClient(t, handler, 500*time.Millisecond, 0)

	ctx := context.Background()
	for i := 0; i < 3; i++ {
		if _, err := c.Get(ctx, "/deputados", nil); err != nil {
			t.Fatalf("Get() call %d error = %v", i+1, err)
		}
	}

	// First call goes through immediately; every subsequent call waits out
	// the remaining interval since the fake clock only advances on sleep.
	if len(clock.slept) != 2 {
		t.Fatalf("sleep count = %d, want 2", len(clock.slept))
	}
	for i, d := range clock.slept {
		if d != 500*time.Millisecond {
			t.Fatalf("sleep %d = %v, want 500ms", i, d)
		}
	}
}

func TestClientRetriesTransientStatus(t *testing.T) {
	calls := 0
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		if calls < 3 {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		_, _ = w.Write([]byte(`ok`))
	})
	c, _ := newTestClient(t, handler, 0, 3)

	body, err := c.Get(context.Background(), "/proposicoes", url.Values{"pagina": {"1"}})
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if string(body) != "ok" {
		t.Fatalf("body = %q", body)
	}
	if calls != 3 {
		t.Fatalf("upstream calls = %d, want 3", calls)
	}
}

func TestClientDoesNotRetryNotFound(t *testing.T) {
	calls := 0
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.WriteHeader(http.StatusNotFound)
	})
	c, _ := newTestClient(t, handler, 0, 3)

	_, err := c.Get(context.Background(), "/votacoes/x/votos", nil)
	if err == nil {
		t.Fatal("Get() error = nil, want status error")
	}
	if !IsNotFound(err) {
		t.Fatalf("IsNotFound() = false for %v", err)
	}
	if calls != 1 {
		t.Fatalf("upstream calls = %d, want 1 (no retry)", calls)
	}
}

func TestClientExhaustsRetries(t *testing.T) {
	calls := 0
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.WriteHeader(http.StatusTooManyRequests)
	})
	c, _ := newTestClient(t, handler, 0, 2)

	_, err := c.Get(context.Background(), "/deputados", nil)
	if err == nil {
		t.Fatal("Get() error = nil, want exhaustion error")
	}
	if calls != 3 {
		t.Fatalf("upstream calls = %d, want 3 (initial + 2 retries)", calls)
	}
	if !strings.Contains(err.Error(), "retries exhausted") {
		t.Fatalf("error = %v, want retries-exhausted wrap", err)
	}
	var se *StatusError
	if !errors.As(err, &se) || se.Code != http.StatusTooManyRequests {
		t.Fatalf("error chain missing status error: %v", err)
	}
}

func TestStatusErrorTransient(t *testing.T) {
	tests := []struct {
		code int
		want bool
	}{
		{http.StatusTooManyRequests, true},
		{http.StatusInternalServerError, true},
		{http.StatusBadGateway, true},
		{http.StatusNotFound, false},
		{http.StatusBadRequest, false},
	}
	for _, tt := range tests {
		se := &StatusError{Code: tt.code, Path: "/x"}
		if got := se.Transient(); got != tt.want {
			t.Fatalf("Transient(%d) = %v, want %v", tt.code, got, tt.want)
		}
	}
}
