package api

import (
	"bytes"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/segmentio/ksuid"
	"github.com/stretchr/testify/assert"

	"github.com/ssargent/eventstore/pkg/engine"
	"github.com/ssargent/eventstore/pkg/event"
	"github.com/ssargent/eventstore/pkg/storage"
)

func TestAPIKeyMiddleware(t *testing.T) {
	tests := []struct {
		name           string
		apiKey         string
		requestHeader  string
		expectedStatus int
	}{
		{
			name:           "valid API key",
			apiKey:         "test-key",
			requestHeader:  "test-key",
			expectedStatus: http.StatusOK,
		},
		{
			name:           "missing API key header",
			apiKey:         "test-key",
			requestHeader:  "",
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name:           "invalid API key",
			apiKey:         "test-key",
			requestHeader:  "wrong-key",
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name:           "authentication disabled",
			apiKey:         "",
			requestHeader:  "",
			expectedStatus: http.StatusOK,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			testHandler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusOK)
			})
			handler := apiKeyMiddleware(tt.apiKey)(testHandler)

			req := httptest.NewRequest("GET", "/test", nil)
			if tt.requestHeader != "" {
				req.Header.Set(apiKeyHeader, tt.requestHeader)
			}
			w := httptest.NewRecorder()

			handler.ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
			if tt.expectedStatus == http.StatusUnauthorized {
				assert.Equal(t, "application/json", w.Header().Get("Content-Type"))
			}
		})
	}
}

func TestRequestIDMiddleware(t *testing.T) {
	var seen string
	handler := requestIDMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = r.Header.Get(requestIDHeader)
	}))

	t.Run("mints a ksuid", func(t *testing.T) {
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, httptest.NewRequest("GET", "/", nil))

		id := w.Header().Get(requestIDHeader)
		_, err := ksuid.Parse(id)
		assert.NoError(t, err)
		assert.Equal(t, id, seen)
	})

	t.Run("echoes caller id", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/", nil)
		req.Header.Set(requestIDHeader, "abc")
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, req)

		assert.Equal(t, "abc", w.Header().Get(requestIDHeader))
		assert.Equal(t, "abc", seen)
	})
}

func TestRouterRequiresAPIKey(t *testing.T) {
	ts := setupTestServer(t, nil)

	req := httptest.NewRequest("GET", "/api/v1/events/0", nil)
	w := httptest.NewRecorder()
	ts.handler.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.NotEmpty(t, w.Header().Get(requestIDHeader))
}

func TestRouterLogsRequestsThroughSlog(t *testing.T) {
	e := engine.New(storage.NewMemory(), event.MaxEncodedSize)
	defer e.Close()

	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))
	registry := prometheus.NewRegistry()
	server := NewServer(event.NewService(e), ServerConfig{}, NewMetrics(registry), logger)
	handler := NewRouter(server, registry)

	req := httptest.NewRequest("GET", "/api/v1/events/9", nil)
	req.Header.Set(requestIDHeader, "req-123")
	handler.ServeHTTP(httptest.NewRecorder(), req)

	out := buf.String()
	assert.Contains(t, out, `msg="http request"`)
	assert.Contains(t, out, "status=404")
	assert.Contains(t, out, "method=GET")
	assert.Contains(t, out, "path=/api/v1/events/9")
	assert.Contains(t, out, "request_id=req-123")
}

func TestRecovererLogsPanicThroughSlog(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))

	panicking := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	})
	handler := middleware.RequestLogger(&slogFormatter{logger: logger})(middleware.Recoverer(panicking))

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, httptest.NewRequest("GET", "/", nil))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	out := buf.String()
	assert.Contains(t, out, `msg="http handler panic"`)
	assert.Contains(t, out, "panic=boom")
	assert.Contains(t, out, "status=500")
	assert.Contains(t, out, "level=ERROR")
}
