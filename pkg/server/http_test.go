package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/bastiangx/wordchain/pkg/config"
	"github.com/bastiangx/wordchain/pkg/suggest"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func serve(t *testing.T, router http.Handler, method, target, contentType, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func decodeJSON(t *testing.T, w *httptest.ResponseRecorder, v any) {
	t.Helper()
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), v), w.Body.String())
}

func TestHTTPHealth(t *testing.T) {
	router := NewRouter(newTestService(t, defaultServerConfig()))
	w := serve(t, router, http.MethodGet, "/healthz", "", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())
}

func TestHTTPSuggest(t *testing.T) {
	router := NewRouter(newTestService(t, defaultServerConfig()))

	tests := []struct {
		name   string
		target string
		want   []suggest.Suggestion
	}{
		{"context and prefix", "/v1/suggest?context=machine&prefix=l", []suggest.Suggestion{{Word: "learning", Probability: 0.5}}},
		{"cold start", "/v1/suggest?context=nonexistent_context&prefix=machine", []suggest.Suggestion{{Word: "machine", Probability: 0}}},
		{"limit", "/v1/suggest?context=machine&limit=2", []suggest.Suggestion{{Word: "code", Probability: 0.5}, {Word: "learning", Probability: 0.5}}},
		{"unknown prefix", "/v1/suggest?context=machine&prefix=zebra", []suggest.Suggestion{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := serve(t, router, http.MethodGet, tt.target, "", "")
			require.Equal(t, http.StatusOK, w.Code)

			var resp SuggestResponse
			decodeJSON(t, w, &resp)
			assert.Equal(t, tt.want, resp.Suggestions)
			assert.Equal(t, len(tt.want), resp.Count)
		})
	}
}

func TestHTTPSuggestJSONShape(t *testing.T) {
	router := NewRouter(newTestService(t, defaultServerConfig()))
	w := serve(t, router, http.MethodGet, "/v1/suggest?context=machine&prefix=c", "", "")
	require.Equal(t, http.StatusOK, w.Code)

	var raw map[string]any
	decodeJSON(t, w, &raw)
	assert.Equal(t, "machine", raw["context"])
	assert.Equal(t, "c", raw["prefix"])
	assert.Contains(t, raw, "time_us")
	items := raw["suggestions"].([]any)
	require.Len(t, items, 1)
	assert.Equal(t, map[string]any{"word": "code", "probability": 0.5}, items[0])
}

func TestHTTPSuggestErrors(t *testing.T) {
	cfg := defaultServerConfig()
	cfg.MaxPrefix = 5
	router := NewRouter(newTestService(t, cfg))

	for _, target := range []string{
		"/v1/suggest?prefix=machines",
		"/v1/suggest?prefix=m&limit=ten",
		"/v1/suggest?prefix=m&limit=-2",
		"/v1/suggest?prefix=a%00b",
	} {
		t.Run(target, func(t *testing.T) {
			w := serve(t, router, http.MethodGet, target, "", "")
			assert.Equal(t, http.StatusBadRequest, w.Code)

			var resp ErrorResponse
			decodeJSON(t, w, &resp)
			assert.Equal(t, http.StatusBadRequest, resp.Code)
			assert.NotEmpty(t, resp.Error)
		})
	}
}

func TestHTTPStatsAndTrain(t *testing.T) {
	router := NewRouter(newTestService(t, defaultServerConfig()))

	w := serve(t, router, http.MethodGet, "/v1/stats", "", "")
	require.Equal(t, http.StatusOK, w.Code)
	var stats StatsResponse
	decodeJSON(t, w, &stats)
	assert.Equal(t, 6, stats.Stats["vocabulary"])

	w = serve(t, router, http.MethodPost, "/v1/train", "text/plain", "deep learning is a subset of machine learning")
	require.Equal(t, http.StatusOK, w.Code)
	var trained TrainResponse
	decodeJSON(t, w, &trained)
	assert.Equal(t, 7, trained.Vocabulary)

	w = serve(t, router, http.MethodPost, "/v1/train", "application/json", `{"id":"j1","text":"alpha beta alpha gamma"}`)
	require.Equal(t, http.StatusOK, w.Code)
	decodeJSON(t, w, &trained)
	assert.Equal(t, "j1", trained.ID)
	assert.Equal(t, 3, trained.Vocabulary)

	w = serve(t, router, http.MethodGet, "/v1/suggest?context=alpha&prefix=", "", "")
	var resp SuggestResponse
	decodeJSON(t, w, &resp)
	require.NotEmpty(t, resp.Suggestions)
	assert.Equal(t, suggest.Suggestion{Word: "beta", Probability: 0.5}, resp.Suggestions[0])
	assert.Equal(t, suggest.Suggestion{Word: "gamma", Probability: 0.5}, resp.Suggestions[1])
}

func TestHTTPTrainErrors(t *testing.T) {
	router := NewRouter(newTestService(t, defaultServerConfig()))

	w := serve(t, router, http.MethodPost, "/v1/train", "text/plain", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = serve(t, router, http.MethodPost, "/v1/train", "application/json", `{"text":`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = serve(t, router, http.MethodGet, "/v1/train", "", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestHTTPRateLimit(t *testing.T) {
	cfg := config.DefaultConfig().Server
	cfg.RateLimit = 0.001
	router := NewRouter(newTestService(t, cfg))

	w := serve(t, router, http.MethodGet, "/v1/stats", "", "")
	assert.Equal(t, http.StatusOK, w.Code)

	w = serve(t, router, http.MethodGet, "/v1/suggest?prefix=m", "", "")
	assert.Equal(t, http.StatusTooManyRequests, w.Code)

	// health checks are not rate limited
	w = serve(t, router, http.MethodGet, "/healthz", "", "")
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestSetDebugMode(t *testing.T) {
	defer gin.SetMode(gin.TestMode)

	SetDebugMode(false)
	assert.Equal(t, gin.ReleaseMode, gin.Mode())

	SetDebugMode(true)
	assert.Equal(t, gin.DebugMode, gin.Mode())
}
