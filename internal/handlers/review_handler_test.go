package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/spacesedan/sentireview/internal/models"
	"github.com/spacesedan/sentireview/internal/sentiment"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubAnalyzer struct {
	result models.SentimentResult
	err    error
	panic  bool
	seen   string
}

func (a *stubAnalyzer) Analyze(_ context.Context, reviewText string) (models.SentimentResult, error) {
	if a.panic {
		panic("analyzer blew up")
	}
	a.seen = reviewText
	return a.result, a.err
}

func (a *stubAnalyzer) Name() string {
	return "stub"
}

func newTestRouter(t *testing.T, opts ...Option) http.Handler {
	t.Helper()
	analyzer, err := sentiment.NewAnalyzer()
	require.NoError(t, err)
	return NewServer(analyzer, opts...).SetupRoutes()
}

func postReview(t *testing.T, handler http.Handler, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/api/analyze_review", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)
	return w
}

func decodeResult(t *testing.T, w *httptest.ResponseRecorder) models.SentimentResult {
	t.Helper()
	var result models.SentimentResult
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &result))
	return result
}

func decodeError(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	var resp models.ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp.Error
}

func TestAnalyzeReviewScenarios(t *testing.T) {
	router := newTestRouter(t)

	tests := []struct {
		name string
		text string
		want models.SentimentLabel
	}{
		{name: "positive", text: "I absolutely loved this product, it was amazing!", want: models.LabelPositive},
		{name: "negative", text: "This was the worst purchase I have ever made.", want: models.LabelNegative},
		{name: "neutral", text: "The package arrived on Tuesday.", want: models.LabelNeutral},
		{name: "empty", text: "", want: models.LabelNeutral},
		{name: "shouting", text: "WOW!! Best. Purchase. EVER!!!", want: models.LabelPositive},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			body, err := json.Marshal(map[string]string{"review_text": tt.text})
			require.NoError(t, err)

			w := postReview(t, router, string(body))
			require.Equal(t, http.StatusOK, w.Code)
			assert.Equal(t, "application/json", w.Header().Get("Content-Type"))

			result := decodeResult(t, w)
			assert.Equal(t, tt.text, result.Text)
			assert.Equal(t, tt.want, result.SentimentLabel)
			assert.GreaterOrEqual(t, result.PolarityScore, -1.0)
			assert.LessOrEqual(t, result.PolarityScore, 1.0)
			assert.Equal(t, sentiment.LabelFor(result.PolarityScore), result.SentimentLabel)
		})
	}
}

func TestAnalyzeReviewEmptyTextScoresZero(t *testing.T) {
	w := postReview(t, newTestRouter(t), `{"review_text": ""}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"text": "", "sentiment_label": "NEUTRAL", "polarity_score": 0}`, w.Body.String())
}

func TestAnalyzeReviewMissingText(t *testing.T) {
	router := newTestRouter(t)

	bodies := map[string]string{
		"empty object":   `{}`,
		"other key":      `{"review": "great"}`,
		"null text":      `{"review_text": null}`,
		"not json":       `review_text=great`,
		"empty body":     ``,
		"json array":     `["review_text"]`,
		"json null":      `null`,
		"truncated json": `{"review_text": "great`,
		"json string":    `"review_text"`,
	}

	for name, body := range bodies {
		t.Run(name, func(t *testing.T) {
			w := postReview(t, router, body)
			assert.Equal(t, http.StatusBadRequest, w.Code)
			assert.Equal(t, "Missing 'review_text' in request body", decodeError(t, w))
		})
	}
}

func TestAnalyzeReviewNonStringText(t *testing.T) {
	router := newTestRouter(t)

	tests := map[string]string{
		`{"review_text": 42}`:         "number",
		`{"review_text": true}`:       "boolean",
		`{"review_text": ["a"]}`:      "array",
		`{"review_text": {"a": "b"}}`: "object",
	}

	for body, kind := range tests {
		w := postReview(t, router, body)
		assert.Equal(t, http.StatusInternalServerError, w.Code, body)
		assert.Equal(t,
			"An error occurred during analysis: review_text must be a string, got "+kind,
			decodeError(t, w))
	}
}

func TestAnalyzeReviewAnalysisFailure(t *testing.T) {
	analyzer := &stubAnalyzer{err: &sentiment.AnalysisError{Err: errors.New("lexicon unavailable")}}
	router := NewServer(analyzer).SetupRoutes()

	w := postReview(t, router, `{"review_text": "fine"}`)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, "An error occurred during analysis: lexicon unavailable", decodeError(t, w))
	assert.Equal(t, "fine", analyzer.seen)
}

func TestAnalyzeReviewUnexpectedFailure(t *testing.T) {
	router := NewServer(&stubAnalyzer{err: errors.New("boom")}).SetupRoutes()

	w := postReview(t, router, `{"review_text": "fine"}`)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, "An error occurred during analysis: boom", decodeError(t, w))
}

func TestAnalyzeReviewPanicIsRecovered(t *testing.T) {
	router := NewServer(&stubAnalyzer{panic: true}).SetupRoutes()

	w := postReview(t, router, `{"review_text": "fine"}`)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, "Internal server error", decodeError(t, w))
}

func TestAnalyzeReviewBodyTooLarge(t *testing.T) {
	router := NewServer(&stubAnalyzer{}, WithMaxBodyBytes(32)).SetupRoutes()

	w := postReview(t, router, `{"review_text": "`+strings.Repeat("a", 64)+`"}`)
	assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
	assert.Equal(t, "request body too large", decodeError(t, w))
}

func TestAnalyzeReviewDefaultBodyLimit(t *testing.T) {
	analyzer := &stubAnalyzer{result: models.SentimentResult{SentimentLabel: models.LabelNeutral}}
	router := NewServer(analyzer).SetupRoutes()

	w := postReview(t, router, `{"review_text": "`+strings.Repeat("good ", DEFAULT_MAX_BODY_BYTES/5)+`"}`)
	assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
	assert.Equal(t, "request body too large", decodeError(t, w))
	assert.Empty(t, analyzer.seen)

	w = postReview(t, router, `{"review_text": "`+strings.Repeat("good ", DEFAULT_MAX_BODY_BYTES/10)+`"}`)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.NotEmpty(t, analyzer.seen)
}

func TestAnalyzeReviewIgnoresExtraFields(t *testing.T) {
	analyzer := &stubAnalyzer{result: models.SentimentResult{Text: "ok", SentimentLabel: models.LabelNeutral}}
	router := NewServer(analyzer).SetupRoutes()

	w := postReview(t, router, `{"review_text": "ok", "rating": 5}`)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "ok", analyzer.seen)
}

func TestAnalyzeReviewMethodNotAllowed(t *testing.T) {
	router := newTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/api/analyze_review", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusMethodNotAllowed, w.Code)
	assert.Equal(t, "Method not allowed", decodeError(t, w))

	req = httptest.NewRequest(http.MethodPost, "/api/health", nil)
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusMethodNotAllowed, w.Code)
}

func TestUnknownRoute(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/api/analyze", strings.NewReader(`{}`))
	w := httptest.NewRecorder()
	newTestRouter(t).ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestRequestIDHeader(t *testing.T) {
	router := newTestRouter(t)

	w := postReview(t, router, `{"review_text": "nice"}`)
	assert.NotEmpty(t, w.Header().Get(REQUEST_ID_HEADER))

	req := httptest.NewRequest(http.MethodPost, "/api/analyze_review", strings.NewReader(`{"review_text": "nice"}`))
	req.Header.Set(REQUEST_ID_HEADER, "abc-123")
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, "abc-123", w.Header().Get(REQUEST_ID_HEADER))
}

func TestHealthHandler(t *testing.T) {
	tests := []struct {
		name    string
		healthy *atomic.Bool
		store   bool
		want    string
	}{
		{name: "no cache", want: "disabled"},
		{name: "healthy cache", healthy: &atomic.Bool{}, store: true, want: "healthy"},
		{name: "unhealthy cache", healthy: &atomic.Bool{}, want: "unhealthy"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var opts []Option
			if tt.healthy != nil {
				tt.healthy.Store(tt.store)
				opts = append(opts, WithCacheHealth(tt.healthy))
			}
			router := newTestRouter(t, opts...)

			req := httptest.NewRequest(http.MethodGet, "/api/health", nil)
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			require.Equal(t, http.StatusOK, w.Code)
			var resp models.HealthResponse
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
			assert.Equal(t, "ok", resp.Status)
			assert.Equal(t, "vader", resp.Analyzer)
			assert.Equal(t, tt.want, resp.Cache)
			assert.NotZero(t, resp.Timestamp)
		})
	}
}
