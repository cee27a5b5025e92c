package handlers

import (
	"context"
	"net/http"
	"sync/atomic"

	"github.com/gorilla/mux"
	"github.com/spacesedan/sentireview/internal/models"
)

const (
	ANALYZE_REVIEW_PATH = "/analyze_review"
	HEALTH_PATH         = "/health"
	API_PREFIX          = "/api"

	// govader's cost grows quadratically with input length, so keep
	// reviews small enough to score in well under a second.
	DEFAULT_MAX_BODY_BYTES = 64 << 10
)

// ReviewAnalyzer is satisfied by *sentiment.Analyzer.
type ReviewAnalyzer interface {
	Analyze(ctx context.Context, reviewText string) (models.SentimentResult, error)
	Name() string
}

type Option func(*Server)

// WithCacheHealth lets the health endpoint report the score cache state.
func WithCacheHealth(healthy *atomic.Bool) Option {
	return func(s *Server) {
		s.cacheHealthy = healthy
	}
}

func WithMaxBodyBytes(n int64) Option {
	return func(s *Server) {
		if n > 0 {
			s.maxBodyBytes = n
		}
	}
}

// Server holds the HTTP handlers and their dependencies
type Server struct {
	analyzer     ReviewAnalyzer
	cacheHealthy *atomic.Bool
	maxBodyBytes int64
}

func NewServer(analyzer ReviewAnalyzer, opts ...Option) *Server {
	s := &Server{
		analyzer:     analyzer,
		maxBodyBytes: DEFAULT_MAX_BODY_BYTES,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// SetupRoutes configures HTTP routes. Routes hang off the root router with
// their full paths, since a mux subrouter answers a method mismatch with 404.
func (s *Server) SetupRoutes() *mux.Router {
	r := mux.NewRouter()
	r.NotFoundHandler = http.HandlerFunc(notFoundHandler)
	r.MethodNotAllowedHandler = http.HandlerFunc(methodNotAllowedHandler)
	r.Use(requestIDMiddleware)
	r.Use(loggingMiddleware)
	r.Use(recoverMiddleware)

	r.HandleFunc(API_PREFIX+ANALYZE_REVIEW_PATH, s.analyzeReviewHandler).Methods(http.MethodPost)
	r.HandleFunc(API_PREFIX+HEALTH_PATH, s.healthHandler).Methods(http.MethodGet)

	return r
}
