package handlers

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/spacesedan/sentireview/internal/models"
	"github.com/spacesedan/sentireview/internal/sentiment"
)

const ANALYSIS_ERROR_PREFIX = "An error occurred during analysis: "

func (s *Server) analyzeReviewHandler(w http.ResponseWriter, r *http.Request) {
	reviewText, err := s.decodeReviewText(w, r)
	if err != nil {
		writeFailure(w, r, err)
		return
	}

	result, err := s.analyzer.Analyze(r.Context(), reviewText)
	if err != nil {
		writeFailure(w, r, err)
		return
	}

	slog.Debug("[ReviewHandler] Review analyzed",
		slog.String("request_id", RequestIDFromContext(r.Context())),
		slog.String("label", string(result.SentimentLabel)),
		slog.Float64("polarity", result.PolarityScore))
	writeJSON(w, http.StatusOK, result)
}

// writeFailure maps the error taxonomy onto status codes. Anything outside
// it is still reported as an analysis failure.
func writeFailure(w http.ResponseWriter, r *http.Request, err error) {
	var (
		validationErr *sentiment.ValidationError
		tooLargeErr   *http.MaxBytesError
	)
	switch {
	case errors.As(err, &tooLargeErr):
		writeError(w, http.StatusRequestEntityTooLarge, "request body too large")
	case errors.As(err, &validationErr):
		writeError(w, http.StatusBadRequest, validationErr.Message)
	default:
		slog.Error("[ReviewHandler] Analysis failed",
			slog.String("request_id", RequestIDFromContext(r.Context())),
			slog.Bool("analysis_error", sentiment.IsAnalysisError(err)),
			slog.String("error", err.Error()))
		writeError(w, http.StatusInternalServerError, ANALYSIS_ERROR_PREFIX+err.Error())
	}
}

// decodeReviewText accepts any JSON object carrying a non-null review_text.
// A review_text of another JSON type is an analysis failure, not a
// validation one.
func (s *Server) decodeReviewText(w http.ResponseWriter, r *http.Request) (string, error) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, s.maxBodyBytes))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return "", err
		}
		return "", sentiment.ErrMissingReviewText
	}

	var req models.ReviewRequest
	if err := json.Unmarshal(body, &req); err != nil {
		return "", sentiment.ErrMissingReviewText
	}

	raw := bytes.TrimSpace(req.ReviewText)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return "", sentiment.ErrMissingReviewText
	}

	var reviewText string
	if err := json.Unmarshal(raw, &reviewText); err != nil {
		return "", &sentiment.AnalysisError{
			Err: fmt.Errorf("review_text must be a string, got %s", jsonKind(raw)),
		}
	}

	return reviewText, nil
}

func jsonKind(raw []byte) string {
	switch raw[0] {
	case '{':
		return "object"
	case '[':
		return "array"
	case 't', 'f':
		return "boolean"
	case '"':
		return "string"
	default:
		return "number"
	}
}
