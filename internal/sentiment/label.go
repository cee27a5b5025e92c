package sentiment

import (
	"math"

	"github.com/spacesedan/sentireview/internal/models"
)

const (
	POSITIVE_THRESHOLD = 0.1
	NEGATIVE_THRESHOLD = -0.1
	SCORE_PRECISION    = 10000
)

// LabelFor buckets a polarity value. Both thresholds are exclusive, so
// exactly 0.1 and -0.1 are NEUTRAL.
func LabelFor(polarity float64) models.SentimentLabel {
	switch {
	case polarity > POSITIVE_THRESHOLD:
		return models.LabelPositive
	case polarity < NEGATIVE_THRESHOLD:
		return models.LabelNegative
	default:
		return models.LabelNeutral
	}
}

// RoundScore rounds half away from zero to four decimal places and keeps the
// result inside [-1, 1].
func RoundScore(polarity float64) float64 {
	rounded := math.Round(polarity*SCORE_PRECISION) / SCORE_PRECISION
	switch {
	case rounded > 1:
		return 1
	case rounded < -1:
		return -1
	case rounded == 0:
		// drop negative zero so it never serializes as -0
		return 0
	}
	return rounded
}
