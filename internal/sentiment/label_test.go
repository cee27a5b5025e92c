package sentiment

import (
	"math"
	"strconv"
	"strings"
	"testing"

	"github.com/spacesedan/sentireview/internal/models"
	"github.com/stretchr/testify/assert"
)

func TestLabelFor(t *testing.T) {
	tests := []struct {
		polarity float64
		want     models.SentimentLabel
	}{
		{1, models.LabelPositive},
		{0.5, models.LabelPositive},
		{0.1001, models.LabelPositive},
		{0.1, models.LabelNeutral},
		{0, models.LabelNeutral},
		{-0.1, models.LabelNeutral},
		{-0.1001, models.LabelNegative},
		{-1, models.LabelNegative},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, LabelFor(tt.polarity), "polarity %v", tt.polarity)
	}
}

func TestRoundScore(t *testing.T) {
	tests := []struct {
		in   float64
		want float64
	}{
		{0.12344, 0.1234},
		{0.12346, 0.1235},
		{-0.12346, -0.1235},
		{0.00004, 0},
		{-0.00004, 0},
		{1.2, 1},
		{-3, -1},
		{0.6249, 0.6249},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, RoundScore(tt.in), "input %v", tt.in)
	}
}

func TestRoundScoreNeverNegativeZero(t *testing.T) {
	got := RoundScore(-0.00001)
	assert.False(t, math.Signbit(got))
}

func TestRoundScoreHasAtMostFourDecimals(t *testing.T) {
	for _, in := range []float64{0.123456789, -0.98765, 0.33333333, 2.0 / 3.0, -1.0 / 7.0} {
		formatted := strconv.FormatFloat(RoundScore(in), 'f', -1, 64)
		if dot := strings.IndexByte(formatted, '.'); dot >= 0 {
			assert.LessOrEqual(t, len(formatted)-dot-1, 4, "formatted %s", formatted)
		}
	}
}
