package sentiment

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"time"
)

const (
	SCORE_CACHE_PREFIX = "sentiment:score:"

	// CACHE_TIMEOUT caps each cache round trip; a slow cache is treated as a miss.
	CACHE_TIMEOUT = 100 * time.Millisecond
)

// ScoreCache stores raw polarity values keyed by normalized text.
type ScoreCache interface {
	GetScore(ctx context.Context, key string) (float64, bool, error)
	SetScore(ctx context.Context, key string, score float64) error
}

func ScoreCacheKey(normalized string) string {
	sum := sha256.Sum256([]byte(normalized))
	return SCORE_CACHE_PREFIX + hex.EncodeToString(sum[:])
}
