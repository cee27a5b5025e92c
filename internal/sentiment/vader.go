package sentiment

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/jonreiter/govader"
	"github.com/spacesedan/sentireview/internal/models"
)

const ANALYZER_NAME = "vader"

var (
	vaderInstance *govader.SentimentIntensityAnalyzer
	vaderOnce     sync.Once
	vaderErr      error
)

// InitVADER loads the lexicon once per process. Later calls return the
// outcome of the first one.
func InitVADER() error {
	vaderOnce.Do(func() {
		defer func() {
			if r := recover(); r != nil {
				vaderInstance = nil
				vaderErr = fmt.Errorf("failed to load VADER lexicon: %v", r)
			}
		}()

		vaderInstance = govader.NewSentimentIntensityAnalyzer()
		if vaderInstance == nil {
			vaderErr = fmt.Errorf("failed to load VADER lexicon: analyzer is nil")
			return
		}
		slog.Info("[Sentiment] VADER lexicon loaded")
	})
	return vaderErr
}

type Score struct {
	Polarity float64
	Label    models.SentimentLabel
}

type Option func(*Analyzer)

// WithMarkdownStripping renders review text from markdown to plain text
// before it is normalized.
func WithMarkdownStripping(enabled bool) Option {
	return func(a *Analyzer) {
		a.stripMarkdown = enabled
	}
}

// WithScoreCache consults cache before scoring. While healthy is false the
// cache is skipped; a nil healthy means always use it.
func WithScoreCache(cache ScoreCache, healthy *atomic.Bool) Option {
	return func(a *Analyzer) {
		a.cache = cache
		a.cacheHealthy = healthy
	}
}

// Analyzer turns review text into a labeled result. It holds no per-request
// state and is safe for concurrent use.
type Analyzer struct {
	polarity      func(text string) float64
	stripMarkdown bool
	cache         ScoreCache
	cacheHealthy  *atomic.Bool
}

func NewAnalyzer(opts ...Option) (*Analyzer, error) {
	if err := InitVADER(); err != nil {
		return nil, err
	}

	vader := vaderInstance
	a := &Analyzer{
		polarity: func(text string) float64 {
			return vader.PolarityScores(text).Compound
		},
	}
	for _, opt := range opts {
		opt(a)
	}

	return a, nil
}

func (a *Analyzer) Name() string {
	return ANALYZER_NAME
}

// Analyze normalizes and scores reviewText. The returned Text is always the
// caller's input, never the cleaned form.
func (a *Analyzer) Analyze(ctx context.Context, reviewText string) (models.SentimentResult, error) {
	cleaned := reviewText
	if a.stripMarkdown {
		cleaned = ConvertMarkdownToText(cleaned)
	}

	score, err := a.Score(ctx, Normalize(cleaned))
	if err != nil {
		return models.SentimentResult{}, err
	}

	return models.SentimentResult{
		Text:           reviewText,
		SentimentLabel: score.Label,
		PolarityScore:  score.Polarity,
	}, nil
}

// Score expects text that has already been through Normalize.
func (a *Analyzer) Score(ctx context.Context, normalized string) (Score, error) {
	raw, err := a.rawPolarity(ctx, normalized)
	if err != nil {
		return Score{}, err
	}

	polarity := RoundScore(raw)
	return Score{
		Polarity: polarity,
		Label:    LabelFor(polarity),
	}, nil
}

func (a *Analyzer) rawPolarity(ctx context.Context, normalized string) (float64, error) {
	if strings.TrimSpace(normalized) == "" {
		return 0, nil
	}

	useCache := a.cacheEnabled()
	key := ScoreCacheKey(normalized)

	if useCache {
		lookupCtx, cancel := context.WithTimeout(ctx, CACHE_TIMEOUT)
		cached, ok, err := a.cache.GetScore(lookupCtx, key)
		cancel()
		if err != nil {
			slog.Warn("[Sentiment] Score cache lookup failed",
				slog.String("error", err.Error()))
		} else if ok {
			return cached, nil
		}
	}

	score, err := a.safePolarity(normalized)
	if err != nil {
		return 0, err
	}

	if useCache {
		writeCtx, cancel := context.WithTimeout(ctx, CACHE_TIMEOUT)
		err := a.cache.SetScore(writeCtx, key, score)
		cancel()
		if err != nil {
			slog.Warn("[Sentiment] Score cache write failed",
				slog.String("error", err.Error()))
		}
	}

	return score, nil
}

func (a *Analyzer) safePolarity(text string) (score float64, err error) {
	defer func() {
		if r := recover(); r != nil {
			slog.Error("[Sentiment] Analyzer panicked",
				slog.Any("panic", r))
			err = newAnalysisError("sentiment analyzer failed: %v", r)
		}
	}()

	score = a.polarity(text)
	if math.IsNaN(score) || math.IsInf(score, 0) {
		return 0, newAnalysisError("sentiment analyzer returned an invalid score: %v", score)
	}

	return score, nil
}

func (a *Analyzer) cacheEnabled() bool {
	if a.cache == nil {
		return false
	}
	return a.cacheHealthy == nil || a.cacheHealthy.Load()
}
