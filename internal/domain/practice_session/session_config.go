package practicesession

import (
	"github.com/quizplayer/backend/internal/domain/questionbank"
	"github.com/quizplayer/backend/internal/grader"
)

// Config holds the defaults and rules applied to a session.
type Config struct {
	DefaultCount int                 // questions shown after a load, capped at the bank size
	LiveScoring  bool                // initial live-scoring preference
	Bounds       questionbank.Bounds // block line-count limits for the Invalid flag
	Thresholds   grader.Thresholds   // grade and message tiers
}

// DefaultConfig returns the standard defaults: 20 questions, live scoring off.
func DefaultConfig() Config {
	return Config{
		DefaultCount: 20,
		LiveScoring:  false,
		Bounds:       questionbank.DefaultBounds,
		Thresholds:   grader.DefaultThresholds,
	}
}
