package combiner

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/quizplayer/backend/internal/domain/level"
	"github.com/quizplayer/backend/internal/domain/questionbank"
)

// maxConcurrentFetches bounds the parallel content fetches of one combine.
const maxConcurrentFetches = 8

// Fetcher returns the raw text of a quiz file.
type Fetcher interface {
	Fetch(ctx context.Context, path string) (string, error)
}

// Bank describes one source file of a combined quiz.
type Bank struct {
	Path  string `json:"path"`
	Label string `json:"label"`
	Count int    `json:"count"`
}

// Result is a merged question bank.
type Result struct {
	SourceName  string
	Questions   []questionbank.Question
	LevelCounts level.Counts
	Banks       []Bank
}

// Combine fetches every path concurrently, parses each file on its own,
// tags its questions with the file's bank label and concatenates them in
// input order. Level counts are recounted over the merged set. Any fetch
// failure aborts the whole combine.
func Combine(ctx context.Context, f Fetcher, paths []string) (Result, error) {
	if len(paths) == 0 {
		return Result{}, questionbank.ErrNoQuestions
	}

	texts := make([]string, len(paths))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxConcurrentFetches)
	for i, p := range paths {
		g.Go(func() error {
			raw, err := f.Fetch(gctx, p)
			if err != nil {
				return fmt.Errorf("fetch %s: %w", p, err)
			}
			texts[i] = raw
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return Result{}, err
	}

	var (
		questions []questionbank.Question
		banks     = make([]Bank, len(paths))
	)
	for i, p := range paths {
		label := questionbank.BankLabel(p)
		parsed := questionbank.Parse(texts[i])
		questions = append(questions, questionbank.TagBank(parsed, label)...)
		banks[i] = Bank{Path: p, Label: label, Count: len(parsed)}
	}

	if len(questions) == 0 {
		return Result{}, questionbank.ErrNoQuestions
	}

	return Result{
		SourceName:  SourceName(len(paths)),
		Questions:   questions,
		LevelCounts: questionbank.CountLevels(questions),
		Banks:       banks,
	}, nil
}

// SourceName is the synthetic name of a quiz combined from n files.
func SourceName(n int) string {
	return fmt.Sprintf("Combined (%d quizzes)", n)
}
