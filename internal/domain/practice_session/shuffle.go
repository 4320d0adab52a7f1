package practicesession

import (
	"math/rand/v2"

	"github.com/quizplayer/backend/internal/domain/questionbank"
)

// Shuffle returns a uniformly permuted copy of items.
// The input is never modified.
func Shuffle[T any](items []T) []T {
	shuffled := make([]T, len(items))
	copy(shuffled, items)

	rand.Shuffle(len(shuffled), func(i, j int) {
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	})

	return shuffled
}

// Prefix returns the first count entries of a draw order. A non-positive
// count or an empty order yields an empty slice.
func Prefix(order []questionbank.Question, count int) []questionbank.Question {
	if count <= 0 || len(order) == 0 {
		return []questionbank.Question{}
	}
	return order[:min(count, len(order))]
}
