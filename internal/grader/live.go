package grader

import (
	"fmt"

	"github.com/quizplayer/backend/internal/domain/questionbank"
)

// LiveScore is the running indicator shown while a quiz is in live mode.
// Unlike a submission it divides by the answered count, not the total.
type LiveScore struct {
	Correct           int     `json:"correct"`
	Answered          int     `json:"answered"`
	Percentage        float64 `json:"percentage"`
	PercentageDisplay string  `json:"percentage_display"`
}

// Live computes the running score over the answers given so far.
func Live(displayed []questionbank.Question, answers []*string) LiveScore {
	var s LiveScore
	for i, q := range displayed {
		if i >= len(answers) || answers[i] == nil {
			continue
		}
		s.Answered++
		if q.IsCorrect(*answers[i]) {
			s.Correct++
		}
	}
	if s.Answered > 0 {
		s.Percentage = float64(s.Correct) / float64(s.Answered) * 100
	}
	s.PercentageDisplay = fmt.Sprintf("%.1f", s.Percentage)
	return s
}
