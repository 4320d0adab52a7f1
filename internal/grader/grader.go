package grader

import (
	"fmt"

	"github.com/quizplayer/backend/internal/domain/questionbank"
)

// Tier maps an inclusive lower percentage bound to a grade and message.
type Tier struct {
	Min     float64
	Grade   string
	Message string
}

// Thresholds are evaluated highest first. The last tier should have Min 0 so
// every percentage lands somewhere.
type Thresholds []Tier

// DefaultThresholds is the standard A+ to F scale.
var DefaultThresholds = Thresholds{
	{Min: 90, Grade: "A+", Message: "Excellent work! Outstanding performance! 🎉"},
	{Min: 80, Grade: "A", Message: "Great job! You have a solid understanding! 👍"},
	{Min: 70, Grade: "B", Message: "Good work! Keep practicing to improve! 👏"},
	{Min: 60, Grade: "C", Message: "Not bad! Review the topics and try again! 📚"},
	{Min: 0, Grade: "F", Message: "Keep studying and you'll improve! Don't give up! 💪"},
}

// Lookup returns the first tier whose bound the percentage reaches.
func (t Thresholds) Lookup(percentage float64) Tier {
	for _, tier := range t {
		if percentage >= tier.Min {
			return tier
		}
	}
	if len(t) == 0 {
		return Tier{Grade: "F"}
	}
	return t[len(t)-1]
}

// Review is the per-question breakdown shown after submission.
// Unanswered questions still list their correct options.
type Review struct {
	Title          string   `json:"title"`
	Answer         *string  `json:"answer"`
	CorrectOptions []string `json:"correct_options"`
	Correct        bool     `json:"correct"`
}

// Result is a scored submission.
type Result struct {
	Correct           int      `json:"correct"`
	Answered          int      `json:"answered"`
	Total             int      `json:"total"`
	Percentage        float64  `json:"percentage"`
	PercentageDisplay string   `json:"percentage_display"`
	Grade             string   `json:"grade"`
	Message           string   `json:"message"`
	Review            []Review `json:"review"`
}

// Score grades the displayed questions against the parallel answers slice.
// A nil answer is unanswered. Extra or missing answers are treated as
// unanswered.
func (t Thresholds) Score(displayed []questionbank.Question, answers []*string) Result {
	res := Result{
		Total:  len(displayed),
		Review: make([]Review, len(displayed)),
	}

	for i, q := range displayed {
		var answer *string
		if i < len(answers) {
			answer = answers[i]
		}

		review := Review{
			Title:          q.CleanTitle(),
			CorrectOptions: q.CorrectOptions(),
		}
		if answer != nil {
			a := *answer
			review.Answer = &a
			res.Answered++
			if q.IsCorrect(a) {
				review.Correct = true
				res.Correct++
			}
		}
		res.Review[i] = review
	}

	if res.Total > 0 {
		res.Percentage = float64(res.Correct) / float64(res.Total) * 100
	}
	res.PercentageDisplay = fmt.Sprintf("%.1f", res.Percentage)

	tier := t.Lookup(res.Percentage)
	res.Grade = tier.Grade
	res.Message = tier.Message
	return res
}

// Score grades with DefaultThresholds.
func Score(displayed []questionbank.Question, answers []*string) Result {
	return DefaultThresholds.Score(displayed, answers)
}
