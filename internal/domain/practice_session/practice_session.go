package practicesession

import (
	"slices"

	"github.com/quizplayer/backend/internal/domain/level"
	"github.com/quizplayer/backend/internal/domain/questionbank"
	"github.com/quizplayer/backend/internal/grader"
)

// Slot is one displayed question. Options are shuffled once when the slot is
// created and keep that order for as long as the question stays displayed.
type Slot struct {
	Question questionbank.Question
	Options  []string
	Answer   *string
	Check    questionbank.BlockCheck
}

// State is a snapshot of a quiz session.
//
// AllQuestions is replaced only by StartSession. DrawOrder is always a
// permutation of FilterByLevel(AllQuestions, SelectedLevels) and Displayed
// is its first min(RequestedCount, len(DrawOrder)) entries.
type State struct {
	SourceName     string
	RequestedCount int
	SelectedLevels []level.Level
	LiveScoring    bool
	Submitted      bool
	AllQuestions   []questionbank.Question
	DrawOrder      []questionbank.Question
	LevelCounts    level.Counts
	Displayed      []Slot
	Result         *grader.Result
}

// Active reports whether a quiz is loaded.
func (s State) Active() bool {
	return s.SourceName != ""
}

// Questions returns the displayed questions in display order.
func (s State) Questions() []questionbank.Question {
	qs := make([]questionbank.Question, len(s.Displayed))
	for i, slot := range s.Displayed {
		qs[i] = slot.Question
	}
	return qs
}

// Answers returns the selections parallel to Displayed; nil is unanswered.
func (s State) Answers() []*string {
	answers := make([]*string, len(s.Displayed))
	for i, slot := range s.Displayed {
		answers[i] = slot.Answer
	}
	return answers
}

// AnsweredFlags reports, per displayed question, whether an option is picked.
func (s State) AnsweredFlags() []bool {
	flags := make([]bool, len(s.Displayed))
	for i, slot := range s.Displayed {
		flags[i] = slot.Answer != nil
	}
	return flags
}

// MaxSelectable is the number of questions the current level selection can
// yield.
func (s State) MaxSelectable() int {
	return questionbank.CountDistinctMatches(s.AllQuestions, s.SelectedLevels)
}

func (s State) clone() State {
	c := s
	c.SelectedLevels = slices.Clone(s.SelectedLevels)
	c.AllQuestions = slices.Clone(s.AllQuestions)
	c.DrawOrder = slices.Clone(s.DrawOrder)

	if s.LevelCounts != nil {
		c.LevelCounts = make(level.Counts, len(s.LevelCounts))
		for l, n := range s.LevelCounts {
			c.LevelCounts[l] = n
		}
	}

	if s.Displayed != nil {
		c.Displayed = make([]Slot, len(s.Displayed))
		for i, slot := range s.Displayed {
			c.Displayed[i] = slot.clone()
		}
	}

	if s.Result != nil {
		r := *s.Result
		r.Review = slices.Clone(s.Result.Review)
		c.Result = &r
	}
	return c
}

func (s Slot) clone() Slot {
	c := s
	c.Options = slices.Clone(s.Options)
	if s.Answer != nil {
		a := *s.Answer
		c.Answer = &a
	}
	return c
}
