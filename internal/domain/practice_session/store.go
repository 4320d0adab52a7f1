package practicesession

import (
	"fmt"
	"slices"
	"sync"

	"github.com/quizplayer/backend/internal/domain/level"
	"github.com/quizplayer/backend/internal/domain/questionbank"
	"github.com/quizplayer/backend/internal/grader"
)

// Store owns one quiz session. Every transition runs under the store's
// lock, validates first and only then mutates, so a rejected call leaves the
// state exactly as it was.
type Store struct {
	mu    sync.Mutex
	cfg   Config
	state State
}

// NewStore creates an empty store. Nothing is loaded until StartSession.
func NewStore(cfg Config) *Store {
	if cfg.DefaultCount <= 0 {
		cfg.DefaultCount = DefaultConfig().DefaultCount
	}
	if cfg.Bounds == (questionbank.Bounds{}) {
		cfg.Bounds = questionbank.DefaultBounds
	}
	if len(cfg.Thresholds) == 0 {
		cfg.Thresholds = grader.DefaultThresholds
	}
	return &Store{
		cfg: cfg,
		state: State{
			RequestedCount: cfg.DefaultCount,
			LiveScoring:    cfg.LiveScoring,
		},
	}
}

// Get returns a deep copy of the current state.
func (s *Store) Get() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.clone()
}

// Patch lists the fields Update may write directly. Nil fields are left
// alone.
type Patch struct {
	SourceName  *string
	LiveScoring *bool
}

// Update merges plain fields without running any transition. Use
// SetLiveScoring to toggle live mode with the usual restart.
func (s *Store) Update(p Patch) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if p.LiveScoring != nil && s.state.Submitted && *p.LiveScoring != s.state.LiveScoring {
		return reject(ErrSubmitted, "Cannot change live mode after submission")
	}
	if p.SourceName != nil {
		s.state.SourceName = *p.SourceName
	}
	if p.LiveScoring != nil {
		s.state.LiveScoring = *p.LiveScoring
	}
	return nil
}

// StartSession loads a new bank, replacing whatever was loaded before.
// The requested count resets to the configured default capped at the bank
// size. Live scoring carries over.
func (s *Store) StartSession(all []questionbank.Question, selected []level.Level, sourceName string) error {
	if len(all) == 0 {
		return reject(ErrNoQuestions, "No questions found in this quiz")
	}
	filtered := questionbank.FilterByLevel(all, selected)
	if len(filtered) == 0 {
		return reject(ErrNoQuestionsAvailable, "No questions available for selected criteria")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.state = State{
		SourceName:     sourceName,
		RequestedCount: min(s.cfg.DefaultCount, len(all)),
		SelectedLevels: slices.Clone(selected),
		LiveScoring:    s.state.LiveScoring,
		AllQuestions:   slices.Clone(all),
		DrawOrder:      Shuffle(filtered),
		LevelCounts:    questionbank.CountLevels(all),
	}
	s.state.Displayed = s.slice(nil)
	return nil
}

// Clear discards the loaded quiz. The live-scoring preference is kept.
func (s *Store) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.state = State{
		RequestedCount: s.cfg.DefaultCount,
		LiveScoring:    s.state.LiveScoring,
	}
}

// ChangeLevels replaces the level filter and draws a fresh order from it.
// Answers given to questions that remain displayed are carried over,
// matched by clean title.
func (s *Store) ChangeLevels(levels []level.Level) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state.Submitted {
		return reject(ErrSubmitted, "Cannot change levels after submission")
	}
	if !s.state.Active() {
		return reject(ErrNoSession, "No saved quiz state found")
	}

	filtered := questionbank.FilterByLevel(s.state.AllQuestions, levels)
	if len(filtered) == 0 {
		return reject(ErrNoQuestionsAvailable, "No questions available for selected criteria")
	}

	previous := s.state.Displayed
	s.state.SelectedLevels = slices.Clone(levels)
	s.state.DrawOrder = Shuffle(filtered)
	s.state.Displayed = s.slice(previous)
	return nil
}

// ChangeCount shows a different-sized prefix of the current draw order.
// The count is clamped to [1, len(AllQuestions)]. It returns the count
// actually applied.
func (s *Store) ChangeCount(n int) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state.Submitted {
		return s.state.RequestedCount, reject(ErrSubmitted, "Cannot change question count after submission")
	}
	if !s.state.Active() {
		return s.state.RequestedCount, reject(ErrNoSession, "No saved quiz state found")
	}

	n = max(1, min(n, len(s.state.AllQuestions)))

	if s.state.DrawOrder == nil {
		filtered := questionbank.FilterByLevel(s.state.AllQuestions, s.state.SelectedLevels)
		if len(filtered) == 0 {
			return s.state.RequestedCount, reject(ErrNoQuestionsAvailable, "No questions available for selected criteria")
		}
		s.state.DrawOrder = Shuffle(filtered)
	}

	s.state.RequestedCount = n
	s.state.Displayed = s.slice(s.state.Displayed)
	return n, nil
}

// Restart reshuffles the same bank under the same filter and clears answers
// and the submission. Live scoring is kept.
func (s *Store) Restart() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.restart()
}

func (s *Store) restart() error {
	if !s.state.Active() {
		return reject(ErrNoSession, "No saved quiz state found")
	}

	filtered := questionbank.FilterByLevel(s.state.AllQuestions, s.state.SelectedLevels)
	if len(filtered) == 0 {
		return reject(ErrNoQuestionsAvailable, "No questions available for selected criteria")
	}

	s.state.DrawOrder = Shuffle(filtered)
	s.state.Submitted = false
	s.state.Result = nil
	s.state.Displayed = s.slice(nil)
	return nil
}

// SetLiveScoring toggles live mode. With a quiz loaded, an actual change
// restarts it; without one only the preference is stored.
func (s *Store) SetLiveScoring(enabled bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state.LiveScoring == enabled {
		return nil
	}
	if s.state.Submitted {
		return reject(ErrSubmitted, "Cannot change live mode after submission")
	}

	s.state.LiveScoring = enabled
	if !s.state.Active() {
		return nil
	}
	return s.restart()
}

// Feedback is returned after recording an answer. The correctness fields
// are only filled in live mode, and only while the question is answered.
type Feedback struct {
	Index          int               `json:"index"`
	Answered       bool              `json:"answered"`
	Correct        *bool             `json:"correct,omitempty"`
	CorrectOptions []string          `json:"correct_options,omitempty"`
	Live           *grader.LiveScore `json:"live,omitempty"`
}

// Answer records the option picked for the displayed question at index.
// A nil value clears the selection.
func (s *Store) Answer(index int, value *string) (Feedback, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.state.Active() {
		return Feedback{}, reject(ErrNoSession, "No saved quiz state found")
	}
	if s.state.Submitted {
		return Feedback{}, reject(ErrSubmitted, "Cannot change answers after submission")
	}
	if index < 0 || index >= len(s.state.Displayed) {
		return Feedback{}, fmt.Errorf("question %d: %w", index, ErrInvalidAnswer)
	}

	slot := &s.state.Displayed[index]
	if value != nil {
		if !slot.Question.HasOption(*value) {
			return Feedback{}, fmt.Errorf("question %d has no option %q: %w", index, *value, ErrInvalidAnswer)
		}
		v := *value
		slot.Answer = &v
	} else {
		slot.Answer = nil
	}

	fb := Feedback{Index: index, Answered: slot.Answer != nil}
	if s.state.LiveScoring {
		if slot.Answer != nil {
			correct := slot.Question.IsCorrect(*slot.Answer)
			fb.Correct = &correct
			fb.CorrectOptions = slot.Question.CorrectOptions()
		}
		live := grader.Live(s.state.Questions(), s.state.Answers())
		fb.Live = &live
	}
	return fb, nil
}

// LiveScore returns the running score over the answers given so far.
func (s *Store) LiveScore() grader.LiveScore {
	s.mu.Lock()
	defer s.mu.Unlock()
	return grader.Live(s.state.Questions(), s.state.Answers())
}

// Submit scores the displayed questions and locks the session until
// Restart or a new StartSession.
func (s *Store) Submit() (grader.Result, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.state.Active() {
		return grader.Result{}, reject(ErrNoSession, "No saved quiz state found")
	}
	if s.state.Submitted {
		return grader.Result{}, reject(ErrSubmitted, "Quiz already submitted")
	}

	res := s.cfg.Thresholds.Score(s.state.Questions(), s.state.Answers())
	s.state.Submitted = true
	s.state.Result = &res
	return res, nil
}

// slice builds the displayed prefix of the draw order. Slots from previous
// whose clean title reappears are reused so their answer and option order
// survive; an answer is only kept if it is still a valid option.
func (s *Store) slice(previous []Slot) []Slot {
	shown := Prefix(s.state.DrawOrder, s.state.RequestedCount)

	byTitle := make(map[string]Slot, len(previous))
	for _, slot := range previous {
		title := slot.Question.CleanTitle()
		if _, ok := byTitle[title]; !ok {
			byTitle[title] = slot
		}
	}

	displayed := make([]Slot, len(shown))
	for i, q := range shown {
		fresh := s.newSlot(q)
		if prev, ok := byTitle[q.CleanTitle()]; ok {
			if prev.Question.Text == q.Text {
				fresh.Options = prev.Options
			}
			if prev.Answer != nil && q.HasOption(*prev.Answer) {
				fresh.Answer = prev.Answer
			}
		}
		displayed[i] = fresh
	}
	return displayed
}

func (s *Store) newSlot(q questionbank.Question) Slot {
	return Slot{
		Question: q,
		Options:  Shuffle(q.Options()),
		Check:    s.cfg.Bounds.ValidateBlock(q),
	}
}
