package practicesession_test

import (
	"errors"
	"slices"
	"testing"

	"github.com/quizplayer/backend/internal/domain/level"
	practicesession "github.com/quizplayer/backend/internal/domain/practice_session"
	"github.com/quizplayer/backend/internal/domain/questionbank"
)

const sample = "Q1 (Level 1)\n@@A\nB\n\nQ2 (Level 2)\nC\n@@D"

func newStore(t *testing.T, questions []questionbank.Question, count int) *practicesession.Store {
	t.Helper()
	cfg := practicesession.DefaultConfig()
	cfg.DefaultCount = count
	s := practicesession.NewStore(cfg)
	if err := s.StartSession(questions, nil, "test.txt"); err != nil {
		t.Fatalf("StartSession: %v", err)
	}
	return s
}

func displayedTexts(st practicesession.State) []string {
	return texts(st.Questions())
}

func str(s string) *string { return &s }

func TestStore_EndToEnd(t *testing.T) {
	s := newStore(t, questionbank.Parse(sample), 2)

	st := s.Get()
	if len(st.Displayed) != 2 {
		t.Fatalf("expected both questions drawn, got %d", len(st.Displayed))
	}
	if st.LevelCounts["Level 1"] != 1 || st.LevelCounts["Level 2"] != 1 {
		t.Errorf("unexpected level counts %v", st.LevelCounts)
	}

	if err := s.ChangeLevels([]level.Level{"Level 2"}); err != nil {
		t.Fatalf("ChangeLevels: %v", err)
	}

	st = s.Get()
	if len(st.DrawOrder) != 1 {
		t.Fatalf("expected draw order of 1, got %d", len(st.DrawOrder))
	}
	if st.DrawOrder[0].Title() != "Q2 (Level 2)" {
		t.Errorf("expected Q2 to remain, got %q", st.DrawOrder[0].Title())
	}
	if len(st.Displayed) != 1 {
		t.Errorf("expected 1 displayed question, got %d", len(st.Displayed))
	}
}

func TestStore_StartSession_Defaults(t *testing.T) {
	s := practicesession.NewStore(practicesession.DefaultConfig())
	if err := s.StartSession(createQuestions(5), nil, "five.txt"); err != nil {
		t.Fatal(err)
	}

	st := s.Get()
	if st.RequestedCount != 5 {
		t.Errorf("expected count capped at bank size 5, got %d", st.RequestedCount)
	}
	if st.SourceName != "five.txt" || st.Submitted {
		t.Errorf("unexpected state %+v", st)
	}
	for i, flag := range st.AnsweredFlags() {
		if flag {
			t.Errorf("question %d answered on a fresh session", i)
		}
	}
}

func TestStore_StartSession_EmptyBankRejected(t *testing.T) {
	s := newStore(t, createQuestions(4), 4)
	before := s.Get()

	err := s.StartSession(nil, nil, "empty.txt")
	if !errors.Is(err, practicesession.ErrNoQuestions) {
		t.Fatalf("expected ErrNoQuestions, got %v", err)
	}

	after := s.Get()
	if after.SourceName != before.SourceName || !slices.Equal(texts(after.DrawOrder), texts(before.DrawOrder)) {
		t.Error("state changed after rejected start")
	}
}

func TestStore_StartSession_NoMatchingLevel(t *testing.T) {
	s := practicesession.NewStore(practicesession.DefaultConfig())

	err := s.StartSession(createQuestions(3), []level.Level{"Level 9"}, "x.txt")
	if !errors.Is(err, practicesession.ErrNoQuestionsAvailable) {
		t.Fatalf("expected ErrNoQuestionsAvailable, got %v", err)
	}
	if s.Get().Active() {
		t.Error("expected no session after rejected start")
	}
}

func TestStore_DrawOrderIsFilteredPermutation(t *testing.T) {
	all := createQuestions(12)
	s := newStore(t, all, 20)

	selected := []level.Level{"Level 1", "Level 3"}
	if err := s.ChangeLevels(selected); err != nil {
		t.Fatal(err)
	}

	got := texts(s.Get().DrawOrder)
	want := texts(questionbank.FilterByLevel(all, selected))
	slices.Sort(got)
	slices.Sort(want)
	if !slices.Equal(got, want) {
		t.Errorf("draw order is not a permutation of the filtered bank:\n got %v\nwant %v", got, want)
	}
}

func TestStore_SubmittedLock(t *testing.T) {
	s := newStore(t, createQuestions(10), 5)
	if _, err := s.Submit(); err != nil {
		t.Fatal(err)
	}
	before := s.Get()

	err := s.ChangeLevels([]level.Level{"Level 1"})
	var rej *practicesession.RejectionError
	if !errors.As(err, &rej) || !errors.Is(err, practicesession.ErrSubmitted) {
		t.Fatalf("expected submitted rejection, got %v", err)
	}
	if rej.Message != "Cannot change levels after submission" {
		t.Errorf("unexpected message %q", rej.Message)
	}

	if _, err := s.ChangeCount(2); !errors.Is(err, practicesession.ErrSubmitted) {
		t.Fatalf("expected ErrSubmitted from ChangeCount, got %v", err)
	}
	if err := s.SetLiveScoring(true); !errors.Is(err, practicesession.ErrSubmitted) {
		t.Fatalf("expected ErrSubmitted from SetLiveScoring, got %v", err)
	}
	if _, err := s.Submit(); !errors.Is(err, practicesession.ErrSubmitted) {
		t.Fatalf("expected second submit to be rejected, got %v", err)
	}

	after := s.Get()
	if after.RequestedCount != before.RequestedCount {
		t.Errorf("requested count changed: %d -> %d", before.RequestedCount, after.RequestedCount)
	}
	if !slices.Equal(texts(after.DrawOrder), texts(before.DrawOrder)) {
		t.Error("draw order changed after rejected transitions")
	}
	if after.LiveScoring {
		t.Error("live scoring changed after rejected toggle")
	}
}

func TestStore_ChangeCount_ReslicesSamePermutation(t *testing.T) {
	s := newStore(t, createQuestions(10), 6)
	order := texts(s.Get().DrawOrder)

	if _, err := s.ChangeCount(3); err != nil {
		t.Fatal(err)
	}
	st := s.Get()
	if !slices.Equal(texts(st.DrawOrder), order) {
		t.Fatal("ChangeCount reshuffled the draw order")
	}
	if !slices.Equal(displayedTexts(st), order[:3]) {
		t.Errorf("expected first 3 of the draw order, got %v", displayedTexts(st))
	}

	if _, err := s.ChangeCount(8); err != nil {
		t.Fatal(err)
	}
	if !slices.Equal(displayedTexts(s.Get()), order[:8]) {
		t.Error("expected a longer prefix of the same permutation")
	}
}

func TestStore_ChangeCount_KeepsAnswersInPrefix(t *testing.T) {
	s := newStore(t, createQuestions(10), 5)
	if _, err := s.Answer(0, str("right")); err != nil {
		t.Fatal(err)
	}
	options := s.Get().Displayed[0].Options

	if _, err := s.ChangeCount(7); err != nil {
		t.Fatal(err)
	}

	slot := s.Get().Displayed[0]
	if slot.Answer == nil || *slot.Answer != "right" {
		t.Errorf("expected answer kept, got %v", slot.Answer)
	}
	if !slices.Equal(slot.Options, options) {
		t.Errorf("expected option order kept, got %v want %v", slot.Options, options)
	}
}

func TestStore_ChangeCount_Clamps(t *testing.T) {
	s := newStore(t, createQuestions(4), 4)

	tests := []struct{ in, want int }{{0, 1}, {-3, 1}, {99, 4}, {2, 2}}
	for _, tt := range tests {
		got, err := s.ChangeCount(tt.in)
		if err != nil {
			t.Fatal(err)
		}
		if got != tt.want || s.Get().RequestedCount != tt.want {
			t.Errorf("ChangeCount(%d): expected %d, got %d", tt.in, tt.want, got)
		}
		if n := len(s.Get().Displayed); n != tt.want {
			t.Errorf("ChangeCount(%d): expected %d displayed, got %d", tt.in, tt.want, n)
		}
	}
}

func TestStore_ChangeLevels_RestoresAnswersByTitle(t *testing.T) {
	raw := "A (Level 1)\n@@a1\na2\n\nB [IMG:b.png] (Level 1, Level 2)\n@@b1\nb2\n\nC (Level 2)\n@@c1\nc2"
	s := newStore(t, questionbank.Parse(raw), 3)

	for i, slot := range s.Get().Displayed {
		if slot.Question.Title() == "B [IMG:b.png] (Level 1, Level 2)" {
			if _, err := s.Answer(i, str("b2")); err != nil {
				t.Fatal(err)
			}
		}
	}

	if err := s.ChangeLevels([]level.Level{"Level 2"}); err != nil {
		t.Fatal(err)
	}

	found := false
	for _, slot := range s.Get().Displayed {
		if slot.Question.Title() == "B [IMG:b.png] (Level 1, Level 2)" {
			found = true
			if slot.Answer == nil || *slot.Answer != "b2" {
				t.Errorf("expected answer b2 restored, got %v", slot.Answer)
			}
		} else if slot.Answer != nil {
			t.Errorf("unexpected answer on %q", slot.Question.Title())
		}
	}
	if !found {
		t.Fatal("question B missing after level change")
	}
}

func TestStore_ChangeLevels_NothingMatches(t *testing.T) {
	s := newStore(t, createQuestions(6), 6)
	before := s.Get()

	err := s.ChangeLevels([]level.Level{"Level 42"})
	if !errors.Is(err, practicesession.ErrNoQuestionsAvailable) {
		t.Fatalf("expected ErrNoQuestionsAvailable, got %v", err)
	}
	after := s.Get()
	if !slices.Equal(texts(after.DrawOrder), texts(before.DrawOrder)) || len(after.SelectedLevels) != 0 {
		t.Error("state changed after rejected level change")
	}
}

func TestStore_Restart(t *testing.T) {
	s := newStore(t, createQuestions(10), 10)
	if err := s.SetLiveScoring(true); err != nil {
		t.Fatal(err)
	}
	if _, err := s.Answer(0, str("right")); err != nil {
		t.Fatal(err)
	}
	if _, err := s.Submit(); err != nil {
		t.Fatal(err)
	}

	if err := s.Restart(); err != nil {
		t.Fatal(err)
	}

	st := s.Get()
	if st.Submitted || st.Result != nil {
		t.Error("expected submission cleared")
	}
	if !st.LiveScoring {
		t.Error("expected live scoring preserved")
	}
	if slices.Contains(st.AnsweredFlags(), true) {
		t.Error("expected answers cleared")
	}
	if len(st.Displayed) != 10 {
		t.Errorf("expected 10 displayed, got %d", len(st.Displayed))
	}
}

func TestStore_RestartWithoutSession(t *testing.T) {
	s := practicesession.NewStore(practicesession.DefaultConfig())

	err := s.Restart()
	var rej *practicesession.RejectionError
	if !errors.As(err, &rej) || rej.Message != "No saved quiz state found" {
		t.Fatalf("expected no-session rejection, got %v", err)
	}
}

func TestStore_SetLiveScoring(t *testing.T) {
	s := practicesession.NewStore(practicesession.DefaultConfig())
	if err := s.SetLiveScoring(true); err != nil {
		t.Fatalf("toggling without a session should only store the preference: %v", err)
	}
	if err := s.StartSession(createQuestions(8), nil, "q.txt"); err != nil {
		t.Fatal(err)
	}
	if !s.Get().LiveScoring {
		t.Fatal("expected live preference to survive a load")
	}

	if _, err := s.Answer(0, str("right")); err != nil {
		t.Fatal(err)
	}
	if err := s.SetLiveScoring(false); err != nil {
		t.Fatal(err)
	}
	st := s.Get()
	if st.LiveScoring {
		t.Error("expected live scoring off")
	}
	if slices.Contains(st.AnsweredFlags(), true) {
		t.Error("expected toggle to restart the quiz")
	}
}

func TestStore_Answer(t *testing.T) {
	s := newStore(t, createQuestions(4), 4)

	fb, err := s.Answer(1, str("wrong"))
	if err != nil {
		t.Fatal(err)
	}
	if !fb.Answered || fb.Correct != nil || fb.Live != nil {
		t.Errorf("expected no live feedback outside live mode, got %+v", fb)
	}

	if _, err := s.Answer(9, str("right")); !errors.Is(err, practicesession.ErrInvalidAnswer) {
		t.Errorf("expected ErrInvalidAnswer for bad index, got %v", err)
	}
	if _, err := s.Answer(0, str("@@right")); !errors.Is(err, practicesession.ErrInvalidAnswer) {
		t.Errorf("expected ErrInvalidAnswer for unknown option, got %v", err)
	}

	fb, err = s.Answer(1, nil)
	if err != nil {
		t.Fatal(err)
	}
	if fb.Answered || s.Get().AnsweredFlags()[1] {
		t.Error("expected answer cleared")
	}
}

func TestStore_Answer_LiveFeedback(t *testing.T) {
	cfg := practicesession.DefaultConfig()
	cfg.LiveScoring = true
	s := practicesession.NewStore(cfg)
	if err := s.StartSession(createQuestions(4), nil, "live.txt"); err != nil {
		t.Fatal(err)
	}

	if _, err := s.Answer(0, str("right")); err != nil {
		t.Fatal(err)
	}
	fb, err := s.Answer(1, str("wrong"))
	if err != nil {
		t.Fatal(err)
	}

	if fb.Correct == nil || *fb.Correct {
		t.Errorf("expected incorrect feedback, got %v", fb.Correct)
	}
	if len(fb.CorrectOptions) != 1 || fb.CorrectOptions[0] != "right" {
		t.Errorf("expected correct option revealed, got %v", fb.CorrectOptions)
	}
	if fb.Live == nil || fb.Live.Correct != 1 || fb.Live.Answered != 2 || fb.Live.PercentageDisplay != "50.0" {
		t.Errorf("unexpected live score %+v", fb.Live)
	}
	if live := s.LiveScore(); live.Answered != 2 {
		t.Errorf("expected 2 answered, got %d", live.Answered)
	}
}

func TestStore_Answer_LiveClearHidesCorrectOptions(t *testing.T) {
	cfg := practicesession.DefaultConfig()
	cfg.LiveScoring = true
	s := practicesession.NewStore(cfg)
	if err := s.StartSession(questionbank.Parse("Q1\n@@A\nB"), nil, "live.txt"); err != nil {
		t.Fatal(err)
	}

	if _, err := s.Answer(0, str("B")); err != nil {
		t.Fatal(err)
	}
	fb, err := s.Answer(0, nil)
	if err != nil {
		t.Fatal(err)
	}

	if fb.Answered {
		t.Error("expected the answer cleared")
	}
	if fb.Correct != nil || len(fb.CorrectOptions) != 0 {
		t.Errorf("expected nothing revealed for an unanswered question, got %+v", fb)
	}
	if fb.Live == nil || fb.Live.Answered != 0 {
		t.Errorf("expected live score over zero answers, got %+v", fb.Live)
	}
}

func TestStore_Submit(t *testing.T) {
	s := newStore(t, createQuestions(10), 10)
	for i := 0; i < 9; i++ {
		if _, err := s.Answer(i, str("right")); err != nil {
			t.Fatal(err)
		}
	}

	res, err := s.Submit()
	if err != nil {
		t.Fatal(err)
	}
	if res.Correct != 9 || res.Answered != 9 || res.Total != 10 || res.Grade != "A+" {
		t.Errorf("unexpected result %+v", res)
	}

	st := s.Get()
	if !st.Submitted || st.Result == nil || st.Result.Grade != "A+" {
		t.Error("expected submitted state with stored result")
	}
	if _, err := s.Answer(9, str("right")); !errors.Is(err, practicesession.ErrSubmitted) {
		t.Errorf("expected answers locked after submit, got %v", err)
	}
}

func TestStore_Update(t *testing.T) {
	s := newStore(t, createQuestions(3), 3)

	name := "Renamed"
	if err := s.Update(practicesession.Patch{SourceName: &name}); err != nil {
		t.Fatal(err)
	}
	if got := s.Get().SourceName; got != name {
		t.Errorf("expected source %q, got %q", name, got)
	}

	if _, err := s.Submit(); err != nil {
		t.Fatal(err)
	}
	on := true
	if err := s.Update(practicesession.Patch{LiveScoring: &on}); !errors.Is(err, practicesession.ErrSubmitted) {
		t.Errorf("expected live patch rejected after submit, got %v", err)
	}
}

func TestStore_GetReturnsCopy(t *testing.T) {
	s := newStore(t, createQuestions(3), 3)

	st := s.Get()
	st.AllQuestions[0] = questionbank.Question{Text: "tampered"}
	st.Displayed[0].Options[0] = "tampered"
	st.LevelCounts["Level 1"] = 99

	fresh := s.Get()
	if fresh.AllQuestions[0].Text == "tampered" || fresh.Displayed[0].Options[0] == "tampered" || fresh.LevelCounts["Level 1"] == 99 {
		t.Error("snapshot mutation leaked into the store")
	}
}

func TestStore_BlockChecks(t *testing.T) {
	s := newStore(t, questionbank.Parse("Short\n@@a\n\nFine\n@@a\nb"), 2)

	for _, slot := range s.Get().Displayed {
		switch slot.Question.Title() {
		case "Short":
			if slot.Check.Valid || slot.Check.Reason != "Too few lines (2 < 3)" {
				t.Errorf("expected short block flagged, got %+v", slot.Check)
			}
		case "Fine":
			if !slot.Check.Valid {
				t.Errorf("expected valid block, got %+v", slot.Check)
			}
		}
	}
}

func TestStore_Clear(t *testing.T) {
	s := newStore(t, createQuestions(3), 3)
	if err := s.SetLiveScoring(true); err != nil {
		t.Fatal(err)
	}
	s.Clear()

	st := s.Get()
	if st.Active() || len(st.AllQuestions) != 0 {
		t.Error("expected session discarded")
	}
	if !st.LiveScoring {
		t.Error("expected live preference kept")
	}
}
