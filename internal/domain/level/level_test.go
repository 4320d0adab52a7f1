package level_test

import (
	"testing"

	"github.com/quizplayer/backend/internal/domain/level"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		raw  string
		want level.Level
	}{
		{"Level 2", "Level 2"},
		{"level 2", "Level 2"},
		{"Level2", "Level 2"},
		{"LEVEL   3", "Level 3"},
		{"2", "Level 2"},
		{"L4", "Level 4"},
		{"level 07", "Level 7"},
		{"not clear", "Not clear"},
		{"NO LEVEL", level.NoLevel},
		{"  advanced   topics ", "Advanced topics"},
		{"", ""},
		{"   ", ""},
	}

	for _, tt := range tests {
		if got := level.Normalize(tt.raw); got != tt.want {
			t.Errorf("Normalize(%q) = %q, want %q", tt.raw, got, tt.want)
		}
	}
}

func TestNormalize_Idempotent(t *testing.T) {
	inputs := []string{"level 2", "Level2", "not clear", "No level", "ÉTAPE un", "l10"}
	for _, in := range inputs {
		once := level.Normalize(in)
		twice := level.Normalize(string(once))
		if once != twice {
			t.Errorf("Normalize not idempotent for %q: %q then %q", in, once, twice)
		}
	}
}

func TestNormalizeAll_DropsEmptyAndDuplicates(t *testing.T) {
	got := level.NormalizeAll([]string{"level 1", "Level1", "", "hard", "HARD"})
	want := []level.Level{"Level 1", "Hard"}

	if len(got) != len(want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("index %d: expected %q, got %q", i, want[i], got[i])
		}
	}
}

func TestShortLabel(t *testing.T) {
	if got := level.Level("Level 3").ShortLabel(); got != "L3" {
		t.Errorf("expected L3, got %q", got)
	}
	if got := level.Level("Not clear").ShortLabel(); got != "Not clear" {
		t.Errorf("expected free text unchanged, got %q", got)
	}
}

func TestCountsSorted(t *testing.T) {
	counts := level.Counts{}
	counts.Add([]level.Level{"Level 10", "Hard"})
	counts.Add([]level.Level{"Level 2"})
	counts.Add([]level.Level{level.NoLevel})
	counts.Add([]level.Level{"Easy", "Level 2"})

	sorted := counts.Sorted()
	order := []level.Level{"Level 2", "Level 10", "Easy", "Hard", level.NoLevel}

	if len(sorted) != len(order) {
		t.Fatalf("expected %d entries, got %d", len(order), len(sorted))
	}
	for i, l := range order {
		if sorted[i].Level != l {
			t.Errorf("position %d: expected %q, got %q", i, l, sorted[i].Level)
		}
	}
	if sorted[0].Count != 2 {
		t.Errorf("expected Level 2 count 2, got %d", sorted[0].Count)
	}
	if sorted[0].Label != "L2" {
		t.Errorf("expected short label L2, got %q", sorted[0].Label)
	}
}

func TestIntersects(t *testing.T) {
	a := []level.Level{"Level 1", "Level 2"}
	if !level.Intersects(a, []level.Level{"Level 2"}) {
		t.Error("expected intersection")
	}
	if level.Intersects(a, []level.Level{"Level 3"}) {
		t.Error("expected no intersection")
	}
	if level.Intersects(a, nil) {
		t.Error("expected no intersection with empty set")
	}
}
