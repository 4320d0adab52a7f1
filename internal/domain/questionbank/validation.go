package questionbank

import (
	"fmt"
	"strings"
)

// Bounds is the allowed number of consecutive non-blank lines per question
// block, title included.
type Bounds struct {
	Min int
	Max int
}

// DefaultBounds matches a title followed by two to four answers.
var DefaultBounds = Bounds{Min: 3, Max: 5}

// BlockCheck is the outcome of validating one question block.
type BlockCheck struct {
	Valid     bool   `json:"valid"`
	Reason    string `json:"reason,omitempty"`
	LineCount int    `json:"line_count"`
}

// ValidateBlock checks a single question's non-blank line count.
func (b Bounds) ValidateBlock(q Question) BlockCheck {
	n := 0
	for _, line := range strings.Split(q.Text, "\n") {
		if strings.TrimSpace(line) != "" {
			n++
		}
	}

	switch {
	case n < b.Min:
		return BlockCheck{Reason: fmt.Sprintf("Too few lines (%d < %d)", n, b.Min), LineCount: n}
	case n > b.Max:
		return BlockCheck{Reason: fmt.Sprintf("Too many lines (%d > %d)", n, b.Max), LineCount: n}
	}
	return BlockCheck{Valid: true, LineCount: n}
}

// FileCheck summarizes the consecutive-line runs of a whole quiz file.
type FileCheck struct {
	Valid  bool   `json:"valid"`
	Min    int    `json:"min"`
	Max    int    `json:"max"`
	Reason string `json:"reason,omitempty"`
}

// ValidateText measures the shortest and longest run of non-blank lines in
// raw quiz text. A file with no runs at all is valid. The minimum is only
// enforced when at least one run exists.
func (b Bounds) ValidateText(raw string) FileCheck {
	var (
		run, longest int
		shortest     = -1
	)

	closeRun := func() {
		if run > 0 && (shortest < 0 || run < shortest) {
			shortest = run
		}
		run = 0
	}

	for _, line := range strings.Split(raw, "\n") {
		if strings.TrimSpace(line) == "" {
			closeRun()
			continue
		}
		run++
		longest = max(longest, run)
	}
	closeRun()

	if shortest < 0 {
		shortest = 0
	}

	check := FileCheck{Valid: true, Min: shortest, Max: longest}
	switch {
	case longest > b.Max:
		check.Valid = false
		check.Reason = fmt.Sprintf("Too many consecutive lines (%d > %d)", longest, b.Max)
	case shortest > 0 && shortest < b.Min:
		check.Valid = false
		check.Reason = fmt.Sprintf("Too few consecutive lines (%d < %d)", shortest, b.Min)
	}
	return check
}
