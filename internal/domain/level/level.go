package level

import (
	"regexp"
	"sort"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Level classifies a question's difficulty or topic.
//
// A Level must only be constructed through Normalize so that two spellings of
// the same label ("level 2", "Level2", "L2", "2") compare equal. Numeric labels
// become "Level N"; free text becomes sentence case ("not clear" → "Not clear").
// Normalize is idempotent.
type Level string

// NoLevel is assigned to questions whose title carries no level tag.
const NoLevel Level = "No level"

var numericLevel = regexp.MustCompile(`(?i)^(?:level|lvl|l)?\s*(\d+)$`)

// Normalize returns the canonical Level for a raw label.
// An empty or whitespace-only label yields "".
func Normalize(raw string) Level {
	s := strings.Join(strings.Fields(raw), " ")
	if s == "" {
		return ""
	}

	if m := numericLevel.FindStringSubmatch(s); m != nil {
		n := strings.TrimLeft(m[1], "0")
		if n == "" {
			n = "0"
		}
		return Level("Level " + n)
	}

	first, size := utf8.DecodeRuneInString(s)
	return Level(string(unicode.ToUpper(first)) + strings.ToLower(s[size:]))
}

// NormalizeAll normalizes every label, dropping empties and duplicates while
// keeping first-seen order.
func NormalizeAll(raw []string) []Level {
	out := make([]Level, 0, len(raw))
	seen := make(map[Level]struct{}, len(raw))
	for _, r := range raw {
		l := Normalize(r)
		if l == "" {
			continue
		}
		if _, ok := seen[l]; ok {
			continue
		}
		seen[l] = struct{}{}
		out = append(out, l)
	}
	return out
}

// Number reports the numeric part of a "Level N" label.
func (l Level) Number() (int, bool) {
	rest, ok := strings.CutPrefix(string(l), "Level ")
	if !ok {
		return 0, false
	}
	n, err := strconv.Atoi(rest)
	if err != nil {
		return 0, false
	}
	return n, true
}

// ShortLabel is the compact form used on level checkboxes ("L2").
func (l Level) ShortLabel() string {
	if n, ok := l.Number(); ok {
		return "L" + strconv.Itoa(n)
	}
	return string(l)
}

// Intersects reports whether any level of a is in b.
func Intersects(a, b []Level) bool {
	for _, x := range a {
		for _, y := range b {
			if x == y {
				return true
			}
		}
	}
	return false
}

// Counts maps a level to the number of questions declaring it.
// A question tagged with two levels counts once for each.
type Counts map[Level]int

// Add increments each level once. Levels must already be deduplicated.
func (c Counts) Add(levels []Level) {
	for _, l := range levels {
		c[l]++
	}
}

// Entry is one row of a display-ordered Counts.
type Entry struct {
	Level Level  `json:"level"`
	Label string `json:"label"`
	Count int    `json:"count"`
}

// Sorted returns the counts in display order: numeric levels ascending, then
// free-text levels alphabetically, then NoLevel.
func (c Counts) Sorted() []Entry {
	entries := make([]Entry, 0, len(c))
	for l, n := range c {
		entries = append(entries, Entry{Level: l, Label: l.ShortLabel(), Count: n})
	}
	sort.Slice(entries, func(i, j int) bool {
		return less(entries[i].Level, entries[j].Level)
	})
	return entries
}

func less(a, b Level) bool {
	if a == NoLevel || b == NoLevel {
		return b == NoLevel && a != NoLevel
	}
	na, aNum := a.Number()
	nb, bNum := b.Number()
	switch {
	case aNum && bNum:
		return na < nb
	case aNum != bNum:
		return aNum
	default:
		return strings.ToLower(string(a)) < strings.ToLower(string(b))
	}
}
