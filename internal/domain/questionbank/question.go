package questionbank

import (
	"regexp"
	"strings"

	"github.com/quizplayer/backend/internal/domain/level"
)

// CorrectMarker prefixes the correct answer line(s) of a question block.
const CorrectMarker = "@@"

var (
	levelTag = regexp.MustCompile(`\(([^)]+)\)\s*$`)
	imageTag = regexp.MustCompile(`\[IMG:([^\]]+)\]`)
)

// Question is one blank-line-delimited block of quiz text.
// Text holds the raw block: the first line is the title, the remaining lines
// are answers, correct ones prefixed with CorrectMarker. Bank is the origin
// quiz label and is only set in combined quizzes.
type Question struct {
	Text string `json:"text"`
	Bank string `json:"bank,omitempty"`
}

// Title returns the first line of the block.
func (q Question) Title() string {
	title, _, _ := strings.Cut(q.Text, "\n")
	return title
}

// CleanTitle returns the title with image tags removed.
// It identifies a question when answers are carried across re-draws.
func (q Question) CleanTitle() string {
	return CleanTitle(q.Title())
}

// Answers returns the answer lines exactly as written, markers included.
func (q Question) Answers() []string {
	_, rest, ok := strings.Cut(q.Text, "\n")
	if !ok {
		return nil
	}
	return strings.Split(rest, "\n")
}

// Options returns the answers with the correct marker stripped.
func (q Question) Options() []string {
	answers := q.Answers()
	options := make([]string, len(answers))
	for i, a := range answers {
		options[i] = strings.TrimPrefix(a, CorrectMarker)
	}
	return options
}

// CorrectOptions returns the marker-stripped text of every marked answer.
func (q Question) CorrectOptions() []string {
	var correct []string
	for _, a := range q.Answers() {
		if opt, ok := strings.CutPrefix(a, CorrectMarker); ok {
			correct = append(correct, opt)
		}
	}
	return correct
}

// IsCorrect reports whether value is one of the marked options.
func (q Question) IsCorrect(value string) bool {
	for _, c := range q.CorrectOptions() {
		if c == value {
			return true
		}
	}
	return false
}

// HasOption reports whether value is one of the question's options.
func (q Question) HasOption(value string) bool {
	for _, o := range q.Options() {
		if o == value {
			return true
		}
	}
	return false
}

// Levels returns the normalized levels declared on the title line.
func (q Question) Levels() []level.Level {
	return ExtractLevels(q.Text)
}

// Images returns the image filenames referenced on the title line.
func (q Question) Images() []string {
	return ExtractImages(q.Title())
}

// ExtractLevels reads the level tag anchored to the end of the first line.
// The tag's content is split on commas and semicolons, normalized and
// deduplicated. A group containing "IMG:" is never a level tag. Questions
// without a tag get NoLevel.
func ExtractLevels(questionText string) []level.Level {
	title, _, _ := strings.Cut(questionText, "\n")
	title = strings.TrimSpace(title)

	m := levelTag.FindStringSubmatch(title)
	if m == nil || strings.Contains(m[1], "IMG:") {
		return []level.Level{level.NoLevel}
	}

	parts := strings.FieldsFunc(m[1], func(r rune) bool {
		return r == ',' || r == ';'
	})
	levels := level.NormalizeAll(parts)
	if len(levels) == 0 {
		return []level.Level{level.NoLevel}
	}
	return levels
}

// ExtractImages returns every [IMG:name] filename in the title, in order.
func ExtractImages(title string) []string {
	matches := imageTag.FindAllStringSubmatch(title, -1)
	images := make([]string, 0, len(matches))
	for _, m := range matches {
		images = append(images, m[1])
	}
	return images
}

// CleanTitle strips image tags from a title line and trims it.
func CleanTitle(title string) string {
	return strings.TrimSpace(imageTag.ReplaceAllString(title, ""))
}

// RenderLineBreaks turns literal `\n` sequences into real line breaks.
func RenderLineBreaks(s string) string {
	return strings.ReplaceAll(s, `\n`, "\n")
}

// DisplayName is the file name shown for a quiz: ".txt" and the legacy
// " (-)" suffix are dropped.
func DisplayName(fileName string) string {
	name := strings.TrimSuffix(fileName, ".txt")
	return strings.Replace(name, " (-)", "", 1)
}
