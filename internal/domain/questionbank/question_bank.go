package questionbank

import (
	"errors"
	"path"
	"strings"
	"unicode/utf8"

	"github.com/quizplayer/backend/internal/domain/level"
)

// ErrNoQuestions is returned when a text or a combination of texts yields no
// question at all.
var ErrNoQuestions = errors.New("no questions found")

// maxBankLabel bounds the origin label shown next to combined questions.
const maxBankLabel = 15

// QuestionBank is a parsed quiz: its source name, questions in file order and
// the level tally built from them.
type QuestionBank struct {
	Name        string
	Questions   []Question
	LevelCounts level.Counts
}

// New parses raw quiz text into a bank.
func New(name, raw string) *QuestionBank {
	questions := Parse(raw)
	return &QuestionBank{
		Name:        name,
		Questions:   questions,
		LevelCounts: CountLevels(questions),
	}
}

// Parse splits raw quiz text into question blocks. One or more blank lines
// separate blocks; leading and trailing blank lines are ignored and a final
// block without a trailing blank line is kept. Lines are preserved verbatim
// apart from a trailing carriage return.
func Parse(raw string) []Question {
	var (
		questions []Question
		current   []string
	)

	flush := func() {
		if len(current) > 0 {
			questions = append(questions, Question{Text: strings.Join(current, "\n")})
			current = nil
		}
	}

	for _, line := range strings.Split(raw, "\n") {
		line = strings.TrimSuffix(line, "\r")
		if strings.TrimSpace(line) == "" {
			flush()
			continue
		}
		current = append(current, line)
	}
	flush()

	return questions
}

// CountLevels rebuilds the level tally from scratch. Each distinct level of a
// question increments its count once.
func CountLevels(questions []Question) level.Counts {
	counts := level.Counts{}
	for _, q := range questions {
		counts.Add(q.Levels())
	}
	return counts
}

// TagBank returns copies of the questions tagged with the given bank label.
func TagBank(questions []Question, bank string) []Question {
	tagged := make([]Question, len(questions))
	for i, q := range questions {
		tagged[i] = Question{Text: q.Text, Bank: bank}
	}
	return tagged
}

// BankLabel derives a short origin label from a quiz file path: the base name
// without ".txt", cut to 15 characters.
func BankLabel(filePath string) string {
	name := strings.TrimSuffix(path.Base(filePath), ".txt")
	if utf8.RuneCountInString(name) <= maxBankLabel {
		return name
	}
	return string([]rune(name)[:maxBankLabel])
}
