package questionbank

import "github.com/quizplayer/backend/internal/domain/level"

// FilterByLevel keeps the questions sharing at least one level with selected,
// in their original order. An empty selection means no filter: the input is
// returned as is.
func FilterByLevel(questions []Question, selected []level.Level) []Question {
	if len(selected) == 0 {
		return questions
	}

	filtered := make([]Question, 0, len(questions))
	for _, q := range questions {
		if level.Intersects(q.Levels(), selected) {
			filtered = append(filtered, q)
		}
	}
	return filtered
}

// CountDistinctMatches counts the questions FilterByLevel would keep. A
// question matching several selected levels counts once.
func CountDistinctMatches(questions []Question, selected []level.Level) int {
	if len(selected) == 0 {
		return len(questions)
	}

	n := 0
	for _, q := range questions {
		if level.Intersects(q.Levels(), selected) {
			n++
		}
	}
	return n
}
