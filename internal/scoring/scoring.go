package scoring

import (
	"fmt"

	"github.com/arpitnexuses/forvismazar-questionnaire/internal/models"
)

// WarningCode classifies a data-integrity anomaly found while scoring.
// Warnings are data, not errors: scoring always returns a best-effort result.
type WarningCode string

const (
	WarningStalePoints      WarningCode = "stale_points"
	WarningOptionOutOfRange WarningCode = "option_out_of_range"
	WarningUnknownQuestion  WarningCode = "unknown_question"
)

// Warning records one reconciled anomaly. The caller may surface these in an
// audit view; end users never see them.
type Warning struct {
	Code       WarningCode `json:"code"`
	QuestionID string      `json:"question_id"`
	Message    string      `json:"message"`
}

// Result is the full scoring output for one submission.
type Result struct {
	SectionScores []models.SectionScore `json:"section_scores"`
	TotalScore    int                   `json:"total_score"`
	MaxTotalScore int                   `json:"max_total_score"`
	Warnings      []Warning             `json:"warnings,omitempty"`
}

// ComputeScores walks the questionnaire in source order and aggregates the
// answers into per-section and total scores. It is a pure function over its
// inputs: integer arithmetic only, no I/O, identical output for identical
// input. Answers may cover a sparse subset of questions; an unanswered
// question contributes 0 to the score and its full maximum to maxScore.
//
// answer.Points is treated as a denormalized cache. When it disagrees with
// the authoritative option value the recomputed value is used and a single
// stale_points warning is emitted for that question. An out-of-range
// selected option index is treated as unanswered with a warning.
func ComputeScores(q *models.Questionnaire, answers []models.Answer) Result {
	result := Result{SectionScores: []models.SectionScore{}}
	if q == nil {
		return result
	}

	byQuestion := make(map[string]models.Answer, len(answers))
	for _, a := range answers {
		byQuestion[a.QuestionID] = a
	}
	known := make(map[string]bool)

	for _, section := range q.SectionList() {
		ss := models.SectionScore{SectionID: section.ID}
		for _, question := range section.Questions {
			known[question.ID] = true
			ss.MaxScore += question.MaxPoints()

			answer, ok := byQuestion[question.ID]
			if !ok {
				continue
			}
			if answer.SelectedOptionIndex < 0 || answer.SelectedOptionIndex >= len(question.Options) {
				result.Warnings = append(result.Warnings, Warning{
					Code:       WarningOptionOutOfRange,
					QuestionID: question.ID,
					Message: fmt.Sprintf("selected option %d out of range (question has %d options), counted as unanswered",
						answer.SelectedOptionIndex, len(question.Options)),
				})
				continue
			}

			authoritative := question.Options[answer.SelectedOptionIndex].Points
			if answer.Points != authoritative {
				result.Warnings = append(result.Warnings, Warning{
					Code:       WarningStalePoints,
					QuestionID: question.ID,
					Message: fmt.Sprintf("stored points %d do not match option value %d, using option value",
						answer.Points, authoritative),
				})
			}
			ss.Score += authoritative
		}
		result.SectionScores = append(result.SectionScores, ss)
		result.TotalScore += ss.Score
		result.MaxTotalScore += ss.MaxScore
	}

	for _, a := range answers {
		if !known[a.QuestionID] {
			result.Warnings = append(result.Warnings, Warning{
				Code:       WarningUnknownQuestion,
				QuestionID: a.QuestionID,
				Message:    "answer references a question not present in the questionnaire",
			})
		}
	}

	return result
}

// Percentage derives a rounded integer percentage from a score pair.
// ok is false when maxScore is 0; callers render "N/A" in that case and
// must never divide by zero themselves.
func Percentage(score, maxScore int) (int, bool) {
	if maxScore <= 0 {
		return 0, false
	}
	// Round half up using integer arithmetic to keep scoring deterministic.
	return (200*score + maxScore) / (2 * maxScore), true
}

// FormatPercentage renders a score pair as "NN%" or "N/A" for an undefined
// percentage.
func FormatPercentage(score, maxScore int) string {
	pct, ok := Percentage(score, maxScore)
	if !ok {
		return "N/A"
	}
	return fmt.Sprintf("%d%%", pct)
}
