package validator

import (
	"fmt"

	"github.com/arpitnexuses/forvismazar-questionnaire/internal/models"
)

// ValidateQuestionnaire checks the structural rules tags cannot express:
// identifiers unique within their parent and every question carrying at
// least one option.
func (v *Validator) ValidateQuestionnaire(q *models.Questionnaire) ValidationErrors {
	var errors ValidationErrors
	if q == nil {
		return ValidationErrors{{Field: "questionnaire", Message: "is required", Rule: "required"}}
	}
	errors = append(errors, v.Validate(q)...)

	sectionIDs := make(map[string]bool)
	questionIDs := make(map[string]bool)
	for si, section := range q.SectionList() {
		if section.ID == "" {
			errors = append(errors, ValidationError{
				Field:   fmt.Sprintf("sections[%d].id", si),
				Message: "is required",
				Rule:    "required",
			})
		} else if sectionIDs[section.ID] {
			errors = append(errors, ValidationError{
				Field:   fmt.Sprintf("sections[%d].id", si),
				Message: "duplicate section id",
				Value:   section.ID,
				Rule:    "unique",
			})
		}
		sectionIDs[section.ID] = true

		for qi, question := range section.Questions {
			if questionIDs[question.ID] {
				errors = append(errors, ValidationError{
					Field:   fmt.Sprintf("sections[%d].questions[%d].id", si, qi),
					Message: "duplicate question id",
					Value:   question.ID,
					Rule:    "unique",
				})
			}
			questionIDs[question.ID] = true

			if len(question.Options) == 0 {
				errors = append(errors, ValidationError{
					Field:   fmt.Sprintf("sections[%d].questions[%d].options", si, qi),
					Message: "question must have at least one option",
					Rule:    "min",
				})
			}
			for oi, option := range question.Options {
				if option.Points < 0 {
					errors = append(errors, ValidationError{
						Field:   fmt.Sprintf("sections[%d].questions[%d].options[%d].points", si, qi, oi),
						Message: "points must not be negative",
						Value:   option.Points,
						Rule:    "min",
					})
				}
			}
		}
	}

	return errors
}

// ValidateSubmissionCreate checks an intake request before the scoring
// engine sees it. Stale points are not rejected here; the engine reconciles
// them and reports drift as warnings.
func (v *Validator) ValidateSubmissionCreate(req *SubmissionCreateRequest) ValidationErrors {
	var errors ValidationErrors
	if req == nil {
		return ValidationErrors{{Field: "submission", Message: "is required", Rule: "required"}}
	}
	errors = append(errors, v.Validate(req)...)

	seen := make(map[string]bool)
	for i, answer := range req.Answers {
		if seen[answer.QuestionID] {
			errors = append(errors, ValidationError{
				Field:   fmt.Sprintf("answers[%d].question_id", i),
				Message: "duplicate answer for question",
				Value:   answer.QuestionID,
				Rule:    "unique",
			})
		}
		seen[answer.QuestionID] = true
	}

	return errors
}
