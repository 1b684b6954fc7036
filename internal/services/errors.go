package services

import "errors"

// Sentinel errors mapped to HTTP status codes by the handlers
var (
	ErrQuestionnaireNotFound = errors.New("questionnaire not found")
	ErrSubmissionNotFound    = errors.New("submission not found")
	ErrClientNotFound        = errors.New("client not found")
	ErrQuestionnaireInactive = errors.New("questionnaire is not active")
	ErrUnsupportedFormat     = errors.New("unsupported export format")
)
