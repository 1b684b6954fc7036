package report

import "errors"

var (
	// ErrMissingSections means the questionnaire reference resolved to no
	// section data. The single export fails; nothing else is affected.
	ErrMissingSections = errors.New("questionnaire has no section data to export")

	// ErrMissingSubmission means the encoder was handed no submission.
	ErrMissingSubmission = errors.New("submission is required for export")
)
