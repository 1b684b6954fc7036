package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/arpitnexuses/forvismazar-questionnaire/internal/events"
	"github.com/arpitnexuses/forvismazar-questionnaire/internal/report"
	"github.com/arpitnexuses/forvismazar-questionnaire/internal/repositories"
	"github.com/arpitnexuses/forvismazar-questionnaire/internal/scoring"
)

const reportEventsTopic = "questionnaire.reports"

// reportEncoder is the shape all three format encoders share
type reportEncoder interface {
	Encode(ctx context.Context, in report.Input) (*report.Artifact, error)
}

type reportService struct {
	repo           repositories.Repository
	logger         *slog.Logger
	eventPublisher events.EventPublisher
	encoders       map[ExportFormat]reportEncoder
}

func NewReportService(repo repositories.Repository, logger *slog.Logger, eventPublisher events.EventPublisher, logoPath string) ReportService {
	return &reportService{
		repo:           repo,
		logger:         logger,
		eventPublisher: eventPublisher,
		encoders: map[ExportFormat]reportEncoder{
			FormatPDF:  report.NewPDFEncoder(logger, logoPath),
			FormatDOCX: report.NewDOCXEncoder(logger),
			FormatXLSX: report.NewXLSXEncoder(logger),
		},
	}
}

// Generate renders one format for a stored submission. Scores are recomputed
// against the live questionnaire at render time; an edited questionnaire
// therefore changes historical reports, and any drift between stored and
// recomputed answers surfaces as logged warnings, never as a failed export.
func (s *reportService) Generate(ctx context.Context, submissionID string, format ExportFormat) (*report.Artifact, error) {
	encoder, ok := s.encoders[format]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, format)
	}

	in, err := s.buildInput(ctx, submissionID)
	if err != nil {
		return nil, err
	}

	artifact, err := encoder.Encode(ctx, *in)
	if err != nil {
		s.publishExportEvent(ctx, events.EventExportFailed, submissionID, format, err)
		return nil, fmt.Errorf("failed to encode %s report: %w", format, err)
	}

	s.logger.Info("Report generated",
		"submission_id", submissionID,
		"format", format,
		"filename", artifact.Filename,
		"bytes", len(artifact.Data))

	s.publishExportEvent(ctx, events.EventReportExported, submissionID, format, nil)

	return artifact, nil
}

// GenerateAll renders every requested format. Each format is attempted even
// when an earlier one fails; callers inspect the per-format results.
func (s *reportService) GenerateAll(ctx context.Context, submissionID string, formats []ExportFormat) []ExportResult {
	results := make([]ExportResult, 0, len(formats))
	for _, format := range formats {
		artifact, err := s.Generate(ctx, submissionID, format)
		results = append(results, ExportResult{
			Format:   format,
			Artifact: artifact,
			Err:      err,
		})
	}
	return results
}

func (s *reportService) buildInput(ctx context.Context, submissionID string) (*report.Input, error) {
	submission, err := s.repo.Submission().GetByID(ctx, nil, submissionID)
	if err != nil {
		if repositories.IsNotFound(err) {
			return nil, ErrSubmissionNotFound
		}
		return nil, fmt.Errorf("failed to load submission: %w", err)
	}

	questionnaire, err := s.repo.Questionnaire().GetByID(ctx, nil, submission.QuestionnaireID)
	if err != nil {
		if repositories.IsNotFound(err) {
			return nil, ErrQuestionnaireNotFound
		}
		return nil, fmt.Errorf("failed to load questionnaire: %w", err)
	}

	client, err := s.repo.Client().GetByID(ctx, nil, submission.ClientID)
	if err != nil {
		if repositories.IsNotFound(err) {
			return nil, ErrClientNotFound
		}
		return nil, fmt.Errorf("failed to load client: %w", err)
	}

	scores := scoring.ComputeScores(questionnaire, submission.AnswerList())
	for _, warning := range scores.Warnings {
		s.logger.Warn("Scoring warning during report rendering",
			"submission_id", submissionID,
			"question_id", warning.QuestionID,
			"code", warning.Code,
			"message", warning.Message)
	}

	return &report.Input{
		Questionnaire: questionnaire,
		Submission:    submission,
		Client:        client,
		Scores:        scores,
		Pages:         report.Layout(questionnaire, submission, scores, report.DefaultConstraints),
	}, nil
}

func (s *reportService) publishExportEvent(ctx context.Context, eventType, submissionID string, format ExportFormat, exportErr error) {
	if s.eventPublisher == nil {
		return
	}

	data := map[string]interface{}{
		"submission_id": submissionID,
		"format":        string(format),
	}
	if exportErr != nil {
		data["error"] = exportErr.Error()
	}

	if err := s.eventPublisher.Publish(ctx, reportEventsTopic, eventType, data); err != nil {
		s.logger.Error("Failed to publish report event",
			"submission_id", submissionID,
			"event_type", eventType,
			"error", err)
	}
}
