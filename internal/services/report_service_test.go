package services

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"gorm.io/datatypes"

	"github.com/arpitnexuses/forvismazar-questionnaire/internal/events"
	"github.com/arpitnexuses/forvismazar-questionnaire/internal/models"
)

func seedSubmission(repo *mockRepository) *models.Submission {
	sub := &models.Submission{
		ID:              "sub-1",
		ClientID:        "client-1",
		QuestionnaireID: "q-1",
		Answers: datatypes.NewJSONType([]models.Answer{
			{QuestionID: "s1-q1", SelectedOptionIndex: 2, Points: 5},
			{QuestionID: "s1-q2", SelectedOptionIndex: 1, Points: 5},
		}),
		TotalScore:    10,
		MaxTotalScore: 10,
		SubmittedAt:   time.Date(2025, 6, 15, 10, 0, 0, 0, time.UTC),
	}
	repo.submission.items[sub.ID] = sub
	return sub
}

func reportFixture(t *testing.T) (*mockRepository, ReportService, *events.MockEventPublisher) {
	t.Helper()
	repo := newMockRepository()
	seedQuestionnaire(repo, true)
	seedClient(repo)
	seedSubmission(repo)
	publisher := events.NewMockEventPublisher(serviceTestLogger())
	service := NewReportService(repo, serviceTestLogger(), publisher, "")
	return repo, service, publisher
}

func TestReportService_GeneratePDF(t *testing.T) {
	_, service, publisher := reportFixture(t)

	artifact, err := service.Generate(context.Background(), "sub-1", FormatPDF)
	if err != nil {
		t.Fatalf("generate failed: %v", err)
	}

	if !bytes.HasPrefix(artifact.Data, []byte("%PDF-")) {
		t.Error("artifact is not a PDF")
	}
	if artifact.Filename != "assessment-Meridian-Logistics-2025-06-15.pdf" {
		t.Errorf("unexpected filename: %s", artifact.Filename)
	}

	published := publisher.GetPublishedEvents()
	if len(published) != 1 || published[0].Type != events.EventReportExported {
		t.Errorf("expected one exported event, got %+v", published)
	}
}

func TestReportService_GenerateAllFormats(t *testing.T) {
	_, service, _ := reportFixture(t)

	results := service.GenerateAll(context.Background(), "sub-1", []ExportFormat{FormatPDF, FormatDOCX, FormatXLSX})
	if len(results) != 3 {
		t.Fatalf("expected 3 results, got %d", len(results))
	}

	for _, result := range results {
		if result.Err != nil {
			t.Errorf("%s export failed: %v", result.Format, result.Err)
			continue
		}
		if len(result.Artifact.Data) == 0 {
			t.Errorf("%s export produced empty artifact", result.Format)
		}
	}
}

// One bad format in a batch must not suppress the others
func TestReportService_GenerateAllIndependentFailures(t *testing.T) {
	_, service, _ := reportFixture(t)

	results := service.GenerateAll(context.Background(), "sub-1", []ExportFormat{FormatPDF, ExportFormat("odt"), FormatXLSX})

	if results[0].Err != nil {
		t.Errorf("pdf export failed: %v", results[0].Err)
	}
	if !errors.Is(results[1].Err, ErrUnsupportedFormat) {
		t.Errorf("expected ErrUnsupportedFormat, got %v", results[1].Err)
	}
	if results[2].Err != nil {
		t.Errorf("xlsx export after a failure must still run: %v", results[2].Err)
	}
}

func TestReportService_GenerateMissingSubmission(t *testing.T) {
	_, service, _ := reportFixture(t)

	if _, err := service.Generate(context.Background(), "missing", FormatPDF); !errors.Is(err, ErrSubmissionNotFound) {
		t.Errorf("expected ErrSubmissionNotFound, got %v", err)
	}
}

// Reports render against the live questionnaire: an edit changes the
// maximum even for already-stored submissions.
func TestReportService_LiveQuestionnaireReference(t *testing.T) {
	repo, service, _ := reportFixture(t)

	q := repo.questionnaire.items["q-1"]
	sections := q.Sections.Data()
	sections[0].Questions = sections[0].Questions[:1]
	q.Sections = datatypes.NewJSONType(sections)

	artifact, err := service.Generate(context.Background(), "sub-1", FormatXLSX)
	if err != nil {
		t.Fatalf("generate failed: %v", err)
	}
	if len(artifact.Data) == 0 {
		t.Error("empty artifact")
	}
}
