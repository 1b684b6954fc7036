package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"testing"

	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/arpitnexuses/forvismazar-questionnaire/internal/events"
	"github.com/arpitnexuses/forvismazar-questionnaire/internal/models"
	"github.com/arpitnexuses/forvismazar-questionnaire/internal/repositories"
	"github.com/arpitnexuses/forvismazar-questionnaire/internal/scoring"
	"github.com/arpitnexuses/forvismazar-questionnaire/internal/validator"
)

// ===== IN-MEMORY MOCK REPOSITORY =====

type mockQuestionnaireRepo struct {
	items map[string]*models.Questionnaire
}

func (m *mockQuestionnaireRepo) Create(ctx context.Context, tx *gorm.DB, q *models.Questionnaire) error {
	m.items[q.ID] = q
	return nil
}

func (m *mockQuestionnaireRepo) GetByID(ctx context.Context, tx *gorm.DB, id string) (*models.Questionnaire, error) {
	q, ok := m.items[id]
	if !ok {
		return nil, fmt.Errorf("questionnaire %s: %w", id, repositories.ErrNotFound)
	}
	return q, nil
}

func (m *mockQuestionnaireRepo) Update(ctx context.Context, tx *gorm.DB, q *models.Questionnaire) error {
	if _, ok := m.items[q.ID]; !ok {
		return fmt.Errorf("questionnaire %s: %w", q.ID, repositories.ErrNotFound)
	}
	m.items[q.ID] = q
	return nil
}

func (m *mockQuestionnaireRepo) Delete(ctx context.Context, tx *gorm.DB, id string) error {
	if _, ok := m.items[id]; !ok {
		return fmt.Errorf("questionnaire %s: %w", id, repositories.ErrNotFound)
	}
	delete(m.items, id)
	return nil
}

func (m *mockQuestionnaireRepo) List(ctx context.Context, tx *gorm.DB, filters repositories.QuestionnaireFilters) ([]models.Questionnaire, int64, error) {
	var out []models.Questionnaire
	for _, q := range m.items {
		out = append(out, *q)
	}
	return out, int64(len(out)), nil
}

func (m *mockQuestionnaireRepo) Exists(ctx context.Context, tx *gorm.DB, id string) (bool, error) {
	_, ok := m.items[id]
	return ok, nil
}

type mockSubmissionRepo struct {
	items map[string]*models.Submission
}

func (m *mockSubmissionRepo) Create(ctx context.Context, tx *gorm.DB, s *models.Submission) error {
	m.items[s.ID] = s
	return nil
}

func (m *mockSubmissionRepo) GetByID(ctx context.Context, tx *gorm.DB, id string) (*models.Submission, error) {
	s, ok := m.items[id]
	if !ok {
		return nil, fmt.Errorf("submission %s: %w", id, repositories.ErrNotFound)
	}
	return s, nil
}

func (m *mockSubmissionRepo) Delete(ctx context.Context, tx *gorm.DB, id string) error {
	if _, ok := m.items[id]; !ok {
		return fmt.Errorf("submission %s: %w", id, repositories.ErrNotFound)
	}
	delete(m.items, id)
	return nil
}

func (m *mockSubmissionRepo) List(ctx context.Context, tx *gorm.DB, filters repositories.SubmissionFilters) ([]models.Submission, int64, error) {
	var out []models.Submission
	for _, s := range m.items {
		if filters.ClientID != nil && s.ClientID != *filters.ClientID {
			continue
		}
		out = append(out, *s)
	}
	return out, int64(len(out)), nil
}

func (m *mockSubmissionRepo) GetByClient(ctx context.Context, tx *gorm.DB, clientID string) ([]models.Submission, error) {
	var out []models.Submission
	for _, s := range m.items {
		if s.ClientID == clientID {
			out = append(out, *s)
		}
	}
	return out, nil
}

type mockClientRepo struct {
	items map[string]*models.Client
}

func (m *mockClientRepo) Create(ctx context.Context, tx *gorm.DB, c *models.Client) error {
	m.items[c.ID] = c
	return nil
}

func (m *mockClientRepo) GetByID(ctx context.Context, tx *gorm.DB, id string) (*models.Client, error) {
	c, ok := m.items[id]
	if !ok {
		return nil, fmt.Errorf("client %s: %w", id, repositories.ErrNotFound)
	}
	return c, nil
}

func (m *mockClientRepo) Update(ctx context.Context, tx *gorm.DB, c *models.Client) error {
	m.items[c.ID] = c
	return nil
}

func (m *mockClientRepo) List(ctx context.Context, tx *gorm.DB, filters repositories.ClientFilters) ([]models.Client, int64, error) {
	var out []models.Client
	for _, c := range m.items {
		out = append(out, *c)
	}
	return out, int64(len(out)), nil
}

type mockRepository struct {
	questionnaire *mockQuestionnaireRepo
	submission    *mockSubmissionRepo
	client        *mockClientRepo
}

func newMockRepository() *mockRepository {
	return &mockRepository{
		questionnaire: &mockQuestionnaireRepo{items: make(map[string]*models.Questionnaire)},
		submission:    &mockSubmissionRepo{items: make(map[string]*models.Submission)},
		client:        &mockClientRepo{items: make(map[string]*models.Client)},
	}
}

func (m *mockRepository) Questionnaire() repositories.QuestionnaireRepository { return m.questionnaire }
func (m *mockRepository) Submission() repositories.SubmissionRepository       { return m.submission }
func (m *mockRepository) Client() repositories.ClientRepository               { return m.client }
func (m *mockRepository) WithTransaction(ctx context.Context, fn func(repositories.Repository) error) error {
	return fn(m)
}
func (m *mockRepository) Ping(ctx context.Context) error { return nil }
func (m *mockRepository) Close() error                   { return nil }

// ===== FIXTURES =====

func serviceTestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func seedQuestionnaire(repo *mockRepository, active bool) *models.Questionnaire {
	q := &models.Questionnaire{
		ID:    "q-1",
		Title: "Cyber Security Baseline",
		Sections: datatypes.NewJSONType([]models.Section{
			{
				ID:    "s-1",
				Title: "Governance",
				Questions: []models.Question{
					{
						ID:   "s1-q1",
						Text: "Is there a documented security policy?",
						Options: []models.Option{
							{Text: "No", Points: 0},
							{Text: "Partially", Points: 3},
							{Text: "Yes", Points: 5},
						},
					},
					{
						ID:   "s1-q2",
						Text: "Is the policy reviewed annually?",
						Options: []models.Option{
							{Text: "No", Points: 0},
							{Text: "Yes", Points: 5},
						},
					},
				},
			},
		}),
		IsActive: active,
	}
	repo.questionnaire.items[q.ID] = q
	return q
}

func seedClient(repo *mockRepository) *models.Client {
	c := &models.Client{ID: "client-1", Name: "Meridian Logistics", Industry: "Transport"}
	repo.client.items[c.ID] = c
	return c
}

func newSubmissionService(repo *mockRepository, publisher events.EventPublisher) SubmissionService {
	return NewSubmissionService(repo, nil, serviceTestLogger(), validator.New(), publisher)
}

// ===== TESTS =====

func TestSubmissionService_Create(t *testing.T) {
	repo := newMockRepository()
	seedQuestionnaire(repo, true)
	seedClient(repo)
	publisher := events.NewMockEventPublisher(serviceTestLogger())
	service := newSubmissionService(repo, publisher)

	req := &CreateSubmissionRequest{
		ClientID:        "client-1",
		QuestionnaireID: "q-1",
		Answers: []validator.AnswerRequest{
			{QuestionID: "s1-q1", SelectedOptionIndex: 1, Points: 3},
			{QuestionID: "s1-q2", SelectedOptionIndex: 1, Points: 5},
		},
	}

	resp, err := service.Create(context.Background(), req, "assessor@example.com")
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	if resp.TotalScore != 8 || resp.MaxTotalScore != 10 {
		t.Errorf("expected 8/10, got %d/%d", resp.TotalScore, resp.MaxTotalScore)
	}
	if resp.Percentage != "80%" {
		t.Errorf("expected 80%%, got %s", resp.Percentage)
	}
	if len(resp.Warnings) != 0 {
		t.Errorf("expected no warnings, got %v", resp.Warnings)
	}
	if len(repo.submission.items) != 1 {
		t.Errorf("submission was not persisted")
	}

	published := publisher.GetPublishedEvents()
	if len(published) != 1 {
		t.Fatalf("expected 1 event, got %d", len(published))
	}
	if published[0].Type != events.EventSubmissionScored {
		t.Errorf("unexpected event type %s", published[0].Type)
	}
}

func TestSubmissionService_CreateWithStalePoints(t *testing.T) {
	repo := newMockRepository()
	seedQuestionnaire(repo, true)
	seedClient(repo)
	service := newSubmissionService(repo, events.NewMockEventPublisher(serviceTestLogger()))

	// Points claims 5 but option index 1 is worth 3; the engine reconciles
	req := &CreateSubmissionRequest{
		ClientID:        "client-1",
		QuestionnaireID: "q-1",
		Answers: []validator.AnswerRequest{
			{QuestionID: "s1-q1", SelectedOptionIndex: 1, Points: 5},
		},
	}

	resp, err := service.Create(context.Background(), req, "assessor@example.com")
	if err != nil {
		t.Fatalf("stale points must not fail intake: %v", err)
	}

	if resp.TotalScore != 3 {
		t.Errorf("expected authoritative score 3, got %d", resp.TotalScore)
	}
	if len(resp.Warnings) != 1 || resp.Warnings[0].Code != scoring.WarningStalePoints {
		t.Errorf("expected one stale_points warning, got %v", resp.Warnings)
	}
}

func TestSubmissionService_CreateInactiveQuestionnaire(t *testing.T) {
	repo := newMockRepository()
	seedQuestionnaire(repo, false)
	seedClient(repo)
	service := newSubmissionService(repo, events.NewMockEventPublisher(serviceTestLogger()))

	req := &CreateSubmissionRequest{
		ClientID:        "client-1",
		QuestionnaireID: "q-1",
		Answers: []validator.AnswerRequest{
			{QuestionID: "s1-q1", SelectedOptionIndex: 0},
		},
	}

	if _, err := service.Create(context.Background(), req, ""); !errors.Is(err, ErrQuestionnaireInactive) {
		t.Errorf("expected ErrQuestionnaireInactive, got %v", err)
	}
}

func TestSubmissionService_CreateUnknownClient(t *testing.T) {
	repo := newMockRepository()
	seedQuestionnaire(repo, true)
	service := newSubmissionService(repo, events.NewMockEventPublisher(serviceTestLogger()))

	req := &CreateSubmissionRequest{
		ClientID:        "missing",
		QuestionnaireID: "q-1",
		Answers: []validator.AnswerRequest{
			{QuestionID: "s1-q1", SelectedOptionIndex: 0},
		},
	}

	if _, err := service.Create(context.Background(), req, ""); !errors.Is(err, ErrClientNotFound) {
		t.Errorf("expected ErrClientNotFound, got %v", err)
	}
}

func TestSubmissionService_CreateDuplicateAnswersRejected(t *testing.T) {
	repo := newMockRepository()
	seedQuestionnaire(repo, true)
	seedClient(repo)
	service := newSubmissionService(repo, events.NewMockEventPublisher(serviceTestLogger()))

	req := &CreateSubmissionRequest{
		ClientID:        "client-1",
		QuestionnaireID: "q-1",
		Answers: []validator.AnswerRequest{
			{QuestionID: "s1-q1", SelectedOptionIndex: 0},
			{QuestionID: "s1-q1", SelectedOptionIndex: 1, Points: 3},
		},
	}

	_, err := service.Create(context.Background(), req, "")
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		t.Fatalf("expected validation errors, got %v", err)
	}
}

func TestSubmissionService_GetByIDNotFound(t *testing.T) {
	repo := newMockRepository()
	service := newSubmissionService(repo, nil)

	if _, err := service.GetByID(context.Background(), "missing"); !errors.Is(err, ErrSubmissionNotFound) {
		t.Errorf("expected ErrSubmissionNotFound, got %v", err)
	}
}
