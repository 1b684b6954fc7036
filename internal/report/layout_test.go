package report

import (
	"fmt"
	"reflect"
	"strings"
	"testing"
	"time"

	"gorm.io/datatypes"

	"github.com/arpitnexuses/forvismazar-questionnaire/internal/models"
	"github.com/arpitnexuses/forvismazar-questionnaire/internal/scoring"
)

func fixtureQuestionnaire(sectionCount, questionsPerSection int) *models.Questionnaire {
	var sections []models.Section
	for s := 0; s < sectionCount; s++ {
		section := models.Section{
			ID:    fmt.Sprintf("s-%d", s+1),
			Title: fmt.Sprintf("Section %d", s+1),
		}
		for q := 0; q < questionsPerSection; q++ {
			question := models.Question{
				ID:   fmt.Sprintf("s%d-q%d", s+1, q+1),
				Text: fmt.Sprintf("Question %d of section %d", q+1, s+1),
				Options: []models.Option{
					{Text: "No", Points: 0},
					{Text: "Partially", Points: 3},
					{Text: "Yes", Points: 5},
				},
			}
			section.Questions = append(section.Questions, question)
		}
		sections = append(sections, section)
	}
	return &models.Questionnaire{
		ID:       "qn-1",
		Title:    "Operational Risk Review",
		Sections: datatypes.NewJSONType(sections),
	}
}

func fixtureSubmission(q *models.Questionnaire) *models.Submission {
	var answers []models.Answer
	for _, section := range q.SectionList() {
		for _, question := range section.Questions {
			answers = append(answers, models.Answer{
				QuestionID:          question.ID,
				SelectedOptionIndex: 1,
				Points:              3,
				Comments:            "Reviewed on site",
			})
		}
	}
	return &models.Submission{
		ID:              "sub-1",
		ClientID:        "client-1",
		QuestionnaireID: q.ID,
		Answers:         datatypes.NewJSONType(answers),
		SubmittedAt:     time.Date(2025, 6, 15, 10, 0, 0, 0, time.UTC),
	}
}

func TestLayout_OrderPreservation(t *testing.T) {
	for _, size := range []int{0, 1, 3, 12} {
		t.Run(fmt.Sprintf("questions_%d", size), func(t *testing.T) {
			q := fixtureQuestionnaire(3, size)
			sub := fixtureSubmission(q)
			scores := scoring.ComputeScores(q, sub.AnswerList())

			pages := Layout(q, sub, scores, DefaultConstraints)

			var wantOrder []string
			for _, section := range q.SectionList() {
				wantOrder = append(wantOrder, "header:"+section.ID, "summary:"+section.ID)
				for _, question := range section.Questions {
					wantOrder = append(wantOrder, "question:"+question.ID)
				}
			}

			var gotOrder []string
			lastFragment := ""
			for _, block := range Flatten(pages) {
				switch block.Type {
				case BlockSectionHeader:
					gotOrder = append(gotOrder, "header:"+block.SectionID)
				case BlockScoreSummary:
					gotOrder = append(gotOrder, "summary:"+block.SectionID)
				case BlockQuestion:
					// Fragments of one question collapse to a single entry.
					if block.QuestionID == lastFragment && block.FragmentIndex > 0 {
						continue
					}
					gotOrder = append(gotOrder, "question:"+block.QuestionID)
					lastFragment = block.QuestionID
				}
			}

			if !reflect.DeepEqual(gotOrder, wantOrder) {
				t.Errorf("block order does not match source order\ngot:  %v\nwant: %v", gotOrder, wantOrder)
			}
		})
	}
}

func TestLayout_PagesRespectCapacity(t *testing.T) {
	q := fixtureQuestionnaire(4, 6)
	sub := fixtureSubmission(q)
	scores := scoring.ComputeScores(q, sub.AnswerList())
	constraints := Constraints{Width: 92, MaxContentHeight: 20}

	pages := Layout(q, sub, scores, constraints)

	if len(pages) < 2 {
		t.Fatalf("expected multiple pages, got %d", len(pages))
	}
	for i, page := range pages {
		if page.Height > constraints.MaxContentHeight {
			t.Errorf("page %d height %d exceeds capacity %d", i, page.Height, constraints.MaxContentHeight)
		}
	}
}

func TestLayout_NoFragmentationWhenBlocksFit(t *testing.T) {
	q := fixtureQuestionnaire(2, 4)
	sub := fixtureSubmission(q)
	scores := scoring.ComputeScores(q, sub.AnswerList())

	pages := Layout(q, sub, scores, Constraints{Width: 92, MaxContentHeight: 22})

	for _, block := range Flatten(pages) {
		if block.FragmentCount > 0 {
			t.Errorf("question %s fragmented although it fits a page", block.QuestionID)
		}
	}
}

func oversizedFixture() (*models.Questionnaire, *models.Submission) {
	actionDate := time.Date(2025, 9, 1, 0, 0, 0, 0, time.UTC)
	question := models.Question{
		ID:               "q-big",
		Text:             "first line of the prompt\nsecond line of the prompt",
		ExpectedEvidence: "policy document\nsigned review minutes",
		Options: []models.Option{
			{Text: "No", Points: 0},
			{Text: "Yes", Points: 5},
		},
	}
	q := &models.Questionnaire{
		ID:    "qn-big",
		Title: "Fragmentation fixture",
		Sections: datatypes.NewJSONType([]models.Section{
			{ID: "s-1", Title: "Single", Questions: []models.Question{question}},
		}),
	}
	sub := &models.Submission{
		ID:              "sub-big",
		QuestionnaireID: q.ID,
		Answers: datatypes.NewJSONType([]models.Answer{{
			QuestionID:          "q-big",
			SelectedOptionIndex: 1,
			Points:              5,
			EvidenceFiles: []models.FileRef{
				{OriginalName: "a.pdf", MimeType: "application/pdf", Size: 100},
				{OriginalName: "b.pdf", MimeType: "application/pdf", Size: 200},
			},
			Comments:         "looks fine\nsecond comment line",
			Recommendation:   "tighten controls\nreview quarterly",
			AgreedActionPlan: "hire auditor\nby next quarter",
			ActionDate:       &actionDate,
		}}),
		SubmittedAt: time.Date(2025, 6, 15, 10, 0, 0, 0, time.UTC),
	}
	return q, sub
}

func TestLayout_OversizedQuestionFragmentsAtFieldBoundaries(t *testing.T) {
	q, sub := oversizedFixture()
	scores := scoring.ComputeScores(q, sub.AnswerList())

	// Reference render with a page tall enough to hold everything.
	refPages := Layout(q, sub, scores, Constraints{Width: 200, MaxContentHeight: 1000})
	var reference *Block
	for _, block := range Flatten(refPages) {
		if block.Type == BlockQuestion {
			b := block
			reference = &b
		}
	}
	if reference == nil {
		t.Fatal("reference render produced no question block")
	}
	if reference.Height <= 20 {
		t.Fatalf("fixture too small to force fragmentation, height %d", reference.Height)
	}

	pages := Layout(q, sub, scores, Constraints{Width: 200, MaxContentHeight: 10})

	var fragments []Block
	for _, block := range Flatten(pages) {
		if block.Type == BlockQuestion {
			fragments = append(fragments, block)
		}
	}

	if len(fragments) != 3 {
		t.Fatalf("expected exactly 3 fragments, got %d", len(fragments))
	}
	var reassembled []Field
	for i, fragment := range fragments {
		if fragment.FragmentIndex != i {
			t.Errorf("fragment %d carries index %d", i, fragment.FragmentIndex)
		}
		if fragment.FragmentCount != len(fragments) {
			t.Errorf("fragment %d reports count %d, want %d", i, fragment.FragmentCount, len(fragments))
		}
		if fragment.Height > 10 {
			t.Errorf("fragment %d height %d does not fit a page", i, fragment.Height)
		}
		reassembled = append(reassembled, fragment.Fields...)
	}

	if !reflect.DeepEqual(reassembled, reference.Fields) {
		t.Errorf("reassembled fragments differ from the unfragmented reference")
	}
}

func TestLayout_EmptySectionStillEmitsHeaderAndScoreLine(t *testing.T) {
	q := fixtureQuestionnaire(1, 0)
	sub := &models.Submission{ID: "sub-empty", QuestionnaireID: q.ID}
	scores := scoring.ComputeScores(q, nil)

	pages := Layout(q, sub, scores, DefaultConstraints)

	blocks := Flatten(pages)
	if len(blocks) != 2 {
		t.Fatalf("expected header and score line, got %d blocks", len(blocks))
	}
	if blocks[0].Type != BlockSectionHeader || blocks[1].Type != BlockScoreSummary {
		t.Errorf("unexpected block types: %s, %s", blocks[0].Type, blocks[1].Type)
	}
	if !strings.Contains(blocks[1].Summary, "N/A") {
		t.Errorf("zero-max section should render N/A, got %q", blocks[1].Summary)
	}
}

func TestLayout_MissingQuestionnaireRendersPlaceholder(t *testing.T) {
	sub := &models.Submission{ID: "sub-orphan", QuestionnaireID: "deleted"}

	pages := Layout(nil, sub, scoring.Result{}, DefaultConstraints)

	if len(pages) != 1 || len(pages[0].Blocks) != 1 {
		t.Fatalf("expected a single placeholder page, got %d pages", len(pages))
	}
	if pages[0].Blocks[0].Type != BlockPlaceholder {
		t.Errorf("expected placeholder block, got %s", pages[0].Blocks[0].Type)
	}
}

func TestLayout_EnrichmentFieldOrderAndOmission(t *testing.T) {
	q := fixtureQuestionnaire(1, 1)
	questionID := q.SectionList()[0].Questions[0].ID
	sub := &models.Submission{
		ID:              "sub-fields",
		QuestionnaireID: q.ID,
		Answers: datatypes.NewJSONType([]models.Answer{{
			QuestionID:          questionID,
			SelectedOptionIndex: 2,
			Points:              5,
			Recommendation:      "Improve onboarding checks",
			// Comments, action plan and date intentionally absent.
		}}),
	}
	scores := scoring.ComputeScores(q, sub.AnswerList())

	pages := Layout(q, sub, scores, DefaultConstraints)

	var question *Block
	for _, block := range Flatten(pages) {
		if block.Type == BlockQuestion {
			b := block
			question = &b
		}
	}
	if question == nil {
		t.Fatal("no question block produced")
	}

	var kinds []FieldKind
	for _, field := range question.Fields {
		kinds = append(kinds, field.Kind)
	}
	want := []FieldKind{FieldQuestionText, FieldOptions, FieldRecommendation}
	if !reflect.DeepEqual(kinds, want) {
		t.Errorf("field order/omission wrong: got %v, want %v", kinds, want)
	}
}

func TestWrapText(t *testing.T) {
	tests := []struct {
		name  string
		text  string
		width int
		want  []string
	}{
		{name: "fits", text: "short", width: 10, want: []string{"short"}},
		{name: "wraps on words", text: "alpha beta gamma", width: 11, want: []string{"alpha beta", "gamma"}},
		{name: "hard cuts long word", text: "abcdefghij", width: 4, want: []string{"abcd", "efgh", "ij"}},
		{name: "empty", text: "", width: 10, want: []string{""}},
		{name: "newlines preserved", text: "a\nb", width: 10, want: []string{"a", "b"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := wrapText(tt.text, tt.width); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("wrapText(%q, %d) = %v, want %v", tt.text, tt.width, got, tt.want)
			}
		})
	}
}

func TestDetectDirection(t *testing.T) {
	if got := DetectDirection("hello world"); got != models.DirectionLTR {
		t.Errorf("expected ltr, got %s", got)
	}
	if got := DetectDirection("مرحبا بالعالم"); got != models.DirectionRTL {
		t.Errorf("expected rtl, got %s", got)
	}
	if got := DetectDirection("שלום"); got != models.DirectionRTL {
		t.Errorf("expected rtl for hebrew, got %s", got)
	}
}

func TestSuggestFilename(t *testing.T) {
	submitted := time.Date(2025, 3, 9, 14, 30, 0, 0, time.UTC)

	got := SuggestFilename("Acme Holdings Ltd.", submitted, "pdf")
	if got != "assessment-Acme-Holdings-Ltd-2025-03-09.pdf" {
		t.Errorf("unexpected filename: %s", got)
	}

	// Zero date falls back to today instead of failing.
	fallback := SuggestFilename("Acme", time.Time{}, "docx")
	wantPrefix := "assessment-Acme-"
	if !strings.HasPrefix(fallback, wantPrefix) || !strings.HasSuffix(fallback, ".docx") {
		t.Errorf("fallback filename malformed: %s", fallback)
	}

	empty := SuggestFilename("   ", submitted, "pdf")
	if empty != "assessment-client-2025-03-09.pdf" {
		t.Errorf("empty client name not defaulted: %s", empty)
	}
}
