package report

import (
	"fmt"

	"github.com/arpitnexuses/forvismazar-questionnaire/internal/models"
	"github.com/arpitnexuses/forvismazar-questionnaire/internal/scoring"
)

// Heights in abstract line units. Labels and spacing are measured together
// with the text so "does this block fit" stays a pure arithmetic question.
const (
	headerLineHeight  = 2
	textLineHeight    = 1
	blockSpacing      = 1
	fieldLabelHeight  = 1
	summaryLineHeight = 1
)

// Layout turns one immutable snapshot of questionnaire, submission and
// precomputed scores into an ordered page sequence. It never recomputes
// scores and never aborts: missing references degrade to placeholder blocks.
//
// Packing rule: a block goes on the current page if it fits; otherwise the
// page is flushed and the block starts a fresh page. Only a question block
// taller than a whole page is fragmented, and only at field boundaries.
func Layout(q *models.Questionnaire, sub *models.Submission, scores scoring.Result, constraints Constraints) []Page {
	if constraints.Width <= 0 || constraints.MaxContentHeight <= 0 {
		constraints = DefaultConstraints
	}

	if q == nil {
		placeholder := Block{
			Type:   BlockPlaceholder,
			Title:  "Questionnaire unavailable",
			Fields: []Field{textField(FieldQuestionText, "", "The questionnaire referenced by this submission no longer exists.", constraints.Width)},
		}
		placeholder.Height = blockHeight(placeholder)
		return []Page{{Blocks: []Block{placeholder}, Height: placeholder.Height}}
	}

	scoreBySection := make(map[string]models.SectionScore, len(scores.SectionScores))
	for _, ss := range scores.SectionScores {
		scoreBySection[ss.SectionID] = ss
	}

	var blocks []Block
	for _, section := range q.SectionList() {
		header := Block{
			Type:      BlockSectionHeader,
			SectionID: section.ID,
			Title:     section.Title,
		}
		header.Height = headerLineHeight * len(wrapText(section.Title, constraints.Width))
		blocks = append(blocks, header)

		ss := scoreBySection[section.ID]
		summary := Block{
			Type:      BlockScoreSummary,
			SectionID: section.ID,
			Score:     ss.Score,
			MaxScore:  ss.MaxScore,
			Summary: fmt.Sprintf("Section score: %d of %d (%s)",
				ss.Score, ss.MaxScore, scoring.FormatPercentage(ss.Score, ss.MaxScore)),
			Height: summaryLineHeight + blockSpacing,
		}
		blocks = append(blocks, summary)

		for qi, question := range section.Questions {
			answer, ok := sub.AnswerFor(question.ID)
			if !ok {
				continue
			}
			qb := buildQuestionBlock(section.ID, qi+1, question, answer, constraints)
			blocks = append(blocks, qb)
		}
	}

	return paginate(blocks, constraints)
}

// buildQuestionBlock assembles the atomic render unit for one answered
// question: prompt, expected evidence, the option list with the selected row
// highlighted, then the enrichment fields in fixed order.
func buildQuestionBlock(sectionID string, ordinal int, question models.Question, answer *models.Answer, c Constraints) Block {
	block := Block{
		Type:       BlockQuestion,
		SectionID:  sectionID,
		QuestionID: question.ID,
		Ordinal:    ordinal,
	}

	block.Fields = append(block.Fields,
		textField(FieldQuestionText, fmt.Sprintf("Q%d", ordinal), question.Text, c.Width))
	if question.ExpectedEvidence != "" {
		block.Fields = append(block.Fields,
			textField(FieldExpectedEvidence, "Expected evidence", question.ExpectedEvidence, c.Width))
	}
	block.Fields = append(block.Fields, optionsField(question, answer, c.Width))

	if len(answer.EvidenceFiles) > 0 {
		field := Field{Kind: FieldEvidenceFiles, Label: "Evidence files", Height: fieldLabelHeight}
		for _, ref := range answer.EvidenceFiles {
			line := fmt.Sprintf("%s (%s, %d bytes)", ref.OriginalName, ref.MimeType, ref.Size)
			for _, wrapped := range wrapText(line, c.Width) {
				field.Lines = append(field.Lines, Line{Text: wrapped, Direction: DetectDirection(wrapped)})
				field.Height += textLineHeight
			}
		}
		block.Fields = append(block.Fields, field)
	}
	if answer.Comments != "" {
		block.Fields = append(block.Fields, textField(FieldComments, "Comments", answer.Comments, c.Width))
	}
	if answer.Recommendation != "" {
		block.Fields = append(block.Fields, textField(FieldRecommendation, "Recommendation", answer.Recommendation, c.Width))
	}
	if answer.AgreedActionPlan != "" {
		block.Fields = append(block.Fields, textField(FieldActionPlan, "Agreed action plan", answer.AgreedActionPlan, c.Width))
	}
	if answer.ActionDate != nil {
		block.Fields = append(block.Fields,
			textField(FieldActionDate, "Action date", answer.ActionDate.Format("2006-01-02"), c.Width))
	}

	block.Height = blockHeight(block)
	return block
}

func textField(kind FieldKind, label, text string, width int) Field {
	field := Field{Kind: kind, Label: label}
	if label != "" {
		field.Height += fieldLabelHeight
	}
	for _, wrapped := range wrapText(text, width) {
		field.Lines = append(field.Lines, Line{Text: wrapped, Direction: DetectDirection(wrapped)})
		field.Height += textLineHeight
	}
	return field
}

func optionsField(question models.Question, answer *models.Answer, width int) Field {
	field := Field{Kind: FieldOptions, Label: "Options", Height: fieldLabelHeight}
	for i, opt := range question.Options {
		selected := i == answer.SelectedOptionIndex
		marker := "( )"
		if selected {
			marker = "(x)"
		}
		text := fmt.Sprintf("%s %s [%d pts]", marker, opt.Text, opt.Points)
		if selected {
			text += fmt.Sprintf(" - scored %d (%s)", opt.Points, scoring.MaturityLevel(opt.Points))
		}
		for _, wrapped := range wrapText(text, width) {
			field.Lines = append(field.Lines, Line{
				Text:      wrapped,
				Highlight: selected,
				Direction: DetectDirection(wrapped),
			})
			field.Height += textLineHeight
		}
	}
	return field
}

func blockHeight(b Block) int {
	h := blockSpacing
	for _, f := range b.Fields {
		h += f.Height
	}
	return h
}

// paginate packs blocks greedily onto pages. A question block that does not
// fit the remaining space but would fit an empty page is flushed to a new
// page rather than split; only a block taller than a whole page fragments.
func paginate(blocks []Block, c Constraints) []Page {
	var pages []Page
	current := Page{}

	flush := func() {
		if len(current.Blocks) > 0 {
			pages = append(pages, current)
			current = Page{}
		}
	}

	place := func(b Block) {
		if current.Height+b.Height > c.MaxContentHeight {
			flush()
		}
		current.Blocks = append(current.Blocks, b)
		current.Height += b.Height
	}

	for _, block := range blocks {
		if block.Type == BlockQuestion && block.Height > c.MaxContentHeight {
			for _, fragment := range fragmentBlock(block, c.MaxContentHeight) {
				place(fragment)
			}
			continue
		}
		place(block)
	}
	flush()

	if len(pages) == 0 {
		pages = append(pages, Page{})
	}
	return pages
}

// fragmentBlock splits an oversized question block at field boundaries into
// ordered fragments, each fitting a page on its own. A single field taller
// than a page is kept whole; encoders clip it rather than cut mid-field.
func fragmentBlock(block Block, maxHeight int) []Block {
	var fragments []Block
	current := Block{
		Type:       block.Type,
		SectionID:  block.SectionID,
		QuestionID: block.QuestionID,
		Ordinal:    block.Ordinal,
		Height:     blockSpacing,
	}

	for _, field := range block.Fields {
		if len(current.Fields) > 0 && current.Height+field.Height > maxHeight {
			fragments = append(fragments, current)
			current = Block{
				Type:       block.Type,
				SectionID:  block.SectionID,
				QuestionID: block.QuestionID,
				Ordinal:    block.Ordinal,
				Height:     blockSpacing,
			}
		}
		current.Fields = append(current.Fields, field)
		current.Height += field.Height
	}
	if len(current.Fields) > 0 {
		fragments = append(fragments, current)
	}

	for i := range fragments {
		fragments[i].FragmentIndex = i
		fragments[i].FragmentCount = len(fragments)
	}
	return fragments
}
