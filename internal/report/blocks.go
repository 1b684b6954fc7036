package report

import (
	"github.com/arpitnexuses/forvismazar-questionnaire/internal/models"
)

// BlockType discriminates the renderable units the layout engine emits.
type BlockType string

const (
	BlockSectionHeader BlockType = "section_header"
	BlockScoreSummary  BlockType = "score_summary"
	BlockQuestion      BlockType = "question"
	BlockPlaceholder   BlockType = "placeholder"
)

// FieldKind identifies one field inside a question block. Fields render in
// the fixed order below; absent enrichment fields are omitted entirely.
type FieldKind string

const (
	FieldQuestionText     FieldKind = "question_text"
	FieldExpectedEvidence FieldKind = "expected_evidence"
	FieldOptions          FieldKind = "options"
	FieldEvidenceFiles    FieldKind = "evidence_files"
	FieldComments         FieldKind = "comments"
	FieldRecommendation   FieldKind = "recommendation"
	FieldActionPlan       FieldKind = "action_plan"
	FieldActionDate       FieldKind = "action_date"
)

// Line is one wrapped line of text ready for an encoder. Highlight marks the
// selected option row; Direction is shaping metadata, never part of Text.
type Line struct {
	Text      string               `json:"text"`
	Highlight bool                 `json:"highlight,omitempty"`
	Bold      bool                 `json:"bold,omitempty"`
	Direction models.TextDirection `json:"direction"`
}

// Field is an atomic fragment boundary: fragmentation may cut between
// fields but never inside one.
type Field struct {
	Kind   FieldKind `json:"kind"`
	Label  string    `json:"label,omitempty"`
	Lines  []Line    `json:"lines"`
	Height int       `json:"height"`
}

// Block is one renderable unit on a page.
type Block struct {
	Type       BlockType `json:"type"`
	SectionID  string    `json:"section_id,omitempty"`
	QuestionID string    `json:"question_id,omitempty"`
	Ordinal    int       `json:"ordinal,omitempty"`

	// Fragment bookkeeping; zero values on unfragmented blocks.
	FragmentIndex int `json:"fragment_index,omitempty"`
	FragmentCount int `json:"fragment_count,omitempty"`

	// Section header / score summary content.
	Title    string `json:"title,omitempty"`
	Score    int    `json:"score,omitempty"`
	MaxScore int    `json:"max_score,omitempty"`
	Summary  string `json:"summary,omitempty"`

	Fields []Field `json:"fields,omitempty"`
	Height int     `json:"height"`
}

// Page is one fixed-size canvas of blocks.
type Page struct {
	Blocks []Block `json:"blocks"`
	Height int     `json:"height"`
}

// Constraints are the abstract page dimensions the packing algorithm works
// in: Width is characters per line, MaxContentHeight is line units per page.
// They are renderer independent; each encoder maps units to physical sizes.
type Constraints struct {
	Width            int `json:"width"`
	MaxContentHeight int `json:"max_content_height"`
}

// DefaultConstraints approximate an A4 content area at report font size.
var DefaultConstraints = Constraints{Width: 92, MaxContentHeight: 48}

// Flatten concatenates the blocks of all pages in order. This is the
// canonical block sequence both encoders must agree on: flattening layout
// output reproduces the exact section and question order of the source.
func Flatten(pages []Page) []Block {
	var blocks []Block
	for _, p := range pages {
		blocks = append(blocks, p.Blocks...)
	}
	return blocks
}
