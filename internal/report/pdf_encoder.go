package report

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/jung-kurt/gofpdf"

	"github.com/arpitnexuses/forvismazar-questionnaire/internal/models"
	"github.com/arpitnexuses/forvismazar-questionnaire/internal/scoring"
)

// Input is the immutable snapshot both encoders consume. Pages is the
// canonical layout output; the PDF encoder preserves its page breaks 1:1
// while the DOCX encoder re-flows the flattened block sequence.
type Input struct {
	Questionnaire *models.Questionnaire
	Submission    *models.Submission
	Client        *models.Client
	Scores        scoring.Result
	Pages         []Page
}

func (in Input) clientName() string {
	if in.Client != nil {
		return in.Client.Name
	}
	return ""
}

func (in Input) validate() error {
	if in.Submission == nil {
		return ErrMissingSubmission
	}
	if in.Questionnaire == nil || len(in.Questionnaire.SectionList()) == 0 {
		return ErrMissingSections
	}
	return nil
}

// Millimetres per abstract layout unit. The layout engine's 48-unit page
// maps to 240mm, inside an A4 content area with 15mm margins.
const mmPerUnit = 5.0

// PDFEncoder renders the layout engine's pages onto fixed A4 pages,
// one layout page per physical page.
type PDFEncoder struct {
	logger   *slog.Logger
	logoPath string

	// Compression is on for real exports; tests disable it to inspect the
	// content streams.
	disableCompression bool
}

func NewPDFEncoder(logger *slog.Logger, logoPath string) *PDFEncoder {
	return &PDFEncoder{logger: logger, logoPath: logoPath}
}

// Encode produces the paginated PDF artifact. The whole document is built
// in memory; cancellation between pages returns ctx.Err() with no partial
// output visible to the caller.
func (e *PDFEncoder) Encode(ctx context.Context, in Input) (*Artifact, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	if e.disableCompression {
		pdf.SetCompression(false)
	}
	pdf.SetMargins(15, 15, 15)
	pdf.SetAutoPageBreak(false, 15)
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	e.renderCover(pdf, tr, in)

	for _, page := range in.Pages {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		pdf.AddPage()
		for _, block := range page.Blocks {
			e.renderBlock(pdf, tr, block)
		}
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("failed to render pdf: %w", err)
	}

	return &Artifact{
		Data:        buf.Bytes(),
		Filename:    SuggestFilename(in.clientName(), in.Submission.SubmittedAt, "pdf"),
		ContentType: "application/pdf",
	}, nil
}

func (e *PDFEncoder) renderCover(pdf *gofpdf.Fpdf, tr func(string) string, in Input) {
	pdf.AddPage()

	if e.logoPath != "" {
		if _, err := os.Stat(e.logoPath); err != nil {
			// A missing logo never aborts an export.
			e.logger.Warn("report logo unavailable, continuing without it",
				"path", e.logoPath, "error", err)
		} else {
			pdf.ImageOptions(e.logoPath, 15, 15, 40, 0, false,
				gofpdf.ImageOptions{ImageType: "", ReadDpi: true}, 0, "")
		}
	}

	pdf.SetY(70)
	pdf.SetFont("Helvetica", "B", 22)
	pdf.CellFormat(0, 12, tr(in.Questionnaire.Title), "", 1, "C", false, 0, "")

	pdf.SetFont("Helvetica", "", 14)
	pdf.Ln(6)
	pdf.CellFormat(0, 8, tr("Risk Assessment Report"), "", 1, "C", false, 0, "")
	if name := in.clientName(); name != "" {
		pdf.CellFormat(0, 8, tr(name), "", 1, "C", false, 0, "")
	}
	pdf.CellFormat(0, 8, in.Submission.SubmittedAt.Format("2 January 2006"), "", 1, "C", false, 0, "")

	pdf.Ln(10)
	pdf.SetFont("Helvetica", "B", 16)
	pdf.CellFormat(0, 10, tr(fmt.Sprintf("Overall score: %d of %d (%s)",
		in.Scores.TotalScore, in.Scores.MaxTotalScore,
		scoring.FormatPercentage(in.Scores.TotalScore, in.Scores.MaxTotalScore))),
		"", 1, "C", false, 0, "")
}

func (e *PDFEncoder) renderBlock(pdf *gofpdf.Fpdf, tr func(string) string, block Block) {
	switch block.Type {
	case BlockSectionHeader:
		pdf.SetFont("Helvetica", "B", 13)
		pdf.SetFillColor(31, 58, 95)
		pdf.SetTextColor(255, 255, 255)
		pdf.CellFormat(0, headerLineHeight*mmPerUnit, tr(block.Title), "", 1, "L", true, 0, "")
		pdf.SetTextColor(0, 0, 0)

	case BlockScoreSummary:
		pdf.SetFont("Helvetica", "I", 11)
		pdf.CellFormat(0, summaryLineHeight*mmPerUnit, tr(block.Summary), "", 1, "L", false, 0, "")
		pdf.Ln(blockSpacing * mmPerUnit)

	case BlockQuestion, BlockPlaceholder:
		for _, field := range block.Fields {
			e.renderField(pdf, tr, field)
		}
		pdf.Ln(blockSpacing * mmPerUnit)
	}
}

func (e *PDFEncoder) renderField(pdf *gofpdf.Fpdf, tr func(string) string, field Field) {
	if field.Label != "" {
		pdf.SetFont("Helvetica", "B", 10)
		pdf.CellFormat(0, fieldLabelHeight*mmPerUnit, tr(field.Label), "", 1, "L", false, 0, "")
	}
	pdf.SetFont("Helvetica", "", 10)
	for _, line := range field.Lines {
		align := "L"
		if line.Direction == models.DirectionRTL {
			align = "R"
		}
		fill := false
		if line.Highlight {
			pdf.SetFillColor(255, 242, 204)
			fill = true
		}
		pdf.CellFormat(0, textLineHeight*mmPerUnit, tr(line.Text), "", 1, align, fill, 0, "")
	}
}
