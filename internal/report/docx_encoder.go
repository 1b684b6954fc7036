package report

import (
	"archive/zip"
	"bytes"
	"context"
	"encoding/xml"
	"fmt"
	"log/slog"
	"strings"

	"github.com/arpitnexuses/forvismazar-questionnaire/internal/models"
	"github.com/arpitnexuses/forvismazar-questionnaire/internal/scoring"
)

// DOCXEncoder is the flow-reformatted export path. It ignores the layout
// engine's page breaks, flattens the canonical block sequence and runs its
// own paginator over it. Block order and content must stay identical to the
// layout engine's sequence; only where the page breaks fall may differ.
type DOCXEncoder struct {
	logger *slog.Logger

	// Word pages hold more of the abstract layout units than the PDF's
	// rasterized pages; the flow paginator has its own capacity.
	pageCapacity int
}

func NewDOCXEncoder(logger *slog.Logger) *DOCXEncoder {
	return &DOCXEncoder{logger: logger, pageCapacity: 56}
}

// Encode produces the DOCX artifact entirely in memory.
func (e *DOCXEncoder) Encode(ctx context.Context, in Input) (*Artifact, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}

	var body strings.Builder
	e.writeCover(&body, in)

	used := 0
	for _, block := range Flatten(in.Pages) {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if used+block.Height > e.pageCapacity && used > 0 {
			body.WriteString(`<w:p><w:r><w:br w:type="page"/></w:r></w:p>`)
			used = 0
		}
		e.writeBlock(&body, block)
		used += block.Height
	}

	data, err := packDocx(body.String())
	if err != nil {
		return nil, fmt.Errorf("failed to assemble docx package: %w", err)
	}

	return &Artifact{
		Data:        data,
		Filename:    SuggestFilename(in.clientName(), in.Submission.SubmittedAt, "docx"),
		ContentType: "application/vnd.openxmlformats-officedocument.wordprocessingml.document",
	}, nil
}

func (e *DOCXEncoder) writeCover(body *strings.Builder, in Input) {
	writeParagraph(body, paragraphOpts{bold: true, size: 44, center: true}, in.Questionnaire.Title)
	writeParagraph(body, paragraphOpts{size: 28, center: true}, "Risk Assessment Report")
	if name := in.clientName(); name != "" {
		writeParagraph(body, paragraphOpts{size: 28, center: true}, name)
	}
	writeParagraph(body, paragraphOpts{size: 24, center: true},
		in.Submission.SubmittedAt.Format("2 January 2006"))
	writeParagraph(body, paragraphOpts{bold: true, size: 32, center: true},
		fmt.Sprintf("Overall score: %d of %d (%s)",
			in.Scores.TotalScore, in.Scores.MaxTotalScore,
			scoring.FormatPercentage(in.Scores.TotalScore, in.Scores.MaxTotalScore)))
	body.WriteString(`<w:p><w:r><w:br w:type="page"/></w:r></w:p>`)
}

func (e *DOCXEncoder) writeBlock(body *strings.Builder, block Block) {
	switch block.Type {
	case BlockSectionHeader:
		writeParagraph(body, paragraphOpts{bold: true, size: 26, shaded: true}, block.Title)
	case BlockScoreSummary:
		writeParagraph(body, paragraphOpts{italic: true, size: 22}, block.Summary)
	case BlockQuestion, BlockPlaceholder:
		for _, field := range block.Fields {
			if field.Label != "" {
				writeParagraph(body, paragraphOpts{bold: true, size: 20}, field.Label)
			}
			for _, line := range field.Lines {
				writeParagraph(body, paragraphOpts{
					size:      20,
					highlight: line.Highlight,
					rtl:       line.Direction == models.DirectionRTL,
				}, line.Text)
			}
		}
	}
}

type paragraphOpts struct {
	bold      bool
	italic    bool
	center    bool
	shaded    bool
	highlight bool
	rtl       bool
	size      int // half-points
}

func writeParagraph(body *strings.Builder, opts paragraphOpts, text string) {
	body.WriteString("<w:p><w:pPr>")
	if opts.center {
		body.WriteString(`<w:jc w:val="center"/>`)
	}
	if opts.rtl {
		body.WriteString("<w:bidi/>")
	}
	if opts.shaded {
		body.WriteString(`<w:shd w:val="clear" w:color="auto" w:fill="1F3A5F"/>`)
	}
	body.WriteString("</w:pPr><w:r><w:rPr>")
	if opts.bold {
		body.WriteString("<w:b/>")
	}
	if opts.italic {
		body.WriteString("<w:i/>")
	}
	if opts.shaded {
		body.WriteString(`<w:color w:val="FFFFFF"/>`)
	}
	if opts.highlight {
		body.WriteString(`<w:highlight w:val="yellow"/>`)
	}
	if opts.size > 0 {
		fmt.Fprintf(body, `<w:sz w:val="%d"/>`, opts.size)
	}
	body.WriteString("</w:rPr>")
	fmt.Fprintf(body, `<w:t xml:space="preserve">%s</w:t>`, escapeXML(text))
	body.WriteString("</w:r></w:p>")
}

func escapeXML(s string) string {
	var buf bytes.Buffer
	if err := xml.EscapeText(&buf, []byte(s)); err != nil {
		return ""
	}
	return buf.String()
}

// packDocx wraps a WordprocessingML body in the minimal OOXML package
// structure Word accepts: content types, package relationships and the
// document part itself.
func packDocx(body string) ([]byte, error) {
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)

	parts := []struct {
		name    string
		content string
	}{
		{
			name: "[Content_Types].xml",
			content: `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>` +
				`<Types xmlns="http://schemas.openxmlformats.org/package/2006/content-types">` +
				`<Default Extension="rels" ContentType="application/vnd.openxmlformats-package.relationships+xml"/>` +
				`<Default Extension="xml" ContentType="application/xml"/>` +
				`<Override PartName="/word/document.xml" ContentType="application/vnd.openxmlformats-officedocument.wordprocessingml.document.main+xml"/>` +
				`</Types>`,
		},
		{
			name: "_rels/.rels",
			content: `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>` +
				`<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships">` +
				`<Relationship Id="rId1" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/officeDocument" Target="word/document.xml"/>` +
				`</Relationships>`,
		},
		{
			name: "word/document.xml",
			content: `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>` +
				`<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main">` +
				`<w:body>` + body +
				`<w:sectPr><w:pgSz w:w="11906" w:h="16838"/>` +
				`<w:pgMar w:top="850" w:right="850" w:bottom="850" w:left="850"/></w:sectPr>` +
				`</w:body></w:document>`,
		},
	}

	for _, part := range parts {
		w, err := zw.Create(part.name)
		if err != nil {
			return nil, err
		}
		if _, err := w.Write([]byte(part.content)); err != nil {
			return nil, err
		}
	}

	if err := zw.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
