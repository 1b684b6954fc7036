package report

import (
	"archive/zip"
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/arpitnexuses/forvismazar-questionnaire/internal/models"
	"github.com/arpitnexuses/forvismazar-questionnaire/internal/scoring"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func encoderInput(t *testing.T) Input {
	t.Helper()
	q := fixtureQuestionnaire(2, 3)
	sub := fixtureSubmission(q)
	scores := scoring.ComputeScores(q, sub.AnswerList())
	return Input{
		Questionnaire: q,
		Submission:    sub,
		Client:        &models.Client{ID: "client-1", Name: "Meridian Logistics"},
		Scores:        scores,
		Pages:         Layout(q, sub, scores, DefaultConstraints),
	}
}

// assertProbeOrder checks that every probe occurs in data, scanning forward
// so repeated probes must each appear again later in the artifact.
func assertProbeOrder(t *testing.T, label string, data []byte, probes []string) {
	t.Helper()
	pos := 0
	for _, probe := range probes {
		idx := bytes.Index(data[pos:], []byte(probe))
		if idx < 0 {
			t.Fatalf("%s: probe %q not found in order at offset %d", label, probe, pos)
		}
		pos += idx + len(probe)
	}
}

// probeSafe strips characters that both output formats escape differently
// (PDF string syntax escapes parentheses and backslashes) so the same probe
// matches raw bytes of either artifact.
func probeSafe(s string) string {
	longest := ""
	for _, segment := range strings.FieldsFunc(s, func(r rune) bool {
		return r == '(' || r == ')' || r == '\\' || r == '&' || r == '<' || r == '>'
	}) {
		segment = strings.TrimSpace(segment)
		if len(segment) > len(longest) {
			longest = segment
		}
	}
	return longest
}

func contentProbes(in Input) []string {
	var probes []string
	for _, block := range Flatten(in.Pages) {
		switch block.Type {
		case BlockSectionHeader:
			probes = append(probes, probeSafe(block.Title))
		case BlockScoreSummary:
			probes = append(probes, probeSafe(block.Summary))
		case BlockQuestion:
			for _, field := range block.Fields {
				for _, line := range field.Lines {
					if line.Highlight {
						probes = append(probes, probeSafe(line.Text))
					}
				}
			}
		}
	}
	return probes
}

func docxDocumentXML(t *testing.T, data []byte) []byte {
	t.Helper()
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		t.Fatalf("artifact is not a zip: %v", err)
	}
	for _, f := range zr.File {
		if f.Name == "word/document.xml" {
			rc, err := f.Open()
			if err != nil {
				t.Fatalf("failed to open document part: %v", err)
			}
			defer rc.Close()
			content, err := io.ReadAll(rc)
			if err != nil {
				t.Fatalf("failed to read document part: %v", err)
			}
			return content
		}
	}
	t.Fatal("word/document.xml missing from package")
	return nil
}

func TestPDFEncoder_PreservesCanonicalOrder(t *testing.T) {
	in := encoderInput(t)
	enc := NewPDFEncoder(testLogger(), "")
	enc.disableCompression = true

	artifact, err := enc.Encode(context.Background(), in)
	if err != nil {
		t.Fatalf("encode failed: %v", err)
	}
	if !bytes.HasPrefix(artifact.Data, []byte("%PDF-")) {
		t.Error("artifact does not start with a PDF header")
	}
	if artifact.Filename != "assessment-Meridian-Logistics-2025-06-15.pdf" {
		t.Errorf("unexpected filename: %s", artifact.Filename)
	}
	assertProbeOrder(t, "pdf", artifact.Data, contentProbes(in))
}

func TestDOCXEncoder_PreservesCanonicalOrder(t *testing.T) {
	in := encoderInput(t)
	enc := NewDOCXEncoder(testLogger())

	artifact, err := enc.Encode(context.Background(), in)
	if err != nil {
		t.Fatalf("encode failed: %v", err)
	}
	if artifact.Filename != "assessment-Meridian-Logistics-2025-06-15.docx" {
		t.Errorf("unexpected filename: %s", artifact.Filename)
	}
	document := docxDocumentXML(t, artifact.Data)
	assertProbeOrder(t, "docx", document, contentProbes(in))
}

// The two encoders paginate differently but must agree on block order and
// numeric content. Any divergence between the sequences is a defect.
func TestEncoders_CrossParity(t *testing.T) {
	in := encoderInput(t)

	pdfEnc := NewPDFEncoder(testLogger(), "")
	pdfEnc.disableCompression = true
	docxEnc := NewDOCXEncoder(testLogger())

	pdfArtifact, err := pdfEnc.Encode(context.Background(), in)
	if err != nil {
		t.Fatalf("pdf encode failed: %v", err)
	}
	docxArtifact, err := docxEnc.Encode(context.Background(), in)
	if err != nil {
		t.Fatalf("docx encode failed: %v", err)
	}

	probes := contentProbes(in)
	if len(probes) == 0 {
		t.Fatal("fixture produced no content probes")
	}
	assertProbeOrder(t, "pdf", pdfArtifact.Data, probes)
	assertProbeOrder(t, "docx", docxDocumentXML(t, docxArtifact.Data), probes)
}

func TestPDFEncoder_MissingLogoDoesNotAbort(t *testing.T) {
	in := encoderInput(t)
	enc := NewPDFEncoder(testLogger(), "/nonexistent/logo.png")

	artifact, err := enc.Encode(context.Background(), in)
	if err != nil {
		t.Fatalf("missing logo must not abort the export: %v", err)
	}
	if len(artifact.Data) == 0 {
		t.Error("empty artifact")
	}
}

func TestEncoders_MissingSectionsFailOnlyThatExport(t *testing.T) {
	in := encoderInput(t)
	in.Questionnaire = nil

	if _, err := NewPDFEncoder(testLogger(), "").Encode(context.Background(), in); !errors.Is(err, ErrMissingSections) {
		t.Errorf("pdf: expected ErrMissingSections, got %v", err)
	}
	if _, err := NewDOCXEncoder(testLogger()).Encode(context.Background(), in); !errors.Is(err, ErrMissingSections) {
		t.Errorf("docx: expected ErrMissingSections, got %v", err)
	}
}

func TestEncoders_Cancellation(t *testing.T) {
	in := encoderInput(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := NewPDFEncoder(testLogger(), "").Encode(ctx, in); !errors.Is(err, context.Canceled) {
		t.Errorf("pdf: expected context.Canceled, got %v", err)
	}
	if _, err := NewDOCXEncoder(testLogger()).Encode(ctx, in); !errors.Is(err, context.Canceled) {
		t.Errorf("docx: expected context.Canceled, got %v", err)
	}
}

func TestXLSXEncoder_ScoreMatrix(t *testing.T) {
	in := encoderInput(t)
	enc := NewXLSXEncoder(testLogger())

	artifact, err := enc.Encode(context.Background(), in)
	if err != nil {
		t.Fatalf("encode failed: %v", err)
	}
	if artifact.Filename != "assessment-Meridian-Logistics-2025-06-15.xlsx" {
		t.Errorf("unexpected filename: %s", artifact.Filename)
	}
	// XLSX packages are zips; spot-check the container.
	if _, err := zip.NewReader(bytes.NewReader(artifact.Data), int64(len(artifact.Data))); err != nil {
		t.Errorf("xlsx artifact is not a valid package: %v", err)
	}
	if !strings.HasPrefix(artifact.ContentType, "application/vnd.openxmlformats") {
		t.Errorf("unexpected content type: %s", artifact.ContentType)
	}
}
