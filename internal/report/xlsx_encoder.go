package report

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"

	"github.com/xuri/excelize/v2"

	"github.com/arpitnexuses/forvismazar-questionnaire/internal/scoring"
)

// XLSXEncoder writes the one-sheet score matrix used by analysts who want
// the numbers without the narrative report.
type XLSXEncoder struct {
	logger *slog.Logger
}

func NewXLSXEncoder(logger *slog.Logger) *XLSXEncoder {
	return &XLSXEncoder{logger: logger}
}

func (e *XLSXEncoder) Encode(ctx context.Context, in Input) (*Artifact, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	f := excelize.NewFile()
	defer func() {
		if err := f.Close(); err != nil {
			e.logger.Warn("failed to close xlsx file", "error", err)
		}
	}()

	const sheet = "Scores"
	f.SetSheetName("Sheet1", sheet)

	headers := []string{"Section", "Score", "Max Score", "Percentage"}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(sheet, cell, h)
	}

	titleBySection := make(map[string]string)
	for _, section := range in.Questionnaire.SectionList() {
		titleBySection[section.ID] = section.Title
	}

	row := 2
	for _, ss := range in.Scores.SectionScores {
		title := titleBySection[ss.SectionID]
		if title == "" {
			title = ss.SectionID
		}
		f.SetCellValue(sheet, fmt.Sprintf("A%d", row), title)
		f.SetCellValue(sheet, fmt.Sprintf("B%d", row), ss.Score)
		f.SetCellValue(sheet, fmt.Sprintf("C%d", row), ss.MaxScore)
		f.SetCellValue(sheet, fmt.Sprintf("D%d", row), scoring.FormatPercentage(ss.Score, ss.MaxScore))
		row++
	}

	f.SetCellValue(sheet, fmt.Sprintf("A%d", row), "Total")
	f.SetCellValue(sheet, fmt.Sprintf("B%d", row), in.Scores.TotalScore)
	f.SetCellValue(sheet, fmt.Sprintf("C%d", row), in.Scores.MaxTotalScore)
	f.SetCellValue(sheet, fmt.Sprintf("D%d", row),
		scoring.FormatPercentage(in.Scores.TotalScore, in.Scores.MaxTotalScore))

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("failed to write xlsx: %w", err)
	}

	return &Artifact{
		Data:        buf.Bytes(),
		Filename:    SuggestFilename(in.clientName(), in.Submission.SubmittedAt, "xlsx"),
		ContentType: "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
	}, nil
}
