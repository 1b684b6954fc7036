package handlers

import (
	"archive/zip"
	"bytes"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/arpitnexuses/forvismazar-questionnaire/internal/services"
	"github.com/arpitnexuses/forvismazar-questionnaire/internal/utils"
)

type ReportHandler struct {
	BaseHandler
	reportService services.ReportService
}

func NewReportHandler(reportService services.ReportService, logger utils.Logger) *ReportHandler {
	return &ReportHandler{
		BaseHandler:   NewBaseHandler(logger),
		reportService: reportService,
	}
}

// ExportReport streams one rendered report format as a download
func (h *ReportHandler) ExportReport(c *gin.Context) {
	submissionID := c.Param("id")
	format := services.ExportFormat(c.Param("format"))

	h.LogRequest(c, "Exporting report", "submission_id", submissionID, "format", format)

	artifact, err := h.reportService.Generate(c.Request.Context(), submissionID, format)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.Header("Content-Disposition", `attachment; filename="`+artifact.Filename+`"`)
	c.Data(http.StatusOK, artifact.ContentType, artifact.Data)
}

// ExportReportBundle renders the requested formats and streams them as one
// zip. Formats fail independently; a format that fails is skipped and
// reported in the X-Export-Errors header, and the bundle ships whatever
// succeeded. Only a fully failed bundle is an error response.
func (h *ReportHandler) ExportReportBundle(c *gin.Context) {
	submissionID := c.Param("id")

	formats := []services.ExportFormat{services.FormatPDF, services.FormatDOCX, services.FormatXLSX}
	if requested := c.Query("formats"); requested != "" {
		formats = formats[:0]
		for _, f := range strings.Split(requested, ",") {
			formats = append(formats, services.ExportFormat(strings.TrimSpace(f)))
		}
	}

	results := h.reportService.GenerateAll(c.Request.Context(), submissionID, formats)

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	var failed []string
	written := 0
	for _, result := range results {
		if result.Err != nil {
			failed = append(failed, string(result.Format))
			continue
		}
		w, err := zw.Create(result.Artifact.Filename)
		if err != nil {
			failed = append(failed, string(result.Format))
			continue
		}
		if _, err := w.Write(result.Artifact.Data); err != nil {
			failed = append(failed, string(result.Format))
			continue
		}
		written++
	}
	if err := zw.Close(); err != nil {
		h.handleServiceError(c, err)
		return
	}

	if written == 0 {
		// Every format failed; surface the first error properly
		h.handleServiceError(c, results[0].Err)
		return
	}

	if len(failed) > 0 {
		c.Header("X-Export-Errors", strings.Join(failed, ","))
	}
	c.Header("Content-Disposition", `attachment; filename="assessment-reports.zip"`)
	c.Data(http.StatusOK, "application/zip", buf.Bytes())
}
