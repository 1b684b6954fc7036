package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/arpitnexuses/forvismazar-questionnaire/internal/services"
	"github.com/arpitnexuses/forvismazar-questionnaire/internal/utils"
	"github.com/arpitnexuses/forvismazar-questionnaire/internal/validator"
)

type ErrorResponse struct {
	Message string      `json:"message"`
	Details interface{} `json:"details,omitempty"`
}

type SuccessResponse struct {
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

type BaseHandler struct {
	logger utils.Logger
}

func NewBaseHandler(logger utils.Logger) BaseHandler {
	return BaseHandler{logger: logger}
}

// LogRequest logs via the request-scoped logger when one is present
func (h *BaseHandler) LogRequest(c *gin.Context, msg string, args ...any) {
	utils.FromContext(c, h.logger).Info(msg, args...)
}

// handleServiceError maps service errors onto HTTP status codes
func (h *BaseHandler) handleServiceError(c *gin.Context, err error) {
	var validationErrors validator.ValidationErrors
	if errors.As(err, &validationErrors) {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Validation failed",
			Details: validationErrors,
		})
		return
	}

	switch {
	case errors.Is(err, services.ErrQuestionnaireNotFound):
		c.JSON(http.StatusNotFound, ErrorResponse{
			Message: "Questionnaire not found",
		})
	case errors.Is(err, services.ErrSubmissionNotFound):
		c.JSON(http.StatusNotFound, ErrorResponse{
			Message: "Submission not found",
		})
	case errors.Is(err, services.ErrClientNotFound):
		c.JSON(http.StatusNotFound, ErrorResponse{
			Message: "Client not found",
		})
	case errors.Is(err, services.ErrQuestionnaireInactive):
		c.JSON(http.StatusConflict, ErrorResponse{
			Message: "Questionnaire is not active",
		})
	case errors.Is(err, services.ErrUnsupportedFormat):
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Unsupported export format",
		})
	default:
		utils.FromContext(c, h.logger).Error("Unhandled service error", "error", err)
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Message: "Internal server error",
		})
	}
}
