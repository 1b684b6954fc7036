package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/arpitnexuses/forvismazar-questionnaire/internal/repositories"
	"github.com/arpitnexuses/forvismazar-questionnaire/internal/services"
	"github.com/arpitnexuses/forvismazar-questionnaire/internal/utils"
	"github.com/arpitnexuses/forvismazar-questionnaire/internal/validator"
)

type SubmissionHandler struct {
	BaseHandler
	submissionService services.SubmissionService
	validator         *validator.Validator
}

func NewSubmissionHandler(
	submissionService services.SubmissionService,
	validator *validator.Validator,
	logger utils.Logger,
) *SubmissionHandler {
	return &SubmissionHandler{
		BaseHandler:       NewBaseHandler(logger),
		submissionService: submissionService,
		validator:         validator,
	}
}

// CreateSubmission scores and stores a completed assessment
func (h *SubmissionHandler) CreateSubmission(c *gin.Context) {
	var req services.CreateSubmissionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request payload",
			Details: err.Error(),
		})
		return
	}

	submittedBy := c.GetHeader("X-User-Email")

	submission, err := h.submissionService.Create(c.Request.Context(), &req, submittedBy)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, submission)
}

// GetSubmission retrieves a submission with its stored scores
func (h *SubmissionHandler) GetSubmission(c *gin.Context) {
	id := c.Param("id")

	h.LogRequest(c, "Getting submission", "submission_id", id)

	submission, err := h.submissionService.GetByID(c.Request.Context(), id)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, submission)
}

// ListSubmissions lists submissions with filters and pagination
func (h *SubmissionHandler) ListSubmissions(c *gin.Context) {
	filters := repositories.SubmissionFilters{
		Limit:     parseIntQuery(c, "limit", 20),
		Offset:    parseIntQuery(c, "offset", 0),
		SortBy:    c.Query("sort_by"),
		SortOrder: c.Query("sort_order"),
	}
	if clientID := c.Query("client_id"); clientID != "" {
		filters.ClientID = &clientID
	}
	if questionnaireID := c.Query("questionnaire_id"); questionnaireID != "" {
		filters.QuestionnaireID = &questionnaireID
	}

	list, err := h.submissionService.List(c.Request.Context(), filters)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, list)
}

// GetSubmissionsByClient lists a client's assessment history, newest first
func (h *SubmissionHandler) GetSubmissionsByClient(c *gin.Context) {
	clientID := c.Param("id")

	submissions, err := h.submissionService.GetByClient(c.Request.Context(), clientID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, submissions)
}

// DeleteSubmission removes a submission
func (h *SubmissionHandler) DeleteSubmission(c *gin.Context) {
	id := c.Param("id")

	if err := h.submissionService.Delete(c.Request.Context(), id); err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, SuccessResponse{Message: "Submission deleted"})
}
