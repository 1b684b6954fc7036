package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/arpitnexuses/forvismazar-questionnaire/internal/repositories"
	"github.com/arpitnexuses/forvismazar-questionnaire/internal/services"
	"github.com/arpitnexuses/forvismazar-questionnaire/internal/utils"
	"github.com/arpitnexuses/forvismazar-questionnaire/internal/validator"
)

type QuestionnaireHandler struct {
	BaseHandler
	questionnaireService services.QuestionnaireService
	validator            *validator.Validator
}

func NewQuestionnaireHandler(
	questionnaireService services.QuestionnaireService,
	validator *validator.Validator,
	logger utils.Logger,
) *QuestionnaireHandler {
	return &QuestionnaireHandler{
		BaseHandler:          NewBaseHandler(logger),
		questionnaireService: questionnaireService,
		validator:            validator,
	}
}

// CreateQuestionnaire creates a new questionnaire definition
func (h *QuestionnaireHandler) CreateQuestionnaire(c *gin.Context) {
	var req services.CreateQuestionnaireRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request payload",
			Details: err.Error(),
		})
		return
	}

	createdBy := c.GetHeader("X-User-Email")

	questionnaire, err := h.questionnaireService.Create(c.Request.Context(), &req, createdBy)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, questionnaire)
}

// GetQuestionnaire retrieves a questionnaire by ID
func (h *QuestionnaireHandler) GetQuestionnaire(c *gin.Context) {
	id := c.Param("id")

	h.LogRequest(c, "Getting questionnaire", "questionnaire_id", id)

	questionnaire, err := h.questionnaireService.GetByID(c.Request.Context(), id)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, questionnaire)
}

// UpdateQuestionnaire mutates an existing questionnaire in place
func (h *QuestionnaireHandler) UpdateQuestionnaire(c *gin.Context) {
	id := c.Param("id")

	var req services.UpdateQuestionnaireRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request payload",
			Details: err.Error(),
		})
		return
	}

	questionnaire, err := h.questionnaireService.Update(c.Request.Context(), id, &req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, questionnaire)
}

// DeleteQuestionnaire removes a questionnaire
func (h *QuestionnaireHandler) DeleteQuestionnaire(c *gin.Context) {
	id := c.Param("id")

	if err := h.questionnaireService.Delete(c.Request.Context(), id); err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, SuccessResponse{Message: "Questionnaire deleted"})
}

// ListQuestionnaires lists questionnaires with filters and pagination
func (h *QuestionnaireHandler) ListQuestionnaires(c *gin.Context) {
	filters := repositories.QuestionnaireFilters{
		Limit:     parseIntQuery(c, "limit", 20),
		Offset:    parseIntQuery(c, "offset", 0),
		SortBy:    c.Query("sort_by"),
		SortOrder: c.Query("sort_order"),
	}
	if title := c.Query("title"); title != "" {
		filters.Title = &title
	}
	if activeStr := c.Query("is_active"); activeStr != "" {
		active := activeStr == "true"
		filters.IsActive = &active
	}

	list, err := h.questionnaireService.List(c.Request.Context(), filters)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, list)
}

func parseIntQuery(c *gin.Context, name string, fallback int) int {
	value, err := strconv.Atoi(c.Query(name))
	if err != nil {
		return fallback
	}
	return value
}
