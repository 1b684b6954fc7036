package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/arpitnexuses/forvismazar-questionnaire/internal/repositories"
	"github.com/arpitnexuses/forvismazar-questionnaire/internal/services"
	"github.com/arpitnexuses/forvismazar-questionnaire/internal/utils"
)

type ClientHandler struct {
	BaseHandler
	clientService services.ClientService
}

func NewClientHandler(clientService services.ClientService, logger utils.Logger) *ClientHandler {
	return &ClientHandler{
		BaseHandler:   NewBaseHandler(logger),
		clientService: clientService,
	}
}

// CreateClient registers a client organisation
func (h *ClientHandler) CreateClient(c *gin.Context) {
	var req services.CreateClientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request payload",
			Details: err.Error(),
		})
		return
	}

	client, err := h.clientService.Create(c.Request.Context(), &req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, client)
}

// GetClient retrieves a client by ID
func (h *ClientHandler) GetClient(c *gin.Context) {
	client, err := h.clientService.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, client)
}

// ListClients lists clients with filters
func (h *ClientHandler) ListClients(c *gin.Context) {
	filters := repositories.ClientFilters{
		Limit:  parseIntQuery(c, "limit", 20),
		Offset: parseIntQuery(c, "offset", 0),
	}
	if name := c.Query("name"); name != "" {
		filters.Name = &name
	}
	if industry := c.Query("industry"); industry != "" {
		filters.Industry = &industry
	}

	clients, total, err := h.clientService.List(c.Request.Context(), filters)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"clients": clients, "total": total})
}
