package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/arpitnexuses/forvismazar-questionnaire/internal/services"
	"github.com/arpitnexuses/forvismazar-questionnaire/internal/utils"
	"github.com/arpitnexuses/forvismazar-questionnaire/internal/validator"
)

type HandlerManager struct {
	serviceManager       services.ServiceManager
	questionnaireHandler *QuestionnaireHandler
	submissionHandler    *SubmissionHandler
	clientHandler        *ClientHandler
	reportHandler        *ReportHandler
}

func NewHandlerManager(
	serviceManager services.ServiceManager,
	validator *validator.Validator,
	logger utils.Logger,
) *HandlerManager {
	return &HandlerManager{
		serviceManager:       serviceManager,
		questionnaireHandler: NewQuestionnaireHandler(serviceManager.Questionnaire(), validator, logger),
		submissionHandler:    NewSubmissionHandler(serviceManager.Submission(), validator, logger),
		clientHandler:        NewClientHandler(serviceManager.Client(), logger),
		reportHandler:        NewReportHandler(serviceManager.Report(), logger),
	}
}

// SetupRoutes sets up all API routes
func (hm *HandlerManager) SetupRoutes(router *gin.Engine) {
	router.GET("/health", func(c *gin.Context) {
		if err := hm.serviceManager.HealthCheck(c.Request.Context()); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unhealthy", "error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "healthy"})
	})

	v1 := router.Group("/api/v1")
	{
		// Questionnaire authoring
		questionnaires := v1.Group("/questionnaires")
		{
			questionnaires.POST("", hm.questionnaireHandler.CreateQuestionnaire)
			questionnaires.GET("", hm.questionnaireHandler.ListQuestionnaires)
			questionnaires.GET("/:id", hm.questionnaireHandler.GetQuestionnaire)
			questionnaires.PUT("/:id", hm.questionnaireHandler.UpdateQuestionnaire)
			questionnaires.DELETE("/:id", hm.questionnaireHandler.DeleteQuestionnaire)
		}

		// Submission intake and history
		submissions := v1.Group("/submissions")
		{
			submissions.POST("", hm.submissionHandler.CreateSubmission)
			submissions.GET("", hm.submissionHandler.ListSubmissions)
			submissions.GET("/:id", hm.submissionHandler.GetSubmission)
			submissions.DELETE("/:id", hm.submissionHandler.DeleteSubmission)

			// Report rendering
			submissions.GET("/:id/reports", hm.reportHandler.ExportReportBundle)
			submissions.GET("/:id/reports/:format", hm.reportHandler.ExportReport)
		}

		// Client directory
		clients := v1.Group("/clients")
		{
			clients.POST("", hm.clientHandler.CreateClient)
			clients.GET("", hm.clientHandler.ListClients)
			clients.GET("/:id", hm.clientHandler.GetClient)
			clients.GET("/:id/submissions", hm.submissionHandler.GetSubmissionsByClient)
		}
	}
}
