package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

func (s *Server) SetupRoutes(handlers *Handlers) {
	// Health check endpoint
	s.ginEngine.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	apiV1 := s.ginEngine.Group("/api/v1")

	apiV1.POST("/experiments", handlers.CreateExperiment)
	apiV1.GET("/experiments/:name", handlers.GetExperiment)
	apiV1.DELETE("/experiments/:name", handlers.DeleteExperiment)
	apiV1.GET("/experiments/:name/trials", handlers.ListTrials)

	apiV1.POST("/trials", handlers.CreateTrial)
	apiV1.DELETE("/trials/:name", handlers.DeleteTrial)
	apiV1.GET("/trials/:name/components", handlers.ListTrialComponents)
	apiV1.POST("/trials/:name/components/:component/disassociate", handlers.DisassociateTrialComponent)

	apiV1.DELETE("/components/:name", handlers.DeleteTrialComponent)

	apiV1.GET("/analytics", handlers.Analytics)

	apiV1.POST("/training-jobs", handlers.SubmitTrainingJob)
}
