package main

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

func setupRoutes(r *gin.Engine) {
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
		ExposeHeaders:    []string{"Content-Length", "Content-Disposition"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))
	r.Use(requestLogger())

	r.POST("/register", registerHandler)
	r.POST("/login", loginHandler)
	r.POST("/refresh", refreshHandler)
	r.POST("/revoke_refresh", revokeRefreshHandler)

	// Stored objects are public by URL once uploaded.
	r.Static("/files", storageBase)

	r.GET("/health", func(c *gin.Context) {
		c.String(http.StatusOK, "ok")
	})

	authGroup := r.Group("")
	authGroup.Use(jwtAuthMiddleware())

	authGroup.GET("/me", meHandler)
	authGroup.PUT("/profile", updateProfileHandler)
	authGroup.GET("/profiles", requireAdmin(), listProfilesHandler)
	authGroup.PUT("/profiles/:id/role", requireAdmin(), changeRoleHandler)
	authGroup.DELETE("/profiles/:id", deleteAccountHandler)

	authGroup.GET("/projects", listProjectsHandler)
	authGroup.POST("/projects", createProjectHandler)
	authGroup.GET("/projects/:id", getProjectHandler)
	authGroup.PUT("/projects/:id", updateProjectHandler)
	authGroup.DELETE("/projects/:id", deleteProjectHandler)

	authGroup.GET("/tasks", listTasksHandler)
	authGroup.POST("/tasks", createTaskHandler)
	authGroup.GET("/tasks/:id", getTaskHandler)
	authGroup.PUT("/tasks/:id", updateTaskHandler)
	authGroup.DELETE("/tasks/:id", deleteTaskHandler)

	authGroup.GET("/calendar", listCalendarNotesHandler)
	authGroup.POST("/calendar", createCalendarNoteHandler)
	authGroup.PUT("/calendar/:id", updateCalendarNoteHandler)
	authGroup.DELETE("/calendar/:id", deleteCalendarNoteHandler)

	authGroup.GET("/content", listContentLogsHandler)
	authGroup.POST("/content", createContentLogHandler)
	authGroup.PUT("/content/:id", updateContentLogHandler)
	authGroup.DELETE("/content/:id", deleteContentLogHandler)

	authGroup.GET("/live", listLiveLogsHandler)
	authGroup.POST("/live", createLiveLogHandler)
	authGroup.PUT("/live/:id", updateLiveLogHandler)
	authGroup.DELETE("/live/:id", deleteLiveLogHandler)

	authGroup.GET("/templates", listTemplatesHandler)
	authGroup.POST("/templates", uploadTemplateHandler)
	authGroup.PUT("/templates/:id", updateTemplateHandler)
	authGroup.DELETE("/templates/:id", deleteTemplateHandler)

	authGroup.GET("/activity", listActivityHandler)

	authGroup.GET("/dashboard", dashboardHandler)
	authGroup.GET("/analytics/weekly", weeklyAnalyticsHandler)
	authGroup.GET("/export/:table", exportHandler)

	authGroup.GET("/events", eventsHandler)
}
