package main

import (
	"net/http"
	"strings"
	"time"

	"workboard/models"
	"workboard/pkg/policy"

	"github.com/gin-gonic/gin"
)

// parseDate parses an optional YYYY-MM-DD value.
func parseDate(s string) (*time.Time, bool) {
	if s == "" {
		return nil, true
	}
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return nil, false
	}
	return &t, true
}

// publishChange emits an invalidation event for a mutated row.
func publishChange(c *gin.Context, table policy.Table, id uint, action string, ownerID uint, assignedTo *uint) {
	events.publish(c.Request.Context(), ChangeEvent{
		Table:      string(table),
		ID:         id,
		Action:     action,
		OwnerID:    ownerID,
		AssignedTo: assignedTo,
	})
}

func listProjectsHandler(c *gin.Context) {
	p, ok := currentPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not found"})
		return
	}
	q := db.WithContext(c.Request.Context()).Model(&models.Project{})
	if !p.Admin() {
		q = q.Where("owner_id = ?", p.ID)
	}
	if status := c.Query("status"); status != "" {
		q = q.Where("status = ?", status)
	}
	var projects []models.Project
	if err := q.Order("created_at desc").Find(&projects).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "query failed"})
		return
	}
	c.JSON(http.StatusOK, projects)
}

type projectRequest struct {
	Name      string `json:"name" binding:"required"`
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`
	Status    string `json:"status"`
}

func createProjectHandler(c *gin.Context) {
	p, ok := currentPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not found"})
		return
	}
	var req projectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	name := strings.TrimSpace(req.Name)
	if name == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "name required"})
		return
	}
	start, okS := parseDate(req.StartDate)
	end, okE := parseDate(req.EndDate)
	if !okS || !okE {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid date (want YYYY-MM-DD)"})
		return
	}
	status := models.Status(req.Status)
	if req.Status == "" {
		status = models.StatusNotStarted
	}
	if !status.Valid() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid status"})
		return
	}

	// Owner comes from the session, never the request body.
	project := models.Project{OwnerID: p.ID, Name: name, StartDate: start, EndDate: end, Status: status}
	if !policy.Allows(p, policy.OpInsert, policy.TableProjects, nil, &policy.Row{OwnerID: project.OwnerID}) {
		c.JSON(http.StatusForbidden, gin.H{"error": "forbidden"})
		return
	}
	ctx := c.Request.Context()
	if err := db.WithContext(ctx).Create(&project).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "create failed"})
		return
	}
	recordActivity(ctx, p.ID, "created project "+project.Name)
	publishChange(c, policy.TableProjects, project.ID, "created", project.OwnerID, nil)
	c.JSON(http.StatusOK, project)
}

func getProjectHandler(c *gin.Context) {
	p, ok := currentPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not found"})
		return
	}
	var project models.Project
	if err := db.WithContext(c.Request.Context()).Preload("Tasks").First(&project, c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
		return
	}
	if !policy.Allows(p, policy.OpRead, policy.TableProjects, &policy.Row{OwnerID: project.OwnerID}, nil) {
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
		return
	}
	c.JSON(http.StatusOK, project)
}

func updateProjectHandler(c *gin.Context) {
	p, ok := currentPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not found"})
		return
	}
	ctx := c.Request.Context()
	var project models.Project
	if err := db.WithContext(ctx).First(&project, c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
		return
	}
	var req projectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	name := strings.TrimSpace(req.Name)
	if name == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "name required"})
		return
	}
	start, okS := parseDate(req.StartDate)
	end, okE := parseDate(req.EndDate)
	if !okS || !okE {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid date (want YYYY-MM-DD)"})
		return
	}
	status := models.Status(req.Status)
	if req.Status == "" {
		status = project.Status
	}
	if !status.Valid() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid status"})
		return
	}

	existing := policy.Row{OwnerID: project.OwnerID}
	// Owner is immutable, so the proposed row carries the persisted owner.
	if !policy.Allows(p, policy.OpUpdate, policy.TableProjects, &existing, &existing) {
		c.JSON(http.StatusForbidden, gin.H{"error": "forbidden"})
		return
	}

	project.Name = name
	project.StartDate = start
	project.EndDate = end
	project.Status = status
	if err := db.WithContext(ctx).Save(&project).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "update failed"})
		return
	}
	recordActivity(ctx, p.ID, "updated project "+project.Name)
	publishChange(c, policy.TableProjects, project.ID, "updated", project.OwnerID, nil)
	c.JSON(http.StatusOK, project)
}

func deleteProjectHandler(c *gin.Context) {
	p, ok := currentPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not found"})
		return
	}
	ctx := c.Request.Context()
	var project models.Project
	if err := db.WithContext(ctx).First(&project, c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
		return
	}
	if !policy.Allows(p, policy.OpDelete, policy.TableProjects, &policy.Row{OwnerID: project.OwnerID}, nil) {
		c.JSON(http.StatusForbidden, gin.H{"error": "forbidden"})
		return
	}
	// Tasks go with the project via the FK cascade.
	if err := db.WithContext(ctx).Delete(&project).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "delete failed"})
		return
	}
	recordActivity(ctx, p.ID, "deleted project "+project.Name)
	publishChange(c, policy.TableProjects, project.ID, "deleted", project.OwnerID, nil)
	publishChange(c, policy.TableTasks, 0, "deleted", project.OwnerID, nil)
	c.JSON(http.StatusOK, gin.H{"message": "project deleted"})
}
