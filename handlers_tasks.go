package main

import (
	"net/http"
	"strings"

	"workboard/models"
	"workboard/pkg/policy"

	"github.com/gin-gonic/gin"
)

func listTasksHandler(c *gin.Context) {
	p, ok := currentPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not found"})
		return
	}
	q := db.WithContext(c.Request.Context()).Model(&models.Task{})
	if !p.Admin() {
		q = q.Where("owner_id = ? OR assigned_to = ?", p.ID, p.ID)
	}
	if pid := c.Query("project_id"); pid != "" {
		q = q.Where("project_id = ?", pid)
	}
	if status := c.Query("status"); status != "" {
		q = q.Where("status = ?", status)
	}
	var tasks []models.Task
	if err := q.Order("created_at desc").Find(&tasks).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "query failed"})
		return
	}
	c.JSON(http.StatusOK, tasks)
}

type taskRequest struct {
	Title      string `json:"title" binding:"required"`
	ProjectID  *uint  `json:"project_id"`
	DueDate    string `json:"due_date"`
	Progress   *int   `json:"progress"`
	AssignedTo *uint  `json:"assigned_to"`
}

func (r taskRequest) progressValue() int {
	if r.Progress == nil {
		return 0
	}
	return *r.Progress
}

func createTaskHandler(c *gin.Context) {
	p, ok := currentPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not found"})
		return
	}
	var req taskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	title := strings.TrimSpace(req.Title)
	if title == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "title required"})
		return
	}
	progress := req.progressValue()
	if progress < 0 || progress > 100 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "progress must be within 0..100"})
		return
	}
	due, okDue := parseDate(req.DueDate)
	if !okDue {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid due date (want YYYY-MM-DD)"})
		return
	}
	ctx := c.Request.Context()
	if req.ProjectID != nil {
		var project models.Project
		if err := db.WithContext(ctx).First(&project, *req.ProjectID).Error; err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "project not found"})
			return
		}
		if !policy.Allows(p, policy.OpRead, policy.TableProjects, &policy.Row{OwnerID: project.OwnerID}, nil) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "project not found"})
			return
		}
	}

	task := models.Task{
		OwnerID:    p.ID,
		ProjectID:  req.ProjectID,
		Title:      title,
		DueDate:    due,
		Progress:   progress,
		Status:     models.StatusForProgress(progress),
		AssignedTo: req.AssignedTo,
	}
	if !policy.Allows(p, policy.OpInsert, policy.TableTasks, nil, &policy.Row{OwnerID: task.OwnerID, AssignedTo: task.AssignedTo}) {
		c.JSON(http.StatusForbidden, gin.H{"error": "forbidden"})
		return
	}
	if err := db.WithContext(ctx).Create(&task).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "create failed"})
		return
	}
	recordActivity(ctx, p.ID, "created task "+task.Title)
	publishChange(c, policy.TableTasks, task.ID, "created", task.OwnerID, task.AssignedTo)
	c.JSON(http.StatusOK, task)
}

func getTaskHandler(c *gin.Context) {
	p, ok := currentPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not found"})
		return
	}
	var task models.Task
	if err := db.WithContext(c.Request.Context()).First(&task, c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
		return
	}
	if !policy.Allows(p, policy.OpRead, policy.TableTasks, &policy.Row{OwnerID: task.OwnerID, AssignedTo: task.AssignedTo}, nil) {
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
		return
	}
	c.JSON(http.StatusOK, task)
}

func updateTaskHandler(c *gin.Context) {
	p, ok := currentPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not found"})
		return
	}
	ctx := c.Request.Context()
	var task models.Task
	if err := db.WithContext(ctx).First(&task, c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
		return
	}
	var req taskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	title := strings.TrimSpace(req.Title)
	if title == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "title required"})
		return
	}
	progress := task.Progress
	if req.Progress != nil {
		progress = *req.Progress
	}
	if progress < 0 || progress > 100 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "progress must be within 0..100"})
		return
	}
	due, okDue := parseDate(req.DueDate)
	if !okDue {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid due date (want YYYY-MM-DD)"})
		return
	}
	// Same guard as create: a task may only reference a project the
	// principal can read, so nobody re-points a task into another
	// principal's project view.
	if req.ProjectID != nil {
		var project models.Project
		if err := db.WithContext(ctx).First(&project, *req.ProjectID).Error; err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "project not found"})
			return
		}
		if !policy.Allows(p, policy.OpRead, policy.TableProjects, &policy.Row{OwnerID: project.OwnerID}, nil) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "project not found"})
			return
		}
	}

	existing := policy.Row{OwnerID: task.OwnerID, AssignedTo: task.AssignedTo}
	proposed := policy.Row{OwnerID: task.OwnerID, AssignedTo: req.AssignedTo}
	if !policy.Allows(p, policy.OpUpdate, policy.TableTasks, &existing, &proposed) {
		c.JSON(http.StatusForbidden, gin.H{"error": "forbidden"})
		return
	}

	task.Title = title
	task.ProjectID = req.ProjectID
	task.DueDate = due
	task.Progress = progress
	task.Status = models.StatusForProgress(progress)
	task.AssignedTo = req.AssignedTo
	if err := db.WithContext(ctx).Save(&task).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "update failed"})
		return
	}
	recordActivity(ctx, p.ID, "updated task "+task.Title)
	publishChange(c, policy.TableTasks, task.ID, "updated", task.OwnerID, task.AssignedTo)
	c.JSON(http.StatusOK, task)
}

func deleteTaskHandler(c *gin.Context) {
	p, ok := currentPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not found"})
		return
	}
	ctx := c.Request.Context()
	var task models.Task
	if err := db.WithContext(ctx).First(&task, c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
		return
	}
	if !policy.Allows(p, policy.OpDelete, policy.TableTasks, &policy.Row{OwnerID: task.OwnerID, AssignedTo: task.AssignedTo}, nil) {
		c.JSON(http.StatusForbidden, gin.H{"error": "forbidden"})
		return
	}
	if err := db.WithContext(ctx).Delete(&task).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "delete failed"})
		return
	}
	recordActivity(ctx, p.ID, "deleted task "+task.Title)
	publishChange(c, policy.TableTasks, task.ID, "deleted", task.OwnerID, task.AssignedTo)
	c.JSON(http.StatusOK, gin.H{"message": "task deleted"})
}
