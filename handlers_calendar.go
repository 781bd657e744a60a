package main

import (
	"net/http"

	"workboard/models"
	"workboard/pkg/policy"

	"github.com/gin-gonic/gin"
)

func listCalendarNotesHandler(c *gin.Context) {
	p, ok := currentPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not found"})
		return
	}
	q := db.WithContext(c.Request.Context()).Model(&models.CalendarNote{})
	if !p.Admin() {
		q = q.Where("owner_id = ?", p.ID)
	}
	if from, ok := parseDate(c.Query("from")); ok && from != nil {
		q = q.Where("date >= ?", *from)
	}
	if to, ok := parseDate(c.Query("to")); ok && to != nil {
		q = q.Where("date <= ?", *to)
	}
	var notes []models.CalendarNote
	if err := q.Order("date asc").Find(&notes).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "query failed"})
		return
	}
	c.JSON(http.StatusOK, notes)
}

type calendarNoteRequest struct {
	Date string `json:"date" binding:"required"`
	Body string `json:"body"`
}

func createCalendarNoteHandler(c *gin.Context) {
	p, ok := currentPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not found"})
		return
	}
	var req calendarNoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	date, okDate := parseDate(req.Date)
	if !okDate || date == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid date (want YYYY-MM-DD)"})
		return
	}
	note := models.CalendarNote{OwnerID: p.ID, Date: *date, Body: req.Body}
	if !policy.Allows(p, policy.OpInsert, policy.TableCalendarNotes, nil, &policy.Row{OwnerID: note.OwnerID}) {
		c.JSON(http.StatusForbidden, gin.H{"error": "forbidden"})
		return
	}
	ctx := c.Request.Context()
	if err := db.WithContext(ctx).Create(&note).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "create failed"})
		return
	}
	recordActivity(ctx, p.ID, "added calendar note")
	publishChange(c, policy.TableCalendarNotes, note.ID, "created", note.OwnerID, nil)
	c.JSON(http.StatusOK, note)
}

func updateCalendarNoteHandler(c *gin.Context) {
	p, ok := currentPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not found"})
		return
	}
	ctx := c.Request.Context()
	var note models.CalendarNote
	if err := db.WithContext(ctx).First(&note, c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
		return
	}
	var req calendarNoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	date, okDate := parseDate(req.Date)
	if !okDate || date == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid date (want YYYY-MM-DD)"})
		return
	}
	row := policy.Row{OwnerID: note.OwnerID}
	if !policy.Allows(p, policy.OpUpdate, policy.TableCalendarNotes, &row, &row) {
		c.JSON(http.StatusForbidden, gin.H{"error": "forbidden"})
		return
	}
	note.Date = *date
	note.Body = req.Body
	if err := db.WithContext(ctx).Save(&note).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "update failed"})
		return
	}
	recordActivity(ctx, p.ID, "updated calendar note")
	publishChange(c, policy.TableCalendarNotes, note.ID, "updated", note.OwnerID, nil)
	c.JSON(http.StatusOK, note)
}

func deleteCalendarNoteHandler(c *gin.Context) {
	p, ok := currentPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not found"})
		return
	}
	ctx := c.Request.Context()
	var note models.CalendarNote
	if err := db.WithContext(ctx).First(&note, c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
		return
	}
	if !policy.Allows(p, policy.OpDelete, policy.TableCalendarNotes, &policy.Row{OwnerID: note.OwnerID}, nil) {
		c.JSON(http.StatusForbidden, gin.H{"error": "forbidden"})
		return
	}
	if err := db.WithContext(ctx).Delete(&note).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "delete failed"})
		return
	}
	recordActivity(ctx, p.ID, "deleted calendar note")
	publishChange(c, policy.TableCalendarNotes, note.ID, "deleted", note.OwnerID, nil)
	c.JSON(http.StatusOK, gin.H{"message": "note deleted"})
}
