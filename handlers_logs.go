package main

import (
	"net/http"

	"workboard/models"
	"workboard/pkg/policy"

	"github.com/gin-gonic/gin"
)

//
// Content logs: one row per (owner, date), guarded by a unique index so two
// sessions submitting the same day race down to one 409 instead of a
// silent duplicate.
//

func listContentLogsHandler(c *gin.Context) {
	p, ok := currentPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not found"})
		return
	}
	q := db.WithContext(c.Request.Context()).Model(&models.ContentLog{})
	if !p.Admin() {
		q = q.Where("owner_id = ?", p.ID)
	}
	var logs []models.ContentLog
	if err := q.Order("date desc").Find(&logs).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "query failed"})
		return
	}
	c.JSON(http.StatusOK, logs)
}

func createContentLogHandler(c *gin.Context) {
	p, ok := currentPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not found"})
		return
	}
	var req struct {
		Date  string `json:"date" binding:"required"`
		Count int    `json:"count"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	date, okDate := parseDate(req.Date)
	if !okDate || date == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid date (want YYYY-MM-DD)"})
		return
	}
	if req.Count < 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "count must not be negative"})
		return
	}
	entry := models.ContentLog{OwnerID: p.ID, Date: *date, Count: req.Count}
	if !policy.Allows(p, policy.OpInsert, policy.TableContentLogs, nil, &policy.Row{OwnerID: entry.OwnerID}) {
		c.JSON(http.StatusForbidden, gin.H{"error": "forbidden"})
		return
	}
	ctx := c.Request.Context()
	if err := db.WithContext(ctx).Create(&entry).Error; err != nil {
		if isUniqueConstraintError(err) {
			c.JSON(http.StatusConflict, gin.H{"error": "content already logged for this date"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "create failed"})
		return
	}
	recordActivity(ctx, p.ID, "logged content")
	publishChange(c, policy.TableContentLogs, entry.ID, "created", entry.OwnerID, nil)
	c.JSON(http.StatusOK, entry)
}

func updateContentLogHandler(c *gin.Context) {
	p, ok := currentPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not found"})
		return
	}
	ctx := c.Request.Context()
	var entry models.ContentLog
	if err := db.WithContext(ctx).First(&entry, c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
		return
	}
	var req struct {
		Count int `json:"count"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.Count < 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "count must not be negative"})
		return
	}
	row := policy.Row{OwnerID: entry.OwnerID}
	if !policy.Allows(p, policy.OpUpdate, policy.TableContentLogs, &row, &row) {
		c.JSON(http.StatusForbidden, gin.H{"error": "forbidden"})
		return
	}
	entry.Count = req.Count
	if err := db.WithContext(ctx).Save(&entry).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "update failed"})
		return
	}
	recordActivity(ctx, p.ID, "updated content log")
	publishChange(c, policy.TableContentLogs, entry.ID, "updated", entry.OwnerID, nil)
	c.JSON(http.StatusOK, entry)
}

func deleteContentLogHandler(c *gin.Context) {
	p, ok := currentPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not found"})
		return
	}
	ctx := c.Request.Context()
	var entry models.ContentLog
	if err := db.WithContext(ctx).First(&entry, c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
		return
	}
	if !policy.Allows(p, policy.OpDelete, policy.TableContentLogs, &policy.Row{OwnerID: entry.OwnerID}, nil) {
		c.JSON(http.StatusForbidden, gin.H{"error": "forbidden"})
		return
	}
	if err := db.WithContext(ctx).Delete(&entry).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "delete failed"})
		return
	}
	recordActivity(ctx, p.ID, "deleted content log")
	publishChange(c, policy.TableContentLogs, entry.ID, "deleted", entry.OwnerID, nil)
	c.JSON(http.StatusOK, gin.H{"message": "content log deleted"})
}

//
// Live session logs: multiple rows per (owner, date) are expected, one per
// hosted session. Daily hours sum across them.
//

func listLiveLogsHandler(c *gin.Context) {
	p, ok := currentPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not found"})
		return
	}
	q := db.WithContext(c.Request.Context()).Model(&models.LiveSessionLog{})
	if !p.Admin() {
		q = q.Where("owner_id = ?", p.ID)
	}
	if from, ok := parseDate(c.Query("from")); ok && from != nil {
		q = q.Where("date >= ?", *from)
	}
	if to, ok := parseDate(c.Query("to")); ok && to != nil {
		q = q.Where("date <= ?", *to)
	}
	var logs []models.LiveSessionLog
	if err := q.Order("date desc").Find(&logs).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "query failed"})
		return
	}
	c.JSON(http.StatusOK, logs)
}

type liveLogRequest struct {
	Host  string  `json:"host"`
	Date  string  `json:"date" binding:"required"`
	Hours float64 `json:"hours"`
}

func createLiveLogHandler(c *gin.Context) {
	p, ok := currentPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not found"})
		return
	}
	var req liveLogRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	date, okDate := parseDate(req.Date)
	if !okDate || date == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid date (want YYYY-MM-DD)"})
		return
	}
	if req.Hours < 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "hours must not be negative"})
		return
	}
	entry := models.LiveSessionLog{OwnerID: p.ID, Host: req.Host, Date: *date, Hours: req.Hours}
	if !policy.Allows(p, policy.OpInsert, policy.TableLiveSessionLogs, nil, &policy.Row{OwnerID: entry.OwnerID}) {
		c.JSON(http.StatusForbidden, gin.H{"error": "forbidden"})
		return
	}
	ctx := c.Request.Context()
	if err := db.WithContext(ctx).Create(&entry).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "create failed"})
		return
	}
	recordActivity(ctx, p.ID, "logged live session")
	publishChange(c, policy.TableLiveSessionLogs, entry.ID, "created", entry.OwnerID, nil)
	c.JSON(http.StatusOK, entry)
}

func updateLiveLogHandler(c *gin.Context) {
	p, ok := currentPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not found"})
		return
	}
	ctx := c.Request.Context()
	var entry models.LiveSessionLog
	if err := db.WithContext(ctx).First(&entry, c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
		return
	}
	var req liveLogRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	date, okDate := parseDate(req.Date)
	if !okDate || date == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid date (want YYYY-MM-DD)"})
		return
	}
	if req.Hours < 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "hours must not be negative"})
		return
	}
	row := policy.Row{OwnerID: entry.OwnerID}
	if !policy.Allows(p, policy.OpUpdate, policy.TableLiveSessionLogs, &row, &row) {
		c.JSON(http.StatusForbidden, gin.H{"error": "forbidden"})
		return
	}
	entry.Host = req.Host
	entry.Date = *date
	entry.Hours = req.Hours
	if err := db.WithContext(ctx).Save(&entry).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "update failed"})
		return
	}
	recordActivity(ctx, p.ID, "updated live session log")
	publishChange(c, policy.TableLiveSessionLogs, entry.ID, "updated", entry.OwnerID, nil)
	c.JSON(http.StatusOK, entry)
}

func deleteLiveLogHandler(c *gin.Context) {
	p, ok := currentPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not found"})
		return
	}
	ctx := c.Request.Context()
	var entry models.LiveSessionLog
	if err := db.WithContext(ctx).First(&entry, c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
		return
	}
	if !policy.Allows(p, policy.OpDelete, policy.TableLiveSessionLogs, &policy.Row{OwnerID: entry.OwnerID}, nil) {
		c.JSON(http.StatusForbidden, gin.H{"error": "forbidden"})
		return
	}
	if err := db.WithContext(ctx).Delete(&entry).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "delete failed"})
		return
	}
	recordActivity(ctx, p.ID, "deleted live session log")
	publishChange(c, policy.TableLiveSessionLogs, entry.ID, "deleted", entry.OwnerID, nil)
	c.JSON(http.StatusOK, gin.H{"message": "live session log deleted"})
}
