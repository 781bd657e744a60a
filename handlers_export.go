package main

import (
	"encoding/csv"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"workboard/models"

	"github.com/gin-gonic/gin"
)

// Export is a one-way convenience: rows visible to the principal rendered
// as CSV or JSON, no import counterpart.

func fmtDate(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format("2006-01-02")
}

func taskRecords(tasks []models.Task) ([]string, [][]string) {
	header := []string{"id", "title", "project_id", "due_date", "status", "progress", "assigned_to"}
	rows := make([][]string, 0, len(tasks))
	for _, t := range tasks {
		pid, assignee := "", ""
		if t.ProjectID != nil {
			pid = strconv.FormatUint(uint64(*t.ProjectID), 10)
		}
		if t.AssignedTo != nil {
			assignee = strconv.FormatUint(uint64(*t.AssignedTo), 10)
		}
		rows = append(rows, []string{
			strconv.FormatUint(uint64(t.ID), 10), t.Title, pid,
			fmtDate(t.DueDate), string(t.Status), strconv.Itoa(t.Progress), assignee,
		})
	}
	return header, rows
}

func projectRecords(projects []models.Project) ([]string, [][]string) {
	header := []string{"id", "name", "start_date", "end_date", "status"}
	rows := make([][]string, 0, len(projects))
	for _, p := range projects {
		rows = append(rows, []string{
			strconv.FormatUint(uint64(p.ID), 10), p.Name,
			fmtDate(p.StartDate), fmtDate(p.EndDate), string(p.Status),
		})
	}
	return header, rows
}

func contentRecords(logs []models.ContentLog) ([]string, [][]string) {
	header := []string{"id", "date", "count"}
	rows := make([][]string, 0, len(logs))
	for _, l := range logs {
		d := l.Date
		rows = append(rows, []string{
			strconv.FormatUint(uint64(l.ID), 10), fmtDate(&d), strconv.Itoa(l.Count),
		})
	}
	return header, rows
}

func liveRecords(logs []models.LiveSessionLog) ([]string, [][]string) {
	header := []string{"id", "host", "date", "hours"}
	rows := make([][]string, 0, len(logs))
	for _, l := range logs {
		d := l.Date
		rows = append(rows, []string{
			strconv.FormatUint(uint64(l.ID), 10), l.Host, fmtDate(&d),
			strconv.FormatFloat(l.Hours, 'f', -1, 64),
		})
	}
	return header, rows
}

func writeCSV(c *gin.Context, name string, header []string, rows [][]string) {
	c.Header("Content-Type", "text/csv")
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%s.csv", name))
	w := csv.NewWriter(c.Writer)
	_ = w.Write(header)
	_ = w.WriteAll(rows)
	w.Flush()
}

func exportHandler(c *gin.Context) {
	p, ok := currentPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not found"})
		return
	}
	format := c.DefaultQuery("format", "json")
	if format != "json" && format != "csv" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "format must be csv or json"})
		return
	}
	ctx := c.Request.Context()
	table := c.Param("table")

	switch table {
	case "tasks":
		q := db.WithContext(ctx).Model(&models.Task{})
		if !p.Admin() {
			q = q.Where("owner_id = ? OR assigned_to = ?", p.ID, p.ID)
		}
		var tasks []models.Task
		if err := q.Order("id asc").Find(&tasks).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "query failed"})
			return
		}
		if format == "json" {
			c.JSON(http.StatusOK, tasks)
			return
		}
		header, rows := taskRecords(tasks)
		writeCSV(c, "tasks", header, rows)
	case "projects":
		q := db.WithContext(ctx).Model(&models.Project{})
		if !p.Admin() {
			q = q.Where("owner_id = ?", p.ID)
		}
		var projects []models.Project
		if err := q.Order("id asc").Find(&projects).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "query failed"})
			return
		}
		if format == "json" {
			c.JSON(http.StatusOK, projects)
			return
		}
		header, rows := projectRecords(projects)
		writeCSV(c, "projects", header, rows)
	case "content":
		q := db.WithContext(ctx).Model(&models.ContentLog{})
		if !p.Admin() {
			q = q.Where("owner_id = ?", p.ID)
		}
		var logs []models.ContentLog
		if err := q.Order("date asc").Find(&logs).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "query failed"})
			return
		}
		if format == "json" {
			c.JSON(http.StatusOK, logs)
			return
		}
		header, rows := contentRecords(logs)
		writeCSV(c, "content", header, rows)
	case "live":
		q := db.WithContext(ctx).Model(&models.LiveSessionLog{})
		if !p.Admin() {
			q = q.Where("owner_id = ?", p.ID)
		}
		var logs []models.LiveSessionLog
		if err := q.Order("date asc").Find(&logs).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "query failed"})
			return
		}
		if format == "json" {
			c.JSON(http.StatusOK, logs)
			return
		}
		header, rows := liveRecords(logs)
		writeCSV(c, "live", header, rows)
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "unknown export table"})
	}
}
