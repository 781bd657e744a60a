package main

import (
	"fmt"
	"net/http"
	"sort"
	"time"

	"workboard/models"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// dashboardHandler aggregates the principal's current rows into the
// numbers the dashboard shows. Pure read-side reduction, scoped exactly
// like the list endpoints.
func dashboardHandler(c *gin.Context) {
	p, ok := currentPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not found"})
		return
	}
	ctx := c.Request.Context()
	now := time.Now().UTC()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)

	owned := func(model any) *gorm.DB {
		q := db.WithContext(ctx).Model(model)
		if !p.Admin() {
			q = q.Where("owner_id = ?", p.ID)
		}
		return q
	}

	statuses := []models.Status{models.StatusNotStarted, models.StatusOngoing, models.StatusCompleted}
	projectCounts := map[string]int64{}
	taskCounts := map[string]int64{}
	for _, s := range statuses {
		var n int64
		if err := owned(&models.Project{}).Where("status = ?", s).Count(&n).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "query failed"})
			return
		}
		projectCounts[string(s)] = n

		tq := db.WithContext(ctx).Model(&models.Task{})
		if !p.Admin() {
			tq = tq.Where("owner_id = ? OR assigned_to = ?", p.ID, p.ID)
		}
		var tn int64
		if err := tq.Where("status = ?", s).Count(&tn).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "query failed"})
			return
		}
		taskCounts[string(s)] = tn
	}

	// Hours today sums across all of today's live rows: the same day can
	// hold several sessions with different hosts.
	var hoursToday float64
	if err := owned(&models.LiveSessionLog{}).Where("date = ?", today).
		Select("COALESCE(SUM(hours), 0)").Scan(&hoursToday).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "query failed"})
		return
	}

	var contentToday, contentTotal int64
	if err := owned(&models.ContentLog{}).Where("date = ?", today).
		Select("COALESCE(SUM(count), 0)").Scan(&contentToday).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "query failed"})
		return
	}
	if err := owned(&models.ContentLog{}).Select("COALESCE(SUM(count), 0)").Scan(&contentTotal).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "query failed"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"projects":      projectCounts,
		"tasks":         taskCounts,
		"hours_today":   hoursToday,
		"content_today": contentToday,
		"content_total": contentTotal,
	})
}

type weekStat struct {
	Week           string  `json:"week"`
	ContentCount   int     `json:"content_count"`
	LiveHours      float64 `json:"live_hours"`
	TasksCompleted int     `json:"tasks_completed"`
}

// weekKey buckets a date into its ISO week, e.g. "2026-W35".
func weekKey(t time.Time) string {
	year, week := t.ISOWeek()
	return fmt.Sprintf("%d-W%02d", year, week)
}

// bucketWeekly reduces the visible rows into per-week sums, sorted by week.
func bucketWeekly(content []models.ContentLog, live []models.LiveSessionLog, completed []models.Task) []weekStat {
	buckets := map[string]*weekStat{}
	bucket := func(key string) *weekStat {
		if s, ok := buckets[key]; ok {
			return s
		}
		s := &weekStat{Week: key}
		buckets[key] = s
		return s
	}
	for _, cl := range content {
		b := bucket(weekKey(cl.Date))
		b.ContentCount += cl.Count
	}
	for _, ll := range live {
		b := bucket(weekKey(ll.Date))
		b.LiveHours += ll.Hours
	}
	for _, t := range completed {
		b := bucket(weekKey(t.UpdatedAt))
		b.TasksCompleted++
	}
	stats := make([]weekStat, 0, len(buckets))
	for _, s := range buckets {
		stats = append(stats, *s)
	}
	sort.Slice(stats, func(i, j int) bool { return stats[i].Week < stats[j].Week })
	return stats
}

// weeklyAnalyticsHandler groups the principal's content, live hours and
// completed tasks by ISO week over ?from/?to.
func weeklyAnalyticsHandler(c *gin.Context) {
	p, ok := currentPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not found"})
		return
	}
	from, okF := parseDate(c.Query("from"))
	to, okT := parseDate(c.Query("to"))
	if !okF || !okT {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid date (want YYYY-MM-DD)"})
		return
	}
	ctx := c.Request.Context()
	ranged := func(model any, col string) *gorm.DB {
		q := db.WithContext(ctx).Model(model)
		if !p.Admin() {
			q = q.Where("owner_id = ?", p.ID)
		}
		if from != nil {
			q = q.Where(col+" >= ?", *from)
		}
		if to != nil {
			q = q.Where(col+" <= ?", *to)
		}
		return q
	}

	var content []models.ContentLog
	if err := ranged(&models.ContentLog{}, "date").Find(&content).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "query failed"})
		return
	}
	var live []models.LiveSessionLog
	if err := ranged(&models.LiveSessionLog{}, "date").Find(&live).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "query failed"})
		return
	}
	tq := db.WithContext(ctx).Model(&models.Task{}).Where("status = ?", models.StatusCompleted)
	if !p.Admin() {
		tq = tq.Where("owner_id = ? OR assigned_to = ?", p.ID, p.ID)
	}
	if from != nil {
		tq = tq.Where("updated_at >= ?", *from)
	}
	if to != nil {
		tq = tq.Where("updated_at <= ?", to.AddDate(0, 0, 1))
	}
	var completed []models.Task
	if err := tq.Find(&completed).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "query failed"})
		return
	}

	c.JSON(http.StatusOK, bucketWeekly(content, live, completed))
}
