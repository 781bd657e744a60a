package main

import (
	"net/http"

	"workboard/models"

	"github.com/gin-gonic/gin"
)

// listActivityHandler returns the append-only audit trail: own rows for
// regular principals, everything for admins. There are no write endpoints
// for activity — rows are appended by the mutating handlers themselves.
func listActivityHandler(c *gin.Context) {
	p, ok := currentPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not found"})
		return
	}
	q := db.WithContext(c.Request.Context()).Model(&models.ActivityLog{})
	if !p.Admin() {
		q = q.Where("owner_id = ?", p.ID)
	}
	var entries []models.ActivityLog
	if err := q.Order("created_at desc").Limit(200).Find(&entries).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "query failed"})
		return
	}
	c.JSON(http.StatusOK, entries)
}
