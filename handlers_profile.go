package main

import (
	"net/http"
	"strconv"
	"strings"

	"workboard/models"
	"workboard/pkg/policy"

	"github.com/gin-gonic/gin"
)

// updateProfileHandler lets a principal rename themself. Role is not
// touchable here; see changeRoleHandler.
func updateProfileHandler(c *gin.Context) {
	p, ok := currentPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not found"})
		return
	}
	var req struct {
		Name string `json:"name" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	name := strings.TrimSpace(req.Name)
	if name == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "name required"})
		return
	}
	ctx := c.Request.Context()
	var profile models.Profile
	if err := db.WithContext(ctx).Where("user_id = ?", p.ID).First(&profile).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "profile not found"})
		return
	}
	profile.Name = name
	if err := db.WithContext(ctx).Save(&profile).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "update failed"})
		return
	}
	recordActivity(ctx, p.ID, "renamed profile")
	c.JSON(http.StatusOK, profile)
}

// listProfilesHandler is admin-only (mounted behind requireAdmin) and backs
// the assignee picker and the role management screen.
func listProfilesHandler(c *gin.Context) {
	var profiles []models.Profile
	if err := db.WithContext(c.Request.Context()).Order("name asc").Find(&profiles).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "query failed"})
		return
	}
	c.JSON(http.StatusOK, profiles)
}

// changeRoleHandler flips another principal's role. Gated twice: the route
// is admin-only, and CanChangeRole additionally rejects self-changes so an
// admin cannot demote or re-promote themself.
func changeRoleHandler(c *gin.Context) {
	p, ok := currentPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not found"})
		return
	}
	targetID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || targetID == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid user id"})
		return
	}
	var req struct {
		Role models.Role `json:"role" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if !req.Role.Valid() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid role"})
		return
	}
	if !policy.CanChangeRole(p, uint(targetID)) {
		c.JSON(http.StatusForbidden, gin.H{"error": "forbidden"})
		return
	}
	ctx := c.Request.Context()
	var profile models.Profile
	if err := db.WithContext(ctx).Where("user_id = ?", targetID).First(&profile).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "profile not found"})
		return
	}
	profile.Role = req.Role
	if err := db.WithContext(ctx).Save(&profile).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "update failed"})
		return
	}
	recordActivity(ctx, p.ID, "changed role of "+profile.Name+" to "+string(req.Role))
	c.JSON(http.StatusOK, profile)
}

// deleteAccountHandler removes a user; the owner FK constraints cascade the
// delete through every owned row, and templates keep living with
// uploaded_by nulled.
func deleteAccountHandler(c *gin.Context) {
	p, ok := currentPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not found"})
		return
	}
	targetID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || targetID == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid user id"})
		return
	}
	if uint(targetID) != p.ID && !p.Admin() {
		c.JSON(http.StatusForbidden, gin.H{"error": "forbidden"})
		return
	}
	ctx := c.Request.Context()
	var user models.User
	if err := db.WithContext(ctx).First(&user, targetID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
		return
	}
	if err := db.WithContext(ctx).Delete(&user).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "delete failed"})
		return
	}
	if uint(targetID) != p.ID {
		recordActivity(ctx, p.ID, "deleted account "+user.Email)
	}
	c.JSON(http.StatusOK, gin.H{"message": "account deleted"})
}
