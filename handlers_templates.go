package main

import (
	"net/http"
	"strings"

	"workboard/models"
	"workboard/pkg/policy"

	"github.com/gin-gonic/gin"
)

func templateRow(t models.Template) *policy.Row {
	var owner uint
	if t.UploadedBy != nil {
		owner = *t.UploadedBy
	}
	return &policy.Row{OwnerID: owner}
}

// listTemplatesHandler returns every template: templates are the shared
// resource, readable by all authenticated principals regardless of who
// uploaded them.
func listTemplatesHandler(c *gin.Context) {
	q := db.WithContext(c.Request.Context()).Model(&models.Template{})
	if cat := c.Query("category"); cat != "" {
		q = q.Where("category = ?", cat)
	}
	if kind := c.Query("kind"); kind != "" {
		q = q.Where("kind = ?", kind)
	}
	var templates []models.Template
	if err := q.Order("created_at desc").Find(&templates).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "query failed"})
		return
	}
	c.JSON(http.StatusOK, templates)
}

// uploadTemplateHandler stores a multipart file (png/jpeg/pdf, 10 MB cap)
// and records the template. Images get a thumbnail; thumbnail failures are
// cosmetic and never fail the upload.
func uploadTemplateHandler(c *gin.Context) {
	p, ok := currentPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not found"})
		return
	}
	title := strings.TrimSpace(c.PostForm("title"))
	if title == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "title required"})
		return
	}
	category := models.TemplateCategory(c.PostForm("category"))
	if !category.Valid() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid category"})
		return
	}
	file, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "file missing"})
		return
	}
	kind, ctype, err := validateUpload(file)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := ensureBucket(templateBucket); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "storage unavailable"})
		return
	}
	storePath, fullPath := objectPath(templateBucket, file.Filename)
	if err := c.SaveUploadedFile(file, fullPath); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "save failed"})
		return
	}

	uploader := p.ID
	tmpl := models.Template{
		UploadedBy:  &uploader,
		Title:       title,
		Category:    category,
		Kind:        kind,
		StorePath:   storePath,
		PublicURL:   publicURLFor(storePath),
		ContentType: ctype,
		SizeBytes:   file.Size,
	}
	if kind == models.KindImage {
		if thumbURL, err := makeThumbnail(fullPath, storePath); err == nil {
			tmpl.ThumbURL = thumbURL
		} else {
			logger.Warnw("thumbnail failed", "file", storePath, "error", err)
		}
	}

	if !policy.Allows(p, policy.OpInsert, policy.TableTemplates, nil, templateRow(tmpl)) {
		removeObject(storePath)
		c.JSON(http.StatusForbidden, gin.H{"error": "forbidden"})
		return
	}
	ctx := c.Request.Context()
	if err := db.WithContext(ctx).Create(&tmpl).Error; err != nil {
		removeObject(storePath)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "create failed"})
		return
	}
	recordActivity(ctx, p.ID, "uploaded template "+tmpl.Title)
	publishChange(c, policy.TableTemplates, tmpl.ID, "created", p.ID, nil)
	c.JSON(http.StatusOK, tmpl)
}

// updateTemplateHandler edits metadata only; replacing the file means
// uploading a new template.
func updateTemplateHandler(c *gin.Context) {
	p, ok := currentPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not found"})
		return
	}
	ctx := c.Request.Context()
	var tmpl models.Template
	if err := db.WithContext(ctx).First(&tmpl, c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
		return
	}
	var req struct {
		Title    string `json:"title" binding:"required"`
		Category string `json:"category" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	category := models.TemplateCategory(req.Category)
	if !category.Valid() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid category"})
		return
	}
	row := templateRow(tmpl)
	if !policy.Allows(p, policy.OpUpdate, policy.TableTemplates, row, row) {
		c.JSON(http.StatusForbidden, gin.H{"error": "forbidden"})
		return
	}
	tmpl.Title = strings.TrimSpace(req.Title)
	tmpl.Category = category
	if err := db.WithContext(ctx).Save(&tmpl).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "update failed"})
		return
	}
	recordActivity(ctx, p.ID, "updated template "+tmpl.Title)
	publishChange(c, policy.TableTemplates, tmpl.ID, "updated", p.ID, nil)
	c.JSON(http.StatusOK, tmpl)
}

func deleteTemplateHandler(c *gin.Context) {
	p, ok := currentPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not found"})
		return
	}
	ctx := c.Request.Context()
	var tmpl models.Template
	if err := db.WithContext(ctx).First(&tmpl, c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
		return
	}
	if !policy.Allows(p, policy.OpDelete, policy.TableTemplates, templateRow(tmpl), nil) {
		c.JSON(http.StatusForbidden, gin.H{"error": "forbidden"})
		return
	}
	if err := db.WithContext(ctx).Delete(&tmpl).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "delete failed"})
		return
	}
	removeObject(tmpl.StorePath)
	recordActivity(ctx, p.ID, "deleted template "+tmpl.Title)
	publishChange(c, policy.TableTemplates, tmpl.ID, "deleted", p.ID, nil)
	c.JSON(http.StatusOK, gin.H{"message": "template deleted"})
}
