package controllers

import (
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"residency-management-api/config"
	"residency-management-api/models"
	"residency-management-api/services"
	"residency-management-api/utils"

	"github.com/gin-gonic/gin"
)

var allowedDocumentMimeTypes = map[string]bool{
	"application/pdf":  true,
	"image/jpeg":       true,
	"image/jpg":        true,
	"image/png":        true,
	"application/msword": true,
	"application/vnd.openxmlformats-officedocument.wordprocessingml.document": true,
}

const maxDocumentSize = 10 * 1024 * 1024

// UploadDocument attaches a file to an application checklist entry. A new
// upload against the same entry supersedes the previous one.
func UploadDocument(c *gin.Context) {
	applicationID := c.Param("id")
	userID, _ := c.Get("userID")
	roleID, _ := c.Get("roleID")

	var application models.ApplicationFile
	query := config.DB.Where("application_id = ?", applicationID)
	if roleID.(int) != models.RoleCoordination {
		query = query.Where("applicant_id = ?", userID)
	}
	if err := query.First(&application).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Application not found"})
		return
	}

	if application.Status == models.ApplicationStatusRejected {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Cannot upload to a rejected application"})
		return
	}

	requiredDocumentID := c.PostForm("required_document_id")
	var required models.RequiredDocument
	if err := config.DB.Where("required_document_id = ? AND program_id = ? AND delete_at IS NULL",
		requiredDocumentID, application.ProgramID).
		First(&required).Error; err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Unknown checklist entry for this program"})
		return
	}

	file, header, err := c.Request.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "File is required"})
		return
	}
	defer file.Close()

	contentType := header.Header.Get("Content-Type")
	if idx := strings.Index(contentType, ";"); idx > 0 {
		contentType = contentType[:idx]
	}
	if !allowedDocumentMimeTypes[strings.TrimSpace(contentType)] {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Unsupported file type, use PDF, image or Word"})
		return
	}
	if header.Size > maxDocumentSize {
		c.JSON(http.StatusBadRequest, gin.H{"error": "File exceeds the 10MB limit"})
		return
	}

	uploadDir := filepath.Join(uploadBasePath(), "applications", applicationID)
	if err := os.MkdirAll(uploadDir, 0755); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to prepare upload directory"})
		return
	}

	safeName := utils.GenerateUniqueFilename(uploadDir, header.Filename)
	dstPath := filepath.Join(uploadDir, safeName)
	if err := c.SaveUploadedFile(header, dstPath); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to store file"})
		return
	}

	now := time.Now()

	// Supersede any previous upload for the same checklist entry.
	config.DB.Model(&models.UploadedDocument{}).
		Where("application_id = ? AND required_document_id = ? AND delete_at IS NULL",
			application.ApplicationID, required.RequiredDocumentID).
		Updates(map[string]interface{}{"delete_at": now})

	document := models.UploadedDocument{
		ApplicationID:      application.ApplicationID,
		RequiredDocumentID: required.RequiredDocumentID,
		OriginalName:       header.Filename,
		StoredPath:         dstPath,
		MimeType:           contentType,
		FileSize:           header.Size,
		Status:             models.DocumentPending,
		CreateAt:           &now,
		UpdateAt:           &now,
	}
	if err := config.DB.Create(&document).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to record upload"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message":  "Document uploaded",
		"document": document,
	})
}

// GetDocuments lists an application's uploads with the checklist state.
func GetDocuments(c *gin.Context) {
	applicationID := c.Param("id")
	userID, _ := c.Get("userID")
	roleID, _ := c.Get("roleID")

	var application models.ApplicationFile
	query := config.DB.Where("application_id = ?", applicationID)
	if roleID.(int) != models.RoleCoordination {
		query = query.Where("applicant_id = ?", userID)
	}
	if err := query.First(&application).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Application not found"})
		return
	}

	var documents []models.UploadedDocument
	if err := config.DB.Preload("RequiredDocument").
		Where("application_id = ? AND delete_at IS NULL", applicationID).
		Find(&documents).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch documents"})
		return
	}

	checklist, err := services.NewChecklistService(config.DB).Evaluate(application.ApplicationID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to evaluate checklist"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"documents": documents,
		"checklist": checklist,
	})
}

// GetRequiredDocuments lists the checklist definition for a program.
func GetRequiredDocuments(c *gin.Context) {
	programID := c.Query("program_id")
	if programID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "program_id is required"})
		return
	}

	var required []models.RequiredDocument
	if err := config.DB.Where("program_id = ? AND delete_at IS NULL", programID).
		Order("document_order ASC").
		Find(&required).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch checklist"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"required_documents": required})
}

// DownloadDocument streams a stored upload to an authorized reader.
func DownloadDocument(c *gin.Context) {
	documentID := c.Param("document_id")
	userID, _ := c.Get("userID")
	roleID, _ := c.Get("roleID")

	var document models.UploadedDocument
	if err := config.DB.Preload("Application").
		Where("uploaded_document_id = ? AND delete_at IS NULL", documentID).
		First(&document).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Document not found"})
		return
	}

	if roleID.(int) != models.RoleCoordination && document.Application.ApplicantID != userID.(int) {
		c.JSON(http.StatusForbidden, gin.H{"error": "Not allowed to read this document"})
		return
	}

	if _, err := os.Stat(document.StoredPath); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Stored file is missing"})
		return
	}

	c.FileAttachment(document.StoredPath, document.OriginalName)
}

// ReviewDocument validates or rejects an upload (coordination staff).
func ReviewDocument(c *gin.Context) {
	documentID := c.Param("document_id")
	staffID, _ := c.Get("userID")

	type ReviewRequest struct {
		Status string `json:"status" binding:"required"`
	}

	var req ReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.Status != models.DocumentValidated && req.Status != models.DocumentRejected {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Status must be validated or rejected"})
		return
	}

	var document models.UploadedDocument
	if err := config.DB.Where("uploaded_document_id = ? AND delete_at IS NULL", documentID).
		First(&document).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Document not found"})
		return
	}

	now := time.Now()
	reviewer := staffID.(int)
	document.Status = req.Status
	document.ReviewedBy = &reviewer
	document.ReviewedAt = &now
	document.UpdateAt = &now

	if err := config.DB.Save(&document).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update document"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":  "Document reviewed",
		"document": document,
	})
}

func uploadBasePath() string {
	uploadPath := os.Getenv("UPLOAD_PATH")
	if uploadPath == "" {
		uploadPath = "./uploads"
	}
	return uploadPath
}
