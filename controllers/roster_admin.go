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

// ImportRoster ingests an uploaded Med6 roster spreadsheet. The close date
// controls the D+90 grant window for every entry in the file.
func ImportRoster(c *gin.Context) {
	userID, _ := c.Get("userID")

	closeDateStr := c.PostForm("roster_close_date")
	closeDate, err := time.Parse("2006-01-02", closeDateStr)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "roster_close_date must be YYYY-MM-DD"})
		return
	}

	file, header, err := c.Request.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Roster file is required"})
		return
	}
	defer file.Close()

	if !strings.HasSuffix(strings.ToLower(header.Filename), ".xlsx") {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Roster must be an .xlsx file"})
		return
	}

	uploadDir := filepath.Join(uploadBasePath(), "rosters")
	if err := os.MkdirAll(uploadDir, 0755); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to prepare upload directory"})
		return
	}
	dstPath := filepath.Join(uploadDir, utils.GenerateUniqueFilename(uploadDir, header.Filename))
	if err := c.SaveUploadedFile(header, dstPath); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to store roster file"})
		return
	}

	uid := userID.(int)
	run, err := services.NewRosterService(config.DB).Import(services.ImportInput{
		FilePath:        dstPath,
		FileName:        header.Filename,
		RosterCloseDate: closeDate,
		TriggeredBy:     &uid,
		TriggerSource:   "admin",
	})
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Roster imported",
		"run":     run,
	})
}

// ListRosterEntries pages through the allowlist.
func ListRosterEntries(c *gin.Context) {
	var entries []models.RosterEntry
	query := config.DB.Where("delete_at IS NULL")

	if number := c.Query("student_number"); number != "" {
		query = query.Where("student_number = ?", utils.FoldIdentity(number))
	}
	if matched := c.Query("matched"); matched == "true" {
		query = query.Where("matched_user_id IS NOT NULL")
	} else if matched == "false" {
		query = query.Where("matched_user_id IS NULL")
	}

	if err := query.Order("last_name ASC, first_name ASC").Find(&entries).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch roster entries"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"entries": entries,
		"total":   len(entries),
	})
}

// ToggleRosterEntry flips an entry's active flag. The flag is informational;
// the grant window is governed by the close date.
func ToggleRosterEntry(c *gin.Context) {
	id := c.Param("id")

	var entry models.RosterEntry
	if err := config.DB.Where("entry_id = ? AND delete_at IS NULL", id).
		First(&entry).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Roster entry not found"})
		return
	}

	now := time.Now()
	if err := config.DB.Model(&models.RosterEntry{}).
		Where("entry_id = ?", entry.EntryID).
		Updates(map[string]interface{}{"active": !entry.Active, "update_at": now}).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update roster entry"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Roster entry updated",
		"active":  !entry.Active,
	})
}

// ListRosterImportRuns shows past ingestions with their row counters.
func ListRosterImportRuns(c *gin.Context) {
	var runs []models.RosterImportRun
	if err := config.DB.Order("created_at DESC").Find(&runs).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch import runs"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"runs":  runs,
		"total": len(runs),
	})
}
