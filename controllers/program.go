package controllers

import (
	"net/http"
	"time"

	"residency-management-api/config"
	"residency-management-api/models"

	"github.com/gin-gonic/gin"
)

// GetPrograms lists programs. Pass ?status=active to restrict to programs
// currently open for applications.
func GetPrograms(c *gin.Context) {
	var programs []models.Program
	query := config.DB.Where("delete_at IS NULL")

	if status := c.Query("status"); status != "" {
		query = query.Where("status = ?", status)
	}

	if err := query.Order("program_name ASC").Find(&programs).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch programs"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"programs": programs,
		"total":    len(programs),
	})
}

// GetProgram returns one program with its classes and milestones.
func GetProgram(c *gin.Context) {
	id := c.Param("id")

	var program models.Program
	if err := config.DB.Where("program_id = ? AND delete_at IS NULL", id).
		First(&program).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Program not found"})
		return
	}

	var classes []models.Class
	config.DB.Where("program_id = ? AND delete_at IS NULL", program.ProgramID).
		Order("year_number ASC").Find(&classes)

	var milestones []models.Milestone
	config.DB.Where("program_id = ? AND delete_at IS NULL", program.ProgramID).
		Order("year_number ASC, milestone_order ASC").Find(&milestones)

	c.JSON(http.StatusOK, gin.H{
		"program":    program,
		"classes":    classes,
		"milestones": milestones,
	})
}

// CreateProgram adds a new formation.
func CreateProgram(c *gin.Context) {
	type ProgramRequest struct {
		ProgramName   string  `json:"program_name" binding:"required"`
		Code          string  `json:"code" binding:"required"`
		DurationYears int     `json:"duration_years" binding:"required"`
		IsFeeBased    bool    `json:"is_fee_based"`
		YearlyFee     float64 `json:"yearly_fee"`
	}

	var req ProgramRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if req.IsFeeBased && req.YearlyFee <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Fee-based programs need a positive yearly fee"})
		return
	}

	var existing models.Program
	if err := config.DB.Where("code = ? AND delete_at IS NULL", req.Code).
		First(&existing).Error; err == nil {
		c.JSON(http.StatusConflict, gin.H{"error": "A program with this code already exists"})
		return
	}

	now := time.Now()
	program := models.Program{
		ProgramName:   req.ProgramName,
		Code:          req.Code,
		DurationYears: req.DurationYears,
		IsFeeBased:    req.IsFeeBased,
		YearlyFee:     req.YearlyFee,
		Status:        "active",
		CreateAt:      &now,
		UpdateAt:      &now,
	}

	if err := config.DB.Create(&program).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create program"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Program created",
		"program": program,
	})
}

// UpdateProgram edits program fields, including opening or closing it for
// applications via the status value.
func UpdateProgram(c *gin.Context) {
	id := c.Param("id")

	var program models.Program
	if err := config.DB.Where("program_id = ? AND delete_at IS NULL", id).
		First(&program).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Program not found"})
		return
	}

	type ProgramUpdate struct {
		ProgramName   *string  `json:"program_name"`
		DurationYears *int     `json:"duration_years"`
		IsFeeBased    *bool    `json:"is_fee_based"`
		YearlyFee     *float64 `json:"yearly_fee"`
		Status        *string  `json:"status"`
	}

	var req ProgramUpdate
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	now := time.Now()
	updates := map[string]interface{}{"update_at": now}
	if req.ProgramName != nil {
		updates["program_name"] = *req.ProgramName
	}
	if req.DurationYears != nil {
		updates["duration_years"] = *req.DurationYears
	}
	if req.IsFeeBased != nil {
		updates["is_fee_based"] = *req.IsFeeBased
	}
	if req.YearlyFee != nil {
		updates["yearly_fee"] = *req.YearlyFee
	}
	if req.Status != nil {
		if *req.Status != "active" && *req.Status != "inactive" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Status must be active or inactive"})
			return
		}
		updates["status"] = *req.Status
	}

	if err := config.DB.Model(&program).Updates(updates).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update program"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Program updated"})
}

// DeleteProgram soft-deletes a program.
func DeleteProgram(c *gin.Context) {
	id := c.Param("id")

	var program models.Program
	if err := config.DB.Where("program_id = ? AND delete_at IS NULL", id).
		First(&program).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Program not found"})
		return
	}

	now := time.Now()
	if err := config.DB.Model(&program).
		Updates(map[string]interface{}{"delete_at": now, "status": "inactive"}).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete program"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Program deleted"})
}

// GetClasses lists classes, optionally narrowed to one program for dependent
// dropdowns.
func GetClasses(c *gin.Context) {
	var classes []models.Class
	query := config.DB.Preload("Program").Where("delete_at IS NULL")

	if programID := c.Query("program_id"); programID != "" {
		query = query.Where("program_id = ?", programID)
	}
	if year := c.Query("year_number"); year != "" {
		query = query.Where("year_number = ?", year)
	}

	if err := query.Order("year_number ASC, label ASC").Find(&classes).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch classes"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"classes": classes,
		"total":   len(classes),
	})
}

// CreateClass registers a cohort for a program year.
func CreateClass(c *gin.Context) {
	type ClassRequest struct {
		ProgramID    int    `json:"program_id" binding:"required"`
		YearNumber   int    `json:"year_number" binding:"required"`
		Label        string `json:"label" binding:"required"`
		AcademicYear string `json:"academic_year" binding:"required"`
	}

	var req ClassRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var program models.Program
	if err := config.DB.Where("program_id = ? AND delete_at IS NULL", req.ProgramID).
		First(&program).Error; err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Program not found"})
		return
	}
	if req.YearNumber < 1 || req.YearNumber > program.DurationYears {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Year number is outside the program duration"})
		return
	}

	now := time.Now()
	class := models.Class{
		ProgramID:    req.ProgramID,
		YearNumber:   req.YearNumber,
		Label:        req.Label,
		AcademicYear: req.AcademicYear,
		CreateAt:     &now,
		UpdateAt:     &now,
	}

	if err := config.DB.Create(&class).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create class"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Class created",
		"class":   class,
	})
}

// CreateMilestone adds a curricular checkpoint to a program year.
func CreateMilestone(c *gin.Context) {
	type MilestoneRequest struct {
		ProgramID      int    `json:"program_id" binding:"required"`
		YearNumber     int    `json:"year_number" binding:"required"`
		MilestoneName  string `json:"milestone_name" binding:"required"`
		MilestoneOrder int    `json:"milestone_order"`
	}

	var req MilestoneRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var program models.Program
	if err := config.DB.Where("program_id = ? AND delete_at IS NULL", req.ProgramID).
		First(&program).Error; err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Program not found"})
		return
	}

	now := time.Now()
	milestone := models.Milestone{
		ProgramID:      req.ProgramID,
		YearNumber:     req.YearNumber,
		MilestoneName:  req.MilestoneName,
		MilestoneOrder: req.MilestoneOrder,
		CreateAt:       &now,
		UpdateAt:       &now,
	}

	if err := config.DB.Create(&milestone).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create milestone"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message":   "Milestone created",
		"milestone": milestone,
	})
}

// GetClinicalSites lists clinical placement sites.
func GetClinicalSites(c *gin.Context) {
	var sites []models.ClinicalSite
	query := config.DB.Where("delete_at IS NULL")

	if status := c.Query("status"); status != "" {
		query = query.Where("status = ?", status)
	}
	if district := c.Query("district"); district != "" {
		query = query.Where("district = ?", district)
	}

	if err := query.Order("site_name ASC").Find(&sites).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch clinical sites"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"sites": sites,
		"total": len(sites),
	})
}

// CreateClinicalSite registers a placement site.
func CreateClinicalSite(c *gin.Context) {
	type SiteRequest struct {
		SiteName string `json:"site_name" binding:"required"`
		District string `json:"district" binding:"required"`
		Capacity int    `json:"capacity" binding:"required"`
	}

	var req SiteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	now := time.Now()
	site := models.ClinicalSite{
		SiteName: req.SiteName,
		District: req.District,
		Capacity: req.Capacity,
		Status:   "active",
		CreateAt: &now,
		UpdateAt: &now,
	}

	if err := config.DB.Create(&site).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create clinical site"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Clinical site created",
		"site":    site,
	})
}

// CreateRotation places a student at a clinical site for a date range,
// respecting the site capacity.
func CreateRotation(c *gin.Context) {
	type RotationRequest struct {
		StudentID    int    `json:"student_id" binding:"required"`
		SiteID       int    `json:"site_id" binding:"required"`
		SupervisorID *int   `json:"supervisor_id"`
		StartDate    string `json:"start_date" binding:"required"`
		EndDate      string `json:"end_date" binding:"required"`
	}

	var req RotationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	start, err := time.Parse("2006-01-02", req.StartDate)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "start_date must be YYYY-MM-DD"})
		return
	}
	end, err := time.Parse("2006-01-02", req.EndDate)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "end_date must be YYYY-MM-DD"})
		return
	}
	if !end.After(start) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "end_date must be after start_date"})
		return
	}

	var site models.ClinicalSite
	if err := config.DB.Where("site_id = ? AND status = ? AND delete_at IS NULL",
		req.SiteID, "active").First(&site).Error; err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Clinical site not found or inactive"})
		return
	}

	var overlapping int64
	config.DB.Model(&models.Rotation{}).
		Where("site_id = ? AND delete_at IS NULL AND start_date < ? AND end_date > ?",
			req.SiteID, end, start).
		Count(&overlapping)
	if int(overlapping) >= site.Capacity {
		c.JSON(http.StatusConflict, gin.H{"error": "Clinical site is at capacity for this period"})
		return
	}

	now := time.Now()
	rotation := models.Rotation{
		StudentID:    req.StudentID,
		SiteID:       req.SiteID,
		SupervisorID: req.SupervisorID,
		StartDate:    start,
		EndDate:      end,
		CreateAt:     &now,
		UpdateAt:     &now,
	}

	if err := config.DB.Create(&rotation).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create rotation"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message":  "Rotation created",
		"rotation": rotation,
	})
}

// GetRotations lists rotations; students see their own.
func GetRotations(c *gin.Context) {
	userID, _ := c.Get("userID")
	roleID, _ := c.Get("roleID")

	var rotations []models.Rotation
	query := config.DB.Preload("Student").Preload("Site").Preload("Supervisor").
		Where("rotations.delete_at IS NULL")

	switch roleID.(int) {
	case models.RoleStudent:
		query = query.Where("student_id = ?", userID)
	case models.RoleSupervisor:
		query = query.Where("supervisor_id = ?", userID)
	}

	if err := query.Order("start_date DESC").Find(&rotations).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch rotations"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"rotations": rotations,
		"total":     len(rotations),
	})
}
