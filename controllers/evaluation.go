package controllers

import (
	"net/http"
	"time"

	"residency-management-api/config"
	"residency-management-api/models"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// GetEvaluationGrids lists active grids, optionally for one course.
func GetEvaluationGrids(c *gin.Context) {
	var grids []models.EvaluationGrid
	query := config.DB.Preload("Course").
		Where("evaluation_grids.delete_at IS NULL AND evaluation_grids.status = ?", "active")

	if courseID := c.Query("course_id"); courseID != "" {
		query = query.Where("evaluation_grids.course_id = ?", courseID)
	}

	if err := query.Find(&grids).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch grids"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"grids": grids,
		"total": len(grids),
	})
}

// GetEvaluationGrid returns one grid with its criteria.
func GetEvaluationGrid(c *gin.Context) {
	id := c.Param("id")

	var grid models.EvaluationGrid
	if err := config.DB.Preload("Course").
		Where("grid_id = ? AND delete_at IS NULL", id).
		First(&grid).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Grid not found"})
		return
	}

	var criteria []models.EvaluationCriterion
	config.DB.Where("grid_id = ? AND delete_at IS NULL", grid.GridID).
		Order("criterion_order ASC").Find(&criteria)
	grid.Criteria = criteria

	c.JSON(http.StatusOK, gin.H{"grid": grid})
}

// CreateEvaluationGrid creates a rubric with its criteria in one call.
func CreateEvaluationGrid(c *gin.Context) {
	type CriterionInput struct {
		Label     string  `json:"label" binding:"required"`
		MaxPoints float64 `json:"max_points" binding:"required"`
	}
	type GridRequest struct {
		CourseID int              `json:"course_id" binding:"required"`
		Title    string           `json:"title" binding:"required"`
		Criteria []CriterionInput `json:"criteria" binding:"required,min=1"`
	}

	var req GridRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var course models.Course
	if err := config.DB.Where("course_id = ? AND delete_at IS NULL", req.CourseID).
		First(&course).Error; err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Course not found"})
		return
	}

	for _, criterion := range req.Criteria {
		if criterion.MaxPoints <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Criterion max_points must be positive"})
			return
		}
	}

	now := time.Now()
	grid := models.EvaluationGrid{
		CourseID: req.CourseID,
		Title:    req.Title,
		Status:   "active",
		CreateAt: &now,
		UpdateAt: &now,
	}

	err := config.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&grid).Error; err != nil {
			return err
		}
		for i, input := range req.Criteria {
			criterion := models.EvaluationCriterion{
				GridID:         grid.GridID,
				Label:          input.Label,
				MaxPoints:      input.MaxPoints,
				CriterionOrder: i + 1,
				CreateAt:       &now,
				UpdateAt:       &now,
			}
			if err := tx.Create(&criterion).Error; err != nil {
				return err
			}
			grid.Criteria = append(grid.Criteria, criterion)
		}
		return nil
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create grid"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Grid created",
		"grid":    grid,
	})
}

// SubmitEvaluation records a filled grid for a student. Every criterion must
// be scored within its maximum; the total is computed server side.
func SubmitEvaluation(c *gin.Context) {
	userID, _ := c.Get("userID")

	type ScoreInput struct {
		CriterionID int     `json:"criterion_id" binding:"required"`
		Points      float64 `json:"points"`
	}
	type EvaluationRequest struct {
		GridID    int          `json:"grid_id" binding:"required"`
		StudentID int          `json:"student_id" binding:"required"`
		Comment   string       `json:"comment"`
		Scores    []ScoreInput `json:"scores" binding:"required,min=1"`
	}

	var req EvaluationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var grid models.EvaluationGrid
	if err := config.DB.Where("grid_id = ? AND status = ? AND delete_at IS NULL",
		req.GridID, "active").First(&grid).Error; err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Grid not found or inactive"})
		return
	}

	var criteria []models.EvaluationCriterion
	if err := config.DB.Where("grid_id = ? AND delete_at IS NULL", grid.GridID).
		Find(&criteria).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load criteria"})
		return
	}

	byID := make(map[int]models.EvaluationCriterion, len(criteria))
	for _, criterion := range criteria {
		byID[criterion.CriterionID] = criterion
	}

	if len(req.Scores) != len(criteria) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Every criterion must be scored exactly once"})
		return
	}

	var total float64
	seen := make(map[int]bool, len(req.Scores))
	for _, score := range req.Scores {
		criterion, ok := byID[score.CriterionID]
		if !ok {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Unknown criterion"})
			return
		}
		if seen[score.CriterionID] {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Duplicate criterion score"})
			return
		}
		seen[score.CriterionID] = true
		if score.Points < 0 || score.Points > criterion.MaxPoints {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Score out of range for criterion " + criterion.Label})
			return
		}
		total += score.Points
	}

	var student models.User
	if err := config.DB.Where("user_id = ? AND role_id = ? AND delete_at IS NULL",
		req.StudentID, models.RoleStudent).First(&student).Error; err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Student not found"})
		return
	}

	now := time.Now()
	record := models.EvaluationRecord{
		GridID:      req.GridID,
		StudentID:   req.StudentID,
		EvaluatorID: userID.(int),
		Total:       total,
		Comment:     req.Comment,
		CreateAt:    &now,
		UpdateAt:    &now,
	}

	err := config.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&record).Error; err != nil {
			return err
		}
		for _, input := range req.Scores {
			score := models.EvaluationScore{
				RecordID:    record.RecordID,
				CriterionID: input.CriterionID,
				Points:      input.Points,
			}
			if err := tx.Create(&score).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save evaluation"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Evaluation recorded",
		"record":  record,
	})
}

// GetEvaluations lists evaluation records. Students see their own; teachers
// see evaluations they submitted.
func GetEvaluations(c *gin.Context) {
	userID, _ := c.Get("userID")
	roleID, _ := c.Get("roleID")

	var records []models.EvaluationRecord
	query := config.DB.Preload("Grid").Preload("Student").Preload("Evaluator").
		Preload("Scores").Preload("Scores.Criterion")

	switch roleID.(int) {
	case models.RoleStudent:
		query = query.Where("student_id = ?", userID)
	case models.RoleTeacher, models.RoleSupervisor:
		query = query.Where("evaluator_id = ?", userID)
	default:
		if studentID := c.Query("student_id"); studentID != "" {
			query = query.Where("student_id = ?", studentID)
		}
	}

	if err := query.Order("create_at DESC").Find(&records).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch evaluations"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"evaluations": records,
		"total":       len(records),
	})
}
