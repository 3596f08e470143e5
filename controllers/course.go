package controllers

import (
	"net/http"
	"time"

	"residency-management-api/config"
	"residency-management-api/models"

	"github.com/gin-gonic/gin"
)

// GetCourses lists courses. Students with free access only see free-access
// courses; enrolled students see their program's courses.
func GetCourses(c *gin.Context) {
	userID, _ := c.Get("userID")
	roleID, _ := c.Get("roleID")

	query := config.DB.Preload("Program").Preload("Teacher").
		Where("courses.delete_at IS NULL AND courses.status = ?", "active")

	if roleID.(int) == models.RoleStudent {
		var user models.User
		if err := config.DB.Where("user_id = ?", userID).First(&user).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load user"})
			return
		}
		if user.IsMed6 {
			query = query.Where("courses.free_access = ?", true)
		} else {
			var enrollment models.Enrollment
			if err := config.DB.Where("student_id = ?", userID).First(&enrollment).Error; err != nil {
				c.JSON(http.StatusOK, gin.H{"courses": []models.Course{}, "total": 0})
				return
			}
			query = query.Where("courses.program_id = ?", enrollment.ProgramID)
		}
	} else {
		if programID := c.Query("program_id"); programID != "" {
			query = query.Where("courses.program_id = ?", programID)
		}
		if roleID.(int) == models.RoleTeacher {
			query = query.Where("courses.teacher_id = ?", userID)
		}
	}

	if year := c.Query("year_number"); year != "" {
		query = query.Where("courses.year_number = ?", year)
	}

	var courses []models.Course
	if err := query.Order("year_number ASC, course_order ASC").Find(&courses).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch courses"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"courses": courses,
		"total":   len(courses),
	})
}

// GetCourse returns one course with its lessons. Students only see published
// lessons.
func GetCourse(c *gin.Context) {
	id := c.Param("id")
	userID, _ := c.Get("userID")
	roleID, _ := c.Get("roleID")

	var course models.Course
	if err := config.DB.Preload("Program").Preload("Teacher").
		Where("course_id = ? AND delete_at IS NULL", id).
		First(&course).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Course not found"})
		return
	}

	if roleID.(int) == models.RoleStudent {
		var user models.User
		if err := config.DB.Where("user_id = ?", userID).First(&user).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load user"})
			return
		}
		if user.IsMed6 {
			if !course.FreeAccess {
				c.JSON(http.StatusForbidden, gin.H{"error": "This course is not part of the free-access catalogue"})
				return
			}
		} else {
			var enrollment models.Enrollment
			if err := config.DB.Where("student_id = ? AND program_id = ?",
				userID, course.ProgramID).First(&enrollment).Error; err != nil {
				c.JSON(http.StatusForbidden, gin.H{"error": "You are not enrolled in this course's program"})
				return
			}
		}
	}

	lessonQuery := config.DB.Where("course_id = ? AND delete_at IS NULL", course.CourseID)
	if roleID.(int) == models.RoleStudent {
		lessonQuery = lessonQuery.Where("published = ?", true)
	}
	var lessons []models.Lesson
	lessonQuery.Order("lesson_order ASC").Find(&lessons)
	course.Lessons = lessons

	c.JSON(http.StatusOK, gin.H{"course": course})
}

// CreateCourse adds a course to a program year.
func CreateCourse(c *gin.Context) {
	type CourseRequest struct {
		ProgramID   int    `json:"program_id" binding:"required"`
		YearNumber  int    `json:"year_number" binding:"required"`
		Title       string `json:"title" binding:"required"`
		Description string `json:"description"`
		TeacherID   *int   `json:"teacher_id"`
		CourseOrder int    `json:"course_order"`
		FreeAccess  bool   `json:"free_access"`
	}

	var req CourseRequest
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

	if req.TeacherID != nil {
		var teacher models.User
		if err := config.DB.Where("user_id = ? AND role_id = ? AND delete_at IS NULL",
			*req.TeacherID, models.RoleTeacher).First(&teacher).Error; err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Teacher not found"})
			return
		}
	}

	now := time.Now()
	course := models.Course{
		ProgramID:   req.ProgramID,
		YearNumber:  req.YearNumber,
		Title:       req.Title,
		Description: req.Description,
		TeacherID:   req.TeacherID,
		CourseOrder: req.CourseOrder,
		FreeAccess:  req.FreeAccess,
		Status:      "active",
		CreateAt:    &now,
		UpdateAt:    &now,
	}

	if err := config.DB.Create(&course).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create course"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Course created",
		"course":  course,
	})
}

// CreateLesson adds a lesson to a course. Lessons start unpublished.
func CreateLesson(c *gin.Context) {
	courseID := c.Param("id")
	userID, _ := c.Get("userID")
	roleID, _ := c.Get("roleID")

	var course models.Course
	if err := config.DB.Where("course_id = ? AND delete_at IS NULL", courseID).
		First(&course).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Course not found"})
		return
	}
	if roleID.(int) == models.RoleTeacher &&
		(course.TeacherID == nil || *course.TeacherID != userID.(int)) {
		c.JSON(http.StatusForbidden, gin.H{"error": "You do not teach this course"})
		return
	}

	type LessonRequest struct {
		Title       string  `json:"title" binding:"required"`
		ContentPath *string `json:"content_path"`
		LessonOrder int     `json:"lesson_order"`
	}

	var req LessonRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	now := time.Now()
	lesson := models.Lesson{
		CourseID:    course.CourseID,
		Title:       req.Title,
		ContentPath: req.ContentPath,
		LessonOrder: req.LessonOrder,
		Published:   false,
		CreateAt:    &now,
		UpdateAt:    &now,
	}

	if err := config.DB.Create(&lesson).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create lesson"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Lesson created",
		"lesson":  lesson,
	})
}

// PublishLesson flips a lesson's published flag.
func PublishLesson(c *gin.Context) {
	lessonID := c.Param("lessonId")
	userID, _ := c.Get("userID")
	roleID, _ := c.Get("roleID")

	type PublishRequest struct {
		Published *bool `json:"published" binding:"required"`
	}
	var req PublishRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var lesson models.Lesson
	if err := config.DB.Preload("Course").
		Where("lesson_id = ? AND delete_at IS NULL", lessonID).
		First(&lesson).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Lesson not found"})
		return
	}
	if roleID.(int) == models.RoleTeacher &&
		(lesson.Course.TeacherID == nil || *lesson.Course.TeacherID != userID.(int)) {
		c.JSON(http.StatusForbidden, gin.H{"error": "You do not teach this course"})
		return
	}

	now := time.Now()
	if err := config.DB.Model(&models.Lesson{}).
		Where("lesson_id = ?", lesson.LessonID).
		Updates(map[string]interface{}{"published": *req.Published, "update_at": now}).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update lesson"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Lesson updated"})
}

// CompleteLesson marks a published lesson as completed by the calling student.
func CompleteLesson(c *gin.Context) {
	lessonID := c.Param("lessonId")
	userID, _ := c.Get("userID")

	var lesson models.Lesson
	if err := config.DB.Preload("Course").
		Where("lesson_id = ? AND published = ? AND delete_at IS NULL", lessonID, true).
		First(&lesson).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Lesson not found"})
		return
	}

	now := time.Now()
	var progress models.StudentProgress
	err := config.DB.Where("student_id = ? AND lesson_id = ?", userID, lesson.LessonID).
		First(&progress).Error
	if err != nil {
		progress = models.StudentProgress{
			StudentID: userID.(int),
			LessonID:  lesson.LessonID,
			CreateAt:  &now,
		}
	}

	if progress.Completed {
		c.JSON(http.StatusOK, gin.H{"message": "Lesson already completed", "progress": progress})
		return
	}

	progress.Completed = true
	progress.CompletedAt = &now
	progress.UpdateAt = &now

	if err := config.DB.Save(&progress).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to record progress"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":  "Lesson completed",
		"progress": progress,
	})
}

// GetMyProgress summarizes the calling student's lesson completion per course.
func GetMyProgress(c *gin.Context) {
	userID, _ := c.Get("userID")

	var entries []models.StudentProgress
	if err := config.DB.Preload("Lesson").Preload("Lesson.Course").
		Where("student_id = ?", userID).
		Find(&entries).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch progress"})
		return
	}

	type courseSummary struct {
		CourseID  int    `json:"course_id"`
		Title     string `json:"title"`
		Completed int    `json:"completed"`
		Total     int    `json:"total"`
	}

	byCourse := make(map[int]*courseSummary)
	for _, entry := range entries {
		summary, ok := byCourse[entry.Lesson.CourseID]
		if !ok {
			summary = &courseSummary{
				CourseID: entry.Lesson.CourseID,
				Title:    entry.Lesson.Course.Title,
			}
			byCourse[entry.Lesson.CourseID] = summary
		}
		summary.Total++
		if entry.Completed {
			summary.Completed++
		}
	}

	summaries := make([]courseSummary, 0, len(byCourse))
	for _, summary := range byCourse {
		summaries = append(summaries, *summary)
	}

	c.JSON(http.StatusOK, gin.H{
		"progress": entries,
		"courses":  summaries,
	})
}
