package routes

import (
	"residency-management-api/controllers"
	"residency-management-api/middleware"
	"residency-management-api/models"

	"github.com/gin-gonic/gin"
)

func SetupRoutes(router *gin.Engine) {
	// API v1 group
	v1 := router.Group("/api/v1")
	{
		// Public routes
		public := v1.Group("")
		{
			// Authentication
			public.POST("/login", controllers.Login)
			public.POST("/login/2fa", controllers.Complete2FALogin)
			public.POST("/register", controllers.Register)
			public.POST("/refresh", controllers.RefreshToken)
			public.POST("/forgot-password", controllers.ForgotPassword)
			public.POST("/reset-password", controllers.ResetPassword)

			// Health check
			public.GET("/health", func(c *gin.Context) {
				c.JSON(200, gin.H{
					"status":  "ok",
					"message": "Residency Management API is running",
				})
			})
		}

		// Protected routes (require authentication)
		protected := v1.Group("")
		protected.Use(middleware.AuthMiddleware())
		{
			// Auth management
			protected.POST("/logout", controllers.Logout)
			protected.GET("/profile", controllers.GetProfile)
			protected.PUT("/change-password", controllers.ChangePassword)

			// Verification & 2FA
			protected.POST("/verification/request", controllers.RequestVerificationCode)
			protected.POST("/verification/confirm", controllers.ConfirmVerificationCode)
			protected.POST("/2fa/enable", controllers.Enable2FA)
			protected.POST("/2fa/disable", controllers.Disable2FA)

			// Reference data (all authenticated users)
			protected.GET("/programs", controllers.GetPrograms)
			protected.GET("/programs/:id", controllers.GetProgram)
			protected.GET("/classes", controllers.GetClasses)
			protected.GET("/clinical-sites", controllers.GetClinicalSites)

			// Program administration
			programAdmin := protected.Group("", middleware.RequireRole(models.RoleCoordination))
			{
				programAdmin.POST("/programs", controllers.CreateProgram)
				programAdmin.PUT("/programs/:id", controllers.UpdateProgram)
				programAdmin.DELETE("/programs/:id", controllers.DeleteProgram)
				programAdmin.POST("/classes", controllers.CreateClass)
				programAdmin.POST("/milestones", controllers.CreateMilestone)
				programAdmin.POST("/clinical-sites", controllers.CreateClinicalSite)
			}

			// Applications
			applications := protected.Group("/applications")
			{
				applications.GET("", controllers.GetApplications)
				applications.GET("/:id", controllers.GetApplication)
				applications.GET("/:id/history", controllers.GetApplicationHistory)

				// Students open their own application file
				applications.POST("", middleware.RequireRole(models.RoleStudent), controllers.CreateApplication)

				// Documents
				applications.POST("/:id/documents", middleware.RequireRole(models.RoleStudent), controllers.UploadDocument)
				applications.GET("/:id/documents", controllers.GetDocuments)

				// Coordination reviews files and records the verdicts
				coordination := applications.Group("", middleware.RequireRole(models.RoleCoordination))
				{
					coordination.PUT("/:id/verify", controllers.VerifyApplication)
					coordination.PUT("/:id/reject", controllers.RejectApplication)
					coordination.PUT("/:id/decision", controllers.DecideAdmission)
					coordination.POST("/:id/decision/resend-email", controllers.ResendAdmissionEmail)
				}
				applications.GET("/:id/decision", controllers.GetDecision)

				// Exams and interviews (teachers and coordination)
				exams := applications.Group("", middleware.RequireRole(models.RoleTeacher, models.RoleCoordination))
				{
					exams.PUT("/:id/written-exam", controllers.RecordWrittenExam)
					exams.PUT("/:id/interview", controllers.RecordInterview)
				}
				applications.GET("/:id/exam-results", controllers.GetExamResults)
			}

			protected.GET("/required-documents", controllers.GetRequiredDocuments)
			protected.GET("/documents/:document_id/download", controllers.DownloadDocument)
			protected.PUT("/documents/:document_id/review", middleware.RequireRole(models.RoleCoordination), controllers.ReviewDocument)

			// Enrollments
			enrollments := protected.Group("/enrollments")
			{
				enrollments.GET("", controllers.GetEnrollments)
				enrollments.GET("/:id", controllers.GetEnrollment)
				enrollments.POST("", middleware.RequireRole(models.RoleCoordination), controllers.CreateEnrollment)
				enrollments.PUT("/:id/validate",
					middleware.RequireRole(models.RoleCoordination, models.RoleSupervisor),
					controllers.ValidateEnrollmentStep)
				enrollments.POST("/:id/receipt", middleware.RequireRole(models.RoleStudent), controllers.UploadEnrollmentReceipt)
			}

			// Yearly payments and outcomes
			payments := protected.Group("/payments")
			{
				payments.GET("", controllers.ListYearlyPayments)
				payments.POST("", middleware.RequireRole(models.RoleStudent), controllers.SubmitYearlyPayment)
				payments.PUT("/:id/validate", middleware.RequireRole(models.RoleCoordination), controllers.ValidateYearlyPayment)
				payments.PUT("/:id/reject", middleware.RequireRole(models.RoleCoordination), controllers.RejectYearlyPayment)
			}
			protected.GET("/outcomes", controllers.ListYearlyOutcomes)
			protected.PUT("/outcomes", middleware.RequireRole(models.RoleCoordination), controllers.RecordYearlyOutcome)

			// Courses and lessons
			courses := protected.Group("/courses")
			{
				courses.GET("", controllers.GetCourses)
				courses.GET("/:id", controllers.GetCourse)
				courses.POST("", middleware.RequireRole(models.RoleCoordination), controllers.CreateCourse)
				courses.POST("/:id/lessons",
					middleware.RequireRole(models.RoleTeacher, models.RoleCoordination),
					controllers.CreateLesson)
			}
			protected.PUT("/lessons/:lessonId/publish",
				middleware.RequireRole(models.RoleTeacher, models.RoleCoordination),
				controllers.PublishLesson)
			protected.POST("/lessons/:lessonId/complete", middleware.RequireRole(models.RoleStudent), controllers.CompleteLesson)
			protected.GET("/my-progress", middleware.RequireRole(models.RoleStudent), controllers.GetMyProgress)

			// Rotations
			protected.GET("/rotations", controllers.GetRotations)
			protected.POST("/rotations", middleware.RequireRole(models.RoleCoordination), controllers.CreateRotation)

			// Evaluations
			evaluations := protected.Group("/evaluations")
			{
				evaluations.GET("", controllers.GetEvaluations)
				evaluations.POST("",
					middleware.RequireRole(models.RoleTeacher, models.RoleSupervisor),
					controllers.SubmitEvaluation)
			}
			protected.GET("/evaluation-grids", controllers.GetEvaluationGrids)
			protected.GET("/evaluation-grids/:id", controllers.GetEvaluationGrid)
			protected.POST("/evaluation-grids",
				middleware.RequireRole(models.RoleTeacher, models.RoleCoordination),
				controllers.CreateEvaluationGrid)

			// Messaging
			messages := protected.Group("/messages")
			{
				messages.GET("", controllers.GetInbox)
				messages.GET("/sent", controllers.GetSentMessages)
				messages.GET("/unread-count", controllers.GetUnreadMessageCount)
				messages.GET("/:id/thread", controllers.GetThread)
				messages.POST("", controllers.SendMessage)
				messages.PUT("/:id/read", controllers.MarkMessageRead)
				messages.DELETE("/:id", controllers.DeleteMessage)
			}

			// Notifications
			notifications := protected.Group("/notifications")
			{
				notifications.GET("", controllers.GetNotifications)
				notifications.GET("/unread-count", controllers.GetUnreadNotificationCount)
				notifications.PUT("/:id/read", controllers.MarkNotificationRead)
				notifications.PUT("/read-all", controllers.MarkAllNotificationsRead)
			}

			// Med6 roster administration
			roster := protected.Group("/roster", middleware.RequireRole(models.RoleCoordination))
			{
				roster.POST("/import", controllers.ImportRoster)
				roster.GET("/entries", controllers.ListRosterEntries)
				roster.PUT("/entries/:id/toggle", controllers.ToggleRosterEntry)
				roster.GET("/runs", controllers.ListRosterImportRuns)
			}

			// Dashboards
			protected.GET("/dashboard/stats",
				middleware.RequireRole(models.RoleCoordination, models.RoleSupervisor),
				controllers.GetDashboardStats)
			protected.GET("/dashboard/me", middleware.RequireRole(models.RoleStudent), controllers.GetStudentDashboard)
		}
	}
}
