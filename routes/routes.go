package routes

import (
	"rental-marketplace-api/controllers"
	"rental-marketplace-api/middleware"
	"rental-marketplace-api/models"

	"github.com/gin-gonic/gin"
)

func SetupRoutes(router *gin.Engine) {
	// API v1 group
	v1 := router.Group("/api/v1")
	{
		// Public routes
		public := v1.Group("")
		{
			public.POST("/register", controllers.Register)
			public.POST("/login", controllers.Login)

			// Health check
			public.GET("/health", func(c *gin.Context) {
				c.JSON(200, gin.H{
					"status":  "ok",
					"message": "Rental Marketplace API is running",
				})
			})
		}

		// Protected routes (require authentication)
		protected := v1.Group("")
		protected.Use(middleware.AuthMiddleware())
		{
			protected.POST("/refresh", controllers.RefreshToken)
			protected.GET("/profile", controllers.GetProfile)

			// Properties
			properties := protected.Group("/properties")
			{
				properties.GET("", controllers.GetProperties)
				properties.GET("/:id", controllers.GetProperty)
				properties.POST("", middleware.RequireRole(models.RoleLandlord, models.RoleAgent, models.RoleAdmin), controllers.CreateProperty)
				properties.PUT("/:id", middleware.RequireRole(models.RoleLandlord, models.RoleAgent, models.RoleAdmin), controllers.UpdateProperty)
			}

			// Applications
			applications := protected.Group("/applications")
			{
				applications.GET("", controllers.GetApplications)
				applications.GET("/:id", controllers.GetApplication)
				applications.POST("", middleware.RequireRole(models.RoleTenant, models.RoleAdmin), controllers.CreateApplication)
				applications.PUT("/:id", controllers.UpdateApplication)
				applications.DELETE("/:id", controllers.DeleteApplication)
				applications.POST("/:id/co-applicants", controllers.AddCoApplicant)
				applications.DELETE("/:id/co-applicants/:co_applicant_id", controllers.RemoveCoApplicant)

				// Lifecycle transitions
				applications.POST("/:id/submit", controllers.SubmitApplication)
				applications.POST("/:id/review", controllers.StartReview)
				applications.POST("/:id/approve", controllers.ApproveApplication)
				applications.POST("/:id/reject", controllers.RejectApplication)
				applications.POST("/:id/request-info", controllers.RequestInfo)
				applications.POST("/:id/conditional-approval", controllers.ConditionallyApprove)
				applications.POST("/:id/withdraw", controllers.WithdrawApplication)
				applications.POST("/:id/status", controllers.ChangeApplicationStatus)
				applications.POST("/:id/score", controllers.RecalculateScore)

				// Lease workflow
				applications.POST("/:id/lease-draft", controllers.CreateLeaseDraft)
				applications.PUT("/:id/lease-draft", controllers.UpdateLeaseDraft)
				applications.GET("/:id/lease-draft", controllers.GetLeaseDraft)
				applications.POST("/:id/lease-draft/ready", controllers.MarkLeaseReady)
				applications.POST("/:id/lease/send", controllers.SendLease)
				applications.POST("/:id/lease/accept", controllers.AcceptLease)
				applications.POST("/:id/lease/decline", controllers.DeclineLease)
				applications.POST("/:id/lease/rework", controllers.ReworkLease)
				applications.POST("/:id/lease/sign", controllers.SignLease)
				applications.POST("/:id/lease/countersign", controllers.CountersignLease)
				applications.POST("/:id/lease/move-in", controllers.PrepareMoveIn)
				applications.PATCH("/:id/lease/checklist", controllers.UpdateChecklist)
				applications.POST("/:id/lease/complete", controllers.CompleteLease)
			}

			// Application comparison per property
			protected.GET("/properties/:id/applications/compare", controllers.CompareApplications)

			// Payments
			leases := protected.Group("/leases")
			{
				leases.POST("/:lease_id/payments/generate", controllers.GenerateRentPayments)
				leases.GET("/:lease_id/payments", controllers.GetLeasePayments)
			}
			payments := protected.Group("/payments")
			{
				payments.POST("/:payment_id/pay", controllers.MarkPaymentPaid)
				payments.POST("/:payment_id/verify", middleware.RequireRole(models.RoleLandlord, models.RoleAgent, models.RoleAdmin), controllers.VerifyPayment)
			}

			// Notifications
			notifications := protected.Group("/notifications")
			{
				notifications.GET("", controllers.GetNotifications)
				notifications.GET("/counter", controllers.GetNotificationCounter)
				notifications.PUT("/:id/read", controllers.MarkNotificationRead)
				notifications.PUT("/read-all", controllers.MarkAllNotificationsRead)
			}
		}
	}

	router.NoRoute(func(c *gin.Context) {
		c.JSON(404, gin.H{"error": "Endpoint not found"})
	})
}
