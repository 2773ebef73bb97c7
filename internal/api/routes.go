package api

import (
	"net/http"

	"alcyxob/gym-coach/internal/domain"
	"alcyxob/gym-coach/internal/service"

	"github.com/gin-gonic/gin"
)

func SetupRoutes(
	router *gin.Engine,
	authService service.AuthService,
	catalogService service.CatalogService,
	trainerService service.TrainerService,
	studentService service.StudentService,
) {
	authHandler := NewAuthHandler(authService)
	catalogHandler := NewCatalogHandler(catalogService)
	trainerHandler := NewTrainerHandler(trainerService)
	studentHandler := NewStudentHandler(studentService)

	adminOnly := RoleMiddleware(domain.RoleAdmin)

	router.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})

	apiV1 := router.Group("/api/v1")
	{
		authGroup := apiV1.Group("/auth")
		{
			authGroup.POST("/register", authHandler.Register)
			authGroup.POST("/login", authHandler.Login)
		}
	}

	protected := apiV1.Group("")
	protected.Use(AuthMiddleware(authService))
	{
		protected.GET("/me", authHandler.Me)
		protected.GET("/onboarding", studentHandler.GetOnboarding)
		protected.GET("/media", catalogHandler.GetMediaURL)

		// --- Catalog ---
		bodyParts := protected.Group("/body-parts")
		{
			bodyParts.GET("", catalogHandler.GetBodyParts)
			bodyParts.GET("/:id", catalogHandler.GetBodyPart)
			bodyParts.GET("/:id/exercises/:index", catalogHandler.GetExercise)
			bodyParts.GET("/:id/exercises/:index/stream", catalogHandler.StreamExercise)

			// Exercise editor
			bodyParts.POST("/:id/exercises", adminOnly, catalogHandler.AppendExercise)
			bodyParts.PUT("/:id/exercises/:index", adminOnly, catalogHandler.UpdateExercise)
			bodyParts.POST("/:id/exercises/:index/media", adminOnly, catalogHandler.RequestMediaUpload)
			bodyParts.PUT("/:id/exercises/:index/media", adminOnly, catalogHandler.ConfirmMediaUpload)
		}

		// --- Trainer ---
		trainerGroup := protected.Group("/trainer")
		trainerGroup.Use(adminOnly)
		{
			trainerGroup.GET("/students", trainerHandler.GetStudents)
			trainerGroup.GET("/students/:id", trainerHandler.GetStudentProfile)

			// Assignment editor
			trainerGroup.GET("/students/:id/assignments", trainerHandler.GetAssignments)
			trainerGroup.PUT("/students/:id/assignments", trainerHandler.SaveAssignments)
			trainerGroup.DELETE("/students/:id/assignments", trainerHandler.ClearAssignments)

			// Order editor
			trainerGroup.GET("/students/:id/plan", trainerHandler.GetPlan)
			trainerGroup.PUT("/students/:id/order", trainerHandler.SaveOrder)
		}

		// --- Student ---
		// Trainers may use these too: they see their own plan.
		studentGroup := protected.Group("/student")
		studentGroup.Use(RoleMiddleware(domain.RoleStudent, domain.RoleAdmin))
		{
			studentGroup.GET("/plan", studentHandler.GetMyPlan)
			studentGroup.GET("/body-parts", studentHandler.GetMyBodyParts)
			studentGroup.PUT("/boarding", studentHandler.SubmitBoarding)
		}
	}
}
