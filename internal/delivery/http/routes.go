package http

import (
	"github.com/gin-gonic/gin"

	"github.com/nutrilog/backend/config"
)

// SetupRouter creates and configures the Gin router
func SetupRouter(cfg *config.Config, handler *Handler) *gin.Engine {
	if cfg.Server.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()

	router.Use(RecoveryMiddleware())
	router.Use(LoggerMiddleware())
	router.Use(CORSMiddleware(cfg.Server.AllowedOrigins))

	router.GET("/health", handler.HealthCheck)

	v1 := router.Group("/api/v1")
	{
		products := v1.Group("/products")
		{
			products.GET("/barcode/:barcode", handler.SearchProductByBarcode)
			products.GET("/search", handler.SearchFoodByName)
			products.GET("/bundled", handler.SearchBundledFoods)
			products.POST("", handler.CreateManualEntry)
			products.POST("/:id/verify", handler.VerifyProduct)
			products.POST("/:id/report", handler.ReportProduct)
		}

		foods := v1.Group("/foods")
		{
			foods.POST("", handler.SaveFoodRecord)
			foods.GET("", handler.ListFoodRecords)
			foods.GET("/summary", handler.DailyNutritionSummary)
			foods.DELETE("/:id", handler.DeleteFoodRecord)
		}

		body := v1.Group("/body")
		{
			body.POST("", handler.SaveBodySnapshot)
			body.GET("", handler.BodyHistory)
		}

		workouts := v1.Group("/workouts")
		{
			workouts.POST("", handler.LogWorkout)
			workouts.GET("", handler.ListWorkouts)
			workouts.DELETE("/:id", handler.DeleteWorkout)
			workouts.POST("/burned", handler.RecordBurnedCalories)
		}
	}

	return router
}
