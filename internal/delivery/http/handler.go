package http

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/nutrilog/backend/internal/domain"
	"github.com/nutrilog/backend/internal/usecase"
)

// Handler holds dependencies for HTTP handlers
type Handler struct {
	search   *usecase.SearchService
	foodLog  *usecase.FoodLogService
	body     *usecase.BodyMetricsService
	workouts *usecase.WorkoutService
}

// NewHandler creates a new HTTP handler
func NewHandler(
	search *usecase.SearchService,
	foodLog *usecase.FoodLogService,
	body *usecase.BodyMetricsService,
	workouts *usecase.WorkoutService,
) *Handler {
	return &Handler{
		search:   search,
		foodLog:  foodLog,
		body:     body,
		workouts: workouts,
	}
}

// HealthCheck returns the health status of the API
func (h *Handler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"service": "nutrilog-backend",
		"version": "1.0.0",
	})
}

// SearchProductByBarcode resolves a scanned barcode across all sources.
func (h *Handler) SearchProductByBarcode(c *gin.Context) {
	product, err := h.search.SearchProductByBarcode(c.Request.Context(), c.Param("barcode"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, product)
}

// SearchFoodByName searches the shared store by food name.
func (h *Handler) SearchFoodByName(c *gin.Context) {
	query := c.Query("q")
	if query == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "query parameter 'q' is required"})
		return
	}

	results, err := h.search.SearchFoodByName(c.Request.Context(), query)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"results": results})
}

// SearchBundledFoods searches the bundled offline dataset.
func (h *Handler) SearchBundledFoods(c *gin.Context) {
	query := c.Query("q")
	if query == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "query parameter 'q' is required"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"results": h.search.SearchBundledFoods(query)})
}

type manualEntryRequest struct {
	Barcode     string               `json:"barcode"`
	Name        string               `json:"name" binding:"required"`
	Brand       string               `json:"brand"`
	Nutrition   domain.NutritionInfo `json:"nutrition" binding:"required"`
	Category    string               `json:"category"`
	PackageSize string               `json:"packageSize"`
	Description string               `json:"description"`
}

// CreateManualEntry submits a user-entered product to the shared store.
func (h *Handler) CreateManualEntry(c *gin.Context) {
	var req manualEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	product, err := h.search.SaveManualEntry(c.Request.Context(), usecase.ManualEntryInput{
		Barcode:     req.Barcode,
		Name:        req.Name,
		Brand:       req.Brand,
		Nutrition:   req.Nutrition,
		Category:    req.Category,
		PackageSize: req.PackageSize,
		Description: req.Description,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, product)
}

// VerifyProduct records a verification for a shared product.
func (h *Handler) VerifyProduct(c *gin.Context) {
	if err := h.search.VerifyProduct(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "verified"})
}

// ReportProduct records a data-quality report for a shared product.
func (h *Handler) ReportProduct(c *gin.Context) {
	if err := h.search.ReportProduct(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "reported"})
}

type saveFoodRequest struct {
	Name              string               `json:"name" binding:"required"`
	Nutrition         domain.NutritionInfo `json:"nutrition" binding:"required"`
	ServingMultiplier float64              `json:"servingMultiplier" binding:"required"`
	MealType          string               `json:"mealType"`
	Date              time.Time            `json:"date"`
	Category          string               `json:"category"`
}

// SaveFoodRecord logs one food consumption.
func (h *Handler) SaveFoodRecord(c *gin.Context) {
	var req saveFoodRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.Date.IsZero() {
		req.Date = time.Now()
	}

	record, err := h.foodLog.SaveFoodRecord(usecase.SaveFoodInput{
		Name:              req.Name,
		Nutrition:         req.Nutrition,
		ServingMultiplier: req.ServingMultiplier,
		MealType:          req.MealType,
		Date:              req.Date,
		Category:          req.Category,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	if err := h.foodLog.SyncDailyConsumed(req.Date); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, record)
}

// ListFoodRecords returns the food records for one calendar day.
func (h *Handler) ListFoodRecords(c *gin.Context) {
	date, err := dateParam(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	records, err := h.foodLog.RecordsOn(date)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"records": records})
}

// DailyNutritionSummary returns the aggregated nutrition for one day.
func (h *Handler) DailyNutritionSummary(c *gin.Context) {
	date, err := dateParam(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	total, err := h.foodLog.TotalNutritionOn(date)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"date": date.Format("2006-01-02"), "total": total})
}

// DeleteFoodRecord removes one logged consumption.
func (h *Handler) DeleteFoodRecord(c *gin.Context) {
	id, err := idParam(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := h.foodLog.DeleteRecord(id); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "deleted"})
}

type bodySnapshotRequest struct {
	Date              time.Time `json:"date"`
	Height            float64   `json:"height" binding:"required"`
	Weight            float64   `json:"weight" binding:"required"`
	Age               int       `json:"age" binding:"required"`
	Gender            string    `json:"gender"`
	BodyFatPercentage float64   `json:"bodyFatPercentage"`
	MuscleMass        float64   `json:"muscleMass"`
	ActivityLevel     string    `json:"activityLevel"`
}

// SaveBodySnapshot upserts the day's body composition snapshot.
func (h *Handler) SaveBodySnapshot(c *gin.Context) {
	var req bodySnapshotRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.Date.IsZero() {
		req.Date = time.Now()
	}

	entry, err := h.body.SaveSnapshot(usecase.BodySnapshotInput{
		Date:              req.Date,
		Height:            req.Height,
		Weight:            req.Weight,
		Age:               req.Age,
		Gender:            req.Gender,
		BodyFatPercentage: req.BodyFatPercentage,
		MuscleMass:        req.MuscleMass,
		ActivityLevel:     req.ActivityLevel,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, entry)
}

// BodyHistory returns all body snapshots, newest first. With ?date= it
// returns the single snapshot for that day.
func (h *Handler) BodyHistory(c *gin.Context) {
	if c.Query("date") != "" {
		date, err := dateParam(c)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		row, err := h.body.SnapshotOn(date)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, row)
		return
	}

	history, err := h.body.History()
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"history": history})
}

type workoutRequest struct {
	Date      time.Time `json:"date"`
	Name      string    `json:"name"`
	Notes     string    `json:"notes"`
	Exercises []struct {
		Name   string  `json:"name"`
		Sets   int     `json:"sets"`
		Reps   int     `json:"reps"`
		Weight float64 `json:"weight"`
	} `json:"exercises" binding:"required"`
}

// LogWorkout persists one workout with its exercises.
func (h *Handler) LogWorkout(c *gin.Context) {
	var req workoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.Date.IsZero() {
		req.Date = time.Now()
	}

	input := usecase.WorkoutInput{Date: req.Date, Name: req.Name, Notes: req.Notes}
	for _, ex := range req.Exercises {
		input.Exercises = append(input.Exercises, usecase.ExerciseInput{
			Name:   ex.Name,
			Sets:   ex.Sets,
			Reps:   ex.Reps,
			Weight: ex.Weight,
		})
	}

	entry, err := h.workouts.LogWorkout(input)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, entry)
}

// ListWorkouts returns the workouts for one calendar day.
func (h *Handler) ListWorkouts(c *gin.Context) {
	date, err := dateParam(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	workouts, err := h.workouts.WorkoutsOn(date)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"workouts": workouts})
}

// DeleteWorkout removes a workout and its exercises.
func (h *Handler) DeleteWorkout(c *gin.Context) {
	id, err := idParam(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := h.workouts.DeleteWorkout(id); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "deleted"})
}

type burnedCaloriesRequest struct {
	Date     time.Time `json:"date"`
	Calories float64   `json:"calories" binding:"required"`
}

// RecordBurnedCalories updates the burned side of the daily energy summary.
func (h *Handler) RecordBurnedCalories(c *gin.Context) {
	var req burnedCaloriesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.Date.IsZero() {
		req.Date = time.Now()
	}

	if err := h.workouts.RecordBurnedCalories(req.Date, req.Calories); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "recorded"})
}

// dateParam parses the ?date=YYYY-MM-DD query parameter, defaulting to today.
func dateParam(c *gin.Context) (time.Time, error) {
	raw := c.Query("date")
	if raw == "" {
		return time.Now(), nil
	}
	return time.Parse("2006-01-02", raw)
}

// idParam parses the :id path parameter.
func idParam(c *gin.Context) (uint, error) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	return uint(id), err
}

// respondError maps domain errors to HTTP status codes.
func respondError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, domain.ErrProductNotFound), errors.Is(err, domain.ErrRecordNotFound):
		status = http.StatusNotFound
	case errors.Is(err, domain.ErrInvalidRequest), errors.Is(err, domain.ErrMeasurementOutOfRange):
		status = http.StatusBadRequest
	case errors.Is(err, domain.ErrAlreadyActioned):
		status = http.StatusConflict
	case errors.Is(err, domain.ErrAuthenticationFailed):
		status = http.StatusUnauthorized
	case errors.Is(err, domain.ErrNetworkFailure), errors.Is(err, domain.ErrDecodeFailure):
		status = http.StatusBadGateway
	}
	c.JSON(status, gin.H{"error": err.Error()})
}
