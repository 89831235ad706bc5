package domain

import (
	"time"

	"gorm.io/gorm"
)

// Meal types stored on food records.
const (
	MealBreakfast = "breakfast"
	MealLunch     = "lunch"
	MealDinner    = "dinner"
	MealSnack     = "snack"
)

// FoodMaster is the canonical per-100g nutrient profile for a named food.
// Exactly one master exists per distinct name; the row is created lazily on
// first save and only ever updated to backfill a missing photo.
type FoodMaster struct {
	gorm.Model
	Name          string `gorm:"uniqueIndex;not null"`
	Calories      float64
	Protein       float64
	Fat           float64
	Carbohydrates float64
	Sugar         float64
	Fiber         float64
	Sodium        float64
	Category      string
	Photo         []byte `gorm:"type:blob"`
	Records       []FoodRecord
}

// NutritionInfo reconstructs the per-100g nutrient vector from the stored
// scalar columns. Fiber and sodium round-trip through the store as plain
// zero-defaulted scalars, so they always come back present.
func (m FoodMaster) NutritionInfo() NutritionInfo {
	return NutritionInfo{
		Calories:      m.Calories,
		Protein:       m.Protein,
		Fat:           m.Fat,
		Carbohydrates: m.Carbohydrates,
		Sugar:         m.Sugar,
		ServingSize:   100,
		Fiber:         Float64Ptr(m.Fiber),
		Sodium:        Float64Ptr(m.Sodium),
	}
}

// FoodRecord is one logged consumption event. The Actual* fields are the
// master's per-100g values scaled by ServingMultiplier at creation time and
// are never recomputed when the master is later edited: a record reflects
// what was logged, not what the master says today.
type FoodRecord struct {
	gorm.Model
	Date              time.Time `gorm:"index;not null"`
	MealType          string
	ServingMultiplier float64 // 1.0 = 100g of master
	ActualCalories    float64
	ActualProtein     float64
	ActualFat         float64
	ActualCarbs       float64
	ActualSugar       float64
	ActualFiber       float64
	ActualSodium      float64
	FoodMasterID      *uint `gorm:"index"`
	FoodMaster        *FoodMaster
}

// ActualNutrition returns the stored consumption snapshot as a nutrient vector.
func (r FoodRecord) ActualNutrition() NutritionInfo {
	return NutritionInfo{
		Calories:      r.ActualCalories,
		Protein:       r.ActualProtein,
		Fat:           r.ActualFat,
		Carbohydrates: r.ActualCarbs,
		Sugar:         r.ActualSugar,
		ServingSize:   100 * r.ServingMultiplier,
		Fiber:         Float64Ptr(r.ActualFiber),
		Sodium:        Float64Ptr(r.ActualSodium),
	}
}

// BodyComposition is a per-day body snapshot. Post-migration, at most one row
// exists per calendar day and Date is normalized to midnight.
type BodyComposition struct {
	gorm.Model
	Date              time.Time `gorm:"index;not null"`
	Height            float64   // cm
	Weight            float64   // kg
	Age               int
	Gender            string
	BodyFatPercentage float64
	MuscleMass        float64 // kg
	BasalMetabolicRate float64
	ActivityLevel     string
}

// WorkoutEntry is one logged workout session.
type WorkoutEntry struct {
	gorm.Model
	Date      time.Time `gorm:"index;not null"`
	Name      string
	Notes     string
	Exercises []Exercise
}

// Exercise is one movement inside a workout: sets, reps and working weight.
type Exercise struct {
	gorm.Model
	WorkoutEntryID uint `gorm:"index"`
	Name           string
	Sets           int
	Reps           int
	Weight         float64 // kg
}

// DailyCalories is a per-day energy summary row.
type DailyCalories struct {
	gorm.Model
	Date     time.Time `gorm:"index;not null"`
	Consumed float64
	Burned   float64
}

// FoodEntry is the legacy flat food log kept for migration of old installs.
type FoodEntry struct {
	gorm.Model
	Date     time.Time `gorm:"index"`
	Name     string
	Amount   float64 // grams
	Calories float64
}
