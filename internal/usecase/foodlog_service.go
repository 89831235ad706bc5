package usecase

import (
	"errors"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/nutrilog/backend/internal/domain"
	"github.com/nutrilog/backend/internal/infrastructure/localdb"
)

// FoodLogService implements the master/record split: "what a food is" lives
// once in a per-100g FoodMaster, "what was eaten" is a FoodRecord holding the
// scaled consumption snapshot.
type FoodLogService struct {
	store *localdb.Store
	log   *logrus.Logger
}

// NewFoodLogService creates a food log service over the local store.
func NewFoodLogService(store *localdb.Store, log *logrus.Logger) *FoodLogService {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &FoodLogService{store: store, log: log}
}

// SaveFoodInput is one food consumption to log. Nutrition may arrive on any
// gram basis; it is rebased to 100g before the master row is created.
type SaveFoodInput struct {
	Name              string
	Nutrition         domain.NutritionInfo
	ServingMultiplier float64 // 1.0 = 100g eaten
	MealType          string
	Date              time.Time
	Category          string
	Photo             []byte
}

// SaveFoodRecord persists one consumption event. The master row is found or
// created by exact name, the actual nutrition is the master's profile scaled
// to 100×multiplier grams, and the whole unit commits in one transaction.
func (s *FoodLogService) SaveFoodRecord(input SaveFoodInput) (*domain.FoodRecord, error) {
	if input.Name == "" || input.ServingMultiplier <= 0 || input.Nutrition.IsEmpty() {
		return nil, domain.ErrInvalidRequest
	}

	var record *domain.FoodRecord
	err := s.store.Transaction(func(tx *localdb.Store) error {
		master, err := s.findOrCreateMaster(tx, input)
		if err != nil {
			return err
		}

		actual := master.NutritionInfo().ScaledTo(100 * input.ServingMultiplier)
		record = &domain.FoodRecord{
			Date:              input.Date,
			MealType:          input.MealType,
			ServingMultiplier: input.ServingMultiplier,
			ActualCalories:    actual.Calories,
			ActualProtein:     actual.Protein,
			ActualFat:         actual.Fat,
			ActualCarbs:       actual.Carbohydrates,
			ActualSugar:       actual.Sugar,
			ActualFiber:       actual.FiberOrZero(),
			ActualSodium:      actual.SodiumOrZero(),
			FoodMasterID:      &master.ID,
		}
		return tx.CreateRecord(record)
	})
	if err != nil {
		return nil, err
	}

	s.log.WithFields(logrus.Fields{
		"component":  "foodlog",
		"food":       input.Name,
		"multiplier": input.ServingMultiplier,
	}).Debug("food record saved")
	return record, nil
}

// findOrCreateMaster looks the master up by exact name; on a hit the only
// permitted mutation is backfilling a missing photo. On a miss the input
// nutrition is normalized to the 100g basis and inserted.
func (s *FoodLogService) findOrCreateMaster(tx *localdb.Store, input SaveFoodInput) (*domain.FoodMaster, error) {
	master, err := tx.MasterByName(input.Name)
	if err == nil {
		if len(master.Photo) == 0 && len(input.Photo) > 0 {
			if err := tx.UpdateMasterPhoto(master.ID, input.Photo); err != nil {
				return nil, err
			}
			master.Photo = input.Photo
		}
		return master, nil
	}
	if !errors.Is(err, domain.ErrRecordNotFound) {
		return nil, err
	}

	per100 := input.Nutrition.ScaledTo(100)
	master = &domain.FoodMaster{
		Name:          input.Name,
		Calories:      per100.Calories,
		Protein:       per100.Protein,
		Fat:           per100.Fat,
		Carbohydrates: per100.Carbohydrates,
		Sugar:         per100.Sugar,
		Fiber:         per100.FiberOrZero(),
		Sodium:        per100.SodiumOrZero(),
		Category:      input.Category,
		Photo:         input.Photo,
	}
	if err := tx.CreateMaster(master); err != nil {
		return nil, err
	}
	return master, nil
}

// SaveFoodItem logs a bundled dataset food; amountGrams is what was eaten.
func (s *FoodLogService) SaveFoodItem(item domain.FoodItem, amountGrams float64, mealType string, date time.Time) (*domain.FoodRecord, error) {
	return s.SaveFoodRecord(SaveFoodInput{
		Name:              item.Name,
		Nutrition:         item.Nutrition,
		ServingMultiplier: amountGrams / 100.0,
		MealType:          mealType,
		Date:              date,
		Category:          item.Category,
	})
}

// SaveBarcodeProduct logs a scanned shared product.
func (s *FoodLogService) SaveBarcodeProduct(product *domain.SharedProduct, amountGrams float64, mealType string, date time.Time) (*domain.FoodRecord, error) {
	return s.SaveFoodRecord(SaveFoodInput{
		Name:              product.Name,
		Nutrition:         product.Nutrition,
		ServingMultiplier: amountGrams / 100.0,
		MealType:          mealType,
		Date:              date,
		Category:          product.Category,
	})
}

// PhotoAnalysisResult is one recognized food from a meal photo.
type PhotoAnalysisResult struct {
	Name        string
	Nutrition   domain.NutritionInfo
	AmountGrams float64
	Photo       []byte
}

// SavePhotoAnalysisResult logs a photo-recognized food.
func (s *FoodLogService) SavePhotoAnalysisResult(result PhotoAnalysisResult, mealType string, date time.Time) (*domain.FoodRecord, error) {
	return s.SaveFoodRecord(SaveFoodInput{
		Name:              result.Name,
		Nutrition:         result.Nutrition,
		ServingMultiplier: result.AmountGrams / 100.0,
		MealType:          mealType,
		Date:              date,
		Photo:             result.Photo,
	})
}

// SaveMultipleFoodEntries logs several foods under one meal. Entries save
// sequentially; the first failure stops the batch and returns what saved so
// far along with the error.
func (s *FoodLogService) SaveMultipleFoodEntries(inputs []SaveFoodInput) ([]domain.FoodRecord, error) {
	records := make([]domain.FoodRecord, 0, len(inputs))
	for _, input := range inputs {
		record, err := s.SaveFoodRecord(input)
		if err != nil {
			return records, err
		}
		records = append(records, *record)
	}
	return records, nil
}

// RecordsOn returns the day's food records.
func (s *FoodLogService) RecordsOn(date time.Time) ([]domain.FoodRecord, error) {
	return s.store.RecordsOn(date)
}

// TotalNutritionOn aggregates the day's records field-wise from the empty
// sentinel.
func (s *FoodLogService) TotalNutritionOn(date time.Time) (domain.NutritionInfo, error) {
	records, err := s.store.RecordsOn(date)
	if err != nil {
		return domain.EmptyNutrition, err
	}

	total := domain.EmptyNutrition
	for _, record := range records {
		total = total.Add(record.ActualNutrition())
	}
	return total, nil
}

// DeleteRecord removes one logged consumption.
func (s *FoodLogService) DeleteRecord(recordID uint) error {
	return s.store.DeleteRecord(recordID)
}

// SyncDailyConsumed refreshes the day's consumed-calories summary row from
// the logged records, preserving any burned value already recorded.
func (s *FoodLogService) SyncDailyConsumed(date time.Time) error {
	total, err := s.TotalNutritionOn(date)
	if err != nil {
		return err
	}

	entry := &domain.DailyCalories{Date: date, Consumed: total.Calories}
	if existing, err := s.store.DailyCaloriesOn(date); err == nil {
		entry.Burned = existing.Burned
	}
	return s.store.UpsertDailyCalories(entry)
}
