package usecase

import (
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/nutrilog/backend/internal/domain"
	"github.com/nutrilog/backend/internal/infrastructure/localdb"
)

// Plausibility ranges enforced at input time.
const (
	minHeightCm = 100
	maxHeightCm = 250
	minWeightKg = 20
	maxWeightKg = 300
	minAge      = 10
	maxAge      = 120
	minBodyFat  = 3
	maxBodyFat  = 60
)

// BodyMetricsService manages per-day body composition snapshots.
type BodyMetricsService struct {
	store *localdb.Store
	log   *logrus.Logger
}

// NewBodyMetricsService creates a body metrics service over the local store.
func NewBodyMetricsService(store *localdb.Store, log *logrus.Logger) *BodyMetricsService {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &BodyMetricsService{store: store, log: log}
}

// BodySnapshotInput is a user-entered body measurement set.
type BodySnapshotInput struct {
	Date              time.Time
	Height            float64 // cm
	Weight            float64 // kg
	Age               int
	Gender            string
	BodyFatPercentage float64
	MuscleMass        float64
	ActivityLevel     string
}

// SaveSnapshot validates the measurements and upserts the day's snapshot.
// The basal metabolic rate is computed with Harris-Benedict.
func (s *BodyMetricsService) SaveSnapshot(input BodySnapshotInput) (*domain.BodyComposition, error) {
	if err := validateSnapshot(input); err != nil {
		return nil, err
	}

	entry := &domain.BodyComposition{
		Date:               input.Date,
		Height:             input.Height,
		Weight:             input.Weight,
		Age:                input.Age,
		Gender:             input.Gender,
		BodyFatPercentage:  input.BodyFatPercentage,
		MuscleMass:         input.MuscleMass,
		BasalMetabolicRate: HarrisBenedictBMR(input.Weight, input.Height, input.Age, input.Gender),
		ActivityLevel:      input.ActivityLevel,
	}
	if err := s.store.SaveBodyComposition(entry); err != nil {
		return nil, err
	}
	return entry, nil
}

// History returns all snapshots, newest first.
func (s *BodyMetricsService) History() ([]domain.BodyComposition, error) {
	return s.store.BodyCompositions()
}

// SnapshotOn returns the snapshot for the given calendar day.
func (s *BodyMetricsService) SnapshotOn(date time.Time) (*domain.BodyComposition, error) {
	return s.store.BodyCompositionOn(date)
}

// MigrateDates runs the one-shot date normalization; called at startup.
func (s *BodyMetricsService) MigrateDates() (int, error) {
	return s.store.NormalizeBodyCompositionDates()
}

func validateSnapshot(input BodySnapshotInput) error {
	if input.Height < minHeightCm || input.Height > maxHeightCm {
		return fmt.Errorf("%w: height %.1fcm", domain.ErrMeasurementOutOfRange, input.Height)
	}
	if input.Weight < minWeightKg || input.Weight > maxWeightKg {
		return fmt.Errorf("%w: weight %.1fkg", domain.ErrMeasurementOutOfRange, input.Weight)
	}
	if input.Age < minAge || input.Age > maxAge {
		return fmt.Errorf("%w: age %d", domain.ErrMeasurementOutOfRange, input.Age)
	}
	if input.BodyFatPercentage != 0 &&
		(input.BodyFatPercentage < minBodyFat || input.BodyFatPercentage > maxBodyFat) {
		return fmt.Errorf("%w: body fat %.1f%%", domain.ErrMeasurementOutOfRange, input.BodyFatPercentage)
	}
	return nil
}

// HarrisBenedictBMR estimates resting energy expenditure (kcal/day) from
// weight (kg), height (cm), age and gender using the revised Harris-Benedict
// equations.
func HarrisBenedictBMR(weightKg, heightCm float64, age int, gender string) float64 {
	if gender == "female" {
		return 447.593 + 9.247*weightKg + 3.098*heightCm - 4.330*float64(age)
	}
	return 88.362 + 13.397*weightKg + 4.799*heightCm - 5.677*float64(age)
}

// BMI computes body mass index from height (cm) and weight (kg).
func BMI(heightCm, weightKg float64) float64 {
	if heightCm <= 0 {
		return 0
	}
	meters := heightCm / 100.0
	return weightKg / (meters * meters)
}
