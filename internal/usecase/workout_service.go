package usecase

import (
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/nutrilog/backend/internal/domain"
	"github.com/nutrilog/backend/internal/infrastructure/localdb"
)

// WorkoutService manages workout entries and the burned side of the daily
// calorie summary.
type WorkoutService struct {
	store *localdb.Store
	log   *logrus.Logger
}

// NewWorkoutService creates a workout service over the local store.
func NewWorkoutService(store *localdb.Store, log *logrus.Logger) *WorkoutService {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &WorkoutService{store: store, log: log}
}

// ExerciseInput is one movement in a workout being logged.
type ExerciseInput struct {
	Name   string
	Sets   int
	Reps   int
	Weight float64
}

// WorkoutInput is a workout session being logged.
type WorkoutInput struct {
	Date      time.Time
	Name      string
	Notes     string
	Exercises []ExerciseInput
}

// LogWorkout validates and persists one workout with its exercises.
func (s *WorkoutService) LogWorkout(input WorkoutInput) (*domain.WorkoutEntry, error) {
	if len(input.Exercises) == 0 {
		return nil, fmt.Errorf("%w: a workout needs at least one exercise", domain.ErrInvalidRequest)
	}
	for _, ex := range input.Exercises {
		if ex.Name == "" || ex.Sets <= 0 || ex.Reps <= 0 || ex.Weight < 0 {
			return nil, fmt.Errorf("%w: exercise %q", domain.ErrInvalidRequest, ex.Name)
		}
	}

	entry := &domain.WorkoutEntry{
		Date:  input.Date,
		Name:  input.Name,
		Notes: input.Notes,
	}
	for _, ex := range input.Exercises {
		entry.Exercises = append(entry.Exercises, domain.Exercise{
			Name:   ex.Name,
			Sets:   ex.Sets,
			Reps:   ex.Reps,
			Weight: ex.Weight,
		})
	}

	if err := s.store.CreateWorkout(entry); err != nil {
		return nil, err
	}
	return entry, nil
}

// WorkoutsOn returns the workouts logged on the calendar day of date.
func (s *WorkoutService) WorkoutsOn(date time.Time) ([]domain.WorkoutEntry, error) {
	start := localdb.StartOfDay(date)
	return s.store.WorkoutsBetween(start, start.AddDate(0, 0, 1))
}

// WorkoutsBetween returns workouts in [from, to).
func (s *WorkoutService) WorkoutsBetween(from, to time.Time) ([]domain.WorkoutEntry, error) {
	return s.store.WorkoutsBetween(from, to)
}

// DeleteWorkout removes a workout and its exercises.
func (s *WorkoutService) DeleteWorkout(workoutID uint) error {
	return s.store.DeleteWorkout(workoutID)
}

// RecordBurnedCalories updates the burned side of the day's calorie summary,
// preserving the consumed value.
func (s *WorkoutService) RecordBurnedCalories(date time.Time, kcal float64) error {
	if kcal < 0 {
		return domain.ErrInvalidRequest
	}

	entry := &domain.DailyCalories{Date: date, Burned: kcal}
	if existing, err := s.store.DailyCaloriesOn(date); err == nil {
		entry.Consumed = existing.Consumed
	}
	return s.store.UpsertDailyCalories(entry)
}
