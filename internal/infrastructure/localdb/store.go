package localdb

import (
	"errors"
	"time"

	"github.com/sirupsen/logrus"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/nutrilog/backend/internal/domain"
)

// Store is the on-device object store. All entities share one sqlite database;
// a single Transaction call is the atomic commit unit.
type Store struct {
	db  *gorm.DB
	log *logrus.Logger
}

// Open opens (or creates) the sqlite database at path and migrates the schema.
func Open(path string, log *logrus.Logger) (*Store, error) {
	if log == nil {
		log = logrus.StandardLogger()
	}

	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		return nil, err
	}

	if err := db.AutoMigrate(
		&domain.FoodMaster{},
		&domain.FoodRecord{},
		&domain.BodyComposition{},
		&domain.WorkoutEntry{},
		&domain.Exercise{},
		&domain.DailyCalories{},
		&domain.FoodEntry{},
	); err != nil {
		return nil, err
	}

	return &Store{db: db, log: log}, nil
}

// Transaction runs fn against a transactional view of the store. fn returning
// an error rolls the whole unit back.
func (s *Store) Transaction(fn func(tx *Store) error) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		return fn(&Store{db: tx, log: s.log})
	})
}

// MasterByName returns the food master with the exact given name, or
// ErrRecordNotFound. Master lookup is exact-string; only search paths
// normalize names.
func (s *Store) MasterByName(name string) (*domain.FoodMaster, error) {
	var master domain.FoodMaster
	err := s.db.Where("name = ?", name).First(&master).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.ErrRecordNotFound
	}
	if err != nil {
		return nil, err
	}
	return &master, nil
}

// CreateMaster inserts a new food master row.
func (s *Store) CreateMaster(master *domain.FoodMaster) error {
	return s.db.Create(master).Error
}

// UpdateMaster rewrites an existing master row. Records referencing it keep
// their stored consumption snapshots; only future records see the new profile.
func (s *Store) UpdateMaster(master *domain.FoodMaster) error {
	return s.db.Save(master).Error
}

// UpdateMasterPhoto backfills the photo column of an existing master.
func (s *Store) UpdateMasterPhoto(masterID uint, photo []byte) error {
	return s.db.Model(&domain.FoodMaster{}).
		Where("id = ?", masterID).
		Update("photo", photo).Error
}

// MasterByID loads a master row by primary key.
func (s *Store) MasterByID(id uint) (*domain.FoodMaster, error) {
	var master domain.FoodMaster
	err := s.db.First(&master, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.ErrRecordNotFound
	}
	if err != nil {
		return nil, err
	}
	return &master, nil
}

// CountMasters returns the number of master rows.
func (s *Store) CountMasters() (int64, error) {
	var count int64
	err := s.db.Model(&domain.FoodMaster{}).Count(&count).Error
	return count, err
}

// CreateRecord inserts a food record row.
func (s *Store) CreateRecord(record *domain.FoodRecord) error {
	return s.db.Create(record).Error
}

// RecordsOn returns all food records dated within the calendar day of date,
// oldest first, with their masters preloaded.
func (s *Store) RecordsOn(date time.Time) ([]domain.FoodRecord, error) {
	start := StartOfDay(date)
	end := start.AddDate(0, 0, 1)

	var records []domain.FoodRecord
	err := s.db.Preload("FoodMaster").
		Where("date >= ? AND date < ?", start, end).
		Order("date ASC").
		Find(&records).Error
	return records, err
}

// DeleteRecord removes one food record. The master reference is cleared
// before the delete so the master's inverse collection never dangles; the
// master row itself is never deleted.
func (s *Store) DeleteRecord(recordID uint) error {
	return s.Transaction(func(tx *Store) error {
		var record domain.FoodRecord
		err := tx.db.First(&record, recordID).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.ErrRecordNotFound
		}
		if err != nil {
			return err
		}

		if err := tx.db.Model(&record).Update("food_master_id", nil).Error; err != nil {
			return err
		}
		return tx.db.Delete(&record).Error
	})
}

// SaveBodyComposition inserts or replaces the snapshot for the calendar day
// of entry.Date, enforcing at most one row per day.
func (s *Store) SaveBodyComposition(entry *domain.BodyComposition) error {
	return s.Transaction(func(tx *Store) error {
		day := StartOfDay(entry.Date)
		entry.Date = day

		var existing domain.BodyComposition
		err := tx.db.Where("date = ?", day).First(&existing).Error
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			return tx.db.Create(entry).Error
		case err != nil:
			return err
		default:
			entry.ID = existing.ID
			entry.CreatedAt = existing.CreatedAt
			return tx.db.Save(entry).Error
		}
	})
}

// BodyCompositions returns all snapshots, newest first.
func (s *Store) BodyCompositions() ([]domain.BodyComposition, error) {
	var rows []domain.BodyComposition
	err := s.db.Order("date DESC").Find(&rows).Error
	return rows, err
}

// BodyCompositionOn returns the snapshot for the calendar day of date.
func (s *Store) BodyCompositionOn(date time.Time) (*domain.BodyComposition, error) {
	var row domain.BodyComposition
	err := s.db.Where("date = ?", StartOfDay(date)).First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.ErrRecordNotFound
	}
	if err != nil {
		return nil, err
	}
	return &row, nil
}

// CreateWorkout inserts a workout entry together with its exercises.
func (s *Store) CreateWorkout(entry *domain.WorkoutEntry) error {
	return s.db.Create(entry).Error
}

// WorkoutsBetween returns workouts in [from, to), newest first, with
// exercises preloaded.
func (s *Store) WorkoutsBetween(from, to time.Time) ([]domain.WorkoutEntry, error) {
	var entries []domain.WorkoutEntry
	err := s.db.Preload("Exercises").
		Where("date >= ? AND date < ?", from, to).
		Order("date DESC").
		Find(&entries).Error
	return entries, err
}

// DeleteWorkout removes a workout and its exercises.
func (s *Store) DeleteWorkout(workoutID uint) error {
	return s.Transaction(func(tx *Store) error {
		if err := tx.db.Where("workout_entry_id = ?", workoutID).
			Delete(&domain.Exercise{}).Error; err != nil {
			return err
		}
		result := tx.db.Delete(&domain.WorkoutEntry{}, workoutID)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return domain.ErrRecordNotFound
		}
		return nil
	})
}

// UpsertDailyCalories inserts or updates the per-day energy summary row.
func (s *Store) UpsertDailyCalories(entry *domain.DailyCalories) error {
	return s.Transaction(func(tx *Store) error {
		day := StartOfDay(entry.Date)
		entry.Date = day

		var existing domain.DailyCalories
		err := tx.db.Where("date = ?", day).First(&existing).Error
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			return tx.db.Create(entry).Error
		case err != nil:
			return err
		default:
			entry.ID = existing.ID
			entry.CreatedAt = existing.CreatedAt
			return tx.db.Save(entry).Error
		}
	})
}

// DailyCaloriesOn returns the energy summary for the calendar day of date.
func (s *Store) DailyCaloriesOn(date time.Time) (*domain.DailyCalories, error) {
	var row domain.DailyCalories
	err := s.db.Where("date = ?", StartOfDay(date)).First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.ErrRecordNotFound
	}
	if err != nil {
		return nil, err
	}
	return &row, nil
}

// StartOfDay truncates t to midnight in its own location.
func StartOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
