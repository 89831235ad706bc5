package localdb

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nutrilog/backend/internal/domain"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "nutrilog.db"), nil)
	require.NoError(t, err)
	return store
}

func TestMasterByName_ExactMatchOnly(t *testing.T) {
	store := openTestStore(t)

	require.NoError(t, store.CreateMaster(&domain.FoodMaster{Name: "Rice", Calories: 252}))

	master, err := store.MasterByName("Rice")
	require.NoError(t, err)
	assert.Equal(t, "Rice", master.Name)

	_, err = store.MasterByName("rice ")
	assert.ErrorIs(t, err, domain.ErrRecordNotFound)
}

func TestUpdateMasterPhoto(t *testing.T) {
	store := openTestStore(t)

	master := &domain.FoodMaster{Name: "Oats"}
	require.NoError(t, store.CreateMaster(master))

	photo := []byte{0xFF, 0xD8, 0xFF}
	require.NoError(t, store.UpdateMasterPhoto(master.ID, photo))

	reloaded, err := store.MasterByID(master.ID)
	require.NoError(t, err)
	assert.Equal(t, photo, reloaded.Photo)
}

func TestRecordsOn_DayBoundaries(t *testing.T) {
	store := openTestStore(t)

	master := &domain.FoodMaster{Name: "Rice", Calories: 252}
	require.NoError(t, store.CreateMaster(master))

	day := time.Date(2026, 3, 14, 0, 0, 0, 0, time.UTC)
	inDay := []time.Time{
		day.Add(1 * time.Minute),
		day.Add(12 * time.Hour),
		day.Add(23*time.Hour + 59*time.Minute),
	}
	outOfDay := []time.Time{
		day.Add(-1 * time.Minute),
		day.AddDate(0, 0, 1),
	}

	for _, ts := range append(inDay, outOfDay...) {
		require.NoError(t, store.CreateRecord(&domain.FoodRecord{
			Date:         ts,
			FoodMasterID: &master.ID,
		}))
	}

	records, err := store.RecordsOn(day.Add(9 * time.Hour))
	require.NoError(t, err)
	require.Len(t, records, len(inDay))
	for _, r := range records {
		require.NotNil(t, r.FoodMaster)
		assert.Equal(t, "Rice", r.FoodMaster.Name)
	}
}

func TestDeleteRecord_ClearsMasterReference(t *testing.T) {
	store := openTestStore(t)

	master := &domain.FoodMaster{Name: "Rice"}
	require.NoError(t, store.CreateMaster(master))

	record := &domain.FoodRecord{Date: time.Now(), FoodMasterID: &master.ID}
	require.NoError(t, store.CreateRecord(record))

	require.NoError(t, store.DeleteRecord(record.ID))

	records, err := store.RecordsOn(time.Now())
	require.NoError(t, err)
	assert.Empty(t, records)

	// The master survives record deletion.
	_, err = store.MasterByName("Rice")
	assert.NoError(t, err)
}

func TestDeleteRecord_NotFound(t *testing.T) {
	store := openTestStore(t)

	assert.ErrorIs(t, store.DeleteRecord(9999), domain.ErrRecordNotFound)
}

func TestSaveBodyComposition_OnePerDay(t *testing.T) {
	store := openTestStore(t)

	morning := time.Date(2026, 5, 2, 7, 30, 0, 0, time.UTC)
	evening := time.Date(2026, 5, 2, 21, 0, 0, 0, time.UTC)

	require.NoError(t, store.SaveBodyComposition(&domain.BodyComposition{
		Date: morning, Weight: 71.2, Height: 178,
	}))
	require.NoError(t, store.SaveBodyComposition(&domain.BodyComposition{
		Date: evening, Weight: 70.8, Height: 178,
	}))

	rows, err := store.BodyCompositions()
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.InDelta(t, 70.8, rows[0].Weight, 1e-9)
	assert.True(t, rows[0].Date.Equal(StartOfDay(morning)))
}

func TestWorkoutLifecycle(t *testing.T) {
	store := openTestStore(t)

	entry := &domain.WorkoutEntry{
		Date: time.Date(2026, 4, 1, 18, 0, 0, 0, time.UTC),
		Name: "push day",
		Exercises: []domain.Exercise{
			{Name: "bench press", Sets: 5, Reps: 5, Weight: 80},
			{Name: "overhead press", Sets: 3, Reps: 8, Weight: 45},
		},
	}
	require.NoError(t, store.CreateWorkout(entry))

	from := time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC)
	entries, err := store.WorkoutsBetween(from, from.AddDate(0, 0, 1))
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Len(t, entries[0].Exercises, 2)

	require.NoError(t, store.DeleteWorkout(entry.ID))
	entries, err = store.WorkoutsBetween(from, from.AddDate(0, 0, 1))
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestUpsertDailyCalories(t *testing.T) {
	store := openTestStore(t)

	day := time.Date(2026, 6, 10, 9, 0, 0, 0, time.UTC)
	require.NoError(t, store.UpsertDailyCalories(&domain.DailyCalories{Date: day, Consumed: 1500}))
	require.NoError(t, store.UpsertDailyCalories(&domain.DailyCalories{Date: day.Add(8 * time.Hour), Consumed: 2100, Burned: 400}))

	row, err := store.DailyCaloriesOn(day)
	require.NoError(t, err)
	assert.InDelta(t, 2100, row.Consumed, 1e-9)
	assert.InDelta(t, 400, row.Burned, 1e-9)
}

func TestTransaction_RollsBackOnError(t *testing.T) {
	store := openTestStore(t)

	err := store.Transaction(func(tx *Store) error {
		if err := tx.CreateMaster(&domain.FoodMaster{Name: "Doomed"}); err != nil {
			return err
		}
		return assert.AnError
	})
	require.Error(t, err)

	_, err = store.MasterByName("Doomed")
	assert.ErrorIs(t, err, domain.ErrRecordNotFound)
}
