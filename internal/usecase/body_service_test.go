package usecase

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nutrilog/backend/internal/domain"
	"github.com/nutrilog/backend/internal/infrastructure/localdb"
)

func newTestBodyMetrics(t *testing.T) *BodyMetricsService {
	t.Helper()
	store, err := localdb.Open(filepath.Join(t.TempDir(), "nutrilog.db"), nil)
	require.NoError(t, err)
	return NewBodyMetricsService(store, nil)
}

func validSnapshot() BodySnapshotInput {
	return BodySnapshotInput{
		Date:              time.Date(2026, 8, 10, 7, 30, 0, 0, time.UTC),
		Height:            172,
		Weight:            68,
		Age:               29,
		Gender:            "male",
		BodyFatPercentage: 18,
	}
}

func TestSaveSnapshot_ComputesBMR(t *testing.T) {
	service := newTestBodyMetrics(t)

	entry, err := service.SaveSnapshot(validSnapshot())
	require.NoError(t, err)

	want := HarrisBenedictBMR(68, 172, 29, "male")
	assert.InDelta(t, want, entry.BasalMetabolicRate, 1e-9)
	// Stored at midnight of the entry's day.
	assert.Equal(t, 0, entry.Date.Hour())
	assert.Equal(t, 0, entry.Date.Minute())
}

func TestSaveSnapshot_ValidationRanges(t *testing.T) {
	service := newTestBodyMetrics(t)

	tests := []struct {
		name   string
		mutate func(*BodySnapshotInput)
	}{
		{"height too low", func(in *BodySnapshotInput) { in.Height = 99 }},
		{"height too high", func(in *BodySnapshotInput) { in.Height = 251 }},
		{"weight too low", func(in *BodySnapshotInput) { in.Weight = 19 }},
		{"weight too high", func(in *BodySnapshotInput) { in.Weight = 301 }},
		{"age too low", func(in *BodySnapshotInput) { in.Age = 9 }},
		{"age too high", func(in *BodySnapshotInput) { in.Age = 121 }},
		{"body fat too low", func(in *BodySnapshotInput) { in.BodyFatPercentage = 2 }},
		{"body fat too high", func(in *BodySnapshotInput) { in.BodyFatPercentage = 61 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			input := validSnapshot()
			tt.mutate(&input)
			_, err := service.SaveSnapshot(input)
			assert.ErrorIs(t, err, domain.ErrMeasurementOutOfRange)
		})
	}
}

func TestSaveSnapshot_ZeroBodyFatIsUnset(t *testing.T) {
	service := newTestBodyMetrics(t)

	input := validSnapshot()
	input.BodyFatPercentage = 0

	_, err := service.SaveSnapshot(input)
	assert.NoError(t, err)
}

func TestSaveSnapshot_OnePerDay(t *testing.T) {
	service := newTestBodyMetrics(t)

	morning := validSnapshot()
	_, err := service.SaveSnapshot(morning)
	require.NoError(t, err)

	evening := validSnapshot()
	evening.Date = morning.Date.Add(12 * time.Hour)
	evening.Weight = 67.4
	_, err = service.SaveSnapshot(evening)
	require.NoError(t, err)

	history, err := service.History()
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.InDelta(t, 67.4, history[0].Weight, 1e-9)
}

func TestSnapshotOn(t *testing.T) {
	service := newTestBodyMetrics(t)

	input := validSnapshot()
	_, err := service.SaveSnapshot(input)
	require.NoError(t, err)

	row, err := service.SnapshotOn(input.Date.Add(20 * time.Hour))
	require.NoError(t, err)
	assert.InDelta(t, 68, row.Weight, 1e-9)

	_, err = service.SnapshotOn(input.Date.AddDate(0, 0, 1))
	assert.ErrorIs(t, err, domain.ErrRecordNotFound)
}

func TestHarrisBenedictBMR(t *testing.T) {
	// Revised Harris-Benedict, spot values.
	male := HarrisBenedictBMR(70, 175, 30, "male")
	assert.InDelta(t, 88.362+13.397*70+4.799*175-5.677*30, male, 1e-9)

	female := HarrisBenedictBMR(58, 162, 25, "female")
	assert.InDelta(t, 447.593+9.247*58+3.098*162-4.330*25, female, 1e-9)

	assert.Greater(t, male, female)
}

func TestBMI(t *testing.T) {
	assert.InDelta(t, 22.2, BMI(172, 65.7), 0.05)
	assert.Zero(t, BMI(0, 70))
}

func TestMigrateDates_Delegates(t *testing.T) {
	service := newTestBodyMetrics(t)

	changed, err := service.MigrateDates()
	require.NoError(t, err)
	assert.Zero(t, changed)
}
