package localdb

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nutrilog/backend/internal/domain"
)

// seedBodyComposition inserts a raw row without the SaveBodyComposition
// day-normalization, to simulate pre-migration data.
func seedBodyComposition(t *testing.T, store *Store, date time.Time, weight float64) {
	t.Helper()
	require.NoError(t, store.db.Create(&domain.BodyComposition{
		Date:   date,
		Weight: weight,
		Height: 175,
	}).Error)
}

func TestNormalizeBodyCompositionDates_CollapsesSameDay(t *testing.T) {
	store := openTestStore(t)

	morning := time.Date(2026, 2, 3, 8, 15, 0, 0, time.UTC)
	evening := time.Date(2026, 2, 3, 22, 40, 0, 0, time.UTC)
	seedBodyComposition(t, store, morning, 72.5)
	seedBodyComposition(t, store, evening, 71.9)

	changed, err := store.NormalizeBodyCompositionDates()
	require.NoError(t, err)
	assert.Equal(t, 2, changed) // one delete, one date rewrite

	rows, err := store.BodyCompositions()
	require.NoError(t, err)
	require.Len(t, rows, 1)
	// The chronologically later row's values survive.
	assert.InDelta(t, 71.9, rows[0].Weight, 1e-9)
	assert.True(t, rows[0].Date.Equal(time.Date(2026, 2, 3, 0, 0, 0, 0, time.UTC)))
}

func TestNormalizeBodyCompositionDates_RewritesNonMidnightDates(t *testing.T) {
	store := openTestStore(t)

	seedBodyComposition(t, store, time.Date(2026, 2, 4, 6, 0, 0, 0, time.UTC), 70)
	seedBodyComposition(t, store, time.Date(2026, 2, 5, 19, 30, 0, 0, time.UTC), 69.5)

	changed, err := store.NormalizeBodyCompositionDates()
	require.NoError(t, err)
	assert.Equal(t, 2, changed)

	rows, err := store.BodyCompositions()
	require.NoError(t, err)
	require.Len(t, rows, 2)
	for _, row := range rows {
		d := row.Date.UTC()
		assert.Zero(t, d.Hour())
		assert.Zero(t, d.Minute())
	}
}

func TestNormalizeBodyCompositionDates_Idempotent(t *testing.T) {
	store := openTestStore(t)

	seedBodyComposition(t, store, time.Date(2026, 2, 6, 11, 0, 0, 0, time.UTC), 70)

	first, err := store.NormalizeBodyCompositionDates()
	require.NoError(t, err)
	assert.Equal(t, 1, first)

	// A second pass finds nothing to do.
	second, err := store.NormalizeBodyCompositionDates()
	require.NoError(t, err)
	assert.Zero(t, second)
}

func TestNormalizeBodyCompositionDates_EmptyTable(t *testing.T) {
	store := openTestStore(t)

	changed, err := store.NormalizeBodyCompositionDates()
	require.NoError(t, err)
	assert.Zero(t, changed)
}
