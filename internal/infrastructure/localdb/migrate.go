package localdb

import (
	"github.com/sirupsen/logrus"

	"github.com/nutrilog/backend/internal/domain"
)

// NormalizeBodyCompositionDates is the one-shot startup migration that
// rewrites body composition dates to midnight. When two rows land on the same
// calendar day the chronologically later one wins and the earlier is deleted.
// Idempotent: a fully normalized table results in zero writes. Returns the
// number of rows changed or removed.
func (s *Store) NormalizeBodyCompositionDates() (int, error) {
	changed := 0

	err := s.Transaction(func(tx *Store) error {
		var rows []domain.BodyComposition
		if err := tx.db.Order("date ASC").Find(&rows).Error; err != nil {
			return err
		}

		// Pick the winner per calendar day: the row with the latest raw
		// timestamp.
		winners := make(map[int64]domain.BodyComposition)
		for _, row := range rows {
			day := StartOfDay(row.Date).Unix()
			current, ok := winners[day]
			if !ok || row.Date.After(current.Date) {
				winners[day] = row
			}
		}

		for _, row := range rows {
			day := StartOfDay(row.Date)
			winner := winners[day.Unix()]

			if row.ID != winner.ID {
				if err := tx.db.Delete(&domain.BodyComposition{}, row.ID).Error; err != nil {
					return err
				}
				changed++
				continue
			}

			if !row.Date.Equal(day) {
				if err := tx.db.Model(&domain.BodyComposition{}).
					Where("id = ?", row.ID).
					Update("date", day).Error; err != nil {
					return err
				}
				changed++
			}
		}
		return nil
	})
	if err != nil {
		return 0, err
	}

	if changed > 0 {
		s.log.WithFields(logrus.Fields{
			"component": "localdb",
			"rows":      changed,
		}).Info("normalized body composition dates")
	}
	return changed, nil
}
