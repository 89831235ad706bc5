package dataset

import (
	"encoding/json"
	"os"
	"strings"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/nutrilog/backend/internal/domain"
)

// searchResultCap bounds a single substring search.
const searchResultCap = 50

// Loader serves the bundled standard-foods dataset. The JSON file is read
// once on first access; a missing or broken bundle logs a warning and leaves
// the dataset empty rather than failing startup.
type Loader struct {
	path string
	log  *logrus.Logger

	once  sync.Once
	items []indexedItem
}

type indexedItem struct {
	item       domain.FoodItem
	normalized string
}

// bundledProduct is the shared-product-shaped entry format of the bundle.
type bundledProduct struct {
	Name      string               `json:"name"`
	Category  string               `json:"category"`
	Nutrition domain.NutritionInfo `json:"nutrition"`
}

// NewLoader creates a dataset loader for the given bundle path.
func NewLoader(path string, log *logrus.Logger) *Loader {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Loader{path: path, log: log}
}

// Search returns bundled foods whose normalized name contains the normalized
// query, capped at 50 results. An empty query matches nothing.
func (l *Loader) Search(query string) []domain.FoodItem {
	l.once.Do(l.load)

	needle := NormalizeName(query)
	if needle == "" {
		return nil
	}

	var results []domain.FoodItem
	for _, entry := range l.items {
		if containsNormalized(entry.normalized, needle) {
			results = append(results, entry.item)
			if len(results) == searchResultCap {
				break
			}
		}
	}
	return results
}

// Size returns the number of loaded entries.
func (l *Loader) Size() int {
	l.once.Do(l.load)
	return len(l.items)
}

func (l *Loader) load() {
	data, err := os.ReadFile(l.path)
	if err != nil {
		l.log.WithFields(logrus.Fields{
			"component": "dataset",
			"path":      l.path,
		}).WithError(err).Warn("bundled dataset unavailable; searches will return nothing")
		return
	}

	var products []bundledProduct
	if err := json.Unmarshal(data, &products); err != nil {
		l.log.WithFields(logrus.Fields{
			"component": "dataset",
			"path":      l.path,
		}).WithError(err).Warn("bundled dataset is malformed; searches will return nothing")
		return
	}

	l.items = make([]indexedItem, 0, len(products))
	for _, p := range products {
		item := domain.FoodItem{
			Name:      p.Name,
			Category:  p.Category,
			Nutrition: p.Nutrition,
		}
		l.items = append(l.items, indexedItem{
			item:       item,
			normalized: NormalizeName(p.Name),
		})
	}

	l.log.WithFields(logrus.Fields{
		"component": "dataset",
		"entries":   len(l.items),
	}).Info("bundled dataset loaded")
}

func containsNormalized(haystack, needle string) bool {
	return needle != "" && strings.Contains(haystack, needle)
}
