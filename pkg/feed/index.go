package feed

import (
	"sort"
	"time"

	"github.com/samber/lo"
	log "github.com/sirupsen/logrus"

	"apod-gallery/pkg/models"
)

// Index is an immutable date-keyed view over a set of entries
type Index struct {
	byDate map[string]models.Entry
	dates  []string
}

// NewIndex builds an index from raw feed entries.
// Entries without a valid YYYY-MM-DD date are skipped; for duplicate dates the
// later entry wins.
func NewIndex(entries []models.Entry) *Index {
	byDate := make(map[string]models.Entry, len(entries))
	skipped := 0

	for _, entry := range entries {
		if _, err := time.Parse(models.DateLayout, entry.Date); err != nil {
			skipped++
			continue
		}
		byDate[entry.Date] = entry
	}

	if skipped > 0 {
		log.WithFields(log.Fields{
			"skipped": skipped,
			"total":   len(entries),
		}).Warn("Skipping feed entries with invalid dates")
	}

	dates := lo.Keys(byDate)
	sort.Strings(dates)

	return &Index{byDate: byDate, dates: dates}
}

// Len returns the number of indexed entries
func (i *Index) Len() int {
	if i == nil {
		return 0
	}
	return len(i.dates)
}

// Dates returns the indexed dates in ascending order. The slice is shared and
// must not be modified.
func (i *Index) Dates() []string {
	if i == nil {
		return nil
	}
	return i.dates
}

// Get returns the entry for a date
func (i *Index) Get(date string) (models.Entry, bool) {
	if i == nil {
		return models.Entry{}, false
	}
	entry, ok := i.byDate[date]
	return entry, ok
}
