// Package window selects the entries shown together in the gallery.
package window

import (
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/samber/lo"

	"apod-gallery/pkg/models"
)

const (
	// Size is the number of entries in a full window
	Size = 9

	// DefaultMaxExtension is the number of days the end of a window may be pushed forward
	DefaultMaxExtension = 45

	// lastDate is the largest date that keeps the lexical ordering of the layout
	lastDate = "9999-12-31"
)

var (
	// ErrEmptyFeed is returned when the index holds no entries
	ErrEmptyFeed = errors.New("feed has no entries")

	// ErrNotEnoughData is returned when forward extension cannot fill a window
	ErrNotEnoughData = errors.New("not enough entries to fill the window")

	// ErrInvalidDate is returned for start dates that are not valid YYYY-MM-DD dates
	ErrInvalidDate = errors.New("invalid date")
)

// Index is the read-only view of the feed the selector works on
type Index interface {
	// Len returns the number of entries
	Len() int
	// Dates returns all entry dates in ascending order
	Dates() []string
	// Get returns the entry for a date
	Get(date string) (models.Entry, bool)
}

// Selector picks windows of Size entries from an Index
type Selector struct {
	// MaxExtension bounds the forward extension in days
	MaxExtension int
}

// Result is a resolved window, possibly produced by the fallback
type Result struct {
	Start    string
	Entries  []models.Entry
	Fallback bool
}

// New creates a selector with the given extension bound
func New(maxExtension int) Selector {
	if maxExtension < 0 {
		maxExtension = 0
	}
	return Selector{MaxExtension: maxExtension}
}

// ParseDate parses a YYYY-MM-DD date in UTC
func ParseDate(s string) (time.Time, error) {
	t, err := time.ParseInLocation(models.DateLayout, s, time.UTC)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidDate, s)
	}
	return t, nil
}

// FormatDate formats t as YYYY-MM-DD, clamping to the last four-digit year
func FormatDate(t time.Time) string {
	if t.Year() > 9999 {
		return lastDate
	}
	return t.UTC().Format(models.DateLayout)
}

// AddDays shifts a YYYY-MM-DD date by n days
func AddDays(date string, n int) (string, error) {
	t, err := ParseDate(date)
	if err != nil {
		return "", err
	}
	return FormatDate(t.AddDate(0, 0, n)), nil
}

// Select returns the first Size entries on or after start.
// The range [start, start+Size-1] is widened one day at a time, at most
// MaxExtension days, until it holds Size entries.
func (s Selector) Select(start string, idx Index) ([]models.Entry, error) {
	if idx.Len() == 0 {
		return nil, ErrEmptyFeed
	}
	from, err := ParseDate(start)
	if err != nil {
		return nil, err
	}

	dates := idx.Dates()
	lower := sort.SearchStrings(dates, FormatDate(from))

	// Every extension step only adds dates at the end, so the widest range
	// decides whether any step succeeds and the first Size dates are the same.
	limit := FormatDate(from.AddDate(0, 0, Size-1+max(s.MaxExtension, 0)))
	if lower+Size > len(dates) || dates[lower+Size-1] > limit {
		return nil, ErrNotEnoughData
	}

	return collect(idx, dates[lower:lower+Size]), nil
}

// Resolve selects the window for start, falling back to the latest entries
// when the requested range cannot be filled. An empty start selects the
// default window.
func (s Selector) Resolve(start string, idx Index) (Result, error) {
	if idx.Len() == 0 {
		return Result{}, ErrEmptyFeed
	}
	if start == "" {
		def, err := DefaultStart(idx)
		if err != nil {
			return Result{}, err
		}
		start = def
	}

	entries, err := s.Select(start, idx)
	if err == nil {
		return Result{Start: start, Entries: entries}, nil
	}
	if !errors.Is(err, ErrNotEnoughData) {
		return Result{}, err
	}

	entries, err = Latest(idx)
	if err != nil {
		return Result{}, err
	}
	return Result{Start: entries[0].Date, Entries: entries, Fallback: true}, nil
}

// Latest returns the Size most recent entries in ascending order.
// Fewer are returned when the index is smaller than a window.
func Latest(idx Index) ([]models.Entry, error) {
	if idx.Len() == 0 {
		return nil, ErrEmptyFeed
	}
	dates := idx.Dates()
	return collect(idx, dates[max(len(dates)-Size, 0):]), nil
}

// DefaultStart returns the start of the window ending at the latest entry
func DefaultStart(idx Index) (string, error) {
	if idx.Len() == 0 {
		return "", ErrEmptyFeed
	}
	dates := idx.Dates()
	return AddDays(dates[len(dates)-1], -(Size - 1))
}

func collect(idx Index, dates []string) []models.Entry {
	return lo.Map(dates, func(date string, _ int) models.Entry {
		entry, _ := idx.Get(date)
		return entry
	})
}
