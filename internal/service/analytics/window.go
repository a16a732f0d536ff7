package analytics

import (
	"time"

	"github.com/mamadbah2/aquafarm/internal/domain/models"
)

const requestDateLayout = "2006-01-02"

// ResolveWindow turns the optional period_start and period_end request
// fields (yyyy-mm-dd, both days included) into a window in loc. A missing
// start leaves the window open; a missing end stops it at now.
func ResolveWindow(start, end string, now time.Time, loc *time.Location) (models.Window, error) {
	if loc == nil {
		loc = time.UTC
	}
	w := models.Window{End: now.In(loc)}

	if start != "" {
		t, err := time.ParseInLocation(requestDateLayout, start, loc)
		if err != nil {
			return models.Window{}, NewInputError("period_start", "expected a yyyy-mm-dd date, got %q", start)
		}
		w.Start = t
	}
	if end != "" {
		t, err := time.ParseInLocation(requestDateLayout, end, loc)
		if err != nil {
			return models.Window{}, NewInputError("period_end", "expected a yyyy-mm-dd date, got %q", end)
		}
		w.End = t.AddDate(0, 0, 1).Add(-time.Nanosecond)
	}
	if !w.Start.IsZero() && w.End.Before(w.Start) {
		return models.Window{}, NewInputError("period_end", "period_end %s is before period_start %s", end, start)
	}
	return w, nil
}

// ReferenceDate is the day a report is anchored on: period_start when
// given, else now.
func ReferenceDate(start string, now time.Time, loc *time.Location) (time.Time, error) {
	if loc == nil {
		loc = time.UTC
	}
	if start == "" {
		return now.In(loc), nil
	}
	t, err := time.ParseInLocation(requestDateLayout, start, loc)
	if err != nil {
		return time.Time{}, NewInputError("period_start", "expected a yyyy-mm-dd date, got %q", start)
	}
	return t, nil
}
