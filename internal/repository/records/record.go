// Package records decodes loosely typed rows (spreadsheet cells, JSON
// objects) into validated farm models.
package records

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

// Record is one row keyed by column name.
type Record map[string]any

var dateLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05Z07:00",
	"2006-01-02 15:04:05-07",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006-01-02",
	"02/01/2006 15:04:05",
	"02/01/2006 15:04",
	"02/01/2006",
}

// FromRows turns a sheet range whose first row holds the column names into
// records. Short rows leave the missing columns absent.
func FromRows(rows [][]interface{}) []Record {
	if len(rows) == 0 {
		return nil
	}
	header := make([]string, len(rows[0]))
	for i, cell := range rows[0] {
		header[i] = strings.ToLower(strings.TrimSpace(fmt.Sprint(cell)))
	}

	out := make([]Record, 0, len(rows)-1)
	for _, row := range rows[1:] {
		rec := make(Record, len(header))
		empty := true
		for i, cell := range row {
			if i >= len(header) || header[i] == "" {
				continue
			}
			rec[header[i]] = cell
			if strings.TrimSpace(fmt.Sprint(cell)) != "" {
				empty = false
			}
		}
		if !empty {
			out = append(out, rec)
		}
	}
	return out
}

// String returns the trimmed text of key, "" when absent or null.
func (r Record) String(key string) string {
	v, ok := r[key]
	if !ok || v == nil {
		return ""
	}
	switch t := v.(type) {
	case string:
		return strings.TrimSpace(t)
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	}
	return strings.TrimSpace(fmt.Sprint(v))
}

// Float parses key as a number. Absent or blank values are 0.
func (r Record) Float(key string) (float64, error) {
	switch t := r[key].(type) {
	case float64:
		return t, nil
	case int:
		return float64(t), nil
	case int64:
		return float64(t), nil
	}
	return parseFloat(r.String(key))
}

// Int parses key as a whole number. Absent or blank values are 0.
func (r Record) Int(key string) (int, error) {
	f, err := r.Float(key)
	if err != nil {
		return 0, err
	}
	if f != math.Trunc(f) {
		return 0, fmt.Errorf("%s: %v is not a whole number", key, f)
	}
	return int(f), nil
}

// TimeIn parses key with the accepted date layouts. Values without a zone
// are read as wall time in loc (UTC when nil). Absent values are the zero time.
func (r Record) TimeIn(key string, loc *time.Location) (time.Time, error) {
	if t, ok := r[key].(time.Time); ok {
		return t, nil
	}
	return parseDate(r.String(key), loc)
}

// OptionalTimeIn is TimeIn returning nil for absent values.
func (r Record) OptionalTimeIn(key string, loc *time.Location) (*time.Time, error) {
	t, err := r.TimeIn(key, loc)
	if err != nil || t.IsZero() {
		return nil, err
	}
	return &t, nil
}

func parseDate(value string, loc *time.Location) (time.Time, error) {
	if value == "" {
		return time.Time{}, nil
	}
	if loc == nil {
		loc = time.UTC
	}
	for _, layout := range dateLayouts {
		if t, err := time.ParseInLocation(layout, value, loc); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized date %q", value)
}

// parseFloat accepts "1200.5", "1 200,5", "1,200.5", "1.200,5" and "12%".
// When both separators appear the last one is the decimal point.
func parseFloat(value string) (float64, error) {
	str := strings.NewReplacer(" ", "", "\u00a0", "", "\u202f", "", "%", "").Replace(value)
	if str == "" {
		return 0, nil
	}
	comma, dot := strings.LastIndex(str, ","), strings.LastIndex(str, ".")
	switch {
	case comma >= 0 && dot >= 0 && comma > dot:
		str = strings.ReplaceAll(strings.ReplaceAll(str, ".", ""), ",", ".")
	case comma >= 0 && dot >= 0:
		str = strings.ReplaceAll(str, ",", "")
	case comma >= 0:
		str = strings.ReplaceAll(str, ",", ".")
	}
	f, err := strconv.ParseFloat(str, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid number %q", value)
	}
	return f, nil
}
