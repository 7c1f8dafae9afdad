// Package dates decodes the backend's date-component arrays.
//
// Several endpoints (transactions, discounts, pricing) send timestamps as
// [year, month, day, hour, minute, second] with a 1-based month. time.Month is
// also 1-based, so the month is used as-is; no offset is applied.
package dates

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"
)

// DisplayLayout is the human-readable date rendering used by the console.
const DisplayLayout = "January 2, 2006"

// DateTime is a timestamp carried on the wire as a component array.
type DateTime struct {
	time.Time
}

// FromComponents builds a UTC time from [year, month(1-based), day, hour, minute, second].
// Missing trailing components are zero; extra components (nanoseconds) are honoured.
func FromComponents(parts []int) (time.Time, error) {
	if len(parts) == 0 {
		return time.Time{}, nil
	}
	if len(parts) < 3 {
		return time.Time{}, fmt.Errorf("dates: need at least year, month, day; got %v", parts)
	}
	var c [7]int
	copy(c[:], parts)
	if c[1] < 1 || c[1] > 12 {
		return time.Time{}, fmt.Errorf("dates: month %d out of range", c[1])
	}
	if c[2] < 1 || c[2] > 31 {
		return time.Time{}, fmt.Errorf("dates: day %d out of range", c[2])
	}
	t := time.Date(c[0], time.Month(c[1]), c[2], c[3], c[4], c[5], c[6], time.UTC)
	// time.Date normalises overflow; a rolled-over value is not the date that was sent
	if t.Year() != c[0] || int(t.Month()) != c[1] || t.Day() != c[2] ||
		t.Hour() != c[3] || t.Minute() != c[4] || t.Second() != c[5] || t.Nanosecond() != c[6] {
		return time.Time{}, fmt.Errorf("dates: %v is not a valid date", parts)
	}
	return t, nil
}

// Components returns the wire form of t.
func Components(t time.Time) []int {
	if t.IsZero() {
		return nil
	}
	t = t.UTC()
	return []int{t.Year(), int(t.Month()), t.Day(), t.Hour(), t.Minute(), t.Second()}
}

// UnmarshalJSON accepts a component array, null, or an ISO-8601 string.
func (d *DateTime) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		d.Time = time.Time{}
		return nil
	}

	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		if s == "" {
			d.Time = time.Time{}
			return nil
		}
		for _, layout := range []string{time.RFC3339Nano, "2006-01-02T15:04:05", "2006-01-02"} {
			if t, err := time.Parse(layout, s); err == nil {
				d.Time = t
				return nil
			}
		}
		return fmt.Errorf("dates: unrecognised timestamp %q", s)
	}

	var parts []int
	if err := json.Unmarshal(data, &parts); err != nil {
		return fmt.Errorf("dates: %w", err)
	}
	t, err := FromComponents(parts)
	if err != nil {
		return err
	}
	d.Time = t
	return nil
}

// MarshalJSON writes the component array, or null for the zero time.
func (d DateTime) MarshalJSON() ([]byte, error) {
	if d.IsZero() {
		return []byte("null"), nil
	}
	return json.Marshal(Components(d.Time))
}

// Display renders the date as "March 8, 2024", or "" for the zero time.
func (d DateTime) Display() string {
	if d.IsZero() {
		return ""
	}
	return d.Format(DisplayLayout)
}

// DisplayTime renders date and time, or "" for the zero time.
func (d DateTime) DisplayTime() string {
	if d.IsZero() {
		return ""
	}
	return d.Format(DisplayLayout + " 15:04")
}
