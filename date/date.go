// Package date provides day-granularity dates and chronological series of
// values, the building blocks for historical price data.
package date

import (
	"encoding/json"
	"fmt"
	"iter"
	"time"
)

// DateFormat is the ISO-8601 format dates are written in.
const DateFormat = "2006-01-02"

// parseFormat also accepts single-digit month and day, e.g. "2025-7-1".
const parseFormat = "2006-1-2"

const Day = 24 * time.Hour

// Date is a calendar day, without a time of day or a location.
type Date struct {
	y int
	m time.Month
	d int
}

// New returns the Date for the given year, month and day, normalized the way
// time.Date normalizes (so New(2025, 1, 32) is February 1st).
func New(year int, month time.Month, day int) Date {
	t := time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
	var d Date
	d.y, d.m, d.d = t.Date()
	return d
}

// Today returns the current local date.
func Today() Date { return New(time.Now().Date()) }

// FromUnix returns the UTC day containing the given Unix time.
func FromUnix(sec int64) Date { return New(time.Unix(sec, 0).UTC().Date()) }

// midnight is the canonical instant of the day, midnight UTC.
func (d Date) midnight() time.Time { return time.Date(d.y, d.m, d.d, 0, 0, 0, 0, time.UTC) }

func (d Date) Year() int         { return d.y }
func (d Date) Month() time.Month { return d.m }
func (d Date) Day() int          { return d.d }

// Weekday returns the day of the week.
func (d Date) Weekday() time.Weekday { return d.midnight().Weekday() }

// ISOWeek returns the ISO 8601 year and week number of the date.
func (d Date) ISOWeek() (year, week int) { return d.midnight().ISOWeek() }

// IsZero reports whether d is the zero Date.
func (d Date) IsZero() bool { return d == Date{} }

// Before reports whether d falls before x.
func (d Date) Before(x Date) bool {
	if d.y != x.y {
		return d.y < x.y
	}
	if d.m != x.m {
		return d.m < x.m
	}
	return d.d < x.d
}

// After reports whether d falls after x.
func (d Date) After(x Date) bool { return x.Before(d) }

// Sub returns the number of whole days from x to d.
func (d Date) Sub(x Date) int { return int(d.midnight().Sub(x.midnight()) / Day) }

// Add returns the date i days later (or earlier for negative i).
func (d Date) Add(i int) Date { return New(d.y, d.m, d.d+i) }

// AddYears returns the date i years later, on the same month and day.
func (d Date) AddYears(i int) Date { return New(d.y+i, d.m, d.d) }

// Unix returns the date as seconds since the Unix epoch, at midnight UTC.
func (d Date) Unix() int64 { return d.midnight().Unix() }

// String formats the date as ISO-8601.
func (d Date) String() string { return d.midnight().Format(DateFormat) }

// Format formats the date with a time layout. See [time.Format].
func (d Date) Format(layout string) string { return d.midnight().Format(layout) }

// Parse reads a Date from a string. Single-digit months and days are
// accepted, "2025-7-1" parses as July 1st.
func Parse(str string) (Date, error) {
	t, err := time.Parse(parseFormat, str)
	if err != nil {
		return Date{}, fmt.Errorf("invalid date %q want format %q: %w", str, parseFormat, err)
	}
	return New(t.Date()), nil
}

// MustParse is like Parse but panics on error. For tests and constants.
func MustParse(str string) Date {
	d, err := Parse(str)
	if err != nil {
		panic(err.Error())
	}
	return d
}

func (d Date) MarshalJSON() ([]byte, error) { return json.Marshal(d.String()) }

func (d *Date) UnmarshalJSON(bytes []byte) error {
	var str string
	if err := json.Unmarshal(bytes, &str); err != nil {
		return err
	}
	parsed, err := Parse(str)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

var (
	_ json.Marshaler   = Date{}
	_ json.Unmarshaler = (*Date)(nil)
)

// Iterate yields every distinct date of the given histories, in
// chronological order. It merges the sorted day slices the way a k-way merge
// does, without materializing the union.
func Iterate[T float32 | float64 | string](histories ...*History[T]) iter.Seq[Date] {
	return func(yield func(Date) bool) {
		cursors := make([]int, len(histories))
		for {
			var next Date
			found := false
			for i, h := range histories {
				if cursors[i] >= len(h.days) {
					continue
				}
				if on := h.days[cursors[i]]; !found || on.Before(next) {
					next, found = on, true
				}
			}
			if !found {
				return
			}
			for i, h := range histories {
				if cursors[i] < len(h.days) && h.days[cursors[i]] == next {
					cursors[i]++
				}
			}
			if !yield(next) {
				return
			}
		}
	}
}
