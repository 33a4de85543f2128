package booking

import (
	"errors"
	"fmt"
	"time"
)

// MonthLayout is the canonical textual form of a Month.
const MonthLayout = "2006-01"

// ErrInvalidMonth is returned when a month string cannot be parsed.
var ErrInvalidMonth = errors.New("invalid month")

// Month identifies one calendar month; it keys per-month availability slices.
type Month struct {
	Year  int
	Month time.Month
}

// ParseMonth parses a month in the 2006-01 layout.
func ParseMonth(s string) (Month, error) {
	t, err := time.Parse(MonthLayout, s)
	if err != nil {
		return Month{}, fmt.Errorf("%w: %q", ErrInvalidMonth, s)
	}
	return Month{Year: t.Year(), Month: t.Month()}, nil
}

// First returns the first day of m.
func (m Month) First() Date { return NewDate(m.Year, m.Month, 1) }

// End returns the first day of the following month, the exclusive bound of m.
func (m Month) End() Date { return m.Next().First() }

// Prev returns the month before m.
func (m Month) Prev() Month { return m.First().AddDays(-1).MonthOf() }

// Next returns the month after m.
func (m Month) Next() Month {
	d := NewDate(m.Year, m.Month+1, 1)
	return d.MonthOf()
}

// Days returns the number of days in m.
func (m Month) Days() int { return m.First().DaysUntil(m.End()) }

// Contains reports whether d falls within m.
func (m Month) Contains(d Date) bool {
	return d.Year() == m.Year && d.Month() == m.Month
}

// String formats m as 2006-01.
func (m Month) String() string {
	return fmt.Sprintf("%04d-%02d", m.Year, int(m.Month))
}
