package daterange

import (
	"fmt"
	"time"
)

// Month identifies a displayed calendar month.
type Month struct {
	Year  int
	Month time.Month
}

func MonthOf(t time.Time) Month {
	return Month{Year: t.Year(), Month: t.Month()}
}

// ParseMonth reads the YYYY-MM form produced by String.
func ParseMonth(raw string) (Month, error) {
	t, err := time.Parse("2006-01", raw)
	if err != nil {
		return Month{}, fmt.Errorf("daterange: invalid month %q: %w", raw, err)
	}
	return MonthOf(t), nil
}

// Add moves delta months, wrapping across year boundaries.
func (m Month) Add(delta int) Month {
	return MonthOf(m.First().AddDate(0, delta, 0))
}

func (m Month) First() time.Time {
	return time.Date(m.Year, m.Month, 1, 0, 0, 0, 0, time.UTC)
}

func (m Month) Days() int {
	return m.First().AddDate(0, 1, -1).Day()
}

func (m Month) Contains(t time.Time) bool {
	return MonthOf(Day(t)) == m
}

func (m Month) String() string {
	return fmt.Sprintf("%04d-%02d", m.Year, int(m.Month))
}
