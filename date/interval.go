package date

import (
	"fmt"
	"strings"
)

// Interval is the sampling granularity of a price series.
type Interval int

const (
	Daily Interval = iota
	Weekly
	Monthly
)

func (i Interval) String() string {
	switch i {
	case Daily:
		return "daily"
	case Weekly:
		return "weekly"
	case Monthly:
		return "monthly"
	default:
		panic(fmt.Sprintf("unknown interval %d", int(i)))
	}
}

func ParseInterval(s string) (Interval, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "daily", "day":
		return Daily, nil
	case "weekly", "week":
		return Weekly, nil
	case "monthly", "month":
		return Monthly, nil
	default:
		return Weekly, fmt.Errorf("unknown interval %q", s)
	}
}
