// Package elapsed renders how long ago something happened.
package elapsed

import (
	"errors"
	"fmt"
	"time"
)

// ErrFuture is returned when the reference time is after now.
var ErrFuture = errors.New("elapsed: time is in the future")

const (
	day  = 24 * time.Hour
	week = 7 * day
)

// Since describes the time between t and now, e.g. "5 minutes ago". The zero
// time yields "".
func Since(now, t time.Time) (string, error) {
	if t.IsZero() {
		return "", nil
	}

	delta := now.Sub(t)
	if delta < 0 {
		return "", fmt.Errorf("%w: %s", ErrFuture, t.Format(time.RFC3339))
	}

	switch {
	case delta < time.Hour:
		return plural(int(delta/time.Minute), "minute"), nil
	case delta < day:
		return plural(int(delta/time.Hour), "hour"), nil
	case delta < week:
		return plural(int(delta/day), "day"), nil
	default:
		return "over a week ago", nil
	}
}

func plural(n int, unit string) string {
	if n == 1 {
		return fmt.Sprintf("1 %s ago", unit)
	}
	return fmt.Sprintf("%d %ss ago", n, unit)
}
