// Package timefmt renders durations the way kubectl prints pod ages.
package timefmt

import (
	"fmt"
	"time"
)

// Age formats a duration as a single coarse unit: 42s, 12m, 3h, 7d.
func Age(d time.Duration) string {
	seconds := int64(d.Seconds())
	if seconds < 0 {
		seconds = 0
	}
	switch {
	case seconds < 60:
		return fmt.Sprintf("%ds", seconds)
	case seconds < 3600:
		return fmt.Sprintf("%dm", seconds/60)
	case seconds < 86400:
		return fmt.Sprintf("%dh", seconds/3600)
	default:
		return fmt.Sprintf("%dd", seconds/86400)
	}
}
