package utils

import "fmt"

// FormatRoundedUnit renders a duration in seconds in its largest whole unit,
// rounding down: 59 -> "59s", 3599 -> "59m", 3600 -> "1h". The sign is
// dropped.
func FormatRoundedUnit(seconds int64) string {
	if seconds < 0 {
		seconds = -seconds
	}
	switch {
	case seconds < 60:
		return fmt.Sprintf("%ds", seconds)
	case seconds < 3600:
		return fmt.Sprintf("%dm", seconds/60)
	default:
		return fmt.Sprintf("%dh", seconds/3600)
	}
}
