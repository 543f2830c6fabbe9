package timer

import "fmt"

// FormatElapsed renders seconds as "1h 2m 3s", "2m 3s" or "3s".
func FormatElapsed(seconds int64) string {
	if seconds < 0 {
		seconds = 0
	}
	hours := seconds / 3600
	minutes := (seconds % 3600) / 60
	rest := seconds % 60

	switch {
	case hours > 0:
		return fmt.Sprintf("%dh %dm %ds", hours, minutes, rest)
	case minutes > 0:
		return fmt.Sprintf("%dm %ds", minutes, rest)
	default:
		return fmt.Sprintf("%ds", rest)
	}
}
