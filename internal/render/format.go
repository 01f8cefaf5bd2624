// Package render formats analyzed run summaries for terminal output.
package render

import (
	"fmt"
	"time"
)

// FormatDuration formats a duration for human-readable output.
// Handles milliseconds, seconds, and minutes.
func FormatDuration(d time.Duration) string {
	if d < time.Second {
		return fmt.Sprintf("%.0fms", float64(d.Milliseconds()))
	}
	if d < time.Minute {
		return fmt.Sprintf("%.1fs", d.Seconds())
	}

	return fmt.Sprintf("%.1fm", d.Minutes())
}

// FormatBytes converts bytes to human-readable format (KiB, MiB, GiB, etc.)
func FormatBytes(bytes int64) string {
	const unit = 1024
	if bytes < unit {
		return fmt.Sprintf("%d B", bytes)
	}

	div, exp := int64(unit), 0
	for n := bytes / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}

	return fmt.Sprintf("%.1f %cB", float64(bytes)/float64(div), "KMGTPE"[exp])
}

// FormatRate formats a per-second throughput value.
func FormatRate(v float64) string {
	return fmt.Sprintf("%.2f/s", v)
}

// FormatPercent formats a percentage with two decimals.
func FormatPercent(v float64) string {
	return fmt.Sprintf("%.2f%%", v)
}
