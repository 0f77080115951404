package util

import "fmt"

// FormatPercent renders part over total as a percentage string with one
// decimal place. A zero total renders as "0%" rather than dividing.
func FormatPercent(part, total int) string {
	if total == 0 {
		return "0%"
	}
	return fmt.Sprintf("%.1f%%", float64(part)/float64(total)*100)
}
