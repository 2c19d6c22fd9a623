package render

import "fmt"

// HumanSize formats a byte count the way the SIZE and TOTAL_SIZE
// placeholders render it: two decimals with a binary-step unit,
// e.g. "11.00 B", "1.00 KB".
func HumanSize(n int64) string {
	value := float64(n)
	for _, unit := range []string{"B", "KB", "MB", "GB", "TB"} {
		if value < 1024 || unit == "TB" {
			return fmt.Sprintf("%.2f %s", value, unit)
		}
		value /= 1024
	}
	return fmt.Sprintf("%.2f TB", value)
}
