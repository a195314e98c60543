package media

import "fmt"

// DisplayFileSize formats a byte count the way attachment badges show it.
// Example: 1536 -> "1.50 KiB"
func DisplayFileSize(bytes int64) string {
	if bytes < 1024 {
		return fmt.Sprintf("%d B", bytes)
	}
	kb := float64(bytes) / 1024
	if kb < 1024 {
		return fmt.Sprintf("%.2f KiB", kb)
	}
	return fmt.Sprintf("%.2f MiB", kb/1024)
}
