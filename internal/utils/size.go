package utils

import (
	"fmt"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

const bytesPerMegabyte = 1024 * 1024

// BytesToMegabytes converts a byte length into megabytes.
func BytesToMegabytes(bytes int64) float64 {
	if bytes <= 0 {
		return 0
	}
	return float64(bytes) / bytesPerMegabyte
}

// FormatMegabytes renders a megabyte value with two decimals, e.g. "1.50 MB".
func FormatMegabytes(megabytes float64) string {
	return fmt.Sprintf("%.2f MB", megabytes)
}

// FormatCount renders an integer with English digit grouping, e.g. "12,345".
func FormatCount(count int) string {
	return message.NewPrinter(language.English).Sprintf("%d", count)
}
