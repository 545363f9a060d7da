package exporter

import (
	"strconv"
)

// formatFloat formats a float64 for export, dropping trailing zeros.
func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

// formatInt formats an int64 for export.
func formatInt(i int64) string {
	return strconv.FormatInt(i, 10)
}
