package analytics

import (
	"errors"
	"fmt"
	"strings"
)

// Degenerate inputs. Each one yields a placeholder panel instead of a chart.
var (
	ErrNoData         = errors.New("no data to visualize")
	ErrMissingColumns = errors.New("data is missing required columns")
	ErrNoValidBucket  = errors.New("data has no valid time-of-day category")
)

// MissingColumnsError names the absent columns.
type MissingColumnsError struct {
	Columns []string
}

func (e *MissingColumnsError) Error() string {
	return fmt.Sprintf("%s (%s)", ErrMissingColumns, strings.Join(e.Columns, ", "))
}

func (e *MissingColumnsError) Is(target error) bool { return target == ErrMissingColumns }

// IsDegenerate reports whether err means "nothing to draw" rather than a failure.
func IsDegenerate(err error) bool {
	return errors.Is(err, ErrNoData) || errors.Is(err, ErrMissingColumns) || errors.Is(err, ErrNoValidBucket)
}

// PlaceholderMessage is the user-facing text for a degenerate input.
func PlaceholderMessage(err error) string {
	var missing *MissingColumnsError
	switch {
	case errors.As(err, &missing):
		return fmt.Sprintf("Data is missing required columns (%s)", strings.Join(missing.Columns, ", "))
	case errors.Is(err, ErrNoData):
		return "No data to visualize for the selected period"
	case errors.Is(err, ErrNoValidBucket):
		return "Data has no valid time-of-day category"
	default:
		return fmt.Sprintf("An error occurred: %v", err)
	}
}
