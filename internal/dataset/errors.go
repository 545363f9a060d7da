package dataset

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrDataUnavailable wraps every failure to read or parse the rental tables.
	ErrDataUnavailable = errors.New("rental data unavailable")
	// ErrInvalidRange is returned for a start date after the end date or,
	// in strict mode, a range outside the dataset bounds.
	ErrInvalidRange = errors.New("invalid date range")
	// ErrEmptyDataset is returned when bounds are requested from tables with no rows.
	ErrEmptyDataset = errors.New("dataset has no rows")
)

// LoadError describes why one source file could not be loaded.
type LoadError struct {
	Path string
	Row  int
	Err  error
}

func (e *LoadError) Error() string {
	var b strings.Builder
	b.WriteString(e.Path)
	if e.Row > 0 {
		fmt.Fprintf(&b, ": row %d", e.Row)
	}
	b.WriteString(": ")
	b.WriteString(e.Err.Error())
	return b.String()
}

func (e *LoadError) Unwrap() error { return e.Err }

// Is makes every LoadError match ErrDataUnavailable.
func (e *LoadError) Is(target error) bool { return target == ErrDataUnavailable }
