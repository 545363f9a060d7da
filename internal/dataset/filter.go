package dataset

import (
	"fmt"
	"time"

	"bikepulse/pkg/contracts/domain"
)

// RangeRequest is an optional start/end pair as supplied by a caller.
// Zero values mean "use the dataset bound".
type RangeRequest struct {
	Start time.Time
	End   time.Time
	// Strict rejects dates outside the bounds instead of clamping them.
	Strict bool
}

// ResolveRange turns a request into a concrete range within bounds.
// An explicit start after an explicit end is always an error. Out-of-bounds
// dates are clamped unless the request is strict, so a lone start past the
// last date resolves to the last day.
func ResolveRange(req RangeRequest, bounds domain.DateRange) (domain.DateRange, error) {
	r := bounds
	if !req.Start.IsZero() {
		r.Start = domain.TruncateDay(req.Start)
	}
	if !req.End.IsZero() {
		r.End = domain.TruncateDay(req.End)
	}

	explicit := !req.Start.IsZero() && !req.End.IsZero()
	if (explicit || req.Strict) && !r.Valid() {
		return domain.DateRange{}, fmt.Errorf("%w: start %s is after end %s",
			ErrInvalidRange, r.Start.Format(domain.DateLayout), r.End.Format(domain.DateLayout))
	}

	if req.Strict {
		if r.Start.Before(bounds.Start) || r.End.After(bounds.End) {
			return domain.DateRange{}, fmt.Errorf("%w: %s is outside %s", ErrInvalidRange, r, bounds)
		}
		return r, nil
	}

	return r.Clamp(bounds), nil
}
