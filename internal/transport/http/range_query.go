package http

import (
	"errors"
	"net/http"
	"time"

	"bikepulse/internal/dataset"
	apierrors "bikepulse/internal/errors"
	"bikepulse/internal/services"
	api "bikepulse/pkg/contracts/api/v1"
	"bikepulse/pkg/contracts/domain"
)

// StructValidator checks a request struct against its validate tags
type StructValidator interface {
	ValidateStruct(v interface{}) error
}

// parseRange reads start, end and strict from the query string.
func parseRange(r *http.Request, v StructValidator) (dataset.RangeRequest, error) {
	q := r.URL.Query()
	rq := api.RangeQuery{
		Start:  q.Get(api.ParamStart),
		End:    q.Get(api.ParamEnd),
		Strict: q.Get(api.ParamStrict),
	}
	if v != nil {
		if err := v.ValidateStruct(rq); err != nil {
			return dataset.RangeRequest{}, err
		}
	}

	var req dataset.RangeRequest
	var err error
	if rq.Start != "" {
		if req.Start, err = time.Parse(domain.DateLayout, rq.Start); err != nil {
			return dataset.RangeRequest{}, apierrors.InvalidDateRange(err)
		}
	}
	if rq.End != "" {
		if req.End, err = time.Parse(domain.DateLayout, rq.End); err != nil {
			return dataset.RangeRequest{}, apierrors.InvalidDateRange(err)
		}
	}
	req.Strict = rq.IsStrict()
	return req, nil
}

// toAPIError maps service and dataset errors onto API errors.
func toAPIError(err error) error {
	var apiErr *apierrors.APIError
	switch {
	case errors.As(err, &apiErr):
		return apiErr
	case errors.Is(err, dataset.ErrDataUnavailable), errors.Is(err, services.ErrReportUnavailable):
		return apierrors.DataUnavailable(err)
	case errors.Is(err, dataset.ErrInvalidRange):
		return apierrors.InvalidDateRange(err)
	case errors.Is(err, services.ErrUnknownPanel):
		return apierrors.NotFoundError("panel")
	case errors.Is(err, services.ErrUnsupportedFormat):
		return apierrors.NewWithDetails(http.StatusBadRequest, apierrors.CodeInvalidRequest, "Unsupported export format", err.Error())
	case errors.Is(err, services.ErrSnapshotDisabled):
		return apierrors.New(http.StatusServiceUnavailable, apierrors.CodeSnapshotDisabled, "Snapshots are disabled")
	}
	return err
}
