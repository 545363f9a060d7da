// Package api contains the request contracts of the dashboard's HTTP API.
// Version v1 represents the current stable API version.
package api

// Query parameter names shared by the page, the panels and the JSON API.
const (
	ParamStart  = "start"
	ParamEnd    = "end"
	ParamStrict = "strict"
)

// RangeQuery is the date filter as it arrives in the query string. Empty
// Start or End fall back to the dataset bounds.
type RangeQuery struct {
	Start string `json:"start" query:"start" validate:"omitempty,isodate"`
	End   string `json:"end" query:"end" validate:"omitempty,isodate"`
	// Strict rejects dates outside the bounds instead of clamping them.
	Strict string `json:"strict" query:"strict" validate:"omitempty,oneof=true false 1 0"`
}

// IsStrict reports whether Strict holds a true value.
func (q RangeQuery) IsStrict() bool {
	return q.Strict == "true" || q.Strict == "1"
}
