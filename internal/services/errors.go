package services

import "errors"

// Dashboard service errors
var (
	// ErrReportUnavailable wraps any failure to load the rental tables.
	ErrReportUnavailable = errors.New("report unavailable")

	// ErrUnknownPanel is returned for a panel name outside PanelNames.
	ErrUnknownPanel = errors.New("unknown panel")

	// ErrUnsupportedFormat is returned for an export format other than csv or xlsx.
	ErrUnsupportedFormat = errors.New("unsupported export format")

	// ErrSnapshotDisabled is returned when browser snapshots are turned off.
	ErrSnapshotDisabled = errors.New("snapshot disabled")
)
