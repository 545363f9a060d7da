// Package services implements the business logic layer of the bike rental
// dashboard. It sits between the HTTP handlers and the dataset, analytics and
// charts packages so that handlers only parse requests and write responses.
//
// # Available Services
//
//	- DashboardService: resolves the date filter, runs the three analyzers
//	  behind a per-panel guard, renders panel pages and builds exports
//	- SnapshotService: captures the dashboard page as a PNG
//	- HealthService: liveness, readiness and version information
//
// # Panels
//
// Every analyzer runs inside the same guard. A degenerate input (no rows,
// missing columns, no valid bucket) becomes a placeholder panel, any other
// error or a panic becomes an error panel. Neither stops the other panels
// from rendering:
//
//	report, err := svc.BuildReport(ctx, dataset.RangeRequest{})
//	if err != nil {
//	    // only load failures and invalid ranges reach here
//	}
//	if report.TimeOfDay.Status == services.PanelPlaceholder {
//	    fmt.Println(report.TimeOfDay.Message)
//	}
//
// # Error Handling
//
// Load failures are returned wrapped in ErrReportUnavailable and still match
// dataset.ErrDataUnavailable with errors.Is. Range problems match
// dataset.ErrInvalidRange.
package services
