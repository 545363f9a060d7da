// Package http implements the HTTP handlers of the dashboard. Handlers stay
// thin: they parse the date filter from the query string, call a service and
// turn the result into HTML, JSON or a file download.
//
// # Routes
//
//	GET  /                      dashboard page shell
//	GET  /panels/{name}         one chart panel as a standalone page
//	GET  /api/report            aggregates of all panels as JSON
//	GET  /api/bounds            loaded date range and fingerprint
//	GET  /api/export.csv        report tables as CSV
//	GET  /api/export.xlsx       report tables as an Excel workbook
//	GET  /api/snapshot.png      headless-browser capture of the page
//	POST /api/dataset/reload    drop the cached tables and load again
//
// # Date filter
//
// Every data route accepts start and end as YYYY-MM-DD. Pages resolve the
// range leniently, clamping to the data bounds. The JSON API rejects a start
// after the end, and with strict=true also rejects out-of-bounds dates.
//
// # Error Handling
//
// Errors are written as RFC 7807 problem details by errors.ErrorHandler.
// Service errors are mapped first: unavailable data is 503, a bad range or
// malformed date is 400 and an unknown panel is 404.
package http
