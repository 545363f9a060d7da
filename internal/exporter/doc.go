// Package exporter writes the aggregated dashboard tables to files or HTTP
// responses.
//
// Two formats are supported:
//
// CSVWriter: a single long-format CSV (table, category, metric, value) with an
// optional UTF-8 BOM so Excel opens it with the right encoding.
//
// XLSXWriter: one worksheet per table, header row in bold, built with excelize.
//
// Both consume the []Table produced by BuildTables, so the two formats always
// carry the same numbers.
//
// Example usage:
//
//	tables := exporter.BuildTables(weather, temporal, timeOfDay)
//	err := exporter.NewCSVWriter(logger).Write(w, tables, exporter.WriteOptions{BOMPrefix: true})
package exporter
