// Package table provides the tabular interchange format for rating
// persistence: an in-memory Relation of nullable cells, plus a two-sheet
// xlsx workbook codec for durable storage and session resume.
package table
