// Package ingest loads tabular data into datasets from local files (CSV,
// TSV, JSON, XLSX), SQL queries, and object storage.
//
// String-based sources (delimited files, spreadsheets) get column-wise type
// inference: a column becomes boolean or numeric only when every non-blank
// cell parses as one, so a stray "abc" in a numeric column keeps the whole
// column textual instead of silently dropping cells. Blank cells and the
// usual missing-value markers (NULL, N/A, NaN) become nulls.
//
// Date-looking strings stay text here; classifying them is the profiler's
// job, and parsing them is a reconciliation normalization step.
package ingest
