// Package reconcile matches two datasets on a composite key and compares the
// configured columns for every matched pair.
//
// The Engine never mutates its inputs: normalization (whitespace trimming,
// case folding, date parsing) happens on working copies, and every reported
// value is the original cell. When a composite key appears more than once on
// a side, the first row wins and the discarded rows are counted in the
// summary. Matched keys are processed in sorted order so mismatch output does
// not depend on input row order.
//
// The Exporter turns a Result into CSV files, an Excel workbook, and a JSON
// summary document, and can mirror an export directory into object storage.
package reconcile
