// Package dataset provides the in-memory tabular model shared by the
// profiler, the reconciliation engine, and the ingest loaders.
//
// A Dataset is an ordered collection of equal-length named columns. Each cell
// is a Value, a tagged union over null, bool, number, text, and time. All
// logic that inspects cells switches exhaustively on Value.Kind rather than
// probing runtime types, so adding a kind is a compile-visible change.
//
// Datasets are owned by the caller. The profiler and engine treat them as
// read-only; the engine clones before normalizing.
package dataset
