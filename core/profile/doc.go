// Package profile implements the intelligent profiling side of the
// reconciliation toolkit: column type inference, dataset quality analysis,
// key-candidate discovery, and reconciliation strategy recommendation.
//
// # Components
//
// 1. ColumnProfiler: inspects a single column. Type inference and issue
// detection are explicit first-match rule tables so the priority order is
// visible and independently testable.
//
// 2. DatasetProfiler: runs the column profiler over a whole dataset, searches
// for single and two-column composite keys, recommends transformations, and
// aggregates quality findings. A column that fails to profile is logged and
// skipped rather than failing the dataset.
//
// 3. Advisor: given two dataset profiles, picks key and compare columns,
// assigns numeric tolerances, and scores confidence in the recommendation.
// "No common columns" is a structured result, not an error.
//
// Data anomalies (duplicate ids, high null ratios, outliers) are never
// errors: they surface as issues inside profiles so reconciliation can still
// proceed and report on imperfect data.
package profile
