// Package recon exposes dataset profiling and reconciliation over HTTP.
//
// Datasets arrive as JSON record arrays in the request body; profiles,
// strategies, and reconciliation results come back as JSON. The storage
// bucket configured for the application can be browsed for uploaded dataset
// files.
//
// # Components
//
//   - Service: builds datasets from records and delegates to the profiling
//     and reconciliation engines.
//   - Handler: exposes the HTTP endpoints.
//   - Feature: registers the feature with the application loader.
//
// # HTTP Endpoints
//
//   - GET  /recon/datasets  : List dataset objects in the storage bucket.
//   - POST /recon/profile   : Profile a single dataset.
//   - POST /recon/strategy  : Recommend key/compare columns for two datasets.
//   - POST /recon/reconcile : Run a reconciliation and return the result.
package recon
