// Package utils provides common helper functions for the reconciler
// application. It holds the cell parsing helpers shared by the file loaders,
// plus any small logic that does not fit a domain-specific package.
package utils
