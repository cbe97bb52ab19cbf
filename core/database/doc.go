// Package database handles database connections for SQL-backed ingestion.
//
// It provides a wrapper around GORM (Go Object Relational Mapping) to properly configure
// MySQL connections based on the application's configuration.
//
// # Connect
//
// The Connect function establishes a connection to the database with sane
// pool settings and timeouts on connection setup and I/O. Connecting is
// optional: reconciliation runs that only read files never touch this
// package.
//
// # Usage
//
//	db, err := database.Connect(cfg.Database)
//	if err != nil {
//	    log.Warn("Database connection failed", err)
//	}
//
//	ds, err := loader.LoadQuery(db, "SELECT * FROM transactions")
package database
