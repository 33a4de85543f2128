// Package database handles database connections and schema inspection.
//
// Connect wraps GORM and selects a dialect from the configured driver: mysql,
// postgres or sqlite. sqlite is the single-node default and is also what the
// store tests run against in memory.
//
// # Schema Inspection
//
// GetTableColumns reads the live column list of a table. The health feature
// uses it to verify that the engine's tables (external_bookings,
// availability_marks, sync_states) match their GORM models.
//
// # Usage
//
//	db, err := database.Connect(cfg.Database)
//	if err != nil {
//	    log.Fatal("Database connection failed", err)
//	}
//
//	columns, err := database.GetTableColumns(db, "external_bookings")
package database
