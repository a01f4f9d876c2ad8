// The database component selects its GORM dialector from Config.Driver:
//
//	comp := database.NewComponent(database.Config{
//	    Enabled:     true,
//	    Driver:      database.DriverPostgres,
//	    DSN:         "host=localhost user=voicekit dbname=voicekit",
//	    AutoMigrate: true,
//	}, log).WithMigrations(store.Migrate)
//
//	registry.Register(comp)
//
// Subpackages:
//
//   - migration: golang-migrate file migrations and a GORM migration runner
//   - query: page and search helpers for list endpoints
//   - testutil: in-memory sqlite databases for tests
package database
