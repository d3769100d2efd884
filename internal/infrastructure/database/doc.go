// Package database opens the application database once the configuration
// has been accepted.
//
// This package manages:
//   - Driver selection (PostgreSQL via pgx, SQLite via go-sqlite3)
//   - Carrying JDBC-style URLs over from legacy property files
//   - Connection pooling and lifecycle management
//   - Health checks and optional SQL echo (db.show_sql)
//
// Security Considerations:
//   - Open is only called after config.Load succeeded, so a rejected
//     configuration never reaches the network
//   - Credentials are merged into the DSN in memory and never logged
//   - SQL echo logs statement text only, never arguments
//   - SQLite files are set to 0600 (owner read/write only)
//
// Usage:
//
//	dbCfg := cfg.Database()
//	db, err := database.Open(ctx, database.Config{
//	    Driver:   dbCfg.Driver,
//	    URL:      dbCfg.URL,
//	    Username: dbCfg.Username,
//	    Password: dbCfg.Password,
//	    ShowSQL:  dbCfg.ShowSQL,
//	    Logger:   log.Logger,
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer db.Close()
package database
