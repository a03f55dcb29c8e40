package repository

import "database/sql"

// SharedDB exposes the container database to the external test package
func SharedDB() *sql.DB {
	return testDB
}

var TruncateAll = truncate
