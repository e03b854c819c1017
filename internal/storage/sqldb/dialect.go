package sqldb

import (
	"fmt"
	"strconv"
)

const (
	DialectPostgres = "postgres"
	DialectSQLite   = "sqlite"
)

// Dialect captures the few SQL differences between the supported drivers.
type Dialect struct {
	Name       string
	DriverName string
}

var (
	Postgres = Dialect{Name: DialectPostgres, DriverName: "postgres"}
	PGX      = Dialect{Name: DialectPostgres, DriverName: "pgx"}
	SQLite   = Dialect{Name: DialectSQLite, DriverName: "sqlite"}
)

// DialectFor maps a DB_DRIVER value to its dialect.
func DialectFor(driver string) (Dialect, error) {
	switch driver {
	case "postgres", "":
		return Postgres, nil
	case "pgx":
		return PGX, nil
	case "sqlite":
		return SQLite, nil
	default:
		return Dialect{}, fmt.Errorf("unsupported database driver %q", driver)
	}
}

// Placeholder returns the bind marker for the n-th (1-based) parameter.
func (d Dialect) Placeholder(n int) string {
	if d.Name == DialectSQLite {
		return "?"
	}
	return "$" + strconv.Itoa(n)
}
