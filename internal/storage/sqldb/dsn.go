package sqldb

import (
	"fmt"

	"github.com/GoSim-25-26J-441/project-records/config"
)

// DSN returns the data source name for the configured driver.
// An explicit DB_DSN always wins.
func DSN(cfg *config.DatabaseConfig) string {
	if cfg.DSN != "" {
		return cfg.DSN
	}
	if cfg.Driver == "sqlite" {
		return cfg.SQLitePath
	}
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=disable",
		cfg.Host, cfg.Port, cfg.User, cfg.Password, cfg.Name,
	)
}
