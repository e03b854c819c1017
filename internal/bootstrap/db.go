package bootstrap

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/GoSim-25-26J-441/project-records/config"
	"github.com/GoSim-25-26J-441/project-records/internal/storage/sqldb"
)

// OpenDB connects with the configured driver and makes sure the projects
// table exists.
func OpenDB(ctx context.Context, cfg *config.DatabaseConfig) (*sql.DB, sqldb.Dialect, error) {
	cctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	db, dialect, err := sqldb.NewConnection(cctx, cfg)
	if err != nil {
		return nil, sqldb.Dialect{}, err
	}

	if err := sqldb.EnsureSchema(cctx, db, dialect); err != nil {
		db.Close()
		return nil, sqldb.Dialect{}, fmt.Errorf("db schema: %w", err)
	}

	return db, dialect, nil
}
