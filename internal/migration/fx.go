package migration

import (
	"github.com/smallbiznis/subtrack/internal/config"
	"go.uber.org/fx"
	"gorm.io/gorm"
)

var Module = fx.Module("migrations",
	fx.Invoke(func(conn *gorm.DB, cfg config.Config) error {
		// golang-migrate drives postgres; other dialects bootstrap their
		// schema from the gorm models.
		if cfg.DBType != "postgres" {
			return Bootstrap(conn)
		}

		sqlDB, err := conn.DB()
		if err != nil {
			return err
		}

		return RunMigrations(sqlDB)
	}),
)
