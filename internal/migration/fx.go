package migration

import (
	"github.com/naxum/tsa-backend/internal/config"
	"github.com/naxum/tsa-backend/internal/seed"
	"go.uber.org/fx"
	"gorm.io/gorm"
)

var Module = fx.Module("migrations",
	fx.Invoke(func(conn *gorm.DB, cfg config.Config, commission *config.CommissionConfigHolder) error {
		// The embedded migration set targets postgres. Other dialects
		// (sqlite in tests, mysql) provision their schema elsewhere.
		if cfg.DBType == "postgres" {
			sqlDB, err := conn.DB()
			if err != nil {
				return err
			}
			if err := RunMigrations(sqlDB); err != nil {
				return err
			}
		}

		commissionCfg := commission.Get()
		if err := seed.EnsureCategories(conn, commissionCfg); err != nil {
			return err
		}
		if cfg.SeedDemoData {
			return seed.EnsureDemoData(conn, commissionCfg)
		}
		return nil
	}),
)
