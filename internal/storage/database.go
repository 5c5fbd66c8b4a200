package storage

import (
	"fmt"

	"github.com/glebarez/sqlite"
	"github.com/rs/zerolog"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"overlay-service/internal/config"
)

// Connect opens the database. Postgres is preferred; when it is not
// reachable the service falls back to a local SQLite file, which is the
// normal mode on a single-host camera appliance.
func Connect(cfg *config.Config, log zerolog.Logger) (*gorm.DB, error) {
	if cfg.DBHost != "" {
		dsn := fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
			cfg.DBHost, cfg.DBPort, cfg.DBUser, cfg.DBPassword, cfg.DBName)
		db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
		if err == nil {
			log.Info().Str("host", cfg.DBHost).Msg("connected to postgres")
			return db, nil
		}
		log.Warn().Err(err).Msg("postgres unreachable, falling back to sqlite")
	}

	db, err := gorm.Open(sqlite.Open(cfg.SQLitePath), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("opening sqlite database %s: %w", cfg.SQLitePath, err)
	}
	log.Info().Str("path", cfg.SQLitePath).Msg("using sqlite database")
	return db, nil
}
