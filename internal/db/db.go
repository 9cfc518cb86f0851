package db

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/go-sql-driver/mysql"
	"github.com/rs/zerolog"
)

// InitDB opens the MySQL pool. The DSN is forced to parse DATETIME columns
// into time.Time and to report matched rather than changed rows, which the
// repositories rely on to detect missing ids.
func InitDB(ctx context.Context, dbURL string, logger zerolog.Logger) (*sql.DB, error) {
	cfg, err := mysql.ParseDSN(dbURL)
	if err != nil {
		return nil, fmt.Errorf("invalid DB_URL: %w", err)
	}
	cfg.ParseTime = true
	cfg.Loc = time.UTC
	cfg.ClientFoundRows = true

	connector, err := mysql.NewConnector(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create connector: %w", err)
	}

	database := sql.OpenDB(connector)
	database.SetMaxOpenConns(25)
	database.SetMaxIdleConns(5)
	database.SetConnMaxLifetime(5 * time.Minute)

	if err := database.PingContext(ctx); err != nil {
		database.Close()
		return nil, fmt.Errorf("database is not responding: %w", err)
	}

	logger.Info().Str("addr", cfg.Addr).Str("database", cfg.DBName).Msg("Connected to MySQL")
	return database, nil
}

func RunMigrations(ctx context.Context, database *sql.DB, logger zerolog.Logger) error {
	queries := []string{
		`CREATE TABLE IF NOT EXISTS shops (
			id CHAR(24) PRIMARY KEY,
			name VARCHAR(255) NOT NULL,
			description TEXT NOT NULL,
			address VARCHAR(512) NOT NULL,
			latitude DOUBLE NOT NULL,
			longitude DOUBLE NOT NULL,
			poster_url TEXT NULL,
			owner VARCHAR(255) NOT NULL DEFAULT '',
			phone VARCHAR(64) NOT NULL DEFAULT '',
			email VARCHAR(255) NOT NULL DEFAULT '',
			opening_hours VARCHAR(255) NOT NULL DEFAULT '',
			category VARCHAR(255) NOT NULL DEFAULT '',
			created_by VARCHAR(255) NOT NULL DEFAULT '',
			is_open BOOLEAN NOT NULL DEFAULT TRUE,
			created_at DATETIME(6) NOT NULL,
			updated_at DATETIME(6) NOT NULL,
			INDEX idx_shops_lat_lng (latitude, longitude),
			INDEX idx_shops_created_at (created_at),
			INDEX idx_shops_created_by (created_by, created_at),
			FULLTEXT INDEX ft_shops_text (name, description, category)
		);`,
		`CREATE TABLE IF NOT EXISTS shop_items (
			shop_id CHAR(24) NOT NULL,
			position INT NOT NULL,
			id CHAR(24) NOT NULL,
			name VARCHAR(255) NOT NULL DEFAULT '',
			quantity INT NOT NULL DEFAULT 0,
			PRIMARY KEY (shop_id, position),
			INDEX idx_shop_items_name (name),
			FOREIGN KEY (shop_id) REFERENCES shops(id) ON DELETE CASCADE
		);`,
		`CREATE TABLE IF NOT EXISTS users (
			id CHAR(24) PRIMARY KEY,
			email VARCHAR(255) NOT NULL,
			password VARCHAR(255) NOT NULL,
			name VARCHAR(255) NOT NULL,
			created_at DATETIME(6) NOT NULL,
			UNIQUE INDEX idx_users_email (email)
		);`,
	}

	for _, q := range queries {
		if _, err := database.ExecContext(ctx, q); err != nil {
			return fmt.Errorf("migration failed: %w", err)
		}
	}
	logger.Info().Int("statements", len(queries)).Msg("Migrations completed")
	return nil
}
