// ===============================
// internal/database/migrations.go - Catalog schema
// ===============================

package database

import (
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/rs/zerolog"
)

type Migration struct {
	Version string
	Query   string
}

// Migrations is the ordered schema history. Applied versions are recorded in
// the migrations table and never re-run.
var Migrations = []Migration{
	{
		Version: "001_catalog_schema",
		Query: `
			CREATE TABLE IF NOT EXISTS profiles (
				id VARCHAR(255) PRIMARY KEY,
				email VARCHAR(320) NOT NULL DEFAULT '',
				role VARCHAR(20) NOT NULL DEFAULT 'user',
				created_at TIMESTAMP WITH TIME ZONE DEFAULT CURRENT_TIMESTAMP,
				CONSTRAINT profiles_role_check CHECK (role IN ('user', 'admin'))
			);

			CREATE TABLE IF NOT EXISTS series (
				id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
				title TEXT NOT NULL,
				description TEXT NOT NULL DEFAULT '',
				thumbnail TEXT NOT NULL DEFAULT '',
				category VARCHAR(50) NOT NULL DEFAULT 'Series',
				tmdb_id INTEGER,
				created_at TIMESTAMP WITH TIME ZONE DEFAULT CURRENT_TIMESTAMP
			);

			CREATE TABLE IF NOT EXISTS videos (
				id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
				title TEXT NOT NULL,
				description TEXT NOT NULL DEFAULT '',
				video_url TEXT NOT NULL DEFAULT '',
				thumbnail TEXT NOT NULL DEFAULT '',
				category VARCHAR(50) NOT NULL DEFAULT 'Películas',
				tmdb_id INTEGER,
				duration INTEGER NOT NULL DEFAULT 0,
				created_at TIMESTAMP WITH TIME ZONE DEFAULT CURRENT_TIMESTAMP,
				CONSTRAINT videos_category_check CHECK (category IN ('Películas', 'Series', 'TV'))
			);

			CREATE TABLE IF NOT EXISTS episodes (
				id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
				series_id UUID NOT NULL REFERENCES series(id) ON DELETE CASCADE,
				season INTEGER NOT NULL,
				episode INTEGER NOT NULL,
				title TEXT NOT NULL DEFAULT '',
				description TEXT NOT NULL DEFAULT '',
				thumbnail TEXT NOT NULL DEFAULT '',
				video_url TEXT NOT NULL DEFAULT '',
				duration INTEGER NOT NULL DEFAULT 0,
				created_at TIMESTAMP WITH TIME ZONE DEFAULT CURRENT_TIMESTAMP,
				CONSTRAINT episodes_position_check CHECK (season > 0 AND episode > 0)
			);

			CREATE UNIQUE INDEX IF NOT EXISTS idx_episodes_series_position
				ON episodes(series_id, season, episode);
			CREATE INDEX IF NOT EXISTS idx_series_created ON series(created_at DESC);
			CREATE INDEX IF NOT EXISTS idx_videos_category_created ON videos(category, created_at DESC);
			CREATE INDEX IF NOT EXISTS idx_profiles_email ON profiles(LOWER(email));
		`,
	},
	{
		// Older deployments stored the playable address in videos.url.
		Version: "002_canonical_video_url",
		Query: `
			DO $$
			BEGIN
				IF EXISTS (
					SELECT 1 FROM information_schema.columns
					WHERE table_name = 'videos' AND column_name = 'url'
				) THEN
					UPDATE videos SET video_url = url
					WHERE (video_url IS NULL OR video_url = '') AND url IS NOT NULL;
					ALTER TABLE videos DROP COLUMN url;
				END IF;
			END
			$$;
		`,
	},
}

// RunMigrations applies every pending migration in order.
func RunMigrations(db *sqlx.DB, logger zerolog.Logger) error {
	_, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS migrations (
			id SERIAL PRIMARY KEY,
			version VARCHAR(255) UNIQUE NOT NULL,
			applied_at TIMESTAMP WITH TIME ZONE DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return fmt.Errorf("failed to create migrations table: %w", err)
	}

	for _, migration := range Migrations {
		if err := applyMigration(db, migration, logger); err != nil {
			return fmt.Errorf("failed to apply migration %s: %w", migration.Version, err)
		}
	}

	logger.Info().Int("count", len(Migrations)).Msg("Migrations up to date")
	return nil
}

func applyMigration(db *sqlx.DB, migration Migration, logger zerolog.Logger) error {
	var count int
	err := db.QueryRow("SELECT COUNT(*) FROM migrations WHERE version = $1", migration.Version).Scan(&count)
	if err != nil {
		return fmt.Errorf("failed to check migration status: %w", err)
	}

	if count > 0 {
		logger.Debug().Str("version", migration.Version).Msg("Migration already applied")
		return nil
	}

	logger.Info().Str("version", migration.Version).Msg("Applying migration")

	tx, err := db.Beginx()
	if err != nil {
		return fmt.Errorf("failed to start transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err = tx.Exec(migration.Query); err != nil {
		return fmt.Errorf("failed to execute migration %s: %w", migration.Version, err)
	}

	if _, err = tx.Exec("INSERT INTO migrations (version) VALUES ($1)", migration.Version); err != nil {
		return fmt.Errorf("failed to record migration %s: %w", migration.Version, err)
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit migration %s: %w", migration.Version, err)
	}

	return nil
}
