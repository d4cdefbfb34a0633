package migrations

import "gorm.io/gorm"

func GetCoreMigrations() []MigrationDefinition {
	return []MigrationDefinition{
		{
			Name: "2025_01_10_000000_create_ladder_tables",
			Up: func(db *gorm.DB) error {
				// Players double as accounts: email and password_hash are
				// null for roster-only players created by judges.
				if err := db.Exec(`
					CREATE TABLE IF NOT EXISTS players (
						id BIGSERIAL PRIMARY KEY,
						name VARCHAR(255) NOT NULL,
						role VARCHAR(20) NOT NULL DEFAULT 'player',
						email VARCHAR(255) UNIQUE,
						password_hash VARCHAR(255),
						image TEXT,
						created_at TIMESTAMP DEFAULT NOW(),
						updated_at TIMESTAMP DEFAULT NOW(),
						deleted_at TIMESTAMP NULL
					);
					CREATE INDEX IF NOT EXISTS idx_players_deleted_at ON players(deleted_at);
					CREATE INDEX IF NOT EXISTS idx_players_name ON players(name);
				`).Error; err != nil {
					return err
				}

				// Event timestamps are epoch milliseconds, matching the
				// values the API accepts and returns.
				if err := db.Exec(`
					CREATE TABLE IF NOT EXISTS seasons (
						id BIGSERIAL PRIMARY KEY,
						name VARCHAR(255) NOT NULL,
						starts_at BIGINT NOT NULL,
						ends_at BIGINT NOT NULL,
						created_at TIMESTAMP DEFAULT NOW(),
						updated_at TIMESTAMP DEFAULT NOW(),
						deleted_at TIMESTAMP NULL
					);
					CREATE INDEX IF NOT EXISTS idx_seasons_deleted_at ON seasons(deleted_at);
					CREATE INDEX IF NOT EXISTS idx_seasons_window ON seasons(starts_at, ends_at);
				`).Error; err != nil {
					return err
				}

				if err := db.Exec(`
					CREATE TABLE IF NOT EXISTS tournaments (
						id BIGSERIAL PRIMARY KEY,
						name VARCHAR(255) NOT NULL,
						date BIGINT NOT NULL,
						winner_id BIGINT NOT NULL,
						created_at TIMESTAMP DEFAULT NOW(),
						updated_at TIMESTAMP DEFAULT NOW(),
						deleted_at TIMESTAMP NULL,
						FOREIGN KEY (winner_id) REFERENCES players(id)
					);
					CREATE INDEX IF NOT EXISTS idx_tournaments_deleted_at ON tournaments(deleted_at);
					CREATE INDEX IF NOT EXISTS idx_tournaments_date ON tournaments(date);
					CREATE INDEX IF NOT EXISTS idx_tournaments_winner_id ON tournaments(winner_id);
				`).Error; err != nil {
					return err
				}

				if err := db.Exec(`
					CREATE TABLE IF NOT EXISTS matches (
						id BIGSERIAL PRIMARY KEY,
						date BIGINT NOT NULL,
						winner_id BIGINT NOT NULL,
						loser_id BIGINT NOT NULL,
						tournament_id BIGINT NULL,
						created_at TIMESTAMP DEFAULT NOW(),
						updated_at TIMESTAMP DEFAULT NOW(),
						deleted_at TIMESTAMP NULL,
						FOREIGN KEY (winner_id) REFERENCES players(id),
						FOREIGN KEY (loser_id) REFERENCES players(id),
						FOREIGN KEY (tournament_id) REFERENCES tournaments(id)
					);
					CREATE INDEX IF NOT EXISTS idx_matches_deleted_at ON matches(deleted_at);
					CREATE INDEX IF NOT EXISTS idx_matches_date ON matches(date);
					CREATE INDEX IF NOT EXISTS idx_matches_winner_id ON matches(winner_id);
					CREATE INDEX IF NOT EXISTS idx_matches_loser_id ON matches(loser_id);
					CREATE INDEX IF NOT EXISTS idx_matches_tournament_id ON matches(tournament_id);
				`).Error; err != nil {
					return err
				}

				// Snapshots are derived state: hard-deleted and rebuilt by
				// the replay engine, never soft-deleted.
				if err := db.Exec(`
					CREATE TABLE IF NOT EXISTS rating_snapshots (
						id BIGSERIAL PRIMARY KEY,
						player_id BIGINT NOT NULL,
						season_id BIGINT NOT NULL,
						elo INT NOT NULL,
						timestamp BIGINT NOT NULL,
						match_id BIGINT NULL,
						tournament_id BIGINT NULL,
						reason VARCHAR(32) NOT NULL,
						delta INT NOT NULL DEFAULT 0,
						created_at TIMESTAMP DEFAULT NOW(),
						FOREIGN KEY (player_id) REFERENCES players(id),
						FOREIGN KEY (season_id) REFERENCES seasons(id)
					);
					CREATE INDEX IF NOT EXISTS idx_snapshots_player_season_ts ON rating_snapshots(player_id, season_id, timestamp);
					CREATE INDEX IF NOT EXISTS idx_snapshots_season_ts ON rating_snapshots(season_id, timestamp);
				`).Error; err != nil {
					return err
				}

				return nil
			},
			Down: func(db *gorm.DB) error {
				return db.Exec(`
					DROP TABLE IF EXISTS rating_snapshots;
					DROP TABLE IF EXISTS matches;
					DROP TABLE IF EXISTS tournaments;
					DROP TABLE IF EXISTS seasons;
					DROP TABLE IF EXISTS players;
				`).Error
			},
		},
	}
}
