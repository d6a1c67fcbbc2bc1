package database

import (
	"context"
	"database/sql"
)

// Migrate creates the four application tables when they do not exist yet.
// The reservation uniqueness invariant lives here as a composite primary key:
// application-level "check then insert" is racy across two transactions, so
// the constraint is the authoritative guard and the pre-checks only provide
// better error messages. Deleting a user or camp cascades to its reservations.
func Migrate(ctx context.Context, db *sql.DB) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS users (
			id            BIGSERIAL PRIMARY KEY,
			username      VARCHAR(45) NOT NULL UNIQUE,
			password_hash TEXT        NOT NULL,
			full_name     TEXT        NOT NULL,
			state         VARCHAR(20),
			is_admin      BOOLEAN     NOT NULL DEFAULT FALSE
		)`,
		`CREATE TABLE IF NOT EXISTS camps (
			id        BIGSERIAL PRIMARY KEY,
			park_code VARCHAR(8)       NOT NULL UNIQUE CHECK (park_code = lower(park_code)),
			park_name VARCHAR(45)      NOT NULL,
			cost      DOUBLE PRECISION NOT NULL DEFAULT 0 CHECK (cost >= 0),
			image_url TEXT
		)`,
		`CREATE TABLE IF NOT EXISTS facility (
			park_code            VARCHAR(8) PRIMARY KEY REFERENCES camps (park_code) ON DELETE CASCADE,
			cell_phone_reception BOOLEAN NOT NULL DEFAULT FALSE,
			toilets              BOOLEAN NOT NULL DEFAULT FALSE,
			boat_access          BOOLEAN NOT NULL DEFAULT FALSE,
			rv_access            BOOLEAN NOT NULL DEFAULT FALSE,
			wheelchair_access    BOOLEAN NOT NULL DEFAULT FALSE
		)`,
		`CREATE TABLE IF NOT EXISTS reservations (
			user_id BIGINT NOT NULL REFERENCES users (id) ON DELETE CASCADE,
			camp_id BIGINT NOT NULL REFERENCES camps (id) ON DELETE CASCADE,
			PRIMARY KEY (user_id, camp_id)
		)`,
	}
	for _, s := range stmts {
		if _, err := db.ExecContext(ctx, s); err != nil {
			return err
		}
	}
	return nil
}
