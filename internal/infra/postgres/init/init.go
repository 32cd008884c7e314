package infra_pg_init

import (
	"context"
	"fmt"
	"log"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/sharuys/SecretSanta/internal/config"
)

const schema = `
CREATE TABLE IF NOT EXISTS rooms (
	id        BIGINT PRIMARY KEY,
	name      TEXT NOT NULL,
	is_closed BOOLEAN NOT NULL DEFAULT FALSE,
	budget    TEXT NOT NULL DEFAULT '',
	join_code TEXT NOT NULL UNIQUE
);

CREATE TABLE IF NOT EXISTS users (
	id        BIGINT PRIMARY KEY,
	code      TEXT NOT NULL UNIQUE,
	role      TEXT NOT NULL CHECK (role IN ('admin', 'member')),
	room_id   BIGINT NOT NULL,
	name      TEXT NOT NULL,
	wishlist  TEXT NOT NULL DEFAULT '',
	giftee_id BIGINT
);

CREATE INDEX IF NOT EXISTS users_room_id_idx ON users (room_id);

CREATE TABLE IF NOT EXISTS removed_users (
	id        BIGINT PRIMARY KEY,
	code      TEXT NOT NULL,
	role      TEXT NOT NULL,
	room_id   BIGINT NOT NULL,
	name      TEXT NOT NULL,
	wishlist  TEXT NOT NULL DEFAULT '',
	giftee_id BIGINT
);
`

func DSN(cfg config.Postgres) string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		cfg.Host,
		cfg.Port,
		cfg.User,
		cfg.Password,
		cfg.DBName,
		cfg.SSLMode,
	)
}

func MustEstablishConn(cfg config.Postgres) *sqlx.DB {
	db, err := sqlx.Connect("postgres", DSN(cfg))
	if err != nil {
		log.Fatal(err)
	}

	return db
}

// Migrate creates missing tables. It is safe to run on every start.
func Migrate(ctx context.Context, db *sqlx.DB) error {
	if _, err := db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}
	return nil
}
