package db

import (
	"context"
	"database/sql"
)

const migration = `
CREATE TABLE IF NOT EXISTS users (
    id serial PRIMARY KEY,
    email text NOT NULL,
    username text NOT NULL,
    password_hash text NOT NULL,
    created_at timestamptz NOT NULL DEFAULT NOW()
);

CREATE UNIQUE INDEX IF NOT EXISTS users_email_lower_unique
ON users (LOWER(email));

CREATE UNIQUE INDEX IF NOT EXISTS users_username_unique
ON users (username);

CREATE TABLE IF NOT EXISTS routines (
    id serial PRIMARY KEY,
    name text NOT NULL
);

CREATE TABLE IF NOT EXISTS exercises (
    id serial PRIMARY KEY,
    routine_id integer NOT NULL REFERENCES routines(id) ON DELETE CASCADE,
    name text NOT NULL,
    sets integer NOT NULL,
    reps integer NOT NULL
);

CREATE INDEX IF NOT EXISTS exercises_routine_id_idx
ON exercises (routine_id);

CREATE TABLE IF NOT EXISTS workouts (
    id serial PRIMARY KEY,
    user_id integer NOT NULL REFERENCES users(id) ON DELETE CASCADE,
    routine_id integer NOT NULL REFERENCES routines(id),
    created_at timestamptz NOT NULL DEFAULT NOW()
);

CREATE INDEX IF NOT EXISTS workouts_user_id_idx
ON workouts (user_id);
`

func RunMigration(ctx context.Context, db *sql.DB) error {
	_, err := db.ExecContext(ctx, migration)
	return err
}
