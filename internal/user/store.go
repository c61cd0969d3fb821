package user

import (
	"context"
	"database/sql"
	"errors"

	"github.com/dat2/workout-tracking-app/internal/db"
)

var (
	// ErrInvalidCredentials hides whether the user exists.
	ErrInvalidCredentials = errors.New("user: invalid credentials")
	ErrEmailTaken         = errors.New("user: email already registered")
	ErrNotFound           = errors.New("user: not found")
)

type User struct {
	ID       int
	Email    string
	Username string
}

// Store verifies credentials and looks up user identities. Session
// logic never touches it; it is an upstream collaborator.
type Store struct {
	db *db.DB
}

func NewStore(db *db.DB) *Store {
	return &Store{db: db}
}

func (s *Store) Register(
	ctx context.Context,
	email string,
	username string,
	password string,
) (User, error) {

	var exists bool
	err := s.db.QueryRowContext(ctx, `
		SELECT EXISTS (
			SELECT 1 FROM users WHERE LOWER(email) = LOWER($1)
		)
	`, email).Scan(&exists)

	if err != nil {
		return User{}, err
	}

	if exists {
		return User{}, ErrEmailTaken
	}

	hash, err := HashPassword(password)
	if err != nil {
		return User{}, err
	}

	var id int
	err = s.db.QueryRowContext(ctx, `
		INSERT INTO users (email, username, password_hash)
		VALUES ($1, $2, $3)
		RETURNING id
	`, email, username, hash).Scan(&id)

	if err != nil {
		return User{}, err
	}

	return User{ID: id, Email: email, Username: username}, nil
}

// FindByCredentials returns the user matching the username/password
// pair, or ErrInvalidCredentials for a bad username or a bad password
// alike.
func (s *Store) FindByCredentials(
	ctx context.Context,
	username string,
	password string,
) (User, error) {

	var (
		u            User
		passwordHash string
	)

	err := s.db.QueryRowContext(ctx, `
		SELECT id, email, username, password_hash
		FROM users
		WHERE username = $1
	`, username).Scan(&u.ID, &u.Email, &u.Username, &passwordHash)

	if err != nil {
		return User{}, ErrInvalidCredentials
	}

	if err := VerifyPassword(passwordHash, password); err != nil {
		return User{}, ErrInvalidCredentials
	}

	return u, nil
}

func (s *Store) FindByID(ctx context.Context, id int) (User, error) {
	var u User

	err := s.db.QueryRowContext(ctx, `
		SELECT id, email, username
		FROM users
		WHERE id = $1
	`, id).Scan(&u.ID, &u.Email, &u.Username)

	if err == sql.ErrNoRows {
		return User{}, ErrNotFound
	}
	if err != nil {
		return User{}, err
	}

	return u, nil
}
