package auth

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

const accountSchema = `
CREATE TABLE IF NOT EXISTS account (
	id TEXT PRIMARY KEY,
	full_name TEXT NOT NULL,
	email TEXT NOT NULL UNIQUE,
	password_hash TEXT NOT NULL,
	profile_image_url TEXT NOT NULL DEFAULT '',
	is_active INTEGER NOT NULL DEFAULT 0,
	activation_token TEXT NOT NULL DEFAULT '',
	created_at TEXT NOT NULL,
	updated_at TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS account_activation_token ON account(activation_token);
`

const accountColumns = "id, full_name, email, password_hash, profile_image_url, is_active, activation_token, created_at, updated_at"

type SQLiteAccountRepository struct {
	db *sql.DB
}

// OpenSQLite opens the database file at path with a single connection, so
// writers never contend for the file lock.
func OpenSQLite(path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("error opening sqlite database: %w", err)
	}
	db.SetMaxOpenConns(1)

	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
	}
	return db, nil
}

// NewSQLiteAccountRepository creates the account table if needed.
func NewSQLiteAccountRepository(ctx context.Context, db *sql.DB) (*SQLiteAccountRepository, error) {
	if _, err := db.ExecContext(ctx, accountSchema); err != nil {
		return nil, fmt.Errorf("error creating account schema: %w", err)
	}
	return &SQLiteAccountRepository{db: db}, nil
}

func (s *SQLiteAccountRepository) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *SQLiteAccountRepository) FindByEmail(ctx context.Context, email string) (*Account, error) {
	return s.findBy(ctx, "email", email)
}

func (s *SQLiteAccountRepository) FindByActivationToken(ctx context.Context, token string) (*Account, error) {
	if token == "" {
		return nil, ErrNotFound
	}
	return s.findBy(ctx, "activation_token", token)
}

func (s *SQLiteAccountRepository) findBy(ctx context.Context, column, val string) (*Account, error) {
	query := "SELECT " + accountColumns + " FROM account WHERE " + column + " = ?"
	row := s.db.QueryRowContext(ctx, query, val)

	acc, err := scanAccount(row.Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return acc, nil
}

func (s *SQLiteAccountRepository) Store(ctx context.Context, acc *Account) error {
	query := "INSERT INTO account (" + accountColumns + ") VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)"
	_, err := s.db.ExecContext(ctx, query,
		string(acc.ID),
		acc.FullName,
		acc.Credentials.Email,
		acc.Credentials.PasswordHash,
		acc.ProfileImageURL,
		acc.IsActive,
		acc.ActivationToken,
		formatTime(acc.CreatedAt),
		formatTime(acc.UpdatedAt),
	)
	if isUniqueEmailViolation(err) {
		return ErrDuplicateEmail
	}
	if err != nil {
		return fmt.Errorf("error inserting account: %w", err)
	}
	return nil
}

func (s *SQLiteAccountRepository) Update(ctx context.Context, acc *Account) error {
	query := `UPDATE account SET full_name = ?, email = ?, password_hash = ?, profile_image_url = ?,
		is_active = ?, activation_token = ?, updated_at = ? WHERE id = ?`
	res, err := s.db.ExecContext(ctx, query,
		acc.FullName,
		acc.Credentials.Email,
		acc.Credentials.PasswordHash,
		acc.ProfileImageURL,
		acc.IsActive,
		acc.ActivationToken,
		formatTime(acc.UpdatedAt),
		string(acc.ID),
	)
	if isUniqueEmailViolation(err) {
		return ErrDuplicateEmail
	}
	if err != nil {
		return fmt.Errorf("error updating account: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func scanAccount(scan func(dest ...any) error) (*Account, error) {
	var (
		acc                  Account
		id                   string
		createdAt, updatedAt string
	)
	err := scan(&id, &acc.FullName, &acc.Credentials.Email, &acc.Credentials.PasswordHash,
		&acc.ProfileImageURL, &acc.IsActive, &acc.ActivationToken, &createdAt, &updatedAt)
	if err != nil {
		return nil, err
	}

	acc.ID = ID(id)
	if acc.CreatedAt, err = time.Parse(time.RFC3339Nano, createdAt); err != nil {
		return nil, fmt.Errorf("error parsing created_at: %w", err)
	}
	if acc.UpdatedAt, err = time.Parse(time.RFC3339Nano, updatedAt); err != nil {
		return nil, fmt.Errorf("error parsing updated_at: %w", err)
	}
	return &acc, nil
}

func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}

func isUniqueEmailViolation(err error) bool {
	var se *sqlite.Error
	if !errors.As(err, &se) {
		return false
	}
	return se.Code()&0xff == sqlite3.SQLITE_CONSTRAINT && strings.Contains(se.Error(), "account.email")
}
