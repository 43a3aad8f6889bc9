package sessions

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"route-notify-service/internal/ports"
)

// SQLStore keeps sessions in Postgres. Expired rows are deleted lazily on
// read; Put refreshes an existing token's expiry.
type SQLStore struct {
	DB *sql.DB
}

func NewSQLStore(db *sql.DB) *SQLStore {
	return &SQLStore{DB: db}
}

// InitSchema creates the sessions table if it does not exist.
func InitSchema(db *sql.DB) error {
	_, err := db.Exec(`
	CREATE TABLE IF NOT EXISTS sessions (
		token      TEXT PRIMARY KEY,
		login_time TIMESTAMPTZ NOT NULL,
		expires_at TIMESTAMPTZ NOT NULL
	);`)
	if err != nil {
		return fmt.Errorf("init sessions schema: %w", err)
	}

	return nil
}

func (s *SQLStore) Put(ctx context.Context, sess ports.Session, ttl time.Duration) error {
	if s.DB == nil {
		return errors.New("session store: db is nil")
	}

	q := `
	INSERT INTO sessions (token, login_time, expires_at)
	VALUES ($1, $2, $3)
	ON CONFLICT (token) DO UPDATE
	SET login_time = EXCLUDED.login_time,
		expires_at = EXCLUDED.expires_at;
	`

	expiresAt := time.Now().Add(ttl)
	if _, err := s.DB.ExecContext(ctx, q, sess.Token, sess.LoginTime.UTC(), expiresAt.UTC()); err != nil {
		return fmt.Errorf("put session: %w", err)
	}

	return nil
}

func (s *SQLStore) Get(ctx context.Context, token string) (*ports.Session, error) {
	if s.DB == nil {
		return nil, errors.New("session store: db is nil")
	}

	q := `SELECT login_time, expires_at FROM sessions WHERE token = $1;`

	var loginTime, expiresAt time.Time
	err := s.DB.QueryRowContext(ctx, q, token).Scan(&loginTime, &expiresAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get session: %w", err)
	}

	if time.Now().After(expiresAt) {
		if err := s.Delete(ctx, token); err != nil {
			return nil, err
		}
		return nil, nil
	}

	return &ports.Session{Token: token, LoginTime: loginTime}, nil
}

func (s *SQLStore) Delete(ctx context.Context, token string) error {
	if s.DB == nil {
		return errors.New("session store: db is nil")
	}

	if _, err := s.DB.ExecContext(ctx, `DELETE FROM sessions WHERE token = $1;`, token); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}

	return nil
}
