package store

import (
	"context"
	"database/sql"
	"time"
)

type SessionsStore interface {
	Save(ctx context.Context, rec *SessionRecord) error
	Get(ctx context.Context, id string) (*SessionRecord, error)
	Touch(ctx context.Context, id string, seenAt time.Time) error
	Delete(ctx context.Context, id string) error
	DeleteForUser(ctx context.Context, userID int64) error
	PurgeExpired(ctx context.Context, now time.Time) (int64, error)
}

type sessionsStore struct {
	db *sql.DB
}

func NewSessionsStore(db *sql.DB) SessionsStore {
	return &sessionsStore{db: db}
}

const sessionColumns = `id, user_id, username, firstname, lastname, lang, template, role, ip, host, created_at, last_seen_at, expires_at`

func (s *sessionsStore) Save(ctx context.Context, rec *SessionRecord) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO sessions(`+sessionColumns+`)
		VALUES(?,?,?,?,?,?,?,?,?,?,?,?,?)`,
		rec.ID, rec.UserID, rec.Username, rec.Firstname, rec.Lastname, rec.Lang, rec.Template,
		rec.Role, rec.IP, rec.Host, rec.CreatedAt, rec.LastSeenAt, rec.ExpiresAt)
	return err
}

// Get returns (nil, nil) for unknown or expired sessions. Expired rows are
// left for the janitor to purge.
func (s *sessionsStore) Get(ctx context.Context, id string) (*SessionRecord, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+sessionColumns+` FROM sessions WHERE id=?`, id)
	rec := SessionRecord{}
	if err := row.Scan(
		&rec.ID, &rec.UserID, &rec.Username, &rec.Firstname, &rec.Lastname, &rec.Lang, &rec.Template,
		&rec.Role, &rec.IP, &rec.Host, &rec.CreatedAt, &rec.LastSeenAt, &rec.ExpiresAt); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	if !rec.ExpiresAt.After(time.Now().UTC()) {
		return nil, nil
	}
	return &rec, nil
}

func (s *sessionsStore) Touch(ctx context.Context, id string, seenAt time.Time) error {
	_, err := s.db.ExecContext(ctx, `UPDATE sessions SET last_seen_at=? WHERE id=?`, seenAt, id)
	return err
}

func (s *sessionsStore) Delete(ctx context.Context, id string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM sessions WHERE id=?`, id)
	return err
}

func (s *sessionsStore) DeleteForUser(ctx context.Context, userID int64) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM sessions WHERE user_id=?`, userID)
	return err
}

func (s *sessionsStore) PurgeExpired(ctx context.Context, now time.Time) (int64, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM sessions WHERE expires_at <= ?`, now)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
