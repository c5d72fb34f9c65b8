package store

import (
	"context"
	"database/sql"
	"time"
)

type UsersStore interface {
	FindByUsername(ctx context.Context, username string) (*User, error)
	FindByUsernameEmail(ctx context.Context, username, email string) (*User, error)
	Get(ctx context.Context, userID int64) (*User, error)
	Create(ctx context.Context, user *User) (int64, error)
	List(ctx context.Context) ([]User, error)
	RecordLogin(ctx context.Context, userID int64, at time.Time, ip, host, token string) error
	UpdatePassword(ctx context.Context, userID int64, hash, salt string) error
	SetStatus(ctx context.Context, userID int64, status string) error
	Delete(ctx context.Context, userID int64) error
}

type usersStore struct {
	db *sql.DB
}

func NewUsersStore(db *sql.DB) UsersStore {
	return &usersStore{db: db}
}

const userColumns = `id, username, firstname, lastname, email, lang, template, password_hash, salt, status, role, last_login_at, last_activity, last_ip, last_host, token, created_at, updated_at`

func (s *usersStore) FindByUsername(ctx context.Context, username string) (*User, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE username=?`, username)
	return scanUser(row)
}

func (s *usersStore) FindByUsernameEmail(ctx context.Context, username, email string) (*User, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE username=? AND email=?`, username, email)
	return scanUser(row)
}

func (s *usersStore) Get(ctx context.Context, userID int64) (*User, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE id=?`, userID)
	return scanUser(row)
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanUser(row rowScanner) (*User, error) {
	u := User{}
	var lastLogin, lastActivity sql.NullTime
	if err := row.Scan(
		&u.ID, &u.Username, &u.Firstname, &u.Lastname, &u.Email, &u.Lang, &u.Template,
		&u.PasswordHash, &u.Salt, &u.Status, &u.Role,
		&lastLogin, &lastActivity, &u.LastIP, &u.LastHost, &u.Token,
		&u.CreatedAt, &u.UpdatedAt); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	if lastLogin.Valid {
		u.LastLoginAt = &lastLogin.Time
	}
	if lastActivity.Valid {
		u.LastActivity = &lastActivity.Time
	}
	return &u, nil
}

func (s *usersStore) Create(ctx context.Context, user *User) (int64, error) {
	now := time.Now().UTC()
	if user.Status == "" {
		user.Status = StatusActive
	}
	res, err := s.db.ExecContext(ctx, `
		INSERT INTO users(username, firstname, lastname, email, lang, template, password_hash, salt, status, role, last_login_at, last_activity, last_ip, last_host, token, created_at, updated_at)
		VALUES(?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?)`,
		user.Username, user.Firstname, user.Lastname, user.Email, user.Lang, user.Template,
		user.PasswordHash, user.Salt, user.Status, user.Role,
		nullTime(user.LastLoginAt), nullTime(user.LastActivity), user.LastIP, user.LastHost, user.Token,
		now, now)
	if err != nil {
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	user.ID = id
	user.CreatedAt = now
	user.UpdatedAt = now
	return id, nil
}

func (s *usersStore) List(ctx context.Context) ([]User, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT `+userColumns+` FROM users ORDER BY username`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var res []User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		if u != nil {
			res = append(res, *u)
		}
	}
	return res, rows.Err()
}

func (s *usersStore) RecordLogin(ctx context.Context, userID int64, at time.Time, ip, host, token string) error {
	_, err := s.db.ExecContext(ctx, `
		UPDATE users SET last_login_at=?, last_activity=?, last_ip=?, last_host=?, token=?, updated_at=? WHERE id=?`,
		at, at, ip, host, token, at, userID)
	return err
}

func (s *usersStore) UpdatePassword(ctx context.Context, userID int64, hash, salt string) error {
	now := time.Now().UTC()
	_, err := s.db.ExecContext(ctx, `UPDATE users SET password_hash=?, salt=?, updated_at=? WHERE id=?`, hash, salt, now, userID)
	return err
}

func (s *usersStore) SetStatus(ctx context.Context, userID int64, status string) error {
	now := time.Now().UTC()
	_, err := s.db.ExecContext(ctx, `UPDATE users SET status=?, updated_at=? WHERE id=?`, status, now, userID)
	return err
}

func (s *usersStore) Delete(ctx context.Context, userID int64) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM users WHERE id=?`, userID)
	return err
}
