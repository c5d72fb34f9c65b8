package store

import (
	"context"
	"database/sql"
	"time"
)

type BoxesStore interface {
	Create(ctx context.Context, box *Box) (int64, error)
	Get(ctx context.Context, id int64) (*Box, error)
	List(ctx context.Context) ([]Box, error)
	Update(ctx context.Context, box *Box) error
	Delete(ctx context.Context, id int64) error
}

type boxesStore struct {
	db *sql.DB
}

func NewBoxesStore(db *sql.DB) BoxesStore {
	return &boxesStore{db: db}
}

const boxColumns = `id, name, os_id, addr, ssh_port, login, key_name, notes, status, created_at, updated_at`

func (s *boxesStore) Create(ctx context.Context, box *Box) (int64, error) {
	now := time.Now().UTC()
	if box.Status == "" {
		box.Status = StatusActive
	}
	if box.SSHPort == 0 {
		box.SSHPort = 22
	}
	res, err := s.db.ExecContext(ctx, `
		INSERT INTO boxes(name, os_id, addr, ssh_port, login, key_name, notes, status, created_at, updated_at)
		VALUES(?,?,?,?,?,?,?,?,?,?)`,
		box.Name, box.OSID, box.Addr, box.SSHPort, box.Login, box.KeyName, box.Notes, box.Status, now, now)
	if err != nil {
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	box.ID = id
	box.CreatedAt = now
	box.UpdatedAt = now
	return id, nil
}

func (s *boxesStore) Get(ctx context.Context, id int64) (*Box, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+boxColumns+` FROM boxes WHERE id=?`, id)
	b := Box{}
	if err := row.Scan(&b.ID, &b.Name, &b.OSID, &b.Addr, &b.SSHPort, &b.Login, &b.KeyName, &b.Notes, &b.Status, &b.CreatedAt, &b.UpdatedAt); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return &b, nil
}

func (s *boxesStore) List(ctx context.Context) ([]Box, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT `+boxColumns+` FROM boxes ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var res []Box
	for rows.Next() {
		b := Box{}
		if err := rows.Scan(&b.ID, &b.Name, &b.OSID, &b.Addr, &b.SSHPort, &b.Login, &b.KeyName, &b.Notes, &b.Status, &b.CreatedAt, &b.UpdatedAt); err != nil {
			return nil, err
		}
		res = append(res, b)
	}
	return res, rows.Err()
}

func (s *boxesStore) Update(ctx context.Context, box *Box) error {
	now := time.Now().UTC()
	_, err := s.db.ExecContext(ctx, `
		UPDATE boxes SET name=?, os_id=?, addr=?, ssh_port=?, login=?, key_name=?, notes=?, status=?, updated_at=?
		WHERE id=?`,
		box.Name, box.OSID, box.Addr, box.SSHPort, box.Login, box.KeyName, box.Notes, box.Status, now, box.ID)
	return err
}

func (s *boxesStore) Delete(ctx context.Context, id int64) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM boxes WHERE id=?`, id)
	return err
}
