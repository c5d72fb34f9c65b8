package store

import (
	"context"
	"database/sql"
)

type OSStore interface {
	List(ctx context.Context) ([]OS, error)
	Get(ctx context.Context, id int64) (*OS, error)
	Create(ctx context.Context, name string) (int64, error)
}

type osStore struct {
	db *sql.DB
}

func NewOSStore(db *sql.DB) OSStore {
	return &osStore{db: db}
}

func (s *osStore) List(ctx context.Context) ([]OS, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id, name FROM os ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var res []OS
	for rows.Next() {
		o := OS{}
		if err := rows.Scan(&o.ID, &o.Name); err != nil {
			return nil, err
		}
		res = append(res, o)
	}
	return res, rows.Err()
}

func (s *osStore) Get(ctx context.Context, id int64) (*OS, error) {
	row := s.db.QueryRowContext(ctx, `SELECT id, name FROM os WHERE id=?`, id)
	o := OS{}
	if err := row.Scan(&o.ID, &o.Name); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return &o, nil
}

func (s *osStore) Create(ctx context.Context, name string) (int64, error) {
	res, err := s.db.ExecContext(ctx, `INSERT INTO os(name) VALUES(?)`, name)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}
