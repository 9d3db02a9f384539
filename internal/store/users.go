package store

import (
	"context"
	"database/sql"
	"errors"

	"freshmart/internal/models"
)

const userColumns = `id, email, password, first_name, last_name,
	COALESCE(phone, '') as phone, COALESCE(address, '') as address,
	is_admin, is_active, created_at, updated_at`

func scanUser(row *sql.Row) (*models.User, error) {
	var u models.User
	err := row.Scan(
		&u.ID, &u.Email, &u.Password, &u.FirstName, &u.LastName,
		&u.Phone, &u.Address, &u.IsAdmin, &u.IsActive, &u.CreatedAt, &u.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func userByID(ctx context.Context, q queryer, id int64) (*models.User, error) {
	row := q.QueryRowContext(ctx,
		"SELECT "+userColumns+" FROM users WHERE id = ?", id)
	return scanUser(row)
}

func (s *Store) UserByID(ctx context.Context, id int64) (*models.User, error) {
	return userByID(ctx, s.db, id)
}

func (s *Store) UserByEmail(ctx context.Context, email string) (*models.User, error) {
	row := s.db.QueryRowContext(ctx,
		"SELECT "+userColumns+" FROM users WHERE email = ?", email)
	return scanUser(row)
}

// CreateUser inserts a user and fills in the generated id
func (s *Store) CreateUser(ctx context.Context, u *models.User) error {
	res, err := s.db.ExecContext(ctx, `
		INSERT INTO users (email, password, first_name, last_name, phone, address, is_admin, is_active)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`, u.Email, u.Password, u.FirstName, u.LastName, u.Phone, u.Address, u.IsAdmin, u.IsActive)
	if err != nil {
		return err
	}

	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	u.ID = id
	return nil
}
