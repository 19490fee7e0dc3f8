package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"pet-manager-api/internal/model"
)

// CreateUser inserts a row and returns its id. A unique-key violation on
// EmailAddress is ErrDuplicateEmail.
func (s *Store) CreateUser(ctx context.Context, email, passwordHash string) (int64, error) {
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO users (EmailAddress, password) VALUES (?, ?)`,
		email, passwordHash,
	)
	if err != nil {
		if isDuplicate(err) {
			return 0, ErrDuplicateEmail
		}
		return 0, fmt.Errorf("insert user: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("insert user id: %w", err)
	}
	return id, nil
}

func (s *Store) UserByEmail(ctx context.Context, email string) (*model.User, error) {
	u := &model.User{}
	err := s.db.GetContext(ctx, u,
		`SELECT user_id, EmailAddress, password FROM users WHERE EmailAddress = ?`, email)
	if err != nil {
		return nil, notFound(err)
	}
	return u, nil
}

func (s *Store) UserByID(ctx context.Context, id int64) (*model.User, error) {
	u := &model.User{}
	err := s.db.GetContext(ctx, u,
		`SELECT user_id, EmailAddress, password FROM users WHERE user_id = ?`, id)
	if err != nil {
		return nil, notFound(err)
	}
	return u, nil
}

func (s *Store) UpdatePassword(ctx context.Context, id int64, passwordHash string) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE users SET password = ? WHERE user_id = ?`, passwordHash, id)
	if err != nil {
		return fmt.Errorf("update password: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update password: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func notFound(err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}
	return fmt.Errorf("query user: %w", err)
}
