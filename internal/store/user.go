package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

// CreateUser inserts a new user and returns it with the assigned id.
// The username uniqueness constraint is enforced here, at the store.
func (s *Store) CreateUser(ctx context.Context, username, passwordHash string) (*User, error) {
	user := &User{Username: username, PasswordHash: passwordHash}

	err := s.inTx(ctx, func(tx pgx.Tx) error {
		return tx.QueryRow(ctx, insertUserQuery, username, passwordHash).Scan(&user.ID)
	})
	if err != nil {
		if pgErrCode(err) == pgUniqueViolation {
			return nil, ErrUsernameTaken
		}
		return nil, fmt.Errorf("error creating user record: %w", err)
	}

	logger.Info("Created user", zap.Int64("userId", user.ID), zap.String("username", username))
	return user, nil
}

func (s *Store) GetUser(ctx context.Context, id int64) (*User, error) {
	return s.scanUser(s.pool.QueryRow(ctx, selectUserByIDQuery, id))
}

func (s *Store) GetUserByUsername(ctx context.Context, username string) (*User, error) {
	return s.scanUser(s.pool.QueryRow(ctx, selectUserByUsernameQuery, username))
}

func (s *Store) ListUsers(ctx context.Context, offset, limit int) ([]*User, error) {
	rows, err := s.pool.Query(ctx, selectUsersQuery, offset, limit)
	if err != nil {
		return nil, fmt.Errorf("error listing users: %w", err)
	}
	defer rows.Close()

	var users []*User
	for rows.Next() {
		var u User
		if err := rows.Scan(&u.ID, &u.Username, &u.PasswordHash); err != nil {
			return nil, fmt.Errorf("error scanning user: %w", err)
		}
		users = append(users, &u)
	}
	return users, rows.Err()
}

// UpdateUser replaces the username and password hash in one
// transaction so a concurrent reader never sees half an update.
func (s *Store) UpdateUser(ctx context.Context, id int64, username, passwordHash string) error {
	err := s.inTx(ctx, func(tx pgx.Tx) error {
		tag, err := tx.Exec(ctx, updateUserQuery, id, username, passwordHash)
		if err != nil {
			return err
		}
		if tag.RowsAffected() == 0 {
			return ErrNotFound
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return ErrNotFound
		}
		if pgErrCode(err) == pgUniqueViolation {
			return ErrUsernameTaken
		}
		return fmt.Errorf("error updating user: %w", err)
	}
	return nil
}

// DeleteUser removes the user. Uploaded songs and favorite edges go
// with it via ON DELETE CASCADE.
func (s *Store) DeleteUser(ctx context.Context, id int64) error {
	err := s.inTx(ctx, func(tx pgx.Tx) error {
		tag, err := tx.Exec(ctx, deleteUserQuery, id)
		if err != nil {
			return err
		}
		if tag.RowsAffected() == 0 {
			return ErrNotFound
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("error deleting user: %w", err)
	}

	logger.Info("Deleted user", zap.Int64("userId", id))
	return nil
}

func (s *Store) scanUser(row pgx.Row) (*User, error) {
	var u User
	err := row.Scan(&u.ID, &u.Username, &u.PasswordHash)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("error scanning user: %w", err)
	}
	return &u, nil
}
