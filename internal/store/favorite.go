package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
)

// AddFavorite inserts the (user, song) edge and reports whether a new
// edge was created. The edge set absorbs repeats, so inserting an
// existing edge succeeds with inserted=false.
func (s *Store) AddFavorite(ctx context.Context, userID, songID int64) (bool, error) {
	var inserted bool
	err := s.inTx(ctx, func(tx pgx.Tx) error {
		tag, err := tx.Exec(ctx, insertFavoriteQuery, userID, songID)
		if err != nil {
			return err
		}
		inserted = tag.RowsAffected() > 0
		return nil
	})
	if err != nil {
		if pgErrCode(err) == pgForeignKeyViolation {
			return false, ErrNotFound
		}
		return false, fmt.Errorf("error adding favorite: %w", err)
	}
	return inserted, nil
}

// RemoveFavorite deletes the edge and reports whether one existed.
func (s *Store) RemoveFavorite(ctx context.Context, userID, songID int64) (bool, error) {
	var removed bool
	err := s.inTx(ctx, func(tx pgx.Tx) error {
		tag, err := tx.Exec(ctx, deleteFavoriteQuery, userID, songID)
		if err != nil {
			return err
		}
		removed = tag.RowsAffected() > 0
		return nil
	})
	if err != nil {
		return false, fmt.Errorf("error removing favorite: %w", err)
	}
	return removed, nil
}

func (s *Store) IsFavorite(ctx context.Context, userID, songID int64) (bool, error) {
	var one int
	err := s.pool.QueryRow(ctx, selectFavoriteQuery, userID, songID).Scan(&one)
	if errors.Is(err, pgx.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("error checking favorite: %w", err)
	}
	return true, nil
}

// ListFavorites returns the songs the user has favorited.
func (s *Store) ListFavorites(ctx context.Context, userID int64) ([]*Song, error) {
	rows, err := s.pool.Query(ctx, selectFavoritesQuery, userID)
	if err != nil {
		return nil, fmt.Errorf("error listing favorites: %w", err)
	}
	defer rows.Close()
	return collectSongs(rows)
}
