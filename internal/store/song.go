package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

// CreateSong commits the composite song record and returns it with the
// assigned id. The caller is expected to have written the referenced
// artifacts already; this is the final step of ingestion.
func (s *Store) CreateSong(ctx context.Context, song *Song) (*Song, error) {
	persisted := *song

	err := s.inTx(ctx, func(tx pgx.Tx) error {
		return tx.QueryRow(ctx, insertSongQuery,
			song.Title,
			song.Author,
			song.AudioKey,
			song.Art.ImageKey,
			song.Art.Artist,
			song.Easy.Difficulty, song.Easy.ChartKey, song.Easy.Charter,
			song.Normal.Difficulty, song.Normal.ChartKey, song.Normal.Charter,
			song.Hard.Difficulty, song.Hard.ChartKey, song.Hard.Charter,
			song.UploaderID,
		).Scan(&persisted.ID)
	})
	if err != nil {
		if pgErrCode(err) == pgForeignKeyViolation {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("error creating song record: %w", err)
	}

	logger.Info("Created song",
		zap.Int64("songId", persisted.ID),
		zap.String("title", persisted.Title),
		zap.Int64("uploaderId", persisted.UploaderID))
	return &persisted, nil
}

func (s *Store) GetSong(ctx context.Context, id int64) (*Song, error) {
	return scanSong(s.pool.QueryRow(ctx, selectSongByIDQuery, id))
}

func (s *Store) ListSongs(ctx context.Context, offset, limit int) ([]*Song, error) {
	rows, err := s.pool.Query(ctx, selectSongsQuery, offset, limit)
	if err != nil {
		return nil, fmt.Errorf("error listing songs: %w", err)
	}
	defer rows.Close()
	return collectSongs(rows)
}

func (s *Store) DeleteSong(ctx context.Context, id int64) error {
	err := s.inTx(ctx, func(tx pgx.Tx) error {
		tag, err := tx.Exec(ctx, deleteSongQuery, id)
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
		return fmt.Errorf("error deleting song: %w", err)
	}

	logger.Info("Deleted song", zap.Int64("songId", id))
	return nil
}

func (s *Store) CountSongs(ctx context.Context) (int, error) {
	var count int
	if err := s.pool.QueryRow(ctx, countSongsQuery).Scan(&count); err != nil {
		return 0, fmt.Errorf("error counting songs: %w", err)
	}
	return count, nil
}

func scanSong(row pgx.Row) (*Song, error) {
	var song Song
	err := row.Scan(
		&song.ID,
		&song.Title,
		&song.Author,
		&song.AudioKey,
		&song.Art.ImageKey,
		&song.Art.Artist,
		&song.Easy.Difficulty, &song.Easy.ChartKey, &song.Easy.Charter,
		&song.Normal.Difficulty, &song.Normal.ChartKey, &song.Normal.Charter,
		&song.Hard.Difficulty, &song.Hard.ChartKey, &song.Hard.Charter,
		&song.UploaderID,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("error scanning song: %w", err)
	}
	return &song, nil
}

func collectSongs(rows pgx.Rows) ([]*Song, error) {
	var songs []*Song
	for rows.Next() {
		song, err := scanSong(rows)
		if err != nil {
			return nil, err
		}
		songs = append(songs, song)
	}
	return songs, rows.Err()
}
