// Package favorites toggles membership of songs in a user's favorites
// set. Favoriting is idempotent; unfavoriting an absent edge is an
// explicit, soft failure so callers can surface it without treating it
// as a missing song.
package favorites

import (
	"context"
	"errors"
)

// ErrNotFavorited is returned by Unfavorite when there was no edge to
// remove. It is deliberately distinct from a not-found user or song.
var ErrNotFavorited = errors.New("song is not favorited")

// EdgeStore is the slice of the metadata store the manager needs.
// AddFavorite and RemoveFavorite report whether an edge was actually
// created or removed.
type EdgeStore interface {
	AddFavorite(ctx context.Context, userID, songID int64) (bool, error)
	RemoveFavorite(ctx context.Context, userID, songID int64) (bool, error)
}

type Manager struct {
	edges EdgeStore
}

func NewManager(edges EdgeStore) *Manager {
	return &Manager{edges: edges}
}

// Favorite adds the song to the user's favorites. Repeats are absorbed
// by the edge set, so favoriting twice succeeds and leaves one edge.
func (m *Manager) Favorite(ctx context.Context, userID, songID int64) error {
	_, err := m.edges.AddFavorite(ctx, userID, songID)
	return err
}

// Unfavorite removes the song from the user's favorites, failing with
// ErrNotFavorited when there was nothing to remove.
func (m *Manager) Unfavorite(ctx context.Context, userID, songID int64) error {
	removed, err := m.edges.RemoveFavorite(ctx, userID, songID)
	if err != nil {
		return err
	}
	if !removed {
		return ErrNotFavorited
	}
	return nil
}
