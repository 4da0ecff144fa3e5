package service

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/chartvault/ChartVaultServer/internal/auth"
	"github.com/chartvault/ChartVaultServer/internal/favorites"
	"github.com/chartvault/ChartVaultServer/internal/ingest"
	"github.com/chartvault/ChartVaultServer/internal/storage"
	"github.com/chartvault/ChartVaultServer/internal/store"
)

// Store is the slice of the metadata store the handlers consume.
// *store.Store satisfies it; tests substitute a fake.
type Store interface {
	CreateUser(ctx context.Context, username, passwordHash string) (*store.User, error)
	GetUser(ctx context.Context, id int64) (*store.User, error)
	GetUserByUsername(ctx context.Context, username string) (*store.User, error)
	ListUsers(ctx context.Context, offset, limit int) ([]*store.User, error)
	UpdateUser(ctx context.Context, id int64, username, passwordHash string) error
	DeleteUser(ctx context.Context, id int64) error

	GetSong(ctx context.Context, id int64) (*store.Song, error)
	ListSongs(ctx context.Context, offset, limit int) ([]*store.Song, error)
	DeleteSong(ctx context.Context, id int64) error
	CountSongs(ctx context.Context) (int, error)

	IsFavorite(ctx context.Context, userID, songID int64) (bool, error)
	ListFavorites(ctx context.Context, userID int64) ([]*store.Song, error)
}

type Handler struct {
	store     Store
	gate      *auth.Gate
	pipeline  *ingest.Pipeline
	favorites *favorites.Manager
	blobs     storage.Store
}

func NewHandler(s Store, gate *auth.Gate, pipeline *ingest.Pipeline, favs *favorites.Manager, blobs storage.Store) *Handler {
	return &Handler{
		store:     s,
		gate:      gate,
		pipeline:  pipeline,
		favorites: favs,
		blobs:     blobs,
	}
}

type Message struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

func (h *Handler) Home(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"service": "ChartVault",
		"status":  "healthy",
	})
}

func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "healthy",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}
