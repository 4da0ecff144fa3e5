package service

import (
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/chartvault/ChartVaultServer/internal/favorites"
	"github.com/chartvault/ChartVaultServer/internal/ingest"
	"github.com/chartvault/ChartVaultServer/internal/storage"
	"github.com/chartvault/ChartVaultServer/internal/store"
)

// songResponse wraps a song with the per-caller favorite flag. The
// flag is only present for authenticated callers.
type songResponse struct {
	*store.Song
	IsFaved *bool `json:"is_faved,omitempty"`
}

// favResponse is the soft contract of the favorite toggle endpoints:
// the song plus a status of faved, unfaved or error.
type favResponse struct {
	Song   *store.Song `json:"song"`
	Status string      `json:"status"`
}

func (h *Handler) ListSongs(c *gin.Context) {
	offset, limit := pagination(c)
	songs, err := h.store.ListSongs(c.Request.Context(), offset, limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error listing songs: " + err.Error()})
		return
	}

	user := currentUser(c)
	responses := make([]songResponse, 0, len(songs))
	for _, song := range songs {
		resp := songResponse{Song: song}
		if user != nil {
			faved, err := h.store.IsFavorite(c.Request.Context(), user.ID, song.ID)
			if err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Error checking favorites: " + err.Error()})
				return
			}
			resp.IsFaved = &faved
		}
		responses = append(responses, resp)
	}
	c.JSON(http.StatusOK, responses)
}

func (h *Handler) GetSong(c *gin.Context) {
	song, ok := h.songFromPath(c)
	if !ok {
		return
	}

	resp := songResponse{Song: song}
	if user := currentUser(c); user != nil {
		faved, err := h.store.IsFavorite(c.Request.Context(), user.ID, song.ID)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Error checking favorites: " + err.Error()})
			return
		}
		resp.IsFaved = &faved
	}
	c.JSON(http.StatusOK, resp)
}

func (h *Handler) CountSongs(c *gin.Context) {
	count, err := h.store.CountSongs(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error counting songs: " + err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"count": count})
}

// CreateSong accepts the multipart upload bundle and runs it through
// the ingestion pipeline. Media type and descriptor failures map to
// 415 before anything is written.
func (h *Handler) CreateSong(c *gin.Context) {
	user := currentUser(c)

	audio, ok := requiredFile(c, "audio")
	if !ok {
		return
	}
	art, ok := requiredFile(c, "art")
	if !ok {
		return
	}
	descriptor, ok := requiredFile(c, "descriptor")
	if !ok {
		return
	}

	bundle := &ingest.Bundle{
		Audio:      audio,
		Art:        art,
		Descriptor: descriptor,
		UploaderID: user.ID,
	}

	var err error
	if bundle.Easy, err = optionalFile(c, "easy"); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Error reading easy chart: " + err.Error()})
		return
	}
	if bundle.Normal, err = optionalFile(c, "normal"); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Error reading normal chart: " + err.Error()})
		return
	}
	if bundle.Hard, err = optionalFile(c, "hard"); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Error reading hard chart: " + err.Error()})
		return
	}

	song, err := h.pipeline.Ingest(c.Request.Context(), bundle)
	if err != nil {
		var mediaTypeErr *ingest.MediaTypeError
		switch {
		case errors.As(err, &mediaTypeErr):
			c.JSON(http.StatusUnsupportedMediaType, gin.H{"error": mediaTypeErr.Error()})
		case errors.Is(err, ingest.ErrMalformedDescriptor):
			c.JSON(http.StatusUnsupportedMediaType, gin.H{"error": "Malformed song descriptor"})
		default:
			logger.Error("Ingestion failed", zap.Int64("uploaderId", user.ID), zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Error creating song"})
		}
		return
	}

	c.JSON(http.StatusCreated, song)
}

// DeleteSong removes a song. Only its uploader may do so.
func (h *Handler) DeleteSong(c *gin.Context) {
	user := currentUser(c)
	song, ok := h.songFromPath(c)
	if !ok {
		return
	}

	if song.UploaderID != user.ID {
		c.JSON(http.StatusForbidden, gin.H{"error": "Only the uploader can delete a song"})
		return
	}

	if err := h.store.DeleteSong(c.Request.Context(), song.ID); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error deleting song: " + err.Error()})
		return
	}
	c.JSON(http.StatusOK, Message{Status: "success", Message: "Song deleted"})
}

// Favorite adds the song to the caller's favorites. Re-favoriting is
// absorbed; a relation failure surfaces as status "error" beside the
// song rather than a hard failure.
func (h *Handler) Favorite(c *gin.Context) {
	user := currentUser(c)
	song, ok := h.songFromPath(c)
	if !ok {
		return
	}

	status := "faved"
	if err := h.favorites.Favorite(c.Request.Context(), user.ID, song.ID); err != nil {
		logger.Warn("Favorite failed",
			zap.Int64("userId", user.ID),
			zap.Int64("songId", song.ID),
			zap.Error(err))
		status = "error"
	}
	c.JSON(http.StatusOK, favResponse{Song: song, Status: status})
}

// Unfavorite removes the song from the caller's favorites. Removing an
// edge that never existed surfaces as status "error".
func (h *Handler) Unfavorite(c *gin.Context) {
	user := currentUser(c)
	song, ok := h.songFromPath(c)
	if !ok {
		return
	}

	status := "unfaved"
	if err := h.favorites.Unfavorite(c.Request.Context(), user.ID, song.ID); err != nil {
		if !errors.Is(err, favorites.ErrNotFavorited) {
			logger.Warn("Unfavorite failed",
				zap.Int64("userId", user.ID),
				zap.Int64("songId", song.ID),
				zap.Error(err))
		}
		status = "error"
	}
	c.JSON(http.StatusOK, favResponse{Song: song, Status: status})
}

// Artifact streams a stored artifact of the song: audio, jacket, or
// one of the difficulty charts.
func (h *Handler) Artifact(kind string) gin.HandlerFunc {
	return func(c *gin.Context) {
		song, ok := h.songFromPath(c)
		if !ok {
			return
		}

		key, contentType := artifactKey(song, kind)
		if key == "" {
			c.JSON(http.StatusNotFound, gin.H{"error": "Artifact not found"})
			return
		}

		reader, err := h.blobs.Open(key)
		if errors.Is(err, storage.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Artifact not found"})
			return
		}
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Error opening artifact: " + err.Error()})
			return
		}
		defer reader.Close()

		data, err := io.ReadAll(reader)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Error reading artifact: " + err.Error()})
			return
		}
		c.Data(http.StatusOK, contentType, data)
	}
}

func artifactKey(song *store.Song, kind string) (key, contentType string) {
	chartKey := func(chart store.DifficultyChart) string {
		if chart.ChartKey != nil {
			return *chart.ChartKey
		}
		return ""
	}

	switch kind {
	case "audio":
		return song.AudioKey, "audio/wav"
	case "jacket":
		return song.Art.ImageKey, "image/png"
	case "easy":
		return chartKey(song.Easy), "application/octet-stream"
	case "normal":
		return chartKey(song.Normal), "application/octet-stream"
	case "hard":
		return chartKey(song.Hard), "application/octet-stream"
	}
	return "", ""
}

func (h *Handler) songFromPath(c *gin.Context) (*store.Song, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid song id"})
		return nil, false
	}

	song, err := h.store.GetSong(c.Request.Context(), id)
	if errors.Is(err, store.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Song not found"})
		return nil, false
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error getting song: " + err.Error()})
		return nil, false
	}
	return song, true
}

func requiredFile(c *gin.Context, field string) (ingest.Artifact, bool) {
	header, err := c.FormFile(field)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing " + field + " file"})
		return ingest.Artifact{}, false
	}

	data, err := readMultipartFile(header)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Error reading " + field + " file: " + err.Error()})
		return ingest.Artifact{}, false
	}

	return ingest.Artifact{
		Data:        data,
		ContentType: header.Header.Get("Content-Type"),
	}, true
}

func optionalFile(c *gin.Context, field string) ([]byte, error) {
	header, err := c.FormFile(field)
	if err != nil {
		// Absent optional charts are fine.
		return nil, nil
	}
	return readMultipartFile(header)
}

func readMultipartFile(header *multipart.FileHeader) ([]byte, error) {
	f, err := header.Open()
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return io.ReadAll(f)
}
