// Package ingest validates an uploaded song bundle, extracts metadata
// from its XML descriptor, persists the artifacts and commits the
// composite song record. Ordering is fixed: validate, parse, write
// artifacts, commit. Nothing is written to durable storage before
// validation and parsing have both passed.
package ingest

import (
	"context"
	"fmt"
	"mime"
	"time"

	"go.uber.org/zap"

	"github.com/chartvault/ChartVaultServer/internal/storage"
	"github.com/chartvault/ChartVaultServer/internal/store"
)

// MediaTypeError reports which artifact arrived with the wrong
// declared media type.
type MediaTypeError struct {
	Artifact string
	Got      string
}

func (e *MediaTypeError) Error() string {
	return fmt.Sprintf("unsupported media type for %s: %q", e.Artifact, e.Got)
}

// Artifact is one uploaded file plus its declared media type.
type Artifact struct {
	Data        []byte
	ContentType string
}

// Bundle is everything a song upload carries. Audio, art and the
// descriptor are mandatory; the three chart files are each optional.
type Bundle struct {
	Audio      Artifact
	Art        Artifact
	Descriptor Artifact

	Easy   []byte
	Normal []byte
	Hard   []byte

	UploaderID int64
}

// SongStore is the slice of the metadata store the pipeline commits to.
type SongStore interface {
	CreateSong(ctx context.Context, song *store.Song) (*store.Song, error)
}

type Pipeline struct {
	songs   SongStore
	blobs   storage.Store
	metrics *Metrics
}

func NewPipeline(songs SongStore, blobs storage.Store, metrics *Metrics) *Pipeline {
	return &Pipeline{songs: songs, blobs: blobs, metrics: metrics}
}

// Ingest runs the full pipeline and returns the persisted song with
// its assigned id. On a media type or descriptor failure nothing has
// been written. If the final commit fails, artifacts written earlier
// stay behind as orphans; they are logged, not rolled back.
func (p *Pipeline) Ingest(ctx context.Context, bundle *Bundle) (*store.Song, error) {
	start := time.Now()

	if err := validateMediaTypes(bundle); err != nil {
		p.metrics.IngestFailures.WithLabelValues("media_type").Inc()
		return nil, err
	}

	desc, err := ParseDescriptor(bundle.Descriptor.Data)
	if err != nil {
		p.metrics.IngestFailures.WithLabelValues("descriptor").Inc()
		return nil, err
	}

	audioKey, err := p.put(ctx, storage.KindAudio, bundle.Audio.Data)
	if err != nil {
		p.metrics.IngestFailures.WithLabelValues("storage").Inc()
		return nil, fmt.Errorf("error storing audio: %w", err)
	}
	artKey, err := p.put(ctx, storage.KindImage, bundle.Art.Data)
	if err != nil {
		p.metrics.IngestFailures.WithLabelValues("storage").Inc()
		return nil, fmt.Errorf("error storing art: %w", err)
	}

	song := &store.Song{
		Title:      desc.Title,
		Author:     desc.Artist,
		AudioKey:   audioKey,
		Art:        store.ArtRef{ImageKey: artKey, Artist: desc.Jacket.Artist},
		UploaderID: bundle.UploaderID,
	}

	slots := []struct {
		name string
		elem *DifficultyElem
		data []byte
		dst  *store.DifficultyChart
	}{
		{"easy", desc.Easy, bundle.Easy, &song.Easy},
		{"normal", desc.Normal, bundle.Normal, &song.Normal},
		{"hard", desc.Hard, bundle.Hard, &song.Hard},
	}
	for _, slot := range slots {
		// The descriptor decides which slots exist. Chart bytes for a
		// slot the descriptor omits are dropped without being written.
		if slot.elem == nil {
			continue
		}
		slot.dst.Difficulty = &slot.elem.Difficulty
		slot.dst.Charter = &slot.elem.Charter
		if len(slot.data) == 0 {
			continue
		}
		chartKey, err := p.put(ctx, storage.KindChart, slot.data)
		if err != nil {
			p.metrics.IngestFailures.WithLabelValues("storage").Inc()
			return nil, fmt.Errorf("error storing %s chart: %w", slot.name, err)
		}
		slot.dst.ChartKey = &chartKey
	}

	persisted, err := p.songs.CreateSong(ctx, song)
	if err != nil {
		p.metrics.IngestFailures.WithLabelValues("commit").Inc()
		logger.Warn("Song commit failed, stored artifacts are orphaned",
			zap.String("audioKey", audioKey),
			zap.String("artKey", artKey),
			zap.Error(err))
		return nil, fmt.Errorf("error committing song record: %w", err)
	}

	p.metrics.SongsIngested.Inc()
	p.metrics.IngestDuration.Observe(time.Since(start).Seconds())
	logger.Info("Ingested song",
		zap.Int64("songId", persisted.ID),
		zap.String("title", persisted.Title),
		zap.Int64("uploaderId", persisted.UploaderID))
	return persisted, nil
}

func (p *Pipeline) put(ctx context.Context, kind storage.Kind, data []byte) (string, error) {
	key, err := p.blobs.Put(ctx, kind, data)
	if err != nil {
		return "", err
	}
	p.metrics.BytesStored.Add(float64(len(data)))
	return key, nil
}

var allowedMediaTypes = map[string][]string{
	"audio":      {"audio/wav", "audio/x-wav"},
	"art":        {"image/png"},
	"descriptor": {"text/xml", "application/xml"},
}

func validateMediaTypes(bundle *Bundle) error {
	checks := []struct {
		name     string
		declared string
	}{
		{"audio", bundle.Audio.ContentType},
		{"art", bundle.Art.ContentType},
		{"descriptor", bundle.Descriptor.ContentType},
	}
	for _, check := range checks {
		mediaType, _, err := mime.ParseMediaType(check.declared)
		if err != nil {
			return &MediaTypeError{Artifact: check.name, Got: check.declared}
		}
		if !contains(allowedMediaTypes[check.name], mediaType) {
			return &MediaTypeError{Artifact: check.name, Got: check.declared}
		}
	}
	return nil
}

func contains(values []string, want string) bool {
	for _, v := range values {
		if v == want {
			return true
		}
	}
	return false
}
