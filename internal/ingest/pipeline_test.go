package ingest

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"testing"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/chartvault/ChartVaultServer/internal/storage"
	"github.com/chartvault/ChartVaultServer/internal/store"
)

type fakeBlobStore struct {
	blobs  map[string][]byte
	writes int
}

func newFakeBlobStore() *fakeBlobStore {
	return &fakeBlobStore{blobs: map[string][]byte{}}
}

func (f *fakeBlobStore) Put(_ context.Context, kind storage.Kind, data []byte) (string, error) {
	f.writes++
	key := fmt.Sprintf("%s/%d", kind, f.writes)
	f.blobs[key] = data
	return key, nil
}

func (f *fakeBlobStore) Open(key string) (io.ReadCloser, error) {
	data, ok := f.blobs[key]
	if !ok {
		return nil, storage.ErrNotFound
	}
	return io.NopCloser(bytes.NewReader(data)), nil
}

type fakeSongStore struct {
	songs  []*store.Song
	nextID int64
	fail   bool
}

func (f *fakeSongStore) CreateSong(_ context.Context, song *store.Song) (*store.Song, error) {
	if f.fail {
		return nil, errors.New("store is down")
	}
	f.nextID++
	persisted := *song
	persisted.ID = f.nextID
	f.songs = append(f.songs, &persisted)
	return &persisted, nil
}

func newTestPipeline(songs *fakeSongStore, blobs *fakeBlobStore) *Pipeline {
	return NewPipeline(songs, blobs, NewMetrics(prometheus.NewRegistry()))
}

func validBundle() *Bundle {
	return &Bundle{
		Audio:      Artifact{Data: []byte("RIFF...."), ContentType: "audio/wav"},
		Art:        Artifact{Data: []byte("PNG...."), ContentType: "image/png"},
		Descriptor: Artifact{Data: []byte(fullDescriptor), ContentType: "text/xml"},
		Easy:       []byte("easy chart"),
		Normal:     []byte("normal chart"),
		UploaderID: 42,
	}
}

func TestIngest(t *testing.T) {
	ctx := context.Background()

	t.Run("ValidBundle", func(t *testing.T) {
		songs := &fakeSongStore{}
		blobs := newFakeBlobStore()
		pipeline := newTestPipeline(songs, blobs)

		song, err := pipeline.Ingest(ctx, validBundle())
		if err != nil {
			t.Fatalf("failed to ingest: %v", err)
		}

		if song.ID == 0 {
			t.Error("song should have an assigned id")
		}
		if song.Title != "Test Song" || song.Author != "Test Artist" {
			t.Errorf("unexpected title/author: %q / %q", song.Title, song.Author)
		}
		if song.Art.Artist != "dave" {
			t.Errorf("expected jacket artist dave, got %q", song.Art.Artist)
		}
		if song.UploaderID != 42 {
			t.Errorf("expected uploader 42, got %d", song.UploaderID)
		}

		// Difficulty composites mirror the descriptor exactly.
		if song.Easy.Difficulty == nil || *song.Easy.Difficulty != "3" {
			t.Errorf("unexpected easy difficulty: %v", song.Easy.Difficulty)
		}
		if song.Normal.Charter == nil || *song.Normal.Charter != "bob" {
			t.Errorf("unexpected normal charter: %v", song.Normal.Charter)
		}

		// Chart keys exist iff the chart file was attached. The hard
		// slot is described but has no file.
		if !song.Easy.Attached() || !song.Normal.Attached() {
			t.Error("easy and normal charts should have content keys")
		}
		if song.Hard.Attached() {
			t.Error("hard chart has no file and should have no content key")
		}
		if song.Hard.Difficulty == nil || *song.Hard.Difficulty != "11" {
			t.Errorf("hard slot should keep its descriptor metadata: %v", song.Hard.Difficulty)
		}

		// audio + art + easy + normal
		if blobs.writes != 4 {
			t.Errorf("expected 4 artifact writes, got %d", blobs.writes)
		}
		if _, err := blobs.Open(song.AudioKey); err != nil {
			t.Errorf("audio key should resolve: %v", err)
		}
		if _, err := blobs.Open(song.Art.ImageKey); err != nil {
			t.Errorf("art key should resolve: %v", err)
		}
	})

	t.Run("WrongAudioMediaType", func(t *testing.T) {
		blobs := newFakeBlobStore()
		pipeline := newTestPipeline(&fakeSongStore{}, blobs)

		bundle := validBundle()
		bundle.Audio.ContentType = "audio/mpeg"

		_, err := pipeline.Ingest(ctx, bundle)
		var mediaTypeErr *MediaTypeError
		if !errors.As(err, &mediaTypeErr) {
			t.Fatalf("expected MediaTypeError, got %v", err)
		}
		if mediaTypeErr.Artifact != "audio" {
			t.Errorf("expected the audio artifact to be named, got %q", mediaTypeErr.Artifact)
		}
		if blobs.writes != 0 {
			t.Errorf("no artifact may be written on validation failure, got %d writes", blobs.writes)
		}
	})

	t.Run("WrongArtMediaType", func(t *testing.T) {
		blobs := newFakeBlobStore()
		pipeline := newTestPipeline(&fakeSongStore{}, blobs)

		bundle := validBundle()
		bundle.Art.ContentType = "image/jpeg"

		_, err := pipeline.Ingest(ctx, bundle)
		var mediaTypeErr *MediaTypeError
		if !errors.As(err, &mediaTypeErr) {
			t.Fatalf("expected MediaTypeError, got %v", err)
		}
		if mediaTypeErr.Artifact != "art" {
			t.Errorf("expected the art artifact to be named, got %q", mediaTypeErr.Artifact)
		}
	})

	t.Run("ContentTypeParameters", func(t *testing.T) {
		songs := &fakeSongStore{}
		pipeline := newTestPipeline(songs, newFakeBlobStore())

		bundle := validBundle()
		bundle.Descriptor.ContentType = "text/xml; charset=utf-8"

		if _, err := pipeline.Ingest(ctx, bundle); err != nil {
			t.Fatalf("media type parameters should be ignored: %v", err)
		}
	})

	t.Run("MalformedDescriptor", func(t *testing.T) {
		blobs := newFakeBlobStore()
		pipeline := newTestPipeline(&fakeSongStore{}, blobs)

		bundle := validBundle()
		bundle.Descriptor.Data = []byte("<song><title>broken")

		if _, err := pipeline.Ingest(ctx, bundle); !errors.Is(err, ErrMalformedDescriptor) {
			t.Fatalf("expected ErrMalformedDescriptor, got %v", err)
		}
		if blobs.writes != 0 {
			t.Errorf("no artifact may be written on parse failure, got %d writes", blobs.writes)
		}
	})

	t.Run("DescriptorOmissionWins", func(t *testing.T) {
		songs := &fakeSongStore{}
		blobs := newFakeBlobStore()
		pipeline := newTestPipeline(songs, blobs)

		bundle := validBundle()
		bundle.Descriptor.Data = []byte(`
			<song>
				<title>No Hard</title>
				<artist>Someone</artist>
				<easy difficulty="2" charter="alice"/>
				<normal difficulty="6" charter="bob"/>
				<jacket artist="dave"/>
			</song>`)
		// A hard chart file arrives anyway. The descriptor says the
		// slot does not exist, so the bytes are dropped.
		bundle.Hard = []byte("stray hard chart")

		song, err := pipeline.Ingest(ctx, bundle)
		if err != nil {
			t.Fatalf("failed to ingest: %v", err)
		}

		if song.Hard.Difficulty != nil || song.Hard.Charter != nil || song.Hard.ChartKey != nil {
			t.Errorf("hard slot should be empty, got %+v", song.Hard)
		}
		// audio + art + easy + normal, no hard
		if blobs.writes != 4 {
			t.Errorf("expected 4 artifact writes, got %d", blobs.writes)
		}
	})

	t.Run("CommitFailureOrphansArtifacts", func(t *testing.T) {
		blobs := newFakeBlobStore()
		pipeline := newTestPipeline(&fakeSongStore{fail: true}, blobs)

		if _, err := pipeline.Ingest(ctx, validBundle()); err == nil {
			t.Fatal("expected an error when the record commit fails")
		}
		// Artifacts written before the failed commit stay behind.
		if blobs.writes != 4 {
			t.Errorf("expected 4 orphaned artifact writes, got %d", blobs.writes)
		}
	})

	t.Run("RoundTripFields", func(t *testing.T) {
		songs := &fakeSongStore{}
		pipeline := newTestPipeline(songs, newFakeBlobStore())

		song, err := pipeline.Ingest(ctx, validBundle())
		if err != nil {
			t.Fatalf("failed to ingest: %v", err)
		}

		persisted := songs.songs[0]
		if persisted.Title != song.Title || persisted.Author != song.Author {
			t.Error("persisted title/author should match the returned song")
		}
		if persisted.Art != song.Art {
			t.Errorf("persisted art %+v differs from returned %+v", persisted.Art, song.Art)
		}
		if *persisted.Easy.Difficulty != *song.Easy.Difficulty ||
			*persisted.Easy.ChartKey != *song.Easy.ChartKey ||
			*persisted.Easy.Charter != *song.Easy.Charter {
			t.Error("persisted easy composite differs from returned song")
		}
	})
}
