package ingest

import (
	"errors"
	"testing"
)

const fullDescriptor = `
<song>
	<title>Test Song</title>
	<artist>Test Artist</artist>
	<easy difficulty="3" charter="alice"/>
	<normal difficulty="7" charter="bob"/>
	<hard difficulty="11" charter="carol"/>
	<jacket artist="dave"/>
</song>`

func TestParseDescriptor(t *testing.T) {
	t.Run("AllFields", func(t *testing.T) {
		d, err := ParseDescriptor([]byte(fullDescriptor))
		if err != nil {
			t.Fatalf("failed to parse descriptor: %v", err)
		}

		if d.Title != "Test Song" {
			t.Errorf("expected title %q, got %q", "Test Song", d.Title)
		}
		if d.Artist != "Test Artist" {
			t.Errorf("expected artist %q, got %q", "Test Artist", d.Artist)
		}
		if d.Easy == nil || d.Easy.Difficulty != "3" || d.Easy.Charter != "alice" {
			t.Errorf("unexpected easy element: %+v", d.Easy)
		}
		if d.Hard == nil || d.Hard.Difficulty != "11" || d.Hard.Charter != "carol" {
			t.Errorf("unexpected hard element: %+v", d.Hard)
		}
		if d.Jacket == nil || d.Jacket.Artist != "dave" {
			t.Errorf("unexpected jacket element: %+v", d.Jacket)
		}
	})

	t.Run("MissingDifficultyElement", func(t *testing.T) {
		d, err := ParseDescriptor([]byte(`
			<song>
				<title>Partial</title>
				<artist>Someone</artist>
				<easy difficulty="2" charter="alice"/>
				<normal difficulty="6" charter="bob"/>
				<jacket artist="dave"/>
			</song>`))
		if err != nil {
			t.Fatalf("failed to parse descriptor: %v", err)
		}
		if d.Hard != nil {
			t.Errorf("expected nil hard element, got %+v", d.Hard)
		}
		if d.Easy == nil || d.Normal == nil {
			t.Error("easy and normal elements should be present")
		}
	})

	t.Run("MissingTitle", func(t *testing.T) {
		_, err := ParseDescriptor([]byte(`<song><artist>x</artist><jacket artist="y"/></song>`))
		if !errors.Is(err, ErrMalformedDescriptor) {
			t.Errorf("expected ErrMalformedDescriptor, got %v", err)
		}
	})

	t.Run("MissingJacket", func(t *testing.T) {
		_, err := ParseDescriptor([]byte(`<song><title>x</title><artist>y</artist></song>`))
		if !errors.Is(err, ErrMalformedDescriptor) {
			t.Errorf("expected ErrMalformedDescriptor, got %v", err)
		}
	})

	t.Run("NotXML", func(t *testing.T) {
		_, err := ParseDescriptor([]byte(`{"title": "nope"}`))
		if !errors.Is(err, ErrMalformedDescriptor) {
			t.Errorf("expected ErrMalformedDescriptor, got %v", err)
		}
	})
}
