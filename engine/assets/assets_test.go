package assets

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spaghettifunk/citymesh/engine/metadata"
)

func TestDetermineAssetType(t *testing.T) {
	tests := []struct {
		path string
		want metadata.ResourceType
	}{
		{"data/delft.city.json", metadata.ResourceTypeCityJSON},
		{"data/DenHaag.JSON", metadata.ResourceTypeCityJSON},
		{"colours.palette.toml", metadata.ResourceTypeMaterial},
		{"citymesh.toml", metadata.ResourceTypeNone},
		{"model.obj", metadata.ResourceTypeNone},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			if got := DetermineAssetType(tt.path); got != tt.want {
				t.Errorf("DetermineAssetType(%q) = %v, want %v", tt.path, got, tt.want)
			}
		})
	}
}

func TestAssetManagerIndexesAndWatches(t *testing.T) {
	dir := t.TempDir()
	existing := filepath.Join(dir, "a.city.json")
	if err := os.WriteFile(existing, []byte(`{}`), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}

	am, err := NewAssetManager()
	if err != nil {
		t.Fatalf("NewAssetManager() error: %v", err)
	}
	if err := am.Initialize(dir); err != nil {
		t.Fatalf("Initialize() error: %v", err)
	}
	defer am.Shutdown()

	docs := am.Assets(metadata.ResourceTypeCityJSON)
	if len(docs) != 1 || docs[0].Path != existing {
		t.Fatalf("Assets() = %+v, want only %s", docs, existing)
	}

	created := filepath.Join(dir, "b.city.json")
	if err := os.WriteFile(created, []byte(`{}`), 0o644); err != nil {
		t.Fatal(err)
	}

	select {
	case got := <-am.Changed():
		if got != created {
			t.Errorf("Changed() = %q, want %q", got, created)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("no change notification for the new document")
	}
	if _, ok := am.Lookup(created); !ok {
		t.Errorf("Lookup(%s) not indexed", created)
	}
}
