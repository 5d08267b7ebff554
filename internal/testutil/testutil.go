// Package testutil provides shared test helpers for building stores over
// throwaway storage.
package testutil

import (
	"io"
	"log/slog"
	"testing"

	"github.com/starford/pnx/internal/appstore"
	"github.com/starford/pnx/internal/classifier"
	"github.com/starford/pnx/internal/kv"
)

// Logger returns a logger that discards everything.
func Logger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// TestKV creates a file-backed kv store in a temporary directory.
func TestKV(t *testing.T) *kv.FS {
	t.Helper()
	store, err := kv.NewFS(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	return store
}

// TestStore creates an app store seeded with the default document over
// in-memory storage.
func TestStore(t *testing.T) *appstore.Store {
	t.Helper()
	backing := kv.NewMemory()
	cls := classifier.New(backing, classifier.WithLogger(Logger()))
	return appstore.New(backing, cls, appstore.WithLogger(Logger()))
}
