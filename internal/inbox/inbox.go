// Package inbox turns files dropped into a directory into captured items.
package inbox

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/starford/pnx/internal/checksum"
	"github.com/starford/pnx/internal/kv"
	"github.com/starford/pnx/internal/models"
)

// StateKey stores the checksums of files already captured.
const StateKey = "pnx_inbox_v1"

// settle is how long the directory must be quiet before a rescan, so a
// file still being copied is not captured half-written.
const settle = 300 * time.Millisecond

// Capturer receives new items.
type Capturer interface {
	AddItem(in models.NewItem) models.Item
}

// EventCallback is called after a file has been captured.
type EventCallback func(item models.Item)

// Inbox captures files from one directory.
type Inbox struct {
	dir    string
	target Capturer
	state  kv.Store
	logger *slog.Logger

	mu   sync.Mutex
	seen map[string]string // file name -> checksum
}

// New prepares an inbox rooted at dir, creating it if needed. Capture
// state is kept in state under StateKey.
func New(dir string, target Capturer, state kv.Store, logger *slog.Logger) (*Inbox, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("inbox: resolve dir: %w", err)
	}
	if err := os.MkdirAll(abs, 0o755); err != nil {
		return nil, fmt.Errorf("inbox: mkdir: %w", err)
	}
	if logger == nil {
		logger = slog.Default()
	}
	seen := kv.Load(state, StateKey, func() map[string]string { return map[string]string{} }, logger)
	if seen == nil {
		seen = map[string]string{}
	}
	return &Inbox{dir: abs, target: target, state: state, logger: logger, seen: seen}, nil
}

// Dir returns the absolute inbox directory.
func (in *Inbox) Dir() string {
	return in.dir
}

func ignored(name string) bool {
	return strings.HasPrefix(name, ".") || strings.HasPrefix(name, "~") ||
		strings.HasSuffix(name, ".tmp") || strings.HasSuffix(name, ".part") ||
		strings.HasSuffix(name, ".crdownload")
}

// Sync captures every file in the directory that is new or changed since
// it was last captured, and returns the captured items.
func (in *Inbox) Sync(cb EventCallback) ([]models.Item, error) {
	entries, err := os.ReadDir(in.dir)
	if err != nil {
		return nil, fmt.Errorf("inbox: read dir: %w", err)
	}

	in.mu.Lock()
	defer in.mu.Unlock()

	var captured []models.Item
	for _, e := range entries {
		if !e.Type().IsRegular() || ignored(e.Name()) {
			continue
		}
		abs := filepath.Join(in.dir, e.Name())
		data, err := os.ReadFile(abs)
		if err != nil {
			in.logger.Warn("inbox: read failed", slog.String("file", e.Name()), slog.String("error", err.Error()))
			continue
		}
		cs := checksum.Sum(data)
		if in.seen[e.Name()] == cs {
			continue
		}

		item := in.target.AddItem(describe(e.Name(), abs, data))
		in.seen[e.Name()] = cs
		captured = append(captured, item)
		in.logger.Info("inbox: captured",
			slog.String("file", e.Name()),
			slog.String("item", item.ID),
			slog.String("suggested", item.SuggestedCategoryID))
		if cb != nil {
			cb(item)
		}
	}

	if len(captured) > 0 {
		kv.Save(in.state, StateKey, in.seen, in.logger)
	}
	return captured, nil
}

// Watch rescans the directory whenever files are created, written or
// renamed into it, until ctx is cancelled.
func (in *Inbox) Watch(ctx context.Context, cb EventCallback) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer w.Close()

	if err := w.Add(in.dir); err != nil {
		return fmt.Errorf("inbox: watch %s: %w", in.dir, err)
	}
	in.logger.Info("inbox: watching", slog.String("dir", in.dir))

	var timer *time.Timer
	var timerCh <-chan time.Time
	schedule := func() {
		if timer == nil {
			timer = time.NewTimer(settle)
			timerCh = timer.C
			return
		}
		if !timer.Stop() {
			select {
			case <-timer.C:
			default:
			}
		}
		timer.Reset(settle)
	}

	for {
		select {
		case <-ctx.Done():
			if timer != nil {
				timer.Stop()
			}
			in.logger.Info("inbox: stopped")
			return nil

		case <-timerCh:
			if _, err := in.Sync(cb); err != nil {
				in.logger.Warn("inbox: sync failed", slog.String("error", err.Error()))
			}

		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if ignored(filepath.Base(ev.Name)) {
				continue
			}
			if ev.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Rename) != 0 {
				schedule()
			}

		case watchErr, ok := <-w.Errors:
			if !ok {
				return nil
			}
			in.logger.Error("inbox: watcher error", slog.String("error", watchErr.Error()))
		}
	}
}
