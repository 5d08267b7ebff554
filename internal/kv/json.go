package kv

import (
	"bytes"
	"encoding/json"
	"errors"
	"log/slog"
)

// ErrNullPayload marks a stored JSON null, which never holds usable state.
var ErrNullPayload = errors.New("kv: null payload")

// Check rejects a decoded value that is well-formed JSON but not a usable T.
type Check[T any] func(v T) error

// Load returns the value stored under key decoded as T.
//
// When the key is absent, its payload does not decode, is a JSON null, or
// fails one of checks, defaults() is returned and written back so the next
// Load sees the same value. Read failures also fall back to defaults().
// Load never fails: storage problems are logged and the caller keeps
// working with in-memory state.
func Load[T any](s Store, key string, defaults func() T, logger *slog.Logger, checks ...Check[T]) T {
	if logger == nil {
		logger = slog.Default()
	}
	raw, err := s.Get(key)
	if err == nil {
		v, decErr := decode(raw, checks)
		if decErr == nil {
			return v
		}
		logger.Warn("kv: corrupt payload, restoring defaults",
			slog.String("key", key), slog.String("error", decErr.Error()))
	} else if !errors.Is(err, ErrNotFound) {
		logger.Warn("kv: read failed, using defaults",
			slog.String("key", key), slog.String("error", err.Error()))
	}

	v := defaults()
	Save(s, key, v, logger)
	return v
}

func decode[T any](raw []byte, checks []Check[T]) (T, error) {
	var v T
	if bytes.Equal(bytes.TrimSpace(raw), []byte("null")) {
		return v, ErrNullPayload
	}
	if err := json.Unmarshal(raw, &v); err != nil {
		return v, err
	}
	for _, check := range checks {
		if err := check(v); err != nil {
			return v, err
		}
	}
	return v, nil
}

// Save encodes v as JSON and writes it under key. Failures are logged and
// swallowed; it reports whether the write succeeded.
func Save[T any](s Store, key string, v T, logger *slog.Logger) bool {
	if logger == nil {
		logger = slog.Default()
	}
	raw, err := json.Marshal(v)
	if err != nil {
		logger.Warn("kv: encode failed", slog.String("key", key), slog.String("error", err.Error()))
		return false
	}
	if err := s.Set(key, raw); err != nil {
		logger.Warn("kv: write failed", slog.String("key", key), slog.String("error", err.Error()))
		return false
	}
	return true
}
