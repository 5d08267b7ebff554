// Package kv provides the durable key-value storage used to persist the
// document and the classifier rule set.
package kv

import "errors"

// ErrNotFound is returned by Get when no value is stored under a key.
var ErrNotFound = errors.New("kv: key not found")

// Store is a string-keyed blob store. Set must be durable before it returns.
type Store interface {
	// Get returns the value stored under key, or ErrNotFound.
	Get(key string) ([]byte, error)
	// Set overwrites the value stored under key.
	Set(key string, value []byte) error
}
