package db

import "errors"

// ErrClosed is returned by storage operations after Close.
var ErrClosed = errors.New("storage is closed")

// KV is the durable key-value storage the stores persist through.
// Get reports ok=false for a missing key; a missing key is not an error.
type KV interface {
	Get(key string) (value string, ok bool, err error)
	Set(key, value string) error
	Del(keys ...string) error
	Close() error
}
