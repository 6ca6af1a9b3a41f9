package storage

import (
	"context"
	"errors"
)

var (
	ErrInvalidDocument = errors.New("Store document is not valid JSON")
)

// Store holds pulled console data as one JSON document. Keys are gjson paths,
// build them with Key so target numbers such as 2.5 stay one path segment.
type Store interface {
	Set(ctx context.Context, key string, value interface{}) error

	// Get returns the raw JSON at path, which may be any gjson query. A path
	// that matches nothing returns nil
	Get(ctx context.Context, path string) ([]byte, error)

	Restore(values []byte) error
	Backup() ([]byte, error)

	ListenToUpdates() <-chan *Update

	Close() error
}

// Update is sent to listeners after every Set.
type Update struct {
	Key   string
	Value []byte
}
