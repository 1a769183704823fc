// Package repository provides the raw storage backends for the persisted
// application document.
package repository

import (
	"context"
	"errors"
)

// ErrDocumentNotFound is returned by Get when nothing was written under the
// key yet.
var ErrDocumentNotFound = errors.New("document not found")

// DocumentRepository stores serialized documents by key. Put overwrites
// the whole document; there is no partial update.
type DocumentRepository interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Put(ctx context.Context, key string, schemaVersion int, body []byte) error
	Ping(ctx context.Context) error
	Name() string
}
