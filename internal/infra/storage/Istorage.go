package storage

import (
	"context"
	"io"
)

type IObjectStorage interface {
	// Put writes body at key, replacing any existing object.
	Put(ctx context.Context, key string, body io.Reader, contentType string) error
}
