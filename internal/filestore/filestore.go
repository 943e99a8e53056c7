// Package filestore reads files to upload and writes export files.
package filestore

import (
	"context"
	"errors"
	"io"
)

var ErrNotFound = errors.New("file not found")

type Info struct {
	Name     string
	Size     int64
	MimeType string
}

type FileStore interface {
	Stat(ctx context.Context, name string) (Info, error)
	Open(ctx context.Context, name string) (io.ReadCloser, error)
	Save(ctx context.Context, name string, r io.Reader) (path string, err error)
}
