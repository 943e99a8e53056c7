package local

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"

	"github.com/vbonduro/cmsadmin/internal/filestore"
)

// LocalFileStore serves files under one directory. Names are relative to it
// and may not escape it.
type LocalFileStore struct {
	basePath string
}

func NewLocalFileStore(basePath string) (*LocalFileStore, error) {
	if err := os.MkdirAll(basePath, 0755); err != nil {
		return nil, fmt.Errorf("failed to create directory: %w", err)
	}
	return &LocalFileStore{basePath: basePath}, nil
}

// Stat reports size and MIME type. The type is sniffed from the content and
// falls back to the extension.
func (s *LocalFileStore) Stat(ctx context.Context, name string) (filestore.Info, error) {
	filePath, err := s.safeJoin(name)
	if err != nil {
		return filestore.Info{}, err
	}
	fi, err := os.Stat(filePath)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return filestore.Info{}, fmt.Errorf("%s: %w", name, filestore.ErrNotFound)
		}
		return filestore.Info{}, fmt.Errorf("failed to stat file: %w", err)
	}
	if fi.IsDir() {
		return filestore.Info{}, fmt.Errorf("%s is a directory", name)
	}
	return filestore.Info{
		Name:     filepath.Base(filePath),
		Size:     fi.Size(),
		MimeType: detectMIME(filePath),
	}, nil
}

func (s *LocalFileStore) Open(ctx context.Context, name string) (io.ReadCloser, error) {
	filePath, err := s.safeJoin(name)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(filePath)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%s: %w", name, filestore.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	return f, nil
}

// Save writes r to name, creating parent directories. A partial file is
// removed when the write fails.
func (s *LocalFileStore) Save(ctx context.Context, name string, r io.Reader) (string, error) {
	filePath, err := s.safeJoin(name)
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(filepath.Dir(filePath), 0755); err != nil {
		return "", fmt.Errorf("failed to create directory: %w", err)
	}

	f, err := os.Create(filePath)
	if err != nil {
		return "", fmt.Errorf("failed to create file: %w", err)
	}
	if _, err := io.Copy(f, r); err != nil {
		if cerr := f.Close(); cerr != nil {
			slog.Error("failed to close file after write error", "error", cerr)
		}
		if rerr := os.Remove(filePath); rerr != nil {
			slog.Error("failed to remove file after write error", "error", rerr)
		}
		return "", fmt.Errorf("failed to write file: %w", err)
	}
	if err := f.Close(); err != nil {
		if rerr := os.Remove(filePath); rerr != nil {
			slog.Error("failed to remove file after close error", "error", rerr)
		}
		return "", fmt.Errorf("failed to close file: %w", err)
	}
	return filePath, nil
}

// safeJoin resolves name relative to basePath and rejects directory traversal.
func (s *LocalFileStore) safeJoin(name string) (string, error) {
	absBase, err := filepath.Abs(s.basePath)
	if err != nil {
		return "", fmt.Errorf("invalid base path: %w", err)
	}

	absPath, err := filepath.Abs(filepath.Join(s.basePath, name))
	if err != nil {
		return "", fmt.Errorf("invalid path: %w", err)
	}

	if !strings.HasPrefix(absPath, absBase+string(filepath.Separator)) {
		return "", fmt.Errorf("path %q is outside %s", name, s.basePath)
	}
	return absPath, nil
}

func detectMIME(filePath string) string {
	mt, err := mimetype.DetectFile(filePath)
	if err != nil || mt.Is("application/octet-stream") || mt.Is("text/plain") {
		if byExt := mimeFromExt(filePath); byExt != "" {
			return byExt
		}
	}
	if err != nil {
		return "application/octet-stream"
	}
	return mt.String()
}

// mimeFromExt covers formats whose content sniffs as generic text or binary.
func mimeFromExt(filePath string) string {
	switch strings.ToLower(filepath.Ext(filePath)) {
	case ".csv":
		return "text/csv"
	case ".svg":
		return "image/svg+xml"
	case ".json":
		return "application/json"
	case ".md":
		return "text/markdown"
	default:
		return ""
	}
}
