package upload

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/google/uuid"

	pkgerrors "github.com/yungbote/lims-backend/internal/pkg/errors"
	"github.com/yungbote/lims-backend/internal/platform/logger"
)

const (
	DefaultPrefix   = "lims_import_"
	DefaultMaxBytes = 64 << 20
)

// Store spools uploaded spreadsheets to uniquely named temp files.
type Store struct {
	Dir      string
	Prefix   string
	MaxBytes int64

	log *logger.Logger
}

func NewStore(log *logger.Logger, dir string, maxBytes int64) *Store {
	if log == nil {
		log = logger.Nop()
	}
	return &Store{
		Dir:      dir,
		Prefix:   DefaultPrefix,
		MaxBytes: maxBytes,
		log:      log.With("component", "UploadStore"),
	}
}

// Save streams r into a new temp file. The returned release removes the file,
// is safe to call more than once, and must be deferred by the caller.
func (s *Store) Save(ctx context.Context, r io.Reader, ext string) (string, func(), error) {
	noop := func() {}
	if err := ctx.Err(); err != nil {
		return "", noop, err
	}

	dir := s.Dir
	if dir == "" {
		dir = os.TempDir()
	}
	prefix := s.Prefix
	if prefix == "" {
		prefix = DefaultPrefix
	}
	maxBytes := s.MaxBytes
	if maxBytes <= 0 {
		maxBytes = DefaultMaxBytes
	}

	path := filepath.Join(dir, prefix+uuid.NewString()+cleanExt(ext))
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o600)
	if err != nil {
		return "", noop, fmt.Errorf("create temp upload: %w", err)
	}

	var once sync.Once
	release := func() {
		once.Do(func() {
			if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
				s.logger().Warn("failed to remove temp upload", "path", path, "error", err)
			}
		})
	}

	bw := bufio.NewWriterSize(f, 1<<20)
	// One byte past the limit tells an exact-size upload from an oversized one.
	n, copyErr := io.Copy(bw, io.LimitReader(r, maxBytes+1))
	flushErr := bw.Flush()
	closeErr := f.Close()

	switch {
	case copyErr != nil:
		release()
		return "", noop, fmt.Errorf("write temp upload: %w", copyErr)
	case n > maxBytes:
		release()
		return "", noop, fmt.Errorf("%w: limit is %d bytes", pkgerrors.ErrPayloadTooLarge, maxBytes)
	case flushErr != nil:
		release()
		return "", noop, fmt.Errorf("flush temp upload: %w", flushErr)
	case closeErr != nil:
		release()
		return "", noop, fmt.Errorf("close temp upload: %w", closeErr)
	}

	s.logger().Debug("spooled upload", "path", path, "bytes", n)
	return path, release, nil
}

func (s *Store) logger() *logger.Logger {
	if s.log == nil {
		return logger.Nop()
	}
	return s.log
}

func cleanExt(ext string) string {
	ext = strings.ToLower(strings.TrimSpace(ext))
	if ext == "" {
		return ".xlsx"
	}
	if !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}
	if strings.ContainsAny(ext, `/\`) {
		return ".xlsx"
	}
	return ext
}
