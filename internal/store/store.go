package store

import (
	"context"
	"errors"
	"time"

	"github.com/quizplayer/backend/internal/domain/questionbank"
)

var (
	ErrNotFound = errors.New("not found")
)

// CachedCheck is a stored file validation. It is only reused while the
// file's size and modification time still match.
type CachedCheck struct {
	Path    string
	Size    int64
	ModTime time.Time
	Check   questionbank.FileCheck
}

// Fresh reports whether the entry still describes a file with the given
// size and modification time.
func (c CachedCheck) Fresh(size int64, modTime time.Time) bool {
	return c.Size == size && c.ModTime.Equal(modTime)
}

// Store persists consecutive-line validation results per quiz file.
// Quiz sessions are never stored.
type Store interface {
	GetCheck(ctx context.Context, path string) (CachedCheck, error)
	SaveCheck(ctx context.Context, c CachedCheck) error
	DeleteCheck(ctx context.Context, path string) error
	Close() error
}
