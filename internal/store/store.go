// Package store persists the dashboard's JSON documents. Every backend is a
// plain key -> JSON blob map; the whole document is overwritten on write.
package store

import (
	"context"

	"github.com/pkg/errors"
)

// ErrNotFound is returned by Read when no document exists under the key.
var ErrNotFound = errors.New("state document not found")

// ErrUnreadable marks a document that exists but could not be read from the
// file backend (permissions, a directory in its place). It loads as empty.
var ErrUnreadable = errors.New("state document unreadable")

type unreadableError struct {
	path string
	err  error
}

func (e *unreadableError) Error() string        { return "read " + e.path + ": " + e.err.Error() }
func (e *unreadableError) Unwrap() error        { return e.err }
func (e *unreadableError) Is(target error) bool { return target == ErrUnreadable }

type Store interface {
	Read(ctx context.Context, key string) ([]byte, error)
	Write(ctx context.Context, key string, data []byte) error
	Close() error
}

const (
	BackendFile     = "file"
	BackendPostgres = "postgres"
	BackendRedis    = "redis"
	BackendSQLite   = "sqlite"
)

type Options struct {
	Backend string

	DataDir string

	DatabaseURL string

	RedisAddr     string
	RedisPassword string
	RedisDB       int
	RedisPrefix   string

	SQLitePath string
}

// Open returns the backend selected by opts.Backend.
func Open(ctx context.Context, opts Options) (Store, error) {
	var (
		s   Store
		err error
	)
	switch opts.Backend {
	case "", BackendFile:
		return NewFileStore(opts.DataDir), nil
	case BackendPostgres:
		s, err = NewPostgresStore(ctx, opts.DatabaseURL)
	case BackendRedis:
		s, err = NewRedisStore(ctx, opts.RedisAddr, opts.RedisPassword, opts.RedisDB, opts.RedisPrefix)
	case BackendSQLite:
		s, err = NewSQLiteStore(ctx, opts.SQLitePath)
	default:
		return nil, errors.Errorf("unknown state backend %q", opts.Backend)
	}
	if err != nil {
		return nil, err
	}
	return s, nil
}
