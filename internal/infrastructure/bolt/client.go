package bolt

import (
	"context"
	"os"
	"path/filepath"
	"time"

	"go.etcd.io/bbolt"
)

// Open initializes the BoltDB file at path, creating parent directories
// as needed.
func Open(path string) (*bbolt.DB, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}
	return bbolt.Open(path, 0o600, &bbolt.Options{Timeout: time.Second})
}

// Ping returns a probe that verifies the database is still usable.
func Ping(db *bbolt.DB) func(ctx context.Context) error {
	return func(ctx context.Context) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		return db.View(func(*bbolt.Tx) error { return nil })
	}
}
