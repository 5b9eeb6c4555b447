// Package sqlite provides the public constructor for the SQLite-backed
// toodle Store while keeping the implementation internal.
package sqlite

import (
	"log/slog"

	"github.com/mesh-intelligence/toodle/internal/sqlite"
	"github.com/mesh-intelligence/toodle/pkg/types"
)

// Open creates a backend, attaches it to config and returns it as a Store.
//
// Example:
//
//	store, err := sqlite.Open(types.Config{
//	    Backend: types.BackendSQLite,
//	    DataDir: ".toodle",
//	}, nil)
//	if err != nil {
//	    return err
//	}
//	defer store.Close()
func Open(config types.Config, logger *slog.Logger) (types.Store, error) {
	b := sqlite.NewBackend(sqlite.WithLogger(logger))
	if err := b.Attach(config); err != nil {
		return nil, err
	}
	return b, nil
}
