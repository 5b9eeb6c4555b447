package sqlite

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/toodle/pkg/types"
)

func TestOpen(t *testing.T) {
	store, err := Open(types.Config{Backend: types.BackendSQLite, DataDir: t.TempDir()}, nil)
	require.NoError(t, err)
	defer store.Close()

	items, err := store.FetchItems()
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestOpen_InvalidConfig(t *testing.T) {
	_, err := Open(types.Config{}, nil)
	assert.ErrorIs(t, err, types.ErrBackendEmpty)
}
