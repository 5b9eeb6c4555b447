package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		config  Config
		wantErr error
	}{
		{
			name:    "empty backend returns ErrBackendEmpty",
			config:  Config{Backend: "", DataDir: "/tmp/data"},
			wantErr: ErrBackendEmpty,
		},
		{
			name:    "unknown backend returns ErrBackendUnknown",
			config:  Config{Backend: "postgres", DataDir: "/tmp/data"},
			wantErr: ErrBackendUnknown,
		},
		{
			name:   "valid sqlite config",
			config: Config{Backend: BackendSQLite, DataDir: "/tmp/data"},
		},
		{
			name:   "valid sqlite3 config",
			config: Config{Backend: BackendSQLite3},
		},
		{
			name:   "sqlite with empty DataDir is valid",
			config: Config{Backend: BackendSQLite, DataDir: ""},
		},
		{
			name:   "on_close sync strategy",
			config: Config{Backend: BackendSQLite, SyncStrategy: SyncOnClose},
		},
		{
			name:    "unknown sync strategy",
			config:  Config{Backend: BackendSQLite, SyncStrategy: "batch"},
			wantErr: ErrSyncStrategyUnknown,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.config.Validate()
			if tt.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestConfigDefaults(t *testing.T) {
	c := Config{Backend: BackendSQLite}
	assert.True(t, c.InMemory())
	assert.Equal(t, SyncImmediate, c.EffectiveSyncStrategy())

	c = Config{Backend: BackendSQLite, DataDir: "data", SyncStrategy: SyncOnClose}
	assert.False(t, c.InMemory())
	assert.Equal(t, SyncOnClose, c.EffectiveSyncStrategy())
}
