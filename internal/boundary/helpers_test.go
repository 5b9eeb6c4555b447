package boundary

import (
	"io"
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {
	SetLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))
	os.Exit(m.Run())
}

func openSession(t *testing.T) Handle {
	t.Helper()
	h, err := Open("")
	require.NoError(t, err)
	require.NotZero(t, h)
	t.Cleanup(func() { Close(h) })
	return h
}

func strp(s string) *string { return &s }
func i64(v int64) *int64    { return &v }

func at(sec int64) *time.Time {
	t := time.Unix(sec, 0).UTC()
	return &t
}
