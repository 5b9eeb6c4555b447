package boundary

import (
	"errors"
	"log/slog"
	"os"
	"sync"

	"github.com/mesh-intelligence/toodle/internal/config"
	"github.com/mesh-intelligence/toodle/pkg/types"
)

// Status is the result code of an entry point; values match toodle.h.
type Status int32

const (
	StatusOK       Status = 0
	StatusMisuse   Status = 1
	StatusStore    Status = 2
	StatusNotFound Status = 3
	StatusInvalid  Status = 4
)

func (s Status) String() string {
	switch s {
	case StatusOK:
		return "ok"
	case StatusMisuse:
		return "misuse"
	case StatusStore:
		return "store"
	case StatusNotFound:
		return "not_found"
	case StatusInvalid:
		return "invalid"
	default:
		return "unknown"
	}
}

// statusFor classifies an error.
func statusFor(err error) Status {
	switch {
	case err == nil:
		return StatusOK
	case isMisuse(err):
		return StatusMisuse
	case errors.Is(err, types.ErrNotFound):
		return StatusNotFound
	case errors.Is(err, types.ErrInvalidName),
		errors.Is(err, types.ErrInvalidID),
		errors.Is(err, types.ErrInvalidData),
		errors.Is(err, types.ErrBackendEmpty),
		errors.Is(err, types.ErrBackendUnknown),
		errors.Is(err, types.ErrSyncStrategyUnknown),
		errors.Is(err, config.ErrBadURI):
		return StatusInvalid
	default:
		return StatusStore
	}
}

func isMisuse(err error) bool {
	for _, target := range []error{
		ErrNilPointer, ErrDoubleRelease, ErrUnknownPointer, ErrWrongKind,
		ErrNotOwner, ErrIndexOutOfRange, ErrInvalidHandle,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

var (
	stateMu   sync.Mutex
	logger    = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))
	lastError string
)

// SetLogger replaces the logger used by the boundary and by stores opened
// afterwards. A nil logger is ignored.
func SetLogger(l *slog.Logger) {
	if l == nil {
		return
	}
	stateMu.Lock()
	logger = l
	stateMu.Unlock()
}

func currentLogger() *slog.Logger {
	stateMu.Lock()
	defer stateMu.Unlock()
	return logger
}

// LastError returns the message of the most recent failure, or "".
func LastError() string {
	stateMu.Lock()
	defer stateMu.Unlock()
	return lastError
}

// ClearLastError forgets the recorded failure.
func ClearLastError() {
	stateMu.Lock()
	lastError = ""
	stateMu.Unlock()
}

func recordError(op string, err error) {
	stateMu.Lock()
	lastError = op + ": " + err.Error()
	stateMu.Unlock()
}

// fail records a store or input failure and returns its status.
func fail(op string, err error) Status {
	status := statusFor(err)
	if status == StatusMisuse {
		return misuse(op, err)
	}
	recordError(op, err)
	if status == StatusStore {
		currentLogger().Error("store operation failed", "op", op, "err", err)
	} else {
		currentLogger().Debug("operation rejected", "op", op, "status", status, "err", err)
	}
	return status
}

// misuse reports a caller bug. Builds tagged toodle_debug panic.
func misuse(op string, err error) Status {
	recordError(op, err)
	currentLogger().Warn("boundary misuse", "op", op, "err", err)
	if strict {
		panic("toodle: " + op + ": " + err.Error())
	}
	return StatusMisuse
}
