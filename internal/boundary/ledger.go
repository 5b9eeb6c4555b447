package boundary

import (
	"errors"
	"fmt"
	"sync"
)

// Kind identifies the C type of a library allocation.
type Kind uint8

// Allocation kinds.
const (
	KindString Kind = iota
	KindInt64
	KindLabel
	KindLabelArray
	KindLabelList
	KindItem
	KindItemArray
	KindItemList
	kindCount
)

var kindNames = [kindCount]string{
	KindString:     "string",
	KindInt64:      "int64",
	KindLabel:      "label",
	KindLabelArray: "label_array",
	KindLabelList:  "label_list",
	KindItem:       "item",
	KindItemArray:  "item_array",
	KindItemList:   "item_list",
}

func (k Kind) String() string {
	if k < kindCount {
		return kindNames[k]
	}
	return fmt.Sprintf("kind(%d)", uint8(k))
}

// Role says who may release an allocation.
type Role uint8

const (
	// Owned values belong to the caller, who releases them exactly once.
	Owned Role = iota
	// Embedded values belong to an enclosing mirror and are freed with it.
	Embedded
	// Lent values are borrowed by a callback and freed when it returns.
	Lent
)

func (r Role) String() string {
	switch r {
	case Owned:
		return "owned"
	case Embedded:
		return "embedded"
	case Lent:
		return "lent"
	default:
		return fmt.Sprintf("role(%d)", uint8(r))
	}
}

// Boundary misuse errors.
var (
	ErrNilPointer      = errors.New("required pointer is NULL")
	ErrDoubleRelease   = errors.New("pointer already released or not allocated by toodle")
	ErrUnknownPointer  = errors.New("pointer not allocated by toodle or already released")
	ErrWrongKind       = errors.New("pointer released with the destructor of another type")
	ErrNotOwner        = errors.New("pointer is not owned by the caller")
	ErrIndexOutOfRange = errors.New("index out of range")
	ErrInvalidHandle   = errors.New("invalid or closed handle")
)

// Counts holds allocation totals for one kind. Array elements count as
// payloads of their element kind.
type Counts struct {
	Allocs int
	Frees  int
}

// Live returns the number of payloads allocated and not yet freed.
func (c Counts) Live() int { return c.Allocs - c.Frees }

// ReleaseHook observes every payload the library frees.
type ReleaseHook func(kind Kind, role Role)

type entry struct {
	kind Kind
	role Role
}

// ledger records every live allocation handed across the boundary.
type ledger struct {
	mu     sync.Mutex
	live   map[uintptr]entry
	counts [kindCount]Counts
	hook   ReleaseHook
}

var allocations = &ledger{live: make(map[uintptr]entry)}

// track records a new allocation.
func (l *ledger) track(p uintptr, kind Kind, role Role) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.live[p] = entry{kind: kind, role: role}
	l.counts[kind].Allocs++
}

// note counts a payload that lives inside an array and is not tracked on
// its own.
func (l *ledger) note(kind Kind, freed bool) {
	l.mu.Lock()
	if !freed {
		l.counts[kind].Allocs++
		l.mu.Unlock()
		return
	}
	l.counts[kind].Frees++
	hook := l.hook
	l.mu.Unlock()

	if hook != nil {
		hook(kind, Embedded)
	}
}

// lookup returns the entry for a live pointer.
func (l *ledger) lookup(p uintptr) (entry, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	e, ok := l.live[p]
	return e, ok
}

// claim validates a caller release of p as kind and forgets it.
func (l *ledger) claim(p uintptr, kind Kind) error {
	l.mu.Lock()
	e, ok := l.live[p]
	switch {
	case !ok:
		l.mu.Unlock()
		return ErrDoubleRelease
	case e.kind != kind:
		l.mu.Unlock()
		return fmt.Errorf("%w: %s released as %s", ErrWrongKind, e.kind, kind)
	case e.role != Owned:
		l.mu.Unlock()
		return fmt.Errorf("%w: %s is %s", ErrNotOwner, e.kind, e.role)
	}
	return l.forgetLocked(p, e)
}

// drop forgets p as part of freeing its parent or a lent value.
func (l *ledger) drop(p uintptr) {
	l.mu.Lock()
	e, ok := l.live[p]
	if !ok {
		l.mu.Unlock()
		return
	}
	_ = l.forgetLocked(p, e)
}

// forgetLocked removes p, counts the free and runs the hook. It is called
// with l.mu held and releases it.
func (l *ledger) forgetLocked(p uintptr, e entry) error {
	delete(l.live, p)
	l.counts[e.kind].Frees++
	hook := l.hook
	l.mu.Unlock()

	if hook != nil {
		hook(e.kind, e.role)
	}
	return nil
}

// Stats returns allocation totals per kind.
func Stats() map[Kind]Counts {
	allocations.mu.Lock()
	defer allocations.mu.Unlock()
	out := make(map[Kind]Counts, kindCount)
	for k := Kind(0); k < kindCount; k++ {
		out[k] = allocations.counts[k]
	}
	return out
}

// SetReleaseHook installs hook and returns the previous one. A nil hook
// disables observation.
func SetReleaseHook(hook ReleaseHook) ReleaseHook {
	allocations.mu.Lock()
	defer allocations.mu.Unlock()
	prev := allocations.hook
	allocations.hook = hook
	return prev
}
