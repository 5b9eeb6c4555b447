// Package boundary implements the C-ABI surface of toodle: the C mirrors of
// items and labels, conversion to and from the domain model, the ownership
// ledger that polices every pointer handed to a caller, and the session
// registry behind opaque handles.
//
// cmd/libtoodle exports thin wrappers around this package. The rules the
// wrappers and their callers rely on:
//
//   - No Go pointer ever crosses the boundary. Every mirror is allocated
//     with the C allocator and recorded in the ledger.
//   - A transfer-out function returns an Owned value; the caller releases it
//     exactly once with the matching destructor.
//   - Strings, dates, arrays and an item's label list are Embedded in their
//     parent and are freed only by the parent's destructor.
//   - Values passed to a callback are Lent and freed when it returns.
//   - Caller-owned inputs are read during the call and never retained.
//
// Misuse (NULL where a value is required, a double or foreign release, an
// index past the end) panics in builds tagged toodle_debug. Otherwise it is
// logged, recorded as the last error and reported through a Status.
// Detection of stale pointers is best effort: the C allocator may reuse a
// released address for a later allocation.
package boundary
