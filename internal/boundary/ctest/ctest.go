// Package ctest supplies C callbacks for tests of the boundary's
// function-pointer entry points. The callbacks record what they receive in
// C statics; Reset clears them.
package ctest

/*
#cgo CFLAGS: -I${SRCDIR}/../../../include
#include <stddef.h>
#include "toodle.h"

static int ctest_changed_calls;
static int ctest_items_calls;
static int ctest_items_null;
static int64_t ctest_items_len;
static int64_t ctest_first_labels;

static void ctest_on_changed(void) {
	ctest_changed_calls++;
}

static void ctest_on_items(const toodle_item_list *items) {
	ctest_items_calls++;
	ctest_items_len = -1;
	ctest_first_labels = -1;
	if (items == NULL) {
		ctest_items_null++;
		return;
	}
	ctest_items_len = (int64_t)items->len;
	if (items->len > 0 && items->items[0].labels != NULL) {
		ctest_first_labels = (int64_t)items->items[0].labels->len;
	}
}

static toodle_changed_fn ctest_changed_fn(void) { return ctest_on_changed; }
static toodle_items_fn ctest_items_fn(void) { return ctest_on_items; }

static void ctest_reset(void) {
	ctest_changed_calls = 0;
	ctest_items_calls = 0;
	ctest_items_null = 0;
	ctest_items_len = 0;
	ctest_first_labels = 0;
}

static int ctest_get_changed_calls(void) { return ctest_changed_calls; }
static int ctest_get_items_calls(void) { return ctest_items_calls; }
static int ctest_get_items_null(void) { return ctest_items_null; }
static int64_t ctest_get_items_len(void) { return ctest_items_len; }
static int64_t ctest_get_first_labels(void) { return ctest_first_labels; }
*/
import "C"

import "unsafe"

// ChangedFn returns a toodle_changed_fn that counts its calls.
func ChangedFn() unsafe.Pointer { return unsafe.Pointer(C.ctest_changed_fn()) }

// ItemsFn returns a toodle_items_fn that records the list it is lent.
func ItemsFn() unsafe.Pointer { return unsafe.Pointer(C.ctest_items_fn()) }

// Reset clears every recorded value.
func Reset() { C.ctest_reset() }

// ChangedCalls is the number of ChangedFn calls since Reset.
func ChangedCalls() int { return int(C.ctest_get_changed_calls()) }

// ItemsSeen reports what ItemsFn recorded since Reset.
type ItemsSeen struct {
	Calls int
	// Nulls counts calls that received a NULL list.
	Nulls int
	// Len is the len of the last list, -1 when it was NULL.
	Len int64
	// FirstLabels is the label count of the last list's first item, -1
	// when there was none.
	FirstLabels int64
}

// Items returns what ItemsFn recorded.
func Items() ItemsSeen {
	return ItemsSeen{
		Calls:       int(C.ctest_get_items_calls()),
		Nulls:       int(C.ctest_get_items_null()),
		Len:         int64(C.ctest_get_items_len()),
		FirstLabels: int64(C.ctest_get_first_labels()),
	}
}
