package boundary

/*
#cgo CFLAGS: -I${SRCDIR}/../../include
#include "toodle.h"

static inline void toodle_call_changed(toodle_changed_fn fn) {
	fn();
}

static inline void toodle_call_items(toodle_items_fn fn, const toodle_item_list *items) {
	fn(items);
}
*/
import "C"

import "unsafe"

// OnItemsChangedC registers a C toodle_changed_fn. NULL clears the slot.
func OnItemsChangedC(h Handle, fn unsafe.Pointer) Status {
	if fn == nil {
		return OnItemsChanged(h, nil)
	}
	cfn := C.toodle_changed_fn(fn)
	return OnItemsChanged(h, func() {
		C.toodle_call_changed(cfn)
	})
}

// WithAllItemsC lends the item list to a C toodle_items_fn.
func WithAllItemsC(h Handle, fn unsafe.Pointer) Status {
	if fn == nil {
		return misuse("all_items", ErrNilPointer)
	}
	cfn := C.toodle_items_fn(fn)
	return WithAllItems(h, func(list *ItemCollection) {
		C.toodle_call_items(cfn, (*C.toodle_item_list)(list))
	})
}
