package boundary

/*
#cgo CFLAGS: -I${SRCDIR}/../../include
#include <stdlib.h>
#include "toodle.h"
*/
import "C"

import (
	"fmt"
	"unsafe"
)

// liveList checks that p is a list of kind allocated by the library and not
// yet released. Any role may be read.
func liveList(op string, p uintptr, kind Kind) bool {
	if p == 0 {
		misuse(op, ErrNilPointer)
		return false
	}
	e, ok := allocations.lookup(p)
	if !ok {
		misuse(op, ErrUnknownPointer)
		return false
	}
	if e.kind != kind {
		misuse(op, fmt.Errorf("%w: %s used as %s", ErrWrongKind, e.kind, kind))
		return false
	}
	return true
}

func checkIndex(op string, index int64, n int) bool {
	if index < 0 || index >= int64(n) {
		misuse(op, fmt.Errorf("%w: index %d, count %d", ErrIndexOutOfRange, index, n))
		return false
	}
	return true
}

// ItemListCount returns the number of items, or -1 for an invalid list.
func ItemListCount(list *ItemCollection) int64 {
	if !liveList("item_list_count", addr(list), KindItemList) {
		return -1
	}
	return int64(list.c().len)
}

// ItemListEntryAt returns an owned copy of the item at index, or nil when
// the list is invalid or index is out of range. The copy is independent of
// the list.
func ItemListEntryAt(list *ItemCollection, index int64) *ItemMirror {
	const op = "item_list_entry_at"
	if !liveList(op, addr(list), KindItemList) {
		return nil
	}
	elems := itemSlice(list.c())
	if !checkIndex(op, index, len(elems)) {
		return nil
	}
	return (*ItemMirror)(newItem(itemFromC(&elems[index]), Owned))
}

// LabelListCount returns the number of labels, or -1 for an invalid list.
func LabelListCount(list *LabelCollection) int64 {
	if !liveList("label_list_count", addr(list), KindLabelList) {
		return -1
	}
	return int64(list.c().len)
}

// LabelListEntryAt returns an owned copy of the label at index, or nil.
func LabelListEntryAt(list *LabelCollection, index int64) *LabelMirror {
	const op = "label_list_entry_at"
	if !liveList(op, addr(list), KindLabelList) {
		return nil
	}
	elems := labelSlice(list.c())
	if !checkIndex(op, index, len(elems)) {
		return nil
	}
	return (*LabelMirror)(newLabel(labelFromC(&elems[index]), Owned))
}

// release validates a caller release of p as kind.
func release(op string, p uintptr, kind Kind) Status {
	if p == 0 {
		return misuse(op, ErrNilPointer)
	}
	if err := allocations.claim(p, kind); err != nil {
		return misuse(op, err)
	}
	return StatusOK
}

// ReleaseItem frees an owned item and everything embedded in it.
func ReleaseItem(item *ItemMirror) Status {
	if st := release("item_destroy", addr(item), KindItem); st != StatusOK {
		return st
	}
	freeItem(item.c())
	return StatusOK
}

// ReleaseItemList frees an owned item list, its elements and their fields.
func ReleaseItemList(list *ItemCollection) Status {
	if st := release("item_list_destroy", addr(list), KindItemList); st != StatusOK {
		return st
	}
	freeItemList(list.c())
	return StatusOK
}

// ReleaseLabel frees an owned label.
func ReleaseLabel(label *LabelMirror) Status {
	if st := release("label_destroy", addr(label), KindLabel); st != StatusOK {
		return st
	}
	freeLabel(label.c())
	return StatusOK
}

// ReleaseLabelList frees an owned label list. An item's embedded label list
// is released with the item, not here.
func ReleaseLabelList(list *LabelCollection) Status {
	if st := release("label_list_destroy", addr(list), KindLabelList); st != StatusOK {
		return st
	}
	freeLabelList(list.c())
	return StatusOK
}

// ReleaseString frees an owned string such as an open error or the last
// error.
func ReleaseString(p unsafe.Pointer) Status {
	if st := release("string_destroy", uintptr(p), KindString); st != StatusOK {
		return st
	}
	C.free(p)
	return StatusOK
}
