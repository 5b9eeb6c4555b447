package boundary

/*
#cgo CFLAGS: -I${SRCDIR}/../../include
#include <stdlib.h>
#include "toodle.h"
*/
import "C"

import (
	"time"
	"unsafe"

	"github.com/google/uuid"

	"github.com/mesh-intelligence/toodle/pkg/types"
)

func addr[T any](p *T) uintptr { return uintptr(unsafe.Pointer(p)) }

// newString copies s into a C string recorded with role.
func newString(s string, role Role) *C.char {
	p := C.CString(s)
	allocations.track(addr(p), KindString, role)
	return p
}

func freeString(p *C.char) {
	if p == nil {
		return
	}
	allocations.drop(addr(p))
	C.free(unsafe.Pointer(p))
}

// newInt64 boxes an optional value; nil stays NULL.
func newInt64(v *int64) *C.int64_t {
	if v == nil {
		return nil
	}
	p := (*C.int64_t)(C.malloc(C.size_t(unsafe.Sizeof(C.int64_t(0)))))
	*p = C.int64_t(*v)
	allocations.track(addr(p), KindInt64, Embedded)
	return p
}

func freeInt64(p *C.int64_t) {
	if p == nil {
		return
	}
	allocations.drop(addr(p))
	C.free(unsafe.Pointer(p))
}

// readInt64 copies a caller's optional value.
func readInt64(p *C.int64_t) *int64 {
	if p == nil {
		return nil
	}
	v := int64(*p)
	return &v
}

func readDate(p *C.int64_t) *time.Time {
	return types.FromSeconds(readInt64(p))
}

func readString(p *C.char) string {
	if p == nil {
		return ""
	}
	return C.GoString(p)
}

// readUUID decodes a UUID string. NULL or malformed text yields uuid.Nil.
func readUUID(p *C.char) uuid.UUID {
	if p == nil {
		return uuid.Nil
	}
	id, err := uuid.Parse(C.GoString(p))
	if err != nil {
		return uuid.Nil
	}
	return id
}

// Labels.

func fillLabel(dst *C.toodle_label, l types.Label) {
	if l.Persisted() {
		id := l.ID
		dst.id = newInt64(&id)
	}
	dst.name = newString(l.Name, Embedded)
	dst.color = newString(l.Color, Embedded)
}

func clearLabel(l *C.toodle_label) {
	freeInt64(l.id)
	freeString(l.name)
	freeString(l.color)
	*l = C.toodle_label{}
}

func labelFromC(l *C.toodle_label) types.Label {
	label := types.Label{
		Name:  readString(l.name),
		Color: readString(l.color),
	}
	if id := readInt64(l.id); id != nil {
		label.ID = *id
	}
	return label
}

func newLabel(l types.Label, role Role) *C.toodle_label {
	p := (*C.toodle_label)(C.calloc(1, C.size_t(C.sizeof_toodle_label)))
	fillLabel(p, l)
	allocations.track(addr(p), KindLabel, role)
	return p
}

func freeLabel(p *C.toodle_label) {
	clearLabel(p)
	C.free(unsafe.Pointer(p))
}

func labelSlice(list *C.toodle_label_list) []C.toodle_label {
	if list == nil || list.labels == nil || list.len == 0 {
		return nil
	}
	return unsafe.Slice(list.labels, int(list.len))
}

func newLabelList(labels []types.Label, role Role) *C.toodle_label_list {
	list := (*C.toodle_label_list)(C.calloc(1, C.size_t(C.sizeof_toodle_label_list)))
	if n := len(labels); n > 0 {
		list.labels = (*C.toodle_label)(C.calloc(C.size_t(n), C.size_t(C.sizeof_toodle_label)))
		list.len = C.size_t(n)
		allocations.track(addr(list.labels), KindLabelArray, Embedded)
		elems := labelSlice(list)
		for i := range elems {
			fillLabel(&elems[i], labels[i])
			allocations.note(KindLabel, false)
		}
	}
	allocations.track(addr(list), KindLabelList, role)
	return list
}

func freeLabelList(list *C.toodle_label_list) {
	if list == nil {
		return
	}
	elems := labelSlice(list)
	for i := range elems {
		clearLabel(&elems[i])
		allocations.note(KindLabel, true)
	}
	if list.labels != nil {
		allocations.drop(addr(list.labels))
		C.free(unsafe.Pointer(list.labels))
	}
	allocations.drop(addr(list))
	C.free(unsafe.Pointer(list))
}

// labelsFromC copies a caller's label list. NULL yields nil.
func labelsFromC(list *C.toodle_label_list) []types.Label {
	if list == nil {
		return nil
	}
	elems := labelSlice(list)
	labels := make([]types.Label, 0, len(elems))
	for i := range elems {
		labels = append(labels, labelFromC(&elems[i]))
	}
	return labels
}

// Items.

func fillItem(dst *C.toodle_item, item types.Item) {
	dst.uuid = newString(item.UUID.String(), Embedded)
	dst.name = newString(item.Name, Embedded)
	dst.due_date = newInt64(types.Seconds(item.DueDate))
	dst.completion_date = newInt64(types.Seconds(item.CompletionDate))
	dst.labels = newLabelList(item.Labels, Embedded)
}

func clearItem(it *C.toodle_item) {
	freeString(it.uuid)
	freeString(it.name)
	freeInt64(it.due_date)
	freeInt64(it.completion_date)
	freeLabelList(it.labels)
	*it = C.toodle_item{}
}

func itemFromC(it *C.toodle_item) types.Item {
	return types.Item{
		UUID:           readUUID(it.uuid),
		Name:           readString(it.name),
		DueDate:        readDate(it.due_date),
		CompletionDate: readDate(it.completion_date),
		Labels:         labelsFromC(it.labels),
	}
}

func newItem(item types.Item, role Role) *C.toodle_item {
	p := (*C.toodle_item)(C.calloc(1, C.size_t(C.sizeof_toodle_item)))
	fillItem(p, item)
	allocations.track(addr(p), KindItem, role)
	return p
}

func freeItem(p *C.toodle_item) {
	clearItem(p)
	C.free(unsafe.Pointer(p))
}

func itemSlice(list *C.toodle_item_list) []C.toodle_item {
	if list == nil || list.items == nil || list.len == 0 {
		return nil
	}
	return unsafe.Slice(list.items, int(list.len))
}

func newItemList(items types.Items, role Role) *C.toodle_item_list {
	list := (*C.toodle_item_list)(C.calloc(1, C.size_t(C.sizeof_toodle_item_list)))
	if n := len(items); n > 0 {
		list.items = (*C.toodle_item)(C.calloc(C.size_t(n), C.size_t(C.sizeof_toodle_item)))
		list.len = C.size_t(n)
		allocations.track(addr(list.items), KindItemArray, Embedded)
		elems := itemSlice(list)
		for i := range elems {
			fillItem(&elems[i], items[i])
			allocations.note(KindItem, false)
		}
	}
	allocations.track(addr(list), KindItemList, role)
	return list
}

func freeItemList(list *C.toodle_item_list) {
	if list == nil {
		return
	}
	elems := itemSlice(list)
	for i := range elems {
		clearItem(&elems[i])
		allocations.note(KindItem, true)
	}
	if list.items != nil {
		allocations.drop(addr(list.items))
		C.free(unsafe.Pointer(list.items))
	}
	allocations.drop(addr(list))
	C.free(unsafe.Pointer(list))
}
