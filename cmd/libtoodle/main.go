// Command libtoodle builds the toodle C shared library:
//
//	go build -buildmode=c-shared -o libtoodle.so ./cmd/libtoodle
//
// The generated libtoodle.h declares the functions below; include/toodle.h
// declares the types they use. See package boundary for the ownership rules.
package main

/*
#cgo CFLAGS: -I${SRCDIR}/../../include
#include <stdlib.h>
#include "toodle.h"
*/
import "C"

import (
	"unsafe"

	"github.com/mesh-intelligence/toodle/internal/boundary"
)

func main() {}

// optString copies a borrowed C string; NULL stays nil.
func optString(p *C.char) *string {
	if p == nil {
		return nil
	}
	s := C.GoString(p)
	return &s
}

// optInt64 copies a borrowed optional value; NULL stays nil.
func optInt64(p *C.int64_t) *int64 {
	if p == nil {
		return nil
	}
	v := int64(*p)
	return &v
}

func handle(h C.toodle_handle) boundary.Handle { return boundary.Handle(h) }

func status(s boundary.Status) C.toodle_status { return C.toodle_status(s) }

func itemOut(m *boundary.ItemMirror) *C.toodle_item {
	return (*C.toodle_item)(unsafe.Pointer(m))
}

func itemIn(p *C.toodle_item) *boundary.ItemMirror {
	return (*boundary.ItemMirror)(unsafe.Pointer(p))
}

func itemListOut(l *boundary.ItemCollection) *C.toodle_item_list {
	return (*C.toodle_item_list)(unsafe.Pointer(l))
}

func itemListIn(p *C.toodle_item_list) *boundary.ItemCollection {
	return (*boundary.ItemCollection)(unsafe.Pointer(p))
}

func labelOut(m *boundary.LabelMirror) *C.toodle_label {
	return (*C.toodle_label)(unsafe.Pointer(m))
}

func labelListOut(l *boundary.LabelCollection) *C.toodle_label_list {
	return (*C.toodle_label_list)(unsafe.Pointer(l))
}

func labelListIn(p *C.toodle_label_list) *boundary.LabelCollection {
	return (*boundary.LabelCollection)(unsafe.Pointer(p))
}

// Sessions.

//export toodle_open
func toodle_open(uri *C.char, errOut **C.char) C.toodle_handle {
	h, err := boundary.Open(C.GoString(uri))
	if err != nil {
		if errOut != nil {
			*errOut = (*C.char)(boundary.NewOwnedString(err.Error()))
		}
		return 0
	}
	return C.toodle_handle(h)
}

//export toodle_close
func toodle_close(h C.toodle_handle) C.toodle_status {
	return status(boundary.Close(handle(h)))
}

//export toodle_on_items_changed
func toodle_on_items_changed(h C.toodle_handle, fn C.toodle_changed_fn) C.toodle_status {
	return status(boundary.OnItemsChangedC(handle(h), unsafe.Pointer(fn)))
}

// Items.

//export toodle_create_item
func toodle_create_item(h C.toodle_handle, name *C.char, due *C.int64_t) *C.toodle_item {
	return itemOut(boundary.CreateItem(handle(h), optString(name), optInt64(due), nil))
}

//export toodle_create_item_with_labels
func toodle_create_item_with_labels(h C.toodle_handle, name *C.char, due *C.int64_t, labels *C.toodle_label_list) *C.toodle_item {
	return itemOut(boundary.CreateItem(handle(h), optString(name), optInt64(due), labelListIn(labels)))
}

//export toodle_fetch_item
func toodle_fetch_item(h C.toodle_handle, uuid *C.char) *C.toodle_item {
	return itemOut(boundary.FetchItem(handle(h), optString(uuid)))
}

//export toodle_get_all_items
func toodle_get_all_items(h C.toodle_handle) *C.toodle_item_list {
	return itemListOut(boundary.AllItems(handle(h)))
}

//export toodle_all_items
func toodle_all_items(h C.toodle_handle, fn C.toodle_items_fn) C.toodle_status {
	return status(boundary.WithAllItemsC(handle(h), unsafe.Pointer(fn)))
}

//export toodle_items_with_label
func toodle_items_with_label(h C.toodle_handle, name *C.char) *C.toodle_item_list {
	return itemListOut(boundary.ItemsWithLabel(handle(h), optString(name)))
}

//export toodle_item_list_count
func toodle_item_list_count(list *C.toodle_item_list) C.int64_t {
	return C.int64_t(boundary.ItemListCount(itemListIn(list)))
}

//export toodle_item_list_entry_at
func toodle_item_list_entry_at(list *C.toodle_item_list, index C.int64_t) *C.toodle_item {
	return itemOut(boundary.ItemListEntryAt(itemListIn(list), int64(index)))
}

//export toodle_update_item
func toodle_update_item(h C.toodle_handle, item *C.toodle_item, name *C.char, due, completion *C.int64_t, labels *C.toodle_label_list) C.toodle_status {
	return status(boundary.UpdateItem(handle(h), itemIn(item), optString(name), optInt64(due), optInt64(completion), labelListIn(labels)))
}

//export toodle_update_item_by_uuid
func toodle_update_item_by_uuid(h C.toodle_handle, uuid, name *C.char, due, completion *C.int64_t) C.toodle_status {
	return status(boundary.UpdateItemByUUID(handle(h), optString(uuid), optString(name), optInt64(due), optInt64(completion)))
}

//export toodle_item_get_labels
func toodle_item_get_labels(h C.toodle_handle, uuid *C.char) *C.toodle_label_list {
	return labelListOut(boundary.LabelsForItem(handle(h), optString(uuid)))
}

// Labels.

//export toodle_create_label
func toodle_create_label(h C.toodle_handle, name, color *C.char) *C.toodle_label {
	return labelOut(boundary.CreateLabel(handle(h), optString(name), optString(color)))
}

//export toodle_set_label_color
func toodle_set_label_color(h C.toodle_handle, name, color *C.char) *C.toodle_label {
	return labelOut(boundary.SetLabelColor(handle(h), optString(name), optString(color)))
}

//export toodle_get_all_labels
func toodle_get_all_labels(h C.toodle_handle) *C.toodle_label_list {
	return labelListOut(boundary.AllLabels(handle(h)))
}

//export toodle_label_list_count
func toodle_label_list_count(list *C.toodle_label_list) C.int64_t {
	return C.int64_t(boundary.LabelListCount(labelListIn(list)))
}

//export toodle_label_list_entry_at
func toodle_label_list_entry_at(list *C.toodle_label_list, index C.int64_t) *C.toodle_label {
	return labelOut(boundary.LabelListEntryAt(labelListIn(list), int64(index)))
}

// Release.

//export toodle_item_destroy
func toodle_item_destroy(item *C.toodle_item) C.toodle_status {
	return status(boundary.ReleaseItem(itemIn(item)))
}

//export toodle_item_list_destroy
func toodle_item_list_destroy(list *C.toodle_item_list) C.toodle_status {
	return status(boundary.ReleaseItemList(itemListIn(list)))
}

//export toodle_label_destroy
func toodle_label_destroy(label *C.toodle_label) C.toodle_status {
	return status(boundary.ReleaseLabel((*boundary.LabelMirror)(unsafe.Pointer(label))))
}

//export toodle_label_list_destroy
func toodle_label_list_destroy(list *C.toodle_label_list) C.toodle_status {
	return status(boundary.ReleaseLabelList(labelListIn(list)))
}

//export toodle_string_destroy
func toodle_string_destroy(s *C.char) C.toodle_status {
	return status(boundary.ReleaseString(unsafe.Pointer(s)))
}

// Errors.

//export toodle_last_error
func toodle_last_error() *C.char {
	return (*C.char)(boundary.LastErrorString())
}
