package boundary

/*
#cgo CFLAGS: -I${SRCDIR}/../../include
#include "toodle.h"
*/
import "C"

import (
	"github.com/mesh-intelligence/toodle/pkg/types"
)

// ItemMirror is the C layout of an item. Wrappers in other packages convert
// their own C.toodle_item pointers with unsafe.Pointer.
type ItemMirror C.toodle_item

// LabelMirror is the C layout of a label.
type LabelMirror C.toodle_label

// ItemCollection is the C layout of an item list.
type ItemCollection C.toodle_item_list

// LabelCollection is the C layout of a label list.
type LabelCollection C.toodle_label_list

func (m *ItemMirror) c() *C.toodle_item { return (*C.toodle_item)(m) }

// UUID returns the item's UUID text.
func (m *ItemMirror) UUID() string { return readString(m.c().uuid) }

// Name returns the item's name.
func (m *ItemMirror) Name() string { return readString(m.c().name) }

// DueDate returns a copy of the due date in seconds, or nil.
func (m *ItemMirror) DueDate() *int64 { return readInt64(m.c().due_date) }

// CompletionDate returns a copy of the completion date in seconds, or nil.
func (m *ItemMirror) CompletionDate() *int64 { return readInt64(m.c().completion_date) }

// Labels returns the embedded label list.
func (m *ItemMirror) Labels() *LabelCollection { return (*LabelCollection)(m.c().labels) }

// Item decodes the mirror into a domain item. A NULL or malformed UUID
// decodes to uuid.Nil.
func (m *ItemMirror) Item() types.Item { return itemFromC(m.c()) }

func (m *LabelMirror) c() *C.toodle_label { return (*C.toodle_label)(m) }

// ID returns a copy of the store id, or nil for an unpersisted label.
func (m *LabelMirror) ID() *int64 { return readInt64(m.c().id) }

// Name returns the label's name.
func (m *LabelMirror) Name() string { return readString(m.c().name) }

// Color returns the label's color.
func (m *LabelMirror) Color() string { return readString(m.c().color) }

// Label decodes the mirror into a domain label.
func (m *LabelMirror) Label() types.Label { return labelFromC(m.c()) }

func (l *ItemCollection) c() *C.toodle_item_list { return (*C.toodle_item_list)(l) }

// Items decodes every element.
func (l *ItemCollection) Items() types.Items {
	elems := itemSlice(l.c())
	items := make(types.Items, 0, len(elems))
	for i := range elems {
		items = append(items, itemFromC(&elems[i]))
	}
	return items
}

func (l *LabelCollection) c() *C.toodle_label_list { return (*C.toodle_label_list)(l) }

// Labels decodes every element.
func (l *LabelCollection) Labels() []types.Label { return labelsFromC(l.c()) }
