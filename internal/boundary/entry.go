package boundary

import (
	"fmt"
	"unsafe"

	"github.com/google/uuid"

	"github.com/mesh-intelligence/toodle/internal/config"
	"github.com/mesh-intelligence/toodle/pkg/sqlite"
	"github.com/mesh-intelligence/toodle/pkg/types"
)

// Open opens the store described by uri and returns a new handle. Failure
// is returned, never fatal.
func Open(uri string) (Handle, error) {
	cfg, err := config.FromURI(uri)
	if err != nil {
		fail("open", err)
		return 0, err
	}
	store, err := sqlite.Open(cfg, currentLogger())
	if err != nil {
		err = fmt.Errorf("opening store: %w", err)
		fail("open", err)
		return 0, err
	}
	h := sessions.add(newSession(store))
	currentLogger().Debug("session opened", "handle", h, "data_dir", cfg.DataDir, "backend", cfg.Backend)
	return h, nil
}

// Close releases the handle and its store. Closing twice is misuse.
func Close(h Handle) Status {
	s, err := sessions.remove(h)
	if err != nil {
		return misuse("close", err)
	}
	if err := s.close(); err != nil {
		return fail("close", err)
	}
	return StatusOK
}

func session(op string, h Handle) (*Session, bool) {
	s, err := sessions.get(h)
	if err != nil {
		misuse(op, err)
		return nil, false
	}
	return s, true
}

// CreateItem stores a new item and returns an owned mirror of it, or nil.
// The UUID is assigned here, before the store sees the item. labels is
// borrowed.
func CreateItem(h Handle, name *string, due *int64, labels *LabelCollection) *ItemMirror {
	const op = "create_item"
	s, ok := session(op, h)
	if !ok {
		return nil
	}
	if name == nil {
		misuse(op, ErrNilPointer)
		return nil
	}

	item := &types.Item{
		UUID:    newItemUUID(),
		Name:    *name,
		DueDate: types.FromSeconds(due),
		Labels:  labels.Labels(),
	}
	var created *types.Item
	err := s.do(func(store types.Store) error {
		var err error
		created, err = store.CreateAndFetchItem(item)
		return err
	})
	if err != nil {
		fail(op, err)
		return nil
	}
	s.changes.Notify()
	return (*ItemMirror)(newItem(*created, Owned))
}

// parseUUID reads a borrowed UUID argument, reporting NULL as misuse and
// bad text as invalid input.
func parseUUID(op string, id *string) (uuid.UUID, error) {
	if id == nil {
		misuse(op, ErrNilPointer)
		return uuid.Nil, ErrNilPointer
	}
	parsed, err := uuid.Parse(*id)
	if err != nil {
		err = fmt.Errorf("%w: %v", types.ErrInvalidID, err)
		fail(op, err)
		return uuid.Nil, err
	}
	return parsed, nil
}

func newItemUUID() uuid.UUID {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.New()
	}
	return id
}

// FetchItem returns an owned mirror of the item with the given UUID, or nil.
func FetchItem(h Handle, id *string) *ItemMirror {
	const op = "fetch_item"
	s, ok := session(op, h)
	if !ok {
		return nil
	}
	parsed, err := parseUUID(op, id)
	if err != nil {
		return nil
	}
	var item *types.Item
	err = s.do(func(store types.Store) error {
		var err error
		item, err = store.FetchItem(parsed)
		return err
	})
	if err != nil {
		fail(op, err)
		return nil
	}
	return (*ItemMirror)(newItem(*item, Owned))
}

// AllItems returns an owned list of every item, or nil on failure.
func AllItems(h Handle) *ItemCollection {
	return listItems("get_all_items", h, func(store types.Store) (types.Items, error) {
		return store.FetchItems()
	})
}

// ItemsWithLabel returns an owned list of the items carrying the label.
func ItemsWithLabel(h Handle, name *string) *ItemCollection {
	const op = "items_with_label"
	if name == nil {
		misuse(op, ErrNilPointer)
		return nil
	}
	return listItems(op, h, func(store types.Store) (types.Items, error) {
		return store.FetchItemsWithLabel(*name)
	})
}

func listItems(op string, h Handle, fetch func(types.Store) (types.Items, error)) *ItemCollection {
	s, ok := session(op, h)
	if !ok {
		return nil
	}
	items, err := fetchItems(s, fetch)
	if err != nil {
		fail(op, err)
		return nil
	}
	return (*ItemCollection)(newItemList(items, Owned))
}

func fetchItems(s *Session, fetch func(types.Store) (types.Items, error)) (types.Items, error) {
	var items types.Items
	err := s.do(func(store types.Store) error {
		var err error
		items, err = fetch(store)
		return err
	})
	return items, err
}

// WithAllItems lends the list of every item to fn for the duration of the
// call; fn receives nil when there are no items. The list is freed when fn
// returns and must not be retained.
func WithAllItems(h Handle, fn func(*ItemCollection)) Status {
	const op = "all_items"
	s, ok := session(op, h)
	if !ok {
		return StatusMisuse
	}
	if fn == nil {
		return misuse(op, ErrNilPointer)
	}
	items, err := fetchItems(s, func(store types.Store) (types.Items, error) {
		return store.FetchItems()
	})
	if err != nil {
		return fail(op, err)
	}
	if len(items) == 0 {
		fn(nil)
		return StatusOK
	}

	list := newItemList(items, Lent)
	defer freeItemList(list)
	fn((*ItemCollection)(list))
	return StatusOK
}

// UpdateItem applies name, dates and labels to the stored item that item
// mirrors. item and labels are borrowed. A nil name keeps the current name,
// nil dates clear them, nil labels keep the current labels.
func UpdateItem(h Handle, item *ItemMirror, name *string, due, completion *int64, labels *LabelCollection) Status {
	const op = "update_item"
	if item == nil {
		return misuse(op, ErrNilPointer)
	}
	target := item.Item()
	if target.UUID == uuid.Nil {
		return fail(op, fmt.Errorf("%w: item has no UUID", types.ErrInvalidID))
	}
	update := types.ItemUpdate{
		Name:           name,
		DueDate:        types.FromSeconds(due),
		CompletionDate: types.FromSeconds(completion),
	}
	if labels != nil {
		update.Labels = labels.Labels()
		update.ReplaceLabels = true
	}
	return applyUpdate(op, h, &types.Item{UUID: target.UUID}, update)
}

// UpdateItemByUUID is UpdateItem addressed by UUID text; labels are kept.
func UpdateItemByUUID(h Handle, id *string, name *string, due, completion *int64) Status {
	const op = "update_item_by_uuid"
	parsed, err := parseUUID(op, id)
	if err != nil {
		return statusFor(err)
	}
	return applyUpdate(op, h, &types.Item{UUID: parsed}, types.ItemUpdate{
		Name:           name,
		DueDate:        types.FromSeconds(due),
		CompletionDate: types.FromSeconds(completion),
	})
}

func applyUpdate(op string, h Handle, target *types.Item, update types.ItemUpdate) Status {
	s, ok := session(op, h)
	if !ok {
		return StatusMisuse
	}
	err := s.do(func(store types.Store) error {
		return store.UpdateItem(target, update)
	})
	if err != nil {
		return fail(op, err)
	}
	s.changes.Notify()
	return StatusOK
}

// CreateLabel upserts a label and returns an owned mirror, or nil. Label
// creation does not notify subscribers.
func CreateLabel(h Handle, name, color *string) *LabelMirror {
	const op = "create_label"
	s, ok := session(op, h)
	if !ok {
		return nil
	}
	if name == nil || color == nil {
		misuse(op, ErrNilPointer)
		return nil
	}
	var label *types.Label
	err := s.do(func(store types.Store) error {
		var err error
		label, err = store.CreateLabel(*name, *color)
		return err
	})
	if err != nil {
		fail(op, err)
		return nil
	}
	return (*LabelMirror)(newLabel(*label, Owned))
}

// SetLabelColor recolors a label, returns an owned mirror of it and
// notifies subscribers.
func SetLabelColor(h Handle, name, color *string) *LabelMirror {
	const op = "set_label_color"
	s, ok := session(op, h)
	if !ok {
		return nil
	}
	if name == nil || color == nil {
		misuse(op, ErrNilPointer)
		return nil
	}
	var label *types.Label
	err := s.do(func(store types.Store) error {
		var err error
		label, err = store.SetLabelColor(*name, *color)
		return err
	})
	if err != nil {
		fail(op, err)
		return nil
	}
	s.changes.Notify()
	return (*LabelMirror)(newLabel(*label, Owned))
}

// AllLabels returns an owned list of every label, or nil on failure.
func AllLabels(h Handle) *LabelCollection {
	const op = "get_all_labels"
	s, ok := session(op, h)
	if !ok {
		return nil
	}
	var labels []types.Label
	err := s.do(func(store types.Store) error {
		var err error
		labels, err = store.FetchLabels()
		return err
	})
	if err != nil {
		fail(op, err)
		return nil
	}
	return (*LabelCollection)(newLabelList(labels, Owned))
}

// LabelsForItem returns an owned list of the labels on the item.
func LabelsForItem(h Handle, id *string) *LabelCollection {
	const op = "item_get_labels"
	s, ok := session(op, h)
	if !ok {
		return nil
	}
	parsed, err := parseUUID(op, id)
	if err != nil {
		return nil
	}
	var labels []types.Label
	err = s.do(func(store types.Store) error {
		var err error
		labels, err = store.FetchLabelsForItem(parsed)
		return err
	})
	if err != nil {
		fail(op, err)
		return nil
	}
	return (*LabelCollection)(newLabelList(labels, Owned))
}

// OnItemsChanged replaces the handle's change callback and invokes it once.
// A nil fn clears it.
func OnItemsChanged(h Handle, fn func()) Status {
	s, ok := session("on_items_changed", h)
	if !ok {
		return StatusMisuse
	}
	s.changes.Register(fn)
	return StatusOK
}

// NewOwnedString copies s into a C string the caller releases with
// ReleaseString.
func NewOwnedString(s string) unsafe.Pointer {
	return unsafe.Pointer(newString(s, Owned))
}

// LastErrorString returns the last error as an owned C string, or nil.
func LastErrorString() unsafe.Pointer {
	msg := LastError()
	if msg == "" {
		return nil
	}
	return NewOwnedString(msg)
}
