package types

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// Store is the synchronous facade over the item and label database.
// Implementations serialize access internally; every method runs to
// completion on the calling goroutine.
type Store interface {
	// CreateLabel stores a label and returns the stored snapshot. The name
	// is the natural key: creating an existing name updates its color.
	CreateLabel(name, color string) (*Label, error)

	// FetchLabel returns the label with the given name.
	// Returns ErrNotFound if no label has that name.
	FetchLabel(name string) (*Label, error)

	// FetchLabels returns every label ordered by name.
	FetchLabels() ([]Label, error)

	// FetchLabelsForItem returns the labels attached to the item, ordered
	// by name. An unknown item has no labels.
	FetchLabelsForItem(id uuid.UUID) ([]Label, error)

	// SetLabelColor changes the color of an existing label.
	// Returns ErrNotFound if no label has that name.
	SetLabelColor(name, color string) (*Label, error)

	// CreateItem stores a new item with its labels and returns its UUID.
	// A nil UUID on the item is replaced with a freshly generated one.
	CreateItem(item *Item) (uuid.UUID, error)

	// CreateAndFetchItem creates the item and returns the stored snapshot.
	CreateAndFetchItem(item *Item) (*Item, error)

	// FetchItem returns the item with the given UUID.
	// Returns ErrNotFound if no item has that UUID.
	FetchItem(id uuid.UUID) (*Item, error)

	// FetchItems returns every item in creation order.
	FetchItems() (Items, error)

	// FetchItemsWithLabel returns the items carrying the named label, in
	// creation order.
	FetchItemsWithLabel(name string) (Items, error)

	// UpdateItem applies the update to the stored item identified by
	// item.ID or, when that is zero, item.UUID. Only fields that differ
	// from the stored row are written.
	UpdateItem(item *Item, update ItemUpdate) error

	// Close releases backend resources and writes any pending records.
	// Close is idempotent.
	Close() error
}

// ItemUpdate describes the desired state of an item's mutable fields.
type ItemUpdate struct {
	Name           *string    // nil leaves the name unchanged
	DueDate        *time.Time // nil clears the due date
	CompletionDate *time.Time // nil clears the completion date
	Labels         []Label    // desired label set, applied when ReplaceLabels is set
	ReplaceLabels  bool
}

// Store lifecycle errors.
var (
	ErrStoreClosed     = errors.New("store is closed")
	ErrAlreadyAttached = errors.New("store is already attached")
)

// Store operation errors.
var (
	ErrNotFound    = errors.New("entity not found")
	ErrInvalidID   = errors.New("invalid entity ID")
	ErrInvalidData = errors.New("invalid entity data")
	ErrInvalidName = errors.New("invalid name")
)
