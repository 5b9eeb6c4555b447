package types

import (
	"time"

	"github.com/google/uuid"
)

// Item is a todo entry. UUID is the external identifier used at the
// boundary; it is generated before the item reaches the store. ID is the
// store's own identifier and is zero until the item has been persisted.
type Item struct {
	ID             int64      `json:"-" yaml:"-"`
	UUID           uuid.UUID  `json:"uuid" yaml:"uuid"`
	Name           string     `json:"name" yaml:"name"`
	DueDate        *time.Time `json:"due_date,omitempty" yaml:"due_date,omitempty"`
	CompletionDate *time.Time `json:"completion_date,omitempty" yaml:"completion_date,omitempty"`
	Labels         []Label    `json:"labels" yaml:"labels"`
}

// Items is an ordered collection of items.
type Items []Item

// Persisted reports whether the store has assigned an ID.
func (i Item) Persisted() bool {
	return i.ID != 0
}

// Completed reports whether the item has a completion date.
func (i Item) Completed() bool {
	return i.CompletionDate != nil
}

// Equal compares the caller-visible fields of two items: UUID, name, both
// dates to the second, and label set membership. Store IDs and label order
// are ignored.
func (i Item) Equal(other Item) bool {
	if i.UUID != other.UUID || i.Name != other.Name {
		return false
	}
	if !SameSecond(i.DueDate, other.DueDate) || !SameSecond(i.CompletionDate, other.CompletionDate) {
		return false
	}
	if len(i.Labels) != len(other.Labels) {
		return false
	}
	for _, l := range i.Labels {
		if !containsEqual(other.Labels, l) {
			return false
		}
	}
	return true
}

func containsEqual(labels []Label, l Label) bool {
	for _, candidate := range labels {
		if candidate.Equal(l) {
			return true
		}
	}
	return false
}
