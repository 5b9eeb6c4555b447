package types

import (
	"strings"

	"golang.org/x/text/unicode/norm"
)

// Label is a named, colored tag that can be attached to many items.
// The name is the natural key. ID is assigned by the store and is zero
// until the label has been persisted.
type Label struct {
	ID    int64  `json:"id,omitempty" yaml:"id,omitempty"`
	Name  string `json:"name" yaml:"name"`
	Color string `json:"color" yaml:"color"`
}

// Equal reports whether two label snapshots are interchangeable.
func (l Label) Equal(other Label) bool {
	return l.ID == other.ID && l.Name == other.Name && l.Color == other.Color
}

// Persisted reports whether the store has assigned an ID.
func (l Label) Persisted() bool {
	return l.ID != 0
}

// SameIdentity reports whether two labels name the same stored label: equal
// IDs when both are persisted, otherwise equal names.
func (l Label) SameIdentity(other Label) bool {
	if l.Persisted() && other.Persisted() {
		return l.ID == other.ID
	}
	return NormalizeLabelName(l.Name) == NormalizeLabelName(other.Name)
}

// LabelFromRow converts an (id, name, color) row into a Label. It returns
// false when the row is short or any column has the wrong type; a partial
// label is never returned.
func LabelFromRow(row []any) (Label, bool) {
	if len(row) < 3 {
		return Label{}, false
	}
	id, ok := rowInt64(row[0])
	if !ok {
		return Label{}, false
	}
	name, ok := rowString(row[1])
	if !ok {
		return Label{}, false
	}
	color, ok := rowString(row[2])
	if !ok {
		return Label{}, false
	}
	return Label{ID: id, Name: name, Color: color}, true
}

// NormalizeLabelName trims surrounding space and applies Unicode NFC so that
// visually identical names map to the same stored label.
func NormalizeLabelName(name string) string {
	return norm.NFC.String(strings.TrimSpace(name))
}

// ContainsLabel reports whether labels holds a label with the same identity.
func ContainsLabel(labels []Label, l Label) bool {
	for _, candidate := range labels {
		if candidate.SameIdentity(l) {
			return true
		}
	}
	return false
}

// DiffLabels returns the labels of want missing from have (to add) and the
// labels of have missing from want (to remove).
func DiffLabels(have, want []Label) (add, remove []Label) {
	for _, l := range want {
		if !ContainsLabel(have, l) && !ContainsLabel(add, l) {
			add = append(add, l)
		}
	}
	for _, l := range have {
		if !ContainsLabel(want, l) {
			remove = append(remove, l)
		}
	}
	return add, remove
}

// rowInt64 accepts the integer representations database/sql drivers return.
func rowInt64(v any) (int64, bool) {
	switch n := v.(type) {
	case int64:
		return n, true
	case int:
		return int64(n), true
	case int32:
		return int64(n), true
	default:
		return 0, false
	}
}

// rowString accepts TEXT columns, which some drivers return as []byte.
func rowString(v any) (string, bool) {
	switch s := v.(type) {
	case string:
		return s, true
	case []byte:
		return string(s), true
	default:
		return "", false
	}
}
