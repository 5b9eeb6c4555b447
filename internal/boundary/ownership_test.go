//go:build !toodle_debug

package boundary

import (
	"fmt"
	"testing"
	"unsafe"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/toodle/pkg/types"
)

func sampleItems(n int) types.Items {
	items := make(types.Items, n)
	for i := range items {
		items[i] = types.Item{
			UUID:    uuid.New(),
			Name:    fmt.Sprintf("item %d", i),
			DueDate: at(1700000000 + int64(i)),
			Labels: []types.Label{
				{ID: 1, Name: "work", Color: "#ff0000"},
				{ID: 2, Name: "home", Color: "#00ff00"},
			},
		}
	}
	return items
}

func TestMirrorRoundTrip(t *testing.T) {
	tests := []struct {
		name string
		item types.Item
	}{
		{
			name: "all fields",
			item: types.Item{
				UUID:           uuid.New(),
				Name:           "buy milk",
				DueDate:        at(1700000000),
				CompletionDate: at(1700003600),
				Labels:         []types.Label{{ID: 7, Name: "work", Color: "#ff0000"}},
			},
		},
		{
			name: "no dates",
			item: types.Item{
				UUID:   uuid.New(),
				Name:   "someday",
				Labels: []types.Label{{ID: 1, Name: "a", Color: "#111111"}, {ID: 2, Name: "b", Color: "#222222"}},
			},
		},
		{
			name: "unpersisted label",
			item: types.Item{
				UUID:   uuid.New(),
				Name:   "draft",
				Labels: []types.Label{{Name: "new", Color: "#333333"}},
			},
		},
		{
			name: "unicode name",
			item: types.Item{
				UUID:   uuid.New(),
				Name:   "café ☕",
				Labels: []types.Label{{ID: 3, Name: "über", Color: "#444444"}},
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := (*ItemMirror)(newItem(tt.item, Owned))
			got := m.Item()
			assert.True(t, tt.item.Equal(got), "want %+v, got %+v", tt.item, got)
			assert.Equal(t, StatusOK, ReleaseItem(m))
		})
	}
}

func TestMirror_SubSecondDatesTruncate(t *testing.T) {
	due := at(1700000000)
	withNanos := due.Add(999)
	m := (*ItemMirror)(newItem(types.Item{UUID: uuid.New(), Name: "x", DueDate: &withNanos}, Owned))
	defer ReleaseItem(m)

	require.NotNil(t, m.DueDate())
	assert.Equal(t, int64(1700000000), *m.DueDate())
}

func TestMirror_TolerantUUID(t *testing.T) {
	m := (*ItemMirror)(newItem(types.Item{UUID: uuid.New(), Name: "not-a-uuid"}, Owned))
	c := m.c()
	saved := c.uuid

	c.uuid = nil
	assert.Equal(t, uuid.Nil, m.Item().UUID)
	assert.Equal(t, "not-a-uuid", m.Item().Name)

	c.uuid = c.name
	assert.Equal(t, uuid.Nil, m.Item().UUID)

	c.uuid = saved
	assert.NotEqual(t, uuid.Nil, m.Item().UUID)
	assert.Equal(t, StatusOK, ReleaseItem(m))
}

func TestUpdateItem_NilUUIDRejected(t *testing.T) {
	h := openSession(t)
	m := (*ItemMirror)(newItem(types.Item{Name: "unsaved"}, Owned))
	c := m.c()
	saved := c.uuid
	c.uuid = nil

	assert.Equal(t, StatusInvalid, UpdateItem(h, m, strp("x"), nil, nil, nil))

	c.uuid = saved
	assert.Equal(t, StatusOK, ReleaseItem(m))
}

func TestReleaseItemList_Idempotent(t *testing.T) {
	const n = 3
	list := (*ItemCollection)(newItemList(sampleItems(n), Owned))

	before := Stats()
	require.Equal(t, StatusOK, ReleaseItemList(list))
	after := Stats()

	assert.Equal(t, n, after[KindItem].Frees-before[KindItem].Frees)
	assert.Equal(t, 1, after[KindItemList].Frees-before[KindItemList].Frees)
	assert.Equal(t, 1, after[KindItemArray].Frees-before[KindItemArray].Frees)
	assert.Equal(t, n*2, after[KindLabel].Frees-before[KindLabel].Frees)

	assert.Equal(t, StatusMisuse, ReleaseItemList(list))
	assert.Contains(t, LastError(), ErrDoubleRelease.Error())
	assert.Equal(t, after, Stats())
}

func TestRelease_BalancesAllocations(t *testing.T) {
	before := Stats()

	item := (*ItemMirror)(newItem(sampleItems(1)[0], Owned))
	list := (*ItemCollection)(newItemList(sampleItems(4), Owned))
	labels := (*LabelCollection)(newLabelList(sampleItems(1)[0].Labels, Owned))
	require.Equal(t, StatusOK, ReleaseItem(item))
	require.Equal(t, StatusOK, ReleaseItemList(list))
	require.Equal(t, StatusOK, ReleaseLabelList(labels))

	after := Stats()
	for k := Kind(0); k < kindCount; k++ {
		assert.Equal(t, before[k].Live(), after[k].Live(), k.String())
	}
}

func TestCollectionCountInvariant(t *testing.T) {
	for _, n := range []int{0, 1, 3} {
		t.Run(fmt.Sprintf("%d items", n), func(t *testing.T) {
			list := (*ItemCollection)(newItemList(sampleItems(n), Owned))
			defer ReleaseItemList(list)

			count := ItemListCount(list)
			require.Equal(t, int64(n), count)
			for i := int64(0); i < count; i++ {
				entry := ItemListEntryAt(list, i)
				require.NotNil(t, entry, "index %d", i)
				assert.Equal(t, fmt.Sprintf("item %d", i), entry.Name())
				assert.Equal(t, StatusOK, ReleaseItem(entry))
			}

			assert.Nil(t, ItemListEntryAt(list, count))
			assert.Contains(t, LastError(), ErrIndexOutOfRange.Error())
			assert.Nil(t, ItemListEntryAt(list, -1))
		})
	}
}

func TestLabelCollectionCountInvariant(t *testing.T) {
	list := (*LabelCollection)(newLabelList(sampleItems(1)[0].Labels, Owned))
	defer ReleaseLabelList(list)

	require.Equal(t, int64(2), LabelListCount(list))
	for i := int64(0); i < 2; i++ {
		entry := LabelListEntryAt(list, i)
		require.NotNil(t, entry)
		assert.Equal(t, StatusOK, ReleaseLabel(entry))
	}
	assert.Nil(t, LabelListEntryAt(list, 2))
}

func TestCount_InvalidList(t *testing.T) {
	assert.Equal(t, int64(-1), ItemListCount(nil))
	assert.Contains(t, LastError(), ErrNilPointer.Error())
	assert.Equal(t, int64(-1), LabelListCount(nil))

	list := (*ItemCollection)(newItemList(sampleItems(1), Owned))
	require.Equal(t, StatusOK, ReleaseItemList(list))
	assert.Equal(t, int64(-1), ItemListCount(list))
	assert.Contains(t, LastError(), ErrUnknownPointer.Error())
}

func TestEntryAt_IndependentCopy(t *testing.T) {
	list := (*ItemCollection)(newItemList(sampleItems(2), Owned))
	entry := ItemListEntryAt(list, 1)
	require.NotNil(t, entry)

	require.Equal(t, StatusOK, ReleaseItemList(list))
	assert.Equal(t, "item 1", entry.Name())
	assert.Len(t, entry.Labels().Labels(), 2)
	assert.Equal(t, StatusOK, ReleaseItem(entry))
}

func TestRelease_Misuse(t *testing.T) {
	item := (*ItemMirror)(newItem(sampleItems(1)[0], Owned))
	defer ReleaseItem(item)
	list := (*ItemCollection)(newItemList(sampleItems(1), Owned))
	defer ReleaseItemList(list)

	tests := []struct {
		name    string
		release func() Status
		wantErr error
	}{
		{"nil item", func() Status { return ReleaseItem(nil) }, ErrNilPointer},
		{"nil label list", func() Status { return ReleaseLabelList(nil) }, ErrNilPointer},
		{"embedded label list", func() Status { return ReleaseLabelList(item.Labels()) }, ErrNotOwner},
		{"list as item", func() Status { return ReleaseItem((*ItemMirror)(unsafe.Pointer(list))) }, ErrWrongKind},
		{"item as list", func() Status { return ReleaseItemList((*ItemCollection)(unsafe.Pointer(item))) }, ErrWrongKind},
		{"embedded string", func() Status { return ReleaseString(unsafe.Pointer(item.c().name)) }, ErrNotOwner},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, StatusMisuse, tt.release())
			assert.Contains(t, LastError(), tt.wantErr.Error())
		})
	}

	assert.Equal(t, "item 0", item.Name(), "rejected releases leave the value intact")
	assert.Equal(t, int64(1), ItemListCount(list))
}

func TestReleaseHook(t *testing.T) {
	type event struct {
		kind Kind
		role Role
	}
	var events []event
	prev := SetReleaseHook(func(k Kind, r Role) { events = append(events, event{k, r}) })
	defer SetReleaseHook(prev)

	label := (*LabelMirror)(newLabel(types.Label{ID: 4, Name: "work", Color: "#ff0000"}, Owned))
	require.Equal(t, StatusOK, ReleaseLabel(label))

	assert.Equal(t, []event{
		{KindLabel, Owned},
		{KindInt64, Embedded},
		{KindString, Embedded},
		{KindString, Embedded},
	}, events)
}

func TestStatusFor(t *testing.T) {
	tests := []struct {
		err  error
		want Status
	}{
		{nil, StatusOK},
		{types.ErrNotFound, StatusNotFound},
		{fmt.Errorf("wrapped: %w", types.ErrInvalidName), StatusInvalid},
		{types.ErrBackendUnknown, StatusInvalid},
		{ErrIndexOutOfRange, StatusMisuse},
		{fmt.Errorf("disk full"), StatusStore},
	}
	for _, tt := range tests {
		t.Run(tt.want.String(), func(t *testing.T) {
			assert.Equal(t, tt.want, statusFor(tt.err))
		})
	}
}
