//go:build !toodle_debug

package boundary

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/toodle/pkg/types"
)

func TestOpenClose(t *testing.T) {
	h, err := Open("")
	require.NoError(t, err)

	assert.Equal(t, StatusOK, Close(h))
	assert.Equal(t, StatusMisuse, Close(h))
	assert.Contains(t, LastError(), "close")

	assert.Nil(t, AllItems(h))
}

func TestOpen_Durable(t *testing.T) {
	dir := t.TempDir()
	h, err := Open(dir)
	require.NoError(t, err)
	item := CreateItem(h, strp("persisted"), nil, nil)
	require.NotNil(t, item)
	id := item.UUID()
	require.Equal(t, StatusOK, ReleaseItem(item))
	require.Equal(t, StatusOK, Close(h))

	h, err = Open("file://" + dir)
	require.NoError(t, err)
	defer Close(h)
	got := FetchItem(h, &id)
	require.NotNil(t, got)
	assert.Equal(t, "persisted", got.Name())
	assert.Equal(t, StatusOK, ReleaseItem(got))
}

func TestOpen_Failure(t *testing.T) {
	tests := []struct {
		name string
		uri  string
	}{
		{"unknown backend", "/tmp/toodle?backend=postgres"},
		{"unknown sync", "/tmp/toodle?sync=sometimes"},
		{"file without path", "file:"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ClearLastError()
			h, err := Open(tt.uri)
			assert.Error(t, err)
			assert.Zero(t, h)
			assert.Contains(t, LastError(), "open")
		})
	}
}

func TestInvalidHandle(t *testing.T) {
	const bogus = Handle(1 << 40)

	assert.Nil(t, AllItems(bogus))
	assert.Nil(t, CreateItem(bogus, strp("x"), nil, nil))
	assert.Equal(t, StatusMisuse, OnItemsChanged(bogus, func() {}))
	assert.Equal(t, StatusMisuse, UpdateItemByUUID(bogus, strp(uuid.NewString()), nil, nil, nil))
	assert.Contains(t, LastError(), ErrInvalidHandle.Error())
}

func TestScenario_LabelledItem(t *testing.T) {
	h := openSession(t)

	label := CreateLabel(h, strp("work"), strp("#ff0000"))
	require.NotNil(t, label)
	require.NotNil(t, label.ID())
	assert.Equal(t, "work", label.Name())
	assert.Equal(t, "#ff0000", label.Color())

	labels := AllLabels(h)
	require.NotNil(t, labels)
	item := CreateItem(h, strp("buy milk"), nil, labels)
	require.NotNil(t, item)

	list := AllItems(h)
	require.NotNil(t, list)
	require.Equal(t, int64(1), ItemListCount(list))

	entry := ItemListEntryAt(list, 0)
	require.NotNil(t, entry)
	assert.Equal(t, "buy milk", entry.Name())
	assert.Nil(t, entry.DueDate())
	got := entry.Labels().Labels()
	require.Len(t, got, 1)
	assert.Equal(t, "work", got[0].Name)
	assert.Equal(t, "#ff0000", got[0].Color)
	assert.Equal(t, *label.ID(), got[0].ID)

	for _, st := range []Status{
		ReleaseItem(entry),
		ReleaseItemList(list),
		ReleaseItem(item),
		ReleaseLabelList(labels),
		ReleaseLabel(label),
	} {
		assert.Equal(t, StatusOK, st)
	}
}

func TestUpdateItem_RenameOnly(t *testing.T) {
	h := openSession(t)
	label := CreateLabel(h, strp("work"), strp("#ff0000"))
	require.NotNil(t, label)
	defer ReleaseLabel(label)
	labels := AllLabels(h)
	require.NotNil(t, labels)
	defer ReleaseLabelList(labels)

	item := CreateItem(h, strp("buy milk"), i64(1700000000), labels)
	require.NotNil(t, item)
	defer ReleaseItem(item)

	status := UpdateItem(h, item, strp("buy oat milk"), item.DueDate(), item.CompletionDate(), nil)
	require.Equal(t, StatusOK, status)

	got := FetchItem(h, strp(item.UUID()))
	require.NotNil(t, got)
	defer ReleaseItem(got)
	assert.Equal(t, "buy oat milk", got.Name())
	require.NotNil(t, got.DueDate())
	assert.Equal(t, int64(1700000000), *got.DueDate())
	assert.Nil(t, got.CompletionDate())
	assert.Len(t, got.Labels().Labels(), 1)
}

func TestUpdateItem_DatesAndLabels(t *testing.T) {
	h := openSession(t)
	work := CreateLabel(h, strp("work"), strp("#ff0000"))
	require.NotNil(t, work)
	defer ReleaseLabel(work)
	workOnly := AllLabels(h)
	defer ReleaseLabelList(workOnly)

	item := CreateItem(h, strp("task"), i64(1700000000), workOnly)
	require.NotNil(t, item)
	defer ReleaseItem(item)

	require.Equal(t, StatusOK, UpdateItem(h, item, nil, nil, i64(1700000500), nil))
	got := FetchItem(h, strp(item.UUID()))
	require.NotNil(t, got)
	defer ReleaseItem(got)
	assert.Equal(t, "task", got.Name())
	assert.Nil(t, got.DueDate())
	require.NotNil(t, got.CompletionDate())
	assert.Equal(t, int64(1700000500), *got.CompletionDate())
	assert.Len(t, got.Labels().Labels(), 1)

	home := CreateLabel(h, strp("home"), strp("#00ff00"))
	require.NotNil(t, home)
	defer ReleaseLabel(home)
	both := AllLabels(h)
	defer ReleaseLabelList(both)

	require.Equal(t, StatusOK, UpdateItem(h, got, nil, nil, got.CompletionDate(), both))
	withHome := ItemsWithLabel(h, strp("home"))
	require.NotNil(t, withHome)
	defer ReleaseItemList(withHome)
	require.Equal(t, int64(1), ItemListCount(withHome))
	assert.Len(t, withHome.Items()[0].Labels, 2)
}

func TestCreateItem_DueDatePointer(t *testing.T) {
	h := openSession(t)

	tests := []struct {
		name string
		due  *int64
	}{
		{"set", i64(1700000000)},
		{"null", nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			item := CreateItem(h, strp("dated"), tt.due, nil)
			require.NotNil(t, item)
			defer ReleaseItem(item)

			if tt.due == nil {
				assert.Nil(t, item.DueDate())
				return
			}
			require.NotNil(t, item.DueDate())
			assert.Equal(t, *tt.due, *item.DueDate())
		})
	}
}

func TestCreateItem_Rejected(t *testing.T) {
	h := openSession(t)

	assert.Nil(t, CreateItem(h, nil, nil, nil))
	assert.Contains(t, LastError(), ErrNilPointer.Error())

	assert.Nil(t, CreateItem(h, strp("  "), nil, nil))
	assert.Contains(t, LastError(), types.ErrInvalidName.Error())
}

func TestFetchItem_Missing(t *testing.T) {
	h := openSession(t)

	assert.Nil(t, FetchItem(h, strp(uuid.NewString())))
	assert.Contains(t, LastError(), types.ErrNotFound.Error())

	assert.Nil(t, FetchItem(h, strp("not-a-uuid")))
	assert.Contains(t, LastError(), types.ErrInvalidID.Error())
}

func TestChangeCallback(t *testing.T) {
	h := openSession(t)
	calls := 0
	require.Equal(t, StatusOK, OnItemsChanged(h, func() { calls++ }))
	assert.Equal(t, 1, calls, "registration confirms once")

	item := CreateItem(h, strp("buy milk"), nil, nil)
	require.NotNil(t, item)
	defer ReleaseItem(item)
	assert.Equal(t, 2, calls)

	label := CreateLabel(h, strp("work"), strp("#ff0000"))
	require.NotNil(t, label)
	defer ReleaseLabel(label)
	assert.Equal(t, 2, calls, "label creation does not notify")

	require.Equal(t, StatusOK, UpdateItemByUUID(h, strp(item.UUID()), strp("renamed"), nil, nil))
	assert.Equal(t, 3, calls)

	recolored := SetLabelColor(h, strp("work"), strp("#0000ff"))
	require.NotNil(t, recolored)
	defer ReleaseLabel(recolored)
	assert.Equal(t, 4, calls)

	assert.Nil(t, CreateItem(h, strp(""), nil, nil))
	assert.Equal(t, 4, calls, "failed mutation does not notify")

	require.Equal(t, StatusOK, OnItemsChanged(h, nil))
	other := CreateItem(h, strp("quiet"), nil, nil)
	require.NotNil(t, other)
	defer ReleaseItem(other)
	assert.Equal(t, 4, calls)
}

func TestChangeCallback_PerSession(t *testing.T) {
	a := openSession(t)
	b := openSession(t)
	var callsA, callsB int
	OnItemsChanged(a, func() { callsA++ })
	OnItemsChanged(b, func() { callsB++ })

	item := CreateItem(a, strp("only a"), nil, nil)
	require.NotNil(t, item)
	defer ReleaseItem(item)

	assert.Equal(t, 2, callsA)
	assert.Equal(t, 1, callsB)
}

func TestChangeCallback_MayCallBack(t *testing.T) {
	h := openSession(t)
	var seen []int64
	OnItemsChanged(h, func() {
		list := AllItems(h)
		seen = append(seen, ItemListCount(list))
		ReleaseItemList(list)
	})

	item := CreateItem(h, strp("one"), nil, nil)
	require.NotNil(t, item)
	defer ReleaseItem(item)
	assert.Equal(t, []int64{0, 1}, seen)
}

func TestWithAllItems(t *testing.T) {
	h := openSession(t)

	var gotNil bool
	require.Equal(t, StatusOK, WithAllItems(h, func(list *ItemCollection) { gotNil = list == nil }))
	assert.True(t, gotNil, "empty store lends NULL")

	for _, name := range []string{"a", "b"} {
		item := CreateItem(h, strp(name), nil, nil)
		require.NotNil(t, item)
		ReleaseItem(item)
	}

	before := Stats()
	var count int64
	var names []string
	var releaseStatus Status
	status := WithAllItems(h, func(list *ItemCollection) {
		count = ItemListCount(list)
		for _, it := range list.Items() {
			names = append(names, it.Name)
		}
		releaseStatus = ReleaseItemList(list)
	})
	require.Equal(t, StatusOK, status)
	assert.Equal(t, int64(2), count)
	assert.Equal(t, []string{"a", "b"}, names)
	assert.Equal(t, StatusMisuse, releaseStatus, "lent list cannot be released by the borrower")

	after := Stats()
	assert.Equal(t, before[KindItemList].Live(), after[KindItemList].Live())
	assert.Equal(t, before[KindItem].Live(), after[KindItem].Live())
	assert.Equal(t, before[KindString].Live(), after[KindString].Live())
}

func TestWithAllItems_NilCallback(t *testing.T) {
	h := openSession(t)
	assert.Equal(t, StatusMisuse, WithAllItems(h, nil))
}

func TestLabelsForItem(t *testing.T) {
	h := openSession(t)
	label := CreateLabel(h, strp("work"), strp("#ff0000"))
	require.NotNil(t, label)
	defer ReleaseLabel(label)
	labels := AllLabels(h)
	defer ReleaseLabelList(labels)
	item := CreateItem(h, strp("x"), nil, labels)
	require.NotNil(t, item)
	defer ReleaseItem(item)

	got := LabelsForItem(h, strp(item.UUID()))
	require.NotNil(t, got)
	require.Equal(t, int64(1), LabelListCount(got))
	entry := LabelListEntryAt(got, 0)
	require.NotNil(t, entry)
	assert.Equal(t, "work", entry.Name())
	assert.Equal(t, StatusOK, ReleaseLabel(entry))
	assert.Equal(t, StatusOK, ReleaseLabelList(got))
}

func TestLastErrorString(t *testing.T) {
	ClearLastError()
	assert.Nil(t, LastErrorString())

	assert.Equal(t, StatusMisuse, ReleaseItem(nil))
	p := LastErrorString()
	require.NotNil(t, p)
	assert.Equal(t, StatusOK, ReleaseString(p))
	assert.Equal(t, StatusMisuse, ReleaseString(p))
}
