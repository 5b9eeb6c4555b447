package sqlite

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/mesh-intelligence/toodle/pkg/types"
)

const itemColumns = "item_id, uuid, name, due_date, completion_date"

// CreateItem stores a new item and links its labels. Labels are matched by
// ID, or by name when they have none; unknown labels are not linked.
func (b *Backend) CreateItem(item *types.Item) (uuid.UUID, error) {
	if item == nil {
		return uuid.Nil, types.ErrInvalidData
	}
	if strings.TrimSpace(item.Name) == "" {
		return uuid.Nil, types.ErrInvalidName
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	if !b.attached {
		return uuid.Nil, types.ErrStoreClosed
	}

	id := item.UUID
	if id == uuid.Nil {
		id = generateUUID()
	}

	tx, err := b.db.Begin()
	if err != nil {
		return uuid.Nil, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.Exec(
		`INSERT INTO items (uuid, name, due_date, completion_date) VALUES (?, ?, ?, ?)`,
		id.String(), item.Name, secondsArg(item.DueDate), secondsArg(item.CompletionDate))
	if err != nil {
		return uuid.Nil, fmt.Errorf("inserting item: %w", err)
	}
	itemID, err := res.LastInsertId()
	if err != nil {
		return uuid.Nil, fmt.Errorf("reading item id: %w", err)
	}

	if err := b.linkLabels(tx, itemID, item.Labels); err != nil {
		return uuid.Nil, err
	}
	if err := tx.Commit(); err != nil {
		return uuid.Nil, fmt.Errorf("committing item: %w", err)
	}

	item.ID = itemID
	item.UUID = id
	b.committed()
	b.logger.Debug("item created", "uuid", id, "name", item.Name, "labels", len(item.Labels))
	return id, nil
}

// CreateAndFetchItem creates the item and returns the stored snapshot.
func (b *Backend) CreateAndFetchItem(item *types.Item) (*types.Item, error) {
	id, err := b.CreateItem(item)
	if err != nil {
		return nil, err
	}
	return b.FetchItem(id)
}

// FetchItem returns the item with the given UUID, labels included.
func (b *Backend) FetchItem(id uuid.UUID) (*types.Item, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if !b.attached {
		return nil, types.ErrStoreClosed
	}

	items, err := b.queryItems(b.db, `SELECT `+itemColumns+` FROM items WHERE uuid = ?`, id.String())
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return nil, types.ErrNotFound
	}
	return &items[0], nil
}

// FetchItems returns every item in creation order.
func (b *Backend) FetchItems() (types.Items, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if !b.attached {
		return nil, types.ErrStoreClosed
	}
	return b.queryItems(b.db, `SELECT `+itemColumns+` FROM items ORDER BY item_id`)
}

// FetchItemsWithLabel returns the items carrying the named label in creation
// order. An unknown label yields an empty list.
func (b *Backend) FetchItemsWithLabel(name string) (types.Items, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if !b.attached {
		return nil, types.ErrStoreClosed
	}
	return b.queryItems(b.db,
		`SELECT i.item_id, i.uuid, i.name, i.due_date, i.completion_date
		 FROM items i
		 JOIN item_labels il ON il.item_id = i.item_id
		 JOIN labels l ON l.label_id = il.label_id
		 WHERE l.name = ?
		 ORDER BY i.item_id`, types.NormalizeLabelName(name))
}

// UpdateItem diffs the update against the stored row and writes only the
// fields that changed. The item is located by ID, or by UUID when the ID is
// zero. An update that changes nothing leaves the store untouched.
func (b *Backend) UpdateItem(item *types.Item, update types.ItemUpdate) error {
	if item == nil {
		return types.ErrInvalidData
	}
	if item.ID == 0 && item.UUID == uuid.Nil {
		return types.ErrInvalidID
	}
	if update.Name != nil && strings.TrimSpace(*update.Name) == "" {
		return types.ErrInvalidName
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	if !b.attached {
		return types.ErrStoreClosed
	}

	tx, err := b.db.Begin()
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	var stored types.Items
	if item.ID != 0 {
		stored, err = b.queryItems(tx, `SELECT `+itemColumns+` FROM items WHERE item_id = ?`, item.ID)
	} else {
		stored, err = b.queryItems(tx, `SELECT `+itemColumns+` FROM items WHERE uuid = ?`, item.UUID.String())
	}
	if err != nil {
		return err
	}
	if len(stored) == 0 {
		return types.ErrNotFound
	}
	current := stored[0]

	var changed []string
	if update.Name != nil && *update.Name != current.Name {
		if _, err := tx.Exec(`UPDATE items SET name = ? WHERE item_id = ?`, *update.Name, current.ID); err != nil {
			return fmt.Errorf("updating name: %w", err)
		}
		changed = append(changed, "name")
	}
	if !types.SameSecond(update.DueDate, current.DueDate) {
		if _, err := tx.Exec(`UPDATE items SET due_date = ? WHERE item_id = ?`, secondsArg(update.DueDate), current.ID); err != nil {
			return fmt.Errorf("updating due date: %w", err)
		}
		changed = append(changed, "due_date")
	}
	if !types.SameSecond(update.CompletionDate, current.CompletionDate) {
		if _, err := tx.Exec(`UPDATE items SET completion_date = ? WHERE item_id = ?`, secondsArg(update.CompletionDate), current.ID); err != nil {
			return fmt.Errorf("updating completion date: %w", err)
		}
		changed = append(changed, "completion_date")
	}
	if update.ReplaceLabels {
		relabeled, err := b.replaceLabels(tx, current, update.Labels)
		if err != nil {
			return err
		}
		if relabeled {
			changed = append(changed, "labels")
		}
	}

	if len(changed) == 0 {
		return nil
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing update: %w", err)
	}
	b.committed()
	b.logger.Debug("item updated", "uuid", current.UUID, "fields", changed)
	return nil
}

// replaceLabels makes the item's label set equal to want, resolving each
// wanted label against the store. It reports whether any link changed.
func (b *Backend) replaceLabels(tx *sql.Tx, current types.Item, want []types.Label) (bool, error) {
	resolved := make([]types.Label, 0, len(want))
	for _, l := range want {
		id, ok, err := resolveLabelID(tx, l)
		if err != nil {
			return false, err
		}
		if !ok {
			b.logger.Debug("skipping unknown label", "name", l.Name, "id", l.ID)
			continue
		}
		resolved = append(resolved, types.Label{ID: id, Name: l.Name, Color: l.Color})
	}

	add, remove := types.DiffLabels(current.Labels, resolved)
	for _, l := range remove {
		if _, err := tx.Exec(`DELETE FROM item_labels WHERE item_id = ? AND label_id = ?`, current.ID, l.ID); err != nil {
			return false, fmt.Errorf("unlinking label %q: %w", l.Name, err)
		}
	}
	for _, l := range add {
		if _, err := tx.Exec(`INSERT OR IGNORE INTO item_labels (item_id, label_id) VALUES (?, ?)`, current.ID, l.ID); err != nil {
			return false, fmt.Errorf("linking label %q: %w", l.Name, err)
		}
	}
	return len(add)+len(remove) > 0, nil
}

// linkLabels attaches labels to a freshly inserted item.
func (b *Backend) linkLabels(tx *sql.Tx, itemID int64, labels []types.Label) error {
	for _, l := range labels {
		labelID, ok, err := resolveLabelID(tx, l)
		if err != nil {
			return err
		}
		if !ok {
			b.logger.Debug("skipping unknown label", "name", l.Name, "id", l.ID)
			continue
		}
		if _, err := tx.Exec(`INSERT OR IGNORE INTO item_labels (item_id, label_id) VALUES (?, ?)`, itemID, labelID); err != nil {
			return fmt.Errorf("linking label %q: %w", l.Name, err)
		}
	}
	return nil
}

// queryItems runs an item query and hydrates each row with its labels.
func (b *Backend) queryItems(q queryer, query string, args ...any) (types.Items, error) {
	rows, err := q.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying items: %w", err)
	}

	items := types.Items{}
	for rows.Next() {
		var (
			item       types.Item
			rawUUID    string
			due, compl sql.NullInt64
		)
		if err := rows.Scan(&item.ID, &rawUUID, &item.Name, &due, &compl); err != nil {
			rows.Close()
			return nil, fmt.Errorf("scanning item: %w", err)
		}
		parsed, err := uuid.Parse(rawUUID)
		if err != nil {
			b.logger.Warn("skipping item with malformed uuid", "item_id", item.ID, "uuid", rawUUID)
			continue
		}
		item.UUID = parsed
		item.DueDate = types.FromSeconds(nullableSeconds(due))
		item.CompletionDate = types.FromSeconds(nullableSeconds(compl))
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return nil, err
	}
	// Close before issuing the label query: there is a single connection.
	rows.Close()

	if err := b.hydrateLabels(q, items); err != nil {
		return nil, err
	}
	return items, nil
}

// labelBatchSize bounds the item ids bound in one label query. SQLite caps
// host parameters per statement (32766 in current builds).
var labelBatchSize = 500

// hydrateLabels fills in the labels of each item, querying item_labels in
// batches of labelBatchSize ids.
func (b *Backend) hydrateLabels(q queryer, items types.Items) error {
	index := make(map[int64]int, len(items))
	for i, item := range items {
		index[item.ID] = i
		items[i].Labels = []types.Label{}
	}
	for start := 0; start < len(items); start += labelBatchSize {
		end := min(start+labelBatchSize, len(items))
		if err := b.hydrateLabelBatch(q, items, index, items[start:end]); err != nil {
			return err
		}
	}
	return nil
}

func (b *Backend) hydrateLabelBatch(q queryer, items types.Items, index map[int64]int, batch types.Items) error {
	placeholders := make([]string, len(batch))
	args := make([]any, len(batch))
	for i, item := range batch {
		placeholders[i] = "?"
		args[i] = item.ID
	}

	rows, err := q.Query(
		`SELECT il.item_id, l.label_id, l.name, l.color
		 FROM item_labels il
		 JOIN labels l ON l.label_id = il.label_id
		 WHERE il.item_id IN (`+strings.Join(placeholders, ", ")+`)
		 ORDER BY l.name`, args...)
	if err != nil {
		return fmt.Errorf("querying item labels: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			itemID          int64
			id, name, color any
		)
		if err := rows.Scan(&itemID, &id, &name, &color); err != nil {
			return fmt.Errorf("scanning item label: %w", err)
		}
		label, ok := types.LabelFromRow([]any{id, name, color})
		if !ok {
			continue
		}
		if i, ok := index[itemID]; ok {
			items[i].Labels = append(items[i].Labels, label)
		}
	}
	return rows.Err()
}

// secondsArg encodes an optional timestamp as a nullable INTEGER argument.
func secondsArg(t *time.Time) any {
	if s := types.Seconds(t); s != nil {
		return *s
	}
	return nil
}

