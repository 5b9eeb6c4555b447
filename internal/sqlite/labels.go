package sqlite

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/mesh-intelligence/toodle/pkg/types"
)

const labelColumns = "label_id, name, color"

// CreateLabel upserts a label by name and returns the stored snapshot.
func (b *Backend) CreateLabel(name, color string) (*types.Label, error) {
	name = types.NormalizeLabelName(name)
	if name == "" {
		return nil, types.ErrInvalidName
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	if !b.attached {
		return nil, types.ErrStoreClosed
	}

	_, err := b.db.Exec(
		`INSERT INTO labels (name, color) VALUES (?, ?)
		 ON CONFLICT(name) DO UPDATE SET color = excluded.color`,
		name, color)
	if err != nil {
		return nil, fmt.Errorf("upserting label %q: %w", name, err)
	}
	label, err := fetchLabel(b.db, name)
	if err != nil {
		return nil, err
	}
	b.committed()
	b.logger.Debug("label stored", "id", label.ID, "name", label.Name, "color", label.Color)
	return label, nil
}

// FetchLabel returns the label with the given name.
func (b *Backend) FetchLabel(name string) (*types.Label, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if !b.attached {
		return nil, types.ErrStoreClosed
	}
	return fetchLabel(b.db, types.NormalizeLabelName(name))
}

// FetchLabels returns every label ordered by name. Rows that do not convert
// to a label are skipped.
func (b *Backend) FetchLabels() ([]types.Label, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if !b.attached {
		return nil, types.ErrStoreClosed
	}
	return b.queryLabels(b.db, `SELECT `+labelColumns+` FROM labels ORDER BY name`)
}

// FetchLabelsForItem returns the labels attached to the item with the given
// UUID, ordered by name.
func (b *Backend) FetchLabelsForItem(id uuid.UUID) ([]types.Label, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if !b.attached {
		return nil, types.ErrStoreClosed
	}
	return b.queryLabels(b.db,
		`SELECT l.label_id, l.name, l.color
		 FROM labels l
		 JOIN item_labels il ON il.label_id = l.label_id
		 JOIN items i ON i.item_id = il.item_id
		 WHERE i.uuid = ?
		 ORDER BY l.name`, id.String())
}

// SetLabelColor changes the color of an existing label.
func (b *Backend) SetLabelColor(name, color string) (*types.Label, error) {
	name = types.NormalizeLabelName(name)

	b.mu.Lock()
	defer b.mu.Unlock()
	if !b.attached {
		return nil, types.ErrStoreClosed
	}

	res, err := b.db.Exec(`UPDATE labels SET color = ? WHERE name = ?`, color, name)
	if err != nil {
		return nil, fmt.Errorf("updating label %q: %w", name, err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return nil, types.ErrNotFound
	}
	label, err := fetchLabel(b.db, name)
	if err != nil {
		return nil, err
	}
	b.committed()
	return label, nil
}

func fetchLabel(q queryer, name string) (*types.Label, error) {
	var id, n, color any
	err := q.QueryRow(`SELECT `+labelColumns+` FROM labels WHERE name = ?`, name).Scan(&id, &n, &color)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, types.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("fetching label %q: %w", name, err)
	}
	label, ok := types.LabelFromRow([]any{id, n, color})
	if !ok {
		return nil, types.ErrInvalidData
	}
	return &label, nil
}

func (b *Backend) queryLabels(q queryer, query string, args ...any) ([]types.Label, error) {
	rows, err := q.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying labels: %w", err)
	}
	defer rows.Close()

	labels := []types.Label{}
	for rows.Next() {
		var id, name, color any
		if err := rows.Scan(&id, &name, &color); err != nil {
			return nil, fmt.Errorf("scanning label: %w", err)
		}
		label, ok := types.LabelFromRow([]any{id, name, color})
		if !ok {
			b.logger.Warn("skipping malformed label row", "id", id)
			continue
		}
		labels = append(labels, label)
	}
	return labels, rows.Err()
}

// resolveLabelID finds the stored id for a label: by ID when it has one,
// otherwise by name. The boolean is false for an unknown label.
func resolveLabelID(q queryer, l types.Label) (int64, bool, error) {
	var (
		id  int64
		err error
	)
	if l.Persisted() {
		err = q.QueryRow(`SELECT label_id FROM labels WHERE label_id = ?`, l.ID).Scan(&id)
	} else {
		err = q.QueryRow(`SELECT label_id FROM labels WHERE name = ?`, types.NormalizeLabelName(l.Name)).Scan(&id)
	}
	if errors.Is(err, sql.ErrNoRows) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, fmt.Errorf("resolving label %q: %w", l.Name, err)
	}
	return id, true, nil
}
