package sqlite

import (
	"bufio"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// JSONL files making up the durable record.
const (
	labelsJSONL     = "labels.jsonl"
	itemsJSONL      = "items.jsonl"
	itemLabelsJSONL = "item_labels.jsonl"
)

// maxLineBytes bounds a single JSONL record.
const maxLineBytes = 1 << 20

// labelRecord is one line of labels.jsonl.
type labelRecord struct {
	LabelID int64  `json:"label_id"`
	Name    string `json:"name"`
	Color   string `json:"color"`
}

// itemRecord is one line of items.jsonl. Dates are seconds since the epoch.
type itemRecord struct {
	ItemID         int64  `json:"item_id"`
	UUID           string `json:"uuid"`
	Name           string `json:"name"`
	DueDate        *int64 `json:"due_date"`
	CompletionDate *int64 `json:"completion_date"`
}

// itemLabelRecord is one line of item_labels.jsonl.
type itemLabelRecord struct {
	ItemID  int64 `json:"item_id"`
	LabelID int64 `json:"label_id"`
}

// readJSONL reads a JSONL file and returns each non-empty, parseable line as
// a json.RawMessage. Malformed lines are skipped.
func readJSONL(path string) ([]json.RawMessage, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	var records []json.RawMessage
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineBytes)
	for scanner.Scan() {
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}
		if !json.Valid(line) {
			continue
		}
		cp := make([]byte, len(line))
		copy(cp, line)
		records = append(records, json.RawMessage(cp))
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scanning %s: %w", path, err)
	}
	return records, nil
}

// writeJSONL atomically replaces a JSONL file: temp file, fsync, rename.
func writeJSONL(path string, records []json.RawMessage) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, ".jsonl-*.tmp")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tmpName := tmp.Name()

	w := bufio.NewWriter(tmp)
	for _, rec := range records {
		if _, err := w.Write(rec); err != nil {
			tmp.Close()
			os.Remove(tmpName)
			return fmt.Errorf("writing record: %w", err)
		}
		if err := w.WriteByte('\n'); err != nil {
			tmp.Close()
			os.Remove(tmpName)
			return fmt.Errorf("writing newline: %w", err)
		}
	}
	if err := w.Flush(); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("flushing buffer: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("syncing temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("closing temp file: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("renaming temp file: %w", err)
	}
	return nil
}

// initJSONLFiles creates any missing JSONL file as an empty file.
func initJSONLFiles(dataDir string) error {
	for _, m := range jsonlTableMapping {
		path := filepath.Join(dataDir, m.file)
		_, err := os.Stat(path)
		if err == nil {
			continue
		}
		if !errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("checking %s: %w", m.file, err)
		}
		if err := os.WriteFile(path, nil, 0o644); err != nil {
			return fmt.Errorf("creating %s: %w", m.file, err)
		}
	}
	return nil
}

// persistAllLocked rewrites every JSONL file from the database and clears
// the dirty flag. Callers hold b.mu.
func (b *Backend) persistAllLocked() error {
	labels, err := dumpLabels(b.db)
	if err != nil {
		return err
	}
	items, err := dumpItems(b.db)
	if err != nil {
		return err
	}
	links, err := dumpItemLabels(b.db)
	if err != nil {
		return err
	}

	dir := b.config.DataDir
	for file, records := range map[string][]json.RawMessage{
		labelsJSONL:     labels,
		itemsJSONL:      items,
		itemLabelsJSONL: links,
	} {
		if err := writeJSONL(filepath.Join(dir, file), records); err != nil {
			return fmt.Errorf("persisting %s: %w", file, err)
		}
	}
	b.dirty = false
	b.logger.Debug("jsonl persisted",
		"labels", len(labels), "items", len(items), "links", len(links))
	return nil
}

func dumpLabels(q queryer) ([]json.RawMessage, error) {
	rows, err := q.Query(`SELECT label_id, name, color FROM labels ORDER BY label_id`)
	if err != nil {
		return nil, fmt.Errorf("dumping labels: %w", err)
	}
	defer rows.Close()

	var out []json.RawMessage
	for rows.Next() {
		var r labelRecord
		if err := rows.Scan(&r.LabelID, &r.Name, &r.Color); err != nil {
			return nil, fmt.Errorf("scanning label: %w", err)
		}
		if out, err = appendRecord(out, r); err != nil {
			return nil, err
		}
	}
	return out, rows.Err()
}

func dumpItems(q queryer) ([]json.RawMessage, error) {
	rows, err := q.Query(`SELECT item_id, uuid, name, due_date, completion_date FROM items ORDER BY item_id`)
	if err != nil {
		return nil, fmt.Errorf("dumping items: %w", err)
	}
	defer rows.Close()

	var out []json.RawMessage
	for rows.Next() {
		var (
			r          itemRecord
			due, compl sql.NullInt64
		)
		if err := rows.Scan(&r.ItemID, &r.UUID, &r.Name, &due, &compl); err != nil {
			return nil, fmt.Errorf("scanning item: %w", err)
		}
		r.DueDate = nullableSeconds(due)
		r.CompletionDate = nullableSeconds(compl)
		if out, err = appendRecord(out, r); err != nil {
			return nil, err
		}
	}
	return out, rows.Err()
}

func dumpItemLabels(q queryer) ([]json.RawMessage, error) {
	rows, err := q.Query(`SELECT item_id, label_id FROM item_labels ORDER BY item_id, label_id`)
	if err != nil {
		return nil, fmt.Errorf("dumping item labels: %w", err)
	}
	defer rows.Close()

	var out []json.RawMessage
	for rows.Next() {
		var r itemLabelRecord
		if err := rows.Scan(&r.ItemID, &r.LabelID); err != nil {
			return nil, fmt.Errorf("scanning item label: %w", err)
		}
		if out, err = appendRecord(out, r); err != nil {
			return nil, err
		}
	}
	return out, rows.Err()
}

func appendRecord(out []json.RawMessage, v any) ([]json.RawMessage, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("encoding record: %w", err)
	}
	return append(out, data), nil
}

func nullableSeconds(v sql.NullInt64) *int64 {
	if !v.Valid {
		return nil
	}
	s := v.Int64
	return &s
}
