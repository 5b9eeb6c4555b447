package sqlite

// Schema DDL. Integer primary keys are the stable identities handed across
// the boundary; the item UUID is the public natural key.
const (
	createLabels = `CREATE TABLE IF NOT EXISTS labels (
    label_id INTEGER PRIMARY KEY AUTOINCREMENT,
    name TEXT NOT NULL UNIQUE,
    color TEXT NOT NULL
);`

	createItems = `CREATE TABLE IF NOT EXISTS items (
    item_id INTEGER PRIMARY KEY AUTOINCREMENT,
    uuid TEXT NOT NULL UNIQUE,
    name TEXT NOT NULL,
    due_date INTEGER,
    completion_date INTEGER
);`

	createItemLabels = `CREATE TABLE IF NOT EXISTS item_labels (
    item_id INTEGER NOT NULL,
    label_id INTEGER NOT NULL,
    PRIMARY KEY (item_id, label_id),
    FOREIGN KEY (item_id) REFERENCES items(item_id) ON DELETE CASCADE,
    FOREIGN KEY (label_id) REFERENCES labels(label_id) ON DELETE CASCADE
);`
)

const (
	indexItemLabelsLabel = `CREATE INDEX IF NOT EXISTS idx_item_labels_label ON item_labels(label_id);`
	indexItemsDue        = `CREATE INDEX IF NOT EXISTS idx_items_due ON items(due_date);`
)

// schemaStatements runs in order on attach.
var schemaStatements = []string{
	createLabels,
	createItems,
	createItemLabels,
	indexItemLabelsLabel,
	indexItemsDue,
}

// pragmas are applied to every new connection before the schema.
var pragmas = []string{
	"PRAGMA foreign_keys = ON",
	"PRAGMA busy_timeout = 5000",
}
