package docstore

// Dialect holds the SQL fragments that differ between backends. Both
// backends keep every collection in one `documents` table with a JSON body.
type Dialect struct {
	Name string
	// schema is executed statement by statement by EnsureSchema.
	schema []string
	// match compares a JSON path of body with a JSON-encoded argument.
	// Placeholders: path, value.
	match string
	// sortKey extracts a scalar for ORDER BY. Placeholder: path.
	sortKey string
}

// MySQL targets MySQL 5.7+ / 8.x native JSON columns.
var MySQL = Dialect{
	Name: "mysql",
	schema: []string{
		`CREATE TABLE IF NOT EXISTS documents (
			seq BIGINT UNSIGNED NOT NULL AUTO_INCREMENT PRIMARY KEY,
			collection VARCHAR(64) NOT NULL,
			body JSON NOT NULL,
			created_at TIMESTAMP(6) NOT NULL DEFAULT CURRENT_TIMESTAMP(6),
			KEY idx_documents_collection (collection, seq)
		) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,
	},
	match:   "JSON_EXTRACT(body, ?) = CAST(? AS JSON)",
	sortKey: "JSON_UNQUOTE(JSON_EXTRACT(body, ?))",
}

// SQLite targets SQLite with the JSON1 functions (built into modernc.org/sqlite).
var SQLite = Dialect{
	Name: "sqlite",
	schema: []string{
		`CREATE TABLE IF NOT EXISTS documents (
			seq INTEGER PRIMARY KEY AUTOINCREMENT,
			collection TEXT NOT NULL,
			body TEXT NOT NULL,
			created_at TEXT NOT NULL DEFAULT (strftime('%Y-%m-%dT%H:%M:%fZ', 'now'))
		)`,
		`CREATE INDEX IF NOT EXISTS idx_documents_collection ON documents (collection, seq)`,
	},
	match:   "json_extract(body, ?) = json_extract(?, '$')",
	sortKey: "json_extract(body, ?)",
}
