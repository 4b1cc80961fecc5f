package export

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite" // SQLite driver

	"github.com/dzjyyds666/qent/parse/qent"
)

// SQLiteStore saves parsed entity lumps, one run per Save call. Keys and values
// are stored as BLOBs so arbitrary bytes survive.
type SQLiteStore struct {
	db   *sql.DB
	path string
}

// Run describes one saved parse.
type Run struct {
	ID        string
	Source    string
	Entities  int
	KeyValues int
	CreatedAt time.Time
}

// OpenSQLite opens (creating if needed) the database at path.
func OpenSQLite(path string) (*SQLiteStore, error) {
	if path == "" {
		return nil, fmt.Errorf("db path cannot be empty")
	}

	dsn := fmt.Sprintf("%s?_pragma=busy_timeout(%d)&_pragma=foreign_keys(1)", path, 5000)
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	db.SetMaxOpenConns(1) // SQLite only supports single writer

	s := &SQLiteStore{db: db, path: path}
	if err := s.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}
	return s, nil
}

func (s *SQLiteStore) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS runs (
		id TEXT PRIMARY KEY,
		source TEXT NOT NULL,
		entity_count INTEGER NOT NULL,
		key_value_count INTEGER NOT NULL,
		created_at INTEGER NOT NULL
	);

	CREATE TABLE IF NOT EXISTS entities (
		run_id TEXT NOT NULL REFERENCES runs(id) ON DELETE CASCADE,
		idx INTEGER NOT NULL,
		classname BLOB,
		PRIMARY KEY (run_id, idx)
	);

	CREATE TABLE IF NOT EXISTS key_values (
		run_id TEXT NOT NULL,
		entity_idx INTEGER NOT NULL,
		pair_idx INTEGER NOT NULL,
		key BLOB,
		value BLOB,
		PRIMARY KEY (run_id, entity_idx, pair_idx),
		FOREIGN KEY (run_id, entity_idx) REFERENCES entities(run_id, idx) ON DELETE CASCADE
	);

	CREATE INDEX IF NOT EXISTS idx_key_values_key ON key_values(key);
	`
	_, err := s.db.Exec(schema)
	return err
}

// Save stores ents under a new run ID in a single transaction and returns the ID.
func (s *SQLiteStore) Save(ctx context.Context, source string, ents *qent.Entities) (string, error) {
	id := uuid.NewString()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return "", fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx,
		`INSERT INTO runs (id, source, entity_count, key_value_count, created_at) VALUES (?, ?, ?, ?, ?)`,
		id, source, ents.Len(), ents.KeyValueCount(), time.Now().Unix()); err != nil {
		return "", fmt.Errorf("insert run: %w", err)
	}

	entStmt, err := tx.PrepareContext(ctx, `INSERT INTO entities (run_id, idx, classname) VALUES (?, ?, ?)`)
	if err != nil {
		return "", err
	}
	defer entStmt.Close()

	kvStmt, err := tx.PrepareContext(ctx, `INSERT INTO key_values (run_id, entity_idx, pair_idx, key, value) VALUES (?, ?, ?, ?, ?)`)
	if err != nil {
		return "", err
	}
	defer kvStmt.Close()

	for i, en := range ents.All() {
		var classname []byte
		if v, ok := en.Lookup("classname"); ok {
			classname = v
		}
		if _, err := entStmt.ExecContext(ctx, id, i, classname); err != nil {
			return "", fmt.Errorf("insert entity %d: %w", i, err)
		}
		for j, kv := range en.All() {
			if _, err := kvStmt.ExecContext(ctx, id, i, j, kv.Key(), kv.Value()); err != nil {
				return "", fmt.Errorf("insert key-value %d of entity %d: %w", j, i, err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("commit: %w", err)
	}
	return id, nil
}

// Runs lists saved runs, newest first.
func (s *SQLiteStore) Runs(ctx context.Context) ([]Run, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, source, entity_count, key_value_count, created_at FROM runs ORDER BY created_at DESC, rowid DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var r Run
		var created int64
		if err := rows.Scan(&r.ID, &r.Source, &r.Entities, &r.KeyValues, &created); err != nil {
			return nil, err
		}
		r.CreatedAt = time.Unix(created, 0)
		runs = append(runs, r)
	}
	return runs, rows.Err()
}

// Load rebuilds the Document saved under runID.
func (s *SQLiteStore) Load(ctx context.Context, runID string) (Document, error) {
	doc := Document{Entities: make([]Entity, 0)}

	var count int
	err := s.db.QueryRowContext(ctx, `SELECT entity_count FROM runs WHERE id = ?`, runID).Scan(&count)
	if err == sql.ErrNoRows {
		return doc, fmt.Errorf("run %q not found", runID)
	}
	if err != nil {
		return doc, err
	}
	for i := 0; i < count; i++ {
		doc.Entities = append(doc.Entities, Entity{Index: i, Pairs: make([]Pair, 0)})
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT entity_idx, key, value FROM key_values WHERE run_id = ? ORDER BY entity_idx, pair_idx`, runID)
	if err != nil {
		return doc, err
	}
	defer rows.Close()

	for rows.Next() {
		var idx int
		var key, value []byte
		if err := rows.Scan(&idx, &key, &value); err != nil {
			return doc, err
		}
		if idx < 0 || idx >= count {
			return doc, fmt.Errorf("run %q: key-value for entity %d outside of %d entities", runID, idx, count)
		}
		doc.Entities[idx].Pairs = append(doc.Entities[idx].Pairs, Pair{Key: string(key), Value: string(value)})
	}
	return doc, rows.Err()
}

// Delete removes a run and everything saved under it.
func (s *SQLiteStore) Delete(ctx context.Context, runID string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM runs WHERE id = ?`, runID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("run %q not found", runID)
	}
	return nil
}

func (s *SQLiteStore) Path() string {
	return s.path
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
