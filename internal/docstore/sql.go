package docstore

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"sort"
	"strings"
)

var fieldName = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// SQLStore implements Store on a *sql.DB.
type SQLStore struct {
	db      *sql.DB
	dialect Dialect
}

// New wraps db. Call EnsureSchema once before use.
func New(db *sql.DB, d Dialect) *SQLStore {
	return &SQLStore{db: db, dialect: d}
}

// EnsureSchema creates the documents table if it does not exist.
func (s *SQLStore) EnsureSchema(ctx context.Context) error {
	for _, stmt := range s.dialect.schema {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("docstore: ensure schema: %w", err)
		}
	}
	return nil
}

// Ping verifies the connection is alive.
func (s *SQLStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func jsonPath(field string) (string, error) {
	if !fieldName.MatchString(field) {
		return "", fmt.Errorf("%w: %q", ErrInvalidField, field)
	}
	return "$." + field, nil
}

// where builds the WHERE clause for collection and filter. Keys are sorted so
// the generated SQL is stable.
func (s *SQLStore) where(collection string, filter Filter) (string, []any, error) {
	var b strings.Builder
	b.WriteString("collection = ?")
	args := []any{collection}

	keys := make([]string, 0, len(filter))
	for k := range filter {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		path, err := jsonPath(k)
		if err != nil {
			return "", nil, err
		}
		val, err := json.Marshal(filter[k])
		if err != nil {
			return "", nil, fmt.Errorf("docstore: encode filter %s: %w", k, err)
		}
		b.WriteString(" AND ")
		b.WriteString(s.dialect.match)
		args = append(args, path, string(val))
	}
	return b.String(), args, nil
}

func (s *SQLStore) orderBy(fields []SortField) (string, []any, error) {
	if len(fields) == 0 {
		return " ORDER BY seq ASC", nil, nil
	}
	parts := make([]string, 0, len(fields)+1)
	args := make([]any, 0, len(fields))
	for _, f := range fields {
		path, err := jsonPath(f.Field)
		if err != nil {
			return "", nil, err
		}
		dir := "ASC"
		if f.Desc {
			dir = "DESC"
		}
		parts = append(parts, s.dialect.sortKey+" "+dir)
		args = append(args, path)
	}
	// Ties fall back to insertion order in the direction of the last key.
	tie := "seq ASC"
	if fields[len(fields)-1].Desc {
		tie = "seq DESC"
	}
	parts = append(parts, tie)
	return " ORDER BY " + strings.Join(parts, ", "), args, nil
}

func (s *SQLStore) query(ctx context.Context, collection string, filter Filter, opts FindOptions) ([]json.RawMessage, error) {
	where, args, err := s.where(collection, filter)
	if err != nil {
		return nil, err
	}
	order, orderArgs, err := s.orderBy(opts.Sort)
	if err != nil {
		return nil, err
	}
	q := "SELECT body FROM documents WHERE " + where + order
	args = append(args, orderArgs...)
	if opts.Limit > 0 {
		q += " LIMIT ?"
		args = append(args, opts.Limit)
	}

	rows, err := s.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("docstore: query %s: %w", collection, err)
	}
	defer rows.Close()

	var docs []json.RawMessage
	for rows.Next() {
		var body []byte
		if err := rows.Scan(&body); err != nil {
			return nil, fmt.Errorf("docstore: scan %s: %w", collection, err)
		}
		docs = append(docs, json.RawMessage(body))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("docstore: iterate %s: %w", collection, err)
	}
	return docs, nil
}

func (s *SQLStore) FindOne(ctx context.Context, collection string, filter Filter, dst any, sort ...SortField) error {
	docs, err := s.query(ctx, collection, filter, FindOptions{Sort: sort, Limit: 1})
	if err != nil {
		return err
	}
	if len(docs) == 0 {
		return ErrNotFound
	}
	if err := json.Unmarshal(docs[0], dst); err != nil {
		return fmt.Errorf("docstore: decode %s: %w", collection, err)
	}
	return nil
}

func (s *SQLStore) FindMany(ctx context.Context, collection string, filter Filter, opts FindOptions, dst any) error {
	docs, err := s.query(ctx, collection, filter, opts)
	if err != nil {
		return err
	}
	var buf bytes.Buffer
	buf.WriteByte('[')
	for i, d := range docs {
		if i > 0 {
			buf.WriteByte(',')
		}
		buf.Write(d)
	}
	buf.WriteByte(']')
	if err := json.Unmarshal(buf.Bytes(), dst); err != nil {
		return fmt.Errorf("docstore: decode %s: %w", collection, err)
	}
	return nil
}

func (s *SQLStore) Insert(ctx context.Context, collection string, doc any) error {
	fields, err := toFields(doc)
	if err != nil {
		return err
	}
	return s.insertFields(ctx, s.db, collection, fields)
}

type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

func (s *SQLStore) insertFields(ctx context.Context, ex execer, collection string, fields map[string]json.RawMessage) error {
	body, err := json.Marshal(fields)
	if err != nil {
		return fmt.Errorf("docstore: encode %s: %w", collection, err)
	}
	if _, err := ex.ExecContext(ctx, "INSERT INTO documents (collection, body) VALUES (?, ?)", collection, string(body)); err != nil {
		return fmt.Errorf("docstore: insert %s: %w", collection, err)
	}
	return nil
}

func (s *SQLStore) Update(ctx context.Context, collection string, filter Filter, patch any, upsert bool) (int64, error) {
	changes, err := toFields(patch)
	if err != nil {
		return 0, err
	}
	where, args, err := s.where(collection, filter)
	if err != nil {
		return 0, err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("docstore: begin: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	type row struct {
		seq  int64
		body []byte
	}
	rows, err := tx.QueryContext(ctx, "SELECT seq, body FROM documents WHERE "+where+" ORDER BY seq ASC", args...)
	if err != nil {
		return 0, fmt.Errorf("docstore: query %s: %w", collection, err)
	}
	var matched []row
	for rows.Next() {
		var r row
		if err := rows.Scan(&r.seq, &r.body); err != nil {
			rows.Close()
			return 0, fmt.Errorf("docstore: scan %s: %w", collection, err)
		}
		matched = append(matched, r)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return 0, fmt.Errorf("docstore: iterate %s: %w", collection, err)
	}

	for _, r := range matched {
		var fields map[string]json.RawMessage
		if err := json.Unmarshal(r.body, &fields); err != nil {
			return 0, fmt.Errorf("docstore: decode %s: %w", collection, err)
		}
		if fields == nil {
			fields = make(map[string]json.RawMessage, len(changes))
		}
		for k, v := range changes {
			fields[k] = v
		}
		body, err := json.Marshal(fields)
		if err != nil {
			return 0, fmt.Errorf("docstore: encode %s: %w", collection, err)
		}
		if _, err := tx.ExecContext(ctx, "UPDATE documents SET body = ? WHERE seq = ?", string(body), r.seq); err != nil {
			return 0, fmt.Errorf("docstore: update %s: %w", collection, err)
		}
	}

	if len(matched) == 0 && upsert {
		fields := make(map[string]json.RawMessage, len(filter)+len(changes))
		for k, v := range filter {
			b, err := json.Marshal(v)
			if err != nil {
				return 0, fmt.Errorf("docstore: encode filter %s: %w", k, err)
			}
			fields[k] = b
		}
		for k, v := range changes {
			fields[k] = v
		}
		if err := s.insertFields(ctx, tx, collection, fields); err != nil {
			return 0, err
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("docstore: commit: %w", err)
	}
	return int64(len(matched)), nil
}

func (s *SQLStore) Delete(ctx context.Context, collection string, filter Filter) (int64, error) {
	where, args, err := s.where(collection, filter)
	if err != nil {
		return 0, err
	}
	res, err := s.db.ExecContext(ctx, "DELETE FROM documents WHERE "+where, args...)
	if err != nil {
		return 0, fmt.Errorf("docstore: delete %s: %w", collection, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("docstore: delete %s: %w", collection, err)
	}
	return n, nil
}

func (s *SQLStore) Count(ctx context.Context, collection string, filter Filter) (int64, error) {
	where, args, err := s.where(collection, filter)
	if err != nil {
		return 0, err
	}
	var n int64
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM documents WHERE "+where, args...).Scan(&n); err != nil {
		return 0, fmt.Errorf("docstore: count %s: %w", collection, err)
	}
	return n, nil
}

// toFields encodes v and splits the resulting JSON object into its fields.
func toFields(v any) (map[string]json.RawMessage, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("docstore: encode document: %w", err)
	}
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(b, &fields); err != nil || fields == nil {
		return nil, errors.New("docstore: document must encode to a JSON object")
	}
	return fields, nil
}
