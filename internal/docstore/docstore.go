// Package docstore is a small schemaless document store over database/sql.
// Documents are JSON objects grouped into named collections and addressed by
// equality filters on their top-level fields. Entity shapes and validation
// live with the callers; the store only moves JSON.
package docstore

import (
	"context"
	"errors"
)

// ErrNotFound is returned by FindOne when no document matches.
var ErrNotFound = errors.New("docstore: document not found")

// ErrInvalidField is returned when a filter or sort names a field that is not
// a plain top-level identifier.
var ErrInvalidField = errors.New("docstore: invalid field name")

// Filter selects documents whose top-level fields equal the given values.
// A nil or empty Filter matches every document in the collection.
type Filter map[string]any

// SortField orders results by one top-level field.
type SortField struct {
	Field string
	Desc  bool
}

// Asc sorts by field in ascending order.
func Asc(field string) SortField { return SortField{Field: field} }

// Desc sorts by field in descending order.
func Desc(field string) SortField { return SortField{Field: field, Desc: true} }

// FindOptions controls ordering and size of FindMany results. Without Sort,
// documents come back in insertion order. Limit <= 0 means no limit.
type FindOptions struct {
	Sort  []SortField
	Limit int
}

// Store is the generic collection API the repositories are built on.
type Store interface {
	// FindOne decodes the first matching document into dst.
	FindOne(ctx context.Context, collection string, filter Filter, dst any, sort ...SortField) error
	// FindMany decodes all matching documents into dst, a pointer to a slice.
	FindMany(ctx context.Context, collection string, filter Filter, opts FindOptions, dst any) error
	// Insert stores doc, which must encode to a JSON object.
	Insert(ctx context.Context, collection string, doc any) error
	// Update merges the top-level fields of patch into every matching
	// document and reports how many matched. With upsert and no match, a new
	// document built from filter and patch is inserted.
	Update(ctx context.Context, collection string, filter Filter, patch any, upsert bool) (int64, error)
	// Delete removes every matching document and reports how many were removed.
	Delete(ctx context.Context, collection string, filter Filter) (int64, error)
	// Count reports how many documents match.
	Count(ctx context.Context, collection string, filter Filter) (int64, error)
}
