// Package docstore is a small JSON document store keyed by (collection, id)
// with a transactional read-modify-write primitive. Backends: in-memory,
// BadgerDB and PostgreSQL.
package docstore

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/goccy/go-json"
)

var (
	ErrNotFound = errors.New("document not found")
	// ErrConflict is returned by Transact when concurrent writers kept
	// invalidating the read until the retry limit or the context ran out.
	ErrConflict = errors.New("document transaction conflict")
)

const (
	DriverMemory   = "memory"
	DriverBadger   = "badger"
	DriverPostgres = "postgres"
)

type Document struct {
	ID   string
	Data []byte
}

// TxFunc receives the current document body (nil when it does not exist) and
// returns the body to store. Returning nil data writes nothing. TxFunc may
// run more than once and must not have side effects.
type TxFunc func(current []byte, exists bool) ([]byte, error)

type Store interface {
	Get(ctx context.Context, collection, id string) ([]byte, error)
	Put(ctx context.Context, collection, id string, data []byte) error
	// List returns every document in collection ordered by id.
	List(ctx context.Context, collection string) ([]Document, error)
	// Where returns documents whose top-level field equals value.
	Where(ctx context.Context, collection, field, value string) ([]Document, error)
	Transact(ctx context.Context, collection, id string, fn TxFunc) error
	Ping(ctx context.Context) error
	Close() error
}

// GetJSON decodes a document into v.
func GetJSON(ctx context.Context, s Store, collection, id string, v any) error {
	data, err := s.Get(ctx, collection, id)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("decode %s/%s: %w", collection, id, err)
	}
	return nil
}

// PutJSON encodes v and stores it.
func PutJSON(ctx context.Context, s Store, collection, id string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode %s/%s: %w", collection, id, err)
	}
	return s.Put(ctx, collection, id, data)
}

// fieldEquals reports whether data is a JSON object whose top-level field is
// the string value.
func fieldEquals(data []byte, field, value string) bool {
	var doc map[string]any
	if err := json.Unmarshal(data, &doc); err != nil {
		return false
	}
	s, ok := doc[field].(string)
	return ok && s == value
}

const maxConflictBackoff = 50 * time.Millisecond

// conflictBackoff sleeps a jittered delay before retry attempt n. The window
// doubles per attempt up to maxConflictBackoff.
func conflictBackoff(ctx context.Context, attempt int) error {
	window := maxConflictBackoff
	if attempt < 6 {
		window = min(time.Millisecond<<attempt, maxConflictBackoff)
	}
	d := time.Duration(rand.Int64N(int64(window))) + time.Millisecond
	select {
	case <-time.After(d):
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
