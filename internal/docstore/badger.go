package docstore

import (
	"context"
	"errors"
	"fmt"

	"github.com/dgraph-io/badger/v4"

	"artlog/internal/metrics"
)

// BadgerStore stores documents under "<collection>/<id>" keys. Transact
// relies on badger's serializable snapshot isolation: a commit whose read set
// was written concurrently fails with badger.ErrConflict and is retried.
type BadgerStore struct {
	db         *badger.DB
	maxRetries int
}

// OpenBadger opens (or creates) a database directory. An empty path opens an
// in-memory database.
func OpenBadger(path string, maxRetries int) (*BadgerStore, error) {
	opts := badger.DefaultOptions(path)
	if path == "" {
		opts = opts.WithInMemory(true)
	}
	opts.Logger = nil

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open badger db: %w", err)
	}
	return NewBadgerStore(db, maxRetries), nil
}

func NewBadgerStore(db *badger.DB, maxRetries int) *BadgerStore {
	return &BadgerStore{db: db, maxRetries: maxRetries}
}

func (s *BadgerStore) Get(_ context.Context, collection, id string) ([]byte, error) {
	var data []byte
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(key(collection, id)))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return ErrNotFound
		}
		if err != nil {
			return fmt.Errorf("get %s/%s: %w", collection, id, err)
		}
		data, err = item.ValueCopy(nil)
		return err
	})
	return data, err
}

func (s *BadgerStore) Put(_ context.Context, collection, id string, data []byte) error {
	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(key(collection, id)), data)
	})
}

func (s *BadgerStore) List(ctx context.Context, collection string) ([]Document, error) {
	return s.Where(ctx, collection, "", "")
}

func (s *BadgerStore) Where(_ context.Context, collection, field, value string) ([]Document, error) {
	prefix := []byte(collection + "/")
	out := []Document{}

	err := s.db.View(func(txn *badger.Txn) error {
		it := txn.NewIterator(badger.DefaultIteratorOptions)
		defer it.Close()

		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			item := it.Item()
			data, err := item.ValueCopy(nil)
			if err != nil {
				return err
			}
			if field != "" && !fieldEquals(data, field, value) {
				continue
			}
			out = append(out, Document{ID: string(item.Key()[len(prefix):]), Data: data})
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("scan %s: %w", collection, err)
	}
	return out, nil
}

func (s *BadgerStore) Transact(ctx context.Context, collection, id string, fn TxFunc) error {
	k := []byte(key(collection, id))
	for attempt := 0; s.maxRetries <= 0 || attempt <= s.maxRetries; attempt++ {
		if attempt > 0 {
			if err := conflictBackoff(ctx, attempt); err != nil {
				return fmt.Errorf("%w: %s/%s: %w", ErrConflict, collection, id, err)
			}
		}

		err := s.db.Update(func(txn *badger.Txn) error {
			var (
				current []byte
				exists  bool
			)
			item, err := txn.Get(k)
			switch {
			case errors.Is(err, badger.ErrKeyNotFound):
			case err != nil:
				return err
			default:
				exists = true
				if current, err = item.ValueCopy(nil); err != nil {
					return err
				}
			}

			next, err := fn(current, exists)
			if err != nil || next == nil {
				return err
			}
			return txn.Set(k, next)
		})
		if errors.Is(err, badger.ErrConflict) {
			metrics.DocstoreConflicts.WithLabelValues(DriverBadger).Inc()
			continue
		}
		return err
	}
	return fmt.Errorf("%w: %s/%s after %d retries", ErrConflict, collection, id, s.maxRetries)
}

func (s *BadgerStore) Ping(context.Context) error {
	if s.db.IsClosed() {
		return errors.New("badger db is closed")
	}
	return nil
}

func (s *BadgerStore) Close() error {
	return s.db.Close()
}
