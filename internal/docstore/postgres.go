package docstore

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresStore keeps documents in the documents table (see
// db/migrations). Transact takes a row lock, so it never conflicts.
type PostgresStore struct {
	db *pgxpool.Pool
}

func NewPostgresStore(db *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{db: db}
}

// OpenPostgres connects and pings the database.
func OpenPostgres(ctx context.Context, dsn string) (*PostgresStore, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("connect postgres: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}
	return NewPostgresStore(pool), nil
}

func (s *PostgresStore) Get(ctx context.Context, collection, id string) ([]byte, error) {
	const query = `
	SELECT data FROM documents
	WHERE collection = $1 AND id = $2 AND data IS NOT NULL
	`
	var data []byte
	if err := s.db.QueryRow(ctx, query, collection, id).Scan(&data); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get %s/%s: %w", collection, id, err)
	}
	return data, nil
}

func (s *PostgresStore) Put(ctx context.Context, collection, id string, data []byte) error {
	const query = `
	INSERT INTO documents (collection, id, data, version, updated_at)
	VALUES ($1, $2, $3, 1, now())
	ON CONFLICT (collection, id)
	DO UPDATE SET data = excluded.data, version = documents.version + 1, updated_at = now()
	`
	_, err := s.db.Exec(ctx, query, collection, id, data)
	return err
}

func (s *PostgresStore) List(ctx context.Context, collection string) ([]Document, error) {
	const query = `
	SELECT id, data FROM documents
	WHERE collection = $1 AND data IS NOT NULL
	ORDER BY id
	`
	return s.query(ctx, query, collection)
}

func (s *PostgresStore) Where(ctx context.Context, collection, field, value string) ([]Document, error) {
	const query = `
	SELECT id, data FROM documents
	WHERE collection = $1 AND data ->> $2::text = $3
	ORDER BY id
	`
	return s.query(ctx, query, collection, field, value)
}

func (s *PostgresStore) query(ctx context.Context, query string, args ...any) ([]Document, error) {
	rows, err := s.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	docs := []Document{}
	for rows.Next() {
		var d Document
		if err := rows.Scan(&d.ID, &d.Data); err != nil {
			return nil, err
		}
		docs = append(docs, d)
	}
	return docs, rows.Err()
}

// Transact inserts an empty placeholder row when the document is missing so
// that SELECT ... FOR UPDATE always has a row to lock. The placeholder is
// rolled back if fn writes nothing.
func (s *PostgresStore) Transact(ctx context.Context, collection, id string, fn TxFunc) error {
	tx, err := s.db.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	const ensure = `
	INSERT INTO documents (collection, id, data, version, updated_at)
	VALUES ($1, $2, NULL, 0, now())
	ON CONFLICT (collection, id) DO NOTHING
	`
	if _, err := tx.Exec(ctx, ensure, collection, id); err != nil {
		return fmt.Errorf("ensure %s/%s: %w", collection, id, err)
	}

	const lock = `SELECT data FROM documents WHERE collection = $1 AND id = $2 FOR UPDATE`
	var current []byte
	if err := tx.QueryRow(ctx, lock, collection, id).Scan(&current); err != nil {
		return fmt.Errorf("lock %s/%s: %w", collection, id, err)
	}

	next, err := fn(current, current != nil)
	if err != nil || next == nil {
		return err
	}

	const update = `
	UPDATE documents SET data = $3, version = version + 1, updated_at = now()
	WHERE collection = $1 AND id = $2
	`
	if _, err := tx.Exec(ctx, update, collection, id, next); err != nil {
		return fmt.Errorf("update %s/%s: %w", collection, id, err)
	}
	return tx.Commit(ctx)
}

func (s *PostgresStore) Ping(ctx context.Context) error {
	return s.db.Ping(ctx)
}

func (s *PostgresStore) Close() error {
	s.db.Close()
	return nil
}
