// Package sqlstore is a persist.Store backed by SQLite. Every entity is one
// row of the entities table holding its JSON encoding, so only exported
// fields survive a round trip.
package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"reflect"

	"github.com/goccy/go-json"
	_ "modernc.org/sqlite"

	"dto-services/persist"
)

// MemoryDSN opens a private in-memory database.
const MemoryDSN = ":memory:"

// Store persists entities in a SQLite database.
type Store struct {
	db   *sql.DB
	keys *persist.Keys
}

// Option configures a Store.
type Option func(*Store)

// WithKeys sets how key properties are located.
func WithKeys(k *persist.Keys) Option {
	return func(s *Store) {
		if k != nil {
			s.keys = k
		}
	}
}

// Open opens the database at dsn and runs the migrations.
func Open(ctx context.Context, dsn string, opts ...Option) (*Store, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite database: %w", err)
	}

	// Every connection to :memory: is a separate database.
	if dsn == MemoryDSN {
		db.SetMaxOpenConns(1)
	}

	if err := db.PingContext(ctx); err != nil {
		db.Close()

		return nil, fmt.Errorf("failed to ping sqlite database: %w", err)
	}

	if err := Migrate(ctx, db); err != nil {
		db.Close()

		return nil, err
	}

	return New(db, opts...), nil
}

// New wraps an open, migrated database.
func New(db *sql.DB, opts ...Option) *Store {
	s := &Store{db: db, keys: persist.NewKeys()}
	for _, opt := range opts {
		opt(s)
	}

	return s
}

// DB returns the underlying database.
func (s *Store) DB() *sql.DB {
	return s.db
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

// Keys returns how the store locates key properties.
func (s *Store) Keys() *persist.Keys {
	return s.keys
}

// Session opens a new unit of work.
func (s *Store) Session() persist.Context {
	return &session{Stage: persist.NewStage(s.keys), db: s.db}
}

type session struct {
	*persist.Stage

	db *sql.DB
}

func (c *session) Find(ctx context.Context, t reflect.Type, key any) (any, bool, error) {
	t = deref(t)

	var body []byte

	err := c.db.QueryRowContext(ctx,
		`SELECT body FROM entities WHERE entity_type = ? AND entity_key = ?`,
		persist.TypeName(t), persist.Canonical(key),
	).Scan(&body)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}

	if err != nil {
		return nil, false, fmt.Errorf("failed to find %s: %w", t, err)
	}

	out := reflect.New(t)
	if err := json.Unmarshal(body, out.Interface()); err != nil {
		return nil, false, fmt.Errorf("failed to decode %s: %w", t, err)
	}

	return out.Interface(), true, nil
}

func (c *session) Count(ctx context.Context, t reflect.Type) (int, error) {
	var n int

	err := c.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM entities WHERE entity_type = ?`, persist.TypeName(t),
	).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("failed to count %s: %w", deref(t), err)
	}

	return n, nil
}

// Commit applies the staged changes in a single transaction.
func (c *session) Commit(ctx context.Context) error {
	ops := c.Take()
	if len(ops) == 0 {
		return nil
	}

	tx, err := c.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	for _, op := range ops {
		if err := apply(ctx, tx, op); err != nil {
			_ = tx.Rollback()

			return fmt.Errorf("commit %s %s: %w", op.Kind, op.Type(), err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	for _, op := range ops {
		if op.Kind == persist.OpAdd {
			op.WriteBack()
		}
	}

	return nil
}

func apply(ctx context.Context, tx *sql.Tx, op persist.Op) error {
	typeName := persist.TypeName(op.Type())
	key := op.Key()

	if op.Kind == persist.OpAdd {
		if err := prepareKey(ctx, tx, typeName, key); err != nil {
			return err
		}
	}

	ck := persist.Canonical(key.Interface())

	var (
		res sql.Result
		err error
	)

	switch op.Kind {
	case persist.OpAdd:
		body, encErr := json.Marshal(op.Row.Interface())
		if encErr != nil {
			return fmt.Errorf("failed to encode entity: %w", encErr)
		}

		res, err = tx.ExecContext(ctx,
			`INSERT INTO entities (entity_type, entity_key, body) VALUES (?, ?, ?)
			 ON CONFLICT (entity_type, entity_key) DO NOTHING`,
			typeName, ck, body)

	case persist.OpUpdate:
		body, encErr := json.Marshal(op.Row.Interface())
		if encErr != nil {
			return fmt.Errorf("failed to encode entity: %w", encErr)
		}

		res, err = tx.ExecContext(ctx,
			`UPDATE entities SET body = ?, updated_at = CURRENT_TIMESTAMP
			 WHERE entity_type = ? AND entity_key = ?`,
			body, typeName, ck)

	case persist.OpRemove:
		res, err = tx.ExecContext(ctx,
			`DELETE FROM entities WHERE entity_type = ? AND entity_key = ?`,
			typeName, ck)
	}

	if err != nil {
		return err
	}

	n, err := res.RowsAffected()
	if err != nil {
		return err
	}

	if n == 0 {
		if op.Kind == persist.OpAdd {
			return fmt.Errorf("key %s: %w", ck, persist.ErrConflict)
		}

		return fmt.Errorf("key %s: %w", ck, persist.ErrMissing)
	}

	return nil
}

// prepareKey generates a zero key, and keeps the integer sequence of the type
// ahead of explicit keys.
func prepareKey(ctx context.Context, tx *sql.Tx, typeName string, key reflect.Value) error {
	if key.IsZero() {
		return persist.Generate(key, func() (int64, error) {
			var n int64

			err := tx.QueryRowContext(ctx,
				`INSERT INTO key_sequences (entity_type, last_value) VALUES (?, 1)
				 ON CONFLICT (entity_type) DO UPDATE SET last_value = last_value + 1
				 RETURNING last_value`,
				typeName,
			).Scan(&n)
			if err != nil {
				return 0, fmt.Errorf("failed to advance key sequence: %w", err)
			}

			return n, nil
		})
	}

	if !persist.IsIntKey(key.Type()) {
		return nil
	}

	_, err := tx.ExecContext(ctx,
		`INSERT INTO key_sequences (entity_type, last_value) VALUES (?, ?)
		 ON CONFLICT (entity_type) DO UPDATE SET last_value = max(last_value, excluded.last_value)`,
		typeName, persist.IntKey(key))
	if err != nil {
		return fmt.Errorf("failed to advance key sequence: %w", err)
	}

	return nil
}

func deref(t reflect.Type) reflect.Type {
	if t.Kind() == reflect.Pointer {
		return t.Elem()
	}

	return t
}
