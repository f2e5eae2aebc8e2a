// Package memstore is an in-memory persist.Store. Rows are copied on the way
// in and on the way out, so callers never share memory with the store.
package memstore

import (
	"context"
	"fmt"
	"maps"
	"reflect"
	"sync"

	"dto-services/persist"
)

type table struct {
	rows map[string]reflect.Value // canonical key -> *E
	seq  int64
}

func (t *table) clone() *table {
	return &table{rows: maps.Clone(t.rows), seq: t.seq}
}

// Store holds committed entities grouped by type.
type Store struct {
	keys *persist.Keys

	mu     sync.RWMutex
	tables map[reflect.Type]*table
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

// New creates an empty Store.
func New(opts ...Option) *Store {
	s := &Store{keys: persist.NewKeys(), tables: make(map[reflect.Type]*table)}
	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Keys returns how the store locates key properties.
func (s *Store) Keys() *persist.Keys {
	return s.keys
}

// Session opens a new unit of work.
func (s *Store) Session() persist.Context {
	return &session{Stage: persist.NewStage(s.keys), store: s}
}

type session struct {
	*persist.Stage

	store *Store
}

func (c *session) Find(ctx context.Context, t reflect.Type, key any) (any, bool, error) {
	if err := ctx.Err(); err != nil {
		return nil, false, err
	}

	c.store.mu.RLock()
	defer c.store.mu.RUnlock()

	tb, ok := c.store.tables[deref(t)]
	if !ok {
		return nil, false, nil
	}

	row, ok := tb.rows[persist.Canonical(key)]
	if !ok {
		return nil, false, nil
	}

	return persist.Clone(row).Interface(), true, nil
}

func (c *session) Count(ctx context.Context, t reflect.Type) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	c.store.mu.RLock()
	defer c.store.mu.RUnlock()

	if tb, ok := c.store.tables[deref(t)]; ok {
		return len(tb.rows), nil
	}

	return 0, nil
}

// Commit applies the staged changes to copies of the touched tables and
// swaps them in only when every change succeeded.
func (c *session) Commit(ctx context.Context) error {
	ops := c.Take()

	if err := ctx.Err(); err != nil {
		return err
	}

	c.store.mu.Lock()
	defer c.store.mu.Unlock()

	work := make(map[reflect.Type]*table)

	for _, op := range ops {
		tb, ok := work[op.Type()]
		if !ok {
			tb = c.store.table(op.Type()).clone()
			work[op.Type()] = tb
		}

		if err := apply(tb, op); err != nil {
			return fmt.Errorf("commit %s %s: %w", op.Kind, op.Type(), err)
		}
	}

	maps.Copy(c.store.tables, work)

	for _, op := range ops {
		if op.Kind == persist.OpAdd {
			op.WriteBack()
		}
	}

	return nil
}

func apply(tb *table, op persist.Op) error {
	key := op.Key()

	if op.Kind == persist.OpAdd && key.IsZero() {
		err := persist.Generate(key, func() (int64, error) {
			tb.seq++

			return tb.seq, nil
		})
		if err != nil {
			return err
		}
	}

	ck := persist.Canonical(key.Interface())
	_, exists := tb.rows[ck]

	switch op.Kind {
	case persist.OpAdd:
		if exists {
			return fmt.Errorf("key %s: %w", ck, persist.ErrConflict)
		}

		if persist.IsIntKey(key.Type()) {
			tb.seq = max(tb.seq, persist.IntKey(key))
		}

		tb.rows[ck] = op.Row

	case persist.OpUpdate:
		if !exists {
			return fmt.Errorf("key %s: %w", ck, persist.ErrMissing)
		}

		tb.rows[ck] = op.Row

	case persist.OpRemove:
		if !exists {
			return fmt.Errorf("key %s: %w", ck, persist.ErrMissing)
		}

		delete(tb.rows, ck)
	}

	return nil
}

// table returns the committed table of t, creating an empty one that is
// not yet stored.
func (s *Store) table(t reflect.Type) *table {
	if tb, ok := s.tables[t]; ok {
		return tb
	}

	return &table{rows: make(map[string]reflect.Value)}
}

func deref(t reflect.Type) reflect.Type {
	if t.Kind() == reflect.Pointer {
		return t.Elem()
	}

	return t
}
