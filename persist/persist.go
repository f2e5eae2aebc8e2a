package persist

import (
	"context"
	"errors"
	"reflect"
)

var (
	ErrConflict  = errors.New("entity with this key already exists")
	ErrMissing   = errors.New("entity with this key does not exist")
	ErrNoKey     = errors.New("entity type has no key property")
	ErrKeyType   = errors.New("key type cannot be generated")
	ErrNotEntity = errors.New("entity must be a non-nil pointer to a struct")
)

// Context is a persistence unit of work. Entities are passed and returned as
// pointers to structs.
type Context interface {
	// Find returns a copy of the committed entity of type t with key, or false
	// when there is none. t may be E or *E.
	Find(ctx context.Context, t reflect.Type, key any) (any, bool, error)
	// Add stages a new entity. A zero key is generated at Commit and written
	// back into entity.
	Add(entity any) error
	// Update stages the replacement of the stored entity with the same key.
	Update(entity any) error
	// Remove stages the deletion of the stored entity with the same key.
	Remove(entity any) error
	// Commit applies every staged change atomically and clears the stage,
	// whether it succeeds or not.
	Commit(ctx context.Context) error
	// Count returns the number of committed entities of type t.
	Count(ctx context.Context, t reflect.Type) (int, error)
}

// Store hands out independent contexts over the same data.
type Store interface {
	Session() Context
}
