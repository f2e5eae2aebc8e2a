package persist

import (
	"fmt"
	"reflect"

	"github.com/google/uuid"

	"dto-services/internal/shape"
)

var uuidType = reflect.TypeFor[uuid.UUID]()

// Keys locates the key property of entity types with the same rules the
// registry uses.
type Keys struct {
	inspector *shape.Inspector
}

// NewKeys creates a Keys. names replace shape.DefaultKeyNames when given.
func NewKeys(names ...string) *Keys {
	return &Keys{inspector: shape.NewInspector(shape.WithKeyNames(names...))}
}

// Index returns the field index of the key property of t.
func (k *Keys) Index(t reflect.Type) ([]int, error) {
	t = deref(t)

	s, err := k.inspector.InspectDto(t, t.Name())
	if err != nil {
		return nil, err
	}

	if s.Key == nil {
		return nil, fmt.Errorf("%s: %w", t, ErrNoKey)
	}

	return s.Key.Index, nil
}

// Of returns the key value of entity, which must be a pointer to a struct.
func (k *Keys) Of(entity any) (any, error) {
	v, err := entityValue(entity)
	if err != nil {
		return nil, err
	}

	idx, err := k.Index(v.Type())
	if err != nil {
		return nil, err
	}

	return v.Elem().FieldByIndex(idx).Interface(), nil
}

// Canonical returns the storage form of a key. Keys of different integer
// types with the same value are equal.
func Canonical(key any) string {
	v := reflect.ValueOf(key)
	for v.Kind() == reflect.Pointer && !v.IsNil() {
		v = v.Elem()
	}

	if !v.IsValid() {
		return ""
	}

	return fmt.Sprint(v.Interface())
}

// TypeName returns the storage name of an entity type.
func TypeName(t reflect.Type) string {
	t = deref(t)

	return t.PkgPath() + "." + t.Name()
}

// IsIntKey reports whether keys of type t come from a sequence.
func IsIntKey(t reflect.Type) bool {
	switch t.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return true
	default:
		return false
	}
}

// IntKey returns an integer key as int64.
func IntKey(key reflect.Value) int64 {
	if key.CanInt() {
		return key.Int()
	}

	return int64(key.Uint())
}

// Generate fills a zero key. Integer keys take the value returned by next;
// strings get a random UUID string and uuid.UUID keys a random UUID.
func Generate(key reflect.Value, next func() (int64, error)) error {
	switch {
	case IsIntKey(key.Type()):
		n, err := next()
		if err != nil {
			return err
		}

		if key.CanInt() {
			key.SetInt(n)
		} else {
			key.SetUint(uint64(n))
		}

	case key.Type() == uuidType:
		key.Set(reflect.ValueOf(uuid.New()))

	case key.Kind() == reflect.String:
		key.SetString(uuid.NewString())

	default:
		return fmt.Errorf("%s: %w", key.Type(), ErrKeyType)
	}

	return nil
}

// Clone returns a new pointer holding a shallow copy of the struct behind p.
func Clone(p reflect.Value) reflect.Value {
	c := reflect.New(p.Type().Elem())
	c.Elem().Set(p.Elem())

	return c
}

func entityValue(entity any) (reflect.Value, error) {
	v := reflect.ValueOf(entity)
	if v.Kind() != reflect.Pointer || v.IsNil() || v.Elem().Kind() != reflect.Struct {
		return reflect.Value{}, fmt.Errorf("%T: %w", entity, ErrNotEntity)
	}

	return v, nil
}

func deref(t reflect.Type) reflect.Type {
	if t.Kind() == reflect.Pointer {
		return t.Elem()
	}

	return t
}
