package services

import (
	"fmt"
	"reflect"

	"dto-services/persist"
	"dto-services/registry"
)

// KeyedStore is a persist.Store that exposes how it locates entity keys.
// memstore.Store and sqlstore.Store implement it.
type KeyedStore interface {
	persist.Store
	Keys() *persist.Keys
}

// SetupSingleDto registers D in a fresh registry and builds its Service. The
// error carries every registration failure.
//
// Key names given with registry.WithKeyNames must also be given to the store
// through persist.NewKeys. For a KeyedStore the entity key is checked up
// front and a disagreement is reported here instead of at the first Create.
func SetupSingleDto[D any](store persist.Store, opts ...registry.Option) (*Service[D], *registry.Registry, error) {
	reg := registry.New(opts...)

	if st := reg.Register(reflect.TypeFor[D]()); !st.IsValid() {
		return nil, reg, st.Err()
	}

	svc, err := New[D](reg, store)
	if err != nil {
		return nil, reg, err
	}

	if ks, ok := store.(KeyedStore); ok && svc.link.Entity.Shape.Key != nil {
		if _, err := ks.Keys().Index(svc.entityType); err != nil {
			return nil, reg, fmt.Errorf("store does not find the %s key %s: %w",
				svc.link.Entity.Shape.Name, svc.link.Entity.Shape.Key.Name, err)
		}
	}

	return svc, reg, nil
}
