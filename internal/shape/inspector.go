package shape

import (
	"fmt"
	"reflect"
	"strings"
	"sync"

	"dto-services/entity"
	"dto-services/status"
)

// DefaultKeyNames are matched case-insensitively when no field is tagged
// `crud:"key"`. "{Entity}" is replaced by the entity type name.
var DefaultKeyNames = []string{"ID", "{Entity}ID"}

var constructibleType = reflect.TypeFor[entity.Constructible]()

type cached struct {
	shape *Shape
	err   error
}

// Inspector builds shapes. Results, failures included, are cached per type
// for the lifetime of the Inspector.
type Inspector struct {
	keyNames []string
	entities sync.Map // reflect.Type -> cached
	dtos     sync.Map // reflect.Type -> cached
}

// Option configures an Inspector.
type Option func(*Inspector)

// WithKeyNames replaces DefaultKeyNames.
func WithKeyNames(names ...string) Option {
	return func(i *Inspector) {
		if len(names) > 0 {
			i.keyNames = names
		}
	}
}

// NewInspector creates an Inspector.
func NewInspector(opts ...Option) *Inspector {
	i := &Inspector{keyNames: DefaultKeyNames}
	for _, opt := range opts {
		opt(i)
	}

	return i
}

// Inspect describes an entity type. t may be E or *E. It fails with a
// status.KindShape error when t is not a struct, has no public properties, or
// declares an invalid mechanism.
func (i *Inspector) Inspect(t reflect.Type) (*Shape, error) {
	t = deref(t)

	if c, ok := i.entities.Load(t); ok {
		return c.(cached).shape, c.(cached).err
	}

	s, err := i.inspectEntity(t)
	c, _ := i.entities.LoadOrStore(t, cached{shape: s, err: err})

	return c.(cached).shape, c.(cached).err
}

// InspectDto describes a DTO type linked to the entity named entityName (used
// for key detection). The Link marker is not a property. A DTO may have no
// properties at all.
func (i *Inspector) InspectDto(t reflect.Type, entityName string) (*Shape, error) {
	t = deref(t)

	if c, ok := i.dtos.Load(t); ok {
		return c.(cached).shape, c.(cached).err
	}

	var (
		s   *Shape
		err error
	)

	if t.Kind() != reflect.Struct {
		err = notStruct(t)
	} else {
		s = &Shape{Type: t, Name: t.Name(), Properties: i.properties(t, entityName)}
		s.Key = keyOf(s.Properties)
	}

	c, _ := i.dtos.LoadOrStore(t, cached{shape: s, err: err})

	return c.(cached).shape, c.(cached).err
}

func (i *Inspector) inspectEntity(t reflect.Type) (*Shape, error) {
	if t.Kind() != reflect.Struct {
		return nil, notStruct(t)
	}

	s := &Shape{Type: t, Name: t.Name()}
	s.Properties = i.properties(t, t.Name())

	if len(s.Properties) == 0 {
		return nil, status.NewError(status.KindShape, status.CodeNoProperties,
			"entity has no public properties").On(t.Name(), "")
	}

	s.Key = keyOf(s.Properties)

	mechs, err := mechanisms(t)
	if err != nil {
		return nil, err
	}

	s.Mechanisms = mechs

	return s, nil
}

func notStruct(t reflect.Type) error {
	return status.NewError(status.KindShape, status.CodeNotStruct,
		fmt.Sprintf("%s is not a struct type", t)).On(t.Name(), "")
}

func deref(t reflect.Type) reflect.Type {
	if t.Kind() == reflect.Pointer {
		return t.Elem()
	}

	return t
}

// properties enumerates mapping-eligible fields in declaration order and
// marks the key.
func (i *Inspector) properties(t reflect.Type, entityName string) []Property {
	var props []Property

	for _, f := range reflect.VisibleFields(t) {
		if !eligible(t, f) {
			continue
		}

		tag := entity.ParseTag(f.Tag)
		props = append(props, Property{
			Name:     f.Name,
			Type:     f.Type,
			Index:    f.Index,
			Tag:      tag,
			Key:      tag.Key,
			Settable: !tag.ReadOnly && !tag.Key,
		})
	}

	if keyOf(props) != nil {
		return props
	}

	for _, name := range i.keyNames {
		name = strings.ReplaceAll(name, "{Entity}", entityName)

		for j := range props {
			if strings.EqualFold(props[j].Name, name) {
				props[j].Key = true
				props[j].Settable = false

				return props
			}
		}
	}

	return props
}

func keyOf(props []Property) *Property {
	for j := range props {
		if props[j].Key {
			return &props[j]
		}
	}

	return nil
}

func eligible(t reflect.Type, f reflect.StructField) bool {
	if !f.IsExported() || f.Anonymous {
		return false
	}

	if entity.ParseTag(f.Tag).Skip {
		return false
	}

	switch f.Type.Kind() {
	case reflect.Func, reflect.Chan, reflect.Interface, reflect.UnsafePointer:
		return false
	}

	return reachable(t, f.Index)
}

// reachable rejects promoted fields behind an unexported embedded pointer,
// which reflection cannot allocate.
func reachable(t reflect.Type, index []int) bool {
	for _, x := range index[:len(index)-1] {
		f := t.Field(x)
		if f.Type.Kind() == reflect.Pointer {
			if !f.IsExported() {
				return false
			}

			t = f.Type.Elem()

			continue
		}

		t = f.Type
	}

	return true
}

// mechanisms collects and validates the declared mechanisms of t.
func mechanisms(t reflect.Type) ([]entity.Signature, error) {
	if !reflect.PointerTo(t).Implements(constructibleType) {
		return []entity.Signature{{Mechanism: entity.Default()}}, nil
	}

	declared := reflect.New(t).Interface().(entity.Constructible).Construction()

	sigs := make([]entity.Signature, 0, len(declared))
	seen := make(map[string]bool, len(declared))

	for _, m := range declared {
		if seen[m.Name] {
			return nil, status.NewError(status.KindShape, status.CodeBadMechanism,
				fmt.Sprintf("mechanism %q declared more than once", m.Name)).On(t.Name(), "")
		}

		seen[m.Name] = true

		sig, err := entity.ParseSignature(t, m)
		if err != nil {
			return nil, status.NewError(status.KindShape, status.CodeBadMechanism, err.Error()).On(t.Name(), "")
		}

		sigs = append(sigs, sig)
	}

	return sigs, nil
}
