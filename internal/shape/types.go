package shape

import (
	"reflect"

	"dto-services/entity"
	"dto-services/internal/match"
)

// Property is one mapping-eligible field of a struct.
type Property struct {
	Name  string
	Type  reflect.Type
	Index []int // reflect.Value.FieldByIndex path, promoted fields included
	Tag   entity.Tag

	// Key marks the property managed by the persistence context.
	Key bool
	// Settable is false for the key and for fields tagged `crud:"readonly"`.
	Settable bool
}

// Shape describes a struct type. It is never modified after inspection.
type Shape struct {
	Type       reflect.Type
	Name       string
	Properties []Property
	Mechanisms []entity.Signature
	Key        *Property
}

// Property finds a property by name under the given matching mode.
func (s *Shape) Property(name string, mode match.NameMode) (*Property, bool) {
	for i := range s.Properties {
		if mode.Same(s.Properties[i].Name, name) {
			return &s.Properties[i], true
		}
	}

	return nil, false
}

// SettableProperties returns the settable non-key properties in declaration order.
func (s *Shape) SettableProperties() []Property {
	var out []Property

	for _, p := range s.Properties {
		if p.Settable {
			out = append(out, p)
		}
	}

	return out
}

// HasDefault reports whether the zero value is a legal blank entity.
func (s *Shape) HasDefault() bool {
	for _, m := range s.Mechanisms {
		if m.Kind == entity.MechanismDefault {
			return true
		}
	}

	return false
}

// Mechanism finds a mechanism by exact name.
func (s *Shape) Mechanism(name string) (*entity.Signature, bool) {
	for i := range s.Mechanisms {
		if s.Mechanisms[i].Name == name {
			return &s.Mechanisms[i], true
		}
	}

	return nil, false
}

// MechanismsOf returns the mechanisms of kind k in declaration order.
func (s *Shape) MechanismsOf(k entity.MechanismKind) []entity.Signature {
	var out []entity.Signature

	for _, m := range s.Mechanisms {
		if m.Kind == k {
			out = append(out, m)
		}
	}

	return out
}

// PropertyNames lists property names in declaration order.
func (s *Shape) PropertyNames() []string {
	names := make([]string, 0, len(s.Properties))
	for _, p := range s.Properties {
		names = append(names, p.Name)
	}

	return names
}
