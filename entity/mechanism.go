package entity

import (
	"dto-services/internal/common"
)

// MechanismKind tells how a mechanism produces or changes an entity.
type MechanismKind int

const (
	MechanismDefault     MechanismKind = iota // zero value is a legal blank entity
	MechanismConstructor                      // func(params...) *E | E | (*E, error) | (E, error)
	MechanismFactory                          // func(params...) (*E, status.Status)
	MechanismUpdater                          // method on *E returning nothing, error or status.Status
)

// String returns a human-readable kind name.
func (k MechanismKind) String() string {
	switch k {
	case MechanismDefault:
		return "default"
	case MechanismConstructor:
		return "constructor"
	case MechanismFactory:
		return "factory"
	case MechanismUpdater:
		return "updater"
	default:
		return common.UnknownStr
	}
}

// Mechanism declares one way to build or change an entity. Go reflection
// cannot see parameter names, so they are listed explicitly in declaration
// order.
type Mechanism struct {
	Kind   MechanismKind
	Name   string
	Fn     any
	Params []string
}

// DefaultName is the name of the Default mechanism.
const DefaultName = "Default"

// Constructible is implemented by entities that declare their mechanisms.
// An entity that does not implement it has exactly one mechanism: Default.
// One that does is default-constructible only if it lists Default().
type Constructible interface {
	Construction() []Mechanism
}

// Default declares that the zero value of the entity is a legal blank entity.
func Default() Mechanism {
	return Mechanism{Kind: MechanismDefault, Name: DefaultName}
}

// Ctor declares a constructor function.
func Ctor(name string, fn any, params ...string) Mechanism {
	return Mechanism{Kind: MechanismConstructor, Name: name, Fn: fn, Params: params}
}

// Factory declares a static factory returning the entity and a status.
func Factory(name string, fn any, params ...string) Mechanism {
	return Mechanism{Kind: MechanismFactory, Name: name, Fn: fn, Params: params}
}

// Updater declares an exported method on *E that changes an existing entity.
func Updater(method string, params ...string) Mechanism {
	return Mechanism{Kind: MechanismUpdater, Name: method, Params: params}
}
