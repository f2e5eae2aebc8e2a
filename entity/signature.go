package entity

import (
	"errors"
	"fmt"
	"reflect"

	"dto-services/status"
)

var (
	ErrNotAFunction    = errors.New("mechanism is not a function")
	ErrBadSignature    = errors.New("mechanism has an unsupported signature")
	ErrArityMismatch   = errors.New("mechanism parameter names do not match its arity")
	ErrMissingMethod   = errors.New("updater method not found")
	ErrUnnamed         = errors.New("mechanism has no name")
	ErrDuplicateParams = errors.New("mechanism parameter names are not unique")
)

var (
	errorType  = reflect.TypeFor[error]()
	statusType = reflect.TypeFor[status.Status]()
)

// ResultShape describes what a mechanism returns.
type ResultShape int

const (
	ResultNone         ResultShape = iota // updater: no results
	ResultPointer                         // *E
	ResultValue                           // E
	ResultPointerError                    // (*E, error)
	ResultValueError                      // (E, error)
	ResultStatus                          // (*E, status.Status) or updater status.Status
	ResultError                           // updater: error
)

// Signature is a Mechanism validated against its entity type.
type Signature struct {
	Mechanism

	// In lists the parameter types in order.
	In []reflect.Type
	// Result is the shape of the results.
	Result ResultShape
	// Func is the callable constructor or factory (invalid for Default and
	// updaters).
	Func reflect.Value
	// Method is the updater method on *E.
	Method reflect.Method
}

// Builds reports whether calling the mechanism yields a new entity.
func (s Signature) Builds() bool {
	return s.Kind == MechanismConstructor || s.Kind == MechanismFactory
}

// Arity returns the number of parameters.
func (s Signature) Arity() int {
	return len(s.In)
}

// ParseSignature validates m against entity type e (a struct type, not a
// pointer).
//
// Supported constructor results:
//   - *E
//   - E
//   - (*E, error)
//   - (E, error)
//
// Factories must return (*E, status.Status). Updaters are methods on *E and
// return nothing, error, or status.Status.
func ParseSignature(e reflect.Type, m Mechanism) (Signature, error) {
	sig := Signature{Mechanism: m}

	if m.Name == "" {
		return sig, fmt.Errorf("%s %s: %w", e.Name(), m.Kind, ErrUnnamed)
	}

	if err := uniqueParams(m.Params); err != nil {
		return sig, fmt.Errorf("%s.%s: %w", e.Name(), m.Name, err)
	}

	switch m.Kind {
	case MechanismDefault:
		return sig, nil
	case MechanismUpdater:
		return parseUpdater(e, sig)
	case MechanismConstructor, MechanismFactory:
		return parseFunc(e, sig)
	default:
		return sig, fmt.Errorf("%s.%s: %w", e.Name(), m.Name, ErrBadSignature)
	}
}

func uniqueParams(params []string) error {
	seen := make(map[string]bool, len(params))
	for _, p := range params {
		if seen[p] {
			return fmt.Errorf("%q: %w", p, ErrDuplicateParams)
		}

		seen[p] = true
	}

	return nil
}

func parseFunc(e reflect.Type, sig Signature) (Signature, error) {
	name := e.Name() + "." + sig.Name

	if sig.Fn == nil {
		return sig, fmt.Errorf("%s: %w", name, ErrNotAFunction)
	}

	fnVal := reflect.ValueOf(sig.Fn)
	fnType := fnVal.Type()

	if fnType.Kind() != reflect.Func {
		return sig, fmt.Errorf("%s: %w", name, ErrNotAFunction)
	}

	if fnType.IsVariadic() || fnType.NumIn() != len(sig.Params) {
		return sig, fmt.Errorf("%s: %d names for %d parameters: %w",
			name, len(sig.Params), fnType.NumIn(), ErrArityMismatch)
	}

	ptr := reflect.PointerTo(e)

	switch fnType.NumOut() {
	default:
		return sig, fmt.Errorf("%s: %w", name, ErrBadSignature)

	case 1:
		switch fnType.Out(0) {
		case ptr:
			sig.Result = ResultPointer
		case e:
			sig.Result = ResultValue
		default:
			return sig, fmt.Errorf("%s: returns %s: %w", name, fnType.Out(0), ErrBadSignature)
		}

	case 2:
		first, last := fnType.Out(0), fnType.Out(1)

		switch {
		default:
			return sig, fmt.Errorf("%s: returns (%s, %s): %w", name, first, last, ErrBadSignature)
		case first == ptr && last == statusType:
			sig.Result = ResultStatus
		case first == ptr && last == errorType:
			sig.Result = ResultPointerError
		case first == e && last == errorType:
			sig.Result = ResultValueError
		}
	}

	if (sig.Kind == MechanismFactory) != (sig.Result == ResultStatus) {
		return sig, fmt.Errorf("%s: %s cannot return %s: %w",
			name, sig.Kind, describeResults(fnType), ErrBadSignature)
	}

	sig.Func = fnVal
	sig.In = inTypes(fnType, 0)

	return sig, nil
}

func parseUpdater(e reflect.Type, sig Signature) (Signature, error) {
	name := e.Name() + "." + sig.Name

	method, ok := reflect.PointerTo(e).MethodByName(sig.Name)
	if !ok {
		return sig, fmt.Errorf("%s: %w", name, ErrMissingMethod)
	}

	// method.Type includes the receiver as its first parameter.
	mt := method.Type
	if mt.IsVariadic() || mt.NumIn()-1 != len(sig.Params) {
		return sig, fmt.Errorf("%s: %d names for %d parameters: %w",
			name, len(sig.Params), mt.NumIn()-1, ErrArityMismatch)
	}

	switch {
	case mt.NumOut() == 0:
		sig.Result = ResultNone
	case mt.NumOut() == 1 && mt.Out(0) == errorType:
		sig.Result = ResultError
	case mt.NumOut() == 1 && mt.Out(0) == statusType:
		sig.Result = ResultStatus
	default:
		return sig, fmt.Errorf("%s: returns %s: %w", name, describeResults(mt), ErrBadSignature)
	}

	sig.Method = method
	sig.In = inTypes(mt, 1)

	return sig, nil
}

func inTypes(ft reflect.Type, from int) []reflect.Type {
	in := make([]reflect.Type, 0, ft.NumIn()-from)
	for i := from; i < ft.NumIn(); i++ {
		in = append(in, ft.In(i))
	}

	return in
}

func describeResults(ft reflect.Type) string {
	switch ft.NumOut() {
	case 0:
		return "nothing"
	case 1:
		return ft.Out(0).String()
	}

	out := "("
	for i := range ft.NumOut() {
		if i > 0 {
			out += ", "
		}

		out += ft.Out(i).String()
	}

	return out + ")"
}
