package style

import (
	"fmt"
	"reflect"
	"strings"

	"dto-services/entity"
	"dto-services/internal/common"
	"dto-services/internal/match"
	"dto-services/internal/shape"
	"dto-services/status"
)

// Decision is the outcome of Decode.
type Decision struct {
	Style Style
	// Mechanism is the constructor or factory for DDD styles, nil otherwise.
	Mechanism *entity.Signature
}

// Options tune Decode.
type Options struct {
	// Names selects how parameter names are matched to DTO properties.
	Names match.NameMode
	// Create names the mechanism the DTO asked for explicitly (empty for none).
	Create string
}

// Decode classifies an entity for a DTO. Checked in order, first match wins:
//
//  1. one static factory whose parameters all match DTO properties
//  2. one constructor whose parameters all match DTO properties
//  3. default-constructible with at least one settable non-key property
//  4. exactly one declared constructor or factory, matched or not
//  5. no settable non-key property and no constructor or factory: ReadOnly
//
// Several matching factories, several matching constructors, or a matching
// factory next to a matching constructor is ambiguous and fails unless the DTO
// names the mechanism. So does a DTO matching none of several declared
// constructors and factories.
func Decode(ent, dto *shape.Shape, opts Options) (Decision, error) {
	if opts.Create != "" {
		return decodeNamed(ent, dto, opts)
	}

	factories := matching(ent.MechanismsOf(entity.MechanismFactory), dto, opts.Names)
	ctors := matching(ent.MechanismsOf(entity.MechanismConstructor), dto, opts.Names)

	switch {
	case common.IsMultiple(factories):
		return Decision{}, classification(ent, status.CodeAmbiguousFactory,
			"more than one static factory matches the DTO: "+names(factories))

	case common.IsSingle(factories) && !common.IsEmpty(ctors):
		return Decision{}, classification(ent, status.CodeAmbiguousMechanism,
			"both a static factory and a constructor match the DTO: "+names(append(factories, ctors...))+
				"; name one with `crud:\"create=<Name>\"` on the link")

	case common.IsSingle(factories):
		return Decision{Style: DDDStaticFactory, Mechanism: &factories[0]}, nil

	case common.IsMultiple(ctors):
		return Decision{}, classification(ent, status.CodeAmbiguousConstructor,
			"more than one constructor matches the DTO: "+names(ctors))

	case common.IsSingle(ctors):
		return Decision{Style: DDDConstructor, Mechanism: &ctors[0]}, nil
	}

	return decodeCopy(ent)
}

func decodeCopy(ent *shape.Shape) (Decision, error) {
	settable := ent.SettableProperties()
	builders := append(ent.MechanismsOf(entity.MechanismFactory), ent.MechanismsOf(entity.MechanismConstructor)...)

	switch {
	case ent.HasDefault() && !common.IsEmpty(settable):
		return Decision{Style: Standard}, nil
	case common.IsSingle(builders):
		return builderDecision(&builders[0]), nil
	case common.IsMultiple(builders):
		return Decision{}, classification(ent, status.CodeNoStrategy,
			"no constructor or static factory matches the DTO: "+names(builders)+
				"; name one with `crud:\"create=<Name>\"` on the link")
	case common.IsEmpty(settable):
		return Decision{Style: ReadOnly}, nil
	default:
		return Decision{}, classification(ent, status.CodeNoStrategy, "no viable construction strategy")
	}
}

func builderDecision(m *entity.Signature) Decision {
	if m.Kind == entity.MechanismFactory {
		return Decision{Style: DDDStaticFactory, Mechanism: m}
	}

	return Decision{Style: DDDConstructor, Mechanism: m}
}

func decodeNamed(ent, dto *shape.Shape, opts Options) (Decision, error) {
	m, ok := ent.Mechanism(opts.Create)
	if !ok {
		return Decision{}, classification(ent, status.CodeUnknownMechanism,
			fmt.Sprintf("mechanism %q is not declared", opts.Create))
	}

	switch m.Kind {
	case entity.MechanismDefault:
		if common.IsEmpty(ent.SettableProperties()) {
			return Decision{}, classification(ent, status.CodeNoStrategy,
				fmt.Sprintf("mechanism %q has no settable property to copy", m.Name))
		}

		return Decision{Style: Standard}, nil
	case entity.MechanismUpdater:
		return Decision{}, classification(ent, status.CodeMechanismMismatch,
			fmt.Sprintf("mechanism %q is an updater and cannot create", m.Name))
	}

	if _, missing := Unmatched(*m, dto, opts.Names); missing != "" {
		return Decision{}, classification(ent, status.CodeMechanismMismatch,
			fmt.Sprintf("mechanism %q parameter %q has no compatible DTO property", m.Name, missing))
	}

	return builderDecision(m), nil
}

// Matches reports whether every parameter of m has a same-named,
// type-compatible DTO property.
func Matches(m entity.Signature, dto *shape.Shape, mode match.NameMode) bool {
	_, missing := Unmatched(m, dto, mode)

	return missing == ""
}

// Unmatched returns the index and name of the first parameter of m with no
// compatible DTO property, or -1 and "" when all match.
func Unmatched(m entity.Signature, dto *shape.Shape, mode match.NameMode) (int, string) {
	for i, param := range m.Params {
		if !paramMatches(param, m.In[i], dto, mode) {
			return i, param
		}
	}

	return -1, ""
}

func paramMatches(name string, typ reflect.Type, dto *shape.Shape, mode match.NameMode) bool {
	prop, ok := dto.Property(name, mode)
	if !ok {
		return false
	}

	return match.ScoreReflectCompatibility(prop.Type, typ).Compatibility.Compatible()
}

func matching(mechs []entity.Signature, dto *shape.Shape, mode match.NameMode) []entity.Signature {
	var out []entity.Signature

	for _, m := range mechs {
		if Matches(m, dto, mode) {
			out = append(out, m)
		}
	}

	return out
}

func names(mechs []entity.Signature) string {
	out := make([]string, 0, len(mechs))
	for _, m := range mechs {
		out = append(out, m.Name)
	}

	return strings.Join(out, ", ")
}

func classification(ent *shape.Shape, code, msg string) error {
	return status.NewError(status.KindClassification, code, msg).On(ent.Name, "")
}
