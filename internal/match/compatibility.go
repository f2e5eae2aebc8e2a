package match

import (
	"go/types"
	"reflect"

	"dto-services/internal/common"
)

// TypeCompatibility represents the level of compatibility between two types.
// Higher values are better.
type TypeCompatibility int

const (
	// TypeIncompatible means no value of the source can become a target value.
	TypeIncompatible TypeCompatibility = iota
	// TypeNeedsTransform means a pointer must be dereferenced or taken.
	TypeNeedsTransform
	// TypeConvertible means a Go conversion is required.
	TypeConvertible
	// TypeAssignable means the source can be assigned directly.
	TypeAssignable
	// TypeIdentical means the types are the same.
	TypeIdentical
)

const (
	VerdictIdentical      = "identical"
	VerdictAssignable     = "assignable"
	VerdictConvertible    = "convertible"
	VerdictNeedsTransform = "needs_transform"
	VerdictIncompatible   = "incompatible"
)

// String returns a human-readable name for the compatibility level.
func (c TypeCompatibility) String() string {
	switch c {
	case TypeIdentical:
		return VerdictIdentical
	case TypeAssignable:
		return VerdictAssignable
	case TypeConvertible:
		return VerdictConvertible
	case TypeNeedsTransform:
		return VerdictNeedsTransform
	case TypeIncompatible:
		return VerdictIncompatible
	default:
		return common.UnknownStr
	}
}

// Compatible reports whether a value can be moved at all.
func (c TypeCompatibility) Compatible() bool {
	return c > TypeIncompatible
}

// PointerOp is the pointer adjustment a NeedsTransform verdict requires.
type PointerOp int

const (
	PointerNone  PointerOp = iota
	PointerDeref           // *T -> T
	PointerWrap            // T -> *T
)

// TypeCompatibilityResult contains detailed information about type compatibility.
type TypeCompatibilityResult struct {
	Compatibility TypeCompatibility
	Pointer       PointerOp
	Reason        string // Human-readable explanation
	SourceType    string
	TargetType    string
}

// ScoreReflectCompatibility walks the compatibility ladder for runtime types:
// identical, assignable, convertible, then a single pointer dereference or
// address-of around a convertible pair.
func ScoreReflectCompatibility(source, target reflect.Type) TypeCompatibilityResult {
	res := TypeCompatibilityResult{SourceType: source.String(), TargetType: target.String()}

	switch {
	case source == target:
		res.Compatibility, res.Reason = TypeIdentical, "types are identical"
	case source.AssignableTo(target):
		res.Compatibility, res.Reason = TypeAssignable, "source is assignable to target"
	case safeConvertible(source, target):
		res.Compatibility, res.Reason = TypeConvertible, "source is convertible to target"
	case source.Kind() == reflect.Pointer && reflectDirect(source.Elem(), target):
		res.Compatibility, res.Pointer, res.Reason = TypeNeedsTransform, PointerDeref, "requires pointer dereference"
	case target.Kind() == reflect.Pointer && reflectDirect(source, target.Elem()):
		res.Compatibility, res.Pointer, res.Reason = TypeNeedsTransform, PointerWrap, "requires taking address"
	default:
		res.Compatibility, res.Reason = TypeIncompatible, "types are not compatible"
	}

	return res
}

func reflectDirect(source, target reflect.Type) bool {
	return source.AssignableTo(target) || safeConvertible(source, target)
}

// safeConvertible is reflect.ConvertibleTo minus the conversions that change
// meaning or can panic: integer to string (yields a rune) and slice to array.
func safeConvertible(source, target reflect.Type) bool {
	if !source.ConvertibleTo(target) {
		return false
	}

	if isInteger(source.Kind()) && target.Kind() == reflect.String {
		return false
	}

	if source.Kind() == reflect.Slice &&
		(target.Kind() == reflect.Array ||
			(target.Kind() == reflect.Pointer && target.Elem().Kind() == reflect.Array)) {
		return false
	}

	return true
}

func isInteger(k reflect.Kind) bool {
	return k >= reflect.Int && k <= reflect.Uintptr
}

// ScoreTypeCompatibility applies the same ladder to go/types, for source
// analysis where no runtime type exists.
func ScoreTypeCompatibility(source, target types.Type) TypeCompatibilityResult {
	res := TypeCompatibilityResult{SourceType: source.String(), TargetType: target.String()}

	direct := func(s, t types.Type) bool {
		return types.AssignableTo(s, t) || staticConvertible(s, t)
	}

	sp, sourceIsPtr := source.(*types.Pointer)
	tp, targetIsPtr := target.(*types.Pointer)

	switch {
	case types.Identical(source, target):
		res.Compatibility, res.Reason = TypeIdentical, "types are identical"
	case types.AssignableTo(source, target):
		res.Compatibility, res.Reason = TypeAssignable, "source is assignable to target"
	case staticConvertible(source, target):
		res.Compatibility, res.Reason = TypeConvertible, "source is convertible to target"
	case sourceIsPtr && direct(sp.Elem(), target):
		res.Compatibility, res.Pointer, res.Reason = TypeNeedsTransform, PointerDeref, "requires pointer dereference"
	case targetIsPtr && direct(source, tp.Elem()):
		res.Compatibility, res.Pointer, res.Reason = TypeNeedsTransform, PointerWrap, "requires taking address"
	default:
		res.Compatibility, res.Reason = TypeIncompatible, "types are not compatible"
	}

	return res
}

func staticConvertible(source, target types.Type) bool {
	if !types.ConvertibleTo(source, target) {
		return false
	}

	sb, ok := source.Underlying().(*types.Basic)
	if ok && sb.Info()&types.IsInteger != 0 && IsStringType(target) {
		return false
	}

	if _, ok := source.Underlying().(*types.Slice); ok {
		switch tt := target.Underlying().(type) {
		case *types.Array:
			return false
		case *types.Pointer:
			if _, isArr := tt.Elem().Underlying().(*types.Array); isArr {
				return false
			}
		}
	}

	return true
}

// IsStringType returns true if the type is a string.
func IsStringType(t types.Type) bool {
	basic, ok := t.Underlying().(*types.Basic)

	return ok && basic.Kind() == types.String
}
