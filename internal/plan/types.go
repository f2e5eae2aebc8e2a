package plan

import (
	"reflect"

	"dto-services/entity"
	"dto-services/internal/common"
	"dto-services/internal/style"
)

// ConversionStrategy describes how one value is moved to its destination.
type ConversionStrategy int

const (
	// StrategyDirectAssign - direct assignment (identical or assignable types).
	StrategyDirectAssign ConversionStrategy = iota
	// StrategyConvert - explicit Go type conversion.
	StrategyConvert
	// StrategyPointerDeref - dereference pointer; nil yields the zero value.
	StrategyPointerDeref
	// StrategyPointerWrap - allocate a pointer holding the value.
	StrategyPointerWrap
)

// String returns a human-readable strategy name.
func (s ConversionStrategy) String() string {
	switch s {
	case StrategyDirectAssign:
		return "direct_assign"
	case StrategyConvert:
		return "convert"
	case StrategyPointerDeref:
		return "pointer_deref"
	case StrategyPointerWrap:
		return "pointer_wrap"
	default:
		return common.UnknownStr
	}
}

// FieldCopy moves one source field into one target field.
type FieldCopy struct {
	Source      string
	SourceIndex []int
	SourceType  reflect.Type
	Target      string
	TargetIndex []int
	TargetType  reflect.Type
	Strategy    ConversionStrategy
	// Explanation is the compatibility verdict that chose Strategy.
	Explanation string
}

// CopyPlan copies fields from one struct type to another.
type CopyPlan struct {
	From   reflect.Type
	To     reflect.Type
	Fields []FieldCopy
}

// ReadPlan is the entity -> DTO copy plan.
type ReadPlan = CopyPlan

// ArgBinding supplies one mechanism parameter from a DTO property.
type ArgBinding struct {
	Param       string
	ParamType   reflect.Type
	Source      string
	SourceIndex []int
	SourceType  reflect.Type
	Strategy    ConversionStrategy
}

// BindingPlan calls a constructor, factory or updater with arguments taken
// from a DTO. Args are in parameter order.
type BindingPlan struct {
	Mechanism *entity.Signature
	Args      []ArgBinding
}

// SaveKind tags a SaveResult.
type SaveKind int

const (
	SaveUnsupported SaveKind = iota
	SaveCopy
	SaveBinding
)

// String returns a human-readable save kind.
func (k SaveKind) String() string {
	switch k {
	case SaveUnsupported:
		return "unsupported"
	case SaveCopy:
		return "copy"
	case SaveBinding:
		return "binding"
	default:
		return common.UnknownStr
	}
}

// SaveResult is either a CopyPlan, a BindingPlan, or Unsupported; never both plans.
type SaveResult struct {
	Kind    SaveKind
	Copy    *CopyPlan
	Binding *BindingPlan
	// Reason explains why saving is unsupported.
	Reason string
}

// Supported reports whether the DTO can create entities.
func (r SaveResult) Supported() bool {
	return r.Kind != SaveUnsupported
}

// UpdateKind tags an UpdatePlan.
type UpdateKind int

const (
	UpdateUnsupported UpdateKind = iota
	UpdateCopy                   // copy settable properties onto the stored entity
	UpdateUpdater                // call an updater method on the stored entity
	UpdateRebuild                // build a replacement through the save binding, keeping the key
)

// String returns a human-readable update kind.
func (k UpdateKind) String() string {
	switch k {
	case UpdateUnsupported:
		return "unsupported"
	case UpdateCopy:
		return "copy"
	case UpdateUpdater:
		return "updater"
	case UpdateRebuild:
		return "rebuild"
	default:
		return common.UnknownStr
	}
}

// UpdatePlan says how an existing entity is changed from a DTO.
type UpdatePlan struct {
	Kind UpdateKind
	// Updater is set for UpdateUpdater.
	Updater *BindingPlan
}

// MappingConfig is the immutable set of plans of one registered DTO.
type MappingConfig struct {
	Style  style.Style
	Read   ReadPlan
	Save   SaveResult
	Update UpdatePlan
	// Key copies the entity key into the DTO key. Nil when either side has
	// no key or the types are incompatible.
	Key *FieldCopy
}
