package status

import (
	"errors"
	"strings"

	"dto-services/internal/common"
)

// Kind classifies where a failure came from.
type Kind int

const (
	KindUnknown        Kind = iota
	KindShape                // entity type structurally unusable
	KindClassification       // ambiguous or missing construction strategy
	KindMappingBuild         // plan cannot be built
	KindReadOnly             // save attempted against a read-only entity
	KindConstruction         // entity constructor/factory rejected its input
	KindNotFound             // key lookup miss
	KindPersistence          // persistence context failure
)

// String returns a human-readable kind name.
func (k Kind) String() string {
	switch k {
	case KindShape:
		return "shape"
	case KindClassification:
		return "classification"
	case KindMappingBuild:
		return "mapping_build"
	case KindReadOnly:
		return "read_only"
	case KindConstruction:
		return "construction"
	case KindNotFound:
		return "not_found"
	case KindPersistence:
		return "persistence"
	default:
		return common.UnknownStr
	}
}

// Error codes. String based so they read well in logs and reports.
const (
	CodeNotStruct    = "NOT_STRUCT"
	CodeNoProperties = "NO_PROPERTIES"
	CodeBadMechanism = "INVALID_MECHANISM"

	CodeNoLink               = "NO_LINK"
	CodeMultipleLinks        = "MULTIPLE_LINKS"
	CodeNoStrategy           = "NO_VIABLE_STRATEGY"
	CodeAmbiguousConstructor = "AMBIGUOUS_CONSTRUCTOR"
	CodeAmbiguousFactory     = "AMBIGUOUS_FACTORY"
	CodeAmbiguousMechanism   = "AMBIGUOUS_MECHANISM"
	CodeUnknownMechanism     = "UNKNOWN_MECHANISM"
	CodeMechanismMismatch    = "MECHANISM_MISMATCH"
	CodeStyleMismatch        = "STYLE_MISMATCH"

	CodeIncompatibleTypes = "INCOMPATIBLE_TYPES"
	CodeUnboundParameter  = "UNBOUND_PARAMETER"
	CodeMissingKey        = "MISSING_KEY"
	CodeCannotCreate      = "CANNOT_CREATE"
	CodeCannotUpdate      = "CANNOT_UPDATE"
	CodeReadOnly          = "READ_ONLY"

	CodeInvalidInput = "INVALID_INPUT"
	CodeNilEntity    = "NIL_ENTITY"

	CodeNotFound = "NOT_FOUND"
	CodeDatabase = "DATABASE_ERROR"
)

// ErrorDetail describes a single failure.
type ErrorDetail struct {
	// Kind is the failure family.
	Kind Kind
	// Code identifies the specific condition (one of the Code constants, or
	// a code chosen by domain logic).
	Code string
	// Message is the human-readable description. Domain errors are kept verbatim.
	Message string
	// Entity names the entity type involved (if any).
	Entity string
	// Property names the property or parameter involved (if any).
	Property string
	// Suggestions are potential fixes or alternatives.
	Suggestions []string
}

// String returns a formatted description including entity and property.
func (d ErrorDetail) String() string {
	var prefix []string
	if d.Entity != "" {
		prefix = append(prefix, "["+d.Entity+"]")
	}

	if d.Property != "" {
		prefix = append(prefix, d.Property)
	}

	msg := d.Message
	if len(d.Suggestions) > 0 {
		msg += " (did you mean " + strings.Join(d.Suggestions, ", ") + "?)"
	}

	if len(prefix) > 0 {
		return strings.Join(prefix, " ") + ": " + msg
	}

	return msg
}

// Error is an ErrorDetail carried as a Go error.
type Error struct {
	Detail ErrorDetail
}

// NewError creates an *Error.
func NewError(kind Kind, code, message string) *Error {
	return &Error{Detail: ErrorDetail{Kind: kind, Code: code, Message: message}}
}

// Error implements error.
func (e *Error) Error() string {
	return e.Detail.String()
}

// Is matches another *Error by kind, and by code when the target sets one.
func (e *Error) Is(target error) bool {
	var t *Error
	if !errors.As(target, &t) {
		return false
	}

	if t.Detail.Kind != e.Detail.Kind {
		return false
	}

	return t.Detail.Code == "" || t.Detail.Code == e.Detail.Code
}

// On returns a copy of e attributed to an entity and property.
func (e *Error) On(entity, property string) *Error {
	cp := *e
	cp.Detail.Entity = entity
	cp.Detail.Property = property

	return &cp
}

// Sentinels for errors.Is against Status.Err().
var (
	ErrShape          = &Error{Detail: ErrorDetail{Kind: KindShape}}
	ErrClassification = &Error{Detail: ErrorDetail{Kind: KindClassification}}
	ErrMappingBuild   = &Error{Detail: ErrorDetail{Kind: KindMappingBuild}}
	ErrReadOnly       = &Error{Detail: ErrorDetail{Kind: KindReadOnly}}
	ErrConstruction   = &Error{Detail: ErrorDetail{Kind: KindConstruction}}
	ErrNotFound       = &Error{Detail: ErrorDetail{Kind: KindNotFound}}
	ErrPersistence    = &Error{Detail: ErrorDetail{Kind: KindPersistence}}
)
