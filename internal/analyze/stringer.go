package analyze

import (
	"go/types"
	"strings"
)

// TypePath builds a readable path string for a field.
// Examples:
//   - "Book" for a simple struct
//   - "Book.Title" for a field
//   - "Order.Lines[]" for a slice field
type TypePath struct {
	parts []string
}

// NewTypePath creates a new TypePath from a root type name.
func NewTypePath(root string) *TypePath {
	return &TypePath{
		parts: []string{root},
	}
}

// Field appends a field name to the path.
func (p *TypePath) Field(name string) *TypePath {
	return &TypePath{
		parts: append(append([]string{}, p.parts...), name),
	}
}

// Slice marks the last element of the path as a slice.
func (p *TypePath) Slice() *TypePath {
	parts := append([]string{}, p.parts...)
	parts[len(parts)-1] += "[]"

	return &TypePath{parts: parts}
}

// String returns the full path string.
func (p *TypePath) String() string {
	return strings.Join(p.parts, ".")
}

// TypeString returns a short human-readable form of t, qualified only for
// types outside the analyzed packages.
func TypeString(t *TypeInfo) string {
	if t == nil {
		return "<nil>"
	}

	switch t.Kind {
	case TypeKindBasic:
		return t.GoType.String()

	case TypeKindStruct:
		if t.LinkTarget != nil {
			return "Link[" + TypeString(t.LinkTarget) + "]"
		}

		if t.IsNamed() {
			return t.ID.Name
		}

		return "struct{...}"

	case TypeKindPointer:
		return "*" + TypeString(t.ElemType)

	case TypeKindSlice:
		return "[]" + TypeString(t.ElemType)

	case TypeKindArray, TypeKindUnknown:
		return t.GoType.String()

	case TypeKindAlias:
		if t.IsNamed() {
			return t.ID.Name
		}

		return TypeString(t.Underlying)

	case TypeKindExternal:
		return types.TypeString(t.GoType, packageName)

	default:
		return t.GoType.String()
	}
}

func packageName(p *types.Package) string {
	return p.Name()
}

// FieldPath returns a path string for a field within a type.
// Example: Book, Title -> "Book.Title"
func FieldPath(typeName string, fieldNames ...string) string {
	path := NewTypePath(typeName)
	for _, fn := range fieldNames {
		path = path.Field(fn)
	}

	return path.String()
}
