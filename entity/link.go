package entity

import (
	"errors"
	"fmt"
	"reflect"
	"slices"
)

var (
	ErrNoLink        = errors.New("type does not embed entity.Link")
	ErrMultipleLinks = errors.New("type embeds more than one entity.Link")
	ErrNotStruct     = errors.New("type is not a struct")
)

// Link marks a DTO as linked to entity type E. Embed it by value; it occupies
// no space.
type Link[E any] struct{}

func (Link[E]) linkedEntity() reflect.Type {
	return reflect.TypeFor[E]()
}

type linker interface {
	linkedEntity() reflect.Type
}

var linkerType = reflect.TypeFor[linker]()

// LinkInfo is the resolved link of a DTO type.
type LinkInfo struct {
	// Entity is the linked entity type (never a pointer).
	Entity reflect.Type
	// Field is the embedded marker field.
	Field reflect.StructField
	// Create is the mechanism named by a `crud:"create=Name"` tag, if any.
	Create string
}

// IsLinkField reports whether f is an embedded Link marker.
func IsLinkField(f reflect.StructField) bool {
	return f.Anonymous && isLinkType(f.Type)
}

func isLinkType(t reflect.Type) bool {
	return t.Kind() == reflect.Struct && t.NumField() == 0 && t.Implements(linkerType)
}

// ResolveLink finds the Link marker of a DTO type. dto may be a struct or a
// pointer to one.
func ResolveLink(dto reflect.Type) (LinkInfo, error) {
	if dto.Kind() == reflect.Pointer {
		dto = dto.Elem()
	}

	if dto.Kind() != reflect.Struct {
		return LinkInfo{}, fmt.Errorf("%s: %w", dto, ErrNotStruct)
	}

	links := linkFields(dto, nil, 0)
	count := len(links)

	var found LinkInfo

	if count == 1 {
		f := links[0]
		lk, _ := reflect.Zero(f.Type).Interface().(linker)

		ent := lk.linkedEntity()
		if ent.Kind() == reflect.Pointer {
			ent = ent.Elem()
		}

		found = LinkInfo{Entity: ent, Field: f, Create: ParseTag(f.Tag).Create}
	}

	switch count {
	case 0:
		return LinkInfo{}, fmt.Errorf("%s: %w", dto, ErrNoLink)
	case 1:
		return found, nil
	default:
		return LinkInfo{}, fmt.Errorf("%s: %w", dto, ErrMultipleLinks)
	}
}

// maxEmbedDepth bounds the walk through embedded structs.
const maxEmbedDepth = 8

// linkFields returns every Link marker reachable through embedded structs,
// shadowed ones included.
func linkFields(t reflect.Type, index []int, depth int) []reflect.StructField {
	if depth > maxEmbedDepth {
		return nil
	}

	var out []reflect.StructField

	for i := range t.NumField() {
		f := t.Field(i)
		if !f.Anonymous {
			continue
		}

		f.Index = append(slices.Clone(index), i)

		if isLinkType(f.Type) {
			out = append(out, f)

			continue
		}

		ft := f.Type
		if ft.Kind() == reflect.Pointer {
			ft = ft.Elem()
		}

		if ft.Kind() == reflect.Struct {
			out = append(out, linkFields(ft, f.Index, depth+1)...)
		}
	}

	return out
}

// LinkedType returns the entity type a DTO links to.
func LinkedType(dto reflect.Type) (reflect.Type, bool) {
	info, err := ResolveLink(dto)
	if err != nil {
		return nil, false
	}

	return info.Entity, true
}
