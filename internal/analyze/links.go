package analyze

import (
	"errors"
	"fmt"
)

var ErrMultipleLinks = errors.New("struct embeds more than one entity.Link")

// DtoLink is a DTO struct found in source together with the entity it links to.
type DtoLink struct {
	Dto    *TypeInfo
	Entity *TypeInfo
	// Create is the mechanism named by the marker's `crud:"create=..."` tag.
	Create string
}

// Links returns every struct in the graph that embeds exactly one entity.Link,
// ordered by DTO type name. Structs embedding more than one marker are
// reported in the joined error and left out of the result.
func (g *TypeGraph) Links() ([]DtoLink, error) {
	var (
		links []DtoLink
		errs  []error
	)

	for _, id := range g.SortedIDs() {
		t := g.Types[id]
		if t.Kind != TypeKindStruct || t.LinkTarget != nil {
			continue
		}

		markers := linkFields(t, 0)

		switch len(markers) {
		case 0:
			continue
		case 1:
			links = append(links, DtoLink{
				Dto:    t,
				Entity: markers[0].Type.LinkTarget,
				Create: markers[0].CrudTag().Create,
			})
		default:
			errs = append(errs, fmt.Errorf("%s: %w", id, ErrMultipleLinks))
		}
	}

	return links, errors.Join(errs...)
}

// maxEmbedDepth bounds the walk through embedded structs.
const maxEmbedDepth = 8

func linkFields(t *TypeInfo, depth int) []FieldInfo {
	if depth > maxEmbedDepth {
		return nil
	}

	var out []FieldInfo

	for _, f := range t.Fields {
		if !f.Embedded {
			continue
		}

		if f.IsLink() {
			out = append(out, f)

			continue
		}

		if inner := structOf(f.Type); inner != nil {
			out = append(out, linkFields(inner, depth+1)...)
		}
	}

	return out
}

// MappableFields flattens the exported fields of a struct the way the engine
// sees them: embedded structs are promoted, Link markers and fields tagged
// `crud:"-"` are dropped, and a shallower field shadows a deeper one of the
// same name.
func MappableFields(t *TypeInfo) []FieldInfo {
	t = structOf(t)
	if t == nil {
		return nil
	}

	seen := make(map[string]bool)

	var out []FieldInfo

	level := []*TypeInfo{t}
	for depth := 0; len(level) > 0 && depth <= maxEmbedDepth; depth++ {
		var next []*TypeInfo

		// Names found at this depth only shadow deeper ones.
		found := make(map[string]bool)

		for _, s := range level {
			for _, f := range s.Fields {
				if f.IsLink() {
					continue
				}

				if f.Embedded {
					if inner := structOf(f.Type); inner != nil {
						next = append(next, inner)

						continue
					}
				}

				if !f.Exported || seen[f.Name] || f.CrudTag().Skip {
					continue
				}

				found[f.Name] = true

				out = append(out, f)
			}
		}

		for name := range found {
			seen[name] = true
		}

		level = next
	}

	return out
}

// Field returns the mappable field called name.
func Field(t *TypeInfo, name string) (FieldInfo, bool) {
	for _, f := range MappableFields(t) {
		if f.Name == name {
			return f, true
		}
	}

	return FieldInfo{}, false
}

func structOf(t *TypeInfo) *TypeInfo {
	if t == nil {
		return nil
	}

	if t.Kind == TypeKindPointer {
		t = t.ElemType
	}

	if t == nil || t.Kind != TypeKindStruct || t.LinkTarget != nil {
		return nil
	}

	return t
}
