package report

import (
	"go/types"

	"dto-services/internal/analyze"
	"dto-services/internal/diagnostic"
	"dto-services/internal/match"
)

// FieldRow pairs one DTO field with the entity field of the same name.
type FieldRow struct {
	Dto        string `yaml:"dto"`
	DtoType    string `yaml:"dto_type"`
	Entity     string `yaml:"entity,omitempty"`
	EntityType string `yaml:"entity_type,omitempty"`
	Compat     string `yaml:"compatibility"`
}

// LinkReport is the static view of one DTO link.
type LinkReport struct {
	Dto    string     `yaml:"dto"`
	Entity string     `yaml:"entity"`
	Create string     `yaml:"create,omitempty"`
	Fields []FieldRow `yaml:"fields"`
}

// StaticReport covers every link found in the loaded packages.
type StaticReport struct {
	Links       []LinkReport           `yaml:"links"`
	Diagnostics diagnostic.Diagnostics `yaml:"diagnostics"`
}

// Static checks every DTO link in graph field by field. Multiple markers on
// one struct are reported as errors; the rest of the graph is still checked.
func Static(graph *analyze.TypeGraph, mode match.NameMode) *StaticReport {
	r := &StaticReport{}

	links, err := graph.Links()
	if err != nil {
		r.Diagnostics.AddError(diagnostic.CodeMultipleLinks, err.Error(), "", "")
	}

	for _, l := range links {
		r.Links = append(r.Links, staticLink(l, mode, &r.Diagnostics))
	}

	return r
}

func staticLink(l analyze.DtoLink, mode match.NameMode, diags *diagnostic.Diagnostics) LinkReport {
	lr := LinkReport{
		Dto:    l.Dto.ID.Name,
		Entity: analyze.TypeString(l.Entity),
		Create: l.Create,
	}
	pair := diagnostic.Pair(lr.Dto, lr.Entity)

	entityFields := analyze.MappableFields(l.Entity)
	if len(entityFields) == 0 {
		diags.AddWarning(diagnostic.CodeEntityNotLoaded,
			"entity fields are unknown; load the entity package too", pair, "")
	}

	for _, f := range analyze.MappableFields(l.Dto) {
		row := FieldRow{Dto: f.Name, DtoType: analyze.TypeString(f.Type)}

		ef, ok := sameName(entityFields, f.Name, mode)
		if !ok {
			row.Compat = "unmatched"
			lr.Fields = append(lr.Fields, row)

			if len(entityFields) > 0 {
				diags.AddWarning(diagnostic.CodeUnmatchedField, "no entity property with this name", pair, f.Name,
					match.Suggest(f.Name, sources(entityFields, f.Type.GoType), match.DefaultSuggestLimit)...)
			}

			continue
		}

		res := match.ScoreTypeCompatibility(f.Type.GoType, ef.Type.GoType)
		row.Entity = ef.Name
		row.EntityType = analyze.TypeString(ef.Type)
		row.Compat = res.Compatibility.String()
		lr.Fields = append(lr.Fields, row)

		switch res.Compatibility {
		case match.TypeIncompatible:
			diags.AddWarning(diagnostic.CodeIncompatibleType, res.Reason, pair, f.Name)
		case match.TypeNeedsTransform:
			diags.AddInfo(diagnostic.CodeNeedsTransform, res.Reason, pair, f.Name)
		}
	}

	return lr
}

func sameName(fields []analyze.FieldInfo, name string, mode match.NameMode) (analyze.FieldInfo, bool) {
	for _, f := range fields {
		if mode.Same(f.Name, name) {
			return f, true
		}
	}

	return analyze.FieldInfo{}, false
}

func sources(fields []analyze.FieldInfo, source types.Type) []match.Source {
	out := make([]match.Source, 0, len(fields))
	for _, f := range fields {
		out = append(out, match.Source{
			Name:   f.Name,
			Compat: match.ScoreTypeCompatibility(source, f.Type.GoType).Compatibility,
		})
	}

	return out
}
