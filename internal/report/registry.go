package report

import (
	"dto-services/internal/common"
	"dto-services/internal/diagnostic"
	"dto-services/registry"
)

// StyleRow is one registered DTO with the decisions made for it.
type StyleRow struct {
	Dto       string `yaml:"dto"`
	Entity    string `yaml:"entity,omitempty"`
	Style     string `yaml:"style,omitempty"`
	DecidedBy string `yaml:"decided_by,omitempty"`
	Save      string `yaml:"save,omitempty"`
	Update    string `yaml:"update,omitempty"`
	Status    string `yaml:"status"`
}

// RegistryReport covers every DTO registered so far.
type RegistryReport struct {
	Rows        []StyleRow             `yaml:"registrations"`
	Diagnostics diagnostic.Diagnostics `yaml:"diagnostics"`
}

const statusOK = "ok"

// Registry reports what reg decided for each registered DTO.
func Registry(reg *registry.Registry) *RegistryReport {
	r := &RegistryReport{}

	for _, l := range reg.Links() {
		row := StyleRow{Dto: l.DtoType.Name(), Status: statusOK}

		if l.Entity != nil {
			row.Entity = l.Entity.Type.Name()
			if l.Entity.Status.IsValid() {
				row.Style = l.Entity.Style().String()
			}

			if l.Entity.DecidedBy != nil {
				row.DecidedBy = l.Entity.DecidedBy.Name()
			}
		}

		if l.Valid() {
			row.Save = saveLabel(l)
			row.Update = updateLabel(l)
		} else {
			if first, ok := common.First(l.Status.Errors); ok {
				row.Status = first.Code
			}

			r.Diagnostics.AddStatus(diagnostic.Pair(row.Dto, row.Entity), l.Status)
		}

		r.Rows = append(r.Rows, row)
	}

	return r
}

func saveLabel(l *registry.Link) string {
	save := l.Config.Save
	if save.Binding != nil && save.Binding.Mechanism != nil {
		return save.Kind.String() + " " + save.Binding.Mechanism.Name
	}

	return save.Kind.String()
}

func updateLabel(l *registry.Link) string {
	upd := l.Config.Update
	if upd.Updater != nil && upd.Updater.Mechanism != nil {
		return upd.Kind.String() + " " + upd.Updater.Mechanism.Name
	}

	return upd.Kind.String()
}
