package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"gopkg.in/yaml.v3"

	"dto-services/internal/diagnostic"
)

// Output formats.
const (
	FormatTable = "table"
	FormatYAML  = "yaml"
)

// Renderer is implemented by every report.
type Renderer interface {
	Table(w io.Writer)
}

// Write renders r in format.
func Write(w io.Writer, format string, r Renderer) error {
	switch strings.ToLower(format) {
	case "", FormatTable:
		r.Table(w)

		return nil
	case FormatYAML:
		return WriteYAML(w, r)
	default:
		return fmt.Errorf("unknown output format %q (want %s or %s)", format, FormatTable, FormatYAML)
	}
}

// WriteYAML encodes v as YAML with two-space indentation.
func WriteYAML(w io.Writer, v any) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)

	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("encode report: %w", err)
	}

	return enc.Close()
}

func newTable(w io.Writer) table.Writer {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)

	return t
}

// Table renders one row per DTO field, then the findings.
func (r *StaticReport) Table(w io.Writer) {
	t := newTable(w)
	t.AppendHeader(table.Row{"DTO", "Entity", "Field", "DTO Type", "Entity Field", "Entity Type", "Compatibility"})

	for _, l := range r.Links {
		entity := l.Entity
		if l.Create != "" {
			entity += " (" + l.Create + ")"
		}

		for _, f := range l.Fields {
			t.AppendRow(table.Row{l.Dto, entity, f.Dto, f.DtoType, f.Entity, f.EntityType, f.Compat})
		}
	}

	t.Render()
	writeDiagnostics(w, r.Diagnostics)
}

// Table renders one row per registered DTO, then the findings.
func (r *RegistryReport) Table(w io.Writer) {
	t := newTable(w)
	t.AppendHeader(table.Row{"DTO", "Entity", "Style", "Decided By", "Save", "Update", "Status"})

	for _, row := range r.Rows {
		t.AppendRow(table.Row{row.Dto, row.Entity, row.Style, row.DecidedBy, row.Save, row.Update, row.Status})
	}

	t.Render()
	writeDiagnostics(w, r.Diagnostics)
}

func writeDiagnostics(w io.Writer, d diagnostic.Diagnostics) {
	if d.Len() == 0 {
		return
	}

	t := newTable(w)
	t.AppendHeader(table.Row{"Severity", "Finding"})

	for _, diag := range d.All() {
		t.AppendRow(table.Row{diag.Severity, diag.String()})
	}

	t.Render()
}
