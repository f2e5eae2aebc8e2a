package report

import (
	"io"

	"github.com/jedib0t/go-pretty/v6/table"

	"dto-services/status"
)

// StepRow is one service call and its outcome.
type StepRow struct {
	Operation string `yaml:"operation"`
	Dto       string `yaml:"dto"`
	Valid     bool   `yaml:"valid"`
	Result    string `yaml:"result"`
}

// RunReport lists service calls in the order they ran.
type RunReport struct {
	Store string    `yaml:"store"`
	Steps []StepRow `yaml:"steps"`
}

// Add records a call. The result is the success message or every error.
func (r *RunReport) Add(operation, dto string, st status.Status) {
	result := st.Message
	if !st.IsValid() {
		result = st.JoinErrors("; ")
	}

	r.Steps = append(r.Steps, StepRow{Operation: operation, Dto: dto, Valid: st.IsValid(), Result: result})
}

// Failed counts the calls that returned an invalid status.
func (r *RunReport) Failed() int {
	n := 0

	for _, s := range r.Steps {
		if !s.Valid {
			n++
		}
	}

	return n
}

// Table renders one row per call.
func (r *RunReport) Table(w io.Writer) {
	t := newTable(w)
	t.SetTitle("store: " + r.Store)
	t.AppendHeader(table.Row{"#", "Operation", "DTO", "Valid", "Result"})

	for i, s := range r.Steps {
		t.AppendRow(table.Row{i + 1, s.Operation, s.Dto, s.Valid, s.Result})
	}

	t.Render()
}
