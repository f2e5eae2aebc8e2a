package report

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"dto-services/internal/analyze"
	"dto-services/internal/diagnostic"
	"dto-services/internal/match"
	"dto-services/registry"
	"dto-services/status"
	"dto-services/store"
)

func staticStore(t *testing.T) *StaticReport {
	t.Helper()

	graph, err := analyze.NewAnalyzer().LoadPackages("dto-services/store")
	require.NoError(t, err)

	return Static(graph, match.NamesFold)
}

func linkNamed(t *testing.T, r *StaticReport, dto string) LinkReport {
	t.Helper()

	for _, l := range r.Links {
		if l.Dto == dto {
			return l
		}
	}

	require.Failf(t, "link not found", "%s", dto)

	return LinkReport{}
}

func compatOf(l LinkReport, field string) string {
	for _, f := range l.Fields {
		if f.Dto == field {
			return f.Compat
		}
	}

	return ""
}

func TestStatic_Store(t *testing.T) {
	r := staticStore(t)
	require.Len(t, r.Links, 7)

	author := linkNamed(t, r, "AuthorDto")
	assert.Equal(t, "Author", author.Entity)
	assert.Equal(t, match.VerdictIdentical, compatOf(author, "ID"))
	assert.Equal(t, match.VerdictNeedsTransform, compatOf(author, "Bio"))
	assert.Equal(t, "unmatched", compatOf(author, "Nickname"))

	price := linkNamed(t, r, "ChangePriceDto")
	assert.Equal(t, match.VerdictConvertible, compatOf(price, "PriceCents"))

	assert.False(t, r.Diagnostics.HasErrors())

	var unmatched []string
	for _, w := range r.Diagnostics.Warnings {
		if w.Code == diagnostic.CodeUnmatchedField {
			unmatched = append(unmatched, w.Pair+"."+w.Field)
		}
	}

	assert.Equal(t, []string{"AuthorDto -> Author.Nickname"}, unmatched)
}

func TestStatic_EntityNotLoaded(t *testing.T) {
	graph, err := analyze.NewAnalyzer().LoadPackages("../analyze/testdata/linked")
	require.NoError(t, err)

	r := Static(graph, match.NamesFold)

	assert.True(t, r.Diagnostics.HasErrors(), "TwoLinksDto is an error")

	var codes []string
	for _, w := range r.Diagnostics.Warnings {
		codes = append(codes, w.Code)
	}

	assert.Contains(t, codes, diagnostic.CodeEntityNotLoaded)
	assert.NotContains(t, codes, diagnostic.CodeUnmatchedField)
}

type orphanDto struct {
	Name string
}

func registryReport(t *testing.T) *RegistryReport {
	t.Helper()

	reg := registry.New()
	st := reg.RegisterAll(store.DtoTypes()...)
	require.True(t, st.IsValid(), st.String())

	registry.RegisterDto[orphanDto](reg)

	return Registry(reg)
}

func TestRegistry_Rows(t *testing.T) {
	r := registryReport(t)
	require.Len(t, r.Rows, 8)

	rows := make(map[string]StyleRow)
	for _, row := range r.Rows {
		rows[row.Dto] = row
	}

	assert.Equal(t, StyleRow{
		Dto: "CreateBookDto", Entity: "Book", Style: "DDDConstructor", DecidedBy: "CreateBookDto",
		Save: "binding NewBook", Update: "updater ChangePrice", Status: "ok",
	}, rows["CreateBookDto"])

	assert.Equal(t, "unsupported", rows["ChangePriceDto"].Save)
	assert.Equal(t, "CreateBookDto", rows["ChangePriceDto"].DecidedBy)
	assert.Equal(t, "Standard", rows["AuthorDto"].Style)
	assert.Equal(t, "copy", rows["AuthorDto"].Save)
	assert.Equal(t, "ReadOnly", rows["BookSummaryDto"].Style)
	assert.Equal(t, "DDDStaticFactory", rows["DddStaticFactDto"].Style)

	orphan := rows["orphanDto"]
	assert.Equal(t, status.CodeNoLink, orphan.Status)
	assert.Empty(t, orphan.Entity)

	require.Len(t, r.Diagnostics.Errors, 1)
	assert.Equal(t, status.CodeNoLink, r.Diagnostics.Errors[0].Code)
}

func TestWrite_Table(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, FormatTable, registryReport(t)))

	out := buf.String()
	assert.Contains(t, out, "DECIDED BY")
	assert.Contains(t, out, "DDDConstructor")
	assert.Contains(t, out, "NO_LINK")
	assert.Contains(t, out, "┌")
}

func TestWrite_YAML(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, FormatYAML, staticStore(t)))

	var back struct {
		Links []struct {
			Dto    string `yaml:"dto"`
			Entity string `yaml:"entity"`
		} `yaml:"links"`
		Diagnostics struct {
			Warnings []struct {
				Severity string `yaml:"severity"`
				Code     string `yaml:"code"`
			} `yaml:"warnings"`
		} `yaml:"diagnostics"`
	}
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &back))

	assert.Len(t, back.Links, 7)
	assert.Equal(t, "AuthorDto", back.Links[0].Dto)
	require.NotEmpty(t, back.Diagnostics.Warnings)
	assert.Equal(t, "warning", back.Diagnostics.Warnings[0].Severity)
}

func TestWrite_UnknownFormat(t *testing.T) {
	err := Write(&bytes.Buffer{}, "xml", &RegistryReport{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "xml")
}

func TestRunReport(t *testing.T) {
	r := &RunReport{Store: "memory"}
	r.Add("Create", "AuthorDto", status.Ok("Successfully created a Author"))
	r.Add("Create", "DddStaticFactDto", status.Fail(status.KindConstruction, status.CodeInvalidInput, "The string should not be null."))

	assert.Equal(t, 1, r.Failed())
	assert.Equal(t, "The string should not be null.", r.Steps[1].Result)

	var buf bytes.Buffer
	require.NoError(t, Write(&buf, "", r))
	assert.Contains(t, buf.String(), "store: memory")
	assert.Contains(t, buf.String(), "Successfully created a Author")

	buf.Reset()
	require.NoError(t, Write(&buf, FormatYAML, r))
	assert.Contains(t, buf.String(), "valid: false")
}
