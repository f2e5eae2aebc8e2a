// Package report describes DTO links for people: a static report computed
// from source with go/packages, and a registry report computed from the
// decisions of a live registry. Both render as YAML or as a text table.
package report
