package entity

import (
	"reflect"
	"strings"
)

// TagName is the struct tag key read by the engine.
const TagName = "crud"

// Tag is a parsed `crud` struct tag.
//
//	crud:"-"              excluded from mapping
//	crud:"key"            the key property
//	crud:"readonly"       readable but never written by a save plan
//	crud:"create=NewBook" on a Link marker: pick this mechanism
type Tag struct {
	Skip     bool
	Key      bool
	ReadOnly bool
	Create   string
}

// ParseTag parses the `crud` tag of a field. Options are comma separated.
func ParseTag(tag reflect.StructTag) Tag {
	raw, ok := tag.Lookup(TagName)
	if !ok {
		return Tag{}
	}

	if strings.TrimSpace(raw) == "-" {
		return Tag{Skip: true}
	}

	var t Tag

	for opt := range strings.SplitSeq(raw, ",") {
		opt = strings.TrimSpace(opt)

		switch {
		case opt == "key":
			t.Key = true
		case opt == "readonly":
			t.ReadOnly = true
		case strings.HasPrefix(opt, "create="):
			t.Create = strings.TrimPrefix(opt, "create=")
		}
	}

	return t
}
