package services

import (
	"strings"
)

// NamePlaceholder is replaced by the display name of the entity.
const NamePlaceholder = "{name}"

// Messages are the texts put on statuses. Empty fields fall back to
// DefaultMessages.
type Messages struct {
	Created  string
	Updated  string
	Deleted  string
	Read     string
	NotFound string
}

// DefaultMessages returns the built-in texts.
func DefaultMessages() Messages {
	return Messages{
		Created:  "Successfully created a {name}",
		Updated:  "Successfully updated the {name}",
		Deleted:  "Successfully deleted a {name}",
		Read:     "Success",
		NotFound: "Sorry, I could not find the {name} you were looking for.",
	}
}

func (m Messages) withDefaults() Messages {
	d := DefaultMessages()

	return Messages{
		Created:  or(m.Created, d.Created),
		Updated:  or(m.Updated, d.Updated),
		Deleted:  or(m.Deleted, d.Deleted),
		Read:     or(m.Read, d.Read),
		NotFound: or(m.NotFound, d.NotFound),
	}
}

func render(template, name string) string {
	return strings.ReplaceAll(template, NamePlaceholder, name)
}

func or(s, fallback string) string {
	if s == "" {
		return fallback
	}

	return s
}
