package style

//go:generate go tool stringer -type=Style -output=style_string.go

// Style is the construction style of an entity type.
type Style int

const (
	// Standard entities start from their zero value and are filled by copying
	// settable properties.
	Standard Style = iota
	// DDDConstructor entities are built by a single non-default constructor.
	DDDConstructor
	// DDDStaticFactory entities are built by a factory that returns a status.
	DDDStaticFactory
	// ReadOnly entities have no settable properties and are never saved.
	ReadOnly
)

// Builds reports whether saving goes through a constructor or factory.
func (s Style) Builds() bool {
	return s == DDDConstructor || s == DDDStaticFactory
}
