// Package style classifies how an entity type is constructed and saved.
//
// Decode is total and deterministic: for a given entity shape and DTO shape it
// returns exactly one Style, or a classification error.
//
// Key types:
//   - Style: Standard, DDDConstructor, DDDStaticFactory or ReadOnly
//   - Decision: the chosen Style and the mechanism that drives it
package style
