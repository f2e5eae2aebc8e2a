// Package shape inspects entity and DTO struct types through reflection and
// describes their mapping-eligible properties, key and construction
// mechanisms.
//
// Key types:
//   - Shape: immutable description of one struct type
//   - Property: one mapping-eligible field
//   - Inspector: builds and caches shapes per type
package shape
