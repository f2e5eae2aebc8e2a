// Package registry links DTO types to entity types and caches everything
// computed at registration.
//
// The first DTO registered for an entity type decides the entity's Entry
// (shape and style); the Entry is never recomputed, failures included. Each
// DTO gets its own Link holding its mapping plans. Concurrent first
// registrations of the same type are collapsed into one computation.
//
// Key types:
//   - Registry: owns the caches
//   - Entry: per entity type
//   - Link: per DTO type
package registry
