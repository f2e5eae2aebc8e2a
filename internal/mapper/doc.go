// Package mapper executes plans built by package plan against live values.
//
// Key functions:
//   - ApplyCopy: copies fields between two struct values
//   - Invoke: calls a constructor or factory with arguments taken from a DTO
//   - CallUpdater: calls an updater method on a stored entity
package mapper
