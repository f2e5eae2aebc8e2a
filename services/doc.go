// Package services runs create, read, update and delete for a registered DTO
// type against a persistence store.
//
// A Service[D] is built once per DTO type from a registry in which D was
// registered. Every call opens its own persist.Context, so a Service is safe
// for concurrent use. Every call returns a status.Status; no call panics on
// bad input or on domain validation failures.
package services
