// Package status provides the result value returned by every operation of the
// engine: a validity flag, a success message and an ordered list of errors.
//
// Statuses produced by independent layers (registration, construction,
// persistence) are merged with Combine, which keeps every error exactly once
// and in order.
//
// Key types:
//   - Status: message + errors; valid when it carries no errors
//   - ErrorDetail: one failure with its Kind, Code, entity and property
//   - Error: an ErrorDetail as a Go error, matchable with errors.Is
package status
