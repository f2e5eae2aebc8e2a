// Package diagnostic provides structured warnings, errors and notes about
// DTO links, collected by the static and registry reports.
//
// Key capabilities:
//   - Unmatched DTO field warnings with "did you mean" suggestions
//   - Type compatibility findings per field pair
//   - Conversion of registration statuses into diagnostics
package diagnostic
