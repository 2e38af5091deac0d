// Package errs defines the error taxonomy shared by the ordering core
// and its adapters. Every error surfaced by the domain model, the
// command and query handlers, and the repositories is one of the types
// declared here, which lets the HTTP layer map errors to status codes
// with errors.Is and errors.As instead of string matching.
//
// The taxonomy:
//   - ValueIsRequiredError: a mandatory value is missing
//   - ValueIsInvalidError: a value fails validation
//   - ValueIsOutOfRangeError: a value lies outside its allowed bounds
//   - ObjectNotFoundError: a referenced aggregate does not exist
//   - VersionIsInvalidError: a stored aggregate version cannot be read
//   - ConcurrencyConflictError: a conditional write lost a race
//   - InfrastructureError: a store or transport failure whose detail
//     stays out of client-facing messages
//
// Each type pairs a sentinel (for errors.Is classification) with a
// struct carrying the detail (for errors.As extraction), plus
// constructors with and without an underlying cause. Messages pass
// through sanitize so multi-line causes collapse into loggable text.
package errs
