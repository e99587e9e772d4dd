// Package errs provides the error taxonomy shared by the dispatch engine.
//
// Every error kind follows the same shape: a sentinel (ErrXxx) usable with
// errors.Is, a struct carrying the details, New* constructors, and an Unwrap
// method returning the sentinel.
//
//   - ValueIsRequired, ValueIsInvalid, ValueIsOutOfRange: field validation
//   - ObjectNotFound: missing aggregate or record
//   - InvalidTransition: a state machine rejected the requested move
//   - ResourceUnavailable: no driver, vehicle or cylinder satisfies the constraints
//   - PermissionDenied: the actor lacks the capability or does not own the record
//   - Conflict: a concurrent writer won the race; the operation may be retried
//
// Anything else reaching an adapter is treated as an internal failure.
package errs
