// Package services holds domain services that span several aggregates.
//
// The package includes:
//   - OrderDispatcher: the assignment engine, manual or nearest-available
//   - OrderLifecycle: order transitions and the delivery/fleet cascade they imply
//   - TamperDetector: rapid-scan and impossible-travel heuristics
//   - ScanVerifier: the ordered verification checks for a scanned cylinder
//
// Services never touch storage. They mutate the aggregates they are given and
// leave persistence and locking to the application layer.
package services
