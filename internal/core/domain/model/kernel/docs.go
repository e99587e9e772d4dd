// Package kernel provides the value objects shared by every aggregate of the
// dispatch engine:
//   - UUID: identifiers backed by github.com/google/uuid
//   - GeoPoint: validated WGS84 coordinates with great-circle distance
//   - DomainEvent / EventRecorder: events raised by aggregates and published after commit
package kernel
