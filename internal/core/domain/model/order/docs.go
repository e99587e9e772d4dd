// Package order provides the Order aggregate and its lifecycle state machine.
//
// The package includes:
//   - Order: the aggregate root holding addresses, pickup point, quantity and schedule
//   - Status: the state machine Pending -> Assigned -> OnRoute -> Delivered, with
//     Cancelled reachable from every non-terminal state
//   - Policy: configurable quantity and scheduling limits
//   - StatusChangedEvent: raised on every transition and published after commit
//
// Key business rules:
//   - quantity is positive and at most Policy.MaxQuantityKg (1000 kg by default)
//   - the scheduled time is in the future and within Policy.MaxScheduleAhead (30 days)
//   - Assigned is only entered through MarkAssigned, i.e. by the assignment engine
//   - terminal states reject every further transition, including a repeat of themselves
package order
