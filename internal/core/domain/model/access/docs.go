// Package access models who may call which core operation.
//
// Roles form a closed enumeration and every operation is a Capability. The
// capability table maps (Role, Capability) to a Scope: none, own records, or
// any record. Command and query handlers call Actor.Authorize or
// Actor.AuthorizeOwned before touching the store.
package access
