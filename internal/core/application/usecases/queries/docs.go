// Package queries contains read-only use cases. Handlers read straight from
// the database through gorm and never load aggregates.
package queries
