// Package fleet models drivers and vehicles. A driver and a vehicle are paired
// one-to-one; the pair is reserved together when an order is assigned and
// released together when the order is delivered or cancelled.
package fleet
