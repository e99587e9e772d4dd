// Package delivery holds the Delivery aggregate, created when an order is
// assigned, and the append-only TrackingLog reports sent by drivers.
package delivery
