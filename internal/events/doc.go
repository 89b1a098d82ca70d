// Package events carries domain events between services and background
// workers without either side importing the other.
//
// Services publish an Event through an Emitter. Handlers subscribe to one
// or more event types; the in-memory emitter dispatches synchronously in
// subscription order.
package events
