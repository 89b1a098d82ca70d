// Package flow drives a learning session through the metacognitive cycle.
//
// Machine is the pure transition function: it takes the accumulated session
// data and one assessment, and returns the next step together with the new
// data. It performs no I/O and never mutates its input.
//
// Engine wraps a Machine around a store.SessionStore. Each operation validates
// its input, then performs one locked read-modify-write of the session, so
// concurrent calls for the same session are serialized by the store.
package flow
