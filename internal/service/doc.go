// Package service holds the application services behind the HTTP API:
// learning sessions and their flow, cognitive maps, and knowledge cards.
//
// Services return the sentinel errors declared in errors.go for expected
// conditions such as a missing entity, domain validation errors unchanged,
// and a *ServiceError wrapping anything unexpected.
package service
