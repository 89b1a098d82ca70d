// Package api provides the HTTP handlers for learning sessions, cognitive
// maps, knowledge cards and keyword extraction. Handlers decode and validate
// requests, call the service layer and translate its errors into status
// codes with messages that never expose internal details.
package api
