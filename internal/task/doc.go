// Package task runs background work such as keyword indexing of knowledge
// cards. Tasks are persisted through a Store before they are queued, so
// unfinished work survives a restart: on Start the Runner asks the Store for
// pending and interrupted tasks, which the Store rebuilds through a Registry
// of per-type factories.
package task
