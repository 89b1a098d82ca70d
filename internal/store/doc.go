// Package store declares the persistence contracts of the learning flow:
// session, cognitive map and knowledge card stores, the DBTX handle they
// share, transaction helpers and the error categories implementations
// return. PostgreSQL implementations live in internal/platform/postgres.
package store
