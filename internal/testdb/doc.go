// Package testdb opens a migrated PostgreSQL database for integration tests
// and isolates each test in a rolled-back transaction.
//
// Tests that use it carry the integration build tag and are skipped when
// METANAV_TEST_DATABASE_URL (or DATABASE_URL) is not set:
//
//	METANAV_TEST_DATABASE_URL=postgres://... go test -tags=integration ./...
package testdb
