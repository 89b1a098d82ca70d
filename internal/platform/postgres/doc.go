// Package postgres implements the store interfaces and task.Store on
// PostgreSQL through database/sql with the pgx driver. Schema migrations are
// embedded and applied with goose.
package postgres
