//go:build integration

// Package testdb provides utilities for database integration tests: locating
// the test database, applying the embedded migrations once per process, and
// running each test inside a transaction that is always rolled back.
//
// Tests using this package must carry the integration build tag and need
// DATABASE_URL (or KARENT_TEST_DB_URL) pointing at a disposable PostgreSQL
// database.
package testdb
