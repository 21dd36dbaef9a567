// Package mocks provides centralized test doubles for the store, auth and
// session interfaces.
//
// Memory is an in-memory replacement for the PostgreSQL stores. It enforces
// the same foreign keys, unique constraints and join columns as the schema,
// and its TxRunner restores a snapshot when a transaction function fails, so
// service tests can observe rollback without a database.
//
//	mem := mocks.NewMemory()
//	svc, _ := service.NewCarService(mem.TxRunner(), mem.CarStore(), mem.RentalStore(), logger)
//
// Failures are injected per operation:
//
//	mem.Fail("CarStore.Insert", errors.New("connection reset"))
//
// The Testify* types wrap testify/mock for tests that assert on exact calls.
package mocks
