// Package postgres provides PostgreSQL implementations of the store
// interfaces defined in internal/store. Stores accept a store.DBTX so the same
// code runs against a pool or inside a transaction, map driver errors onto
// store sentinels wrapped in a store.StoreError naming the entity and
// operation, and read the schema from the goose
// migrations embedded in this package.
package postgres
