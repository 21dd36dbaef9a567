// Package store defines interfaces for data persistence operations.
// These interfaces abstract the underlying data storage mechanism from
// the services, so business rules stay independent of the database.
//
// Every store exposes WithTx so a service can run several store calls
// inside one transaction opened by RunInTransaction.
package store
