// Package service contains the car-rental use cases. Each service owns one
// entity's validation and the guard checks that span entities: duplicate
// detection, in-use checks before deletes, availability and one return per
// rental.
//
// Services never report business outcomes as Go errors. Every operation
// returns a Result carrying the data, a human-readable message and a Status;
// the API layer maps the Status onto an HTTP status code. Only unexpected
// persistence failures become StatusInternalError, in which case the raw
// error is kept in Result.Err for logging and the message stays generic.
//
// Mutating operations run inside a single transaction obtained from a
// store.TxRunner. A guard that fails inside the transaction aborts it with a
// statusError, so partial writes are rolled back and the caller still gets a
// regular Result.
package service
