// Package domain defines the core business entities of the car rental system:
// cars, users, rentals and rental returns, together with their validation
// rules and the late-fee arithmetic that closes a rental.
package domain
