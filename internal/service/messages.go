package service

import "fmt"

// Messages that are not derived from an entity name.
const (
	MsgInvalidCredentials    = "Invalid email or password."
	MsgLoginSuccessful       = "Login successful."
	MsgCarUnavailable        = "Car is already rented for the selected dates."
	MsgRentalAlreadyReturned = "Rental has already been returned."
	MsgReferenceNotFound     = "Referenced data not found."
	MsgQuoteCalculated       = "Rental Return fee successfully calculated"
)

// messages builds the result messages for one entity.
type messages struct {
	entity string
}

var (
	carMessages          = messages{entity: "Car"}
	userMessages         = messages{entity: "User"}
	rentalMessages       = messages{entity: "Rental"}
	rentalReturnMessages = messages{entity: "Rental Return"}
)

func (m messages) inserted() string { return m.entity + " data successfully inserted" }
func (m messages) updated() string  { return m.entity + " data successfully updated" }
func (m messages) deleted() string  { return m.entity + " data successfully deleted" }
func (m messages) fetched() string  { return m.entity + " data successfully fetched" }
func (m messages) notFound() string { return m.entity + " not found" }
func (m messages) noneFound() string {
	return "No " + m.entity + " found"
}
func (m messages) fetchedN(n int) string {
	return fmt.Sprintf("%d %s data(s) successfully fetched", n, m.entity)
}
func (m messages) invalidID() string { return "Invalid " + m.entity + " ID" }
func (m messages) required() string  { return m.entity + " data is required." }
func (m messages) duplicate() string { return "Duplicate " + m.entity + " exists." }
func (m messages) inUse() string {
	return m.entity + " is currently in use and cannot be deleted."
}
func (m messages) internal() string {
	return "An unexpected error occurred while processing " + m.entity + " data."
}
