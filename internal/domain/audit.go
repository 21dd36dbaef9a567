package domain

import "time"

// Audit carries the optional creator/modifier stamps shared by every entity.
type Audit struct {
	CreatedBy  *int64     `json:"created_by,omitempty"`
	CreatedOn  *time.Time `json:"created_on,omitempty"`
	ModifiedBy *int64     `json:"modified_by,omitempty"`
	ModifiedOn *time.Time `json:"modified_on,omitempty"`
}

// StampCreated records who created the entity and when.
func (a *Audit) StampCreated(by *int64, at time.Time) {
	a.CreatedBy = by
	a.CreatedOn = &at
}

// StampModified records who last modified the entity and when.
func (a *Audit) StampModified(by *int64, at time.Time) {
	a.ModifiedBy = by
	a.ModifiedOn = &at
}
