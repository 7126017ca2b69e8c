package models

import (
	"time"

	"github.com/google/uuid"
)

// Contact is a captured caller identity, keyed by its canonical phone number.
// Repeat events for the same phone overwrite the record (last write wins);
// stale fields self-heal on the next event for that number.
type Contact struct {
	ID         uuid.UUID `db:"id"          json:"id"`
	Name       string    `db:"name"        json:"name"`
	Phone      string    `db:"phone"       json:"phone"`
	ContactID  string    `db:"contact_id"  json:"contactId"`
	LocationID string    `db:"location_id" json:"locationId"`
	CreatedAt  time.Time `db:"created_at"  json:"created_at"`
	UpdatedAt  time.Time `db:"updated_at"  json:"updated_at"`
}
