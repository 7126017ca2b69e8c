package models

import (
	"time"

	"github.com/google/uuid"
)

// Subaccount is a routed tenant. Each subaccount is identified in the CRM by
// its locationId and owns exactly one inbound DID; both are unique across the
// directory and a subaccount is resolvable by either.
type Subaccount struct {
	ID            uuid.UUID `db:"id"              json:"id"`
	Name          string    `db:"name"            json:"name"`
	LocationID    string    `db:"location_id"     json:"locationId"`
	GHLInboundURL string    `db:"ghl_inbound_url" json:"ghlInboundUrl"`
	DIDNumber     string    `db:"did_number"      json:"didNumber"`
	CreatedAt     time.Time `db:"created_at"      json:"created_at"`
	UpdatedAt     time.Time `db:"updated_at"      json:"updated_at"`
}
