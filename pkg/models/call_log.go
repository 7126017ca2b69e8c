package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

const (
	CallTypeInbound  = "inbound_call"
	CallTypeOutbound = "outbound_call"

	CallStatusProcessed = "processed"
	CallStatusReceived  = "received"
)

// CallLog is one append-only audit record per processed call event. Payload
// holds the verbatim original event body for forensic replay; the typed
// fields exist for filtering and never feed back into routing decisions.
type CallLog struct {
	ID         uuid.UUID       `db:"id"          json:"id"`
	Type       string          `db:"type"        json:"type"`
	Phone      string          `db:"phone"       json:"phone"`
	ContactID  string          `db:"contact_id"  json:"contactId"`
	LocationID string          `db:"location_id" json:"locationId"`
	Status     string          `db:"status"      json:"status"`
	Payload    json.RawMessage `db:"payload"     json:"payload"`
	CreatedAt  time.Time       `db:"created_at"  json:"created_at"`
}
