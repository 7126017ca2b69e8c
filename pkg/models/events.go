package models

// Typed webhook event shapes. Routing logic only ever sees these; the raw
// request body travels alongside solely for the call log's forensic copy.

// GHLWebhookRequest is the envelope GHL posts to /ghl/webhook. All routable
// fields live under customData.
type GHLWebhookRequest struct {
	CustomData GHLCustomData `json:"customData"`
}

// GHLCustomData carries an outbound-call request from the CRM.
type GHLCustomData struct {
	Type       string `json:"type"`
	Phone      string `json:"phone"`
	ContactID  string `json:"contactId"`
	Name       string `json:"name"`
	LocationID string `json:"locationId"`
}

// VodiaNewCallEvent is an inbound-call notification from the PBX.
type VodiaNewCallEvent struct {
	ToNumber   string `json:"to_number"`
	FromNumber string `json:"from_number"`
	FromName   string `json:"from_name"`
	ContactID  string `json:"contact_id"`
	CallID     string `json:"call_id"`
}

// GHLInboundPayload is the translated event forwarded to a subaccount's
// inbound webhook URL when a call arrives on its DID.
type GHLInboundPayload struct {
	Phone      string `json:"phone"`
	FirstName  string `json:"first_name"`
	LastName   string `json:"last_name"`
	Email      string `json:"email"`
	CallID     string `json:"call_id"`
	Direction  string `json:"direction"`
	LocationID string `json:"locationId"`
}

// VodiaCallPayload is the call-placement payload built for the PBX in
// response to an outbound-call request. Construction and validation end the
// router's contract; actual placement happens downstream.
type VodiaCallPayload struct {
	FromNumber  string `json:"from_number"`
	ToNumber    string `json:"to_number"`
	ContactName string `json:"contact_name"`
	ContactID   string `json:"contact_id"`
	LocationID  string `json:"locationId"`
}
