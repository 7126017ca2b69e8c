// Package routing implements the call-event routing engine: resolving each
// webhook event to exactly one subaccount, capturing the caller's identity,
// appending the audit ledger, and building the payload for the opposite side
// of the bridge.
package routing

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/Kingmac21-dev/ghl-telecom-middleware/internal/ghl"
	"github.com/Kingmac21-dev/ghl-telecom-middleware/internal/store"
	"github.com/Kingmac21-dev/ghl-telecom-middleware/pkg/models"
)

// Validation sentinels. Handlers map these to 400 responses with stable
// reason codes; anything else on the critical path surfaces as a 500.
var (
	ErrDestinationMissing  = errors.New("destination number missing")
	ErrNoRoutingConfigured = errors.New("no routing configured for this DID")
	ErrNoSubaccountFound   = errors.New("no subaccount found for this locationId")
)

// Service routes call events. Safe for concurrent use; no state is held
// between calls and no locks are taken across the lookup/upsert/log/forward
// sequence; correctness relies on storage-layer constraints and
// last-write-wins identity semantics.
type Service struct {
	store          store.Store
	forwarder      ghl.Forwarder
	forwardTimeout time.Duration
	logger         *slog.Logger
}

// NewService creates a routing service.
func NewService(st store.Store, fw ghl.Forwarder, forwardTimeout time.Duration, logger *slog.Logger) *Service {
	return &Service{
		store:          st,
		forwarder:      fw,
		forwardTimeout: forwardTimeout,
		logger:         logger,
	}
}

// appendCallLog writes one audit record. Errors are logged and swallowed:
// audit logging must never become a reason to fail a live call event.
func (s *Service) appendCallLog(ctx context.Context, callType, phone, contactID, locationID, status string, raw json.RawMessage) {
	log := &models.CallLog{
		ID:         uuid.New(),
		Type:       callType,
		Phone:      phone,
		ContactID:  contactID,
		LocationID: locationID,
		Status:     status,
		Payload:    raw,
		CreatedAt:  time.Now().UTC(),
	}
	if err := s.store.CreateCallLog(ctx, log); err != nil {
		s.logger.Error("call log append failed",
			"type", callType,
			"location_id", locationID,
			"error", err,
		)
	}
}
