package routing

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/Kingmac21-dev/ghl-telecom-middleware/internal/phone"
	"github.com/Kingmac21-dev/ghl-telecom-middleware/internal/store"
	"github.com/Kingmac21-dev/ghl-telecom-middleware/pkg/models"
)

// OutboundResult carries the call-placement payload built for the PBX.
// Actual placement happens downstream; the router's contract ends here.
type OutboundResult struct {
	LocationID string
	Payload    models.VodiaCallPayload
}

// HandleOutbound routes an outbound-call request from the CRM. It resolves
// the subaccount by locationId, captures the contact identity, appends the
// ledger and builds the placement payload. Unlike the inbound path, a failed
// identity write fails the whole request: identity capture is part of the
// outbound contract and the CRM can retry.
func (s *Service) HandleOutbound(ctx context.Context, event models.GHLCustomData, raw json.RawMessage) (*OutboundResult, error) {
	normalized := phone.Normalize(event.Phone)

	sub, err := s.store.GetSubaccountByLocationID(ctx, event.LocationID)
	if errors.Is(err, store.ErrNotFound) {
		return nil, ErrNoSubaccountFound
	}
	if err != nil {
		return nil, fmt.Errorf("resolving subaccount by location id: %w", err)
	}

	now := time.Now().UTC()
	contact := &models.Contact{
		ID:         uuid.New(),
		Name:       event.Name,
		Phone:      normalized,
		ContactID:  event.ContactID,
		LocationID: sub.LocationID,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if err := s.store.UpsertContact(ctx, contact); err != nil {
		return nil, fmt.Errorf("upserting contact: %w", err)
	}

	s.appendCallLog(ctx, models.CallTypeOutbound, normalized, event.ContactID,
		sub.LocationID, models.CallStatusProcessed, raw)

	payload := models.VodiaCallPayload{
		FromNumber:  sub.DIDNumber,
		ToNumber:    normalized,
		ContactName: event.Name,
		ContactID:   event.ContactID,
		LocationID:  sub.LocationID,
	}
	s.logger.Info("outbound call payload built",
		"location_id", sub.LocationID,
		"from_number", payload.FromNumber,
		"to_number", payload.ToNumber,
	)

	return &OutboundResult{LocationID: sub.LocationID, Payload: payload}, nil
}
