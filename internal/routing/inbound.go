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

const (
	defaultInboundFirstName = "Inbound"
	inboundLastName         = "Caller"
	fallbackInboundEmail    = "inbound@placeholder.com"
)

// InboundResult reports where an inbound call was routed.
type InboundResult struct {
	RoutedTo string
}

// HandleInbound routes a new-call notification from the PBX. It resolves the
// subaccount by the dialed DID, captures the caller identity, appends the
// ledger and makes one best-effort forwarding attempt to the subaccount's
// inbound webhook. Once the subaccount resolves, the call never fails: the
// PBX cannot usefully act on a relay error.
func (s *Service) HandleInbound(ctx context.Context, event models.VodiaNewCallEvent, raw json.RawMessage) (*InboundResult, error) {
	did := phone.Normalize(event.ToNumber)
	if did == "" {
		return nil, ErrDestinationMissing
	}

	sub, err := s.store.GetSubaccountByDID(ctx, did)
	if errors.Is(err, store.ErrNotFound) {
		return nil, ErrNoRoutingConfigured
	}
	if err != nil {
		return nil, fmt.Errorf("resolving subaccount by did: %w", err)
	}

	callerPhone := phone.Normalize(event.FromNumber)
	firstName := event.FromName
	if firstName == "" {
		firstName = defaultInboundFirstName
	}
	email := fallbackInboundEmail
	if callerPhone != "" {
		email = callerPhone + "@placeholder.com"
	}

	now := time.Now().UTC()
	contact := &models.Contact{
		ID:         uuid.New(),
		Name:       firstName + " " + inboundLastName,
		Phone:      callerPhone,
		ContactID:  event.ContactID,
		LocationID: sub.LocationID,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if err := s.store.UpsertContact(ctx, contact); err != nil {
		// Identity capture self-heals on the next event for this number;
		// dropping the call notification over it would not.
		s.logger.Error("inbound contact upsert failed",
			"phone", callerPhone,
			"location_id", sub.LocationID,
			"error", err,
		)
	}

	s.appendCallLog(ctx, models.CallTypeInbound, callerPhone, event.ContactID,
		sub.LocationID, models.CallStatusReceived, raw)

	payload := models.GHLInboundPayload{
		Phone:      callerPhone,
		FirstName:  firstName,
		LastName:   inboundLastName,
		Email:      email,
		CallID:     event.CallID,
		Direction:  "inbound",
		LocationID: sub.LocationID,
	}
	s.forward(ctx, sub.GHLInboundURL, payload)

	return &InboundResult{RoutedTo: sub.LocationID}, nil
}

// forward makes the single best-effort delivery attempt, bounded by the
// configured timeout and detached from the request's cancellation. The
// outcome is logged and discarded.
func (s *Service) forward(ctx context.Context, url string, payload models.GHLInboundPayload) {
	fwdCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.forwardTimeout)
	defer cancel()

	if err := s.forwarder.ForwardInbound(fwdCtx, url, payload); err != nil {
		s.logger.Error("inbound forward to GHL failed",
			"url", url,
			"location_id", payload.LocationID,
			"error", err,
		)
		return
	}
	s.logger.Info("inbound forwarded to GHL",
		"location_id", payload.LocationID,
		"call_id", payload.CallID,
	)
}
