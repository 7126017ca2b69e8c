// Package handler contains the HTTP handlers for webhook, administrative and
// reporting endpoints. Handlers decode typed request shapes, keep the raw
// body for the call log's forensic copy and map routing sentinels to stable
// error codes.
package handler

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/Kingmac21-dev/ghl-telecom-middleware/internal/api/response"
	"github.com/Kingmac21-dev/ghl-telecom-middleware/internal/routing"
	"github.com/Kingmac21-dev/ghl-telecom-middleware/pkg/models"
)

const maxBodyBytes = 1 << 20

// OutboundRouter defines the routing dependency of the GHL webhook handler.
type OutboundRouter interface {
	HandleOutbound(ctx context.Context, event models.GHLCustomData, raw json.RawMessage) (*routing.OutboundResult, error)
}

type outboundResponse struct {
	Success    bool                    `json:"success"`
	Message    string                  `json:"message"`
	LocationID string                  `json:"locationId"`
	Payload    models.VodiaCallPayload `json:"payload"`
}

// NewGHLWebhookHandler returns the handler for POST /ghl/webhook. GHL wraps
// all routable fields in customData; only outbound_call events are routable
// today.
func NewGHLWebhookHandler(svc OutboundRouter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		raw, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
		if err != nil {
			response.Error(w, http.StatusBadRequest, "invalid_body", "Could not read request body")
			return
		}

		var req models.GHLWebhookRequest
		if err := json.Unmarshal(raw, &req); err != nil {
			response.Error(w, http.StatusBadRequest, "invalid_json", "Invalid JSON body")
			return
		}

		data := req.CustomData
		if data.Type == "" {
			response.Error(w, http.StatusBadRequest, "type_missing", "No type provided")
			return
		}

		switch data.Type {
		case models.CallTypeOutbound:
			if data.LocationID == "" {
				response.Error(w, http.StatusBadRequest, "location_id_missing", "locationId missing")
				return
			}

			result, err := svc.HandleOutbound(r.Context(), data, raw)
			if err != nil {
				if errors.Is(err, routing.ErrNoSubaccountFound) {
					response.Error(w, http.StatusBadRequest, "no_subaccount_found",
						"No subaccount found. Ensure locationId is correct.")
					return
				}
				response.Error(w, http.StatusInternalServerError, "internal_error",
					"Failed to process outbound call")
				return
			}

			response.JSON(w, outboundResponse{
				Success:    true,
				Message:    "Outbound call processed",
				LocationID: result.LocationID,
				Payload:    result.Payload,
			})
		default:
			response.Error(w, http.StatusBadRequest, "unknown_type", "Unknown type")
		}
	}
}
