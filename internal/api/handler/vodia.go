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

// InboundRouter defines the routing dependency of the Vodia webhook handler.
type InboundRouter interface {
	HandleInbound(ctx context.Context, event models.VodiaNewCallEvent, raw json.RawMessage) (*routing.InboundResult, error)
}

type inboundResponse struct {
	Success  bool   `json:"success"`
	RoutedTo string `json:"routedTo"`
}

// NewVodiaNewCallHandler returns the handler for POST /webhooks/vodia/new-call.
func NewVodiaNewCallHandler(svc InboundRouter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		raw, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
		if err != nil {
			response.Error(w, http.StatusBadRequest, "invalid_body", "Could not read request body")
			return
		}

		var event models.VodiaNewCallEvent
		if err := json.Unmarshal(raw, &event); err != nil {
			response.Error(w, http.StatusBadRequest, "invalid_json", "Invalid JSON body")
			return
		}

		result, err := svc.HandleInbound(r.Context(), event, raw)
		if err != nil {
			switch {
			case errors.Is(err, routing.ErrDestinationMissing):
				response.Error(w, http.StatusBadRequest, "destination_missing",
					"Destination number missing")
			case errors.Is(err, routing.ErrNoRoutingConfigured):
				response.Error(w, http.StatusBadRequest, "no_routing_configured",
					"No routing configured for this DID")
			default:
				response.Error(w, http.StatusInternalServerError, "internal_error",
					"Failed to process inbound call")
			}
			return
		}

		response.JSON(w, inboundResponse{Success: true, RoutedTo: result.RoutedTo})
	}
}
