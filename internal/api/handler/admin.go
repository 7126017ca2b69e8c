package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/Kingmac21-dev/ghl-telecom-middleware/internal/api/response"
	"github.com/Kingmac21-dev/ghl-telecom-middleware/internal/phone"
	"github.com/Kingmac21-dev/ghl-telecom-middleware/internal/store"
	"github.com/Kingmac21-dev/ghl-telecom-middleware/pkg/models"
)

type upsertSubaccountRequest struct {
	Name          string `json:"name"`
	LocationID    string `json:"locationId"`
	GHLInboundURL string `json:"ghlInboundUrl"`
	DIDNumber     string `json:"didNumber"`
}

// NewUpsertSubaccountHandler returns the handler for POST /admin/subaccount.
// Routing paths never create subaccounts; this is the only write surface for
// the tenant directory.
func NewUpsertSubaccountHandler(st store.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req upsertSubaccountRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			response.Error(w, http.StatusBadRequest, "invalid_json", "Invalid JSON body")
			return
		}

		did := phone.Normalize(req.DIDNumber)
		if req.LocationID == "" || req.GHLInboundURL == "" || did == "" {
			response.Error(w, http.StatusBadRequest, "missing_fields",
				"locationId, ghlInboundUrl and didNumber are required")
			return
		}

		now := time.Now().UTC()
		sub := &models.Subaccount{
			ID:            uuid.New(),
			Name:          req.Name,
			LocationID:    req.LocationID,
			GHLInboundURL: req.GHLInboundURL,
			DIDNumber:     did,
			CreatedAt:     now,
			UpdatedAt:     now,
		}

		if err := st.UpsertSubaccount(r.Context(), sub); err != nil {
			if errors.Is(err, store.ErrDuplicateKey) {
				response.Error(w, http.StatusConflict, "did_in_use",
					"didNumber is already routed to another subaccount")
				return
			}
			response.Error(w, http.StatusInternalServerError, "store_error",
				"Failed to save subaccount")
			return
		}

		response.JSON(w, map[string]any{"success": true})
	}
}

// NewListSubaccountsHandler returns the handler for GET /admin/subaccounts.
func NewListSubaccountsHandler(st store.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		subs, err := st.ListSubaccounts(r.Context())
		if err != nil {
			response.Error(w, http.StatusInternalServerError, "store_error",
				"Failed to list subaccounts")
			return
		}
		if subs == nil {
			subs = []*models.Subaccount{}
		}
		response.JSON(w, subs)
	}
}
