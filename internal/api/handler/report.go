package handler

import (
	"net/http"
	"strconv"

	"github.com/Kingmac21-dev/ghl-telecom-middleware/internal/api/response"
	"github.com/Kingmac21-dev/ghl-telecom-middleware/internal/store"
	"github.com/Kingmac21-dev/ghl-telecom-middleware/pkg/models"
)

// Read-only reporting endpoints over the ledger and identity store. These
// replace ad-hoc table-dump tooling; they reuse the same store operations the
// routers do and never mutate anything.

// NewCallReportHandler returns the handler for GET /admin/calls.
// Query parameters: type, locationId, page, limit.
func NewCallReportHandler(st store.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		filter := store.CallLogFilter{
			Type:       q.Get("type"),
			LocationID: q.Get("locationId"),
			Page:       atoiOrZero(q.Get("page")),
			Limit:      atoiOrZero(q.Get("limit")),
		}

		logs, total, err := st.ListCallLogs(r.Context(), filter)
		if err != nil {
			response.Error(w, http.StatusInternalServerError, "store_error",
				"Failed to list call logs")
			return
		}
		if logs == nil {
			logs = []*models.CallLog{}
		}

		page := filter.Page
		if page <= 0 {
			page = 1
		}
		limit := filter.Limit
		if limit <= 0 {
			limit = 20
		}
		response.Collection(w, logs, response.PaginationMeta{
			Page:  page,
			Limit: limit,
			Total: total,
		})
	}
}

// NewContactReportHandler returns the handler for GET /admin/contacts.
func NewContactReportHandler(st store.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		limit := atoiOrZero(r.URL.Query().Get("limit"))

		contacts, err := st.ListContacts(r.Context(), limit)
		if err != nil {
			response.Error(w, http.StatusInternalServerError, "store_error",
				"Failed to list contacts")
			return
		}
		if contacts == nil {
			contacts = []*models.Contact{}
		}
		response.JSON(w, contacts)
	}
}

func atoiOrZero(s string) int {
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0
	}
	return n
}
