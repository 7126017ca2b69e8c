package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	mw "github.com/Kingmac21-dev/ghl-telecom-middleware/internal/api/middleware"
	"github.com/Kingmac21-dev/ghl-telecom-middleware/internal/api/response"
)

// Dependencies holds all handler and middleware dependencies for the router.
type Dependencies struct {
	AdminAuth *mw.AdminAuth
	RateLimit *mw.RateLimit // optional; nil disables rate limiting

	RootHandler   http.HandlerFunc
	HealthHandler http.HandlerFunc

	GHLWebhookHandler   http.HandlerFunc
	VodiaNewCallHandler http.HandlerFunc

	UpsertSubaccountHandler http.HandlerFunc
	ListSubaccountsHandler  http.HandlerFunc
	CallReportHandler       http.HandlerFunc
	ContactReportHandler    http.HandlerFunc
}

// NewRouter builds the Chi router with middleware stack and all routes.
func NewRouter(deps Dependencies) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(mw.Logger)
	r.Use(mw.Recovery)

	// Public liveness
	r.Get("/", orNotImplemented(deps.RootHandler))
	r.Get("/healthz", orNotImplemented(deps.HealthHandler))

	r.Group(func(r chi.Router) {
		if deps.RateLimit != nil {
			r.Use(deps.RateLimit.Limit)
		}

		// Webhooks (unauthenticated: both peers deliver without credentials)
		r.Post("/ghl/webhook", orNotImplemented(deps.GHLWebhookHandler))
		r.Post("/webhooks/vodia/new-call", orNotImplemented(deps.VodiaNewCallHandler))

		// Admin routes
		r.Group(func(r chi.Router) {
			r.Use(deps.AdminAuth.Require)

			r.Post("/admin/subaccount", orNotImplemented(deps.UpsertSubaccountHandler))
			r.Get("/admin/subaccounts", orNotImplemented(deps.ListSubaccountsHandler))
			r.Get("/admin/calls", orNotImplemented(deps.CallReportHandler))
			r.Get("/admin/contacts", orNotImplemented(deps.ContactReportHandler))
		})
	})

	return r
}

// orNotImplemented returns the handler if non-nil, or a 501 placeholder.
func orNotImplemented(h http.HandlerFunc) http.HandlerFunc {
	if h != nil {
		return h
	}
	return func(w http.ResponseWriter, r *http.Request) {
		response.Error(w, http.StatusNotImplemented, "not_implemented", "Endpoint not yet implemented")
	}
}
