package store

import (
	"context"
	"errors"

	"github.com/Kingmac21-dev/ghl-telecom-middleware/pkg/models"
)

var ErrNotFound = errors.New("resource not found")
var ErrDuplicateKey = errors.New("duplicate key violation")

// Store is the data access interface. All database operations go through
// here; the routing engine never sees which backend is behind it.
//
// Phone-number arguments (DIDs, contact phones) must already be in canonical
// digits-only form; lookups match on exact canonical keys.
type Store interface {
	Ping(ctx context.Context) error

	GetSubaccountByLocationID(ctx context.Context, locationID string) (*models.Subaccount, error)
	GetSubaccountByDID(ctx context.Context, did string) (*models.Subaccount, error)
	// UpsertSubaccount creates the subaccount or fully replaces the fields of
	// the one holding the same locationId. A DID already owned by a different
	// location fails with ErrDuplicateKey.
	UpsertSubaccount(ctx context.Context, sub *models.Subaccount) error
	ListSubaccounts(ctx context.Context) ([]*models.Subaccount, error)

	// UpsertContact writes a caller identity keyed by canonical phone.
	// Repeat writes for the same phone replace name, contactId and
	// locationId (last write wins).
	UpsertContact(ctx context.Context, contact *models.Contact) error
	ListContacts(ctx context.Context, limit int) ([]*models.Contact, error)

	// CreateCallLog appends one audit record. Call logs are never updated
	// or deleted.
	CreateCallLog(ctx context.Context, log *models.CallLog) error
	ListCallLogs(ctx context.Context, filter CallLogFilter) ([]*models.CallLog, int, error)
}

// CallLogFilter narrows and pages the call-log report.
type CallLogFilter struct {
	Type       string
	LocationID string
	Page       int
	Limit      int
}
