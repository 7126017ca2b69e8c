package routing_test

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/Kingmac21-dev/ghl-telecom-middleware/internal/routing"
	"github.com/Kingmac21-dev/ghl-telecom-middleware/internal/store"
	"github.com/Kingmac21-dev/ghl-telecom-middleware/pkg/models"
)

// --- Mock store ---

type mockStore struct {
	subaccounts map[string]*models.Subaccount // keyed by location_id

	contacts []*models.Contact
	callLogs []*models.CallLog

	contactErr error
	callLogErr error
}

func newMockStore(subs ...*models.Subaccount) *mockStore {
	m := &mockStore{subaccounts: map[string]*models.Subaccount{}}
	for _, sub := range subs {
		m.subaccounts[sub.LocationID] = sub
	}
	return m
}

func (m *mockStore) Ping(_ context.Context) error { return nil }

func (m *mockStore) GetSubaccountByLocationID(_ context.Context, locationID string) (*models.Subaccount, error) {
	if sub, ok := m.subaccounts[locationID]; ok {
		return sub, nil
	}
	return nil, store.ErrNotFound
}

func (m *mockStore) GetSubaccountByDID(_ context.Context, did string) (*models.Subaccount, error) {
	for _, sub := range m.subaccounts {
		if sub.DIDNumber == did {
			return sub, nil
		}
	}
	return nil, store.ErrNotFound
}

func (m *mockStore) UpsertSubaccount(_ context.Context, sub *models.Subaccount) error {
	m.subaccounts[sub.LocationID] = sub
	return nil
}

func (m *mockStore) ListSubaccounts(_ context.Context) ([]*models.Subaccount, error) {
	return nil, nil
}

func (m *mockStore) UpsertContact(_ context.Context, contact *models.Contact) error {
	if m.contactErr != nil {
		return m.contactErr
	}
	m.contacts = append(m.contacts, contact)
	return nil
}

func (m *mockStore) ListContacts(_ context.Context, _ int) ([]*models.Contact, error) {
	return m.contacts, nil
}

func (m *mockStore) CreateCallLog(_ context.Context, log *models.CallLog) error {
	if m.callLogErr != nil {
		return m.callLogErr
	}
	m.callLogs = append(m.callLogs, log)
	return nil
}

func (m *mockStore) ListCallLogs(_ context.Context, _ store.CallLogFilter) ([]*models.CallLog, int, error) {
	return m.callLogs, len(m.callLogs), nil
}

// --- Mock forwarder ---

type mockForwarder struct {
	calls []forwardCall
	err   error
}

type forwardCall struct {
	url     string
	payload models.GHLInboundPayload
}

func (f *mockForwarder) ForwardInbound(_ context.Context, url string, payload models.GHLInboundPayload) error {
	f.calls = append(f.calls, forwardCall{url: url, payload: payload})
	return f.err
}

// --- Helpers ---

func discardLogger() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

func testSubaccount() *models.Subaccount {
	return &models.Subaccount{
		Name:          "Acme Dental",
		LocationID:    "loc1",
		GHLInboundURL: "https://example/cb",
		DIDNumber:     "15550001111",
		CreatedAt:     time.Now().UTC(),
		UpdatedAt:     time.Now().UTC(),
	}
}

func newService(st store.Store, fw *mockForwarder) *routing.Service {
	return routing.NewService(st, fw, time.Second, discardLogger())
}

var errStorage = errors.New("storage unavailable")

func rawBody(t *testing.T, v any) json.RawMessage {
	t.Helper()
	b, err := json.Marshal(v)
	if err != nil {
		t.Fatal(err)
	}
	return b
}
