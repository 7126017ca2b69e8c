package store

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Kingmac21-dev/ghl-telecom-middleware/pkg/models"
)

// PostgresStore implements the Store interface using pgx/v5.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgresStore creates a new PostgresStore.
func NewPostgresStore(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

// Ping checks database connectivity.
func (s *PostgresStore) Ping(ctx context.Context) error {
	return s.pool.Ping(ctx)
}

// --- Subaccounts ---

func (s *PostgresStore) GetSubaccountByLocationID(ctx context.Context, locationID string) (*models.Subaccount, error) {
	var sub models.Subaccount
	err := s.pool.QueryRow(ctx,
		`SELECT id, name, location_id, ghl_inbound_url, did_number, created_at, updated_at
		 FROM subaccounts WHERE location_id = $1`, locationID,
	).Scan(&sub.ID, &sub.Name, &sub.LocationID, &sub.GHLInboundURL, &sub.DIDNumber,
		&sub.CreatedAt, &sub.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get subaccount by location id: %w", err)
	}
	return &sub, nil
}

func (s *PostgresStore) GetSubaccountByDID(ctx context.Context, did string) (*models.Subaccount, error) {
	var sub models.Subaccount
	err := s.pool.QueryRow(ctx,
		`SELECT id, name, location_id, ghl_inbound_url, did_number, created_at, updated_at
		 FROM subaccounts WHERE did_number = $1`, did,
	).Scan(&sub.ID, &sub.Name, &sub.LocationID, &sub.GHLInboundURL, &sub.DIDNumber,
		&sub.CreatedAt, &sub.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get subaccount by did: %w", err)
	}
	return &sub, nil
}

func (s *PostgresStore) UpsertSubaccount(ctx context.Context, sub *models.Subaccount) error {
	_, err := s.pool.Exec(ctx,
		`INSERT INTO subaccounts (id, name, location_id, ghl_inbound_url, did_number, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)
		 ON CONFLICT (location_id) DO UPDATE SET
		   name = EXCLUDED.name,
		   ghl_inbound_url = EXCLUDED.ghl_inbound_url,
		   did_number = EXCLUDED.did_number,
		   updated_at = NOW()`,
		sub.ID, sub.Name, sub.LocationID, sub.GHLInboundURL, sub.DIDNumber,
		sub.CreatedAt, sub.UpdatedAt)
	if err != nil {
		if isDuplicateKeyError(err) {
			return ErrDuplicateKey
		}
		return fmt.Errorf("upsert subaccount: %w", err)
	}
	return nil
}

func (s *PostgresStore) ListSubaccounts(ctx context.Context) ([]*models.Subaccount, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT id, name, location_id, ghl_inbound_url, did_number, created_at, updated_at
		 FROM subaccounts ORDER BY created_at`)
	if err != nil {
		return nil, fmt.Errorf("list subaccounts: %w", err)
	}
	defer rows.Close()

	var subs []*models.Subaccount
	for rows.Next() {
		var sub models.Subaccount
		if err := rows.Scan(&sub.ID, &sub.Name, &sub.LocationID, &sub.GHLInboundURL,
			&sub.DIDNumber, &sub.CreatedAt, &sub.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan subaccount: %w", err)
		}
		subs = append(subs, &sub)
	}
	return subs, rows.Err()
}

// --- Contacts ---

func (s *PostgresStore) UpsertContact(ctx context.Context, contact *models.Contact) error {
	_, err := s.pool.Exec(ctx,
		`INSERT INTO contacts (id, name, phone, contact_id, location_id, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)
		 ON CONFLICT (phone) DO UPDATE SET
		   name = EXCLUDED.name,
		   contact_id = EXCLUDED.contact_id,
		   location_id = EXCLUDED.location_id,
		   updated_at = NOW()`,
		contact.ID, contact.Name, contact.Phone, contact.ContactID, contact.LocationID,
		contact.CreatedAt, contact.UpdatedAt)
	if err != nil {
		return fmt.Errorf("upsert contact: %w", err)
	}
	return nil
}

func (s *PostgresStore) ListContacts(ctx context.Context, limit int) ([]*models.Contact, error) {
	if limit <= 0 {
		limit = 100
	}
	rows, err := s.pool.Query(ctx,
		`SELECT id, name, phone, contact_id, location_id, created_at, updated_at
		 FROM contacts ORDER BY updated_at DESC LIMIT $1`, limit)
	if err != nil {
		return nil, fmt.Errorf("list contacts: %w", err)
	}
	defer rows.Close()

	var contacts []*models.Contact
	for rows.Next() {
		var c models.Contact
		if err := rows.Scan(&c.ID, &c.Name, &c.Phone, &c.ContactID, &c.LocationID,
			&c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan contact: %w", err)
		}
		contacts = append(contacts, &c)
	}
	return contacts, rows.Err()
}

// --- Call logs ---

func (s *PostgresStore) CreateCallLog(ctx context.Context, log *models.CallLog) error {
	_, err := s.pool.Exec(ctx,
		`INSERT INTO call_logs (id, type, phone, contact_id, location_id, status, payload, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		log.ID, log.Type, log.Phone, log.ContactID, log.LocationID, log.Status,
		log.Payload, log.CreatedAt)
	if err != nil {
		return fmt.Errorf("create call log: %w", err)
	}
	return nil
}

func (s *PostgresStore) ListCallLogs(ctx context.Context, filter CallLogFilter) ([]*models.CallLog, int, error) {
	conditions := []string{"1=1"}
	args := []any{}
	argIdx := 1

	if filter.Type != "" {
		conditions = append(conditions, fmt.Sprintf("type = $%d", argIdx))
		args = append(args, filter.Type)
		argIdx++
	}
	if filter.LocationID != "" {
		conditions = append(conditions, fmt.Sprintf("location_id = $%d", argIdx))
		args = append(args, filter.LocationID)
		argIdx++
	}

	where := strings.Join(conditions, " AND ")

	var total int
	countQuery := "SELECT COUNT(*) FROM call_logs WHERE " + where
	if err := s.pool.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count call logs: %w", err)
	}

	limit, offset := normalizePage(filter.Page, filter.Limit)

	dataQuery := fmt.Sprintf(
		`SELECT id, type, phone, contact_id, location_id, status, payload, created_at
		 FROM call_logs WHERE %s ORDER BY created_at DESC LIMIT $%d OFFSET $%d`,
		where, argIdx, argIdx+1)
	args = append(args, limit, offset)

	rows, err := s.pool.Query(ctx, dataQuery, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list call logs: %w", err)
	}
	defer rows.Close()

	var logs []*models.CallLog
	for rows.Next() {
		var l models.CallLog
		if err := rows.Scan(&l.ID, &l.Type, &l.Phone, &l.ContactID, &l.LocationID,
			&l.Status, &l.Payload, &l.CreatedAt); err != nil {
			return nil, 0, fmt.Errorf("scan call log: %w", err)
		}
		logs = append(logs, &l)
	}
	return logs, total, rows.Err()
}

// normalizePage clamps pagination parameters to sane bounds.
func normalizePage(page, limit int) (int, int) {
	if limit <= 0 {
		limit = 20
	}
	if limit > 100 {
		limit = 100
	}
	if page <= 0 {
		page = 1
	}
	return limit, (page - 1) * limit
}

// isDuplicateKeyError checks if a pgx error is a unique constraint violation.
func isDuplicateKeyError(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505" // unique_violation
	}
	return false
}

// Compile-time check that PostgresStore implements Store.
var _ Store = (*PostgresStore)(nil)
