package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	sqlite "modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"

	"github.com/Kingmac21-dev/ghl-telecom-middleware/pkg/models"
)

// sqliteSchema mirrors the Postgres migrations. The fallback backend has no
// migration history; the schema is ensured idempotently at open.
const sqliteSchema = `
CREATE TABLE IF NOT EXISTS subaccounts (
	id              TEXT PRIMARY KEY,
	name            TEXT NOT NULL DEFAULT '',
	location_id     TEXT NOT NULL UNIQUE,
	ghl_inbound_url TEXT NOT NULL,
	did_number      TEXT NOT NULL UNIQUE,
	created_at      TIMESTAMP NOT NULL,
	updated_at      TIMESTAMP NOT NULL
);

CREATE TABLE IF NOT EXISTS contacts (
	id          TEXT PRIMARY KEY,
	name        TEXT NOT NULL DEFAULT '',
	phone       TEXT NOT NULL UNIQUE,
	contact_id  TEXT NOT NULL DEFAULT '',
	location_id TEXT NOT NULL DEFAULT '',
	created_at  TIMESTAMP NOT NULL,
	updated_at  TIMESTAMP NOT NULL
);

CREATE TABLE IF NOT EXISTS call_logs (
	id          TEXT PRIMARY KEY,
	type        TEXT NOT NULL,
	phone       TEXT NOT NULL DEFAULT '',
	contact_id  TEXT NOT NULL DEFAULT '',
	location_id TEXT NOT NULL DEFAULT '',
	status      TEXT NOT NULL,
	payload     BLOB,
	created_at  TIMESTAMP NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_call_logs_created_at ON call_logs (created_at);
`

// SQLiteStore implements the Store interface on an embedded file-backed
// database via modernc.org/sqlite. It is the zero-infrastructure fallback
// when no DATABASE_URL is configured and behaves identically to
// PostgresStore at the Store interface.
type SQLiteStore struct {
	db *sql.DB
}

// OpenSQLite opens (creating if needed) the database at path and ensures the
// schema exists.
func OpenSQLite(ctx context.Context, path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", path+"?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)&_pragma=foreign_keys(1)")
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}
	// Single writer; sqlite serializes writes anyway and this avoids
	// SQLITE_BUSY churn under concurrent requests.
	db.SetMaxOpenConns(1)

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping sqlite database: %w", err)
	}
	if _, err := db.ExecContext(ctx, sqliteSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("ensure sqlite schema: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

// Close releases the underlying database handle.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// Ping checks database connectivity.
func (s *SQLiteStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// --- Subaccounts ---

func (s *SQLiteStore) GetSubaccountByLocationID(ctx context.Context, locationID string) (*models.Subaccount, error) {
	return s.getSubaccount(ctx,
		`SELECT id, name, location_id, ghl_inbound_url, did_number, created_at, updated_at
		 FROM subaccounts WHERE location_id = ?`, locationID)
}

func (s *SQLiteStore) GetSubaccountByDID(ctx context.Context, did string) (*models.Subaccount, error) {
	return s.getSubaccount(ctx,
		`SELECT id, name, location_id, ghl_inbound_url, did_number, created_at, updated_at
		 FROM subaccounts WHERE did_number = ?`, did)
}

func (s *SQLiteStore) getSubaccount(ctx context.Context, query, arg string) (*models.Subaccount, error) {
	var sub models.Subaccount
	err := s.db.QueryRowContext(ctx, query, arg).Scan(
		&sub.ID, &sub.Name, &sub.LocationID, &sub.GHLInboundURL, &sub.DIDNumber,
		&sub.CreatedAt, &sub.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get subaccount: %w", err)
	}
	return &sub, nil
}

func (s *SQLiteStore) UpsertSubaccount(ctx context.Context, sub *models.Subaccount) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO subaccounts (id, name, location_id, ghl_inbound_url, did_number, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT (location_id) DO UPDATE SET
		   name = excluded.name,
		   ghl_inbound_url = excluded.ghl_inbound_url,
		   did_number = excluded.did_number,
		   updated_at = excluded.updated_at`,
		sub.ID, sub.Name, sub.LocationID, sub.GHLInboundURL, sub.DIDNumber,
		sub.CreatedAt, sub.UpdatedAt)
	if err != nil {
		if isSQLiteDuplicateKeyError(err) {
			return ErrDuplicateKey
		}
		return fmt.Errorf("upsert subaccount: %w", err)
	}
	return nil
}

func (s *SQLiteStore) ListSubaccounts(ctx context.Context) ([]*models.Subaccount, error) {
	rows, err := s.db.QueryContext(ctx,
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

func (s *SQLiteStore) UpsertContact(ctx context.Context, contact *models.Contact) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO contacts (id, name, phone, contact_id, location_id, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT (phone) DO UPDATE SET
		   name = excluded.name,
		   contact_id = excluded.contact_id,
		   location_id = excluded.location_id,
		   updated_at = excluded.updated_at`,
		contact.ID, contact.Name, contact.Phone, contact.ContactID, contact.LocationID,
		contact.CreatedAt, contact.UpdatedAt)
	if err != nil {
		return fmt.Errorf("upsert contact: %w", err)
	}
	return nil
}

func (s *SQLiteStore) ListContacts(ctx context.Context, limit int) ([]*models.Contact, error) {
	if limit <= 0 {
		limit = 100
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, name, phone, contact_id, location_id, created_at, updated_at
		 FROM contacts ORDER BY updated_at DESC LIMIT ?`, limit)
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

func (s *SQLiteStore) CreateCallLog(ctx context.Context, log *models.CallLog) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO call_logs (id, type, phone, contact_id, location_id, status, payload, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		log.ID, log.Type, log.Phone, log.ContactID, log.LocationID, log.Status,
		[]byte(log.Payload), log.CreatedAt)
	if err != nil {
		return fmt.Errorf("create call log: %w", err)
	}
	return nil
}

func (s *SQLiteStore) ListCallLogs(ctx context.Context, filter CallLogFilter) ([]*models.CallLog, int, error) {
	conditions := []string{"1=1"}
	args := []any{}

	if filter.Type != "" {
		conditions = append(conditions, "type = ?")
		args = append(args, filter.Type)
	}
	if filter.LocationID != "" {
		conditions = append(conditions, "location_id = ?")
		args = append(args, filter.LocationID)
	}

	where := strings.Join(conditions, " AND ")

	var total int
	if err := s.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM call_logs WHERE "+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count call logs: %w", err)
	}

	limit, offset := normalizePage(filter.Page, filter.Limit)
	args = append(args, limit, offset)

	rows, err := s.db.QueryContext(ctx,
		`SELECT id, type, phone, contact_id, location_id, status, payload, created_at
		 FROM call_logs WHERE `+where+` ORDER BY created_at DESC LIMIT ? OFFSET ?`, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list call logs: %w", err)
	}
	defer rows.Close()

	var logs []*models.CallLog
	for rows.Next() {
		var l models.CallLog
		var payload []byte
		if err := rows.Scan(&l.ID, &l.Type, &l.Phone, &l.ContactID, &l.LocationID,
			&l.Status, &payload, &l.CreatedAt); err != nil {
			return nil, 0, fmt.Errorf("scan call log: %w", err)
		}
		l.Payload = payload
		logs = append(logs, &l)
	}
	return logs, total, rows.Err()
}

// isSQLiteDuplicateKeyError checks if an error is a unique constraint violation.
func isSQLiteDuplicateKeyError(err error) bool {
	var se *sqlite.Error
	if errors.As(err, &se) {
		return se.Code() == sqlite3.SQLITE_CONSTRAINT_UNIQUE ||
			se.Code() == sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY
	}
	return false
}

// Compile-time check that SQLiteStore implements Store.
var _ Store = (*SQLiteStore)(nil)
