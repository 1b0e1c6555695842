/*
Package audit keeps a record of issued credentials for operators.

Only metadata is stored (room, identity, role, validity window, anonymized caller IP);
tokens themselves are never persisted. When no database is configured the Disabled
recorder is used and listing reports errs.ErrAuditDisabled.
*/
package audit

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"roomkey/internal/pkg/errs"
)

// Entry is one issued credential.
type Entry struct {
	ID        uuid.UUID `db:"id" json:"id"`
	Room      string    `db:"room" json:"room"`
	Identity  string    `db:"identity" json:"identity"`
	Role      string    `db:"role" json:"role"`
	RemoteIP  string    `db:"remote_ip" json:"remoteIp,omitempty"`
	IssuedAt  time.Time `db:"issued_at" json:"issuedAt"`
	ExpiresAt time.Time `db:"expires_at" json:"expiresAt"`
}

// Recorder stores and lists issuance entries.
type Recorder interface {
	Record(ctx context.Context, entries []Entry) error
	List(ctx context.Context, room string, limit int) ([]Entry, error)
}

// Disabled is the Recorder used without a database.
type Disabled struct{}

func (Disabled) Record(context.Context, []Entry) error { return nil }

func (Disabled) List(context.Context, string, int) ([]Entry, error) {
	return nil, errs.NewError(errs.ErrAuditDisabled)
}

// Store is the PostgreSQL Recorder.
type Store struct {
	pool *pgxpool.Pool
}

// NewStore wraps a pool created by NewPool.
func NewStore(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool}
}

var entryColumns = []string{"id", "room", "identity", "role", "remote_ip", "issued_at", "expires_at"}

// Record writes entries in one COPY. Entries without an ID get a fresh UUID.
func (s *Store) Record(ctx context.Context, entries []Entry) error {
	if len(entries) == 0 {
		return nil
	}

	rows := make([][]any, len(entries))
	for i, e := range entries {
		if e.ID == uuid.Nil {
			e.ID = uuid.New()
		}
		rows[i] = []any{e.ID, e.Room, e.Identity, e.Role, e.RemoteIP, e.IssuedAt, e.ExpiresAt}
	}

	n, err := s.pool.CopyFrom(ctx, pgx.Identifier{"issuances"}, entryColumns, pgx.CopyFromRows(rows))
	if err != nil {
		return fmt.Errorf("copy issuances: %w", err)
	}
	if int(n) != len(entries) {
		return fmt.Errorf("copy issuances: wrote %d of %d rows", n, len(entries))
	}
	return nil
}

const listQuery = `
SELECT id, room, identity, role, remote_ip, issued_at, expires_at
FROM issuances
WHERE ($1 = '' OR room = $1)
ORDER BY issued_at DESC
LIMIT $2`

// List returns the most recent entries, optionally for one room.
func (s *Store) List(ctx context.Context, room string, limit int) ([]Entry, error) {
	rows, err := s.pool.Query(ctx, listQuery, room, limit)
	if err != nil {
		return nil, errs.Wrap(errs.ErrUnknown, fmt.Errorf("query issuances: %w", err))
	}

	entries, err := pgx.CollectRows(rows, pgx.RowToStructByName[Entry])
	if err != nil {
		return nil, errs.Wrap(errs.ErrUnknown, fmt.Errorf("scan issuances: %w", err))
	}
	return entries, nil
}
