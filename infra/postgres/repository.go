package postgres

import (
	"context"
	"time"

	"lostfound/domain"

	"github.com/jmoiron/sqlx"

	_ "github.com/lib/pq"
)

// AuditRepository archives item events in item_audit_log.
type AuditRepository struct {
	db *sqlx.DB
}

func NewAuditRepository(dsn string) (*AuditRepository, error) {
	db, err := sqlx.Connect("postgres", dsn)
	if err != nil {
		return nil, err
	}

	db.SetMaxOpenConns(5)
	db.SetMaxIdleConns(2)
	db.SetConnMaxLifetime(5 * time.Minute)
	db.SetConnMaxIdleTime(2 * time.Minute)

	return NewAuditRepositoryWithDB(db), nil
}

func NewAuditRepositoryWithDB(db *sqlx.DB) *AuditRepository {
	return &AuditRepository{db: db}
}

func (r *AuditRepository) Close() error {
	return r.db.Close()
}

// Record is idempotent on event id so redelivered messages are harmless.
func (r *AuditRepository) Record(ctx context.Context, entry domain.AuditEntry) error {
	query := `
		INSERT INTO item_audit_log (
			event_id, event, version, item_id, trace_id, occurred_at, payload
		) VALUES (
			:event_id, :event, :version, :item_id, :trace_id, :occurred_at, :payload
		) ON CONFLICT (event_id) DO NOTHING`

	_, err := r.db.NamedExecContext(ctx, query, newAuditRow(entry))
	return err
}

// auditRow carries the payload as text so lib/pq sends it as a JSON literal
// rather than bytea.
type auditRow struct {
	EventID    string    `db:"event_id"`
	Event      string    `db:"event"`
	Version    string    `db:"version"`
	ItemID     string    `db:"item_id"`
	TraceID    string    `db:"trace_id"`
	OccurredAt time.Time `db:"occurred_at"`
	Payload    string    `db:"payload"`
}

func newAuditRow(e domain.AuditEntry) auditRow {
	return auditRow{
		EventID:    e.EventID,
		Event:      e.Event,
		Version:    e.Version,
		ItemID:     e.ItemID,
		TraceID:    e.TraceID,
		OccurredAt: e.OccurredAt,
		Payload:    string(e.Payload),
	}
}

func (r auditRow) entry() domain.AuditEntry {
	return domain.AuditEntry{
		EventID:    r.EventID,
		Event:      r.Event,
		Version:    r.Version,
		ItemID:     r.ItemID,
		TraceID:    r.TraceID,
		OccurredAt: r.OccurredAt,
		Payload:    []byte(r.Payload),
	}
}
