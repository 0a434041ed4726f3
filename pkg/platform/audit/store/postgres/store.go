package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	id "warden/pkg/domain"
	audit "warden/pkg/platform/audit"
)

// Store persists audit events in the audit_events table. Appends are
// idempotent per event ID so retried writes do not duplicate the trail.
type Store struct {
	db *sql.DB
}

// New creates a PostgreSQL-backed audit store.
func New(db *sql.DB) *Store {
	return &Store{db: db}
}

// Append writes an audit event.
func (s *Store) Append(ctx context.Context, event audit.Event) error {
	query := `
		INSERT INTO audit_events (
			id, category, timestamp, subject, subject_id,
			inmate_id, action, actor_id, reason, request_id
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		ON CONFLICT (id) DO NOTHING
	`

	var inmateID *uuid.UUID
	if !event.InmateID.IsNil() {
		u := uuid.UUID(event.InmateID)
		inmateID = &u
	}
	var actorID *uuid.UUID
	if !event.ActorID.IsNil() {
		u := uuid.UUID(event.ActorID)
		actorID = &u
	}

	_, err := s.db.ExecContext(ctx, query,
		uuid.New(),
		string(event.Category),
		event.Timestamp,
		event.Subject,
		event.SubjectID,
		inmateID,
		event.Action,
		actorID,
		event.Reason,
		event.RequestID,
	)
	if err != nil {
		return fmt.Errorf("insert audit event: %w", err)
	}
	return nil
}

// ListByInmate returns the custody trail for one inmate, newest first.
func (s *Store) ListByInmate(ctx context.Context, inmateID id.InmateID) ([]audit.Event, error) {
	query := `
		SELECT category, timestamp, subject, subject_id,
		       inmate_id, action, actor_id, reason, request_id
		FROM audit_events
		WHERE inmate_id = $1
		ORDER BY timestamp DESC
	`

	rows, err := s.db.QueryContext(ctx, query, uuid.UUID(inmateID))
	if err != nil {
		return nil, fmt.Errorf("query audit events: %w", err)
	}
	defer rows.Close()

	return s.scanEvents(rows)
}

// ListRecent returns the N most recent events.
func (s *Store) ListRecent(ctx context.Context, limit int) ([]audit.Event, error) {
	query := `
		SELECT category, timestamp, subject, subject_id,
		       inmate_id, action, actor_id, reason, request_id
		FROM audit_events
		ORDER BY timestamp DESC
		LIMIT $1
	`

	rows, err := s.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("query recent audit events: %w", err)
	}
	defer rows.Close()

	return s.scanEvents(rows)
}

func (s *Store) scanEvents(rows *sql.Rows) ([]audit.Event, error) {
	var events []audit.Event
	for rows.Next() {
		var (
			event    audit.Event
			category string
			inmateID *uuid.UUID
			actorID  *uuid.UUID
		)
		if err := rows.Scan(
			&category,
			&event.Timestamp,
			&event.Subject,
			&event.SubjectID,
			&inmateID,
			&event.Action,
			&actorID,
			&event.Reason,
			&event.RequestID,
		); err != nil {
			return nil, fmt.Errorf("scan audit event: %w", err)
		}
		event.Category = audit.EventCategory(category)
		if inmateID != nil {
			event.InmateID = id.InmateID(*inmateID)
		}
		if actorID != nil {
			event.ActorID = id.OfficerID(*actorID)
		}
		events = append(events, event)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate audit events: %w", err)
	}
	return events, nil
}
