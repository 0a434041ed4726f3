package appearance

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"warden/internal/custody/models"
	id "warden/pkg/domain"
	"warden/pkg/platform/sentinel"
)

// PostgresStore persists appearances in the court_appearances table.
type PostgresStore struct {
	db *sql.DB
}

// NewPostgres creates a PostgreSQL-backed appearance store.
func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

const appearanceColumns = `
	id, inmate_id, court_id, officer_id, scheduled_date, departure_time,
	return_time, outcome, next_date, notes, created_at, updated_at`

func (s *PostgresStore) Create(ctx context.Context, a *models.Appearance) error {
	query := `
		INSERT INTO court_appearances (` + appearanceColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	`

	_, err := s.db.ExecContext(ctx, query, s.args(a)...)
	if err != nil {
		return fmt.Errorf("insert appearance: %w", err)
	}
	return nil
}

func (s *PostgresStore) FindByID(ctx context.Context, appearanceID id.AppearanceID) (*models.Appearance, error) {
	query := `SELECT ` + appearanceColumns + ` FROM court_appearances WHERE id = $1`
	a, err := s.scanAppearance(s.db.QueryRowContext(ctx, query, uuid.UUID(appearanceID)))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("appearance not found: %w", sentinel.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("scan appearance: %w", err)
	}
	return a, nil
}

func (s *PostgresStore) ListByInmate(ctx context.Context, inmateID id.InmateID) ([]*models.Appearance, error) {
	query := `SELECT ` + appearanceColumns + ` FROM court_appearances WHERE inmate_id = $1 ORDER BY scheduled_date, created_at`
	rows, err := s.db.QueryContext(ctx, query, uuid.UUID(inmateID))
	if err != nil {
		return nil, fmt.Errorf("query appearances by inmate: %w", err)
	}
	defer rows.Close()
	return s.scanAll(rows)
}

func (s *PostgresStore) ListUpcoming(ctx context.Context, fromDate string) ([]*models.Appearance, error) {
	query := `SELECT ` + appearanceColumns + ` FROM court_appearances WHERE scheduled_date >= $1 ORDER BY scheduled_date, created_at`
	rows, err := s.db.QueryContext(ctx, query, fromDate)
	if err != nil {
		return nil, fmt.Errorf("query upcoming appearances: %w", err)
	}
	defer rows.Close()
	return s.scanAll(rows)
}

func (s *PostgresStore) Update(ctx context.Context, a *models.Appearance) error {
	query := `
		UPDATE court_appearances SET
			court_id = $3, officer_id = $4, scheduled_date = $5, departure_time = $6,
			return_time = $7, outcome = $8, next_date = $9, notes = $10,
			updated_at = $11
		WHERE id = $1 AND inmate_id = $2
	`

	res, err := s.db.ExecContext(ctx, query, s.updateArgs(a)...)
	if err != nil {
		return fmt.Errorf("update appearance: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update appearance rows affected: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("appearance not found: %w", sentinel.ErrNotFound)
	}
	return nil
}

func (s *PostgresStore) Delete(ctx context.Context, appearanceID id.AppearanceID) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM court_appearances WHERE id = $1`, uuid.UUID(appearanceID))
	if err != nil {
		return fmt.Errorf("delete appearance: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete appearance rows affected: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("appearance not found: %w", sentinel.ErrNotFound)
	}
	return nil
}

func (s *PostgresStore) args(a *models.Appearance) []any {
	var officer *uuid.UUID
	if !a.OfficerID.IsNil() {
		u := uuid.UUID(a.OfficerID)
		officer = &u
	}
	return []any{
		uuid.UUID(a.ID), uuid.UUID(a.InmateID), uuid.UUID(a.CourtID), officer,
		a.ScheduledDate, a.DepartureTime, a.ReturnTime,
		string(a.Outcome), a.NextDate, a.Notes,
		a.CreatedAt, a.UpdatedAt,
	}
}

// updateArgs drops created_at, which Update never writes.
func (s *PostgresStore) updateArgs(a *models.Appearance) []any {
	args := s.args(a)
	return append(args[:len(args)-2:len(args)-2], a.UpdatedAt)
}

type rowScanner interface {
	Scan(dest ...any) error
}

func (s *PostgresStore) scanAppearance(row rowScanner) (*models.Appearance, error) {
	var (
		a            models.Appearance
		appearanceID uuid.UUID
		inmateID     uuid.UUID
		courtID      uuid.UUID
		officer      *uuid.UUID
		outcome      string
	)
	err := row.Scan(
		&appearanceID, &inmateID, &courtID, &officer,
		&a.ScheduledDate, &a.DepartureTime, &a.ReturnTime,
		&outcome, &a.NextDate, &a.Notes,
		&a.CreatedAt, &a.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	a.ID = id.AppearanceID(appearanceID)
	a.InmateID = id.InmateID(inmateID)
	a.CourtID = id.CourtID(courtID)
	a.Outcome = id.CourtOutcome(outcome)
	if officer != nil {
		a.OfficerID = id.OfficerID(*officer)
	}
	return &a, nil
}

func (s *PostgresStore) scanAll(rows *sql.Rows) ([]*models.Appearance, error) {
	var out []*models.Appearance
	for rows.Next() {
		a, err := s.scanAppearance(rows)
		if err != nil {
			return nil, fmt.Errorf("scan appearance: %w", err)
		}
		out = append(out, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate appearances: %w", err)
	}
	return out, nil
}
