package movement

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

// PostgresStore persists movements in the record_movements table.
type PostgresStore struct {
	db *sql.DB
}

// NewPostgres creates a PostgreSQL-backed movement store.
func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

const movementColumns = `
	id, inmate_id, movement_type, from_prison_id, to_prison_id, officer_id,
	destination, departure_date, return_date, reason, notes,
	created_at, updated_at`

func (s *PostgresStore) Create(ctx context.Context, m *models.Movement) error {
	query := `
		INSERT INTO record_movements (` + movementColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
	`

	_, err := s.db.ExecContext(ctx, query, s.args(m)...)
	if err != nil {
		return fmt.Errorf("insert movement: %w", err)
	}
	return nil
}

func (s *PostgresStore) FindByID(ctx context.Context, movementID id.MovementID) (*models.Movement, error) {
	query := `SELECT ` + movementColumns + ` FROM record_movements WHERE id = $1`
	m, err := s.scanMovement(s.db.QueryRowContext(ctx, query, uuid.UUID(movementID)))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("movement not found: %w", sentinel.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("scan movement: %w", err)
	}
	return m, nil
}

func (s *PostgresStore) ListByInmate(ctx context.Context, inmateID id.InmateID) ([]*models.Movement, error) {
	query := `SELECT ` + movementColumns + ` FROM record_movements WHERE inmate_id = $1 ORDER BY departure_date, created_at`
	rows, err := s.db.QueryContext(ctx, query, uuid.UUID(inmateID))
	if err != nil {
		return nil, fmt.Errorf("query movements by inmate: %w", err)
	}
	defer rows.Close()
	return s.scanAll(rows)
}

func (s *PostgresStore) ListOpen(ctx context.Context) ([]*models.Movement, error) {
	query := `SELECT ` + movementColumns + ` FROM record_movements WHERE return_date = '' ORDER BY departure_date, created_at`
	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("query open movements: %w", err)
	}
	defer rows.Close()
	return s.scanAll(rows)
}

func (s *PostgresStore) ListByType(ctx context.Context, movementType id.MovementType) ([]*models.Movement, error) {
	query := `SELECT ` + movementColumns + ` FROM record_movements WHERE movement_type = $1 ORDER BY departure_date, created_at`
	rows, err := s.db.QueryContext(ctx, query, string(movementType))
	if err != nil {
		return nil, fmt.Errorf("query movements by type: %w", err)
	}
	defer rows.Close()
	return s.scanAll(rows)
}

func (s *PostgresStore) Update(ctx context.Context, m *models.Movement) error {
	query := `
		UPDATE record_movements SET
			movement_type = $3, from_prison_id = $4, to_prison_id = $5, officer_id = $6,
			destination = $7, departure_date = $8, return_date = $9, reason = $10,
			notes = $11, updated_at = $12
		WHERE id = $1 AND inmate_id = $2
	`

	res, err := s.db.ExecContext(ctx, query, s.updateArgs(m)...)
	if err != nil {
		return fmt.Errorf("update movement: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update movement rows affected: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("movement not found: %w", sentinel.ErrNotFound)
	}
	return nil
}

func (s *PostgresStore) Delete(ctx context.Context, movementID id.MovementID) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM record_movements WHERE id = $1`, uuid.UUID(movementID))
	if err != nil {
		return fmt.Errorf("delete movement: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete movement rows affected: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("movement not found: %w", sentinel.ErrNotFound)
	}
	return nil
}

func (s *PostgresStore) args(m *models.Movement) []any {
	var fromPrison, toPrison, officer *uuid.UUID
	if !m.FromPrisonID.IsNil() {
		u := uuid.UUID(m.FromPrisonID)
		fromPrison = &u
	}
	if !m.ToPrisonID.IsNil() {
		u := uuid.UUID(m.ToPrisonID)
		toPrison = &u
	}
	if !m.OfficerID.IsNil() {
		u := uuid.UUID(m.OfficerID)
		officer = &u
	}
	return []any{
		uuid.UUID(m.ID), uuid.UUID(m.InmateID), string(m.MovementType),
		fromPrison, toPrison, officer,
		m.Destination, m.DepartureDate, m.ReturnDate, m.Reason, m.Notes,
		m.CreatedAt, m.UpdatedAt,
	}
}

// updateArgs drops created_at, which Update never writes.
func (s *PostgresStore) updateArgs(m *models.Movement) []any {
	args := s.args(m)
	return append(args[:len(args)-2:len(args)-2], m.UpdatedAt)
}

type rowScanner interface {
	Scan(dest ...any) error
}

func (s *PostgresStore) scanMovement(row rowScanner) (*models.Movement, error) {
	var (
		m          models.Movement
		movementID uuid.UUID
		inmateID   uuid.UUID
		fromPrison *uuid.UUID
		toPrison   *uuid.UUID
		officer    *uuid.UUID
		mType      string
	)
	err := row.Scan(
		&movementID, &inmateID, &mType, &fromPrison, &toPrison, &officer,
		&m.Destination, &m.DepartureDate, &m.ReturnDate, &m.Reason, &m.Notes,
		&m.CreatedAt, &m.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	m.ID = id.MovementID(movementID)
	m.InmateID = id.InmateID(inmateID)
	m.MovementType = id.MovementType(mType)
	if fromPrison != nil {
		m.FromPrisonID = id.PrisonID(*fromPrison)
	}
	if toPrison != nil {
		m.ToPrisonID = id.PrisonID(*toPrison)
	}
	if officer != nil {
		m.OfficerID = id.OfficerID(*officer)
	}
	return &m, nil
}

func (s *PostgresStore) scanAll(rows *sql.Rows) ([]*models.Movement, error) {
	var out []*models.Movement
	for rows.Next() {
		m, err := s.scanMovement(rows)
		if err != nil {
			return nil, fmt.Errorf("scan movement: %w", err)
		}
		out = append(out, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate movements: %w", err)
	}
	return out, nil
}
