package visit

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"warden/internal/visits/models"
	id "warden/pkg/domain"
	"warden/pkg/platform/sentinel"
)

// PostgresStore persists visits in the inmate_visits table.
type PostgresStore struct {
	db *sql.DB
}

// NewPostgres creates a PostgreSQL-backed visit store.
func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

const visitColumns = `
	id, inmate_id, prison_id, full_name, id_number, id_type, relationship,
	phone, address, email, reason, scheduled_date, check_in_time,
	check_out_time, status, denial_reason, items_declaration, flagged,
	flag_reason, approved_by_id, created_at, updated_at`

func (s *PostgresStore) Create(ctx context.Context, v *models.Visit) error {
	query := `
		INSERT INTO inmate_visits (` + visitColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20, $21, $22)
	`

	_, err := s.db.ExecContext(ctx, query, s.args(v)...)
	if err != nil {
		return fmt.Errorf("insert visit: %w", err)
	}
	return nil
}

func (s *PostgresStore) FindByID(ctx context.Context, visitID id.VisitID) (*models.Visit, error) {
	query := `SELECT ` + visitColumns + ` FROM inmate_visits WHERE id = $1`
	v, err := s.scanVisit(s.db.QueryRowContext(ctx, query, uuid.UUID(visitID)))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("visit not found: %w", sentinel.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("scan visit: %w", err)
	}
	return v, nil
}

func (s *PostgresStore) ListByInmate(ctx context.Context, inmateID id.InmateID) ([]*models.Visit, error) {
	query := `SELECT ` + visitColumns + ` FROM inmate_visits WHERE inmate_id = $1 ORDER BY scheduled_date, created_at`
	rows, err := s.db.QueryContext(ctx, query, uuid.UUID(inmateID))
	if err != nil {
		return nil, fmt.Errorf("query visits by inmate: %w", err)
	}
	defer rows.Close()
	return s.scanAll(rows)
}

func (s *PostgresStore) ListByPrison(ctx context.Context, prisonID id.PrisonID) ([]*models.Visit, error) {
	query := `SELECT ` + visitColumns + ` FROM inmate_visits WHERE prison_id = $1 ORDER BY scheduled_date, created_at`
	rows, err := s.db.QueryContext(ctx, query, uuid.UUID(prisonID))
	if err != nil {
		return nil, fmt.Errorf("query visits by prison: %w", err)
	}
	defer rows.Close()
	return s.scanAll(rows)
}

func (s *PostgresStore) ListByStatus(ctx context.Context, status id.VisitStatus) ([]*models.Visit, error) {
	query := `SELECT ` + visitColumns + ` FROM inmate_visits WHERE status = $1 ORDER BY scheduled_date, created_at`
	rows, err := s.db.QueryContext(ctx, query, string(status))
	if err != nil {
		return nil, fmt.Errorf("query visits by status: %w", err)
	}
	defer rows.Close()
	return s.scanAll(rows)
}

func (s *PostgresStore) Update(ctx context.Context, v *models.Visit) error {
	query := `
		UPDATE inmate_visits SET
			full_name = $4, id_number = $5, id_type = $6, relationship = $7,
			phone = $8, address = $9, email = $10, reason = $11,
			scheduled_date = $12, check_in_time = $13, check_out_time = $14,
			status = $15, denial_reason = $16, items_declaration = $17,
			flagged = $18, flag_reason = $19, approved_by_id = $20,
			updated_at = $21
		WHERE id = $1 AND inmate_id = $2 AND prison_id = $3
	`

	res, err := s.db.ExecContext(ctx, query, s.updateArgs(v)...)
	if err != nil {
		return fmt.Errorf("update visit: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update visit rows affected: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("visit not found: %w", sentinel.ErrNotFound)
	}
	return nil
}

func (s *PostgresStore) Delete(ctx context.Context, visitID id.VisitID) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM inmate_visits WHERE id = $1`, uuid.UUID(visitID))
	if err != nil {
		return fmt.Errorf("delete visit: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete visit rows affected: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("visit not found: %w", sentinel.ErrNotFound)
	}
	return nil
}

func (s *PostgresStore) args(v *models.Visit) []any {
	var approvedBy *uuid.UUID
	if !v.ApprovedByID.IsNil() {
		u := uuid.UUID(v.ApprovedByID)
		approvedBy = &u
	}
	return []any{
		uuid.UUID(v.ID), uuid.UUID(v.InmateID), uuid.UUID(v.PrisonID),
		v.FullName, v.IDNumber, string(v.IDType), v.Relationship,
		v.Phone, v.Address, v.Email, v.Reason, v.ScheduledDate, v.CheckInTime,
		v.CheckOutTime, string(v.Status), v.DenialReason, v.ItemsDeclaration,
		v.Flagged, v.FlagReason, approvedBy, v.CreatedAt, v.UpdatedAt,
	}
}

// updateArgs drops created_at, which Update never writes.
func (s *PostgresStore) updateArgs(v *models.Visit) []any {
	args := s.args(v)
	return append(args[:len(args)-2:len(args)-2], v.UpdatedAt)
}

type rowScanner interface {
	Scan(dest ...any) error
}

func (s *PostgresStore) scanVisit(row rowScanner) (*models.Visit, error) {
	var (
		v          models.Visit
		visitID    uuid.UUID
		inmateID   uuid.UUID
		prisonID   uuid.UUID
		idType     string
		status     string
		approvedBy *uuid.UUID
	)
	err := row.Scan(
		&visitID, &inmateID, &prisonID, &v.FullName, &v.IDNumber, &idType,
		&v.Relationship, &v.Phone, &v.Address, &v.Email, &v.Reason,
		&v.ScheduledDate, &v.CheckInTime, &v.CheckOutTime, &status,
		&v.DenialReason, &v.ItemsDeclaration, &v.Flagged, &v.FlagReason,
		&approvedBy, &v.CreatedAt, &v.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	v.ID = id.VisitID(visitID)
	v.InmateID = id.InmateID(inmateID)
	v.PrisonID = id.PrisonID(prisonID)
	v.IDType = models.IDType(idType)
	v.Status = id.VisitStatus(status)
	if approvedBy != nil {
		v.ApprovedByID = id.OfficerID(*approvedBy)
	}
	return &v, nil
}

func (s *PostgresStore) scanAll(rows *sql.Rows) ([]*models.Visit, error) {
	var out []*models.Visit
	for rows.Next() {
		v, err := s.scanVisit(rows)
		if err != nil {
			return nil, fmt.Errorf("scan visit: %w", err)
		}
		out = append(out, v)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate visits: %w", err)
	}
	return out, nil
}
