package officer

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"warden/internal/registry/models"
	id "warden/pkg/domain"
	"warden/pkg/platform/sentinel"
)

const uniqueViolation = "23505"

// PostgresStore persists staff records in the officers table. A unique index
// on lower(badge_number) promotes the check-then-insert uniqueness rule to a
// real constraint.
type PostgresStore struct {
	db *sql.DB
}

// NewPostgres creates a PostgreSQL-backed officer store.
func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

const officerColumns = `
	id, prison_id, name, badge_number, rank, phone,
	is_active, created_at, updated_at`

func (s *PostgresStore) CreateIfBadgeAvailable(ctx context.Context, o *models.Officer) error {
	query := `
		INSERT INTO officers (` + officerColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`

	_, err := s.db.ExecContext(ctx, query, s.args(o)...)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && string(pqErr.Code) == uniqueViolation {
			return fmt.Errorf("badge number %s: %w", o.BadgeNumber, sentinel.ErrAlreadyUsed)
		}
		return fmt.Errorf("insert officer: %w", err)
	}
	return nil
}

func (s *PostgresStore) FindByID(ctx context.Context, officerID id.OfficerID) (*models.Officer, error) {
	query := `SELECT ` + officerColumns + ` FROM officers WHERE id = $1`
	return s.scanOne(s.db.QueryRowContext(ctx, query, uuid.UUID(officerID)))
}

func (s *PostgresStore) FindByBadge(ctx context.Context, badgeNumber string) (*models.Officer, error) {
	query := `SELECT ` + officerColumns + ` FROM officers WHERE lower(badge_number) = lower($1)`
	return s.scanOne(s.db.QueryRowContext(ctx, query, badgeNumber))
}

func (s *PostgresStore) ListByPrison(ctx context.Context, prisonID id.PrisonID) ([]*models.Officer, error) {
	query := `SELECT ` + officerColumns + ` FROM officers WHERE prison_id = $1 ORDER BY badge_number`
	rows, err := s.db.QueryContext(ctx, query, uuid.UUID(prisonID))
	if err != nil {
		return nil, fmt.Errorf("query officers by prison: %w", err)
	}
	defer rows.Close()
	return s.scanAll(rows)
}

func (s *PostgresStore) Update(ctx context.Context, o *models.Officer) error {
	query := `
		UPDATE officers SET
			prison_id = $2, name = $3, rank = $5, phone = $6,
			is_active = $7, updated_at = $8
		WHERE id = $1 AND badge_number = $4
	`

	res, err := s.db.ExecContext(ctx, query, s.updateArgs(o)...)
	if err != nil {
		return fmt.Errorf("update officer: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update officer rows affected: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("officer not found: %w", sentinel.ErrNotFound)
	}
	return nil
}

func (s *PostgresStore) args(o *models.Officer) []any {
	return []any{
		uuid.UUID(o.ID), uuid.UUID(o.PrisonID), o.Name, o.BadgeNumber, o.Rank, o.Phone,
		o.IsActive, o.CreatedAt, o.UpdatedAt,
	}
}

// updateArgs drops created_at, which Update never writes.
func (s *PostgresStore) updateArgs(o *models.Officer) []any {
	args := s.args(o)
	return append(args[:len(args)-2:len(args)-2], o.UpdatedAt)
}

type rowScanner interface {
	Scan(dest ...any) error
}

func (s *PostgresStore) scanOfficer(row rowScanner) (*models.Officer, error) {
	var (
		o         models.Officer
		officerID uuid.UUID
		prisonID  uuid.UUID
	)
	err := row.Scan(
		&officerID, &prisonID, &o.Name, &o.BadgeNumber, &o.Rank, &o.Phone,
		&o.IsActive, &o.CreatedAt, &o.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	o.ID = id.OfficerID(officerID)
	o.PrisonID = id.PrisonID(prisonID)
	return &o, nil
}

func (s *PostgresStore) scanOne(row *sql.Row) (*models.Officer, error) {
	o, err := s.scanOfficer(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("officer not found: %w", sentinel.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("scan officer: %w", err)
	}
	return o, nil
}

func (s *PostgresStore) scanAll(rows *sql.Rows) ([]*models.Officer, error) {
	var out []*models.Officer
	for rows.Next() {
		o, err := s.scanOfficer(rows)
		if err != nil {
			return nil, fmt.Errorf("scan officer: %w", err)
		}
		out = append(out, o)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate officers: %w", err)
	}
	return out, nil
}
