package prison

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

// PostgresStore persists facilities in the prisons table. A unique index on
// lower(code) promotes the check-then-insert uniqueness rule to a real
// constraint.
type PostgresStore struct {
	db *sql.DB
}

// NewPostgres creates a PostgreSQL-backed prison store.
func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

const prisonColumns = `
	id, name, code, type, region, district, address,
	capacity, contact_phone, is_active, created_at, updated_at`

func (s *PostgresStore) CreateIfCodeAvailable(ctx context.Context, p *models.Prison) error {
	query := `
		INSERT INTO prisons (` + prisonColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	`

	_, err := s.db.ExecContext(ctx, query, s.args(p)...)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && string(pqErr.Code) == uniqueViolation {
			return fmt.Errorf("prison code %s: %w", p.Code, sentinel.ErrAlreadyUsed)
		}
		return fmt.Errorf("insert prison: %w", err)
	}
	return nil
}

func (s *PostgresStore) FindByID(ctx context.Context, prisonID id.PrisonID) (*models.Prison, error) {
	query := `SELECT ` + prisonColumns + ` FROM prisons WHERE id = $1`
	return s.scanOne(s.db.QueryRowContext(ctx, query, uuid.UUID(prisonID)))
}

func (s *PostgresStore) FindByCode(ctx context.Context, code string) (*models.Prison, error) {
	query := `SELECT ` + prisonColumns + ` FROM prisons WHERE lower(code) = lower($1)`
	return s.scanOne(s.db.QueryRowContext(ctx, query, code))
}

func (s *PostgresStore) List(ctx context.Context) ([]*models.Prison, error) {
	query := `SELECT ` + prisonColumns + ` FROM prisons ORDER BY code`
	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("query prisons: %w", err)
	}
	defer rows.Close()
	return s.scanAll(rows)
}

func (s *PostgresStore) Update(ctx context.Context, p *models.Prison) error {
	query := `
		UPDATE prisons SET
			name = $2, type = $4, region = $5, district = $6, address = $7,
			capacity = $8, contact_phone = $9, is_active = $10, updated_at = $11
		WHERE id = $1 AND code = $3
	`

	res, err := s.db.ExecContext(ctx, query, s.updateArgs(p)...)
	if err != nil {
		return fmt.Errorf("update prison: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update prison rows affected: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("prison not found: %w", sentinel.ErrNotFound)
	}
	return nil
}

func (s *PostgresStore) args(p *models.Prison) []any {
	return []any{
		uuid.UUID(p.ID), p.Name, p.Code, string(p.Type), p.Region, p.District, p.Address,
		p.Capacity, p.ContactPhone, p.IsActive, p.CreatedAt, p.UpdatedAt,
	}
}

// updateArgs drops created_at, which Update never writes.
func (s *PostgresStore) updateArgs(p *models.Prison) []any {
	args := s.args(p)
	return append(args[:len(args)-2:len(args)-2], p.UpdatedAt)
}

type rowScanner interface {
	Scan(dest ...any) error
}

func (s *PostgresStore) scanPrison(row rowScanner) (*models.Prison, error) {
	var (
		p          models.Prison
		prisonID   uuid.UUID
		prisonType string
	)
	err := row.Scan(
		&prisonID, &p.Name, &p.Code, &prisonType, &p.Region, &p.District, &p.Address,
		&p.Capacity, &p.ContactPhone, &p.IsActive, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	p.ID = id.PrisonID(prisonID)
	p.Type = models.PrisonType(prisonType)
	return &p, nil
}

func (s *PostgresStore) scanOne(row *sql.Row) (*models.Prison, error) {
	p, err := s.scanPrison(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("prison not found: %w", sentinel.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("scan prison: %w", err)
	}
	return p, nil
}

func (s *PostgresStore) scanAll(rows *sql.Rows) ([]*models.Prison, error) {
	var out []*models.Prison
	for rows.Next() {
		p, err := s.scanPrison(rows)
		if err != nil {
			return nil, fmt.Errorf("scan prison: %w", err)
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate prisons: %w", err)
	}
	return out, nil
}
