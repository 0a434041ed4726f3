package court

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"warden/internal/registry/models"
	id "warden/pkg/domain"
	"warden/pkg/platform/sentinel"
)

// PostgresStore persists courtroom lookups in the courts table.
type PostgresStore struct {
	db *sql.DB
}

// NewPostgres creates a PostgreSQL-backed court store.
func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

const courtColumns = `id, name, type, district, address, created_at`

func (s *PostgresStore) Create(ctx context.Context, c *models.Court) error {
	query := `
		INSERT INTO courts (` + courtColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6)
	`

	_, err := s.db.ExecContext(ctx, query,
		uuid.UUID(c.ID), c.Name, string(c.Type), c.District, c.Address, c.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert court: %w", err)
	}
	return nil
}

func (s *PostgresStore) FindByID(ctx context.Context, courtID id.CourtID) (*models.Court, error) {
	query := `SELECT ` + courtColumns + ` FROM courts WHERE id = $1`

	c, err := s.scanCourt(s.db.QueryRowContext(ctx, query, uuid.UUID(courtID)))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("court not found: %w", sentinel.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("scan court: %w", err)
	}
	return c, nil
}

func (s *PostgresStore) List(ctx context.Context) ([]*models.Court, error) {
	query := `SELECT ` + courtColumns + ` FROM courts ORDER BY name`
	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("query courts: %w", err)
	}
	defer rows.Close()

	var out []*models.Court
	for rows.Next() {
		c, err := s.scanCourt(rows)
		if err != nil {
			return nil, fmt.Errorf("scan court: %w", err)
		}
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate courts: %w", err)
	}
	return out, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func (s *PostgresStore) scanCourt(row rowScanner) (*models.Court, error) {
	var (
		c         models.Court
		courtID   uuid.UUID
		courtType string
	)
	err := row.Scan(&courtID, &c.Name, &courtType, &c.District, &c.Address, &c.CreatedAt)
	if err != nil {
		return nil, err
	}
	c.ID = id.CourtID(courtID)
	c.Type = models.CourtType(courtType)
	return &c, nil
}
