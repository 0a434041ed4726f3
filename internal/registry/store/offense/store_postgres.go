package offense

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

// PostgresStore persists statute lookups in the offenses table.
type PostgresStore struct {
	db *sql.DB
}

// NewPostgres creates a PostgreSQL-backed offense store.
func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

const offenseColumns = `
	id, name, act, section, chapter, category,
	amended_by, description, max_sentence_years, created_at`

func (s *PostgresStore) Create(ctx context.Context, o *models.Offense) error {
	query := `
		INSERT INTO offenses (` + offenseColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`

	_, err := s.db.ExecContext(ctx, query,
		uuid.UUID(o.ID), o.Name, o.Act, o.Section, o.Chapter, string(o.Category),
		o.AmendedBy, o.Description, o.MaxSentenceYears, o.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert offense: %w", err)
	}
	return nil
}

func (s *PostgresStore) FindByID(ctx context.Context, offenseID id.OffenseID) (*models.Offense, error) {
	query := `SELECT ` + offenseColumns + ` FROM offenses WHERE id = $1`

	o, err := s.scanOffense(s.db.QueryRowContext(ctx, query, uuid.UUID(offenseID)))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("offense not found: %w", sentinel.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("scan offense: %w", err)
	}
	return o, nil
}

func (s *PostgresStore) List(ctx context.Context) ([]*models.Offense, error) {
	query := `SELECT ` + offenseColumns + ` FROM offenses ORDER BY name`
	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("query offenses: %w", err)
	}
	defer rows.Close()

	var out []*models.Offense
	for rows.Next() {
		o, err := s.scanOffense(rows)
		if err != nil {
			return nil, fmt.Errorf("scan offense: %w", err)
		}
		out = append(out, o)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate offenses: %w", err)
	}
	return out, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func (s *PostgresStore) scanOffense(row rowScanner) (*models.Offense, error) {
	var (
		o         models.Offense
		offenseID uuid.UUID
		category  string
	)
	err := row.Scan(
		&offenseID, &o.Name, &o.Act, &o.Section, &o.Chapter, &category,
		&o.AmendedBy, &o.Description, &o.MaxSentenceYears, &o.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	o.ID = id.OffenseID(offenseID)
	o.Category = models.OffenseCategory(category)
	return &o, nil
}
