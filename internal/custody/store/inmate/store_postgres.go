package inmate

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"warden/internal/custody/models"
	id "warden/pkg/domain"
	"warden/pkg/platform/sentinel"
)

const uniqueViolation = "23505"

// PostgresStore persists inmates in the inmates table. A unique index on
// lower(prison_number) promotes the check-then-insert uniqueness rule to a
// real constraint.
type PostgresStore struct {
	db *sql.DB
}

// NewPostgres creates a PostgreSQL-backed inmate store.
func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

const inmateColumns = `
	id, first_name, last_name, other_names, prison_number, national_id,
	dob, gender, nationality, tribe, religion,
	education_level, marital_status, occupation,
	next_of_kin_name, next_of_kin_phone, next_of_kin_relationship,
	inmate_type, status, risk_level,
	prison_id, cell_block, cell_number,
	case_number, offense_id, arresting_station,
	admission_date, remand_expiry, next_court_date,
	conviction_date, sentence_start, sentence_end, sentence_duration,
	is_life_sentence, fine_amount, fine_paid,
	actual_release_date, release_reason, notes,
	created_at, updated_at`

func (s *PostgresStore) CreateIfNumberAvailable(ctx context.Context, i *models.Inmate) error {
	query := `
		INSERT INTO inmates (` + inmateColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11,
		        $12, $13, $14, $15, $16, $17, $18, $19, $20,
		        $21, $22, $23, $24, $25, $26, $27, $28, $29,
		        $30, $31, $32, $33, $34, $35, $36, $37, $38, $39, $40, $41)
	`

	_, err := s.db.ExecContext(ctx, query, s.args(i)...)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && string(pqErr.Code) == uniqueViolation {
			return fmt.Errorf("prison number %s: %w", i.PrisonNumber, sentinel.ErrAlreadyUsed)
		}
		return fmt.Errorf("insert inmate: %w", err)
	}
	return nil
}

func (s *PostgresStore) FindByID(ctx context.Context, inmateID id.InmateID) (*models.Inmate, error) {
	query := `SELECT ` + inmateColumns + ` FROM inmates WHERE id = $1`
	return s.scanOne(s.db.QueryRowContext(ctx, query, uuid.UUID(inmateID)))
}

func (s *PostgresStore) FindByPrisonNumber(ctx context.Context, prisonNumber string) (*models.Inmate, error) {
	query := `SELECT ` + inmateColumns + ` FROM inmates WHERE lower(prison_number) = lower($1)`
	return s.scanOne(s.db.QueryRowContext(ctx, query, prisonNumber))
}

func (s *PostgresStore) ListByPrison(ctx context.Context, prisonID id.PrisonID) ([]*models.Inmate, error) {
	query := `SELECT ` + inmateColumns + ` FROM inmates WHERE prison_id = $1 ORDER BY prison_number`
	rows, err := s.db.QueryContext(ctx, query, uuid.UUID(prisonID))
	if err != nil {
		return nil, fmt.Errorf("query inmates by prison: %w", err)
	}
	defer rows.Close()
	return s.scanAll(rows)
}

func (s *PostgresStore) ListByStatus(ctx context.Context, status id.InmateStatus) ([]*models.Inmate, error) {
	query := `SELECT ` + inmateColumns + ` FROM inmates WHERE status = $1 ORDER BY prison_number`
	rows, err := s.db.QueryContext(ctx, query, string(status))
	if err != nil {
		return nil, fmt.Errorf("query inmates by status: %w", err)
	}
	defer rows.Close()
	return s.scanAll(rows)
}

func (s *PostgresStore) CountByStatus(ctx context.Context, prisonID id.PrisonID) (map[id.InmateStatus]int, error) {
	query := `SELECT status, COUNT(*) FROM inmates WHERE prison_id = $1 GROUP BY status`
	rows, err := s.db.QueryContext(ctx, query, uuid.UUID(prisonID))
	if err != nil {
		return nil, fmt.Errorf("count inmates by status: %w", err)
	}
	defer rows.Close()

	counts := make(map[id.InmateStatus]int)
	for rows.Next() {
		var (
			status string
			n      int
		)
		if err := rows.Scan(&status, &n); err != nil {
			return nil, fmt.Errorf("scan status count: %w", err)
		}
		counts[id.InmateStatus(status)] = n
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate status counts: %w", err)
	}
	return counts, nil
}

func (s *PostgresStore) Update(ctx context.Context, i *models.Inmate) error {
	query := `
		UPDATE inmates SET
			first_name = $2, last_name = $3, other_names = $4, national_id = $6,
			dob = $7, gender = $8, nationality = $9, tribe = $10, religion = $11,
			education_level = $12, marital_status = $13, occupation = $14,
			next_of_kin_name = $15, next_of_kin_phone = $16, next_of_kin_relationship = $17,
			inmate_type = $18, status = $19, risk_level = $20,
			prison_id = $21, cell_block = $22, cell_number = $23,
			case_number = $24, offense_id = $25, arresting_station = $26,
			admission_date = $27, remand_expiry = $28, next_court_date = $29,
			conviction_date = $30, sentence_start = $31, sentence_end = $32, sentence_duration = $33,
			is_life_sentence = $34, fine_amount = $35, fine_paid = $36,
			actual_release_date = $37, release_reason = $38, notes = $39,
			updated_at = $40
		WHERE id = $1 AND prison_number = $5
	`

	res, err := s.db.ExecContext(ctx, query, s.updateArgs(i)...)
	if err != nil {
		return fmt.Errorf("update inmate: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update inmate rows affected: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("inmate not found: %w", sentinel.ErrNotFound)
	}
	return nil
}

func (s *PostgresStore) Delete(ctx context.Context, inmateID id.InmateID) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM inmates WHERE id = $1`, uuid.UUID(inmateID))
	if err != nil {
		return fmt.Errorf("delete inmate: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete inmate rows affected: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("inmate not found: %w", sentinel.ErrNotFound)
	}
	return nil
}

func (s *PostgresStore) args(i *models.Inmate) []any {
	return []any{
		uuid.UUID(i.ID), i.FirstName, i.LastName, i.OtherNames, i.PrisonNumber, i.NationalID,
		i.DateOfBirth, string(i.Gender), i.Nationality, i.Tribe, i.Religion,
		i.EducationLevel, i.MaritalStatus, i.Occupation,
		i.NextOfKinName, i.NextOfKinPhone, i.NextOfKinRelationship,
		string(i.InmateType), string(i.Status), string(i.RiskLevel),
		uuid.UUID(i.PrisonID), i.CellBlock, i.CellNumber,
		i.CaseNumber, uuid.UUID(i.OffenseID), i.ArrestingStation,
		i.AdmissionDate, i.RemandExpiry, i.NextCourtDate,
		i.ConvictionDate, i.SentenceStart, i.SentenceEnd, i.SentenceDuration,
		i.IsLifeSentence, i.FineAmount, i.FinePaid,
		i.ActualReleaseDate, string(i.ReleaseReason), i.Notes,
		i.CreatedAt, i.UpdatedAt,
	}
}

// updateArgs drops created_at, which Update never writes.
func (s *PostgresStore) updateArgs(i *models.Inmate) []any {
	args := s.args(i)
	return append(args[:len(args)-2:len(args)-2], i.UpdatedAt)
}

type rowScanner interface {
	Scan(dest ...any) error
}

func (s *PostgresStore) scanInmate(row rowScanner) (*models.Inmate, error) {
	var (
		i          models.Inmate
		inmateID   uuid.UUID
		prisonID   uuid.UUID
		offenseID  uuid.UUID
		gender     string
		inmateType string
		status     string
		riskLevel  string
		release    string
	)
	err := row.Scan(
		&inmateID, &i.FirstName, &i.LastName, &i.OtherNames, &i.PrisonNumber, &i.NationalID,
		&i.DateOfBirth, &gender, &i.Nationality, &i.Tribe, &i.Religion,
		&i.EducationLevel, &i.MaritalStatus, &i.Occupation,
		&i.NextOfKinName, &i.NextOfKinPhone, &i.NextOfKinRelationship,
		&inmateType, &status, &riskLevel,
		&prisonID, &i.CellBlock, &i.CellNumber,
		&i.CaseNumber, &offenseID, &i.ArrestingStation,
		&i.AdmissionDate, &i.RemandExpiry, &i.NextCourtDate,
		&i.ConvictionDate, &i.SentenceStart, &i.SentenceEnd, &i.SentenceDuration,
		&i.IsLifeSentence, &i.FineAmount, &i.FinePaid,
		&i.ActualReleaseDate, &release, &i.Notes,
		&i.CreatedAt, &i.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	i.ID = id.InmateID(inmateID)
	i.PrisonID = id.PrisonID(prisonID)
	i.OffenseID = id.OffenseID(offenseID)
	i.Gender = id.Gender(gender)
	i.InmateType = id.InmateType(inmateType)
	i.Status = id.InmateStatus(status)
	i.RiskLevel = id.RiskLevel(riskLevel)
	i.ReleaseReason = id.ReleaseReason(release)
	return &i, nil
}

func (s *PostgresStore) scanOne(row *sql.Row) (*models.Inmate, error) {
	i, err := s.scanInmate(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("inmate not found: %w", sentinel.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("scan inmate: %w", err)
	}
	return i, nil
}

func (s *PostgresStore) scanAll(rows *sql.Rows) ([]*models.Inmate, error) {
	var out []*models.Inmate
	for rows.Next() {
		i, err := s.scanInmate(rows)
		if err != nil {
			return nil, fmt.Errorf("scan inmate: %w", err)
		}
		out = append(out, i)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate inmates: %w", err)
	}
	return out, nil
}
