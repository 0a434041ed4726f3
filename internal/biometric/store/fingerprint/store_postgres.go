package fingerprint

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"warden/internal/biometric/models"
	id "warden/pkg/domain"
	"warden/pkg/platform/sentinel"
)

// uniqueViolation is the PostgreSQL error code raised when an insert breaks a
// unique constraint.
const uniqueViolation = "23505"

// PostgresStore persists fingerprints in the finger_prints table. A partial
// unique index per subject column on (subject ref, finger) enforces the slot
// invariant, so Create surfaces races as sentinel.ErrAlreadyUsed.
type PostgresStore struct {
	db *sql.DB
}

// NewPostgres creates a PostgreSQL-backed fingerprint store.
func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

const fingerprintColumns = `
	id, subject_type, inmate_id, officer_id, finger, provider,
	storage_ref, template_data, provider_name, provider_ref, quality,
	captured_at, captured_by_id,
	is_confirmed, confirmed_by_id, confirmed_at, confirm_notes,
	created_at, updated_at`

func (s *PostgresStore) Create(ctx context.Context, f *models.Fingerprint) error {
	query := `
		INSERT INTO finger_prints (` + fingerprintColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19)
	`

	_, err := s.db.ExecContext(ctx, query, s.args(f)...)
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
		return fmt.Errorf("fingerprint slot taken: %w", sentinel.ErrAlreadyUsed)
	}
	if err != nil {
		return fmt.Errorf("insert fingerprint: %w", err)
	}
	return nil
}

func (s *PostgresStore) FindByID(ctx context.Context, fingerprintID id.FingerprintID) (*models.Fingerprint, error) {
	query := `SELECT ` + fingerprintColumns + ` FROM finger_prints WHERE id = $1`
	f, err := s.scanFingerprint(s.db.QueryRowContext(ctx, query, uuid.UUID(fingerprintID)))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("fingerprint not found: %w", sentinel.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("scan fingerprint: %w", err)
	}
	return f, nil
}

func (s *PostgresStore) FindBySlot(ctx context.Context, subject id.Subject, finger id.Finger) (*models.Fingerprint, error) {
	subjectType, inmateRef, officerRef := subjectArgs(subject)
	query := `
		SELECT ` + fingerprintColumns + ` FROM finger_prints
		WHERE subject_type = $1
		  AND inmate_id IS NOT DISTINCT FROM $2
		  AND officer_id IS NOT DISTINCT FROM $3
		  AND finger = $4
	`
	f, err := s.scanFingerprint(s.db.QueryRowContext(ctx, query, subjectType, inmateRef, officerRef, string(finger)))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("fingerprint not found: %w", sentinel.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("scan fingerprint: %w", err)
	}
	return f, nil
}

func (s *PostgresStore) ListBySubject(ctx context.Context, subject id.Subject) ([]*models.Fingerprint, error) {
	subjectType, inmateRef, officerRef := subjectArgs(subject)
	query := `
		SELECT ` + fingerprintColumns + ` FROM finger_prints
		WHERE subject_type = $1
		  AND inmate_id IS NOT DISTINCT FROM $2
		  AND officer_id IS NOT DISTINCT FROM $3
		ORDER BY finger
	`
	rows, err := s.db.QueryContext(ctx, query, subjectType, inmateRef, officerRef)
	if err != nil {
		return nil, fmt.Errorf("query fingerprints by subject: %w", err)
	}
	defer rows.Close()
	return s.scanAll(rows)
}

func (s *PostgresStore) ListUnconfirmed(ctx context.Context) ([]*models.Fingerprint, error) {
	query := `SELECT ` + fingerprintColumns + ` FROM finger_prints WHERE NOT is_confirmed ORDER BY created_at, id`
	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("query unconfirmed fingerprints: %w", err)
	}
	defer rows.Close()
	return s.scanAll(rows)
}

func (s *PostgresStore) Update(ctx context.Context, f *models.Fingerprint) error {
	query := `
		UPDATE finger_prints SET
			provider = $6, storage_ref = $7, template_data = $8,
			provider_name = $9, provider_ref = $10, quality = $11,
			captured_at = $12, captured_by_id = $13,
			is_confirmed = $14, confirmed_by_id = $15, confirmed_at = $16,
			confirm_notes = $17, updated_at = $18
		WHERE id = $1 AND subject_type = $2
		  AND inmate_id IS NOT DISTINCT FROM $3
		  AND officer_id IS NOT DISTINCT FROM $4
		  AND finger = $5
	`

	res, err := s.db.ExecContext(ctx, query, s.updateArgs(f)...)
	if err != nil {
		return fmt.Errorf("update fingerprint: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update fingerprint rows affected: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("fingerprint not found: %w", sentinel.ErrNotFound)
	}
	return nil
}

func (s *PostgresStore) Delete(ctx context.Context, fingerprintID id.FingerprintID) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM finger_prints WHERE id = $1`, uuid.UUID(fingerprintID))
	if err != nil {
		return fmt.Errorf("delete fingerprint: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete fingerprint rows affected: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("fingerprint not found: %w", sentinel.ErrNotFound)
	}
	return nil
}

func subjectArgs(subject id.Subject) (string, *uuid.UUID, *uuid.UUID) {
	var inmateRef, officerRef *uuid.UUID
	if inmateID, ok := subject.InmateID(); ok {
		u := uuid.UUID(inmateID)
		inmateRef = &u
	}
	if officerID, ok := subject.OfficerID(); ok {
		u := uuid.UUID(officerID)
		officerRef = &u
	}
	return string(subject.Type()), inmateRef, officerRef
}

func scanSubject(subjectType string, inmateRef, officerRef *uuid.UUID) (id.Subject, error) {
	var (
		inmateID  id.InmateID
		officerID id.OfficerID
	)
	if inmateRef != nil {
		inmateID = id.InmateID(*inmateRef)
	}
	if officerRef != nil {
		officerID = id.OfficerID(*officerRef)
	}
	return id.NewSubject(id.SubjectType(subjectType), inmateID, officerID)
}

func (s *PostgresStore) args(f *models.Fingerprint) []any {
	subjectType, inmateRef, officerRef := subjectArgs(f.Subject)
	var capturedBy, confirmedBy *uuid.UUID
	if !f.CapturedByID.IsNil() {
		u := uuid.UUID(f.CapturedByID)
		capturedBy = &u
	}
	if !f.ConfirmedByID.IsNil() {
		u := uuid.UUID(f.ConfirmedByID)
		confirmedBy = &u
	}
	return []any{
		uuid.UUID(f.ID), subjectType, inmateRef, officerRef,
		string(f.Finger), string(f.Provider),
		string(f.StorageRef), f.TemplateData, f.ProviderName, f.ProviderRef, f.Quality,
		f.CapturedAt, capturedBy,
		f.IsConfirmed, confirmedBy, f.ConfirmedAt, f.ConfirmNotes,
		f.CreatedAt, f.UpdatedAt,
	}
}

// updateArgs drops created_at, which Update never writes.
func (s *PostgresStore) updateArgs(f *models.Fingerprint) []any {
	args := s.args(f)
	return append(args[:len(args)-2:len(args)-2], f.UpdatedAt)
}

type rowScanner interface {
	Scan(dest ...any) error
}

func (s *PostgresStore) scanFingerprint(row rowScanner) (*models.Fingerprint, error) {
	var (
		f             models.Fingerprint
		fingerprintID uuid.UUID
		subjectType   string
		inmateRef     *uuid.UUID
		officerRef    *uuid.UUID
		finger        string
		provider      string
		storageRef    string
		capturedBy    *uuid.UUID
		confirmedBy   *uuid.UUID
	)
	err := row.Scan(
		&fingerprintID, &subjectType, &inmateRef, &officerRef, &finger, &provider,
		&storageRef, &f.TemplateData, &f.ProviderName, &f.ProviderRef, &f.Quality,
		&f.CapturedAt, &capturedBy,
		&f.IsConfirmed, &confirmedBy, &f.ConfirmedAt, &f.ConfirmNotes,
		&f.CreatedAt, &f.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	subject, err := scanSubject(subjectType, inmateRef, officerRef)
	if err != nil {
		return nil, fmt.Errorf("fingerprint subject: %w", err)
	}
	f.ID = id.FingerprintID(fingerprintID)
	f.Subject = subject
	f.Finger = id.Finger(finger)
	f.Provider = id.FingerprintProvider(provider)
	f.StorageRef = id.StorageRef(storageRef)
	if capturedBy != nil {
		f.CapturedByID = id.OfficerID(*capturedBy)
	}
	if confirmedBy != nil {
		f.ConfirmedByID = id.OfficerID(*confirmedBy)
	}
	return &f, nil
}

func (s *PostgresStore) scanAll(rows *sql.Rows) ([]*models.Fingerprint, error) {
	var out []*models.Fingerprint
	for rows.Next() {
		f, err := s.scanFingerprint(rows)
		if err != nil {
			return nil, fmt.Errorf("scan fingerprint: %w", err)
		}
		out = append(out, f)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate fingerprints: %w", err)
	}
	return out, nil
}
