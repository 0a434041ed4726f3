package photo

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"warden/internal/biometric/models"
	id "warden/pkg/domain"
	"warden/pkg/platform/sentinel"
)

// PostgresStore persists photos in the photos table. The subject union maps
// to a discriminator column plus two nullable references; exactly one of
// inmate_id and officer_id is set per row.
type PostgresStore struct {
	db *sql.DB
}

// NewPostgres creates a PostgreSQL-backed photo store.
func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

const photoColumns = `
	id, subject_type, inmate_id, officer_id, photo_type, provider,
	storage_ref, external_url, base64_preview, file_size, mime_type,
	captured_at, captured_by_id, is_primary,
	is_confirmed, confirmed_by_id, confirmed_at, confirm_notes,
	created_at, updated_at`

func (s *PostgresStore) Create(ctx context.Context, p *models.Photo) error {
	query := `
		INSERT INTO photos (` + photoColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20)
	`

	_, err := s.db.ExecContext(ctx, query, s.args(p)...)
	if err != nil {
		return fmt.Errorf("insert photo: %w", err)
	}
	return nil
}

func (s *PostgresStore) FindByID(ctx context.Context, photoID id.PhotoID) (*models.Photo, error) {
	query := `SELECT ` + photoColumns + ` FROM photos WHERE id = $1`
	p, err := s.scanPhoto(s.db.QueryRowContext(ctx, query, uuid.UUID(photoID)))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("photo not found: %w", sentinel.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("scan photo: %w", err)
	}
	return p, nil
}

func (s *PostgresStore) ListBySubject(ctx context.Context, subject id.Subject) ([]*models.Photo, error) {
	subjectType, inmateRef, officerRef := subjectArgs(subject)
	query := `
		SELECT ` + photoColumns + ` FROM photos
		WHERE subject_type = $1
		  AND inmate_id IS NOT DISTINCT FROM $2
		  AND officer_id IS NOT DISTINCT FROM $3
		ORDER BY created_at, id
	`
	rows, err := s.db.QueryContext(ctx, query, subjectType, inmateRef, officerRef)
	if err != nil {
		return nil, fmt.Errorf("query photos by subject: %w", err)
	}
	defer rows.Close()
	return s.scanAll(rows)
}

func (s *PostgresStore) ListUnconfirmed(ctx context.Context) ([]*models.Photo, error) {
	query := `SELECT ` + photoColumns + ` FROM photos WHERE NOT is_confirmed ORDER BY created_at, id`
	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("query unconfirmed photos: %w", err)
	}
	defer rows.Close()
	return s.scanAll(rows)
}

func (s *PostgresStore) Update(ctx context.Context, p *models.Photo) error {
	query := `
		UPDATE photos SET
			photo_type = $5, provider = $6, storage_ref = $7, external_url = $8,
			base64_preview = $9, file_size = $10, mime_type = $11,
			captured_at = $12, captured_by_id = $13, is_primary = $14,
			is_confirmed = $15, confirmed_by_id = $16, confirmed_at = $17,
			confirm_notes = $18, updated_at = $19
		WHERE id = $1 AND subject_type = $2
		  AND inmate_id IS NOT DISTINCT FROM $3
		  AND officer_id IS NOT DISTINCT FROM $4
	`

	res, err := s.db.ExecContext(ctx, query, s.updateArgs(p)...)
	if err != nil {
		return fmt.Errorf("update photo: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update photo rows affected: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("photo not found: %w", sentinel.ErrNotFound)
	}
	return nil
}

func (s *PostgresStore) Delete(ctx context.Context, photoID id.PhotoID) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM photos WHERE id = $1`, uuid.UUID(photoID))
	if err != nil {
		return fmt.Errorf("delete photo: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete photo rows affected: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("photo not found: %w", sentinel.ErrNotFound)
	}
	return nil
}

// subjectArgs splits a subject into its discriminator and nullable reference
// columns.
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

func (s *PostgresStore) args(p *models.Photo) []any {
	subjectType, inmateRef, officerRef := subjectArgs(p.Subject)
	var capturedBy, confirmedBy *uuid.UUID
	if !p.CapturedByID.IsNil() {
		u := uuid.UUID(p.CapturedByID)
		capturedBy = &u
	}
	if !p.ConfirmedByID.IsNil() {
		u := uuid.UUID(p.ConfirmedByID)
		confirmedBy = &u
	}
	return []any{
		uuid.UUID(p.ID), subjectType, inmateRef, officerRef,
		string(p.PhotoType), string(p.Provider),
		string(p.StorageRef), p.ExternalURL, p.Base64Preview, p.FileSize, p.MimeType,
		p.CapturedAt, capturedBy, p.IsPrimary,
		p.IsConfirmed, confirmedBy, p.ConfirmedAt, p.ConfirmNotes,
		p.CreatedAt, p.UpdatedAt,
	}
}

// updateArgs drops created_at, which Update never writes.
func (s *PostgresStore) updateArgs(p *models.Photo) []any {
	args := s.args(p)
	return append(args[:len(args)-2:len(args)-2], p.UpdatedAt)
}

type rowScanner interface {
	Scan(dest ...any) error
}

func (s *PostgresStore) scanPhoto(row rowScanner) (*models.Photo, error) {
	var (
		p           models.Photo
		photoID     uuid.UUID
		subjectType string
		inmateRef   *uuid.UUID
		officerRef  *uuid.UUID
		photoType   string
		provider    string
		storageRef  string
		capturedBy  *uuid.UUID
		confirmedBy *uuid.UUID
	)
	err := row.Scan(
		&photoID, &subjectType, &inmateRef, &officerRef, &photoType, &provider,
		&storageRef, &p.ExternalURL, &p.Base64Preview, &p.FileSize, &p.MimeType,
		&p.CapturedAt, &capturedBy, &p.IsPrimary,
		&p.IsConfirmed, &confirmedBy, &p.ConfirmedAt, &p.ConfirmNotes,
		&p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	subject, err := scanSubject(subjectType, inmateRef, officerRef)
	if err != nil {
		return nil, fmt.Errorf("photo subject: %w", err)
	}
	p.ID = id.PhotoID(photoID)
	p.Subject = subject
	p.PhotoType = id.PhotoType(photoType)
	p.Provider = id.PhotoProvider(provider)
	p.StorageRef = id.StorageRef(storageRef)
	if capturedBy != nil {
		p.CapturedByID = id.OfficerID(*capturedBy)
	}
	if confirmedBy != nil {
		p.ConfirmedByID = id.OfficerID(*confirmedBy)
	}
	return &p, nil
}

func (s *PostgresStore) scanAll(rows *sql.Rows) ([]*models.Photo, error) {
	var out []*models.Photo
	for rows.Next() {
		p, err := s.scanPhoto(rows)
		if err != nil {
			return nil, fmt.Errorf("scan photo: %w", err)
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate photos: %w", err)
	}
	return out, nil
}
