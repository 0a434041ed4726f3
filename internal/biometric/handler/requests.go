package handler

import (
	"net/url"

	"github.com/go-playground/validator/v10"

	"warden/internal/biometric/service"
	id "warden/pkg/domain"
	dErrors "warden/pkg/domain-errors"
)

// validate holds struct-tag validation for biometric request bodies.
var validate = validator.New()

// subjectFields is the wire shape of a record subject, embedded in capture
// requests and mirrored by the subject query parameters on reads.
type subjectFields struct {
	SubjectType string `json:"subject_type" validate:"required"`
	InmateID    string `json:"inmate_id"`
	OfficerID   string `json:"officer_id"`
}

func (f subjectFields) subject() (id.Subject, error) {
	subjectType, err := id.ParseSubjectType(f.SubjectType)
	if err != nil {
		return id.Subject{}, err
	}
	var (
		inmateID  id.InmateID
		officerID id.OfficerID
	)
	if f.InmateID != "" {
		if inmateID, err = id.ParseInmateID(f.InmateID); err != nil {
			return id.Subject{}, err
		}
	}
	if f.OfficerID != "" {
		if officerID, err = id.ParseOfficerID(f.OfficerID); err != nil {
			return id.Subject{}, err
		}
	}
	return id.NewSubject(subjectType, inmateID, officerID)
}

// subjectFromQuery resolves ?subject_type=&inmate_id=&officer_id= on read
// endpoints.
func subjectFromQuery(q url.Values) (id.Subject, error) {
	return subjectFields{
		SubjectType: q.Get("subject_type"),
		InmateID:    q.Get("inmate_id"),
		OfficerID:   q.Get("officer_id"),
	}.subject()
}

// AddPhotoRequest is the HTTP request body for POST /photos.
type AddPhotoRequest struct {
	subjectFields

	PhotoType string `json:"photo_type" validate:"required"`
	Provider  string `json:"provider" validate:"required"`

	StorageRef    string `json:"storage_ref"`
	ExternalURL   string `json:"external_url" validate:"omitempty,url"`
	Base64Preview string `json:"base64_preview"`

	FileSize     int64  `json:"file_size" validate:"min=0"`
	MimeType     string `json:"mime_type" validate:"max=128"`
	CapturedAt   string `json:"captured_at"`
	CapturedByID string `json:"captured_by_id"`
	IsPrimary    bool   `json:"is_primary"`
	IsConfirmed  bool   `json:"is_confirmed"`

	parsed service.AddPhotoParams
}

func (r *AddPhotoRequest) Validate() error {
	if r == nil {
		return dErrors.New(dErrors.CodeBadRequest, "request body is required")
	}
	if err := validate.Struct(r); err != nil {
		return dErrors.New(dErrors.CodeInvalidInput, err.Error())
	}

	subject, err := r.subject()
	if err != nil {
		return err
	}
	photoType, err := id.ParsePhotoType(r.PhotoType)
	if err != nil {
		return err
	}
	provider, err := id.ParsePhotoProvider(r.Provider)
	if err != nil {
		return err
	}

	params := service.AddPhotoParams{
		Subject:       subject,
		PhotoType:     photoType,
		Provider:      provider,
		StorageRef:    id.StorageRef(r.StorageRef),
		ExternalURL:   r.ExternalURL,
		Base64Preview: r.Base64Preview,
		FileSize:      r.FileSize,
		MimeType:      r.MimeType,
		CapturedAt:    r.CapturedAt,
		IsPrimary:     r.IsPrimary,
		IsConfirmed:   r.IsConfirmed,
	}
	if r.CapturedByID != "" {
		if params.CapturedByID, err = id.ParseOfficerID(r.CapturedByID); err != nil {
			return err
		}
	}
	r.parsed = params
	return nil
}

func (r *AddPhotoRequest) Params() service.AddPhotoParams { return r.parsed }

// AddFingerprintRequest is the HTTP request body for POST /fingerprints.
type AddFingerprintRequest struct {
	subjectFields

	Finger   string `json:"finger" validate:"required"`
	Provider string `json:"provider" validate:"required"`

	StorageRef   string `json:"storage_ref"`
	TemplateData string `json:"template_data"`

	ProviderName string `json:"provider_name" validate:"max=128"`
	ProviderRef  string `json:"provider_ref" validate:"max=256"`
	Quality      int    `json:"quality" validate:"min=0,max=100"`
	CapturedAt   string `json:"captured_at"`
	CapturedByID string `json:"captured_by_id"`

	parsed service.AddFingerprintParams
}

func (r *AddFingerprintRequest) Validate() error {
	if r == nil {
		return dErrors.New(dErrors.CodeBadRequest, "request body is required")
	}
	if err := validate.Struct(r); err != nil {
		return dErrors.New(dErrors.CodeInvalidInput, err.Error())
	}

	subject, err := r.subject()
	if err != nil {
		return err
	}
	finger, err := id.ParseFinger(r.Finger)
	if err != nil {
		return err
	}
	provider, err := id.ParseFingerprintProvider(r.Provider)
	if err != nil {
		return err
	}

	params := service.AddFingerprintParams{
		Subject:      subject,
		Finger:       finger,
		Provider:     provider,
		StorageRef:   id.StorageRef(r.StorageRef),
		TemplateData: r.TemplateData,
		ProviderName: r.ProviderName,
		ProviderRef:  r.ProviderRef,
		Quality:      r.Quality,
		CapturedAt:   r.CapturedAt,
	}
	if r.CapturedByID != "" {
		if params.CapturedByID, err = id.ParseOfficerID(r.CapturedByID); err != nil {
			return err
		}
	}
	r.parsed = params
	return nil
}

func (r *AddFingerprintRequest) Params() service.AddFingerprintParams { return r.parsed }

// ConfirmRequest is the HTTP request body for confirm endpoints.
type ConfirmRequest struct {
	ConfirmedByID string `json:"confirmed_by_id"`
	Notes         string `json:"notes" validate:"max=1024"`

	parsedReviewer id.OfficerID
}

func (r *ConfirmRequest) Validate() error {
	if r == nil {
		return nil
	}
	if err := validate.Struct(r); err != nil {
		return dErrors.New(dErrors.CodeInvalidInput, err.Error())
	}
	if r.ConfirmedByID != "" {
		reviewerID, err := id.ParseOfficerID(r.ConfirmedByID)
		if err != nil {
			return err
		}
		r.parsedReviewer = reviewerID
	}
	return nil
}

// RejectRequest is the HTTP request body for reject endpoints. Notes are
// optional; the service fills a default.
type RejectRequest struct {
	Notes string `json:"notes" validate:"max=1024"`
}

func (r *RejectRequest) Validate() error {
	if r == nil {
		return nil
	}
	if err := validate.Struct(r); err != nil {
		return dErrors.New(dErrors.CodeInvalidInput, err.Error())
	}
	return nil
}

// uploadURLResponse is the reply to an upload URL request.
type uploadURLResponse struct {
	UploadURL  string `json:"upload_url"`
	StorageRef string `json:"storage_ref"`
}
