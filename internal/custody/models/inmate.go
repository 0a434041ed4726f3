package models

import (
	"time"

	id "warden/pkg/domain"
	dErrors "warden/pkg/domain-errors"
)

// Inmate is the aggregate root for a custody record.
//
// Invariants:
//   - PrisonNumber is non-empty, unique across all inmates, and immutable
//     after registration
//   - Status is one of the enumerated custody statuses; escaped and deceased
//     are entered only by direct administrative status edit, never derived
//     from a movement or court event
//   - CaseNumber and OffenseID are set at registration
type Inmate struct {
	ID           id.InmateID `json:"id"`
	FirstName    string      `json:"first_name"`
	LastName     string      `json:"last_name"`
	OtherNames   string      `json:"other_names,omitempty"`
	PrisonNumber string      `json:"prison_number"`
	NationalID   string      `json:"national_id,omitempty"`
	DateOfBirth  string      `json:"dob"`
	Gender       id.Gender   `json:"gender"`
	Nationality  string      `json:"nationality,omitempty"`
	Tribe        string      `json:"tribe,omitempty"`
	Religion     string      `json:"religion,omitempty"`

	EducationLevel string `json:"education_level,omitempty"`
	MaritalStatus  string `json:"marital_status,omitempty"`
	Occupation     string `json:"occupation,omitempty"`

	NextOfKinName         string `json:"next_of_kin_name,omitempty"`
	NextOfKinPhone        string `json:"next_of_kin_phone,omitempty"`
	NextOfKinRelationship string `json:"next_of_kin_relationship,omitempty"`

	InmateType id.InmateType   `json:"inmate_type"`
	Status     id.InmateStatus `json:"status"`
	RiskLevel  id.RiskLevel    `json:"risk_level,omitempty"`

	PrisonID   id.PrisonID `json:"prison_id"`
	CellBlock  string      `json:"cell_block,omitempty"`
	CellNumber string      `json:"cell_number,omitempty"`

	CaseNumber       string       `json:"case_number"`
	OffenseID        id.OffenseID `json:"offense_id"`
	ArrestingStation string       `json:"arresting_station,omitempty"`

	AdmissionDate string `json:"admission_date"`
	RemandExpiry  string `json:"remand_expiry,omitempty"`
	NextCourtDate string `json:"next_court_date,omitempty"`

	ConvictionDate   string  `json:"conviction_date,omitempty"`
	SentenceStart    string  `json:"sentence_start,omitempty"`
	SentenceEnd      string  `json:"sentence_end,omitempty"`
	SentenceDuration string  `json:"sentence_duration,omitempty"`
	IsLifeSentence   bool    `json:"is_life_sentence,omitempty"`
	FineAmount       float64 `json:"fine_amount,omitempty"`
	FinePaid         bool    `json:"fine_paid,omitempty"`

	ActualReleaseDate string           `json:"actual_release_date,omitempty"`
	ReleaseReason     id.ReleaseReason `json:"release_reason,omitempty"`
	Notes             string           `json:"notes,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NewInmate constructs an inmate at registration. Status defaults from
// InmateType when the caller does not supply one.
func NewInmate(inmateID id.InmateID, prisonNumber, firstName, lastName string, gender id.Gender, inmateType id.InmateType, status id.InmateStatus, prisonID id.PrisonID, caseNumber string, offenseID id.OffenseID, admissionDate string, now time.Time) (*Inmate, error) {
	if prisonNumber == "" {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "prison number cannot be empty")
	}
	if firstName == "" || lastName == "" {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "inmate name cannot be empty")
	}
	if prisonID.IsNil() {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "inmate must be assigned to a prison")
	}
	if caseNumber == "" {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "case number cannot be empty")
	}
	if offenseID.IsNil() {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "inmate must reference an offense")
	}
	if admissionDate == "" {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "admission date cannot be empty")
	}
	if status == "" {
		status = defaultStatusFor(inmateType)
	}
	return &Inmate{
		ID:            inmateID,
		FirstName:     firstName,
		LastName:      lastName,
		PrisonNumber:  prisonNumber,
		Gender:        gender,
		InmateType:    inmateType,
		Status:        status,
		PrisonID:      prisonID,
		CaseNumber:    caseNumber,
		OffenseID:     offenseID,
		AdmissionDate: admissionDate,
		CreatedAt:     now,
		UpdatedAt:     now,
	}, nil
}

func defaultStatusFor(t id.InmateType) id.InmateStatus {
	if t == id.InmateTypeConvict {
		return id.StatusConvict
	}
	return id.StatusRemand
}

// InmatePatch is a partial update to an inmate record. Nil fields are left
// untouched. PrisonNumber is deliberately absent; the business key is
// immutable.
type InmatePatch struct {
	FirstName   *string
	LastName    *string
	OtherNames  *string
	NationalID  *string
	DateOfBirth *string
	Tribe       *string
	Religion    *string

	EducationLevel *string
	MaritalStatus  *string
	Occupation     *string

	NextOfKinName         *string
	NextOfKinPhone        *string
	NextOfKinRelationship *string

	Status    *id.InmateStatus
	RiskLevel *id.RiskLevel

	PrisonID   *id.PrisonID
	CellBlock  *string
	CellNumber *string

	RemandExpiry  *string
	NextCourtDate *string

	ConvictionDate   *string
	SentenceStart    *string
	SentenceEnd      *string
	SentenceDuration *string
	IsLifeSentence   *bool
	FineAmount       *float64
	FinePaid         *bool

	ActualReleaseDate *string
	ReleaseReason     *id.ReleaseReason
	Notes             *string
}

// IsZero reports whether the patch changes nothing.
func (p InmatePatch) IsZero() bool {
	return p == InmatePatch{}
}

// Apply writes the patch onto the inmate and stamps UpdatedAt.
func (i *Inmate) Apply(p InmatePatch, now time.Time) {
	setString := func(dst *string, src *string) {
		if src != nil {
			*dst = *src
		}
	}

	setString(&i.FirstName, p.FirstName)
	setString(&i.LastName, p.LastName)
	setString(&i.OtherNames, p.OtherNames)
	setString(&i.NationalID, p.NationalID)
	setString(&i.DateOfBirth, p.DateOfBirth)
	setString(&i.Tribe, p.Tribe)
	setString(&i.Religion, p.Religion)
	setString(&i.EducationLevel, p.EducationLevel)
	setString(&i.MaritalStatus, p.MaritalStatus)
	setString(&i.Occupation, p.Occupation)
	setString(&i.NextOfKinName, p.NextOfKinName)
	setString(&i.NextOfKinPhone, p.NextOfKinPhone)
	setString(&i.NextOfKinRelationship, p.NextOfKinRelationship)
	setString(&i.CellBlock, p.CellBlock)
	setString(&i.CellNumber, p.CellNumber)
	setString(&i.RemandExpiry, p.RemandExpiry)
	setString(&i.NextCourtDate, p.NextCourtDate)
	setString(&i.ConvictionDate, p.ConvictionDate)
	setString(&i.SentenceStart, p.SentenceStart)
	setString(&i.SentenceEnd, p.SentenceEnd)
	setString(&i.SentenceDuration, p.SentenceDuration)
	setString(&i.ActualReleaseDate, p.ActualReleaseDate)
	setString(&i.Notes, p.Notes)

	if p.Status != nil {
		i.Status = *p.Status
	}
	if p.RiskLevel != nil {
		i.RiskLevel = *p.RiskLevel
	}
	if p.PrisonID != nil {
		i.PrisonID = *p.PrisonID
	}
	if p.IsLifeSentence != nil {
		i.IsLifeSentence = *p.IsLifeSentence
	}
	if p.FineAmount != nil {
		i.FineAmount = *p.FineAmount
	}
	if p.FinePaid != nil {
		i.FinePaid = *p.FinePaid
	}
	if p.ReleaseReason != nil {
		i.ReleaseReason = *p.ReleaseReason
	}

	i.UpdatedAt = now
}
