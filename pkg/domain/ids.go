// Package domain holds the typed identifiers and wire enums shared across
// modules. Values are constructed via Parse functions at trust boundaries;
// direct casting bypasses validation.
package domain

import (
	"github.com/google/uuid"

	dErrors "warden/pkg/domain-errors"
)

// Typed IDs prevent cross-entity assignment at compile time. An InmateID can
// never be passed where an OfficerID is expected.
type (
	InmateID      uuid.UUID
	OfficerID     uuid.UUID
	PrisonID      uuid.UUID
	CourtID       uuid.UUID
	OffenseID     uuid.UUID
	MovementID    uuid.UUID
	AppearanceID  uuid.UUID
	PhotoID       uuid.UUID
	FingerprintID uuid.UUID
	VisitID       uuid.UUID
)

// StorageRef identifies an object held by blob storage. It is opaque to the
// ledger; only the blob store interprets it.
type StorageRef string

func (r StorageRef) IsZero() bool  { return r == "" }
func (r StorageRef) String() string { return string(r) }

func parseUUID(s string) (uuid.UUID, error) {
	if s == "" {
		return uuid.Nil, dErrors.New(dErrors.CodeInvalidInput, "id cannot be empty")
	}
	u, err := uuid.Parse(s)
	if err != nil {
		return uuid.Nil, dErrors.New(dErrors.CodeInvalidInput, "id must be a valid UUID")
	}
	if u == uuid.Nil {
		return uuid.Nil, dErrors.New(dErrors.CodeInvalidInput, "id cannot be the nil UUID")
	}
	return u, nil
}

func ParseInmateID(s string) (InmateID, error) {
	u, err := parseUUID(s)
	return InmateID(u), err
}

func ParseOfficerID(s string) (OfficerID, error) {
	u, err := parseUUID(s)
	return OfficerID(u), err
}

func ParsePrisonID(s string) (PrisonID, error) {
	u, err := parseUUID(s)
	return PrisonID(u), err
}

func ParseCourtID(s string) (CourtID, error) {
	u, err := parseUUID(s)
	return CourtID(u), err
}

func ParseOffenseID(s string) (OffenseID, error) {
	u, err := parseUUID(s)
	return OffenseID(u), err
}

func ParseMovementID(s string) (MovementID, error) {
	u, err := parseUUID(s)
	return MovementID(u), err
}

func ParseAppearanceID(s string) (AppearanceID, error) {
	u, err := parseUUID(s)
	return AppearanceID(u), err
}

func ParsePhotoID(s string) (PhotoID, error) {
	u, err := parseUUID(s)
	return PhotoID(u), err
}

func ParseFingerprintID(s string) (FingerprintID, error) {
	u, err := parseUUID(s)
	return FingerprintID(u), err
}

func ParseVisitID(s string) (VisitID, error) {
	u, err := parseUUID(s)
	return VisitID(u), err
}

func (id InmateID) String() string      { return uuid.UUID(id).String() }
func (id OfficerID) String() string     { return uuid.UUID(id).String() }
func (id PrisonID) String() string      { return uuid.UUID(id).String() }
func (id CourtID) String() string       { return uuid.UUID(id).String() }
func (id OffenseID) String() string     { return uuid.UUID(id).String() }
func (id MovementID) String() string    { return uuid.UUID(id).String() }
func (id AppearanceID) String() string  { return uuid.UUID(id).String() }
func (id PhotoID) String() string       { return uuid.UUID(id).String() }
func (id FingerprintID) String() string { return uuid.UUID(id).String() }
func (id VisitID) String() string       { return uuid.UUID(id).String() }

func (id InmateID) IsNil() bool      { return uuid.UUID(id) == uuid.Nil }
func (id OfficerID) IsNil() bool     { return uuid.UUID(id) == uuid.Nil }
func (id PrisonID) IsNil() bool      { return uuid.UUID(id) == uuid.Nil }
func (id CourtID) IsNil() bool       { return uuid.UUID(id) == uuid.Nil }
func (id OffenseID) IsNil() bool     { return uuid.UUID(id) == uuid.Nil }
func (id MovementID) IsNil() bool    { return uuid.UUID(id) == uuid.Nil }
func (id AppearanceID) IsNil() bool  { return uuid.UUID(id) == uuid.Nil }
func (id PhotoID) IsNil() bool       { return uuid.UUID(id) == uuid.Nil }
func (id FingerprintID) IsNil() bool { return uuid.UUID(id) == uuid.Nil }
func (id VisitID) IsNil() bool       { return uuid.UUID(id) == uuid.Nil }

// Text marshaling keeps IDs as their canonical UUID string on the wire.
func (id InmateID) MarshalText() ([]byte, error)      { return []byte(id.String()), nil }
func (id OfficerID) MarshalText() ([]byte, error)     { return []byte(id.String()), nil }
func (id PrisonID) MarshalText() ([]byte, error)      { return []byte(id.String()), nil }
func (id CourtID) MarshalText() ([]byte, error)       { return []byte(id.String()), nil }
func (id OffenseID) MarshalText() ([]byte, error)     { return []byte(id.String()), nil }
func (id MovementID) MarshalText() ([]byte, error)    { return []byte(id.String()), nil }
func (id AppearanceID) MarshalText() ([]byte, error)  { return []byte(id.String()), nil }
func (id PhotoID) MarshalText() ([]byte, error)       { return []byte(id.String()), nil }
func (id FingerprintID) MarshalText() ([]byte, error) { return []byte(id.String()), nil }
func (id VisitID) MarshalText() ([]byte, error)       { return []byte(id.String()), nil }

func unmarshalUUID(b []byte) (uuid.UUID, error) {
	if len(b) == 0 {
		return uuid.Nil, nil
	}
	return uuid.Parse(string(b))
}

func (id *InmateID) UnmarshalText(b []byte) error {
	u, err := unmarshalUUID(b)
	*id = InmateID(u)
	return err
}

func (id *OfficerID) UnmarshalText(b []byte) error {
	u, err := unmarshalUUID(b)
	*id = OfficerID(u)
	return err
}

func (id *PrisonID) UnmarshalText(b []byte) error {
	u, err := unmarshalUUID(b)
	*id = PrisonID(u)
	return err
}

func (id *CourtID) UnmarshalText(b []byte) error {
	u, err := unmarshalUUID(b)
	*id = CourtID(u)
	return err
}

func (id *OffenseID) UnmarshalText(b []byte) error {
	u, err := unmarshalUUID(b)
	*id = OffenseID(u)
	return err
}

func (id *MovementID) UnmarshalText(b []byte) error {
	u, err := unmarshalUUID(b)
	*id = MovementID(u)
	return err
}

func (id *AppearanceID) UnmarshalText(b []byte) error {
	u, err := unmarshalUUID(b)
	*id = AppearanceID(u)
	return err
}

func (id *PhotoID) UnmarshalText(b []byte) error {
	u, err := unmarshalUUID(b)
	*id = PhotoID(u)
	return err
}

func (id *FingerprintID) UnmarshalText(b []byte) error {
	u, err := unmarshalUUID(b)
	*id = FingerprintID(u)
	return err
}

func (id *VisitID) UnmarshalText(b []byte) error {
	u, err := unmarshalUUID(b)
	*id = VisitID(u)
	return err
}

// NewInmateID and friends mint fresh identifiers. Kept here so call sites do
// not reach for uuid directly.
func NewInmateID() InmateID           { return InmateID(uuid.New()) }
func NewOfficerID() OfficerID         { return OfficerID(uuid.New()) }
func NewPrisonID() PrisonID           { return PrisonID(uuid.New()) }
func NewCourtID() CourtID             { return CourtID(uuid.New()) }
func NewOffenseID() OffenseID         { return OffenseID(uuid.New()) }
func NewMovementID() MovementID       { return MovementID(uuid.New()) }
func NewAppearanceID() AppearanceID   { return AppearanceID(uuid.New()) }
func NewPhotoID() PhotoID             { return PhotoID(uuid.New()) }
func NewFingerprintID() FingerprintID { return FingerprintID(uuid.New()) }
func NewVisitID() VisitID             { return VisitID(uuid.New()) }
