package audit

import (
	"context"
	"time"

	id "warden/pkg/domain"
)

// EventCategory classifies audit events by their primary purpose.
// This enables different retention policies and routing.
type EventCategory string

const (
	// CategoryCustody covers events with legal significance for the custody
	// record: registrations, status changes, movements, court outcomes,
	// releases. These require long retention.
	CategoryCustody EventCategory = "custody"

	// CategoryBiometric covers identity-artifact events: captures, primary
	// designation, confirmation, deletion.
	CategoryBiometric EventCategory = "biometric"

	// CategoryOperations covers routine activity useful for debugging and
	// operational visibility; can be sampled.
	CategoryOperations EventCategory = "operations"
)

// Event is emitted from domain logic to capture key actions. Keep it
// transport-agnostic so stores and sinks can fan out.
type Event struct {
	Category  EventCategory
	Timestamp time.Time
	// Subject names the record kind the event is about ("inmate", "photo", ...).
	Subject string
	// SubjectID is the string form of the affected record's ID.
	SubjectID string
	// InmateID links the event to an inmate where one is involved, so the
	// custody trail for a person can be reassembled.
	InmateID id.InmateID
	Action   string
	// ActorID is the officer who performed the action, when known.
	ActorID   id.OfficerID
	Reason    string
	RequestID string
}

// Store persists audit events. The memory implementation backs tests and
// store-less deployments; the postgres implementation backs production.
type Store interface {
	Append(ctx context.Context, event Event) error
	ListByInmate(ctx context.Context, inmateID id.InmateID) ([]Event, error)
	ListRecent(ctx context.Context, limit int) ([]Event, error)
}

type AuditEvent string

const (
	// Custody events
	EventInmateRegistered    AuditEvent = "inmate_registered"
	EventInmateUpdated       AuditEvent = "inmate_updated"
	EventInmateStatusChanged AuditEvent = "inmate_status_changed"
	EventInmateReleased      AuditEvent = "inmate_released"
	EventInmateDeleted       AuditEvent = "inmate_deleted"
	EventMovementRecorded    AuditEvent = "movement_recorded"
	EventMovementReturned    AuditEvent = "movement_returned"
	EventMovementDeleted     AuditEvent = "movement_deleted"
	EventAppearanceScheduled AuditEvent = "appearance_scheduled"
	EventOutcomeRecorded     AuditEvent = "outcome_recorded"
	EventAppearanceDeleted   AuditEvent = "appearance_deleted"

	// Biometric events
	EventPhotoCaptured        AuditEvent = "photo_captured"
	EventPhotoPrimarySet      AuditEvent = "photo_primary_set"
	EventPhotoConfirmed       AuditEvent = "photo_confirmed"
	EventPhotoRejected        AuditEvent = "photo_rejected"
	EventPhotoDeleted         AuditEvent = "photo_deleted"
	EventFingerprintCaptured  AuditEvent = "fingerprint_captured"
	EventFingerprintConfirmed AuditEvent = "fingerprint_confirmed"
	EventFingerprintRejected  AuditEvent = "fingerprint_rejected"
	EventFingerprintDeleted   AuditEvent = "fingerprint_deleted"

	// Visit events
	EventVisitScheduled AuditEvent = "visit_scheduled"
	EventVisitCheckedIn AuditEvent = "visit_checked_in"
	EventVisitCompleted AuditEvent = "visit_completed"
	EventVisitDenied    AuditEvent = "visit_denied"
	EventVisitCancelled AuditEvent = "visit_cancelled"

	// Registry events
	EventPrisonRegistered  AuditEvent = "prison_registered"
	EventOfficerRegistered AuditEvent = "officer_registered"
)

// eventCategories maps each audit event to its category.
var eventCategories = map[AuditEvent]EventCategory{
	EventInmateRegistered:    CategoryCustody,
	EventInmateUpdated:       CategoryCustody,
	EventInmateStatusChanged: CategoryCustody,
	EventInmateReleased:      CategoryCustody,
	EventInmateDeleted:       CategoryCustody,
	EventMovementRecorded:    CategoryCustody,
	EventMovementReturned:    CategoryCustody,
	EventMovementDeleted:     CategoryCustody,
	EventAppearanceScheduled: CategoryCustody,
	EventOutcomeRecorded:     CategoryCustody,
	EventAppearanceDeleted:   CategoryCustody,

	EventPhotoCaptured:        CategoryBiometric,
	EventPhotoPrimarySet:      CategoryBiometric,
	EventPhotoConfirmed:       CategoryBiometric,
	EventPhotoRejected:        CategoryBiometric,
	EventPhotoDeleted:         CategoryBiometric,
	EventFingerprintCaptured:  CategoryBiometric,
	EventFingerprintConfirmed: CategoryBiometric,
	EventFingerprintRejected:  CategoryBiometric,
	EventFingerprintDeleted:   CategoryBiometric,

	EventVisitScheduled: CategoryOperations,
	EventVisitCheckedIn: CategoryOperations,
	EventVisitCompleted: CategoryOperations,
	EventVisitDenied:    CategoryOperations,
	EventVisitCancelled: CategoryOperations,

	EventPrisonRegistered:  CategoryOperations,
	EventOfficerRegistered: CategoryOperations,
}

// Category returns the EventCategory for this audit event.
// Unknown events default to CategoryOperations.
func (e AuditEvent) Category() EventCategory {
	if cat, ok := eventCategories[e]; ok {
		return cat
	}
	return CategoryOperations
}
