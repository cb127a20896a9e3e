package appointment

import (
	"time"

	"github.com/google/uuid"

	"github.com/gayatrijangid/panchakarma-booking-system/internal/domain/schedule"
)

// State transitions possibilities:
//
//	pending → scheduled (doctor assigned) → confirmed → completed
//	pending → confirmed → completed
//	pending/scheduled/confirmed → cancelled
type Status string

const (
	StatusPending   Status = "pending"
	StatusScheduled Status = "scheduled"
	StatusConfirmed Status = "confirmed"
	StatusCompleted Status = "completed"
	StatusCancelled Status = "cancelled"
)

func (s Status) IsValid() bool {
	switch s {
	case StatusPending, StatusScheduled, StatusConfirmed, StatusCompleted, StatusCancelled:
		return true
	}
	return false
}

type Appointment struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	CreatedAt time.Time `gorm:"autoCreateTime;index"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`

	PatientID uuid.UUID `gorm:"column:patient_id;type:uuid;not null;index"`
	TherapyID uuid.UUID `gorm:"column:therapy_id;type:uuid;not null;index"`

	// Nil means the booking is not pinned to a doctor yet. Unassigned
	// bookings occupy their slot only in the unfiltered availability view
	// and never conflict with doctor-pinned ones.
	DoctorID *uuid.UUID `gorm:"column:doctor_id;type:uuid;index"`

	Date string          `gorm:"column:appointment_date;type:varchar(10);not null;index"`
	Slot schedule.SlotID `gorm:"column:slot;type:varchar(5);not null"`

	Status Status `gorm:"column:status;type:varchar(20);not null;default:'pending';index"`
	Notes  string `gorm:"column:notes;type:text"`

	CancelledAt        *time.Time `gorm:"column:cancelled_at"`
	CancellationReason string     `gorm:"column:cancellation_reason;type:text"`
	CancelledBy        *uuid.UUID `gorm:"column:cancelled_by;type:uuid"`

	CreatedBy uuid.UUID `gorm:"column:created_by;type:uuid;not null"`
}

func (Appointment) TableName() string {
	return "clinic.appointments"
}

// IsActive reports whether the booking still occupies its slot.
func (a *Appointment) IsActive() bool {
	return a.Status != StatusCancelled
}

func (a *Appointment) CanTransitionTo(newStatus Status) bool {
	allowed := map[Status][]Status{
		StatusPending:   {StatusScheduled, StatusConfirmed, StatusCancelled},
		StatusScheduled: {StatusConfirmed, StatusCancelled},
		StatusConfirmed: {StatusCompleted, StatusCancelled},
		StatusCompleted: {},
		StatusCancelled: {},
	}

	for _, s := range allowed[a.Status] {
		if s == newStatus {
			return true
		}
	}
	return false
}

func (a *Appointment) Cancel(reason string, cancelledBy uuid.UUID) error {
	if !a.CanTransitionTo(StatusCancelled) {
		return ErrInvalidStatusTransition
	}
	now := time.Now()
	a.Status = StatusCancelled
	a.CancelledAt = &now
	a.CancellationReason = reason
	a.CancelledBy = &cancelledBy
	return nil
}

type BookSlotCommand struct {
	PatientID uuid.UUID
	TherapyID uuid.UUID
	DoctorID  *uuid.UUID
	Date      string
	Slot      schedule.SlotID
	Notes     string
	CreatedBy uuid.UUID
}

type RescheduleCommand struct {
	Date *string
	Slot *schedule.SlotID
}

type ListQuery struct {
	PatientID *uuid.UUID
	DoctorID  *uuid.UUID
	TherapyID *uuid.UUID
	Status    *Status
	Date      *string

	// IncludeUnassigned widens a DoctorID filter to also return bookings
	// with no doctor pinned, which doctors triage from their worklist.
	IncludeUnassigned bool

	Page     int
	PageSize int
}

type PagedAppointments struct {
	Appointments []*Appointment
	TotalCount   int64
	Page         int
	PageSize     int
	TotalPages   int
}
