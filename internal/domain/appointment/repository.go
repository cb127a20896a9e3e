package appointment

import (
	"context"

	"github.com/google/uuid"

	"github.com/gayatrijangid/panchakarma-booking-system/internal/domain/schedule"
)

type Repository interface {
	// Create persists a new booking. The check-then-insert sequence is
	// atomic against concurrent callers: implementations return ErrSlotTaken
	// when another non-cancelled booking holds the same
	// (date, slot, doctor) key, and the final arbiter is a partial unique
	// index so that two racing inserts can never both land.
	Create(ctx context.Context, a *Appointment) error

	GetByID(ctx context.Context, id uuid.UUID) (*Appointment, error)

	// Update persists date/slot/doctor/notes changes, subject to the same
	// conflict guarantee as Create but excluding the booking's own row.
	Update(ctx context.Context, a *Appointment) error

	// UpdateStatus persists a status transition already validated by the caller.
	UpdateStatus(ctx context.Context, a *Appointment) error

	List(ctx context.Context, q *ListQuery) (*PagedAppointments, error)

	// ActiveSlots returns the slots occupied by non-cancelled bookings on a
	// date. A nil doctorID means the unfiltered clinic view, which counts
	// every active booking; a specific doctorID counts only bookings pinned
	// to that doctor.
	ActiveSlots(ctx context.Context, date string, doctorID *uuid.UUID) ([]schedule.SlotID, error)

	// HasActiveBooking checks for a conflicting non-cancelled booking at the
	// exact (date, slot, doctor) key, optionally excluding one booking id.
	HasActiveBooking(ctx context.Context, date string, slot schedule.SlotID, doctorID *uuid.UUID, excludeID *uuid.UUID) (bool, error)
}
