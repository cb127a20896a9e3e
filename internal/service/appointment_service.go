package service

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/gayatrijangid/panchakarma-booking-system/internal/domain"
	"github.com/gayatrijangid/panchakarma-booking-system/internal/domain/appointment"
	"github.com/gayatrijangid/panchakarma-booking-system/internal/domain/schedule"
	"github.com/gayatrijangid/panchakarma-booking-system/internal/domain/therapy"
	"github.com/gayatrijangid/panchakarma-booking-system/pkg/metrics"
)

// Availability is the slot partition for one date, optionally narrowed to a
// doctor. Available and Booked are disjoint; both follow catalog order, with
// any booked identifiers that predate the current catalog appended at the end
// of Booked so old bookings stay visible.
type Availability struct {
	Date       string            `json:"date"`
	DoctorID   *uuid.UUID        `json:"doctorId,omitempty"`
	Available  []schedule.SlotID `json:"availableSlots"`
	Booked     []schedule.SlotID `json:"bookedSlots"`
	TotalSlots int               `json:"totalSlots"`
}

func (av *Availability) AvailableCount() int { return len(av.Available) }
func (av *Availability) BookedCount() int    { return len(av.Booked) }

type AppointmentService struct {
	repo      appointment.Repository
	therapies therapy.Repository
	catalog   schedule.CatalogConfig
	cache     *availabilityCache
	auditSvc  *AuditService
	collector *metrics.Collector
	log       *zap.Logger
}

func NewAppointmentService(
	repo appointment.Repository,
	therapies therapy.Repository,
	catalog schedule.CatalogConfig,
	cacheSize int,
	auditSvc *AuditService,
	collector *metrics.Collector,
	log *zap.Logger,
) (*AppointmentService, error) {
	if err := catalog.Validate(); err != nil {
		return nil, err
	}
	cache, err := newAvailabilityCache(cacheSize, collector)
	if err != nil {
		return nil, fmt.Errorf("creating availability cache: %w", err)
	}
	return &AppointmentService{
		repo:      repo,
		therapies: therapies,
		catalog:   catalog,
		cache:     cache,
		auditSvc:  auditSvc,
		collector: collector,
		log:       log,
	}, nil
}

// GetAvailableSlots partitions the catalog for a date into free and occupied
// slots. A nil doctorID is the whole-clinic view; a specific doctorID counts
// only bookings pinned to that doctor.
func (s *AppointmentService) GetAvailableSlots(ctx context.Context, rawDate string, doctorID *uuid.UUID) (*Availability, error) {
	date, err := schedule.NormalizeDate(rawDate)
	if err != nil {
		return nil, err
	}

	if av, ok := s.cache.get(date, doctorID); ok {
		return av, nil
	}

	occupied, err := s.repo.ActiveSlots(ctx, date, doctorID)
	if err != nil {
		return nil, fmt.Errorf("loading booked slots: %w", err)
	}

	occupiedSet := make(map[schedule.SlotID]bool, len(occupied))
	for _, slot := range occupied {
		occupiedSet[slot] = true
	}

	all := s.catalog.Generate()
	av := &Availability{
		Date:       date,
		DoctorID:   doctorID,
		Available:  make([]schedule.SlotID, 0, len(all)),
		Booked:     make([]schedule.SlotID, 0, len(occupiedSet)),
		TotalSlots: len(all),
	}
	for _, slot := range all {
		if occupiedSet[slot] {
			av.Booked = append(av.Booked, slot)
			delete(occupiedSet, slot)
		} else {
			av.Available = append(av.Available, slot)
		}
	}

	// Whatever is left was booked under an older catalog. Keep it visible
	// but never offer it.
	stale := make([]schedule.SlotID, 0, len(occupiedSet))
	for slot := range occupiedSet {
		stale = append(stale, slot)
	}
	sort.Slice(stale, func(i, j int) bool { return stale[i] < stale[j] })
	av.Booked = append(av.Booked, stale...)

	s.cache.add(date, doctorID, av)
	return av, nil
}

// BookSlot validates and creates a booking. The conflict check and the insert
// are a single atomic unit against concurrent callers: the repository's
// partial unique index is the arbiter, so one of two racing requests for the
// same key always comes back with ErrSlotTaken.
func (s *AppointmentService) BookSlot(ctx context.Context, cmd *appointment.BookSlotCommand, callerID uuid.UUID, callerRole string, ip string) (*appointment.Appointment, error) {
	date, err := schedule.NormalizeDate(cmd.Date)
	if err != nil {
		return nil, err
	}
	if schedule.IsPastDate(date) {
		return nil, appointment.ErrDateInPast
	}
	if !s.catalog.IsValid(cmd.Slot) {
		return nil, appointment.ErrInvalidSlot
	}

	th, err := s.therapies.GetByID(ctx, cmd.TherapyID)
	if err != nil {
		return nil, fmt.Errorf("verifying therapy: %w", err)
	}
	if !th.IsAvailable {
		return nil, therapy.ErrTherapyUnavailable
	}

	// Friendly pre-check; the insert below re-asserts this atomically.
	conflict, err := s.repo.HasActiveBooking(ctx, date, cmd.Slot, cmd.DoctorID, nil)
	if err != nil {
		return nil, fmt.Errorf("checking conflicts: %w", err)
	}
	if conflict {
		s.countConflict()
		return nil, appointment.ErrSlotTaken
	}

	a := &appointment.Appointment{
		PatientID: cmd.PatientID,
		TherapyID: cmd.TherapyID,
		DoctorID:  cmd.DoctorID,
		Date:      date,
		Slot:      cmd.Slot,
		Status:    appointment.StatusPending,
		Notes:     cmd.Notes,
		CreatedBy: cmd.CreatedBy,
	}

	if err := s.repo.Create(ctx, a); err != nil {
		if errors.Is(err, appointment.ErrSlotTaken) {
			s.countConflict()
			return nil, err
		}
		s.log.Error("failed to create appointment", zap.Error(err))
		return nil, fmt.Errorf("creating appointment: %w", err)
	}

	s.cache.invalidateDate(date)
	s.countBooking(string(appointment.StatusPending))

	s.auditSvc.LogAsync(ctx, AuditEntry{
		UserID:       callerID,
		UserRole:     callerRole,
		Action:       "create",
		ResourceType: "appointment",
		ResourceID:   a.ID.String(),
		IPAddress:    ip,
	})

	return a, nil
}

// Reschedule moves a booking to a new date and/or slot. Supplied values are
// re-validated even when identical to the current ones, so retried requests
// stay idempotent. The conflict check excludes the booking's own row.
func (s *AppointmentService) Reschedule(ctx context.Context, id uuid.UUID, cmd *appointment.RescheduleCommand, callerID uuid.UUID, callerRole string, ip string) (*appointment.Appointment, error) {
	a, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if callerRole == string(domain.RolePatient) && a.PatientID != callerID {
		return nil, ErrForbidden
	}
	if a.Status == appointment.StatusCompleted || a.Status == appointment.StatusCancelled {
		return nil, appointment.ErrInvalidStatusTransition
	}

	oldDate := a.Date
	newDate, newSlot := a.Date, a.Slot

	if cmd.Date != nil {
		newDate, err = schedule.NormalizeDate(*cmd.Date)
		if err != nil {
			return nil, err
		}
		if schedule.IsPastDate(newDate) {
			return nil, appointment.ErrDateInPast
		}
	}
	if cmd.Slot != nil {
		if !s.catalog.IsValid(*cmd.Slot) {
			return nil, appointment.ErrInvalidSlot
		}
		newSlot = *cmd.Slot
	}

	conflict, err := s.repo.HasActiveBooking(ctx, newDate, newSlot, a.DoctorID, &a.ID)
	if err != nil {
		return nil, fmt.Errorf("checking conflicts: %w", err)
	}
	if conflict {
		s.countConflict()
		return nil, appointment.ErrSlotTaken
	}

	a.Date = newDate
	a.Slot = newSlot
	if err := s.repo.Update(ctx, a); err != nil {
		if errors.Is(err, appointment.ErrSlotTaken) {
			s.countConflict()
			return nil, err
		}
		return nil, fmt.Errorf("updating appointment: %w", err)
	}

	s.cache.invalidateDate(oldDate)
	s.cache.invalidateDate(newDate)

	s.auditSvc.LogAsync(ctx, AuditEntry{
		UserID: callerID, UserRole: callerRole,
		Action: "update", ResourceType: "appointment", ResourceID: id.String(), IPAddress: ip,
		Changes: fmt.Sprintf(`{"date":"%s","slot":"%s"}`, newDate, newSlot),
	})

	return a, nil
}

func (s *AppointmentService) GetAppointment(ctx context.Context, id uuid.UUID, callerID uuid.UUID, callerRole string) (*appointment.Appointment, error) {
	a, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if callerRole == string(domain.RolePatient) && a.PatientID != callerID {
		return nil, ErrForbidden
	}
	return a, nil
}

// UpdateStatus applies a status transition. Patients may only cancel their
// own bookings; doctors may act on bookings pinned to them or unassigned.
func (s *AppointmentService) UpdateStatus(ctx context.Context, id uuid.UUID, newStatus appointment.Status, reason string, callerID uuid.UUID, callerRole string, ip string) (*appointment.Appointment, error) {
	if !newStatus.IsValid() {
		return nil, appointment.ErrInvalidStatus
	}

	a, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	switch domain.Role(callerRole) {
	case domain.RolePatient:
		if a.PatientID != callerID || newStatus != appointment.StatusCancelled {
			return nil, ErrForbidden
		}
	case domain.RoleDoctor:
		if a.DoctorID != nil && *a.DoctorID != callerID {
			return nil, ErrForbidden
		}
	}

	if newStatus == appointment.StatusCancelled {
		if err := a.Cancel(reason, callerID); err != nil {
			return nil, err
		}
	} else {
		if !a.CanTransitionTo(newStatus) {
			return nil, appointment.ErrInvalidStatusTransition
		}
		a.Status = newStatus
	}

	if err := s.repo.UpdateStatus(ctx, a); err != nil {
		return nil, fmt.Errorf("updating appointment status: %w", err)
	}

	// Cancelling frees the slot; other transitions leave occupancy as it was.
	if newStatus == appointment.StatusCancelled {
		s.cache.invalidateDate(a.Date)
	}
	s.countBooking(string(newStatus))

	s.auditSvc.LogAsync(ctx, AuditEntry{
		UserID: callerID, UserRole: callerRole,
		Action: "update", ResourceType: "appointment", ResourceID: id.String(), IPAddress: ip,
		Changes: fmt.Sprintf(`{"status":"%s"}`, newStatus),
	})

	return a, nil
}

// CancelAppointment is the patient-facing cancellation path.
func (s *AppointmentService) CancelAppointment(ctx context.Context, id uuid.UUID, reason string, callerID uuid.UUID, callerRole string, ip string) (*appointment.Appointment, error) {
	return s.UpdateStatus(ctx, id, appointment.StatusCancelled, reason, callerID, callerRole, ip)
}

// AssignDoctor pins an unassigned booking to a doctor, re-running the
// conflict check against the doctor's calendar before committing.
func (s *AppointmentService) AssignDoctor(ctx context.Context, id uuid.UUID, doctorID uuid.UUID, callerID uuid.UUID, callerRole string, ip string) (*appointment.Appointment, error) {
	if domain.Role(callerRole) != domain.RoleAdmin {
		return nil, ErrForbidden
	}

	a, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if a.Status == appointment.StatusCompleted || a.Status == appointment.StatusCancelled {
		return nil, appointment.ErrInvalidStatusTransition
	}

	conflict, err := s.repo.HasActiveBooking(ctx, a.Date, a.Slot, &doctorID, &a.ID)
	if err != nil {
		return nil, fmt.Errorf("checking conflicts: %w", err)
	}
	if conflict {
		s.countConflict()
		return nil, appointment.ErrSlotTaken
	}

	a.DoctorID = &doctorID
	if a.Status == appointment.StatusPending {
		a.Status = appointment.StatusScheduled
	}
	if err := s.repo.Update(ctx, a); err != nil {
		if errors.Is(err, appointment.ErrSlotTaken) {
			s.countConflict()
			return nil, err
		}
		return nil, fmt.Errorf("assigning doctor: %w", err)
	}

	s.cache.invalidateDate(a.Date)

	s.auditSvc.LogAsync(ctx, AuditEntry{
		UserID: callerID, UserRole: callerRole,
		Action: "update", ResourceType: "appointment", ResourceID: id.String(), IPAddress: ip,
		Changes: fmt.Sprintf(`{"doctor_id":"%s"}`, doctorID),
	})

	return a, nil
}

func (s *AppointmentService) ListAppointments(ctx context.Context, q *appointment.ListQuery, callerID uuid.UUID, callerRole string) (*appointment.PagedAppointments, error) {
	switch domain.Role(callerRole) {
	case domain.RolePatient:
		// Patients can only see their own appointments.
		q.PatientID = &callerID
	case domain.RoleDoctor:
		if q.DoctorID == nil {
			doctorID := callerID
			q.DoctorID = &doctorID
			q.IncludeUnassigned = true
		}
	}

	if q.PageSize <= 0 || q.PageSize > 100 {
		q.PageSize = 20
	}
	if q.Page <= 0 {
		q.Page = 1
	}
	return s.repo.List(ctx, q)
}

func (s *AppointmentService) countBooking(status string) {
	if s.collector != nil {
		s.collector.AppointmentsTotal.WithLabelValues(status).Inc()
	}
}

func (s *AppointmentService) countConflict() {
	if s.collector != nil {
		s.collector.BookingConflictsTotal.Inc()
	}
}
