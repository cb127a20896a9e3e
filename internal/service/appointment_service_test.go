package service

import (
	"context"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/gayatrijangid/panchakarma-booking-system/internal/domain"
	"github.com/gayatrijangid/panchakarma-booking-system/internal/domain/appointment"
	"github.com/gayatrijangid/panchakarma-booking-system/internal/domain/schedule"
	"github.com/gayatrijangid/panchakarma-booking-system/internal/domain/therapy"
)

// memAppointmentRepo enforces the same occupancy rule as the database's
// partial unique index: at most one non-cancelled booking per
// (date, slot, doctor) key, with nil doctors bucketed together.
type memAppointmentRepo struct {
	mu    sync.Mutex
	items map[uuid.UUID]*appointment.Appointment
}

func newMemAppointmentRepo() *memAppointmentRepo {
	return &memAppointmentRepo{items: make(map[uuid.UUID]*appointment.Appointment)}
}

func doctorKey(doctorID *uuid.UUID) string {
	if doctorID == nil {
		return "unassigned"
	}
	return doctorID.String()
}

func (r *memAppointmentRepo) conflictLocked(date string, slot schedule.SlotID, doctorID *uuid.UUID, excludeID *uuid.UUID) bool {
	for _, a := range r.items {
		if excludeID != nil && a.ID == *excludeID {
			continue
		}
		if a.IsActive() && a.Date == date && a.Slot == slot && doctorKey(a.DoctorID) == doctorKey(doctorID) {
			return true
		}
	}
	return false
}

func (r *memAppointmentRepo) Create(_ context.Context, a *appointment.Appointment) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if a.IsActive() && r.conflictLocked(a.Date, a.Slot, a.DoctorID, nil) {
		return appointment.ErrSlotTaken
	}
	a.ID = uuid.New()
	cp := *a
	r.items[a.ID] = &cp
	return nil
}

func (r *memAppointmentRepo) GetByID(_ context.Context, id uuid.UUID) (*appointment.Appointment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	a, ok := r.items[id]
	if !ok {
		return nil, appointment.ErrAppointmentNotFound
	}
	cp := *a
	return &cp, nil
}

func (r *memAppointmentRepo) Update(_ context.Context, a *appointment.Appointment) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.items[a.ID]; !ok {
		return appointment.ErrAppointmentNotFound
	}
	if a.IsActive() && r.conflictLocked(a.Date, a.Slot, a.DoctorID, &a.ID) {
		return appointment.ErrSlotTaken
	}
	cp := *a
	r.items[a.ID] = &cp
	return nil
}

func (r *memAppointmentRepo) UpdateStatus(_ context.Context, a *appointment.Appointment) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored, ok := r.items[a.ID]
	if !ok {
		return appointment.ErrAppointmentNotFound
	}
	stored.Status = a.Status
	stored.CancelledAt = a.CancelledAt
	stored.CancellationReason = a.CancellationReason
	stored.CancelledBy = a.CancelledBy
	return nil
}

func (r *memAppointmentRepo) List(_ context.Context, q *appointment.ListQuery) (*appointment.PagedAppointments, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*appointment.Appointment
	for _, a := range r.items {
		if q.PatientID != nil && a.PatientID != *q.PatientID {
			continue
		}
		if q.DoctorID != nil {
			pinned := a.DoctorID != nil && *a.DoctorID == *q.DoctorID
			if !pinned && !(q.IncludeUnassigned && a.DoctorID == nil) {
				continue
			}
		}
		if q.Status != nil && a.Status != *q.Status {
			continue
		}
		if q.Date != nil && a.Date != *q.Date {
			continue
		}
		cp := *a
		out = append(out, &cp)
	}
	return &appointment.PagedAppointments{
		Appointments: out,
		TotalCount:   int64(len(out)),
		Page:         q.Page,
		PageSize:     q.PageSize,
		TotalPages:   1,
	}, nil
}

func (r *memAppointmentRepo) ActiveSlots(_ context.Context, date string, doctorID *uuid.UUID) ([]schedule.SlotID, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []schedule.SlotID
	for _, a := range r.items {
		if !a.IsActive() || a.Date != date {
			continue
		}
		if doctorID != nil && (a.DoctorID == nil || *a.DoctorID != *doctorID) {
			continue
		}
		out = append(out, a.Slot)
	}
	return out, nil
}

func (r *memAppointmentRepo) HasActiveBooking(_ context.Context, date string, slot schedule.SlotID, doctorID *uuid.UUID, excludeID *uuid.UUID) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.conflictLocked(date, slot, doctorID, excludeID), nil
}

type memTherapyRepo struct {
	items map[uuid.UUID]*therapy.Therapy
}

func (r *memTherapyRepo) GetByID(_ context.Context, id uuid.UUID) (*therapy.Therapy, error) {
	t, ok := r.items[id]
	if !ok {
		return nil, therapy.ErrTherapyNotFound
	}
	return t, nil
}

func (r *memTherapyRepo) List(_ context.Context, _ *therapy.ListQuery) ([]*therapy.Therapy, error) {
	var out []*therapy.Therapy
	for _, t := range r.items {
		out = append(out, t)
	}
	return out, nil
}

type memAuditRepo struct {
	mu      sync.Mutex
	entries []*domain.AuditLog
}

func (r *memAuditRepo) Create(_ context.Context, entry *domain.AuditLog) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries = append(r.entries, entry)
	return nil
}

type fixture struct {
	svc       *AppointmentService
	repo      *memAppointmentRepo
	therapyID uuid.UUID
	patientID uuid.UUID
	adminID   uuid.UUID
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	repo := newMemAppointmentRepo()
	therapyID := uuid.New()
	therapies := &memTherapyRepo{items: map[uuid.UUID]*therapy.Therapy{
		therapyID: {ID: therapyID, Name: "Abhyanga", IsAvailable: true},
	}}
	auditSvc := NewAuditService(&memAuditRepo{}, nil, zap.NewNop())
	t.Cleanup(auditSvc.Shutdown)

	svc, err := NewAppointmentService(
		repo, therapies, schedule.DefaultCatalogConfig(), 16, auditSvc, nil, zap.NewNop(),
	)
	require.NoError(t, err)

	return &fixture{
		svc:       svc,
		repo:      repo,
		therapyID: therapyID,
		patientID: uuid.New(),
		adminID:   uuid.New(),
	}
}

func (f *fixture) bookCmd(date string, slot schedule.SlotID) *appointment.BookSlotCommand {
	return &appointment.BookSlotCommand{
		PatientID: f.patientID,
		TherapyID: f.therapyID,
		Date:      date,
		Slot:      slot,
		CreatedBy: f.patientID,
	}
}

func (f *fixture) book(t *testing.T, date string, slot schedule.SlotID) *appointment.Appointment {
	t.Helper()
	a, err := f.svc.BookSlot(context.Background(), f.bookCmd(date, slot), f.patientID, "patient", "127.0.0.1")
	require.NoError(t, err)
	return a
}

func TestBookSlot(t *testing.T) {
	ctx := context.Background()

	t.Run("creates pending booking", func(t *testing.T) {
		f := newFixture(t)
		a := f.book(t, "2099-05-20", "10:00")
		assert.Equal(t, appointment.StatusPending, a.Status)
		assert.Equal(t, "2099-05-20", a.Date)
		assert.Nil(t, a.DoctorID)
	})

	t.Run("normalizes day-first dates", func(t *testing.T) {
		f := newFixture(t)
		a := f.book(t, "20/05/2099", "10:00")
		assert.Equal(t, "2099-05-20", a.Date)
	})

	t.Run("rejects duplicate slot", func(t *testing.T) {
		f := newFixture(t)
		f.book(t, "2099-05-20", "10:00")

		_, err := f.svc.BookSlot(ctx, f.bookCmd("2099-05-20", "10:00"), f.patientID, "patient", "")
		assert.ErrorIs(t, err, appointment.ErrSlotTaken)
	})

	t.Run("rejects past date", func(t *testing.T) {
		f := newFixture(t)
		_, err := f.svc.BookSlot(ctx, f.bookCmd("2020-01-15", "10:00"), f.patientID, "patient", "")
		assert.ErrorIs(t, err, appointment.ErrDateInPast)
	})

	t.Run("rejects unrecognized date", func(t *testing.T) {
		f := newFixture(t)
		_, err := f.svc.BookSlot(ctx, f.bookCmd("someday soon", "10:00"), f.patientID, "patient", "")
		assert.ErrorIs(t, err, schedule.ErrUnrecognizedDate)
	})

	t.Run("rejects slot inside break window", func(t *testing.T) {
		f := newFixture(t)
		_, err := f.svc.BookSlot(ctx, f.bookCmd("2099-05-20", "13:00"), f.patientID, "patient", "")
		assert.ErrorIs(t, err, appointment.ErrInvalidSlot)
	})

	t.Run("rejects slot off the grid", func(t *testing.T) {
		f := newFixture(t)
		_, err := f.svc.BookSlot(ctx, f.bookCmd("2099-05-20", "10:15"), f.patientID, "patient", "")
		assert.ErrorIs(t, err, appointment.ErrInvalidSlot)
	})

	t.Run("rejects unavailable therapy", func(t *testing.T) {
		f := newFixture(t)
		offMenu := uuid.New()
		therapies := f.svc.therapies.(*memTherapyRepo)
		therapies.items[offMenu] = &therapy.Therapy{ID: offMenu, Name: "Retired", IsAvailable: false}

		cmd := f.bookCmd("2099-05-20", "10:00")
		cmd.TherapyID = offMenu
		_, err := f.svc.BookSlot(ctx, cmd, f.patientID, "patient", "")
		assert.ErrorIs(t, err, therapy.ErrTherapyUnavailable)
	})

	t.Run("cancelled booking frees the slot", func(t *testing.T) {
		f := newFixture(t)
		a := f.book(t, "2099-05-20", "10:00")

		_, err := f.svc.CancelAppointment(ctx, a.ID, "changed plans", f.patientID, "patient", "")
		require.NoError(t, err)

		rebooked, err := f.svc.BookSlot(ctx, f.bookCmd("2099-05-20", "10:00"), f.patientID, "patient", "")
		require.NoError(t, err)
		assert.Equal(t, appointment.StatusPending, rebooked.Status)
	})

	t.Run("unassigned and doctor-pinned bookings do not conflict", func(t *testing.T) {
		f := newFixture(t)
		f.book(t, "2099-05-20", "10:00")

		doctorID := uuid.New()
		cmd := f.bookCmd("2099-05-20", "10:00")
		cmd.DoctorID = &doctorID
		_, err := f.svc.BookSlot(ctx, cmd, f.patientID, "patient", "")
		assert.NoError(t, err)
	})
}

func TestBookSlotConcurrent(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	const racers = 16
	var wg sync.WaitGroup
	errs := make([]error, racers)
	for i := 0; i < racers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			cmd := f.bookCmd("2099-05-20", "10:00")
			cmd.PatientID = uuid.New()
			_, errs[i] = f.svc.BookSlot(ctx, cmd, cmd.PatientID, "patient", "")
		}(i)
	}
	wg.Wait()

	var wins, conflicts int
	for _, err := range errs {
		switch {
		case err == nil:
			wins++
		case assert.ErrorIs(t, err, appointment.ErrSlotTaken):
			conflicts++
		}
	}
	assert.Equal(t, 1, wins, "exactly one racer should land the slot")
	assert.Equal(t, racers-1, conflicts)
}

func TestGetAvailableSlots(t *testing.T) {
	ctx := context.Background()

	t.Run("partitions catalog in order", func(t *testing.T) {
		f := newFixture(t)
		f.book(t, "2099-05-20", "10:00")
		f.book(t, "2099-05-20", "14:30")

		av, err := f.svc.GetAvailableSlots(ctx, "2099-05-20", nil)
		require.NoError(t, err)

		assert.Equal(t, "2099-05-20", av.Date)
		assert.Equal(t, 16, av.TotalSlots)
		assert.Equal(t, []schedule.SlotID{"10:00", "14:30"}, av.Booked)
		assert.Len(t, av.Available, 14)
		assert.NotContains(t, av.Available, schedule.SlotID("10:00"))
		assert.NotContains(t, av.Available, schedule.SlotID("13:00"))
		assert.Equal(t, schedule.SlotID("09:00"), av.Available[0])
	})

	t.Run("empty date has full catalog available", func(t *testing.T) {
		f := newFixture(t)
		av, err := f.svc.GetAvailableSlots(ctx, "2099-05-21", nil)
		require.NoError(t, err)
		assert.Len(t, av.Available, av.TotalSlots)
		assert.Empty(t, av.Booked)
	})

	t.Run("doctor filter narrows occupancy", func(t *testing.T) {
		f := newFixture(t)
		doctorID := uuid.New()

		f.book(t, "2099-05-20", "10:00")
		cmd := f.bookCmd("2099-05-20", "11:00")
		cmd.DoctorID = &doctorID
		_, err := f.svc.BookSlot(ctx, cmd, f.patientID, "patient", "")
		require.NoError(t, err)

		clinic, err := f.svc.GetAvailableSlots(ctx, "2099-05-20", nil)
		require.NoError(t, err)
		assert.ElementsMatch(t, []schedule.SlotID{"10:00", "11:00"}, clinic.Booked)

		mine, err := f.svc.GetAvailableSlots(ctx, "2099-05-20", &doctorID)
		require.NoError(t, err)
		assert.Equal(t, []schedule.SlotID{"11:00"}, mine.Booked)
		assert.Contains(t, mine.Available, schedule.SlotID("10:00"))
	})

	t.Run("booking invalidates cached view", func(t *testing.T) {
		f := newFixture(t)

		before, err := f.svc.GetAvailableSlots(ctx, "2099-05-20", nil)
		require.NoError(t, err)
		assert.Empty(t, before.Booked)

		f.book(t, "2099-05-20", "10:00")

		after, err := f.svc.GetAvailableSlots(ctx, "2099-05-20", nil)
		require.NoError(t, err)
		assert.Equal(t, []schedule.SlotID{"10:00"}, after.Booked)
	})

	t.Run("slots from an older catalog stay visible but unoffered", func(t *testing.T) {
		f := newFixture(t)
		require.NoError(t, f.repo.Create(ctx, &appointment.Appointment{
			PatientID: f.patientID,
			TherapyID: f.therapyID,
			Date:      "2099-05-20",
			Slot:      "08:30",
			Status:    appointment.StatusConfirmed,
		}))
		f.book(t, "2099-05-20", "10:00")

		av, err := f.svc.GetAvailableSlots(ctx, "2099-05-20", nil)
		require.NoError(t, err)
		assert.Equal(t, []schedule.SlotID{"10:00", "08:30"}, av.Booked)
		assert.NotContains(t, av.Available, schedule.SlotID("08:30"))
		assert.Equal(t, 16, av.TotalSlots)
	})

	t.Run("rejects unrecognized date", func(t *testing.T) {
		f := newFixture(t)
		_, err := f.svc.GetAvailableSlots(ctx, "not-a-date", nil)
		assert.ErrorIs(t, err, schedule.ErrUnrecognizedDate)
	})
}

func TestReschedule(t *testing.T) {
	ctx := context.Background()
	slot := func(s schedule.SlotID) *schedule.SlotID { return &s }
	date := func(d string) *string { return &d }

	t.Run("moves booking to a free slot", func(t *testing.T) {
		f := newFixture(t)
		a := f.book(t, "2099-05-20", "10:00")

		moved, err := f.svc.Reschedule(ctx, a.ID, &appointment.RescheduleCommand{Slot: slot("11:30")}, f.patientID, "patient", "")
		require.NoError(t, err)
		assert.Equal(t, schedule.SlotID("11:30"), moved.Slot)
		assert.Equal(t, "2099-05-20", moved.Date)

		av, err := f.svc.GetAvailableSlots(ctx, "2099-05-20", nil)
		require.NoError(t, err)
		assert.Contains(t, av.Available, schedule.SlotID("10:00"))
		assert.Contains(t, av.Booked, schedule.SlotID("11:30"))
	})

	t.Run("same slot is idempotent", func(t *testing.T) {
		f := newFixture(t)
		a := f.book(t, "2099-05-20", "10:00")

		moved, err := f.svc.Reschedule(ctx, a.ID, &appointment.RescheduleCommand{
			Date: date("2099-05-20"),
			Slot: slot("10:00"),
		}, f.patientID, "patient", "")
		require.NoError(t, err)
		assert.Equal(t, schedule.SlotID("10:00"), moved.Slot)
	})

	t.Run("conflicting target slot", func(t *testing.T) {
		f := newFixture(t)
		f.book(t, "2099-05-20", "11:00")
		a := f.book(t, "2099-05-20", "10:00")

		_, err := f.svc.Reschedule(ctx, a.ID, &appointment.RescheduleCommand{Slot: slot("11:00")}, f.patientID, "patient", "")
		assert.ErrorIs(t, err, appointment.ErrSlotTaken)
	})

	t.Run("rejects past target date", func(t *testing.T) {
		f := newFixture(t)
		a := f.book(t, "2099-05-20", "10:00")

		_, err := f.svc.Reschedule(ctx, a.ID, &appointment.RescheduleCommand{Date: date("2020-01-15")}, f.patientID, "patient", "")
		assert.ErrorIs(t, err, appointment.ErrDateInPast)
	})

	t.Run("foreign booking is forbidden for patients", func(t *testing.T) {
		f := newFixture(t)
		a := f.book(t, "2099-05-20", "10:00")

		_, err := f.svc.Reschedule(ctx, a.ID, &appointment.RescheduleCommand{Slot: slot("11:00")}, uuid.New(), "patient", "")
		assert.ErrorIs(t, err, ErrForbidden)
	})

	t.Run("cancelled booking cannot move", func(t *testing.T) {
		f := newFixture(t)
		a := f.book(t, "2099-05-20", "10:00")
		_, err := f.svc.CancelAppointment(ctx, a.ID, "", f.patientID, "patient", "")
		require.NoError(t, err)

		_, err = f.svc.Reschedule(ctx, a.ID, &appointment.RescheduleCommand{Slot: slot("11:00")}, f.patientID, "patient", "")
		assert.ErrorIs(t, err, appointment.ErrInvalidStatusTransition)
	})

	t.Run("unknown booking", func(t *testing.T) {
		f := newFixture(t)
		_, err := f.svc.Reschedule(ctx, uuid.New(), &appointment.RescheduleCommand{Slot: slot("11:00")}, f.patientID, "patient", "")
		assert.ErrorIs(t, err, appointment.ErrAppointmentNotFound)
	})
}

func TestUpdateStatus(t *testing.T) {
	ctx := context.Background()

	t.Run("admin confirms pending booking", func(t *testing.T) {
		f := newFixture(t)
		a := f.book(t, "2099-05-20", "10:00")

		updated, err := f.svc.UpdateStatus(ctx, a.ID, appointment.StatusConfirmed, "", f.adminID, "admin", "")
		require.NoError(t, err)
		assert.Equal(t, appointment.StatusConfirmed, updated.Status)
	})

	t.Run("pending cannot jump to completed", func(t *testing.T) {
		f := newFixture(t)
		a := f.book(t, "2099-05-20", "10:00")

		_, err := f.svc.UpdateStatus(ctx, a.ID, appointment.StatusCompleted, "", f.adminID, "admin", "")
		assert.ErrorIs(t, err, appointment.ErrInvalidStatusTransition)
	})

	t.Run("patient may only cancel own booking", func(t *testing.T) {
		f := newFixture(t)
		a := f.book(t, "2099-05-20", "10:00")

		_, err := f.svc.UpdateStatus(ctx, a.ID, appointment.StatusConfirmed, "", f.patientID, "patient", "")
		assert.ErrorIs(t, err, ErrForbidden)

		cancelled, err := f.svc.UpdateStatus(ctx, a.ID, appointment.StatusCancelled, "sick", f.patientID, "patient", "")
		require.NoError(t, err)
		assert.Equal(t, appointment.StatusCancelled, cancelled.Status)
		assert.Equal(t, "sick", cancelled.CancellationReason)
		require.NotNil(t, cancelled.CancelledBy)
		assert.Equal(t, f.patientID, *cancelled.CancelledBy)
	})

	t.Run("doctor cannot touch another doctor's booking", func(t *testing.T) {
		f := newFixture(t)
		doctorID := uuid.New()
		cmd := f.bookCmd("2099-05-20", "10:00")
		cmd.DoctorID = &doctorID
		a, err := f.svc.BookSlot(ctx, cmd, f.patientID, "patient", "")
		require.NoError(t, err)

		_, err = f.svc.UpdateStatus(ctx, a.ID, appointment.StatusConfirmed, "", uuid.New(), "doctor", "")
		assert.ErrorIs(t, err, ErrForbidden)

		_, err = f.svc.UpdateStatus(ctx, a.ID, appointment.StatusConfirmed, "", doctorID, "doctor", "")
		assert.NoError(t, err)
	})

	t.Run("cancelling twice fails", func(t *testing.T) {
		f := newFixture(t)
		a := f.book(t, "2099-05-20", "10:00")
		_, err := f.svc.CancelAppointment(ctx, a.ID, "", f.patientID, "patient", "")
		require.NoError(t, err)

		_, err = f.svc.CancelAppointment(ctx, a.ID, "", f.patientID, "patient", "")
		assert.ErrorIs(t, err, appointment.ErrInvalidStatusTransition)
	})

	t.Run("rejects unknown status", func(t *testing.T) {
		f := newFixture(t)
		a := f.book(t, "2099-05-20", "10:00")

		_, err := f.svc.UpdateStatus(ctx, a.ID, appointment.Status("paused"), "", f.adminID, "admin", "")
		assert.ErrorIs(t, err, appointment.ErrInvalidStatus)
	})
}

func TestAssignDoctor(t *testing.T) {
	ctx := context.Background()

	t.Run("admin pins doctor and schedules", func(t *testing.T) {
		f := newFixture(t)
		a := f.book(t, "2099-05-20", "10:00")
		doctorID := uuid.New()

		updated, err := f.svc.AssignDoctor(ctx, a.ID, doctorID, f.adminID, "admin", "")
		require.NoError(t, err)
		require.NotNil(t, updated.DoctorID)
		assert.Equal(t, doctorID, *updated.DoctorID)
		assert.Equal(t, appointment.StatusScheduled, updated.Status)
	})

	t.Run("non-admin is forbidden", func(t *testing.T) {
		f := newFixture(t)
		a := f.book(t, "2099-05-20", "10:00")

		_, err := f.svc.AssignDoctor(ctx, a.ID, uuid.New(), f.patientID, "patient", "")
		assert.ErrorIs(t, err, ErrForbidden)
	})

	t.Run("doctor already booked at that slot", func(t *testing.T) {
		f := newFixture(t)
		doctorID := uuid.New()

		cmd := f.bookCmd("2099-05-20", "10:00")
		cmd.DoctorID = &doctorID
		_, err := f.svc.BookSlot(ctx, cmd, f.patientID, "patient", "")
		require.NoError(t, err)

		a := f.book(t, "2099-05-20", "10:00")
		_, err = f.svc.AssignDoctor(ctx, a.ID, doctorID, f.adminID, "admin", "")
		assert.ErrorIs(t, err, appointment.ErrSlotTaken)
	})
}

func TestListAppointments(t *testing.T) {
	ctx := context.Background()

	t.Run("patients see only their own", func(t *testing.T) {
		f := newFixture(t)
		f.book(t, "2099-05-20", "10:00")

		other := f.bookCmd("2099-05-20", "11:00")
		other.PatientID = uuid.New()
		_, err := f.svc.BookSlot(ctx, other, other.PatientID, "patient", "")
		require.NoError(t, err)

		page, err := f.svc.ListAppointments(ctx, &appointment.ListQuery{}, f.patientID, "patient")
		require.NoError(t, err)
		require.Len(t, page.Appointments, 1)
		assert.Equal(t, f.patientID, page.Appointments[0].PatientID)
	})

	t.Run("doctor worklist includes unassigned", func(t *testing.T) {
		f := newFixture(t)
		doctorID := uuid.New()

		f.book(t, "2099-05-20", "10:00")
		pinned := f.bookCmd("2099-05-20", "11:00")
		pinned.DoctorID = &doctorID
		_, err := f.svc.BookSlot(ctx, pinned, f.patientID, "patient", "")
		require.NoError(t, err)

		foreign := f.bookCmd("2099-05-20", "12:00")
		foreignDoctor := uuid.New()
		foreign.DoctorID = &foreignDoctor
		_, err = f.svc.BookSlot(ctx, foreign, f.patientID, "patient", "")
		require.NoError(t, err)

		page, err := f.svc.ListAppointments(ctx, &appointment.ListQuery{}, doctorID, "doctor")
		require.NoError(t, err)
		assert.Len(t, page.Appointments, 2)
	})

	t.Run("defaults page size", func(t *testing.T) {
		f := newFixture(t)
		page, err := f.svc.ListAppointments(ctx, &appointment.ListQuery{}, f.adminID, "admin")
		require.NoError(t, err)
		assert.Equal(t, 1, page.Page)
		assert.Equal(t, 20, page.PageSize)
	})
}
