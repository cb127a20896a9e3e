package repository

import (
	"context"
	"errors"
	"fmt"
	"math"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"

	"github.com/gayatrijangid/panchakarma-booking-system/internal/domain/appointment"
	"github.com/gayatrijangid/panchakarma-booking-system/internal/domain/schedule"
	"github.com/gayatrijangid/panchakarma-booking-system/pkg/database"
)

type AppointmentRepository struct {
	db *gorm.DB
}

func NewAppointmentRepository(db *gorm.DB) *AppointmentRepository {
	return &AppointmentRepository{db: db}
}

// Create inserts the booking. The partial unique index on
// (appointment_date, slot, doctor) arbitrates races: when a concurrent
// insert wins the same key, postgres reports a unique violation and the
// caller gets ErrSlotTaken. No explicit locking is needed for correctness.
func (r *AppointmentRepository) Create(ctx context.Context, a *appointment.Appointment) error {
	if err := r.db.WithContext(ctx).Create(a).Error; err != nil {
		if isDoubleBooking(err) {
			return appointment.ErrSlotTaken
		}
		return err
	}
	return nil
}

func (r *AppointmentRepository) GetByID(ctx context.Context, id uuid.UUID) (*appointment.Appointment, error) {
	var a appointment.Appointment
	err := r.db.WithContext(ctx).First(&a, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, appointment.ErrAppointmentNotFound
	}
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *AppointmentRepository) Update(ctx context.Context, a *appointment.Appointment) error {
	err := r.db.WithContext(ctx).Model(a).
		Select("appointment_date", "slot", "doctor_id", "status", "notes").
		Updates(a).Error
	if isDoubleBooking(err) {
		return appointment.ErrSlotTaken
	}
	return err
}

func (r *AppointmentRepository) UpdateStatus(ctx context.Context, a *appointment.Appointment) error {
	return r.db.WithContext(ctx).Model(a).
		Select("status", "cancelled_at", "cancellation_reason", "cancelled_by").
		Updates(a).Error
}

func (r *AppointmentRepository) List(ctx context.Context, q *appointment.ListQuery) (*appointment.PagedAppointments, error) {
	query := r.db.WithContext(ctx).Model(&appointment.Appointment{})

	if q.PatientID != nil {
		query = query.Where("patient_id = ?", *q.PatientID)
	}
	if q.DoctorID != nil {
		if q.IncludeUnassigned {
			query = query.Where("doctor_id = ? OR doctor_id IS NULL", *q.DoctorID)
		} else {
			query = query.Where("doctor_id = ?", *q.DoctorID)
		}
	}
	if q.TherapyID != nil {
		query = query.Where("therapy_id = ?", *q.TherapyID)
	}
	if q.Status != nil {
		query = query.Where("status = ?", *q.Status)
	}
	if q.Date != nil {
		query = query.Where("appointment_date = ?", *q.Date)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, fmt.Errorf("counting appointments: %w", err)
	}

	var rows []*appointment.Appointment
	err := query.
		Order("appointment_date ASC, slot ASC").
		Offset((q.Page - 1) * q.PageSize).
		Limit(q.PageSize).
		Find(&rows).Error
	if err != nil {
		return nil, err
	}

	return &appointment.PagedAppointments{
		Appointments: rows,
		TotalCount:   total,
		Page:         q.Page,
		PageSize:     q.PageSize,
		TotalPages:   int(math.Ceil(float64(total) / float64(q.PageSize))),
	}, nil
}

func (r *AppointmentRepository) ActiveSlots(ctx context.Context, date string, doctorID *uuid.UUID) ([]schedule.SlotID, error) {
	query := r.db.WithContext(ctx).Model(&appointment.Appointment{}).
		Where("appointment_date = ? AND status <> ?", date, appointment.StatusCancelled)

	// The unfiltered view counts every active booking, unassigned included.
	// A doctor view counts only bookings pinned to that doctor.
	if doctorID != nil {
		query = query.Where("doctor_id = ?", *doctorID)
	}

	var slots []schedule.SlotID
	if err := query.Pluck("slot", &slots).Error; err != nil {
		return nil, err
	}
	return slots, nil
}

func (r *AppointmentRepository) HasActiveBooking(ctx context.Context, date string, slot schedule.SlotID, doctorID *uuid.UUID, excludeID *uuid.UUID) (bool, error) {
	query := r.db.WithContext(ctx).Model(&appointment.Appointment{}).
		Where("appointment_date = ? AND slot = ? AND status <> ?", date, slot, appointment.StatusCancelled)

	if doctorID != nil {
		query = query.Where("doctor_id = ?", *doctorID)
	} else {
		query = query.Where("doctor_id IS NULL")
	}
	if excludeID != nil {
		query = query.Where("id <> ?", *excludeID)
	}

	var count int64
	if err := query.Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func isDoubleBooking(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505" && pgErr.ConstraintName == database.NoDoubleBookingIndex
	}
	return false
}
