package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/gayatrijangid/panchakarma-booking-system/internal/domain"
	"github.com/gayatrijangid/panchakarma-booking-system/internal/domain/appointment"
	"github.com/gayatrijangid/panchakarma-booking-system/internal/domain/schedule"
	"github.com/gayatrijangid/panchakarma-booking-system/internal/service"
)

type AppointmentHandler struct {
	appointmentSvc *service.AppointmentService
}

func NewAppointmentHandler(appointmentSvc *service.AppointmentService) *AppointmentHandler {
	return &AppointmentHandler{appointmentSvc: appointmentSvc}
}

type availabilityResponse struct {
	*service.Availability
	AvailableCount int                 `json:"availableCount"`
	BookedCount    int                 `json:"bookedCount"`
	Groups         schedule.SlotGroups `json:"groups"`
}

// GetAvailableSlots handles GET /slots/available?date=...&doctorId=...
func (h *AppointmentHandler) GetAvailableSlots(c *gin.Context) {
	date := c.Query("date")
	if date == "" {
		respondError(c, http.StatusBadRequest, "date query parameter is required")
		return
	}

	var doctorID *uuid.UUID
	if raw := c.Query("doctorId"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			respondError(c, http.StatusBadRequest, "invalid doctorId: must be a valid UUID")
			return
		}
		doctorID = &id
	}

	av, err := h.appointmentSvc.GetAvailableSlots(c.Request.Context(), date, doctorID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, availabilityResponse{
		Availability:   av,
		AvailableCount: av.AvailableCount(),
		BookedCount:    av.BookedCount(),
		Groups:         schedule.GroupByPeriod(av.Available),
	})
}

type bookSlotRequest struct {
	TherapyID uuid.UUID       `json:"therapyId" binding:"required"`
	PatientID *uuid.UUID      `json:"patientId"`
	DoctorID  *uuid.UUID      `json:"doctorId"`
	Date      string          `json:"date" binding:"required"`
	Slot      schedule.SlotID `json:"slot" binding:"required"`
	Notes     string          `json:"notes"`
}

func (h *AppointmentHandler) Book(c *gin.Context) {
	clr, ok := callerFrom(c)
	if !ok {
		return
	}

	var req bookSlotRequest
	if !bindJSON(c, &req) {
		return
	}

	// Patients always book for themselves; staff may book on a patient's
	// behalf by naming them.
	patientID := clr.ID
	if req.PatientID != nil {
		if domain.Role(clr.Role) == domain.RolePatient && *req.PatientID != clr.ID {
			respondError(c, http.StatusForbidden, "access denied")
			return
		}
		patientID = *req.PatientID
	}

	a, err := h.appointmentSvc.BookSlot(c.Request.Context(), &appointment.BookSlotCommand{
		PatientID: patientID,
		TherapyID: req.TherapyID,
		DoctorID:  req.DoctorID,
		Date:      req.Date,
		Slot:      req.Slot,
		Notes:     req.Notes,
		CreatedBy: clr.ID,
	}, clr.ID, clr.Role, c.ClientIP())
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondCreated(c, a)
}

func (h *AppointmentHandler) Get(c *gin.Context) {
	clr, ok := callerFrom(c)
	if !ok {
		return
	}
	id, ok := parseUUID(c, "id")
	if !ok {
		return
	}

	a, err := h.appointmentSvc.GetAppointment(c.Request.Context(), id, clr.ID, clr.Role)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondOK(c, a)
}

type rescheduleRequest struct {
	Date *string          `json:"date"`
	Slot *schedule.SlotID `json:"slot"`
}

func (h *AppointmentHandler) Reschedule(c *gin.Context) {
	clr, ok := callerFrom(c)
	if !ok {
		return
	}
	id, ok := parseUUID(c, "id")
	if !ok {
		return
	}

	var req rescheduleRequest
	if !bindJSON(c, &req) {
		return
	}
	if req.Date == nil && req.Slot == nil {
		respondError(c, http.StatusBadRequest, "at least one of date or slot is required")
		return
	}

	a, err := h.appointmentSvc.Reschedule(c.Request.Context(), id, &appointment.RescheduleCommand{
		Date: req.Date,
		Slot: req.Slot,
	}, clr.ID, clr.Role, c.ClientIP())
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondOK(c, a)
}

type updateStatusRequest struct {
	Status appointment.Status `json:"status" binding:"required"`
	Reason string             `json:"reason"`
}

func (h *AppointmentHandler) UpdateStatus(c *gin.Context) {
	clr, ok := callerFrom(c)
	if !ok {
		return
	}
	id, ok := parseUUID(c, "id")
	if !ok {
		return
	}

	var req updateStatusRequest
	if !bindJSON(c, &req) {
		return
	}

	a, err := h.appointmentSvc.UpdateStatus(c.Request.Context(), id, req.Status, req.Reason, clr.ID, clr.Role, c.ClientIP())
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondOK(c, a)
}

type assignDoctorRequest struct {
	DoctorID uuid.UUID `json:"doctorId" binding:"required"`
}

func (h *AppointmentHandler) AssignDoctor(c *gin.Context) {
	clr, ok := callerFrom(c)
	if !ok {
		return
	}
	id, ok := parseUUID(c, "id")
	if !ok {
		return
	}

	var req assignDoctorRequest
	if !bindJSON(c, &req) {
		return
	}

	a, err := h.appointmentSvc.AssignDoctor(c.Request.Context(), id, req.DoctorID, clr.ID, clr.Role, c.ClientIP())
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondOK(c, a)
}

type cancelRequest struct {
	Reason string `json:"reason"`
}

func (h *AppointmentHandler) Cancel(c *gin.Context) {
	clr, ok := callerFrom(c)
	if !ok {
		return
	}
	id, ok := parseUUID(c, "id")
	if !ok {
		return
	}

	// Cancellation reason is optional, and DELETE bodies are too.
	var req cancelRequest
	_ = c.ShouldBindJSON(&req)

	a, err := h.appointmentSvc.CancelAppointment(c.Request.Context(), id, req.Reason, clr.ID, clr.Role, c.ClientIP())
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondOK(c, a)
}

type pagedResponse struct {
	Appointments []*appointment.Appointment `json:"appointments"`
	TotalCount   int64                      `json:"totalCount"`
	Page         int                        `json:"page"`
	PageSize     int                        `json:"pageSize"`
	TotalPages   int                        `json:"totalPages"`
}

func (h *AppointmentHandler) List(c *gin.Context) {
	h.list(c, false)
}

// ListMine serves the caller's own worklist. For doctors this includes
// unassigned bookings awaiting triage.
func (h *AppointmentHandler) ListMine(c *gin.Context) {
	h.list(c, true)
}

func (h *AppointmentHandler) list(c *gin.Context, mineOnly bool) {
	clr, ok := callerFrom(c)
	if !ok {
		return
	}

	q := &appointment.ListQuery{
		Page:     parseQueryInt(c, "page", 1),
		PageSize: parseQueryInt(c, "pageSize", 20),
	}

	if raw := c.Query("status"); raw != "" {
		st := appointment.Status(raw)
		if !st.IsValid() {
			respondServiceError(c, appointment.ErrInvalidStatus)
			return
		}
		q.Status = &st
	}
	if raw := c.Query("date"); raw != "" {
		date, err := schedule.NormalizeDate(raw)
		if err != nil {
			respondServiceError(c, err)
			return
		}
		q.Date = &date
	}
	if raw := c.Query("therapyId"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			respondError(c, http.StatusBadRequest, "invalid therapyId: must be a valid UUID")
			return
		}
		q.TherapyID = &id
	}

	if mineOnly {
		switch domain.Role(clr.Role) {
		case domain.RoleDoctor:
			doctorID := clr.ID
			q.DoctorID = &doctorID
			q.IncludeUnassigned = true
		default:
			patientID := clr.ID
			q.PatientID = &patientID
		}
	} else {
		if raw := c.Query("doctorId"); raw != "" {
			id, err := uuid.Parse(raw)
			if err != nil {
				respondError(c, http.StatusBadRequest, "invalid doctorId: must be a valid UUID")
				return
			}
			q.DoctorID = &id
		}
		if raw := c.Query("patientId"); raw != "" {
			id, err := uuid.Parse(raw)
			if err != nil {
				respondError(c, http.StatusBadRequest, "invalid patientId: must be a valid UUID")
				return
			}
			q.PatientID = &id
		}
	}

	page, err := h.appointmentSvc.ListAppointments(c.Request.Context(), q, clr.ID, clr.Role)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	respondOK(c, pagedResponse{
		Appointments: page.Appointments,
		TotalCount:   page.TotalCount,
		Page:         page.Page,
		PageSize:     page.PageSize,
		TotalPages:   page.TotalPages,
	})
}
