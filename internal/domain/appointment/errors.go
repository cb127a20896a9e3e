package appointment

import "errors"

var (
	ErrAppointmentNotFound     = errors.New("appointment not found")
	ErrSlotTaken               = errors.New("slot is already booked")
	ErrInvalidStatusTransition = errors.New("invalid appointment status transition")
	ErrDateInPast              = errors.New("cannot book a date in the past")
	ErrInvalidSlot             = errors.New("slot is not in the clinic catalog")
	ErrInvalidStatus           = errors.New("invalid appointment status")
)
