package domain

// Lifecycle events published by the booking module. External collaborators
// (payment capture, calendar sync, notifications) subscribe to these; their
// failures never roll back the booking.

type BookingCreated struct {
	Booking *Booking
}

type BookingUpdated struct {
	Booking *Booking
}

type BookingStatusChanged struct {
	Booking *Booking
	Old     BookingStatus
	New     BookingStatus
}

type BookingDeleted struct {
	BookingID int64
	WorkerID  int64
	Reference string
}
