package models

import "time"

type BookingStatus string

const (
	BookingConfirmed BookingStatus = "Confirmed"
	BookingPending   BookingStatus = "Pending"
	BookingCancelled BookingStatus = "Cancelled"
)

func (s BookingStatus) Valid() bool {
	switch s {
	case BookingConfirmed, BookingPending, BookingCancelled:
		return true
	}
	return false
}

// Booking is a reservation record. RoomName is a copy of the room's name at
// booking time, not a reference.
type Booking struct {
	ID        string        `json:"id"`
	GuestName string        `json:"guestName"`
	RoomName  string        `json:"roomName"`
	CheckIn   string        `json:"checkIn"`
	CheckOut  string        `json:"checkOut"`
	Status    BookingStatus `json:"status"`
	Total     float64       `json:"total"`
	Guests    int           `json:"guests,omitempty"`
	CreatedAt *time.Time    `json:"createdAt,omitempty"`
}
