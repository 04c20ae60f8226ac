package services

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"strings"
	"time"

	log "github.com/sirupsen/logrus"

	"wiz-homes/models"
	"wiz-homes/store"
)

const (
	defaultGuestName = "Guest User"
	maxIDAttempts    = 20
)

// BookingService owns the wiz_bookings collection and guest reservations.
type BookingService struct {
	KV        store.Store
	Publisher EventPublisher
	// Delay simulates the latency of confirming a reservation.
	Delay time.Duration
	Now   func() time.Time
}

func NewBookingService(kv store.Store, publisher EventPublisher, delay time.Duration) *BookingService {
	if publisher == nil {
		publisher = NoopPublisher{}
	}
	return &BookingService{KV: kv, Publisher: publisher, Delay: delay, Now: time.Now}
}

// GetBookings returns the stored bookings; an absent key is an empty list and
// a corrupt one is reset to empty. Records without an id or with an unknown
// status are dropped and the cleaned list is written back.
func (s *BookingService) GetBookings(ctx context.Context) ([]models.Booking, error) {
	var bookings []models.Booking
	_, err := readJSON(ctx, s.KV, BookingsKey, &bookings)
	if errors.Is(err, errMalformed) {
		log.WithError(err).Warn("stored bookings are corrupt, resetting")
		bookings = []models.Booking{}
		if err := s.SaveBookings(ctx, bookings); err != nil {
			return nil, err
		}
		return bookings, nil
	}
	if err != nil {
		return nil, err
	}
	if bookings == nil {
		return []models.Booking{}, nil
	}
	valid := bookings[:0]
	for _, b := range bookings {
		if b.ID == "" || !b.Status.Valid() {
			log.WithFields(log.Fields{"booking_id": b.ID, "status": b.Status}).Warn("dropping invalid stored booking")
			continue
		}
		valid = append(valid, b)
	}
	if len(valid) != len(bookings) {
		if err := s.SaveBookings(ctx, valid); err != nil {
			return nil, err
		}
	}
	return valid, nil
}

func (s *BookingService) SaveBookings(ctx context.Context, bookings []models.Booking) error {
	if bookings == nil {
		bookings = []models.Booking{}
	}
	return writeJSON(ctx, s.KV, BookingsKey, bookings)
}

func (s *BookingService) Append(ctx context.Context, b models.Booking) error {
	existing, err := s.GetBookings(ctx)
	if err != nil {
		return err
	}
	return s.SaveBookings(ctx, append(existing, b))
}

type ReservationRequest struct {
	CheckIn   string `json:"checkIn"`
	CheckOut  string `json:"checkOut"`
	Guests    int    `json:"guests"`
	GuestName string `json:"guestName"`
}

// Reserve prices the stay and appends a confirmed booking. Nothing is stored
// if ctx ends during the confirmation delay.
func (s *BookingService) Reserve(ctx context.Context, room models.Room, req ReservationRequest) (models.Booking, Quote, error) {
	if room.Status != models.RoomAvailable {
		return models.Booking{}, Quote{}, ErrRoomUnavailable
	}
	quote, err := QuoteStay(room, req.CheckIn, req.CheckOut)
	if err != nil {
		return models.Booking{}, Quote{}, err
	}
	guests := req.Guests
	if guests < 1 {
		guests = 1
	}
	guestName := strings.TrimSpace(req.GuestName)
	if guestName == "" {
		guestName = defaultGuestName
	}

	if err := sleep(ctx, s.Delay); err != nil {
		return models.Booking{}, Quote{}, err
	}

	existing, err := s.GetBookings(ctx)
	if err != nil {
		return models.Booking{}, Quote{}, err
	}
	id, err := uniqueID("B", func(candidate string) bool {
		for _, b := range existing {
			if b.ID == candidate {
				return true
			}
		}
		return false
	})
	if err != nil {
		return models.Booking{}, Quote{}, err
	}

	now := s.Now().UTC()
	booking := models.Booking{
		ID:        id,
		GuestName: guestName,
		RoomName:  room.Name,
		CheckIn:   req.CheckIn,
		CheckOut:  req.CheckOut,
		Status:    models.BookingConfirmed,
		Total:     quote.Total,
		Guests:    guests,
		CreatedAt: &now,
	}
	if err := s.SaveBookings(ctx, append(existing, booking)); err != nil {
		return models.Booking{}, Quote{}, err
	}

	event := BookingConfirmedEvent{
		BookingID:   booking.ID,
		RoomID:      room.ID,
		RoomName:    room.Name,
		GuestName:   booking.GuestName,
		CheckIn:     booking.CheckIn,
		CheckOut:    booking.CheckOut,
		Nights:      quote.Nights,
		Guests:      guests,
		Total:       booking.Total,
		ConfirmedAt: now.Format(time.RFC3339),
	}
	pubCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
	defer cancel()
	if err := s.Publisher.PublishBookingConfirmed(pubCtx, event); err != nil {
		log.WithError(err).WithField("booking_id", booking.ID).Warn("booking event not published")
	}

	log.WithFields(log.Fields{"booking_id": booking.ID, "room": room.Name, "total": booking.Total}).Info("reservation confirmed")
	return booking, quote, nil
}

// uniqueID draws prefix+N (N < 10000) until taken reports false.
func uniqueID(prefix string, taken func(string) bool) (string, error) {
	for attempt := 0; attempt < maxIDAttempts; attempt++ {
		candidate := fmt.Sprintf("%s%d", prefix, rand.IntN(10000))
		if !taken(candidate) {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("no free %s identifier after %d attempts", prefix, maxIDAttempts)
}
