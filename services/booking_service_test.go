package services

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"wiz-homes/models"
)

type recordingPublisher struct {
	mu     sync.Mutex
	events []BookingConfirmedEvent
}

func (p *recordingPublisher) PublishBookingConfirmed(_ context.Context, e BookingConfirmedEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, e)
	return nil
}

func TestReserveAppendsConfirmedBooking(t *testing.T) {
	env := newTestEnv(t)
	pub := &recordingPublisher{}
	env.bookings.Publisher = pub
	ctx := context.Background()

	room := models.Room{ID: "R1", Name: "Loft", Price: 100, Status: models.RoomAvailable}
	booking, quote, err := env.bookings.Reserve(ctx, room, ReservationRequest{
		CheckIn:  "2024-12-01",
		CheckOut: "2024-12-05",
		Guests:   0,
	})
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(booking.ID, "B"))
	assert.Equal(t, "Guest User", booking.GuestName)
	assert.Equal(t, "Loft", booking.RoomName)
	assert.Equal(t, models.BookingConfirmed, booking.Status)
	assert.Equal(t, 1, booking.Guests)
	assert.Equal(t, 565.0, booking.Total)
	assert.Equal(t, quote.Total, booking.Total)
	require.NotNil(t, booking.CreatedAt)

	stored, err := env.bookings.GetBookings(ctx)
	require.NoError(t, err)
	require.Len(t, stored, 1)
	assert.Equal(t, booking.ID, stored[0].ID)

	require.Len(t, pub.events, 1)
	assert.Equal(t, booking.ID, pub.events[0].BookingID)
	assert.Equal(t, 4, pub.events[0].Nights)

	second, _, err := env.bookings.Reserve(ctx, room, ReservationRequest{CheckIn: "2024-12-10", CheckOut: "2024-12-11", GuestName: "Ada"})
	require.NoError(t, err)
	assert.Equal(t, "Ada", second.GuestName)
	assert.NotEqual(t, booking.ID, second.ID)

	stored, err = env.bookings.GetBookings(ctx)
	require.NoError(t, err)
	assert.Len(t, stored, 2)
}

func TestReserveRejectsUnavailableRoom(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	for _, status := range []models.RoomStatus{models.RoomBooked, models.RoomNotAvailable} {
		_, _, err := env.bookings.Reserve(ctx, models.Room{ID: "R1", Price: 100, Status: status}, ReservationRequest{CheckIn: "2024-12-01", CheckOut: "2024-12-02"})
		assert.ErrorIs(t, err, ErrRoomUnavailable)
	}
	stored, err := env.bookings.GetBookings(ctx)
	require.NoError(t, err)
	assert.Empty(t, stored)
}

func TestReserveAbandonedDuringDelayStoresNothing(t *testing.T) {
	env := newTestEnv(t)
	env.bookings.Delay = time.Hour

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(20 * time.Millisecond)
		cancel()
	}()

	room := models.Room{ID: "R1", Name: "Loft", Price: 100, Status: models.RoomAvailable}
	_, _, err := env.bookings.Reserve(ctx, room, ReservationRequest{CheckIn: "2024-12-01", CheckOut: "2024-12-02"})
	assert.ErrorIs(t, err, context.Canceled)

	stored, err := env.bookings.GetBookings(context.Background())
	require.NoError(t, err)
	assert.Empty(t, stored)
}

func TestReserveRejectsMalformedDates(t *testing.T) {
	env := newTestEnv(t)
	room := models.Room{ID: "R1", Price: 100, Status: models.RoomAvailable}

	_, _, err := env.bookings.Reserve(context.Background(), room, ReservationRequest{CheckIn: "soon", CheckOut: "2024-12-02"})
	var fields FieldErrors
	require.ErrorAs(t, err, &fields)
	assert.Contains(t, fields, "checkIn")
}

func TestCorruptBookingsResetToEmpty(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	require.NoError(t, env.kv.Set(ctx, BookingsKey, "not json"))

	bookings, err := env.bookings.GetBookings(ctx)
	require.NoError(t, err)
	assert.Empty(t, bookings)

	raw, _, err := env.kv.Get(ctx, BookingsKey)
	require.NoError(t, err)
	assert.Equal(t, "[]", raw)
}

func TestInvalidStoredBookingsAreDropped(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	stored := `[{"id":"B1","guestName":"Ada","roomName":"Loft","checkIn":"2024-12-01","checkOut":"2024-12-03","status":"Confirmed","total":725},` +
		`{"id":"B2","guestName":"Bo","roomName":"Loft","checkIn":"2024-12-01","checkOut":"2024-12-03","status":"Refunded","total":725},` +
		`{"id":"","guestName":"Cy","roomName":"Loft","checkIn":"2024-12-01","checkOut":"2024-12-03","status":"Pending","total":725}]`
	require.NoError(t, env.kv.Set(ctx, BookingsKey, stored))

	bookings, err := env.bookings.GetBookings(ctx)
	require.NoError(t, err)
	require.Len(t, bookings, 1)
	assert.Equal(t, "B1", bookings[0].ID)

	raw, _, err := env.kv.Get(ctx, BookingsKey)
	require.NoError(t, err)
	assert.NotContains(t, raw, "Refunded")
	assert.Contains(t, raw, `"id":"B1"`)
}

func TestUniqueIDSkipsTakenValues(t *testing.T) {
	calls := 0
	id, err := uniqueID("B", func(string) bool {
		calls++
		return calls < 3
	})
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(id, "B"))
	assert.Equal(t, 3, calls)

	_, err = uniqueID("B", func(string) bool { return true })
	assert.Error(t, err)
}
