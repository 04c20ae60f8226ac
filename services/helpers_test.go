package services

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/png"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"wiz-homes/models"
	"wiz-homes/store"
)

func testRooms() []models.Room {
	return []models.Room{
		{ID: "1", Name: "Penthouse", Price: 450, Status: models.RoomAvailable, Rating: 4.9, Location: "Lagos", ImageURL: "https://img/1.jpg", Amenities: []string{"Wifi"}},
		{ID: "2", Name: "Loft", Price: 280, Status: models.RoomAvailable, Rating: 4.7, Location: "Lagos", ImageURL: "https://img/2.jpg"},
		{ID: "3", Name: "Villa", Price: 620, Status: models.RoomBooked, Rating: 5.0, Location: "Lekki", ImageURL: "https://img/3.jpg"},
		{ID: "4", Name: "Studio", Price: 150, Status: models.RoomAvailable, Rating: 4.5, Location: "Yaba", ImageURL: "https://img/4.jpg"},
		{ID: "5", Name: "Duplex", Price: 390, Status: models.RoomNotAvailable, Rating: 4.8, Location: "Ikoyi", ImageURL: "https://img/5.jpg"},
	}
}

type testEnv struct {
	kv       *store.Memory
	rooms    *RoomService
	bookings *BookingService
	users    *UserService
	images   *ImageService
	hub      *NotificationHub
	gate     *AuthGate
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	kv := store.NewMemory()
	users := NewUserService(kv)
	env := &testEnv{
		kv:       kv,
		rooms:    NewRoomService(kv, testRooms),
		bookings: NewBookingService(kv, nil, 0),
		users:    users,
		images:   NewImageService(t.TempDir()),
		hub:      NewNotificationHub(),
		gate: NewAuthGate(users, AuthConfig{
			Secret:        "test-secret",
			SessionTTL:    time.Hour,
			BcryptCost:    bcrypt.MinCost,
			AdminEmail:    "admin@wizhomes.com",
			AdminPassword: "password",
		}),
	}
	return env
}

func (e *testEnv) workspace(t *testing.T, ttl time.Duration) *Workspace {
	t.Helper()
	ws, err := NewWorkspace(context.Background(), "sess-1", WorkspaceDeps{
		Rooms:     e.rooms,
		Bookings:  e.bookings,
		Images:    e.images,
		Hub:       e.hub,
		NotifyTTL: ttl,
	})
	require.NoError(t, err)
	t.Cleanup(ws.Close)
	return ws
}

func pngBytes(t *testing.T, c color.Color) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 2, 2))
	for x := 0; x < 2; x++ {
		for y := 0; y < 2; y++ {
			img.Set(x, y, c)
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}
