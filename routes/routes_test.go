package routes

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"wiz-homes/config"
	"wiz-homes/controllers"
	"wiz-homes/models"
	"wiz-homes/services"
	"wiz-homes/store"
)

type envelope struct {
	Success bool              `json:"success"`
	Data    json.RawMessage   `json:"data"`
	Error   string            `json:"error"`
	Errors  map[string]string `json:"errors"`
	Prompt  string            `json:"prompt"`
}

type testServer struct {
	router   *gin.Engine
	bookings *services.BookingService
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)

	kv := store.NewMemory()
	rooms := services.NewRoomService(kv, config.DefaultRooms)
	bookings := services.NewBookingService(kv, nil, 0)
	users := services.NewUserService(kv)
	hub := services.NewNotificationHub()
	uploads := t.TempDir()

	gate := services.NewAuthGate(users, services.AuthConfig{
		Secret:        "test-secret",
		SessionTTL:    time.Hour,
		BcryptCost:    bcrypt.MinCost,
		AdminEmail:    "admin@wizhomes.com",
		AdminPassword: "password",
	})
	registry := services.NewWorkspaceRegistry(services.WorkspaceDeps{
		Rooms:     rooms,
		Bookings:  bookings,
		Images:    services.NewImageService(uploads),
		Hub:       hub,
		NotifyTTL: time.Minute,
	})
	gate.OnSignOut(registry.Close)

	router := SetupRouter(Handlers{
		Rooms:         controllers.NewRoomController(rooms, bookings),
		Bookings:      controllers.NewBookingController(bookings),
		Auth:          controllers.NewAuthController(gate),
		Settings:      controllers.NewSettingsController(services.NewSettingsService(kv)),
		Admin:         controllers.NewAdminController(registry),
		Notifications: controllers.NewNotificationController(hub),
		Gate:          gate,
		UploadDir:     uploads,
	})
	return &testServer{router: router, bookings: bookings}
}

func (s *testServer) do(t *testing.T, method, path, token string, body any) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)

	var env envelope
	if w.Body.Len() > 0 && w.Header().Get("Content-Type") != "" {
		_ = json.Unmarshal(w.Body.Bytes(), &env)
	}
	return w, env
}

func (s *testServer) adminToken(t *testing.T) string {
	t.Helper()
	w, env := s.do(t, http.MethodPost, "/api/auth/login", "", gin.H{"email": "admin@wizhomes.com", "password": "password"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var res services.AuthResult
	require.NoError(t, json.Unmarshal(env.Data, &res))
	assert.Equal(t, "/admin", res.Redirect)
	return res.Token
}

func TestHealth(t *testing.T) {
	s := newTestServer(t)
	w, _ := s.do(t, http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())
}

func TestPublicRooms(t *testing.T) {
	s := newTestServer(t)

	w, env := s.do(t, http.MethodGet, "/api/rooms?filter=Available", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var rooms []models.Room
	require.NoError(t, json.Unmarshal(env.Data, &rooms))
	require.NotEmpty(t, rooms)
	for _, r := range rooms {
		assert.Equal(t, models.RoomAvailable, r.Status)
	}

	w, env = s.do(t, http.MethodGet, "/api/rooms/featured", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(env.Data, &rooms))
	assert.Len(t, rooms, 4)

	w, _ = s.do(t, http.MethodGet, "/api/rooms/does-not-exist", "", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestQuoteAndReserve(t *testing.T) {
	s := newTestServer(t)

	w, env := s.do(t, http.MethodGet, "/api/rooms/1/quote?checkIn=2024-12-01&checkOut=2024-12-05", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var quote services.Quote
	require.NoError(t, json.Unmarshal(env.Data, &quote))
	assert.Equal(t, 4, quote.Nights)
	assert.Equal(t, 450*4+165.0, quote.Total)

	w, env = s.do(t, http.MethodGet, "/api/rooms/1/quote?checkIn=tomorrow&checkOut=2024-12-05", "", nil)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Contains(t, env.Errors, "checkIn")

	w, env = s.do(t, http.MethodPost, "/api/rooms/1/reserve", "", services.ReservationRequest{CheckIn: "2024-12-01", CheckOut: "2024-12-03", Guests: 2})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var reserved struct {
		Booking models.Booking `json:"booking"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &reserved))
	assert.Equal(t, "Guest User", reserved.Booking.GuestName)

	// room 3 is seeded as Booked
	w, _ = s.do(t, http.MethodPost, "/api/rooms/3/reserve", "", services.ReservationRequest{CheckIn: "2024-12-01", CheckOut: "2024-12-03"})
	assert.Equal(t, http.StatusConflict, w.Code)

	token := s.adminToken(t)
	w, _ = s.do(t, http.MethodPut, "/api/admin/tab", token, gin.H{"tab": "bookings"})
	require.Equal(t, http.StatusOK, w.Code)
	w, env = s.do(t, http.MethodGet, "/api/admin/workspace", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var st services.WorkspaceState
	require.NoError(t, json.Unmarshal(env.Data, &st))
	require.Len(t, st.Bookings, 1)
	assert.Equal(t, reserved.Booking.ID, st.Bookings[0].ID)
}

func TestAuthFlow(t *testing.T) {
	s := newTestServer(t)

	w, env := s.do(t, http.MethodPost, "/api/auth/login", "", gin.H{"email": "nobody@example.com", "password": "nope"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "Invalid email or password", env.Error)

	w, env = s.do(t, http.MethodPost, "/api/auth/login", "", gin.H{"email": "", "password": ""})
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Equal(t, "Please enter email and password", env.Errors["form"])

	w, env = s.do(t, http.MethodPost, "/api/auth/signup", "", gin.H{"fullName": "Ada", "email": "bad", "password": "secret1", "confirmPassword": "secret2"})
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Equal(t, "Please enter a valid email", env.Errors["email"])
	assert.Equal(t, "Passwords do not match", env.Errors["confirmPassword"])

	w, _ = s.do(t, http.MethodGet, "/api/admin/workspace", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w, env = s.do(t, http.MethodGet, "/api/routes/resolve?path=/admin/rooms", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"path":"/login","authenticated":false}`, string(env.Data))

	token := s.adminToken(t)
	w, env = s.do(t, http.MethodGet, "/api/routes/resolve?path=/admin/rooms", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"path":"/admin/rooms","authenticated":true}`, string(env.Data))

	w, _ = s.do(t, http.MethodGet, "/api/auth/me", token, nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w, env = s.do(t, http.MethodPost, "/api/auth/logout", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"redirect":"/"}`, string(env.Data))

	w, _ = s.do(t, http.MethodGet, "/api/admin/workspace", token, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAdminRoomLifecycle(t *testing.T) {
	s := newTestServer(t)
	token := s.adminToken(t)

	w, _ := s.do(t, http.MethodPut, "/api/admin/tab", token, gin.H{"tab": "rooms"})
	require.Equal(t, http.StatusOK, w.Code)

	w, env := s.do(t, http.MethodPost, "/api/admin/records", token, nil)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var created struct {
		Editing models.Room `json:"editing"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &created))

	w, _ = s.do(t, http.MethodPatch, "/api/admin/editing", token, gin.H{"name": "Harbour View", "price": 240, "location": "Lekki"})
	require.Equal(t, http.StatusOK, w.Code)
	w, _ = s.do(t, http.MethodPost, "/api/admin/editing/gallery", token, gin.H{"url": "https://img/a.jpg"})
	require.Equal(t, http.StatusOK, w.Code)
	w, _ = s.do(t, http.MethodPost, "/api/admin/editing/gallery", token, gin.H{"url": "https://img/a.jpg"})
	assert.Equal(t, http.StatusConflict, w.Code)

	w, _ = s.do(t, http.MethodPost, "/api/admin/editing/submit", token, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w, env = s.do(t, http.MethodGet, "/api/rooms/"+created.Editing.ID, "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var room models.Room
	require.NoError(t, json.Unmarshal(env.Data, &room))
	assert.Equal(t, "Harbour View", room.Name)
	assert.Equal(t, []string{"https://img/a.jpg"}, room.Gallery)

	w, _ = s.do(t, http.MethodPost, "/api/admin/rooms/"+room.ID+"/status", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	w, _ = s.do(t, http.MethodPut, "/api/admin/status", token, gin.H{"status": "Not Available"})
	require.Equal(t, http.StatusOK, w.Code)

	w, env = s.do(t, http.MethodDelete, "/api/admin/rooms/"+room.ID, token, nil)
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, services.RoomDeletePrompt, env.Prompt)

	w, _ = s.do(t, http.MethodDelete, "/api/admin/rooms/"+room.ID+"?confirm=true", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	w, _ = s.do(t, http.MethodGet, "/api/rooms/"+room.ID, "", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w, env = s.do(t, http.MethodGet, "/api/admin/dashboard", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var dash struct {
		Stats services.Stats `json:"stats"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &dash))
	assert.Equal(t, 6, dash.Stats.TotalRooms)
}

func TestThemeEndpoints(t *testing.T) {
	s := newTestServer(t)

	w, env := s.do(t, http.MethodGet, "/api/settings/theme", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"theme":"light"}`, string(env.Data))

	w, _ = s.do(t, http.MethodPut, "/api/settings/theme", "", gin.H{"theme": "dark"})
	require.Equal(t, http.StatusOK, w.Code)
	w, _ = s.do(t, http.MethodPut, "/api/settings/theme", "", gin.H{"theme": "neon"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	_, env = s.do(t, http.MethodGet, "/api/settings/theme", "", nil)
	assert.JSONEq(t, `{"theme":"dark"}`, string(env.Data))
}

func TestDashboardListsReservationsMadeAfterOpening(t *testing.T) {
	s := newTestServer(t)
	token := s.adminToken(t)

	w, _ := s.do(t, http.MethodGet, "/api/admin/workspace", token, nil)
	require.Equal(t, http.StatusOK, w.Code)

	w, env := s.do(t, http.MethodPost, "/api/rooms/2/reserve", "", services.ReservationRequest{CheckIn: "2024-12-01", CheckOut: "2024-12-03"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var reserved struct {
		Booking models.Booking `json:"booking"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &reserved))

	w, env = s.do(t, http.MethodGet, "/api/admin/dashboard", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var dash struct {
		RecentBookings []models.Booking `json:"recentBookings"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &dash))
	require.Len(t, dash.RecentBookings, 1)
	assert.Equal(t, reserved.Booking.ID, dash.RecentBookings[0].ID)
}
