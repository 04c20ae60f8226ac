package services

import (
	"context"
	"fmt"
	"math"
	"strings"
	"sync"
	"time"

	log "github.com/sirupsen/logrus"

	"wiz-homes/models"
)

type Tab string

const (
	TabDashboard Tab = "dashboard"
	TabRooms     Tab = "rooms"
	TabBookings  Tab = "bookings"
)

func (t Tab) Valid() bool {
	return t == TabDashboard || t == TabRooms || t == TabBookings
}

const (
	RoomDeletePrompt    = "Are you sure you want to remove this room from inventory?"
	BookingDeletePrompt = "Cancel this booking record?"

	defaultNotifyTTL = 3 * time.Second
	draftImageURL    = "https://images.unsplash.com/photo-1502672260266-1c1ef2d93688?auto=format&fit=crop&q=80&w=800"
)

// Confirmer asks the operator to approve a destructive action.
type Confirmer func(prompt string) bool

type Notification struct {
	ID        uint64    `json:"id"`
	Message   string    `json:"message"`
	CreatedAt time.Time `json:"createdAt"`
}

type Stats struct {
	TotalRooms int `json:"totalRooms"`
	Occupancy  int `json:"occupancy"` // percent of rooms Booked
	Available  int `json:"available"`
}

// RoomPatch carries the edit-form fields; nil means unchanged.
type RoomPatch struct {
	Name        *string            `json:"name"`
	Price       *float64           `json:"price"`
	Status      *models.RoomStatus `json:"status"`
	Location    *string            `json:"location"`
	Description *string            `json:"description"`
	Amenities   []string           `json:"amenities"`
	Rating      *float64           `json:"rating"`
	ImageURL    *string            `json:"imageUrl"`
}

// WorkspaceState is a snapshot of everything the admin view renders.
type WorkspaceState struct {
	Tab          Tab              `json:"tab"`
	Rooms        []models.Room    `json:"rooms"`
	Bookings     []models.Booking `json:"bookings"`
	Editing      *models.Room     `json:"editing"`
	Viewing      *models.Room     `json:"viewing"`
	StatusTarget *models.Room     `json:"statusTarget"`
	Notification *Notification    `json:"notification"`
	Stats        Stats            `json:"stats"`
}

type WorkspaceDeps struct {
	Rooms     *RoomService
	Bookings  *BookingService
	Images    *ImageService
	Hub       *NotificationHub
	NotifyTTL time.Duration
	Now       func() time.Time
}

// Workspace is the admin view's state for one session. Every change to the
// room list is written through to the room store in full.
type Workspace struct {
	SessionID string
	deps      WorkspaceDeps

	mu           sync.Mutex
	tab          Tab
	rooms        []models.Room
	bookings     []models.Booking
	editing      *models.Room
	viewing      *models.Room
	statusTarget *models.Room
	notice       *Notification
	noticeSeq    uint64
	timer        *time.Timer
	closed       bool
}

func NewWorkspace(ctx context.Context, sessionID string, deps WorkspaceDeps) (*Workspace, error) {
	if deps.NotifyTTL <= 0 {
		deps.NotifyTTL = defaultNotifyTTL
	}
	if deps.Now == nil {
		deps.Now = time.Now
	}
	rooms, err := deps.Rooms.GetRooms(ctx)
	if err != nil {
		return nil, fmt.Errorf("load rooms: %w", err)
	}
	bookings, err := deps.Bookings.GetBookings(ctx)
	if err != nil {
		return nil, fmt.Errorf("load bookings: %w", err)
	}
	return &Workspace{
		SessionID: sessionID,
		deps:      deps,
		tab:       TabDashboard,
		rooms:     rooms,
		bookings:  bookings,
	}, nil
}

func (w *Workspace) Snapshot() WorkspaceState {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.snapshotLocked()
}

func (w *Workspace) snapshotLocked() WorkspaceState {
	st := WorkspaceState{
		Tab:      w.tab,
		Rooms:    make([]models.Room, 0, len(w.rooms)),
		Bookings: append([]models.Booking{}, w.bookings...),
		Stats:    computeStats(w.rooms),
	}
	for _, r := range w.rooms {
		st.Rooms = append(st.Rooms, r.Clone())
	}
	st.Editing = cloneRoomPtr(w.editing)
	st.Viewing = cloneRoomPtr(w.viewing)
	st.StatusTarget = cloneRoomPtr(w.statusTarget)
	if w.notice != nil {
		n := *w.notice
		st.Notification = &n
	}
	return st
}

func (w *Workspace) Stats() Stats {
	w.mu.Lock()
	defer w.mu.Unlock()
	return computeStats(w.rooms)
}

// SetTab switches the active tab. Entering the bookings tab re-reads the
// booking store so guest reservations made since opening are listed.
func (w *Workspace) SetTab(ctx context.Context, tab Tab) error {
	if !tab.Valid() {
		return ErrInvalidTab
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	if err := w.checkOpen(); err != nil {
		return err
	}
	if tab == TabBookings {
		bookings, err := w.deps.Bookings.GetBookings(ctx)
		if err != nil {
			return err
		}
		w.bookings = bookings
	}
	w.tab = tab
	return nil
}

// AddRecord opens a draft room in the edit slot. The draft joins the list
// only when the edit is submitted. Bookings cannot be created here.
func (w *Workspace) AddRecord() (*models.Room, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if err := w.checkOpen(); err != nil {
		return nil, err
	}
	if w.tab != TabRooms {
		w.notifyLocked("Manual booking entry is not available in demo")
		return nil, nil
	}
	draft := models.Room{
		ID:          fmt.Sprintf("R%d", w.deps.Now().UnixMilli()),
		Name:        "New Luxury Unit",
		Price:       100,
		Status:      models.RoomAvailable,
		Location:    "TBD",
		Description: "",
		ImageURL:    draftImageURL,
		Gallery:     []string{},
		Amenities:   []string{"Wifi"},
		Rating:      5.0,
	}
	w.editing = &draft
	return cloneRoomPtr(w.editing), nil
}

func (w *Workspace) BeginEdit(id string) (*models.Room, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if err := w.checkOpen(); err != nil {
		return nil, err
	}
	r, ok := w.findLocked(id)
	if !ok {
		return nil, ErrRoomNotFound
	}
	c := r.Clone()
	w.editing = &c
	return cloneRoomPtr(w.editing), nil
}

func (w *Workspace) UpdateDraft(p RoomPatch) (*models.Room, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if err := w.checkOpen(); err != nil {
		return nil, err
	}
	if w.editing == nil {
		return nil, ErrNoEditInProgress
	}
	if p.Name != nil {
		w.editing.Name = *p.Name
	}
	if p.Price != nil {
		w.editing.Price = *p.Price
	}
	if p.Status != nil {
		if !p.Status.Valid() {
			return nil, ErrInvalidStatus
		}
		w.editing.Status = *p.Status
	}
	if p.Location != nil {
		w.editing.Location = *p.Location
	}
	if p.Description != nil {
		w.editing.Description = *p.Description
	}
	if p.Amenities != nil {
		w.editing.Amenities = append([]string{}, p.Amenities...)
	}
	if p.Rating != nil {
		w.editing.Rating = *p.Rating
	}
	if p.ImageURL != nil {
		w.editing.ImageURL = strings.TrimSpace(*p.ImageURL)
	}
	return cloneRoomPtr(w.editing), nil
}

func (w *Workspace) CancelEdit() {
	w.mu.Lock()
	w.editing = nil
	w.mu.Unlock()
}

// SubmitEdit replaces the room with the draft's id, or prepends the draft
// when no such room exists yet.
func (w *Workspace) SubmitEdit(ctx context.Context) (models.Room, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if err := w.checkOpen(); err != nil {
		return models.Room{}, err
	}
	if w.editing == nil {
		return models.Room{}, ErrNoEditInProgress
	}
	draft := w.editing.Clone()
	if fields := validateDraft(draft); len(fields) > 0 {
		return models.Room{}, fields
	}

	updated := make([]models.Room, 0, len(w.rooms)+1)
	replaced := false
	for _, r := range w.rooms {
		if r.ID == draft.ID {
			updated = append(updated, draft)
			replaced = true
			continue
		}
		updated = append(updated, r)
	}
	if !replaced {
		updated = append([]models.Room{draft}, updated...)
	}

	if err := w.setRoomsLocked(ctx, updated); err != nil {
		return models.Room{}, err
	}
	w.editing = nil
	w.notifyLocked("Inventory updated successfully")
	return draft, nil
}

func (w *Workspace) DeleteRoom(ctx context.Context, id string, confirm Confirmer) (bool, error) {
	if confirm == nil || !confirm(RoomDeletePrompt) {
		return false, nil
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	if err := w.checkOpen(); err != nil {
		return false, err
	}
	if _, ok := w.findLocked(id); !ok {
		return false, ErrRoomNotFound
	}
	updated := make([]models.Room, 0, len(w.rooms))
	for _, r := range w.rooms {
		if r.ID != id {
			updated = append(updated, r)
		}
	}
	if err := w.setRoomsLocked(ctx, updated); err != nil {
		return false, err
	}
	w.notifyLocked("Room deleted successfully")
	return true, nil
}

func (w *Workspace) DeleteBooking(ctx context.Context, id string, confirm Confirmer) (bool, error) {
	if confirm == nil || !confirm(BookingDeletePrompt) {
		return false, nil
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	if err := w.checkOpen(); err != nil {
		return false, err
	}
	// Guests may have reserved since the list was loaded.
	current, err := w.deps.Bookings.GetBookings(ctx)
	if err != nil {
		return false, err
	}
	updated := make([]models.Booking, 0, len(current))
	for _, b := range current {
		if b.ID != id {
			updated = append(updated, b)
		}
	}
	if len(updated) == len(current) {
		w.bookings = current
		return false, ErrBookingNotFound
	}
	if err := w.deps.Bookings.SaveBookings(ctx, updated); err != nil {
		return false, err
	}
	w.bookings = updated
	w.notifyLocked("Booking cancelled and removed")
	return true, nil
}

// RefreshBookings reloads the unified bookings list from the store.
func (w *Workspace) RefreshBookings(ctx context.Context) ([]models.Booking, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if err := w.checkOpen(); err != nil {
		return nil, err
	}
	bookings, err := w.deps.Bookings.GetBookings(ctx)
	if err != nil {
		return nil, err
	}
	w.bookings = bookings
	return append([]models.Booking(nil), bookings...), nil
}

func (w *Workspace) BeginStatusChange(id string) (*models.Room, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if err := w.checkOpen(); err != nil {
		return nil, err
	}
	r, ok := w.findLocked(id)
	if !ok {
		return nil, ErrRoomNotFound
	}
	c := r.Clone()
	w.statusTarget = &c
	return cloneRoomPtr(w.statusTarget), nil
}

func (w *Workspace) CancelStatusChange() {
	w.mu.Lock()
	w.statusTarget = nil
	w.mu.Unlock()
}

// ChangeStatus sets the status of the room selected by BeginStatusChange.
func (w *Workspace) ChangeStatus(ctx context.Context, status models.RoomStatus) error {
	if !status.Valid() {
		return ErrInvalidStatus
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	if err := w.checkOpen(); err != nil {
		return err
	}
	if w.statusTarget == nil {
		return ErrNoStatusTarget
	}
	targetID := w.statusTarget.ID
	updated := make([]models.Room, len(w.rooms))
	for i, r := range w.rooms {
		if r.ID == targetID {
			r.Status = status
		}
		updated[i] = r
	}
	if err := w.setRoomsLocked(ctx, updated); err != nil {
		return err
	}
	w.statusTarget = nil
	w.notifyLocked(fmt.Sprintf("Status updated to %s", status))
	return nil
}

func (w *Workspace) BeginView(id string) (*models.Room, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if err := w.checkOpen(); err != nil {
		return nil, err
	}
	r, ok := w.findLocked(id)
	if !ok {
		return nil, ErrRoomNotFound
	}
	c := r.Clone()
	w.viewing = &c
	return cloneRoomPtr(w.viewing), nil
}

func (w *Workspace) CloseView() {
	w.mu.Lock()
	w.viewing = nil
	w.mu.Unlock()
}

// AddGalleryURL appends a trimmed URL to the draft's gallery. Blank input is
// ignored; an exact duplicate is rejected.
func (w *Workspace) AddGalleryURL(url string) (*models.Room, error) {
	url = strings.TrimSpace(url)
	w.mu.Lock()
	defer w.mu.Unlock()
	if err := w.checkOpen(); err != nil {
		return nil, err
	}
	if w.editing == nil {
		return nil, ErrNoEditInProgress
	}
	if url == "" {
		return cloneRoomPtr(w.editing), nil
	}
	if err := w.appendGalleryLocked(url); err != nil {
		return nil, err
	}
	w.notifyLocked("Image added to gallery")
	return cloneRoomPtr(w.editing), nil
}

// UploadGalleryImage stores the file and appends its URL to the draft.
func (w *Workspace) UploadGalleryImage(data []byte) (*models.Room, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if err := w.checkOpen(); err != nil {
		return nil, err
	}
	if w.editing == nil {
		return nil, ErrNoEditInProgress
	}
	url, err := w.deps.Images.Save(data)
	if err != nil {
		return nil, err
	}
	if err := w.appendGalleryLocked(url); err != nil {
		return nil, err
	}
	w.notifyLocked("Image uploaded successfully")
	return cloneRoomPtr(w.editing), nil
}

func (w *Workspace) RemoveGalleryImage(index int) (*models.Room, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if err := w.checkOpen(); err != nil {
		return nil, err
	}
	if w.editing == nil {
		return nil, ErrNoEditInProgress
	}
	if index < 0 || index >= len(w.editing.Gallery) {
		return nil, ErrGalleryIndex
	}
	gallery := append([]string{}, w.editing.Gallery[:index]...)
	w.editing.Gallery = append(gallery, w.editing.Gallery[index+1:]...)
	w.notifyLocked("Image removed from gallery")
	return cloneRoomPtr(w.editing), nil
}

// ReplacePrimaryImage stores the file and points the draft's imageUrl at it.
func (w *Workspace) ReplacePrimaryImage(data []byte) (*models.Room, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if err := w.checkOpen(); err != nil {
		return nil, err
	}
	if w.editing == nil {
		return nil, ErrNoEditInProgress
	}
	url, err := w.deps.Images.Save(data)
	if err != nil {
		return nil, err
	}
	w.editing.ImageURL = url
	w.notifyLocked("Primary image uploaded successfully")
	return cloneRoomPtr(w.editing), nil
}

func (w *Workspace) Notification() *Notification {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.notice == nil {
		return nil
	}
	n := *w.notice
	return &n
}

func (w *Workspace) DismissNotification() {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.notice = nil
	if w.timer != nil {
		w.timer.Stop()
		w.timer = nil
	}
}

// Close stops pending timers and disconnects feed subscribers. A closed
// workspace rejects further mutations.
func (w *Workspace) Close() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed {
		return
	}
	w.closed = true
	if w.timer != nil {
		w.timer.Stop()
		w.timer = nil
	}
	w.notice = nil
	if w.deps.Hub != nil {
		w.deps.Hub.CloseSession(w.SessionID)
	}
}

func (w *Workspace) checkOpen() error {
	if w.closed {
		return ErrWorkspaceClosed
	}
	return nil
}

func (w *Workspace) appendGalleryLocked(url string) error {
	for _, existing := range w.editing.Gallery {
		if existing == url {
			w.notifyLocked("Image already in gallery")
			return ErrDuplicateImage
		}
	}
	w.editing.Gallery = append(append([]string{}, w.editing.Gallery...), url)
	return nil
}

func (w *Workspace) setRoomsLocked(ctx context.Context, rooms []models.Room) error {
	if err := w.deps.Rooms.SaveRooms(ctx, rooms); err != nil {
		return err
	}
	w.rooms = rooms
	return nil
}

func (w *Workspace) findLocked(id string) (models.Room, bool) {
	for _, r := range w.rooms {
		if r.ID == id {
			return r, true
		}
	}
	return models.Room{}, false
}

// notifyLocked shows msg and clears it after the TTL unless a newer message
// replaced it first.
func (w *Workspace) notifyLocked(msg string) {
	if w.closed {
		return
	}
	w.noticeSeq++
	seq := w.noticeSeq
	n := Notification{ID: seq, Message: msg, CreatedAt: w.deps.Now().UTC()}
	w.notice = &n

	if w.timer != nil {
		w.timer.Stop()
	}
	w.timer = time.AfterFunc(w.deps.NotifyTTL, func() {
		w.mu.Lock()
		defer w.mu.Unlock()
		if !w.closed && w.notice != nil && w.notice.ID == seq {
			w.notice = nil
		}
	})

	if w.deps.Hub != nil {
		w.deps.Hub.Publish(w.SessionID, n)
	}
	log.WithFields(log.Fields{"session": w.SessionID, "message": msg}).Debug("admin notification")
}

func validateDraft(r models.Room) FieldErrors {
	fields := FieldErrors{}
	if strings.TrimSpace(r.Name) == "" {
		fields["name"] = "Name is required"
	}
	if r.Price <= 0 || math.IsNaN(r.Price) || math.IsInf(r.Price, 0) {
		fields["price"] = "Price must be a positive number"
	}
	if !r.Status.Valid() {
		fields["status"] = "Invalid status"
	}
	if strings.TrimSpace(r.Location) == "" {
		fields["location"] = "Location is required"
	}
	if len(fields) == 0 {
		return nil
	}
	return fields
}

func computeStats(rooms []models.Room) Stats {
	st := Stats{TotalRooms: len(rooms)}
	booked := 0
	for _, r := range rooms {
		switch r.Status {
		case models.RoomBooked:
			booked++
		case models.RoomAvailable:
			st.Available++
		}
	}
	if len(rooms) > 0 {
		st.Occupancy = int(math.Round(float64(booked) / float64(len(rooms)) * 100))
	}
	return st
}

func cloneRoomPtr(r *models.Room) *models.Room {
	if r == nil {
		return nil
	}
	c := r.Clone()
	return &c
}

// WorkspaceRegistry keeps one workspace per signed-in session.
type WorkspaceRegistry struct {
	deps WorkspaceDeps

	mu    sync.Mutex
	items map[string]*Workspace
}

func NewWorkspaceRegistry(deps WorkspaceDeps) *WorkspaceRegistry {
	return &WorkspaceRegistry{deps: deps, items: make(map[string]*Workspace)}
}

// Get returns the session's workspace, opening it on first use.
func (r *WorkspaceRegistry) Get(ctx context.Context, sessionID string) (*Workspace, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if w, ok := r.items[sessionID]; ok {
		return w, nil
	}
	w, err := NewWorkspace(ctx, sessionID, r.deps)
	if err != nil {
		return nil, err
	}
	r.items[sessionID] = w
	return w, nil
}

func (r *WorkspaceRegistry) Close(sessionID string) {
	r.mu.Lock()
	w, ok := r.items[sessionID]
	delete(r.items, sessionID)
	r.mu.Unlock()
	if ok {
		w.Close()
	}
}
