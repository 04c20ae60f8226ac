package services

import (
	"errors"
	"sort"
	"strings"
)

var (
	ErrRoomNotFound       = errors.New("room_not_found")
	ErrBookingNotFound    = errors.New("booking_not_found")
	ErrRoomUnavailable    = errors.New("room_unavailable")
	ErrInvalidCredentials = errors.New("invalid_credentials")
	ErrSessionNotFound    = errors.New("session_not_found")
	ErrInvalidTab         = errors.New("invalid_tab")
	ErrInvalidStatus      = errors.New("invalid_status")
	ErrInvalidTheme       = errors.New("invalid_theme")
	ErrNoEditInProgress   = errors.New("no_edit_in_progress")
	ErrNoStatusTarget     = errors.New("no_status_change_in_progress")
	ErrDuplicateImage     = errors.New("image_already_in_gallery")
	ErrGalleryIndex       = errors.New("gallery_index_out_of_range")
	ErrNotAnImage         = errors.New("not_an_image")
	ErrWorkspaceClosed    = errors.New("workspace_closed")

	errMalformed = errors.New("malformed stored value")
)

// FieldErrors carries per-field validation messages for a submitted form.
type FieldErrors map[string]string

func (e FieldErrors) Error() string {
	keys := make([]string, 0, len(e))
	for k := range e {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+e[k])
	}
	return "validation failed: " + strings.Join(parts, "; ")
}
