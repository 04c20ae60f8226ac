package models

// RoomStatus governs whether a unit can be reserved.
type RoomStatus string

const (
	RoomAvailable    RoomStatus = "Available"
	RoomBooked       RoomStatus = "Booked"
	RoomNotAvailable RoomStatus = "Not Available"
)

var roomStatuses = []RoomStatus{RoomAvailable, RoomBooked, RoomNotAvailable}

func (s RoomStatus) Valid() bool {
	for _, st := range roomStatuses {
		if s == st {
			return true
		}
	}
	return false
}

// Room is a rentable unit as stored under the wiz_rooms key.
type Room struct {
	ID          string     `json:"id"`
	Name        string     `json:"name"`
	Price       float64    `json:"price"`
	Status      RoomStatus `json:"status"`
	Amenities   []string   `json:"amenities"`
	ImageURL    string     `json:"imageUrl"`
	Gallery     []string   `json:"gallery,omitempty"`
	Rating      float64    `json:"rating"`
	Location    string     `json:"location"`
	Description string     `json:"description"`
}

// Clone returns a copy that shares no slices with r.
func (r Room) Clone() Room {
	out := r
	if r.Amenities != nil {
		out.Amenities = append([]string(nil), r.Amenities...)
	}
	if r.Gallery != nil {
		out.Gallery = append([]string(nil), r.Gallery...)
	}
	return out
}
