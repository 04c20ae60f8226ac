package services

import (
	"context"
	"errors"
	"fmt"
	"sort"

	log "github.com/sirupsen/logrus"

	"wiz-homes/models"
	"wiz-homes/store"
)

// Listing filters and sort orders offered on the public rooms page.
const (
	FilterAll           = "All"
	FilterAllApartments = "All Apartments"
	FilterAvailable     = "Available"
	FilterLuxe          = "Luxe"

	SortRecommended = "Recommended"
	SortPriceAsc    = "Price: Low to High"
	SortPriceDesc   = "Price: High to Low"
	SortRating      = "Rating"

	luxeThreshold = 300
	featuredCount = 4
)

// RoomService loads and persists the whole room collection under wiz_rooms.
type RoomService struct {
	KV   store.Store
	Seed func() []models.Room
}

func NewRoomService(kv store.Store, seed func() []models.Room) *RoomService {
	return &RoomService{KV: kv, Seed: seed}
}

// GetRooms returns the stored rooms, seeding them when the key is absent or
// its content cannot be trusted.
func (s *RoomService) GetRooms(ctx context.Context) ([]models.Room, error) {
	var rooms []models.Room
	found, err := readJSON(ctx, s.KV, RoomsKey, &rooms)
	switch {
	case errors.Is(err, errMalformed):
		log.WithError(err).Warn("stored rooms are corrupt, restoring seed data")
		return s.reseed(ctx)
	case err != nil:
		return nil, err
	case !found:
		return s.reseed(ctx)
	}

	if err := validateRooms(rooms); err != nil {
		log.WithError(err).Warn("stored rooms failed validation, restoring seed data")
		return s.reseed(ctx)
	}
	if rooms == nil {
		rooms = []models.Room{}
	}
	return rooms, nil
}

// SaveRooms overwrites the entire collection.
func (s *RoomService) SaveRooms(ctx context.Context, rooms []models.Room) error {
	if rooms == nil {
		rooms = []models.Room{}
	}
	return writeJSON(ctx, s.KV, RoomsKey, rooms)
}

// Reset discards the stored collection and writes the seed list.
func (s *RoomService) Reset(ctx context.Context) ([]models.Room, error) {
	return s.reseed(ctx)
}

func (s *RoomService) FindRoom(ctx context.Context, id string) (models.Room, error) {
	rooms, err := s.GetRooms(ctx)
	if err != nil {
		return models.Room{}, err
	}
	for _, r := range rooms {
		if r.ID == id {
			return r, nil
		}
	}
	return models.Room{}, ErrRoomNotFound
}

// ListRooms applies a listing filter and sort order. Unknown values fall back
// to showing everything in stored order.
func (s *RoomService) ListRooms(ctx context.Context, filter, order string) ([]models.Room, error) {
	rooms, err := s.GetRooms(ctx)
	if err != nil {
		return nil, err
	}

	out := make([]models.Room, 0, len(rooms))
	for _, r := range rooms {
		switch filter {
		case FilterAvailable:
			if r.Status != models.RoomAvailable {
				continue
			}
		case FilterLuxe:
			if r.Price <= luxeThreshold {
				continue
			}
		}
		out = append(out, r)
	}

	switch order {
	case SortPriceAsc:
		sort.SliceStable(out, func(i, j int) bool { return out[i].Price < out[j].Price })
	case SortPriceDesc:
		sort.SliceStable(out, func(i, j int) bool { return out[i].Price > out[j].Price })
	case SortRating:
		sort.SliceStable(out, func(i, j int) bool { return out[i].Rating > out[j].Rating })
	}
	return out, nil
}

// Featured returns the first rooms in stored order for the home page.
func (s *RoomService) Featured(ctx context.Context) ([]models.Room, error) {
	rooms, err := s.GetRooms(ctx)
	if err != nil {
		return nil, err
	}
	if len(rooms) > featuredCount {
		rooms = rooms[:featuredCount]
	}
	return rooms, nil
}

func (s *RoomService) reseed(ctx context.Context) ([]models.Room, error) {
	rooms := []models.Room{}
	if s.Seed != nil {
		rooms = s.Seed()
	}
	if err := s.SaveRooms(ctx, rooms); err != nil {
		return nil, err
	}
	log.WithField("count", len(rooms)).Info("room inventory seeded")
	return rooms, nil
}

func validateRooms(rooms []models.Room) error {
	seen := make(map[string]struct{}, len(rooms))
	for i, r := range rooms {
		if r.ID == "" {
			return fmt.Errorf("room %d has no id", i)
		}
		if _, dup := seen[r.ID]; dup {
			return fmt.Errorf("duplicate room id %q", r.ID)
		}
		seen[r.ID] = struct{}{}
		if !r.Status.Valid() {
			return fmt.Errorf("room %q has invalid status %q", r.ID, r.Status)
		}
	}
	return nil
}
