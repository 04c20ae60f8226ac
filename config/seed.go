package config

import "wiz-homes/models"

const unsplash = "https://images.unsplash.com/"

// DefaultRooms is written to wiz_rooms on first run, and again whenever the
// stored collection cannot be read back.
func DefaultRooms() []models.Room {
	return []models.Room{
		{
			ID:          "1",
			Name:        "The Obsidian Penthouse",
			Price:       450,
			Status:      models.RoomAvailable,
			Amenities:   []string{"Wifi", "Private Pool", "City View", "Smart Home", "Chef's Kitchen", "Gym Access"},
			ImageURL:    unsplash + "photo-1600596542815-ffad4c1539a9?auto=format&fit=crop&q=80&w=1200",
			Gallery:     []string{unsplash + "photo-1600596542815-ffad4c1539a9?auto=format&fit=crop&q=80&w=1200", unsplash + "photo-1600607687939-ce8a6c25118c?auto=format&fit=crop&q=80&w=1200"},
			Rating:      4.9,
			Location:    "Downtown Lagos",
			Description: "A top-floor residence wrapped in smoked glass with a private plunge pool and uninterrupted skyline views.",
		},
		{
			ID:          "2",
			Name:        "Crimson Loft Suite",
			Price:       280,
			Status:      models.RoomAvailable,
			Amenities:   []string{"Wifi", "Workspace", "Netflix", "Air Conditioning"},
			ImageURL:    unsplash + "photo-1502672260266-1c1ef2d93688?auto=format&fit=crop&q=80&w=1200",
			Rating:      4.7,
			Location:    "Victoria Island",
			Description: "Double-height loft with exposed concrete, a dedicated workspace and floor-to-ceiling windows.",
		},
		{
			ID:          "3",
			Name:        "Marble Garden Villa",
			Price:       620,
			Status:      models.RoomBooked,
			Amenities:   []string{"Wifi", "Garden", "Private Pool", "Parking", "Security"},
			ImageURL:    unsplash + "photo-1613490493576-7fde63acd811?auto=format&fit=crop&q=80&w=1200",
			Rating:      5.0,
			Location:    "Ikoyi",
			Description: "Four-bedroom villa set in a walled garden, finished in Carrara marble and warm oak.",
		},
		{
			ID:          "4",
			Name:        "Skyline Studio",
			Price:       150,
			Status:      models.RoomAvailable,
			Amenities:   []string{"Wifi", "Kitchenette", "Air Conditioning"},
			ImageURL:    unsplash + "photo-1522708323590-d24dbb6b0267?auto=format&fit=crop&q=80&w=1200",
			Rating:      4.5,
			Location:    "Lekki Phase 1",
			Description: "Compact studio for short stays with a skyline balcony and a fully equipped kitchenette.",
		},
		{
			ID:          "5",
			Name:        "Azure Waterfront Residence",
			Price:       390,
			Status:      models.RoomNotAvailable,
			Amenities:   []string{"Wifi", "Ocean View", "Jacuzzi", "Parking"},
			ImageURL:    unsplash + "photo-1512917774080-9991f1c4c750?auto=format&fit=crop&q=80&w=1200",
			Rating:      4.8,
			Location:    "Banana Island",
			Description: "Waterfront apartment with a wraparound terrace and an outdoor jacuzzi facing the lagoon.",
		},
		{
			ID:          "6",
			Name:        "Ivory Executive Apartment",
			Price:       220,
			Status:      models.RoomAvailable,
			Amenities:   []string{"Wifi", "Workspace", "Gym Access", "Concierge"},
			ImageURL:    unsplash + "photo-1560448204-e02f11c3d0e2?auto=format&fit=crop&q=80&w=1200",
			Rating:      4.6,
			Location:    "Ikeja GRA",
			Description: "Two-bedroom apartment built for business travel, with concierge service and a quiet study.",
		},
	}
}
