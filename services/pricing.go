package services

import (
	"math"
	"time"

	"wiz-homes/models"
)

const (
	ServiceFee  = 120.0
	CleaningFee = 45.0
	DateLayout  = "2006-01-02"
)

type Quote struct {
	Nights      int     `json:"nights"`
	NightlyRate float64 `json:"nightlyRate"`
	Subtotal    float64 `json:"subtotal"`
	ServiceFee  float64 `json:"serviceFee"`
	CleaningFee float64 `json:"cleaningFee"`
	Total       float64 `json:"total"`
}

// Nights counts whole days between two calendar dates in either order. The
// result is never below one, so equal or inverted dates still price a night.
func Nights(checkIn, checkOut string) (int, error) {
	fields := FieldErrors{}
	in, err := time.Parse(DateLayout, checkIn)
	if err != nil {
		fields["checkIn"] = "Please enter a valid check-in date"
	}
	out, err := time.Parse(DateLayout, checkOut)
	if err != nil {
		fields["checkOut"] = "Please enter a valid check-out date"
	}
	if len(fields) > 0 {
		return 0, fields
	}

	days := int(math.Ceil(math.Abs(out.Sub(in).Hours()) / 24))
	if days < 1 {
		days = 1
	}
	return days, nil
}

func QuoteStay(room models.Room, checkIn, checkOut string) (Quote, error) {
	nights, err := Nights(checkIn, checkOut)
	if err != nil {
		return Quote{}, err
	}
	subtotal := room.Price * float64(nights)
	return Quote{
		Nights:      nights,
		NightlyRate: room.Price,
		Subtotal:    subtotal,
		ServiceFee:  ServiceFee,
		CleaningFee: CleaningFee,
		Total:       subtotal + ServiceFee + CleaningFee,
	}, nil
}
