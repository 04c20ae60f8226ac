package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"wiz-homes/services"
	"wiz-homes/utils"
)

type BookingController struct {
	Bookings *services.BookingService
}

func NewBookingController(svc *services.BookingService) *BookingController {
	return &BookingController{Bookings: svc}
}

// GET /api/bookings
func (bc *BookingController) GetBookings(c *gin.Context) {
	bookings, err := bc.Bookings.GetBookings(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, bookings)
}
