package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"wiz-homes/services"
	"wiz-homes/utils"
)

// RoomController serves the public rooms pages and guest reservations.
type RoomController struct {
	Rooms    *services.RoomService
	Bookings *services.BookingService
}

func NewRoomController(rooms *services.RoomService, bookings *services.BookingService) *RoomController {
	return &RoomController{Rooms: rooms, Bookings: bookings}
}

// GET /api/rooms?filter=&sort=
func (rc *RoomController) ListRooms(c *gin.Context) {
	rooms, err := rc.Rooms.ListRooms(c.Request.Context(), c.Query("filter"), c.Query("sort"))
	if err != nil {
		respondError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, rooms)
}

// GET /api/rooms/featured
func (rc *RoomController) FeaturedRooms(c *gin.Context) {
	rooms, err := rc.Rooms.Featured(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, rooms)
}

// GET /api/rooms/:id
func (rc *RoomController) GetRoom(c *gin.Context) {
	room, err := rc.Rooms.FindRoom(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, room)
}

// GET /api/rooms/:id/quote?checkIn=&checkOut=
func (rc *RoomController) QuoteRoom(c *gin.Context) {
	room, err := rc.Rooms.FindRoom(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	quote, err := services.QuoteStay(room, c.Query("checkIn"), c.Query("checkOut"))
	if err != nil {
		respondError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, quote)
}

// POST /api/rooms/:id/reserve
func (rc *RoomController) ReserveRoom(c *gin.Context) {
	var req services.ReservationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badPayload(c, err)
		return
	}
	ctx := c.Request.Context()
	room, err := rc.Rooms.FindRoom(ctx, c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	booking, quote, err := rc.Bookings.Reserve(ctx, room, req)
	if err != nil {
		respondError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusCreated, gin.H{"booking": booking, "quote": quote})
}
