package controllers

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"

	"wiz-homes/services"
	"wiz-homes/utils"
)

// respondError maps service errors onto HTTP statuses.
func respondError(c *gin.Context, err error) {
	var fields services.FieldErrors
	if errors.As(err, &fields) {
		utils.JSONFieldErrors(c, http.StatusUnprocessableEntity, fields)
		return
	}

	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, services.ErrRoomNotFound),
		errors.Is(err, services.ErrBookingNotFound):
		status = http.StatusNotFound
	case errors.Is(err, services.ErrInvalidCredentials):
		utils.JSONError(c, http.StatusUnauthorized, "Invalid email or password")
		return
	case errors.Is(err, services.ErrSessionNotFound):
		status = http.StatusUnauthorized
	case errors.Is(err, services.ErrRoomUnavailable),
		errors.Is(err, services.ErrNoEditInProgress),
		errors.Is(err, services.ErrNoStatusTarget),
		errors.Is(err, services.ErrDuplicateImage),
		errors.Is(err, services.ErrWorkspaceClosed):
		status = http.StatusConflict
	case errors.Is(err, services.ErrInvalidTab),
		errors.Is(err, services.ErrInvalidStatus),
		errors.Is(err, services.ErrInvalidTheme),
		errors.Is(err, services.ErrGalleryIndex),
		errors.Is(err, services.ErrNotAnImage):
		status = http.StatusBadRequest
	case errors.Is(err, context.Canceled),
		errors.Is(err, context.DeadlineExceeded):
		status = http.StatusRequestTimeout
	}

	if status == http.StatusInternalServerError {
		log.WithError(err).WithField("path", c.Request.URL.Path).Error("request failed")
		utils.JSONError(c, status, "internal error")
		return
	}
	utils.JSONError(c, status, err.Error())
}

func badPayload(c *gin.Context, err error) {
	utils.JSONError(c, http.StatusBadRequest, "invalid payload: "+err.Error())
}
