package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"wiz-homes/services"
	"wiz-homes/utils"
)

type themePayload struct {
	Theme string `json:"theme" binding:"required"`
}

type SettingsController struct {
	Settings *services.SettingsService
}

func NewSettingsController(svc *services.SettingsService) *SettingsController {
	return &SettingsController{Settings: svc}
}

func (sc *SettingsController) GetTheme(c *gin.Context) {
	theme, err := sc.Settings.Theme(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, gin.H{"theme": theme})
}

func (sc *SettingsController) UpdateTheme(c *gin.Context) {
	var payload themePayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		badPayload(c, err)
		return
	}
	if err := sc.Settings.SetTheme(c.Request.Context(), payload.Theme); err != nil {
		respondError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, gin.H{"theme": payload.Theme})
}
