package controllers

import (
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"wiz-homes/middleware"
	"wiz-homes/models"
	"wiz-homes/services"
	"wiz-homes/utils"
)

const maxUploadBytes = 10<<20 + 1

type tabPayload struct {
	Tab services.Tab `json:"tab" binding:"required"`
}

type statusPayload struct {
	Status models.RoomStatus `json:"status" binding:"required"`
}

type galleryURLPayload struct {
	URL string `json:"url"`
}

type dataURLPayload struct {
	DataURL string `json:"dataUrl" binding:"required"`
}

// AdminController exposes the per-session admin workspace.
type AdminController struct {
	Registry *services.WorkspaceRegistry
}

func NewAdminController(registry *services.WorkspaceRegistry) *AdminController {
	return &AdminController{Registry: registry}
}

func (ac *AdminController) workspace(c *gin.Context) (*services.Workspace, bool) {
	sess := middleware.CurrentSession(c)
	if sess == nil {
		utils.JSONError(c, http.StatusUnauthorized, "authentication required")
		return nil, false
	}
	ws, err := ac.Registry.Get(c.Request.Context(), sess.ID)
	if err != nil {
		respondError(c, err)
		return nil, false
	}
	return ws, true
}

// confirmer approves a destructive action only when the client sent
// ?confirm=true after showing the prompt.
func confirmer(c *gin.Context) services.Confirmer {
	approved, _ := strconv.ParseBool(c.Query("confirm"))
	return func(string) bool { return approved }
}

func confirmationRequired(c *gin.Context, prompt string) {
	c.JSON(http.StatusConflict, gin.H{
		"success": false,
		"error":   "confirmation required",
		"prompt":  prompt,
	})
}

// GET /api/admin/workspace
func (ac *AdminController) GetWorkspace(c *gin.Context) {
	ws, ok := ac.workspace(c)
	if !ok {
		return
	}
	utils.JSONSuccess(c, http.StatusOK, ws.Snapshot())
}

// GET /api/admin/dashboard
func (ac *AdminController) Dashboard(c *gin.Context) {
	ws, ok := ac.workspace(c)
	if !ok {
		return
	}
	recent, err := ws.RefreshBookings(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	if len(recent) > 5 {
		recent = recent[len(recent)-5:]
	}
	utils.JSONSuccess(c, http.StatusOK, gin.H{"stats": ws.Stats(), "recentBookings": recent})
}

// PUT /api/admin/tab
func (ac *AdminController) SetTab(c *gin.Context) {
	var payload tabPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		badPayload(c, err)
		return
	}
	ws, ok := ac.workspace(c)
	if !ok {
		return
	}
	if err := ws.SetTab(c.Request.Context(), payload.Tab); err != nil {
		respondError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, ws.Snapshot())
}

// POST /api/admin/records
func (ac *AdminController) AddRecord(c *gin.Context) {
	ws, ok := ac.workspace(c)
	if !ok {
		return
	}
	draft, err := ws.AddRecord()
	if err != nil {
		respondError(c, err)
		return
	}
	if draft == nil {
		utils.JSONSuccess(c, http.StatusOK, gin.H{"editing": nil, "notification": ws.Notification()})
		return
	}
	utils.JSONSuccess(c, http.StatusCreated, gin.H{"editing": draft})
}

// POST /api/admin/rooms/:id/edit
func (ac *AdminController) BeginEdit(c *gin.Context) {
	ws, ok := ac.workspace(c)
	if !ok {
		return
	}
	draft, err := ws.BeginEdit(c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, gin.H{"editing": draft})
}

// PATCH /api/admin/editing
func (ac *AdminController) UpdateDraft(c *gin.Context) {
	var patch services.RoomPatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		badPayload(c, err)
		return
	}
	ws, ok := ac.workspace(c)
	if !ok {
		return
	}
	draft, err := ws.UpdateDraft(patch)
	if err != nil {
		respondError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, gin.H{"editing": draft})
}

// DELETE /api/admin/editing
func (ac *AdminController) CancelEdit(c *gin.Context) {
	ws, ok := ac.workspace(c)
	if !ok {
		return
	}
	ws.CancelEdit()
	c.Status(http.StatusNoContent)
}

// POST /api/admin/editing/submit
func (ac *AdminController) SubmitEdit(c *gin.Context) {
	ws, ok := ac.workspace(c)
	if !ok {
		return
	}
	room, err := ws.SubmitEdit(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, gin.H{"room": room, "notification": ws.Notification()})
}

// POST /api/admin/editing/gallery
func (ac *AdminController) AddGalleryURL(c *gin.Context) {
	var payload galleryURLPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		badPayload(c, err)
		return
	}
	ws, ok := ac.workspace(c)
	if !ok {
		return
	}
	draft, err := ws.AddGalleryURL(payload.URL)
	if err != nil {
		respondError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, gin.H{"editing": draft})
}

// POST /api/admin/editing/gallery/upload
func (ac *AdminController) UploadGalleryImage(c *gin.Context) {
	data, err := readImage(c)
	if err != nil {
		badPayload(c, err)
		return
	}
	ws, ok := ac.workspace(c)
	if !ok {
		return
	}
	draft, err := ws.UploadGalleryImage(data)
	if err != nil {
		respondError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, gin.H{"editing": draft})
}

// DELETE /api/admin/editing/gallery/:index
func (ac *AdminController) RemoveGalleryImage(c *gin.Context) {
	index, err := strconv.Atoi(c.Param("index"))
	if err != nil {
		utils.JSONError(c, http.StatusBadRequest, "index must be an integer")
		return
	}
	ws, ok := ac.workspace(c)
	if !ok {
		return
	}
	draft, err := ws.RemoveGalleryImage(index)
	if err != nil {
		respondError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, gin.H{"editing": draft})
}

// POST /api/admin/editing/image
func (ac *AdminController) ReplacePrimaryImage(c *gin.Context) {
	data, err := readImage(c)
	if err != nil {
		badPayload(c, err)
		return
	}
	ws, ok := ac.workspace(c)
	if !ok {
		return
	}
	draft, err := ws.ReplacePrimaryImage(data)
	if err != nil {
		respondError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, gin.H{"editing": draft})
}

// POST /api/admin/rooms/:id/view
func (ac *AdminController) BeginView(c *gin.Context) {
	ws, ok := ac.workspace(c)
	if !ok {
		return
	}
	room, err := ws.BeginView(c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, gin.H{"viewing": room})
}

// DELETE /api/admin/viewing
func (ac *AdminController) CloseView(c *gin.Context) {
	ws, ok := ac.workspace(c)
	if !ok {
		return
	}
	ws.CloseView()
	c.Status(http.StatusNoContent)
}

// POST /api/admin/rooms/:id/status
func (ac *AdminController) BeginStatusChange(c *gin.Context) {
	ws, ok := ac.workspace(c)
	if !ok {
		return
	}
	room, err := ws.BeginStatusChange(c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, gin.H{"statusTarget": room})
}

// PUT /api/admin/status
func (ac *AdminController) ChangeStatus(c *gin.Context) {
	var payload statusPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		badPayload(c, err)
		return
	}
	ws, ok := ac.workspace(c)
	if !ok {
		return
	}
	if err := ws.ChangeStatus(c.Request.Context(), payload.Status); err != nil {
		respondError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, ws.Snapshot())
}

// DELETE /api/admin/status
func (ac *AdminController) CancelStatusChange(c *gin.Context) {
	ws, ok := ac.workspace(c)
	if !ok {
		return
	}
	ws.CancelStatusChange()
	c.Status(http.StatusNoContent)
}

// DELETE /api/admin/rooms/:id?confirm=true
func (ac *AdminController) DeleteRoom(c *gin.Context) {
	ws, ok := ac.workspace(c)
	if !ok {
		return
	}
	deleted, err := ws.DeleteRoom(c.Request.Context(), c.Param("id"), confirmer(c))
	if err != nil {
		respondError(c, err)
		return
	}
	if !deleted {
		confirmationRequired(c, services.RoomDeletePrompt)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, ws.Snapshot())
}

// DELETE /api/admin/bookings/:id?confirm=true
func (ac *AdminController) DeleteBooking(c *gin.Context) {
	ws, ok := ac.workspace(c)
	if !ok {
		return
	}
	deleted, err := ws.DeleteBooking(c.Request.Context(), c.Param("id"), confirmer(c))
	if err != nil {
		respondError(c, err)
		return
	}
	if !deleted {
		confirmationRequired(c, services.BookingDeletePrompt)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, ws.Snapshot())
}

// DELETE /api/admin/notification
func (ac *AdminController) DismissNotification(c *gin.Context) {
	ws, ok := ac.workspace(c)
	if !ok {
		return
	}
	ws.DismissNotification()
	c.Status(http.StatusNoContent)
}

// readImage accepts a multipart "file" field or a JSON body carrying a data URL.
func readImage(c *gin.Context) ([]byte, error) {
	if strings.HasPrefix(c.ContentType(), "multipart/") {
		fh, err := c.FormFile("file")
		if err != nil {
			return nil, err
		}
		f, err := fh.Open()
		if err != nil {
			return nil, err
		}
		defer f.Close()
		data, err := io.ReadAll(io.LimitReader(f, maxUploadBytes))
		if err != nil {
			return nil, fmt.Errorf("read upload: %w", err)
		}
		return data, nil
	}

	var payload dataURLPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		return nil, err
	}
	return services.DecodeDataURL(payload.DataURL)
}
