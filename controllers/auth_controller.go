package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"wiz-homes/middleware"
	"wiz-homes/services"
	"wiz-homes/utils"
)

type loginPayload struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type AuthController struct {
	Gate *services.AuthGate
}

func NewAuthController(gate *services.AuthGate) *AuthController {
	return &AuthController{Gate: gate}
}

// POST /api/auth/login
func (ac *AuthController) Login(c *gin.Context) {
	var payload loginPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		badPayload(c, err)
		return
	}
	res, err := ac.Gate.Login(c.Request.Context(), payload.Email, payload.Password)
	if err != nil {
		respondError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, res)
}

// POST /api/auth/signup
func (ac *AuthController) Signup(c *gin.Context) {
	var form services.SignupForm
	if err := c.ShouldBindJSON(&form); err != nil {
		badPayload(c, err)
		return
	}
	res, err := ac.Gate.Signup(c.Request.Context(), form)
	if err != nil {
		respondError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusCreated, res)
}

// POST /api/auth/logout
func (ac *AuthController) Logout(c *gin.Context) {
	sess := middleware.CurrentSession(c)
	redirect := ac.Gate.SignOut(c.Request.Context(), sess.ID)
	utils.JSONSuccess(c, http.StatusOK, gin.H{"redirect": redirect})
}

// GET /api/auth/me
func (ac *AuthController) Me(c *gin.Context) {
	sess := middleware.CurrentSession(c)
	current, err := ac.Gate.Users.CurrentUser(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, gin.H{"session": sess, "currentUser": current})
}

// GET /api/routes/resolve?path=
func (ac *AuthController) ResolveRoute(c *gin.Context) {
	authenticated := middleware.CurrentSession(c) != nil
	target := services.ResolveRoute(c.Query("path"), authenticated)
	utils.JSONSuccess(c, http.StatusOK, gin.H{
		"path":          target,
		"authenticated": authenticated,
	})
}
