package services

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"wiz-homes/models"
	"wiz-homes/utils"
)

const (
	RedirectAdmin  = "/admin"
	RedirectRooms  = "/rooms"
	RedirectPublic = "/"

	msgMissingCredentials = "Please enter email and password"
	msgInvalidCredentials = "Invalid email or password"
)

// Session is one authenticated browser. It lives from a successful login or
// signup until SignOut or expiry.
type Session struct {
	ID        string             `json:"id"`
	User      models.CurrentUser `json:"user"`
	IsAdmin   bool               `json:"isAdmin"`
	CreatedAt time.Time          `json:"createdAt"`
	ExpiresAt time.Time          `json:"expiresAt"`
}

type AuthResult struct {
	Session  *Session `json:"session"`
	Token    string   `json:"token"`
	Redirect string   `json:"redirect"`
}

type SignupForm struct {
	FullName        string `json:"fullName" validate:"required"`
	Email           string `json:"email" validate:"required,email"`
	Password        string `json:"password" validate:"required,min=6"`
	ConfirmPassword string `json:"confirmPassword" validate:"eqfield=Password"`
}

var signupMessages = map[string]map[string]string{
	"FullName":        {"required": "Full name is required"},
	"Email":           {"required": "Email is required", "email": "Please enter a valid email"},
	"Password":        {"required": "Password is required", "min": "Password must be at least 6 characters"},
	"ConfirmPassword": {"eqfield": "Passwords do not match"},
}

var signupFields = map[string]string{
	"FullName":        "fullName",
	"Email":           "email",
	"Password":        "password",
	"ConfirmPassword": "confirmPassword",
}

type AuthConfig struct {
	Secret        string
	SessionTTL    time.Duration
	BcryptCost    int
	AdminEmail    string
	AdminPassword string
	LoginDelay    time.Duration
	SignupDelay   time.Duration
}

// AuthGate decides whether a request may see the admin area.
type AuthGate struct {
	Users    *UserService
	cfg      AuthConfig
	validate *validator.Validate

	mu        sync.RWMutex
	sessions  map[string]*Session
	onSignOut []func(sessionID string)
}

func NewAuthGate(users *UserService, cfg AuthConfig) *AuthGate {
	if cfg.SessionTTL <= 0 {
		cfg.SessionTTL = 12 * time.Hour
	}
	return &AuthGate{
		Users:    users,
		cfg:      cfg,
		validate: validator.New(),
		sessions: make(map[string]*Session),
	}
}

// OnSignOut registers a hook run for a session before it is removed.
func (g *AuthGate) OnSignOut(fn func(sessionID string)) {
	g.mu.Lock()
	g.onSignOut = append(g.onSignOut, fn)
	g.mu.Unlock()
}

func (g *AuthGate) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		return nil, FieldErrors{"form": msgMissingCredentials}
	}

	if err := sleep(ctx, g.cfg.LoginDelay); err != nil {
		return nil, err
	}

	if email == g.cfg.AdminEmail && password == g.cfg.AdminPassword {
		admin := true
		res, err := g.open(models.CurrentUser{Name: "Admin", Email: email, IsAdmin: &admin}, true, RedirectAdmin)
		if err == nil {
			log.WithField("session", res.Session.ID).Info("operator signed in")
		}
		return res, err
	}

	user, found, err := g.Users.FindByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	ok, upgrade := false, false
	if found {
		ok, upgrade = utils.VerifyPassword(user.Password, password)
	}
	if !ok {
		log.WithField("email", utils.MaskEmail(email)).Info("login rejected")
		return nil, ErrInvalidCredentials
	}

	if upgrade {
		if hash, err := utils.HashPassword(password, g.cfg.BcryptCost); err == nil {
			user.Password = hash
			if err := g.Users.Replace(ctx, user); err != nil {
				log.WithError(err).Warn("could not upgrade stored password")
			}
		}
	}

	notAdmin := false
	cu := models.CurrentUser{ID: user.ID, Name: user.Name, Email: user.Email, IsAdmin: &notAdmin}
	if err := g.Users.SetCurrentUser(ctx, cu); err != nil {
		return nil, err
	}
	return g.open(cu, false, RedirectRooms)
}

// Signup validates the form, registers the user and signs them in.
func (g *AuthGate) Signup(ctx context.Context, form SignupForm) (*AuthResult, error) {
	form.FullName = strings.TrimSpace(form.FullName)
	form.Email = strings.TrimSpace(form.Email)
	if fields := g.validateSignup(form); len(fields) > 0 {
		return nil, fields
	}

	if err := sleep(ctx, g.cfg.SignupDelay); err != nil {
		return nil, err
	}

	user, err := g.Users.Register(ctx, form.FullName, form.Email, form.Password, g.cfg.BcryptCost)
	if err != nil {
		return nil, err
	}

	cu := models.CurrentUser{ID: user.ID, Name: user.Name, Email: user.Email}
	if err := g.Users.SetCurrentUser(ctx, cu); err != nil {
		return nil, err
	}
	log.WithFields(log.Fields{"user": user.ID, "email": utils.MaskEmail(user.Email)}).Info("user registered")
	return g.open(cu, false, RedirectAdmin)
}

func (g *AuthGate) validateSignup(form SignupForm) FieldErrors {
	err := g.validate.Struct(form)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return FieldErrors{"form": err.Error()}
	}
	fields := FieldErrors{}
	for _, fe := range verrs {
		name := signupFields[fe.StructField()]
		if _, set := fields[name]; set {
			continue
		}
		msg := signupMessages[fe.StructField()][fe.Tag()]
		if msg == "" {
			msg = "Invalid value"
		}
		fields[name] = msg
	}
	return fields
}

func (g *AuthGate) open(user models.CurrentUser, isAdmin bool, redirect string) (*AuthResult, error) {
	now := time.Now().UTC()
	sess := &Session{
		ID:        uuid.NewString(),
		User:      user,
		IsAdmin:   isAdmin,
		CreatedAt: now,
	}
	token, exp, err := utils.NewSessionToken(g.cfg.Secret, sess.ID, user.Email, user.Name, isAdmin, g.cfg.SessionTTL)
	if err != nil {
		return nil, err
	}
	sess.ExpiresAt = exp

	g.mu.Lock()
	g.sessions[sess.ID] = sess
	g.mu.Unlock()
	return &AuthResult{Session: sess, Token: token, Redirect: redirect}, nil
}

// Authenticate resolves a bearer token to a live session.
func (g *AuthGate) Authenticate(token string) (*Session, error) {
	claims, err := utils.ParseSessionToken(g.cfg.Secret, token)
	if errors.Is(err, utils.ErrTokenExpired) {
		g.expire(claims.ID)
		return nil, ErrSessionNotFound
	}
	if err != nil {
		return nil, ErrSessionNotFound
	}
	g.mu.RLock()
	sess, ok := g.sessions[claims.ID]
	g.mu.RUnlock()
	if !ok {
		return nil, ErrSessionNotFound
	}
	if time.Now().After(sess.ExpiresAt) {
		g.expire(claims.ID)
		return nil, ErrSessionNotFound
	}
	return sess, nil
}

func (g *AuthGate) IsAuthenticated(sessionID string) bool {
	g.mu.RLock()
	defer g.mu.RUnlock()
	sess, ok := g.sessions[sessionID]
	return ok && !time.Now().After(sess.ExpiresAt)
}

// Sweep removes every session that expired before now and runs the sign-out
// hooks for it. It returns the number of sessions removed.
func (g *AuthGate) Sweep(now time.Time) int {
	g.mu.RLock()
	var expired []string
	for id, sess := range g.sessions {
		if now.After(sess.ExpiresAt) {
			expired = append(expired, id)
		}
	}
	g.mu.RUnlock()
	for _, id := range expired {
		g.expire(id)
	}
	return len(expired)
}

// RunSweeper calls Sweep every interval until ctx is done.
func (g *AuthGate) RunSweeper(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = time.Minute
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			if n := g.Sweep(now); n > 0 {
				log.WithField("count", n).Info("expired sessions removed")
			}
		}
	}
}

// expire tears down a timed-out session. The shared current-user record is
// left alone since a newer session may own it.
func (g *AuthGate) expire(sessionID string) {
	g.mu.Lock()
	_, ok := g.sessions[sessionID]
	delete(g.sessions, sessionID)
	hooks := append([]func(string){}, g.onSignOut...)
	g.mu.Unlock()
	if !ok {
		return
	}
	for _, fn := range hooks {
		fn(sessionID)
	}
	log.WithField("session", sessionID).Info("session expired")
}

// SignOut moves the caller to the public route before tearing the session
// down, so no protected view is ever resolved without authorization.
func (g *AuthGate) SignOut(ctx context.Context, sessionID string) string {
	redirect := RedirectPublic

	g.mu.RLock()
	hooks := append([]func(string){}, g.onSignOut...)
	g.mu.RUnlock()
	for _, fn := range hooks {
		fn(sessionID)
	}

	if err := g.Users.ClearCurrentUser(ctx); err != nil {
		log.WithError(err).Warn("could not clear current user")
	}

	g.mu.Lock()
	delete(g.sessions, sessionID)
	g.mu.Unlock()
	log.WithField("session", sessionID).Info("signed out")
	return redirect
}
