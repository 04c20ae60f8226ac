package models

import "time"

// User is a signup record stored under wiz_users.
type User struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Password  string    `json:"password"` // bcrypt hash; older records may hold plaintext
	CreatedAt time.Time `json:"createdAt"`
}

// CurrentUser is the signed-in profile stored under wiz_currentUser.
type CurrentUser struct {
	ID      string `json:"id,omitempty"`
	Name    string `json:"name"`
	Email   string `json:"email"`
	IsAdmin *bool  `json:"isAdmin,omitempty"`
}
