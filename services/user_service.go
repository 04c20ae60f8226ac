package services

import (
	"context"
	"errors"
	"time"

	log "github.com/sirupsen/logrus"

	"wiz-homes/models"
	"wiz-homes/store"
	"wiz-homes/utils"
)

// UserService owns wiz_users and wiz_currentUser.
type UserService struct {
	KV store.Store
}

func NewUserService(kv store.Store) *UserService {
	return &UserService{KV: kv}
}

func (s *UserService) GetUsers(ctx context.Context) ([]models.User, error) {
	var users []models.User
	_, err := readJSON(ctx, s.KV, UsersKey, &users)
	if errors.Is(err, errMalformed) {
		// Unlike rooms there is nothing to restore; keep the bytes for an
		// operator and refuse to overwrite them.
		log.WithError(err).Error("stored users are corrupt")
		return nil, err
	}
	if err != nil {
		return nil, err
	}
	if users == nil {
		users = []models.User{}
	}
	return users, nil
}

func (s *UserService) SaveUsers(ctx context.Context, users []models.User) error {
	if users == nil {
		users = []models.User{}
	}
	return writeJSON(ctx, s.KV, UsersKey, users)
}

// FindByEmail matches emails exactly, as signup stored them.
func (s *UserService) FindByEmail(ctx context.Context, email string) (models.User, bool, error) {
	users, err := s.GetUsers(ctx)
	if err != nil {
		return models.User{}, false, err
	}
	for _, u := range users {
		if u.Email == email {
			return u, true, nil
		}
	}
	return models.User{}, false, nil
}

func (s *UserService) Add(ctx context.Context, u models.User) error {
	users, err := s.GetUsers(ctx)
	if err != nil {
		return err
	}
	return s.SaveUsers(ctx, append(users, u))
}

// Replace swaps the user with the same id.
func (s *UserService) Replace(ctx context.Context, u models.User) error {
	users, err := s.GetUsers(ctx)
	if err != nil {
		return err
	}
	for i := range users {
		if users[i].ID == u.ID {
			users[i] = u
			return s.SaveUsers(ctx, users)
		}
	}
	return errors.New("user_not_found")
}

// Register adds a user with a hashed password. The email must not be taken.
func (s *UserService) Register(ctx context.Context, name, email, password string, cost int) (models.User, error) {
	users, err := s.GetUsers(ctx)
	if err != nil {
		return models.User{}, err
	}
	for _, u := range users {
		if u.Email == email {
			return models.User{}, FieldErrors{"email": "Email already registered"}
		}
	}
	id, err := uniqueID("U", func(candidate string) bool {
		for _, u := range users {
			if u.ID == candidate {
				return true
			}
		}
		return false
	})
	if err != nil {
		return models.User{}, err
	}
	hash, err := utils.HashPassword(password, cost)
	if err != nil {
		return models.User{}, err
	}
	user := models.User{
		ID:        id,
		Name:      name,
		Email:     email,
		Password:  hash,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.SaveUsers(ctx, append(users, user)); err != nil {
		return models.User{}, err
	}
	return user, nil
}

func (s *UserService) CurrentUser(ctx context.Context) (*models.CurrentUser, error) {
	var cu models.CurrentUser
	found, err := readJSON(ctx, s.KV, CurrentUserKey, &cu)
	if errors.Is(err, errMalformed) {
		log.WithError(err).Warn("stored current user is corrupt, clearing")
		return nil, s.ClearCurrentUser(ctx)
	}
	if err != nil || !found {
		return nil, err
	}
	return &cu, nil
}

func (s *UserService) SetCurrentUser(ctx context.Context, cu models.CurrentUser) error {
	return writeJSON(ctx, s.KV, CurrentUserKey, cu)
}

func (s *UserService) ClearCurrentUser(ctx context.Context) error {
	return s.KV.Delete(ctx, CurrentUserKey)
}
