package services

import (
	"context"

	"wiz-homes/store"
)

const (
	ThemeLight = "light"
	ThemeDark  = "dark"
)

// SettingsService stores the theme preference as a bare string.
type SettingsService struct {
	KV store.Store
}

func NewSettingsService(kv store.Store) *SettingsService {
	return &SettingsService{KV: kv}
}

func (s *SettingsService) Theme(ctx context.Context) (string, error) {
	v, ok, err := s.KV.Get(ctx, ThemeKey)
	if err != nil {
		return "", err
	}
	if !ok || (v != ThemeLight && v != ThemeDark) {
		return ThemeLight, nil
	}
	return v, nil
}

func (s *SettingsService) SetTheme(ctx context.Context, theme string) error {
	if theme != ThemeLight && theme != ThemeDark {
		return ErrInvalidTheme
	}
	return s.KV.Set(ctx, ThemeKey, theme)
}
