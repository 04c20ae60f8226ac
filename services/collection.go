package services

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"wiz-homes/store"
)

const (
	ThemeKey       = "theme"
	RoomsKey       = "wiz_rooms"
	BookingsKey    = "wiz_bookings"
	UsersKey       = "wiz_users"
	CurrentUserKey = "wiz_currentUser"
)

// readJSON decodes the value under key into dst. A value that does not parse
// is reported as errMalformed.
func readJSON(ctx context.Context, kv store.Store, key string, dst any) (bool, error) {
	raw, ok, err := kv.Get(ctx, key)
	if err != nil {
		return false, fmt.Errorf("read %s: %w", key, err)
	}
	if !ok {
		return false, nil
	}
	if err := json.Unmarshal([]byte(raw), dst); err != nil {
		return true, fmt.Errorf("%w under %s: %v", errMalformed, key, err)
	}
	return true, nil
}

func writeJSON(ctx context.Context, kv store.Store, key string, v any) error {
	b, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}
	if err := kv.Set(ctx, key, string(b)); err != nil {
		return fmt.Errorf("write %s: %w", key, err)
	}
	return nil
}

// sleep waits d, returning early with the context's error when it is done.
func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
