package services

import (
	"context"
	"encoding/base64"
	"image/color"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestImageServiceContentAddressing(t *testing.T) {
	root := t.TempDir()
	svc := NewImageService(root)
	data := pngBytes(t, color.RGBA{G: 255, A: 255})

	url, err := svc.Save(data)
	require.NoError(t, err)
	again, err := svc.Save(data)
	require.NoError(t, err)
	assert.Equal(t, url, again)

	onDisk, err := os.ReadFile(filepath.Join(root, strings.TrimPrefix(url, "/uploads/")))
	require.NoError(t, err)
	assert.Equal(t, data, onDisk)

	decoded, err := DecodeDataURL("data:image/png;base64," + base64.StdEncoding.EncodeToString(data))
	require.NoError(t, err)
	fromDataURL, err := svc.Save(decoded)
	require.NoError(t, err)
	assert.Equal(t, url, fromDataURL)

	_, err = svc.Save(nil)
	assert.ErrorIs(t, err, ErrNotAnImage)
	_, err = DecodeDataURL("data:image/png;base64,%%%")
	assert.ErrorIs(t, err, ErrNotAnImage)
}

func TestThemeSetting(t *testing.T) {
	env := newTestEnv(t)
	settings := NewSettingsService(env.kv)
	ctx := context.Background()

	theme, err := settings.Theme(ctx)
	require.NoError(t, err)
	assert.Equal(t, ThemeLight, theme)

	require.NoError(t, settings.SetTheme(ctx, ThemeDark))
	raw, _, err := env.kv.Get(ctx, ThemeKey)
	require.NoError(t, err)
	assert.Equal(t, "dark", raw, "theme is stored as a bare string")

	assert.ErrorIs(t, settings.SetTheme(ctx, "sepia"), ErrInvalidTheme)
}

func TestHubDropsSlowSubscribers(t *testing.T) {
	hub := NewNotificationHub()
	slow := hub.Subscribe("s1")
	other := hub.Subscribe("s2")

	for i := 0; i < cap(slow.Send)+1; i++ {
		hub.Publish("s1", Notification{ID: uint64(i + 1)})
	}
	drained := 0
	for range slow.Send {
		drained++
	}
	assert.Equal(t, cap(slow.Send), drained, "the overflowing subscriber is closed after its buffer")
	assert.Empty(t, other.Send)

	hub.Unsubscribe(slow)
	hub.Unsubscribe(other)
	_, open := <-other.Send
	assert.False(t, open)
}
