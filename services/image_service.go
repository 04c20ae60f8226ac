package services

import (
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"
)

const maxImageBytes = 10 << 20

// ImageService stores room images on disk and hands back the URL they are
// served from. Files are named by content hash, so the same image always maps
// to the same URL.
type ImageService struct {
	Root      string // directory served at URLPrefix
	URLPrefix string
	Subdir    string
}

func NewImageService(root string) *ImageService {
	return &ImageService{Root: root, URLPrefix: "/uploads", Subdir: "rooms"}
}

func (s *ImageService) Save(data []byte) (string, error) {
	if len(data) == 0 {
		return "", fmt.Errorf("%w: empty file", ErrNotAnImage)
	}
	if len(data) > maxImageBytes {
		return "", fmt.Errorf("%w: file larger than %d bytes", ErrNotAnImage, maxImageBytes)
	}
	mt := mimetype.Detect(data)
	if !strings.HasPrefix(mt.String(), "image/") {
		return "", fmt.Errorf("%w: detected %s", ErrNotAnImage, mt.String())
	}

	sum := sha256.Sum256(data)
	filename := hex.EncodeToString(sum[:]) + mt.Extension()

	dir := filepath.Join(s.Root, s.Subdir)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("mkdir uploads dir: %w", err)
	}
	fullpath := filepath.Join(dir, filename)
	if _, err := os.Stat(fullpath); errors.Is(err, fs.ErrNotExist) {
		if err := os.WriteFile(fullpath, data, 0o644); err != nil {
			return "", fmt.Errorf("write file: %w", err)
		}
	}
	return path.Join(s.URLPrefix, s.Subdir, filename), nil
}

// DecodeDataURL accepts a data: URL or a bare base64 payload.
func DecodeDataURL(b64 string) ([]byte, error) {
	if idx := strings.Index(b64, "base64,"); idx >= 0 {
		b64 = b64[idx+7:]
	}
	data, err := base64.StdEncoding.DecodeString(strings.TrimSpace(b64))
	if err != nil {
		return nil, fmt.Errorf("%w: decode base64: %v", ErrNotAnImage, err)
	}
	return data, nil
}
