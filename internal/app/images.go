package app

import (
	"bytes"
	"errors"
	"fmt"
	"net/http"
	"os"
	"strings"

	"cilastudio/internal/app/model"
)

const maxAttachmentBytes = 20 << 20

var ErrNotAnImage = errors.New("file is not a supported image")

// LoadImage reads an attachment from disk. An empty path yields nil, meaning "no attachment".
func LoadImage(path string) (*model.Image, error) {
	if strings.TrimSpace(path) == "" {
		return nil, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read image %s: %w", path, err)
	}
	if len(data) > maxAttachmentBytes {
		return nil, fmt.Errorf("image %s exceeds %d MB", path, maxAttachmentBytes>>20)
	}

	img, err := DecodeImage(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return img, nil
}

func DecodeImage(data []byte) (*model.Image, error) {
	mimeType := sniffImage(data)
	if mimeType == "" {
		return nil, ErrNotAnImage
	}
	return &model.Image{Data: data, MIMEType: mimeType}, nil
}

func sniffImage(data []byte) string {
	switch {
	case len(data) < 12:
		return ""
	case bytes.HasPrefix(data, []byte{0xFF, 0xD8, 0xFF}):
		return "image/jpeg"
	case bytes.HasPrefix(data, []byte{0x89, 0x50, 0x4E, 0x47}):
		return "image/png"
	}

	switch ct := http.DetectContentType(data); ct {
	case "image/webp", "image/gif":
		return ct
	default:
		return ""
	}
}
