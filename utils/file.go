package utils

import (
	"bytes"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/google/uuid"
)

var supportedImageExtensions = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".gif":  true,
	".bmp":  true,
	".tif":  true,
	".tiff": true,
}

var videoExtensions = map[string]bool{
	".mp4":  true,
	".mov":  true,
	".avi":  true,
	".mkv":  true,
	".webm": true,
}

// IsRasterImage checks if the filename has a common raster image extension
func IsRasterImage(filename string) bool {
	ext := strings.ToLower(filepath.Ext(filename))
	return supportedImageExtensions[ext]
}

// IsVideo checks if the filename has a common video container extension
func IsVideo(filename string) bool {
	ext := strings.ToLower(filepath.Ext(filename))
	return videoExtensions[ext]
}

// GenerateThumbnail downscales the source image to fit within the given
// bounds and returns the encoded JPEG along with a UUID-based key name.
func GenerateThumbnail(source []byte, maxWidth, maxHeight int) ([]byte, string, error) {
	img, err := imaging.Decode(bytes.NewReader(source))
	if err != nil {
		return nil, "", fmt.Errorf("failed to decode image for thumbnail: %w", err)
	}

	thumb := imaging.Fit(img, maxWidth, maxHeight, imaging.Lanczos)

	thumbUUID, err := uuid.NewRandom()
	if err != nil {
		return nil, "", fmt.Errorf("failed to generate UUID for thumbnail: %w", err)
	}
	thumbKey := thumbUUID.String() + ".jpg" // save all as jpg with UUID name

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, thumb, imaging.JPEG, imaging.JPEGQuality(80)); err != nil {
		return nil, "", fmt.Errorf("failed to encode thumbnail: %w", err)
	}

	return buf.Bytes(), thumbKey, nil
}
