package utils

import (
	"fmt"
	"image"
	"io"
	"log"

	"github.com/rwcarlsen/goexif/exif"
)

type Metadata struct {
	Width   *int   `json:"width,omitempty"`
	Height  *int   `json:"height,omitempty"`
	TakenAt *int64 `json:"taken_at,omitempty"`
}

// ProbeMetadata extracts dimensions and the EXIF capture timestamp from
// an uploaded image. Missing EXIF data is not an error; the returned
// struct simply carries whatever could be read.
func ProbeMetadata(r io.ReadSeeker, name string) (*Metadata, error) {
	config, format, err := image.DecodeConfig(r)
	var width, height *int
	if err == nil {
		w, h := config.Width, config.Height
		width = &w
		height = &h
		log.Printf("metadata: Decoded dimensions for %s (format: %s): %dx%d", name, format, *width, *height)
	} else {
		log.Printf("metadata: Warning - Could not decode config for dimensions of %s: %v", name, err)
	}

	if _, err := r.Seek(0, io.SeekStart); err != nil {
		return nil, fmt.Errorf("metadata: failed to seek %s: %w", name, err)
	}

	exifData, err := exif.Decode(r)
	if err != nil {
		// not necessarily a fatal error, file might just lack EXIF data
		log.Printf("metadata: No EXIF data found or error decoding EXIF for %s: %v", name, err)
		return &Metadata{Width: width, Height: height}, nil
	}

	meta := &Metadata{Width: width, Height: height}

	dt, err := exifData.DateTime()
	if err == nil {
		ts := dt.Unix()
		meta.TakenAt = &ts
	} else {
		log.Printf("metadata: Could not read DateTimeOriginal for %s: %v", name, err)
	}

	return meta, nil
}
