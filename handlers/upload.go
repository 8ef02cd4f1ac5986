package handlers

import (
	"bytes"
	"errors"
	"log"
	"mime"
	"net/http"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/familyalbumhq/albumbackend/media"
	"github.com/familyalbumhq/albumbackend/models"
	"github.com/familyalbumhq/albumbackend/repository"
	"github.com/familyalbumhq/albumbackend/utils"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	maxUploadBytes = 256 << 20
	thumbMaxWidth  = 400
	thumbMaxHeight = 400
)

// UploadHandler ingests new media files: the original bytes go to the
// object store, dimensions and the capture date are probed from the file,
// and the catalog record is created with an empty tag set.
type UploadHandler struct {
	MediaRepo repository.MediaRepositoryInterface
	Store     media.Store
}

func (uh *UploadHandler) Upload(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
	if err := r.ParseMultipartForm(32 << 20); err != nil {
		WriteAPIError(w, http.StatusBadRequest, "invalid_request", "Failed to parse multipart form: "+err.Error())
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		WriteAPIError(w, http.StatusBadRequest, "invalid_request", "Missing required file field: file")
		return
	}
	defer file.Close()

	directory := strings.Trim(strings.ReplaceAll(r.FormValue("directory"), "\\", "/"), "/")
	if strings.Contains(directory, "..") {
		WriteAPIError(w, http.StatusBadRequest, "invalid_request", "Invalid directory")
		return
	}

	filename := path.Base(filepath.ToSlash(header.Filename))
	if filename == "" || filename == "." || filename == "/" {
		filename = uuid.NewString()
	}

	mediaType := models.MediaTypeImage
	switch {
	case utils.IsRasterImage(filename):
		mediaType = models.MediaTypeImage
	case utils.IsVideo(filename):
		mediaType = models.MediaTypeVideo
	default:
		WriteAPIError(w, http.StatusBadRequest, "unsupported_type", "Unsupported file type: "+filepath.Ext(filename))
		return
	}

	if existing, err := uh.MediaRepo.GetByFilename(filename); err == nil && existing != nil {
		WriteAPIError(w, http.StatusConflict, "already_exists", "A media item with this filename already exists")
		return
	} else if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		log.Printf("Error checking for existing media %s: %v", filename, err)
		WriteAPIError(w, http.StatusInternalServerError, "upload_failed", "Failed to store media")
		return
	}

	var data bytes.Buffer
	if _, err := data.ReadFrom(file); err != nil {
		WriteAPIError(w, http.StatusBadRequest, "invalid_request", "Failed to read uploaded file: "+err.Error())
		return
	}
	source := data.Bytes()

	item := &models.MediaItem{
		Filename:    filename,
		Directory:   directory,
		Description: r.FormValue("description"),
		MediaType:   mediaType,
	}

	if mediaType == models.MediaTypeImage {
		if meta, err := utils.ProbeMetadata(bytes.NewReader(source), filename); err == nil {
			item.Width = meta.Width
			item.Height = meta.Height
			if meta.TakenAt != nil {
				taken := time.Unix(*meta.TakenAt, 0).UTC()
				month := int(taken.Month())
				year := taken.Year()
				item.Month = &month
				item.Year = &year
			}
		} else {
			log.Printf("Error probing metadata for %s: %v", filename, err)
		}
	}

	contentType := mime.TypeByExtension(strings.ToLower(filepath.Ext(filename)))
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	candidates := media.CandidateKeys(directory, filename)
	key, _ := candidates.Next()
	if err := uh.Store.Put(key, bytes.NewReader(source), contentType); err != nil {
		log.Printf("Error storing uploaded file %s: %v", key, err)
		WriteAPIError(w, http.StatusInternalServerError, "upload_failed", "Failed to store media")
		return
	}

	if mediaType == models.MediaTypeImage {
		if thumbData, thumbName, err := utils.GenerateThumbnail(source, thumbMaxWidth, thumbMaxHeight); err == nil {
			thumbKey := "thumbnails/" + thumbName
			if err := uh.Store.Put(thumbKey, bytes.NewReader(thumbData), "image/jpeg"); err == nil {
				item.ThumbnailKey = &thumbKey
			} else {
				log.Printf("Error storing thumbnail for %s: %v", filename, err)
			}
		} else {
			log.Printf("Error generating thumbnail for %s: %v", filename, err)
		}
	}

	if err := uh.MediaRepo.Create(item); err != nil {
		log.Printf("Error creating media record %s: %v", filename, err)
		if delErr := uh.Store.Delete(key); delErr != nil {
			log.Printf("Error cleaning up stored object %s: %v", key, delErr)
		}
		WriteAPIError(w, http.StatusInternalServerError, "upload_failed", "Failed to create media record")
		return
	}

	writeJSON(w, http.StatusCreated, item)
}
