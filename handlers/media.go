package handlers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"
	"strings"

	"github.com/familyalbumhq/albumbackend/database"
	"github.com/familyalbumhq/albumbackend/models"
	"github.com/familyalbumhq/albumbackend/repository"
	"github.com/familyalbumhq/albumbackend/tagging"
	"github.com/familyalbumhq/albumbackend/workers"
	"github.com/go-chi/chi/v5"
	"gorm.io/gorm"
)

type MediaHandler struct {
	MediaRepo repository.MediaRepositoryInterface
	TagRepo   repository.TagRepositoryInterface
	Entities  repository.EntityRepositoryInterface
	Refresher *workers.CountRefresher
}

// MediaDetail is the detail-view payload: the item, its tagged people in
// canonical display order, and its event if any.
type MediaDetail struct {
	Media  *models.MediaItem      `json:"media"`
	People []tagging.TaggedEntity `json:"people"`
	Event  *models.NameEntity     `json:"event"`
}

// ListMedia handles GET /api/media with the person/event/untagged filters
func (mh *MediaHandler) ListMedia(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	sortOrder := q.Get("sortOrder")
	if sortOrder == "" {
		sortOrder = database.DefaultSortOrder
	}
	if !database.IsValidSortOrder(sortOrder) {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Invalid sortOrder, expected asc or desc"})
		return
	}

	filter := database.MediaFilter{SortOrder: sortOrder}

	peopleIDs, err := parseIDList(q.Get("peopleIds"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Invalid peopleIds list: " + err.Error()})
		return
	}

	switch {
	case q.Get("noPeople") == "true":
		filter.Untagged = true
	case len(peopleIDs) > 0:
		if q.Get("exclusiveFilter") == "true" {
			filter.ExactPersonIDs = peopleIDs
		} else {
			filter.AnyPersonIDs = peopleIDs
		}
	case q.Get("eventId") != "":
		eventID, err := strconv.ParseUint(q.Get("eventId"), 10, 32)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Invalid eventId format"})
			return
		}
		id := uint(eventID)
		filter.EventID = &id
	}

	items, err := mh.MediaRepo.List(filter)
	if err != nil {
		log.Printf("Error listing media: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "Failed to retrieve media"})
		return
	}
	writeJSON(w, http.StatusOK, items)
}

// GetMedia handles GET /api/media/{filename}, returning the item with its
// tagged people in canonical order. Ordering merges the association rows
// with the legacy list leniently; divergence between the two never fails
// a read.
func (mh *MediaHandler) GetMedia(w http.ResponseWriter, r *http.Request) {
	filename := chi.URLParam(r, "filename")

	detail, err := mh.loadDetail(filename)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "Media not found"})
		} else {
			log.Printf("Error getting media %s: %v", filename, err)
			writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "Failed to retrieve media item"})
		}
		return
	}

	writeJSON(w, http.StatusOK, detail)
}

// UpdateMedia handles PUT /api/media/{filename}. It rewrites the
// normalized associations and the descriptive fields; the legacy tag list
// is never rewritten, by design.
func (mh *MediaHandler) UpdateMedia(w http.ResponseWriter, r *http.Request) {
	filename := chi.URLParam(r, "filename")

	var req struct {
		Description string `json:"description"`
		Month       *int   `json:"month"`
		Year        *int   `json:"year"`
		PeopleIDs   []uint `json:"peopleIds"`
		EventID     *uint  `json:"eventId"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Invalid request body: " + err.Error()})
		return
	}

	if _, err := mh.MediaRepo.GetByFilename(filename); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "Media not found"})
		} else {
			log.Printf("Error loading media %s before update: %v", filename, err)
			writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "Failed to load media item"})
		}
		return
	}

	// the event id is validated up front so nothing is deleted before
	// every referenced entity is known to exist
	if req.EventID != nil {
		if _, err := mh.Entities.GetByID(*req.EventID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Unknown event id"})
			} else {
				log.Printf("Error validating event %d: %v", *req.EventID, err)
				writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "Failed to validate event"})
			}
			return
		}
	}

	// collect the entities whose usage counts will need refreshing
	touched := map[uint]bool{}
	if prior, err := mh.TagRepo.ListAssociations(filename); err == nil {
		for _, entity := range prior {
			touched[entity.ID] = true
		}
	}
	for _, id := range req.PeopleIDs {
		touched[id] = true
	}
	if req.EventID != nil {
		touched[*req.EventID] = true
	}

	if err := mh.TagRepo.ReplaceAssociations(filename, models.KindPerson, req.PeopleIDs); err != nil {
		if errors.Is(err, repository.ErrUnknownEntity) {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Unknown person id in peopleIds"})
		} else {
			log.Printf("Error replacing person tags for %s: %v", filename, err)
			writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "Failed to update person tags"})
		}
		return
	}

	eventIDs := []uint{}
	if req.EventID != nil {
		eventIDs = []uint{*req.EventID}
	}
	if err := mh.TagRepo.ReplaceAssociations(filename, models.KindEvent, eventIDs); err != nil {
		log.Printf("Error replacing event tag for %s: %v", filename, err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "Failed to update event tag"})
		return
	}

	if err := mh.MediaRepo.UpdateDetails(filename, req.Description, req.Month, req.Year, len(req.PeopleIDs)); err != nil {
		log.Printf("Error updating media %s: %v", filename, err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "Failed to update media item"})
		return
	}

	if mh.Refresher != nil {
		mh.Refresher.Enqueue(idSetToSlice(touched))
	}

	detail, err := mh.loadDetail(filename)
	if err != nil {
		log.Printf("Error fetching updated media %s: %v", filename, err)
		writeJSON(w, http.StatusOK, map[string]string{"message": "Media updated successfully"})
		return
	}
	writeJSON(w, http.StatusOK, detail)
}

// DeleteMedia handles DELETE /api/media/{filename}
func (mh *MediaHandler) DeleteMedia(w http.ResponseWriter, r *http.Request) {
	filename := chi.URLParam(r, "filename")

	touched := map[uint]bool{}
	if prior, err := mh.TagRepo.ListAssociations(filename); err == nil {
		for _, entity := range prior {
			touched[entity.ID] = true
		}
	}

	if err := mh.MediaRepo.Delete(filename); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "Media not found"})
		} else {
			log.Printf("Error deleting media %s: %v", filename, err)
			writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "Failed to delete media item"})
		}
		return
	}

	if mh.Refresher != nil && len(touched) > 0 {
		mh.Refresher.Enqueue(idSetToSlice(touched))
	}

	writeJSON(w, http.StatusNoContent, nil)
}

func (mh *MediaHandler) loadDetail(filename string) (*MediaDetail, error) {
	item, err := mh.MediaRepo.GetByFilename(filename)
	if err != nil {
		return nil, err
	}

	people, err := mh.TagRepo.ListPeople(filename)
	if err != nil {
		return nil, err
	}
	legacy := tagging.ParseLegacyList(item.LegacyTagList)
	ordered := tagging.Order(people, legacy)

	event, err := mh.TagRepo.GetEvent(filename)
	if err != nil {
		return nil, err
	}

	return &MediaDetail{Media: item, People: ordered, Event: event}, nil
}

func parseIDList(csv string) ([]uint, error) {
	if strings.TrimSpace(csv) == "" {
		return nil, nil
	}
	var ids []uint
	for _, part := range strings.Split(csv, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		id, err := strconv.ParseUint(part, 10, 32)
		if err != nil {
			return nil, err
		}
		ids = append(ids, uint(id))
	}
	return ids, nil
}

func idSetToSlice(set map[uint]bool) []uint {
	ids := make([]uint, 0, len(set))
	for id := range set {
		ids = append(ids, id)
	}
	return ids
}
