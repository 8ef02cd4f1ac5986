package handlers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"
	"strings"

	"github.com/familyalbumhq/albumbackend/models"
	"github.com/familyalbumhq/albumbackend/repository"
	"github.com/go-chi/chi/v5"
	"gorm.io/gorm"
)

// EntityHandler serves the CRUD surface for one entity kind. It is
// registered twice, once for people and once for events, so both routes
// share the same behavior.
type EntityHandler struct {
	Repo repository.EntityRepositoryInterface
	Kind string // models.KindPerson or models.KindEvent
}

func (eh *EntityHandler) kindLabel() string {
	if eh.Kind == models.KindEvent {
		return "event"
	}
	return "person"
}

func (eh *EntityHandler) CreateEntity(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name         string `json:"name"`
		RelationNote string `json:"relation_note"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Invalid request body: " + err.Error()})
		return
	}
	if strings.TrimSpace(req.Name) == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Missing required field: name"})
		return
	}

	entity := &models.NameEntity{
		Name:         strings.TrimSpace(req.Name),
		Kind:         eh.Kind,
		RelationNote: req.RelationNote,
	}
	if err := eh.Repo.Create(entity); err != nil {
		log.Printf("Error creating %s '%s': %v", eh.kindLabel(), req.Name, err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "Failed to create " + eh.kindLabel()})
		return
	}

	writeJSON(w, http.StatusCreated, entity)
}

func (eh *EntityHandler) ListEntities(w http.ResponseWriter, r *http.Request) {
	entities, err := eh.Repo.ListByKind(eh.Kind)
	if err != nil {
		log.Printf("Error listing %ss: %v", eh.kindLabel(), err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "Failed to retrieve " + eh.kindLabel() + "s"})
		return
	}
	if entities == nil {
		entities = []models.NameEntity{}
	}
	writeJSON(w, http.StatusOK, entities)
}

func (eh *EntityHandler) GetEntity(w http.ResponseWriter, r *http.Request) {
	entity, ok := eh.entityFromURL(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, entity)
}

func (eh *EntityHandler) UpdateEntity(w http.ResponseWriter, r *http.Request) {
	entity, ok := eh.entityFromURL(w, r)
	if !ok {
		return
	}

	var req struct {
		Name         string `json:"name"`
		RelationNote string `json:"relation_note"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Invalid request body: " + err.Error()})
		return
	}
	if strings.TrimSpace(req.Name) == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Missing required field: name"})
		return
	}

	entity.Name = strings.TrimSpace(req.Name)
	entity.RelationNote = req.RelationNote
	if err := eh.Repo.Update(entity); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": capitalizedLabel(eh.kindLabel()) + " not found"})
		} else {
			log.Printf("Error updating %s %d: %v", eh.kindLabel(), entity.ID, err)
			writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "Failed to update " + eh.kindLabel()})
		}
		return
	}

	writeJSON(w, http.StatusOK, entity)
}

func (eh *EntityHandler) DeleteEntity(w http.ResponseWriter, r *http.Request) {
	entity, ok := eh.entityFromURL(w, r)
	if !ok {
		return
	}

	if err := eh.Repo.Delete(entity.ID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": capitalizedLabel(eh.kindLabel()) + " not found"})
		} else {
			log.Printf("Error deleting %s %d: %v", eh.kindLabel(), entity.ID, err)
			writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "Failed to delete " + eh.kindLabel()})
		}
		return
	}

	writeJSON(w, http.StatusNoContent, nil)
}

// entityFromURL parses {entity_id}, loads the record, and checks its kind
// matches this handler's route so a person id cannot be edited through
// the events endpoint.
func (eh *EntityHandler) entityFromURL(w http.ResponseWriter, r *http.Request) (*models.NameEntity, bool) {
	idStr := chi.URLParam(r, "entity_id")
	id, err := strconv.ParseUint(idStr, 10, 32)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Invalid " + eh.kindLabel() + " ID format"})
		return nil, false
	}

	entity, err := eh.Repo.GetByID(uint(id))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": capitalizedLabel(eh.kindLabel()) + " not found"})
		} else {
			log.Printf("Error getting %s %d: %v", eh.kindLabel(), id, err)
			writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "Failed to retrieve " + eh.kindLabel()})
		}
		return nil, false
	}
	if entity.Kind != eh.Kind {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": capitalizedLabel(eh.kindLabel()) + " not found"})
		return nil, false
	}

	return entity, true
}

func capitalizedLabel(label string) string {
	if label == "" {
		return label
	}
	return strings.ToUpper(label[:1]) + label[1:]
}
