package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/familyalbumhq/albumbackend/models"
	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type crudEntityRepo struct {
	fakeEntityRepo
	nextID  uint
	updated []*models.NameEntity
	deleted []uint
}

func newCrudEntityRepo() *crudEntityRepo {
	return &crudEntityRepo{
		fakeEntityRepo: fakeEntityRepo{known: map[uint]*models.NameEntity{}},
		nextID:         1,
	}
}

func (r *crudEntityRepo) Create(entity *models.NameEntity) error {
	entity.ID = r.nextID
	r.nextID++
	r.known[entity.ID] = entity
	return nil
}

func (r *crudEntityRepo) Update(entity *models.NameEntity) error {
	r.updated = append(r.updated, entity)
	r.known[entity.ID] = entity
	return nil
}

func (r *crudEntityRepo) Delete(id uint) error {
	delete(r.known, id)
	r.deleted = append(r.deleted, id)
	return nil
}

func newEntityRouter(eh *EntityHandler, prefix string) *chi.Mux {
	r := chi.NewRouter()
	r.Post("/api/"+prefix, eh.CreateEntity)
	r.Get("/api/"+prefix, eh.ListEntities)
	r.Get("/api/"+prefix+"/{entity_id}", eh.GetEntity)
	r.Put("/api/"+prefix+"/{entity_id}", eh.UpdateEntity)
	r.Delete("/api/"+prefix+"/{entity_id}", eh.DeleteEntity)
	return r
}

func TestCreateEntitySetsKindFromRoute(t *testing.T) {
	repo := newCrudEntityRepo()
	router := newEntityRouter(&EntityHandler{Repo: repo, Kind: models.KindEvent}, "events")

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/events",
		bytes.NewReader([]byte(`{"name":"Summer Trip","relation_note":"annual"}`))))
	require.Equal(t, http.StatusCreated, rec.Code)

	var created models.NameEntity
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	assert.Equal(t, models.KindEvent, created.Kind)
	assert.Equal(t, "Summer Trip", created.Name)
	assert.NotZero(t, created.ID)
}

func TestCreateEntityRequiresName(t *testing.T) {
	router := newEntityRouter(&EntityHandler{Repo: newCrudEntityRepo(), Kind: models.KindPerson}, "people")

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/people",
		bytes.NewReader([]byte(`{"name":"   "}`))))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestEntityKindIsolation(t *testing.T) {
	repo := newCrudEntityRepo()
	repo.known[5] = &models.NameEntity{ID: 5, Name: "Grandma", Kind: models.KindPerson}

	// a person must not be reachable through the events routes
	eventRouter := newEntityRouter(&EntityHandler{Repo: repo, Kind: models.KindEvent}, "events")
	rec := httptest.NewRecorder()
	eventRouter.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/events/5", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)

	personRouter := newEntityRouter(&EntityHandler{Repo: repo, Kind: models.KindPerson}, "people")
	rec = httptest.NewRecorder()
	personRouter.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/people/5", nil))
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	eventRouter.ServeHTTP(rec, httptest.NewRequest(http.MethodDelete, "/api/events/5", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Empty(t, repo.deleted)
}

func TestUpdateEntity(t *testing.T) {
	repo := newCrudEntityRepo()
	repo.known[3] = &models.NameEntity{ID: 3, Name: "Grandma", Kind: models.KindPerson}
	router := newEntityRouter(&EntityHandler{Repo: repo, Kind: models.KindPerson}, "people")

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPut, "/api/people/3",
		bytes.NewReader([]byte(`{"name":"Grandma Rose","relation_note":"maternal"}`))))
	require.Equal(t, http.StatusOK, rec.Code)

	require.Len(t, repo.updated, 1)
	assert.Equal(t, "Grandma Rose", repo.updated[0].Name)
	assert.Equal(t, "maternal", repo.updated[0].RelationNote)
}

func TestDeleteEntity(t *testing.T) {
	repo := newCrudEntityRepo()
	repo.known[3] = &models.NameEntity{ID: 3, Name: "Grandma", Kind: models.KindPerson}
	router := newEntityRouter(&EntityHandler{Repo: repo, Kind: models.KindPerson}, "people")

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodDelete, "/api/people/3", nil))
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, []uint{3}, repo.deleted)
}

func TestGetEntityInvalidID(t *testing.T) {
	router := newEntityRouter(&EntityHandler{Repo: newCrudEntityRepo(), Kind: models.KindPerson}, "people")

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/people/abc", nil))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
