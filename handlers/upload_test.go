package handlers

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/familyalbumhq/albumbackend/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func multipartUpload(t *testing.T, filename, directory string, content []byte) (*bytes.Buffer, string) {
	t.Helper()
	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	part, err := writer.CreateFormFile("file", filename)
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	if directory != "" {
		require.NoError(t, writer.WriteField("directory", directory))
	}
	require.NoError(t, writer.Close())
	return &body, writer.FormDataContentType()
}

func TestUploadVideoCreatesRecordAndStoresObject(t *testing.T) {
	store := newFakeStore()
	mediaRepo := newFakeMediaRepo()
	uh := &UploadHandler{MediaRepo: mediaRepo, Store: store}

	body, contentType := multipartUpload(t, "clip.mp4", "trips", []byte("video bytes"))
	req := httptest.NewRequest(http.MethodPost, "/api/upload", body)
	req.Header.Set("Content-Type", contentType)

	rec := httptest.NewRecorder()
	uh.Upload(rec, req)
	require.Equal(t, http.StatusCreated, rec.Code)

	var created models.MediaItem
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	assert.Equal(t, "clip.mp4", created.Filename)
	assert.Equal(t, "trips", created.Directory)
	assert.Equal(t, models.MediaTypeVideo, created.MediaType)

	assert.Equal(t, []byte("video bytes"), store.objects["trips/clip.mp4"])
	require.Contains(t, mediaRepo.items, "clip.mp4")
}

func TestUploadRejectsDuplicateFilename(t *testing.T) {
	store := newFakeStore()
	mediaRepo := newFakeMediaRepo()
	mediaRepo.items["clip.mp4"] = &models.MediaItem{Filename: "clip.mp4"}
	uh := &UploadHandler{MediaRepo: mediaRepo, Store: store}

	body, contentType := multipartUpload(t, "clip.mp4", "", []byte("video bytes"))
	req := httptest.NewRequest(http.MethodPost, "/api/upload", body)
	req.Header.Set("Content-Type", contentType)

	rec := httptest.NewRecorder()
	uh.Upload(rec, req)
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Empty(t, store.puts)
}

func TestUploadRejectsUnsupportedType(t *testing.T) {
	uh := &UploadHandler{MediaRepo: newFakeMediaRepo(), Store: newFakeStore()}

	body, contentType := multipartUpload(t, "notes.txt", "", []byte("text"))
	req := httptest.NewRequest(http.MethodPost, "/api/upload", body)
	req.Header.Set("Content-Type", contentType)

	rec := httptest.NewRecorder()
	uh.Upload(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestUploadRejectsMissingFile(t *testing.T) {
	uh := &UploadHandler{MediaRepo: newFakeMediaRepo(), Store: newFakeStore()}

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	require.NoError(t, writer.WriteField("directory", "trips"))
	require.NoError(t, writer.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/upload", &body)
	req.Header.Set("Content-Type", writer.FormDataContentType())

	rec := httptest.NewRecorder()
	uh.Upload(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestUploadRejectsTraversalDirectory(t *testing.T) {
	uh := &UploadHandler{MediaRepo: newFakeMediaRepo(), Store: newFakeStore()}

	body, contentType := multipartUpload(t, "clip.mp4", "../outside", []byte("video"))
	req := httptest.NewRequest(http.MethodPost, "/api/upload", body)
	req.Header.Set("Content-Type", contentType)

	rec := httptest.NewRecorder()
	uh.Upload(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
