package handlers

import (
	"fmt"
	"io"
	"log"
	"mime"
	"net/http"
	"path"
	"strings"
	"time"

	"github.com/familyalbumhq/albumbackend/media"
)

// AssetServer serves stored media files. The request path after the route
// prefix is treated as directory/filename within the store, and lookup
// goes through the candidate key resolver so items recorded with spaces
// or percent-encoded names are still found under their on-disk key.
// Example usage in main.go:
//
//	r.Get("/api/files/*", handlers.AssetServer(store))
func AssetServer(store media.Store) http.HandlerFunc {
	const routePrefix = "/api/files/"

	return func(w http.ResponseWriter, r *http.Request) {
		relativePath := strings.TrimPrefix(r.URL.Path, routePrefix)

		if relativePath == "" || strings.Contains(relativePath, "..") {
			http.Error(w, "Invalid asset path", http.StatusBadRequest)
			return
		}

		directory := path.Dir(relativePath)
		if directory == "." {
			directory = ""
		}
		filename := path.Base(relativePath)

		key, err := media.ResolveKey(store, directory, filename)
		if err != nil {
			if err == media.ErrNotFound {
				http.NotFound(w, r)
			} else {
				log.Printf("Error resolving asset key for %s: %v", relativePath, err)
				http.Error(w, "Internal Server Error", http.StatusInternalServerError)
			}
			return
		}

		reader, info, err := store.Get(key)
		if err != nil {
			if err == media.ErrNotFound {
				http.NotFound(w, r)
			} else {
				log.Printf("Error opening asset %s: %v", key, err)
				http.Error(w, "Internal Server Error", http.StatusInternalServerError)
			}
			return
		}
		defer reader.Close()

		contentType := mime.TypeByExtension(strings.ToLower(path.Ext(filename)))
		if contentType == "" {
			contentType = "application/octet-stream"
		}
		w.Header().Set("Content-Type", contentType)
		if info != nil {
			w.Header().Set("Content-Length", fmt.Sprintf("%d", info.Size()))
		}

		cacheDuration := 24 * time.Hour
		w.Header().Set("Cache-Control", fmt.Sprintf("public, max-age=%d", int(cacheDuration.Seconds())))
		w.Header().Set("Expires", time.Now().Add(cacheDuration).Format(http.TimeFormat))

		if _, err := io.Copy(w, reader); err != nil {
			log.Printf("Error streaming asset %s: %v", key, err)
		}
	}
}
