package handlers

import (
	"errors"
	"log"
	"net/http"

	"github.com/familyalbumhq/albumbackend/repository"
	"github.com/familyalbumhq/albumbackend/tagging"
	"gorm.io/gorm"
)

// AdminHandler exposes the audit and maintenance endpoints. Reconciliation
// is read-only: it reports drift between the legacy tag lists and the
// association table but never mutates either side.
type AdminHandler struct {
	TagRepo  repository.TagRepositoryInterface
	Entities repository.EntityRepositoryInterface
}

type reconcileResponse struct {
	Reports []tagging.DiffReport `json:"reports"`
}

func (ah *AdminHandler) Reconcile(w http.ResponseWriter, r *http.Request) {
	filename := r.URL.Query().Get("filename")

	if filename != "" {
		report, err := ah.TagRepo.ReconcileItem(filename)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				WriteAPIError(w, http.StatusNotFound, "not_found", "Media item not found")
			} else {
				log.Printf("Error reconciling %s: %v", filename, err)
				WriteAPIError(w, http.StatusInternalServerError, "reconcile_failed", "Failed to reconcile media item")
			}
			return
		}
		writeJSON(w, http.StatusOK, reconcileResponse{Reports: []tagging.DiffReport{report}})
		return
	}

	reports, err := ah.TagRepo.ReconcileAll()
	if err != nil {
		log.Printf("Error running full reconciliation: %v", err)
		WriteAPIError(w, http.StatusInternalServerError, "reconcile_failed", "Failed to run reconciliation")
		return
	}
	if reports == nil {
		reports = []tagging.DiffReport{}
	}
	writeJSON(w, http.StatusOK, reconcileResponse{Reports: reports})
}

// RefreshCounts recomputes every entity's usage count synchronously. The
// background refresher keeps counts current during normal edits; this
// endpoint exists for recovery after bulk imports or dropped jobs.
func (ah *AdminHandler) RefreshCounts(w http.ResponseWriter, r *http.Request) {
	if err := ah.Entities.RefreshUsageCounts(nil); err != nil {
		log.Printf("Error refreshing usage counts: %v", err)
		WriteAPIError(w, http.StatusInternalServerError, "refresh_failed", "Failed to refresh usage counts")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
