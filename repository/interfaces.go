package repository

import (
	"github.com/familyalbumhq/albumbackend/database"
	"github.com/familyalbumhq/albumbackend/models"
	"github.com/familyalbumhq/albumbackend/tagging"
)

// EntityRepositoryInterface defines the methods for person/event data operations
type EntityRepositoryInterface interface {
	Create(entity *models.NameEntity) error
	GetByID(id uint) (*models.NameEntity, error)
	ListByKind(kind string) ([]models.NameEntity, error)
	Update(entity *models.NameEntity) error
	Delete(id uint) error
	RefreshUsageCounts(ids []uint) error
}

// TagRepositoryInterface defines the methods for tag association data
// operations. ReplaceAssociations handles person and event kinds
// independently and never writes the media item's legacy tag list.
type TagRepositoryInterface interface {
	ListAssociations(mediaItemID string) ([]tagging.TaggedEntity, error)
	ListPeople(mediaItemID string) ([]tagging.TaggedEntity, error)
	GetEvent(mediaItemID string) (*models.NameEntity, error)
	ReplaceAssociations(mediaItemID, kind string, orderedEntityIDs []uint) error
	ReconcileItem(mediaItemID string) (tagging.DiffReport, error)
	ReconcileAll() ([]tagging.DiffReport, error)
}

// MediaRepositoryInterface defines the methods for media item data operations
type MediaRepositoryInterface interface {
	GetByFilename(filename string) (*models.MediaItem, error)
	Create(item *models.MediaItem) error
	UpdateDetails(filename string, description string, month, year *int, taggedPersonCount int) error
	Delete(filename string) error
	List(filter database.MediaFilter) ([]models.MediaItem, error)
	ListFilenames() ([]string, error)
}
