package repository

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/familyalbumhq/albumbackend/models"
	"github.com/familyalbumhq/albumbackend/tagging"
	"gorm.io/gorm"
)

// ErrUnknownEntity is returned when a tag write references a NameEntity ID
// that does not exist. The write is rejected before any existing rows are
// deleted.
var ErrUnknownEntity = errors.New("referenced name entity does not exist")

// TagRepository handles the normalized association table linking media
// items to name entities. It is the only write path for tag membership;
// the media item's legacy tag list is read-only historical data consulted
// for display order alone and is never touched here.
type TagRepository struct {
	DB *gorm.DB
}

// NewTagRepository creates a new instance of TagRepository
func NewTagRepository(db *gorm.DB) *TagRepository {
	return &TagRepository{DB: db}
}

const taggedEntityColumns = "name_entities.id AS id, name_entities.name AS name, " +
	"name_entities.kind AS kind, name_entities.relation_note AS relation_note, " +
	"associations.position AS position"

// ListAssociations retrieves every association for a media item, of any
// kind, joined with its entity and ordered by position.
func (r *TagRepository) ListAssociations(mediaItemID string) ([]tagging.TaggedEntity, error) {
	var entities []tagging.TaggedEntity
	err := r.DB.Table("associations").
		Select(taggedEntityColumns).
		Joins("INNER JOIN name_entities ON name_entities.id = associations.name_entity_id").
		Where("associations.media_item_id = ?", mediaItemID).
		Order("associations.position ASC").
		Scan(&entities).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list associations for %s: %w", mediaItemID, err)
	}
	return entities, nil
}

// ListPeople retrieves the person-kind associations for a media item in
// position order.
func (r *TagRepository) ListPeople(mediaItemID string) ([]tagging.TaggedEntity, error) {
	var entities []tagging.TaggedEntity
	err := r.DB.Table("associations").
		Select(taggedEntityColumns).
		Joins("INNER JOIN name_entities ON name_entities.id = associations.name_entity_id").
		Where("associations.media_item_id = ? AND name_entities.kind = ?", mediaItemID, models.KindPerson).
		Order("associations.position ASC").
		Scan(&entities).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list people for %s: %w", mediaItemID, err)
	}
	return entities, nil
}

// GetEvent retrieves the event associated with a media item, or nil when
// there is none. At most one event is expected per item but uniqueness is
// not assumed; the lowest-position event wins.
func (r *TagRepository) GetEvent(mediaItemID string) (*models.NameEntity, error) {
	var entity models.NameEntity
	err := r.DB.Table("name_entities").
		Select("name_entities.*").
		Joins("INNER JOIN associations ON associations.name_entity_id = name_entities.id").
		Where("associations.media_item_id = ? AND name_entities.kind = ?", mediaItemID, models.KindEvent).
		Order("associations.position ASC").
		First(&entity).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get event for %s: %w", mediaItemID, err)
	}
	return &entity, nil
}

// ReplaceAssociations atomically replaces a media item's associations of
// the given kind with the provided entities, positioned in slice order.
// Other kinds are untouched, so person and event tags can be rewritten
// independently. Every referenced ID is validated before any deletion:
// an unknown ID fails the whole call with ErrUnknownEntity and leaves the
// existing rows intact.
func (r *TagRepository) ReplaceAssociations(mediaItemID, kind string, orderedEntityIDs []uint) error {
	unique := make([]uint, 0, len(orderedEntityIDs))
	seen := make(map[uint]bool, len(orderedEntityIDs))
	for _, id := range orderedEntityIDs {
		if !seen[id] {
			seen[id] = true
			unique = append(unique, id)
		}
	}

	return r.DB.Transaction(func(tx *gorm.DB) error {
		if len(unique) > 0 {
			var count int64
			if err := tx.Model(&models.NameEntity{}).Where("id IN ?", unique).Count(&count).Error; err != nil {
				return fmt.Errorf("failed to validate entity IDs: %w", err)
			}
			if count != int64(len(unique)) {
				return ErrUnknownEntity
			}
		}

		err := tx.Where(
			"media_item_id = ? AND name_entity_id IN (SELECT id FROM name_entities WHERE kind = ?)",
			mediaItemID, kind,
		).Delete(&models.Association{}).Error
		if err != nil {
			return fmt.Errorf("failed to delete prior %s associations for %s: %w", kind, mediaItemID, err)
		}

		for position, id := range unique {
			assoc := models.Association{
				MediaItemID:  mediaItemID,
				NameEntityID: id,
				Position:     position,
			}
			if err := tx.Create(&assoc).Error; err != nil {
				return fmt.Errorf("failed to insert association (%s, %d): %w", mediaItemID, id, err)
			}
		}
		return nil
	})
}

// ReconcileItem compares a media item's legacy tag list against its
// association rows and classifies any divergence. Divergence is an audit
// signal, never a read-path failure.
func (r *TagRepository) ReconcileItem(mediaItemID string) (tagging.DiffReport, error) {
	var item models.MediaItem
	if err := r.DB.Where("filename = ?", mediaItemID).First(&item).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return tagging.DiffReport{}, err
		}
		return tagging.DiffReport{}, fmt.Errorf("failed to load media item %s: %w", mediaItemID, err)
	}

	associations, err := r.ListAssociations(mediaItemID)
	if err != nil {
		return tagging.DiffReport{}, err
	}

	legacy := tagging.ParseLegacyList(item.LegacyTagList)

	kinds, err := r.lookupKinds(legacy)
	if err != nil {
		return tagging.DiffReport{}, err
	}

	report := tagging.Diff(mediaItemID, legacy, associations, func(id uint) (string, bool) {
		kind, ok := kinds[id]
		return kind, ok
	})
	return report, nil
}

// ReconcileAll audits the whole catalog and returns the reports of every
// divergent item.
func (r *TagRepository) ReconcileAll() ([]tagging.DiffReport, error) {
	var filenames []string
	if err := r.DB.Model(&models.MediaItem{}).Order("filename ASC").Pluck("filename", &filenames).Error; err != nil {
		return nil, fmt.Errorf("failed to list media filenames: %w", err)
	}

	reports := []tagging.DiffReport{}
	for _, filename := range filenames {
		report, err := r.ReconcileItem(filename)
		if err != nil {
			return nil, err
		}
		if !report.Consistent {
			reports = append(reports, report)
		}
	}
	return reports, nil
}

// lookupKinds resolves the kind of every numeric reference in a legacy
// list, in one query. Missing IDs stay absent from the map.
func (r *TagRepository) lookupKinds(legacy tagging.LegacyList) (map[uint]string, error) {
	var ids []uint
	for _, token := range legacy.Tokens {
		if id, err := strconv.ParseUint(token, 10, 32); err == nil {
			ids = append(ids, uint(id))
		}
	}
	kinds := make(map[uint]string, len(ids))
	if len(ids) == 0 {
		return kinds, nil
	}

	var rows []models.NameEntity
	if err := r.DB.Select("id", "kind").Where("id IN ?", ids).Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to resolve legacy entity IDs: %w", err)
	}
	for _, row := range rows {
		kinds[row.ID] = row.Kind
	}
	return kinds, nil
}
