package repository

import (
	"errors"
	"fmt"
	"time"

	"github.com/familyalbumhq/albumbackend/models"
	"gorm.io/gorm"
)

// EntityRepository handles database operations for NameEntity records,
// both people and events.
type EntityRepository struct {
	DB *gorm.DB
}

// NewEntityRepository creates a new instance of EntityRepository
func NewEntityRepository(db *gorm.DB) *EntityRepository {
	return &EntityRepository{DB: db}
}

// Create creates a new name entity record in the database
func (r *EntityRepository) Create(entity *models.NameEntity) error {
	if entity.LastModified == 0 {
		entity.LastModified = time.Now().Unix()
	}
	if err := r.DB.Create(entity).Error; err != nil {
		return fmt.Errorf("failed to create name entity %s: %w", entity.Name, err)
	}
	return nil
}

// GetByID retrieves a name entity by its ID
func (r *EntityRepository) GetByID(id uint) (*models.NameEntity, error) {
	var entity models.NameEntity
	err := r.DB.First(&entity, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to get name entity by ID %d: %w", id, err)
	}
	return &entity, nil
}

// ListByKind retrieves all entities of the given kind, ordered by name
func (r *EntityRepository) ListByKind(kind string) ([]models.NameEntity, error) {
	var entities []models.NameEntity
	err := r.DB.Where("kind = ?", kind).Order("name ASC").Find(&entities).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list name entities of kind %s: %w", kind, err)
	}
	return entities, nil
}

// Update updates an existing entity's name and relation note
func (r *EntityRepository) Update(entity *models.NameEntity) error {
	entity.LastModified = time.Now().Unix()
	result := r.DB.Model(&models.NameEntity{ID: entity.ID}).Updates(map[string]interface{}{
		"name":          entity.Name,
		"relation_note": entity.RelationNote,
		"last_modified": entity.LastModified,
	})
	if result.Error != nil {
		return fmt.Errorf("failed to update name entity ID %d: %w", entity.ID, result.Error)
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// Delete removes an entity and its associations
func (r *EntityRepository) Delete(id uint) error {
	return r.DB.Transaction(func(tx *gorm.DB) error {
		result := tx.Delete(&models.NameEntity{}, id)
		if result.Error != nil {
			return fmt.Errorf("failed to delete name entity ID %d: %w", id, result.Error)
		}
		if result.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		if err := tx.Where("name_entity_id = ?", id).Delete(&models.Association{}).Error; err != nil {
			return fmt.Errorf("failed to delete associations for entity ID %d: %w", id, err)
		}
		return nil
	})
}

// RefreshUsageCounts recomputes the derived usage_count cache from the
// association table, for the given entity IDs or for every entity when
// ids is empty. The cache is informational; reads never trust it alone.
func (r *EntityRepository) RefreshUsageCounts(ids []uint) error {
	query := `UPDATE name_entities SET usage_count = (
		SELECT COUNT(*) FROM associations
		WHERE associations.name_entity_id = name_entities.id
	)`

	var err error
	if len(ids) > 0 {
		err = r.DB.Exec(query+" WHERE id IN ?", ids).Error
	} else {
		err = r.DB.Exec(query).Error
	}
	if err != nil {
		return fmt.Errorf("failed to refresh usage counts: %w", err)
	}
	return nil
}
