package repository

import (
	"errors"
	"fmt"
	"time"

	"github.com/familyalbumhq/albumbackend/database"
	"github.com/familyalbumhq/albumbackend/models"
	"gorm.io/gorm"
)

// MediaRepository handles database operations for MediaItem entities
type MediaRepository struct {
	DB *gorm.DB
}

// NewMediaRepository creates a new instance of MediaRepository
func NewMediaRepository(db *gorm.DB) *MediaRepository {
	return &MediaRepository{DB: db}
}

// GetByFilename retrieves a media item by its unique filename
func (r *MediaRepository) GetByFilename(filename string) (*models.MediaItem, error) {
	var item models.MediaItem
	err := r.DB.Where("filename = ?", filename).First(&item).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to get media item %s: %w", filename, err)
	}
	return &item, nil
}

// Create inserts a new media item record
func (r *MediaRepository) Create(item *models.MediaItem) error {
	now := time.Now().Unix()
	if item.CreatedAt == 0 {
		item.CreatedAt = now
	}
	if item.UpdatedAt == 0 {
		item.UpdatedAt = now
	}
	if err := r.DB.Create(item).Error; err != nil {
		return fmt.Errorf("failed to create media item %s: %w", item.Filename, err)
	}
	return nil
}

// UpdateDetails updates a media item's descriptive fields and the
// denormalized person-count cache. The legacy tag list column is
// deliberately absent from the update set; no write path rewrites it.
func (r *MediaRepository) UpdateDetails(filename string, description string, month, year *int, taggedPersonCount int) error {
	updates := map[string]interface{}{
		"description":         description,
		"month":               month,
		"year":                year,
		"tagged_person_count": taggedPersonCount,
		"updated_at":          time.Now().Unix(),
	}

	result := r.DB.Model(&models.MediaItem{}).Where("filename = ?", filename).Updates(updates)
	if result.Error != nil {
		return fmt.Errorf("failed to update media item %s: %w", filename, result.Error)
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// Delete removes a media item and all of its associations
func (r *MediaRepository) Delete(filename string) error {
	return r.DB.Transaction(func(tx *gorm.DB) error {
		result := tx.Where("filename = ?", filename).Delete(&models.MediaItem{})
		if result.Error != nil {
			return fmt.Errorf("failed to delete media item %s: %w", filename, result.Error)
		}
		if result.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		if err := tx.Where("media_item_id = ?", filename).Delete(&models.Association{}).Error; err != nil {
			return fmt.Errorf("failed to delete associations for %s: %w", filename, err)
		}
		return nil
	})
}

// List evaluates a media filter through the SQL query builder
func (r *MediaRepository) List(filter database.MediaFilter) ([]models.MediaItem, error) {
	sqlDB, err := r.DB.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}
	return database.QueryMedia(sqlDB, filter)
}

// ListFilenames returns every catalogued filename in lexical order
func (r *MediaRepository) ListFilenames() ([]string, error) {
	var filenames []string
	if err := r.DB.Model(&models.MediaItem{}).Order("filename ASC").Pluck("filename", &filenames).Error; err != nil {
		return nil, fmt.Errorf("failed to list media filenames: %w", err)
	}
	return filenames, nil
}
