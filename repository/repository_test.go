package repository

import (
	"path/filepath"
	"testing"

	"github.com/familyalbumhq/albumbackend/database"
	"github.com/familyalbumhq/albumbackend/models"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "test.db")
	db, err := database.InitGormDB(dbPath)
	require.NoError(t, err)
	require.NoError(t, database.AutoMigrateModels(db))
	return db
}

func seedEntity(t *testing.T, db *gorm.DB, name, kind string) uint {
	t.Helper()
	entity := models.NameEntity{Name: name, Kind: kind, LastModified: 1}
	require.NoError(t, db.Create(&entity).Error)
	return entity.ID
}

func seedMediaItem(t *testing.T, db *gorm.DB, filename string, legacyTagList *string) {
	t.Helper()
	item := models.MediaItem{
		Filename:      filename,
		Directory:     "test",
		LegacyTagList: legacyTagList,
		MediaType:     models.MediaTypeImage,
		CreatedAt:     1,
		UpdatedAt:     1,
	}
	require.NoError(t, db.Create(&item).Error)
}

func strPtr(s string) *string {
	return &s
}
