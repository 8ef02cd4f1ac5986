package models

// Association is the normalized, ordered link between a media item and a
// NameEntity, using GORM. It corresponds to the 'associations' table and is
// the authoritative source for tag membership; the media item's legacy tag
// list field is never consulted for membership, only for display order.
type Association struct {
	MediaItemID  string `gorm:"primaryKey" json:"media_item_id"` // media item filename
	NameEntityID uint   `gorm:"primaryKey;index" json:"name_entity_id"`
	Position     int    `gorm:"not null;default:0" json:"position"`

	NameEntity *NameEntity `gorm:"foreignKey:NameEntityID" json:"name_entity,omitempty"`
}

// TableName explicitly sets the table name for GORM.
func (Association) TableName() string {
	return "associations"
}
