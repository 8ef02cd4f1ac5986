package models

// Media type codes carried over from the historical schema.
const (
	MediaTypeImage = 1
	MediaTypeVideo = 2
)

// MediaItem represents a catalogued photo or video in the database using
// GORM. It corresponds to the 'media_items' table.
//
// LegacyTagList is inert historical data: a comma-separated list of tagged
// names written by an earlier generation of the system. It is read for
// display ordering only and must never be rewritten by any write path.
// The value "1" is a sentinel meaning "explicitly no people".
type MediaItem struct {
	Filename    string `gorm:"primaryKey" json:"filename"`
	Directory   string `gorm:"not null;default:''" json:"directory"`
	Description string `gorm:"not null;default:''" json:"description"`

	Width  *int `gorm:"" json:"width,omitempty"`  // Nullable
	Height *int `gorm:"" json:"height,omitempty"` // Nullable
	Month  *int `gorm:"index" json:"month,omitempty"`
	Year   *int `gorm:"index" json:"year,omitempty"`

	LegacyTagList     *string `gorm:"column:legacy_tag_list" json:"legacy_tag_list,omitempty"`
	TaggedPersonCount int     `gorm:"not null;default:0" json:"tagged_person_count"` // denormalized cache

	ThumbnailKey *string `gorm:"" json:"thumbnail_key,omitempty"` // Nullable
	MediaType    int     `gorm:"not null;default:1" json:"media_type"`
	Duration     *int    `gorm:"" json:"duration,omitempty"` // Nullable, seconds, videos only

	CreatedAt int64 `gorm:"not null" json:"created_at"` // Stored as INTEGER in SQLite, Unix timestamp
	UpdatedAt int64 `gorm:"not null" json:"updated_at"` // Stored as INTEGER in SQLite, Unix timestamp

	// Relationships
	Associations []Association `gorm:"foreignKey:MediaItemID;references:Filename" json:"associations,omitempty"`
}

// TableName explicitly sets the table name for GORM.
func (MediaItem) TableName() string {
	return "media_items"
}
