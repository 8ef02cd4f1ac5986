package models

// Entity kind codes. These match the single-character type codes the
// historical data was written with, so existing rows keep their meaning.
const (
	KindPerson = "N"
	KindEvent  = "E"
)

// NameEntity represents a person or event that can be tagged onto media,
// using GORM. It corresponds to the 'name_entities' table.
type NameEntity struct {
	ID           uint   `gorm:"primaryKey;autoIncrement" json:"id"`
	Name         string `gorm:"not null;index" json:"name"`
	Kind         string `gorm:"not null;size:1;index" json:"kind"` // KindPerson or KindEvent
	RelationNote string `gorm:"" json:"relation_note"`
	UsageCount   int    `gorm:"not null;default:0" json:"usage_count"` // derived cache, recomputed by maintenance
	LastModified int64  `gorm:"not null" json:"last_modified"`         // Stored as INTEGER in SQLite, Unix timestamp
}

// TableName explicitly sets the table name for GORM.
func (NameEntity) TableName() string {
	return "name_entities"
}

// IsPerson reports whether the entity is a person record.
func (e NameEntity) IsPerson() bool {
	return e.Kind == KindPerson
}
