package models

import "gorm.io/datatypes"

// SearchHistory records one directory search per row. Reads trim to a
// recency window; rows are never expired server-side.
type SearchHistory struct {
	BaseModel
	UserID  string         `gorm:"not null;index"`
	Query   string         `gorm:"not null"`
	Filters datatypes.JSON `gorm:"type:jsonb"` // {"category": "...", "location": "...", "country": "..."}
}
