package models

import "time"

// DocumentRecord is the SQL row holding a serialized Document.
type DocumentRecord struct {
	Key           string    `gorm:"primaryKey;size:191" json:"key"`
	SchemaVersion int       `gorm:"not null" json:"schema_version"`
	Body          string    `gorm:"type:text;not null" json:"body"`
	UpdatedAt     time.Time `json:"updated_at"`
}

func (DocumentRecord) TableName() string {
	return "documents"
}
