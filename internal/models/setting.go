package models

import (
	"time"

	"gorm.io/datatypes"
)

// Setting stores a runtime-editable business setting as JSON.
// Value is a text column on every dialect so SQLite hands scalars back as text.
type Setting struct {
	Key       string         `gorm:"type:varchar(100);primaryKey"` // Setting key.
	Value     datatypes.JSON `gorm:"type:text;not null"`           // JSON-encoded value.
	UpdatedAt time.Time      `gorm:"not null;autoUpdateTime"`      // Last update timestamp.
}
