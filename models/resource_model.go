package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Resource struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Title        string    `gorm:"size:255;not null" json:"title"`
	Description  string    `gorm:"type:text" json:"description"`
	Type         string    `gorm:"size:50;not null" json:"type"`
	Category     string    `gorm:"size:100" json:"category"`
	FileURL      string    `gorm:"type:text;not null" json:"file_url"`
	ThumbnailURL *string   `gorm:"size:512" json:"thumbnail_url"`
	Downloads    int       `gorm:"default:0" json:"downloads"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (r *Resource) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}
