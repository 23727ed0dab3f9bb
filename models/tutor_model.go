package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Tutor struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Name         string    `gorm:"size:255;not null" json:"name"`
	Email        string    `gorm:"size:255;not null;unique" json:"email"`
	Password     string    `gorm:"not null" json:"-"`
	Expertise    string    `gorm:"size:255" json:"expertise"`
	Bio          *string   `gorm:"type:text" json:"bio"`
	ProfileImage *string   `gorm:"size:255" json:"profile_image"`
	IsActive     bool      `gorm:"default:true" json:"is_active"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (t *Tutor) BeforeCreate(tx *gorm.DB) error {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	return nil
}
