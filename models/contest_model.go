package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Contest struct {
	ID              uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Title           string    `gorm:"size:255;not null" json:"title"`
	Description     string    `gorm:"type:text" json:"description"`
	Category        string    `gorm:"size:100" json:"category"`
	StartTime       time.Time `gorm:"not null" json:"start_time"`
	EndTime         time.Time `gorm:"not null" json:"end_time"`
	DurationMinutes int       `gorm:"not null" json:"duration_minutes"`
	TotalMarks      int       `gorm:"default:0" json:"total_marks"`
	IsActive        bool      `gorm:"default:true" json:"is_active"`
	IsPublished     bool      `gorm:"default:false" json:"is_published"`

	Questions []ContestQuestion `gorm:"foreignKey:ContestID" json:"questions,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (ct *Contest) BeforeCreate(tx *gorm.DB) error {
	if ct.ID == uuid.Nil {
		ct.ID = uuid.New()
	}
	return nil
}
