package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ContestAttempt with a nil SubmittedAt is still in progress.
type ContestAttempt struct {
	ID          uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	ContestID   uuid.UUID  `gorm:"type:uuid;not null;index" json:"contest_id"`
	UserID      uuid.UUID  `gorm:"type:uuid;not null;index" json:"user_id"`
	StartedAt   time.Time  `gorm:"not null" json:"started_at"`
	SubmittedAt *time.Time `json:"submitted_at"`
	TimeTaken   *int       `json:"time_taken"`
	Score       *int       `json:"score"`

	User User `gorm:"foreignKey:UserID" json:"user,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (a *ContestAttempt) BeforeCreate(tx *gorm.DB) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	return nil
}
