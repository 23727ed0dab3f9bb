package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	RequestTypeInstant   = "INSTANT"
	RequestTypeScheduled = "SCHEDULED"

	RequestStatusPending   = "PENDING"
	RequestStatusAccepted  = "ACCEPTED"
	RequestStatusRejected  = "REJECTED"
	RequestStatusCompleted = "COMPLETED"
)

type ConsultationRequest struct {
	ID          uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	UserID      uuid.UUID  `gorm:"type:uuid;not null;index" json:"user_id"`
	CounselorID uuid.UUID  `gorm:"type:uuid;not null;index" json:"counselor_id"`
	RequestType string     `gorm:"size:20;not null" json:"request_type"`
	ScheduledAt *time.Time `json:"scheduled_at"`
	Message     string     `gorm:"type:text" json:"message"`
	Status      string     `gorm:"size:20;not null;default:'PENDING'" json:"status"`
	RespondedAt *time.Time `json:"responded_at"`

	User      User      `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Counselor Counselor `gorm:"foreignKey:CounselorID" json:"-"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (r *ConsultationRequest) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}
