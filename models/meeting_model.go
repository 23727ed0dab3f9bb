package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	MeetingStatusWaiting   = "WAITING"
	MeetingStatusOngoing   = "ONGOING"
	MeetingStatusCompleted = "COMPLETED"
	MeetingStatusCancelled = "CANCELLED"
)

// Meeting is the real-time session behind an accepted consultation request.
// Invariant: status ONGOING implies both join flags are set.
type Meeting struct {
	ID                    uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	ConsultationRequestID uuid.UUID `gorm:"type:uuid;not null;unique" json:"consultation_request_id"`
	CounselorID           uuid.UUID `gorm:"type:uuid;not null;index" json:"counselor_id"`
	UserID                uuid.UUID `gorm:"type:uuid;not null;index" json:"user_id"`
	MeetingProvider       string    `gorm:"size:20;not null;default:'AGORA'" json:"meeting_provider"`
	MeetingRoomID         string    `gorm:"size:100;not null;unique" json:"meeting_room_id"`
	Status                string    `gorm:"size:20;not null;default:'WAITING'" json:"status"`

	UserJoined        bool       `gorm:"default:false" json:"user_joined"`
	CounselorJoined   bool       `gorm:"default:false" json:"counselor_joined"`
	UserJoinedAt      *time.Time `json:"user_joined_at"`
	CounselorJoinedAt *time.Time `json:"counselor_joined_at"`

	ScheduledTime *time.Time `json:"scheduled_time"`
	StartTime     *time.Time `json:"start_time"`
	EndTime       *time.Time `json:"end_time"`
	Duration      *int       `json:"duration"` // seconds

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (m *Meeting) BeforeCreate(tx *gorm.DB) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	return nil
}
