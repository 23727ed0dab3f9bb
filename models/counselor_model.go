package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Counselor struct {
	ID             uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Name           string    `gorm:"size:255;not null" json:"name"`
	Email          string    `gorm:"size:255;not null;unique" json:"email"`
	Password       string    `gorm:"not null" json:"-"`
	Specialization string    `gorm:"size:255" json:"specialization"`
	Experience     int       `gorm:"default:0" json:"experience"`
	EmploymentType string    `gorm:"size:50" json:"employment_type"`
	Bio            *string   `gorm:"type:text" json:"bio"`
	ProfileImage   *string   `gorm:"size:255" json:"profile_image"`
	IsActive       bool      `gorm:"default:false" json:"is_active"`

	// Materialized counters, bumped only by meeting completion.
	TotalMeetings int     `gorm:"default:0" json:"total_meetings"`
	TotalRevenue  float64 `gorm:"type:numeric(12,2);default:0.00" json:"total_revenue"`

	CreatedByAdminID *uuid.UUID `json:"-"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (cs *Counselor) BeforeCreate(tx *gorm.DB) error {
	if cs.ID == uuid.Nil {
		cs.ID = uuid.New()
	}
	return nil
}
