package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ContestQuestion struct {
	ID            uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	ContestID     uuid.UUID `gorm:"type:uuid;not null;index" json:"contest_id"`
	QuestionText  string    `gorm:"type:text;not null" json:"question_text"`
	OptionA       string    `gorm:"type:text;not null" json:"option_a"`
	OptionB       string    `gorm:"type:text;not null" json:"option_b"`
	OptionC       string    `gorm:"type:text;not null" json:"option_c"`
	OptionD       string    `gorm:"type:text;not null" json:"option_d"`
	CorrectOption string    `gorm:"type:text;not null" json:"correct_option,omitempty"`
	Marks         int       `gorm:"not null" json:"marks"`

	CreatedAt time.Time `json:"created_at"`
}

func (q *ContestQuestion) BeforeCreate(tx *gorm.DB) error {
	if q.ID == uuid.Nil {
		q.ID = uuid.New()
	}
	return nil
}
