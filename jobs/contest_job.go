package jobs

import (
	"log"
	"time"

	"github.com/skillup-app/skillup_backend/models"
	"gorm.io/gorm"
)

// DeactivateEndedContests flips is_active off for contests whose window
// has closed, so admin listings distinguish live from finished contests.
func DeactivateEndedContests(db *gorm.DB) func() {
	return func() {
		result := db.Model(&models.Contest{}).
			Where("is_active = ? AND end_time < ?", true, time.Now()).
			Update("is_active", false)
		if result.Error != nil {
			log.Printf("🔥 Failed to deactivate ended contests: %v", result.Error)
			return
		}
		if result.RowsAffected > 0 {
			log.Printf("Deactivated %d ended contest(s)", result.RowsAffected)
		}
	}
}
