package jobs

import (
	"log"
	"time"

	"github.com/skillup-app/skillup_backend/models"
	"gorm.io/gorm"
)

const stalePendingAge = 24 * time.Hour

// ExpireStalePendingRequests rejects consultation requests nobody
// answered within a day, freeing the learner to file a new one.
func ExpireStalePendingRequests(db *gorm.DB) func() {
	return func() {
		now := time.Now()
		result := db.Model(&models.ConsultationRequest{}).
			Where("status = ? AND created_at < ?", models.RequestStatusPending, now.Add(-stalePendingAge)).
			Updates(map[string]interface{}{
				"status":       models.RequestStatusRejected,
				"responded_at": now,
			})
		if result.Error != nil {
			log.Printf("🔥 Failed to expire stale consultation requests: %v", result.Error)
			return
		}
		if result.RowsAffected > 0 {
			log.Printf("Expired %d stale consultation request(s)", result.RowsAffected)
		}
	}
}
