package jobs

import (
	"log"
	"time"

	"github.com/anjiri1684/estate_market/database"
	"github.com/anjiri1684/estate_market/models"
)

// PruneStalePushTokens drops push registrations that have not been refreshed
// in six months; Expo tokens and browser subscriptions rot.
func PruneStalePushTokens() {
	log.Println("Running job: PruneStalePushTokens...")

	cutoff := time.Now().AddDate(0, -6, 0)
	result := database.DB.Where("updated_at < ?", cutoff).Delete(&models.UserPushToken{})
	if result.Error != nil {
		log.Printf("Error pruning stale push tokens: %v", result.Error)
		return
	}

	if result.RowsAffected > 0 {
		log.Printf("Pruned %d stale push token(s)", result.RowsAffected)
	}
}
