package jobs

import (
	"fmt"
	"log"
	"time"

	"github.com/anjiri1684/estate_market/database"
	"github.com/anjiri1684/estate_market/models"
	"github.com/anjiri1684/estate_market/notifications"
)

// SendUnreadDigests emails users who still have unread notifications older
// than a day, so missed chat fallbacks eventually surface.
func SendUnreadDigests() {
	log.Println("Running job: SendUnreadDigests...")

	cutoff := time.Now().Add(-24 * time.Hour)

	var pending []models.Notification
	err := database.DB.
		Where("is_read = ? AND created_at < ?", false, cutoff).
		Find(&pending).Error
	if err != nil {
		log.Printf("Error checking for unread notifications: %v", err)
		return
	}

	if len(pending) == 0 {
		return
	}

	counts := make(map[uint]int)
	for _, n := range pending {
		counts[n.UserID]++
	}

	for userID, count := range counts {
		var user models.User
		if err := database.DB.First(&user, "id = ?", userID).Error; err != nil {
			log.Printf("Error loading user %d for digest: %v", userID, err)
			continue
		}

		emailSubject := "You have unread messages"
		emailBody := fmt.Sprintf(
			"<h1>Unread Notifications</h1><p>Hi %s,</p><p>You have %d unread notification(s) waiting for you. Log in to catch up on your conversations.</p>",
			user.FullName, count,
		)

		go notifications.SendEmail(user.FullName, user.Email, emailSubject, emailBody)
	}
}
