package services

import (
	"github.com/anjiri1684/estate_market/database"
	"github.com/anjiri1684/estate_market/models"
)

// ChatService is the persistence side of the realtime core: conversation
// lookups, message writes and read-flag flips.
type ChatService struct{}

func NewChatService() *ChatService {
	return &ChatService{}
}

func (s *ChatService) Conversation(id uint) (*models.Conversation, error) {
	var conversation models.Conversation
	if err := database.DB.First(&conversation, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &conversation, nil
}

// UserConversationIDs lists every conversation the user occupies a participant
// slot in, used for the auto-subscribe on connect.
func (s *ChatService) UserConversationIDs(userID uint) ([]uint, error) {
	var ids []uint
	err := database.DB.Model(&models.Conversation{}).
		Where("owner_id = ? OR counterpart_id = ? OR mediator_id = ?", userID, userID, userID).
		Pluck("id", &ids).Error
	return ids, err
}

func (s *ChatService) SaveMessage(conversationID, senderID uint, content string) (*models.Message, error) {
	message := models.Message{
		ConversationID: conversationID,
		SenderID:       senderID,
		Content:        content,
	}
	if err := database.DB.Create(&message).Error; err != nil {
		return nil, err
	}
	return &message, nil
}

func (s *ChatService) MarkMessagesRead(ids []uint) error {
	if len(ids) == 0 {
		return nil
	}
	return database.DB.Model(&models.Message{}).
		Where("id IN ?", ids).
		Update("is_read", true).Error
}
