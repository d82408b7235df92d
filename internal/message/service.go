package message

import (
	"errors"

	"gorm.io/gorm"

	"discord-clone/internal/hub"
	"discord-clone/pkg/chat"
)

// HistoryLimit is how far back the initial load reaches. There is no replay
// protocol beyond this fetch.
const HistoryLimit = 50

type MessageService struct {
	db *gorm.DB
}

func NewMessageService(db *gorm.DB) *MessageService {
	return &MessageService{db: db}
}

// Persist implements the hub's persistence gateway: store the message, hand
// back the assigned id and server timestamp. The hub calls this before any
// broadcast, so a failure here means nobody saw the message.
func (s *MessageService) Persist(channelID, userID uint, content, fileURL string) (hub.StoredMessage, error) {
	msg := chat.Message{
		Content:   content,
		FileURL:   fileURL,
		ChannelID: channelID,
		OwnerID:   userID,
	}

	if err := s.db.Create(&msg).Error; err != nil {
		return hub.StoredMessage{}, err
	}

	return hub.StoredMessage{ID: msg.ID, Timestamp: msg.CreatedAt}, nil
}

// GetChannelMessages returns the most recent messages for the initial load,
// oldest first, capped at HistoryLimit. Only members of the channel's
// server may read history.
func (s *MessageService) GetChannelMessages(userID, channelID uint) ([]chat.Message, error) {
	var channel chat.Channel
	if err := s.db.First(&channel, "id = ?", channelID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.New("channel not found")
		}
		return nil, err
	}

	member, err := s.isServerMember(userID, channel.ServerID)
	if err != nil {
		return nil, err
	}
	if !member {
		return nil, errors.New("you are not a member of this server")
	}

	var messages []chat.Message
	err = s.db.Preload("Owner").
		Where("channel_id = ?", channelID).
		Order("created_at DESC").
		Limit(HistoryLimit).
		Find(&messages).Error
	if err != nil {
		return nil, err
	}

	// Reverse into chronological order for display.
	for i, j := 0, len(messages)-1; i < j; i, j = i+1, j-1 {
		messages[i], messages[j] = messages[j], messages[i]
	}

	return messages, nil
}

func (s *MessageService) isServerMember(userID, serverID uint) (bool, error) {
	var count int64
	err := s.db.Table("server_members").
		Where("user_id = ? AND server_id = ?", userID, serverID).
		Count(&count).Error
	return count > 0, err
}
