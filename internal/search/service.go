package search

import (
	"errors"
	"strings"

	"gorm.io/gorm"

	"discord-clone/pkg/chat"
)

type SearchService struct {
	db *gorm.DB
}

func NewSearchService(db *gorm.DB) *SearchService {
	return &SearchService{db: db}
}

// SearchMessages finds messages in a channel matching query, newest first.
// Only members of the channel's server may search it.
func (s *SearchService) SearchMessages(searcherID, channelID uint, query string, limit int) ([]chat.Message, int64, error) {
	var channel chat.Channel
	if err := s.db.First(&channel, "id = ?", channelID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, 0, errors.New("channel not found")
		}
		return nil, 0, err
	}

	var membership int64
	err := s.db.Table("server_members").
		Where("user_id = ? AND server_id = ?", searcherID, channel.ServerID).
		Count(&membership).Error
	if err != nil {
		return nil, 0, err
	}
	if membership == 0 {
		return nil, 0, errors.New("you are not a member of this server")
	}

	likeQuery := "%" + strings.ToLower(query) + "%"

	var total int64
	countQuery := s.db.Model(&chat.Message{}).Where("channel_id = ? AND LOWER(content) LIKE ?", channelID, likeQuery)
	if err := countQuery.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var messages []chat.Message
	searchQuery := s.db.Preload("Owner").
		Where("channel_id = ? AND LOWER(content) LIKE ?", channelID, likeQuery).
		Order("created_at DESC").
		Limit(limit)

	if err := searchQuery.Find(&messages).Error; err != nil {
		return nil, 0, err
	}

	return messages, total, nil
}
