package channel

import (
	"errors"

	"gorm.io/gorm"

	"discord-clone/pkg/chat"
)

type ChannelService struct {
	db *gorm.DB
}

func NewChannelService(db *gorm.DB) *ChannelService {
	return &ChannelService{db: db}
}

// CreateChannel adds a channel to a server. Members only.
func (s *ChannelService) CreateChannel(userID, serverID uint, name string) (*chat.Channel, error) {
	if name == "" {
		return nil, errors.New("channel name cannot be empty")
	}

	var server chat.Server
	if err := s.db.First(&server, "id = ?", serverID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.New("server not found")
		}
		return nil, err
	}

	member, err := s.isServerMember(userID, serverID)
	if err != nil {
		return nil, err
	}
	if !member {
		return nil, errors.New("you are not a member of this server")
	}

	channel := chat.Channel{
		Name:     name,
		ServerID: serverID,
	}

	if err := s.db.Create(&channel).Error; err != nil {
		return nil, err
	}

	return &channel, nil
}

func (s *ChannelService) GetServerChannels(userID, serverID uint) ([]chat.Channel, error) {
	member, err := s.isServerMember(userID, serverID)
	if err != nil {
		return nil, err
	}
	if !member {
		return nil, errors.New("you are not a member of this server")
	}

	var channels []chat.Channel
	err = s.db.Where("server_id = ?", serverID).Find(&channels).Error
	return channels, err
}

func (s *ChannelService) GetChannel(channelID uint) (*chat.Channel, error) {
	var channel chat.Channel
	err := s.db.First(&channel, "id = ?", channelID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.New("channel not found")
		}
		return nil, err
	}
	return &channel, nil
}

// DeleteChannel removes a channel and its messages. Server owner only.
func (s *ChannelService) DeleteChannel(userID, channelID uint) error {
	channel, err := s.GetChannel(channelID)
	if err != nil {
		return err
	}

	var server chat.Server
	if err := s.db.First(&server, "id = ?", channel.ServerID).Error; err != nil {
		return err
	}
	if server.OwnerID != userID {
		return errors.New("only server owner can delete channel")
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("channel_id = ?", channelID).Delete(&chat.Message{}).Error; err != nil {
			return err
		}
		return tx.Delete(&chat.Channel{}, "id = ?", channelID).Error
	})
}

func (s *ChannelService) isServerMember(userID, serverID uint) (bool, error) {
	var count int64
	err := s.db.Table("server_members").
		Where("user_id = ? AND server_id = ?", userID, serverID).
		Count(&count).Error
	return count > 0, err
}
