package server

import (
	"errors"

	"gorm.io/gorm"

	"discord-clone/pkg/chat"
)

type ServerService struct {
	db *gorm.DB
}

func NewServerService(db *gorm.DB) *ServerService {
	return &ServerService{db: db}
}

// CreateServer makes the creator the owner and first member.
func (s *ServerService) CreateServer(ownerID uint, name string) (*chat.Server, error) {
	if name == "" {
		return nil, errors.New("server name cannot be empty")
	}

	var owner chat.User
	if err := s.db.First(&owner, "id = ?", ownerID).Error; err != nil {
		return nil, err
	}

	server := chat.Server{
		Name:    name,
		OwnerID: ownerID,
		Members: []*chat.User{&owner},
	}

	if err := s.db.Create(&server).Error; err != nil {
		return nil, err
	}

	return &server, nil
}

// GetUserServers lists the servers the user is a member of.
func (s *ServerService) GetUserServers(userID uint) ([]chat.Server, error) {
	var servers []chat.Server
	err := s.db.Joins("JOIN server_members ON servers.id = server_members.server_id").
		Where("server_members.user_id = ?", userID).
		Find(&servers).Error
	return servers, err
}

// GetServer returns one server with its channels, members only.
func (s *ServerService) GetServer(userID, serverID uint) (*chat.Server, error) {
	var server chat.Server
	err := s.db.Preload("Channels").First(&server, "id = ?", serverID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.New("server not found")
		}
		return nil, err
	}

	member, err := s.IsMember(userID, serverID)
	if err != nil {
		return nil, err
	}
	if !member {
		return nil, errors.New("you are not a member of this server")
	}

	return &server, nil
}

func (s *ServerService) JoinServer(userID, serverID uint) error {
	var server chat.Server
	if err := s.db.First(&server, "id = ?", serverID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return errors.New("server not found")
		}
		return err
	}

	member, err := s.IsMember(userID, serverID)
	if err != nil {
		return err
	}
	if member {
		return errors.New("user already in server")
	}

	var user chat.User
	if err := s.db.First(&user, "id = ?", userID).Error; err != nil {
		return err
	}

	return s.db.Model(&server).Association("Members").Append(&user)
}

func (s *ServerService) LeaveServer(userID, serverID uint) error {
	var server chat.Server
	if err := s.db.First(&server, "id = ?", serverID).Error; err != nil {
		return err
	}
	if server.OwnerID == userID {
		return errors.New("server owner cannot leave server")
	}

	member, err := s.IsMember(userID, serverID)
	if err != nil {
		return err
	}
	if !member {
		return errors.New("you are not a member of this server")
	}

	var user chat.User
	if err := s.db.First(&user, "id = ?", userID).Error; err != nil {
		return err
	}

	return s.db.Model(&server).Association("Members").Delete(&user)
}

// DeleteServer removes the server, its channels, their messages, and the
// membership rows. Owner only.
func (s *ServerService) DeleteServer(userID, serverID uint) error {
	var server chat.Server
	if err := s.db.First(&server, "id = ?", serverID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return errors.New("server not found")
		}
		return err
	}

	if server.OwnerID != userID {
		return errors.New("only server owner can delete server")
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		var channelIDs []uint
		if err := tx.Model(&chat.Channel{}).Where("server_id = ?", serverID).Pluck("id", &channelIDs).Error; err != nil {
			return err
		}
		if len(channelIDs) > 0 {
			if err := tx.Where("channel_id IN ?", channelIDs).Delete(&chat.Message{}).Error; err != nil {
				return err
			}
		}
		if err := tx.Where("server_id = ?", serverID).Delete(&chat.Channel{}).Error; err != nil {
			return err
		}
		if err := tx.Model(&server).Association("Members").Clear(); err != nil {
			return err
		}
		return tx.Delete(&server).Error
	})
}

func (s *ServerService) GetServerMembers(userID, serverID uint) ([]chat.User, error) {
	member, err := s.IsMember(userID, serverID)
	if err != nil {
		return nil, err
	}
	if !member {
		return nil, errors.New("you are not a member of this server")
	}

	var users []chat.User
	err = s.db.Joins("JOIN server_members ON users.id = server_members.user_id").
		Where("server_members.server_id = ?", serverID).
		Find(&users).Error
	return users, err
}

func (s *ServerService) IsMember(userID, serverID uint) (bool, error) {
	var count int64
	err := s.db.Table("server_members").
		Where("user_id = ? AND server_id = ?", userID, serverID).
		Count(&count).Error
	return count > 0, err
}
