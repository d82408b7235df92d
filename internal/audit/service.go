package audit

import (
	"encoding/json"

	"gorm.io/gorm"

	"discord-clone/pkg/chat"
)

type AuditService struct {
	db *gorm.DB
}

func NewAuditService(db *gorm.DB) *AuditService {
	return &AuditService{db: db}
}

// Action constants for audit logging
const (
	ActionCreateServer  = "CREATE_SERVER"
	ActionDeleteServer  = "DELETE_SERVER"
	ActionJoinServer    = "JOIN_SERVER"
	ActionLeaveServer   = "LEAVE_SERVER"
	ActionCreateChannel = "CREATE_CHANNEL"
	ActionDeleteChannel = "DELETE_CHANNEL"
)

type AuditMetadata struct {
	ServerName  string `json:"server_name,omitempty"`
	ChannelName string `json:"channel_name,omitempty"`
}

func (s *AuditService) log(action string, actorID uint, serverID, channelID *uint, description string, metadata AuditMetadata) error {
	metadataJSON, _ := json.Marshal(metadata)

	auditLog := chat.AuditLog{
		Action:      action,
		ActorID:     actorID,
		ServerID:    serverID,
		ChannelID:   channelID,
		Description: description,
		Metadata:    string(metadataJSON),
	}

	return s.db.Create(&auditLog).Error
}

func (s *AuditService) LogServerCreation(actorID, serverID uint, serverName string) error {
	return s.log(ActionCreateServer, actorID, &serverID, nil,
		"Created server '"+serverName+"'", AuditMetadata{ServerName: serverName})
}

func (s *AuditService) LogServerDeletion(actorID, serverID uint, serverName string) error {
	return s.log(ActionDeleteServer, actorID, &serverID, nil,
		"Deleted server '"+serverName+"'", AuditMetadata{ServerName: serverName})
}

func (s *AuditService) LogServerJoin(actorID, serverID uint) error {
	return s.log(ActionJoinServer, actorID, &serverID, nil, "Joined server", AuditMetadata{})
}

func (s *AuditService) LogServerLeave(actorID, serverID uint) error {
	return s.log(ActionLeaveServer, actorID, &serverID, nil, "Left server", AuditMetadata{})
}

func (s *AuditService) LogChannelCreation(actorID, serverID, channelID uint, channelName string) error {
	return s.log(ActionCreateChannel, actorID, &serverID, &channelID,
		"Created channel '"+channelName+"'", AuditMetadata{ChannelName: channelName})
}

func (s *AuditService) LogChannelDeletion(actorID, serverID, channelID uint, channelName string) error {
	return s.log(ActionDeleteChannel, actorID, &serverID, &channelID,
		"Deleted channel '"+channelName+"'", AuditMetadata{ChannelName: channelName})
}

// GetServerAuditLogs retrieves a server's audit trail, owner only.
func (s *AuditService) GetServerAuditLogs(requestorID, serverID uint, limit, offset int) ([]chat.AuditLog, int64, error) {
	var server chat.Server
	if err := s.db.Where("id = ?", serverID).First(&server).Error; err != nil {
		return nil, 0, err
	}

	if server.OwnerID != requestorID {
		return nil, 0, gorm.ErrRecordNotFound
	}

	var total int64
	if err := s.db.Model(&chat.AuditLog{}).Where("server_id = ?", serverID).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var logs []chat.AuditLog
	err := s.db.Preload("Actor").
		Where("server_id = ?", serverID).
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&logs).Error

	return logs, total, err
}
