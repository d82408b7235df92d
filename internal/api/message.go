package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"discord-clone/internal/message"
	"discord-clone/pkg/chat"
)

type MessageHandlers struct {
	service *message.MessageService
}

func NewMessageHandlers(db *gorm.DB) *MessageHandlers {
	return &MessageHandlers{
		service: message.NewMessageService(db),
	}
}

type MessageInfo struct {
	ID        uint   `json:"id"`
	Content   string `json:"content"`
	FileURL   string `json:"file_url,omitempty"`
	ChannelID uint   `json:"channel_id"`
	CreatedAt string `json:"created_at"`
	User      struct {
		ID       uint   `json:"id"`
		Username string `json:"username"`
	} `json:"user"`
}

type MessagesResponse struct {
	Messages []MessageInfo `json:"messages"`
}

func toMessageInfo(msg chat.Message) MessageInfo {
	info := MessageInfo{
		ID:        msg.ID,
		Content:   msg.Content,
		FileURL:   msg.FileURL,
		ChannelID: msg.ChannelID,
		CreatedAt: msg.CreatedAt.UTC().Format(time.RFC3339),
	}
	info.User.ID = msg.OwnerID
	info.User.Username = msg.Owner.Username
	return info
}

// GetChannelMessagesHandler retrieves the recent message history for a channel
// @Summary Get channel message history
// @Description Get the most recent messages of a channel in chronological order (members only)
// @Tags Messages
// @Produce json
// @Security Bearer
// @Param id path int true "Channel ID"
// @Success 200 {object} MessagesResponse "Messages retrieved successfully"
// @Failure 401 {object} ErrorResponse "User not authenticated"
// @Failure 403 {object} ErrorResponse "You are not a member of this server"
// @Failure 404 {object} ErrorResponse "Channel not found"
// @Router /api/channels/{id}/messages [get]
func (h *MessageHandlers) GetChannelMessagesHandler(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	channelID, ok := parseIDParam(c, "id")
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Channel ID is required"})
		return
	}

	messages, err := h.service.GetChannelMessages(userID, channelID)
	if err != nil {
		switch err.Error() {
		case "channel not found":
			c.JSON(http.StatusNotFound, gin.H{"error": "Channel not found"})
		case "you are not a member of this server":
			c.JSON(http.StatusForbidden, gin.H{"error": "You are not a member of this server"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve messages"})
		}
		return
	}

	var results []MessageInfo
	for _, msg := range messages {
		results = append(results, toMessageInfo(msg))
	}

	c.JSON(http.StatusOK, MessagesResponse{Messages: results})
}
