package api

import (
	"net/http"

	log "github.com/sirupsen/logrus"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"discord-clone/internal/audit"
	"discord-clone/internal/channel"
)

type ChannelHandlers struct {
	service      *channel.ChannelService
	auditService *audit.AuditService
}

func NewChannelHandlers(db *gorm.DB) *ChannelHandlers {
	return &ChannelHandlers{
		service:      channel.NewChannelService(db),
		auditService: audit.NewAuditService(db),
	}
}

type ChannelCreateInput struct {
	Name string `json:"name" binding:"required" example:"general"`
}

type ChannelsResponse struct {
	Channels []ChannelInfo `json:"channels"`
}

// CreateChannelHandler creates a channel inside a server
// @Summary Create a channel
// @Description Create a new channel in a server (members only)
// @Tags Channels
// @Accept json
// @Produce json
// @Security Bearer
// @Param id path int true "Server ID"
// @Param request body ChannelCreateInput true "Channel creation request"
// @Success 201 {object} ChannelInfo "Channel created"
// @Failure 400 {object} ErrorResponse "Bad request"
// @Router /api/servers/{id}/channels [post]
func (h *ChannelHandlers) CreateChannelHandler(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	serverID, ok := parseIDParam(c, "id")
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Server ID is required"})
		return
	}

	var input ChannelCreateInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ch, err := h.service.CreateChannel(userID, serverID, input.Name)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.auditService.LogChannelCreation(userID, serverID, ch.ID, ch.Name); err != nil {
		log.WithFields(log.Fields{"channel_id": ch.ID, "error": err.Error()}).Warn("audit log failed")
	}

	c.JSON(http.StatusCreated, ChannelInfo{ID: ch.ID, Name: ch.Name, ServerID: ch.ServerID})
}

// GetServerChannelsHandler lists a server's channels
// @Summary List channels
// @Tags Channels
// @Produce json
// @Security Bearer
// @Param id path int true "Server ID"
// @Success 200 {object} ChannelsResponse
// @Failure 403 {object} ErrorResponse "You are not a member of this server"
// @Router /api/servers/{id}/channels [get]
func (h *ChannelHandlers) GetServerChannelsHandler(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	serverID, ok := parseIDParam(c, "id")
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Server ID is required"})
		return
	}

	channels, err := h.service.GetServerChannels(userID, serverID)
	if err != nil {
		switch err.Error() {
		case "server not found":
			c.JSON(http.StatusNotFound, gin.H{"error": "Server not found"})
		case "you are not a member of this server":
			c.JSON(http.StatusForbidden, gin.H{"error": "You are not a member of this server"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve channels"})
		}
		return
	}

	var results []ChannelInfo
	for _, ch := range channels {
		results = append(results, ChannelInfo{ID: ch.ID, Name: ch.Name, ServerID: ch.ServerID})
	}

	c.JSON(http.StatusOK, ChannelsResponse{Channels: results})
}

// DeleteChannelHandler deletes a channel and its messages, server owner only
// @Summary Delete a channel
// @Tags Channels
// @Produce json
// @Security Bearer
// @Param id path int true "Channel ID"
// @Success 200 {object} map[string]string "Deleted"
// @Failure 403 {object} ErrorResponse "Only the server owner can delete channels"
// @Router /api/channels/{id} [delete]
func (h *ChannelHandlers) DeleteChannelHandler(c *gin.Context) {
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

	ch, err := h.service.GetChannel(channelID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Channel not found"})
		return
	}

	if err := h.service.DeleteChannel(userID, channelID); err != nil {
		c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
		return
	}

	if err := h.auditService.LogChannelDeletion(userID, ch.ServerID, channelID, ch.Name); err != nil {
		log.WithFields(log.Fields{"channel_id": channelID, "error": err.Error()}).Warn("audit log failed")
	}

	c.JSON(http.StatusOK, gin.H{"message": "Channel deleted"})
}
