package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"discord-clone/internal/channel"
	"discord-clone/internal/hub"
	"discord-clone/internal/server"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

type WebSocketHandlers struct {
	hub            *hub.Hub
	verifier       hub.Verifier
	channelService *channel.ChannelService
	serverService  *server.ServerService
}

func NewWebSocketHandlers(db *gorm.DB, h *hub.Hub, verifier hub.Verifier) *WebSocketHandlers {
	return &WebSocketHandlers{
		hub:            h,
		verifier:       verifier,
		channelService: channel.NewChannelService(db),
		serverService:  server.NewServerService(db),
	}
}

// HandleWebSocket upgrades the connection and joins the caller to a channel.
// Authentication happens after the upgrade so failures can be reported with a
// websocket close frame instead of a plain HTTP status.
// @Summary WebSocket connection endpoint
// @Description Upgrade HTTP connection to WebSocket for real-time chat in a channel
// @Tags websocket
// @Param id path int true "Channel ID"
// @Param token query string true "JWT access token"
// @Success 101 {string} string "Switching Protocols"
// @Failure 400 {object} ErrorResponse "Bad Request"
// @Router /ws/{id} [get]
func (h *WebSocketHandlers) HandleWebSocket(c *gin.Context) {
	channelID, ok := parseIDParam(c, "id")
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Channel ID is required"})
		return
	}

	ws, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.WithFields(log.Fields{"error": err.Error()}).Warn("websocket upgrade failed")
		return
	}

	conn := hub.NewConnection(channelID, ws)

	identity, err := h.verifier.Verify(c.Query("token"))
	if err != nil {
		conn.Reject("invalid or missing token")
		return
	}

	ch, err := h.channelService.GetChannel(channelID)
	if err != nil {
		conn.Reject("channel not found")
		return
	}

	member, err := h.serverService.IsMember(identity.UserID, ch.ServerID)
	if err != nil || !member {
		conn.Reject("not a member of this server")
		return
	}

	conn.Authenticate(identity)

	log.WithFields(log.Fields{
		"user":    identity.Username,
		"channel": channelID,
	}).Info("websocket connected")

	h.hub.Session(channelID).Register(conn)

	go conn.WritePump()
	conn.ReadPump()
}

type ChannelConnectionStatsResponse struct {
	ChannelID      uint     `json:"channel_id"`
	TotalUsers     int      `json:"total_users"`
	ConnectedUsers []string `json:"connected_users"`
	ServerTime     string   `json:"server_time"`
}

// GetChannelStats reports who is currently connected to a channel
// @Summary Get channel connection stats
// @Description Get the connected members of a channel (server members only)
// @Tags websocket
// @Security Bearer
// @Param id path int true "Channel ID"
// @Produce json
// @Success 200 {object} ChannelConnectionStatsResponse
// @Failure 403 {object} ErrorResponse "You are not a member of this server"
// @Failure 404 {object} ErrorResponse "Channel not found"
// @Router /api/channels/{id}/stats [get]
func (h *WebSocketHandlers) GetChannelStats(c *gin.Context) {
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

	ch, err := h.channelService.GetChannel(channelID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Channel not found"})
		return
	}

	member, err := h.serverService.IsMember(userID, ch.ServerID)
	if err != nil || !member {
		c.JSON(http.StatusForbidden, gin.H{"error": "You are not a member of this server"})
		return
	}

	session := h.hub.Session(channelID)
	c.JSON(http.StatusOK, ChannelConnectionStatsResponse{
		ChannelID:      channelID,
		TotalUsers:     session.MemberCount(),
		ConnectedUsers: session.Members(),
		ServerTime:     time.Now().UTC().Format(time.RFC3339),
	})
}
