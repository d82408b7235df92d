package api

import (
	"net/http"

	log "github.com/sirupsen/logrus"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"discord-clone/internal/audit"
	"discord-clone/internal/server"
)

type ServerHandlers struct {
	service      *server.ServerService
	auditService *audit.AuditService
}

func NewServerHandlers(db *gorm.DB) *ServerHandlers {
	return &ServerHandlers{
		service:      server.NewServerService(db),
		auditService: audit.NewAuditService(db),
	}
}

type ServerCreateInput struct {
	Name string `json:"name" binding:"required" example:"gaming"`
}

type ServerInfo struct {
	ID      uint   `json:"id"`
	Name    string `json:"name"`
	OwnerID uint   `json:"owner_id"`
}

type ServersResponse struct {
	Servers []ServerInfo `json:"servers"`
}

// CreateServerHandler creates a new server owned by the caller
// @Summary Create a server
// @Description Create a new server, the creator becomes owner and first member
// @Tags Servers
// @Accept json
// @Produce json
// @Security Bearer
// @Param request body ServerCreateInput true "Server creation request"
// @Success 201 {object} ServerInfo "Server created"
// @Failure 400 {object} ErrorResponse "Bad request"
// @Failure 401 {object} ErrorResponse "User not authenticated"
// @Router /api/servers [post]
func (h *ServerHandlers) CreateServerHandler(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	var input ServerCreateInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	srv, err := h.service.CreateServer(userID, input.Name)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.auditService.LogServerCreation(userID, srv.ID, srv.Name); err != nil {
		log.WithFields(log.Fields{"server_id": srv.ID, "error": err.Error()}).Warn("audit log failed")
	}

	c.JSON(http.StatusCreated, ServerInfo{ID: srv.ID, Name: srv.Name, OwnerID: srv.OwnerID})
}

// GetUserServersHandler lists servers the caller belongs to
// @Summary List my servers
// @Tags Servers
// @Produce json
// @Security Bearer
// @Success 200 {object} ServersResponse
// @Failure 401 {object} ErrorResponse "User not authenticated"
// @Router /api/servers [get]
func (h *ServerHandlers) GetUserServersHandler(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	servers, err := h.service.GetUserServers(userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve servers"})
		return
	}

	var results []ServerInfo
	for _, srv := range servers {
		results = append(results, ServerInfo{ID: srv.ID, Name: srv.Name, OwnerID: srv.OwnerID})
	}

	c.JSON(http.StatusOK, ServersResponse{Servers: results})
}

type ChannelInfo struct {
	ID       uint   `json:"id"`
	Name     string `json:"name"`
	ServerID uint   `json:"server_id"`
}

type ServerDetailResponse struct {
	ID       uint          `json:"id"`
	Name     string        `json:"name"`
	OwnerID  uint          `json:"owner_id"`
	Channels []ChannelInfo `json:"channels"`
}

// GetServerHandler retrieves one server with its channels
// @Summary Get a server
// @Tags Servers
// @Produce json
// @Security Bearer
// @Param id path int true "Server ID"
// @Success 200 {object} ServerDetailResponse
// @Failure 403 {object} ErrorResponse "You are not a member of this server"
// @Failure 404 {object} ErrorResponse "Server not found"
// @Router /api/servers/{id} [get]
func (h *ServerHandlers) GetServerHandler(c *gin.Context) {
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

	srv, err := h.service.GetServer(userID, serverID)
	if err != nil {
		switch err.Error() {
		case "server not found":
			c.JSON(http.StatusNotFound, gin.H{"error": "Server not found"})
		case "you are not a member of this server":
			c.JSON(http.StatusForbidden, gin.H{"error": "You are not a member of this server"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve server"})
		}
		return
	}

	response := ServerDetailResponse{ID: srv.ID, Name: srv.Name, OwnerID: srv.OwnerID}
	for _, ch := range srv.Channels {
		response.Channels = append(response.Channels, ChannelInfo{ID: ch.ID, Name: ch.Name, ServerID: ch.ServerID})
	}

	c.JSON(http.StatusOK, response)
}

// JoinServerHandler adds the caller to a server
// @Summary Join a server
// @Tags Servers
// @Produce json
// @Security Bearer
// @Param id path int true "Server ID"
// @Success 200 {object} map[string]string "Joined"
// @Failure 400 {object} ErrorResponse "Bad request"
// @Router /api/servers/{id}/join [post]
func (h *ServerHandlers) JoinServerHandler(c *gin.Context) {
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

	if err := h.service.JoinServer(userID, serverID); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.auditService.LogServerJoin(userID, serverID); err != nil {
		log.WithFields(log.Fields{"server_id": serverID, "error": err.Error()}).Warn("audit log failed")
	}

	c.JSON(http.StatusOK, gin.H{"message": "Joined server"})
}

// LeaveServerHandler removes the caller from a server
// @Summary Leave a server
// @Tags Servers
// @Produce json
// @Security Bearer
// @Param id path int true "Server ID"
// @Success 200 {object} map[string]string "Left"
// @Failure 400 {object} ErrorResponse "Bad request"
// @Router /api/servers/{id}/leave [post]
func (h *ServerHandlers) LeaveServerHandler(c *gin.Context) {
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

	if err := h.service.LeaveServer(userID, serverID); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.auditService.LogServerLeave(userID, serverID); err != nil {
		log.WithFields(log.Fields{"server_id": serverID, "error": err.Error()}).Warn("audit log failed")
	}

	c.JSON(http.StatusOK, gin.H{"message": "Left server"})
}

// DeleteServerHandler deletes a server and all its content, owner only
// @Summary Delete a server
// @Tags Servers
// @Produce json
// @Security Bearer
// @Param id path int true "Server ID"
// @Success 200 {object} map[string]string "Deleted"
// @Failure 403 {object} ErrorResponse "Only the owner can delete a server"
// @Router /api/servers/{id} [delete]
func (h *ServerHandlers) DeleteServerHandler(c *gin.Context) {
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

	srv, err := h.service.GetServer(userID, serverID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Server not found"})
		return
	}

	if err := h.service.DeleteServer(userID, serverID); err != nil {
		c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
		return
	}

	if err := h.auditService.LogServerDeletion(userID, serverID, srv.Name); err != nil {
		log.WithFields(log.Fields{"server_id": serverID, "error": err.Error()}).Warn("audit log failed")
	}

	c.JSON(http.StatusOK, gin.H{"message": "Server deleted"})
}

type MemberInfo struct {
	ID       uint   `json:"id"`
	Username string `json:"username"`
}

type MembersResponse struct {
	Members []MemberInfo `json:"members"`
}

// GetServerMembersHandler lists a server's members
// @Summary List server members
// @Tags Servers
// @Produce json
// @Security Bearer
// @Param id path int true "Server ID"
// @Success 200 {object} MembersResponse
// @Failure 403 {object} ErrorResponse "You are not a member of this server"
// @Router /api/servers/{id}/members [get]
func (h *ServerHandlers) GetServerMembersHandler(c *gin.Context) {
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

	members, err := h.service.GetServerMembers(userID, serverID)
	if err != nil {
		switch err.Error() {
		case "server not found":
			c.JSON(http.StatusNotFound, gin.H{"error": "Server not found"})
		case "you are not a member of this server":
			c.JSON(http.StatusForbidden, gin.H{"error": "You are not a member of this server"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve members"})
		}
		return
	}

	var results []MemberInfo
	for _, member := range members {
		results = append(results, MemberInfo{ID: member.ID, Username: member.Username})
	}

	c.JSON(http.StatusOK, MembersResponse{Members: results})
}
