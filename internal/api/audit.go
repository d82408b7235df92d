package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"discord-clone/internal/audit"
)

type AuditHandlers struct {
	service *audit.AuditService
}

func NewAuditHandlers(db *gorm.DB) *AuditHandlers {
	return &AuditHandlers{
		service: audit.NewAuditService(db),
	}
}

type AuditLogInfo struct {
	ID          uint   `json:"id"`
	Action      string `json:"action"`
	ActorID     uint   `json:"actor_id"`
	Actor       string `json:"actor"`
	Description string `json:"description"`
	Metadata    string `json:"metadata,omitempty"`
	CreatedAt   string `json:"created_at"`
}

type AuditLogsResponse struct {
	Logs  []AuditLogInfo `json:"logs"`
	Total int64          `json:"total"`
}

// GetServerAuditLogsHandler retrieves a server's audit trail
// @Summary Get server audit logs
// @Description Get the audit trail of a server, newest first (owner only)
// @Tags Audit
// @Produce json
// @Security Bearer
// @Param id path int true "Server ID"
// @Param limit query int false "Number of entries to return (default: 50, max: 100)"
// @Param offset query int false "Number of entries to skip (default: 0)"
// @Success 200 {object} AuditLogsResponse "Audit logs retrieved"
// @Failure 401 {object} ErrorResponse "User not authenticated"
// @Failure 404 {object} ErrorResponse "Server not found"
// @Router /api/servers/{id}/audit [get]
func (h *AuditHandlers) GetServerAuditLogsHandler(c *gin.Context) {
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

	limitStr := c.DefaultQuery("limit", "50")
	limit, err := strconv.Atoi(limitStr)
	if err != nil || limit <= 0 {
		limit = 50
	}
	if limit > 100 {
		limit = 100
	}

	offsetStr := c.DefaultQuery("offset", "0")
	offset, err := strconv.Atoi(offsetStr)
	if err != nil || offset < 0 {
		offset = 0
	}

	logs, total, err := h.service.GetServerAuditLogs(userID, serverID, limit, offset)
	if err != nil {
		// Non-owners get the same response as a missing server
		c.JSON(http.StatusNotFound, gin.H{"error": "Server not found"})
		return
	}

	var results []AuditLogInfo
	for _, entry := range logs {
		results = append(results, AuditLogInfo{
			ID:          entry.ID,
			Action:      entry.Action,
			ActorID:     entry.ActorID,
			Actor:       entry.Actor.Username,
			Description: entry.Description,
			Metadata:    entry.Metadata,
			CreatedAt:   entry.CreatedAt.UTC().Format(time.RFC3339),
		})
	}

	c.JSON(http.StatusOK, AuditLogsResponse{Logs: results, Total: total})
}
