package api

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"discord-clone/internal/search"
)

type SearchHandlers struct {
	service *search.SearchService
}

func NewSearchHandlers(db *gorm.DB) *SearchHandlers {
	return &SearchHandlers{
		service: search.NewSearchService(db),
	}
}

type MessagesSearchResponse struct {
	Messages []MessageInfo `json:"messages"`
	Total    int64         `json:"total"`
}

// SearchMessagesHandler searches for messages in a channel
// @Summary Search messages
// @Description Search for messages within a specific channel (members only)
// @Tags Search
// @Produce json
// @Security Bearer
// @Param q query string true "Search query (minimum 2 characters)"
// @Param channel_id query int true "Channel ID to search within"
// @Param limit query int false "Number of results to return (default: 20, max: 50)"
// @Success 200 {object} MessagesSearchResponse "Messages found"
// @Failure 400 {object} ErrorResponse "Bad request - invalid query or channel_id"
// @Failure 401 {object} ErrorResponse "User not authenticated"
// @Failure 403 {object} ErrorResponse "You are not a member of this server"
// @Failure 404 {object} ErrorResponse "Channel not found"
// @Router /api/search/messages [get]
func (h *SearchHandlers) SearchMessagesHandler(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	query := strings.TrimSpace(c.Query("q"))
	if len(query) < 2 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Search query is required"})
		return
	}

	channelIDRaw, err := strconv.ParseUint(strings.TrimSpace(c.Query("channel_id")), 10, 32)
	if err != nil || channelIDRaw == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Channel ID is required"})
		return
	}
	channelID := uint(channelIDRaw)

	limitStr := c.DefaultQuery("limit", "20")
	limit, err := strconv.Atoi(limitStr)
	if err != nil || limit <= 0 {
		limit = 20
	}
	if limit > 50 {
		limit = 50
	}

	messages, total, err := h.service.SearchMessages(userID, channelID, query, limit)
	if err != nil {
		switch err.Error() {
		case "channel not found":
			c.JSON(http.StatusNotFound, gin.H{"error": "Channel not found"})
		case "you are not a member of this server":
			c.JSON(http.StatusForbidden, gin.H{"error": "You are not a member of this server"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to search messages"})
		}
		return
	}

	var results []MessageInfo
	for _, msg := range messages {
		results = append(results, toMessageInfo(msg))
	}

	c.JSON(http.StatusOK, MessagesSearchResponse{
		Messages: results,
		Total:    total,
	})
}
