package api

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"discord-clone/internal/auth"
	"discord-clone/internal/hub"
	"discord-clone/internal/middleware"
)

type Router struct {
	ah *AuthHandlers
	sh *ServerHandlers
	ch *ChannelHandlers
	mh *MessageHandlers
	qh *SearchHandlers
	lh *AuditHandlers
	uh *UserHandlers
	fh *UploadHandlers
	wh *WebSocketHandlers
	am *auth.AuthMiddleware
}

func NewRouter(db *gorm.DB, h *hub.Hub) *Router {
	return &Router{
		ah: NewAuthHandlers(db),
		sh: NewServerHandlers(db),
		ch: NewChannelHandlers(db),
		mh: NewMessageHandlers(db),
		qh: NewSearchHandlers(db),
		lh: NewAuditHandlers(db),
		uh: NewUserHandlers(db),
		fh: NewUploadHandlers(),
		wh: NewWebSocketHandlers(db, h, auth.TokenVerifier{}),
		am: auth.NewAuthMiddleware(),
	}
}

func (r *Router) RegisterRoutes(router *gin.Engine) {
	strictLimiter := middleware.NewIPRateLimiter(middleware.StrictRateLimit)
	standardLimiter := middleware.NewIPRateLimiter(middleware.StandardRateLimit)

	router.Static("/uploads", uploadDir)

	{
		unprotected := router.Group("/")
		unprotected.Use(middleware.RateLimitMiddleware(strictLimiter))
		unprotected.GET("/hc", HealthCheckHandler)
		unprotected.POST("/register", r.ah.RegisterHandler)
		unprotected.POST("/token", r.ah.LoginHandler)
	}

	// Websocket auth happens inside the handler so rejects use close frames
	router.GET("/ws/:id", r.wh.HandleWebSocket)

	{
		protected := router.Group("/api")
		protected.Use(middleware.RateLimitMiddleware(standardLimiter))
		protected.Use(r.am.RequireAuth())

		protected.GET("/users/me", r.uh.GetMeHandler)
		protected.PATCH("/users/me", r.uh.UpdateMeHandler)

		protected.POST("/servers", r.sh.CreateServerHandler)
		protected.GET("/servers", r.sh.GetUserServersHandler)
		protected.GET("/servers/:id", r.sh.GetServerHandler)
		protected.DELETE("/servers/:id", r.sh.DeleteServerHandler)
		protected.POST("/servers/:id/join", r.sh.JoinServerHandler)
		protected.POST("/servers/:id/leave", r.sh.LeaveServerHandler)
		protected.GET("/servers/:id/members", r.sh.GetServerMembersHandler)
		protected.GET("/servers/:id/audit", r.lh.GetServerAuditLogsHandler)

		protected.POST("/servers/:id/channels", r.ch.CreateChannelHandler)
		protected.GET("/servers/:id/channels", r.ch.GetServerChannelsHandler)
		protected.DELETE("/channels/:id", r.ch.DeleteChannelHandler)
		protected.GET("/channels/:id/messages", r.mh.GetChannelMessagesHandler)
		protected.GET("/channels/:id/stats", r.wh.GetChannelStats)

		protected.GET("/search/messages", r.qh.SearchMessagesHandler)

		protected.POST("/upload", r.fh.UploadHandler)
	}
}

func HealthCheckHandler(c *gin.Context) {
	c.String(200, "Running")
}
