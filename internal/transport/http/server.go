package http

import (
	stdhttp "net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/parleychat/parley-server/internal/auth"
	"github.com/parleychat/parley-server/internal/config"
	"github.com/parleychat/parley-server/internal/core"
	"github.com/parleychat/parley-server/internal/store"
)

// NewServer builds the HTTP server: auth and profile routes, read-only
// room/message mirrors, and the websocket endpoint.
func NewServer(hub *core.Hub, svc *core.Service, authService *auth.Service, st store.Store, cfg *config.Config, logger *zerolog.Logger) *stdhttp.Server {
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery(), LoggerMiddleware(logger))

	router.GET("/health", healthHandler)

	api := NewAPIHandlers(authService, st, logger)
	rooms := NewRoomHandlers(st, logger)

	router.POST("/api/register", api.Register)
	router.POST("/api/login", api.Login)

	authorized := router.Group("/api", AuthMiddleware(authService, logger))
	{
		authorized.GET("/me", api.Me)
		authorized.PUT("/profile", api.UpdateProfile)
		authorized.GET("/rooms", rooms.ListRooms)
		authorized.GET("/rooms/:id/messages", rooms.ListMessages)
		authorized.GET("/rooms/:id/participants", rooms.ListParticipants)
	}

	router.GET("/ws", gin.WrapH(NewWSHandler(hub, svc, authService, st, logger)))

	return &stdhttp.Server{
		Addr:              cfg.Addr,
		Handler:           router,
		ReadHeaderTimeout: cfg.ReadHeaderTimeout,
	}
}

func healthHandler(c *gin.Context) {
	c.String(stdhttp.StatusOK, "ok")
}
