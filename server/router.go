package server

import (
	"net/http"
	"time"

	httpHandler "video-bot/interfaces/http"
	"video-bot/interfaces/middleware"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

func InitiateRouter(
	webhookHandler httpHandler.IWebhookHandler,
	redditAuthHandler httpHandler.IRedditAuthHandler,
	secretKey string,
) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(cors.New(cors.Config{
		AllowMethods:    []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:    []string{"Origin", "Content-Type", "Accept", "Authorization"},
		ExposeHeaders:   []string{"Content-Length"},
		AllowOriginFunc: func(origin string) bool { return true },
		MaxAge:          12 * time.Hour,
	}))

	// Hub-facing webhook. Both verbs share one path: the hub verifies the
	// subscription with GET and delivers notifications with POST.
	router.GET("/youtube/webhook", webhookHandler.VerifyIntent)
	router.POST("/youtube/webhook", webhookHandler.Notify)

	// Operator-facing authorization handshake.
	router.POST("/login", redditAuthHandler.Login)
	router.GET("/reddit/callback", redditAuthHandler.Callback)

	api := router.Group("api")
	api.Use(middleware.Auth(secretKey))
	api.POST("/reddit/authorize", redditAuthHandler.Authorize)

	router.POST("/healthz", func(ctx *gin.Context) {
		ctx.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	return router
}
