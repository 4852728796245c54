package router

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"go.uber.org/zap"

	"github.com/jadamsuryateja/feedback-console/config"
	"github.com/jadamsuryateja/feedback-console/internal/api/handler"
	"github.com/jadamsuryateja/feedback-console/internal/api/middleware"
	"github.com/jadamsuryateja/feedback-console/internal/model"
	"github.com/jadamsuryateja/feedback-console/internal/service"
	"github.com/jadamsuryateja/feedback-console/internal/validate"
	"github.com/jadamsuryateja/feedback-console/pkg/redis"
)

// Setup builds the gin engine. rdb may be nil.
func Setup(cfg *config.Config, h *handler.Handler, authSvc service.AuthService, rdb *redis.Client, logger *zap.Logger) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	binding.Validator = validate.NewBindingValidator()

	r := gin.New()

	// ── global middleware ──
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger(logger))
	r.Use(middleware.SecurityHeaders())
	r.Use(middleware.CORS(cfg.Server.CORS.AllowOrigins))
	r.Use(middleware.BodyLimit(cfg.Server.BodyLimit))

	// ── health ──
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// ── API v1 ──
	v1 := r.Group("/api/v1")
	{
		// public
		v1.POST("/auth/login",
			middleware.RateLimit(rdb, cfg.Auth.LoginRateLimit, cfg.Auth.LoginRateWindow, logger),
			h.Auth.Login)
		v1.POST("/feedback/submit", h.Feedback.Submit)
		v1.GET("/configs/title/:title", h.Config.GetByTitle)

		authorized := v1.Group("")
		authorized.Use(middleware.JWTAuth(authSvc))
		{
			authorized.POST("/auth/logout", h.Auth.Logout)
			authorized.GET("/auth/me", h.Auth.Me)

			configs := authorized.Group("/configs")
			{
				configs.POST("/validate", h.Config.Validate)
				configs.GET("", h.Config.List)
				configs.POST("", h.Config.Create)
				configs.PUT("/:id", h.Config.Update)
				configs.DELETE("/:id", h.Config.Delete)
			}

			feedback := authorized.Group("/feedback")
			{
				feedback.GET("/summary", h.Feedback.Summary)
				feedback.GET("/responses", h.Feedback.Responses)
				feedback.GET("/report", h.Feedback.Report)
			}

			authorized.GET("/activity", middleware.RoleAuth(model.RoleAdmin), h.Activity.List)
			authorized.GET("/ws", h.WS.Serve)
		}
	}

	return r
}
