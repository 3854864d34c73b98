package http

import (
	"github.com/gin-gonic/gin"

	httpH "github.com/deloreyj/conversa/internal/http/handlers"
	httpMW "github.com/deloreyj/conversa/internal/http/middleware"
	"github.com/deloreyj/conversa/internal/pkg/logger"
)

type RouterConfig struct {
	Log *logger.Logger

	GenerationHandler *httpH.GenerationHandler
	PackHandler       *httpH.PackHandler
	HealthHandler     *httpH.HealthHandler
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	r := gin.Default()
	r.Use(httpMW.CORS())
	if cfg.Log != nil {
		r.Use(httpMW.RequestLogger(cfg.Log))
	}

	// Health
	if cfg.HealthHandler != nil {
		r.GET("/healthcheck", cfg.HealthHandler.HealthCheck)
	}

	api := r.Group("/api")
	{
		if cfg.GenerationHandler != nil {
			api.POST("/packs/generate", cfg.GenerationHandler.Generate)
			api.GET("/generations/:id", cfg.GenerationHandler.GetStatus)
		}

		if cfg.PackHandler != nil {
			api.GET("/packs", cfg.PackHandler.ListPacks)
			api.GET("/packs/:id", cfg.PackHandler.GetPack)
			api.GET("/packs/slug/:slug", cfg.PackHandler.GetPackBySlug)
			api.POST("/packs/:id/cards", cfg.PackHandler.AppendCards)
			api.DELETE("/packs/:id", cfg.PackHandler.DeletePack)
		}
	}

	return r
}
