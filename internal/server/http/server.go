package http

import (
	"net/http"
	"sync"

	"github.com/Meesho/BharatMLStack/maskfill/internal/config"
	"github.com/Meesho/BharatMLStack/maskfill/pkg/middleware"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

var (
	router *gin.Engine
	once   sync.Once
)

func Init(config config.Configs, predictor Predictor) {
	once.Do(func() {
		router = NewRouter(config.AppEnv, predictor)
	})
}

// NewRouter builds the gin engine serving health and prediction routes
func NewRouter(env string, predictor Predictor) *gin.Engine {
	if env == "prod" || env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	// the logger wraps recovery so it sees the final status
	r.Use(middleware.HTTPLogger())
	r.Use(middleware.HTTPRecovery())

	r.GET("/health/self", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "true"})
	})
	RegisterRoutes(r, predictor)
	return r
}

func Instance() *gin.Engine {
	if router == nil {
		log.Fatal().Msg("Router not initialized")
	}
	return router
}
