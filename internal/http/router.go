package httpapi

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/rotorops/fleetboard/internal/config"
	"github.com/rotorops/fleetboard/internal/db"
	"github.com/rotorops/fleetboard/internal/http/handlers"
	"github.com/rotorops/fleetboard/internal/http/middleware"
	"github.com/rotorops/fleetboard/internal/service"

	_ "github.com/rotorops/fleetboard/docs"
)

func Router(cfg config.Config, rf *service.Refresher, store *db.Store, logger zerolog.Logger) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger(logger))

	corsCfg := cors.Config{
		AllowMethods:     []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "X-Admin-Key", "X-Request-Id"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	if cfg.CORSAllowed == "*" {
		corsCfg.AllowAllOrigins = true
	} else {
		corsCfg.AllowOrigins = []string{cfg.CORSAllowed}
	}
	r.Use(cors.New(corsCfg))

	h := &handlers.Handler{
		Refresher: rf,
		Archive:   store,
		Logger:    logger,
	}

	r.GET("/healthz", h.Healthz)

	api := r.Group("/api")
	{
		api.GET("/dashboard", h.Dashboard)
		api.GET("/aircraft", h.AircraftList)
		api.GET("/aircraft/:tail", h.AircraftDetails)
		api.GET("/aircraft/:tail/trend", h.AircraftTrend)
		api.GET("/components", h.Components)
		api.GET("/due-sheet", h.DueSheet)
		api.GET("/runs", h.RunsList)
		api.GET("/runs/latest", h.RunsLatest)
	}

	admin := api.Group("")
	admin.Use(middleware.AdminKey(cfg.AdminKey))
	{
		admin.POST("/refresh", h.Refresh)
	}

	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	return r
}
