// README: HTTP router registration.
package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"carpark/internal/http/handlers"
	"carpark/internal/http/middleware"
	"carpark/internal/modules/movement"
	"carpark/internal/modules/tariff"
)

type RouterDeps struct {
	Tariff         *tariff.Service
	Movement       *movement.Service
	RateLimitRPS   float64
	RateLimitBurst int
}

func NewRouter(deps RouterDeps) *gin.Engine {
	r := gin.New()
	r.Use(middleware.Logging(), middleware.Recovery())

	api := r.Group("/api", middleware.RateLimit(deps.RateLimitRPS, deps.RateLimitBurst))

	feeHandler := handlers.NewFeeHandler(deps.Tariff)
	api.POST("/fees/calculate", feeHandler.Calculate)

	tariffHandler := handlers.NewTariffHandler(deps.Tariff)
	api.GET("/tariffs/:catalog", tariffHandler.List)
	api.POST("/tariffs/:catalog", tariffHandler.Upsert)
	api.PUT("/tariffs/:catalog/holidays", tariffHandler.SetHolidays)

	movementHandler := handlers.NewMovementHandler(deps.Movement)
	api.POST("/movements/entry", movementHandler.Enter)
	api.POST("/movements/:id/exit", movementHandler.Exit)
	api.GET("/movements/:id", movementHandler.Get)
	api.GET("/occupancy", movementHandler.Occupancy)

	r.GET("/health", func(c *gin.Context) {
		c.String(http.StatusOK, "OK")
	})
	return r
}
