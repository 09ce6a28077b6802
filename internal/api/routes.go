package api

import (
	"github.com/gin-gonic/gin"
)

func SetupRoutes(router *gin.Engine, handler *Handler) {
	api := router.Group("/api")
	{
		api.GET("/market-report", handler.GetMarketReport)
		api.GET("/pace-report", handler.GetPaceReport)
		api.GET("/outlook", handler.GetOutlook)
		api.GET("/pacing/:hotel_id", handler.GetPacingStatus)
		api.GET("/portfolio", handler.GetPortfolio)
		api.POST("/scrape", handler.RunScraper)
		api.POST("/update-coordinates", handler.UpdateCoordinates)
		api.GET("/markets.geojson", handler.GetMarketsGeoJSON)
		api.GET("/telegram-config", handler.GetTelegramConfig)
		api.POST("/telegram-config", handler.UpdateTelegramConfig)
	}
}
