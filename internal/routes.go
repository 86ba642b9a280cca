package internal

import (
	"net/http"
	"scd/internal/controllers"
	"scd/internal/providers"
	"scd/internal/structures"
)

func InitRoutes(apiController *controllers.ApiController, conf *structures.Config) providers.RouterProviderInterface {
	routers := providers.NewRouterProvider()

	routers.Post("/send", http.HandlerFunc(apiController.SendProxy))
	routers.Get("/stats/today", http.HandlerFunc(apiController.StatsToday))
	routers.Get("/stats/yesterday", http.HandlerFunc(apiController.StatsYesterday))
	routers.Get("/stats/groups", http.HandlerFunc(apiController.GroupStats))
	return routers
}
