package internal

import (
	"net/http"

	"sprintd/internal/controllers"
	"sprintd/internal/providers"
)

func InitRoutes(apiController *controllers.ApiController) providers.RouterProviderInterface {
	routers := providers.NewRouterProvider()

	routers.Get("/api/timeline", http.HandlerFunc(apiController.GetTimeline))
	routers.Get("/api/conflicts", http.HandlerFunc(apiController.GetConflicts))
	routers.Get("/api/indicators", http.HandlerFunc(apiController.GetIndicators))
	routers.Get("/api/window", http.HandlerFunc(apiController.GetWindow))
	routers.Get("/api/zoom-levels", http.HandlerFunc(apiController.GetZoomLevels))
	routers.Post("/api/refresh", http.HandlerFunc(apiController.Refresh))
	return routers
}
