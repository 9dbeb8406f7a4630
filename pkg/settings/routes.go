package settings

import (
	"github.com/labstack/echo/v4"
	"github.com/shishobooks/folio/pkg/library"
)

func RegisterRoutes(e *echo.Echo, libraryService *library.Service) {
	h := &handler{
		libraryService: libraryService,
	}

	g := e.Group("/settings")

	g.GET("/theme", h.theme)
	g.PUT("/theme", h.updateTheme)
	g.GET("/stats", h.stats)
	g.POST("/prune", h.prune)
}
