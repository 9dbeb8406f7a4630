package books

import (
	"github.com/labstack/echo/v4"
	"github.com/shishobooks/folio/pkg/library"
)

func RegisterRoutes(e *echo.Echo, libraryService *library.Service) {
	h := &handler{
		libraryService: libraryService,
	}

	g := e.Group("/books")

	g.GET("", h.list)
	g.POST("/import", h.importFiles)
	g.POST("/import-directory", h.importDirectory)
	g.GET("/:id", h.retrieve)
	g.PUT("/:id", h.update)
	g.DELETE("/:id", h.delete)
	g.GET("/:id/thumbnail", h.thumbnail)
}
