package filesystem

import (
	"github.com/labstack/echo/v4"
)

func RegisterRoutes(e *echo.Echo, checker ImportChecker) {
	h := &handler{
		filesystemService: NewService(checker),
	}

	e.GET("/filesystem/browse", h.browse)
}
