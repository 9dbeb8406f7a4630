package settings

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"github.com/shishobooks/folio/pkg/library"
)

type handler struct {
	libraryService *library.Service
}

func (h *handler) theme(c echo.Context) error {
	ctx := c.Request().Context()

	return errors.WithStack(c.JSON(http.StatusOK, ThemePayload{
		Theme: h.libraryService.GetTheme(ctx),
	}))
}

func (h *handler) updateTheme(c echo.Context) error {
	ctx := c.Request().Context()

	params := ThemePayload{}
	if err := c.Bind(&params); err != nil {
		return errors.WithStack(err)
	}

	if err := h.libraryService.SetTheme(ctx, params.Theme); err != nil {
		return errors.WithStack(err)
	}

	return errors.WithStack(c.JSON(http.StatusOK, params))
}

func (h *handler) stats(c echo.Context) error {
	ctx := c.Request().Context()

	return errors.WithStack(c.JSON(http.StatusOK, h.libraryService.GetStats(ctx)))
}

// prune removes managed files that no book references anymore.
func (h *handler) prune(c echo.Context) error {
	ctx := c.Request().Context()

	result, err := h.libraryService.PruneOrphans(ctx)
	if err != nil {
		return errors.WithStack(err)
	}

	return errors.WithStack(c.JSON(http.StatusOK, result))
}
