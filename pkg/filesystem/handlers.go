package filesystem

import (
	"net/http"
	"os"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"github.com/shishobooks/folio/pkg/errcodes"
)

type handler struct {
	filesystemService *Service
}

func (h *handler) browse(c echo.Context) error {
	params := BrowseQuery{}
	if err := c.Bind(&params); err != nil {
		return errors.WithStack(err)
	}

	resp, err := h.filesystemService.Browse(BrowseOptions(params))
	if err != nil {
		switch {
		case errors.Is(err, os.ErrNotExist):
			return errcodes.NotFound("Directory")
		case errors.Is(err, os.ErrPermission):
			return errcodes.Forbidden("Access denied to this directory")
		case errors.Is(err, os.ErrInvalid):
			return errcodes.ValidationError(`"path" must be a directory`)
		}
		return errors.WithStack(err)
	}

	return errors.WithStack(c.JSON(http.StatusOK, resp))
}
