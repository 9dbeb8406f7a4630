package books

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"github.com/shishobooks/folio/pkg/errcodes"
	"github.com/shishobooks/folio/pkg/library"
)

type handler struct {
	libraryService *library.Service
}

func (h *handler) list(c echo.Context) error {
	ctx := c.Request().Context()

	params := ListQuery{}
	if err := c.Bind(&params); err != nil {
		return errors.WithStack(err)
	}

	books := sortBooks(filterBooks(h.libraryService.ListBooks(ctx), params), params.Sort)

	resp := struct {
		Books []BookResponse `json:"books"`
		Total int            `json:"total"`
	}{newBookResponses(books), len(books)}

	return errors.WithStack(c.JSON(http.StatusOK, resp))
}

func (h *handler) retrieve(c echo.Context) error {
	ctx := c.Request().Context()

	book, err := h.libraryService.GetBook(ctx, c.Param("id"))
	if err != nil {
		return errors.WithStack(err)
	}

	return errors.WithStack(c.JSON(http.StatusOK, newBookResponse(book)))
}

func (h *handler) importFiles(c echo.Context) error {
	ctx := c.Request().Context()

	params := ImportPayload{}
	if err := c.Bind(&params); err != nil {
		return errors.WithStack(err)
	}

	added, err := h.libraryService.AddBooks(ctx, params.Paths)
	if err != nil {
		return errors.WithStack(err)
	}

	return errors.WithStack(c.JSON(http.StatusCreated, map[string]interface{}{
		"books": newBookResponses(added),
	}))
}

func (h *handler) importDirectory(c echo.Context) error {
	ctx := c.Request().Context()

	params := ImportDirectoryPayload{}
	if err := c.Bind(&params); err != nil {
		return errors.WithStack(err)
	}

	added, err := h.libraryService.AddDirectory(ctx, params.Path)
	if err != nil {
		return errors.WithStack(err)
	}

	return errors.WithStack(c.JSON(http.StatusCreated, map[string]interface{}{
		"books": newBookResponses(added),
	}))
}

func (h *handler) update(c echo.Context) error {
	ctx := c.Request().Context()
	id := c.Param("id")

	params := UpdateBookPayload{}
	if err := c.Bind(&params); err != nil {
		return errors.WithStack(err)
	}
	if params.ID != id {
		return errcodes.ValidationError(`"id" must match the book being updated`)
	}

	if err := h.libraryService.UpdateBook(ctx, params.book()); err != nil {
		return errors.WithStack(err)
	}

	book, err := h.libraryService.GetBook(ctx, id)
	if err != nil {
		return errors.WithStack(err)
	}

	return errors.WithStack(c.JSON(http.StatusOK, newBookResponse(book)))
}

func (h *handler) delete(c echo.Context) error {
	ctx := c.Request().Context()

	if err := h.libraryService.DeleteBook(ctx, c.Param("id")); err != nil {
		return errors.WithStack(err)
	}

	return errors.WithStack(c.NoContent(http.StatusNoContent))
}

func (h *handler) thumbnail(c echo.Context) error {
	ctx := c.Request().Context()

	path, err := h.libraryService.ThumbnailPath(ctx, c.Param("id"))
	if err != nil {
		return errors.WithStack(err)
	}

	c.Response().Header().Set("Cache-Control", "private, max-age=3600")
	return errors.WithStack(c.File(path))
}
