package errcodes

import (
	"net/http"

	"github.com/iancoleman/strcase"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"github.com/robinjoseph08/golib/echo/v4/middleware/logger"
	"github.com/robinjoseph08/golib/errutils"
	"github.com/shishobooks/folio/pkg/library"
)

type Handler struct{}

func NewHandler() *Handler {
	return &Handler{}
}

// Handle is an Echo error handler that uses HTTP errors accordingly, and any
// generic error will be interpreted as an internal server error.
func (h *Handler) Handle(err error, c echo.Context) {
	if errutils.IsIgnorableErr(err) {
		logger.FromEchoContext(c).Err(err).Warn("broken pipe")
		return
	}

	httpCode, payload := h.generatePayload(c, err)

	// Internal server errors
	if httpCode == http.StatusInternalServerError {
		logger.FromEchoContext(c).Err(err).Error("server error")
	}

	if err := c.JSON(httpCode, payload); err != nil {
		logger.FromEchoContext(c).Err(errors.WithStack(err)).Error("error handler json error")
	}
}

func (h *Handler) generatePayload(c echo.Context, err error) (int, map[string]interface{}) {
	var ie *library.ImportError
	if errors.As(err, &ie) {
		return h.generateImportPayload(c, ie)
	}
	return h.generateIndividualPayload(c, err)
}

// generateImportPayload reports every failed path of a multi-file import
// with its own code.
func (h *Handler) generateImportPayload(c echo.Context, ie *library.ImportError) (int, map[string]interface{}) {
	failures := make([]map[string]interface{}, 0, len(ie.Failures))
	for _, f := range ie.Failures {
		code, payload := h.generateIndividualPayload(c, f.Err)
		detail := payload["error"].(map[string]interface{})
		detail["path"] = f.Path
		detail["status_code"] = code
		failures = append(failures, detail)
	}

	skipped := ie.Skipped
	if skipped == nil {
		skipped = []string{}
	}

	return http.StatusUnprocessableEntity, map[string]interface{}{
		"error": map[string]interface{}{
			"code":        "import_failed",
			"message":     ie.Error(),
			"status_code": http.StatusUnprocessableEntity,
			"failures":    failures,
			"skipped":     skipped,
		},
	}
}

func (h *Handler) generateIndividualPayload(_ echo.Context, err error) (int, map[string]interface{}) {
	code := ""
	msg := ""
	httpCode := http.StatusInternalServerError

	// Echo errors
	var he *echo.HTTPError
	if ok := errors.As(err, &he); ok {
		httpCode = he.Code
		if m, ok := he.Message.(string); ok {
			msg = m
		} else {
			msg = http.StatusText(he.Code)
		}
		code = strcase.ToSnake(msg)
	}

	// Library errors
	if le := FromLibrary(err); le != nil {
		httpCode = le.HTTPCode
		code = le.Code
		msg = le.Message
	}

	// Custom errors
	var e *Error
	if ok := errors.As(err, &e); ok {
		httpCode = e.HTTPCode
		code = e.Code
		msg = e.Message
	}

	// Internal server errors that aren't Echo errors or custom errors
	if httpCode == http.StatusInternalServerError && msg == "" {
		code = "internal_server_error"
		msg = "Internal Server Error"
	}

	return httpCode, map[string]interface{}{
		"error": map[string]interface{}{
			"code":        code,
			"message":     msg,
			"status_code": httpCode,
		},
	}
}
