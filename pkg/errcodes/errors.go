package errcodes

import (
	"fmt"
	"net/http"

	"github.com/pkg/errors"
	"github.com/shishobooks/folio/pkg/liberr"
)

type Error struct {
	HTTPCode int
	Message  string
	Code     string
}

func (err *Error) Error() string {
	return err.Message
}

func (err *Error) As(target interface{}) bool {
	te, ok := target.(*Error)
	if !ok {
		return false
	}
	te.HTTPCode = err.HTTPCode
	te.Message = err.Message
	te.Code = err.Code
	return true
}

func (err *Error) Is(target error) bool {
	te, ok := target.(*Error)
	if !ok {
		return false
	}
	return te.HTTPCode == err.HTTPCode &&
		te.Message == err.Message &&
		te.Code == err.Code
}

// NotFound returns a 404 error with a message indicating the given resource.
func NotFound(resource string) error {
	return &Error{
		http.StatusNotFound,
		resource + " not found.",
		"not_found",
	}
}

func Forbidden(msg string) error {
	return &Error{
		http.StatusForbidden,
		msg,
		"forbidden",
	}
}

func UnsupportedMediaType() error {
	return &Error{
		http.StatusUnsupportedMediaType,
		"Unsupported Media Type",
		"unsupported_media_type",
	}
}

func UnknownParameter(param string) error {
	return &Error{
		http.StatusUnprocessableEntity,
		fmt.Sprintf("Unknown Parameter %q", param),
		"unknown_parameter",
	}
}

func ValidationTypeError(msg string) error {
	return &Error{
		http.StatusUnprocessableEntity,
		msg,
		"validation_type_error",
	}
}

func ValidationError(msg string) error {
	return &Error{
		http.StatusUnprocessableEntity,
		msg,
		"validation_error",
	}
}

func MalformedPayload() error {
	return &Error{
		http.StatusBadRequest,
		"Malformed Payload",
		"malformed_payload",
	}
}

func EmptyRequestBody() error {
	return &Error{
		http.StatusBadRequest,
		"Request body can't be empty.",
		"empty_request_body",
	}
}

// FromLibrary translates a library error into the error a client sees. It
// returns nil when err carries no library kind.
func FromLibrary(err error) *Error {
	var le *liberr.Error
	if !errors.As(err, &le) {
		return nil
	}

	switch le.Kind {
	case liberr.KindNotFound:
		return &Error{http.StatusNotFound, "Book not found.", "not_found"}
	case liberr.KindUnsupportedFormat:
		return &Error{http.StatusUnsupportedMediaType, le.Error(), "unsupported_format"}
	case liberr.KindExtraction:
		return &Error{http.StatusUnprocessableEntity, le.Error(), "extraction_error"}
	case liberr.KindInvalid:
		msg := le.Error()
		if le.Err != nil {
			msg = le.Err.Error()
		}
		return &Error{http.StatusUnprocessableEntity, msg, "validation_error"}
	case liberr.KindCorruptStore:
		return &Error{http.StatusInternalServerError, le.Error(), "corrupt_store"}
	default:
		return &Error{http.StatusInternalServerError, le.Error(), "io_error"}
	}
}
