// Package liberr defines the kinds of failures the library core reports to
// its callers. Every error leaving the core is (or wraps) an *Error so that
// boundaries can translate it without string matching.
package liberr

import (
	"github.com/pkg/errors"
)

// Kind classifies a failure.
type Kind string

const (
	KindNotFound          Kind = "not_found"
	KindUnsupportedFormat Kind = "unsupported_format"
	KindExtraction        Kind = "extraction_error"
	KindIO                Kind = "io_error"
	KindCorruptStore      Kind = "corrupt_store"
	KindInvalid           Kind = "invalid"
)

// Error is a typed failure. Op names the operation that failed (e.g.
// "import", "save") and Path the file it was acting on, when there is one.
type Error struct {
	Kind Kind
	Op   string
	Path string
	Err  error
}

func (e *Error) Error() string {
	msg := string(e.Kind)
	if e.Op != "" {
		msg = e.Op + ": " + msg
	}
	if e.Path != "" {
		msg += " " + e.Path
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches any *Error of the same kind, so the sentinels below can be used
// with errors.Is regardless of Op, Path or the wrapped cause.
func (e *Error) Is(target error) bool {
	te, ok := target.(*Error)
	if !ok {
		return false
	}
	return te.Kind == e.Kind
}

// Sentinels for errors.Is.
var (
	ErrNotFound          = &Error{Kind: KindNotFound}
	ErrUnsupportedFormat = &Error{Kind: KindUnsupportedFormat}
	ErrExtraction        = &Error{Kind: KindExtraction}
	ErrIO                = &Error{Kind: KindIO}
	ErrCorruptStore      = &Error{Kind: KindCorruptStore}
	ErrInvalid           = &Error{Kind: KindInvalid}
)

// NotFound reports a missing book record.
func NotFound(id string) error {
	return &Error{Kind: KindNotFound, Op: "lookup", Err: errors.Errorf("book %q not found", id)}
}

// UnsupportedFormat reports a file extension no extractor is registered for.
func UnsupportedFormat(path, ext string) error {
	return &Error{Kind: KindUnsupportedFormat, Op: "extract", Path: path, Err: errors.Errorf("no extractor for %q", ext)}
}

// Extraction reports a document that exists but could not be read as its
// format.
func Extraction(path string, err error) error {
	return &Error{Kind: KindExtraction, Op: "extract", Path: path, Err: errors.WithStack(err)}
}

// IO reports a filesystem failure during op.
func IO(op, path string, err error) error {
	return &Error{Kind: KindIO, Op: op, Path: path, Err: errors.WithStack(err)}
}

// CorruptStore reports a persisted catalog that cannot be decoded.
func CorruptStore(path string, err error) error {
	return &Error{Kind: KindCorruptStore, Op: "load", Path: path, Err: errors.WithStack(err)}
}

// Invalid reports a record that violates a catalog invariant.
func Invalid(format string, args ...interface{}) error {
	return &Error{Kind: KindInvalid, Op: "validate", Err: errors.Errorf(format, args...)}
}

// KindOf returns the kind of the outermost *Error in err's chain, or the
// empty kind when there is none.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ""
}
