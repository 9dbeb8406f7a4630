package binder

import (
	"reflect"
	"testing"

	ut "github.com/go-playground/universal-translator"
	"github.com/stretchr/testify/assert"
)

type mockFieldError struct {
	tag       string
	namespace string
	field     string
	param     string
	kind      reflect.Kind
}

func (e *mockFieldError) Error() string           { return "mock field error" }
func (e *mockFieldError) Tag() string             { return e.tag }
func (e *mockFieldError) ActualTag() string       { return e.tag }
func (e *mockFieldError) Namespace() string       { return e.namespace }
func (e *mockFieldError) StructNamespace() string { return "" }
func (e *mockFieldError) Field() string           { return e.field }
func (e *mockFieldError) StructField() string     { return "" }
func (e *mockFieldError) Value() interface{}      { return "" }
func (e *mockFieldError) Param() string           { return e.param }
func (e *mockFieldError) Kind() reflect.Kind {
	if e.kind == 0 {
		return reflect.String
	}
	return e.kind
}
func (e *mockFieldError) Type() reflect.Type               { return reflect.TypeOf("") }
func (e *mockFieldError) Translate(_ ut.Translator) string { return "" }

func TestFormatValidationError(t *testing.T) {
	t.Parallel()

	cases := []struct {
		tag   string
		param string
		kind  reflect.Kind
		msg   string
	}{
		{abspath, "", 0, `"name" must be an absolute path`},
		{mx, "500", reflect.String, `"name" length must be less than or equal to 500 characters`},
		{mx, "1", reflect.String, `"name" length must be less than or equal to 1 character`},
		{mn, "1", reflect.String, `"name" length must be greater than or equal to 1 character`},
		{mx, "65535", reflect.Int, `"name" must be less than or equal to 65535`},
		{mn, "0", reflect.Int64, `"name" must be greater than or equal to 0`},
		{mn, "0", reflect.Float64, `"name" must be greater than or equal to 0`},
		{mx, "500", reflect.Slice, `"name" length must be less than or equal to 500 elements`},
		{mn, "1", reflect.Slice, `"name" length must be greater than or equal to 1 element`},
		{oneof, "added name progress", 0, `"name" must be one of the following: "added", "name", "progress"`},
		{required, "", 0, `"name" is required`},
		{"uuid", "", 0, `"name" is invalid`},
	}

	for _, tt := range cases {
		err := mockFieldError{tag: tt.tag, field: "name", param: tt.param, kind: tt.kind}
		assert.Equal(t, tt.msg, formatValidationError(&err), tt.tag)
	}
}

func TestFormatValidationError_NestedFields(t *testing.T) {
	t.Parallel()

	err := mockFieldError{
		tag:       oneof,
		namespace: "UpdateBookPayload.text_highlights[2].color",
		field:     "color",
		param:     "RED BLUE",
	}
	assert.Equal(t, `"text_highlights[2].color" must be one of the following: "RED", "BLUE"`, formatValidationError(&err))

	err = mockFieldError{tag: abspath, namespace: "ImportPayload.paths[0]", field: "paths[0]"}
	assert.Equal(t, `"paths[0]" must be an absolute path`, formatValidationError(&err))

	err = mockFieldError{tag: required, namespace: "Config", field: "data_dir"}
	assert.Equal(t, `"data_dir" is required`, formatValidationError(&err))
}
