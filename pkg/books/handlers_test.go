package books

import (
	"context"
	"image"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/segmentio/encoding/json"
	"github.com/shishobooks/folio/internal/testgen"
	"github.com/shishobooks/folio/pkg/binder"
	"github.com/shishobooks/folio/pkg/config"
	"github.com/shishobooks/folio/pkg/errcodes"
	"github.com/shishobooks/folio/pkg/library"
	"github.com/shishobooks/folio/pkg/metadata"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type blankRenderer struct{}

func (blankRenderer) RenderFirstPage(context.Context, string) (image.Image, error) {
	return image.NewRGBA(image.Rect(0, 0, 612, 792)), nil
}

type testServer struct {
	t       *testing.T
	e       *echo.Echo
	svc     *library.Service
	cfg     *config.Config
	sources string
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	root := t.TempDir()
	cfg := config.NewForTest(filepath.Join(root, "data"))
	registry := metadata.NewRegistry(metadata.NewPDFExtractor(blankRenderer{}, metadata.ThumbnailOptions{Width: 64, Quality: 70}))
	svc, err := library.OpenFromConfig(context.Background(), cfg, registry)
	require.NoError(t, err)
	t.Cleanup(svc.Close)

	e := echo.New()
	b, err := binder.New()
	require.NoError(t, err)
	e.Binder = b
	e.HTTPErrorHandler = errcodes.NewHandler().Handle
	RegisterRoutes(e, svc)

	return &testServer{
		t:       t,
		e:       e,
		svc:     svc,
		cfg:     cfg,
		sources: testgen.CreateSubDir(t, root, "sources"),
	}
}

func (ts *testServer) do(method, path, body string) *httptest.ResponseRecorder {
	ts.t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	ts.e.ServeHTTP(rec, req)
	return rec
}

func (ts *testServer) pdf(name string, pages int) string {
	return testgen.GeneratePDF(ts.t, ts.sources, name, testgen.PDFOptions{PageCount: pages})
}

func (ts *testServer) importOne(name string, pages int) map[string]interface{} {
	ts.t.Helper()
	path := ts.pdf(name, pages)
	rec := ts.do(http.MethodPost, "/books/import", mustJSON(ts.t, map[string]interface{}{"paths": []string{path}}))
	require.Equal(ts.t, http.StatusCreated, rec.Code, rec.Body.String())
	var body struct {
		Books []map[string]interface{} `json:"books"`
	}
	decode(ts.t, rec, &body)
	require.Len(ts.t, body.Books, 1)
	return body.Books[0]
}

func mustJSON(t *testing.T, v interface{}) string {
	t.Helper()
	data, err := json.Marshal(v)
	require.NoError(t, err)
	return string(data)
}

func decode(t *testing.T, rec *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), v), rec.Body.String())
}

type errorBody struct {
	Error struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

func TestImportAndList(t *testing.T) {
	t.Parallel()
	ts := newTestServer(t)

	book := ts.importOne("Field Notes.pdf", 4)
	assert.Equal(t, "Field Notes", book["name"])
	assert.Equal(t, float64(4), book["page_count"])
	assert.Equal(t, float64(0), book["progress"])

	rec := ts.do(http.MethodGet, "/books", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var list struct {
		Books []map[string]interface{} `json:"books"`
		Total int                      `json:"total"`
	}
	decode(t, rec, &list)
	assert.Equal(t, 1, list.Total)
	require.Len(t, list.Books, 1)
	assert.Equal(t, book["id"], list.Books[0]["id"])

	rec = ts.do(http.MethodGet, "/books/"+book["id"].(string), "")
	require.Equal(t, http.StatusOK, rec.Code)
}

func TestImport_Validation(t *testing.T) {
	t.Parallel()
	ts := newTestServer(t)

	cases := []struct {
		name string
		body string
		want string
	}{
		{"empty list", `{"paths":[]}`, "validation_error"},
		{"relative path", `{"paths":["notes.pdf"]}`, "validation_error"},
		{"unknown field", `{"paths":["/a.pdf"],"tags":[]}`, "unknown_parameter"},
		{"malformed", `{"paths":`, "malformed_payload"},
	}
	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			rec := ts.do(http.MethodPost, "/books/import", tc.body)
			var body errorBody
			decode(t, rec, &body)
			assert.Equal(t, tc.want, body.Error.Code)
		})
	}
	assert.Empty(t, ts.svc.ListBooks(context.Background()))
}

func TestImport_PartialFailure(t *testing.T) {
	t.Parallel()
	ts := newTestServer(t)

	good := ts.pdf("good.pdf", 2)
	bad := testgen.CorruptPDF(t, ts.sources, "bad.pdf")
	rec := ts.do(http.MethodPost, "/books/import", mustJSON(t, map[string]interface{}{"paths": []string{good, bad}}))
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	var body struct {
		Error struct {
			Code     string `json:"code"`
			Failures []struct {
				Path string `json:"path"`
				Code string `json:"code"`
			} `json:"failures"`
		} `json:"error"`
	}
	decode(t, rec, &body)
	assert.Equal(t, "import_failed", body.Error.Code)
	require.Len(t, body.Error.Failures, 1)
	assert.Equal(t, bad, body.Error.Failures[0].Path)
	assert.Equal(t, "extraction_error", body.Error.Failures[0].Code)

	assert.Len(t, ts.svc.ListBooks(context.Background()), 1)
}

func TestImportDirectory(t *testing.T) {
	t.Parallel()
	ts := newTestServer(t)

	ts.pdf("a.pdf", 1)
	ts.pdf("b.pdf", 2)
	testgen.WriteFile(t, ts.sources, "notes.txt", []byte("skip me"))

	rec := ts.do(http.MethodPost, "/books/import-directory", mustJSON(t, map[string]string{"path": ts.sources}))
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var body struct {
		Books []map[string]interface{} `json:"books"`
	}
	decode(t, rec, &body)
	assert.Len(t, body.Books, 2)

	rec = ts.do(http.MethodPost, "/books/import-directory", mustJSON(t, map[string]string{"path": filepath.Join(ts.sources, "a.pdf")}))
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}

func TestUpdate(t *testing.T) {
	t.Parallel()
	ts := newTestServer(t)

	book := ts.importOne("novel.pdf", 10)
	id := book["id"].(string)

	book["current_page"] = 5
	book["is_favorite"] = true
	book["text_highlights"] = []map[string]interface{}{
		{"page_number": 1, "line_number": 2, "start_pos": 3, "length": 4, "color": "yellow"},
	}
	rec := ts.do(http.MethodPut, "/books/"+id, mustJSON(t, book))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var updated map[string]interface{}
	decode(t, rec, &updated)
	assert.Equal(t, float64(50), updated["progress"])
	assert.Equal(t, true, updated["is_favorite"])

	stored, err := ts.svc.GetBook(context.Background(), id)
	require.NoError(t, err)
	require.Len(t, stored.TextHighlights, 1)
	assert.EqualValues(t, "YELLOW", stored.TextHighlights[0].Color)
}

func TestUpdate_Rejects(t *testing.T) {
	t.Parallel()
	ts := newTestServer(t)

	book := ts.importOne("novel.pdf", 10)
	id := book["id"].(string)

	with := func(key string, value interface{}) map[string]interface{} {
		next := map[string]interface{}{}
		for k, v := range book {
			next[k] = v
		}
		next[key] = value
		return next
	}

	cases := []struct {
		name   string
		path   string
		body   map[string]interface{}
		status int
	}{
		{"mismatched id", "/books/" + id, with("id", "other"), http.StatusUnprocessableEntity},
		{"unknown book", "/books/missing", with("id", "missing"), http.StatusNotFound},
		{"page past end", "/books/" + id, with("current_page", 11), http.StatusUnprocessableEntity},
		{"immutable page count", "/books/" + id, with("page_count", 3), http.StatusUnprocessableEntity},
		{"bad color", "/books/" + id, with("text_highlights", []map[string]interface{}{{"color": "ORANGE"}}), http.StatusUnprocessableEntity},
	}
	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			rec := ts.do(http.MethodPut, tc.path, mustJSON(t, tc.body))
			assert.Equal(t, tc.status, rec.Code, rec.Body.String())
		})
	}

	stored, err := ts.svc.GetBook(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, 0, stored.CurrentPage)
	assert.Equal(t, 10, stored.PageCount)
}

func TestDelete(t *testing.T) {
	t.Parallel()
	ts := newTestServer(t)

	book := ts.importOne("gone.pdf", 1)
	id := book["id"].(string)

	rec := ts.do(http.MethodDelete, "/books/"+id, "")
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.False(t, testgen.FileExists(book["book_path"].(string)))

	rec = ts.do(http.MethodDelete, "/books/"+id, "")
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = ts.do(http.MethodGet, "/books/"+id, "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestThumbnail(t *testing.T) {
	t.Parallel()
	ts := newTestServer(t)

	book := ts.importOne("cover.pdf", 1)
	id := book["id"].(string)

	rec := ts.do(http.MethodGet, "/books/"+id+"/thumbnail", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "image/jpeg", rec.Header().Get(echo.HeaderContentType))
	want, err := os.ReadFile(book["thumbnail_path"].(string))
	require.NoError(t, err)
	assert.Equal(t, want, rec.Body.Bytes())

	rec = ts.do(http.MethodGet, "/books/missing/thumbnail", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestList_SortAndFilter(t *testing.T) {
	t.Parallel()
	ts := newTestServer(t)

	ts.importOne("The Zebra.pdf", 1)
	ts.importOne("apple.pdf", 1)

	rec := ts.do(http.MethodGet, "/books?sort=name", "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var list struct {
		Books []map[string]interface{} `json:"books"`
	}
	decode(t, rec, &list)
	require.Len(t, list.Books, 2)
	assert.Equal(t, "apple", list.Books[0]["name"])

	rec = ts.do(http.MethodGet, "/books?favorites=true", "")
	require.Equal(t, http.StatusOK, rec.Code)
	list.Books = nil
	decode(t, rec, &list)
	assert.Empty(t, list.Books)

	rec = ts.do(http.MethodGet, "/books?sort=size", "")
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}
