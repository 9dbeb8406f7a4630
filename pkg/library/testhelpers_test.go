package library

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/jpeg"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/pkg/errors"
	"github.com/shishobooks/folio/pkg/config"
	"github.com/shishobooks/folio/pkg/metadata"
	"github.com/shishobooks/folio/pkg/models"
	"github.com/stretchr/testify/require"
)

// fakeExtractor treats a file's content as its page count. Content starting
// with "broken" fails extraction.
type fakeExtractor struct {
	calls int32
}

func (f *fakeExtractor) Extensions() []string {
	return []string{".pdf"}
}

func (f *fakeExtractor) Extract(_ context.Context, path, _ string) (*metadata.Metadata, error) {
	atomic.AddInt32(&f.calls, 1)
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	content := strings.TrimSpace(string(data))
	if strings.HasPrefix(content, "broken") {
		return nil, errors.New("not a readable document")
	}
	pages, err := strconv.Atoi(content)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	return &metadata.Metadata{PageCount: pages, Thumbnail: thumbnailBytes()}, nil
}

type solidRenderer struct{}

func (solidRenderer) RenderFirstPage(context.Context, string) (image.Image, error) {
	img := image.NewRGBA(image.Rect(0, 0, 612, 792))
	for i := range img.Pix {
		img.Pix[i] = 0xcc
	}
	return img, nil
}

func thumbnailBytes() []byte {
	img := image.NewRGBA(image.Rect(0, 0, 8, 8))
	img.Set(2, 2, color.RGBA{B: 255, A: 255})
	var buf bytes.Buffer
	_ = jpeg.Encode(&buf, img, nil)
	return buf.Bytes()
}

// testContext holds a service over an isolated data directory.
type testContext struct {
	t         *testing.T
	ctx       context.Context
	cfg       *config.Config
	svc       *Service
	sourceDir string
	extractor *fakeExtractor
}

func newTestContext(t *testing.T, opts ...func(*config.Config)) *testContext {
	t.Helper()

	root := t.TempDir()
	cfg := config.NewForTest(filepath.Join(root, "data"))
	for _, opt := range opts {
		opt(cfg)
	}

	tc := &testContext{
		t:         t,
		ctx:       context.Background(),
		cfg:       cfg,
		sourceDir: filepath.Join(root, "sources"),
		extractor: &fakeExtractor{},
	}
	require.NoError(t, os.MkdirAll(tc.sourceDir, 0755))
	tc.open()
	return tc
}

func stopOnFirstFailure(cfg *config.Config) {
	cfg.ImportContinueOnError = false
}

func withWorkers(n int) func(*config.Config) {
	return func(cfg *config.Config) {
		cfg.ImportWorkers = n
	}
}

func (tc *testContext) open() {
	tc.t.Helper()
	svc, err := OpenFromConfig(tc.ctx, tc.cfg, metadata.NewRegistry(tc.extractor))
	require.NoError(tc.t, err)
	tc.svc = svc
	tc.t.Cleanup(svc.Close)
}

// restart simulates a new process over the same data directory.
func (tc *testContext) restart() {
	tc.t.Helper()
	tc.svc.Close()
	tc.open()
}

func (tc *testContext) source(name, content string) string {
	tc.t.Helper()
	path := filepath.Join(tc.sourceDir, name)
	require.NoError(tc.t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(tc.t, os.WriteFile(path, []byte(content), 0600))
	return path
}

func (tc *testContext) managedFiles() (docs, thumbs []string) {
	tc.t.Helper()
	var err error
	docs, err = tc.svc.files.ListDocuments()
	require.NoError(tc.t, err)
	thumbs, err = tc.svc.files.ListThumbnails()
	require.NoError(tc.t, err)
	return docs, thumbs
}

func (tc *testContext) storeBytes() []byte {
	tc.t.Helper()
	data, err := os.ReadFile(tc.cfg.StorePath())
	require.NoError(tc.t, err)
	return data
}

// readOnly makes dir unwritable until the test ends, skipping the test where
// directory permissions are not enforced.
func readOnly(t *testing.T, dir string) {
	t.Helper()
	if runtime.GOOS == "windows" || os.Geteuid() == 0 {
		t.Skip("directory permissions are not enforced for this user")
	}
	require.NoError(t, os.MkdirAll(dir, 0755))
	require.NoError(t, os.Chmod(dir, 0555))
	t.Cleanup(func() { _ = os.Chmod(dir, 0755) })
}

func writable(t *testing.T, dir string) {
	t.Helper()
	require.NoError(t, os.Chmod(dir, 0755))
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

func bookIDs(books []*models.Book) []string {
	ids := make([]string, 0, len(books))
	for _, b := range books {
		ids = append(ids, b.ID)
	}
	return ids
}
