// Package library is the single gateway to the catalog. Every operation runs
// under one lock and persists the catalog before reporting success, so the
// store file is always a complete snapshot of what callers have observed.
package library

import (
	"context"
	"os"
	"sync"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/robinjoseph08/golib/logger"
	"github.com/shishobooks/folio/pkg/catalog"
	"github.com/shishobooks/folio/pkg/config"
	"github.com/shishobooks/folio/pkg/filestore"
	"github.com/shishobooks/folio/pkg/liberr"
	"github.com/shishobooks/folio/pkg/metadata"
	"github.com/shishobooks/folio/pkg/models"
	"github.com/shishobooks/folio/pkg/worker"
)

type Options struct {
	// Workers is how many files of one import are copied and extracted in
	// parallel.
	Workers int
	// ContinueOnError keeps importing the remaining paths after one fails.
	ContinueOnError bool
}

type Service struct {
	mu sync.Mutex

	repo       *catalog.Repository
	files      *filestore.Store
	extractors *metadata.Registry
	worker     *worker.Worker

	continueOnError bool
	newID           func() (string, error)

	catalog *models.Catalog
}

// Open loads (or bootstraps) the catalog and starts the import workers.
// Close must be called to stop them.
func Open(ctx context.Context, repo *catalog.Repository, files *filestore.Store, extractors *metadata.Registry, opts Options) (*Service, error) {
	c, err := repo.Load(ctx)
	if err != nil {
		return nil, err
	}

	svc := &Service{
		repo:            repo,
		files:           files,
		extractors:      extractors,
		continueOnError: opts.ContinueOnError,
		newID:           newID,
		catalog:         c,
	}
	svc.worker = worker.New(opts.Workers, svc.importFile)
	svc.worker.Start()

	return svc, nil
}

// OpenFromConfig opens the service on the store and managed directories
// named by cfg.
func OpenFromConfig(ctx context.Context, cfg *config.Config, extractors *metadata.Registry) (*Service, error) {
	return Open(ctx,
		catalog.NewRepository(cfg.StorePath()),
		filestore.New(cfg.BooksDir(), cfg.ThumbnailsDir()),
		extractors,
		Options{
			Workers:         cfg.ImportWorkers,
			ContinueOnError: cfg.ImportContinueOnError,
		},
	)
}

func (svc *Service) Close() {
	svc.mu.Lock()
	defer svc.mu.Unlock()
	svc.worker.Shutdown()
}

// ListBooks returns copies of every book, in insertion order.
func (svc *Service) ListBooks(_ context.Context) []*models.Book {
	svc.mu.Lock()
	defer svc.mu.Unlock()
	return svc.catalog.ListBooks()
}

func (svc *Service) GetBook(_ context.Context, id string) (*models.Book, error) {
	svc.mu.Lock()
	defer svc.mu.Unlock()

	book, ok := svc.catalog.Book(id)
	if !ok {
		return nil, liberr.NotFound(id)
	}
	return book, nil
}

// DeleteBook removes the record and its managed document and thumbnail.
// Deleting an unknown id succeeds without doing anything. A managed file
// that is already gone is tolerated; any other removal failure keeps the
// record.
func (svc *Service) DeleteBook(ctx context.Context, id string) error {
	svc.mu.Lock()
	defer svc.mu.Unlock()

	log := logger.FromContext(ctx).Data(logger.Data{"book_id": id})

	book, ok := svc.catalog.Book(id)
	if !ok {
		return nil
	}

	// The thumbnail goes first so a failure on the document leaves the
	// record pointing at a file that still exists.
	for _, path := range []string{book.ThumbnailPath, book.BookPath} {
		if path == "" {
			continue
		}
		if !svc.files.Owns(path) {
			log.Warn("book file is outside the managed directories, leaving it in place", logger.Data{"path": path})
			continue
		}
		if err := svc.files.Remove(path); err != nil {
			if errors.Is(err, os.ErrNotExist) {
				log.Warn("managed file already missing", logger.Data{"path": path})
				continue
			}
			return err
		}
	}

	svc.catalog.RemoveBook(id)
	if err := svc.repo.Save(ctx, svc.catalog); err != nil {
		return err
	}

	log.Info("deleted book")
	return nil
}

// UpdateBook replaces the stored record with the same id wholesale. Fields
// set at import time (file size, page count and the managed paths) cannot be
// changed.
func (svc *Service) UpdateBook(ctx context.Context, book *models.Book) error {
	if book == nil {
		return liberr.Invalid("book is required")
	}

	svc.mu.Lock()
	defer svc.mu.Unlock()

	current, ok := svc.catalog.Book(book.ID)
	if !ok {
		return liberr.NotFound(book.ID)
	}

	next := book.Clone()
	if next.TextHighlights == nil {
		next.TextHighlights = []models.TextHighlight{}
	}
	if err := next.Validate(); err != nil {
		return err
	}
	if err := checkImmutable(current, next); err != nil {
		return err
	}

	svc.catalog.ReplaceBook(next)
	if err := svc.repo.Save(ctx, svc.catalog); err != nil {
		// Keep memory in step with what is on disk.
		svc.catalog.ReplaceBook(current)
		return err
	}

	logger.FromContext(ctx).Info("updated book", logger.Data{"book_id": book.ID})
	return nil
}

func checkImmutable(current, next *models.Book) error {
	switch {
	case current.FileSize != next.FileSize:
		return liberr.Invalid("file_size cannot be changed")
	case current.PageCount != next.PageCount:
		return liberr.Invalid("page_count cannot be changed")
	case current.BookPath != next.BookPath:
		return liberr.Invalid("book_path cannot be changed")
	case current.ThumbnailPath != next.ThumbnailPath:
		return liberr.Invalid("thumbnail_path cannot be changed")
	}
	return nil
}

func (svc *Service) GetTheme(_ context.Context) string {
	svc.mu.Lock()
	defer svc.mu.Unlock()
	return svc.catalog.Theme
}

func (svc *Service) SetTheme(ctx context.Context, theme string) error {
	if theme == "" {
		return liberr.Invalid("theme is required")
	}

	svc.mu.Lock()
	defer svc.mu.Unlock()

	previous := svc.catalog.Theme
	svc.catalog.Theme = theme
	if err := svc.repo.Save(ctx, svc.catalog); err != nil {
		svc.catalog.Theme = previous
		return err
	}

	logger.FromContext(ctx).Info("set theme", logger.Data{"theme": theme})
	return nil
}

func (svc *Service) GetStats(_ context.Context) models.Stats {
	svc.mu.Lock()
	defer svc.mu.Unlock()
	return svc.catalog.Stats()
}

// ThumbnailPath returns the managed thumbnail of a book.
func (svc *Service) ThumbnailPath(_ context.Context, id string) (string, error) {
	svc.mu.Lock()
	defer svc.mu.Unlock()

	book, ok := svc.catalog.Book(id)
	if !ok {
		return "", liberr.NotFound(id)
	}
	if book.ThumbnailPath == "" || !svc.files.Exists(book.ThumbnailPath) {
		return "", liberr.NotFound(id)
	}
	return book.ThumbnailPath, nil
}

// Supports reports whether path has an extension some extractor can import.
func (svc *Service) Supports(path string) bool {
	return svc.extractors.Supports(path)
}

func newID() (string, error) {
	id, err := uuid.NewRandom()
	if err != nil {
		return "", errors.WithStack(err)
	}
	return id.String(), nil
}
