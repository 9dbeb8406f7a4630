package library

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"github.com/robinjoseph08/golib/logger"
	"github.com/shishobooks/folio/pkg/fileutils"
	"github.com/shishobooks/folio/pkg/liberr"
	"github.com/shishobooks/folio/pkg/models"
	"github.com/shishobooks/folio/pkg/worker"
)

// ImportFailure is one path that could not be imported.
type ImportFailure struct {
	Path string
	Err  error
}

// ImportError reports the paths of a multi-file import that failed. Skipped
// lists paths that were not added because an earlier path failed and the
// import stops on the first failure.
type ImportError struct {
	Failures []ImportFailure
	Skipped  []string
}

func (e *ImportError) Error() string {
	parts := make([]string, 0, len(e.Failures))
	for _, f := range e.Failures {
		parts = append(parts, f.Err.Error())
	}
	msg := "import failed: " + strings.Join(parts, "; ")
	if len(e.Skipped) > 0 {
		msg += " (" + pluralize(len(e.Skipped), "file") + " skipped)"
	}
	return msg
}

// Unwrap exposes every failure, so errors.Is and errors.As match any of
// their kinds.
func (e *ImportError) Unwrap() []error {
	errs := make([]error, 0, len(e.Failures))
	for _, f := range e.Failures {
		errs = append(errs, f.Err)
	}
	return errs
}

// AddBooks imports each source path as a new book. Files are copied and
// extracted in parallel, but books are appended and the catalog persisted
// one at a time in input order, so every book returned is durably recorded
// even when a later path fails. Failed paths leave nothing behind in the
// managed directories and are reported together in an *ImportError.
func (svc *Service) AddBooks(ctx context.Context, paths []string) ([]*models.Book, error) {
	svc.mu.Lock()
	defer svc.mu.Unlock()

	log := logger.FromContext(ctx)

	type pending struct {
		path string
		task *worker.Task
		err  error
	}

	queue := make([]pending, 0, len(paths))
	for _, path := range paths {
		p := pending{path: path}
		id, err := svc.newID()
		if err != nil {
			p.err = err
		} else {
			p.task, p.err = svc.worker.Submit(ctx, id, path)
		}
		queue = append(queue, p)
	}

	added := make([]*models.Book, 0, len(paths))
	importErr := &ImportError{}
	var saveErr error
	stopped := false

	for _, p := range queue {
		var res *worker.Result
		if p.task != nil {
			res = p.task.Wait()
		} else {
			res = &worker.Result{SourcePath: p.path, Err: p.err}
		}

		if stopped {
			svc.discard(ctx, res)
			importErr.Skipped = append(importErr.Skipped, p.path)
			continue
		}

		if res.Err == nil {
			book := models.NewBook(res.BookID, fileutils.BaseNameWithoutExt(p.path), res.FileSize)
			book.PageCount = res.PageCount
			book.BookPath = res.DocumentPath
			book.ThumbnailPath = res.ThumbnailPath
			res.Err = svc.catalog.AddBook(book)
			if res.Err == nil {
				if err := svc.repo.Save(ctx, svc.catalog); err != nil {
					// The book stays in memory with its files; the next
					// successful save records it.
					log.Err(err).Error("failed to persist catalog after import")
					saveErr = err
					stopped = true
					continue
				}
				log.Info("imported book", logger.Data{"book_id": book.ID, "source": p.path, "page_count": book.PageCount})
				added = append(added, book.Clone())
				continue
			}
		}

		log.Err(res.Err).Error("failed to import file", logger.Data{"source": p.path})
		svc.discard(ctx, res)
		importErr.Failures = append(importErr.Failures, ImportFailure{Path: p.path, Err: res.Err})
		if !svc.continueOnError {
			stopped = true
		}
	}

	if saveErr != nil {
		return added, saveErr
	}
	if len(importErr.Failures) > 0 {
		return added, importErr
	}
	return added, nil
}

// AddDirectory imports every file under dir (recursively) that a registered
// extractor supports. Hidden files and directories are skipped.
func (svc *Service) AddDirectory(ctx context.Context, dir string) ([]*models.Book, error) {
	log := logger.FromContext(ctx).Data(logger.Data{"dir": dir})

	info, err := os.Stat(dir)
	if err != nil {
		return nil, liberr.IO("import directory", dir, err)
	}
	if !info.IsDir() {
		return nil, liberr.Invalid("%s is not a directory", dir)
	}

	paths := []string{}
	err = filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return errors.WithStack(err)
		}
		if path != dir && strings.HasPrefix(d.Name(), ".") {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if d.IsDir() || !d.Type().IsRegular() {
			return nil
		}
		if !svc.extractors.Supports(path) {
			return nil
		}
		paths = append(paths, path)
		return nil
	})
	if err != nil {
		return nil, liberr.IO("import directory", dir, err)
	}

	log.Info("found files to import", logger.Data{"count": len(paths)})
	if len(paths) == 0 {
		return []*models.Book{}, nil
	}
	return svc.AddBooks(ctx, paths)
}

// importFile runs on the worker pool: it copies the source into the managed
// directory, extracts metadata from the copy and writes the thumbnail.
func (svc *Service) importFile(ctx context.Context, task *worker.Task) *worker.Result {
	res := &worker.Result{}

	info, err := os.Stat(task.SourcePath)
	if err != nil {
		res.Err = liberr.IO("import", task.SourcePath, err)
		return res
	}
	if info.IsDir() {
		res.Err = liberr.IO("import", task.SourcePath, errors.New("source is a directory"))
		return res
	}
	if !svc.extractors.Supports(task.SourcePath) {
		res.Err = liberr.UnsupportedFormat(task.SourcePath, filepath.Ext(task.SourcePath))
		return res
	}

	res.DocumentPath, res.FileSize, err = svc.files.Import(task.BookID, task.SourcePath)
	if err != nil {
		res.Err = err
		return res
	}

	md, err := svc.extractors.Extract(ctx, res.DocumentPath, task.BookID)
	if err != nil {
		res.Err = err
		return res
	}

	res.ThumbnailPath, err = svc.files.WriteThumbnail(task.BookID, md.Thumbnail)
	if err != nil {
		res.Err = err
		return res
	}

	res.PageCount = md.PageCount
	return res
}

// discard removes whatever a failed or abandoned import wrote.
func (svc *Service) discard(ctx context.Context, res *worker.Result) {
	log := logger.FromContext(ctx)
	for _, path := range []string{res.DocumentPath, res.ThumbnailPath} {
		if path == "" {
			continue
		}
		if err := svc.files.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
			log.Err(err).Error("failed to remove orphaned file", logger.Data{"path": path})
			continue
		}
		log.Info("removed orphaned file", logger.Data{"path": path})
	}
}

func pluralize(n int, noun string) string {
	if n == 1 {
		return "1 " + noun
	}
	return strconv.Itoa(n) + " " + noun + "s"
}
