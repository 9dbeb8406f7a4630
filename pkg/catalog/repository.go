// Package catalog persists the whole catalog as a single JSON document.
// Every save replaces the file atomically, so readers only ever see a
// complete snapshot.
package catalog

import (
	"context"
	"os"
	"path/filepath"
	"time"

	"github.com/pkg/errors"
	"github.com/robinjoseph08/golib/logger"
	"github.com/shishobooks/folio/pkg/fileutils"
	"github.com/shishobooks/folio/pkg/liberr"
	"github.com/shishobooks/folio/pkg/models"
)

type Repository struct {
	path string
	now  func() time.Time
}

func NewRepository(path string) *Repository {
	return &Repository{
		path: filepath.Clean(path),
		now:  time.Now,
	}
}

func (r *Repository) Path() string {
	return r.path
}

// Load reads the persisted catalog. When no file exists yet, a default
// catalog is written first and returned, so callers never see a missing
// store. A file that exists but cannot be decoded is CorruptStore and is
// left untouched.
func (r *Repository) Load(ctx context.Context) (*models.Catalog, error) {
	log := logger.FromContext(ctx)

	data, err := os.ReadFile(r.path)
	if errors.Is(err, os.ErrNotExist) {
		c := models.NewCatalog(r.now())
		if err := r.Save(ctx, c); err != nil {
			return nil, err
		}
		log.Info("created catalog", logger.Data{"path": r.path})
		return c, nil
	}
	if err != nil {
		return nil, liberr.IO("load", r.path, err)
	}

	c, err := models.DecodeCatalog(data)
	if err != nil {
		return nil, liberr.CorruptStore(r.path, err)
	}

	log.Info("loaded catalog", logger.Data{"path": r.path, "books": len(c.Books)})
	return c, nil
}

// Save replaces the persisted file with the full catalog.
func (r *Repository) Save(_ context.Context, c *models.Catalog) error {
	data, err := models.EncodeCatalog(c)
	if err != nil {
		return liberr.IO("save", r.path, err)
	}

	if err := os.MkdirAll(filepath.Dir(r.path), 0755); err != nil {
		return liberr.IO("save", r.path, err)
	}
	if err := fileutils.WriteFileAtomic(r.path, data, 0644); err != nil {
		return liberr.IO("save", r.path, err)
	}
	return nil
}
