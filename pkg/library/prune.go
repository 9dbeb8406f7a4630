package library

import (
	"context"
	"github.com/robinjoseph08/golib/logger"
	"github.com/shishobooks/folio/pkg/fileutils"
)

type PruneResult struct {
	Removed []string `json:"removed"`
}

// PruneOrphans removes managed documents and thumbnails that no book
// references, such as files left behind by an import that was interrupted
// before it could clean up. Managed files are named by book id, so a file is
// kept when its id is catalogued, however the stored path happens to be
// spelled.
func (svc *Service) PruneOrphans(ctx context.Context) (*PruneResult, error) {
	svc.mu.Lock()
	defer svc.mu.Unlock()

	log := logger.FromContext(ctx)

	ids := make(map[string]struct{}, len(svc.catalog.Books))
	for _, b := range svc.catalog.Books {
		ids[b.ID] = struct{}{}
	}

	docs, err := svc.files.ListDocuments()
	if err != nil {
		return nil, err
	}
	thumbs, err := svc.files.ListThumbnails()
	if err != nil {
		return nil, err
	}

	result := &PruneResult{Removed: []string{}}
	for _, path := range append(docs, thumbs...) {
		if _, ok := ids[fileutils.BaseNameWithoutExt(path)]; ok {
			continue
		}
		if err := svc.files.Remove(path); err != nil {
			return result, err
		}
		log.Info("pruned orphaned file", logger.Data{"path": path})
		result.Removed = append(result.Removed, path)
	}

	return result, nil
}
