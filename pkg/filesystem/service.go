package filesystem

import (
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/pkg/errors"
)

// ImportChecker decides which files the browser marks as importable.
type ImportChecker interface {
	Supports(path string) bool
}

// Service lists import candidates on the local disk.
type Service struct {
	checker ImportChecker
}

func NewService(checker ImportChecker) *Service {
	return &Service{checker: checker}
}

type BrowseOptions BrowseQuery

func (svc *Service) Browse(opts BrowseOptions) (*BrowseResponse, error) {
	path := opts.Path
	if path == "" {
		path = "/"
	}

	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, errors.WithStack(err)
	}

	// Resolve symlinks so CurrentPath and ParentPath are stable.
	realPath, err := filepath.EvalSymlinks(absPath)
	if err != nil {
		realPath = absPath
	}

	info, err := os.Stat(realPath)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	if !info.IsDir() {
		return nil, errors.WithStack(os.ErrInvalid)
	}

	dirEntries, err := os.ReadDir(realPath)
	if err != nil {
		return nil, errors.WithStack(err)
	}

	search := strings.ToLower(opts.Search)
	entries := []Entry{}
	importable := 0
	for _, de := range dirEntries {
		name := de.Name()
		if !opts.ShowHidden && strings.HasPrefix(name, ".") {
			continue
		}
		if search != "" && !strings.Contains(strings.ToLower(name), search) {
			continue
		}

		entry := Entry{
			Name:  name,
			Path:  filepath.Join(realPath, name),
			IsDir: de.IsDir(),
		}
		if !entry.IsDir {
			if !de.Type().IsRegular() {
				continue
			}
			entry.Importable = svc.checker.Supports(entry.Path)
			if opts.OnlyImportable && !entry.Importable {
				continue
			}
			if fi, err := de.Info(); err == nil {
				entry.Size = fi.Size()
			}
		}
		if entry.Importable {
			importable++
		}
		entries = append(entries, entry)
	}

	// Directories first, then files, each alphabetically.
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].IsDir != entries[j].IsDir {
			return entries[i].IsDir
		}
		return strings.ToLower(entries[i].Name) < strings.ToLower(entries[j].Name)
	})

	total := len(entries)
	start := opts.Offset
	if start > total {
		start = total
	}
	end := start + opts.Limit
	if end > total {
		end = total
	}

	parentPath := ""
	if realPath != "/" {
		parentPath = filepath.Dir(realPath)
	}

	return &BrowseResponse{
		CurrentPath:     realPath,
		ParentPath:      parentPath,
		Entries:         entries[start:end],
		Total:           total,
		ImportableCount: importable,
		HasMore:         end < total,
	}, nil
}
