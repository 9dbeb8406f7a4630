package fileutils

import (
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
)

// CopyFileExclusive copies src to dst, failing if dst already exists. A
// partially written dst is removed before the error is returned.
func CopyFileExclusive(src, dst string) (int64, error) {
	sourceFile, err := os.Open(src)
	if err != nil {
		return 0, errors.WithStack(err)
	}
	defer sourceFile.Close()

	sourceInfo, err := sourceFile.Stat()
	if err != nil {
		return 0, errors.WithStack(err)
	}
	if sourceInfo.IsDir() {
		return 0, errors.Errorf("%s is a directory", src)
	}

	destFile, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0644)
	if err != nil {
		return 0, errors.WithStack(err)
	}

	n, err := io.Copy(destFile, sourceFile)
	if err == nil {
		err = destFile.Sync()
	}
	if closeErr := destFile.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		os.Remove(dst)
		return 0, errors.WithStack(err)
	}

	return n, nil
}

// WriteFileAtomic replaces path with data by writing a temporary file in the
// same directory and renaming it over the target, so readers see either the
// old or the new content and never a truncated file.
func WriteFileAtomic(path string, data []byte, perm os.FileMode) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".tmp-*")
	if err != nil {
		return errors.WithStack(err)
	}
	tmpPath := tmp.Name()

	_, err = tmp.Write(data)
	if err == nil {
		err = tmp.Sync()
	}
	if closeErr := tmp.Close(); err == nil {
		err = closeErr
	}
	if err == nil {
		err = os.Chmod(tmpPath, perm)
	}
	if err == nil {
		err = os.Rename(tmpPath, path)
	}
	if err != nil {
		os.Remove(tmpPath)
		return errors.WithStack(err)
	}

	return nil
}

// BaseNameWithoutExt returns the filename without its directory and extension.
func BaseNameWithoutExt(path string) string {
	base := filepath.Base(path)
	ext := filepath.Ext(base)
	return strings.TrimSuffix(base, ext)
}

// IsTempFile reports whether name looks like a leftover from WriteFileAtomic.
func IsTempFile(name string) bool {
	return strings.HasPrefix(name, ".") && strings.Contains(name, ".tmp-")
}
