package catalog

import (
	"path/filepath"
	"strings"

	"extranetd/internal/common/fsutil"
)

// ResolvePreview validates a thumbnail request and returns the absolute file
// path to serve. The file must sit inside one of the pages' preview
// directories and carry a preview image extension.
func (c *Catalog) ResolvePreview(filename string) (string, error) {
	if filename == "" {
		return "", ErrPreviewForbidden(filename)
	}
	abs, err := filepath.Abs(filepath.FromSlash(filename))
	if err != nil {
		return "", ErrPreviewForbidden(filename)
	}
	if !c.hasPreviewExt(abs) {
		return "", ErrPreviewForbidden(filename)
	}
	allowed := false
	for _, dir := range c.AllowedDirectories() {
		if fsutil.Within(dir, abs) {
			allowed = true
			break
		}
	}
	if !allowed {
		return "", ErrPreviewForbidden(filename)
	}
	if !fsutil.IsFile(abs) {
		return "", previewNotFoundError{path: filename}
	}
	return abs, nil
}

func (c *Catalog) hasPreviewExt(path string) bool {
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(path), "."))
	for _, e := range c.previewExts {
		if ext == e {
			return true
		}
	}
	return false
}
