package catalog

import (
	"errors"
	"net/http"
)

// pageNotFoundError is returned when a page name is not registered.
type pageNotFoundError struct{ name string }

func (e pageNotFoundError) Error() string   { return "page not found: " + e.name }
func (e pageNotFoundError) StatusCode() int { return http.StatusNotFound }

// ErrPageNotFound returns an error for an unknown page name.
func ErrPageNotFound(name string) error { return pageNotFoundError{name: name} }

// IsPageNotFound reports whether err indicates an unknown page.
func IsPageNotFound(err error) bool {
	var e pageNotFoundError
	return errors.As(err, &e)
}

// previewForbiddenError is returned when a thumbnail request points outside
// every page's preview directories, or at something that is not an image.
type previewForbiddenError struct{ path string }

func (e previewForbiddenError) Error() string {
	return "file cannot be fetched: " + e.path + ". Must be in one of directories registered by extra pages."
}
func (e previewForbiddenError) StatusCode() int { return http.StatusForbidden }

// ErrPreviewForbidden constructs a previewForbiddenError.
func ErrPreviewForbidden(path string) error { return previewForbiddenError{path: path} }

// IsPreviewForbidden reports whether err indicates a sandbox violation.
func IsPreviewForbidden(err error) bool {
	var e previewForbiddenError
	return errors.As(err, &e)
}

// previewNotFoundError is returned for an allowed path that does not exist.
type previewNotFoundError struct{ path string }

func (e previewNotFoundError) Error() string   { return "preview not found: " + e.path }
func (e previewNotFoundError) StatusCode() int { return http.StatusNotFound }

// IsPreviewNotFound reports whether err indicates a missing preview file.
func IsPreviewNotFound(err error) bool {
	var e previewNotFoundError
	return errors.As(err, &e)
}
