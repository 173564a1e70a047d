// Package catalog owns the set of extra-network pages and is what the HTTP
// layer talks to. It is structured into small files by concern:
//
//   - catalog.go: Catalog type, constructor, page lookup and listing.
//   - config.go: Config and New, which builds registries and pages from it.
//   - errors.go: error types and helpers (IsPageNotFound, IsPreviewForbidden).
//   - preview.go: sandboxed resolution of thumbnail paths.
//   - events.go, eventpub_memory.go: refresh lifecycle events.
//   - watch.go: optional fsnotify-driven automatic refresh.
//
// External packages should use public methods only (New, Pages, Items,
// Refresh, RefreshAll, ResolvePreview, Ready, Close).
package catalog
