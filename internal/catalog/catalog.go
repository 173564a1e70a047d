package catalog

import (
	"context"
	"errors"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"extranetd/internal/pages"
	"extranetd/internal/registry"
	"extranetd/pkg/types"
)

type Catalog struct {
	mu       sync.RWMutex
	pages    []pages.Page
	byName   map[string]pages.Page
	pub      EventPublisher
	log      zerolog.Logger
	// scanErr holds, per page, the outcome of its latest refresh; a page
	// missing from it was never scanned. An empty string means success.
	scanErr  map[string]string
	watchers []*registry.Watcher

	previewExts   []string
	watchDebounce time.Duration
}

// registryBacked is implemented by pages that expose their registry.
type registryBacked interface {
	Registry() *registry.Registry
}

// NewWithPages builds a catalog over already constructed pages.
// Page names must be unique; later duplicates are ignored.
func NewWithPages(ps ...pages.Page) *Catalog {
	c := &Catalog{
		byName:      make(map[string]pages.Page, len(ps)),
		scanErr:     make(map[string]string, len(ps)),
		pub:         noopPublisher{},
		log:         zerolog.Nop(),
		previewExts: defaultPreviewExts,
	}
	for _, p := range ps {
		if _, dup := c.byName[p.Name()]; dup {
			continue
		}
		c.pages = append(c.pages, p)
		c.byName[p.Name()] = p
	}
	return c
}

// SetEventPublisher installs a publisher for refresh events.
func (c *Catalog) SetEventPublisher(p EventPublisher) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if p == nil {
		p = noopPublisher{}
	}
	c.pub = p
}

// SetLogger installs a structured logger.
func (c *Catalog) SetLogger(l zerolog.Logger) {
	c.mu.Lock()
	c.log = l
	c.mu.Unlock()
}

func (c *Catalog) publish(e Event) {
	c.mu.RLock()
	pub := c.pub
	c.mu.RUnlock()
	pub.Publish(e)
}

func (c *Catalog) page(name string) (pages.Page, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	p, ok := c.byName[name]
	if !ok {
		return nil, ErrPageNotFound(name)
	}
	return p, nil
}

// Pages describes every registered page in registration order.
func (c *Catalog) Pages() []types.PageInfo {
	c.mu.RLock()
	ps := append([]pages.Page(nil), c.pages...)
	c.mu.RUnlock()
	out := make([]types.PageInfo, 0, len(ps))
	for _, p := range ps {
		info := types.PageInfo{
			Name:               p.Name(),
			Title:              p.Title(),
			AllowedDirectories: p.AllowedDirectoriesForPreviews(),
		}
		if rb, ok := p.(registryBacked); ok {
			info.Count = rb.Registry().Len()
		} else {
			for range p.ListItems() {
				info.Count++
			}
		}
		out = append(out, info)
	}
	return out
}

// Items lists the view records of one page.
func (c *Catalog) Items(name string) ([]types.Item, error) {
	p, err := c.page(name)
	if err != nil {
		return nil, err
	}
	items := slices.Collect(p.ListItems())
	if items == nil {
		items = []types.Item{}
	}
	return items, nil
}

// Refresh re-scans one page.
func (c *Catalog) Refresh(ctx context.Context, name string) error {
	p, err := c.page(name)
	if err != nil {
		return err
	}
	return c.refresh(ctx, p)
}

// RefreshAll re-scans every page and returns the names that succeeded.
// Failures of individual pages are joined into the returned error.
func (c *Catalog) RefreshAll(ctx context.Context) ([]string, error) {
	c.mu.RLock()
	ps := append([]pages.Page(nil), c.pages...)
	c.mu.RUnlock()
	var (
		done []string
		errs []error
	)
	for _, p := range ps {
		if err := c.refresh(ctx, p); err != nil {
			errs = append(errs, err)
			continue
		}
		done = append(done, p.Name())
	}
	return done, errors.Join(errs...)
}

func (c *Catalog) refresh(ctx context.Context, p pages.Page) error {
	start := time.Now()
	c.publish(Event{Name: EventRefreshStart, Page: p.Name()})
	if err := p.Refresh(ctx); err != nil {
		c.setScanResult(p.Name(), err.Error())
		c.publish(Event{Name: EventRefreshError, Page: p.Name(), Fields: map[string]any{"error": err.Error()}})
		c.logger().Error().Err(err).Str("page", p.Name()).Msg("refresh failed")
		return err
	}
	c.setScanResult(p.Name(), "")
	dur := time.Since(start)
	c.publish(Event{Name: EventRefreshDone, Page: p.Name(), Fields: map[string]any{"duration": dur}})
	c.logger().Debug().Str("page", p.Name()).Dur("dur", dur).Msg("refresh done")
	return nil
}

func (c *Catalog) logger() *zerolog.Logger {
	c.mu.RLock()
	defer c.mu.RUnlock()
	l := c.log
	return &l
}

func (c *Catalog) setScanResult(page, errMsg string) {
	c.mu.Lock()
	c.scanErr[page] = errMsg
	c.mu.Unlock()
}

// Ready reports whether the latest refresh of every page succeeded.
func (c *Catalog) Ready() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	for _, p := range c.pages {
		msg, scanned := c.scanErr[p.Name()]
		if !scanned || msg != "" {
			return false
		}
	}
	return true
}

// LastError describes the pages whose latest refresh failed, one per line,
// in registration order. It is empty when none did.
func (c *Catalog) LastError() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	var msgs []string
	for _, p := range c.pages {
		if msg := c.scanErr[p.Name()]; msg != "" {
			msgs = append(msgs, p.Name()+": "+msg)
		}
	}
	return strings.Join(msgs, "\n")
}

// AllowedDirectories returns the union of every page's preview roots.
func (c *Catalog) AllowedDirectories() []string {
	c.mu.RLock()
	ps := append([]pages.Page(nil), c.pages...)
	c.mu.RUnlock()
	var dirs []string
	for _, p := range ps {
		for _, d := range p.AllowedDirectoriesForPreviews() {
			if !slices.Contains(dirs, d) {
				dirs = append(dirs, d)
			}
		}
	}
	return dirs
}
