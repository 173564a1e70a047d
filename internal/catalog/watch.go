package catalog

import (
	"context"

	"extranetd/internal/registry"
)

// StartWatching refreshes each registry-backed page whenever its directory
// changes. Pages whose directory cannot be watched are logged and skipped.
// Watching stops when ctx is done or Close is called.
func (c *Catalog) StartWatching(ctx context.Context) {
	c.mu.RLock()
	ps := append(c.pages[:0:0], c.pages...)
	debounce := c.watchDebounce
	c.mu.RUnlock()
	for _, p := range ps {
		rb, ok := p.(registryBacked)
		if !ok {
			continue
		}
		w, err := registry.NewWatcher(rb.Registry(), debounce)
		if err != nil {
			c.logger().Warn().Err(err).Str("page", p.Name()).Msg("watcher unavailable")
			continue
		}
		ch, err := w.Start()
		if err != nil {
			_ = w.Stop()
			c.logger().Warn().Err(err).Str("page", p.Name()).Msg("cannot watch page directory")
			continue
		}
		c.mu.Lock()
		c.watchers = append(c.watchers, w)
		c.mu.Unlock()
		name := p.Name()
		go func() {
			for {
				select {
				case <-ctx.Done():
					return
				case _, ok := <-ch:
					if !ok {
						return
					}
					_ = c.Refresh(ctx, name)
				}
			}
		}()
	}
}

// Close stops all watchers.
func (c *Catalog) Close() error {
	c.mu.Lock()
	ws := c.watchers
	c.watchers = nil
	c.mu.Unlock()
	var first error
	for _, w := range ws {
		if err := w.Stop(); err != nil && first == nil {
			first = err
		}
	}
	return first
}
