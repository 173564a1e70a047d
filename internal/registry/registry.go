// Package registry discovers add-on files (LoRA adapters, hypernetworks) on disk
// and keeps an in-memory index of them keyed by name.
//
// A Registry is populated by Refresh and read by everything else. Readers get
// copies, so entries handed out are never mutated afterwards.
package registry

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"extranetd/internal/common/fsutil"
	"extranetd/pkg/types"
)

// Kind describes one family of add-on files.
type Kind struct {
	// Name labels logs and metrics, e.g. "lora".
	Name string
	// Extensions accepted by the scan, lower-case with the leading dot.
	Extensions []string
	// EmbeddedMetadata enables reading safetensors __metadata__ headers.
	EmbeddedMetadata bool
}

var (
	// KindLora covers LoRA/LyCORIS adapters.
	KindLora = Kind{Name: "lora", Extensions: []string{".safetensors", ".pt", ".ckpt"}, EmbeddedMetadata: true}
	// KindHypernetwork covers hypernetwork checkpoints.
	KindHypernetwork = Kind{Name: "hypernetwork", Extensions: []string{".pt"}}
)

func (k Kind) accepts(filename string) bool {
	lower := strings.ToLower(filename)
	for _, ext := range k.Extensions {
		if strings.HasSuffix(lower, ext) {
			return true
		}
	}
	return false
}

// Config configures a Registry.
type Config struct {
	Kind Kind
	// Dir is the root directory to scan; '~' is expanded on every refresh.
	Dir string
	// Cache memoizes embedded metadata across refreshes. Optional.
	Cache *MetadataCache
	// Logger is optional; a no-op logger is used when nil.
	Logger *zerolog.Logger
}

// Registry is a thread-safe name -> Network index for one add-on kind.
type Registry struct {
	kind  Kind
	dir   string
	cache *MetadataCache
	log   zerolog.Logger

	mu          sync.RWMutex
	entries     map[string]types.Network
	lastRefresh time.Time
}

// New builds an empty registry. Call Refresh to populate it.
func New(cfg Config) *Registry {
	l := zerolog.Nop()
	if cfg.Logger != nil {
		l = cfg.Logger.With().Str("kind", cfg.Kind.Name).Logger()
	}
	return &Registry{
		kind:    cfg.Kind,
		dir:     cfg.Dir,
		cache:   cfg.Cache,
		log:     l,
		entries: make(map[string]types.Network),
	}
}

// Kind returns the add-on kind this registry indexes.
func (r *Registry) Kind() Kind { return r.kind }

// Dir returns the absolute scan root, or the configured value if it cannot be resolved.
func (r *Registry) Dir() string {
	abs, err := fsutil.AbsDir(r.dir)
	if err != nil {
		return r.dir
	}
	return abs
}

// Refresh re-scans the directory and atomically replaces the index.
// On error the previous index is kept.
func (r *Registry) Refresh(ctx context.Context) error {
	start := time.Now()
	root, err := fsutil.AbsDir(r.dir)
	if err != nil {
		return err
	}
	found, err := scan(ctx, r.kind, root, r.cache, r.log)
	if err != nil {
		r.log.Error().Err(err).Str("dir", root).Msg("registry refresh failed")
		return err
	}
	r.mu.Lock()
	r.entries = found
	r.lastRefresh = time.Now()
	r.mu.Unlock()

	dur := time.Since(start)
	registryEntries.WithLabelValues(r.kind.Name).Set(float64(len(found)))
	refreshDuration.WithLabelValues(r.kind.Name).Observe(dur.Seconds())
	r.log.Info().Str("dir", root).Int("count", len(found)).Dur("dur", dur).Msg("registry refreshed")
	return nil
}

// Entries returns a copy of all entries ordered lexicographically by name.
func (r *Registry) Entries() []types.Network {
	r.mu.RLock()
	out := make([]types.Network, 0, len(r.entries))
	for _, n := range r.entries {
		out = append(out, n)
	}
	r.mu.RUnlock()
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// Get looks up one entry by name.
func (r *Registry) Get(name string) (types.Network, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	n, ok := r.entries[name]
	return n, ok
}

// Len returns the number of indexed entries.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.entries)
}

// LastRefresh reports when the index was last replaced (zero if never).
func (r *Registry) LastRefresh() time.Time {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.lastRefresh
}

// Set replaces the index with the given entries. Used by callers that
// populate a registry from somewhere other than disk.
func (r *Registry) Set(entries ...types.Network) {
	m := make(map[string]types.Network, len(entries))
	for _, n := range entries {
		m[n.Name] = n
	}
	r.mu.Lock()
	r.entries = m
	r.lastRefresh = time.Now()
	r.mu.Unlock()
	registryEntries.WithLabelValues(r.kind.Name).Set(float64(len(m)))
}
