package catalog

import (
	"time"

	"github.com/rs/zerolog"

	"extranetd/internal/pages"
	"extranetd/internal/registry"
)

// Defaults applied when corresponding Config fields are unset.
const (
	defaultWatchDebounce    = 500 * time.Millisecond
	defaultMetadataCacheTTL = 10 * time.Minute
)

var defaultPreviewExts = []string{"png", "jpg", "jpeg", "webp", "gif"}

// Config encapsulates everything needed to build the standard catalog.
type Config struct {
	LoraDir          string
	HypernetworkDir  string
	Pages            pages.Options
	WatchDebounce    time.Duration
	MetadataCacheTTL time.Duration
	Logger           *zerolog.Logger
}

// New builds the standard catalog: a "lora" and a "hypernetworks" page, each
// over its own registry. Registries start empty; call RefreshAll.
func New(cfg Config) *Catalog {
	if cfg.MetadataCacheTTL <= 0 {
		cfg.MetadataCacheTTL = defaultMetadataCacheTTL
	}
	cache := registry.NewMetadataCache(cfg.MetadataCacheTTL)
	loras := registry.New(registry.Config{Kind: registry.KindLora, Dir: cfg.LoraDir, Cache: cache, Logger: cfg.Logger})
	hypernets := registry.New(registry.Config{Kind: registry.KindHypernetwork, Dir: cfg.HypernetworkDir, Logger: cfg.Logger})

	c := NewWithPages(
		pages.NewLoraPage(loras, cfg.Pages),
		pages.NewHypernetPage(hypernets, cfg.Pages),
	)
	if len(cfg.Pages.PreviewExtensions) > 0 {
		c.previewExts = cfg.Pages.PreviewExtensions
	}
	c.watchDebounce = cfg.WatchDebounce
	if c.watchDebounce <= 0 {
		c.watchDebounce = defaultWatchDebounce
	}
	if cfg.Logger != nil {
		c.log = cfg.Logger.With().Str("component", "catalog").Logger()
	}
	return c
}
