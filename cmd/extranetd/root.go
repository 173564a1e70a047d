package main

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"extranetd/internal/catalog"
	"extranetd/internal/config"
	"extranetd/internal/pages"
)

// options collects command-line state shared by all subcommands.
type options struct {
	configPath string
	cfg        config.Config
	logPretty  bool
	corsCSV    string
}

// buildRootCmd constructs the command tree. Output goes to cmd.OutOrStdout so
// tests can capture it.
func buildRootCmd() *cobra.Command {
	o := &options{}
	root := &cobra.Command{
		Use:           "extranetd",
		Short:         "List LoRA adapters and hypernetworks for the extra networks browser",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	pf := root.PersistentFlags()
	pf.StringVar(&o.configPath, "config", os.Getenv("EXTRANETD_CONFIG"), "Config file (.yaml, .yml, .json, .toml)")
	pf.StringVar(&o.cfg.LoraDir, "lora-dir", "", "Directory to scan for LoRA files")
	pf.StringVar(&o.cfg.HypernetworkDir, "hypernetwork-dir", "", "Directory to scan for hypernetwork files")
	pf.StringVar(&o.cfg.SamplesFormat, "samples-format", "", "Image extension used for local previews")
	pf.StringVar(&o.cfg.MultiplierExpr, "multiplier", "", "Expression inserted as the prompt multiplier")
	pf.StringVar(&o.cfg.LogLevel, "log-level", "", "Log level: debug|info|warn|error")
	pf.BoolVar(&o.logPretty, "log-pretty", false, "Human-readable console logs instead of JSON")

	root.AddCommand(buildServeCmd(o), buildListCmd(o), buildDirsCmd(o))
	return root
}

// resolve merges the config file under the flags that were set explicitly,
// then applies defaults.
func (o *options) resolve(cmd *cobra.Command) (config.Config, error) {
	cfg := config.Config{}
	if o.configPath != "" {
		fileCfg, err := config.Load(o.configPath)
		if err != nil {
			return cfg, fmt.Errorf("load config: %w", err)
		}
		cfg = fileCfg
	}
	flags := cmd.Flags()
	override := func(name string, dst *string, v string) {
		if flags.Changed(name) {
			*dst = v
		}
	}
	override("lora-dir", &cfg.LoraDir, o.cfg.LoraDir)
	override("hypernetwork-dir", &cfg.HypernetworkDir, o.cfg.HypernetworkDir)
	override("samples-format", &cfg.SamplesFormat, o.cfg.SamplesFormat)
	override("multiplier", &cfg.MultiplierExpr, o.cfg.MultiplierExpr)
	override("log-level", &cfg.LogLevel, o.cfg.LogLevel)
	override("addr", &cfg.Addr, o.cfg.Addr)
	if flags.Changed("refresh-timeout") {
		cfg.RefreshTimeoutS = o.cfg.RefreshTimeoutS
	}
	if flags.Changed("watch") {
		cfg.Watch = o.cfg.Watch
	}
	if flags.Changed("cors-origins") {
		cfg.CORSOrigins = splitCSV(o.corsCSV)
		cfg.CORSEnabled = len(cfg.CORSOrigins) > 0
	}
	if v := os.Getenv("EXTRANETD_ADDR"); v != "" && !flags.Changed("addr") && cfg.Addr == "" {
		cfg.Addr = v
	}
	return cfg.WithDefaults(), nil
}

func durationMS(n int) time.Duration { return time.Duration(n) * time.Millisecond }
func durationS(n int) time.Duration  { return time.Duration(n) * time.Second }

func newLogger(cfg config.Config, pretty bool, w io.Writer) zerolog.Logger {
	var out io.Writer = w
	if pretty {
		out = zerolog.ConsoleWriter{Out: w}
	}
	lvl, err := zerolog.ParseLevel(strings.ToLower(cfg.LogLevel))
	if err != nil || lvl == zerolog.NoLevel {
		lvl = zerolog.InfoLevel
	}
	return zerolog.New(out).Level(lvl).With().Timestamp().Logger()
}

func newCatalog(cfg config.Config, log *zerolog.Logger) *catalog.Catalog {
	return catalog.New(catalog.Config{
		LoraDir:         cfg.LoraDir,
		HypernetworkDir: cfg.HypernetworkDir,
		Pages: pages.Options{
			SamplesFormat:     cfg.SamplesFormat,
			MultiplierExpr:    cfg.MultiplierExpr,
			PreviewExtensions: cfg.PreviewExtensions,
		},
		WatchDebounce:    durationMS(cfg.WatchDebounceMS),
		MetadataCacheTTL: durationS(cfg.MetadataCacheTTLS),
		Logger:           log,
	})
}

// splitCSV splits a comma-separated list, trimming blanks and dropping empties.
func splitCSV(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
