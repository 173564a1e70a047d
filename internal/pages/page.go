package pages

import (
	"bytes"
	"context"
	"encoding/json"
	"iter"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"extranetd/internal/common/fsutil"
	"extranetd/internal/registry"
	"extranetd/pkg/types"
)

// ThumbRoute is the HTTP path that serves preview images; links produced by
// pages point at it.
const ThumbRoute = "/extra-networks/thumb"

// Page is one tab of the extra networks browser.
type Page interface {
	// Name is the URL-safe identifier, e.g. "lora".
	Name() string
	// Title is the human-readable tab label.
	Title() string
	// Refresh re-scans the page's registry from disk.
	Refresh(ctx context.Context) error
	// ListItems yields one record per registry entry, ordered by entry name.
	// The sequence can be ranged over any number of times.
	ListItems() iter.Seq[types.Item]
	// AllowedDirectoriesForPreviews lists the roots thumbnails may be served from.
	AllowedDirectoriesForPreviews() []string
}

// Options are the settings shared by all pages.
type Options struct {
	// SamplesFormat is the image extension used for LocalPreview, without dot.
	SamplesFormat string
	// MultiplierExpr is the JavaScript expression placed between the prompt halves.
	MultiplierExpr string
	// PreviewExtensions are tried in order when looking for a preview image.
	PreviewExtensions []string
}

const defaultMultiplierExpr = "opts.extra_networks_default_multiplier"

func (o Options) normalized() Options {
	if o.SamplesFormat == "" {
		o.SamplesFormat = "png"
	}
	o.SamplesFormat = strings.TrimPrefix(o.SamplesFormat, ".")
	if o.MultiplierExpr == "" {
		o.MultiplierExpr = defaultMultiplierExpr
	}
	if len(o.PreviewExtensions) == 0 {
		o.PreviewExtensions = []string{"png", "jpg", "jpeg", "webp", "gif"}
	}
	return o
}

// base carries what every page needs: its registry and the shared options.
type base struct {
	name  string
	title string
	token string
	reg   *registry.Registry
	opts  Options
}

func newBase(name, title, token string, reg *registry.Registry, opts Options) base {
	return base{name: name, title: title, token: token, reg: reg, opts: opts.normalized()}
}

func (b *base) Name() string  { return b.name }
func (b *base) Title() string { return b.title }

func (b *base) Refresh(ctx context.Context) error { return b.reg.Refresh(ctx) }

func (b *base) AllowedDirectoriesForPreviews() []string { return []string{b.reg.Dir()} }

// Registry exposes the backing registry.
func (b *base) Registry() *registry.Registry { return b.reg }

// seq lazily maps the registry snapshot taken at iteration time through item.
func (b *base) seq(item func(types.Network) types.Item) iter.Seq[types.Item] {
	return func(yield func(types.Item) bool) {
		for _, n := range b.reg.Entries() {
			if !yield(item(n)) {
				return
			}
		}
	}
}

// common fills the fields every page variant shares.
func (b *base) common(n types.Network) types.Item {
	path := fsutil.StripExt(n.Filename)
	return types.Item{
		Name:         DisplayName(n),
		Filename:     path,
		Preview:      b.findPreview(path),
		Description:  findDescription(path),
		SearchTerm:   b.searchTerms(n.Filename),
		Prompt:       Prompt(b.token, n.Name, b.opts.MultiplierExpr),
		LocalPreview: path + "." + b.opts.SamplesFormat,
	}
}

// DisplayName picks meta displayname, then meta title, then the registry key.
func DisplayName(n types.Network) string {
	if v := n.Meta["displayname"]; v != "" {
		return v
	}
	if v := n.Meta["title"]; v != "" {
		return v
	}
	return n.Name
}

// Prompt builds the JavaScript expression the UI evaluates to insert
// <token:name:multiplier> into the prompt.
func Prompt(token, name, multiplierExpr string) string {
	return jsonQuote("<"+token+":"+name+":") + " + " + multiplierExpr + " + " + jsonQuote(">")
}

// PreviewCandidates lists, in lookup order, the sibling files that may hold a
// preview for path (an add-on path without extension).
func PreviewCandidates(path string, exts []string) []string {
	out := make([]string, 0, 2*len(exts))
	for _, ext := range exts {
		out = append(out, path+"."+ext, path+".preview."+ext)
	}
	return out
}

func (b *base) findPreview(path string) *string {
	for _, file := range PreviewCandidates(path, b.opts.PreviewExtensions) {
		if fsutil.IsFile(file) {
			link := linkPreview(file)
			return &link
		}
	}
	return nil
}

// linkPreview points at the thumbnail route; mtime busts browser caches.
func linkPreview(file string) string {
	var mtime int64
	if fi, err := os.Stat(file); err == nil {
		mtime = fi.ModTime().Unix()
	}
	return "." + ThumbRoute + "?filename=" + url.QueryEscape(filepath.ToSlash(file)) + "&mtime=" + strconv.FormatInt(mtime, 10)
}

var descriptionSuffixes = []string{".txt", ".description.txt"}

func findDescription(path string) *string {
	for _, suffix := range descriptionSuffixes {
		b, err := os.ReadFile(path + suffix)
		if err != nil {
			continue
		}
		s := string(b)
		return &s
	}
	return nil
}

// searchTerms returns filename relative to the preview root it lives in,
// with forward slashes and a leading '/'; empty when it is outside all roots.
func (b *base) searchTerms(filename string) string {
	abs, err := filepath.Abs(filename)
	if err != nil {
		return ""
	}
	for _, dir := range b.AllowedDirectoriesForPreviews() {
		if !fsutil.Within(dir, abs) {
			continue
		}
		rel, err := filepath.Rel(dir, abs)
		if err != nil {
			continue
		}
		return "/" + filepath.ToSlash(rel)
	}
	return ""
}

// jsonQuote renders s as a JSON string literal without HTML escaping,
// so '<' and '>' stay readable in prompts.
func jsonQuote(s string) string {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	_ = enc.Encode(s)
	return strings.TrimSuffix(buf.String(), "\n")
}

// prettyJSON indents v with four spaces; nil or empty input yields nil.
func prettyJSON(v map[string]any) *string {
	if len(v) == 0 {
		return nil
	}
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "    ")
	if err := enc.Encode(v); err != nil {
		return nil
	}
	s := strings.TrimSuffix(buf.String(), "\n")
	return &s
}

var (
	_ Page = (*LoraPage)(nil)
	_ Page = (*HypernetPage)(nil)
)
