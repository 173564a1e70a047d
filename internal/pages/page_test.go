package pages

import (
	"context"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"

	"extranetd/internal/registry"
	"extranetd/pkg/types"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

func newLora(t *testing.T, dir string, entries ...types.Network) *LoraPage {
	t.Helper()
	reg := registry.New(registry.Config{Kind: registry.KindLora, Dir: dir})
	reg.Set(entries...)
	return NewLoraPage(reg, Options{})
}

func TestListItems_OrderAndDisplayName(t *testing.T) {
	p := newLora(t, "/x",
		types.Network{Name: "b", Filename: "/x/b.safetensors", Meta: map[string]string{}},
		types.Network{Name: "a", Filename: "/x/a.safetensors", Meta: map[string]string{"title": "Alpha"}},
	)
	items := slices.Collect(p.ListItems())
	if len(items) != 2 {
		t.Fatalf("expected 2 items, got %d", len(items))
	}
	if items[0].Name != "Alpha" || items[1].Name != "b" {
		t.Fatalf("unexpected order/names: %q, %q", items[0].Name, items[1].Name)
	}
	if items[0].Filename != "/x/a" {
		t.Fatalf("filename not stripped: %q", items[0].Filename)
	}
}

func TestDisplayName_Precedence(t *testing.T) {
	cases := []struct {
		meta map[string]string
		want string
	}{
		{nil, "key"},
		{map[string]string{}, "key"},
		{map[string]string{"title": "T"}, "T"},
		{map[string]string{"displayname": "D", "title": "T"}, "D"},
		{map[string]string{"displayname": "", "title": "T"}, "T"},
		{map[string]string{"displayname": "", "title": ""}, "key"},
	}
	for _, c := range cases {
		if got := DisplayName(types.Network{Name: "key", Meta: c.meta}); got != c.want {
			t.Fatalf("meta=%v -> %q, want %q", c.meta, got, c.want)
		}
	}
}

func TestPrompt(t *testing.T) {
	got := Prompt("lora", "detail", defaultMultiplierExpr)
	want := `"<lora:detail:" + opts.extra_networks_default_multiplier + ">"`
	if got != want {
		t.Fatalf("prompt = %s, want %s", got, want)
	}
	got = Prompt("hypernet", `we"ird`, "0.8")
	want = `"<hypernet:we\"ird:" + 0.8 + ">"`
	if got != want {
		t.Fatalf("prompt = %s, want %s", got, want)
	}
}

func TestPreview_FirstExistingCandidate(t *testing.T) {
	dir := t.TempDir()
	base := filepath.Join(dir, "m")
	writeFile(t, base+".preview.png", "x")
	writeFile(t, base+".jpg", "x")

	p := newLora(t, dir, types.Network{Name: "m", Filename: base + ".safetensors"})
	items := slices.Collect(p.ListItems())
	if items[0].Preview == nil {
		t.Fatalf("expected a preview")
	}
	link := *items[0].Preview
	if !strings.HasPrefix(link, "."+ThumbRoute+"?filename=") {
		t.Fatalf("unexpected link: %s", link)
	}
	if !strings.Contains(link, "m.preview.png") || !strings.Contains(link, "&mtime=") {
		t.Fatalf("expected m.preview.png to win: %s", link)
	}
}

func TestPreview_NoneWhenMissing(t *testing.T) {
	dir := t.TempDir()
	p := newLora(t, dir, types.Network{Name: "m", Filename: filepath.Join(dir, "m.safetensors")})
	items := slices.Collect(p.ListItems())
	if items[0].Preview != nil {
		t.Fatalf("expected nil preview, got %s", *items[0].Preview)
	}
	if items[0].Description != nil {
		t.Fatalf("expected nil description")
	}
}

func TestPreviewCandidates(t *testing.T) {
	got := PreviewCandidates("/x/m", []string{"png", "webp"})
	want := []string{"/x/m.png", "/x/m.preview.png", "/x/m.webp", "/x/m.preview.webp"}
	if !slices.Equal(got, want) {
		t.Fatalf("got %v, want %v", got, want)
	}
}

func TestItemFields(t *testing.T) {
	dir := t.TempDir()
	base := filepath.Join(dir, "styles", "m")
	writeFile(t, base+".txt", "a description")
	p := NewLoraPage(registry.New(registry.Config{Kind: registry.KindLora, Dir: dir}), Options{SamplesFormat: ".jpg"})
	p.Registry().Set(types.Network{
		Name:     "m",
		Filename: base + ".safetensors",
		Metadata: map[string]any{"ss_network_dim": "32"},
	})
	it := slices.Collect(p.ListItems())[0]
	if it.LocalPreview != base+".jpg" {
		t.Fatalf("local preview = %q", it.LocalPreview)
	}
	if it.SearchTerm != "/styles/m.safetensors" {
		t.Fatalf("search term = %q", it.SearchTerm)
	}
	if it.Description == nil || *it.Description != "a description" {
		t.Fatalf("description = %v", it.Description)
	}
	if it.Metadata == nil || *it.Metadata != "{\n    \"ss_network_dim\": \"32\"\n}" {
		t.Fatalf("metadata = %v", it.Metadata)
	}
}

func TestSearchTerm_OutsideRoot(t *testing.T) {
	dir := t.TempDir()
	p := newLora(t, filepath.Join(dir, "root"), types.Network{Name: "m", Filename: filepath.Join(dir, "elsewhere", "m.pt")})
	if it := slices.Collect(p.ListItems())[0]; it.SearchTerm != "" {
		t.Fatalf("expected empty search term, got %q", it.SearchTerm)
	}
}

func TestHypernetPage(t *testing.T) {
	dir := t.TempDir()
	reg := registry.New(registry.Config{Kind: registry.KindHypernetwork, Dir: dir})
	reg.Set(types.Network{Name: "h", Filename: filepath.Join(dir, "h.pt"), Metadata: map[string]any{"x": "y"}})
	p := NewHypernetPage(reg, Options{MultiplierExpr: "1"})
	if p.Name() != "hypernetworks" || p.Title() != "Hypernetworks" {
		t.Fatalf("unexpected identity %q/%q", p.Name(), p.Title())
	}
	it := slices.Collect(p.ListItems())[0]
	if it.Prompt != `"<hypernet:h:" + 1 + ">"` {
		t.Fatalf("prompt = %s", it.Prompt)
	}
	if it.Metadata != nil {
		t.Fatalf("hypernetworks must not carry metadata")
	}
	if it.LocalPreview != filepath.Join(dir, "h.png") {
		t.Fatalf("local preview = %q", it.LocalPreview)
	}
	if dirs := p.AllowedDirectoriesForPreviews(); len(dirs) != 1 || dirs[0] != dir {
		t.Fatalf("allowed dirs = %v", dirs)
	}
}

func TestListItems_IdempotentAndRestartable(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "a.safetensors"), "")
	writeFile(t, filepath.Join(dir, "b.pt"), "")
	writeFile(t, filepath.Join(dir, "b.png"), "")
	reg := registry.New(registry.Config{Kind: registry.KindLora, Dir: dir})
	p := NewLoraPage(reg, Options{})
	if err := p.Refresh(context.Background()); err != nil {
		t.Fatalf("refresh: %v", err)
	}
	seq := p.ListItems()
	first := slices.Collect(seq)
	second := slices.Collect(seq)
	third := slices.Collect(p.ListItems())
	if len(first) != 2 {
		t.Fatalf("expected 2 items, got %d", len(first))
	}
	for i := range first {
		if !sameItem(first[i], second[i]) || !sameItem(first[i], third[i]) {
			t.Fatalf("item %d differs between iterations", i)
		}
	}
}

func TestListItems_EarlyStop(t *testing.T) {
	p := newLora(t, "/x",
		types.Network{Name: "a", Filename: "/x/a.pt"},
		types.Network{Name: "b", Filename: "/x/b.pt"},
		types.Network{Name: "c", Filename: "/x/c.pt"},
	)
	var seen []string
	for it := range p.ListItems() {
		seen = append(seen, it.Name)
		if len(seen) == 2 {
			break
		}
	}
	if !slices.Equal(seen, []string{"a", "b"}) {
		t.Fatalf("seen = %v", seen)
	}
}

func sameItem(a, b types.Item) bool {
	eq := func(x, y *string) bool {
		if x == nil || y == nil {
			return x == y
		}
		return *x == *y
	}
	return a.Name == b.Name && a.Filename == b.Filename && eq(a.Preview, b.Preview) &&
		eq(a.Description, b.Description) && a.SearchTerm == b.SearchTerm && a.Prompt == b.Prompt &&
		a.LocalPreview == b.LocalPreview && eq(a.Metadata, b.Metadata)
}
