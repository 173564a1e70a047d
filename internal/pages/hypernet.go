package pages

import (
	"iter"

	"extranetd/internal/registry"
	"extranetd/pkg/types"
)

// HypernetPage lists hypernetworks. It carries no embedded metadata.
type HypernetPage struct {
	base
}

// NewHypernetPage builds the "hypernetworks" page over reg.
func NewHypernetPage(reg *registry.Registry, opts Options) *HypernetPage {
	return &HypernetPage{base: newBase("hypernetworks", "Hypernetworks", "hypernet", reg, opts)}
}

func (p *HypernetPage) ListItems() iter.Seq[types.Item] {
	return p.seq(p.common)
}
