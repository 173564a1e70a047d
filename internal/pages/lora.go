package pages

import (
	"iter"

	"extranetd/internal/registry"
	"extranetd/pkg/types"
)

// LoraPage lists LoRA adapters, including their embedded training metadata.
type LoraPage struct {
	base
}

// NewLoraPage builds the "lora" page over reg.
func NewLoraPage(reg *registry.Registry, opts Options) *LoraPage {
	return &LoraPage{base: newBase("lora", "Lora", "lora", reg, opts)}
}

func (p *LoraPage) ListItems() iter.Seq[types.Item] {
	return p.seq(func(n types.Network) types.Item {
		it := p.common(n)
		it.Metadata = prettyJSON(n.Metadata)
		return it
	})
}
