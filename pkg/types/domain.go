package types

// Network is a registry entry for one add-on file on disk (a LoRA, a hypernetwork).
type Network struct {
	// Unique key inside its registry: the file name without extension.
	// example: detail-tweaker
	Name string `json:"name" example:"detail-tweaker"`
	// Absolute path to the add-on file.
	// example: /home/user/models/Lora/detail-tweaker.safetensors
	Filename string `json:"filename" example:"/home/user/models/Lora/detail-tweaker.safetensors"`
	// User metadata read from a sidecar file (displayname, title, ...).
	Meta map[string]string `json:"meta,omitempty"`
	// Metadata embedded in the add-on file itself (safetensors __metadata__).
	Metadata map[string]any `json:"metadata,omitempty"`
}
