package types

// Item is the view record produced for one registry entry of a page.
type Item struct {
	// Display name: meta displayname, else meta title, else the registry key.
	// example: Detail Tweaker
	Name string `json:"name" example:"Detail Tweaker"`
	// Add-on path with the extension stripped.
	// example: /home/user/models/Lora/detail-tweaker
	Filename string `json:"filename" example:"/home/user/models/Lora/detail-tweaker"`
	// Thumbnail link for the first preview image found, null when none exists.
	Preview *string `json:"preview"`
	// Text read from a description sidecar, null when none exists.
	Description *string `json:"description"`
	// Path relative to the page's preview directory, used for searching.
	// example: /styles/detail-tweaker.safetensors
	SearchTerm string `json:"search_term" example:"/styles/detail-tweaker.safetensors"`
	// JavaScript expression inserted into the prompt box.
	// example: "<lora:detail-tweaker:" + opts.extra_networks_default_multiplier + ">"
	Prompt string `json:"prompt"`
	// Path where a freshly generated preview would be saved.
	// example: /home/user/models/Lora/detail-tweaker.png
	LocalPreview string `json:"local_preview" example:"/home/user/models/Lora/detail-tweaker.png"`
	// Pretty-printed embedded metadata; only set by pages that carry it.
	Metadata *string `json:"metadata,omitempty"`
}

// PageInfo describes one registered page.
type PageInfo struct {
	// example: lora
	Name string `json:"name" example:"lora"`
	// example: Lora
	Title string `json:"title" example:"Lora"`
	// Number of entries currently in the page's registry.
	// example: 12
	Count int `json:"count" example:"12"`
	// Directories the thumbnail endpoint may serve files from.
	AllowedDirectories []string `json:"allowed_directories"`
}

// PagesResponse is returned by GET /extra-networks.
type PagesResponse struct {
	Pages []PageInfo `json:"pages"`
}

// ItemsResponse is returned by GET /extra-networks/{page}/items.
type ItemsResponse struct {
	// example: lora
	Page  string `json:"page" example:"lora"`
	Items []Item `json:"items"`
}

// RefreshResponse is returned by the refresh endpoints.
type RefreshResponse struct {
	// Pages that were re-scanned.
	Refreshed []string `json:"refreshed"`
	// Duration of the re-scan in milliseconds.
	// example: 12
	DurationMS int64 `json:"duration_ms" example:"12"`
}

// ErrorResponse is a consistent JSON error payload.
type ErrorResponse struct {
	// Error message.
	// example: page not found: embeddings
	Error string `json:"error" example:"page not found: embeddings"`
	// HTTP status code.
	// example: 404
	Code int `json:"code" example:"404"`
}
