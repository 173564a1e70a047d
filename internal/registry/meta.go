package registry

import (
	"fmt"

	"extranetd/internal/common/fsutil"
	"extranetd/internal/config"
)

// sidecarMetaSuffixes are tried in order next to the add-on file.
var sidecarMetaSuffixes = []string{".meta.yaml", ".meta.yml", ".meta.json", ".meta.toml"}

// readSidecarMeta reads user metadata such as displayname and title from the
// first sidecar file that exists for base (the add-on path without extension).
// It returns nil, nil when there is no sidecar.
func readSidecarMeta(base string) (map[string]string, error) {
	for _, suffix := range sidecarMetaSuffixes {
		p := base + suffix
		if !fsutil.IsFile(p) {
			continue
		}
		var raw map[string]any
		if err := config.DecodeFile(p, &raw); err != nil {
			return nil, err
		}
		if len(raw) == 0 {
			return nil, nil
		}
		meta := make(map[string]string, len(raw))
		for k, v := range raw {
			if v == nil {
				continue
			}
			if s, ok := v.(string); ok {
				meta[k] = s
				continue
			}
			meta[k] = fmt.Sprint(v)
		}
		return meta, nil
	}
	return nil, nil
}
