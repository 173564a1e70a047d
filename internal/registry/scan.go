package registry

import (
	"context"
	"io/fs"
	"path/filepath"

	"github.com/rs/zerolog"

	"extranetd/internal/common/fsutil"
	"extranetd/pkg/types"
)

// scan walks root in lexical order and indexes every file the kind accepts.
// The first file seen for a name wins. A missing root yields an empty index.
func scan(ctx context.Context, kind Kind, root string, cache *MetadataCache, log zerolog.Logger) (map[string]types.Network, error) {
	found := make(map[string]types.Network)
	if !fsutil.PathExists(root) {
		log.Debug().Str("dir", root).Msg("registry dir does not exist")
		return found, nil
	}
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		if err != nil {
			if path == root {
				return err
			}
			log.Warn().Err(err).Str("path", path).Msg("skipping unreadable path")
			if d != nil && d.IsDir() {
				return fs.SkipDir
			}
			return nil
		}
		if d.IsDir() || !kind.accepts(d.Name()) {
			return nil
		}
		name := fsutil.StripExt(d.Name())
		if prev, dup := found[name]; dup {
			log.Warn().Str("name", name).Str("kept", prev.Filename).Str("ignored", path).Msg("duplicate add-on name")
			return nil
		}
		found[name] = load(kind, name, path, cache, log)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return found, nil
}

// load builds the entry for one file. Metadata problems are logged, never fatal.
func load(kind Kind, name, path string, cache *MetadataCache, log zerolog.Logger) types.Network {
	n := types.Network{Name: name, Filename: path}
	meta, err := readSidecarMeta(fsutil.StripExt(path))
	if err != nil {
		log.Warn().Err(err).Str("name", name).Msg("ignoring unreadable sidecar metadata")
	}
	n.Meta = meta
	if kind.EmbeddedMetadata && isSafetensors(path) {
		md, err := cache.Load(path)
		if err != nil {
			log.Warn().Err(err).Str("name", name).Msg("ignoring unreadable embedded metadata")
		}
		n.Metadata = md
	}
	return n
}
