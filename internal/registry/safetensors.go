package registry

import (
	"encoding/binary"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	gocache "github.com/patrickmn/go-cache"
)

// maxHeaderBytes bounds the safetensors JSON header we are willing to read.
const maxHeaderBytes = 100 << 20

func isSafetensors(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".safetensors")
}

// ReadSafetensorsMetadata returns the __metadata__ section of a safetensors
// file. Values holding JSON objects or arrays (e.g. ss_tag_frequency) are
// decoded; everything else stays a string. A file without metadata yields nil.
func ReadSafetensorsMetadata(path string) (map[string]any, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var n uint64
	if err := binary.Read(f, binary.LittleEndian, &n); err != nil {
		return nil, fmt.Errorf("read header length: %w", err)
	}
	if n == 0 || n > maxHeaderBytes {
		return nil, fmt.Errorf("invalid header length %d", n)
	}
	buf := make([]byte, n)
	if _, err := io.ReadFull(f, buf); err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}
	var header struct {
		Metadata map[string]string `json:"__metadata__"`
	}
	if err := json.Unmarshal(buf, &header); err != nil {
		return nil, fmt.Errorf("decode header: %w", err)
	}
	if len(header.Metadata) == 0 {
		return nil, nil
	}
	out := make(map[string]any, len(header.Metadata))
	for k, v := range header.Metadata {
		trimmed := strings.TrimSpace(v)
		if strings.HasPrefix(trimmed, "{") || strings.HasPrefix(trimmed, "[") {
			var decoded any
			if err := json.Unmarshal([]byte(trimmed), &decoded); err == nil {
				out[k] = decoded
				continue
			}
		}
		out[k] = v
	}
	return out, nil
}

// MetadataCache memoizes embedded metadata keyed by path, mtime and size so a
// refresh only re-reads files that changed.
type MetadataCache struct {
	c *gocache.Cache
}

// NewMetadataCache creates a cache whose entries expire after ttl.
func NewMetadataCache(ttl time.Duration) *MetadataCache {
	return &MetadataCache{c: gocache.New(ttl, 2*ttl)}
}

// Load returns the metadata for path, reading the file only on a cache miss.
// A nil cache reads straight from disk.
func (mc *MetadataCache) Load(path string) (map[string]any, error) {
	if mc == nil {
		return ReadSafetensorsMetadata(path)
	}
	fi, err := os.Stat(path)
	if err != nil {
		metadataReads.WithLabelValues("error").Inc()
		return nil, err
	}
	key := fmt.Sprintf("%s|%d|%d", path, fi.ModTime().UnixNano(), fi.Size())
	if v, ok := mc.c.Get(key); ok {
		if md, ok := v.(map[string]any); ok {
			metadataReads.WithLabelValues("hit").Inc()
			return md, nil
		}
	}
	md, err := ReadSafetensorsMetadata(path)
	if err != nil {
		metadataReads.WithLabelValues("error").Inc()
		return nil, err
	}
	metadataReads.WithLabelValues("miss").Inc()
	mc.c.SetDefault(key, md)
	return md, nil
}

// Len reports how many files are cached.
func (mc *MetadataCache) Len() int {
	if mc == nil {
		return 0
	}
	return mc.c.ItemCount()
}

// Flush drops every cached entry.
func (mc *MetadataCache) Flush() {
	if mc != nil {
		mc.c.Flush()
	}
}
