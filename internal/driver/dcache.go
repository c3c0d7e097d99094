package driver

import (
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/vmihailenco/msgpack/v5"
)

// Bump when ArtifactPayload changes shape; readers reject other versions.
const artifactSchemaVersion uint16 = 1

// ArtifactCache keeps compiled function artifacts on disk, keyed by the
// unit fingerprint. Thread-safe for concurrent access.
type ArtifactCache struct {
	mu  sync.RWMutex
	dir string
}

// ArtifactPayload is the cached record for one compiled function.
type ArtifactPayload struct {
	Schema uint16

	Name        string
	ParamCount  int
	Fingerprint string
	Code        string

	// DepNames are the unit's free names in sorted order. Enough to
	// re-link against a live session; resolutions are not cached.
	DepNames []string
}

// OpenArtifactCache initializes the cache at the standard XDG location.
func OpenArtifactCache(app string) (*ArtifactCache, error) {
	base := os.Getenv("XDG_CACHE_HOME")
	if base == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, err
		}
		base = filepath.Join(home, ".cache")
	}
	dir := filepath.Join(base, app)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &ArtifactCache{dir: dir}, nil
}

func (c *ArtifactCache) pathFor(fingerprint string) string {
	// Subdirectory "fns" keeps the cache root listable and easy to clear.
	return filepath.Join(c.dir, "fns", fingerprint+".mp")
}

// Put serializes a payload and writes it atomically.
func (c *ArtifactCache) Put(payload *ArtifactPayload) error {
	if c == nil {
		return nil
	}
	if !isHexDigest(payload.Fingerprint) {
		return fmt.Errorf("artifact cache: bad fingerprint %q", payload.Fingerprint)
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	p := c.pathFor(payload.Fingerprint)
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		return err
	}
	f, err := os.CreateTemp(filepath.Dir(p), "tmp-*")
	if err != nil {
		return err
	}
	defer os.Remove(f.Name())

	enc := msgpack.NewEncoder(f)
	if err := enc.Encode(payload); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	// Atomic replace.
	return os.Rename(f.Name(), p)
}

// Get reads a payload by fingerprint. A miss, a schema mismatch, or a
// record whose stored fingerprint disagrees with its key all return
// (false, nil).
func (c *ArtifactCache) Get(fingerprint string, out *ArtifactPayload) (bool, error) {
	if c == nil {
		return false, nil
	}
	c.mu.RLock()
	defer c.mu.RUnlock()

	f, err := os.Open(c.pathFor(fingerprint))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return false, nil
		}
		return false, err
	}
	defer f.Close()

	dec := msgpack.NewDecoder(f)
	if err := dec.Decode(out); err != nil {
		return false, err
	}
	if out.Schema != artifactSchemaVersion || out.Fingerprint != fingerprint {
		return false, nil
	}
	return true, nil
}

// DropAll invalidates the whole cache.
func (c *ArtifactCache) DropAll() error {
	if c == nil {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	old := c.dir + ".old-" + time.Now().Format("20060102150405")
	if err := os.Rename(c.dir, old); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return err
	}
	return os.RemoveAll(old)
}

// isHexDigest reports whether s looks like a lowercase hex SHA-256.
func isHexDigest(s string) bool {
	if len(s) != 64 {
		return false
	}
	_, err := hex.DecodeString(s)
	return err == nil
}
