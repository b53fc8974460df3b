package evaluate

import (
	"crypto/sha1"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/aryanagarwal/guide/internal/verdict"
)

// ErrCacheMiss is returned by Cache.Get when no verdict is stored for a key.
var ErrCacheMiss = errors.New("cache miss")

// Cache stores verdicts keyed by activity sentence. The same activity always
// receives the same verdict, so classification results are cached
// indefinitely by default.
type Cache interface {
	Get(key string) (*verdict.Verdict, error)
	Put(key string, v *verdict.Verdict) error
}

// CacheKey derives the storage key for an activity sentence.
func CacheKey(activity string) string {
	return fmt.Sprintf("%x", sha1.Sum([]byte(activity)))
}

// FileCache persists one JSON file per verdict under a directory.
type FileCache struct {
	Dir string
}

// NewFileCache creates the cache directory if needed.
func NewFileCache(dir string) (*FileCache, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating cache dir: %w", err)
	}
	return &FileCache{Dir: dir}, nil
}

func (c *FileCache) path(key string) string {
	return filepath.Join(c.Dir, key+".json")
}

func (c *FileCache) Get(key string) (*verdict.Verdict, error) {
	data, err := os.ReadFile(c.path(key))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrCacheMiss
		}
		return nil, fmt.Errorf("reading cache entry: %w", err)
	}
	var v verdict.Verdict
	if err := json.Unmarshal(data, &v); err != nil {
		// A corrupt entry is treated as a miss so it gets overwritten.
		return nil, ErrCacheMiss
	}
	return &v, nil
}

func (c *FileCache) Put(key string, v *verdict.Verdict) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("marshaling cache entry: %w", err)
	}
	if err := os.WriteFile(c.path(key), data, 0o644); err != nil {
		return fmt.Errorf("writing cache entry: %w", err)
	}
	return nil
}

// NopCache never hits and never stores; used with --no-cache.
type NopCache struct{}

func (NopCache) Get(string) (*verdict.Verdict, error) { return nil, ErrCacheMiss }
func (NopCache) Put(string, *verdict.Verdict) error   { return nil }
