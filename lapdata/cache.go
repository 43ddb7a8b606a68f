package lapdata

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"
)

// Identity names one version of a lap file on disk. A rewritten file gets a
// new identity and therefore a new cache entry.
type Identity struct {
	Path    string
	Size    int64
	ModTime int64 // unix nanoseconds
}

func (id Identity) String() string {
	return fmt.Sprintf("%s|%d|%d", id.Path, id.Size, id.ModTime)
}

// IdentityOf stats path and returns its identity.
func IdentityOf(path string) (Identity, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return Identity{}, fmt.Errorf("resolve lap file path: %w", err)
	}
	info, err := os.Stat(abs)
	if err != nil {
		return Identity{}, fmt.Errorf("stat lap file: %w", err)
	}
	if info.IsDir() {
		return Identity{}, fmt.Errorf("lap file %s is a directory", abs)
	}
	return Identity{Path: filepath.Clean(abs), Size: info.Size(), ModTime: info.ModTime().UnixNano()}, nil
}

// Observer receives cache events. internal/metrics provides the Prometheus one.
type Observer interface {
	CacheHit()
	CacheMiss()
	RaceLoaded(rows int, elapsed time.Duration)
}

type nopObserver struct{}

func (nopObserver) CacheHit()                     {}
func (nopObserver) CacheMiss()                    {}
func (nopObserver) RaceLoaded(int, time.Duration) {}

// Cache maps lap-file identity to a prepared Race. Entries are inserted once
// and never evicted. Concurrent requests for the same file share one load.
type Cache struct {
	mu    sync.RWMutex
	races map[Identity]*Race
	group singleflight.Group

	opts     ParseOptions
	logger   *slog.Logger
	observer Observer
}

// NewCache creates an empty cache. logger and observer may be nil.
func NewCache(opts ParseOptions, logger *slog.Logger, observer Observer) *Cache {
	if logger == nil {
		logger = slog.Default()
	}
	if observer == nil {
		observer = nopObserver{}
	}
	return &Cache{
		races:    make(map[Identity]*Race),
		opts:     opts,
		logger:   logger.With(slog.String("component", "lap_cache")),
		observer: observer,
	}
}

// Get returns the prepared race for path, loading and enriching it on first use.
func (c *Cache) Get(path string) (*Race, error) {
	id, err := IdentityOf(path)
	if err != nil {
		return nil, err
	}
	if r, ok := c.Lookup(id); ok {
		c.observer.CacheHit()
		return r, nil
	}
	c.observer.CacheMiss()

	v, err, _ := c.group.Do(id.String(), func() (any, error) {
		if r, ok := c.Lookup(id); ok {
			return r, nil
		}
		start := time.Now()
		ds, err := LoadFile(id.Path, c.opts)
		if err != nil {
			return nil, err
		}
		race, err := Prepare(ds)
		if err != nil {
			return nil, err
		}
		elapsed := time.Since(start)
		c.observer.RaceLoaded(ds.RowCount, elapsed)
		c.logger.Info("race loaded",
			slog.String("race", ds.Name),
			slog.String("path", id.Path),
			slog.Int("rows", ds.RowCount),
			slog.Int("skipped", ds.Skipped),
			slog.Int("drivers", len(race.Drivers)),
			slog.Duration("elapsed", elapsed),
		)
		for _, w := range ds.Warnings {
			c.logger.Warn("lap row skipped", slog.String("race", ds.Name), slog.String("detail", w))
		}
		stored, _ := c.Insert(id, race)
		return stored, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*Race), nil
}

// Lookup returns the cached race for id, if any.
func (c *Cache) Lookup(id Identity) (*Race, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	r, ok := c.races[id]
	return r, ok
}

// Insert stores r under id unless an entry already exists. It returns the
// entry that is cached after the call and whether r was the one inserted.
func (c *Cache) Insert(id Identity, r *Race) (*Race, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if existing, ok := c.races[id]; ok {
		return existing, false
	}
	c.races[id] = r
	return r, true
}

// Len returns the number of cached races.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.races)
}
