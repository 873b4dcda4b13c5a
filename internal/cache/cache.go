package cache

import (
	"sync"
	"time"

	"github.com/Meesho/BharatMLStack/maskfill/pkg/metric"
	"github.com/coocood/freecache"
	"github.com/goccy/go-json"
	"github.com/rs/zerolog/log"
)

const (
	metricUpdateInterval = 1 * time.Minute
	infiniteExpiry       = -1

	HitRate       = "in_memory_cache_hit_rate"
	ItemCount     = "in_memory_cache_item_count"
	EvacuateCount = "in_memory_cache_evacuate_count"
	ExpiryCount   = "in_memory_cache_expiry_count"
)

// Cache is a freecache backed store of JSON encoded values
type Cache struct {
	name      string
	ttlSec    int
	store     *freecache.Cache
	stop      chan struct{}
	closeOnce sync.Once
}

// New allocates a cache of sizeInBytes. A ttlSec of zero or less keeps entries until evicted.
func New(name string, sizeInBytes, ttlSec int) *Cache {
	if ttlSec <= 0 {
		ttlSec = infiniteExpiry
	}
	c := &Cache{
		name:   name,
		ttlSec: ttlSec,
		store:  freecache.NewCache(sizeInBytes),
		stop:   make(chan struct{}),
	}
	go c.publishMetric()
	log.Info().Str("cache_name", name).Int("size_in_bytes", sizeInBytes).Int("ttl_sec", ttlSec).Msg("In-memory cache initialized")
	return c
}

// Get decodes the entry for key into value and reports whether one was found
func (c *Cache) Get(key string, value any) bool {
	data, err := c.store.Get([]byte(key))
	if err != nil {
		return false
	}
	if err := json.Unmarshal(data, value); err != nil {
		log.Warn().Err(err).Str("cache_name", c.name).Msg("Dropping undecodable cache entry")
		c.store.Del([]byte(key))
		return false
	}
	return true
}

// Set stores value under key. Values that cannot be encoded or do not fit are skipped.
func (c *Cache) Set(key string, value any) {
	data, err := json.Marshal(value)
	if err != nil {
		log.Warn().Err(err).Str("cache_name", c.name).Msg("Skipping cache entry that cannot be encoded")
		return
	}
	if err := c.store.Set([]byte(key), data, c.ttlSec); err != nil {
		log.Debug().Err(err).Str("cache_name", c.name).Msg("Skipping cache entry")
	}
}

func (c *Cache) Delete(key string) bool {
	return c.store.Del([]byte(key))
}

func (c *Cache) EntryCount() int64 {
	return c.store.EntryCount()
}

// Close stops the metric publisher
func (c *Cache) Close() {
	c.closeOnce.Do(func() { close(c.stop) })
}

func (c *Cache) publishMetric() {
	ticker := time.NewTicker(metricUpdateInterval)
	defer ticker.Stop()
	tags := metric.BuildTag(metric.NewTag("cache_name", c.name))
	for {
		select {
		case <-c.stop:
			return
		case <-ticker.C:
			metric.Gauge(HitRate, c.store.HitRate(), tags)
			metric.Gauge(ItemCount, float64(c.store.EntryCount()), tags)
			metric.Gauge(EvacuateCount, float64(c.store.EvacuateCount()), tags)
			metric.Gauge(ExpiryCount, float64(c.store.ExpiredCount()), tags)
		}
	}
}
