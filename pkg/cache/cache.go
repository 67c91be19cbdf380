package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
	"sync"
	"time"
)

const (
	// DefaultTTL is how long a synthesized payload stays valid.
	DefaultTTL = 24 * time.Hour
	// DefaultCapacity bounds the number of cached payloads.
	DefaultCapacity = 200
	// DefaultFormat is assumed when a lookup omits the audio format.
	DefaultFormat = "mp3"
	// defaultVoice is the sentinel used when no voice id is given.
	defaultVoice = "default"
)

// Entry is one cached synthesis payload.
type Entry struct {
	Audio     []byte
	CreatedAt time.Time
	Hits      int
	text      string
}

// Stats is a point-in-time view of cache effectiveness. HitRate is a
// percentage, 0 when no lookups have occurred.
type Stats struct {
	Hits    int
	Misses  int
	Size    int
	HitRate float64
}

// ResponseCache maps a (text, voice, format) fingerprint to synthesized
// audio. It is shared read/write across sessions; every operation holds a
// single critical section.
type ResponseCache struct {
	mu       sync.Mutex
	entries  map[string]*Entry
	capacity int
	ttl      time.Duration
	hits     int
	misses   int
	now      func() time.Time
}

// Option configures a ResponseCache.
type Option func(*ResponseCache)

// WithCapacity overrides the entry limit.
func WithCapacity(n int) Option {
	return func(c *ResponseCache) {
		if n > 0 {
			c.capacity = n
		}
	}
}

// WithTTL overrides the entry lifetime.
func WithTTL(ttl time.Duration) Option {
	return func(c *ResponseCache) {
		if ttl > 0 {
			c.ttl = ttl
		}
	}
}

// WithClock overrides the time source. Tests use this to age entries.
func WithClock(now func() time.Time) Option {
	return func(c *ResponseCache) {
		if now != nil {
			c.now = now
		}
	}
}

// New creates an empty ResponseCache.
func New(opts ...Option) *ResponseCache {
	c := &ResponseCache{
		entries:  make(map[string]*Entry),
		capacity: DefaultCapacity,
		ttl:      DefaultTTL,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// normalizeText folds case and surrounding whitespace so near-identical
// requests collide to the same entry.
func normalizeText(text string) string {
	return strings.ToLower(strings.TrimSpace(text))
}

// Key derives the fixed-length fingerprint for a (text, voice, format)
// triple.
func Key(text, voice, format string) string {
	if voice == "" {
		voice = defaultVoice
	}
	if format == "" {
		format = DefaultFormat
	}
	sum := sha256.Sum256([]byte(normalizeText(text) + "|" + voice + "|" + format))
	return hex.EncodeToString(sum[:])
}

// Get returns the cached audio for a request, if still fresh. A hit bumps
// the entry's hit count; an expired entry is removed on the spot and
// counted as a miss.
func (c *ResponseCache) Get(text, voice, format string) ([]byte, bool) {
	key := Key(text, voice, format)
	c.mu.Lock()
	defer c.mu.Unlock()

	entry, ok := c.entries[key]
	if !ok {
		c.misses++
		return nil, false
	}
	if c.now().Sub(entry.CreatedAt) > c.ttl {
		delete(c.entries, key)
		c.misses++
		return nil, false
	}
	entry.Hits++
	c.hits++
	return entry.Audio, true
}

// Set stores synthesized audio, evicting one entry first when the cache is
// full and the key is new.
func (c *ResponseCache) Set(text string, audio []byte, voice, format string) {
	key := Key(text, voice, format)
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, exists := c.entries[key]; !exists && len(c.entries) >= c.capacity {
		c.evictLocked()
	}
	c.entries[key] = &Entry{
		Audio:     audio,
		CreatedAt: c.now(),
		text:      normalizeText(text),
	}
}

// evictLocked removes the entry with the lowest hit count, oldest creation
// time breaking ties. Frequently requested fixed phrases survive over
// one-off dynamic responses.
func (c *ResponseCache) evictLocked() {
	var victim string
	var victimEntry *Entry
	for key, entry := range c.entries {
		if victimEntry == nil ||
			entry.Hits < victimEntry.Hits ||
			(entry.Hits == victimEntry.Hits && entry.CreatedAt.Before(victimEntry.CreatedAt)) {
			victim = key
			victimEntry = entry
		}
	}
	if victimEntry != nil {
		delete(c.entries, victim)
	}
}

// Invalidate removes a single entry, reporting whether it was present.
func (c *ResponseCache) Invalidate(text, voice, format string) bool {
	key := Key(text, voice, format)
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.entries[key]; !ok {
		return false
	}
	delete(c.entries, key)
	return true
}

// InvalidatePattern removes every entry whose normalized text contains the
// pattern, returning the count removed.
func (c *ResponseCache) InvalidatePattern(pattern string) int {
	pattern = normalizeText(pattern)
	c.mu.Lock()
	defer c.mu.Unlock()
	if pattern == "" {
		return 0
	}
	removed := 0
	for key, entry := range c.entries {
		if strings.Contains(entry.text, pattern) {
			delete(c.entries, key)
			removed++
		}
	}
	return removed
}

// ClearExpired sweeps out every TTL-expired entry and returns the count.
func (c *ResponseCache) ClearExpired() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	removed := 0
	now := c.now()
	for key, entry := range c.entries {
		if now.Sub(entry.CreatedAt) > c.ttl {
			delete(c.entries, key)
			removed++
		}
	}
	return removed
}

// Clear drops every entry.
func (c *ResponseCache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[string]*Entry)
}

// Stats reports cumulative hit/miss counters and current size.
func (c *ResponseCache) Stats() Stats {
	c.mu.Lock()
	defer c.mu.Unlock()
	s := Stats{Hits: c.hits, Misses: c.misses, Size: len(c.entries)}
	if total := c.hits + c.misses; total > 0 {
		s.HitRate = float64(c.hits) / float64(total) * 100
	}
	return s
}

// Len returns the current entry count.
func (c *ResponseCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}
