package schedule

import (
	"time"

	"github.com/qwer999/radio/internal/storage"
	"github.com/qwer999/radio/internal/timeutil"
	"github.com/rs/zerolog/log"
)

const (
	cacheKeyPrefix = "schedule/"
	cacheDateKey   = "schedule/cacheDate"
)

// Cache is the day-scoped schedule store. Broadcaster schedules are
// published once per day, so every entry shares one invalidation clock:
// a stored entry is usable only while the last-fetch-date token equals
// today's local date. The rollover is checked lazily on read, there is
// no timer.
type Cache struct {
	store storage.Store
	now   func() time.Time
}

func NewCache(store storage.Store) *Cache {
	return &Cache{store: store, now: time.Now}
}

func entryKey(broadcaster, channel string) string {
	return cacheKeyPrefix + broadcaster + "/" + channel
}

// Valid reports whether cached entries were fetched today.
func (c *Cache) Valid() bool {
	var fetched string
	found, err := c.store.Get(cacheDateKey, &fetched)
	if err != nil || !found {
		return false
	}
	return fetched == timeutil.TodayKey(c.now())
}

// Get loads the cached payload for (broadcaster, channel) into v. A
// stale or missing entry is a miss.
func (c *Cache) Get(broadcaster, channel string, v any) bool {
	if !c.Valid() {
		return false
	}
	found, err := c.store.Get(entryKey(broadcaster, channel), v)
	if err != nil {
		log.Debug().Err(err).Str("broadcaster", broadcaster).Str("channel", channel).
			Msg("Schedule cache read failed")
		return false
	}
	return found
}

// Put stores the payload and stamps the shared last-fetch-date token.
func (c *Cache) Put(broadcaster, channel string, v any) {
	if err := c.store.Put(entryKey(broadcaster, channel), v); err != nil {
		log.Warn().Err(err).Str("broadcaster", broadcaster).Str("channel", channel).
			Msg("Failed to cache schedule")
		return
	}
	if err := c.store.Put(cacheDateKey, timeutil.TodayKey(c.now())); err != nil {
		log.Warn().Err(err).Msg("Failed to stamp schedule cache date")
	}
}

// ClearAll drops every cached schedule and the date token.
func (c *Cache) ClearAll() {
	if err := c.store.DeletePrefix(cacheKeyPrefix); err != nil {
		log.Warn().Err(err).Msg("Failed to clear schedule cache")
	}
}

// ClearBroadcaster drops every cached channel of one broadcaster.
func (c *Cache) ClearBroadcaster(broadcaster string) {
	if err := c.store.DeletePrefix(cacheKeyPrefix + broadcaster + "/"); err != nil {
		log.Warn().Err(err).Str("broadcaster", broadcaster).Msg("Failed to clear schedule cache")
	}
}
