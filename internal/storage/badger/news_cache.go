package badger

import (
	"fmt"
	"time"

	badgerdb "github.com/dgraph-io/badger/v4"
	"github.com/ternarybob/arbor"
)

// newsCachePrefix namespaces news response entries in the shared database.
const newsCachePrefix = "newscache:"

// NewsCache is a persistent TTL cache for raw news API responses. Expiry is
// delegated to Badger's native entry TTL, so stale entries disappear without
// a sweeper.
type NewsCache struct {
	db     *BadgerDB
	ttl    time.Duration
	logger arbor.ILogger
}

// NewNewsCache creates a news response cache with the given TTL.
func NewNewsCache(db *BadgerDB, ttl time.Duration, logger arbor.ILogger) *NewsCache {
	return &NewsCache{
		db:     db,
		ttl:    ttl,
		logger: logger,
	}
}

// Get returns the cached response bytes for key. Misses and read errors both
// report false; the cache is advisory.
func (c *NewsCache) Get(key string) ([]byte, bool) {
	var value []byte
	err := c.db.Store().Badger().View(func(txn *badgerdb.Txn) error {
		item, err := txn.Get([]byte(newsCachePrefix + key))
		if err != nil {
			return err
		}
		value, err = item.ValueCopy(nil)
		return err
	})
	if err == badgerdb.ErrKeyNotFound {
		return nil, false
	}
	if err != nil {
		c.logger.Warn().Err(err).Str("key", key).Msg("News cache read failed, treating as miss")
		return nil, false
	}
	return value, true
}

// Set stores the response bytes for key with the cache TTL.
func (c *NewsCache) Set(key string, value []byte) error {
	err := c.db.Store().Badger().Update(func(txn *badgerdb.Txn) error {
		entry := badgerdb.NewEntry([]byte(newsCachePrefix+key), value).WithTTL(c.ttl)
		return txn.SetEntry(entry)
	})
	if err != nil {
		return fmt.Errorf("failed to write news cache entry: %w", err)
	}
	return nil
}
