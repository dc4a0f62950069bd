package power

import (
	"encoding/json"
	"strings"
	"time"

	"cosmossdk.io/log"
	"github.com/syndtr/goleveldb/leveldb"
	"github.com/syndtr/goleveldb/leveldb/util"

	"github.com/atalabs/ata-gov/types"
)

// DefaultTTL is the staleness window for "latest" power lookups.
const DefaultTTL = 300 * time.Second

// LatestBlockKey keys cache entries for power at the current chain head.
const LatestBlockKey = "latest"

const cacheKeyPrefix = "voting-power:"

// Cache is an advisory store for computed voting power. Implementations
// must degrade to a miss on any internal failure; callers treat every
// operation as best-effort.
type Cache interface {
	Get(address, blockKey string) (*types.VotingPower, bool)
	Put(address, blockKey string, vp *types.VotingPower, ttl time.Duration)
	// Invalidate drops every entry for the address, whatever block it
	// was keyed by. Called when the address's lock positions change.
	Invalidate(address string)
	Close() error
}

type cacheEntry struct {
	Power     *types.VotingPower `json:"power"`
	ExpiresAt int64              `json:"expires_at"`
}

func cacheKey(address, blockKey string) []byte {
	return []byte(cacheKeyPrefix + strings.ToLower(address) + ":" + blockKey)
}

// levelCache persists entries in a local leveldb so cached power survives
// process restarts within the TTL window.
type levelCache struct {
	db     *leveldb.DB
	logger log.Logger
}

// NewLevelCache opens (or creates) the cache database at dir.
func NewLevelCache(dir string, logger log.Logger) (Cache, error) {
	db, err := leveldb.OpenFile(dir, nil)
	if err != nil {
		return nil, err
	}
	return &levelCache{db: db, logger: logger.With("module", "powercache")}, nil
}

func (c *levelCache) Get(address, blockKey string) (*types.VotingPower, bool) {
	buf, err := c.db.Get(cacheKey(address, blockKey), nil)
	if err != nil {
		if err != leveldb.ErrNotFound {
			c.logger.Debug("cache read failed", "err", err)
		}
		return nil, false
	}
	var entry cacheEntry
	if err := json.Unmarshal(buf, &entry); err != nil {
		c.logger.Debug("cache entry corrupt", "err", err)
		return nil, false
	}
	if entry.Power == nil || time.Now().Unix() >= entry.ExpiresAt {
		return nil, false
	}
	return entry.Power, true
}

func (c *levelCache) Put(address, blockKey string, vp *types.VotingPower, ttl time.Duration) {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	entry := cacheEntry{
		Power:     vp,
		ExpiresAt: time.Now().Add(ttl).Unix(),
	}
	buf, err := json.Marshal(entry)
	if err != nil {
		return
	}
	if err := c.db.Put(cacheKey(address, blockKey), buf, nil); err != nil {
		c.logger.Debug("cache write failed", "err", err)
	}
}

func (c *levelCache) Invalidate(address string) {
	prefix := []byte(cacheKeyPrefix + strings.ToLower(address) + ":")
	iter := c.db.NewIterator(util.BytesPrefix(prefix), nil)
	defer iter.Release()
	for iter.Next() {
		key := make([]byte, len(iter.Key()))
		copy(key, iter.Key())
		if err := c.db.Delete(key, nil); err != nil {
			c.logger.Debug("cache invalidate failed", "key", string(key), "err", err)
		}
	}
}

func (c *levelCache) Close() error {
	return c.db.Close()
}

// nopCache is used when no cache directory is configured; every lookup
// recomputes from chain state.
type nopCache struct{}

func NewNopCache() Cache { return nopCache{} }

func (nopCache) Get(string, string) (*types.VotingPower, bool)         { return nil, false }
func (nopCache) Put(string, string, *types.VotingPower, time.Duration) {}
func (nopCache) Invalidate(string)                                     {}
func (nopCache) Close() error                                          { return nil }
