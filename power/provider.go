package power

import (
	"context"
	"strconv"
	"time"

	"cosmossdk.io/log"

	"github.com/atalabs/ata-gov/metrics"
	"github.com/atalabs/ata-gov/types"
)

// PositionSource reads lock positions from the staking contract.
// blockNumber 0 means the latest block.
type PositionSource interface {
	Positions(ctx context.Context, address string, blockNumber uint64) ([]types.Position, error)
	BlockNumber(ctx context.Context) (uint64, error)
}

// Provider answers voting power queries through the cache. It never
// returns an error: when the position source or cache is unavailable the
// lookup degrades to the zero-power shape so callers keep working.
type Provider struct {
	logger log.Logger
	source PositionSource
	cache  Cache
	ttl    time.Duration
}

func NewProvider(logger log.Logger, source PositionSource, cache Cache) *Provider {
	if cache == nil {
		cache = NewNopCache()
	}
	return &Provider{
		logger: logger.With("module", "power"),
		source: source,
		cache:  cache,
		ttl:    DefaultTTL,
	}
}

func blockKeyFor(blockNumber uint64) string {
	if blockNumber == 0 {
		return LatestBlockKey
	}
	return strconv.FormatUint(blockNumber, 10)
}

// VotingPower returns the weighted power of address at blockNumber
// (0 = latest). Cache hits within the TTL window skip the chain query.
func (p *Provider) VotingPower(ctx context.Context, address string, blockNumber uint64) *types.VotingPower {
	metrics.PowerLookups.Inc()
	blockKey := blockKeyFor(blockNumber)
	if cached, ok := p.cache.Get(address, blockKey); ok {
		metrics.PowerCacheHits.Inc()
		return cached
	}
	metrics.PowerCacheMisses.Inc()

	positions, err := p.source.Positions(ctx, address, blockNumber)
	if err != nil {
		p.logger.Error("read positions failed, degrading to zero power",
			"address", address, "block", blockKey, "err", err)
		return types.ZeroPower(address, blockNumber)
	}

	resolvedBlock := blockNumber
	if resolvedBlock == 0 {
		if head, err := p.source.BlockNumber(ctx); err == nil {
			resolvedBlock = head
		}
	}

	vp := Compute(address, positions, resolvedBlock)
	p.cache.Put(address, blockKey, vp, p.ttl)
	return vp
}

// Invalidate drops all cached entries for address. Wire this to the
// stake/withdraw events so power reflects position changes immediately.
func (p *Provider) Invalidate(address string) {
	p.cache.Invalidate(address)
}
