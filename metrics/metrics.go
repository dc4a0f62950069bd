package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	VotesSubmitted = promauto.NewCounter(prometheus.CounterOpts{
		Name: "atagov_votes_submitted_total",
		Help: "Accepted vote submissions, including vote changes.",
	})
	ProposalsCreated = promauto.NewCounter(prometheus.CounterOpts{
		Name: "atagov_proposals_created_total",
		Help: "Proposals created.",
	})
	PowerLookups = promauto.NewCounter(prometheus.CounterOpts{
		Name: "atagov_power_lookups_total",
		Help: "Voting power lookups served.",
	})
	PowerCacheHits = promauto.NewCounter(prometheus.CounterOpts{
		Name: "atagov_power_cache_hits_total",
		Help: "Voting power lookups answered from cache.",
	})
	PowerCacheMisses = promauto.NewCounter(prometheus.CounterOpts{
		Name: "atagov_power_cache_misses_total",
		Help: "Voting power lookups that recomputed from chain state.",
	})
)
