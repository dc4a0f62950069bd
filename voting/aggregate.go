package voting

import (
	"math/big"
	"time"

	"github.com/atalabs/ata-gov/types"
)

// Aggregate folds recorded votes into per-option power tallies. Results
// are index-aligned with the proposal options and zero-filled for options
// nobody picked. Votes referencing an option that no longer fits the
// proposal (or carrying an unparseable power) are skipped.
func Aggregate(p types.Proposal, votes []types.Vote, now time.Time) types.ProposalWithResults {
	results := make([]*big.Int, len(p.Options))
	for i := range results {
		results[i] = new(big.Int)
	}
	for _, v := range votes {
		if v.Choice < 0 || v.Choice >= int64(len(p.Options)) {
			continue
		}
		weight, ok := new(big.Int).SetString(v.VotingPower, 10)
		if !ok {
			continue
		}
		results[v.Choice].Add(results[v.Choice], weight)
	}

	status := types.ProposalStatusEnded
	if now.Before(p.VotingEnd) {
		status = types.ProposalStatusActive
	}

	return types.ProposalWithResults{
		Proposal:   p,
		Results:    results,
		TotalVotes: len(votes),
		Status:     status,
	}
}
