package power

import (
	"math/big"

	"github.com/atalabs/ata-gov/types"
)

// Multipliers are fixed-point integers scaled by 10000 so the weighting
// multiplication stays exact on arbitrary-size amounts.
const multiplierScale = 10000

var scaleBig = big.NewInt(multiplierScale)

// multiplierFor returns the scaled duration multiplier for a lock.
// Inclusive lower bounds, highest tier wins.
func multiplierFor(lockDurationWeeks uint64) int64 {
	switch {
	case lockDurationWeeks >= 12:
		return 20000 // x2.0
	case lockDurationWeeks >= 8:
		return 15000 // x1.5
	case lockDurationWeeks >= 4:
		return 12500 // x1.25
	default:
		return 10000 // x1.0
	}
}

// Compute folds a position list into a VotingPower. An empty list is a
// valid zero-power result, not an error.
func Compute(address string, positions []types.Position, blockNumber uint64) *types.VotingPower {
	total := new(big.Int)
	breakdown := make([]types.PowerBreakdown, 0, len(positions))
	for _, pos := range positions {
		if pos.Amount == nil || pos.Amount.Sign() <= 0 {
			continue
		}
		mult := multiplierFor(pos.LockDurationWeeks)
		weighted := new(big.Int).Mul(pos.Amount, big.NewInt(mult))
		weighted.Quo(weighted, scaleBig)
		total.Add(total, weighted)
		breakdown = append(breakdown, types.PowerBreakdown{
			Amount:     pos.Amount.String(),
			Weeks:      pos.LockDurationWeeks,
			Multiplier: float64(mult) / multiplierScale,
			Power:      weighted.String(),
		})
	}
	return &types.VotingPower{
		TotalPower:  total.String(),
		Breakdown:   breakdown,
		Address:     address,
		BlockNumber: blockNumber,
	}
}
