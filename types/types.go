package types

import (
	"math/big"
	"time"
)

// Position is a single time-locked stake read from the staking contract.
// Amounts are in the smallest token unit.
type Position struct {
	Amount            *big.Int `json:"amount"`
	LockDurationWeeks uint64   `json:"lockDurationWeeks"`
	Start             int64    `json:"start"`
	End               int64    `json:"end"`
}

// PowerBreakdown is the weighted contribution of one lock position.
type PowerBreakdown struct {
	Amount     string  `json:"amount"`
	Weeks      uint64  `json:"weeks"`
	Multiplier float64 `json:"multiplier"`
	Power      string  `json:"power"`
}

// VotingPower is the derived vote weight of an address at a block height.
// TotalPower is a decimal string since token amounts can exceed uint64.
type VotingPower struct {
	TotalPower  string           `json:"totalPower"`
	Breakdown   []PowerBreakdown `json:"breakdown"`
	Address     string           `json:"address"`
	BlockNumber uint64           `json:"blockNumber"`
}

// ZeroPower is the degraded result returned when positions cannot be read.
func ZeroPower(address string, blockNumber uint64) *VotingPower {
	return &VotingPower{
		TotalPower:  "0",
		Breakdown:   []PowerBreakdown{},
		Address:     address,
		BlockNumber: blockNumber,
	}
}

type Proposal struct {
	Id            uint64    `json:"id"`
	Title         string    `json:"title"`
	Description   string    `json:"description"`
	Options       []string  `json:"options"`
	Category      string    `json:"category"`
	CreatedBy     string    `json:"created_by"`
	SnapshotBlock uint64    `json:"snapshot_block"`
	VotingStart   time.Time `json:"voting_start"`
	VotingEnd     time.Time `json:"voting_end"`
	CreatedAt     time.Time `json:"created_at"`
}

type Vote struct {
	Id           uint64    `json:"id"`
	ProposalId   uint64    `json:"proposal_id"`
	VoterAddress string    `json:"voter_address"`
	Choice       int64     `json:"choice"`
	VotingPower  string    `json:"voting_power"`
	Signature    string    `json:"signature"`
	VotedAt      time.Time `json:"voted_at"`
}

// VoteMessage is the typed ballot a voter signs off-chain.
type VoteMessage struct {
	ProposalId uint64 `json:"proposalId"`
	Voter      string `json:"voter"`
	Choice     int64  `json:"choice"`
	Timestamp  int64  `json:"timestamp"`
}

type ProposalStatus string

const (
	ProposalStatusActive ProposalStatus = "active"
	ProposalStatusEnded  ProposalStatus = "ended"
)

// ProposalWithResults is the read-side view of a proposal: per-option
// power tallies (index-aligned with Options), distinct voter count and
// a live/ended flag. Computed on every read, never stored.
type ProposalWithResults struct {
	Proposal
	Results    []*big.Int     `json:"results"`
	TotalVotes int            `json:"totalVotes"`
	Status     ProposalStatus `json:"status"`
}
