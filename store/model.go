package store

import (
	"encoding/json"
	"strings"
	"time"

	"github.com/atalabs/ata-gov/types"
)

// gorm models

type Proposal struct {
	Id            uint64    `gorm:"primary_key" json:"id"`
	Title         string    `gorm:"size:256;not null" json:"title"`
	Description   string    `gorm:"type:text" json:"description"`
	Options       string    `gorm:"type:text;not null" json:"options"`
	Category      string    `gorm:"size:50" json:"category"`
	CreatedBy     string    `gorm:"size:42;not null" json:"created_by"`
	SnapshotBlock uint64    `json:"snapshot_block"`
	VotingStart   time.Time `json:"voting_start"`
	VotingEnd     time.Time `json:"voting_end"`
	CreatedAt     time.Time `json:"created_at"`
}

type Vote struct {
	Id           uint64    `gorm:"primary_key" json:"id"`
	ProposalId   uint64    `gorm:"unique_index:idx_votes_proposal_voter" json:"proposal_id"`
	VoterAddress string    `gorm:"size:42;unique_index:idx_votes_proposal_voter" json:"voter_address"`
	Choice       int64     `json:"choice"`
	VotingPower  string    `gorm:"type:numeric" json:"voting_power"`
	Signature    string    `gorm:"type:text" json:"signature"`
	VotedAt      time.Time `json:"voted_at"`
}

func proposalToModel(p *types.Proposal) (*Proposal, error) {
	opts, err := json.Marshal(p.Options)
	if err != nil {
		return nil, err
	}
	return &Proposal{
		Id:            p.Id,
		Title:         p.Title,
		Description:   p.Description,
		Options:       string(opts),
		Category:      p.Category,
		CreatedBy:     strings.ToLower(p.CreatedBy),
		SnapshotBlock: p.SnapshotBlock,
		VotingStart:   p.VotingStart,
		VotingEnd:     p.VotingEnd,
		CreatedAt:     p.CreatedAt,
	}, nil
}

func (m *Proposal) toType() (*types.Proposal, error) {
	var opts []string
	if err := json.Unmarshal([]byte(m.Options), &opts); err != nil {
		return nil, err
	}
	return &types.Proposal{
		Id:            m.Id,
		Title:         m.Title,
		Description:   m.Description,
		Options:       opts,
		Category:      m.Category,
		CreatedBy:     m.CreatedBy,
		SnapshotBlock: m.SnapshotBlock,
		VotingStart:   m.VotingStart,
		VotingEnd:     m.VotingEnd,
		CreatedAt:     m.CreatedAt,
	}, nil
}

func (m *Vote) toType() types.Vote {
	return types.Vote{
		Id:           m.Id,
		ProposalId:   m.ProposalId,
		VoterAddress: m.VoterAddress,
		Choice:       m.Choice,
		VotingPower:  m.VotingPower,
		Signature:    m.Signature,
		VotedAt:      m.VotedAt,
	}
}
