package store

import (
	"strings"
	"time"

	"cosmossdk.io/log"
	"github.com/jinzhu/gorm"
	_ "github.com/jinzhu/gorm/dialects/postgres"
	_ "github.com/jinzhu/gorm/dialects/sqlite"

	"github.com/atalabs/ata-gov/types"
)

// Store persists proposals and votes. The UNIQUE(proposal_id,
// voter_address) index is the concurrency-control point for vote
// submission: concurrent writes for the same voter serialize through the
// atomic upsert, last commit wins.
type Store struct {
	logger log.Logger
	db     *gorm.DB
}

// Open connects to the store and migrates the schema. dialect is
// "sqlite3" or "postgres".
func Open(logger log.Logger, dialect, dsn string) (*Store, error) {
	db, err := gorm.Open(dialect, dsn)
	if err != nil {
		return nil, err
	}
	if err := db.AutoMigrate(&Proposal{}, &Vote{}).Error; err != nil {
		db.Close()
		return nil, err
	}
	return &Store{logger: logger.With("module", "store"), db: db}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

// CreateProposal inserts the proposal and fills in its assigned id.
func (s *Store) CreateProposal(p *types.Proposal) error {
	model, err := proposalToModel(p)
	if err != nil {
		return err
	}
	if err := s.db.Create(model).Error; err != nil {
		return err
	}
	p.Id = model.Id
	return nil
}

// GetProposal returns the proposal or (nil, nil) when it does not exist.
func (s *Store) GetProposal(id uint64) (*types.Proposal, error) {
	var model Proposal
	err := s.db.First(&model, "id = ?", id).Error
	if gorm.IsRecordNotFoundError(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return model.toType()
}

// ListProposals returns all proposals, newest first.
func (s *Store) ListProposals() ([]types.Proposal, error) {
	var models []Proposal
	if err := s.db.Order("created_at desc, id desc").Find(&models).Error; err != nil {
		return nil, err
	}
	proposals := make([]types.Proposal, 0, len(models))
	for i := range models {
		p, err := models[i].toType()
		if err != nil {
			s.logger.Error("skipping proposal with corrupt options", "id", models[i].Id, "err", err)
			continue
		}
		proposals = append(proposals, *p)
	}
	return proposals, nil
}

// VotesByProposal returns every vote recorded for the proposal.
func (s *Store) VotesByProposal(proposalId uint64) ([]types.Vote, error) {
	var models []Vote
	if err := s.db.Where("proposal_id = ?", proposalId).Find(&models).Error; err != nil {
		return nil, err
	}
	votes := make([]types.Vote, 0, len(models))
	for i := range models {
		votes = append(votes, models[i].toType())
	}
	return votes, nil
}

// UpsertVote records the vote, replacing any prior vote by the same
// voter on the same proposal. Single atomic statement; never a
// read-then-write sequence.
func (s *Store) UpsertVote(v *types.Vote) error {
	votedAt := v.VotedAt
	if votedAt.IsZero() {
		votedAt = time.Now().UTC()
	}
	return s.db.Exec(
		`INSERT INTO votes (proposal_id, voter_address, choice, voting_power, signature, voted_at)
		 VALUES (?, ?, ?, ?, ?, ?)
		 ON CONFLICT (proposal_id, voter_address)
		 DO UPDATE SET choice = excluded.choice,
		               voting_power = excluded.voting_power,
		               signature = excluded.signature,
		               voted_at = excluded.voted_at`,
		v.ProposalId, strings.ToLower(v.VoterAddress), v.Choice, v.VotingPower, v.Signature, votedAt,
	).Error
}

// CountVotes returns the number of vote rows for the proposal.
func (s *Store) CountVotes(proposalId uint64) (int, error) {
	var count int
	err := s.db.Model(&Vote{}).Where("proposal_id = ?", proposalId).Count(&count).Error
	return count, err
}
