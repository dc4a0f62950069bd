package voting

import (
	"context"
	"fmt"
	"strings"
	"time"

	"cosmossdk.io/log"

	"github.com/atalabs/ata-gov/metrics"
	"github.com/atalabs/ata-gov/power"
	"github.com/atalabs/ata-gov/store"
	"github.com/atalabs/ata-gov/types"
)

const (
	defaultVotingDays = 7
	maxVotingDays     = 365
	defaultCategory   = "general"
)

// ChainHead reads the current chain height, used to pin a proposal's
// snapshot block at creation time.
type ChainHead interface {
	BlockNumber(ctx context.Context) (uint64, error)
}

// Service implements proposal creation, vote submission and result reads.
// A nil store is allowed: reads degrade to empty results and writes fail
// with ErrStoreUnavailable, so the service keeps serving without
// infrastructure.
type Service struct {
	logger   log.Logger
	store    *store.Store
	power    *power.Provider
	chain    ChainHead
	creators map[string]struct{}
	now      func() time.Time
}

func NewService(logger log.Logger, st *store.Store, pw *power.Provider, chain ChainHead, creators []string) *Service {
	allowed := make(map[string]struct{}, len(creators))
	for _, c := range creators {
		allowed[strings.ToLower(c)] = struct{}{}
	}
	return &Service{
		logger:   logger.With("module", "voting"),
		store:    st,
		power:    pw,
		chain:    chain,
		creators: allowed,
		now:      time.Now,
	}
}

type CreateProposalRequest struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Options     []string `json:"options"`
	Category    string   `json:"category"`
	Creator     string   `json:"creator"`
	VotingDays  int      `json:"votingDays"`
}

// CreateProposal validates and persists a new proposal. The snapshot
// block is pinned to the current chain head so every vote on the proposal
// is weighed against the same stake state.
func (s *Service) CreateProposal(ctx context.Context, req CreateProposalRequest) (*types.Proposal, error) {
	if _, ok := s.creators[strings.ToLower(req.Creator)]; !ok {
		return nil, ErrUnauthorized
	}
	if req.Title == "" || len(req.Options) < 2 {
		return nil, ErrInvalidProposal
	}
	votingDays := req.VotingDays
	if votingDays == 0 {
		votingDays = defaultVotingDays
	}
	if votingDays < 0 || votingDays > maxVotingDays {
		return nil, ErrInvalidProposal
	}
	if s.store == nil {
		return nil, ErrStoreUnavailable
	}

	snapshotBlock, err := s.chain.BlockNumber(ctx)
	if err != nil {
		return nil, fmt.Errorf("read chain head: %w", err)
	}

	category := req.Category
	if category == "" {
		category = defaultCategory
	}

	now := s.now().UTC()
	proposal := &types.Proposal{
		Title:         req.Title,
		Description:   req.Description,
		Options:       req.Options,
		Category:      category,
		CreatedBy:     strings.ToLower(req.Creator),
		SnapshotBlock: snapshotBlock,
		VotingStart:   now,
		VotingEnd:     now.Add(time.Duration(votingDays) * 24 * time.Hour),
		CreatedAt:     now,
	}
	if err := s.store.CreateProposal(proposal); err != nil {
		return nil, fmt.Errorf("persist proposal: %w", err)
	}
	metrics.ProposalsCreated.Inc()
	s.logger.Info("proposal created",
		"id", proposal.Id, "creator", proposal.CreatedBy,
		"snapshot_block", proposal.SnapshotBlock, "voting_end", proposal.VotingEnd)
	return proposal, nil
}

type VoteRequest struct {
	ProposalId uint64            `json:"proposalId"`
	Voter      string            `json:"voter"`
	Choice     int64             `json:"choice"`
	Signature  string            `json:"signature"`
	Message    types.VoteMessage `json:"message"`
}

type VoteReceipt struct {
	Success     bool   `json:"success"`
	VotingPower string `json:"votingPower"`
}

// SubmitVote runs the validation pipeline in fixed order (signature,
// proposal, window, choice, power) and upserts the vote. Resubmission by
// the same voter replaces the earlier row, it never creates a second one.
func (s *Service) SubmitVote(ctx context.Context, req VoteRequest) (*VoteReceipt, error) {
	// The signature covers the message; the top-level fields must agree
	// with it or the ballot was tampered with in transit.
	if req.ProposalId != req.Message.ProposalId ||
		req.Choice != req.Message.Choice ||
		!strings.EqualFold(req.Voter, req.Message.Voter) {
		return nil, ErrInvalidSignature
	}
	if !VerifyBallot(req.Message, req.Signature, req.Voter) {
		return nil, ErrInvalidSignature
	}

	if s.store == nil {
		return nil, ErrStoreUnavailable
	}
	proposal, err := s.store.GetProposal(req.ProposalId)
	if err != nil {
		return nil, fmt.Errorf("load proposal: %w", err)
	}
	if proposal == nil {
		return nil, ErrProposalNotFound
	}

	now := s.now().UTC()
	if now.Before(proposal.VotingStart) {
		return nil, ErrVotingNotStarted
	}
	if now.After(proposal.VotingEnd) {
		return nil, ErrVotingEnded
	}

	if req.Choice < 0 || req.Choice >= int64(len(proposal.Options)) {
		return nil, ErrInvalidChoice
	}

	vp := s.power.VotingPower(ctx, req.Voter, proposal.SnapshotBlock)
	if vp.TotalPower == "0" {
		return nil, ErrNoVotingPower
	}

	err = s.store.UpsertVote(&types.Vote{
		ProposalId:   req.ProposalId,
		VoterAddress: strings.ToLower(req.Voter),
		Choice:       req.Choice,
		VotingPower:  vp.TotalPower,
		Signature:    req.Signature,
		VotedAt:      now,
	})
	if err != nil {
		return nil, fmt.Errorf("record vote: %w", err)
	}
	metrics.VotesSubmitted.Inc()
	s.logger.Info("vote recorded",
		"proposal", req.ProposalId, "voter", strings.ToLower(req.Voter),
		"choice", req.Choice, "power", vp.TotalPower)
	return &VoteReceipt{Success: true, VotingPower: vp.TotalPower}, nil
}

// ListProposals returns every proposal with its live tallies, newest
// first. Store failures degrade to an empty list: governance browsing
// stays up when infrastructure is partially down.
func (s *Service) ListProposals(ctx context.Context) []types.ProposalWithResults {
	out := make([]types.ProposalWithResults, 0)
	if s.store == nil {
		return out
	}
	proposals, err := s.store.ListProposals()
	if err != nil {
		s.logger.Error("list proposals failed, degrading to empty", "err", err)
		return out
	}
	now := s.now().UTC()
	for _, p := range proposals {
		votes, err := s.store.VotesByProposal(p.Id)
		if err != nil {
			s.logger.Error("load votes failed, degrading to empty", "proposal", p.Id, "err", err)
			votes = nil
		}
		out = append(out, Aggregate(p, votes, now))
	}
	return out
}
