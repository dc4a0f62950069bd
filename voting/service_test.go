package voting

import (
	"context"
	"crypto/ecdsa"
	"errors"
	"math/big"
	"path/filepath"
	"testing"
	"time"

	"cosmossdk.io/log"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/atalabs/ata-gov/power"
	"github.com/atalabs/ata-gov/store"
	"github.com/atalabs/ata-gov/types"
)

const testAdmin = "0xF5512860735795994bB45e4DdeBE7686241167aD"

type chainStub struct {
	positions []types.Position
	head      uint64
	err       error
}

func (c *chainStub) Positions(ctx context.Context, address string, blockNumber uint64) ([]types.Position, error) {
	if c.err != nil {
		return nil, c.err
	}
	return c.positions, nil
}

func (c *chainStub) BlockNumber(ctx context.Context) (uint64, error) {
	if c.err != nil {
		return 0, c.err
	}
	return c.head, nil
}

func stakedChain() *chainStub {
	return &chainStub{
		positions: []types.Position{{Amount: big.NewInt(1000), LockDurationWeeks: 12}},
		head:      1234,
	}
}

func newTestService(t *testing.T, chain *chainStub) (*Service, *store.Store) {
	t.Helper()
	st, err := store.Open(log.NewNopLogger(), "sqlite3", filepath.Join(t.TempDir(), "voting.db"))
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })

	provider := power.NewProvider(log.NewNopLogger(), chain, power.NewNopCache())
	svc := NewService(log.NewNopLogger(), st, provider, chain, []string{testAdmin})
	return svc, st
}

func signedVote(t *testing.T, key *ecdsa.PrivateKey, proposalId uint64, choice int64) VoteRequest {
	t.Helper()
	voter := crypto.PubkeyToAddress(key.PublicKey).Hex()
	msg := types.VoteMessage{
		ProposalId: proposalId,
		Voter:      voter,
		Choice:     choice,
		Timestamp:  time.Now().Unix(),
	}
	sig, err := SignBallot(msg, key)
	require.NoError(t, err)
	return VoteRequest{
		ProposalId: proposalId,
		Voter:      voter,
		Choice:     choice,
		Signature:  sig,
		Message:    msg,
	}
}

func openProposal(t *testing.T, st *store.Store, options ...string) *types.Proposal {
	t.Helper()
	if len(options) == 0 {
		options = []string{"yes", "no"}
	}
	now := time.Now().UTC()
	p := &types.Proposal{
		Title:         "test proposal",
		Options:       options,
		Category:      "general",
		CreatedBy:     testAdmin,
		SnapshotBlock: 1234,
		VotingStart:   now.Add(-time.Hour),
		VotingEnd:     now.Add(time.Hour),
		CreatedAt:     now,
	}
	require.NoError(t, st.CreateProposal(p))
	return p
}

func TestCreateProposal(t *testing.T) {
	svc, _ := newTestService(t, stakedChain())

	p, err := svc.CreateProposal(context.Background(), CreateProposalRequest{
		Title:   "fund the grants program",
		Options: []string{"yes", "no", "abstain"},
		Creator: testAdmin,
	})
	require.NoError(t, err)
	assert.NotZero(t, p.Id)
	assert.Equal(t, uint64(1234), p.SnapshotBlock)
	assert.Equal(t, "general", p.Category)
	// Default window is 7 days.
	assert.Equal(t, 7*24*time.Hour, p.VotingEnd.Sub(p.VotingStart))
}

func TestCreateProposalAuthorization(t *testing.T) {
	svc, _ := newTestService(t, stakedChain())

	_, err := svc.CreateProposal(context.Background(), CreateProposalRequest{
		Title:   "rogue proposal",
		Options: []string{"yes", "no"},
		Creator: "0x1111111111111111111111111111111111111111",
	})
	assert.ErrorIs(t, err, ErrUnauthorized)

	// Allowlist matching ignores address casing.
	_, err = svc.CreateProposal(context.Background(), CreateProposalRequest{
		Title:   "ok proposal",
		Options: []string{"yes", "no"},
		Creator: "0xf5512860735795994bb45e4ddebe7686241167ad",
	})
	assert.NoError(t, err)
}

func TestCreateProposalValidation(t *testing.T) {
	svc, _ := newTestService(t, stakedChain())
	ctx := context.Background()

	_, err := svc.CreateProposal(ctx, CreateProposalRequest{
		Options: []string{"yes", "no"}, Creator: testAdmin,
	})
	assert.ErrorIs(t, err, ErrInvalidProposal)

	_, err = svc.CreateProposal(ctx, CreateProposalRequest{
		Title: "too few options", Options: []string{"yes"}, Creator: testAdmin,
	})
	assert.ErrorIs(t, err, ErrInvalidProposal)

	_, err = svc.CreateProposal(ctx, CreateProposalRequest{
		Title: "negative window", Options: []string{"yes", "no"}, Creator: testAdmin, VotingDays: -1,
	})
	assert.ErrorIs(t, err, ErrInvalidProposal)

	_, err = svc.CreateProposal(ctx, CreateProposalRequest{
		Title: "pathological window", Options: []string{"yes", "no"}, Creator: testAdmin, VotingDays: 10000,
	})
	assert.ErrorIs(t, err, ErrInvalidProposal)
}

func TestSubmitVoteHappyPath(t *testing.T) {
	svc, st := newTestService(t, stakedChain())
	p := openProposal(t, st)
	key, _ := crypto.GenerateKey()

	receipt, err := svc.SubmitVote(context.Background(), signedVote(t, key, p.Id, 1))
	require.NoError(t, err)
	assert.True(t, receipt.Success)
	assert.Equal(t, "2000", receipt.VotingPower)

	votes, err := st.VotesByProposal(p.Id)
	require.NoError(t, err)
	require.Len(t, votes, 1)
	assert.Equal(t, int64(1), votes[0].Choice)
	assert.Equal(t, "2000", votes[0].VotingPower)
}

func TestSubmitVoteInvalidSignature(t *testing.T) {
	svc, st := newTestService(t, stakedChain())
	p := openProposal(t, st)
	key, _ := crypto.GenerateKey()
	other, _ := crypto.GenerateKey()

	// Ballot signed by a different key than the claimed voter.
	req := signedVote(t, key, p.Id, 0)
	req.Voter = crypto.PubkeyToAddress(other.PublicKey).Hex()
	req.Message.Voter = req.Voter
	_, err := svc.SubmitVote(context.Background(), req)
	assert.ErrorIs(t, err, ErrInvalidSignature)

	// Top-level choice disagreeing with the signed message.
	req = signedVote(t, key, p.Id, 0)
	req.Choice = 1
	_, err = svc.SubmitVote(context.Background(), req)
	assert.ErrorIs(t, err, ErrInvalidSignature)
}

func TestSubmitVoteUnknownProposal(t *testing.T) {
	svc, _ := newTestService(t, stakedChain())
	key, _ := crypto.GenerateKey()

	_, err := svc.SubmitVote(context.Background(), signedVote(t, key, 9999, 0))
	assert.ErrorIs(t, err, ErrProposalNotFound)
}

func TestSubmitVoteWindow(t *testing.T) {
	svc, st := newTestService(t, stakedChain())
	key, _ := crypto.GenerateKey()

	start := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	end := start.Add(7 * 24 * time.Hour)
	p := &types.Proposal{
		Title:       "windowed",
		Options:     []string{"yes", "no"},
		CreatedBy:   testAdmin,
		VotingStart: start,
		VotingEnd:   end,
		CreatedAt:   start,
	}
	require.NoError(t, st.CreateProposal(p))

	// One second before the window opens.
	svc.now = func() time.Time { return start.Add(-time.Second) }
	_, err := svc.SubmitVote(context.Background(), signedVote(t, key, p.Id, 0))
	assert.ErrorIs(t, err, ErrVotingNotStarted)

	// Exactly at voting_start the vote is accepted.
	svc.now = func() time.Time { return start }
	_, err = svc.SubmitVote(context.Background(), signedVote(t, key, p.Id, 0))
	assert.NoError(t, err)

	// One second after the window closes.
	svc.now = func() time.Time { return end.Add(time.Second) }
	_, err = svc.SubmitVote(context.Background(), signedVote(t, key, p.Id, 0))
	assert.ErrorIs(t, err, ErrVotingEnded)
}

func TestSubmitVoteChoiceBounds(t *testing.T) {
	svc, st := newTestService(t, stakedChain())
	p := openProposal(t, st, "a", "b", "c")
	key, _ := crypto.GenerateKey()

	_, err := svc.SubmitVote(context.Background(), signedVote(t, key, p.Id, 3))
	assert.ErrorIs(t, err, ErrInvalidChoice)

	for choice := int64(0); choice < 3; choice++ {
		_, err := svc.SubmitVote(context.Background(), signedVote(t, key, p.Id, choice))
		assert.NoError(t, err, "choice %d", choice)
	}
}

func TestSubmitVoteNegativeChoiceRejected(t *testing.T) {
	svc, st := newTestService(t, stakedChain())
	p := openProposal(t, st)
	key, _ := crypto.GenerateKey()
	voter := crypto.PubkeyToAddress(key.PublicKey).Hex()

	msg := types.VoteMessage{
		ProposalId: p.Id,
		Voter:      voter,
		Choice:     -1,
		Timestamp:  time.Now().Unix(),
	}
	req := VoteRequest{ProposalId: p.Id, Voter: voter, Choice: -1, Message: msg}
	// A negative choice cannot be encoded as uint256 by a real wallet;
	// whether signing fails or the bounds check fires, the vote must be
	// rejected and nothing recorded.
	if sig, err := SignBallot(msg, key); err == nil {
		req.Signature = sig
	} else {
		req.Signature = "0x00"
	}

	_, err := svc.SubmitVote(context.Background(), req)
	assert.Error(t, err)

	count, err := st.CountVotes(p.Id)
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestSubmitVoteNoPower(t *testing.T) {
	svc, st := newTestService(t, &chainStub{head: 1234})
	p := openProposal(t, st)
	key, _ := crypto.GenerateKey()

	_, err := svc.SubmitVote(context.Background(), signedVote(t, key, p.Id, 0))
	assert.ErrorIs(t, err, ErrNoVotingPower)
}

func TestSubmitVoteNoPowerWhenChainDown(t *testing.T) {
	svc, st := newTestService(t, &chainStub{err: errors.New("rpc down")})
	p := openProposal(t, st)
	key, _ := crypto.GenerateKey()

	// Power lookup degrades to zero, which the pipeline rejects.
	_, err := svc.SubmitVote(context.Background(), signedVote(t, key, p.Id, 0))
	assert.ErrorIs(t, err, ErrNoVotingPower)
}

func TestSubmitVoteIdempotentResubmission(t *testing.T) {
	svc, st := newTestService(t, stakedChain())
	p := openProposal(t, st)
	key, _ := crypto.GenerateKey()

	req := signedVote(t, key, p.Id, 0)
	_, err := svc.SubmitVote(context.Background(), req)
	require.NoError(t, err)
	_, err = svc.SubmitVote(context.Background(), req)
	require.NoError(t, err)

	count, err := st.CountVotes(p.Id)
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestSubmitVoteChangeReplacesRow(t *testing.T) {
	svc, st := newTestService(t, stakedChain())
	p := openProposal(t, st)
	key, _ := crypto.GenerateKey()

	_, err := svc.SubmitVote(context.Background(), signedVote(t, key, p.Id, 0))
	require.NoError(t, err)
	_, err = svc.SubmitVote(context.Background(), signedVote(t, key, p.Id, 1))
	require.NoError(t, err)

	votes, err := st.VotesByProposal(p.Id)
	require.NoError(t, err)
	require.Len(t, votes, 1)
	assert.Equal(t, int64(1), votes[0].Choice)
}

func TestSubmitVoteWithoutStore(t *testing.T) {
	chain := stakedChain()
	provider := power.NewProvider(log.NewNopLogger(), chain, power.NewNopCache())
	svc := NewService(log.NewNopLogger(), nil, provider, chain, []string{testAdmin})
	key, _ := crypto.GenerateKey()

	_, err := svc.SubmitVote(context.Background(), signedVote(t, key, 1, 0))
	assert.ErrorIs(t, err, ErrStoreUnavailable)
}

func TestListProposalsAggregates(t *testing.T) {
	svc, st := newTestService(t, stakedChain())
	p := openProposal(t, st)
	key, _ := crypto.GenerateKey()

	_, err := svc.SubmitVote(context.Background(), signedVote(t, key, p.Id, 0))
	require.NoError(t, err)

	list := svc.ListProposals(context.Background())
	require.Len(t, list, 1)
	assert.Equal(t, p.Id, list[0].Id)
	assert.Equal(t, 1, list[0].TotalVotes)
	assert.Equal(t, "2000", list[0].Results[0].String())
	assert.Equal(t, "0", list[0].Results[1].String())
	assert.Equal(t, types.ProposalStatusActive, list[0].Status)
}

func TestListProposalsWithoutStore(t *testing.T) {
	chain := stakedChain()
	provider := power.NewProvider(log.NewNopLogger(), chain, power.NewNopCache())
	svc := NewService(log.NewNopLogger(), nil, provider, chain, []string{testAdmin})

	list := svc.ListProposals(context.Background())
	assert.NotNil(t, list)
	assert.Empty(t, list)
}
