package voting

import "errors"

var (
	ErrInvalidSignature = errors.New("invalid signature")
	ErrProposalNotFound = errors.New("proposal not found")
	ErrVotingNotStarted = errors.New("voting has not started")
	ErrVotingEnded      = errors.New("voting has ended")
	ErrInvalidChoice    = errors.New("invalid choice")
	ErrNoVotingPower    = errors.New("no voting power at snapshot")
	ErrUnauthorized     = errors.New("only an authorized creator can create proposals")
	ErrInvalidProposal  = errors.New("invalid proposal data")
	ErrStoreUnavailable = errors.New("proposal store unavailable")
)
