package api

import (
	"errors"
	"net/http"
	"strconv"

	"cosmossdk.io/log"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/atalabs/ata-gov/power"
	"github.com/atalabs/ata-gov/voting"
)

// Service is the HTTP surface of the governance backend.
type Service struct {
	engine     *gin.Engine
	voting     *voting.Service
	power      *power.Provider
	logger     log.Logger
	listenAddr string
}

func NewService(logger log.Logger, listenAddr string, vs *voting.Service, pw *power.Provider) *Service {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Recovery())
	s := &Service{
		engine:     r,
		voting:     vs,
		power:      pw,
		logger:     logger.With("module", "api"),
		listenAddr: listenAddr,
	}
	s.engine.GET("/voting/proposals", s.handleListProposals)
	s.engine.POST("/voting/proposals", s.handleCreateProposal)
	s.engine.GET("/voting/power/:address", s.handleVotingPower)
	s.engine.POST("/voting/vote", s.handleVote)
	s.engine.GET("/healthz", s.handleHealth)
	s.engine.GET("/metrics", gin.WrapH(promhttp.Handler()))
	return s
}

func (s *Service) Start() error {
	s.logger.Info("listening", "addr", s.listenAddr)
	return s.engine.Run(s.listenAddr)
}

// Handler exposes the router for tests and embedding.
func (s *Service) Handler() http.Handler {
	return s.engine
}

func (s *Service) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (s *Service) handleListProposals(c *gin.Context) {
	c.JSON(http.StatusOK, s.voting.ListProposals(c.Request.Context()))
}

func (s *Service) handleCreateProposal(c *gin.Context) {
	var req voting.CreateProposalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	proposal, err := s.voting.CreateProposal(c.Request.Context(), req)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, proposal)
}

func (s *Service) handleVotingPower(c *gin.Context) {
	address := c.Param("address")
	var blockNumber uint64
	if blockParam := c.Query("block"); blockParam != "" {
		parsed, err := strconv.ParseUint(blockParam, 10, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid block number"})
			return
		}
		blockNumber = parsed
	}
	// Never errors: lookup degrades to the zero-power shape internally.
	c.JSON(http.StatusOK, s.power.VotingPower(c.Request.Context(), address, blockNumber))
}

func (s *Service) handleVote(c *gin.Context) {
	var req voting.VoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	receipt, err := s.voting.SubmitVote(c.Request.Context(), req)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, receipt)
}

// fail maps service errors onto HTTP statuses.
func (s *Service) fail(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, voting.ErrInvalidSignature):
		status = http.StatusUnauthorized
	case errors.Is(err, voting.ErrProposalNotFound):
		status = http.StatusNotFound
	case errors.Is(err, voting.ErrUnauthorized):
		status = http.StatusForbidden
	case errors.Is(err, voting.ErrVotingNotStarted),
		errors.Is(err, voting.ErrVotingEnded),
		errors.Is(err, voting.ErrInvalidChoice),
		errors.Is(err, voting.ErrNoVotingPower),
		errors.Is(err, voting.ErrInvalidProposal):
		status = http.StatusBadRequest
	case errors.Is(err, voting.ErrStoreUnavailable):
		status = http.StatusServiceUnavailable
	default:
		s.logger.Error("request failed", "err", err)
	}
	c.JSON(status, gin.H{"error": err.Error()})
}
