package main

import (
	stdlog "log"
	"os"

	"cosmossdk.io/log"
	"github.com/spf13/cobra"

	"github.com/atalabs/ata-gov/api"
	"github.com/atalabs/ata-gov/chain"
	"github.com/atalabs/ata-gov/config"
	"github.com/atalabs/ata-gov/power"
	"github.com/atalabs/ata-gov/store"
	"github.com/atalabs/ata-gov/voting"
)

var homeDir string

var rootCmd = &cobra.Command{
	Use:   "atagov",
	Short: "ATA token staking governance service",
	Long: `Serves the ATA governance API: proposals, signed ballots and
stake-weighted voting power.`,
	Run: func(cmd *cobra.Command, args []string) {
		serveRun(cmd, args)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&homeDir, "homedir", "d", "", "home directory")
}

func serveRun(cmd *cobra.Command, args []string) {
	if homeDir == "" {
		homeDir = os.ExpandEnv("$HOME/.atagov")
	}
	cfg, err := config.Load(homeDir)
	if err != nil {
		stdlog.Fatalf("Reading config: %v", err)
	}
	filter, err := log.ParseLogLevel(cfg.LogLevel)
	if err != nil {
		stdlog.Fatalf("Parsing log level: %v", err)
	}
	logger := log.NewLogger(os.Stdout, log.FilterOption(filter))

	staking, err := chain.NewStakingClient(logger, cfg.Chain.RPCURL, cfg.Chain.StakingContract)
	if err != nil {
		stdlog.Fatalf("Connecting chain rpc: %v", err)
	}
	defer staking.Close()

	// Store and cache are both optional: the service degrades rather
	// than refuse to start.
	var st *store.Store
	if cfg.DB.DSN != "" {
		st, err = store.Open(logger, cfg.DB.Dialect, cfg.DB.DSN)
		if err != nil {
			logger.Error("store unavailable, serving degraded", "err", err)
			st = nil
		} else {
			defer st.Close()
		}
	} else {
		logger.Info("no store configured, serving degraded")
	}

	cache := power.NewNopCache()
	if cfg.Cache.Dir != "" {
		lc, err := power.NewLevelCache(cfg.Cache.Dir, logger)
		if err != nil {
			logger.Error("cache unavailable, recomputing every lookup", "err", err)
		} else {
			cache = lc
			defer lc.Close()
		}
	}

	provider := power.NewProvider(logger, staking, cache)
	votingSvc := voting.NewService(logger, st, provider, staking, cfg.Voting.Creators)
	apiSvc := api.NewService(logger, cfg.API.ListenAddr, votingSvc, provider)
	if err := apiSvc.Start(); err != nil {
		stdlog.Fatalf("Serving api: %v", err)
	}
}
