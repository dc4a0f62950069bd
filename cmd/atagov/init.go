package main

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"cosmossdk.io/log"
	"github.com/spf13/cobra"

	"github.com/atalabs/ata-gov/config"
	"github.com/atalabs/ata-gov/store"
	"github.com/atalabs/ata-gov/types"
)

type initArguments struct {
	Sample bool
}

var initArgs initArguments

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Write the default config and create the voting tables",
	Run:   initRun,
}

func init() {
	initCmd.Flags().BoolVarP(&initArgs.Sample, "sample", "", false, "create a sample proposal")
}

func initRun(cmd *cobra.Command, args []string) {
	if homeDir == "" {
		homeDir = os.ExpandEnv("$HOME/.atagov")
	}
	cfg := config.DefaultConfig(homeDir)
	if _, err := os.Stat(cfg.ConfigFile()); os.IsNotExist(err) {
		if err := config.WriteConfigFile(cfg); err != nil {
			fmt.Printf("write config err:%v\n", err)
			return
		}
		fmt.Println("wrote", cfg.ConfigFile())
	} else {
		loaded, err := config.Load(homeDir)
		if err != nil {
			fmt.Printf("read config err:%v\n", err)
			return
		}
		cfg = loaded
	}

	if cfg.DB.DSN == "" {
		fmt.Println("no store configured, skipping table creation")
		return
	}
	if cfg.DB.Dialect == "sqlite3" {
		if err := os.MkdirAll(filepath.Dir(cfg.DB.DSN), config.DefaultDirPerm); err != nil {
			fmt.Printf("create data dir err:%v\n", err)
			return
		}
	}

	logger := log.NewLogger(os.Stdout)
	st, err := store.Open(logger, cfg.DB.Dialect, cfg.DB.DSN)
	if err != nil {
		fmt.Printf("open store err:%v\n", err)
		return
	}
	defer st.Close()
	fmt.Println("voting tables ready")

	if initArgs.Sample {
		now := time.Now().UTC()
		sample := &types.Proposal{
			Title:         "Which feature should we prioritize next?",
			Description:   "Vote on the next major feature for the ATA platform",
			Options:       []string{"Mobile App", "Advanced Analytics", "Social Features", "API Access"},
			Category:      "development",
			CreatedBy:     "0x0000000000000000000000000000000000000000",
			SnapshotBlock: 1000000,
			VotingStart:   now,
			VotingEnd:     now.Add(7 * 24 * time.Hour),
			CreatedAt:     now,
		}
		if err := st.CreateProposal(sample); err != nil {
			fmt.Printf("create sample proposal err:%v\n", err)
			return
		}
		fmt.Printf("created sample proposal with id %d\n", sample.Id)
	}
}
