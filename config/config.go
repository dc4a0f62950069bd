package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
)

type APIConfig struct {
	ListenAddr string `mapstructure:"listen_addr"`
}

type ChainConfig struct {
	RPCURL          string `mapstructure:"rpc_url"`
	StakingContract string `mapstructure:"staking_contract"`
}

type DBConfig struct {
	// Dialect is "sqlite3" or "postgres". An empty DSN disables the
	// store: reads serve empty results, writes return 503.
	Dialect string `mapstructure:"dialect"`
	DSN     string `mapstructure:"dsn"`
}

type CacheConfig struct {
	// Dir is the leveldb directory for the voting power cache. Empty
	// disables caching (every lookup recomputes).
	Dir string `mapstructure:"dir"`
}

type VotingConfig struct {
	// Creators is the allowlist of addresses permitted to create
	// proposals.
	Creators []string `mapstructure:"creators"`
}

type Config struct {
	Home     string       `mapstructure:"-"`
	LogLevel string       `mapstructure:"log_level"`
	API      APIConfig    `mapstructure:"api"`
	Chain    ChainConfig  `mapstructure:"chain"`
	DB       DBConfig     `mapstructure:"db"`
	Cache    CacheConfig  `mapstructure:"cache"`
	Voting   VotingConfig `mapstructure:"voting"`
}

// The reference deployment's proposal admin.
const DefaultCreator = "0xF5512860735795994bB45e4DdeBE7686241167aD"

func DefaultConfig(home string) *Config {
	if home == "" {
		home = os.ExpandEnv("$HOME/.atagov")
	}
	return &Config{
		Home:     home,
		LogLevel: "info",
		API: APIConfig{
			ListenAddr: "127.0.0.1:8645",
		},
		Chain: ChainConfig{
			RPCURL:          "https://mainnet.base.org",
			StakingContract: "",
		},
		DB: DBConfig{
			Dialect: "sqlite3",
			DSN:     filepath.Join(home, "data", "voting.db"),
		},
		Cache: CacheConfig{
			Dir: filepath.Join(home, "data", "powercache"),
		},
		Voting: VotingConfig{
			Creators: []string{DefaultCreator},
		},
	}
}

func (c *Config) ConfigFile() string {
	return filepath.Join(c.Home, "config", "config.toml")
}

// Load reads <home>/config/config.toml over the defaults. A missing
// config file is not an error: the service runs on defaults so it works
// without any infrastructure set up.
func Load(home string) (*Config, error) {
	cfg := DefaultConfig(home)
	viper.SetConfigFile(cfg.ConfigFile())
	if err := viper.ReadInConfig(); err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			return cfg, nil
		}
		return nil, fmt.Errorf("reading config: %w", err)
	}
	if err := viper.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("decoding config: %w", err)
	}
	cfg.Home = home
	return cfg, nil
}
