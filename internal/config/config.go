package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// Config holds configuration values loaded from flags, env, or config file.
type Config struct {
	Listen          string
	PoolAddress     string
	TokenASymbol    string
	TokenBSymbol    string
	Journal         string
	Snapshot        string
	SnapshotEnabled bool
	PostgresDSN     string
	MaxRetries      int
	RetryBackoff    time.Duration
	LogLevel        string
}

// Load merges config file, environment variables, and flags into Config.
func Load(cfgFile string, flags *pflag.FlagSet) (Config, error) {
	v := viper.New()
	v.SetEnvPrefix("POOL")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	v.SetDefault("listen", ":8080")
	v.SetDefault("pool-address", "0x0000000000000000000000000000000000000001")
	v.SetDefault("token-a", "TKA")
	v.SetDefault("token-b", "TKB")
	v.SetDefault("journal", "./data/events.jsonl")
	v.SetDefault("snapshot", "./data/snapshot.json")
	v.SetDefault("snapshot-enabled", true)
	v.SetDefault("max-retries", 5)
	v.SetDefault("retry-backoff", 500*time.Millisecond)
	v.SetDefault("log-level", "info")

	if flags != nil {
		if err := v.BindPFlags(flags); err != nil {
			return Config{}, fmt.Errorf("bind flags: %w", err)
		}
	}

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	} else {
		v.SetConfigName("config")
		v.AddConfigPath(".")
		if err := v.ReadInConfig(); err != nil {
			if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
				return Config{}, fmt.Errorf("read config: %w", err)
			}
		}
	}

	cfg := Config{
		Listen:          v.GetString("listen"),
		PoolAddress:     v.GetString("pool-address"),
		TokenASymbol:    v.GetString("token-a"),
		TokenBSymbol:    v.GetString("token-b"),
		Journal:         v.GetString("journal"),
		Snapshot:        v.GetString("snapshot"),
		SnapshotEnabled: v.GetBool("snapshot-enabled"),
		PostgresDSN:     v.GetString("postgres-dsn"),
		MaxRetries:      v.GetInt("max-retries"),
		RetryBackoff:    v.GetDuration("retry-backoff"),
		LogLevel:        v.GetString("log-level"),
	}

	return cfg, nil
}
