// Package config loads vaultfsd's runtime configuration: the initial
// allow-list, the listen address, and the log level. Precedence is flags >
// environment file > built-in defaults, following the layered configuration
// pattern common across the retrieval pack (environment-file loading
// beneath explicit CLI flags).
package config

import (
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/pkg/errors"
	"github.com/spf13/pflag"

	"github.com/vaultfs/vaultfs/pkg/logging"
)

const (
	defaultListenAddress = "stdio"
	defaultLogLevel      = "info"
	envFileFlag          = "env-file"
)

// Config holds vaultfsd's resolved runtime configuration.
type Config struct {
	// AllowList is the initial set of allowed root directories.
	AllowList []string
	// ListenAddress is either "stdio" (the default, for the minimal
	// JSON-lines loop) or a network address.
	ListenAddress string
	// LogLevel is one of logging's named levels.
	LogLevel logging.Level
}

// Load resolves configuration from flags already registered on flagSet
// (which the caller has parsed), falling back to an optional .env-style
// environment file and then to built-in defaults.
func Load(flagSet *pflag.FlagSet) (*Config, error) {
	if envFile, err := flagSet.GetString(envFileFlag); err == nil && envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !os.IsNotExist(err) {
			return nil, errors.Wrapf(err, "unable to load environment file %q", envFile)
		}
	}

	allowList, err := flagSet.GetStringSlice("allow")
	if err != nil {
		return nil, errors.Wrap(err, "unable to read --allow flag")
	}
	if len(allowList) == 0 {
		if fromEnv := os.Getenv("VAULTFS_ALLOW"); fromEnv != "" {
			allowList = strings.Split(fromEnv, string(os.PathListSeparator))
		}
	}

	listenAddress, err := flagSet.GetString("listen")
	if err != nil {
		return nil, errors.Wrap(err, "unable to read --listen flag")
	}
	if listenAddress == "" {
		listenAddress = envOrDefault("VAULTFS_LISTEN", defaultListenAddress)
	}

	logLevelName, err := flagSet.GetString("log-level")
	if err != nil {
		return nil, errors.Wrap(err, "unable to read --log-level flag")
	}
	if logLevelName == "" {
		logLevelName = envOrDefault("VAULTFS_LOG_LEVEL", defaultLogLevel)
	}
	level, ok := logging.NameToLevel(logLevelName)
	if !ok {
		return nil, errors.Errorf("unknown log level %q", logLevelName)
	}

	return &Config{
		AllowList:     allowList,
		ListenAddress: listenAddress,
		LogLevel:      level,
	}, nil
}

func envOrDefault(name, fallback string) string {
	if v := os.Getenv(name); v != "" {
		return v
	}
	return fallback
}

// RegisterFlags adds vaultfsd's configuration flags to flagSet.
func RegisterFlags(flagSet *pflag.FlagSet) {
	flagSet.StringSlice("allow", nil, "directories to add to the initial allow-list (repeatable)")
	flagSet.String("listen", "", "listen address (\"stdio\" for the demonstration JSON-lines loop)")
	flagSet.String("log-level", "", "log level (error, warn, info, debug, trace)")
	flagSet.String(envFileFlag, "", "path to a .env-style file with VAULTFS_* settings")
}
