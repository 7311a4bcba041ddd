package config

import (
	"os"
	"testing"

	"github.com/spf13/pflag"

	"github.com/vaultfs/vaultfs/pkg/logging"
)

func newFlagSet(t *testing.T) *pflag.FlagSet {
	t.Helper()
	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	RegisterFlags(fs)
	return fs
}

func TestLoadAppliesBuiltinDefaults(t *testing.T) {
	fs := newFlagSet(t)
	if err := fs.Parse(nil); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(fs)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.ListenAddress != defaultListenAddress {
		t.Errorf("expected default listen address, got %q", cfg.ListenAddress)
	}
	if cfg.LogLevel != logging.LevelInfo {
		t.Errorf("expected default log level info, got %v", cfg.LogLevel)
	}
	if len(cfg.AllowList) != 0 {
		t.Errorf("expected empty allow-list by default, got %v", cfg.AllowList)
	}
}

func TestLoadFlagsTakePrecedenceOverEnv(t *testing.T) {
	t.Setenv("VAULTFS_LISTEN", "tcp://127.0.0.1:9999")
	t.Setenv("VAULTFS_LOG_LEVEL", "debug")

	fs := newFlagSet(t)
	if err := fs.Parse([]string{"--listen=stdio", "--log-level=warn"}); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(fs)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.ListenAddress != "stdio" {
		t.Errorf("expected flag value to win over env, got %q", cfg.ListenAddress)
	}
	if cfg.LogLevel != logging.LevelWarn {
		t.Errorf("expected flag log level to win over env, got %v", cfg.LogLevel)
	}
}

func TestLoadFallsBackToEnvWhenFlagsUnset(t *testing.T) {
	t.Setenv("VAULTFS_LISTEN", "tcp://0.0.0.0:1234")

	fs := newFlagSet(t)
	if err := fs.Parse(nil); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(fs)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.ListenAddress != "tcp://0.0.0.0:1234" {
		t.Errorf("expected env fallback to apply, got %q", cfg.ListenAddress)
	}
}

func TestLoadRejectsUnknownLogLevel(t *testing.T) {
	fs := newFlagSet(t)
	if err := fs.Parse([]string{"--log-level=noisy"}); err != nil {
		t.Fatal(err)
	}

	if _, err := Load(fs); err == nil {
		t.Fatal("expected an unknown log level to be rejected")
	}
}

func TestLoadAllowListFromEnvUsesPathListSeparator(t *testing.T) {
	t.Setenv("VAULTFS_ALLOW", "/one"+string(os.PathListSeparator)+"/two")

	fs := newFlagSet(t)
	if err := fs.Parse(nil); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(fs)
	if err != nil {
		t.Fatal(err)
	}
	if len(cfg.AllowList) != 2 || cfg.AllowList[0] != "/one" || cfg.AllowList[1] != "/two" {
		t.Errorf("expected allow-list split from env, got %v", cfg.AllowList)
	}
}
