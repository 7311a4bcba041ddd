// Command vaultfsd is a thin CLI adapter around pkg/fsservice. Per the
// module's scope, request dispatch, transport, and tool schemas are
// external concerns; this binary exists to construct the service from
// configuration and expose it through a minimal stdio JSON-lines loop, not
// to implement a full tool-calling protocol.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/vaultfs/vaultfs/pkg/config"
	"github.com/vaultfs/vaultfs/pkg/fsservice"
	"github.com/vaultfs/vaultfs/pkg/logging"
	"github.com/vaultfs/vaultfs/pkg/vaultfs"
)

// rootCommand is the top-level cobra command, following the shape of the
// teacher's cmd/mutagen rootCommand/rootMain split.
var rootCommand = &cobra.Command{
	Use:          "vaultfsd",
	Short:        "Run the vaultfs sandboxed filesystem service",
	SilenceUsage: true,
	RunE:         rootMain,
}

var rootConfiguration struct {
	// version, when true, requests that the binary print version
	// information and exit.
	version bool
}

func rootMain(command *cobra.Command, _ []string) error {
	if rootConfiguration.version {
		fmt.Println(vaultfs.Version)
		return nil
	}

	cfg, err := config.Load(command.Flags())
	if err != nil {
		return err
	}

	logger := logging.NewRoot(cfg.LogLevel)

	service, err := fsservice.New(cfg.AllowList, logger.Sublogger("service"))
	if err != nil {
		return err
	}

	logger.Infof("vaultfs %s starting with %d allowed root(s)", vaultfs.Version, len(service.AllowedDirectories()))

	if cfg.ListenAddress != "stdio" {
		return fmt.Errorf("listen address %q is not supported by this demonstration binary; only \"stdio\" is implemented", cfg.ListenAddress)
	}

	return serveStdio(service, logger)
}

func main() {
	config.RegisterFlags(rootCommand.Flags())
	rootCommand.Flags().BoolVar(&rootConfiguration.version, "version", false, "show version information and exit")

	if err := rootCommand.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
