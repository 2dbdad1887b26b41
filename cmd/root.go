package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/Mohsinsiddi/inkctl/internal/config"
	"github.com/Mohsinsiddi/inkctl/internal/logging"
	"github.com/Mohsinsiddi/inkctl/internal/ui"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// Version is the current release. Overridable via build ldflags:
//
//	go build -ldflags "-X github.com/Mohsinsiddi/inkctl/cmd.Version=1.2.3" .
var Version = "0.1.0"

var (
	cfgDir  string
	cfg     *config.Config
	log     *zap.Logger
	verbose bool
	quiet   bool
)

// rootCmd is the top-level command.
var rootCmd = &cobra.Command{
	Use:   "inkctl",
	Short: "Deploy and call ink! smart contracts",
	Long: `inkctl uploads, instantiates and calls Wasm smart contracts on
Substrate chains running pallet-contracts.

Every transaction is dry-run against the node first (skip with --skip-dry-run),
shown for confirmation (skip with --skip-confirm), then signed, submitted and
reported once it is included in a block.

Defaults such as the node URL live in ~/.inkctl/config.json. Change them with:
  inkctl config set-url wss://rpc.example.com`,
	Version:       Version,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		log = logging.New(logging.FromFlags(quiet, verbose))
		if cmd.Name() == "help" || cmd.Name() == "completion" {
			return nil
		}
		var err error
		cfg, err = config.Load(cfgDir)
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}
		return nil
	},
}

// Execute runs the root command and exits non-zero on any failure.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if log != nil {
		_ = log.Sync()
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, ui.Err(err.Error()))
		os.Exit(1)
	}
}

func init() {
	// INKCTL_CONFIG_DIR env var overrides --config flag.
	if envDir := os.Getenv("INKCTL_CONFIG_DIR"); envDir != "" {
		cfgDir = envDir
	}

	rootCmd.PersistentFlags().StringVar(&cfgDir, "config", cfgDir, "config directory (default: ~/.inkctl)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
	rootCmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "only print errors")
	rootCmd.MarkFlagsMutuallyExclusive("verbose", "quiet")

	rootCmd.AddCommand(
		callCmd,
		instantiateCmd,
		uploadCmd,
		stateCallCmd,
		configCmd,
	)
}
