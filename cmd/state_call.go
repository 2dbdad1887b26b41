package cmd

import (
	"fmt"
	"net/url"

	"github.com/Mohsinsiddi/inkctl/internal/extrinsic"
	"github.com/Mohsinsiddi/inkctl/internal/node"
	"github.com/Mohsinsiddi/inkctl/internal/ui"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/spf13/cobra"
)

var stateCallURL string

var stateCallCmd = &cobra.Command{
	Use:   "state-call <function> [hex-args]",
	Short: "Call a runtime API function and print the raw result",
	Long: `Call a runtime API function through state_call and print the
SCALE-encoded result as hex. Useful to inspect what the node returns for a
dry-run request.

Examples:
  inkctl state-call Core_version
  inkctl state-call ContractsApi_call 0xd435...`,
	Args: cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		endpoint := stateCallURL
		if endpoint == "" {
			endpoint = cfg.DefaultURL
		}
		u, err := url.Parse(endpoint)
		if err != nil {
			return fmt.Errorf("invalid url %q: %w", endpoint, err)
		}

		var params []byte
		if len(args) == 2 {
			if params, err = parseHex("args", args[1]); err != nil {
				return err
			}
		}

		out := cmd.OutOrStdout()
		if verbose {
			ui.PrintNameValue(out, "Endpoint", node.NormalizeURL(u), extrinsic.MaxKeyColWidth)
		}

		c, err := node.Dial(cmd.Context(), endpoint, log)
		if err != nil {
			return err
		}
		defer c.Close()

		res, err := c.StateCall(cmd.Context(), args[0], params)
		if err != nil {
			return err
		}
		fmt.Fprintln(out, hexutil.Encode(res))
		return nil
	},
}

func init() {
	stateCallCmd.Flags().StringVar(&stateCallURL, "url", "", "websocket URL of the node (default from config)")
}
