package cmd

import (
	"fmt"

	"github.com/Mohsinsiddi/inkctl/internal/account"
	"github.com/Mohsinsiddi/inkctl/internal/extrinsic"
	"github.com/spf13/cobra"
)

var (
	callFlags    extrinsicFlags
	callContract string
	callData     string
	callValue    string
)

var callCmd = &cobra.Command{
	Use:   "call",
	Short: "Call a message on a deployed contract",
	Long: `Call a message on a deployed contract.

The call data is the already-encoded message: the 4-byte selector followed by
the SCALE-encoded arguments, as hex.

Examples:
  inkctl call --contract 5Dfh...Xyz --data 0x633aa551 --suri //Alice
  inkctl call --contract 5Dfh...Xyz --data 0x633aa551 --suri //Alice --dry-run
  inkctl call --contract 5Dfh...Xyz --data 0x84a15da1 --value 1.5UNIT --suri //Alice --skip-confirm`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runExtrinsic(cmd, &callFlags, func(s *session) (extrinsic.Payload, error) {
			dest, err := account.ParseAccountID(callContract)
			if err != nil {
				return nil, fmt.Errorf("--contract: %w", err)
			}
			data, err := parseHex("data", callData)
			if err != nil {
				return nil, err
			}
			value, err := s.amount("value", callValue)
			if err != nil {
				return nil, err
			}
			limit, err := s.storageDepositLimit()
			if err != nil {
				return nil, err
			}
			return &extrinsic.CallPayload{
				Contract:            dest,
				Value:               value,
				Data:                data,
				StorageDepositLimit: limit,
			}, nil
		})
	},
}

func init() {
	callCmd.Flags().StringVar(&callContract, "contract", "", "address of the contract to call")
	callCmd.Flags().StringVar(&callData, "data", "", "encoded message selector and arguments (hex)")
	callCmd.Flags().StringVar(&callValue, "value", "0", "balance to transfer to the contract")
	_ = callCmd.MarkFlagRequired("contract")
	callFlags.register(callCmd, true)
}
