package cmd

import (
	"github.com/Mohsinsiddi/inkctl/internal/contracts"
	"github.com/Mohsinsiddi/inkctl/internal/extrinsic"
	"github.com/spf13/cobra"
)

var (
	instFlags    extrinsicFlags
	instWasm     string
	instCodeHash string
	instData     string
	instSalt     string
	instValue    string
)

var instantiateCmd = &cobra.Command{
	Use:   "instantiate",
	Short: "Instantiate a contract from Wasm or from uploaded code",
	Long: `Instantiate a contract, either uploading its Wasm in the same transaction
(--wasm) or from code already stored on chain (--code-hash).

The constructor data is the encoded selector followed by the SCALE-encoded
arguments, as hex. A salt distinguishes several instances of the same code.

Examples:
  inkctl instantiate --wasm flipper.wasm --data 0x9bae9d5e01 --suri //Alice
  inkctl instantiate --code-hash 0x1f2e...ab --data 0x9bae9d5e00 --salt 0x01 --suri //Alice`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runExtrinsic(cmd, &instFlags, func(s *session) (extrinsic.Payload, error) {
			var code contracts.Code
			if instCodeHash != "" {
				h, err := parseCodeHash(instCodeHash)
				if err != nil {
					return nil, err
				}
				code.Hash = &h
			} else {
				wasm, err := readWasm(instWasm)
				if err != nil {
					return nil, err
				}
				code.Wasm = wasm
			}
			data, err := parseHex("data", instData)
			if err != nil {
				return nil, err
			}
			salt, err := parseHex("salt", instSalt)
			if err != nil {
				return nil, err
			}
			value, err := s.amount("value", instValue)
			if err != nil {
				return nil, err
			}
			limit, err := s.storageDepositLimit()
			if err != nil {
				return nil, err
			}
			return &extrinsic.InstantiatePayload{
				Code:                code,
				Value:               value,
				Data:                data,
				Salt:                salt,
				StorageDepositLimit: limit,
			}, nil
		})
	},
}

func init() {
	instantiateCmd.Flags().StringVar(&instWasm, "wasm", "", "path to the contract's .wasm file")
	instantiateCmd.Flags().StringVar(&instCodeHash, "code-hash", "", "hash of code already uploaded")
	instantiateCmd.Flags().StringVar(&instData, "data", "", "encoded constructor selector and arguments (hex)")
	instantiateCmd.Flags().StringVar(&instSalt, "salt", "", "salt for the contract address (hex)")
	instantiateCmd.Flags().StringVar(&instValue, "value", "0", "balance to transfer to the new contract")
	instantiateCmd.MarkFlagsMutuallyExclusive("wasm", "code-hash")
	instantiateCmd.MarkFlagsOneRequired("wasm", "code-hash")
	instFlags.register(instantiateCmd, true)
}
