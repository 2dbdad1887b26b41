package cmd

import (
	"github.com/Mohsinsiddi/inkctl/internal/extrinsic"
	"github.com/spf13/cobra"
)

var (
	uploadFlags extrinsicFlags
	uploadWasm  string
)

var uploadCmd = &cobra.Command{
	Use:   "upload",
	Short: "Upload contract code without instantiating it",
	Long: `Upload a contract's Wasm so it can later be instantiated by code hash.

Examples:
  inkctl upload --wasm flipper.wasm --suri //Alice
  inkctl upload --wasm flipper.wasm --suri //Alice --dry-run --output-json`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runExtrinsic(cmd, &uploadFlags, func(s *session) (extrinsic.Payload, error) {
			code, err := readWasm(uploadWasm)
			if err != nil {
				return nil, err
			}
			limit, err := s.storageDepositLimit()
			if err != nil {
				return nil, err
			}
			return &extrinsic.UploadPayload{Code: code, StorageDepositLimit: limit}, nil
		})
	},
}

func init() {
	uploadCmd.Flags().StringVar(&uploadWasm, "wasm", "", "path to the contract's .wasm file")
	_ = uploadCmd.MarkFlagRequired("wasm")
	uploadFlags.register(uploadCmd, false)
}
