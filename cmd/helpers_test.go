package cmd

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/Mohsinsiddi/inkctl/internal/contracts"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// ---------------------------------------------------------------------------
// parseHex / parseCodeHash
// ---------------------------------------------------------------------------

func TestParseHex(t *testing.T) {
	b, err := parseHex("data", "0x633aa551")
	require.NoError(t, err)
	assert.Equal(t, []byte{0x63, 0x3a, 0xa5, 0x51}, b)

	b, err = parseHex("data", "633aa551")
	require.NoError(t, err)
	assert.Len(t, b, 4)

	b, err = parseHex("data", "")
	require.NoError(t, err)
	assert.Nil(t, b)

	_, err = parseHex("data", "0x123")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "--data")

	_, err = parseHex("salt", "zz")
	assert.Error(t, err)
}

func TestParseCodeHash(t *testing.T) {
	h, err := parseCodeHash("0x" + "ab" + "00000000000000000000000000000000000000000000000000000000000000")
	require.NoError(t, err)
	assert.Equal(t, byte(0xab), h[0])

	_, err = parseCodeHash("0xabcd")
	assert.Error(t, err)
}

// ---------------------------------------------------------------------------
// extrinsicFlags.weight
// ---------------------------------------------------------------------------

func newFlagCmd(withGas bool, args ...string) (*cobra.Command, *extrinsicFlags) {
	f := &extrinsicFlags{}
	cmd := &cobra.Command{Use: "test", RunE: func(*cobra.Command, []string) error { return nil }}
	f.register(cmd, withGas)
	_ = cmd.ParseFlags(args)
	return cmd, f
}

func TestWeightFlags(t *testing.T) {
	cmd, f := newFlagCmd(true)
	w, err := f.weight(cmd)
	require.NoError(t, err)
	assert.Nil(t, w)

	cmd, f = newFlagCmd(true, "--gas", "5000", "--proof-size", "64")
	w, err = f.weight(cmd)
	require.NoError(t, err)
	assert.Equal(t, &contracts.Weight{RefTime: 5000, ProofSize: 64}, w)

	cmd, f = newFlagCmd(true, "--gas", "5000")
	_, err = f.weight(cmd)
	assert.ErrorIs(t, err, errWeightPair)

	cmd, f = newFlagCmd(false)
	w, err = f.weight(cmd)
	require.NoError(t, err)
	assert.Nil(t, w)
}

func TestSharedFlagsRegistered(t *testing.T) {
	cmd, f := newFlagCmd(false, "--suri", "//Bob", "--dry-run", "--skip-confirm", "--output-json",
		"--storage-deposit-limit", "1UNIT", "-p", "secret")
	assert.Equal(t, "//Bob", f.Suri)
	assert.Equal(t, "secret", f.Password)
	assert.Equal(t, "1UNIT", f.StorageDepositLimit)
	assert.True(t, f.DryRun)
	assert.True(t, f.SkipConfirm)
	assert.True(t, f.OutputJSON)
	assert.False(t, f.SkipDryRun)
	assert.Nil(t, cmd.Flags().Lookup("gas"))
}

// ---------------------------------------------------------------------------
// readWasm
// ---------------------------------------------------------------------------

func TestReadWasm(t *testing.T) {
	log = zap.NewNop()
	dir := t.TempDir()

	good := filepath.Join(dir, "flipper.wasm")
	require.NoError(t, os.WriteFile(good, []byte{0x00, 'a', 's', 'm', 0x01, 0, 0, 0}, 0o600))
	code, err := readWasm(good)
	require.NoError(t, err)
	assert.Len(t, code, 8)

	bad := filepath.Join(dir, "notes.txt")
	require.NoError(t, os.WriteFile(bad, []byte("hello"), 0o600))
	_, err = readWasm(bad)
	assert.Error(t, err)

	_, err = readWasm(filepath.Join(dir, "missing.wasm"))
	assert.Error(t, err)
}
