package account

import (
	"testing"

	"github.com/centrifuge/go-substrate-rpc-client/v4/signature"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	aliceHex  = "0xd43593c715fdd31c61141abd04a99fd6822c8558854ccde39a5684e7a56da27d"
	aliceSS58 = "5GrwvaEF5zXb26Fz9rcQpDWS57CtERHpNehXCPcNoHGKutQY"
	devPhrase = "bottom drive obey lake curtain smoke basket hold race lonely fit walk"
)

func TestFromSecretURIAlice(t *testing.T) {
	k, err := FromSecretURI("//Alice", "")
	require.NoError(t, err)

	assert.Equal(t, aliceHex, k.AccountID().Hex())
	assert.Equal(t, aliceSS58, k.Address(42))
}

func TestFromSecretURIPhraseWithPath(t *testing.T) {
	k, err := FromSecretURI(devPhrase+"//Alice", "")
	require.NoError(t, err)
	assert.Equal(t, aliceHex, k.AccountID().Hex())
}

func TestFromSecretURIPasswordChangesKey(t *testing.T) {
	plain, err := FromSecretURI("//Alice", "")
	require.NoError(t, err)
	withPwd, err := FromSecretURI("//Alice", "hunter2")
	require.NoError(t, err)

	assert.NotEqual(t, plain.AccountID(), withPwd.AccountID())
}

func TestFromSecretURIInvalid(t *testing.T) {
	for _, suri := range []string{
		"",
		"   ",
		"notaphrase",
		"bottom drive obey lake curtain smoke basket hold race lonely fit zzzz",
	} {
		_, err := FromSecretURI(suri, "")
		assert.ErrorIs(t, err, ErrInvalidSecret, suri)
	}
}

func TestFromSecretURIPasswordTwice(t *testing.T) {
	_, err := FromSecretURI("//Alice///a", "b")
	assert.ErrorIs(t, err, ErrInvalidSecret)
}

func TestSignVerifies(t *testing.T) {
	k, err := FromSecretURI("//Alice", "")
	require.NoError(t, err)

	msg := []byte("extrinsic payload")
	sig, err := k.Sign(msg)
	require.NoError(t, err)
	require.Len(t, sig, 64)

	ok, err := signature.Verify(msg, sig, "//Alice")
	require.NoError(t, err)
	assert.True(t, ok)
}
