package blockchain

import (
	"strings"
	"testing"

	"github.com/ethereum/go-ethereum/accounts"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func signPersonal(t *testing.T, message string) (address, signature string) {
	t.Helper()
	key, err := crypto.GenerateKey()
	require.NoError(t, err)

	sig, err := crypto.Sign(accounts.TextHash([]byte(message)), key)
	require.NoError(t, err)
	sig[crypto.RecoveryIDOffset] += 27

	return crypto.PubkeyToAddress(key.PublicKey).Hex(), hexutil.Encode(sig)
}

func TestRecoverAddress(t *testing.T) {
	address, signature := signPersonal(t, "I own this wallet")

	recovered, err := RecoverAddress("I own this wallet", signature)
	require.NoError(t, err)
	assert.Equal(t, address, recovered)
}

func TestVerifyMessageIgnoresCase(t *testing.T) {
	address, signature := signPersonal(t, "hello")

	ok, err := VerifyMessage(strings.ToLower(address), "hello", signature)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = VerifyMessage(address, "tampered", signature)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestRecoverAddressRejectsMalformed(t *testing.T) {
	_, err := RecoverAddress("hello", "0x1234")
	assert.ErrorIs(t, err, ErrInvalidSignature)

	_, err = RecoverAddress("hello", "not-hex")
	assert.ErrorIs(t, err, ErrInvalidSignature)
}

func TestValidators(t *testing.T) {
	assert.True(t, IsTxHash(testHash))
	assert.False(t, IsTxHash("0x1234"))
	assert.False(t, IsTxHash(strings.TrimPrefix(testHash, "0x")))

	assert.True(t, IsAddress("0x00000000000000000000000000000000000000bb"))
	assert.False(t, IsAddress("0xzz"))
}
