package txsigner

import (
	"crypto/ed25519"
	"testing"

	"github.com/ethereum/go-ethereum/crypto"
	"github.com/stretchr/testify/require"

	"github.com/blocknet/go-blocknet/inter"
)

func testKey(seed byte) ed25519.PrivateKey {
	return ed25519.NewKeyFromSeed(crypto.Keccak256([]byte{seed}))
}

func addressOfKey(key ed25519.PrivateKey) [32]byte {
	var pub [32]byte
	copy(pub[:], key.Public().(ed25519.PublicKey))
	return pub
}

func signedTx(t *testing.T, key ed25519.PrivateKey) *inter.Transaction {
	tx := &inter.Transaction{
		From:        AddressOf(addressOfKey(key)),
		To:          AddressOf(addressOfKey(testKey(0xee))),
		Amount:      1000,
		Fee:         10,
		FeeSelector: inter.FeeSelectorSplit,
		Nonce:       1,
	}
	require.NoError(t, Sign(key, tx))
	return tx
}

func TestSignAndVerify(t *testing.T) {
	require := require.New(t)

	tx := signedTx(t, testKey(1))
	require.NoError(Checker{}.CheckSignature(tx))
}

func TestRejectsTamperedPayload(t *testing.T) {
	require := require.New(t)

	tx := signedTx(t, testKey(1))
	tx.Amount++
	require.Equal(ErrInvalidSignature, Checker{}.CheckSignature(tx))
}

func TestRejectsTamperedSignature(t *testing.T) {
	require := require.New(t)

	tx := signedTx(t, testKey(1))
	tx.Sig[0] ^= 0xff
	require.Equal(ErrInvalidSignature, Checker{}.CheckSignature(tx))
}

func TestRejectsWrongSender(t *testing.T) {
	require := require.New(t)

	// signed by key 1, but claiming key 2's address
	tx := signedTx(t, testKey(1))
	tx.From = AddressOf(addressOfKey(testKey(2)))
	require.Equal(ErrWrongSender, Checker{}.CheckSignature(tx))

	// Sign refuses to sign for an address the key doesn't own
	fresh := &inter.Transaction{
		From:  AddressOf(addressOfKey(testKey(2))),
		Nonce: 1,
	}
	require.Equal(ErrWrongSender, Sign(testKey(1), fresh))
}

func TestAddressDeterministic(t *testing.T) {
	require := require.New(t)

	a := addressOfKey(testKey(1))
	b := addressOfKey(testKey(2))
	require.Equal(AddressOf(a), AddressOf(a))
	require.NotEqual(AddressOf(a), AddressOf(b))
}
