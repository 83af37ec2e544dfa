package keypair

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateSignVerify(t *testing.T) {
	kp, err := Generate()
	require.NoError(t, err)
	require.True(t, kp.Writable())
	require.Len(t, []byte(kp.Public), PublicKeySize)
	require.Len(t, []byte(kp.Secret), SecretKeySize)

	msg := []byte("root hash to commit to")
	sig, err := kp.Sign(msg)
	require.NoError(t, err)
	require.Len(t, sig, SignatureSize)

	assert.True(t, Verify(kp.Public, msg, sig))
	assert.False(t, Verify(kp.Public, []byte("a different message"), sig))

	other, err := Generate()
	require.NoError(t, err)
	assert.False(t, Verify(other.Public, msg, sig))
}

func TestFromSeedIsDeterministic(t *testing.T) {
	seed := bytes.Repeat([]byte{7}, SeedSize)

	a, err := FromSeed(seed)
	require.NoError(t, err)
	b, err := FromSeed(seed)
	require.NoError(t, err)
	assert.Equal(t, a.Public, b.Public)
	assert.Equal(t, a.Secret, b.Secret)

	_, err = FromSeed(seed[:16])
	require.ErrorIs(t, err, ErrBadSeedSize)
}

func TestFromKeysValidatesTheHalves(t *testing.T) {
	kp, err := Generate()
	require.NoError(t, err)

	// matching halves round trip
	got, err := FromKeys(kp.Public, kp.Secret)
	require.NoError(t, err)
	assert.True(t, got.Writable())

	// mismatched halves are rejected
	other, err := Generate()
	require.NoError(t, err)
	_, err = FromKeys(kp.Public, other.Secret)
	require.ErrorIs(t, err, ErrKeyMismatch)

	_, err = FromKeys(kp.Public[:31], kp.Secret)
	require.ErrorIs(t, err, ErrBadPublicKeySize)
	_, err = FromKeys(kp.Public, kp.Secret[:63])
	require.ErrorIs(t, err, ErrBadSecretKeySize)
}

func TestPublicOnlyPairCannotSign(t *testing.T) {
	kp, err := Generate()
	require.NoError(t, err)

	readOnly, err := FromPublicKey(kp.Public)
	require.NoError(t, err)
	assert.False(t, readOnly.Writable())

	_, err = readOnly.Sign([]byte("nope"))
	require.ErrorIs(t, err, ErrNoSecretKey)
}

func TestDiscoveryKey(t *testing.T) {
	kp, err := Generate()
	require.NoError(t, err)

	dk, err := kp.DiscoveryKey()
	require.NoError(t, err)
	require.Len(t, dk, 32)

	// stable for the same identity, distinct across identities, and never
	// equal to the public key itself
	dk2, err := kp.DiscoveryKey()
	require.NoError(t, err)
	assert.Equal(t, dk, dk2)
	assert.NotEqual(t, []byte(kp.Public), dk)

	other, err := Generate()
	require.NoError(t, err)
	odk, err := other.DiscoveryKey()
	require.NoError(t, err)
	assert.NotEqual(t, dk, odk)
}
