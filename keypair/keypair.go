// Package keypair holds the signing identity of a log. The public key is the
// log's address; the secret key, when present, is what authorizes growing
// it. Key material is supplied at construction and never serialized by this
// package, persistence is the caller's concern.
package keypair

import (
	"crypto/ed25519"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"

	"golang.org/x/crypto/blake2b"
)

const (
	// PublicKeySize is the byte length of a log's public key.
	PublicKeySize = ed25519.PublicKeySize
	// SecretKeySize is the byte length of a log's secret key.
	SecretKeySize = ed25519.PrivateKeySize
	// SignatureSize is the byte length of every signature produced by Sign.
	SignatureSize = ed25519.SignatureSize
	// SeedSize is the byte length of the seed accepted by FromSeed.
	SeedSize = ed25519.SeedSize
)

var (
	ErrBadPublicKeySize = errors.New("public key has the wrong length")
	ErrBadSecretKeySize = errors.New("secret key has the wrong length")
	ErrBadSeedSize      = errors.New("seed has the wrong length")
	ErrKeyMismatch      = errors.New("secret key does not correspond to the public key")
	ErrNoSecretKey      = errors.New("key pair holds no secret key")
)

// PublicKey aliases the ed25519 type so callers can interoperate with the
// standard library without conversion.
type PublicKey = ed25519.PublicKey

// SecretKey aliases the ed25519 type. A SecretKey is also a crypto.Signer,
// which is how it plugs into COSE envelope signing.
type SecretKey = ed25519.PrivateKey

// KeyPair is the immutable identity of a log. Secret is nil for logs opened
// by public key alone, which can be read and verified but not extended.
type KeyPair struct {
	Public PublicKey
	Secret SecretKey
}

// Generate creates a fresh identity from the operating system's
// cryptographically secure generator. This is the expected path for
// ephemeral memory backed logs only; durable logs load their keys
// externally.
func Generate() (KeyPair, error) {
	pub, sec, err := ed25519.GenerateKey(rand.Reader)
	if err != nil {
		return KeyPair{}, fmt.Errorf("generating key pair: %w", err)
	}
	return KeyPair{Public: pub, Secret: sec}, nil
}

// FromSeed derives the identity deterministically from a 32 byte seed.
func FromSeed(seed []byte) (KeyPair, error) {
	if len(seed) != SeedSize {
		return KeyPair{}, fmt.Errorf("%w: %d", ErrBadSeedSize, len(seed))
	}
	sec := ed25519.NewKeyFromSeed(seed)
	return KeyPair{Public: sec.Public().(ed25519.PublicKey), Secret: sec}, nil
}

// FromKeys wraps externally loaded key material, checking that the halves
// belong together.
func FromKeys(pub PublicKey, sec SecretKey) (KeyPair, error) {
	if len(pub) != PublicKeySize {
		return KeyPair{}, fmt.Errorf("%w: %d", ErrBadPublicKeySize, len(pub))
	}
	if sec == nil {
		return KeyPair{Public: pub}, nil
	}
	if len(sec) != SecretKeySize {
		return KeyPair{}, fmt.Errorf("%w: %d", ErrBadSecretKeySize, len(sec))
	}
	if !pub.Equal(sec.Public().(ed25519.PublicKey)) {
		return KeyPair{}, ErrKeyMismatch
	}
	return KeyPair{Public: pub, Secret: sec}, nil
}

// FromPublicKey wraps a bare public key: the open-by-key path for logs the
// caller can verify but not write.
func FromPublicKey(pub PublicKey) (KeyPair, error) {
	return FromKeys(pub, nil)
}

// Writable reports whether the pair carries the secret key needed to sign.
func (k KeyPair) Writable() bool {
	return k.Secret != nil
}

// Sign signs msg with the secret key. The signature is always
// SignatureSize bytes.
func (k KeyPair) Sign(msg []byte) ([]byte, error) {
	if !k.Writable() {
		return nil, ErrNoSecretKey
	}
	return ed25519.Sign(k.Secret, msg), nil
}

// Verify reports whether sig is a valid signature over msg by pub.
func Verify(pub PublicKey, msg, sig []byte) bool {
	if len(pub) != PublicKeySize || len(sig) != SignatureSize {
		return false
	}
	return ed25519.Verify(pub, msg, sig)
}

// DiscoveryKey derives the identifier used to rendezvous on a log without
// revealing its public key: a keyed BLAKE2b-256 over a fixed protocol
// string, keyed with the public key itself. Knowing the discovery key does
// not grant the ability to read the log.
func (k KeyPair) DiscoveryKey() ([]byte, error) {
	h, err := blake2b.New256(k.Public)
	if err != nil {
		return nil, err
	}
	h.Write([]byte("hypercore"))
	return h.Sum(nil), nil
}

// String identifies the pair by its public key, shortened for log lines.
func (k KeyPair) String() string {
	if len(k.Public) != PublicKeySize {
		return "keypair(unset)"
	}
	return hex.EncodeToString(k.Public[:8])
}
