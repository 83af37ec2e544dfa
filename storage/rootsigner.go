package storage

import (
	"crypto/rand"
	"encoding/hex"

	dtcbor "github.com/datatrails/go-datatrails-common/cbor"
	"github.com/veraison/go-cose"

	"github.com/lukeburns/hypercore-red/keypair"
)

const (
	headerLabelCWTClaims int64 = 15

	cwtClaimIssuer  int64 = 1
	cwtClaimSubject int64 = 2
)

// RootSigner produces the publishable commitment to a log head. The raw 64
// byte records in the signatures store remain the log's own wire format,
// the COSE Sign1 envelope produced here is the form a head is published and
// exchanged in. A head should only be signed and published after checking
// consistency between the last published state and the new one.
type RootSigner struct {
	issuer    string
	cborCodec dtcbor.CBORCodec
}

func NewRootSigner(issuer string, cborCodec dtcbor.CBORCodec) RootSigner {
	return RootSigner{
		issuer:    issuer,
		cborCodec: cborCodec,
	}
}

// Sign1 signs the head state with the log's secret key. The protected
// header carries the public key as the key identifier and the issuer in the
// CWT claims, the subject is the log's address in hex.
func (rs RootSigner) Sign1(keys keypair.KeyPair, state HeadState, external []byte) ([]byte, error) {
	if !keys.Writable() {
		return nil, keypair.ErrNoSecretKey
	}
	payload, err := rs.cborCodec.MarshalCBOR(state)
	if err != nil {
		return nil, err
	}

	signer, err := cose.NewSigner(cose.AlgorithmEdDSA, keys.Secret)
	if err != nil {
		return nil, err
	}

	msg := cose.Sign1Message{
		Headers: cose.Headers{
			Protected: cose.ProtectedHeader{
				cose.HeaderLabelKeyID: []byte(keys.Public),
				headerLabelCWTClaims: map[int64]any{
					cwtClaimIssuer:  rs.issuer,
					cwtClaimSubject: hex.EncodeToString(keys.Public),
				},
			},
		},
		Payload: payload,
	}
	if err = msg.Sign(rand.Reader, external, signer); err != nil {
		return nil, err
	}

	// The root is detached before publishing. A verifier must recover it
	// from its own tree store at the stated length.
	state.Root = nil
	if msg.Payload, err = rs.cborCodec.MarshalCBOR(state); err != nil {
		return nil, err
	}

	return msg.MarshalCBOR()
}
