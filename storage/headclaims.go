package storage

import (
	"crypto/ed25519"
	"fmt"

	"github.com/veraison/go-cose"

	"github.com/lukeburns/hypercore-red/keypair"
)

// HeadClaims identifies the log a signed head envelope speaks for and the
// party that published it, recovered from the envelope's protected header.
type HeadClaims struct {
	Issuer  string
	Subject string
	KeyID   []byte
}

// HeadClaimsFromEnvelope reads the key identifier and CWT claims from a
// decoded envelope. It makes no statement about the signature; callers
// recover the key with PublicKey, decide whether they trust it, and only
// then verify.
func HeadClaimsFromEnvelope(signed *cose.Sign1Message) (HeadClaims, error) {
	header := signed.Headers.Protected

	rawKid, ok := header[cose.HeaderLabelKeyID]
	if !ok {
		return HeadClaims{}, fmt.Errorf("%w: no key id", ErrEnvelopeFormat)
	}
	kid, ok := rawKid.([]byte)
	if !ok {
		return HeadClaims{}, fmt.Errorf("%w: key id is %T, not bytes", ErrEnvelopeFormat, rawKid)
	}

	rawClaims, ok := header[headerLabelCWTClaims]
	if !ok {
		return HeadClaims{}, fmt.Errorf("%w: no cwt claims", ErrEnvelopeFormat)
	}
	claims, ok := rawClaims.(map[any]any)
	if !ok {
		return HeadClaims{}, fmt.Errorf("%w: cwt claims are %T, not a map", ErrEnvelopeFormat, rawClaims)
	}

	issuer, ok := claims[cwtClaimIssuer].(string)
	if !ok {
		return HeadClaims{}, fmt.Errorf("%w: issuer claim missing or not a string", ErrEnvelopeFormat)
	}
	subject, ok := claims[cwtClaimSubject].(string)
	if !ok {
		return HeadClaims{}, fmt.Errorf("%w: subject claim missing or not a string", ErrEnvelopeFormat)
	}

	return HeadClaims{Issuer: issuer, Subject: subject, KeyID: kid}, nil
}

// PublicKey returns the key the envelope names as its signer. For this log
// format the key id carries the raw public key, which is also the log's
// address. Possession of the claims proves nothing, the caller must check
// the key is one they trust before verifying with it.
func (c HeadClaims) PublicKey() (keypair.PublicKey, error) {
	if len(c.KeyID) != ed25519.PublicKeySize {
		return nil, fmt.Errorf(
			"%w: key id is %d bytes, raw public keys are %d", ErrEnvelopeFormat, len(c.KeyID), ed25519.PublicKeySize)
	}
	return keypair.PublicKey(c.KeyID), nil
}
