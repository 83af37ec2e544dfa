package storage

import (
	dtcbor "github.com/datatrails/go-datatrails-common/cbor"
	"github.com/veraison/go-cose"

	"github.com/lukeburns/hypercore-red/keypair"
)

// DecodeSignedHead decodes the head state values from a signed head
// message. The returned state does not verify as is, the root is detached
// at signing time. See VerifySignedHead for the full procedure.
func DecodeSignedHead(codec dtcbor.CBORCodec, msg []byte) (*cose.Sign1Message, HeadState, error) {
	var signed cose.Sign1Message
	if err := signed.UnmarshalCBOR(msg); err != nil {
		return nil, HeadState{}, err
	}

	var unverified HeadState
	if err := codec.UnmarshalInto(signed.Payload, &unverified); err != nil {
		return nil, HeadState{}, err
	}
	return &signed, unverified, nil
}

// VerifySignedHead applies the provided state to the signed message and
// verifies the result with the log's public key.
//
// Published heads carry no root, so verification is a three step process:
//  1. DecodeSignedHead to obtain the unverified state.
//  2. Recover the root for state.Length from the local tree nodes, for
//     example with HeadOf.
//  3. Set the recovered root on the state and call this function.
func VerifySignedHead(codec dtcbor.CBORCodec, pub keypair.PublicKey, signed *cose.Sign1Message, unverified HeadState, external []byte) error {
	payload, err := codec.MarshalCBOR(unverified)
	if err != nil {
		return err
	}
	signed.Payload = payload

	verifier, err := cose.NewVerifier(cose.AlgorithmEdDSA, pub)
	if err != nil {
		return err
	}
	return signed.Verify(external, verifier)
}
