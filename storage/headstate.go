package storage

import (
	"fmt"
	"time"

	dtcbor "github.com/datatrails/go-datatrails-common/cbor"

	"github.com/lukeburns/hypercore-red/flattree"
	"github.com/lukeburns/hypercore-red/merkle"
)

// HeadState defines the values included in a signed commitment to the head
// of the log.
type HeadState struct {
	// Length is the number of blocks the commitment covers. The length
	// fixes the full root set, so any replica holding those nodes can
	// reproduce Root. Later, longer states can still reproduce this root,
	// a consequence of the strict append only growth of the tree.
	Length uint64 `cbor:"1,keyasint"`
	Root   []byte `cbor:"2,keyasint"`
	// Timestamp is the unix time (milliseconds) read at the time the head
	// was signed. Including it allows the same head to be re-signed.
	Timestamp int64 `cbor:"3,keyasint"`
}

// HeadOf assembles the signable head state covering the first length
// blocks. The cached set must contain the full root nodes for that length,
// the same cache-or-fail contract the data offset resolver uses.
func HeadOf(length uint64, cached []merkle.Node) (HeadState, error) {
	var roots []merkle.Node
	for _, index := range flattree.FullRoots(length) {
		n, ok := FindNode(cached, index)
		if !ok {
			return HeadState{}, fmt.Errorf("%w: flat index %d", ErrMissingNode, index)
		}
		roots = append(roots, n)
	}
	return HeadState{
		Length:    length,
		Root:      merkle.RootHash(roots),
		Timestamp: time.Now().UnixMilli(),
	}, nil
}

// NewHeadCodec returns the CBOR codec used for signed head payloads.
func NewHeadCodec() (dtcbor.CBORCodec, error) {
	codec, err := dtcbor.NewCBORCodec(
		dtcbor.NewDeterministicEncOpts(),
		dtcbor.NewDeterministicDecOpts(), // unsigned int decodes to uint64
	)
	if err != nil {
		return dtcbor.CBORCodec{}, err
	}
	return codec, nil
}
