package storagetest

import (
	"errors"
	"math/rand"
	"testing"

	"github.com/datatrails/go-datatrails-common/logger"
	"github.com/stretchr/testify/require"

	"github.com/lukeburns/hypercore-red/flattree"
	"github.com/lukeburns/hypercore-red/merkle"
	"github.com/lukeburns/hypercore-red/storage"
)

// TestGenerator produces deterministic pseudo random block payloads.
type TestGenerator struct {
	T   *testing.T
	Rng *rand.Rand
}

func NewTestGenerator(t *testing.T, seed int64) TestGenerator {
	return TestGenerator{T: t, Rng: rand.New(rand.NewSource(seed))}
}

// GenerateBlocks returns count payloads of between 1 and maxSize bytes.
func (g TestGenerator) GenerateBlocks(count, maxSize int) [][]byte {
	blocks := make([][]byte, 0, count)
	for i := 0; i < count; i++ {
		b := make([]byte, 1+g.Rng.Intn(maxSize))
		_, _ = g.Rng.Read(b)
		blocks = append(blocks, b)
	}
	return blocks
}

type TestCommitterConfig struct {
	// SignOnAppend stores a signature over the new root after every block,
	// which is how a live writer maintains the signatures store.
	SignOnAppend bool
}

// TestCommitter appends blocks to an engine the way a writer peer would:
// each payload is stored together with its leaf node and whatever parent
// nodes it completes, and the accumulated node set is retained for offset
// resolution.
type TestCommitter struct {
	cfg TestCommitterConfig
	log logger.Logger
	tc  TestContext
	s   *storage.Storage

	length uint64
	roots  []merkle.Node
	nodes  []merkle.Node
}

func NewTestCommitter(cfg TestCommitterConfig, tc TestContext, s *storage.Storage) *TestCommitter {
	return &TestCommitter{
		cfg: cfg,
		log: logger.Sugar.WithServiceName("TestCommitter"),
		tc:  tc,
		s:   s,
	}
}

// AppendBlocks writes the payloads in order, starting at the committer's
// current length.
func (c *TestCommitter) AppendBlocks(blocks [][]byte) error {
	for _, data := range blocks {
		if err := c.appendBlock(data); err != nil {
			c.log.Infof("AppendBlocks: %v", err)
			return err
		}
	}
	return nil
}

func (c *TestCommitter) appendBlock(data []byte) error {
	leaf := merkle.LeafNode(c.length, data)
	created := []merkle.Node{leaf}

	// Adding a leaf completes a parent whenever the last two full roots
	// span the same number of blocks.
	roots := append(append([]merkle.Node(nil), c.roots...), leaf)
	for len(roots) >= 2 {
		a, b := roots[len(roots)-2], roots[len(roots)-1]
		if flattree.CountLeaves(a.Index) != flattree.CountLeaves(b.Index) {
			break
		}
		parent := merkle.ParentNode(a, b)
		roots = append(roots[:len(roots)-2], parent)
		created = append(created, parent)
	}

	for _, n := range created {
		if err := c.s.PutNode(n.Index, n); err != nil {
			return err
		}
	}
	c.nodes = append(c.nodes, created...)
	if err := c.s.PutData(c.length, data, c.nodes); err != nil {
		return err
	}

	if c.cfg.SignOnAppend {
		sig, err := c.s.Keys().Sign(merkle.RootHash(roots))
		if err != nil {
			return err
		}
		if err := c.s.PutSignature(c.length, sig); err != nil {
			return err
		}
	}

	c.roots = roots
	c.length++
	return nil
}

// Length returns the number of blocks appended so far.
func (c *TestCommitter) Length() uint64 { return c.length }

// Nodes returns every tree node written so far, in creation order. The
// slice is what readers pass for offset resolution.
func (c *TestCommitter) Nodes() []merkle.Node { return c.nodes }

// Roots returns the full roots covering the current length, ascending by
// index.
func (c *TestCommitter) Roots() []merkle.Node { return c.roots }

// SignedHead produces a COSE Sign1 envelope over the head state for
// everything appended so far, signed with the engine's key.
func (c *TestCommitter) SignedHead(issuer string) ([]byte, storage.HeadState, error) {
	if c.length == 0 {
		return nil, storage.HeadState{}, errors.New("no blocks to sign")
	}
	codec, err := storage.NewHeadCodec()
	require.NoError(c.tc.T, err)

	state, err := storage.HeadOf(c.length, c.nodes)
	if err != nil {
		return nil, storage.HeadState{}, err
	}
	signed, err := storage.NewRootSigner(issuer, codec).Sign1(c.s.Keys(), state, nil)
	if err != nil {
		return nil, storage.HeadState{}, err
	}
	return signed, state, nil
}
