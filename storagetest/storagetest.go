// Package storagetest provides shared fixtures for tests that need a
// populated log: a context wiring up the logger and key material, store
// factories for each backend, and a committer that writes blocks together
// with the tree nodes readers need for offset resolution.
package storagetest

import (
	"path/filepath"
	"testing"

	"github.com/datatrails/go-datatrails-common/logger"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"github.com/syndtr/goleveldb/leveldb"

	"github.com/lukeburns/hypercore-red/keypair"
	"github.com/lukeburns/hypercore-red/randomaccess"
	"github.com/lukeburns/hypercore-red/storage"
)

type TestContext struct {
	Log  logger.Logger
	Keys keypair.KeyPair
	T    *testing.T
	Dir  string

	db *leveldb.DB
}

type TestConfig struct {
	// We seed the RNG of the block generator with Seed. It is normal to force
	// it to some fixed value so that the generated data is the same from run
	// to run.
	Seed            int64
	TestLabelPrefix string
	LogLevel        string // can be "" defaults to NOOP
}

func NewTestContext(t *testing.T, cfg TestConfig) TestContext {
	c := TestContext{
		T: t,
	}
	level := cfg.LogLevel
	if level == "" {
		level = "NOOP"
	}
	logger.New(level)
	t.Cleanup(logger.OnExit)
	c.Log = logger.Sugar.WithServiceName(cfg.TestLabelPrefix)

	var err error
	c.Keys, err = keypair.Generate()
	if err != nil {
		t.Fatalf("failed to generate a key pair: %v", err)
	}

	c.Dir = filepath.Join(t.TempDir(), uuid.NewString())
	return c
}

// NewDefaultTestContext returns a context and generator configured the way
// most storage tests want them, with a fixed seed so failures reproduce.
func NewDefaultTestContext(t *testing.T, testLabelPrefix string) (TestContext, TestGenerator, TestConfig) {
	cfg := TestConfig{
		Seed:            20120412,
		TestLabelPrefix: testLabelPrefix,
	}
	tc := NewTestContext(t, cfg)
	g := NewTestGenerator(t, cfg.Seed)
	return tc, g, cfg
}

func (c *TestContext) GetLog() logger.Logger { return c.Log }

// MemoryCreate returns a factory for stores that vanish on Close.
func (c *TestContext) MemoryCreate() storage.CreateStore {
	return storage.MemoryCreate()
}

// FileCreate returns a factory persisting each store as a flat file under
// the context directory. Successive calls share the directory, so an engine
// opened after another closed sees its log.
func (c *TestContext) FileCreate() storage.CreateStore {
	return storage.FileCreate(c.Dir)
}

// LevelDBCreate returns a factory placing all four stores in one database
// under the context directory, keyed by a one byte prefix per kind. The
// database is opened on first use, shared by later calls so that reopened
// engines see earlier writes, and closed when the test finishes.
func (c *TestContext) LevelDBCreate() storage.CreateStore {
	if c.db == nil {
		db, err := leveldb.OpenFile(filepath.Join(c.Dir, "leveldb"), nil)
		require.NoError(c.T, err)
		c.T.Cleanup(func() { _ = db.Close() })
		c.db = db
	}
	db := c.db
	return func(kind storage.Kind) (randomaccess.Store, error) {
		return randomaccess.NewLevelDB(db, []byte{byte(kind)})
	}
}

// NewStorage opens an engine over the given factory with the context's log
// and keys, failing the test rather than returning an error. Closing the
// engine is left to the caller so that reopen flows stay expressible.
func (c *TestContext) NewStorage(create storage.CreateStore, opts ...storage.Option) *storage.Storage {
	s, err := storage.New(c.Log, c.Keys, create, opts...)
	require.NoError(c.T, err)
	return s
}
