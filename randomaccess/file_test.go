package randomaccess

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileSurvivesReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "data")

	s, err := NewFile(path)
	require.NoError(t, err)
	require.NoError(t, s.Write(8, []byte("persist me")))
	require.NoError(t, s.Close())

	s, err = NewFile(path)
	require.NoError(t, err)
	defer s.Close()

	n, err := s.Len()
	require.NoError(t, err)
	assert.Equal(t, uint64(18), n)

	got, err := s.Read(8, 10)
	require.NoError(t, err)
	assert.Equal(t, []byte("persist me"), got)
}

func TestFileCreatesParentDirectories(t *testing.T) {
	path := filepath.Join(t.TempDir(), "a", "b", "c", "store")
	s, err := NewFile(path)
	require.NoError(t, err)
	defer s.Close()
	assert.Equal(t, path, s.Path())
}

func TestFileCloseIsIdempotent(t *testing.T) {
	s, err := NewFile(filepath.Join(t.TempDir(), "store"))
	require.NoError(t, err)
	require.NoError(t, s.Close())
	require.NoError(t, s.Close())
}
