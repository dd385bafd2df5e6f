package dedup

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAcceptOncePerCanonicalID(t *testing.T) {
	path := filepath.Join(t.TempDir(), "seen.json")
	s, err := Open(path)
	require.NoError(t, err)
	defer s.Close()

	assert.True(t, s.Accept("https://jobs.example.com/listing/1"))
	assert.False(t, s.Accept("https://jobs.example.com/listing/1"))
	assert.False(t, s.Accept("https://jobs.example.com/listing/1/?utm_source=x"))
	assert.True(t, s.Accept("https://jobs.example.com/listing/2"))
	assert.Equal(t, 2, s.Len())
}

func TestAcceptRejectsEmptyURL(t *testing.T) {
	path := filepath.Join(t.TempDir(), "seen.json")
	s, err := Open(path)
	require.NoError(t, err)
	defer s.Close()

	assert.False(t, s.Accept(""))
	assert.False(t, s.Accept("   "))
	assert.Equal(t, 0, s.Len())
}

func TestPersistSurvivesReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "seen.json")

	s, err := Open(path)
	require.NoError(t, err)
	require.True(t, s.Accept("https://jobs.example.com/listing/1"))
	require.NoError(t, s.Close())

	s2, err := Open(path)
	require.NoError(t, err)
	defer s2.Close()

	assert.False(t, s2.Accept("https://jobs.example.com/listing/1"))
	assert.True(t, s2.Accept("https://jobs.example.com/listing/9"))
	assert.Equal(t, 2, s2.Len())
}

func TestOpenMissingSnapshotIsEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "does-not-exist.json")
	s, err := Open(path)
	require.NoError(t, err)
	defer s.Close()
	assert.Equal(t, 0, s.Len())
}

func TestOpenRejectsCorruptSnapshot(t *testing.T) {
	path := filepath.Join(t.TempDir(), "seen.json")
	require.NoError(t, os.WriteFile(path, []byte("not json"), 0o644))

	_, err := Open(path)
	assert.Error(t, err)
}

func TestSecondProcessIsLockedOut(t *testing.T) {
	path := filepath.Join(t.TempDir(), "seen.json")
	s, err := Open(path)
	require.NoError(t, err)
	defer s.Close()

	_, err = Open(path)
	assert.Error(t, err)
}
