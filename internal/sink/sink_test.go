package sink

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDirSinkWritesUnderCarvedWithExtension(t *testing.T) {
	root := t.TempDir()
	s, err := NewDirSink(root)
	require.NoError(t, err)

	path, err := s.Write("jpeg", "jpeg_000000000000", []byte("hello"))
	require.NoError(t, err)
	require.Equal(t, filepath.Join(root, "carved", "jpeg_000000000000.jpg"), path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Equal(t, "hello", string(data))
}

func TestDirSinkUnknownFormatGetsBinExtension(t *testing.T) {
	root := t.TempDir()
	s, err := NewDirSink(root)
	require.NoError(t, err)

	path, err := s.Write("mystery", "mystery_0", []byte{0x01})
	require.NoError(t, err)
	require.True(t, filepath.Ext(path) == ".bin")
}

func TestNewDirSinkCreatesCarvedDir(t *testing.T) {
	root := filepath.Join(t.TempDir(), "nested", "out")
	_, err := NewDirSink(root)
	require.NoError(t, err)

	info, err := os.Stat(filepath.Join(root, "carved"))
	require.NoError(t, err)
	require.True(t, info.IsDir())
}
