package byteview

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestBufferViewFindRFind(t *testing.T) {
	v := NewBufferView([]byte("abcXYZdefXYZghi"))

	off, ok := v.Find([]byte("XYZ"), 0, v.Length())
	require.True(t, ok)
	require.EqualValues(t, 3, off)

	off, ok = v.RFind([]byte("XYZ"), 0, v.Length())
	require.True(t, ok)
	require.EqualValues(t, 9, off)

	_, ok = v.Find([]byte("nope"), 0, v.Length())
	require.False(t, ok)
}

func TestBufferViewBoundedSearch(t *testing.T) {
	v := NewBufferView([]byte("XYZ...XYZ"))

	// Searching a window that ends before the second match should not find it.
	_, ok := v.Find([]byte("XYZ"), 1, 6)
	require.False(t, ok)

	off, ok := v.Find([]byte("XYZ"), 0, 3)
	require.True(t, ok)
	require.EqualValues(t, 0, off)
}

func TestBufferViewSliceAliasesBackingArray(t *testing.T) {
	b := []byte("0123456789")
	v := NewBufferView(b)
	s := v.Slice(2, 5)
	require.Equal(t, []byte("234"), s)

	s[0] = 'Z'
	require.Equal(t, byte('Z'), b[2])
}

func TestMappedViewOpenAndSearch(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "image.bin")
	data := append([]byte{0xFF, 0xD8, 0xFF}, make([]byte, 100)...)
	data = append(data, 0xFF, 0xD9)
	require.NoError(t, os.WriteFile(path, data, 0o644))

	v, err := OpenMapped(path)
	require.NoError(t, err)
	defer v.Close()

	require.EqualValues(t, len(data), v.Length())

	off, ok := v.Find([]byte{0xFF, 0xD9}, 3, v.Length())
	require.True(t, ok)
	require.EqualValues(t, len(data)-2, off)
}
