package cmd

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseBytes(t *testing.T) {
	t.Run("bracketed decimal list", func(t *testing.T) {
		data, err := parseBytes("[255, 255, 151, 0]")
		require.NoError(t, err)
		assert.Equal(t, []byte{255, 255, 151, 0}, data)
	})

	t.Run("space separated", func(t *testing.T) {
		data, err := parseBytes("255 151 0")
		require.NoError(t, err)
		assert.Equal(t, []byte{255, 151, 0}, data)
	})

	t.Run("hex values", func(t *testing.T) {
		data, err := parseBytes("[0xFF, 0x97, 0x00]")
		require.NoError(t, err)
		assert.Equal(t, []byte{0xFF, 0x97, 0x00}, data)
	})

	t.Run("mixed bases", func(t *testing.T) {
		data, err := parseBytes("0xFF 151 0")
		require.NoError(t, err)
		assert.Equal(t, []byte{255, 151, 0}, data)
	})

	t.Run("out of range", func(t *testing.T) {
		_, err := parseBytes("[256]")
		assert.Error(t, err)
	})

	t.Run("garbage token", func(t *testing.T) {
		_, err := parseBytes("[12, x, 3]")
		assert.Error(t, err)
	})

	t.Run("empty", func(t *testing.T) {
		_, err := parseBytes("[]")
		assert.Error(t, err)
	})
}

func TestGatherFormats(t *testing.T) {
	t.Run("default is the standard set", func(t *testing.T) {
		formats, err := gatherFormats(decodeCmd)
		require.NoError(t, err)
		require.Len(t, formats, 4)
		assert.Equal(t, "track2", formats[0].Name())
	})

	t.Run("named formats in order", func(t *testing.T) {
		require.NoError(t, decodeCmd.Flags().Set("format", "track1"))
		require.NoError(t, decodeCmd.Flags().Set("format", "track2-inverted"))
		defer resetDecodeFlags(t)

		formats, err := gatherFormats(decodeCmd)
		require.NoError(t, err)
		require.Len(t, formats, 2)
		assert.Equal(t, "track1", formats[0].Name())
		assert.Equal(t, "track2-inverted", formats[1].Name())
	})

	t.Run("unknown format name", func(t *testing.T) {
		require.NoError(t, decodeCmd.Flags().Set("format", "track9"))
		defer resetDecodeFlags(t)

		_, err := gatherFormats(decodeCmd)
		assert.Error(t, err)
	})

	t.Run("spec file comes first", func(t *testing.T) {
		specPath := filepath.Join(t.TempDir(), "badge.yaml")
		require.NoError(t, os.WriteFile(specPath, []byte(`
name: acme-badge
bits_per_char: 5
parity: odd
charset: "0123456789:;<=>?"
start_sentinel: {char: ";"}
end_sentinel: {char: "?"}
`), 0o644))
		require.NoError(t, decodeCmd.Flags().Set("spec", specPath))
		require.NoError(t, decodeCmd.Flags().Set("format", "track2"))
		defer resetDecodeFlags(t)

		formats, err := gatherFormats(decodeCmd)
		require.NoError(t, err)
		require.Len(t, formats, 2)
		assert.Equal(t, "acme-badge", formats[0].Name())
		assert.Equal(t, "track2", formats[1].Name())
	})

	t.Run("all formats appended", func(t *testing.T) {
		require.NoError(t, decodeCmd.Flags().Set("all-formats", "true"))
		defer resetDecodeFlags(t)

		formats, err := gatherFormats(decodeCmd)
		require.NoError(t, err)
		assert.Len(t, formats, 10)
	})
}

func resetDecodeFlags(t *testing.T) {
	t.Helper()
	require.NoError(t, decodeCmd.Flags().Set("spec", ""))
	require.NoError(t, decodeCmd.Flags().Set("all-formats", "false"))
	flag := decodeCmd.Flags().Lookup("format")
	require.NotNil(t, flag)
	require.NoError(t, flag.Value.(interface{ Replace([]string) error }).Replace(nil))
}
