package codec

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFingerprintIsDeterministicAcrossMapOrder(t *testing.T) {
	a := map[string]any{"search": "villa", "minPrice": 100000, "sortBy": "price"}
	b := map[string]any{"sortBy": "price", "search": "villa", "minPrice": 100000}

	fa, err := Fingerprint(a)
	require.NoError(t, err)
	fb, err := Fingerprint(b)
	require.NoError(t, err)

	assert.Equal(t, fa, fb)
	assert.Len(t, fa, 64)
}

func TestFingerprintChangesWithContent(t *testing.T) {
	fa, err := Fingerprint(map[string]any{"search": "villa"})
	require.NoError(t, err)
	fb, err := Fingerprint(map[string]any{"search": "villas"})
	require.NoError(t, err)

	assert.NotEqual(t, fa, fb)
}

func TestPackUnpackPreservesUntypedMaps(t *testing.T) {
	in := map[string]any{
		"propertyTitle": "Marina View",
		"bedrooms":      uint64(3),
		"amenities":     []any{"pool", "gym"},
		"owner":         map[string]any{"name": "R. Haddad"},
	}

	blob, err := Pack(in)
	require.NoError(t, err)

	var out map[string]any
	require.NoError(t, Unpack(blob, &out))
	assert.Equal(t, in, out)
}

func TestDecompressRejectsGarbage(t *testing.T) {
	_, err := Decompress([]byte("not zstd"))
	assert.Error(t, err)
}

func TestHashKnownLength(t *testing.T) {
	assert.Len(t, Hash(nil), 64)
	assert.NotEqual(t, Hash([]byte("a")), Hash([]byte("b")))
}
