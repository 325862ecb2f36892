// Package codec holds the binary encodings propdesk relies on for
// identity and local caching: deterministic CBOR, blake3 fingerprints
// and zstd compression.
package codec

import (
	"encoding/hex"
	"fmt"
	"reflect"

	"github.com/fxamacker/cbor/v2"
	"github.com/klauspost/compress/zstd"
	"github.com/zeebo/blake3"
)

// encMode uses Core Deterministic Encoding (RFC 8949 §4.2) so the same
// logical value always produces identical bytes. Fingerprints depend on it.
var encMode cbor.EncMode

// decMode decodes untyped maps as map[string]any so draft payloads stay
// compatible with encoding/json.
var decMode cbor.DecMode

var (
	zstdEncoder *zstd.Encoder
	zstdDecoder *zstd.Decoder
)

func init() {
	var err error
	encMode, err = cbor.CoreDetEncOptions().EncMode()
	if err != nil {
		panic("codec: CBOR encoder initialization failed: " + err.Error())
	}
	decMode, err = cbor.DecOptions{
		DefaultMapType: reflect.TypeOf(map[string]any(nil)),
	}.DecMode()
	if err != nil {
		panic("codec: CBOR decoder initialization failed: " + err.Error())
	}

	zstdEncoder, err = zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedDefault))
	if err != nil {
		panic("codec: zstd encoder initialization failed: " + err.Error())
	}
	zstdDecoder, err = zstd.NewReader(nil)
	if err != nil {
		panic("codec: zstd decoder initialization failed: " + err.Error())
	}
}

// Marshal encodes v to CBOR using Core Deterministic Encoding.
func Marshal(v any) ([]byte, error) {
	return encMode.Marshal(v)
}

// Unmarshal decodes CBOR data into v.
func Unmarshal(data []byte, v any) error {
	return decMode.Unmarshal(data, v)
}

// Fingerprint returns the hex blake3-256 digest of the deterministic
// CBOR encoding of v.
func Fingerprint(v any) (string, error) {
	data, err := Marshal(v)
	if err != nil {
		return "", fmt.Errorf("codec: fingerprint: %w", err)
	}
	return Hash(data), nil
}

// Hash returns the hex blake3-256 digest of data.
func Hash(data []byte) string {
	sum := blake3.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// Compress zstd-compresses data. The encoder is shared and safe for
// concurrent use.
func Compress(data []byte) []byte {
	return zstdEncoder.EncodeAll(data, make([]byte, 0, len(data)/2))
}

// Decompress reverses Compress.
func Decompress(data []byte) ([]byte, error) {
	out, err := zstdDecoder.DecodeAll(data, nil)
	if err != nil {
		return nil, fmt.Errorf("codec: zstd decompress: %w", err)
	}
	return out, nil
}

// Pack encodes v as CBOR and compresses it. Used for cached blobs.
func Pack(v any) ([]byte, error) {
	data, err := Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("codec: pack: %w", err)
	}
	return Compress(data), nil
}

// Unpack reverses Pack.
func Unpack(blob []byte, v any) error {
	data, err := Decompress(blob)
	if err != nil {
		return err
	}
	if err := Unmarshal(data, v); err != nil {
		return fmt.Errorf("codec: unpack: %w", err)
	}
	return nil
}
