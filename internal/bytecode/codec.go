package bytecode

import (
	"bytes"
	"errors"
	"fmt"
	"sync"

	"github.com/klauspost/compress/zstd"
	"github.com/vmihailenco/msgpack/v5"
)

// Current artifact schema version - increment when Class layout changes.
const schemaVersion byte = 1

var magic = [3]byte{'M', 'B', 'C'}

const (
	flagZstd byte = 1 << iota
)

// ErrBadArtifact is returned by Decode for bytes that are not a class artifact.
var ErrBadArtifact = errors.New("bytecode: malformed artifact")

// EncodeOptions control the artifact container.
type EncodeOptions struct {
	Compress bool // zstd-compress the msgpack payload
}

var (
	zstdEncoder = sync.OnceValues(func() (*zstd.Encoder, error) {
		return zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedFastest))
	})
	zstdDecoder = sync.OnceValues(func() (*zstd.Decoder, error) {
		return zstd.NewReader(nil, zstd.WithDecoderConcurrency(0))
	})
)

// Encode serializes c into an artifact: 3 magic bytes, schema version,
// flags, then the msgpack payload.
func Encode(c *Class, opts EncodeOptions) ([]byte, error) {
	if c == nil {
		return nil, errors.New("bytecode: nil class")
	}
	var buf bytes.Buffer
	buf.Write(magic[:])
	buf.WriteByte(schemaVersion)
	var flags byte
	if opts.Compress {
		flags |= flagZstd
	}
	buf.WriteByte(flags)

	var payload bytes.Buffer
	enc := msgpack.NewEncoder(&payload)
	if err := enc.Encode(c); err != nil {
		return nil, fmt.Errorf("encode class %s: %w", c.Name, err)
	}
	if !opts.Compress {
		buf.Write(payload.Bytes())
		return buf.Bytes(), nil
	}
	zenc, err := zstdEncoder()
	if err != nil {
		return nil, fmt.Errorf("zstd encoder: %w", err)
	}
	return zenc.EncodeAll(payload.Bytes(), buf.Bytes()), nil
}

// Decode parses an artifact produced by Encode.
func Decode(data []byte) (*Class, error) {
	if len(data) < len(magic)+2 || !bytes.Equal(data[:len(magic)], magic[:]) {
		return nil, fmt.Errorf("%w: bad header", ErrBadArtifact)
	}
	if v := data[len(magic)]; v != schemaVersion {
		return nil, fmt.Errorf("%w: schema version %d, want %d", ErrBadArtifact, v, schemaVersion)
	}
	flags := data[len(magic)+1]
	payload := data[len(magic)+2:]
	if flags&^flagZstd != 0 {
		return nil, fmt.Errorf("%w: unknown flags %#x", ErrBadArtifact, flags)
	}
	if flags&flagZstd != 0 {
		zdec, err := zstdDecoder()
		if err != nil {
			return nil, fmt.Errorf("zstd decoder: %w", err)
		}
		payload, err = zdec.DecodeAll(payload, nil)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrBadArtifact, err)
		}
	}

	var c Class
	dec := msgpack.NewDecoder(bytes.NewReader(payload))
	if err := dec.Decode(&c); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrBadArtifact, err)
	}
	if c.Name == "" {
		return nil, fmt.Errorf("%w: class without name", ErrBadArtifact)
	}
	return &c, nil
}
