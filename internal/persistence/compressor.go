package persistence

import (
	"fmt"

	"github.com/klauspost/compress/zstd"

	"github.com/rabmarut/ChildChainGaugeInjector/internal/persistence/interfaces"
	"github.com/rabmarut/ChildChainGaugeInjector/internal/structures"
)

// maxSnapshotSize caps the decoded snapshot; a schedule never approaches it.
const maxSnapshotSize = 64 << 20

type ZstdCompression struct {
	encoder *zstd.Encoder
	decoder *zstd.Decoder
}

func (z *ZstdCompression) Compress(val []byte) ([]byte, error) {
	return z.encoder.EncodeAll(val, make([]byte, 0, len(val)/2)), nil
}

func (z *ZstdCompression) Decompress(val []byte) ([]byte, error) {
	if len(val) == 0 {
		return nil, fmt.Errorf("empty snapshot")
	}
	return z.decoder.DecodeAll(val, nil)
}

func (z *ZstdCompression) Close() {
	_ = z.encoder.Close()
	z.decoder.Close()
}

func NewZstdCompressor(conf *structures.Config) (interfaces.CompressorInterface, error) {
	level := zstd.SpeedDefault
	if name := conf.Persistence.Compression; name != "" {
		var ok bool
		if ok, level = zstd.EncoderLevelFromString(name); !ok {
			return nil, fmt.Errorf("unknown compression level %q", name)
		}
	}
	encoder, err := zstd.NewWriter(nil, zstd.WithEncoderLevel(level))
	if err != nil {
		return nil, fmt.Errorf("failed to create zstd encoder: %w", err)
	}
	decoder, err := zstd.NewReader(nil, zstd.WithDecoderConcurrency(1), zstd.WithDecoderMaxMemory(maxSnapshotSize))
	if err != nil {
		return nil, fmt.Errorf("failed to create zstd decoder: %w", err)
	}
	return &ZstdCompression{encoder: encoder, decoder: decoder}, nil
}
