package db

import (
	"fmt"
	"sync"

	"github.com/klauspost/compress/zstd"
	"github.com/russross/meddler"
)

const (
	// ZstdMeddlerName is the meddler tag for blobs compressed above a size threshold.
	ZstdMeddlerName = "zstdblob"

	// DefaultCompressThreshold is the blob size in bytes above which values are compressed.
	DefaultCompressThreshold = 256

	codecRaw  byte = 0
	codecZstd byte = 1
)

var (
	zstdOnce    sync.Once
	zstdEncoder *zstd.Encoder
	zstdDecoder *zstd.Decoder
	zstdInitErr error
)

func init() {
	meddler.Default = meddler.SQLite
	meddler.Register(ZstdMeddlerName, ZstdBlobMeddler{Threshold: DefaultCompressThreshold})
}

// RegisterZstdMeddler replaces the registered zstdblob meddler with one using threshold.
func RegisterZstdMeddler(threshold int) {
	meddler.Register(ZstdMeddlerName, ZstdBlobMeddler{Threshold: threshold})
}

func codecs() (*zstd.Encoder, *zstd.Decoder, error) {
	zstdOnce.Do(func() {
		zstdEncoder, zstdInitErr = zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedFastest))
		if zstdInitErr != nil {
			return
		}
		zstdDecoder, zstdInitErr = zstd.NewReader(nil)
	})
	return zstdEncoder, zstdDecoder, zstdInitErr
}

// ZstdBlobMeddler stores a []byte as a BLOB prefixed with a one byte codec
// header. A nil slice is stored as NULL and an empty slice as a bare header,
// so absence and emptiness survive a round trip.
type ZstdBlobMeddler struct {
	Threshold int
}

func (z ZstdBlobMeddler) PreRead(fieldAddr interface{}) (scanTarget interface{}, err error) {
	return new([]byte), nil
}

func (z ZstdBlobMeddler) PostRead(fieldAddr, scanTarget interface{}) error {
	raw, ok := scanTarget.(*[]byte)
	if !ok {
		return fmt.Errorf("expected *[]byte scan target, got %T", scanTarget)
	}
	ptr, ok := fieldAddr.(*[]byte)
	if !ok {
		return fmt.Errorf("expected *[]byte field, got %T", fieldAddr)
	}

	decoded, err := DecodeBlob(*raw)
	if err != nil {
		return err
	}
	*ptr = decoded
	return nil
}

func (z ZstdBlobMeddler) PreWrite(field interface{}) (saveValue interface{}, err error) {
	value, ok := field.([]byte)
	if !ok {
		return nil, fmt.Errorf("expected []byte, got %T", field)
	}
	if value == nil {
		return nil, nil
	}
	return EncodeBlob(value, z.Threshold)
}

// EncodeBlob frames value with a codec header, compressing it when it is
// longer than threshold and compression actually shrinks it.
func EncodeBlob(value []byte, threshold int) ([]byte, error) {
	if threshold > 0 && len(value) > threshold {
		enc, _, err := codecs()
		if err != nil {
			return nil, fmt.Errorf("zstd init: %w", err)
		}
		compressed := enc.EncodeAll(value, []byte{codecZstd})
		if len(compressed) < len(value)+1 {
			return compressed, nil
		}
	}

	out := make([]byte, 0, len(value)+1)
	out = append(out, codecRaw)
	return append(out, value...), nil
}

// DecodeBlob reverses EncodeBlob. A nil input decodes to nil.
func DecodeBlob(raw []byte) ([]byte, error) {
	if raw == nil {
		return nil, nil
	}
	if len(raw) == 0 {
		return nil, fmt.Errorf("blob is missing its codec header")
	}

	switch raw[0] {
	case codecRaw:
		out := make([]byte, len(raw)-1)
		copy(out, raw[1:])
		return out, nil
	case codecZstd:
		_, dec, err := codecs()
		if err != nil {
			return nil, fmt.Errorf("zstd init: %w", err)
		}
		out, err := dec.DecodeAll(raw[1:], make([]byte, 0, len(raw)*2))
		if err != nil {
			return nil, fmt.Errorf("zstd decode: %w", err)
		}
		return out, nil
	default:
		return nil, fmt.Errorf("unknown blob codec %d", raw[0])
	}
}
