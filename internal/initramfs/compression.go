// SPDX-FileCopyrightText: 2026 The quark authors
//
// SPDX-License-Identifier: GPL-3.0-or-later

package initramfs

import (
	"fmt"
	"io"
	"slices"
	"strings"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"
	"github.com/spf13/pflag"
	"github.com/ulikunitz/xz"
	"github.com/ulikunitz/xz/lzma"
)

// Compression is an initramfs compression format supported by the Linux
// kernel. The kernel must be built with the matching RD_* option.
type Compression string

// Supported compression formats.
const (
	CompressionLZMA Compression = "lzma"
	CompressionXZ   Compression = "xz"
	CompressionZstd Compression = "zstd"
	CompressionGzip Compression = "gzip"
	CompressionLZ4  Compression = "lz4"
	CompressionNone Compression = "none"
)

// DefaultCompression is the compression used if none is configured. It
// matches the output of "xz -9 --format=lzma".
const DefaultCompression = CompressionLZMA

// Compressions lists all supported compression formats.
var Compressions = []Compression{
	CompressionLZMA,
	CompressionXZ,
	CompressionZstd,
	CompressionGzip,
	CompressionLZ4,
	CompressionNone,
}

var _ pflag.Value = (*Compression)(nil)

// ParseCompression returns the [Compression] with the given name.
func ParseCompression(name string) (Compression, error) {
	compression := Compression(strings.ToLower(name))
	if !slices.Contains(Compressions, compression) {
		return "", fmt.Errorf("%w: %s", ErrUnknownCompression, name)
	}

	return compression, nil
}

// String implements [pflag.Value].
func (c *Compression) String() string {
	if *c == "" {
		return string(DefaultCompression)
	}

	return string(*c)
}

// Set implements [pflag.Value].
func (c *Compression) Set(value string) error {
	compression, err := ParseCompression(value)
	if err != nil {
		return err
	}

	*c = compression

	return nil
}

// Type implements [pflag.Value].
func (*Compression) Type() string {
	return "compression"
}

// UnmarshalText implements [encoding.TextUnmarshaler].
func (c *Compression) UnmarshalText(text []byte) error {
	return c.Set(string(text))
}

// NewWriter returns a writer that compresses everything written to it and
// writes the result to w. The returned writer must be closed to flush all
// data. Closing it does not close w.
func (c Compression) NewWriter(w io.Writer) (io.WriteCloser, error) {
	switch c {
	case CompressionLZMA, "":
		writer, err := lzma.NewWriter(w)
		if err != nil {
			return nil, fmt.Errorf("lzma: %w", err)
		}

		return writer, nil
	case CompressionXZ:
		// The kernel's xz decoder only supports CRC32 checks.
		writer, err := xz.WriterConfig{CheckSum: xz.CRC32}.NewWriter(w)
		if err != nil {
			return nil, fmt.Errorf("xz: %w", err)
		}

		return writer, nil
	case CompressionZstd:
		writer, err := zstd.NewWriter(w, zstd.WithEncoderLevel(zstd.SpeedBestCompression))
		if err != nil {
			return nil, fmt.Errorf("zstd: %w", err)
		}

		return writer, nil
	case CompressionGzip:
		writer, err := gzip.NewWriterLevel(w, gzip.BestCompression)
		if err != nil {
			return nil, fmt.Errorf("gzip: %w", err)
		}

		return writer, nil
	case CompressionLZ4:
		// The kernel only decodes the legacy lz4 frame format.
		writer := lz4.NewWriter(w)

		err := writer.Apply(
			lz4.LegacyOption(true),
			lz4.CompressionLevelOption(lz4.Level9),
		)
		if err != nil {
			return nil, fmt.Errorf("lz4: %w", err)
		}

		return writer, nil
	case CompressionNone:
		return nopWriteCloser{w}, nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownCompression, c)
	}
}

// NewReader returns a reader that decompresses the data read from r.
func (c Compression) NewReader(r io.Reader) (io.Reader, error) {
	var (
		reader io.Reader
		err    error
	)

	switch c {
	case CompressionLZMA, "":
		reader, err = lzma.NewReader(r)
	case CompressionXZ:
		reader, err = xz.NewReader(r)
	case CompressionZstd:
		var decoder *zstd.Decoder

		decoder, err = zstd.NewReader(r)
		if err == nil {
			reader = decoder.IOReadCloser()
		}
	case CompressionGzip:
		reader, err = gzip.NewReader(r)
	case CompressionLZ4:
		reader = lz4.NewReader(r)
	case CompressionNone:
		reader = r
	default:
		err = ErrUnknownCompression
	}

	if err != nil {
		return nil, fmt.Errorf("%s: %w", c, err)
	}

	return reader, nil
}

type nopWriteCloser struct {
	io.Writer
}

func (nopWriteCloser) Close() error {
	return nil
}
