package cellscribe

import (
	"compress/bzip2"
	"compress/gzip"
	"compress/zlib"
	"io"

	"github.com/krolaw/zipstream"
	"github.com/xi2/xz"
)

type DataType byte

const (
	DataTypeInvalid DataType = iota
	DataTypeNoCompression
	DataTypeGzip
	DataTypeZip
	DataTypeXZ
	DataTypeZ
	DataTypeBZip2
)

func (dt DataType) String() string {
	switch dt {
	case DataTypeNoCompression:
		return "uncompressed"
	case DataTypeGzip:
		return "gzip"
	case DataTypeZip:
		return "zip"
	case DataTypeXZ:
		return "xz"
	case DataTypeZ:
		return "zlib"
	case DataTypeBZip2:
		return "bzip2"
	}

	return "invalid"
}

var byteCodeSigs = map[DataType][]byte{
	DataTypeGzip:  {0x1f, 0x8b, 0x08},
	DataTypeZip:   {0x50, 0x4b, 0x03, 0x04},
	DataTypeXZ:    {0xfd, 0x37, 0x7a, 0x58, 0x5a, 0x00},
	DataTypeBZip2: {0x42, 0x5a, 0x68},
}

// DetectDataType attempts to detect the data type of a stream by checking
// against a set of known data types. Byte code signatures from
// https://stackoverflow.com/a/19127748/199475
//
// Streams shorter than the longest signature are only compared against the
// bytes that could be read, so a tiny uncompressed file is still reported as
// DataTypeNoCompression rather than an error.
func DetectDataType(r io.Reader) (DataType, error) {
	buff := make([]byte, 6)
	n, err := io.ReadFull(r, buff)
	if err != nil && err != io.ErrUnexpectedEOF && err != io.EOF {
		return DataTypeInvalid, err
	}
	buff = buff[:n]

	// Match known signatures
Outer:
	for dt, sig := range byteCodeSigs {
		if len(sig) > len(buff) {
			continue
		}
		for position := range sig {
			if buff[position] != sig[position] {
				continue Outer
			}
		}
		return dt, nil
	}

	if isZlibHeader(buff) {
		return DataTypeZ, nil
	}

	return DataTypeNoCompression, nil
}

// isZlibHeader reports whether b opens with a deflate zlib header (RFC 1950)
// with a 32K window and no preset dictionary.
func isZlibHeader(b []byte) bool {
	if len(b) < 2 || b[0] != 0x78 || b[1]&0x20 != 0 {
		return false
	}

	return (uint16(b[0])<<8|uint16(b[1]))%31 == 0
}

// MaybeDecompress sniffs the first bytes of rsc and, if they match a known
// compression signature, wraps it in the matching decompressor. Closing the
// returned reader closes rsc.
func MaybeDecompress(rsc ReadSeekCloser) (io.ReadCloser, DataType, error) {
	dt, err := DetectDataType(rsc)
	if err != nil {
		return nil, DataTypeInvalid, err
	}

	// Rewind past the sniffed header.
	if _, err := rsc.Seek(0, io.SeekStart); err != nil {
		return nil, DataTypeInvalid, err
	}

	var r io.Reader
	switch dt {
	case DataTypeGzip:
		gz, err := gzip.NewReader(rsc)
		if err != nil {
			return nil, dt, err
		}
		r = gz
	case DataTypeZip:
		// Only the first archive entry is read.
		zr := zipstream.NewReader(rsc)
		if _, err := zr.Next(); err != nil {
			return nil, dt, err
		}
		r = zr
	case DataTypeBZip2:
		r = bzip2.NewReader(rsc)
	case DataTypeXZ:
		reader, err := xz.NewReader(rsc, 0)
		if err != nil {
			return nil, dt, err
		}
		r = reader
	case DataTypeZ:
		zr, err := zlib.NewReader(rsc)
		if err != nil {
			return nil, dt, err
		}
		r = zr
	default:
		// No data type detected. For now, we assume this is uncompressed.
		return rsc, dt, nil
	}

	return &chainedCloser{Reader: r, underlying: rsc}, dt, nil
}

// chainedCloser closes both the decompressor (when it is a Closer) and the
// stream it reads from.
type chainedCloser struct {
	io.Reader
	underlying io.Closer
}

func (c *chainedCloser) Close() error {
	if rc, ok := c.Reader.(io.Closer); ok {
		if err := rc.Close(); err != nil {
			c.underlying.Close()
			return err
		}
	}

	return c.underlying.Close()
}
