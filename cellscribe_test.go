package cellscribe

import (
	"archive/zip"
	"bytes"
	"compress/gzip"
	"compress/zlib"
	"context"
	"hash/crc32"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

type nopSeekCloser struct {
	*bytes.Reader
}

func (nopSeekCloser) Close() error { return nil }

func TestDetectDataType(t *testing.T) {
	var gz bytes.Buffer
	w := gzip.NewWriter(&gz)
	_, err := w.Write([]byte("Identifier,S1\n"))
	require.NoError(t, err)
	require.NoError(t, w.Close())

	for _, v := range []struct {
		Name     string
		Input    []byte
		Expected DataType
	}{
		{"gzip", gz.Bytes(), DataTypeGzip},
		{"zip", []byte{0x50, 0x4b, 0x03, 0x04, 0x00, 0x00}, DataTypeZip},
		{"xz", []byte{0xfd, 0x37, 0x7a, 0x58, 0x5a, 0x00, 0x01}, DataTypeXZ},
		{"bzip2", []byte("BZh91AY"), DataTypeBZip2},
		{"zlib", []byte{0x78, 0x9c, 0x01}, DataTypeZ},
		{"x then space", []byte("x y\n1 2\n"), DataTypeNoCompression},
		{"plain", []byte("Identifier,S1,S2\nM1,1,2\n"), DataTypeNoCompression},
		{"short", []byte("a"), DataTypeNoCompression},
	} {
		dt, err := DetectDataType(bytes.NewReader(v.Input))
		require.NoError(t, err, v.Name)
		require.Equal(t, v.Expected, dt, v.Name)
	}
}

func TestMaybeDecompressGzip(t *testing.T) {
	payload := []byte("Identifier,S1,S2\nM1,1,2\n")

	var gz bytes.Buffer
	w := gzip.NewWriter(&gz)
	_, err := w.Write(payload)
	require.NoError(t, err)
	require.NoError(t, w.Close())

	rc, dt, err := MaybeDecompress(nopSeekCloser{bytes.NewReader(gz.Bytes())})
	require.NoError(t, err)
	defer rc.Close()
	require.Equal(t, DataTypeGzip, dt)

	out, err := io.ReadAll(rc)
	require.NoError(t, err)
	require.Equal(t, payload, out)
}

const fixturePayload = "Identifier,S1,S2\nM1,1,2\n"

// storedZip builds a single-entry archive whose local header carries the
// sizes, as zip tools do when they compress a regular file.
func storedZip(t *testing.T, name string, payload []byte) []byte {
	t.Helper()

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	w, err := zw.CreateRaw(&zip.FileHeader{
		Name:               name,
		Method:             zip.Store,
		CRC32:              crc32.ChecksumIEEE(payload),
		CompressedSize64:   uint64(len(payload)),
		UncompressedSize64: uint64(len(payload)),
	})
	require.NoError(t, err)
	_, err = w.Write(payload)
	require.NoError(t, err)
	require.NoError(t, zw.Close())

	return buf.Bytes()
}

func zlibbed(t *testing.T, payload []byte) []byte {
	t.Helper()

	var buf bytes.Buffer
	zw := zlib.NewWriter(&buf)
	_, err := zw.Write(payload)
	require.NoError(t, err)
	require.NoError(t, zw.Close())

	return buf.Bytes()
}

func readFixture(t *testing.T, name string) []byte {
	t.Helper()

	b, err := os.ReadFile(filepath.Join("testdata", name))
	require.NoError(t, err)
	return b
}

func TestMaybeDecompressFormats(t *testing.T) {
	payload := []byte(fixturePayload)

	for _, v := range []struct {
		Name     string
		Input    []byte
		Expected DataType
	}{
		{"zip", storedZip(t, "matrix.csv", payload), DataTypeZip},
		{"zlib", zlibbed(t, payload), DataTypeZ},
		{"bzip2", readFixture(t, "matrix.csv.bz2"), DataTypeBZip2},
		{"xz", readFixture(t, "matrix.csv.xz"), DataTypeXZ},
	} {
		rc, dt, err := MaybeDecompress(nopSeekCloser{bytes.NewReader(v.Input)})
		require.NoError(t, err, v.Name)
		require.Equal(t, v.Expected, dt, v.Name)

		out, err := io.ReadAll(rc)
		require.NoError(t, err, v.Name)
		require.Equal(t, fixturePayload, string(out), v.Name)
		require.NoError(t, rc.Close(), v.Name)
	}
}

func TestMaybeDecompressPlainIsRewound(t *testing.T) {
	payload := []byte("Identifier\tS1\nM1\t1\n")

	rc, dt, err := MaybeDecompress(nopSeekCloser{bytes.NewReader(payload)})
	require.NoError(t, err)
	require.Equal(t, DataTypeNoCompression, dt)

	out, err := io.ReadAll(rc)
	require.NoError(t, err)
	require.Equal(t, payload, out)
}

func TestOpenSeekerLocal(t *testing.T) {
	path := filepath.Join(t.TempDir(), "matrix.csv")
	require.NoError(t, os.WriteFile(path, []byte("Identifier,S1\nM1,1\n"), 0o644))

	f, size, err := OpenSeeker(context.Background(), path, nil)
	require.NoError(t, err)
	defer f.Close()
	require.EqualValues(t, 19, size)
}

func TestOpenSeekerGoogleStorageNeedsClient(t *testing.T) {
	require.True(t, IsGoogleStoragePath("gs://bucket/matrix.csv"))
	require.False(t, IsGoogleStoragePath("/tmp/matrix.csv"))

	_, _, err := OpenSeeker(context.Background(), "gs://bucket/matrix.csv", nil)
	require.Error(t, err)
}

func TestExpandHome(t *testing.T) {
	out, err := ExpandHome("/data/matrix.csv")
	require.NoError(t, err)
	require.Equal(t, "/data/matrix.csv", out)

	out, err = ExpandHome("~/matrix.csv")
	require.NoError(t, err)
	require.NotContains(t, out, "~")
	require.Equal(t, "matrix.csv", filepath.Base(out))
}

func TestSplitGoogleStoragePath(t *testing.T) {
	bucket, object, err := splitGoogleStoragePath("gs://my-bucket/runs/2024/matrix.csv.gz")
	require.NoError(t, err)
	require.Equal(t, "my-bucket", bucket)
	require.Equal(t, "runs/2024/matrix.csv.gz", object)

	for _, bad := range []string{"gs://", "gs://bucket", "gs://bucket/", "gs:///object"} {
		_, _, err := splitGoogleStoragePath(bad)
		require.Error(t, err, bad)
	}
}

func TestOpenSeekerRejectsDirectory(t *testing.T) {
	_, _, err := OpenSeeker(context.Background(), t.TempDir(), nil)
	require.Error(t, err)
}

func TestDetermineDelimiterFallback(t *testing.T) {
	require.Equal(t, '\t', DetermineDelimiter(bytes.NewReader([]byte("Identifier\nM1\nM2\n")), '\t'))
	require.Equal(t, ';', DetermineDelimiter(bytes.NewReader(nil), ';'))
}
