package cellscribe

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"cloud.google.com/go/storage"
	"github.com/carbocation/pfx"
)

const gsScheme = "gs://"

// ReadSeekCloser is what every input is opened as. Compression sniffing needs
// to rewind, and .xls workbooks are parsed through a seeker.
type ReadSeekCloser interface {
	io.Reader
	io.Seeker
	io.Closer
}

// IsGoogleStoragePath reports whether path points into a Google Storage
// bucket.
func IsGoogleStoragePath(path string) bool {
	return strings.HasPrefix(path, gsScheme)
}

// splitGoogleStoragePath turns gs://bucket/some/object into its bucket and
// object names.
func splitGoogleStoragePath(path string) (bucket, object string, err error) {
	parts := strings.SplitN(strings.TrimPrefix(path, gsScheme), "/", 2)
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return "", "", fmt.Errorf("%s: expected gs://bucket/object", path)
	}

	return parts[0], parts[1], nil
}

// ExpandHome replaces a leading ~ with the current user's home directory.
func ExpandHome(path string) (string, error) {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path, nil
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "", pfx.Err(err)
	}

	return filepath.Join(home, strings.TrimPrefix(path, "~")), nil
}

// GSReadSeekCloser reads a Google Storage object through range requests.
// Seeking drops the open range reader; the next Read starts a new one at the
// requested offset.
type GSReadSeekCloser struct {
	*storage.ObjectHandle
	Context context.Context

	r      *storage.Reader
	offset int64 // where the current range reader started
	pos    int64 // bytes read since offset
}

func (s *GSReadSeekCloser) Read(buf []byte) (int, error) {
	if s.r == nil {
		r, err := s.NewRangeReader(s.Context, s.offset, -1)
		if err != nil {
			return 0, err
		}
		s.r = r
	}

	n, err := s.r.Read(buf)
	s.pos += int64(n)

	return n, err
}

// Seek supports io.SeekStart and io.SeekCurrent.
func (s *GSReadSeekCloser) Seek(offset int64, whence int) (int64, error) {
	var target int64

	switch whence {
	case io.SeekStart:
		target = offset
	case io.SeekCurrent:
		target = s.offset + s.pos + offset
	default:
		return 0, fmt.Errorf("seek whence %d is not supported for Google Storage objects", whence)
	}

	if target < 0 {
		return 0, fmt.Errorf("negative seek offset %d", target)
	}

	if err := s.Close(); err != nil {
		return 0, err
	}

	s.offset = target
	s.pos = 0

	return s.offset, nil
}

// Close releases the open range reader, if any. The object can still be read
// afterwards.
func (s *GSReadSeekCloser) Close() error {
	if s.r == nil {
		return nil
	}

	err := s.r.Close()
	s.r = nil

	return err
}

// OpenSeeker opens a local file (after ~ expansion) or, for gs:// paths, a
// Google Storage object through client, which must then be non-nil. The size
// in bytes is returned alongside.
func OpenSeeker(ctx context.Context, path string, client *storage.Client) (ReadSeekCloser, int64, error) {
	if !IsGoogleStoragePath(path) {
		return openLocal(path)
	}

	if client == nil {
		return nil, 0, fmt.Errorf("%s: a Google Storage client is required to read gs:// paths", path)
	}

	bucket, object, err := splitGoogleStoragePath(path)
	if err != nil {
		return nil, 0, err
	}

	handle := &GSReadSeekCloser{
		ObjectHandle: client.Bucket(bucket).Object(object),
		Context:      ctx,
	}

	// Fail early, with the path in the message, if the object is missing.
	attrs, err := handle.Attrs(ctx)
	if err != nil {
		return nil, 0, pfx.Err(fmt.Errorf("%s: %w", path, err))
	}

	return handle, attrs.Size, nil
}

func openLocal(path string) (ReadSeekCloser, int64, error) {
	localPath, err := ExpandHome(path)
	if err != nil {
		return nil, 0, err
	}

	f, err := os.Open(localPath)
	if err != nil {
		return nil, 0, err
	}

	fstat, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, 0, err
	}
	if fstat.IsDir() {
		f.Close()
		return nil, 0, fmt.Errorf("%s is a directory", path)
	}

	return f, fstat.Size(), nil
}
