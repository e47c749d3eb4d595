// ABOUTME: Audio library backed by a mounted directory of raw PCM resources
// ABOUTME: Resources are headerless unsigned 8-bit mono streams at the carrier rate
package playback

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
)

// ErrNotFound is returned when a named audio resource does not exist in the
// library or cannot be opened.
var ErrNotFound = errors.New("audio resource not found")

// Library is the mounted store of pre-converted audio resources. The core
// performs no format validation; the conversion pipeline guarantees the
// format.
type Library struct {
	fsys fs.FS
}

// Open mounts a directory as the audio library. Failure here disables file
// playback only; the engine keeps running non-file sources.
func Open(dir string) (*Library, error) {
	info, err := os.Stat(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to mount audio library %s: %w", dir, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("failed to mount audio library %s: not a directory", dir)
	}

	return &Library{fsys: os.DirFS(dir)}, nil
}

// OpenFS wraps an existing filesystem as a library. Used by tests with an
// in-memory fs.
func OpenFS(fsys fs.FS) *Library {
	return &Library{fsys: fsys}
}

// Resource opens a named resource and reports its byte length.
func (l *Library) Resource(name string) (io.ReadCloser, int64, error) {
	info, err := fs.Stat(l.fsys, name)
	if err != nil {
		return nil, 0, fmt.Errorf("%w: %s", ErrNotFound, name)
	}

	f, err := l.fsys.Open(name)
	if err != nil {
		return nil, 0, fmt.Errorf("%w: %s", ErrNotFound, name)
	}

	return f, info.Size(), nil
}
