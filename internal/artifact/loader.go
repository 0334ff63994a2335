package artifact

import (
	"context"
	"errors"
	"io"
	"io/fs"
	"os"
	"strings"
	"sync"

	"golang.org/x/sync/singleflight"
)

// Source opens the raw bytes behind an artifact reference.
type Source interface {
	Open(ctx context.Context, ref string) (io.ReadCloser, error)
}

// ErrNotFound is returned by sources when the reference does not exist.
var ErrNotFound = errors.New("artifact not found")

// FileSource reads artifacts from the local filesystem.
type FileSource struct{}

func (FileSource) Open(_ context.Context, ref string) (io.ReadCloser, error) {
	f, err := os.Open(ref)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, errors.Join(ErrNotFound, err)
	}
	return f, err
}

// Loader resolves references to Handles and keeps every Handle it built for
// the life of the process. Concurrent first loads of one reference share a
// single decode.
type Loader struct {
	files   Source
	objects Source

	group singleflight.Group
	mu    sync.RWMutex
	cache map[string]*Handle
}

type LoaderOption func(*Loader)

// WithObjectSource serves s3://bucket/key references from src.
func WithObjectSource(src Source) LoaderOption {
	return func(l *Loader) { l.objects = src }
}

// WithFileSource replaces the local filesystem source.
func WithFileSource(src Source) LoaderOption {
	return func(l *Loader) { l.files = src }
}

func NewLoader(opts ...LoaderOption) *Loader {
	l := &Loader{files: FileSource{}, cache: make(map[string]*Handle)}
	for _, o := range opts {
		o(l)
	}
	return l
}

// Load returns the cached Handle for ref or reads and decodes it.
// Every failure is a *LoadError.
func (l *Loader) Load(ctx context.Context, ref string) (*Handle, error) {
	l.mu.RLock()
	h, ok := l.cache[ref]
	l.mu.RUnlock()
	if ok {
		return h, nil
	}

	v, err, _ := l.group.Do(ref, func() (any, error) {
		l.mu.RLock()
		cached, ok := l.cache[ref]
		l.mu.RUnlock()
		if ok {
			return cached, nil
		}
		// the decode is shared by every waiter, so one caller's cancellation must not fail the rest
		h, err := l.read(context.WithoutCancel(ctx), ref)
		if err != nil {
			return nil, err
		}
		h.meta.Source = ref
		l.mu.Lock()
		l.cache[ref] = h
		l.mu.Unlock()
		return h, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*Handle), nil
}

func (l *Loader) read(ctx context.Context, ref string) (*Handle, error) {
	src := l.files
	if IsObjectRef(ref) {
		if l.objects == nil {
			return nil, &LoadError{Path: ref, Reason: ReasonMissing, Err: errors.New("no object storage configured")}
		}
		src = l.objects
	}
	rc, err := src.Open(ctx, ref)
	if err != nil {
		reason := ReasonUnavailable
		if errors.Is(err, ErrNotFound) {
			reason = ReasonMissing
		}
		return nil, &LoadError{Path: ref, Reason: reason, Err: err}
	}
	defer rc.Close()

	r := &trackingReader{r: rc}
	h, err := Decode(r)
	if err != nil {
		if r.err != nil {
			return nil, &LoadError{Path: ref, Reason: ReasonUnavailable, Err: r.err}
		}
		var le *LoadError
		if errors.As(err, &le) {
			le.Path = ref
			return nil, le
		}
		return nil, &LoadError{Path: ref, Reason: ReasonCorrupt, Err: err}
	}
	return h, nil
}

// trackingReader remembers the first read failure other than EOF, so a
// broken connection is not reported as a corrupt artifact.
type trackingReader struct {
	r   io.Reader
	err error
}

func (t *trackingReader) Read(p []byte) (int, error) {
	n, err := t.r.Read(p)
	if err != nil && !errors.Is(err, io.EOF) && t.err == nil {
		t.err = err
	}
	return n, err
}

// Forget drops ref from the cache so the next Load reads it again.
func (l *Loader) Forget(ref string) {
	l.mu.Lock()
	delete(l.cache, ref)
	l.mu.Unlock()
}

// IsObjectRef reports whether ref names an object in bucket storage.
func IsObjectRef(ref string) bool { return strings.HasPrefix(ref, "s3://") }

// ParseObjectRef splits s3://bucket/key.
func ParseObjectRef(ref string) (bucket, key string, err error) {
	rest, ok := strings.CutPrefix(ref, "s3://")
	if !ok {
		return "", "", errors.New("artifact: not an s3:// reference")
	}
	bucket, key, ok = strings.Cut(rest, "/")
	if !ok || bucket == "" || key == "" {
		return "", "", errors.New("artifact: reference must be s3://bucket/key")
	}
	return bucket, key, nil
}

var defaultLoader = NewLoader()

// Load reads a local artifact through the process-wide loader.
func Load(ctx context.Context, path string) (*Handle, error) {
	return defaultLoader.Load(ctx, path)
}
