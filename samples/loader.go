// SPDX-License-Identifier: EPL-2.0

package samples

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"path"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/ik5/entrain/audio"
	"github.com/ik5/entrain/formats/aiff"
	"github.com/ik5/entrain/formats/mp3"
	"github.com/ik5/entrain/formats/vorbis"
	"github.com/ik5/entrain/formats/wav"
	"github.com/ik5/entrain/schedule"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"
)

// DefaultConcurrency bounds how many files Attach decodes at once.
const DefaultConcurrency = 4

// DefaultRegistry returns a registry holding every decoder in formats/.
func DefaultRegistry() *audio.Registry {
	reg := audio.NewRegistry()
	wav.Register(reg)
	mp3.Register(reg)
	vorbis.Register(reg)
	aiff.Register(reg)
	return reg
}

// Loader decodes sample clips from a file system and keeps them by path.
// It is safe for concurrent use; simultaneous loads of one path decode it
// once.
type Loader struct {
	fsys     fs.FS
	registry *audio.Registry
	logger   *slog.Logger
	limit    int

	mtx   sync.RWMutex
	cache map[string]*audio.Buffer
	group singleflight.Group
}

type Option func(*Loader)

func WithRegistry(reg *audio.Registry) Option {
	return func(l *Loader) { l.registry = reg }
}

// WithLogger sets where load failures are reported. A nil logger keeps
// slog.Default.
func WithLogger(logger *slog.Logger) Option {
	return func(l *Loader) {
		if logger != nil {
			l.logger = logger
		}
	}
}

func WithConcurrency(n int) Option {
	return func(l *Loader) {
		if n > 0 {
			l.limit = n
		}
	}
}

// New returns a loader that resolves voice files inside fsys.
func New(fsys fs.FS, opts ...Option) *Loader {
	l := &Loader{
		fsys:   fsys,
		logger: slog.Default(),
		limit:  DefaultConcurrency,
		cache:  make(map[string]*audio.Buffer),
	}
	for _, opt := range opts {
		opt(l)
	}
	if l.registry == nil {
		l.registry = DefaultRegistry()
	}
	return l
}

// cleanPath maps a voice_file value to an fs.FS path. Leading slashes are
// dropped; paths escaping the root are rejected.
func cleanPath(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", ErrNoFile
	}

	p := path.Clean(strings.TrimLeft(filepath.ToSlash(name), "/"))
	if !fs.ValidPath(p) || p == "." {
		return "", &fs.PathError{Op: "open", Path: name, Err: fs.ErrInvalid}
	}
	return p, nil
}

// Cached reports whether name has already been decoded.
func (l *Loader) Cached(name string) bool {
	key, err := cleanPath(name)
	if err != nil {
		return false
	}
	_, ok := l.lookup(key)
	return ok
}

func (l *Loader) lookup(key string) (*audio.Buffer, bool) {
	l.mtx.RLock()
	defer l.mtx.RUnlock()

	buf, ok := l.cache[key]
	return buf, ok
}

// Load returns the decoded clip at name. Buffers are shared between
// callers and must not be modified.
func (l *Loader) Load(ctx context.Context, name string) (*audio.Buffer, error) {
	key, err := cleanPath(name)
	if err != nil {
		return nil, err
	}
	if buf, ok := l.lookup(key); ok {
		return buf, nil
	}

	v, err, _ := l.group.Do(key, func() (any, error) {
		if buf, ok := l.lookup(key); ok {
			return buf, nil
		}

		buf, err := l.decode(ctx, key)
		if err != nil {
			return nil, err
		}

		l.mtx.Lock()
		l.cache[key] = buf
		l.mtx.Unlock()
		return buf, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*audio.Buffer), nil
}

func (l *Loader) decode(ctx context.Context, key string) (*audio.Buffer, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	dec, err := l.registry.ForPath(key)
	if err != nil {
		return nil, err
	}

	f, err := l.fsys.Open(key)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	src, err := dec.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decoding %s: %w", key, err)
	}
	defer src.Close()

	buf, err := audio.ReadAll(src)
	if err != nil {
		return nil, fmt.Errorf("decoding %s: %w", key, err)
	}
	return buf, nil
}

// Attach loads the clip of every sample voice in s that names a file and
// stores it on the voice. A voice whose clip fails to load is logged and
// left without a sample, which renders as silence. Attach returns how many
// voices received a clip.
func (l *Loader) Attach(ctx context.Context, s *schedule.Schedule) int {
	var (
		g        errgroup.Group
		attached atomic.Int64
	)
	g.SetLimit(l.limit)

	for i := range s.Voices {
		v := &s.Voices[i]
		if v.Type != schedule.SampleVoice || v.File == "" {
			continue
		}

		g.Go(func() error {
			buf, err := l.Load(ctx, v.File)
			if err != nil {
				l.logger.WarnContext(ctx, "sample voice left silent",
					slog.Int("voice", i),
					slog.String("file", v.File),
					slog.Any("error", err))
				v.Sample = nil
				return nil
			}

			v.Sample = buf
			attached.Add(1)
			l.logger.DebugContext(ctx, "sample attached",
				slog.Int("voice", i),
				slog.String("file", v.File),
				slog.Int("frames", buf.Frames()),
				slog.Int("rate", buf.SampleRate))
			return nil
		})
	}

	_ = g.Wait()
	return int(attached.Load())
}
