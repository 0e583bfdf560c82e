// Package fetch streams remote assets to disk, one at a time.
package fetch

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/vmunix/fetcharr/pkg/asset"
)

// ProgressFunc receives incremental transfer progress. total is -1 when
// the server does not advertise a content length. Progress is for
// observability only and has no effect on correctness.
type ProgressFunc func(received, total int64)

// Outcome is the recorded result of one fetch attempt. Immutable once
// produced; owned by the report aggregator afterward.
type Outcome struct {
	Ref     asset.Ref
	Path    string // destination path, empty if never written
	Success bool
	Bytes   int64 // bytes written, 0 on failure
	Size    int64 // on-disk size after completion; may differ from the advertised length
	Elapsed time.Duration
	Error   string // empty on success
}

// Fetcher downloads single assets over HTTP.
type Fetcher struct {
	client    *http.Client
	userAgent string
	progress  ProgressFunc
	logger    *slog.Logger
}

// Option configures a Fetcher.
type Option func(*Fetcher)

// WithClient overrides the HTTP client.
func WithClient(c *http.Client) Option {
	return func(f *Fetcher) { f.client = c }
}

// WithUserAgent sets the User-Agent header on requests.
func WithUserAgent(ua string) Option {
	return func(f *Fetcher) { f.userAgent = ua }
}

// WithProgress installs a progress callback.
func WithProgress(p ProgressFunc) Option {
	return func(f *Fetcher) { f.progress = p }
}

// WithLogger overrides the default logger.
func WithLogger(l *slog.Logger) Option {
	return func(f *Fetcher) { f.logger = l }
}

// New creates a Fetcher with a 60s default timeout.
func New(opts ...Option) *Fetcher {
	f := &Fetcher{
		client: &http.Client{Timeout: 60 * time.Second},
		logger: slog.Default(),
	}
	for _, o := range opts {
		o(f)
	}
	return f
}

// Fetch downloads one asset into destDir/ref.Filename, streaming the
// body so memory use is bounded by one copy buffer regardless of file
// size. Any network, HTTP-status, or write error aborts the attempt and
// is captured on the returned Outcome; errors never propagate past this
// boundary. A partially written file is left in place on failure (each
// file is independent and the next run's directory clean removes it),
// which also means a half-written file carries its final name until
// then.
func (f *Fetcher) Fetch(ctx context.Context, ref asset.Ref, destDir string) Outcome {
	start := time.Now()
	out := Outcome{Ref: ref}

	fail := func(err error) Outcome {
		out.Success = false
		out.Bytes = 0
		out.Elapsed = time.Since(start)
		out.Error = err.Error()
		f.logger.Warn("fetch failed", "url", ref.URL, "error", err)
		return out
	}

	if ref.Category == asset.CategoryUnknown || destDir == "" {
		return fail(fmt.Errorf("%w: %s", ErrUnknownType, ref.URL))
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, ref.URL, nil)
	if err != nil {
		return fail(fmt.Errorf("build request: %w", err))
	}
	if f.userAgent != "" {
		req.Header.Set("User-Agent", f.userAgent)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return fail(fmt.Errorf("request: %w", err))
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fail(fmt.Errorf("%w: %s", ErrBadStatus, resp.Status))
	}

	dest := filepath.Join(destDir, ref.Filename)
	out.Path = dest
	file, err := os.Create(dest)
	if err != nil {
		return fail(fmt.Errorf("create %s: %w", dest, err))
	}

	total := resp.ContentLength // -1 when unknown
	written, err := io.Copy(file, &progressReader{
		r:        resp.Body,
		total:    total,
		progress: f.progress,
	})
	if cerr := file.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		// Partial file stays behind, see above.
		return fail(fmt.Errorf("write %s: %w", dest, err))
	}

	out.Success = true
	out.Bytes = written
	out.Size = written
	if info, serr := os.Stat(dest); serr == nil {
		out.Size = info.Size()
	}
	out.Elapsed = time.Since(start)

	f.logger.Info("fetch complete",
		"url", ref.URL,
		"file", ref.Filename,
		"category", ref.Category,
		"bytes", out.Bytes,
		"elapsed_ms", out.Elapsed.Milliseconds())
	return out
}

// progressReader counts bytes as they stream through and reports them
// to the progress callback.
type progressReader struct {
	r        io.Reader
	received int64
	total    int64
	progress ProgressFunc
}

func (p *progressReader) Read(b []byte) (int, error) {
	n, err := p.r.Read(b)
	if n > 0 {
		p.received += int64(n)
		if p.progress != nil {
			p.progress(p.received, p.total)
		}
	}
	return n, err
}
