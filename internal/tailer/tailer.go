// Package tailer follows a growing append-only log file across rotation,
// truncation, and temporary disappearance.
package tailer

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/benbjohnson/clock"
	"go.uber.org/zap"
)

const readChunk = 64 * 1024

// Options configures a Tailer. The zero value is usable; missing fields get
// defaults from New.
type Options struct {
	// FromStart replays the file from the beginning instead of seeking to
	// the current end.
	FromStart bool
	// PollInterval is how long to wait when no new data is available.
	PollInterval time.Duration
	// HeartbeatInterval is how often an advisory liveness line is logged.
	HeartbeatInterval time.Duration
	Clock             clock.Clock
	Logger            *zap.Logger
}

// Tailer yields complete lines appended to a file. Partial lines are held
// back until their terminating newline arrives.
type Tailer struct {
	path      string
	fromStart bool
	poll      time.Duration
	heartbeat time.Duration
	clk       clock.Clock
	logger    *zap.Logger
}

// New creates a tailer for path.
func New(path string, opts Options) *Tailer {
	if opts.PollInterval <= 0 {
		opts.PollInterval = time.Second
	}
	if opts.HeartbeatInterval <= 0 {
		opts.HeartbeatInterval = 10 * time.Minute
	}
	if opts.Clock == nil {
		opts.Clock = clock.New()
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	return &Tailer{
		path:      path,
		fromStart: opts.FromStart,
		poll:      opts.PollInterval,
		heartbeat: opts.HeartbeatInterval,
		clk:       opts.Clock,
		logger:    opts.Logger,
	}
}

// Follow streams complete lines to out until ctx is cancelled. The only
// error it returns is a failure to open the initial path; everything after
// that is retried transparently.
func (t *Tailer) Follow(ctx context.Context, out chan<- string) error {
	f, err := os.Open(t.path)
	if err != nil {
		return fmt.Errorf("open %s: %w", t.path, err)
	}
	defer func() { _ = f.Close() }()

	var offset int64
	if !t.fromStart {
		offset, err = f.Seek(0, io.SeekEnd)
		if err != nil {
			return fmt.Errorf("seek %s: %w", t.path, err)
		}
	}

	ident, err := f.Stat()
	if err != nil {
		return fmt.Errorf("stat %s: %w", t.path, err)
	}

	var pending []byte
	buf := make([]byte, readChunk)
	started := t.clk.Now()
	lastHeartbeat := started

	for {
		if ctx.Err() != nil {
			return nil
		}

		n, readErr := f.Read(buf)
		if n > 0 {
			offset += int64(n)
			pending = append(pending, buf[:n]...)
			var emitted bool
			pending, emitted = t.emitLines(ctx, pending, out)
			if ctx.Err() != nil {
				return nil
			}
			if emitted {
				continue
			}
		}
		if readErr != nil && readErr != io.EOF {
			t.logger.Warn("read error, retrying", zap.Error(readErr))
		}

		// No complete line available. Check for rotation, truncation, or
		// disappearance before sleeping.
		st, statErr := os.Stat(t.path)
		switch {
		case statErr != nil && os.IsNotExist(statErr):
			t.logger.Warn("log file missing, waiting for it to reappear", zap.String("path", t.path))
			_ = f.Close()
			if f, ident, err = t.waitForFile(ctx); err != nil {
				return nil // ctx cancelled
			}
			offset = 0
			pending = pending[:0]
			continue
		case statErr != nil:
			t.logger.Warn("stat error, retrying", zap.Error(statErr))
		case !os.SameFile(st, ident) || st.Size() < offset:
			t.logger.Info("log file rotated or truncated, reopening", zap.String("path", t.path))
			_ = f.Close()
			nf, openErr := os.Open(t.path)
			if openErr != nil {
				t.logger.Warn("reopen failed, retrying", zap.Error(openErr))
			} else {
				f = nf
				if ident, err = f.Stat(); err != nil {
					t.logger.Warn("stat after reopen failed", zap.Error(err))
				}
				offset = 0
				pending = pending[:0]
				continue
			}
		}

		now := t.clk.Now()
		if now.Sub(lastHeartbeat) >= t.heartbeat {
			lastHeartbeat = now
			t.logger.Info("still monitoring",
				zap.String("path", t.path),
				zap.Duration("uptime", now.Sub(started)))
		}

		select {
		case <-ctx.Done():
			return nil
		case <-t.clk.After(t.poll):
		}
	}
}

// emitLines sends every complete line in data and returns the unterminated
// remainder. The remainder plays the role of a read-position rollback: those
// bytes are re-considered once the rest of the line arrives.
func (t *Tailer) emitLines(ctx context.Context, data []byte, out chan<- string) (rest []byte, emitted bool) {
	for {
		idx := bytes.IndexByte(data, '\n')
		if idx == -1 {
			return data, emitted
		}
		line := strings.ToValidUTF8(string(bytes.TrimRight(data[:idx], "\r")), "�")
		data = data[idx+1:]
		select {
		case out <- line:
			emitted = true
		case <-ctx.Done():
			return data, emitted
		}
	}
}

// waitForFile blocks until the path exists again, then reopens it from the
// start. Returns an error only when ctx is cancelled.
func (t *Tailer) waitForFile(ctx context.Context) (*os.File, os.FileInfo, error) {
	for {
		select {
		case <-ctx.Done():
			return nil, nil, ctx.Err()
		case <-t.clk.After(t.poll):
		}
		f, err := os.Open(t.path)
		if err != nil {
			continue
		}
		ident, err := f.Stat()
		if err != nil {
			_ = f.Close()
			continue
		}
		t.logger.Info("log file reappeared, reopening from start", zap.String("path", t.path))
		return f, ident, nil
	}
}
