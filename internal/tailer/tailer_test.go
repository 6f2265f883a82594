package tailer

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func startFollowing(t *testing.T, path string, fromStart bool) (<-chan string, context.CancelFunc) {
	t.Helper()

	ctx, cancel := context.WithCancel(context.Background())
	out := make(chan string, 64)
	done := make(chan struct{})

	tl := New(path, Options{
		FromStart:    fromStart,
		PollInterval: 5 * time.Millisecond,
	})
	go func() {
		defer close(done)
		_ = tl.Follow(ctx, out)
	}()

	t.Cleanup(func() {
		cancel()
		select {
		case <-done:
		case <-time.After(2 * time.Second):
			t.Error("tailer did not stop")
		}
	})
	return out, cancel
}

func waitLine(t *testing.T, out <-chan string) string {
	t.Helper()
	select {
	case line := <-out:
		return line
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for a line")
		return ""
	}
}

func expectNoLine(t *testing.T, out <-chan string) {
	t.Helper()
	select {
	case line := <-out:
		t.Fatalf("unexpected line: %q", line)
	case <-time.After(50 * time.Millisecond):
	}
}

func TestFollowFromStart(t *testing.T) {
	path := filepath.Join(t.TempDir(), "Player.log")
	require.NoError(t, os.WriteFile(path, []byte("one\ntwo\n"), 0o644))

	out, _ := startFollowing(t, path, true)

	assert.Equal(t, "one", waitLine(t, out))
	assert.Equal(t, "two", waitLine(t, out))
}

func TestFollowSeeksToEnd(t *testing.T) {
	path := filepath.Join(t.TempDir(), "Player.log")
	require.NoError(t, os.WriteFile(path, []byte("old\n"), 0o644))

	out, _ := startFollowing(t, path, false)
	expectNoLine(t, out)

	f, err := os.OpenFile(path, os.O_APPEND|os.O_WRONLY, 0o644)
	require.NoError(t, err)
	_, err = f.WriteString("new\n")
	require.NoError(t, err)
	require.NoError(t, f.Close())

	assert.Equal(t, "new", waitLine(t, out))
}

func TestFollowHoldsBackPartialLines(t *testing.T) {
	path := filepath.Join(t.TempDir(), "Player.log")
	require.NoError(t, os.WriteFile(path, nil, 0o644))

	out, _ := startFollowing(t, path, true)

	f, err := os.OpenFile(path, os.O_APPEND|os.O_WRONLY, 0o644)
	require.NoError(t, err)
	defer func() { _ = f.Close() }()

	_, err = f.WriteString(`{"half": `)
	require.NoError(t, err)
	expectNoLine(t, out)

	_, err = f.WriteString("1}\n")
	require.NoError(t, err)
	assert.Equal(t, `{"half": 1}`, waitLine(t, out))
}

func TestFollowAcrossRotation(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "Player.log")
	require.NoError(t, os.WriteFile(path, nil, 0o644))

	out, _ := startFollowing(t, path, true)

	f, err := os.OpenFile(path, os.O_APPEND|os.O_WRONLY, 0o644)
	require.NoError(t, err)
	_, err = f.WriteString("before\n")
	require.NoError(t, err)
	require.NoError(t, f.Close())
	assert.Equal(t, "before", waitLine(t, out))

	// Rotate: move the file aside and start a fresh one at the same path.
	require.NoError(t, os.Rename(path, filepath.Join(dir, "Player-prev.log")))
	require.NoError(t, os.WriteFile(path, []byte("after\n"), 0o644))

	assert.Equal(t, "after", waitLine(t, out))
}

func TestFollowAcrossTruncation(t *testing.T) {
	path := filepath.Join(t.TempDir(), "Player.log")
	require.NoError(t, os.WriteFile(path, []byte("a longer first generation\n"), 0o644))

	out, _ := startFollowing(t, path, true)
	assert.Equal(t, "a longer first generation", waitLine(t, out))

	require.NoError(t, os.WriteFile(path, []byte("short\n"), 0o644))
	assert.Equal(t, "short", waitLine(t, out))
}

func TestFollowWaitsForMissingFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "Player.log")
	require.NoError(t, os.WriteFile(path, []byte("first\n"), 0o644))

	out, _ := startFollowing(t, path, true)
	assert.Equal(t, "first", waitLine(t, out))

	require.NoError(t, os.Remove(path))
	time.Sleep(20 * time.Millisecond)

	require.NoError(t, os.WriteFile(path, []byte("reborn\n"), 0o644))
	assert.Equal(t, "reborn", waitLine(t, out))
}

func TestFollowOpenFailureIsFatal(t *testing.T) {
	tl := New(filepath.Join(t.TempDir(), "missing.log"), Options{})
	err := tl.Follow(context.Background(), make(chan string))
	require.Error(t, err)
}
