package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/Balthazzahr/scry-daemon/internal/cards"
	"github.com/Balthazzahr/scry-daemon/internal/config"
	"github.com/Balthazzahr/scry-daemon/internal/match"
	"github.com/Balthazzahr/scry-daemon/internal/store"
	"github.com/Balthazzahr/scry-daemon/internal/tailer"
)

// MonitorCmd tails the Arena log and tracks matches
type MonitorCmd struct {
	NoScan bool `help:"Skip the startup scan for an in-flight match"`
}

// replayWindow is how much of the log tail the startup scan reads.
const replayWindow = 150 * 1024

// replayMarkers select the match-setup lines worth re-processing at startup.
var replayMarkers = []string{"MatchCreated", "ConnectResp", "DeckUpsertDeckV2", "EventSetDeckV2"}

// Run executes the monitor command
func (c *MonitorCmd) Run(globals *Globals) error {
	cfg := globals.Config
	logger := globals.Logger

	st := store.New(cfg.StateFile(), logger)
	state := st.Load()

	logPath, err := resolveLogPath(globals, state.LogPath)
	if err != nil {
		return err
	}
	logger.Info("monitoring", zap.String("logPath", logPath))

	cache := cards.NewCache(cfg.CardCacheFile(), logger)
	if err := cache.Load(); err != nil {
		logger.Warn("card cache load failed", zap.Error(err))
	}
	resolver := cards.NewService(
		cache,
		cards.NewLocalDB(cfg.DBGlobs(), logger),
		cards.NewScryfallClient(""),
		logger,
	)

	status := store.NewPublisher(cfg.StatusFile(), logger)

	tracker := match.NewTracker(state, match.Deps{
		Resolver: resolver,
		Store:    st,
		Status:   status,
		Logger:   logger,
		LogPath:  logPath,
	})

	if !c.NoScan {
		replayScan(tracker, logPath, logger)
	}
	tracker.PublishStatus()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	lines := make(chan string, 256)
	group, ctx := errgroup.WithContext(ctx)

	group.Go(func() error {
		defer close(lines)
		t := tailer.New(logPath, tailer.Options{
			FromStart: globals.FromStart,
			Logger:    logger,
		})
		return t.Follow(ctx, lines)
	})
	group.Go(func() error {
		for line := range lines {
			tracker.ProcessLine(line)
		}
		return nil
	})

	err = group.Wait()

	logger.Info("shutting down")
	if flushErr := tracker.Flush(); flushErr != nil {
		logger.Warn("final flush failed", zap.Error(flushErr))
	}
	if err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}

// replayScan feeds the recent match-setup lines from the log tail through
// the tracker with recording off, so an in-flight match is reattached
// without re-recording anything already in history.
func replayScan(tracker *match.Tracker, logPath string, logger *zap.Logger) {
	f, err := os.Open(logPath)
	if err != nil {
		if !os.IsNotExist(err) {
			logger.Warn("active match scan failed", zap.Error(err))
		}
		return
	}
	defer func() { _ = f.Close() }()

	info, err := f.Stat()
	if err != nil {
		logger.Warn("active match scan failed", zap.Error(err))
		return
	}
	offset := info.Size() - replayWindow
	if offset < 0 {
		offset = 0
	}
	if _, err := f.Seek(offset, io.SeekStart); err != nil {
		logger.Warn("active match scan failed", zap.Error(err))
		return
	}

	logger.Info("scanning for active match")
	tracker.SetRecording(false)
	defer tracker.SetRecording(true)

	sc := bufio.NewScanner(f)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for sc.Scan() {
		line := sc.Text()
		for _, marker := range replayMarkers {
			if strings.Contains(line, marker) {
				tracker.ProcessLine(line)
				break
			}
		}
	}
	if err := sc.Err(); err != nil {
		logger.Warn("active match scan stopped early", zap.Error(err))
	}

	tracker.CheckStale()
	if tracker.State().Active {
		logger.Info("reattached to active match",
			zap.String("deck", tracker.State().DeckName))
	}
}

// resolveLogPath picks the Player.log to follow: explicit flag or config
// first, then the previously saved choice, then filesystem discovery.
func resolveLogPath(globals *Globals, saved string) (string, error) {
	if globals.LogPath != "" {
		return globals.LogPath, nil
	}
	if saved != "" {
		if st, err := os.Stat(saved); err == nil && !st.IsDir() {
			return saved, nil
		}
		globals.Logger.Warn("saved log path no longer exists", zap.String("path", saved))
	}

	found := config.DiscoverLogPaths()
	switch len(found) {
	case 0:
		return "", fmt.Errorf("no Arena Player.log found; pass --log-path or run 'scryd pick'")
	case 1:
		return found[0], nil
	default:
		return pickLogPath(globals, found)
	}
}
