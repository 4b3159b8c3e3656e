package cli

import (
	"context"
	"crypto/md5"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/aretw0/espalier/internal/presentation/tui"
	"github.com/aretw0/espalier/pkg/domain"
	"github.com/aretw0/espalier/pkg/walk"
)

// RunWatch executes a walk in development mode, reloading on source changes.
func RunWatch(opts RunOptions) {
	logger := createLogger(opts.Debug)
	tui.PrintBanner()

	// Default session for watch mode to enable stateful hot reload by default.
	// We scope it by path hash to prevent collisions between projects.
	if opts.SessionID == "" {
		hash := md5.Sum([]byte(opts.Path))
		opts.SessionID = fmt.Sprintf("watch-%x", hash[:4])
	}

	if opts.Fresh {
		ResetSession(opts)
	}

	logger.Info("Starting Watcher", "path", opts.Path, "session_id", opts.SessionID)
	printSystemMessage("Watcher at '%s' session.", opts.SessionID)

	sigCtx := NewSignalContext(context.Background())
	defer sigCtx.Cancel()

	// Reuse the same IO handler across iterations to avoid multiple
	// stdin pumps (ghost readers).
	ioHandler := walk.NewTextHandler(os.Stdin, os.Stdout,
		walk.WithTextHandlerRenderer(tui.NewRenderer()),
	)

	// The previous iteration's graph, diffed against each reload so the
	// author sees what the change picked up.
	var lastGraph *domain.Graph

	for {
		again := runWatchIteration(sigCtx, opts, ioHandler, &lastGraph)
		if !again {
			break
		}
		logger.Info("Watcher restarting")
	}
}

func runWatchIteration(parentCtx *SignalContext, opts RunOptions, ioHandler walk.IOHandler, lastGraph **domain.Graph) bool {
	// A child context cancelled by reloads, without touching the parent
	// signal context.
	ctx, cancel := context.WithCancel(parentCtx)
	defer cancel()

	logger := createLogger(opts.Debug)

	// 1. Initialize Engine
	engine, err := createEngine(ctx, opts, logger)
	if err != nil {
		logger.Error("Engine initialization failed", "err", err)
		printSystemMessage("Graph is broken: %v", err)
		printSystemMessage("Waiting before retry...")
		select {
		case <-parentCtx.Done():
			return false
		case <-time.After(2 * time.Second):
			return true
		}
	}

	if prev := *lastGraph; prev != nil {
		if d := domain.Diff(prev, engine.Graph()); d != nil {
			logger.Info("Graph reloaded", "diff", d.String())
			printSystemMessage("Graph updated: %s.", d)
		}
	}
	*lastGraph = engine.Graph()

	// 2. Setup Persistence and Session Management
	store, sessionManager, err := setupPersistence(opts, logger)
	if err != nil {
		logger.Error("Persistence setup failed", "err", err)
		return false
	}

	sess, loaded, err := hydrateSession(ctx, engine, opts.SessionID, sessionManager)
	if err != nil {
		logger.Error("Session rehydration failed", "err", err)
		// Wait for a fix
		watchCh, _ := engine.Watch(ctx)
		select {
		case <-parentCtx.Done():
			return false
		case _, ok := <-watchCh:
			return ok
		}
	}

	if loaded {
		logger.Info("Session rehydrated", "session_id", opts.SessionID, "node_id", sess.CurrentID)
	}

	// 3. Setup Watcher & Walker
	watchCh, err := engine.Watch(ctx)
	if err != nil {
		logger.Warn("Source does not support watching", "err", err)
	}

	wOpts := createWalkerOptions(logger, opts.SessionID, store, false, ioHandler)
	w := walk.NewWalker(wOpts...)

	// 4. Start Watcher Routine
	reloadCh := make(chan struct{}, 1)
	go func() {
		if watchCh == nil {
			return
		}
		select {
		case <-ctx.Done():
			return
		case _, ok := <-watchCh:
			if ok {
				logger.Info("Change detected, triggering reload", "path", opts.Path)
				if !opts.Debug {
					fmt.Printf("\n")
				}
				printSystemMessage("Change detected in '%s'.", opts.Path)
				// Delay slightly to ensure the file system is stable
				time.Sleep(100 * time.Millisecond)
				reloadCh <- struct{}{}
				cancel()
			}
		}
	}()

	// 5. Run
	if loaded {
		logger.Debug("Resuming walk", "node_id", sess.CurrentID)
		printSystemMessage("Resuming at '%s' node...", sess.CurrentID)
	}

	// A dedicated context for this iteration that reloads can cancel
	runCtx, runCancel := context.WithCancel(ctx)
	defer runCancel()

	type walkResult struct {
		sess *domain.Session
		err  error
	}
	doneCh := make(chan walkResult, 1)
	go func() {
		s, err := w.Run(runCtx, engine, sess)
		doneCh <- walkResult{s, err}
	}()

	select {
	case <-parentCtx.Done():
		runCancel() // Stop the walker
		<-doneCh    // Wait for it to exit
		logCompletion(currentNode(sess, engine), context.Canceled, opts.Debug, true, false, parentCtx.Signal())
		logger.Info("Stopping watcher (signal received)", "signal", parentCtx.Signal())
		return false
	case <-reloadCh:
		runCancel() // Stop the walker
		<-doneCh    // Wait for it to exit
		return true // Continue to next iteration
	case res := <-doneCh:
		return handleRunCompletion(runCtx, res.sess, res.err, watchCh != nil, parentCtx, logger, opts.Debug)
	}
}

func handleRunCompletion(ctx context.Context, finalSess *domain.Session, err error, watching bool, parentCtx *SignalContext, logger *slog.Logger, debug bool) bool {
	nodeID := ""
	if finalSess != nil {
		nodeID = finalSess.CurrentID
	}

	if err != nil {
		// A cancelled context is a reload request
		if errors.Is(err, context.Canceled) {
			return true // Continue to next iteration
		}

		if isInterrupted(err) {
			return false // User stop
		}

		// Only log actual errors, not cancellation noise
		logger.Error("Runtime error", "err", err)
	}

	if watching {
		if err == nil {
			logCompletion(nodeID, nil, debug, false, false, nil)
			printSystemMessage("Waiting for changes...")
		}
		logger.Info("Walk finished, waiting for changes")
		select {
		case <-parentCtx.Done():
			logCompletion(nodeID, context.Canceled, debug, false, false, parentCtx.Signal())
			logger.Info("Stopping watcher (signal received)")
			return false
		case <-ctx.Done():
			return true
		}
	}
	return true
}
