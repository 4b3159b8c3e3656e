package cli

import (
	"context"
	"fmt"

	"github.com/aretw0/espalier"
	"github.com/aretw0/espalier/internal/presentation/tui"
	"github.com/aretw0/espalier/pkg/domain"
	"github.com/aretw0/espalier/pkg/walk"
)

// RunSession executes a single interactive walk.
func RunSession(opts RunOptions) error {
	logger := createLogger(opts.Debug)

	if !opts.JSON {
		tui.PrintBanner()
	}

	// Setup signal handling
	sigCtx := NewSignalContext(context.Background())
	defer sigCtx.Cancel()

	// Initialize Engine
	engine, err := createEngine(sigCtx, opts, logger)
	if err != nil {
		return err
	}

	// Setup Persistence
	store, sessionManager, err := setupPersistence(opts, logger)
	if err != nil {
		return fmt.Errorf("failed to init persistence: %w", err)
	}

	// Hydrate State
	sess, loaded, err := hydrateSession(sigCtx, engine, opts.SessionID, sessionManager)
	if err != nil {
		return fmt.Errorf("failed to init session: %w", err)
	}

	logSessionStatus(logger, opts.SessionID, currentNode(sess, engine), loaded, opts.JSON)

	// Setup Walker
	w := walk.NewWalker(createWalkerOptions(logger, opts.SessionID, store, opts.JSON, nil)...)

	// Execute
	finalSess, runErr := w.Run(sigCtx, engine, sess)

	// Log Completion
	completionNodeID := currentNode(sess, engine)
	if finalSess != nil {
		completionNodeID = finalSess.CurrentID
	}

	// If context was canceled (signal received), ensure runErr reflects it if it doesn't already
	if sigCtx.Err() != nil && runErr == nil {
		runErr = sigCtx.Err()
	}

	logCompletion(completionNodeID, runErr, opts.Debug, true, opts.JSON, sigCtx.Signal())

	return handleExecutionError(runErr)
}

// currentNode resolves the node a walk is positioned at; a nil session
// has not left the root.
func currentNode(sess *domain.Session, engine *espalier.Engine) string {
	if sess != nil {
		return sess.CurrentID
	}
	return engine.Graph().RootID()
}
