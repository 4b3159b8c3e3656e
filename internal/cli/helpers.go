package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"sync"
	"syscall"

	backend "github.com/redis/go-redis/v9"

	"github.com/aretw0/espalier"
	"github.com/aretw0/espalier/internal/logging"
	"github.com/aretw0/espalier/internal/presentation/tui"
	"github.com/aretw0/espalier/pkg/adapters/file"
	redisstore "github.com/aretw0/espalier/pkg/adapters/redis"
	"github.com/aretw0/espalier/pkg/domain"
	"github.com/aretw0/espalier/pkg/ports"
	"github.com/aretw0/espalier/pkg/session"
	"github.com/aretw0/espalier/pkg/walk"
)

// SignalContext wraps a context and captures the signal that cancelled it.
type SignalContext struct {
	context.Context
	Cancel func()
	start  sync.Once
	stop   sync.Once
	sigCh  chan os.Signal
	sigVal os.Signal
	mu     sync.Mutex
}

// NewSignalContext creates a context that is cancelled on SIGINT or SIGTERM.
// It acts as a drop-in replacement for signal.NotifyContext but allows retrieving the signal.
func NewSignalContext(parent context.Context) *SignalContext {
	ctx, cancel := context.WithCancel(parent)
	sc := &SignalContext{
		Context: ctx,
		Cancel:  cancel,
		sigCh:   make(chan os.Signal, 1),
	}

	sc.start.Do(func() {
		signal.Notify(sc.sigCh, os.Interrupt, syscall.SIGTERM)
		go func() {
			select {
			case sig := <-sc.sigCh:
				sc.mu.Lock()
				sc.sigVal = sig
				sc.mu.Unlock()
				sc.Cancel()
			case <-sc.Context.Done():
				// Context cancelled elsewhere
			}
			sc.stop.Do(func() {
				signal.Stop(sc.sigCh)
			})
		}()
	})

	return sc
}

// Signal returns the signal that caused the context to be cancelled, or nil.
func (sc *SignalContext) Signal() os.Signal {
	sc.mu.Lock()
	defer sc.mu.Unlock()
	return sc.sigVal
}

// createLogger configures the application logger.
// In debug mode, it writes to Stderr (to separate from Stdout flow output).
func createLogger(debug bool) *slog.Logger {
	if debug {
		return logging.New(slog.LevelDebug)
	}
	return logging.NewNop()
}

// printSystemMessage prints a standardized system message to stdout.
func printSystemMessage(format string, args ...any) {
	fmt.Printf(">>> %s\n", fmt.Sprintf(format, args...))
}

func logSessionStatus(logger *slog.Logger, sessionID, nodeID string, loaded, quiet bool) {
	if loaded {
		logger.Info("Session Resumed", "session_id", sessionID, "node", nodeID)
		if !quiet {
			printSystemMessage("Resuming at '%s' node...", nodeID)
		}
	} else if sessionID != "" {
		logger.Info("Session Created", "session_id", sessionID)
		if !quiet {
			printSystemMessage("Session '%s' active.", sessionID)
		}
	}
}

// createWalkerOptions prepares the functional options for the Walker.
func createWalkerOptions(logger *slog.Logger, sessionID string, store ports.SessionStore, jsonMode bool, ioHandler walk.IOHandler) []walk.Option {
	opts := []walk.Option{
		walk.WithLogger(logger),
	}

	if sessionID != "" {
		opts = append(opts, walk.WithSessionID(sessionID))
		opts = append(opts, walk.WithStore(store))
	}

	switch {
	case jsonMode:
		opts = append(opts, walk.WithInputHandler(walk.NewJSONHandler(os.Stdin, os.Stdout)))
	case ioHandler != nil:
		opts = append(opts, walk.WithInputHandler(ioHandler))
	default:
		opts = append(opts, walk.WithRenderer(tui.NewRenderer()))
	}

	return opts
}

func isInterrupted(err error) bool {
	if err == nil {
		return false
	}
	return errors.Is(err, context.Canceled) || errors.Is(err, io.EOF)
}

func handleExecutionError(err error) error {
	if err == nil {
		return nil
	}
	if isInterrupted(err) {
		return nil // Exit 0 for interruptions
	}
	return err
}

func logCompletion(nodeID string, err error, debug bool, promptActive bool, quiet bool, sig os.Signal) {
	if quiet {
		return
	}
	if err == nil {
		printSystemMessage("Finished at '%s' node.", nodeID)
		return
	}

	if isInterrupted(err) {
		// Aesthetic: Print [CTRL+C] simulation if likely from user via SIGINT
		if sig == os.Interrupt {
			if debug {
				// Debug mode: Logs likely interrupted the prompt line. Restore context.
				fmt.Printf("> [CTRL+C]\n")
			} else {
				if promptActive {
					// Normal mode, Input active: Clean UI, append to existing prompt.
					fmt.Printf("[CTRL+C]\n")
				} else {
					// Normal mode, Idle: Create prompt for consistency.
					fmt.Printf("> [CTRL+C]\n")
				}
			}
			printSystemMessage("Interrupted at '%s' node.", nodeID)
		} else if sig != nil {
			// SIGTERM or others
			fmt.Printf("\n")
			printSystemMessage("Terminated at '%s' node.", nodeID)
		} else {
			// clean exit without a signal (e.g. context cancel during reload)
			fmt.Printf("\n")
			printSystemMessage("Interrupted at '%s' node.", nodeID)
		}
	}
}

// setupPersistence initializes the session store and session manager.
func setupPersistence(opts RunOptions, logger *slog.Logger) (ports.SessionStore, *session.Manager, error) {
	store, err := resolveStore(opts)
	if err != nil {
		return nil, nil, err
	}
	manager := session.NewManager(store, session.WithLogger(logger))
	return store, manager, nil
}

// resolveStore picks the session backend: Redis when a URL is given,
// otherwise JSON files under the store path.
func resolveStore(opts RunOptions) (ports.SessionStore, error) {
	if opts.RedisURL != "" {
		ropts, err := backend.ParseURL(opts.RedisURL)
		if err != nil {
			return nil, fmt.Errorf("invalid redis url: %w", err)
		}
		return redisstore.NewFromClient(backend.NewClient(ropts)), nil
	}
	return file.NewStore(opts.StorePath), nil
}

// ResetSession clears the session data for the given ID.
func ResetSession(opts RunOptions) {
	if opts.SessionID == "" {
		return
	}
	store, err := resolveStore(opts)
	if err != nil {
		return
	}
	_ = store.Delete(context.Background(), opts.SessionID)
}

// hydrateSession loads or seeds the persisted session, and guards
// against graphs that changed underneath a stored walk: if the current
// node no longer exists, the walk restarts from the root instead of
// erroring on the first render.
func hydrateSession(ctx context.Context, engine *espalier.Engine, sessionID string, manager *session.Manager) (*domain.Session, bool, error) {
	if sessionID == "" {
		return nil, false, nil // the walker starts a fresh, unpersisted walk
	}

	loaded := true
	sess, err := manager.Load(ctx, sessionID)
	if errors.Is(err, domain.ErrSessionNotFound) {
		loaded = false
		sess, err = manager.LoadOrStart(ctx, sessionID, engine.Graph().RootID())
	}
	if err != nil {
		return nil, false, err
	}

	if loaded {
		if _, ok := engine.Graph().Node(sess.CurrentID); !ok {
			printSystemMessage("Node '%s' no longer exists; restarting from the root.", sess.CurrentID)
			sess = engine.Reset(sess)
			if err := manager.Save(ctx, sessionID, sess); err != nil {
				return nil, false, fmt.Errorf("failed to reseed session: %w", err)
			}
		}
	}

	return sess, loaded, nil
}
