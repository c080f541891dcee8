package commands

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/bryanchriswhite/snaploupe/internal/api"
	"github.com/bryanchriswhite/snaploupe/internal/capture"
	"github.com/bryanchriswhite/snaploupe/internal/config"
	"github.com/bryanchriswhite/snaploupe/internal/export"
	"github.com/bryanchriswhite/snaploupe/internal/input"
	"github.com/bryanchriswhite/snaploupe/internal/logger"
	"github.com/bryanchriswhite/snaploupe/internal/protocol"
	"github.com/bryanchriswhite/snaploupe/internal/session"
	"github.com/bryanchriswhite/snaploupe/internal/worker"
)

var (
	pickOut       string
	pickNoClip    bool
	pickDebugAddr string

	pickCmd = &cobra.Command{
		Use:   "pick",
		Short: "Pick a screen region, color, or window interactively",
		Long: `Start an interactive picking session. Move the cursor to inspect
colors, hold Alt for the loupe, click to freeze the screen and drag to
select a region, press Enter to copy it, or w to pick the window under
the cursor. Escape thaws a frozen screen or cancels the session.

The outcome is printed as a single JSON line on stdout; the exit status
is 0 unless the session failed.`,
		Example: `  # Pick a region and copy the PNG to the clipboard
  snaploupe pick

  # Also write the PNG to a file
  snaploupe pick --out shot.png

  # Inspect a running session
  snaploupe pick --debug-addr 127.0.0.1:9090`,
		RunE: runPick,
	}
)

func init() {
	pickCmd.Flags().StringVar(&pickOut, "out", "", "write the selected region PNG to this file")
	pickCmd.Flags().BoolVar(&pickNoClip, "no-clipboard", false, "do not copy the PNG to the clipboard")
	pickCmd.Flags().StringVar(&pickDebugAddr, "debug-addr", "", "bind the debug HTTP server to this address")
	rootCmd.AddCommand(pickCmd)
}

// tickInterval drives idle work: worker response draining, deferred
// modifier releases, and sample refreshes.
const tickInterval = 16 * time.Millisecond

func runPick(cmd *cobra.Command, args []string) error {
	configMgr, err := config.NewManager(GetConfigFile())
	if err != nil {
		return fmt.Errorf("failed to initialize config manager: %w", err)
	}
	cfg := configMgr.Get()
	if viper.IsSet("log_level") && viper.GetString("log_level") != "" {
		cfg.LogLevel = viper.GetString("log_level")
	}
	if viper.GetBool("pretty") {
		cfg.Pretty = true
	}
	logger.Init(cfg.LogLevel, cfg.Pretty)
	log := logger.WithComponent("pick")

	monitors, err := capture.Monitors()
	if err != nil {
		return emit(protocol.Errorf("enumerate monitors: %v", err))
	}
	log.Info().Int("monitors", len(monitors)).Msg("Session starting")

	backend := capture.NewScreenBackend()
	cursor, haveCursor := backend.CursorPosition()

	// The worker owns the backend from here on.
	w := worker.New(backend)
	defer w.Shutdown()

	ctrl, err := session.New(w, monitors, cfg.Session)
	if err != nil {
		return emit(protocol.Errorf("start session: %v", err))
	}

	var debug *api.Server
	addr := pickDebugAddr
	if addr == "" {
		addr = cfg.DebugAddr
	}
	if addr != "" {
		debug = api.NewServer(configMgr, monitors)
		go func() {
			if err := debug.Start(addr); err != nil {
				log.Warn().Err(err).Msg("Debug server stopped")
			}
		}()
	}

	src := input.Start()
	defer src.Close()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	ctrl.Start(time.Now(), cursor, haveCursor)

	ticker := time.NewTicker(tickInterval)
	defer ticker.Stop()

	for {
		select {
		case ev, ok := <-src.Events():
			if !ok {
				return emit(protocol.Errorf("input hook stopped"))
			}
			dispatchEvent(ctrl, ev)

		case <-ticker.C:
			ctrl.Tick(time.Now())

		case <-sigChan:
			log.Info().Msg("Interrupted")
			return emit(protocol.Cancel())
		}

		applyMoves(ctrl)
		if debug != nil {
			debug.Publish(stateView(ctrl))
		}

		if res, done := ctrl.Result(); done {
			return finishPick(res, log)
		}
	}
}

func dispatchEvent(ctrl *session.Controller, ev input.Event) {
	now := time.Now()
	switch ev.Kind {
	case input.PointerMoved:
		ctrl.HandlePointerMoved(ev.Point, now)
	case input.ButtonDown:
		ctrl.HandlePointerButton(true, now)
	case input.ButtonUp:
		ctrl.HandlePointerButton(false, now)
	case input.AltDown:
		ctrl.HandleAlt(true, now)
	case input.AltUp:
		ctrl.HandleAlt(false, now)
	case input.Escape:
		ctrl.HandleEscape(now)
	case input.Commit:
		ctrl.HandleCommit(now)
	case input.WindowPick:
		ctrl.HandleWindowPick(now)
	}
}

// applyMoves drains pending surface moves. This build has no overlay
// renderer, so moves take effect instantly and a requested hide can be
// confirmed in the same pass.
func applyMoves(ctrl *session.Controller) {
	if len(ctrl.TakeMoves()) > 0 {
		ctrl.ConfirmSurfacesHidden()
	}
}

func stateView(ctrl *session.Controller) api.StateView {
	s := ctrl.Snapshot()
	view := api.StateView{
		Mode:       s.Mode.String(),
		Generation: s.Generation,
		Cursor:     s.Cursor,
		HasFrozen:  s.Frozen != nil,
		AltActive:  s.AltActive,
		Windows:    len(ctrl.Windows()),
		HUD:        ctrl.HUDLines(),
		Error:      s.Err,
	}
	if s.HaveMonitor {
		view.MonitorID = s.Monitor.ID
	}
	if s.HasRGB {
		view.Color = s.RGB.HexUpper()
	}
	if s.HaveSelection {
		sel := s.Selection
		view.Selection = &sel
	}
	return view
}

func finishPick(res session.Result, log *zerolog.Logger) error {
	if res.Outcome.Type == protocol.TypeRegion && len(res.PNG) > 0 {
		if !pickNoClip {
			if err := export.CopyPNGToClipboard(res.PNG); err != nil {
				log.Warn().Err(err).Msg("Clipboard copy failed")
			}
		}
		if pickOut != "" {
			if err := export.WritePNGFile(pickOut, res.PNG); err != nil {
				return emit(protocol.Errorf("write %s: %v", pickOut, err))
			}
			log.Info().Str("path", pickOut).Msg("Region written")
		}
	}
	return emit(res.Outcome)
}

// emit prints the outcome line and records its exit status for Execute.
// Returning instead of exiting here lets runPick's defers shut the
// worker down and uninstall the input hook first.
func emit(o protocol.Outcome) error {
	line, err := o.Encode()
	if err != nil {
		return err
	}
	fmt.Println(line)
	exitCode = o.ExitCode()
	return nil
}
