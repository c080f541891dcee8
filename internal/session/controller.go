// Package session implements the capture session controller: the mode
// state machine, cursor tracking, freeze lifecycle, request dispatch and
// coalescing bookkeeping, and reconciliation of worker responses against
// current state. The controller runs entirely on the host event loop and
// never blocks; all capture work happens in the worker.
package session

import (
	"errors"
	"image"
	"image/draw"
	"time"

	"github.com/rs/zerolog"

	"github.com/bryanchriswhite/snaploupe/internal/capture"
	"github.com/bryanchriswhite/snaploupe/internal/geometry"
	"github.com/bryanchriswhite/snaploupe/internal/logger"
	"github.com/bryanchriswhite/snaploupe/internal/placement"
	"github.com/bryanchriswhite/snaploupe/internal/protocol"
	"github.com/bryanchriswhite/snaploupe/internal/worker"
)

// Dispatcher is the worker surface the controller depends on. The
// concrete worker satisfies it; tests substitute a recorder.
type Dispatcher interface {
	Submit(worker.Request) error
	TryRecv() (worker.Response, bool)
}

// Result is the terminal outcome of a session together with any encoded
// PNG bytes produced by the commit path.
type Result struct {
	Outcome protocol.Outcome
	PNG     []byte
}

const (
	// rgbSampleInterval bounds how often live cursor motion may issue an
	// rgb sample, independent of raw input event frequency.
	rgbSampleInterval = 16 * time.Millisecond

	// loupeSampleInterval bounds loupe patch sampling the same way.
	loupeSampleInterval = 33 * time.Millisecond

	// cursorFreshness is how long the last in-bounds event point stays
	// usable as a fallback when the device cursor reads outside all
	// monitors (device- and event-level coordinates can momentarily
	// disagree).
	cursorFreshness = 120 * time.Millisecond

	// altDebounce treats a very fast modifier release+press as one
	// continuous hold, smoothing over transient OS modifier glitches.
	altDebounce = 150 * time.Millisecond
)

// Controller owns all session state and mutates it only in response to
// input events and worker responses delivered on the host event loop.
type Controller struct {
	log      *zerolog.Logger
	opts     Options
	dispatch Dispatcher
	monitors []geometry.Monitor
	coord    *placement.Coordinator

	state State

	// Per-kind dispatch bookkeeping: a response is applied only when its
	// sequence id matches the most recently sent one for its kind.
	lastSeq  map[worker.Kind]uint64
	lastSent map[worker.Kind]time.Time
	dropped  map[worker.Kind]int

	// pendingFreeze holds the monitor whose freeze capture is waiting
	// for the capture-occluding surfaces to be confirmed hidden.
	pendingFreeze *geometry.Monitor

	// anchor is the selection drag anchor while the primary button is
	// held in frozen mode.
	anchor     geometry.Point
	haveAnchor bool
	selecting  bool

	altReleasePending bool
	altReleaseAt      time.Time

	lastValidCursor   geometry.Point
	lastValidCursorAt time.Time

	windows []capture.Window

	moves  []placement.Move
	result *Result
}

// New creates a controller for one capture session. The monitor set is
// fixed for the session's lifetime.
func New(dispatch Dispatcher, monitors []geometry.Monitor, opts Options) (*Controller, error) {
	if len(monitors) == 0 {
		return nil, errors.New("session: no monitors")
	}
	return &Controller{
		log:      logger.WithComponent("session"),
		opts:     opts.Normalized(),
		dispatch: dispatch,
		monitors: monitors,
		coord:    placement.NewCoordinator(),
		state:    State{Mode: ModeLive},
		lastSeq:  make(map[worker.Kind]uint64),
		lastSent: make(map[worker.Kind]time.Time),
		dropped:  make(map[worker.Kind]int),
	}, nil
}

// Start primes the session with a best-effort initial cursor position
// and issues the initial sample and window-list requests.
func (c *Controller) Start(now time.Time, cursor geometry.Point, haveCursor bool) {
	if haveCursor {
		c.observeCursor(cursor, now)
		c.requestRGBSample(now, true)
	}
	c.submit(worker.Request{Kind: worker.KindWindowList}, now)
}

// UpdateOptions applies a live configuration update.
func (c *Controller) UpdateOptions(opts Options) {
	c.opts = opts.Normalized()
}

// Options returns the active, normalized session options.
func (c *Controller) Options() Options {
	return c.opts
}

// Snapshot returns a copy of the session state. Image pointers in the
// copy are read-only views.
func (c *Controller) Snapshot() State {
	return c.state
}

// Monitors returns the session's fixed monitor set.
func (c *Controller) Monitors() []geometry.Monitor {
	return c.monitors
}

// Windows returns the most recent window list delivered by the worker,
// topmost first.
func (c *Controller) Windows() []capture.Window {
	return c.windows
}

// Coordinator exposes the window coordinator for toolbar drag routing.
func (c *Controller) Coordinator() *placement.Coordinator {
	return c.coord
}

// Result returns the terminal session outcome once one exists.
func (c *Controller) Result() (Result, bool) {
	if c.result == nil {
		return Result{}, false
	}
	return *c.result, true
}

// TakeMoves returns the window moves accumulated since the last call
// and clears them. The host applies them to the OS surfaces.
func (c *Controller) TakeMoves() []placement.Move {
	moves := c.moves
	c.moves = nil
	return moves
}

// HandlePointerMoved processes a cursor motion event in global logical
// coordinates.
func (c *Controller) HandlePointerMoved(p geometry.Point, now time.Time) {
	c.observeCursor(p, now)

	switch c.state.Mode {
	case ModeLive:
		c.requestRGBSample(now, false)
		if c.state.AltActive {
			c.requestLoupeSample(now, false)
		}
	case ModeFrozen:
		c.sampleFrozenLocally()
		if c.selecting && c.haveAnchor {
			c.state.Selection = geometry.RectFromPoints(c.anchor, p)
			c.state.HaveSelection = true
		}
	}
	c.planPlacements()
}

// HandlePointerButton processes primary-button state changes. A press in
// live mode begins the freeze lifecycle; a press while already frozen
// only re-anchors the selection and never bumps the generation.
func (c *Controller) HandlePointerButton(pressed bool, now time.Time) {
	if pressed {
		if !c.state.HaveCursor {
			return
		}
		switch c.state.Mode {
		case ModeLive:
			c.beginFreeze(now)
		case ModeFrozen:
			c.anchor = c.state.Cursor
			c.haveAnchor = true
			c.selecting = true
		}
		return
	}

	// Release finalizes the selection; it does not unfreeze.
	if c.state.Mode == ModeFrozen && c.selecting {
		c.selecting = false
		if !c.state.HaveSelection || c.state.Selection.Empty() {
			// A plain click selects the whole monitor.
			if c.state.HaveMonitor {
				c.state.Selection = c.state.Monitor.Bounds()
				c.state.HaveSelection = true
			}
		}
		c.planPlacements()
	}
}

// HandleAlt processes the loupe modifier. In hold mode a release inside
// the debounce window followed by a press is treated as one continuous
// hold.
func (c *Controller) HandleAlt(pressed bool, now time.Time) {
	switch c.opts.Alt {
	case AltToggle:
		if !pressed {
			return
		}
		if c.state.AltActive {
			c.deactivateLoupe()
		} else {
			c.activateLoupe(now)
		}
	default: // AltHold
		if pressed {
			if c.altReleasePending && now.Sub(c.altReleaseAt) <= altDebounce {
				// Glitch: the release never happened.
				c.altReleasePending = false
				return
			}
			c.altReleasePending = false
			if !c.state.AltActive {
				c.activateLoupe(now)
			}
		} else if c.state.AltActive {
			c.altReleasePending = true
			c.altReleaseAt = now
		}
	}
	c.planPlacements()
}

// HandleEscape cancels: frozen mode thaws back to live, live mode ends
// the session with a cancel outcome.
func (c *Controller) HandleEscape(now time.Time) {
	switch c.state.Mode {
	case ModeFrozen:
		c.state.unfreeze()
		c.pendingFreeze = nil
		c.haveAnchor = false
		c.selecting = false
		c.coord.RestoreAfterCapture()
		c.planPlacements()
	case ModeLive:
		c.finish(Result{Outcome: protocol.Cancel()})
	}
}

// HandleCommit exports the current frozen selection: the selection area
// is cropped out of the frozen bitmap and handed to the worker for PNG
// encoding. Commit completes the session when the encode response
// arrives.
func (c *Controller) HandleCommit(now time.Time) {
	if c.state.Mode != ModeFrozen || c.state.Frozen == nil || !c.state.HaveMonitor {
		return
	}

	sel := c.state.Selection
	if !c.state.HaveSelection || sel.Empty() {
		sel = c.state.Monitor.Bounds()
	}

	crop := cropFrozen(c.state.Frozen, c.state.Monitor, sel)
	if crop == nil {
		c.state.Err = "selection is outside the captured monitor"
		return
	}
	c.submit(worker.Request{
		Kind:       worker.KindEncodePNG,
		Generation: c.state.Generation,
		Image:      crop,
	}, now)
}

// HandleWindowPick asks the worker which window lies under the cursor;
// a hit ends the session with a window outcome.
func (c *Controller) HandleWindowPick(now time.Time) {
	if c.state.Mode != ModeLive || !c.state.HaveCursor || !c.state.HaveMonitor {
		return
	}
	c.submit(worker.Request{
		Kind:    worker.KindHitTest,
		Monitor: c.state.Monitor,
		Point:   c.state.Cursor,
	}, now)
}

// ConfirmSurfacesHidden acknowledges that the HUD/loupe hide ordered for
// a freeze has taken visible effect; the next Tick arms the capture.
func (c *Controller) ConfirmSurfacesHidden() {
	c.coord.ConfirmHidden()
}

// Tick is the periodic idle entry point: it applies deferred alt
// releases, drains worker responses, arms a pending freeze capture once
// the occluding surfaces are hidden, and keeps live sampling fresh.
func (c *Controller) Tick(now time.Time) {
	if c.altReleasePending && now.Sub(c.altReleaseAt) > altDebounce {
		c.altReleasePending = false
		c.deactivateLoupe()
	}

	for {
		resp, ok := c.dispatch.TryRecv()
		if !ok {
			break
		}
		c.applyResponse(resp)
	}

	if c.pendingFreeze != nil && c.coord.CaptureSurfacesHidden() {
		m := *c.pendingFreeze
		if c.submit(worker.Request{
			Kind:       worker.KindFreezeCapture,
			Generation: c.state.Generation,
			Monitor:    m,
		}, now) {
			c.pendingFreeze = nil
		}
	}

	if c.state.Mode == ModeLive && c.state.HaveCursor {
		c.requestRGBSample(now, false)
		if c.state.AltActive {
			c.requestLoupeSample(now, false)
		}
	}

	c.planPlacements()
}

// --- internals ---

// observeCursor updates cursor state and re-resolves the active monitor,
// falling back to the most recent in-bounds point within the freshness
// window when the reported point is transiently outside all monitors.
func (c *Controller) observeCursor(p geometry.Point, now time.Time) {
	c.state.Cursor = p
	c.state.HaveCursor = true

	if m, ok := geometry.MonitorAt(p, c.monitors); ok {
		c.lastValidCursor = p
		c.lastValidCursorAt = now
		if c.state.Mode == ModeLive {
			c.state.Monitor = m
			c.state.HaveMonitor = true
		}
		return
	}

	if now.Sub(c.lastValidCursorAt) <= cursorFreshness {
		c.state.Cursor = c.lastValidCursor
		return
	}

	// No containing monitor and nothing fresh to fall back on: keep the
	// raw point for display but drop the color sample.
	if c.state.Mode == ModeLive {
		c.state.RGB = geometry.RGB{}
		c.state.HasRGB = false
	}
}

func (c *Controller) beginFreeze(now time.Time) {
	if !c.state.HaveMonitor {
		return
	}
	c.state.Err = ""
	m := c.state.Monitor
	c.state.beginFreeze(m)
	c.anchor = c.state.Cursor
	c.haveAnchor = true
	c.selecting = true
	c.state.Selection = geometry.Rect{}
	c.state.HaveSelection = false

	// Hide the capture-rendering surfaces first so the freeze screenshot
	// does not include them; the capture request is armed in Tick only
	// after the hide is confirmed.
	c.moves = append(c.moves, c.coord.RequestHide()...)
	c.pendingFreeze = &m
}

func (c *Controller) activateLoupe(now time.Time) {
	c.state.AltActive = true
	switch c.state.Mode {
	case ModeLive:
		c.requestLoupeSample(now, true)
	case ModeFrozen:
		c.sampleFrozenLocally()
	}
}

func (c *Controller) deactivateLoupe() {
	c.state.AltActive = false
	c.state.Loupe = nil
	c.planPlacements()
}

// requestRGBSample issues a live rgb sample, rate limited unless
// immediate.
func (c *Controller) requestRGBSample(now time.Time, immediate bool) {
	if !c.state.HaveCursor || !c.state.HaveMonitor {
		return
	}
	if !immediate && now.Sub(c.lastSent[worker.KindSampleRGB]) < rgbSampleInterval {
		return
	}
	c.submit(worker.Request{
		Kind:    worker.KindSampleRGB,
		Monitor: c.state.Monitor,
		Point:   c.state.Cursor,
	}, now)
}

func (c *Controller) requestLoupeSample(now time.Time, immediate bool) {
	if !c.state.HaveCursor || !c.state.HaveMonitor {
		return
	}
	if !immediate && now.Sub(c.lastSent[worker.KindSampleLoupe]) < loupeSampleInterval {
		return
	}
	side := c.opts.LoupeSidePx
	c.submit(worker.Request{
		Kind:    worker.KindSampleLoupe,
		Monitor: c.state.Monitor,
		Point:   c.state.Cursor,
		PatchW:  side,
		PatchH:  side,
	}, now)
}

// submit assigns the next sequence id for the request kind and sends it.
// A full mailbox drops the request: the next natural trigger re-issues
// it, and freshness matters more than completeness.
func (c *Controller) submit(req worker.Request, now time.Time) bool {
	req.Seq = c.lastSeq[req.Kind] + 1
	if err := c.dispatch.Submit(req); err != nil {
		c.dropped[req.Kind]++
		c.log.Debug().
			Stringer("kind", req.Kind).
			Int("dropped", c.dropped[req.Kind]).
			Err(err).
			Msg("request dropped")
		return false
	}
	c.lastSeq[req.Kind] = req.Seq
	c.lastSent[req.Kind] = now
	return true
}

// applyResponse reconciles one worker response against current state.
// Anything whose sequence id, generation, mode or monitor no longer
// matches is dropped silently: stale data is not an error.
func (c *Controller) applyResponse(resp worker.Response) {
	if resp.Seq != c.lastSeq[resp.Kind] {
		return
	}

	if resp.Failed() {
		// Failures from an earlier freeze cycle are as stale as their
		// data would have been; drop them without surfacing.
		switch resp.Kind {
		case worker.KindFreezeCapture, worker.KindEncodePNG:
			if c.state.Mode != ModeFrozen || resp.Generation != c.state.Generation {
				return
			}
		}
		c.state.Err = resp.Err
		c.log.Warn().Stringer("kind", resp.Kind).Str("error", resp.Err).Msg("backend failure")
		if resp.Kind == worker.KindFreezeCapture {
			// Restore anything hidden for the capture; the session
			// keeps running in frozen mode without a bitmap until the
			// user retries or thaws.
			c.pendingFreeze = nil
			c.coord.RestoreAfterCapture()
			c.planPlacements()
		}
		return
	}

	switch resp.Kind {
	case worker.KindSampleRGB:
		if c.state.Mode != ModeLive || !c.state.HaveMonitor ||
			resp.Monitor != c.state.Monitor || resp.Point != c.state.Cursor {
			return
		}
		c.state.RGB, c.state.HasRGB = resp.RGB, resp.HasRGB
		c.state.Err = ""

	case worker.KindSampleLoupe:
		if c.state.Mode != ModeLive || !c.state.AltActive ||
			!c.state.HaveMonitor || resp.Monitor != c.state.Monitor {
			return
		}
		c.state.RGB, c.state.HasRGB = resp.RGB, resp.HasRGB
		if resp.Patch != nil {
			c.state.Loupe = &LoupeSample{Center: resp.Point, Patch: resp.Patch}
		}
		c.state.Err = ""

	case worker.KindFreezeCapture:
		if c.state.Mode != ModeFrozen || resp.Generation != c.state.Generation ||
			!c.state.HaveMonitor || resp.Monitor != c.state.Monitor {
			return
		}
		c.state.finishFreeze(resp.Image)
		c.state.Err = ""
		c.coord.RestoreAfterCapture()
		c.sampleFrozenLocally()
		c.planPlacements()

	case worker.KindEncodePNG:
		if c.state.Mode != ModeFrozen || resp.Generation != c.state.Generation {
			return
		}
		sel := c.state.Selection
		if !c.state.HaveSelection || sel.Empty() {
			sel = c.state.Monitor.Bounds()
		}
		c.finish(Result{Outcome: protocol.RegionRect(sel), PNG: resp.PNG})

	case worker.KindWindowList:
		c.windows = resp.Windows

	case worker.KindHitTest:
		if c.state.Mode != ModeLive || resp.Hit == nil {
			return
		}
		c.finish(Result{Outcome: protocol.Window(resp.Hit.ID)})
	}
}

// sampleFrozenLocally serves rgb and loupe samples synchronously from
// the frozen bitmap. No worker round-trip happens in frozen mode: no new
// screen content can appear.
func (c *Controller) sampleFrozenLocally() {
	if c.state.Frozen == nil || !c.state.HaveMonitor || !c.state.HaveCursor {
		return
	}

	x, y, ok := c.state.Monitor.ToLocalPixels(c.state.Cursor)
	if !ok {
		c.state.HasRGB = false
		return
	}

	img := c.state.Frozen
	b := img.Bounds()
	if x < 0 || y < 0 || x >= b.Dx() || y >= b.Dy() {
		c.state.HasRGB = false
		return
	}
	px := img.RGBAAt(b.Min.X+x, b.Min.Y+y)
	c.state.RGB = geometry.RGB{R: px.R, G: px.G, B: px.B}
	c.state.HasRGB = true

	if c.state.AltActive {
		side := c.opts.LoupeSidePx
		c.state.Loupe = &LoupeSample{
			Center: c.state.Cursor,
			Patch:  capture.CopyPatch(img, x, y, side, side),
		}
	}
}

func (c *Controller) planPlacements() {
	if !c.state.HaveMonitor {
		return
	}
	in := placement.Input{
		Monitor:      c.state.Monitor,
		Cursor:       c.state.Cursor,
		HaveCursor:   c.state.HaveCursor,
		LoupeVisible: c.state.AltActive,
		Frozen:       c.state.Mode == ModeFrozen,
		Selection:    c.state.Selection,
		HaveSelect:   c.state.HaveSelection,
	}
	c.moves = append(c.moves, c.coord.Plan(in)...)
}

func (c *Controller) finish(r Result) {
	if c.result != nil {
		return
	}
	c.result = &r
}

// cropFrozen cuts the selection out of the frozen bitmap in monitor
// pixel space. It returns nil when the selection misses the monitor
// entirely.
func cropFrozen(frozen *image.RGBA, m geometry.Monitor, sel geometry.Rect) *image.RGBA {
	a := geometry.Pt(sel.X, sel.Y)
	b := geometry.Pt(sel.X+sel.Width, sel.Y+sel.Height)
	px, ok := m.ClipGlobalRectPixels(a, b)
	if !ok {
		return nil
	}

	out := image.NewRGBA(image.Rect(0, 0, px.Width, px.Height))
	src := frozen.Bounds().Min
	draw.Draw(out, out.Bounds(), frozen, image.Pt(src.X+px.X, src.Y+px.Y), draw.Src)
	return out
}
