// Package worker runs capture backend calls on a dedicated goroutine so
// blocking OS captures never stall the session event loop. Requests flow
// through a bounded mailbox; before each batch is serviced the mailbox is
// drained and only the most recent request of each kind survives, because
// cursor-driven sampling enqueues faster than a capture call completes.
package worker

import (
	"errors"
	"image"

	"github.com/bryanchriswhite/snaploupe/internal/capture"
	"github.com/bryanchriswhite/snaploupe/internal/export"
	"github.com/bryanchriswhite/snaploupe/internal/geometry"
	"github.com/bryanchriswhite/snaploupe/internal/logger"
)

// Kind identifies one request/response family. Coalescing and response
// matching both key on it.
type Kind int

const (
	KindSampleRGB Kind = iota
	KindSampleLoupe
	KindFreezeCapture
	KindEncodePNG
	KindWindowList
	KindHitTest
	kindShutdown
)

func (k Kind) String() string {
	switch k {
	case KindSampleRGB:
		return "sample-rgb"
	case KindSampleLoupe:
		return "sample-loupe"
	case KindFreezeCapture:
		return "freeze-capture"
	case KindEncodePNG:
		return "encode-png"
	case KindWindowList:
		return "window-list"
	case KindHitTest:
		return "hit-test"
	case kindShutdown:
		return "shutdown"
	}
	return "unknown"
}

// servicePriority orders pending kinds within one batch. Encode and
// freeze are one-shot, user-visible actions; sampling is continuous and
// tolerant of staleness.
var servicePriority = []Kind{
	KindEncodePNG,
	KindFreezeCapture,
	KindWindowList,
	KindSampleRGB,
	KindSampleLoupe,
	KindHitTest,
}

// Request is one unit of work for the worker. Monitor/Point/patch fields
// apply to sampling kinds, Image to PNG encoding. Seq and Generation are
// echoed verbatim into the response so the controller can reject stale
// results.
type Request struct {
	Kind       Kind
	Seq        uint64
	Generation uint64

	Monitor geometry.Monitor
	Point   geometry.Point
	PatchW  int
	PatchH  int
	Image   *image.RGBA
}

// Response carries the result of exactly one serviced request, tagged
// with the request's kind, sequence id and generation. Err is set for
// unrecoverable backend failures; the session surfaces it and keeps
// running.
type Response struct {
	Kind       Kind
	Seq        uint64
	Generation uint64

	Monitor geometry.Monitor
	Point   geometry.Point

	RGB    geometry.RGB
	HasRGB bool
	Patch  *image.RGBA
	Image  *image.RGBA
	PNG    []byte

	Windows []capture.Window
	Hit     *capture.Window

	Err string
}

// Failed reports whether the response is an error response.
func (r Response) Failed() bool { return r.Err != "" }

// ErrFull is returned by Submit when the mailbox is at capacity. The
// controller drops and counts: freshness matters more than completeness.
var ErrFull = errors.New("worker mailbox full")

// ErrClosed is returned by Submit after Shutdown.
var ErrClosed = errors.New("worker is shut down")

const mailboxDepth = 64

// Worker owns a capture backend and services requests on its own
// goroutine. All data crossing the boundary is passed by value or moved;
// the backend and its caches are never shared.
type Worker struct {
	requests  chan Request
	responses chan Response
	done      chan struct{}
	closed    bool
}

// New starts a worker around the given backend. The worker keeps the
// backend for itself until Shutdown, then closes it.
func New(backend capture.Backend) *Worker {
	w := &Worker{
		requests:  make(chan Request, mailboxDepth),
		responses: make(chan Response, mailboxDepth),
		done:      make(chan struct{}),
	}
	go w.run(backend)
	return w
}

// Submit enqueues a request without blocking.
func (w *Worker) Submit(req Request) error {
	if w.closed {
		return ErrClosed
	}
	select {
	case w.requests <- req:
		return nil
	default:
		return ErrFull
	}
}

// TryRecv pops one response without blocking. ok is false when none is
// pending.
func (w *Worker) TryRecv() (Response, bool) {
	select {
	case resp := <-w.responses:
		return resp, true
	default:
		return Response{}, false
	}
}

// Shutdown asks the loop to exit after finishing in-flight work and
// blocks until it has. After Shutdown no response will ever arrive.
func (w *Worker) Shutdown() {
	if w.closed {
		return
	}
	w.closed = true
	w.requests <- Request{Kind: kindShutdown}
	<-w.done
}

func (w *Worker) run(backend capture.Backend) {
	log := logger.WithComponent("capture-worker")
	defer close(w.done)
	defer func() {
		if err := backend.Close(); err != nil {
			log.Warn().Err(err).Msg("backend close failed")
		}
	}()

	for {
		first := <-w.requests

		// Drain everything already queued, keeping only the newest
		// request per kind. Older duplicates are discarded without a
		// response.
		pending := map[Kind]Request{first.Kind: first}
	drain:
		for {
			select {
			case next := <-w.requests:
				pending[next.Kind] = next
			default:
				break drain
			}
		}

		_, shutdown := pending[kindShutdown]
		delete(pending, kindShutdown)

		for _, kind := range servicePriority {
			req, ok := pending[kind]
			if !ok {
				continue
			}
			w.responses <- w.service(backend, req)
		}

		if shutdown {
			log.Debug().Msg("worker loop exiting")
			return
		}
	}
}

// service executes one request against the backend and builds its
// response. Exactly one response per serviced request.
func (w *Worker) service(backend capture.Backend, req Request) Response {
	resp := Response{
		Kind:       req.Kind,
		Seq:        req.Seq,
		Generation: req.Generation,
		Monitor:    req.Monitor,
		Point:      req.Point,
	}

	switch req.Kind {
	case KindSampleRGB:
		rgb, ok, err := backend.SamplePixel(req.Monitor, req.Point)
		if err != nil {
			resp.Err = err.Error()
			break
		}
		resp.RGB, resp.HasRGB = rgb, ok

	case KindSampleLoupe:
		rgb, ok, err := backend.SamplePixel(req.Monitor, req.Point)
		if err != nil {
			resp.Err = err.Error()
			break
		}
		resp.RGB, resp.HasRGB = rgb, ok
		patch, err := backend.SamplePatch(req.Monitor, req.Point, req.PatchW, req.PatchH)
		if err != nil {
			resp.Err = err.Error()
			break
		}
		resp.Patch = patch

	case KindFreezeCapture:
		img, err := backend.CaptureMonitor(req.Monitor)
		if err != nil {
			resp.Err = err.Error()
			break
		}
		resp.Image = img

	case KindEncodePNG:
		png, err := export.EncodePNG(req.Image)
		if err != nil {
			resp.Err = err.Error()
			break
		}
		resp.PNG = png

	case KindWindowList:
		windows, err := backend.Windows()
		if err != nil {
			resp.Err = err.Error()
			break
		}
		resp.Windows = windows

	case KindHitTest:
		windows, err := backend.Windows()
		if err != nil {
			resp.Err = err.Error()
			break
		}
		resp.Hit = hitTest(windows, req.Monitor, req.Point)
	}

	return resp
}

// hitTest finds the topmost window containing the point whose bounds
// intersect the monitor. Windows arrive topmost first.
func hitTest(windows []capture.Window, m geometry.Monitor, p geometry.Point) *capture.Window {
	for _, win := range windows {
		if _, ok := win.Bounds.Intersect(m.Bounds()); !ok {
			continue
		}
		if win.Bounds.Contains(p.X, p.Y) {
			hit := win
			return &hit
		}
	}
	return nil
}
