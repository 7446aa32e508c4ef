// Package preview keeps a rendered document preview consistent with the
// latest in-progress edits while minimizing redundant network work.
//
// The synchronizer is a small state machine per document instance:
// Idle -> Debouncing -> Rendering -> Displaying, with supersede edges. Its
// correctness guarantee is that the displayed result always corresponds to
// the most recently started, non-cancelled render; superseded requests are
// cancelled and their eventual outcome is discarded unconditionally.
package preview

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/resumeforge/resumeforge/internal/client/api"
	"github.com/resumeforge/resumeforge/internal/client/models"
	"github.com/resumeforge/resumeforge/internal/logging"
)

// DefaultDebounce is the quiet period after the last edit before a render
// is requested.
const DefaultDebounce = time.Second

// Renderer turns a document snapshot into a rendered payload. Implementations
// must honor context cancellation.
type Renderer interface {
	Render(ctx context.Context, doc models.ResumeData, lang string) ([]byte, error)
}

// Config tunes a Synchronizer. OnUpdate receives each newly installed
// resource; OnError receives user-displayable failure text. Both callbacks
// are invoked from the render goroutine.
type Config struct {
	Debounce time.Duration
	OnUpdate func(*Resource)
	OnError  func(string)
	Logger   logging.Logger
}

// Synchronizer owns the preview lifecycle for one document instance.
type Synchronizer struct {
	renderer Renderer
	debounce time.Duration
	onUpdate func(*Resource)
	onError  func(string)
	logger   logging.Logger

	mu              sync.Mutex
	closed          bool
	rendered        bool // left false until the first meaningful content
	lastFingerprint string
	lastDoc         models.ResumeData
	lastLang        string
	timer           *time.Timer
	timerGen        uint64
	seq             uint64
	cancel          context.CancelFunc
	current         *Resource
}

// NewSynchronizer builds a synchronizer in the Idle state.
func NewSynchronizer(r Renderer, cfg Config) *Synchronizer {
	if cfg.Debounce <= 0 {
		cfg.Debounce = DefaultDebounce
	}
	return &Synchronizer{
		renderer: r,
		debounce: cfg.Debounce,
		onUpdate: cfg.OnUpdate,
		onError:  cfg.OnError,
		logger:   cfg.Logger,
	}
}

// Current returns the installed resource, nil when nothing has been
// displayed yet. The synchronizer keeps ownership.
func (s *Synchronizer) Current() *Resource {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current
}

// Update feeds the latest document state into the synchronizer.
//
//   - An unchanged fingerprint is a no-op, so unrelated refreshes of the
//     editing surface cost nothing.
//   - Until the document first carries meaningful content, nothing is
//     rendered: an empty document during initial load produces no traffic.
//   - The first meaningful update renders immediately. This is what makes a
//     bulk import (a document arriving fully formed in one update) show
//     feedback at once instead of after a debounce delay.
//   - Every later update restarts the debounce timer; only the last update
//     in a burst triggers a render.
func (s *Synchronizer) Update(doc models.ResumeData, lang string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}

	fp := doc.Fingerprint() + "\x00" + lang
	if fp == s.lastFingerprint {
		return
	}
	s.lastFingerprint = fp
	s.lastDoc = doc
	s.lastLang = lang

	if !s.rendered {
		if !doc.HasContent() {
			return
		}
		s.rendered = true
		s.startRenderLocked(doc, lang)
		return
	}

	if s.timer != nil {
		s.timer.Stop()
	}
	// Stop can miss: a timer that already fired may be blocked on s.mu. The
	// generation token lets such a callback recognize it was superseded.
	s.timerGen++
	gen := s.timerGen
	s.timer = time.AfterFunc(s.debounce, func() {
		s.debounceFire(gen, doc, lang)
	})
}

// debounceFire is the debounce timer's callback. A stale generation means a
// newer update re-armed the timer after this one fired; its snapshot must
// not produce a render.
func (s *Synchronizer) debounceFire(gen uint64, doc models.ResumeData, lang string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed || gen != s.timerGen {
		return
	}
	s.startRenderLocked(doc, lang)
}

// Refresh re-renders the last known document immediately, bypassing the
// debounce. A no-op before the first Update and while the document carries
// no meaningful content: a manual refresh must not defeat the empty-render
// suppression.
func (s *Synchronizer) Refresh() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed || s.lastFingerprint == "" || !s.lastDoc.HasContent() {
		return
	}
	s.rendered = true
	s.startRenderLocked(s.lastDoc, s.lastLang)
}

// startRenderLocked begins a new render, superseding any in-flight one.
// Caller holds s.mu.
func (s *Synchronizer) startRenderLocked(doc models.ResumeData, lang string) {
	s.seq++
	seq := s.seq
	if s.cancel != nil {
		s.cancel()
	}
	ctx, cancel := context.WithCancel(context.Background())
	s.cancel = cancel
	go s.render(ctx, seq, doc, lang)
}

// render performs one request and installs its result, unless a newer
// request was started in the meantime.
func (s *Synchronizer) render(ctx context.Context, seq uint64, doc models.ResumeData, lang string) {
	data, err := s.renderer.Render(ctx, doc, lang)

	s.mu.Lock()
	if s.closed || seq != s.seq {
		// Superseded (or torn down): whatever came back is stale. Discard.
		s.mu.Unlock()
		return
	}
	s.cancel = nil

	if err != nil {
		s.mu.Unlock()
		if errors.Is(err, context.Canceled) {
			return
		}
		if s.logger != nil {
			s.logger.Warn(ctx, "preview render failed", "error", err)
		}
		if s.onError != nil {
			s.onError(renderErrorMessage(err))
		}
		// The last good resource stays displayed: stale beats blank.
		return
	}

	old := s.current
	if old != nil {
		old.Release()
	}
	res := newResource(data)
	s.current = res
	s.mu.Unlock()

	if s.onUpdate != nil {
		s.onUpdate(res)
	}
}

// Reset returns the synchronizer to Idle: the pending timer is cleared, any
// in-flight render is cancelled, and the current resource is released. Used
// when the editor is emptied (e.g. on logout) so no late completion can
// repaint a dead document.
func (s *Synchronizer) Reset() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.stopLocked()
	s.rendered = false
	s.lastFingerprint = ""
	s.lastDoc = models.ResumeData{}
	s.lastLang = ""
	cur := s.current
	s.current = nil
	s.mu.Unlock()

	if cur != nil {
		cur.Release()
	}
}

// Close tears the instance down. Idempotent. No timers, requests, or
// resources survive it.
func (s *Synchronizer) Close() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.closed = true
	s.stopLocked()
	cur := s.current
	s.current = nil
	s.mu.Unlock()

	if cur != nil {
		cur.Release()
	}
}

// stopLocked clears the debounce timer and cancels any in-flight render.
// Bumping seq guarantees a request already past cancellation cannot install
// its result. Caller holds s.mu.
func (s *Synchronizer) stopLocked() {
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
	s.timerGen++
	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}
	s.seq++
}

func renderErrorMessage(err error) string {
	if se, ok := api.AsStatusError(err); ok && se.Detail != "" {
		return se.Detail
	}
	if errors.Is(err, api.ErrTimeout) {
		return "preview generation timed out"
	}
	return "preview generation failed"
}

// previewPayload is the wire shape of the preview endpoint: the document
// fields with the language merged in at the top level.
type previewPayload struct {
	models.ResumeData
	Lang string `json:"lang"`
}

// APIRenderer renders through the service's unsaved-document endpoint.
type APIRenderer struct {
	API *api.Client
}

// Render posts the snapshot to POST /generate?preview=true and returns the
// PDF payload.
func (r *APIRenderer) Render(ctx context.Context, doc models.ResumeData, lang string) ([]byte, error) {
	return r.API.PostBinary(ctx, "/generate?preview=true", previewPayload{ResumeData: doc, Lang: lang})
}
