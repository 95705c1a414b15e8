// Package engine turns raw edit events into correction checks and applies
// accepted corrections back into the live element.
//
// One goroutine owns all session state; every external entry point posts a
// message into its loop, matching the single cooperative event-loop model
// of the host document. Suspension points are the debounce timer and the
// in-flight provider request — at most one of the latter process-wide.
package engine

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync/atomic"
	"time"

	"github.com/hazyhaar/proofwatch/applier"
	"github.com/hazyhaar/proofwatch/classify"
	"github.com/hazyhaar/proofwatch/correction"
	"github.com/hazyhaar/proofwatch/dom"
	"github.com/hazyhaar/proofwatch/events"
	"github.com/hazyhaar/proofwatch/idgen"
	"github.com/hazyhaar/proofwatch/provider"
)

// Config assembles an Engine. Surface and Provider are required.
type Config struct {
	Surface  Surface
	Provider provider.Provider
	Events   events.Sink

	// Quiet is the debounce window. Default: 1500ms.
	Quiet time.Duration
	// MinLength is the minimum trimmed text length that triggers a check,
	// applied identically on the timer and focus-loss paths. Default: 10.
	MinLength int

	IDs    idgen.Generator
	Logger *slog.Logger
}

func (c *Config) defaults() {
	if c.Quiet <= 0 {
		c.Quiet = 1500 * time.Millisecond
	}
	if c.MinLength <= 0 {
		c.MinLength = 10
	}
	if c.Events == nil {
		c.Events = events.Discard
	}
	if c.IDs == nil {
		c.IDs = idgen.Prefixed("chk_", idgen.Default)
	}
	if c.Logger == nil {
		c.Logger = slog.Default()
	}
}

// message kinds posted into the loop.
type msgKind int

const (
	msgInput msgKind = iota
	msgBlur
	msgAcceptOne
	msgAcceptAll
	msgDismiss
	msgClose
	msgPointer
)

type message struct {
	kind      msgKind
	node      *dom.Node
	toTooltip bool // blur: focus surrendered to the tooltip itself
	index     int  // acceptOne
	targetID  string
	inTooltip bool // pointer: landed inside the tooltip
}

type checkResult struct {
	gen       uint64
	elementID string
	checkID   string
	res       *correction.Result
	err       error
}

// Engine is the per-process correction engine.
type Engine struct {
	cfg    Config
	ctx    context.Context
	cancel context.CancelFunc

	msgs    chan message
	results chan checkResult

	timer   *time.Timer
	timerCh <-chan time.Time

	sess     session
	inflight bool

	snap atomic.Pointer[Snapshot]
}

// New creates an Engine. Call Start to begin processing.
func New(cfg Config) (*Engine, error) {
	if cfg.Surface == nil {
		return nil, fmt.Errorf("engine: nil surface")
	}
	if cfg.Provider == nil {
		return nil, fmt.Errorf("engine: nil provider")
	}
	cfg.defaults()

	ctx, cancel := context.WithCancel(context.Background())
	e := &Engine{
		cfg:     cfg,
		ctx:     ctx,
		cancel:  cancel,
		msgs:    make(chan message, 256),
		results: make(chan checkResult, 1),
	}
	e.snap.Store(e.sess.snapshot())
	return e, nil
}

// Start runs the engine loop until Stop.
func (e *Engine) Start() {
	go e.loop()
}

// Stop cancels the loop and any pending timer.
func (e *Engine) Stop() {
	e.cancel()
}

// SetContext lets the parent monitor pass its context before Start. The
// context created in New is released first.
func (e *Engine) SetContext(ctx context.Context) {
	e.cancel()
	e.ctx, e.cancel = context.WithCancel(ctx)
}

// Input reports a qualifying edit event. The node is the event's origin;
// host resolution happens inside the loop.
func (e *Engine) Input(n *dom.Node) { e.post(message{kind: msgInput, node: n}) }

// Blur reports focus loss on an element. toTooltip is true when focus moved
// into the tooltip itself, which must not trigger the bypass.
func (e *Engine) Blur(n *dom.Node, toTooltip bool) {
	e.post(message{kind: msgBlur, node: n, toTooltip: toTooltip})
}

// AcceptOne applies the indexed change of the current correction.
func (e *Engine) AcceptOne(index int) { e.post(message{kind: msgAcceptOne, index: index}) }

// AcceptAll applies every remaining change and closes the tooltip.
func (e *Engine) AcceptAll() { e.post(message{kind: msgAcceptAll}) }

// Dismiss rejects the current correction and suppresses further checks on
// the element until new input arrives there.
func (e *Engine) Dismiss() { e.post(message{kind: msgDismiss}) }

// Close hides the tooltip without marking the element dismissed.
func (e *Engine) Close() { e.post(message{kind: msgClose}) }

// Pointer reports a pointer-down. The tooltip hides when the interaction
// lands outside both the tooltip and the active element.
func (e *Engine) Pointer(targetID string, inTooltip bool) {
	e.post(message{kind: msgPointer, targetID: targetID, inTooltip: inTooltip})
}

// Snapshot returns the latest published session view.
func (e *Engine) Snapshot() Snapshot { return *e.snap.Load() }

func (e *Engine) post(m message) {
	select {
	case e.msgs <- m:
	case <-e.ctx.Done():
	}
}

func (e *Engine) loop() {
	for {
		select {
		case <-e.ctx.Done():
			e.stopTimer()
			return
		case m := <-e.msgs:
			e.handle(m)
		case <-e.timerCh:
			e.timerCh = nil
			e.fire()
		case r := <-e.results:
			e.handleResult(r)
		}
		e.snap.Store(e.sess.snapshot())
	}
}

func (e *Engine) handle(m message) {
	switch m.kind {
	case msgInput:
		e.handleInput(m.node)
	case msgBlur:
		e.handleBlur(m.node, m.toTooltip)
	case msgAcceptOne:
		e.handleAcceptOne(m.index)
	case msgAcceptAll:
		e.handleAcceptAll()
	case msgDismiss:
		e.handleDismiss()
	case msgClose:
		e.handleClose()
	case msgPointer:
		e.handlePointer(m.targetID, m.inTooltip)
	}
}

// handleInput is the scheduling path: resolve the host, lift any dismissal,
// classify, then (re)arm the debounce timer.
func (e *Engine) handleInput(n *dom.Node) {
	if e.sess.applying {
		// Self-triggered write; never user input.
		return
	}
	host := dom.ResolveHost(n)
	if host == nil {
		return
	}

	// New input on a dismissed element lifts the suppression before
	// scheduling continues, so the lifting edit itself schedules normally.
	if e.sess.dismissed != "" && e.sess.dismissed == host.ID {
		e.sess.dismissed = ""
	}

	d := classify.Classify(host)
	if host.ID != e.sess.lastLogged {
		e.cfg.Logger.Debug("engine: classified element",
			"element", host.ID, "check", d.Check, "reason", d.Reason)
		e.sess.lastLogged = host.ID
	}
	if !d.Check {
		return
	}

	e.armTimer()
	e.sess.active = host.ID
	e.sess.state = StateDebouncing

	// The user kept editing: any response still in flight is stale.
	e.sess.generation++
}

// handleBlur bypasses the quiet period: focus loss with an armed timer
// checks immediately, unless focus went to the tooltip.
func (e *Engine) handleBlur(n *dom.Node, toTooltip bool) {
	if toTooltip || e.sess.applying {
		return
	}
	host := dom.ResolveHost(n)
	if host == nil || e.sess.state != StateDebouncing || host.ID != e.sess.active {
		return
	}
	e.stopTimer()
	e.fire()
}

// fire issues the check for the active element's text as it is right now.
func (e *Engine) fire() {
	id := e.sess.active
	if id == "" {
		e.sess.state = StateIdle
		return
	}

	if e.inflight {
		// One request in flight process-wide: defer by re-arming.
		e.armTimer()
		e.sess.state = StateDebouncing
		return
	}

	text, err := e.cfg.Surface.ReadText(e.ctx, id)
	if err != nil {
		e.cfg.Logger.Warn("engine: read text failed", "element", id, "error", err)
		e.sess.state = StateIdle
		return
	}
	if len(strings.TrimSpace(text)) < e.cfg.MinLength {
		// Degenerate input: silently skipped, not an error.
		e.sess.state = StateIdle
		return
	}

	e.check(id, text)
}

// check owns one request/response cycle with the correction capability.
// The indicator is shown here and removed exactly once per check, on every
// exit path handled in handleResult.
func (e *Engine) check(elementID, text string) {
	checkID := e.cfg.IDs()
	gen := e.sess.generation
	e.sess.state = StateChecking
	e.inflight = true

	e.cfg.Events.Send(e.ctx, events.New(events.CheckStarted, elementID, checkID))
	if err := e.cfg.Surface.ShowIndicator(e.ctx, elementID); err != nil {
		e.cfg.Logger.Warn("engine: show indicator failed", "element", elementID, "error", err)
	}
	e.cfg.Logger.Debug("engine: check started",
		"element", elementID, "check", checkID, "chars", len(text))

	go func() {
		res, err := e.cfg.Provider.Correct(e.ctx, text)
		select {
		case e.results <- checkResult{gen: gen, elementID: elementID, checkID: checkID, res: res, err: err}:
		case <-e.ctx.Done():
		}
	}()
}

func (e *Engine) handleResult(r checkResult) {
	e.inflight = false

	hide := func() {
		if err := e.cfg.Surface.HideIndicator(e.ctx, r.elementID); err != nil {
			e.cfg.Logger.Warn("engine: hide indicator failed", "element", r.elementID, "error", err)
		}
	}

	if r.gen != e.sess.generation {
		// A newer edit or a teardown superseded this check; discard the
		// response without touching session state.
		e.cfg.Logger.Debug("engine: stale check discarded",
			"element", r.elementID, "check", r.checkID)
		hide()
		return
	}

	e.sess.state = StateIdle
	hide()

	if r.err == nil {
		// Shape guard: never render an undefined or partial result. No-op
		// changes are dropped first; only genuinely malformed shapes fail.
		r.res.Normalize()
		if verr := r.res.Validate(); verr != nil {
			r.err = verr
		}
	}
	if r.err != nil {
		// No retry: the next edit naturally schedules a new attempt.
		e.cfg.Logger.Warn("engine: check failed",
			"element", r.elementID, "check", r.checkID, "error", r.err)
		ev := events.New(events.CheckFailed, r.elementID, r.checkID)
		ev.Error = r.err.Error()
		e.cfg.Events.Send(e.ctx, ev)
		return
	}

	ev := events.New(events.ResultReady, r.elementID, r.checkID)
	ev.Changes = len(r.res.Changes)
	e.cfg.Events.Send(e.ctx, ev)

	if r.res.Clean() {
		return
	}

	e.sess.current = r.res
	if err := e.cfg.Surface.ShowTooltip(e.ctx, r.elementID, r.res); err != nil {
		e.cfg.Logger.Warn("engine: show tooltip failed", "element", r.elementID, "error", err)
	}
}

// handleAcceptOne merges one accepted change into the live text, removes it
// from the current correction, and auto-closes once the sequence is empty.
func (e *Engine) handleAcceptOne(index int) {
	cur := e.sess.current
	if cur == nil || index < 0 || index >= len(cur.Changes) {
		return
	}
	ch := cur.Changes[index]

	text, ok := e.applyWrite(func(text string) (string, bool) {
		return applier.ApplyOne(text, ch)
	})
	if ok {
		cur.Corrected = text
	}

	cur.Changes = applier.Remove(cur.Changes, index)
	if len(cur.Changes) == 0 {
		e.hideTooltip()
		return
	}
	if err := e.cfg.Surface.RefreshTooltip(e.ctx, e.sess.active, cur); err != nil {
		e.cfg.Logger.Warn("engine: refresh tooltip failed", "error", err)
	}
}

func (e *Engine) handleAcceptAll() {
	cur := e.sess.current
	if cur == nil {
		return
	}
	e.applyWrite(func(text string) (string, bool) {
		return applier.ApplyAll(text, cur.Changes), true
	})
	e.hideTooltip()
}

// applyWrite reads the live text, transforms it, and writes it back under
// the re-entrancy guard. Returns the written text and whether a write
// happened.
func (e *Engine) applyWrite(transform func(string) (string, bool)) (string, bool) {
	id := e.sess.active
	if id == "" {
		return "", false
	}

	e.sess.applying = true
	defer func() { e.sess.applying = false }()

	text, err := e.cfg.Surface.ReadText(e.ctx, id)
	if err != nil {
		e.cfg.Logger.Warn("engine: read before apply failed", "element", id, "error", err)
		return "", false
	}
	out, matched := transform(text)
	if !matched {
		return "", false
	}
	if err := e.cfg.Surface.WriteText(e.ctx, id, out); err != nil {
		e.cfg.Logger.Warn("engine: write failed", "element", id, "error", err)
		return "", false
	}
	return out, true
}

func (e *Engine) handleDismiss() {
	if e.sess.current == nil {
		return
	}
	if e.sess.active != "" {
		e.sess.dismissed = e.sess.active
	}
	e.hideTooltip()
}

func (e *Engine) handleClose() {
	if e.sess.current == nil {
		return
	}
	e.hideTooltip()
}

func (e *Engine) handlePointer(targetID string, inTooltip bool) {
	if e.sess.current == nil || inTooltip || targetID == e.sess.active {
		return
	}
	e.hideTooltip()
}

// hideTooltip hides the surface and tears the session down. Teardown bumps
// the generation, so a response still in flight for the old session is
// discarded when it lands.
func (e *Engine) hideTooltip() {
	if e.sess.current != nil {
		if err := e.cfg.Surface.HideTooltip(e.ctx); err != nil {
			e.cfg.Logger.Warn("engine: hide tooltip failed", "error", err)
		}
	}
	e.stopTimer()
	e.sess.teardown()
}

func (e *Engine) armTimer() {
	if e.timer != nil {
		e.timer.Stop()
	}
	e.timer = time.NewTimer(e.cfg.Quiet)
	e.timerCh = e.timer.C
}

func (e *Engine) stopTimer() {
	if e.timer != nil {
		e.timer.Stop()
		e.timer = nil
		e.timerCh = nil
	}
}
