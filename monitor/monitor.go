// Package monitor attaches the correction engine to a live page: it owns
// the Chrome connection, injects the page script, routes binding events
// into the engine, and keeps the overlays positioned.
package monitor

import (
	"context"
	_ "embed"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/proto"

	"github.com/hazyhaar/proofwatch/engine"
	"github.com/hazyhaar/proofwatch/events"
	"github.com/hazyhaar/proofwatch/monitor/internal/browser"
	"github.com/hazyhaar/proofwatch/overlay"
	"github.com/hazyhaar/proofwatch/provider"
	"github.com/hazyhaar/proofwatch/settings"
)

//go:embed script.js
var pageScript []byte

const bindingName = "__proofwatch"

// frameInterval drives the reposition scheduler. The page already
// coalesces scroll and resize into one message per animation frame; this
// only bounds how quickly a pending reposition is serviced.
const frameInterval = 16 * time.Millisecond

// Monitor wires browser, engine, settings, and events together.
type Monitor struct {
	cfg    *Config
	store  *settings.Store
	mgr    *browser.Manager
	eng    *engine.Engine
	surf   *pageSurface
	page   *rod.Page
	sched  *overlay.Scheduler
	sink   events.Sink
	logger *slog.Logger
}

// New opens the settings store and prepares a Monitor. Run does the rest.
func New(cfg *Config, logger *slog.Logger) (*Monitor, error) {
	if cfg == nil {
		return nil, fmt.Errorf("monitor: nil config")
	}
	cfg.defaults()
	if logger == nil {
		logger = slog.Default()
	}

	store, err := settings.Open(cfg.DBPath)
	if err != nil {
		return nil, err
	}

	sinks := []events.Sink{}
	if cfg.EventLog {
		sinks = append(sinks, events.NewStdout(nil))
	}
	if cfg.WebhookURL != "" {
		sinks = append(sinks, events.NewWebhook(cfg.WebhookURL, events.WithWebhookLogger(logger)))
	}
	var sink events.Sink = events.Discard
	if len(sinks) > 0 {
		sink = events.NewRouter(logger, sinks...)
	}

	return &Monitor{
		cfg:    cfg,
		store:  store,
		sink:   sink,
		logger: logger,
	}, nil
}

// Status answers the status capability against the settings store.
func (m *Monitor) Status(ctx context.Context) (settings.Status, error) {
	return m.store.StatusOf(ctx, func(name string) bool {
		meta, ok := provider.Lookup(name)
		return ok && meta.RequiresKey
	})
}

// Snapshot exposes the engine's session view for the admin surface.
// Zero value before Run reaches the attach phase.
func (m *Monitor) Snapshot() engine.Snapshot {
	if m.eng == nil {
		return engine.Snapshot{}
	}
	return m.eng.Snapshot()
}

// Run attaches to the page and processes events until ctx is cancelled.
//
// The status gate is decisive: when the feature is disabled or no usable
// provider is configured, Run installs nothing on the page — no binding,
// no listeners — and simply waits for cancellation.
func (m *Monitor) Run(ctx context.Context) error {
	defer m.store.Close()

	st, err := m.Status(ctx)
	if err != nil {
		return err
	}
	if !st.Enabled || !st.Configured {
		m.logger.Info("monitor: inactive",
			"enabled", st.Enabled, "configured", st.Configured)
		<-ctx.Done()
		return nil
	}

	prov, err := m.openProvider(ctx)
	if err != nil {
		return err
	}

	m.mgr = browser.NewManager(browser.Config{
		RemoteURL: m.cfg.Browser.RemoteURL,
		Headful:   m.cfg.Browser.Headful,
		Logger:    m.logger,
	})
	defer m.mgr.Close()

	if _, err := m.mgr.Start(ctx); err != nil {
		return err
	}
	page, err := m.mgr.NewPage()
	if err != nil {
		return err
	}
	m.page = page
	m.surf = newPageSurface(page, m.cfg.Check.Markdown, m.logger)

	eng, err := engine.New(engine.Config{
		Surface:   m.surf,
		Provider:  prov,
		Events:    m.sink,
		Quiet:     m.cfg.Check.Quiet,
		MinLength: m.cfg.Check.MinLength,
		Logger:    m.logger,
	})
	if err != nil {
		return err
	}
	m.eng = eng
	eng.SetContext(ctx)

	m.sched = overlay.NewScheduler(func() {
		snap := eng.Snapshot()
		if snap.ActiveElement != "" {
			m.surf.Reposition(ctx, snap.ActiveElement)
		}
	})

	if err := m.inject(ctx); err != nil {
		return err
	}

	eng.Start()
	defer eng.Stop()
	go m.frameLoop(ctx)

	if m.cfg.PageURL != "" {
		if err := m.mgr.Navigate(ctx, page, m.cfg.PageURL); err != nil {
			return err
		}
	}
	m.logger.Info("monitor: attached", "url", m.cfg.PageURL)

	<-ctx.Done()
	return nil
}

// openProvider resolves the backend: file config wins over the stored
// selection, key and model fall back to the store.
func (m *Monitor) openProvider(ctx context.Context) (provider.Provider, error) {
	name := m.cfg.Provider
	if name == "" {
		var err error
		if name, err = m.store.Get(ctx, settings.KeyProvider); err != nil {
			return nil, err
		}
	}
	key := m.cfg.APIKey
	if key == "" {
		var err error
		if key, err = m.store.Get(ctx, settings.KeyAPIKey); err != nil {
			return nil, err
		}
	}
	model := m.cfg.Model
	if model == "" {
		var err error
		if model, err = m.store.Get(ctx, settings.KeyModel); err != nil {
			return nil, err
		}
	}

	return provider.Open(name, provider.Config{
		APIKey: key,
		Model:  model,
		Rules:  m.cfg.Rules,
		Logger: m.logger,
	})
}

// inject installs the binding and arranges the page script to run in every
// document the page loads, including after navigations.
func (m *Monitor) inject(ctx context.Context) error {
	if err := (proto.RuntimeAddBinding{Name: bindingName}).Call(m.page); err != nil {
		return fmt.Errorf("monitor: add binding: %w", err)
	}
	go m.listenBinding(ctx)

	if _, err := m.page.EvalOnNewDocument(string(pageScript)); err != nil {
		return fmt.Errorf("monitor: install page script: %w", err)
	}
	return nil
}

// listenBinding receives page script messages via Runtime.bindingCalled
// and routes them into the engine.
func (m *Monitor) listenBinding(ctx context.Context) {
	m.page.Context(ctx).EachEvent(func(e *proto.RuntimeBindingCalled) {
		if e.Name != bindingName {
			return
		}
		p, err := parsePayload(e.Payload)
		if err != nil {
			m.logger.Warn("monitor: bad binding payload", "error", err)
			return
		}
		m.dispatch(p)
	})()
}

func (m *Monitor) dispatch(p *eventPayload) {
	switch p.Kind {
	case "input":
		if n := p.node(); n != nil {
			m.eng.Input(n)
			m.sched.Request()
		}
	case "blur":
		if n := p.node(); n != nil {
			m.eng.Blur(n, p.ToTooltip)
		}
	case "pointer":
		m.eng.Pointer(p.TargetID, p.InTooltip)
	case "accept_one":
		m.eng.AcceptOne(p.Index)
	case "accept_all":
		m.eng.AcceptAll()
	case "dismiss":
		m.eng.Dismiss()
	case "close":
		m.eng.Close()
	case "frame":
		m.sched.Request()
	default:
		m.logger.Debug("monitor: unknown payload kind", "kind", p.Kind)
	}
}

func (m *Monitor) frameLoop(ctx context.Context) {
	t := time.NewTicker(frameInterval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			m.sched.Tick()
		}
	}
}
