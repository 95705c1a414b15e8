package monitor

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/go-rod/rod"

	"github.com/hazyhaar/proofwatch/correction"
	"github.com/hazyhaar/proofwatch/extract"
	"github.com/hazyhaar/proofwatch/overlay"
)

// pageSurface drives the injected script's UI helpers. Geometry is
// computed here with the overlay package; the page only measures boxes
// and applies the resolved coordinates.
type pageSurface struct {
	page     *rod.Page
	htmlText func(string) (string, error)
	logger   *slog.Logger
}

func newPageSurface(page *rod.Page, markdown bool, logger *slog.Logger) *pageSurface {
	if logger == nil {
		logger = slog.Default()
	}
	return &pageSurface{page: page, htmlText: htmlTextFunc(markdown), logger: logger}
}

// htmlTextFunc picks the extraction for contenteditable hosts: flat prose
// by default, markdown when the provider should see emphasis and structure.
func htmlTextFunc(markdown bool) func(string) (string, error) {
	if markdown {
		return extract.Markdown
	}
	return extract.Text
}

// evalJSON runs a page function whose return value is a JSON string and
// unmarshals it into out.
func (s *pageSurface) evalJSON(ctx context.Context, js string, out any, args ...any) error {
	res, err := s.page.Context(ctx).Eval(js, args...)
	if err != nil {
		return fmt.Errorf("monitor: eval: %w", err)
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal([]byte(res.Value.Str()), out); err != nil {
		return fmt.Errorf("monitor: decode eval result: %w", err)
	}
	return nil
}

// measurement is what the page reports back for geometry work.
type measurement struct {
	OK        bool             `json:"ok"`
	Anchor    overlay.Rect     `json:"anchor"`
	Viewport  overlay.Viewport `json:"viewport"`
	Indicator *overlay.Size    `json:"indicator,omitempty"`
	Tooltip   *overlay.Size    `json:"tooltip,omitempty"`
}

type readResult struct {
	OK   bool   `json:"ok"`
	Mode string `json:"mode"`
	Text string `json:"text"`
}

// ReadText returns the element's text. Value-backed fields come back as
// is; contenteditable hosts come back as HTML and are flattened to plain
// text with block boundaries as newlines.
func (s *pageSurface) ReadText(ctx context.Context, elementID string) (string, error) {
	var r readResult
	if err := s.evalJSON(ctx, `(id) => __pwRead(id)`, &r, elementID); err != nil {
		return "", err
	}
	if !r.OK {
		return "", fmt.Errorf("monitor: element %s not tracked", elementID)
	}
	if r.Mode == "html" {
		return s.htmlText(r.Text)
	}
	return r.Text, nil
}

func (s *pageSurface) WriteText(ctx context.Context, elementID, text string) error {
	var r readResult
	if err := s.evalJSON(ctx, `(id, text) => __pwWrite(id, text)`, &r, elementID, text); err != nil {
		return err
	}
	if !r.OK {
		return fmt.Errorf("monitor: element %s not tracked", elementID)
	}
	return nil
}

func (s *pageSurface) ShowIndicator(ctx context.Context, elementID string) error {
	var m measurement
	if err := s.evalJSON(ctx, `(id) => __pwShowIndicator(id)`, &m, elementID); err != nil {
		return err
	}
	if !m.OK || m.Indicator == nil {
		return fmt.Errorf("monitor: element %s not tracked", elementID)
	}
	pt := overlay.PlaceIndicator(m.Anchor, *m.Indicator, m.Viewport, overlay.DefaultPadding)
	return s.evalJSON(ctx, `(t, l) => __pwPositionIndicator(t, l)`, nil, pt.Top, pt.Left)
}

func (s *pageSurface) HideIndicator(ctx context.Context, _ string) error {
	return s.evalJSON(ctx, `() => __pwHideIndicator()`, nil)
}

// tooltipView is the render model handed to the page. Explanations come
// from the model and are sanitized before they reach the document.
type tooltipView struct {
	Changes []tooltipChange `json:"changes"`
}

type tooltipChange struct {
	Original    string `json:"original"`
	Replacement string `json:"replacement"`
	Explanation string `json:"explanation,omitempty"`
}

func (s *pageSurface) ShowTooltip(ctx context.Context, elementID string, res *correction.Result) error {
	return s.renderTooltip(ctx, elementID, res)
}

func (s *pageSurface) RefreshTooltip(ctx context.Context, elementID string, res *correction.Result) error {
	return s.renderTooltip(ctx, elementID, res)
}

// renderTooltip renders hidden, measures, resolves placement, positions.
func (s *pageSurface) renderTooltip(ctx context.Context, elementID string, res *correction.Result) error {
	view := tooltipView{Changes: make([]tooltipChange, 0, len(res.Changes))}
	for _, ch := range res.Changes {
		view.Changes = append(view.Changes, tooltipChange{
			Original:    ch.Original,
			Replacement: ch.Replacement,
			Explanation: extract.SanitizeExplanation(ch.Explanation),
		})
	}
	viewJSON, err := json.Marshal(view)
	if err != nil {
		return fmt.Errorf("monitor: marshal tooltip view: %w", err)
	}

	var m measurement
	if err := s.evalJSON(ctx, `(id, v) => __pwRenderTooltip(id, v)`, &m, elementID, string(viewJSON)); err != nil {
		return err
	}
	if !m.OK || m.Tooltip == nil {
		return fmt.Errorf("monitor: element %s not tracked", elementID)
	}
	return s.positionTooltip(ctx, m)
}

func (s *pageSurface) positionTooltip(ctx context.Context, m measurement) error {
	pl := overlay.PlaceTooltip(m.Anchor, *m.Tooltip, m.Viewport, overlay.DefaultGap, overlay.DefaultPadding)
	return s.evalJSON(ctx, `(t, l, a, x) => __pwPositionTooltip(t, l, a, x)`, nil,
		pl.Top, pl.Left, pl.Above, pl.ArrowX)
}

func (s *pageSurface) HideTooltip(ctx context.Context) error {
	return s.evalJSON(ctx, `() => __pwHideTooltip()`, nil)
}

// Reposition re-measures the anchor and re-applies placement for whatever
// overlay elements are on screen. Called once per animation frame at most.
func (s *pageSurface) Reposition(ctx context.Context, elementID string) {
	if elementID == "" {
		return
	}
	var m measurement
	if err := s.evalJSON(ctx, `(id) => __pwMeasure(id)`, &m, elementID); err != nil {
		s.logger.Debug("monitor: reposition measure failed", "element", elementID, "error", err)
		return
	}
	if !m.OK {
		return
	}
	if m.Tooltip != nil {
		if err := s.positionTooltip(ctx, m); err != nil {
			s.logger.Debug("monitor: reposition tooltip failed", "error", err)
		}
	}
	if m.Indicator != nil {
		pt := overlay.PlaceIndicator(m.Anchor, *m.Indicator, m.Viewport, overlay.DefaultPadding)
		if err := s.evalJSON(ctx, `(t, l) => __pwPositionIndicator(t, l)`, nil, pt.Top, pt.Left); err != nil {
			s.logger.Debug("monitor: reposition indicator failed", "error", err)
		}
	}
}
