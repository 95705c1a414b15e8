package engine

import (
	"context"

	"github.com/hazyhaar/proofwatch/correction"
)

// Surface is the presentation boundary the engine drives. The monitor
// implements it against a live page; tests implement it in memory.
//
// WriteText must perform a suppressed write: the input event the write
// provokes in the host document must not be re-delivered to the engine.
// The engine's own re-entrancy guard only covers synchronous re-entry
// during the write call itself.
type Surface interface {
	// ReadText returns the element's current text content. The engine
	// always reads fresh at fire time, never at arm time.
	ReadText(ctx context.Context, elementID string) (string, error)

	// ShowIndicator and HideIndicator manage the transient "checking"
	// marker anchored to the element.
	ShowIndicator(ctx context.Context, elementID string) error
	HideIndicator(ctx context.Context, elementID string) error

	// ShowTooltip renders the correction surface; RefreshTooltip redraws
	// it after a change was accepted; HideTooltip removes it.
	ShowTooltip(ctx context.Context, elementID string, res *correction.Result) error
	RefreshTooltip(ctx context.Context, elementID string, res *correction.Result) error
	HideTooltip(ctx context.Context) error

	// WriteText replaces the element's text content, suppressed.
	WriteText(ctx context.Context, elementID, text string) error
}
