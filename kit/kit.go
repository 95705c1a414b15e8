// Package kit holds small transport-neutral plumbing shared by the
// service surfaces: a uniform endpoint shape, middleware chaining, and
// adapters onto concrete transports.
package kit

import "context"

// Endpoint is the transport-neutral handler shape. Decode happens at the
// transport edge; the endpoint sees a typed request and returns a value
// the transport serializes.
type Endpoint func(ctx context.Context, req any) (any, error)

// Middleware wraps an Endpoint.
type Middleware func(Endpoint) Endpoint

// Chain composes middlewares outermost-first: Chain(a, b, c) runs a's
// before-code first and a's after-code last.
func Chain(mws ...Middleware) Middleware {
	return func(next Endpoint) Endpoint {
		for i := len(mws) - 1; i >= 0; i-- {
			next = mws[i](next)
		}
		return next
	}
}
