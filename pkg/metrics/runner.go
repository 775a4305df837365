package metrics

import "context"

// Op is a single recording action against an already-resolved backend child.
// The label binding happened before the Op was built, so running an Op never
// validates or re-registers anything.
type Op func(ctx context.Context)

// Runner is the execution strategy a handle records through. Every handle
// operation is funneled through exactly one Runner call, which makes the
// Runner the only substitution point for execution semantics: a handle whose
// Runner is replaced keeps its name, its registration, and the backend child
// it addresses.
type Runner func(ctx context.Context, op Op)

// SyncRunner executes operations immediately on the calling goroutine. It is
// the default strategy for every handle.
func SyncRunner() Runner {
	return func(ctx context.Context, op Op) {
		op(ctx)
	}
}

// Middleware rewrites one Runner into another. It must preserve structure:
// wrapping a Runner may decide how or when an Op runs, but the Op itself is
// opaque and must be passed through unmodified. Middlewares compose by
// ordinary function composition and the identity middleware
// (func(r Runner) Runner { return r }) changes nothing.
type Middleware func(Runner) Runner

// Chain composes middlewares into one. Chain(m1, m2) applies m1 outermost:
// handle.WithRunner(Chain(m1, m2)) behaves like
// handle.WithRunner(m2).WithRunner(m1).
func Chain(ms ...Middleware) Middleware {
	return func(r Runner) Runner {
		for i := len(ms) - 1; i >= 0; i-- {
			r = ms[i](r)
		}
		return r
	}
}
