package loadable

import "context"

// Dispatch sends an action back into the host store. The host framework
// supplies this; the loadable reducer only ever calls it, never inspects
// it.
type Dispatch[A any] func(A)

// Effect is a deferred, possibly-cancellable description of asynchronous
// work that eventually dispatches actions back to the store via Dispatch.
// A nil Run is a no-op effect.
type Effect[A any] struct {
	Run func(ctx context.Context, dispatch Dispatch[A])
}

// None is the effect that does nothing.
func None[A any]() Effect[A] {
	return Effect[A]{}
}

// IsNone reports whether the effect has no work to run.
func (e Effect[A]) IsNone() bool {
	return e.Run == nil
}

// Merge combines zero or more effects into one that runs all of them. None
// effects are dropped, and a single remaining effect is returned as is, so
// it runs on the caller's goroutine. With two or more, each component runs
// on its own goroutine and the combined Run returns without waiting for
// them to finish.
func Merge[A any](effects ...Effect[A]) Effect[A] {
	live := make([]Effect[A], 0, len(effects))
	for _, e := range effects {
		if !e.IsNone() {
			live = append(live, e)
		}
	}
	if len(live) == 0 {
		return None[A]()
	}
	if len(live) == 1 {
		return live[0]
	}
	return Effect[A]{Run: func(ctx context.Context, dispatch Dispatch[A]) {
		for _, e := range live {
			go e.Run(ctx, dispatch)
		}
	}}
}

// FireAndForget builds an Effect that synchronously dispatches a single
// fixed action - the simplest effect a host can feed back into its store.
func FireAndForget[A any](action A) Effect[A] {
	return Effect[A]{Run: func(_ context.Context, dispatch Dispatch[A]) {
		dispatch(action)
	}}
}
