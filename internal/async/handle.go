// Package async provides the cancellable operation handle that ties one
// interactive pick to the command waiting for it.
package async

import "sync"

// Status is the resolution state of a Handle.
type Status int32

const (
	// StatusPending means the operation is still in flight.
	StatusPending Status = iota

	// StatusSucceeded means the operation resolved positively.
	StatusSucceeded

	// StatusCancelled means the operation was cancelled.
	StatusCancelled
)

// String returns a human-readable status name.
func (s Status) String() string {
	switch s {
	case StatusPending:
		return "pending"
	case StatusSucceeded:
		return "succeeded"
	case StatusCancelled:
		return "cancelled"
	default:
		return "unknown"
	}
}

// Handle represents one in-flight operation. It resolves exactly once, either
// by Success or by Cancel; later calls are no-ops.
//
// Listeners run synchronously on the goroutine that resolves the handle,
// without the handle's lock held, so they may call back into the handle.
// Cancel listeners always run before settle listeners: resources released in
// OnCancelled are gone by the time anyone observes the final status.
type Handle struct {
	mu          sync.Mutex
	status      Status
	onCancelled []func()
	onSettled   []func(Status)
	done        chan struct{}
}

// New creates a pending handle.
func New() *Handle {
	return &Handle{done: make(chan struct{})}
}

// Status returns the current status.
func (h *Handle) Status() Status {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.status
}

// IsSettled reports whether the handle has resolved.
func (h *Handle) IsSettled() bool {
	return h.Status() != StatusPending
}

// IsCancelled reports whether the handle resolved by cancellation.
func (h *Handle) IsCancelled() bool {
	return h.Status() == StatusCancelled
}

// Done returns a channel that is closed once the handle resolves.
func (h *Handle) Done() <-chan struct{} {
	return h.done
}

// Success resolves the handle positively.
// Returns false if the handle had already resolved.
func (h *Handle) Success() bool {
	return h.resolve(StatusSucceeded)
}

// Cancel resolves the handle negatively.
// Returns false if the handle had already resolved.
func (h *Handle) Cancel() bool {
	return h.resolve(StatusCancelled)
}

// OnCancelled registers fn to run when the handle is cancelled. If the handle
// is already cancelled fn runs immediately; if it already succeeded fn never runs.
func (h *Handle) OnCancelled(fn func()) {
	h.mu.Lock()
	switch h.status {
	case StatusPending:
		h.onCancelled = append(h.onCancelled, fn)
		h.mu.Unlock()
	case StatusCancelled:
		h.mu.Unlock()
		fn()
	default:
		h.mu.Unlock()
	}
}

// OnSettled registers fn to run once the handle resolves. If the handle has
// already resolved fn runs immediately with the final status.
func (h *Handle) OnSettled(fn func(Status)) {
	h.mu.Lock()
	if h.status == StatusPending {
		h.onSettled = append(h.onSettled, fn)
		h.mu.Unlock()
		return
	}
	status := h.status
	h.mu.Unlock()
	fn(status)
}

func (h *Handle) resolve(status Status) bool {
	h.mu.Lock()
	if h.status != StatusPending {
		h.mu.Unlock()
		return false
	}
	h.status = status
	cancelled := h.onCancelled
	settled := h.onSettled
	h.onCancelled = nil
	h.onSettled = nil
	close(h.done)
	h.mu.Unlock()

	if status == StatusCancelled {
		for _, fn := range cancelled {
			fn()
		}
	}
	for _, fn := range settled {
		fn(status)
	}
	return true
}
