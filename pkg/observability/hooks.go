// Package observability provides hooks for metrics, tracing, and logging.
//
// Hooks let a host instrument rendering without the chart packages depending
// on a specific backend. Register implementations once at startup:
//
//	func main() {
//	    observability.SetRenderHooks(&myRenderHooks{})
//	    observability.SetHTTPHooks(&myHTTPHooks{})
//	    // ... run application
//	}
//
// Libraries call the registered hooks to emit events:
//
//	observability.Render().OnRenderStart(ctx, id, "bar", len(ds))
//	// ... reconcile and schedule ...
//	observability.Render().OnRenderComplete(ctx, id, enter, update, exit, duration, err)
//
// All defaults are no-ops.
package observability

import (
	"context"
	"sync"
	"time"
)

// =============================================================================
// Render Hooks
// =============================================================================

// RenderHooks receives events from chart containers.
type RenderHooks interface {
	// OnRenderStart is called before a render validates its input.
	OnRenderStart(ctx context.Context, container, kind string, records int)

	// OnRenderComplete is called after a render committed or was rejected.
	OnRenderComplete(ctx context.Context, container string, enter, update, exit int, duration time.Duration, err error)

	// OnMalformed is called once per skipped record.
	OnMalformed(ctx context.Context, container string, index int, reason string)
}

// =============================================================================
// Resize Hooks
// =============================================================================

// ResizeHooks receives events from the resize controller.
type ResizeHooks interface {
	// OnResizeObserved records a width change that armed the debounce timer.
	OnResizeObserved(container string, width float64)

	// OnResizeFired records a debounced rebuild.
	OnResizeFired(container string, width float64)
}

// =============================================================================
// HTTP Hooks
// =============================================================================

// HTTPHooks receives events from the HTTP server.
type HTTPHooks interface {
	// OnRequest records an incoming request.
	OnRequest(ctx context.Context, method, path string)

	// OnResponse records a completed response.
	OnResponse(ctx context.Context, method, path string, statusCode int, duration time.Duration)
}

// =============================================================================
// No-op Implementations
// =============================================================================

// NoopRenderHooks is a no-op implementation of RenderHooks.
type NoopRenderHooks struct{}

func (NoopRenderHooks) OnRenderStart(context.Context, string, string, int) {}
func (NoopRenderHooks) OnRenderComplete(context.Context, string, int, int, int, time.Duration, error) {
}
func (NoopRenderHooks) OnMalformed(context.Context, string, int, string) {}

// NoopResizeHooks is a no-op implementation of ResizeHooks.
type NoopResizeHooks struct{}

func (NoopResizeHooks) OnResizeObserved(string, float64) {}
func (NoopResizeHooks) OnResizeFired(string, float64)    {}

// NoopHTTPHooks is a no-op implementation of HTTPHooks.
type NoopHTTPHooks struct{}

func (NoopHTTPHooks) OnRequest(context.Context, string, string)                      {}
func (NoopHTTPHooks) OnResponse(context.Context, string, string, int, time.Duration) {}

// =============================================================================
// Global Hook Registry
// =============================================================================

var (
	renderHooks RenderHooks = NoopRenderHooks{}
	resizeHooks ResizeHooks = NoopResizeHooks{}
	httpHooks   HTTPHooks   = NoopHTTPHooks{}
	hooksMu     sync.RWMutex
)

// SetRenderHooks registers custom render hooks.
// This should be called once at application startup before any render.
func SetRenderHooks(h RenderHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		renderHooks = h
	}
}

// SetResizeHooks registers custom resize hooks.
func SetResizeHooks(h ResizeHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		resizeHooks = h
	}
}

// SetHTTPHooks registers custom HTTP hooks.
// This should be called once at application startup before serving.
func SetHTTPHooks(h HTTPHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		httpHooks = h
	}
}

// Render returns the registered render hooks.
func Render() RenderHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return renderHooks
}

// Resize returns the registered resize hooks.
func Resize() ResizeHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return resizeHooks
}

// HTTP returns the registered HTTP hooks.
func HTTP() HTTPHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return httpHooks
}

// Reset restores all hooks to their no-op defaults.
// This is primarily useful for testing.
func Reset() {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	renderHooks = NoopRenderHooks{}
	resizeHooks = NoopResizeHooks{}
	httpHooks = NoopHTTPHooks{}
}
