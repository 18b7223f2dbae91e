package observability

import (
	"context"
	"testing"
	"time"
)

func TestNoopHooksDoNotPanic(t *testing.T) {
	ctx := context.Background()

	r := NoopRenderHooks{}
	r.OnRenderStart(ctx, "c1", "bar", 3)
	r.OnRenderComplete(ctx, "c1", 1, 2, 0, time.Millisecond, nil)
	r.OnMalformed(ctx, "c1", 2, "missing field")

	z := NoopResizeHooks{}
	z.OnResizeObserved("c1", 640)
	z.OnResizeFired("c1", 640)

	h := NoopHTTPHooks{}
	h.OnRequest(ctx, "POST", "/containers")
	h.OnResponse(ctx, "POST", "/containers", 201, time.Millisecond)
}

func TestGlobalHooksRegistry(t *testing.T) {
	Reset()

	if _, ok := Render().(NoopRenderHooks); !ok {
		t.Error("Render() should return NoopRenderHooks by default")
	}
	if _, ok := Resize().(NoopResizeHooks); !ok {
		t.Error("Resize() should return NoopResizeHooks by default")
	}
	if _, ok := HTTP().(NoopHTTPHooks); !ok {
		t.Error("HTTP() should return NoopHTTPHooks by default")
	}

	customRender := &testRenderHooks{}
	SetRenderHooks(customRender)
	if Render() != customRender {
		t.Error("SetRenderHooks should set custom hooks")
	}

	customResize := &testResizeHooks{}
	SetResizeHooks(customResize)
	if Resize() != customResize {
		t.Error("SetResizeHooks should set custom hooks")
	}

	customHTTP := &testHTTPHooks{}
	SetHTTPHooks(customHTTP)
	if HTTP() != customHTTP {
		t.Error("SetHTTPHooks should set custom hooks")
	}

	Reset()
	if _, ok := Render().(NoopRenderHooks); !ok {
		t.Error("Reset() should restore NoopRenderHooks")
	}
}

func TestSetNilHooksIsIgnored(t *testing.T) {
	Reset()

	custom := &testRenderHooks{}
	SetRenderHooks(custom)
	SetRenderHooks(nil)
	if Render() != custom {
		t.Error("SetRenderHooks(nil) should not replace existing hooks")
	}
	Reset()
}

func TestHooksReceiveEvents(t *testing.T) {
	Reset()
	defer Reset()

	hooks := &testRenderHooks{}
	SetRenderHooks(hooks)

	ctx := context.Background()
	Render().OnRenderStart(ctx, "c1", "line", 4)
	Render().OnRenderComplete(ctx, "c1", 4, 0, 0, time.Millisecond, nil)

	if hooks.started != 1 || hooks.completed != 1 {
		t.Errorf("started=%d completed=%d, want 1 and 1", hooks.started, hooks.completed)
	}
}

type testRenderHooks struct {
	NoopRenderHooks
	started, completed int
}

func (h *testRenderHooks) OnRenderStart(context.Context, string, string, int) { h.started++ }
func (h *testRenderHooks) OnRenderComplete(context.Context, string, int, int, int, time.Duration, error) {
	h.completed++
}

type testResizeHooks struct{ NoopResizeHooks }

type testHTTPHooks struct{ NoopHTTPHooks }
