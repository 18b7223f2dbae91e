package cli

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/animchart/pkg/render"
)

const renderBody = `{
	"config": {"chart_type": "bar", "x_field": "name", "y_field": "value", "duration_ms": -1, "stagger_ms": -1},
	"data": [{"name": "a", "value": 10}, {"name": "b", "value": 20}]
}`

func newTestServer(t *testing.T) (*httptest.Server, *render.Host) {
	t.Helper()
	host := render.NewHost()
	srv := httptest.NewServer(newServer(host, log.New(io.Discard)))
	t.Cleanup(srv.Close)
	return srv, host
}

func do(t *testing.T, method, url, body string) (*http.Response, []byte) {
	t.Helper()
	req, err := http.NewRequest(method, url, strings.NewReader(body))
	if err != nil {
		t.Fatal(err)
	}
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	b, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatal(err)
	}
	return resp, b
}

func createContainer(t *testing.T, base string) string {
	t.Helper()
	resp, body := do(t, http.MethodPost, base+"/containers", `{"width": 400, "height": 200}`)
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("create: status %d: %s", resp.StatusCode, body)
	}
	var out struct{ ID string }
	if err := json.Unmarshal(body, &out); err != nil {
		t.Fatal(err)
	}
	return out.ID
}

func TestServeLifecycle(t *testing.T) {
	srv, host := newTestServer(t)
	id := createContainer(t, srv.URL)
	base := srv.URL + "/containers/" + id

	resp, body := do(t, http.MethodPost, base+"/render", renderBody)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("render: status %d: %s", resp.StatusCode, body)
	}
	var report reportResponse
	if err := json.Unmarshal(body, &report); err != nil {
		t.Fatal(err)
	}
	if len(report.Enter) != 2 || report.Kind != "bar" || report.Container != id {
		t.Errorf("report = %+v", report)
	}

	resp, body = do(t, http.MethodGet, base+"/frame.svg?settle=1", "")
	if resp.StatusCode != http.StatusOK || resp.Header.Get("Content-Type") != "image/svg+xml" {
		t.Fatalf("frame: status %d, type %s", resp.StatusCode, resp.Header.Get("Content-Type"))
	}
	if !strings.Contains(string(body), `data-key="b"`) {
		t.Errorf("frame missing mark b")
	}

	resp, body = do(t, http.MethodPost, base+"/resize", `{"width": 400}`)
	if resp.StatusCode != http.StatusAccepted || !strings.Contains(string(body), `"pending":false`) {
		t.Errorf("resize: status %d: %s", resp.StatusCode, body)
	}
	resp, body = do(t, http.MethodPost, base+"/resize", `{"width": 300}`)
	if !strings.Contains(string(body), `"pending":true`) {
		t.Errorf("resize to a new width: %s", body)
	}

	resp, _ = do(t, http.MethodDelete, base, "")
	if resp.StatusCode != http.StatusNoContent {
		t.Errorf("delete: status %d", resp.StatusCode)
	}
	if host.Len() != 0 {
		t.Errorf("host has %d containers after delete", host.Len())
	}
	resp, _ = do(t, http.MethodDelete, base, "")
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("second delete: status %d, want 404", resp.StatusCode)
	}
}

func TestServeErrors(t *testing.T) {
	srv, _ := newTestServer(t)
	id := createContainer(t, srv.URL)

	tests := []struct {
		name   string
		method string
		path   string
		body   string
		status int
		code   string
	}{
		{"unknown container", http.MethodPost, "/containers/2f1e4b9c-7d3a-4c55-9a1e-1b2c3d4e5f60/render", renderBody, http.StatusNotFound, "NOT_FOUND"},
		{"malformed id", http.MethodGet, "/containers/nope/frame.svg", "", http.StatusNotFound, "NOT_FOUND"},
		{"missing config", http.MethodPost, "/containers/" + id + "/render", `{"data": []}`, http.StatusBadRequest, "INVALID_CONFIG"},
		{"bad chart type", http.MethodPost, "/containers/" + id + "/render", `{"config": {"chart_type": "pie3d"}}`, http.StatusBadRequest, "INVALID_CHART_TYPE"},
		{"bad body", http.MethodPost, "/containers/" + id + "/resize", `{"w": 1}`, http.StatusBadRequest, "INVALID_FORMAT"},
		{"bad size", http.MethodPost, "/containers", `{"width": -1, "height": 10}`, http.StatusBadRequest, "INVALID_CONFIG"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, body := do(t, tt.method, srv.URL+tt.path, tt.body)
			if resp.StatusCode != tt.status {
				t.Errorf("status = %d, want %d (%s)", resp.StatusCode, tt.status, body)
			}
			var out struct{ Code string }
			json.Unmarshal(body, &out)
			if out.Code != tt.code {
				t.Errorf("code = %q, want %q", out.Code, tt.code)
			}
		})
	}
}

func TestServeClick(t *testing.T) {
	srv, _ := newTestServer(t)
	id := createContainer(t, srv.URL)
	base := srv.URL + "/containers/" + id

	do(t, http.MethodPost, base+"/render", renderBody)
	// Timing is disabled, so b is at full height as soon as the click
	// ticks the container. The bottom-right of the plot is inside it.
	_, body := do(t, http.MethodPost, base+"/click", `{"x": 360, "y": 160}`)
	if !strings.Contains(string(body), `"key":"b"`) {
		t.Errorf("click = %s, want key b", body)
	}
	_, body = do(t, http.MethodPost, base+"/click", `{"x": 1, "y": 1}`)
	if !strings.Contains(string(body), `"hit":false`) {
		t.Errorf("click outside = %s", body)
	}
}

func TestHealth(t *testing.T) {
	srv, _ := newTestServer(t)
	resp, body := do(t, http.MethodGet, srv.URL+"/healthz", "")
	if resp.StatusCode != http.StatusOK || !strings.Contains(string(body), `"status":"ok"`) {
		t.Errorf("healthz: %d %s", resp.StatusCode, body)
	}
}
