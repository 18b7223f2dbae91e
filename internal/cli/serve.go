package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"net"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/spf13/cobra"

	"github.com/matzehuels/animchart/pkg/buildinfo"
	"github.com/matzehuels/animchart/pkg/chart"
	"github.com/matzehuels/animchart/pkg/data"
	"github.com/matzehuels/animchart/pkg/errors"
	"github.com/matzehuels/animchart/pkg/observability"
	"github.com/matzehuels/animchart/pkg/render"
	"github.com/matzehuels/animchart/pkg/render/sink"
)

const (
	defaultAddr     = "127.0.0.1:8080"
	shutdownTimeout = 5 * time.Second
	maxBodyBytes    = 8 << 20
)

// serveCommand creates the serve command, which hosts chart containers over
// HTTP. Each container keeps its own marks and transitions; requests to one
// container are handled in arrival order.
func (c *CLI) serveCommand() *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Host chart containers over HTTP",
		Long: `Host chart containers over HTTP.

  POST   /containers                  create a container {"width", "height"}
  GET    /containers                  list container IDs
  POST   /containers/{id}/render      render {"config", "data"}
  POST   /containers/{id}/resize      observe a width {"width"}
  POST   /containers/{id}/click       hit-test a point {"x", "y"}
  GET    /containers/{id}/frame.svg   current frame (?settle=1 to jump to the end)
  DELETE /containers/{id}             remove a container`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context(), addr)
		},
	}
	cmd.Flags().StringVar(&addr, "addr", defaultAddr, "listen address")
	return cmd
}

func runServe(ctx context.Context, addr string) error {
	logger := loggerFromContext(ctx)
	srv := &http.Server{
		Addr:              addr,
		Handler:           newServer(render.NewHost(), logger),
		ReadHeaderTimeout: 10 * time.Second,
		BaseContext:       func(_ net.Listener) context.Context { return ctx },
	}

	errc := make(chan error, 1)
	go func() {
		errc <- srv.ListenAndServe()
	}()
	printSuccess("Listening on %s", addr)
	printNextStep("Create a container", "curl -X POST http://"+addr+"/containers")

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	logger.Info("shutting down")
	return srv.Shutdown(shutdownCtx)
}

// =============================================================================
// Routes
// =============================================================================

type server struct {
	host   *render.Host
	logger *log.Logger
}

// newServer returns the HTTP handler for host.
func newServer(host *render.Host, logger *log.Logger) http.Handler {
	s := &server{host: host, logger: logger}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(s.logRequests)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", s.health)
	r.Route("/containers", func(r chi.Router) {
		r.Post("/", s.createContainer)
		r.Get("/", s.listContainers)
		r.Route("/{id}", func(r chi.Router) {
			r.Delete("/", s.deleteContainer)
			r.Post("/render", s.renderContainer)
			r.Post("/resize", s.resizeContainer)
			r.Post("/click", s.clickContainer)
			r.Get("/frame.svg", s.frame)
		})
	})
	return r
}

// logRequests attaches a request-scoped logger to the context, logs each
// response and reports it to the HTTP hooks.
func (s *server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ctx := withLogger(r.Context(), s.logger.With("request", middleware.GetReqID(r.Context())))
		observability.HTTP().OnRequest(ctx, r.Method, r.URL.Path)

		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r.WithContext(ctx))

		elapsed := time.Since(start)
		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		observability.HTTP().OnResponse(ctx, r.Method, r.URL.Path, status, elapsed)
		loggerFromContext(ctx).Debug("http", "method", r.Method, "path", r.URL.Path, "status", status, "duration", elapsed)
	})
}

func (s *server) health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":     "ok",
		"containers": s.host.Len(),
		"build":      buildinfo.Get(),
	})
}

type createRequest struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

func (s *server) createContainer(w http.ResponseWriter, r *http.Request) {
	req := createRequest{Width: defaultWidth, Height: defaultHeight}
	if r.ContentLength != 0 {
		if err := decodeBody(w, r, &req); err != nil {
			writeError(w, r, err)
			return
		}
	}
	if req.Width <= 0 || req.Height <= 0 {
		writeError(w, r, errors.New(errors.ErrCodeInvalidConfig, "width and height must be positive"))
		return
	}
	id := s.host.Create(req.Width, req.Height, render.WithLogger(loggerFromContext(r.Context())))
	writeJSON(w, http.StatusCreated, map[string]string{"id": id})
}

func (s *server) listContainers(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string][]string{"containers": s.host.IDs()})
}

func (s *server) deleteContainer(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := errors.ValidateContainerID(id); err != nil {
		writeError(w, r, err)
		return
	}
	if !s.host.Delete(id) {
		writeError(w, r, errors.New(errors.ErrCodeNotFound, "container %s not found", id))
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type renderRequest struct {
	Config json.RawMessage `json:"config"`
	Data   json.RawMessage `json:"data"`
}

func (s *server) renderContainer(w http.ResponseWriter, r *http.Request) {
	var req renderRequest
	if err := decodeBody(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	if len(req.Config) == 0 {
		writeError(w, r, errors.New(errors.ErrCodeInvalidConfig, "config is required"))
		return
	}
	cfg, err := chart.Decode(bytes.NewReader(req.Config), chart.FormatJSON)
	if err != nil {
		writeError(w, r, err)
		return
	}
	var ds data.Dataset
	if len(req.Data) > 0 {
		if ds, err = data.ReadJSON(bytes.NewReader(req.Data)); err != nil {
			writeError(w, r, err)
			return
		}
	}
	cfg.Logger = loggerFromContext(r.Context())

	var report *render.Report
	err = s.host.With(chi.URLParam(r, "id"), func(c *render.Container) error {
		var err error
		report, err = c.Render(r.Context(), cfg, ds)
		return err
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, newReportResponse(report))
}

type resizeRequest struct {
	Width float64 `json:"width"`
}

func (s *server) resizeContainer(w http.ResponseWriter, r *http.Request) {
	var req resizeRequest
	if err := decodeBody(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	var pending bool
	err := s.host.With(chi.URLParam(r, "id"), func(c *render.Container) error {
		pending = c.ObserveWidth(req.Width)
		return nil
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusAccepted, map[string]bool{"pending": pending})
}

type clickRequest struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

func (s *server) clickContainer(w http.ResponseWriter, r *http.Request) {
	var req clickRequest
	if err := decodeBody(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	var (
		ev  chart.MarkEvent
		hit bool
	)
	err := s.host.With(chi.URLParam(r, "id"), func(c *render.Container) error {
		if _, err := c.Tick(r.Context()); err != nil {
			return err
		}
		ev, hit = c.Click(req.X, req.Y)
		return nil
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	if !hit {
		writeJSON(w, http.StatusOK, map[string]any{"hit": false})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"hit": true, "key": ev.Key, "index": ev.Index, "datum": ev.Datum})
}

func (s *server) frame(w http.ResponseWriter, r *http.Request) {
	settle := r.URL.Query().Get("settle") != ""
	var f *render.Frame
	err := s.host.With(chi.URLParam(r, "id"), func(c *render.Container) error {
		if _, err := c.Tick(r.Context()); err != nil {
			return err
		}
		if settle {
			c.Settle()
		}
		f = c.Frame()
		return nil
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "image/svg+xml")
	w.Write(sink.SVG(f, sink.WithMarkIDs()))
}

// =============================================================================
// Responses
// =============================================================================

type malformedResponse struct {
	Index  int    `json:"index"`
	Field  string `json:"field"`
	Reason string `json:"reason"`
}

type reportResponse struct {
	Container  string              `json:"container"`
	Kind       chart.Kind          `json:"kind"`
	Enter      []string            `json:"enter"`
	Update     []string            `json:"update"`
	Exit       []string            `json:"exit"`
	Duplicates []string            `json:"duplicates,omitempty"`
	Malformed  []malformedResponse `json:"malformed,omitempty"`
	Margin     chart.Margin        `json:"margin"`
}

func newReportResponse(r *render.Report) reportResponse {
	resp := reportResponse{
		Container:  r.Container,
		Kind:       r.Kind,
		Enter:      nonNil(r.Enter),
		Update:     nonNil(r.Update),
		Exit:       nonNil(r.Exit),
		Duplicates: r.Duplicates,
		Margin:     r.Margin,
	}
	for _, m := range r.Malformed {
		resp.Malformed = append(resp.Malformed, malformedResponse{Index: m.Index, Field: string(m.Field), Reason: m.Reason})
	}
	return resp
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

func decodeBody(w http.ResponseWriter, r *http.Request, v any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidFormat, err, "decode request body")
	}
	return nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// writeError maps error codes to HTTP statuses. Configuration errors are the
// caller's fault; the container keeps its previous state.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, errors.ErrCodeNotFound):
		status = http.StatusNotFound
	case errors.IsConfiguration(err), errors.Is(err, errors.ErrCodeInvalidDataset):
		status = http.StatusBadRequest
	}
	if status == http.StatusInternalServerError {
		loggerFromContext(r.Context()).Error("request failed", "path", r.URL.Path, "err", err)
	}
	writeJSON(w, status, map[string]string{
		"error": errors.UserMessage(err),
		"code":  string(errors.GetCode(err)),
	})
}
