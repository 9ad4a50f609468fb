package server

import (
	"encoding/json"
	stderrors "errors"
	"io"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/matzehuels/svcmap/pkg/buildinfo"
	"github.com/matzehuels/svcmap/pkg/errors"
	"github.com/matzehuels/svcmap/pkg/layout"
	"github.com/matzehuels/svcmap/pkg/pipeline"
	"github.com/matzehuels/svcmap/pkg/render/svg"
	"github.com/matzehuels/svcmap/pkg/topology"
)

// contentTypes maps pipeline formats to response content types.
var contentTypes = map[string]string{
	pipeline.FormatJSON:     "application/json",
	pipeline.FormatSVG:      "image/svg+xml",
	pipeline.FormatDOT:      "text/vnd.graphviz",
	pipeline.FormatNodelink: "image/svg+xml",
}

func (s *Server) fail(w http.ResponseWriter, r *http.Request, err error) {
	apiErr := toAPIError(err)
	if apiErr.Status >= http.StatusInternalServerError {
		s.logger.Error("request failed", "method", r.Method, "path", r.URL.Path, "error", err)
	}
	writeJSON(w, apiErr.Status, apiErr)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":  "ok",
		"version": buildinfo.Version,
		"views":   s.views.Len(),
	})
}

// handleLayout lays out the snapshot in the body. Query parameters:
// format (json, svg, dot, nodelink; default json), defaultSizes (default
// true), refresh.
func (s *Server) handleLayout(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	format := q.Get("format")
	if format == "" {
		format = pipeline.FormatJSON
	}
	defaultSizes, err := boolParam(q.Get("defaultSizes"), true)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	refresh, err := boolParam(q.Get("refresh"), false)
	if err != nil {
		s.fail(w, r, err)
		return
	}

	snap, err := topology.ReadJSON(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		s.fail(w, r, err)
		return
	}

	res, err := s.runner.Execute(r.Context(), *snap, pipeline.Options{
		Layout:       s.cfg.Layout,
		DefaultSizes: defaultSizes,
		Formats:      []string{format},
		Refresh:      refresh,
	})
	if err != nil {
		s.fail(w, r, err)
		return
	}

	w.Header().Set("Content-Type", contentTypes[format])
	w.Header().Set("X-Cache", cacheStatus(res.CacheInfo.FrameHit))
	w.Header().Set("ETag", strconv.Quote(res.FrameHash))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(res.Artifacts[format])
}

type createViewRequest struct {
	DefaultSizes bool               `json:"defaultSizes"`
	Topology     *topology.Snapshot `json:"topology,omitempty"`
}

type createViewResponse struct {
	*View
	Frame *layout.Frame `json:"frame"`
}

// handleCreateView creates a view. The body is optional; it may carry an
// initial topology.
func (s *Server) handleCreateView(w http.ResponseWriter, r *http.Request) {
	var req createViewRequest
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(&req); err != nil && !stderrors.Is(err, io.EOF) {
		s.fail(w, r, errors.Wrap(errors.ErrCodeInvalidFormat, err, "decode view request"))
		return
	}

	v := s.views.Create(req.DefaultSizes)
	if req.Topology != nil {
		if err := v.Engine.SetTopology(r.Context(), *req.Topology); err != nil {
			_ = s.views.Delete(v.ID)
			s.fail(w, r, err)
			return
		}
	}
	w.Header().Set("Location", "/api/views/"+v.ID)
	writeJSON(w, http.StatusCreated, createViewResponse{View: v, Frame: v.Engine.Frame()})
}

func (s *Server) view(w http.ResponseWriter, r *http.Request) (*View, bool) {
	v, err := s.views.Get(chi.URLParam(r, "id"))
	if err != nil {
		s.fail(w, r, err)
		return nil, false
	}
	return v, true
}

func (s *Server) handleSetTopology(w http.ResponseWriter, r *http.Request) {
	v, ok := s.view(w, r)
	if !ok {
		return
	}
	snap, err := topology.ReadJSON(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	if err := v.Engine.SetTopology(r.Context(), *snap); err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, v.Engine.Frame())
}

type measurementsResponse struct {
	Changed bool         `json:"changed"`
	Stats   layout.Stats `json:"stats"`
}

// handleMeasurements applies a batch of measurement callbacks. Cards not
// in the view's topology are ignored.
func (s *Server) handleMeasurements(w http.ResponseWriter, r *http.Request) {
	v, ok := s.view(w, r)
	if !ok {
		return
	}
	var ms []layout.Measurement
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&ms); err != nil {
		s.fail(w, r, errors.Wrap(errors.ErrCodeInvalidFormat, err, "decode measurements"))
		return
	}
	for _, m := range ms {
		if err := errors.ValidateID("card", m.CardID); err != nil {
			s.fail(w, r, errors.Wrap(errors.ErrCodeInvalidInput, err, "measurement"))
			return
		}
		if m.Width < 0 || m.Height < 0 {
			s.fail(w, r, errors.New(errors.ErrCodeInvalidInput, "card %s: negative size", m.CardID))
			return
		}
	}

	changed, err := v.Engine.MeasureCards(r.Context(), ms)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, measurementsResponse{Changed: changed, Stats: v.Engine.Stats()})
}

func (s *Server) handleFrame(w http.ResponseWriter, r *http.Request) {
	v, ok := s.view(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, v.Engine.Frame())
}

func (s *Server) handleSVG(w http.ResponseWriter, r *http.Request) {
	v, ok := s.view(w, r)
	if !ok {
		return
	}
	var opts []svg.Option
	if title := r.URL.Query().Get("title"); title != "" {
		opts = append(opts, svg.WithTitle(title))
	}
	w.Header().Set("Content-Type", contentTypes[pipeline.FormatSVG])
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(svg.Render(v.Engine.Frame(), opts...))
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	v, ok := s.view(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, v.Engine.Stats())
}

func (s *Server) handleDeleteView(w http.ResponseWriter, r *http.Request) {
	if err := s.views.Delete(chi.URLParam(r, "id")); err != nil {
		s.fail(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func boolParam(v string, def bool) (bool, error) {
	if v == "" {
		return def, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, errors.New(errors.ErrCodeInvalidInput, "invalid boolean %q", v)
	}
	return b, nil
}

func cacheStatus(hit bool) string {
	if hit {
		return "hit"
	}
	return "miss"
}
