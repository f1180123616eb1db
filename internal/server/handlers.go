package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/sfx/internal/devices"
	"github.com/desertthunder/sfx/internal/formatter"
	"github.com/desertthunder/sfx/internal/models"
	"github.com/desertthunder/sfx/internal/shared"
	"github.com/desertthunder/sfx/internal/state"
	"github.com/desertthunder/sfx/internal/tasks"
)

// maxBodyBytes bounds request bodies.
const maxBodyBytes = 1 << 20

// Engine is the subset of [tasks.Engine] the API drives.
type Engine interface {
	state.Enricher
	Fetch(ctx context.Context, input string, progress chan<- tasks.ProgressUpdate) (*models.Playlist, error)
}

// API serves the playlist, analysis, filter, export and device endpoints over one [state.App].
type API struct {
	app    *state.App
	engine Engine
	logger *log.Logger
}

// NewAPI creates an API over app, fetching and enriching through engine.
func NewAPI(app *state.App, engine Engine, logger *log.Logger) *API {
	return &API{app: app, engine: engine, logger: logger}
}

// Register adds every API route to r.
func (a *API) Register(r Router) {
	r.Handle(http.MethodPost, "/api/playlist", http.HandlerFunc(a.fetchPlaylist))
	r.Handle(http.MethodPost, "/api/analyze", http.HandlerFunc(a.analyze))
	r.Handle(http.MethodGet, "/api/filters/available", http.HandlerFunc(a.availableFilters))
	r.Handle(http.MethodGet, "/api/filters", http.HandlerFunc(a.getFilters))
	r.Handle(http.MethodPut, "/api/filters", http.HandlerFunc(a.putFilters))
	r.Handle(http.MethodDelete, "/api/filters", http.HandlerFunc(a.resetFilters))
	r.Handle(http.MethodGet, "/api/records", http.HandlerFunc(a.records))
	r.Handle(http.MethodGet, "/api/export", http.HandlerFunc(a.export))
	r.Handle(http.MethodPost, "/api/devices/normalize", http.HandlerFunc(a.normalizeDevices))
	r.Handler(healthHandler{app: a.app})
}

// NewHandler builds the full HTTP handler: request IDs, recovery, logging and the API routes.
func NewHandler(app *state.App, engine Engine, logger *log.Logger) http.Handler {
	r := NewBasicRouter()
	r.Use(RequestID(), Recover(logger), Logging(logger))
	NewAPI(app, engine, logger).Register(r)
	return r
}

type playlistRequest struct {
	Input string `json:"input"`
}

type playlistResponse struct {
	ID     string         `json:"id"`
	Tracks []models.Track `json:"tracks"`
}

func (a *API) fetchPlaylist(w http.ResponseWriter, r *http.Request) {
	var req playlistRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	pl, err := a.engine.Fetch(r.Context(), req.Input, nil)
	switch {
	case errors.Is(err, shared.ErrMissingArgument):
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	case errors.Is(err, shared.ErrPlaylistNotFound):
		writeError(w, r, http.StatusNotFound, "playlist not found")
		return
	case err != nil:
		a.logger.Error("playlist fetch failed", "input", req.Input, "err", err, "request_id", RequestIDFrom(r.Context()))
		writeError(w, r, http.StatusBadGateway, "failed to fetch playlist, check that the ID is correct")
		return
	}

	a.app.SetPlaylist(pl.ID, pl.Tracks)
	writeJSON(w, http.StatusOK, playlistResponse{ID: pl.ID, Tracks: a.app.Tracks()})
}

type recordEvent struct {
	Record   models.FacetRecord `json:"record"`
	Progress models.Progress    `json:"progress"`
}

type doneEvent struct {
	RunID     string                  `json:"run_id"`
	Records   int                     `json:"records"`
	Total     int                     `json:"total"`
	Available models.AvailableFilters `json:"available"`
}

type supersededEvent struct {
	RunID   string `json:"run_id"`
	Records int    `json:"records"`
	Total   int    `json:"total"`
}

// analyze runs an enrichment over the loaded tracks and streams it as server-sent events:
// "progress" before each fetch and after skipped or failed tracks, "record" for each extracted
// record, and a final "done". A run replaced by a new fetch or analysis ends with "superseded".
func (a *API) analyze(w http.ResponseWriter, r *http.Request) {
	rc := http.NewResponseController(w)
	started := false

	result, err := a.app.Analyze(r.Context(), a.engine, nil, func(step tasks.Step) {
		if !started {
			w.Header().Set("Content-Type", "text/event-stream")
			w.Header().Set("Cache-Control", "no-cache")
			w.Header().Set("Connection", "keep-alive")
			w.WriteHeader(http.StatusOK)
			started = true
		}

		switch step.Kind {
		case tasks.TrackEnriched:
			writeEvent(w, "record", recordEvent{Record: *step.Record, Progress: step.Progress})
		case tasks.Finished:
			return
		default:
			writeEvent(w, "progress", step.Progress)
		}
		rc.Flush()
	})

	if !started {
		switch {
		case errors.Is(err, shared.ErrNoTracks):
			writeError(w, r, http.StatusBadRequest, err.Error())
		case errors.Is(err, shared.ErrAnalysisRunning), errors.Is(err, shared.ErrAnalysisSuperseded):
			writeError(w, r, http.StatusConflict, err.Error())
		case err != nil:
			writeError(w, r, http.StatusInternalServerError, err.Error())
		}
		return
	}
	if errors.Is(err, shared.ErrAnalysisSuperseded) {
		a.logger.Info("analysis superseded", "run", result.RunID)
		writeEvent(w, "superseded", supersededEvent{
			RunID:   result.RunID,
			Records: len(result.Records),
			Total:   result.Total,
		})
		rc.Flush()
		return
	}
	if err != nil {
		a.logger.Info("analysis canceled", "err", err)
		return
	}

	writeEvent(w, "done", doneEvent{
		RunID:     result.RunID,
		Records:   len(result.Records),
		Total:     result.Total,
		Available: a.app.Available(),
	})
	rc.Flush()
}

type availableResponse struct {
	models.AvailableFilters
	BPMDisplay *models.BPMRange `json:"bpm_display,omitempty"`
}

func (a *API) availableFilters(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, availableResponse{
		AvailableFilters: a.app.Available(),
		BPMDisplay:       a.app.BPMDisplay(),
	})
}

func (a *API) getFilters(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, a.app.Filters())
}

func (a *API) putFilters(w http.ResponseWriter, r *http.Request) {
	var opts models.FilterOptions
	if err := decodeBody(r, &opts); err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}
	if err := a.app.SetFilters(opts); err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, a.app.Filters())
}

func (a *API) resetFilters(w http.ResponseWriter, r *http.Request) {
	a.app.ResetFilters()
	writeJSON(w, http.StatusOK, a.app.Filters())
}

type recordsResponse struct {
	Records  []models.FacetRecord `json:"records"`
	Total    int                  `json:"total"`
	Progress models.Progress      `json:"progress"`
}

// records returns the filtered records; ?all=true skips filtering.
func (a *API) records(w http.ResponseWriter, r *http.Request) {
	all := a.app.Records()
	out := a.app.Filtered()
	if r.URL.Query().Get("all") == "true" {
		out = all
	}
	writeJSON(w, http.StatusOK, recordsResponse{Records: out, Total: len(all), Progress: a.app.Progress()})
}

var contentTypes = map[formatter.Format]string{
	formatter.FormatText:     "text/plain; charset=utf-8",
	formatter.FormatTable:    "text/plain; charset=utf-8",
	formatter.FormatCSV:      "text/csv; charset=utf-8",
	formatter.FormatMarkdown: "text/markdown; charset=utf-8",
	formatter.FormatJSON:     "application/json",
	formatter.FormatYAML:     "application/yaml",
}

func (a *API) export(w http.ResponseWriter, r *http.Request) {
	f, err := formatter.ParseFormat(r.URL.Query().Get("format"))
	if err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	snap := a.app.Snapshot()
	report := formatter.Report{
		Title: snap.PlaylistID,
		Rows:  formatter.RecordRows(a.app.Filtered(), snap.Tracks),
	}
	data, err := formatter.Export(report, f)
	if err != nil {
		writeError(w, r, http.StatusInternalServerError, err.Error())
		return
	}

	w.Header().Set("Content-Type", contentTypes[f])
	if f != formatter.FormatText && f != formatter.FormatTable {
		name := snap.PlaylistID
		if name == "" {
			name = "tracks"
		}
		w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", name+f.Extension()))
	}
	w.WriteHeader(http.StatusOK)
	w.Write(data)
}

func (a *API) normalizeDevices(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		writeError(w, r, http.StatusBadRequest, "failed to read body")
		return
	}

	payloads, err := devices.DecodePayloads(body)
	if err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	normalized, err := devices.NormalizeAll(payloads)
	if err != nil {
		writeError(w, r, http.StatusUnprocessableEntity, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, normalized)
}

type healthHandler struct {
	app *state.App
}

func (healthHandler) Routes() []string { return []string{"GET /health"} }

func (h healthHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":    "ok",
		"analyzing": h.app.Analyzing(),
	})
}

func decodeBody(r *http.Request, v any) error {
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("%w: invalid JSON body: %v", shared.ErrInvalidInput, err)
	}
	return nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	data, err := shared.MarshalJSON(v, false)
	if err != nil {
		http.Error(w, "failed to encode response", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	w.Write(data)
	w.Write([]byte("\n"))
}

type errorResponse struct {
	Error     string `json:"error"`
	RequestID string `json:"request_id,omitempty"`
}

func writeError(w http.ResponseWriter, r *http.Request, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg, RequestID: RequestIDFrom(r.Context())})
}

func writeEvent(w io.Writer, event string, v any) {
	data, err := shared.MarshalJSON(v, false)
	if err != nil {
		return
	}
	fmt.Fprintf(w, "event: %s\ndata: %s\n\n", event, data)
}
