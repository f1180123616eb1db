// package state holds the application state shared by the enrichment pipeline and its front ends.
package state

import (
	"context"
	"fmt"
	"iter"
	"slices"
	"sync"

	"github.com/desertthunder/sfx/internal/facets"
	"github.com/desertthunder/sfx/internal/formatter"
	"github.com/desertthunder/sfx/internal/models"
	"github.com/desertthunder/sfx/internal/shared"
	"github.com/desertthunder/sfx/internal/tasks"
)

// Streamer produces enrichment steps for a track list.
type Streamer interface {
	Stream(ctx context.Context, tracks []models.Track) iter.Seq[tasks.Step]
}

// Enricher runs one enrichment over a track list, offering each step to onStep.
type Enricher interface {
	Enrich(
		ctx context.Context,
		runID string,
		tracks []models.Track,
		progress chan<- tasks.ProgressUpdate,
		onStep func(tasks.Step) bool,
	) (*tasks.EnrichResult, error)
}

// Snapshot is a deep copy of [App] at one point in time.
type Snapshot struct {
	PlaylistID string               `json:"playlist_id"`
	Tracks     []models.Track       `json:"tracks"`
	Records    []models.FacetRecord `json:"records"`
	Filters    models.FilterOptions `json:"filters"`
	Progress   models.Progress      `json:"progress"`
	Analyzing  bool                 `json:"analyzing"`
}

// App holds the loaded playlist, accumulated facet records, filter selections and progress.
//
// Records are written only by the active run through [App.Apply]; filters only by user actions.
// Readers get copies.
type App struct {
	mu         sync.RWMutex
	playlistID string
	tracks     []models.Track
	records    []models.FacetRecord
	filters    models.FilterOptions
	progress   models.Progress
	runID      string
}

// New creates an empty App.
func New() *App {
	return &App{
		tracks:  []models.Track{},
		records: []models.FacetRecord{},
	}
}

// SetPlaylist replaces the track list and clears records and progress.
//
// Filter selections are kept. Any active run is superseded and its remaining steps are ignored.
func (a *App) SetPlaylist(id string, tracks []models.Track) {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.playlistID = id
	a.tracks = slices.Clone(tracks)
	if a.tracks == nil {
		a.tracks = []models.Track{}
	}
	a.records = []models.FacetRecord{}
	a.progress = models.Progress{}
	a.runID = ""
}

// BeginAnalysis starts a run over the current tracks and returns its ID.
//
// Records from an earlier run are cleared.
func (a *App) BeginAnalysis() (string, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if len(a.tracks) == 0 {
		return "", shared.ErrNoTracks
	}
	if a.runID != "" {
		return "", shared.ErrAnalysisRunning
	}

	a.runID = shared.GenerateID()
	a.records = []models.FacetRecord{}
	a.progress = models.Progress{}
	return a.runID, nil
}

// Apply consumes one step of run runID, reporting whether it was applied.
//
// Steps from a run other than the active one are dropped, as are records for tracks
// not in the current playlist.
func (a *App) Apply(runID string, step tasks.Step) bool {
	a.mu.Lock()
	defer a.mu.Unlock()

	if runID == "" || runID != a.runID {
		return false
	}

	switch step.Kind {
	case tasks.Finished:
		a.progress = models.Progress{}
		a.runID = ""
	case tasks.TrackEnriched:
		a.progress = step.Progress
		if step.Record != nil && a.hasTrack(step.Record.TrackID) {
			a.records = append(a.records, step.Record.Clone())
		}
	default:
		a.progress = step.Progress
	}
	return true
}

// EndAnalysis resets progress and marks run runID finished. Stale IDs are ignored.
func (a *App) EndAnalysis(runID string) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if runID == "" || runID != a.runID {
		return
	}
	a.progress = models.Progress{}
	a.runID = ""
}

// Analyze runs a full enrichment over the current tracks, applying every step.
//
// progress receives the engine's updates and may be nil. onStep, when set, sees each step after
// it has been applied. When a new fetch or run supersedes this one, the partial result is returned
// with [shared.ErrAnalysisSuperseded]. The run is ended even when ctx is canceled.
func (a *App) Analyze(
	ctx context.Context,
	e Enricher,
	progress chan<- tasks.ProgressUpdate,
	onStep func(tasks.Step),
) (*tasks.EnrichResult, error) {
	runID, err := a.BeginAnalysis()
	if err != nil {
		return nil, err
	}
	defer a.EndAnalysis(runID)

	result, err := e.Enrich(ctx, runID, a.Tracks(), progress, func(step tasks.Step) bool {
		if !a.Apply(runID, step) {
			return false
		}
		if onStep != nil {
			onStep(step)
		}
		return true
	})
	if err != nil {
		return result, err
	}
	if result.Stopped {
		return result, fmt.Errorf("%w: run %s", shared.ErrAnalysisSuperseded, runID)
	}
	return result, nil
}

func (a *App) hasTrack(id int64) bool {
	for _, t := range a.tracks {
		if t.ID == id {
			return true
		}
	}
	return false
}

// Analyzing reports whether a run is active.
func (a *App) Analyzing() bool {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.runID != ""
}

// PlaylistID returns the ID of the loaded playlist.
func (a *App) PlaylistID() string {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.playlistID
}

// Tracks returns a copy of the loaded tracks.
func (a *App) Tracks() []models.Track {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return slices.Clone(a.tracks)
}

// Records returns a copy of the accumulated records.
func (a *App) Records() []models.FacetRecord {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return cloneRecords(a.records)
}

// Progress returns the current enrichment counter.
func (a *App) Progress() models.Progress {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.progress
}

// Filters returns a copy of the current selections.
func (a *App) Filters() models.FilterOptions {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.filters.Clone()
}

// Snapshot returns a deep copy of the whole state.
func (a *App) Snapshot() Snapshot {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return Snapshot{
		PlaylistID: a.playlistID,
		Tracks:     slices.Clone(a.tracks),
		Records:    cloneRecords(a.records),
		Filters:    a.filters.Clone(),
		Progress:   a.progress,
		Analyzing:  a.runID != "",
	}
}

// Available derives the filter choices from the current records.
func (a *App) Available() models.AvailableFilters {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return facets.DeriveOptions(a.records)
}

// Filtered returns the records passing the current selections, in order.
func (a *App) Filtered() []models.FacetRecord {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return cloneRecords(facets.Filter(a.records, a.filters))
}

// CopyText builds the clipboard blob for the filtered records.
func (a *App) CopyText() string {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return formatter.CopyText(facets.Filter(a.records, a.filters), a.tracks)
}

// BPMDisplay returns the range to show on a tempo slider: the selected range when set,
// otherwise the available bounds. It is nil when neither exists.
func (a *App) BPMDisplay() *models.BPMRange {
	a.mu.RLock()
	defer a.mu.RUnlock()

	if a.filters.BPMRange != nil {
		r := *a.filters.BPMRange
		return &r
	}
	return facets.DeriveOptions(a.records).BPMRange
}

// ToggleStyle adds style to the selection, or removes it when already selected.
func (a *App) ToggleStyle(style string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.filters.Styles = toggle(a.filters.Styles, style)
}

// ToggleTag adds tag to the selection, or removes it when already selected.
func (a *App) ToggleTag(tag string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.filters.Tags = toggle(a.filters.Tags, tag)
}

// ToggleLanguage adds lang to the selection, or removes it when already selected.
func (a *App) ToggleLanguage(lang string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.filters.Languages = toggle(a.filters.Languages, lang)
}

// SetBPMRange selects an inclusive tempo range. min must not exceed max.
func (a *App) SetBPMRange(lo, hi int) error {
	if lo > hi {
		return fmt.Errorf("%w: bpm min %d exceeds max %d", shared.ErrInvalidInput, lo, hi)
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	a.filters.BPMRange = &models.BPMRange{Min: lo, Max: hi}
	return nil
}

// ClearBPMRange removes the tempo constraint.
func (a *App) ClearBPMRange() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.filters.BPMRange = nil
}

// SetFilters replaces every selection at once.
func (a *App) SetFilters(opts models.FilterOptions) error {
	if r := opts.BPMRange; r != nil && r.Min > r.Max {
		return fmt.Errorf("%w: bpm min %d exceeds max %d", shared.ErrInvalidInput, r.Min, r.Max)
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	a.filters = opts.Clone()
	return nil
}

// ResetFilters clears every selection.
func (a *App) ResetFilters() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.filters = models.FilterOptions{}
}

func toggle(set []string, v string) []string {
	if i := slices.Index(set, v); i >= 0 {
		return slices.Delete(slices.Clone(set), i, i+1)
	}
	return append(slices.Clone(set), v)
}

func cloneRecords(records []models.FacetRecord) []models.FacetRecord {
	out := make([]models.FacetRecord, len(records))
	for i, r := range records {
		out[i] = r.Clone()
	}
	return out
}
