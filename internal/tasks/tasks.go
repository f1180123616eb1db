// package tasks implements the playlist fetch, enrichment and export pipelines.
//
// The core abstraction is PlaylistEngine, which drives one metadata fetch per track and reports progress.
// Operations emit progress updates via channels for non-blocking status reporting to CLI/UI layers.
package tasks

import (
	"context"
	"fmt"
	"io"
	"iter"
	"time"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/sfx/internal/facets"
	"github.com/desertthunder/sfx/internal/models"
	"github.com/desertthunder/sfx/internal/services"
	"github.com/desertthunder/sfx/internal/shared"
)

// StepKind identifies what a [Step] reports.
type StepKind int

const (
	TrackStarted  StepKind = iota // about to fetch the track's metadata
	TrackEnriched                 // a facet record was extracted
	TrackSkipped                  // fetched, but the response carried no facets
	TrackFailed                   // the fetch failed; the run continues
	Finished                      // every track was attempted or the run was canceled
)

func (k StepKind) String() string {
	switch k {
	case TrackStarted:
		return "started"
	case TrackEnriched:
		return "enriched"
	case TrackSkipped:
		return "skipped"
	case TrackFailed:
		return "failed"
	case Finished:
		return "finished"
	default:
		return ""
	}
}

// Step is one event of an enrichment run.
//
// Progress is the counter to display after the step is applied; the [Finished] step carries
// the zero Progress. Err is set on [TrackFailed] and, wrapping [shared.ErrFacetsUnavailable], on [TrackSkipped].
type Step struct {
	Kind     StepKind
	Progress models.Progress
	Track    models.Track
	Record   *models.FacetRecord
	Err      error
}

// Done reports whether this is the terminal step of a run.
func (s Step) Done() bool { return s.Kind == Finished }

// TrackFailure is a track whose metadata fetch failed.
type TrackFailure struct {
	Track models.Track
	Err   error
}

// EnrichResult contains everything collected during one enrichment run.
type EnrichResult struct {
	RunID    string
	Records  []models.FacetRecord
	Failures []TrackFailure
	Skipped  int
	Total    int
	Elapsed  time.Duration
	Stopped  bool // onStep ended the run before the final step
}

// Engine defines the playlist operations shared by the CLI, HTTP server and TUI.
type Engine interface {
	// Fetch resolves a playlist ID or share link and loads its tracks.
	Fetch(ctx context.Context, input string, progress chan<- ProgressUpdate) (*models.Playlist, error)

	// Stream yields enrichment steps for tracks, one fetch at a time, in list order.
	Stream(ctx context.Context, tracks []models.Track) iter.Seq[Step]

	// Enrich drives [Engine.Stream] to completion and collects records, skips and failures.
	Enrich(ctx context.Context, runID string, tracks []models.Track, progress chan<- ProgressUpdate, onStep func(Step) bool) (*EnrichResult, error)

	// BulkExport fetches several playlists and writes one track list per playlist.
	BulkExport(ctx context.Context, progress chan<- ProgressUpdate, ids []string, opts BulkExportOpts) (*models.BulkExportResult, error)
}

// PlaylistEngine implements Engine on top of a [services.Service].
type PlaylistEngine struct {
	svc    services.Service
	logger *log.Logger
}

// NewPlaylistEngine creates a new PlaylistEngine. A nil logger discards output.
func NewPlaylistEngine(svc services.Service, logger *log.Logger) *PlaylistEngine {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &PlaylistEngine{svc: svc, logger: logger}
}

// sendProgress sends a progress update through the channel without blocking.
func (e *PlaylistEngine) sendProgress(progress chan<- ProgressUpdate, update ProgressUpdate) {
	if progress == nil {
		return
	}
	select {
	case progress <- update:
	default:
	}
}

// Fetch resolves input with [services.ParsePlaylistInput] and loads the playlist's tracks.
func (e *PlaylistEngine) Fetch(ctx context.Context, input string, progress chan<- ProgressUpdate) (*models.Playlist, error) {
	if e.svc == nil {
		return nil, fmt.Errorf("%w: music service not initialized", shared.ErrServiceUnavailable)
	}

	id := services.ParsePlaylistInput(input)
	if id == "" {
		return nil, fmt.Errorf("%w: playlist ID or link is required", shared.ErrMissingArgument)
	}

	e.sendProgress(progress, fetchingPlaylistUpdate(id))

	pl, err := e.svc.GetPlaylist(ctx, id)
	if err != nil {
		return nil, err
	}

	e.sendProgress(progress, foundPlaylistUpdate(pl))
	return pl, nil
}

// Stream returns a sequence of enrichment steps over tracks.
//
// For each track it yields a [TrackStarted] step before the fetch and one of [TrackEnriched],
// [TrackSkipped] or [TrackFailed] after it, then a final [Finished] step. Cancelling ctx
// stops the sequence before the next track; the [Finished] step is still yielded.
func (e *PlaylistEngine) Stream(ctx context.Context, tracks []models.Track) iter.Seq[Step] {
	return func(yield func(Step) bool) {
		total := len(tracks)
		for i, track := range tracks {
			if ctx.Err() != nil {
				break
			}

			prog := models.Progress{Current: i + 1, Total: total, CurrentLabel: track.Name}
			if !yield(Step{Kind: TrackStarted, Progress: prog, Track: track}) {
				return
			}

			step := Step{Progress: prog, Track: track}
			summary, err := e.svc.GetSongSummary(ctx, track.ID)
			switch {
			case err != nil && ctx.Err() != nil:
				yield(Step{Kind: Finished})
				return
			case err != nil:
				step.Kind = TrackFailed
				step.Err = err
			default:
				if rec, ok := facets.Extract(track.ID, track.Name, summary); ok {
					step.Kind = TrackEnriched
					step.Record = &rec
				} else {
					step.Kind = TrackSkipped
					step.Err = fmt.Errorf("%w: %s", shared.ErrFacetsUnavailable, track.Name)
				}
			}

			if !yield(step) {
				return
			}
		}
		yield(Step{Kind: Finished})
	}
}

// Enrich fetches metadata for each track in order and collects the outcome of every step.
//
// onStep, when set, sees each step before it is counted; returning false stops the run and the
// result keeps what was collected up to that point. An empty runID is replaced by a generated one.
// A canceled run returns the partial result together with the context error.
func (e *PlaylistEngine) Enrich(
	ctx context.Context,
	runID string,
	tracks []models.Track,
	progress chan<- ProgressUpdate,
	onStep func(Step) bool,
) (*EnrichResult, error) {
	if e.svc == nil {
		return nil, fmt.Errorf("%w: music service not initialized", shared.ErrServiceUnavailable)
	}
	if len(tracks) == 0 {
		return nil, shared.ErrNoTracks
	}
	if runID == "" {
		runID = shared.GenerateID()
	}

	result := &EnrichResult{
		RunID:   runID,
		Records: []models.FacetRecord{},
		Total:   len(tracks),
	}
	logger := shared.WithLogger(e.logger, "run", result.RunID)
	start := time.Now()

	for step := range e.Stream(ctx, tracks) {
		if onStep != nil && !onStep(step) {
			result.Stopped = true
			break
		}

		switch step.Kind {
		case TrackStarted:
			e.sendProgress(progress, analyzeTrackUpdate(step))
		case TrackEnriched:
			result.Records = append(result.Records, *step.Record)
			e.sendProgress(progress, recordUpdate(step))
		case TrackSkipped:
			result.Skipped++
			logger.Debug("no facets in song summary", "track", step.Track.ID, "name", step.Track.Name)
		case TrackFailed:
			result.Failures = append(result.Failures, TrackFailure{Track: step.Track, Err: step.Err})
			logger.Warn("skipping track", "track", step.Track.ID, "name", step.Track.Name, "err", step.Err)
			e.sendProgress(progress, trackFailedUpdate(step))
		case Finished:
			result.Elapsed = time.Since(start)
			e.sendProgress(progress, analyzeDoneUpdate(result))
		}
	}

	if result.Stopped {
		result.Elapsed = time.Since(start)
		logger.Debug("analysis stopped", "records", len(result.Records), "total", result.Total)
		return result, ctx.Err()
	}

	logger.Debug("analysis finished",
		"records", len(result.Records), "skipped", result.Skipped, "failed", len(result.Failures), "elapsed", result.Elapsed)

	if err := ctx.Err(); err != nil {
		return result, err
	}
	return result, nil
}
