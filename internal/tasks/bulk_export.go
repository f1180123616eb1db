package tasks

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/desertthunder/sfx/internal/formatter"
	"github.com/desertthunder/sfx/internal/models"
	"github.com/desertthunder/sfx/internal/shared"
	"golang.org/x/time/rate"
)

const (
	defaultBulkWorkers = 4
	maxBulkWorkers     = 10
	defaultBulkRate    = 2.0
)

// BulkExportOpts contains configuration for bulk playlist exports.
type BulkExportOpts struct {
	Format     formatter.Format // Export format (default: text)
	OutputDir  string           // Base output directory (default: sfx_export_{epoch})
	NumWorkers int              // Concurrent file writers (default: 4, max: 10)
	RateLimit  float64          // Playlist fetches per second (default: 2)
}

// playlistExportJob carries a fetched playlist, or the error that prevented fetching it, to a worker.
type playlistExportJob struct {
	PlaylistID string
	Playlist   *models.Playlist
	Err        error
}

// BulkExport fetches several playlists and writes one track list per playlist, plus a manifest.
//
// Fetches are sequential and rate limited; file writes are spread across a worker pool.
// A playlist that fails to fetch or write is recorded as failed without stopping the others.
// Playlists not yet fetched when ctx is canceled are left out of the result.
func (e *PlaylistEngine) BulkExport(
	ctx context.Context,
	prog chan<- ProgressUpdate,
	ids []string,
	opts BulkExportOpts,
) (*models.BulkExportResult, error) {
	if e.svc == nil {
		return nil, fmt.Errorf("%w: music service not initialized", shared.ErrServiceUnavailable)
	}

	if opts.Format == "" {
		opts.Format = formatter.FormatText
	}
	if opts.OutputDir == "" {
		opts.OutputDir = fmt.Sprintf("sfx_export_%d", time.Now().Unix())
	}
	if opts.NumWorkers <= 0 {
		opts.NumWorkers = defaultBulkWorkers
	}
	if opts.NumWorkers > maxBulkWorkers {
		opts.NumWorkers = maxBulkWorkers
	}
	if opts.RateLimit <= 0 {
		opts.RateLimit = defaultBulkRate
	}

	if err := os.MkdirAll(opts.OutputDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}

	result := &models.BulkExportResult{
		TotalPlaylists:  len(ids),
		OutputDirectory: opts.OutputDir,
		Results:         make([]models.PlaylistExportResult, 0, len(ids)),
	}

	limiter := rate.NewLimiter(rate.Limit(opts.RateLimit), 1)

	jobs := make(chan playlistExportJob, len(ids))
	results := make(chan models.PlaylistExportResult, len(ids))

	var wg sync.WaitGroup
	for range opts.NumWorkers {
		wg.Add(1)
		go e.exportWorker(&wg, jobs, results, opts)
	}

	go func() {
		defer close(jobs)
		for i, playlistID := range ids {
			if ctx.Err() != nil {
				return
			}
			if err := limiter.Wait(ctx); err != nil {
				return
			}

			e.sendProgress(prog, exportingPlaylistUpdate(i+1, len(ids), playlistID))

			pl, err := e.svc.GetPlaylist(ctx, playlistID)
			if err != nil {
				e.logger.Warn("failed to fetch playlist", "playlist", playlistID, "err", err)
				jobs <- playlistExportJob{PlaylistID: playlistID, Err: fmt.Errorf("failed to fetch playlist: %w", err)}
				continue
			}
			jobs <- playlistExportJob{PlaylistID: playlistID, Playlist: pl}
		}
	}()

	go func() {
		wg.Wait()
		close(results)
	}()

	completed := 0
	for res := range results {
		completed++
		result.Results = append(result.Results, res)

		if res.Success {
			result.SuccessfulExports++
			e.sendProgress(prog, exportCompletedUpdate(completed, len(ids), res.PlaylistID, len(res.Files)))
		} else {
			result.FailedExports++
			e.sendProgress(prog, exportFailedUpdate(completed, len(ids), res.PlaylistID, res.Error))
		}
	}

	manifestPath := filepath.Join(opts.OutputDir, "export_manifest.json")
	if err := formatter.WriteBulkExportManifest(result, opts.Format, manifestPath); err != nil {
		return result, fmt.Errorf("export completed but failed to write manifest: %w", err)
	}
	result.ManifestPath = manifestPath
	return result, nil
}

// exportWorker writes playlists from the jobs channel until it is closed.
func (e *PlaylistEngine) exportWorker(
	wg *sync.WaitGroup,
	jobs <-chan playlistExportJob,
	results chan<- models.PlaylistExportResult,
	opts BulkExportOpts,
) {
	defer wg.Done()

	for job := range jobs {
		if job.Err != nil {
			results <- models.PlaylistExportResult{PlaylistID: job.PlaylistID, Error: job.Err}
			continue
		}
		results <- e.exportSinglePlaylist(job, opts)
	}
}

// exportSinglePlaylist writes a playlist's track list to {OutputDir}/{id}{ext}.
func (e *PlaylistEngine) exportSinglePlaylist(j playlistExportJob, opts BulkExportOpts) models.PlaylistExportResult {
	result := models.PlaylistExportResult{
		PlaylistID: j.PlaylistID,
		TrackCount: len(j.Playlist.Tracks),
		Files:      []string{},
	}

	report := formatter.Report{Title: j.PlaylistID, Rows: formatter.TrackRows(j.Playlist.Tracks)}
	path := filepath.Join(opts.OutputDir, j.PlaylistID+opts.Format.Extension())

	written, err := formatter.WriteExport(report, opts.Format, path)
	if err != nil {
		result.Error = fmt.Errorf("%s export failed: %w", opts.Format, err)
		return result
	}

	result.Files = []string{written}
	result.Success = true
	return result
}
