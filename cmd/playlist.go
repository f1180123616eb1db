package main

import (
	"context"
	"fmt"

	"github.com/desertthunder/sfx/internal/formatter"
	"github.com/desertthunder/sfx/internal/services"
	"github.com/desertthunder/sfx/internal/shared"
	"github.com/desertthunder/sfx/internal/tasks"
	"github.com/urfave/cli/v3"
)

// PlaylistFetch loads a playlist and prints its tracks.
func (r *Runner) PlaylistFetch(ctx context.Context, cmd *cli.Command) error {
	input := cmd.StringArg("playlist")
	r.logger.Info("fetching playlist", "input", input)

	pl, err := r.engine.Fetch(ctx, input, nil)
	if err != nil {
		return err
	}

	if cmd.Bool("json") {
		return r.writeJSON(pl, cmd.Bool("pretty"))
	}

	out, err := formatter.ExportToTable(formatter.Report{Title: pl.ID, Rows: formatter.TrackRows(pl.Tracks)})
	if err != nil {
		return err
	}
	r.writePlainHeader(fmt.Sprintf("Playlist %s (%d tracks)", pl.ID, len(pl.Tracks)))
	return r.writeBytes(out)
}

// PlaylistExport writes the track lists of several playlists to a directory, one file each.
func (r *Runner) PlaylistExport(ctx context.Context, cmd *cli.Command) error {
	var ids []string
	for _, raw := range cmd.StringSlice("id") {
		if id := services.ParsePlaylistInput(raw); id != "" {
			ids = append(ids, id)
		}
	}
	if len(ids) == 0 {
		return fmt.Errorf("%w: at least one --id is required", shared.ErrMissingArgument)
	}

	format, err := r.exportFormat(cmd.String("format"))
	if err != nil {
		return err
	}

	opts := tasks.BulkExportOpts{
		Format:     format,
		OutputDir:  cmd.String("output"),
		NumWorkers: r.config.Export.BulkWorkers,
		RateLimit:  r.config.Export.BulkRate,
	}
	if cmd.IsSet("workers") {
		opts.NumWorkers = cmd.Int("workers")
	}
	if cmd.IsSet("rate") {
		opts.RateLimit = cmd.Float("rate")
	}

	r.logger.Info("starting bulk export", "playlists", len(ids), "format", format)
	r.writePlain("Exporting %d playlists as %s...\n\n", len(ids), format)

	progressCh := make(chan tasks.ProgressUpdate, 50)
	done := make(chan struct{})
	go func() {
		defer close(done)
		for update := range progressCh {
			r.writePlain("   %s\n", update.Message)
		}
	}()

	result, err := r.engine.BulkExport(ctx, progressCh, ids, opts)
	close(progressCh)
	<-done

	if result == nil {
		return err
	}

	r.writePlain("\n")
	r.writePlainHeader("Export Complete!")
	r.writePlain("Directory: %s\n", result.OutputDirectory)
	r.writePlain("Exported: %d/%d\n", result.SuccessfulExports, result.TotalPlaylists)
	if result.ManifestPath != "" {
		r.writePlain("Manifest: %s\n", result.ManifestPath)
	}

	if result.FailedExports > 0 {
		r.writePlain("\nFailed to export %d playlists:\n", result.FailedExports)
		for _, res := range result.Results {
			if !res.Success {
				r.writePlain("  - %s: %s\n", res.PlaylistID, res.ErrorMessage())
			}
		}
	}

	return err
}

// exportFormat parses name, falling back to the configured default when empty.
func (r *Runner) exportFormat(name string) (formatter.Format, error) {
	if name == "" {
		name = r.config.Export.Format
	}
	if name == "" {
		return formatter.FormatText, nil
	}
	return formatter.ParseFormat(name)
}
