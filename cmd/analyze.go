package main

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/atotto/clipboard"
	"github.com/desertthunder/sfx/internal/formatter"
	"github.com/desertthunder/sfx/internal/models"
	"github.com/desertthunder/sfx/internal/tasks"
	"github.com/urfave/cli/v3"
)

var copyToClipboard = clipboard.WriteAll

// Analyze fetches a playlist, extracts facets for every track and prints the records matching the filter flags.
//
// An interrupted run still prints what was collected before the interruption.
func (r *Runner) Analyze(ctx context.Context, cmd *cli.Command) error {
	format, err := r.exportFormat(cmd.String("format"))
	if err != nil {
		return err
	}

	pl, err := r.engine.Fetch(ctx, cmd.StringArg("playlist"), nil)
	if err != nil {
		return err
	}

	r.app.SetPlaylist(pl.ID, pl.Tracks)
	if err := r.app.SetFilters(filterFlags(cmd)); err != nil {
		return err
	}

	r.logger.Info("analyzing playlist", "playlist", pl.ID, "tracks", len(pl.Tracks))

	progressCh := make(chan tasks.ProgressUpdate, 50)
	done := make(chan struct{})
	go func() {
		defer close(done)
		for update := range progressCh {
			if update.Phase == tasks.AnalyzeDone {
				r.logger.Info(update.Message)
				continue
			}
			r.logger.Debug(update.Message)
		}
	}()

	result, err := r.app.Analyze(ctx, r.engine, progressCh, nil)
	close(progressCh)
	<-done

	if err != nil {
		if !errors.Is(err, context.Canceled) && !errors.Is(err, context.DeadlineExceeded) {
			return err
		}
		r.logger.Warn("analysis interrupted, showing partial results", "err", err)
	}

	records := r.app.Filtered()
	r.logger.Info("analysis complete",
		"records", len(result.Records),
		"matched", len(records),
		"skipped", result.Skipped,
		"failed", len(result.Failures),
		"elapsed", result.Elapsed.Round(time.Millisecond),
	)

	if cmd.Bool("options") {
		return r.writeOptions(r.app.Available(), r.app.BPMDisplay())
	}

	report := formatter.Report{Title: pl.ID, Rows: formatter.RecordRows(records, r.app.Tracks())}

	if output := cmd.String("output"); output != "" {
		path, err := formatter.WriteExport(report, format, output)
		if err != nil {
			return err
		}
		r.writePlain("✓ Wrote %d tracks to %s\n", len(records), path)
	} else {
		data, err := formatter.Export(report, format)
		if err != nil {
			return err
		}
		if err := r.writeBytes(data); err != nil {
			return err
		}
	}

	if cmd.Bool("copy") {
		if len(records) == 0 {
			r.logger.Warn("nothing to copy")
			return nil
		}
		if err := copyToClipboard(r.app.CopyText()); err != nil {
			return fmt.Errorf("failed to copy to clipboard: %w", err)
		}
		r.logger.Info("copied to clipboard", "tracks", len(records))
	}
	return nil
}

// filterFlags builds filter selections from --style, --tag, --lang and the BPM bounds.
//
// Setting only one BPM bound leaves the other open.
func filterFlags(cmd *cli.Command) models.FilterOptions {
	opts := models.FilterOptions{
		Styles:    cmd.StringSlice("style"),
		Tags:      cmd.StringSlice("tag"),
		Languages: cmd.StringSlice("lang"),
	}

	if cmd.IsSet("bpm-min") || cmd.IsSet("bpm-max") {
		bpm := &models.BPMRange{Min: 0, Max: math.MaxInt32}
		if cmd.IsSet("bpm-min") {
			bpm.Min = cmd.Int("bpm-min")
		}
		if cmd.IsSet("bpm-max") {
			bpm.Max = cmd.Int("bpm-max")
		}
		opts.BPMRange = bpm
	}
	return opts
}

func (r *Runner) writeOptions(available models.AvailableFilters, bpm *models.BPMRange) error {
	line := func(label string, values []string) error {
		if len(values) == 0 {
			return r.writePlain("%-10s -\n", label)
		}
		return r.writePlain("%-10s %s\n", label, strings.Join(values, ", "))
	}

	if err := line("Styles:", available.Styles); err != nil {
		return err
	}
	if err := line("Tags:", available.Tags); err != nil {
		return err
	}
	if err := line("Languages:", available.Languages); err != nil {
		return err
	}
	if bpm == nil {
		return r.writePlain("%-10s -\n", "BPM:")
	}
	return r.writePlain("%-10s %d-%d\n", "BPM:", bpm.Min, bpm.Max)
}
