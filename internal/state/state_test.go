package state

import (
	"context"
	"errors"
	"slices"
	"testing"

	"github.com/desertthunder/sfx/internal/facets"
	"github.com/desertthunder/sfx/internal/models"
	"github.com/desertthunder/sfx/internal/shared"
	"github.com/desertthunder/sfx/internal/tasks"
	tu "github.com/desertthunder/sfx/internal/testing"
)

func intPtr(v int) *int { return &v }

func tracks() []models.Track {
	return []models.Track{
		{ID: 1, Name: "A", Artists: []models.Artist{{Name: "X"}}},
		{ID: 2, Name: "B", Artists: []models.Artist{{Name: "Y"}, {Name: "Z"}}},
	}
}

func enriched(rec models.FacetRecord, current, total int) tasks.Step {
	return tasks.Step{
		Kind:     tasks.TrackEnriched,
		Progress: models.Progress{Current: current, Total: total, CurrentLabel: rec.TrackName},
		Record:   &rec,
	}
}

func loaded(t *testing.T) (*App, string) {
	t.Helper()
	app := New()
	app.SetPlaylist("p1", tracks())
	runID, err := app.BeginAnalysis()
	if err != nil {
		t.Fatalf("BeginAnalysis() error = %v", err)
	}
	return app, runID
}

func TestApp_Lifecycle(t *testing.T) {
	t.Run("BeginAnalysis without tracks", func(t *testing.T) {
		if _, err := New().BeginAnalysis(); !errors.Is(err, shared.ErrNoTracks) {
			t.Errorf("expected ErrNoTracks, got %v", err)
		}
	})

	t.Run("BeginAnalysis while running", func(t *testing.T) {
		app, _ := loaded(t)
		if _, err := app.BeginAnalysis(); !errors.Is(err, shared.ErrAnalysisRunning) {
			t.Errorf("expected ErrAnalysisRunning, got %v", err)
		}
	})

	t.Run("apply accumulates records", func(t *testing.T) {
		app, runID := loaded(t)

		app.Apply(runID, tasks.Step{Kind: tasks.TrackStarted, Progress: models.Progress{Current: 1, Total: 2, CurrentLabel: "A"}})
		if got := app.Progress(); got.Current != 1 || got.CurrentLabel != "A" {
			t.Errorf("unexpected progress %+v", got)
		}

		app.Apply(runID, enriched(models.FacetRecord{TrackID: 1, TrackName: "A", Styles: []string{"Rock"}}, 1, 2))
		if n := len(app.Records()); n != 1 {
			t.Errorf("expected record to be visible immediately, got %d", n)
		}

		app.Apply(runID, tasks.Step{Kind: tasks.Finished})
		if !app.Progress().IsZero() {
			t.Errorf("expected progress reset, got %+v", app.Progress())
		}
		if app.Analyzing() {
			t.Error("expected analyzing to be cleared")
		}
	})

	t.Run("stale run is ignored", func(t *testing.T) {
		app, runID := loaded(t)
		app.SetPlaylist("p2", tracks())

		if app.Apply(runID, enriched(models.FacetRecord{TrackID: 1, TrackName: "A"}, 1, 2)) {
			t.Error("expected stale step to be rejected")
		}
		if n := len(app.Records()); n != 0 {
			t.Errorf("expected no records, got %d", n)
		}
		if app.Analyzing() {
			t.Error("new playlist should supersede the run")
		}
	})

	t.Run("record for unknown track is dropped", func(t *testing.T) {
		app, runID := loaded(t)
		app.Apply(runID, enriched(models.FacetRecord{TrackID: 99, TrackName: "?"}, 1, 2))
		if n := len(app.Records()); n != 0 {
			t.Errorf("expected no records, got %d", n)
		}
	})

	t.Run("EndAnalysis", func(t *testing.T) {
		app, runID := loaded(t)
		app.Apply(runID, tasks.Step{Kind: tasks.TrackStarted, Progress: models.Progress{Current: 1, Total: 2}})

		app.EndAnalysis("other")
		if !app.Analyzing() {
			t.Error("unknown run ID should not end the active run")
		}

		app.EndAnalysis(runID)
		if app.Analyzing() || !app.Progress().IsZero() {
			t.Errorf("expected idle state, got %+v", app.Snapshot())
		}
	})

	t.Run("SetPlaylist keeps filters", func(t *testing.T) {
		app, runID := loaded(t)
		app.Apply(runID, enriched(models.FacetRecord{TrackID: 1, TrackName: "A", Styles: []string{"Pop"}}, 1, 2))
		app.ToggleStyle("Pop")
		app.SetBPMRange(100, 140)

		app.SetPlaylist("p2", tracks()[:1])

		snap := app.Snapshot()
		if len(snap.Records) != 0 || !snap.Progress.IsZero() {
			t.Errorf("expected records and progress cleared, got %+v", snap)
		}
		if !slices.Equal(snap.Filters.Styles, []string{"Pop"}) || snap.Filters.BPMRange == nil {
			t.Errorf("expected filters to persist, got %+v", snap.Filters)
		}
		if av := app.Available(); len(av.Styles) != 0 || av.BPMRange != nil {
			t.Errorf("available filters kept stale values: %+v", av)
		}
		if snap.PlaylistID != "p2" || len(snap.Tracks) != 1 {
			t.Errorf("unexpected playlist %s with %d tracks", snap.PlaylistID, len(snap.Tracks))
		}
	})
}

func TestApp_Analyze(t *testing.T) {
	svc := &tu.MockService{
		SummaryErrs: map[int64]error{1: errors.New("status 500")},
		Summaries:   map[int64]*facets.WikiSummary{2: tu.Summary([]string{"Pop"}, "", "")},
	}
	engine := tasks.NewPlaylistEngine(svc, nil)

	app := New()
	app.SetPlaylist("p1", tracks())

	var steps int
	progressCh := make(chan tasks.ProgressUpdate, 20)
	result, err := app.Analyze(context.Background(), engine, progressCh, func(tasks.Step) { steps++ })
	if err != nil {
		t.Fatalf("Analyze() error = %v", err)
	}
	if result.RunID == "" {
		t.Error("expected run ID")
	}
	if steps != 5 {
		t.Errorf("expected 5 steps, got %d", steps)
	}
	if len(result.Failures) != 1 || result.Failures[0].Track.ID != 1 || result.Total != 2 {
		t.Errorf("unexpected result %+v", result)
	}
	if len(progressCh) == 0 {
		t.Error("expected progress updates")
	}

	records := app.Records()
	if len(records) != 1 || records[0].TrackID != 2 || !slices.Equal(records[0].Styles, []string{"Pop"}) {
		t.Errorf("unexpected records %+v", records)
	}
	if got := app.Progress(); got != (models.Progress{}) {
		t.Errorf("expected progress {0,0,\"\"}, got %+v", got)
	}
	if app.Analyzing() {
		t.Error("expected run to be finished")
	}
}

func TestApp_AnalyzeSuperseded(t *testing.T) {
	svc := &tu.MockService{Summaries: map[int64]*facets.WikiSummary{
		1: tu.Summary([]string{"Pop"}, "", ""),
		2: tu.Summary([]string{"Rock"}, "", ""),
	}}
	engine := tasks.NewPlaylistEngine(svc, nil)

	app := New()
	app.SetPlaylist("p1", tracks())

	result, err := app.Analyze(context.Background(), engine, nil, func(step tasks.Step) {
		if step.Kind == tasks.TrackEnriched {
			app.SetPlaylist("p2", tracks()[:1])
		}
	})
	if !errors.Is(err, shared.ErrAnalysisSuperseded) {
		t.Fatalf("expected ErrAnalysisSuperseded, got %v", err)
	}
	if result == nil || !result.Stopped || len(result.Records) != 1 {
		t.Errorf("expected the partial result of the first run, got %+v", result)
	}
	if calls := svc.CallLog(); !slices.Equal(calls, []int64{1}) {
		t.Errorf("expected the run to stop after track 1, got %v", calls)
	}
	if len(app.Records()) != 0 || app.Analyzing() {
		t.Errorf("expected the new playlist to be untouched, got %+v", app.Snapshot())
	}
}

func TestApp_Filters(t *testing.T) {
	app, runID := loaded(t)
	app.Apply(runID, enriched(models.FacetRecord{TrackID: 1, TrackName: "A", Styles: []string{"Pop"}, Language: "英语", BPM: intPtr(90)}, 1, 2))
	app.Apply(runID, enriched(models.FacetRecord{TrackID: 2, TrackName: "B", Styles: []string{"Rock"}, BPM: intPtr(150)}, 2, 2))
	app.Apply(runID, tasks.Step{Kind: tasks.Finished})

	t.Run("toggle", func(t *testing.T) {
		app.ToggleStyle("Pop")
		filtered := app.Filtered()
		if len(filtered) != 1 || filtered[0].TrackID != 1 {
			t.Errorf("expected only record 1, got %+v", filtered)
		}

		app.ToggleStyle("Pop")
		if len(app.Filters().Styles) != 0 {
			t.Error("second toggle should deselect")
		}
		if len(app.Filtered()) != 2 {
			t.Error("empty selection should not filter")
		}
	})

	t.Run("language excludes unknown", func(t *testing.T) {
		app.ToggleLanguage("英语")
		defer app.ToggleLanguage("英语")

		if filtered := app.Filtered(); len(filtered) != 1 || filtered[0].TrackID != 1 {
			t.Errorf("unexpected filtered %+v", filtered)
		}
	})

	t.Run("tag toggle", func(t *testing.T) {
		app.ToggleTag("Chill")
		defer app.ToggleTag("Chill")

		if len(app.Filtered()) != 0 {
			t.Error("no record carries the selected tag")
		}
	})

	t.Run("BPM range", func(t *testing.T) {
		if got := app.BPMDisplay(); got == nil || got.Min != 90 || got.Max != 150 {
			t.Errorf("expected available bounds, got %+v", got)
		}

		if err := app.SetBPMRange(140, 100); !errors.Is(err, shared.ErrInvalidInput) {
			t.Errorf("expected ErrInvalidInput, got %v", err)
		}
		if err := app.SetBPMRange(80, 100); err != nil {
			t.Fatalf("SetBPMRange() error = %v", err)
		}
		if got := app.BPMDisplay(); got.Min != 80 || got.Max != 100 {
			t.Errorf("expected selected range, got %+v", got)
		}
		if filtered := app.Filtered(); len(filtered) != 1 || filtered[0].TrackID != 1 {
			t.Errorf("unexpected filtered %+v", filtered)
		}

		app.ClearBPMRange()
		if app.Filters().BPMRange != nil {
			t.Error("expected range cleared")
		}
	})

	t.Run("CopyText", func(t *testing.T) {
		app.ToggleStyle("Rock")
		defer app.ToggleStyle("Rock")

		if got := app.CopyText(); got != "B - Y / Z" {
			t.Errorf("CopyText() = %q", got)
		}
	})

	t.Run("SetFilters and reset", func(t *testing.T) {
		err := app.SetFilters(models.FilterOptions{Styles: []string{"Rock"}, BPMRange: &models.BPMRange{Min: 1, Max: 0}})
		if !errors.Is(err, shared.ErrInvalidInput) {
			t.Errorf("expected ErrInvalidInput, got %v", err)
		}

		if err := app.SetFilters(models.FilterOptions{Tags: []string{"x"}, Languages: []string{"英语"}}); err != nil {
			t.Fatalf("SetFilters() error = %v", err)
		}
		if app.Filters().IsZero() {
			t.Error("expected filters to be set")
		}

		app.ResetFilters()
		if !app.Filters().IsZero() {
			t.Errorf("expected zero filters, got %+v", app.Filters())
		}
	})

	t.Run("readers get copies", func(t *testing.T) {
		records := app.Records()
		records[0].Styles[0] = "mutated"
		if app.Records()[0].Styles[0] != "Pop" {
			t.Error("caller mutation leaked into state")
		}
	})
}
