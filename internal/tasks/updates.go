package tasks

import (
	"fmt"

	"github.com/desertthunder/sfx/internal/models"
)

// ProgressUpdate represents a progress event during a long-running operation.
//
// Used to send real-time updates to the CLI or UI layer for display.
type ProgressUpdate struct {
	Phase   Phase  // Operation phase
	Step    int    // Current step number within phase
	Total   int    // Total steps in this phase
	Message string // Human-readable message for display
	Data    any    // Optional phase-specific data for advanced UIs
}

// Operation phase enumeration
type Phase int

const (
	FetchPlaylist Phase = iota
	AnalyzeTracks
	AnalyzeDone
	ExportPlaylist
)

func (p Phase) String() string {
	switch p {
	case FetchPlaylist:
		return "fetch_playlist"
	case AnalyzeTracks:
		return "analyze_tracks"
	case AnalyzeDone:
		return "analyze_done"
	case ExportPlaylist:
		return "export_playlist"
	default:
		return ""
	}
}

func fetchingPlaylistUpdate(id string) ProgressUpdate {
	return ProgressUpdate{
		Phase:   FetchPlaylist,
		Step:    0,
		Total:   1,
		Message: fmt.Sprintf("Fetching playlist %s...", id),
	}
}

func foundPlaylistUpdate(pl *models.Playlist) ProgressUpdate {
	return ProgressUpdate{
		Phase:   FetchPlaylist,
		Step:    1,
		Total:   1,
		Message: fmt.Sprintf("Found playlist %s (%d tracks)", pl.ID, len(pl.Tracks)),
		Data:    pl,
	}
}

func analyzeTrackUpdate(s Step) ProgressUpdate {
	return ProgressUpdate{
		Phase:   AnalyzeTracks,
		Step:    s.Progress.Current,
		Total:   s.Progress.Total,
		Message: fmt.Sprintf("[%d/%d] %s", s.Progress.Current, s.Progress.Total, s.Progress.CurrentLabel),
		Data:    s.Progress,
	}
}

func recordUpdate(s Step) ProgressUpdate {
	return ProgressUpdate{
		Phase:   AnalyzeTracks,
		Step:    s.Progress.Current,
		Total:   s.Progress.Total,
		Message: fmt.Sprintf("[%d/%d] ✓ %s", s.Progress.Current, s.Progress.Total, s.Track.Name),
		Data:    *s.Record,
	}
}

func trackFailedUpdate(s Step) ProgressUpdate {
	return ProgressUpdate{
		Phase:   AnalyzeTracks,
		Step:    s.Progress.Current,
		Total:   s.Progress.Total,
		Message: fmt.Sprintf("[%d/%d] ✗ %s: %v", s.Progress.Current, s.Progress.Total, s.Track.Name, s.Err),
	}
}

func analyzeDoneUpdate(r *EnrichResult) ProgressUpdate {
	return ProgressUpdate{
		Phase:   AnalyzeDone,
		Step:    0,
		Total:   0,
		Message: fmt.Sprintf("Analyzed %d tracks: %d with facets, %d skipped, %d failed", r.Total, len(r.Records), r.Skipped, len(r.Failures)),
		Data:    models.Progress{},
	}
}

func exportingPlaylistUpdate(step, total int, id string) ProgressUpdate {
	return ProgressUpdate{
		Phase:   ExportPlaylist,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] Exporting: %s...", step, total, id),
	}
}

func exportCompletedUpdate(step, total int, id string, filesCount int) ProgressUpdate {
	return ProgressUpdate{
		Phase:   ExportPlaylist,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] ✓ %s (%d files)", step, total, id, filesCount),
	}
}

func exportFailedUpdate(step, total int, id string, err error) ProgressUpdate {
	return ProgressUpdate{
		Phase:   ExportPlaylist,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] ✗ %s: %v", step, total, id, err),
	}
}
