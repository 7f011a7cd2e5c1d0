package tasks

import (
	"fmt"

	"github.com/calegray/syncopate/internal/models"
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
	FetchSource Phase = iota
	FindTarget
	ResolveTracks
	Reconcile
	ApplyPlan
)

func (p Phase) String() string {
	switch p {
	case FetchSource:
		return "fetch_source"
	case FindTarget:
		return "find_target"
	case ResolveTracks:
		return "resolve_tracks"
	case Reconcile:
		return "reconcile"
	case ApplyPlan:
		return "apply_plan"
	default:
		return ""
	}
}

func fetchSourceUpdate(name string) ProgressUpdate {
	return ProgressUpdate{
		Phase:   FetchSource,
		Step:    1,
		Total:   1,
		Message: fmt.Sprintf("Fetching source playlist (%s)...", name),
	}
}

func foundSourceUpdate(pl *models.SourcePlaylist) ProgressUpdate {
	return ProgressUpdate{
		Phase:   FetchSource,
		Step:    1,
		Total:   1,
		Message: fmt.Sprintf("Found playlist: %s (%d tracks)", pl.Playlist.Name, len(pl.Tracks)),
		Data:    pl,
	}
}

func findTargetUpdate(name string) ProgressUpdate {
	return ProgressUpdate{
		Phase:   FindTarget,
		Step:    1,
		Total:   1,
		Message: fmt.Sprintf("Locating target playlist %q...", name),
	}
}

func resolveTrackUpdate(step, total int, raw models.RawDescriptor) ProgressUpdate {
	label := raw.Text
	if label == "" {
		label = fmt.Sprintf("%s - %s", raw.Title, raw.Artist)
	}
	return ProgressUpdate{
		Phase:   ResolveTracks,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] %s", step, total, label),
	}
}

func reconcileUpdate(missing int) ProgressUpdate {
	return ProgressUpdate{
		Phase:   Reconcile,
		Step:    1,
		Total:   1,
		Message: fmt.Sprintf("Reconciling: %d tracks missing from target", missing),
	}
}

func applyPlanUpdate(plan models.SyncPlan) ProgressUpdate {
	return ProgressUpdate{
		Phase:   ApplyPlan,
		Step:    1,
		Total:   1,
		Message: fmt.Sprintf("Appending %d tracks...", len(plan.TracksToAdd)),
		Data:    plan,
	}
}
