package tasks

import (
	"github.com/calegray/syncopate/internal/models"
)

// BuildPlan computes the delta to apply to a target playlist: every
// resolved candidate whose signature is not already present, in source
// order. Applying the plan and reconciling again yields an empty plan,
// which makes re-running a sync idempotent.
func BuildPlan(playlistID string, current, resolved []models.Candidate) models.SyncPlan {
	plan := models.SyncPlan{PlaylistID: playlistID}

	present := make(map[string]bool, len(current))
	for _, track := range current {
		present[models.Signature(track.Title, track.Artist)] = true
	}

	for _, track := range resolved {
		sig := models.Signature(track.Title, track.Artist)
		if present[sig] {
			continue
		}
		present[sig] = true
		plan.TracksToAdd = append(plan.TracksToAdd, track)
	}
	return plan
}
