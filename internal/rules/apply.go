// Package rules implements the state-transition core: applying narrative
// outcomes, resolving dungeon encounters, and converting tribulation
// scores to rewards. Every function takes the player state by value and
// returns a replacement, so a session swap is always all-or-nothing.
package rules

import (
	"fmt"

	"github.com/ruqinhu/youxi/internal/models"
)

const breakthroughQiFraction = 0.2

// Apply folds an action outcome into the player state and returns the
// replacement state along with the log entries it produced. The entries
// are already appended to the returned state's history.
//
// Order matters: the qi delta is clamped to the current capacity first;
// a realm transition then recomputes the capacity and overrides qi to
// 20% of the new maximum, superseding the delta.
func Apply(state models.PlayerState, outcome models.ActionOutcome, imageURL string) (models.PlayerState, []models.LogEntry) {
	next := state.Clone()

	next.CurrentQi = clamp(next.CurrentQi+outcome.QiChange, 0, next.MaxQi)

	realmChanged := false
	if outcome.NewRealm != "" && outcome.NewRealm != next.Realm {
		next.Realm = outcome.NewRealm
		if cap, ok := outcome.NewRealm.QiCap(); ok {
			next.MaxQi = cap
		}
		next.CurrentQi = int(float64(next.MaxQi) * breakthroughQiFraction)
		realmChanged = true
	}

	// Stat deltas are not floored here. Only the dungeon and tribulation
	// penalty paths clamp stats at zero.
	next.Stats.Body += outcome.StatChanges.Body
	next.Stats.Spirit += outcome.StatChanges.Spirit
	next.Stats.DaoHeart += outcome.StatChanges.DaoHeart

	if outcome.ItemGained != "" {
		next.Inventory = append(next.Inventory, outcome.ItemGained)
	}

	var entries []models.LogEntry

	narrative := models.NewLogEntry(outcome.Narrative, models.LogNarrative)
	narrative.ImageURL = imageURL
	entries = append(entries, narrative)

	if realmChanged {
		entries = append(entries, models.NewLogEntry(
			fmt.Sprintf("境界突破成功！你已迈入 %s ！", next.Realm.Display()), models.LogSystem))
	}

	next.History = append(next.History, entries...)
	return next, entries
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
