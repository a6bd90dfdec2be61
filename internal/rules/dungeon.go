package rules

import (
	"fmt"

	"github.com/ruqinhu/youxi/internal/models"
	"github.com/ruqinhu/youxi/internal/rng"
)

// Dungeon resolution constants.
const (
	dungeonRewardQi       = 50
	dungeonRewardDaoHeart = 5
	dungeonRewardSpirit   = 2
	dungeonPenaltyQi      = 30
	dungeonPenaltySpirit  = 5

	dungeonBonusItem   = "未知维度碎片"
	dungeonBonusChance = 0.5
)

// ResolveDungeon judges the player's choice against the encounter's
// correct answer and applies the fixed reward or penalty. The resulting
// log entry carries the full encounter data and is appended to the
// returned state's history. Each encounter must be resolved exactly
// once; the caller clears its pending reference afterwards.
func ResolveDungeon(state models.PlayerState, dungeon models.DungeonData, chosenIndex int, imageURL string, r *rng.RNG) (models.PlayerState, models.LogEntry) {
	next := state.Clone()

	var text string
	if chosenIndex == dungeon.CorrectIndex {
		next.CurrentQi = clamp(next.CurrentQi+dungeonRewardQi, 0, next.MaxQi)
		next.Stats.DaoHeart += dungeonRewardDaoHeart
		next.Stats.Spirit += dungeonRewardSpirit
		if r.Chance(dungeonBonusChance) {
			next.Inventory = append(next.Inventory, dungeonBonusItem)
		}
		text = fmt.Sprintf("【系统结算】判定通过。你在博弈中占据了上风。\n奖励: %s\n(灵气 +%d, 道心 +%d)",
			dungeon.RewardText, dungeonRewardQi, dungeonRewardDaoHeart)
	} else {
		next.CurrentQi = clamp(next.CurrentQi-dungeonPenaltyQi, 0, next.MaxQi)
		next.Stats.Spirit = maxInt(next.Stats.Spirit-dungeonPenaltySpirit, 0)
		text = fmt.Sprintf("【系统结算】判定失败。你的策略导致了糟糕的后果。\n惩罚: %s\n(灵气 -%d, 神魂 -%d)",
			dungeon.PenaltyText, dungeonPenaltyQi, dungeonPenaltySpirit)
	}

	entry := models.NewLogEntry(text, models.LogDungeon)
	entry.ImageURL = imageURL
	d := dungeon
	entry.Dungeon = &d

	next.History = append(next.History, entry)
	return next, entry
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
