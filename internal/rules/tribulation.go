package rules

import (
	"fmt"

	"github.com/ruqinhu/youxi/internal/models"
)

// Tribulation (enlightenment minigame) reward constants.
const (
	tribulationQiPerJump  = 5
	tribulationSpiritDiv  = 3
	tribulationGoodScore  = 5
	tribulationGreatScore = 10
)

// ApplyTribulationScore converts a finished soul-tribulation run into
// qi and spirit rewards. A score of zero changes nothing and yields a
// failure-flavored entry.
func ApplyTribulationScore(state models.PlayerState, score int) (models.PlayerState, models.LogEntry) {
	next := state.Clone()

	var entry models.LogEntry
	if score > 0 {
		qiReward := score * tribulationQiPerJump
		spiritReward := score / tribulationSpiritDiv

		next.CurrentQi = clamp(next.CurrentQi+qiReward, 0, next.MaxQi)
		next.Stats.Spirit += spiritReward

		comment := "你的心境略有起伏。"
		if score > tribulationGreatScore {
			comment = "神魂如游龙般穿梭于灵台之间，令人惊叹！"
		} else if score > tribulationGoodScore {
			comment = "你进入了物我两忘的境界。"
		}

		entry = models.NewLogEntry(fmt.Sprintf(
			"【神魂渡劫】你成功在灵台间跳跃了 %d 次。%s 获得灵气 +%d，神魂 +%d。",
			score, comment, qiReward, spiritReward), models.LogSystem)
	} else {
		entry = models.NewLogEntry("【神魂渡劫】心有杂念，刚一起步便坠入红尘。", models.LogSystem)
	}

	next.History = append(next.History, entry)
	return next, entry
}
